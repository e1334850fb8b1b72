// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package norm

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
)

// CustomFuncs contains the normalization functions that depend on session
// settings. The functions that do not are package-level.
type CustomFuncs struct {
	// cnfMaxNodes bounds the number of call nodes CNF conversion may build.
	// Zero means unlimited.
	cnfMaxNodes int
}

// Init initializes a new CustomFuncs. cnfMaxNodes bounds CNF conversion; zero
// means unlimited.
func (c *CustomFuncs) Init(cnfMaxNodes int) {
	// This initialization pattern ensures that fields are not unwittingly
	// reused. Field reuse must be explicit.
	*c = CustomFuncs{
		cnfMaxNodes: cnfMaxNodes,
	}
}

// ----------------------------------------------------------------------
//
// Scalar analysis functions
//   General functions used to inspect scalar expressions.
//
// ----------------------------------------------------------------------

// IsDeterministic returns false if e calls a non-deterministic function at
// any depth. The walk ends at the first such call.
func IsDeterministic(e memo.ScalarExpr) bool {
	return !memo.Any(e, func(e memo.ScalarExpr) bool {
		switch t := e.(type) {
		case *memo.CallExpr:
			return !t.Fn.Deterministic
		case *memo.WindowExpr:
			return !t.Fn.Deterministic
		}
		return false
	})
}

// IsConstant returns true if e evaluates to the same value for every row:
//
//   - literals are constant;
//   - column, correlation, placeholder, range references and window
//     expressions are not;
//   - a call is constant if its function is deterministic and all of its
//     operands are constant;
//   - a field access is constant if its input is.
func IsConstant(e memo.ScalarExpr) bool {
	switch t := e.(type) {
	case *memo.ConstExpr:
		return true

	case *memo.VariableExpr, *memo.CorrelationExpr, *memo.PlaceholderExpr,
		*memo.RangeRefExpr, *memo.WindowExpr:
		return false

	case *memo.CallExpr:
		if !t.Fn.Deterministic {
			return false
		}
		for _, arg := range t.Args {
			if !IsConstant(arg) {
				return false
			}
		}
		return true

	case *memo.FieldAccessExpr:
		return IsConstant(t.Input)

	default:
		panic(errors.AssertionFailedf("unhandled scalar expression %T", e))
	}
}

// InputRefs returns the positions of all columns referenced by e at any
// depth.
func InputRefs(e memo.ScalarExpr) opt.ColSet {
	return memo.ColumnRefs(e)
}

// ShiftVariables returns e with every column reference moved by delta.
// Subtrees without column references are shared with e.
func ShiftVariables(e memo.ScalarExpr, delta int) memo.ScalarExpr {
	return memo.ShiftColumns(e, delta)
}

// VirtualCols returns the positions of the projections that are not bare
// column references.
func VirtualCols(projections []memo.ScalarExpr) opt.ColSet {
	var cols opt.ColSet
	for i, p := range projections {
		if _, ok := p.(*memo.VariableExpr); !ok {
			cols.Add(i)
		}
	}
	return cols
}

// ProjectionColumnRefs returns the input columns referenced by any of the
// projections.
func ProjectionColumnRefs(projections []memo.ScalarExpr) opt.ColSet {
	var cols opt.ColSet
	for _, p := range projections {
		cols.UnionWith(memo.ColumnRefs(p))
	}
	return cols
}
