// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
)

// This file contains various helper functions that extract useful information
// from expressions.

// ColumnRefs returns the positions of all columns referenced anywhere in e,
// including inside nested calls and window clauses.
func ColumnRefs(e ScalarExpr) opt.ColSet {
	var cols opt.ColSet
	Walk(e, func(e ScalarExpr) WalkResult {
		if v, ok := e.(*VariableExpr); ok {
			cols.Add(v.Col)
		}
		return WalkContinue
	})
	return cols
}

// ExtractConjuncts returns the operands of e's top-level AND tree, flattening
// nested ANDs in order. A TRUE literal yields no conjuncts and any other
// expression yields itself.
func ExtractConjuncts(e ScalarExpr) []ScalarExpr {
	return appendFlattened(nil, e, opt.AndOp)
}

// ExtractDisjuncts is the OR counterpart of ExtractConjuncts. A FALSE literal
// yields no disjuncts.
func ExtractDisjuncts(e ScalarExpr) []ScalarExpr {
	return appendFlattened(nil, e, opt.OrOp)
}

func appendFlattened(list []ScalarExpr, e ScalarExpr, op opt.Operator) []ScalarExpr {
	if op == opt.AndOp && IsTrue(e) || op == opt.OrOp && IsFalse(e) {
		return list
	}
	if e.Op() != op {
		return append(list, e)
	}
	for i, n := 0, e.ChildCount(); i < n; i++ {
		list = appendFlattened(list, e.Child(i), op)
	}
	return list
}

// RemapColumns returns e with every column reference replaced by the result
// of remap. Subtrees without column references are shared with e.
func RemapColumns(e ScalarExpr, remap func(v *VariableExpr) ScalarExpr) ScalarExpr {
	if v, ok := e.(*VariableExpr); ok {
		return remap(v)
	}
	n := e.ChildCount()
	if n == 0 {
		return e
	}
	children := make([]ScalarExpr, n)
	for i := range children {
		children[i] = RemapColumns(e.Child(i), remap)
	}
	return WithChildren(e, children)
}

// ShiftColumns returns e with every column position moved by delta.
func ShiftColumns(e ScalarExpr, delta int) ScalarExpr {
	if delta == 0 {
		return e
	}
	return RemapColumns(e, func(v *VariableExpr) ScalarExpr {
		return NewVariable(v.Col+delta, v.Typ)
	})
}

// ExtractConstValue returns the value of a literal. It panics if e is not a
// literal.
func ExtractConstValue(e ScalarExpr) interface{} {
	if c, ok := e.(*ConstExpr); ok {
		return c.Value
	}
	panic(errors.AssertionFailedf("non-const expression: %s", e))
}
