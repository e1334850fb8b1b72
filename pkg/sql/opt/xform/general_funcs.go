// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package xform contains the rewrite rules and the driver that applies them
// to a relational tree until no rule fires.
package xform

import (
	"github.com/cockroachdb/optpred/pkg/sql/opt/joinpred"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
)

// CustomFuncs contains the match and replace functions used by the rules.
// The unnamed norm.CustomFuncs allows CustomFuncs to provide a clean
// interface for calling functions from both the xform and norm packages
// using the same struct.
type CustomFuncs struct {
	norm.CustomFuncs
	rc *RewriteContext
}

// Init initializes a new CustomFuncs with the given rewrite context.
func (c *CustomFuncs) Init(rc *RewriteContext) {
	// This initialization pattern ensures that fields are not unwittingly
	// reused. Field reuse must be explicit.
	*c = CustomFuncs{
		rc: rc,
	}
	c.CustomFuncs.Init(int(CNFMaxNodeCount.Get(rc.settings)))
}

// IsScan returns true if e is a bare table scan.
func (c *CustomFuncs) IsScan(e memo.RelExpr) bool {
	_, ok := e.(*memo.ScanExpr)
	return ok
}

// KnownPredicates returns the predicates that already hold for every row of
// e.
func (c *CustomFuncs) KnownPredicates(e memo.RelExpr) norm.PredicateSet {
	return norm.MakePredicateSet(memo.PulledUpPredicates(e))
}

// IsBinaryJoinWithCondition returns true if j has exactly two inputs, no
// system columns and a join condition.
func (c *CustomFuncs) IsBinaryJoinWithCondition(j *memo.JoinExpr) bool {
	return len(j.Inputs) == 2 && len(j.SystemFields) == 0 && j.On != nil
}

// EquiJoinKeys returns the key expressions of the equi-join leaves of a
// binary join, as parallel lists in the child schema of each input.
func (c *CustomFuncs) EquiJoinKeys(info *joinpred.JoinPredicateInfo) (left, right []memo.ScalarExpr) {
	for _, leaf := range info.EquiLeaves() {
		left = append(left, leaf.LeftJoinKeys()...)
		right = append(right, leaf.RightJoinKeys()...)
	}
	return left, right
}

// ShiftRightColumns moves the references to columns at or after position
// from by delta.
func (c *CustomFuncs) ShiftRightColumns(e memo.ScalarExpr, from, delta int) memo.ScalarExpr {
	if delta == 0 {
		return e
	}
	return memo.RemapColumns(e, func(v *memo.VariableExpr) memo.ScalarExpr {
		if v.Col < from {
			return v
		}
		return memo.NewVariable(v.Col+delta, v.Typ)
	})
}

// PassthroughProjection returns the projections and names that map the
// fields of a join of left and right, after delta columns were appended to
// the left input, back to the original join fields.
func (c *CustomFuncs) PassthroughProjection(
	fields []memo.Field, leftCount, delta int,
) ([]memo.ScalarExpr, []string) {
	projections := make([]memo.ScalarExpr, len(fields))
	names := make([]string, len(fields))
	for i, f := range fields {
		col := i
		if i >= leftCount {
			col += delta
		}
		projections[i] = memo.NewVariable(col, f.Type)
		names[i] = f.Name
	}
	return projections, names
}
