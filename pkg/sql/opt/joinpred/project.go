// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package joinpred

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/redact"
)

// ProjectFactory builds projections. It is implemented by *memo.Memo.
type ProjectFactory interface {
	ConstructProject(input memo.RelExpr, projections []memo.ScalarExpr, names []string) memo.RelExpr
}

var _ ProjectFactory = &memo.Memo{}

// EquiProjection is the result of ProjectNonColumnEquiConditions.
type EquiProjection struct {
	// Condition is the conjunction of the equalities between the key columns,
	// addressed in the schema of a join of Left and Right with the same
	// system columns. It is nil if there are no keys.
	Condition memo.ScalarExpr

	// LeftKeys and RightKeys are the key column positions in the child schema
	// of Left and Right, pair by pair.
	LeftKeys  []int
	RightKeys []int

	// Left and Right are the join inputs. They are the original inputs unless
	// key columns had to be synthesized.
	Left  memo.RelExpr
	Right memo.RelExpr

	// Synthesized is the number of key columns appended to each input.
	Synthesized int
}

// ProjectNonColumnEquiConditions rewrites the equi-join keys given as
// parallel lists of key expressions, in the child schema of left and right,
// into pairs of key columns.
//
// Pairs in which both keys are bare columns keep those columns. For each
// other pair, in order, the left and right keys are appended to left and
// right as new unnamed columns, and both inputs are replaced by projections.
// The equalities between original columns come first in the condition,
// followed by those between synthesized columns. With L and R the original
// field counts, k synthesized pairs and s system columns:
//
//	original pair (l, r):  $(s+l) = $(s+L+k+r)
//	synthesized pair i:    $(s+L+i) = $(s+L+R+k+i)
func ProjectNonColumnEquiConditions(
	f ProjectFactory,
	left, right memo.RelExpr,
	leftKeys, rightKeys []memo.ScalarExpr,
	systemColCount int,
) EquiProjection {
	if len(leftKeys) != len(rightKeys) {
		panic(errors.AssertionFailedf(
			"mismatched join key lists: %d left keys, %d right keys",
			redact.Safe(len(leftKeys)), redact.Safe(len(rightKeys)),
		))
	}

	type colPair struct{ left, right *memo.VariableExpr }
	var originals []colPair
	var newLeft, newRight []memo.ScalarExpr
	for i := range leftKeys {
		l, lok := leftKeys[i].(*memo.VariableExpr)
		r, rok := rightKeys[i].(*memo.VariableExpr)
		if lok && rok {
			originals = append(originals, colPair{left: l, right: r})
			continue
		}
		newLeft = append(newLeft, leftKeys[i])
		newRight = append(newRight, rightKeys[i])
	}

	leftFields, rightFields := left.Fields(), right.Fields()
	leftCount, rightCount := len(leftFields), len(rightFields)
	k := len(newLeft)

	res := EquiProjection{Left: left, Right: right, Synthesized: k}
	eqs := make([]memo.ScalarExpr, 0, len(leftKeys))
	for _, p := range originals {
		res.LeftKeys = append(res.LeftKeys, p.left.Col)
		res.RightKeys = append(res.RightKeys, p.right.Col)
		eqs = append(eqs, norm.ConstructEq(
			memo.NewVariable(systemColCount+p.left.Col, leftFields[p.left.Col].Type),
			memo.NewVariable(systemColCount+leftCount+k+p.right.Col, rightFields[p.right.Col].Type),
		))
	}
	for i := 0; i < k; i++ {
		res.LeftKeys = append(res.LeftKeys, leftCount+i)
		res.RightKeys = append(res.RightKeys, rightCount+i)
		eqs = append(eqs, norm.ConstructEq(
			memo.NewVariable(systemColCount+leftCount+i, newLeft[i].DataType()),
			memo.NewVariable(systemColCount+leftCount+rightCount+k+i, newRight[i].DataType()),
		))
	}
	if len(eqs) > 0 {
		res.Condition = norm.ComposeConjunction(eqs...)
	}

	if k > 0 {
		res.Left = appendColumns(f, left, newLeft)
		res.Right = appendColumns(f, right, newRight)
	}
	return res
}

// appendColumns returns a projection of every column of input followed by
// the given expressions.
func appendColumns(f ProjectFactory, input memo.RelExpr, exprs []memo.ScalarExpr) memo.RelExpr {
	fields := input.Fields()
	projections := make([]memo.ScalarExpr, 0, len(fields)+len(exprs))
	names := make([]string, 0, len(fields)+len(exprs))
	for i, fld := range fields {
		projections = append(projections, memo.NewVariable(i, fld.Type))
		names = append(names, fld.Name)
	}
	for _, e := range exprs {
		projections = append(projections, e)
		names = append(names, "")
	}
	return f.ConstructProject(input, projections, Uniquify(names))
}

// Uniquify returns a copy of names in which every name is distinct. An empty
// name at index i becomes opt.UnnamedColumnPrefix followed by i. A name that
// was already used gets the smallest numeric suffix that makes it unique.
func Uniquify(names []string) []string {
	res := make([]string, len(names))
	used := make(map[string]struct{}, len(names))
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("%s%d", opt.UnnamedColumnPrefix, i)
		}
		candidate := name
		for attempt := 0; ; attempt++ {
			if _, ok := used[candidate]; !ok {
				break
			}
			candidate = fmt.Sprintf("%s%d", name, attempt)
		}
		used[candidate] = struct{}{}
		res[i] = candidate
	}
	return res
}
