// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package joinpred_test

import (
	"testing"

	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/joinpred"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/optparse"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

func keys(t *testing.T, rel memo.RelExpr, list ...string) []memo.ScalarExpr {
	t.Helper()
	res := make([]memo.ScalarExpr, len(list))
	for i, s := range list {
		e, err := optparse.ParseScalar(s, optparse.FieldTypes(rel.Fields()))
		require.NoError(t, err)
		res[i] = e
	}
	return res
}

func TestProjectNonColumnEquiConditions(t *testing.T) {
	m := memo.New()
	left, err := optparse.ParseRel(m, "scan a (x INT, y INT)")
	require.NoError(t, err)
	right, err := optparse.ParseRel(m, "scan b (z INT)")
	require.NoError(t, err)

	const sys = 1
	res := joinpred.ProjectNonColumnEquiConditions(
		m, left, right, keys(t, left, "$0", "$0 + 1"), keys(t, right, "$0", "5"), sys,
	)

	require.Equal(t, 1, res.Synthesized)
	require.Equal(t, "AND(=($1, $4), =($3, $5))", res.Condition.String())
	require.Equal(t, []int{0, 2}, res.LeftKeys)
	require.Equal(t, []int{0, 1}, res.RightKeys)

	// The synthesized pair is at the end of each input: position L of the
	// left input, and s+L+R+1 of the new join schema on the right side.
	eqs := memo.ExtractConjuncts(res.Condition)
	require.Len(t, eqs, 2)
	require.Equal(t, left.FieldCount(), res.LeftKeys[1])
	require.Equal(t, sys+left.FieldCount(), eqs[1].Child(0).(*memo.VariableExpr).Col)
	require.Equal(t, sys+left.FieldCount()+right.FieldCount()+1, eqs[1].Child(1).(*memo.VariableExpr).Col)

	require.Equal(t,
		"project $0 AS x, $1 AS y, +($0, 1) AS $f2\n └── scan a (x:INT, y:INT)\n",
		memo.FormatRel(res.Left, memo.ExprFmtHideIDs))
	require.Equal(t,
		"project $0 AS z, 5 AS $f1\n └── scan b (z:INT)\n",
		memo.FormatRel(res.Right, memo.ExprFmtHideIDs))
	require.Same(t, left, res.Left.Child(0))

	// A join of the new inputs can evaluate the condition.
	j := m.ConstructJoin(
		[]memo.RelExpr{res.Left, res.Right}, res.Condition,
		[]memo.Field{{Name: "s", Type: left.Fields()[0].Type}},
	)
	require.Equal(t, 1+3+2, j.FieldCount())
}

func TestProjectBareColumnsOnly(t *testing.T) {
	m := memo.New()
	left, err := optparse.ParseRel(m, "scan a (x INT, y INT)")
	require.NoError(t, err)
	right, err := optparse.ParseRel(m, "scan b (z INT, w INT)")
	require.NoError(t, err)

	res := joinpred.ProjectNonColumnEquiConditions(
		m, left, right, keys(t, left, "$1", "$0"), keys(t, right, "$0", "$1"), 0,
	)
	require.Zero(t, res.Synthesized)
	require.Same(t, left, res.Left)
	require.Same(t, right, res.Right)
	require.Equal(t, "AND(=($1, $2), =($0, $3))", res.Condition.String())
	require.Equal(t, []int{1, 0}, res.LeftKeys)
	require.Equal(t, []int{0, 1}, res.RightKeys)

	res = joinpred.ProjectNonColumnEquiConditions(m, left, right, nil, nil, 0)
	require.Nil(t, res.Condition)
	require.Empty(t, res.LeftKeys)
	require.Same(t, left, res.Left)

	res = joinpred.ProjectNonColumnEquiConditions(
		m, left, right, keys(t, left, "$1"), keys(t, right, "$0"), 2,
	)
	require.Equal(t, "=($3, $4)", res.Condition.String())
}

func TestProjectMismatchedKeysPanics(t *testing.T) {
	m := memo.New()
	left, err := optparse.ParseRel(m, "scan a (x INT)")
	require.NoError(t, err)
	require.Panics(t, func() {
		joinpred.ProjectNonColumnEquiConditions(m, left, left, keys(t, left, "$0"), nil, 0)
	})
}

func TestUniquify(t *testing.T) {
	require.Equal(t,
		[]string{"a", "$f1", "a0", "$f10", "a1", "b"},
		joinpred.Uniquify([]string{"a", "", "a", "$f1", "a", "b"}),
	)
	require.Equal(t, opt.UnnamedColumnPrefix+"0", joinpred.Uniquify([]string{""})[0])
}

func TestProjectKeyPositions(t *testing.T) {
	type positions struct {
		Left, Right []int
		Synthesized int
	}
	testCases := []struct {
		left, right []string
		expected    positions
	}{
		{
			left:     []string{"$1"},
			right:    []string{"$0"},
			expected: positions{Left: []int{1}, Right: []int{0}},
		},
		{
			// Bare pairs come first whatever their order in the lists.
			left:     []string{"$0 + 1", "$1"},
			right:    []string{"$1", "$0"},
			expected: positions{Left: []int{1, 2}, Right: []int{0, 2}, Synthesized: 1},
		},
		{
			left:     []string{"$0 + 1", "$1 * 2"},
			right:    []string{"$1", "$0"},
			expected: positions{Left: []int{2, 3}, Right: []int{2, 3}, Synthesized: 2},
		},
		{},
	}
	for i, c := range testCases {
		m := memo.New()
		left, err := optparse.ParseRel(m, "scan a (x INT, y INT)")
		require.NoError(t, err)
		right, err := optparse.ParseRel(m, "scan b (z INT, w INT)")
		require.NoError(t, err)

		res := joinpred.ProjectNonColumnEquiConditions(
			m, left, right, keys(t, left, c.left...), keys(t, right, c.right...), 0, /* systemColCount */
		)
		got := positions{Left: res.LeftKeys, Right: res.RightKeys, Synthesized: res.Synthesized}
		if diff := pretty.Diff(c.expected, got); len(diff) > 0 {
			t.Errorf("%d: %s", i, diff)
		}
	}
}
