// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package norm_test

import (
	"testing"

	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/sql/opt/optparse"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

var intCols = []*types.T{types.Int, types.Int, types.Int, types.Int}

func parse(t *testing.T, s string) memo.ScalarExpr {
	t.Helper()
	e, err := optparse.ParseScalar(s, intCols)
	require.NoError(t, err)
	return e
}

func strs(list []memo.ScalarExpr) []string {
	res := make([]string, len(list))
	for i := range list {
		res[i] = list[i].String()
	}
	return res
}

func TestComposeConjunction(t *testing.T) {
	a, b := parse(t, "$0 = 1"), parse(t, "$1 = 2")

	require.Same(t, memo.TrueSingleton, norm.ComposeConjunction())
	require.Same(t, a, norm.ComposeConjunction(a))
	require.Same(t, a, norm.ComposeConjunction(memo.TrueSingleton, a))
	require.Same(t, memo.FalseSingleton, norm.ComposeConjunction(a, memo.FalseSingleton, b))
	require.Equal(t, "AND(=($0, 1), =($1, 2), =($0, 1))",
		norm.ComposeConjunction(norm.ConstructAnd(a, b), a).String())

	require.Same(t, memo.FalseSingleton, norm.ComposeDisjunction())
	require.Same(t, b, norm.ComposeDisjunction(memo.FalseSingleton, b))
	require.Same(t, memo.TrueSingleton, norm.ComposeDisjunction(a, memo.TrueSingleton))
	require.Equal(t, "OR(=($0, 1), =($1, 2))", norm.ComposeDisjunction(a, b).String())
}

func TestFlatten(t *testing.T) {
	testCases := []struct{ in, out string }{
		{in: "($0 = 1 AND ($1 = 2 AND $2 = 3)) AND $3 = 4", out: "AND(=($0, 1), =($1, 2), =($2, 3), =($3, 4))"},
		{in: "NOT (($0 = 1 OR $1 = 2) OR $2 = 3)", out: "NOT(OR(=($0, 1), =($1, 2), =($2, 3)))"},
		{in: "($0 = 1 OR $1 = 2) AND ($2 = 3 OR ($3 = 4 OR $0 = 5))", out: "AND(OR(=($0, 1), =($1, 2)), OR(=($2, 3), =($3, 4), =($0, 5)))"},
		{in: "$0 = 1 AND true", out: "=($0, 1)"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.out, norm.Flatten(parse(t, tc.in)).String())
		})
	}

	flat := parse(t, "$0 = 1 AND $1 = 2")
	require.Same(t, flat, norm.Flatten(flat))
}

func TestPullFactors(t *testing.T) {
	testCases := []struct{ in, out string }{
		{
			in:  "($0 = 1 AND $1 = 2) OR ($0 = 1 AND $1 = 3)",
			out: "AND(=($0, 1), OR(=($1, 2), =($1, 3)))",
		},
		{
			in:  "($0 = 1 AND $1 = 2) OR ($0 = 1 AND $1 = 2 AND $2 = 3)",
			out: "AND(=($0, 1), =($1, 2))",
		},
		{
			in:  "$0 = 1 OR $1 = 2",
			out: "OR(=($0, 1), =($1, 2))",
		},
		{
			in:  "$2 > 0 AND (($0 = 1 AND $1 = 2) OR ($1 = 2 AND $0 = 5))",
			out: "AND(>($2, 0), =($1, 2), OR(=($0, 1), =($0, 5)))",
		},
		{
			in:  "$0 = 1 OR ($0 = 1 AND $1 = 2)",
			out: "=($0, 1)",
		},
		{
			in:  "($0 = 1 AND (($1 = 1 AND $2 = 1) OR ($1 = 1 AND $2 = 2))) OR ($0 = 1 AND $1 = 1)",
			out: "AND(=($0, 1), =($1, 1))",
		},
		{
			in:  "$0 = 1",
			out: "=($0, 1)",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.out, norm.PullFactors(parse(t, tc.in)).String())
		})
	}
}

func TestToCNF(t *testing.T) {
	var c norm.CustomFuncs
	c.Init(0 /* cnfMaxNodes */)

	testCases := []struct{ in, out string }{
		{
			in:  "($0 = 1 AND $1 = 2) OR $2 = 3",
			out: "AND(OR(=($0, 1), =($2, 3)), OR(=($1, 2), =($2, 3)))",
		},
		{
			in:  "NOT ($0 = 1 OR $1 = 2)",
			out: "AND(NOT(=($0, 1)), NOT(=($1, 2)))",
		},
		{
			in:  "NOT NOT $0 = 1",
			out: "=($0, 1)",
		},
		{
			in:  "NOT ($0 = 1 AND ($1 = 2 OR $2 = 3))",
			out: "AND(OR(NOT(=($0, 1)), NOT(=($1, 2))), OR(NOT(=($0, 1)), NOT(=($2, 3))))",
		},
		{
			in:  "$0 = 1 AND ($1 = 2 OR $2 = 3)",
			out: "AND(=($0, 1), OR(=($1, 2), =($2, 3)))",
		},
		{
			in:  "NOT $0 IN (1, 2)",
			out: "NOT(IN($0, 1, 2))",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			res, ok := c.ToCNF(parse(t, tc.in))
			require.True(t, ok)
			require.Equal(t, tc.out, res.String())
		})
	}
}

func TestToCNFLimit(t *testing.T) {
	e := parse(t, "($0 = 1 AND $1 = 1) OR ($0 = 2 AND $1 = 2) OR ($0 = 3 AND $1 = 3)")

	var c norm.CustomFuncs
	c.Init(0 /* cnfMaxNodes */)
	res, ok := c.ToCNF(e)
	require.True(t, ok)
	require.Len(t, norm.Conjunctions(res), 8)

	c.Init(4 /* cnfMaxNodes */)
	res, ok = c.ToCNF(e)
	require.False(t, ok)
	require.Same(t, e, res)
}
