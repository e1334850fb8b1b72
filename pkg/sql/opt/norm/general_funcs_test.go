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
	"math/rand"
	"testing"

	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestIsDeterministic(t *testing.T) {
	testCases := []struct {
		in  string
		out bool
	}{
		{in: "random() > 0.5", out: false},
		{in: "$0 + abs($1) > 2", out: true},
		{in: "lower(uuid()) = 'a'", out: false},
		{in: "sum($0) OVER ()", out: true},
		{in: "$0 = 1 AND ($1 = 2 OR $2 > random())", out: false},
		{in: "1", out: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.out, norm.IsDeterministic(parse(t, tc.in)))
		})
	}
}

func TestIsConstant(t *testing.T) {
	testCases := []struct {
		in  string
		out bool
	}{
		{in: "1 + 2", out: true},
		{in: "$0 + 1", out: false},
		{in: "abs(-1)", out: true},
		{in: "random()", out: false},
		{in: "$cor0.f", out: false},
		{in: "?0", out: false},
		{in: "RANGE($0)", out: false},
		{in: "sum(1) OVER ()", out: false},
		{in: "CAST('1' AS INT) = 1", out: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.out, norm.IsConstant(parse(t, tc.in)))
		})
	}

	fa := &memo.FieldAccessExpr{Input: memo.NewConst("x", types.String), Field: "f", Typ: types.String}
	require.True(t, norm.IsConstant(fa))
}

func TestProjectionCols(t *testing.T) {
	projections := []memo.ScalarExpr{
		parse(t, "$0"), parse(t, "$0 + 1"), parse(t, "$1"), parse(t, "abs($3)"),
	}
	require.Equal(t, "(1,3)", norm.VirtualCols(projections).String())
	require.Equal(t, "(0,1,3)", norm.ProjectionColumnRefs(projections).String())

	e := parse(t, "$0 = $2")
	require.Equal(t, "(0,2)", norm.InputRefs(e).String())
	require.Equal(t, "=($3, $5)", norm.ShiftVariables(e, 3).String())
}

// randomScalar builds a random boolean or integer expression tree from the
// given source. nonDet reports whether a non-deterministic call was placed
// anywhere in the tree.
func randomScalar(rng *rand.Rand, depth int) (e memo.ScalarExpr, nonDet bool) {
	if depth == 0 || rng.Intn(4) == 0 {
		switch rng.Intn(3) {
		case 0:
			return memo.NewConst(int64(rng.Intn(10)), types.Int), false
		case 1:
			return memo.NewVariable(rng.Intn(4), types.Int), false
		default:
			return &memo.PlaceholderExpr{Index: rng.Intn(3), Typ: types.Int}, false
		}
	}
	left, nd1 := randomScalar(rng, depth-1)
	right, nd2 := randomScalar(rng, depth-1)
	switch rng.Intn(5) {
	case 0:
		return memo.NewCall(memo.PlusFn, types.Int, left, right), nd1 || nd2
	case 1:
		return memo.NewCall(memo.NewFunction("abs"), types.Int, left), nd1
	case 2:
		return memo.NewCall(memo.NewFunction("random"), types.Float), true
	case 3:
		fn := memo.NewFunction("greatest")
		if rng.Intn(2) == 0 {
			fn = memo.NewFunction("rand")
		}
		return memo.NewCall(fn, types.Int, left, right), !fn.Deterministic || nd1 || nd2
	default:
		return memo.NewCall(memo.MultFn, types.Int, left, right), nd1 || nd2
	}
}

func TestIsDeterministicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("non-deterministic call at any depth is detected", prop.ForAll(
		func(seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			e, nonDet := randomScalar(rng, 6)
			return norm.IsDeterministic(e) == !nonDet
		},
		gen.Int64(),
	))

	properties.Property("an all-deterministic tree is constant iff it has no references", prop.ForAll(
		func(seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			e, nonDet := randomScalar(rng, 5)
			if nonDet {
				return !norm.IsConstant(e) || !norm.IsDeterministic(e)
			}
			hasRefs := memo.Any(e, func(e memo.ScalarExpr) bool {
				switch e.(type) {
				case *memo.VariableExpr, *memo.PlaceholderExpr:
					return true
				}
				return false
			})
			return norm.IsConstant(e) == !hasRefs
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
