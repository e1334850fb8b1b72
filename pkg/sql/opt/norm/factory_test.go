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

	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

// TestConstructors tests the constructors that build calls without
// simplifying them. The Compose variants are tested with the other boolean
// rewrites.
func TestConstructors(t *testing.T) {
	x := memo.NewVariable(0, types.Int)
	one := memo.NewConst(int64(1), types.Int)

	eq := norm.ConstructEq(x, one)
	require.Equal(t, opt.EqOp, eq.Op())
	require.Equal(t, "=($0, 1)", eq.String())

	// AND and OR keep nested and constant operands.
	and := norm.ConstructAnd(eq, norm.ConstructAnd(eq, memo.TrueSingleton))
	require.Equal(t, opt.AndOp, and.Op())
	require.Equal(t, 2, and.ChildCount())
	or := norm.ConstructOr(eq, eq)
	require.Equal(t, opt.OrOp, or.Op())
	require.Equal(t, 2, or.ChildCount())
	require.Panics(t, func() { norm.ConstructOr(eq) })

	not := norm.ConstructNot(eq)
	require.Equal(t, opt.NotOp, not.Op())
	require.Same(t, eq, not.Child(0))

	for _, op := range []opt.Operator{opt.EqOp, opt.NeOp, opt.LtOp, opt.LeOp, opt.GtOp, opt.GeOp} {
		require.Equal(t, op, norm.ConstructComparison(op, x, one).Op())
	}
	require.Panics(t, func() { norm.ConstructComparison(opt.PlusOp, x, one) })
}

func TestConstructCast(t *testing.T) {
	x := memo.NewVariable(0, types.Int)
	require.Same(t, x, norm.ConstructCast(x, types.Int))

	cast := norm.ConstructCast(x, types.Decimal)
	require.Equal(t, opt.CastOp, cast.Op())
	require.True(t, cast.DataType().Identical(types.Decimal))
	require.Same(t, x, cast.Child(0))
}
