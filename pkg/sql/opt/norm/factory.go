// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package norm contains the pure functions that normalize and analyze
// boolean and scalar expressions: conjunct and disjunct flattening, CNF
// conversion, common factor pulling, determinism and constant analysis, and
// the extraction of disjunction factors used by the prefiltering rule.
package norm

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/types"
)

// ConstructAnd returns the conjunction of the given operands. Unlike
// ComposeConjunction it does not simplify: it always builds an AND call.
func ConstructAnd(args ...memo.ScalarExpr) memo.ScalarExpr {
	return memo.NewCall(memo.AndFn, types.Bool, args...)
}

// ConstructOr returns the disjunction of the given operands without
// simplification.
func ConstructOr(args ...memo.ScalarExpr) memo.ScalarExpr {
	return memo.NewCall(memo.OrFn, types.Bool, args...)
}

// ConstructNot returns the negation of e.
func ConstructNot(e memo.ScalarExpr) memo.ScalarExpr {
	return memo.NewCall(memo.NotFn, types.Bool, e)
}

// ConstructComparison returns a comparison of left and right with one of the
// six comparison operators.
func ConstructComparison(op opt.Operator, left, right memo.ScalarExpr) memo.ScalarExpr {
	if !opt.IsComparisonOp(op) {
		panic(errors.AssertionFailedf("%s is not a comparison operator", op))
	}
	return memo.NewCall(memo.OperatorFunction(op), types.Bool, left, right)
}

// ConstructEq returns left = right.
func ConstructEq(left, right memo.ScalarExpr) memo.ScalarExpr {
	return memo.NewCall(memo.EqFn, types.Bool, left, right)
}

// ConstructCast returns e converted to typ. If e already has type typ, e is
// returned.
func ConstructCast(e memo.ScalarExpr, typ *types.T) memo.ScalarExpr {
	if e.DataType().Identical(typ) {
		return e
	}
	return memo.NewCall(memo.CastFn, typ, e)
}

// ComposeConjunction returns the AND of the given operands with the obvious
// simplifications applied: nested ANDs are flattened, TRUE operands are
// dropped, and any FALSE operand makes the result FALSE. No operands yield
// TRUE and a single operand yields itself. Operands are not deduplicated.
func ComposeConjunction(args ...memo.ScalarExpr) memo.ScalarExpr {
	var flat []memo.ScalarExpr
	for _, arg := range args {
		for _, c := range memo.ExtractConjuncts(arg) {
			if memo.IsFalse(c) {
				return memo.FalseSingleton
			}
			flat = append(flat, c)
		}
	}
	switch len(flat) {
	case 0:
		return memo.TrueSingleton
	case 1:
		return flat[0]
	}
	return ConstructAnd(flat...)
}

// ComposeDisjunction is the OR counterpart of ComposeConjunction: FALSE
// operands are dropped, any TRUE operand makes the result TRUE, and no
// operands yield FALSE.
func ComposeDisjunction(args ...memo.ScalarExpr) memo.ScalarExpr {
	var flat []memo.ScalarExpr
	for _, arg := range args {
		for _, d := range memo.ExtractDisjuncts(arg) {
			if memo.IsTrue(d) {
				return memo.TrueSingleton
			}
			flat = append(flat, d)
		}
	}
	switch len(flat) {
	case 0:
		return memo.FalseSingleton
	case 1:
		return flat[0]
	}
	return ConstructOr(flat...)
}
