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
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// PredicateSet is a set of predicates identified by their printed form.
// Predicates that print differently are distinct members even when they are
// logically equivalent.
type PredicateSet map[string]struct{}

// MakePredicateSet returns a set containing the given predicates.
func MakePredicateSet(preds []memo.ScalarExpr) PredicateSet {
	s := make(PredicateSet, len(preds))
	for _, p := range preds {
		s.Add(p)
	}
	return s
}

// Add inserts p into the set.
func (s PredicateSet) Add(p memo.ScalarExpr) {
	s[p.String()] = struct{}{}
}

// Contains returns true if a predicate that prints like p is in the set.
func (s PredicateSet) Contains(p memo.ScalarExpr) bool {
	_, ok := s[p.String()]
	return ok
}

// PreFilter is the result of a successful prefiltering rewrite of a filter
// condition. The rewritten plan applies Pushed directly above the filter's
// input and Original above that.
type PreFilter struct {
	// Pushed is the conjunction of the new factors.
	Pushed memo.ScalarExpr
	// Original is the unmodified filter condition.
	Original memo.ScalarExpr
}

// TryPreFilter extracts, from each disjunction in condition, the factors
// that constrain a column shared by every branch, and returns their
// conjunction as a new, more selective filter that is implied by condition.
// Factors found in known are dropped. It returns false if no new factor
// could be found. For example:
//
//	($0 = 1 AND $1 = 2) OR ($0 = 3 AND $1 = 4)
//
// yields
//
//	OR(=($0, 1), =($0, 3)) AND OR(=($1, 2), =($1, 4))
func (c *CustomFuncs) TryPreFilter(
	condition memo.ScalarExpr, known PredicateSet,
) (PreFilter, bool) {
	pulled := PullFactors(condition)

	var factors []memo.ScalarExpr
	switch pulled.Op() {
	case opt.AndOp:
		for _, conjunct := range Conjunctions(pulled) {
			if conjunct.Op() == opt.OrOp {
				factors = append(factors, c.ExtractCommonFactors(conjunct)...)
			}
		}

	case opt.OrOp:
		factors = c.ExtractCommonFactors(pulled)

	default:
		return PreFilter{}, false
	}

	fresh := factors[:0:0]
	for _, f := range factors {
		if !known.Contains(f) {
			fresh = append(fresh, f)
		}
	}
	if len(fresh) == 0 {
		return PreFilter{}, false
	}
	return PreFilter{
		Pushed:   PullFactors(ComposeConjunction(fresh...)),
		Original: condition,
	}, true
}

// ExtractCommonFactors returns, for every column that is constrained in all
// branches of the given disjunction, the disjunction of the constraints on
// that column across the branches.
//
// Each branch is converted to CNF and each of its conjuncts must have one of
// these shapes, keyed by the printed form of the constrained expression:
//
//	$n <cmp> literal, literal <cmp> $n   (=, <>, <, <=, >, >=; key $n)
//	IN(key, ...)
//	BETWEEN(invert, key, low, high)
//
// Any other conjunct, or a set of branches without a key common to all of
// them, yields no factors. The factors follow the order of the keys in the
// first branch; constraints within a factor keep their branch order and are
// not deduplicated.
func (c *CustomFuncs) ExtractCommonFactors(or memo.ScalarExpr) []memo.ScalarExpr {
	if or.Op() != opt.OrOp {
		panic(errors.AssertionFailedf("expected OR, got %s", or.Op()))
	}
	disjuncts := Disjunctions(or)
	if len(disjuncts) == 0 {
		return nil
	}

	// byKey maps each key to the conjuncts that constrain it, across all
	// branches, in insertion order.
	byKey := linkedhashmap.New()
	// common is the ordered set of keys present in every branch so far.
	var common *linkedhashmap.Map

	for i, d := range disjuncts {
		cnf, _ := c.ToCNF(d)
		current := linkedhashmap.New()
		for _, conjunct := range Conjunctions(cnf) {
			key, ok := factorKey(conjunct)
			if !ok {
				return nil
			}
			s := key.String()
			var list []memo.ScalarExpr
			if prev, found := byKey.Get(s); found {
				list = prev.([]memo.ScalarExpr)
			}
			byKey.Put(s, append(list, conjunct))
			current.Put(s, struct{}{})
		}

		if i == 0 {
			common = current
		} else {
			for _, k := range common.Keys() {
				if _, found := current.Get(k); !found {
					common.Remove(k)
				}
			}
		}
		if common.Empty() {
			return nil
		}
	}

	factors := make([]memo.ScalarExpr, 0, common.Size())
	for _, k := range common.Keys() {
		list, _ := byKey.Get(k)
		factors = append(factors, ComposeDisjunction(list.([]memo.ScalarExpr)...))
	}
	return factors
}

// factorKey returns the constrained expression of a conjunct that
// ExtractCommonFactors can use, and false for any other shape.
func factorKey(conjunct memo.ScalarExpr) (memo.ScalarExpr, bool) {
	call, ok := conjunct.(*memo.CallExpr)
	if !ok {
		return nil, false
	}
	switch op := call.Op(); {
	case opt.IsComparisonOp(op):
		left, right := call.Args[0], call.Args[1]
		if isVariable(left) && isConst(right) {
			return left, true
		}
		if isVariable(right) && isConst(left) {
			return right, true
		}
		return nil, false

	case op == opt.InOp:
		return call.Args[0], true

	case op == opt.BetweenOp:
		return call.Args[1], true
	}
	return nil, false
}

func isVariable(e memo.ScalarExpr) bool {
	_, ok := e.(*memo.VariableExpr)
	return ok
}

func isConst(e memo.ScalarExpr) bool {
	_, ok := e.(*memo.ConstExpr)
	return ok
}
