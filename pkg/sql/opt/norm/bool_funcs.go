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
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
)

// Conjunctions returns the top-level conjuncts of e. Nested ANDs are
// flattened in order and a TRUE literal yields no conjuncts.
func Conjunctions(e memo.ScalarExpr) []memo.ScalarExpr {
	return memo.ExtractConjuncts(e)
}

// Disjunctions returns the top-level disjuncts of e. Nested ORs are
// flattened in order and a FALSE literal yields no disjuncts.
func Disjunctions(e memo.ScalarExpr) []memo.ScalarExpr {
	return memo.ExtractDisjuncts(e)
}

// Flatten rebuilds e so that no AND has an AND operand and no OR has an OR
// operand, at every depth. Subtrees that are already flat are shared.
func Flatten(e memo.ScalarExpr) memo.ScalarExpr {
	n := e.ChildCount()
	if n == 0 {
		return e
	}
	switch e.Op() {
	case opt.AndOp, opt.OrOp:
		var items []memo.ScalarExpr
		if e.Op() == opt.AndOp {
			items = Conjunctions(e)
		} else {
			items = Disjunctions(e)
		}
		for i := range items {
			items[i] = Flatten(items[i])
		}
		if len(items) == n && sameChildren(e, items) {
			return e
		}
		if e.Op() == opt.AndOp {
			return ComposeConjunction(items...)
		}
		return ComposeDisjunction(items...)
	}
	children := make([]memo.ScalarExpr, n)
	for i := range children {
		children[i] = Flatten(e.Child(i))
	}
	return memo.WithChildren(e, children)
}

func sameChildren(e memo.ScalarExpr, children []memo.ScalarExpr) bool {
	for i := range children {
		if e.Child(i) != children[i] {
			return false
		}
	}
	return true
}

// PullFactors rewrites every disjunction whose branches share a conjunct so
// that the shared conjuncts are factored out, bottom-up:
//
//	(A AND B) OR (A AND C)        =>  A AND (B OR C)
//	(A AND B) OR (A AND B AND C)  =>  A AND B
//
// Conjuncts are matched by their printed form. The first branch determines
// the order of the pulled factors. Expressions that are neither AND nor OR
// are returned unchanged.
func PullFactors(e memo.ScalarExpr) memo.ScalarExpr {
	switch e.Op() {
	case opt.AndOp:
		return ComposeConjunction(pullList(Conjunctions(e))...)

	case opt.OrOp:
		disjuncts := pullList(Disjunctions(e))
		factors := commonFactors(disjuncts)
		if len(factors) == 0 {
			return ComposeDisjunction(disjuncts...)
		}
		known := make(map[string]struct{}, len(factors))
		for _, f := range factors {
			known[f.String()] = struct{}{}
		}
		remaining := make([]memo.ScalarExpr, len(disjuncts))
		for i, d := range disjuncts {
			remaining[i] = removeFactors(known, d)
		}
		return ComposeConjunction(append(factors, ComposeDisjunction(remaining...))...)
	}
	return e
}

func pullList(list []memo.ScalarExpr) []memo.ScalarExpr {
	res := make([]memo.ScalarExpr, len(list))
	for i := range list {
		res[i] = PullFactors(list[i])
	}
	return res
}

// commonFactors returns the conjuncts of the first disjunct that appear as a
// conjunct of every other disjunct, in the first disjunct's order.
func commonFactors(disjuncts []memo.ScalarExpr) []memo.ScalarExpr {
	if len(disjuncts) < 2 {
		return nil
	}
	var factors []memo.ScalarExpr
	seen := make(map[string]struct{})
	for _, c := range Conjunctions(disjuncts[0]) {
		s := c.String()
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			factors = append(factors, c)
		}
	}
	for _, d := range disjuncts[1:] {
		present := make(map[string]struct{})
		for _, c := range Conjunctions(d) {
			present[c.String()] = struct{}{}
		}
		kept := factors[:0:0]
		for _, f := range factors {
			if _, ok := present[f.String()]; ok {
				kept = append(kept, f)
			}
		}
		factors = kept
		if len(factors) == 0 {
			return nil
		}
	}
	return factors
}

// removeFactors returns the conjunction of the conjuncts of e that are not in
// factors. It returns TRUE if every conjunct is a factor.
func removeFactors(factors map[string]struct{}, e memo.ScalarExpr) memo.ScalarExpr {
	var rest []memo.ScalarExpr
	for _, c := range Conjunctions(e) {
		if _, ok := factors[c.String()]; !ok {
			rest = append(rest, c)
		}
	}
	return ComposeConjunction(rest...)
}

// ToCNF converts e to conjunctive normal form: an AND of ORs whose operands
// are not ANDs or ORs. NOT is pushed through AND, OR and NOT; other negated
// expressions are kept as atoms. Conversion can grow the expression
// exponentially, so it gives up once more call nodes than the configured
// limit have been built; in that case it returns e and false.
func (c *CustomFuncs) ToCNF(e memo.ScalarExpr) (memo.ScalarExpr, bool) {
	h := cnfHelper{budget: c.cnfMaxNodes, limited: c.cnfMaxNodes > 0}
	res := h.toCNF(e)
	if h.exceeded {
		return e, false
	}
	return res, true
}

type cnfHelper struct {
	budget   int
	limited  bool
	exceeded bool
}

func (h *cnfHelper) spend(n int) {
	if !h.limited {
		return
	}
	h.budget -= n
	if h.budget < 0 {
		h.exceeded = true
	}
}

func (h *cnfHelper) toCNF(e memo.ScalarExpr) memo.ScalarExpr {
	if h.exceeded {
		return e
	}
	switch e.Op() {
	case opt.AndOp:
		conjuncts := Conjunctions(e)
		for i := range conjuncts {
			conjuncts[i] = h.toCNF(conjuncts[i])
		}
		h.spend(1)
		return ComposeConjunction(conjuncts...)

	case opt.OrOp:
		disjuncts := Disjunctions(e)
		if len(disjuncts) < 2 {
			return h.toCNF(ComposeDisjunction(disjuncts...))
		}
		head := Conjunctions(h.toCNF(disjuncts[0]))
		tail := Conjunctions(h.toCNF(ComposeDisjunction(disjuncts[1:]...)))
		list := make([]memo.ScalarExpr, 0, len(head)*len(tail))
		for _, l := range head {
			for _, r := range tail {
				h.spend(1)
				if h.exceeded {
					return e
				}
				list = append(list, ComposeDisjunction(l, r))
			}
		}
		h.spend(1)
		return ComposeConjunction(list...)

	case opt.NotOp:
		arg := e.Child(0)
		switch arg.Op() {
		case opt.NotOp:
			return h.toCNF(arg.Child(0))

		case opt.AndOp, opt.OrOp:
			var items []memo.ScalarExpr
			if arg.Op() == opt.AndOp {
				items = Conjunctions(arg)
			} else {
				items = Disjunctions(arg)
			}
			negated := make([]memo.ScalarExpr, len(items))
			for i := range items {
				negated[i] = ConstructNot(items[i])
			}
			h.spend(len(negated))
			if arg.Op() == opt.AndOp {
				return h.toCNF(ComposeDisjunction(negated...))
			}
			return h.toCNF(ComposeConjunction(negated...))
		}
	}
	return e
}
