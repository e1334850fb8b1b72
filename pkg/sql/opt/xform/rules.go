// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package xform

import (
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/joinpred"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/util/log"
)

// Rule is a rewrite of one relational expression.
type Rule interface {
	// Name identifies the rule in the visited registry and in rule stats.
	Name() opt.RuleName

	// Enabled returns false if the session settings turn the rule off.
	Enabled(sv *settings.Values) bool

	// Apply returns the replacement of e and true, or false if the rule does
	// not match e. The replacement has the same output columns as e.
	Apply(rc *RewriteContext, e memo.RelExpr) (memo.RelExpr, bool)
}

// DefaultRules returns the rules applied by the Optimizer, in the order they
// are tried on each expression.
func DefaultRules() []Rule {
	return []Rule{PreFilterRule{}, PushJoinKeyExprsRule{}}
}

// PreFilterRule adds, below a filter whose condition contains disjunctions,
// a filter on the factors that every branch of a disjunction constrains:
//
//	Select(input, ($0 = 1 AND $1 = 2) OR ($0 = 3 AND $1 = 4))
//	=>
//	Select(Select(input, OR($0 = 1, $0 = 3) AND OR($1 = 2, $1 = 4)), <condition>)
//
// The new filter carries no information that the original does not, but it
// can be pushed further down the tree. Factors that already hold for every
// row of the input are not added. The rule does not match filters directly
// above a scan, and never fires twice on the same filter or on the filters
// it built.
type PreFilterRule struct{}

var _ Rule = PreFilterRule{}

// Name is part of the Rule interface.
func (PreFilterRule) Name() opt.RuleName { return opt.PreFilter }

// Enabled is part of the Rule interface.
func (PreFilterRule) Enabled(sv *settings.Values) bool { return PreFilterEnabled.Get(sv) }

// Apply is part of the Rule interface.
func (r PreFilterRule) Apply(rc *RewriteContext, e memo.RelExpr) (memo.RelExpr, bool) {
	sel, ok := e.(*memo.SelectExpr)
	if !ok || rc.funcs.IsScan(sel.Input) {
		return nil, false
	}
	if !rc.registry.Add(opt.PreFilter, sel) {
		return nil, false
	}

	ctx := logtags.AddTag(rc.ctx, "rule", r.Name().String())
	res, ok := rc.funcs.TryPreFilter(sel.Filter, rc.funcs.KnownPredicates(sel.Input))
	if !ok {
		log.VEventf(ctx, 3, "no new factors in filter [#%d]", sel.ID())
		return nil, false
	}

	inner := rc.mem.ConstructSelect(sel.Input, res.Pushed)
	outer := rc.mem.ConstructSelect(inner, res.Original)
	rc.registry.Add(opt.PreFilter, inner)
	rc.registry.Add(opt.PreFilter, outer)
	log.VEventf(ctx, 2, "pushed %s below filter [#%d]", res.Pushed, sel.ID())
	return outer, true
}

// decomposeErrorEvery rate limits the warnings about join conditions that
// cannot be decomposed.
var decomposeErrorEvery = log.Every(10 * time.Second)

// PushJoinKeyExprsRule projects the equi-join keys of a binary join that are
// not bare columns as new columns of the join inputs, so that every equality
// of the join condition is between two columns:
//
//	Join(a, b, $0 + 1 = $2 AND $1 > $3)
//	=>
//	Project(Join(Project(a, $0, $1, $0+1), Project(b, $0, $1, $0), $2 = $5 AND $1 > $4), $0, $1, $3, $4)
//
// The outer projection restores the output columns of the original join.
// Joins with system columns are not matched.
type PushJoinKeyExprsRule struct{}

var _ Rule = PushJoinKeyExprsRule{}

// Name is part of the Rule interface.
func (PushJoinKeyExprsRule) Name() opt.RuleName { return opt.PushJoinKeyExprs }

// Enabled is part of the Rule interface.
func (PushJoinKeyExprsRule) Enabled(sv *settings.Values) bool {
	return JoinKeyProjectionEnabled.Get(sv)
}

// Apply is part of the Rule interface.
func (r PushJoinKeyExprsRule) Apply(rc *RewriteContext, e memo.RelExpr) (memo.RelExpr, bool) {
	join, ok := e.(*memo.JoinExpr)
	if !ok || !rc.funcs.IsBinaryJoinWithCondition(join) {
		return nil, false
	}
	if !rc.registry.Add(opt.PushJoinKeyExprs, join) {
		return nil, false
	}

	ctx := logtags.AddTag(rc.ctx, "rule", r.Name().String())
	info, err := joinpred.Decompose(join.Inputs, 0 /* systemFieldCount */, join.On)
	if err != nil {
		if decomposeErrorEvery.ShouldLog() {
			log.Warningf(ctx, "join [#%d]: %v", join.ID(), err)
		}
		return nil, false
	}

	leftKeys, rightKeys := rc.funcs.EquiJoinKeys(info)
	left, right := join.Inputs[0], join.Inputs[1]
	proj := joinpred.ProjectNonColumnEquiConditions(rc.mem, left, right, leftKeys, rightKeys, 0)
	if proj.Synthesized == 0 {
		return nil, false
	}

	conjuncts := []memo.ScalarExpr{proj.Condition}
	for _, leaf := range info.NonEquiLeaves() {
		conjuncts = append(conjuncts,
			rc.funcs.ShiftRightColumns(leaf.Conjunct(), left.FieldCount(), proj.Synthesized))
	}
	newJoin := rc.mem.ConstructJoin(
		[]memo.RelExpr{proj.Left, proj.Right}, norm.ComposeConjunction(conjuncts...), nil,
	)
	projections, names := rc.funcs.PassthroughProjection(
		join.Fields(), left.FieldCount(), proj.Synthesized,
	)
	res := rc.mem.ConstructProject(newJoin, projections, names)
	rc.registry.Add(opt.PushJoinKeyExprs, newJoin)
	rc.registry.Add(opt.PushJoinKeyExprs, res)
	log.VEventf(ctx, 2, "projected %d join keys of join [#%d]",
		log.Safe(proj.Synthesized), join.ID())
	return res, true
}
