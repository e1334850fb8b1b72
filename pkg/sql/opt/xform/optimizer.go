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
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/util/log"
)

// MatchedRuleFunc defines the callback function for the NotifyOnMatchedRule
// event supported by the optimizer. See the comment in optimizer.go for more
// details.
type MatchedRuleFunc func(ruleName opt.RuleName) bool

// AppliedRuleFunc defines the callback function for the NotifyOnAppliedRule
// event supported by the optimizer. See the comment in optimizer.go for more
// details.
type AppliedRuleFunc func(ruleName opt.RuleName, source, target memo.RelExpr)

// Optimizer rewrites a relational tree by applying its rules bottom-up, one
// pass after another, until a pass changes nothing or the number of passes
// reaches the sql.opt.max_iterations setting. Every rewrite session has its
// own visited registry, so rules that record the expressions they fired on
// are not applied twice to the same expression.
type Optimizer struct {
	mem memo.Memo
	rc  RewriteContext

	rules []Rule

	// matchedRule is the callback function that is invoked each time an
	// optimization rule has been matched by the optimizer. It can be used
	// to disable rules, by returning false.
	matchedRule MatchedRuleFunc

	// appliedRule is the callback function which is invoked each time an
	// optimization rule has been applied by the optimizer.
	appliedRule AppliedRuleFunc

	stats      RuleStats
	iterations int
}

// Init initializes the Optimizer with a new, empty memo and the default
// rules. sv may be nil, in which case every setting has its default value.
func (o *Optimizer) Init(ctx context.Context, sv *settings.Values) {
	// This initialization pattern ensures that fields are not unwittingly
	// reused. Field reuse must be explicit.
	*o = Optimizer{
		rules: DefaultRules(),
	}
	o.mem.Init(true /* checks */)
	o.rc.Init(ctx, &o.mem, sv)
}

// Memo returns the memo that builds the expressions of the session. Trees
// given to Optimize must be built by it.
func (o *Optimizer) Memo() *memo.Memo {
	return &o.mem
}

// Context returns the rewrite context of the session.
func (o *Optimizer) Context() *RewriteContext {
	return &o.rc
}

// SetRules replaces the rules applied by the optimizer.
func (o *Optimizer) SetRules(rules []Rule) {
	o.rules = rules
}

// NotifyOnMatchedRule sets a callback function which is invoked each time an
// optimization rule is about to be tried. If the function returns false,
// the rule is skipped.
//
// This can be used for testing, to disable rules, or to step through the
// rules one by one.
func (o *Optimizer) NotifyOnMatchedRule(matchedRule MatchedRuleFunc) {
	o.matchedRule = matchedRule
}

// NotifyOnAppliedRule sets a callback function which is invoked each time an
// optimization rule has been applied.
func (o *Optimizer) NotifyOnAppliedRule(appliedRule AppliedRuleFunc) {
	o.appliedRule = appliedRule
}

// RuleStats returns how many times each rule fired so far in the session.
func (o *Optimizer) RuleStats() RuleStats {
	return o.stats
}

// Iterations returns the number of passes made by the last call to
// Optimize.
func (o *Optimizer) Iterations() int {
	return o.iterations
}

// Optimize returns the rewritten tree. Assertion failures raised by rules
// are returned as errors, in which case the returned tree is nil.
func (o *Optimizer) Optimize(root memo.RelExpr) (_ memo.RelExpr, err error) {
	defer func() {
		if r := recover(); r != nil {
			// This code allows us to propagate internal errors without having to
			// add error checks everywhere throughout the code. This is only
			// possible because the code does not update shared state and does
			// not manipulate locks.
			err = errors.Wrap(opt.CatchOptimizerError(r), "optimizing")
		}
	}()

	maxIterations := int(MaxIterations.Get(o.rc.settings))
	o.iterations = 0
	for o.iterations < maxIterations {
		o.iterations++
		var changed bool
		root, changed = o.optimizeExpr(root)
		if !changed {
			return root, nil
		}
	}
	log.VEventf(o.rc.ctx, 1, "stopped after %d passes", log.Safe(o.iterations))
	return root, nil
}

// optimizeExpr makes one pass over the tree rooted at e, children first.
func (o *Optimizer) optimizeExpr(e memo.RelExpr) (_ memo.RelExpr, changed bool) {
	if n := e.ChildCount(); n > 0 {
		children := make([]memo.RelExpr, n)
		for i := range children {
			var childChanged bool
			children[i], childChanged = o.optimizeExpr(e.Child(i))
			changed = changed || childChanged
		}
		if changed {
			e = o.mem.ReplaceChildren(e, children)
		}
	}

	for _, rule := range o.rules {
		name := rule.Name()
		if !rule.Enabled(o.rc.settings) {
			continue
		}
		if o.matchedRule != nil && !o.matchedRule(name) {
			continue
		}
		res, ok := rule.Apply(&o.rc, e)
		if !ok {
			continue
		}
		o.stats[name]++
		if o.appliedRule != nil {
			o.appliedRule(name, e, res)
		}
		log.VEventf(logtags.AddTag(o.rc.ctx, "rule", name.String()), 2,
			"[#%d] => [#%d]", e.ID(), res.ID())
		e, changed = res, true
	}
	return e, changed
}
