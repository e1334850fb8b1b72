// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package testutils

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/joinpred"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/sql/opt/optparse"
	"github.com/cockroachdb/optpred/pkg/sql/opt/xform"
	"github.com/cockroachdb/optpred/pkg/sql/types"
)

// RuleSet stores an unordered set of RuleNames.
type RuleSet = bitset.BitSet

// OptTester is a helper for testing the various optimizer components. It
// contains the boiler-plate code for the following useful tasks:
//   - Decompose a join condition
//   - Project the non-column equi-join keys of a binary join
//   - Apply the prefilter rewrite to a filter
//   - Normalize a scalar predicate
//   - Run the rewrite driver to a fixed point
//
// The OptTester is used by tests in various sub-packages of the opt package.
type OptTester struct {
	Flags OptTesterFlags

	ctx       context.Context
	input     string
	seenRules RuleSet
}

// OptTesterFlags are control knobs for tests. Note that specific testcases can
// override these defaults.
type OptTesterFlags struct {
	// ExprFormat controls the output detail of relational trees.
	ExprFormat memo.ExprFmtFlags

	// Settings are the session settings, changed by the set flag.
	Settings settings.Values

	// DisableRules is a set of rules that are not allowed to run.
	DisableRules RuleSet

	// ExpectedRules is a set of rules which must be exercised for the test to
	// pass.
	ExpectedRules RuleSet

	// UnexpectedRules is a set of rules which must not be exercised for the test
	// to pass.
	UnexpectedRules RuleSet

	// Cols are the column types of scalar inputs. The default is four INT
	// columns.
	Cols []*types.T

	// Mode selects the rewrite of the normalize command.
	Mode string
}

// New constructs a new instance of the OptTester for the given input.
func New(input string) *OptTester {
	return &OptTester{
		ctx:   context.Background(),
		input: input,
		Flags: OptTesterFlags{
			ExprFormat: memo.ExprFmtHideIDs,
			Cols:       []*types.T{types.Int, types.Int, types.Int, types.Int},
		},
	}
}

// RunCommand implements commands that are used by most tests:
//
//   - decompose [flags]
//
//     Parses a join and outputs the decomposition of its condition.
//
//   - project [flags]
//
//     Parses a binary join and outputs the projections that make its equi-join
//     keys bare columns, together with the new join condition.
//
//   - prefilter [flags]
//
//     Parses a filter and applies the prefilter rewrite to it once.
//
//   - normalize mode=(pull|cnf|flatten|prefilter) [flags]
//
//     Parses a scalar predicate over the cols flag types and rewrites it.
//
//   - optimize [flags]
//
//     Parses a relational tree and rewrites it to a fixed point.
//
//   - rulestats [flags]
//
//     Like optimize, but outputs how many times each rule fired and how many
//     passes were made.
//
// Supported flags:
//
//   - format: controls the formatting of relational trees. Possible values:
//     show-all, hide-all, hide-ids, hide-types.
//
//   - expect: fail the test if the rules specified by name do not match.
//
//   - expect-not: fail the test if the rules specified by name match.
//
//   - disable: disables rules by name. Examples:
//     optimize disable=PreFilter
//     optimize disable=(PreFilter,PushJoinKeyExprs)
//
//   - set: changes session settings, as key:value pairs. Example:
//     optimize set=(sql.opt.max_iterations:1)
//
//   - cols: the column types of scalar inputs, like cols=(INT,STRING).
//
//   - mode: the rewrite of the normalize command.
func (ot *OptTester) RunCommand(tb testing.TB, d *datadriven.TestData) string {
	// Allow testcases to override the flags.
	for _, a := range d.CmdArgs {
		if err := ot.Flags.Set(a); err != nil {
			d.Fatalf(tb, "%+v", err)
		}
	}

	switch d.Cmd {
	case "decompose":
		res, err := ot.Decompose()
		if err != nil {
			return fmt.Sprintf("error: %s\n", strings.TrimSpace(err.Error()))
		}
		return res

	case "project":
		res, err := ot.Project()
		if err != nil {
			return fmt.Sprintf("error: %s\n", strings.TrimSpace(err.Error()))
		}
		return res

	case "prefilter":
		res, err := ot.PreFilter()
		if err != nil {
			d.Fatalf(tb, "%+v", err)
		}
		return res

	case "normalize":
		res, err := ot.Normalize()
		if err != nil {
			d.Fatalf(tb, "%+v", err)
		}
		return res

	case "optimize":
		e, err := ot.Optimize()
		if err != nil {
			return fmt.Sprintf("error: %s\n", strings.TrimSpace(err.Error()))
		}
		if err := ot.checkExpectedRules(); err != nil {
			tb.Fatal(err)
		}
		return memo.FormatRel(e, ot.Flags.ExprFormat)

	case "rulestats":
		res, err := ot.RuleStats()
		if err != nil {
			d.Fatalf(tb, "%+v", err)
		}
		return res

	default:
		d.Fatalf(tb, "unsupported command: %s", d.Cmd)
		return ""
	}
}

func formatRuleSet(r *RuleSet) string {
	var buf bytes.Buffer
	comma := false
	for i, ok := r.NextSet(0); ok; i, ok = r.NextSet(i + 1) {
		if comma {
			buf.WriteString(", ")
		}
		comma = true
		fmt.Fprintf(&buf, "%v", opt.RuleName(i))
	}
	return buf.String()
}

func (ot *OptTester) checkExpectedRules() error {
	if !ot.seenRules.IsSuperSet(&ot.Flags.ExpectedRules) {
		unseen := ot.Flags.ExpectedRules.Difference(&ot.seenRules)
		return fmt.Errorf("expected to see %s, but was not triggered. Did see %s",
			formatRuleSet(unseen), formatRuleSet(&ot.seenRules))
	}

	if ot.Flags.UnexpectedRules.IntersectionCardinality(&ot.seenRules) > 0 {
		seen := ot.Flags.UnexpectedRules.Intersection(&ot.seenRules)
		return fmt.Errorf("expected not to see %s, but it was triggered", formatRuleSet(seen))
	}
	return nil
}

func ruleNamesToRuleSet(args []string) (RuleSet, error) {
	var result RuleSet
	for _, r := range args {
		rn, ok := opt.RuleNameFromString(r)
		if !ok {
			return result, errors.Newf("rule '%s' does not exist", r)
		}
		result.Set(uint(rn))
	}
	return result, nil
}

// Set parses an argument that refers to a flag.
// See OptTester.RunCommand for supported flags.
func (f *OptTesterFlags) Set(arg datadriven.CmdArg) error {
	switch arg.Key {
	case "format":
		f.ExprFormat = 0
		if len(arg.Vals) == 0 {
			return errors.New("format flag requires value(s)")
		}
		for _, v := range arg.Vals {
			m := map[string]memo.ExprFmtFlags{
				"show-all":   memo.ExprFmtShowAll,
				"hide-all":   memo.ExprFmtHideIDs | memo.ExprFmtHideTypes,
				"hide-ids":   memo.ExprFmtHideIDs,
				"hide-types": memo.ExprFmtHideTypes,
			}
			if val, ok := m[v]; ok {
				f.ExprFormat |= val
			} else {
				return errors.Newf("unknown format value %s", v)
			}
		}

	case "disable":
		if len(arg.Vals) == 0 {
			return errors.New("disable requires arguments")
		}
		for _, s := range arg.Vals {
			r, ok := opt.RuleNameFromString(s)
			if !ok {
				return errors.Newf("rule '%s' does not exist", s)
			}
			f.DisableRules.Set(uint(r))
		}

	case "expect":
		var err error
		if f.ExpectedRules, err = ruleNamesToRuleSet(arg.Vals); err != nil {
			return err
		}

	case "expect-not":
		var err error
		if f.UnexpectedRules, err = ruleNamesToRuleSet(arg.Vals); err != nil {
			return err
		}

	case "set":
		if len(arg.Vals) == 0 {
			return errors.New("set requires arguments")
		}
		for _, v := range arg.Vals {
			key, val, ok := strings.Cut(v, ":")
			if !ok {
				return errors.Newf("expected key:value, found %q", v)
			}
			if err := f.Settings.Set(key, val); err != nil {
				return err
			}
		}

	case "cols":
		f.Cols = f.Cols[:0:0]
		for i, v := range arg.Vals {
			fields, err := optparse.ParseFields(fmt.Sprintf("c%d %s", i, v))
			if err != nil {
				return err
			}
			f.Cols = append(f.Cols, fields[0].Type)
		}

	case "mode":
		if len(arg.Vals) != 1 {
			return errors.New("mode requires one argument")
		}
		f.Mode = arg.Vals[0]

	default:
		return errors.Newf("unknown argument: %s", arg.Key)
	}
	return nil
}

func (ot *OptTester) parseJoin(m *memo.Memo) (*memo.JoinExpr, error) {
	e, err := optparse.ParseRel(m, ot.input)
	if err != nil {
		return nil, err
	}
	j, ok := e.(*memo.JoinExpr)
	if !ok {
		return nil, errors.Newf("expected a join, found %s", e.Op())
	}
	return j, nil
}

// Decompose parses a join and returns the formatted decomposition of its
// condition.
func (ot *OptTester) Decompose() (string, error) {
	j, err := ot.parseJoin(memo.New())
	if err != nil {
		return "", err
	}
	info, err := joinpred.Decompose(j.Inputs, len(j.SystemFields), j.On)
	if err != nil {
		return "", err
	}
	return info.String(), nil
}

// Project parses a binary join, decomposes its condition and projects the
// equi-join keys that are not bare columns.
func (ot *OptTester) Project() (string, error) {
	m := memo.New()
	j, err := ot.parseJoin(m)
	if err != nil {
		return "", err
	}
	if len(j.Inputs) != 2 {
		return "", errors.Newf("expected a binary join, found %d inputs", len(j.Inputs))
	}
	sys := len(j.SystemFields)
	info, err := joinpred.Decompose(j.Inputs, sys, j.On)
	if err != nil {
		return "", err
	}
	var leftKeys, rightKeys []memo.ScalarExpr
	for _, leaf := range info.EquiLeaves() {
		leftKeys = append(leftKeys, leaf.LeftJoinKeys()...)
		rightKeys = append(rightKeys, leaf.RightJoinKeys()...)
	}
	proj := joinpred.ProjectNonColumnEquiConditions(m, j.Inputs[0], j.Inputs[1], leftKeys, rightKeys, sys)

	var buf bytes.Buffer
	cond := "<none>"
	if proj.Condition != nil {
		cond = proj.Condition.String()
	}
	fmt.Fprintf(&buf, "condition: %s\n", cond)
	fmt.Fprintf(&buf, "left-keys: %v\n", proj.LeftKeys)
	fmt.Fprintf(&buf, "right-keys: %v\n", proj.RightKeys)
	fmt.Fprintf(&buf, "synthesized: %d\n", proj.Synthesized)
	buf.WriteString(memo.FormatRel(proj.Left, ot.Flags.ExprFormat))
	buf.WriteString(memo.FormatRel(proj.Right, ot.Flags.ExprFormat))
	return buf.String(), nil
}

// PreFilter parses a relational expression and applies the prefilter rule
// to its root once.
func (ot *OptTester) PreFilter() (string, error) {
	o := ot.makeOptimizer()
	e, err := optparse.ParseRel(o.Memo(), ot.input)
	if err != nil {
		return "", err
	}
	res, ok := xform.PreFilterRule{}.Apply(o.Context(), e)
	if !ok {
		return "no match\n", nil
	}
	return memo.FormatRel(res, ot.Flags.ExprFormat), nil
}

// Normalize parses a scalar predicate and applies the rewrite named by the
// mode flag.
func (ot *OptTester) Normalize() (string, error) {
	e, err := optparse.ParseScalar(ot.input, ot.Flags.Cols)
	if err != nil {
		return "", err
	}
	var c norm.CustomFuncs
	c.Init(int(xform.CNFMaxNodeCount.Get(&ot.Flags.Settings)))

	switch ot.Flags.Mode {
	case "pull":
		return norm.PullFactors(e).String() + "\n", nil

	case "flatten":
		return norm.Flatten(e).String() + "\n", nil

	case "cnf":
		res, ok := c.ToCNF(e)
		if !ok {
			return "node limit exceeded\n", nil
		}
		return res.String() + "\n", nil

	case "prefilter":
		res, ok := c.TryPreFilter(e, nil /* known */)
		if !ok {
			return "no factors\n", nil
		}
		return res.Pushed.String() + "\n", nil
	}
	return "", errors.Newf("unknown mode %q", ot.Flags.Mode)
}

// Optimize parses a relational tree and rewrites it to a fixed point.
func (ot *OptTester) Optimize() (memo.RelExpr, error) {
	e, _, err := ot.optimize()
	return e, err
}

// RuleStats runs the optimizer and returns how often each rule fired.
func (ot *OptTester) RuleStats() (string, error) {
	_, o, err := ot.optimize()
	if err != nil {
		return "", err
	}
	stats := o.RuleStats()
	return fmt.Sprintf("%s\niterations: %d\n", stats.String(), o.Iterations()), nil
}

func (ot *OptTester) optimize() (memo.RelExpr, *xform.Optimizer, error) {
	o := ot.makeOptimizer()
	o.NotifyOnMatchedRule(func(ruleName opt.RuleName) bool {
		return !ot.Flags.DisableRules.Test(uint(ruleName))
	})
	o.NotifyOnAppliedRule(func(ruleName opt.RuleName, _, _ memo.RelExpr) {
		ot.seenRules.Set(uint(ruleName))
	})
	root, err := optparse.ParseRel(o.Memo(), ot.input)
	if err != nil {
		return nil, nil, err
	}
	res, err := o.Optimize(root)
	return res, o, err
}

func (ot *OptTester) makeOptimizer() *xform.Optimizer {
	var o xform.Optimizer
	o.Init(ot.ctx, &ot.Flags.Settings)
	return &o
}
