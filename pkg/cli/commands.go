// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/cli/cliflags"
	"github.com/cockroachdb/optpred/pkg/sql/opt/joinpred"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/sql/opt/optparse"
	"github.com/cockroachdb/optpred/pkg/sql/opt/xform"
	"github.com/spf13/cobra"
)

func newDecomposeCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decompose [join]",
		Short: "split a join condition into leaf predicates",
		Long: `
Prints the equi-join and other leaf predicates of the condition of a join,
with the key columns of every input. For example:

  optpred decompose 'join(scan a (x INT), scan b (y INT) ON $0 = $1)'
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := parseJoin(cmd, args, memo.New())
			if err != nil {
				return err
			}
			info, err := joinpred.Decompose(j.Inputs, len(j.SystemFields), j.On)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), info.String())
			return err
		},
	}
}

func newProjectCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "project [join]",
		Short: "project the equi-join keys of a binary join as columns",
		Long: `
Prints the inputs of a binary join after the equi-join keys that are not bare
columns were appended to them, and the equalities between key columns that
replace the equi-join conditions.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := c.exprFormat()
			if err != nil {
				return err
			}
			m := memo.New()
			j, err := parseJoin(cmd, args, m)
			if err != nil {
				return err
			}
			if len(j.Inputs) != 2 {
				return errors.Newf("expected a binary join, found %d inputs", len(j.Inputs))
			}
			sys := len(j.SystemFields)
			info, err := joinpred.Decompose(j.Inputs, sys, j.On)
			if err != nil {
				return err
			}
			var leftKeys, rightKeys []memo.ScalarExpr
			for _, leaf := range info.EquiLeaves() {
				leftKeys = append(leftKeys, leaf.LeftJoinKeys()...)
				rightKeys = append(rightKeys, leaf.RightJoinKeys()...)
			}
			proj := joinpred.ProjectNonColumnEquiConditions(
				m, j.Inputs[0], j.Inputs[1], leftKeys, rightKeys, sys,
			)

			w := cmd.OutOrStdout()
			if proj.Condition != nil {
				fmt.Fprintf(w, "condition: %s\n", proj.Condition)
			}
			fmt.Fprintf(w, "keys: %v = %v\n", proj.LeftKeys, proj.RightKeys)
			fmt.Fprint(w, memo.FormatRel(proj.Left, flags))
			fmt.Fprint(w, memo.FormatRel(proj.Right, flags))
			return nil
		},
	}
}

func newPreFilterCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prefilter [select]",
		Short: "add a filter on the factors common to the branches of a disjunction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := c.exprFormat()
			if err != nil {
				return err
			}
			var o xform.Optimizer
			o.Init(cmd.Context(), &c.sv)
			e, err := parseRel(cmd, args, o.Memo())
			if err != nil {
				return err
			}
			res, ok := xform.PreFilterRule{}.Apply(o.Context(), e)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), memo.FormatRel(res, flags))
			return nil
		},
	}
}

func newNormalizeCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [predicate]",
		Short: "rewrite a boolean predicate",
		Long: `
Rewrites a scalar predicate over columns typed by --cols. The --mode flag
selects the rewrite:

  flatten    merge nested ANDs and ORs
  pull       pull the conjuncts shared by the branches of ORs out of them
  cnf        convert to conjunctive normal form
  prefilter  print the factors a prefilter would push below the predicate
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := c.colTypes()
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			e, err := optparse.ParseScalar(input, cols)
			if err != nil {
				return err
			}

			var funcs norm.CustomFuncs
			funcs.Init(int(xform.CNFMaxNodeCount.Get(&c.sv)))
			var res memo.ScalarExpr
			switch c.mode {
			case "flatten":
				res = norm.Flatten(e)
			case "pull":
				res = norm.PullFactors(e)
			case "cnf":
				var ok bool
				if res, ok = funcs.ToCNF(e); !ok {
					return errors.WithHintf(
						errors.New("conversion to CNF exceeds the node limit"),
						"raise %s", xform.CNFMaxNodeCount.Key(),
					)
				}
			case "prefilter":
				pf, ok := funcs.TryPreFilter(e, nil /* known */)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no factors")
					return nil
				}
				res = pf.Pushed
			default:
				return errors.Newf("unknown mode %q", c.mode)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
	StringFlag(cmd.Flags(), &c.cols, cliflags.Cols, c.cols)
	StringFlag(cmd.Flags(), &c.mode, cliflags.Mode, c.mode)
	return cmd
}

func newOptimizeCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [rel]",
		Short: "apply every enabled rule to a tree until nothing changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := c.exprFormat()
			if err != nil {
				return err
			}
			var o xform.Optimizer
			o.Init(cmd.Context(), &c.sv)
			e, err := parseRel(cmd, args, o.Memo())
			if err != nil {
				return err
			}
			res, err := o.Optimize(e)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, memo.FormatRel(res, flags))
			if c.stats {
				stats := o.RuleStats()
				fmt.Fprintf(w, "%s\niterations: %d\n", stats.String(), o.Iterations())
			}
			return nil
		},
	}
	BoolFlag(cmd.Flags(), &c.stats, cliflags.Stats, false)
	return cmd
}

func parseRel(cmd *cobra.Command, args []string, m *memo.Memo) (memo.RelExpr, error) {
	input, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	return optparse.ParseRel(m, input)
}

func parseJoin(cmd *cobra.Command, args []string, m *memo.Memo) (*memo.JoinExpr, error) {
	e, err := parseRel(cmd, args, m)
	if err != nil {
		return nil, err
	}
	j, ok := e.(*memo.JoinExpr)
	if !ok {
		return nil, errors.Newf("expected a join, found %s", e.Op())
	}
	return j, nil
}
