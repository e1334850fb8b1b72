// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package cli implements the optpred command-line tool, which runs the
// predicate rewrites of the optimizer on expressions written in the optparse
// syntax.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/cli/cliflags"
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/util/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Proxy to allow overrides in tests.
var osStderr io.Writer = os.Stderr

// Main is the entry point for the cli, with a single line calling it intended
// to be the body of an action package main `main` func elsewhere.
func Main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintf(osStderr, "ERROR: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(osStderr, "HINT: %s\n", hint)
		}
		os.Exit(1)
	}
}

// Run runs the command line tool with the given arguments.
func Run(args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	c := &cliContext{}
	c.setDefaults()

	rootCmd := &cobra.Command{
		Use:   "optpred [command] (flags)",
		Short: "rewrite join and filter predicates",
		Long: `
Decomposes join conditions, projects join keys, prefilters disjunctions and
normalizes boolean predicates. Expressions are given as the first argument,
or on stdin if the argument is missing or "-".
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cobra.EnableCommandSorting = false

	pf := rootCmd.PersistentFlags()
	StringFlag(pf, &c.configPath, cliflags.Config, "")
	StringArrayFlag(pf, &c.overrides, cliflags.Set)
	IntFlag(pf, &c.verbosity, cliflags.Verbosity, 0)
	StringFlag(pf, &c.format, cliflags.Format, c.format)

	var restoreLogging []func()
	AddPersistentPreRunE(rootCmd, func(cmd *cobra.Command, args []string) error {
		if err := c.loadSettings(); err != nil {
			return err
		}
		if c.verbosity > 0 {
			cfg := zap.NewDevelopmentConfig()
			cfg.DisableStacktrace = true
			l, err := cfg.Build()
			if err != nil {
				return errors.Wrap(err, "creating logger")
			}
			restoreLogging = append(restoreLogging,
				log.SetLogger(l), log.SetVerbosity(int32(c.verbosity)))
		}
		return nil
	})
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		for _, restore := range restoreLogging {
			restore()
		}
	}

	rootCmd.AddCommand(
		newDecomposeCmd(c),
		newProjectCmd(c),
		newPreFilterCmd(c),
		newNormalizeCmd(c),
		newOptimizeCmd(c),
		newSettingsCmd(c),
	)
	return rootCmd
}

func newSettingsCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "list the settings and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 1, 2, ' ', 0)
			fmt.Fprintf(tw, "key\ttype\tvalue\tdescription\n")
			for _, key := range settings.Keys() {
				s, _ := settings.Lookup(key)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, s.Typ(), s.String(&c.sv), s.Description())
			}
			return tw.Flush()
		},
	}
}

// readInput returns the expression given as the only argument, or read from
// stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}
	return strings.TrimSpace(string(data)), nil
}
