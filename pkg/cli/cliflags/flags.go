// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package cliflags holds the names and descriptions of the command-line
// flags of the optpred tool.
package cliflags

import (
	"strings"

	"github.com/kr/text"
)

// FlagInfo contains the static information for a CLI flag.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string

	// Shorthand is the short form of the flag (optional).
	Shorthand string

	// EnvVar is the name of the environment variable through which the flag
	// value can be controlled (optional).
	EnvVar string

	// Description of the flag.
	//
	// The text will be automatically re-wrapped. The wrapping can be stopped by
	// embedding the tag "<PRE>": this preserves the original text formatting
	// after the tag.
	Description string
}

const usageIndentation = 8
const wrapWidth = 79 - usageIndentation

// wrapDescription wraps the text in a cliflags.FlagInfo.Description.
func wrapDescription(s string) string {
	var result strings.Builder
	parts := strings.Split(s, "<PRE>")
	for i, p := range parts {
		if i == 0 {
			result.WriteString(text.Wrap(p, wrapWidth))
		} else {
			result.WriteString(p)
		}
	}
	return result.String()
}

// Usage returns a formatted usage string for the flag, including:
// * line wrapping
// * indentation
// * env variable name (if set)
func (f FlagInfo) Usage() string {
	s := "\n" + wrapDescription(f.Description)
	if f.EnvVar != "" {
		// Check that the environment variable name matches the flag name. Note: we
		// don't want to automatically generate the name so that grepping for a flag
		// name in the code yields the flag definition.
		correctName := "OPTPRED_" + strings.ToUpper(strings.Replace(f.Name, "-", "_", -1))
		if f.EnvVar != correctName {
			panic(f.EnvVar + " != " + correctName)
		}
		s = s + "\nEnvironment variable: " + f.EnvVar
	}
	// github.com/spf13/pflag appends the default value after the usage text. Add
	// the correct indentation (7 spaces) here. This is admittedly fragile.
	return text.Indent(s, strings.Repeat(" ", usageIndentation)) +
		"\n" + strings.Repeat(" ", usageIndentation-1)
}

// Flags of the optpred tool.
var (
	Config = FlagInfo{
		Name:        "config",
		EnvVar:      "OPTPRED_CONFIG",
		Description: `Path of a TOML (.toml) or YAML (.yaml, .yml) file with setting values.`,
	}

	Set = FlagInfo{
		Name: "set",
		Description: `
A setting value as key=value, applied after the config file. May be given
more than once.`,
	}

	Verbosity = FlagInfo{
		Name:      "verbosity",
		Shorthand: "v",
		EnvVar:    "OPTPRED_VERBOSITY",
		Description: `
Log level of the rewrite trace written to stderr. 0 disables it; 2 logs
every rule application.`,
	}

	Format = FlagInfo{
		Name: "format",
		Description: `
Detail of printed relational trees, as a comma-separated list of show-all,
hide-ids, hide-types and hide-all.`,
	}

	Cols = FlagInfo{
		Name: "cols",
		Description: `
Comma-separated column types of a scalar input, like INT,STRING. The column
$i has the ith type.`,
	}

	Mode = FlagInfo{
		Name: "mode",
		Description: `
Rewrite applied by the normalize command: flatten, pull, cnf or prefilter.`,
	}

	Stats = FlagInfo{
		Name:        "stats",
		Description: `Print how often each rule fired after the rewritten tree.`,
	}
)
