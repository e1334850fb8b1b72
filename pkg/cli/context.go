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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/optparse"
	"github.com/cockroachdb/optpred/pkg/sql/types"
)

// cliContext holds the flag values of one invocation, and the settings
// derived from them.
type cliContext struct {
	configPath string
	overrides  []string
	verbosity  int
	format     string
	cols       string
	mode       string
	stats      bool

	// sv is populated by the persistent pre-run hook of the root command.
	sv settings.Values
}

func (c *cliContext) setDefaults() {
	*c = cliContext{
		format: "hide-ids",
		cols:   "INT,INT,INT,INT",
		mode:   "prefilter",
	}
}

// loadSettings applies the config file and then the --set overrides.
func (c *cliContext) loadSettings() error {
	if c.configPath != "" {
		if err := c.sv.LoadFile(c.configPath); err != nil {
			return errors.Wrapf(err, "loading %s", c.configPath)
		}
	}
	for _, o := range c.overrides {
		key, val, ok := strings.Cut(o, "=")
		if !ok {
			return errors.WithHint(
				errors.Newf("invalid setting %q", o),
				"use --set key=value",
			)
		}
		if err := c.sv.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}

var formatFlags = map[string]memo.ExprFmtFlags{
	"show-all":   memo.ExprFmtShowAll,
	"hide-ids":   memo.ExprFmtHideIDs,
	"hide-types": memo.ExprFmtHideTypes,
	"hide-all":   memo.ExprFmtHideIDs | memo.ExprFmtHideTypes,
}

func (c *cliContext) exprFormat() (memo.ExprFmtFlags, error) {
	var res memo.ExprFmtFlags
	for _, v := range strings.Split(c.format, ",") {
		f, ok := formatFlags[strings.TrimSpace(v)]
		if !ok {
			return 0, errors.Newf("unknown format value %q", v)
		}
		res |= f
	}
	return res, nil
}

func (c *cliContext) colTypes() ([]*types.T, error) {
	if strings.TrimSpace(c.cols) == "" {
		return nil, nil
	}
	var defs []string
	for i, typ := range strings.Split(c.cols, ",") {
		defs = append(defs, fmt.Sprintf("c%d %s", i, typ))
	}
	fields, err := optparse.ParseFields(strings.Join(defs, ", "))
	if err != nil {
		return nil, errors.Wrap(err, "parsing --cols")
	}
	return optparse.FieldTypes(fields), nil
}
