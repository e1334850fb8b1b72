// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package settings

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile overrides settings with the values in a TOML (.toml) or YAML
// (.yaml, .yml) file. Nested tables are flattened with dots, so the
// following two files are equivalent:
//
//	sql.opt.max_iterations = 8
//
//	sql:
//	  opt:
//	    max_iterations: 8
//
// Values are applied in key order. On error, values applied before the
// failing key are kept.
func (sv *Values) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading settings file")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return sv.LoadTOML(data)
	case ".yaml", ".yml":
		return sv.LoadYAML(data)
	default:
		return errors.WithHint(
			errors.Newf("unsupported settings file extension %q", ext),
			"use .toml, .yaml or .yml",
		)
	}
}

// LoadTOML is like LoadFile for TOML text.
func (sv *Values) LoadTOML(data []byte) error {
	var m map[string]interface{}
	if _, err := toml.Decode(string(data), &m); err != nil {
		return errors.Wrap(err, "parsing TOML settings")
	}
	return sv.apply(m)
}

// LoadYAML is like LoadFile for YAML text.
func (sv *Values) LoadYAML(data []byte) error {
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return errors.Wrap(err, "parsing YAML settings")
	}
	return sv.apply(m)
}

func (sv *Values) apply(m map[string]interface{}) error {
	flat := make(map[string]interface{})
	flatten("", m, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := sv.setValue(k, flat[k]); err != nil {
			return err
		}
	}
	return nil
}

func flatten(prefix string, m map[string]interface{}, out map[string]interface{}) {
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(k, nested, out)
			continue
		}
		out[k] = v
	}
}
