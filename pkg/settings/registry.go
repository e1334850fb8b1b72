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
	"sort"

	"github.com/cockroachdb/errors"
)

// registry contains all defined settings, their types and default values.
//
// Entries in registry are created by the Register* functions, which
// packages call from package-level variable initializers. Registry should
// never be mutated after init (except in tests).
var registry = map[string]Setting{}

// slotTable holds the settings by slot, in registration order.
var slotTable [MaxSettings]Setting

// MaxSettings is the maximum number of settings that the registry can hold.
const MaxSettings = 64

// register adds a setting to the registry.
func register(key, desc string, s internalSetting) {
	if _, ok := registry[key]; ok {
		panic(errors.AssertionFailedf("setting already defined: %s", key))
	}
	n := len(registry)
	if n >= MaxSettings {
		panic(errors.AssertionFailedf("too many settings; increase MaxSettings"))
	}
	s.init(key, desc, slotIdx(n))
	registry[key] = s
	slotTable[n] = s
}

// Keys returns a sorted string array with all the known keys.
func Keys() (res []string) {
	res = make([]string, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Lookup returns a Setting by name.
func Lookup(key string) (Setting, bool) {
	s, ok := registry[key]
	return s, ok
}
