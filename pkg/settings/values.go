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
	"github.com/cockroachdb/errors"
)

// Values holds the overridden values of the settings of one session. The
// zero value is ready to use and a nil *Values reads every setting as its
// default. Values is not safe for concurrent mutation.
type Values struct {
	container [MaxSettings]interface{}
}

func (sv *Values) get(slot slotIdx) (interface{}, bool) {
	if sv == nil {
		return nil, false
	}
	v := sv.container[slot]
	return v, v != nil
}

func (sv *Values) set(slot slotIdx, v interface{}) {
	sv.container[slot] = v
}

// Set parses the encoded value and overrides the setting with the given key.
func (sv *Values) Set(key, encoded string) error {
	return sv.setValue(key, encoded)
}

func (sv *Values) setValue(key string, v interface{}) error {
	s, ok := registry[key]
	if !ok {
		return errors.WithHint(
			errors.Newf("unknown setting %q", key),
			"see the output of Keys() for the registered settings",
		)
	}
	decoded, err := s.(internalSetting).decode(v)
	if err != nil {
		return err
	}
	sv.set(s.(internalSetting).getSlot(), decoded)
	return nil
}

// Reset removes the override of the setting with the given key, if any.
func (sv *Values) Reset(key string) {
	if s, ok := registry[key]; ok {
		sv.container[s.(internalSetting).getSlot()] = nil
	}
}

// Overridden returns the sorted keys of the settings that have a value in
// sv.
func (sv *Values) Overridden() []string {
	var res []string
	for _, k := range Keys() {
		if _, ok := sv.get(registry[k].(internalSetting).getSlot()); ok {
			res = append(res, k)
		}
	}
	return res
}
