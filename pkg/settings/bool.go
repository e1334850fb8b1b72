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
	"strconv"

	"github.com/cockroachdb/errors"
)

// BoolSetting is the interface of a setting variable that holds a bool.
type BoolSetting struct {
	common
	defaultValue bool
}

var _ internalSetting = &BoolSetting{}

// Get retrieves the bool value in the setting.
func (b *BoolSetting) Get(sv *Values) bool {
	if v, ok := sv.get(b.slot); ok {
		return v.(bool)
	}
	return b.defaultValue
}

// Override sets the value of the setting in sv.
func (b *BoolSetting) Override(sv *Values, v bool) {
	sv.set(b.slot, v)
}

func (b *BoolSetting) String(sv *Values) string {
	return EncodeBool(b.Get(sv))
}

// EncodedDefault returns the encoded default value.
func (b *BoolSetting) EncodedDefault() string {
	return EncodeBool(b.defaultValue)
}

// Typ returns the short (1 char) string denoting the type of setting.
func (*BoolSetting) Typ() string {
	return "b"
}

func (b *BoolSetting) decode(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		res, err := strconv.ParseBool(t)
		if err != nil {
			return nil, errors.Wrapf(err, "setting %s", b.key)
		}
		return res, nil
	}
	return nil, errors.Newf("setting %s: expected a bool, got %T", b.key, v)
}

// RegisterBoolSetting defines a new setting with type bool.
func RegisterBoolSetting(key, desc string, defaultValue bool) *BoolSetting {
	setting := &BoolSetting{defaultValue: defaultValue}
	register(key, desc, setting)
	return setting
}

// EncodeBool encodes a bool in the format used by settings values.
func EncodeBool(b bool) string {
	return strconv.FormatBool(b)
}
