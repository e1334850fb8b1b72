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
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// IntSetting is the interface of a setting variable that holds an int64.
type IntSetting struct {
	common
	defaultValue int64
	validateFn   func(int64) error
}

var _ internalSetting = &IntSetting{}

// Get retrieves the int value in the setting.
func (i *IntSetting) Get(sv *Values) int64 {
	if v, ok := sv.get(i.slot); ok {
		return v.(int64)
	}
	return i.defaultValue
}

// Override sets the value of the setting in sv after validating it.
func (i *IntSetting) Override(sv *Values, v int64) error {
	if err := i.Validate(v); err != nil {
		return err
	}
	sv.set(i.slot, v)
	return nil
}

// Validate that a value conforms with the validation function.
func (i *IntSetting) Validate(v int64) error {
	if i.validateFn != nil {
		if err := i.validateFn(v); err != nil {
			return errors.Wrapf(err, "setting %s", i.key)
		}
	}
	return nil
}

func (i *IntSetting) String(sv *Values) string {
	return EncodeInt(i.Get(sv))
}

// EncodedDefault returns the encoded default value.
func (i *IntSetting) EncodedDefault() string {
	return EncodeInt(i.defaultValue)
}

// Typ returns the short (1 char) string denoting the type of setting.
func (*IntSetting) Typ() string {
	return "i"
}

func (i *IntSetting) decode(v interface{}) (interface{}, error) {
	var res int64
	switch t := v.(type) {
	case int:
		res = int64(t)
	case int64:
		res = t
	case uint64:
		if t > math.MaxInt64 {
			return nil, errors.Newf("setting %s: %d is out of range", i.key, t)
		}
		res = int64(t)
	case string:
		var err error
		if res, err = strconv.ParseInt(t, 10, 64); err != nil {
			return nil, errors.Wrapf(err, "setting %s", i.key)
		}
	default:
		return nil, errors.Newf("setting %s: expected an integer, got %T", i.key, v)
	}
	if err := i.Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}

// RegisterIntSetting defines a new setting with type int.
func RegisterIntSetting(key, desc string, defaultValue int64) *IntSetting {
	return RegisterValidatedIntSetting(key, desc, defaultValue, nil)
}

// RegisterValidatedIntSetting defines a new setting with type int with a
// validation function.
func RegisterValidatedIntSetting(
	key, desc string, defaultValue int64, validateFn func(int64) error,
) *IntSetting {
	if validateFn != nil {
		if err := validateFn(defaultValue); err != nil {
			panic(errors.Wrap(err, "invalid default"))
		}
	}
	setting := &IntSetting{
		defaultValue: defaultValue,
		validateFn:   validateFn,
	}
	register(key, desc, setting)
	return setting
}

// PositiveInt can be passed to RegisterValidatedIntSetting.
func PositiveInt(v int64) error {
	if v < 1 {
		return errors.Errorf("cannot set to a non-positive value: %d", v)
	}
	return nil
}

// NonNegativeInt can be passed to RegisterValidatedIntSetting.
func NonNegativeInt(v int64) error {
	if v < 0 {
		return errors.Errorf("cannot set to a negative value: %d", v)
	}
	return nil
}

// EncodeInt encodes an int in the format used by settings values.
func EncodeInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
