// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package settings is a registry of typed, named settings with default
// values. A Values holds the overrides of one session; settings that were
// not overridden read as their default.
package settings

// Setting is the interface implemented by every registered setting.
type Setting interface {
	// Key returns the name of the setting.
	Key() string
	// Description returns a human-readable description of the setting.
	Description() string
	// Typ returns the short (1 char) string denoting the type of setting.
	Typ() string
	// String returns the encoded value of the setting in sv.
	String(sv *Values) string
	// EncodedDefault returns the encoded default value.
	EncodedDefault() string
}

type internalSetting interface {
	Setting

	init(key, desc string, slot slotIdx)
	// decode converts a value read from a configuration file, or an encoded
	// string, to the setting's type and validates it.
	decode(v interface{}) (interface{}, error)
	getSlot() slotIdx
}

type slotIdx int32

// common implements the parts of Setting shared by all setting types.
type common struct {
	key         string
	description string
	slot        slotIdx
}

func (c *common) init(key, desc string, slot slotIdx) {
	c.key = key
	c.description = desc
	c.slot = slot
}

func (c *common) Key() string { return c.key }

func (c *common) Description() string { return c.description }

func (c *common) getSlot() slotIdx { return c.slot }
