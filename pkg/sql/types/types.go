// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package types

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Family groups types that share a physical representation and comparison
// semantics.
type Family uint8

const (
	// UnknownFamily is the type of a NULL literal that has not been typed.
	UnknownFamily Family = iota
	BoolFamily
	IntFamily
	DecimalFamily
	FloatFamily
	StringFamily
	DateFamily
	TimestampFamily
	// TupleFamily is the type of a RangeRef, which stands for a run of input
	// columns.
	TupleFamily
)

var familyNames = [...]string{
	UnknownFamily:   "unknown",
	BoolFamily:      "bool",
	IntFamily:       "int",
	DecimalFamily:   "decimal",
	FloatFamily:     "float",
	StringFamily:    "string",
	DateFamily:      "date",
	TimestampFamily: "timestamp",
	TupleFamily:     "tuple",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "family(?)"
}

// T is a semantic type. Types are immutable and compared with Identical.
type T struct {
	family Family
	// width is the bit width of integer types; zero for other families.
	width int32
}

// Singleton types.
var (
	Unknown   = &T{family: UnknownFamily}
	Bool      = &T{family: BoolFamily}
	Int2      = &T{family: IntFamily, width: 16}
	Int4      = &T{family: IntFamily, width: 32}
	Int       = &T{family: IntFamily, width: 64}
	Decimal   = &T{family: DecimalFamily}
	Float     = &T{family: FloatFamily}
	String    = &T{family: StringFamily}
	Date      = &T{family: DateFamily}
	Timestamp = &T{family: TimestampFamily}
	Tuple     = &T{family: TupleFamily}
)

// Family returns the type's family.
func (t *T) Family() Family { return t.family }

// Width returns the bit width of an integer type, or 0.
func (t *T) Width() int32 { return t.width }

// Identical returns true if the two types are the same type.
func (t *T) Identical(other *T) bool {
	return t.family == other.family && t.width == other.width
}

// IsNumeric returns true for the int, decimal and float families.
func (t *T) IsNumeric() bool {
	switch t.family {
	case IntFamily, DecimalFamily, FloatFamily:
		return true
	}
	return false
}

func (t *T) String() string {
	switch t {
	case Int2:
		return "INT2"
	case Int4:
		return "INT4"
	}
	if t.family == IntFamily {
		return "INT"
	}
	return strings.ToUpper(t.family.String())
}

// numericRank orders the numeric families from narrowest to widest.
func numericRank(t *T) int {
	switch t.family {
	case IntFamily:
		return int(t.width)
	case DecimalFamily:
		return 1000
	case FloatFamily:
		return 2000
	}
	return -1
}

// CommonType returns the least restrictive type to which both types can be
// implicitly converted, and false if there is none. Unknown converts to
// anything.
func CommonType(a, b *T) (*T, bool) {
	switch {
	case a.Identical(b):
		return a, true
	case a.family == UnknownFamily:
		return b, true
	case b.family == UnknownFamily:
		return a, true
	case a.IsNumeric() && b.IsNumeric():
		if numericRank(a) >= numericRank(b) {
			return a, true
		}
		return b, true
	case a.family == DateFamily && b.family == TimestampFamily:
		return b, true
	case a.family == TimestampFamily && b.family == DateFamily:
		return a, true
	}
	return nil, false
}

// Parse returns the type named by the given SQL type name.
func Parse(name string) (*T, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool", "boolean":
		return Bool, nil
	case "int2", "smallint":
		return Int2, nil
	case "int4", "integer":
		return Int4, nil
	case "int", "int8", "bigint":
		return Int, nil
	case "decimal", "numeric":
		return Decimal, nil
	case "float", "float8", "double":
		return Float, nil
	case "string", "text", "varchar":
		return String, nil
	case "date":
		return Date, nil
	case "timestamp":
		return Timestamp, nil
	}
	return nil, errors.Newf("unknown type name %q", name)
}
