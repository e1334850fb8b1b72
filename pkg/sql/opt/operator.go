// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package opt

import (
	"fmt"

	"github.com/cockroachdb/redact"
)

// Operator describes the type of operation that a memo expression performs.
// Scalar call expressions carry an Operator as their kind tag; relational
// expressions use the relational operators at the end of the list.
type Operator uint16

const (
	// UnknownOp is not a valid operator.
	UnknownOp Operator = iota

	// -- Scalar leaf operators --

	// ConstOp is a literal value.
	ConstOp
	// VariableOp is a reference to a column of the input row.
	VariableOp
	// CorrelationOp is a reference to a row of an enclosing scope.
	CorrelationOp
	// PlaceholderOp is a dynamic parameter.
	PlaceholderOp
	// RangeRefOp is a reference to a run of input columns.
	RangeRefOp
	// FieldAccessOp accesses a named field of a record-valued expression.
	FieldAccessOp
	// WindowOp is a windowed aggregate.
	WindowOp

	// -- Scalar call operators --

	AndOp
	OrOp
	NotOp

	EqOp
	NeOp
	LtOp
	LeOp
	GtOp
	GeOp
	InOp
	BetweenOp
	IsNullOp
	IsNotNullOp
	IsNotDistinctFromOp

	PlusOp
	MinusOp
	MultOp
	DivOp
	UnaryMinusOp

	CastOp

	// FunctionOp is a call to a named scalar function.
	FunctionOp

	// AggregateOp is an aggregate function; it appears inside WindowOp.
	AggregateOp

	// OtherOp is the catch-all kind. Join leaf predicates that could not be
	// split into per-input keys are classified with it.
	OtherOp

	// -- Relational operators --

	ScanOp
	SelectOp
	ProjectOp
	JoinOp

	// NumOperators tracks the total count of operators.
	NumOperators
)

var opNames = [...]string{
	UnknownOp:           "unknown",
	ConstOp:             "const",
	VariableOp:          "variable",
	CorrelationOp:       "correlation",
	PlaceholderOp:       "placeholder",
	RangeRefOp:          "range-ref",
	FieldAccessOp:       "field-access",
	WindowOp:            "window",
	AndOp:               "and",
	OrOp:                "or",
	NotOp:               "not",
	EqOp:                "eq",
	NeOp:                "ne",
	LtOp:                "lt",
	LeOp:                "le",
	GtOp:                "gt",
	GeOp:                "ge",
	InOp:                "in",
	BetweenOp:           "between",
	IsNullOp:            "is-null",
	IsNotNullOp:         "is-not-null",
	IsNotDistinctFromOp: "is-not-distinct-from",
	PlusOp:              "plus",
	MinusOp:             "minus",
	MultOp:              "mult",
	DivOp:               "div",
	UnaryMinusOp:        "unary-minus",
	CastOp:              "cast",
	FunctionOp:          "function",
	AggregateOp:         "aggregate",
	OtherOp:             "other",
	ScanOp:              "scan",
	SelectOp:            "select",
	ProjectOp:           "project",
	JoinOp:              "join",
}

func (op Operator) String() string {
	if op >= NumOperators {
		return fmt.Sprintf("operator(%d)", op)
	}
	return opNames[op]
}

// SafeFormat implements redact.SafeFormatter. Operator names never contain
// user data.
func (op Operator) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(op.String()))
}

// ComparisonOpSymbols maps the comparison operators to the symbol used when
// printing them.
var ComparisonOpSymbols = map[Operator]string{
	EqOp: "=",
	NeOp: "<>",
	LtOp: "<",
	LeOp: "<=",
	GtOp: ">",
	GeOp: ">=",
}

// CommuteOpMap maps a comparison operator to the operator obtained by
// swapping its operands.
var CommuteOpMap = map[Operator]Operator{
	EqOp: EqOp,
	NeOp: NeOp,
	LtOp: GtOp,
	LeOp: GeOp,
	GtOp: LtOp,
	GeOp: LeOp,
}

// NegateOpMap maps a comparison operator to its logical negation.
var NegateOpMap = map[Operator]Operator{
	EqOp: NeOp,
	NeOp: EqOp,
	LtOp: GeOp,
	LeOp: GtOp,
	GtOp: LeOp,
	GeOp: LtOp,
}

// IsComparisonOp returns true for the six binary comparison operators.
func IsComparisonOp(op Operator) bool {
	_, ok := ComparisonOpSymbols[op]
	return ok
}

// IsBooleanOp returns true for AND, OR and NOT.
func IsBooleanOp(op Operator) bool {
	return op == AndOp || op == OrOp || op == NotOp
}

// IsRelationalOp returns true for operators that produce rows.
func IsRelationalOp(op Operator) bool {
	return op >= ScanOp && op < NumOperators
}
