// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package memo

import (
	"strings"

	"github.com/cockroachdb/optpred/pkg/sql/opt"
)

// Function describes the operator or function applied by a CallExpr or
// WindowExpr. Functions are compared by pointer; the builtin operators are
// singletons.
type Function struct {
	// Name is the printed name of the function: the operator symbol for
	// comparisons and arithmetic, an upper-case keyword for the other
	// operators, or the lower-case function name.
	Name string

	// Op is the kind tag of calls to this function.
	Op opt.Operator

	// Deterministic is false if the function can return different results
	// for the same operands (random(), uuid generation, ...).
	Deterministic bool
}

// Builtin operator functions.
var (
	AndFn               = &Function{Name: "AND", Op: opt.AndOp, Deterministic: true}
	OrFn                = &Function{Name: "OR", Op: opt.OrOp, Deterministic: true}
	NotFn               = &Function{Name: "NOT", Op: opt.NotOp, Deterministic: true}
	EqFn                = &Function{Name: "=", Op: opt.EqOp, Deterministic: true}
	NeFn                = &Function{Name: "<>", Op: opt.NeOp, Deterministic: true}
	LtFn                = &Function{Name: "<", Op: opt.LtOp, Deterministic: true}
	LeFn                = &Function{Name: "<=", Op: opt.LeOp, Deterministic: true}
	GtFn                = &Function{Name: ">", Op: opt.GtOp, Deterministic: true}
	GeFn                = &Function{Name: ">=", Op: opt.GeOp, Deterministic: true}
	InFn                = &Function{Name: "IN", Op: opt.InOp, Deterministic: true}
	BetweenFn           = &Function{Name: "BETWEEN", Op: opt.BetweenOp, Deterministic: true}
	IsNullFn            = &Function{Name: "IS NULL", Op: opt.IsNullOp, Deterministic: true}
	IsNotNullFn         = &Function{Name: "IS NOT NULL", Op: opt.IsNotNullOp, Deterministic: true}
	IsNotDistinctFromFn = &Function{Name: "IS NOT DISTINCT FROM", Op: opt.IsNotDistinctFromOp, Deterministic: true}
	PlusFn              = &Function{Name: "+", Op: opt.PlusOp, Deterministic: true}
	MinusFn             = &Function{Name: "-", Op: opt.MinusOp, Deterministic: true}
	MultFn              = &Function{Name: "*", Op: opt.MultOp, Deterministic: true}
	DivFn               = &Function{Name: "/", Op: opt.DivOp, Deterministic: true}
	UnaryMinusFn        = &Function{Name: "-", Op: opt.UnaryMinusOp, Deterministic: true}
	CastFn              = &Function{Name: "CAST", Op: opt.CastOp, Deterministic: true}
)

var operatorFns = map[opt.Operator]*Function{
	opt.AndOp:               AndFn,
	opt.OrOp:                OrFn,
	opt.NotOp:               NotFn,
	opt.EqOp:                EqFn,
	opt.NeOp:                NeFn,
	opt.LtOp:                LtFn,
	opt.LeOp:                LeFn,
	opt.GtOp:                GtFn,
	opt.GeOp:                GeFn,
	opt.InOp:                InFn,
	opt.BetweenOp:           BetweenFn,
	opt.IsNullOp:            IsNullFn,
	opt.IsNotNullOp:         IsNotNullFn,
	opt.IsNotDistinctFromOp: IsNotDistinctFromFn,
	opt.PlusOp:              PlusFn,
	opt.MinusOp:             MinusFn,
	opt.MultOp:              MultFn,
	opt.DivOp:               DivFn,
	opt.UnaryMinusOp:        UnaryMinusFn,
	opt.CastOp:              CastFn,
}

// OperatorFunction returns the builtin function for the given operator, or
// nil if the operator has no builtin function.
func OperatorFunction(op opt.Operator) *Function {
	return operatorFns[op]
}

// nonDeterministicFns lists the named functions that are known to be
// non-deterministic.
var nonDeterministicFns = map[string]struct{}{
	"random":            {},
	"rand":              {},
	"uuid":              {},
	"gen_random_uuid":   {},
	"now":               {},
	"current_timestamp": {},
}

// NewFunction returns a descriptor for the named scalar function.
func NewFunction(name string) *Function {
	name = strings.ToLower(name)
	_, nonDet := nonDeterministicFns[name]
	return &Function{Name: name, Op: opt.FunctionOp, Deterministic: !nonDet}
}

// NewAggregate returns a descriptor for the named aggregate function.
// Aggregates are deterministic over a fixed set of rows.
func NewAggregate(name string) *Function {
	return &Function{Name: strings.ToLower(name), Op: opt.AggregateOp, Deterministic: true}
}

var aggregateNames = map[string]struct{}{
	"sum":   {},
	"count": {},
	"min":   {},
	"max":   {},
	"avg":   {},
	"rank":  {},
}

// IsAggregateName returns true if name is a known aggregate function.
func IsAggregateName(name string) bool {
	_, ok := aggregateNames[strings.ToLower(name)]
	return ok
}
