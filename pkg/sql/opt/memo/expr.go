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
	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/cockroachdb/redact"
)

// ScalarExpr is a node in an immutable scalar expression tree. The set of
// implementations is closed: ConstExpr, VariableExpr, CallExpr, WindowExpr,
// CorrelationExpr, PlaceholderExpr, RangeRefExpr and FieldAccessExpr. Code
// that switches over the concrete type must raise an assertion failure in its
// default branch.
//
// Trees are never mutated after construction. Subtrees may be shared by any
// number of parents and result structures.
type ScalarExpr interface {
	// Op returns the kind of the expression. For a CallExpr this is the kind
	// of its function (AndOp, EqOp, FunctionOp, ...).
	Op() opt.Operator

	// DataType returns the semantic type of the expression.
	DataType() *types.T

	// ChildCount returns the number of operands.
	ChildCount() int

	// Child returns the nth operand.
	Child(nth int) ScalarExpr

	// String returns the printed form of the expression. Two expressions with
	// the same printed form are treated as the same predicate by the rewrite
	// rules.
	String() string

	isScalar()
}

// ConstExpr is a literal value. Value is nil (NULL), bool, int64, float64,
// *apd.Decimal or string.
type ConstExpr struct {
	Value interface{}
	Typ   *types.T
}

// VariableExpr references a column of the input row by position.
type VariableExpr struct {
	Col int
	Typ *types.T
}

// CallExpr applies a function or operator to an ordered list of operands.
type CallExpr struct {
	Fn   *Function
	Args []ScalarExpr
	Typ  *types.T
}

// WindowExpr is a windowed aggregate: an aggregate function computed over the
// rows of a partition.
type WindowExpr struct {
	Fn        *Function
	Args      []ScalarExpr
	Partition []ScalarExpr
	Ordering  []ScalarExpr
	Typ       *types.T
}

// CorrelationExpr references the current row of an enclosing scope.
type CorrelationExpr struct {
	ID  int
	Typ *types.T
}

// PlaceholderExpr is a dynamic parameter, bound at execution time.
type PlaceholderExpr struct {
	Index int
	Typ   *types.T
}

// RangeRefExpr references the run of input columns starting at Offset, as a
// single record value.
type RangeRefExpr struct {
	Offset int
	Typ    *types.T
}

// FieldAccessExpr accesses a named field of a record-valued expression.
type FieldAccessExpr struct {
	Input ScalarExpr
	Field string
	Typ   *types.T
}

var _ ScalarExpr = &ConstExpr{}
var _ ScalarExpr = &VariableExpr{}
var _ ScalarExpr = &CallExpr{}
var _ ScalarExpr = &WindowExpr{}
var _ ScalarExpr = &CorrelationExpr{}
var _ ScalarExpr = &PlaceholderExpr{}
var _ ScalarExpr = &RangeRefExpr{}
var _ ScalarExpr = &FieldAccessExpr{}

// Singletons for the boolean and NULL literals.
var (
	TrueSingleton  = &ConstExpr{Value: true, Typ: types.Bool}
	FalseSingleton = &ConstExpr{Value: false, Typ: types.Bool}
	NullSingleton  = &ConstExpr{Value: nil, Typ: types.Unknown}
)

// NewConst returns a literal of the given type. The value must be one of the
// supported literal representations.
func NewConst(value interface{}, typ *types.T) *ConstExpr {
	switch value.(type) {
	case nil, bool, int64, float64, *apd.Decimal, string:
	default:
		panic(errors.AssertionFailedf("unsupported literal value of type %T", value))
	}
	return &ConstExpr{Value: value, Typ: typ}
}

// NewVariable returns a reference to the column at the given position.
func NewVariable(col int, typ *types.T) *VariableExpr {
	if col < 0 {
		panic(errors.AssertionFailedf("negative column position %d", redact.Safe(col)))
	}
	return &VariableExpr{Col: col, Typ: typ}
}

// NewCall returns a call of fn with the given operands. The operand count is
// checked against the function's kind.
func NewCall(fn *Function, typ *types.T, args ...ScalarExpr) *CallExpr {
	c := &CallExpr{Fn: fn, Args: args, Typ: typ}
	checkCall(c)
	return c
}

// IsTrue returns true if e is the TRUE literal.
func IsTrue(e ScalarExpr) bool {
	c, ok := e.(*ConstExpr)
	return ok && c.Value == true
}

// IsFalse returns true if e is the FALSE literal.
func IsFalse(e ScalarExpr) bool {
	c, ok := e.(*ConstExpr)
	return ok && c.Value == false
}

// Op implements the ScalarExpr interface.
func (e *ConstExpr) Op() opt.Operator { return opt.ConstOp }

// Op implements the ScalarExpr interface.
func (e *VariableExpr) Op() opt.Operator { return opt.VariableOp }

// Op implements the ScalarExpr interface.
func (e *CallExpr) Op() opt.Operator { return e.Fn.Op }

// Op implements the ScalarExpr interface.
func (e *WindowExpr) Op() opt.Operator { return opt.WindowOp }

// Op implements the ScalarExpr interface.
func (e *CorrelationExpr) Op() opt.Operator { return opt.CorrelationOp }

// Op implements the ScalarExpr interface.
func (e *PlaceholderExpr) Op() opt.Operator { return opt.PlaceholderOp }

// Op implements the ScalarExpr interface.
func (e *RangeRefExpr) Op() opt.Operator { return opt.RangeRefOp }

// Op implements the ScalarExpr interface.
func (e *FieldAccessExpr) Op() opt.Operator { return opt.FieldAccessOp }

func (e *ConstExpr) DataType() *types.T       { return e.Typ }
func (e *VariableExpr) DataType() *types.T    { return e.Typ }
func (e *CallExpr) DataType() *types.T        { return e.Typ }
func (e *WindowExpr) DataType() *types.T      { return e.Typ }
func (e *CorrelationExpr) DataType() *types.T { return e.Typ }
func (e *PlaceholderExpr) DataType() *types.T { return e.Typ }
func (e *RangeRefExpr) DataType() *types.T    { return e.Typ }
func (e *FieldAccessExpr) DataType() *types.T { return e.Typ }

func (e *ConstExpr) ChildCount() int       { return 0 }
func (e *VariableExpr) ChildCount() int    { return 0 }
func (e *CallExpr) ChildCount() int        { return len(e.Args) }
func (e *CorrelationExpr) ChildCount() int { return 0 }
func (e *PlaceholderExpr) ChildCount() int { return 0 }
func (e *RangeRefExpr) ChildCount() int    { return 0 }
func (e *FieldAccessExpr) ChildCount() int { return 1 }

// ChildCount implements the ScalarExpr interface. The children of a window
// are its arguments, then its partition expressions, then its ordering
// expressions.
func (e *WindowExpr) ChildCount() int {
	return len(e.Args) + len(e.Partition) + len(e.Ordering)
}

func noChild(e ScalarExpr, nth int) ScalarExpr {
	panic(errors.AssertionFailedf("child index %d out of range for %s", redact.Safe(nth), e.Op()))
}

func (e *ConstExpr) Child(nth int) ScalarExpr       { return noChild(e, nth) }
func (e *VariableExpr) Child(nth int) ScalarExpr    { return noChild(e, nth) }
func (e *CorrelationExpr) Child(nth int) ScalarExpr { return noChild(e, nth) }
func (e *PlaceholderExpr) Child(nth int) ScalarExpr { return noChild(e, nth) }
func (e *RangeRefExpr) Child(nth int) ScalarExpr    { return noChild(e, nth) }

// Child implements the ScalarExpr interface.
func (e *CallExpr) Child(nth int) ScalarExpr {
	if nth < 0 || nth >= len(e.Args) {
		return noChild(e, nth)
	}
	return e.Args[nth]
}

// Child implements the ScalarExpr interface.
func (e *WindowExpr) Child(nth int) ScalarExpr {
	switch {
	case nth < 0:
	case nth < len(e.Args):
		return e.Args[nth]
	case nth < len(e.Args)+len(e.Partition):
		return e.Partition[nth-len(e.Args)]
	case nth < e.ChildCount():
		return e.Ordering[nth-len(e.Args)-len(e.Partition)]
	}
	return noChild(e, nth)
}

// Child implements the ScalarExpr interface.
func (e *FieldAccessExpr) Child(nth int) ScalarExpr {
	if nth != 0 {
		return noChild(e, nth)
	}
	return e.Input
}

func (*ConstExpr) isScalar()       {}
func (*VariableExpr) isScalar()    {}
func (*CallExpr) isScalar()        {}
func (*WindowExpr) isScalar()      {}
func (*CorrelationExpr) isScalar() {}
func (*PlaceholderExpr) isScalar() {}
func (*RangeRefExpr) isScalar()    {}
func (*FieldAccessExpr) isScalar() {}

// WithChildren returns an expression of the same kind as e with its operands
// replaced by children. If every child is identical to the existing operand,
// e itself is returned.
func WithChildren(e ScalarExpr, children []ScalarExpr) ScalarExpr {
	if len(children) != e.ChildCount() {
		panic(errors.AssertionFailedf(
			"expected %d children for %s, got %d",
			redact.Safe(e.ChildCount()), e.Op(), redact.Safe(len(children)),
		))
	}
	same := true
	for i := range children {
		if children[i] != e.Child(i) {
			same = false
			break
		}
	}
	if same {
		return e
	}

	switch t := e.(type) {
	case *CallExpr:
		return NewCall(t.Fn, t.Typ, children...)

	case *WindowExpr:
		nArgs, nPart := len(t.Args), len(t.Partition)
		return &WindowExpr{
			Fn:        t.Fn,
			Args:      children[:nArgs:nArgs],
			Partition: children[nArgs : nArgs+nPart : nArgs+nPart],
			Ordering:  children[nArgs+nPart:],
			Typ:       t.Typ,
		}

	case *FieldAccessExpr:
		return &FieldAccessExpr{Input: children[0], Field: t.Field, Typ: t.Typ}

	case *ConstExpr, *VariableExpr, *CorrelationExpr, *PlaceholderExpr, *RangeRefExpr:
		// Leaves have no children, so they are always returned above.
		return e

	default:
		panic(errors.AssertionFailedf("unhandled scalar expression %T", e))
	}
}
