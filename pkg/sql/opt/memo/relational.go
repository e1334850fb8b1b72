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
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/cockroachdb/redact"
)

// RelID identifies a relational expression within a Memo. IDs are assigned
// in construction order starting at 1 and never reused.
type RelID int32

// SafeValue implements redact.SafeValue.
func (RelID) SafeValue() {}

// Field is one column of a relational expression's output schema. Name may be
// empty for synthesized columns.
type Field struct {
	Name string
	Type *types.T
}

// RelExpr is a relational expression: a node that produces rows with the
// schema returned by Fields. Relational expressions are built by a Memo and
// are never mutated afterwards.
type RelExpr interface {
	// Op returns ScanOp, SelectOp, ProjectOp or JoinOp.
	Op() opt.Operator

	// ID returns the identity of the expression in its Memo.
	ID() RelID

	// Fields returns the ordered output schema.
	Fields() []Field

	// FieldCount returns len(Fields()).
	FieldCount() int

	// ChildCount returns the number of relational inputs.
	ChildCount() int

	// Child returns the nth relational input.
	Child(nth int) RelExpr

	isRel()
}

// ScanExpr is a leaf that reads the rows of a named table.
type ScanExpr struct {
	id    RelID
	Table string
	Cols  []Field
}

// SelectExpr filters the rows of its input.
type SelectExpr struct {
	id     RelID
	Input  RelExpr
	Filter ScalarExpr
}

// ProjectExpr computes a new row from each input row. Projections address
// the input schema.
type ProjectExpr struct {
	id          RelID
	Input       RelExpr
	Projections []ScalarExpr
	Names       []string
	fields      []Field
}

// JoinExpr is an n-ary inner join. Its schema is SystemFields followed by the
// fields of each input in order; On addresses that schema. On is nil for a
// cross join.
type JoinExpr struct {
	id           RelID
	Inputs       []RelExpr
	On           ScalarExpr
	SystemFields []Field
	fields       []Field
}

var _ RelExpr = &ScanExpr{}
var _ RelExpr = &SelectExpr{}
var _ RelExpr = &ProjectExpr{}
var _ RelExpr = &JoinExpr{}

func (e *ScanExpr) Op() opt.Operator    { return opt.ScanOp }
func (e *SelectExpr) Op() opt.Operator  { return opt.SelectOp }
func (e *ProjectExpr) Op() opt.Operator { return opt.ProjectOp }
func (e *JoinExpr) Op() opt.Operator    { return opt.JoinOp }

func (e *ScanExpr) ID() RelID    { return e.id }
func (e *SelectExpr) ID() RelID  { return e.id }
func (e *ProjectExpr) ID() RelID { return e.id }
func (e *JoinExpr) ID() RelID    { return e.id }

func (e *ScanExpr) Fields() []Field    { return e.Cols }
func (e *SelectExpr) Fields() []Field  { return e.Input.Fields() }
func (e *ProjectExpr) Fields() []Field { return e.fields }
func (e *JoinExpr) Fields() []Field    { return e.fields }

func (e *ScanExpr) FieldCount() int    { return len(e.Cols) }
func (e *SelectExpr) FieldCount() int  { return e.Input.FieldCount() }
func (e *ProjectExpr) FieldCount() int { return len(e.fields) }
func (e *JoinExpr) FieldCount() int    { return len(e.fields) }

func (e *ScanExpr) ChildCount() int    { return 0 }
func (e *SelectExpr) ChildCount() int  { return 1 }
func (e *ProjectExpr) ChildCount() int { return 1 }
func (e *JoinExpr) ChildCount() int    { return len(e.Inputs) }

func noRelChild(e RelExpr, nth int) RelExpr {
	panic(errors.AssertionFailedf("child index %d out of range for %s", redact.Safe(nth), e.Op()))
}

func (e *ScanExpr) Child(nth int) RelExpr { return noRelChild(e, nth) }

func (e *SelectExpr) Child(nth int) RelExpr {
	if nth != 0 {
		return noRelChild(e, nth)
	}
	return e.Input
}

func (e *ProjectExpr) Child(nth int) RelExpr {
	if nth != 0 {
		return noRelChild(e, nth)
	}
	return e.Input
}

func (e *JoinExpr) Child(nth int) RelExpr {
	if nth < 0 || nth >= len(e.Inputs) {
		return noRelChild(e, nth)
	}
	return e.Inputs[nth]
}

func (*ScanExpr) isRel()    {}
func (*SelectExpr) isRel()  {}
func (*ProjectExpr) isRel() {}
func (*JoinExpr) isRel()    {}

// InputOffset returns the position in the join schema of the first column of
// the nth input: the system field count plus the field counts of all
// preceding inputs.
func (e *JoinExpr) InputOffset(nth int) int {
	off := len(e.SystemFields)
	for i := 0; i < nth; i++ {
		off += e.Inputs[i].FieldCount()
	}
	return off
}
