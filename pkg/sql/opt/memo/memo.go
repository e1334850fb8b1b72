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
	"github.com/cockroachdb/redact"
)

// Memo is the factory and owner of relational expressions for one planning
// session. Every expression it constructs gets a fresh RelID, so two
// expressions built separately are never the same node even if their
// contents match.
//
// A Memo is not safe for concurrent use.
type Memo struct {
	nextID RelID

	// checks enables CheckRel on every constructed expression.
	checks bool
}

// New returns an empty memo. Construction-time checks are enabled.
func New() *Memo {
	return &Memo{checks: true}
}

// Init resets the memo to its empty state, with construction-time checks
// set as given.
func (m *Memo) Init(checks bool) {
	*m = Memo{checks: checks}
}

// ExprCount returns the number of expressions constructed so far.
func (m *Memo) ExprCount() int {
	return int(m.nextID)
}

func (m *Memo) newID() RelID {
	m.nextID++
	return m.nextID
}

func (m *Memo) finish(e RelExpr) RelExpr {
	if m.checks {
		CheckRel(e)
	}
	return e
}

// ConstructScan returns a scan of the named table with the given columns.
func (m *Memo) ConstructScan(table string, cols []Field) RelExpr {
	return m.finish(&ScanExpr{id: m.newID(), Table: table, Cols: cols})
}

// ConstructSelect returns a filter of input by the given condition.
func (m *Memo) ConstructSelect(input RelExpr, filter ScalarExpr) RelExpr {
	return m.finish(&SelectExpr{id: m.newID(), Input: input, Filter: filter})
}

// ConstructProject returns a projection of input. The output field names are
// taken from names as given; callers that need unique names must provide
// them.
func (m *Memo) ConstructProject(input RelExpr, projections []ScalarExpr, names []string) RelExpr {
	p := &ProjectExpr{id: m.newID(), Input: input, Projections: projections, Names: names}
	if len(names) == len(projections) {
		p.fields = make([]Field, len(projections))
		for i := range projections {
			p.fields[i] = Field{Name: names[i], Type: projections[i].DataType()}
		}
	}
	return m.finish(p)
}

// ConstructJoin returns an inner join of the inputs on the given condition.
// systemFields become the leading columns of the join schema.
func (m *Memo) ConstructJoin(inputs []RelExpr, on ScalarExpr, systemFields []Field) RelExpr {
	j := &JoinExpr{id: m.newID(), Inputs: inputs, On: on, SystemFields: systemFields}
	n := len(systemFields)
	for _, in := range inputs {
		n += in.FieldCount()
	}
	j.fields = make([]Field, 0, n)
	j.fields = append(j.fields, systemFields...)
	for _, in := range inputs {
		j.fields = append(j.fields, in.Fields()...)
	}
	return m.finish(j)
}

// ReplaceChildren returns a copy of e with its relational inputs replaced by
// children. If every child is identical to the existing input, e itself is
// returned.
func (m *Memo) ReplaceChildren(e RelExpr, children []RelExpr) RelExpr {
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
	case *SelectExpr:
		return m.ConstructSelect(children[0], t.Filter)
	case *ProjectExpr:
		return m.ConstructProject(children[0], t.Projections, t.Names)
	case *JoinExpr:
		return m.ConstructJoin(children, t.On, t.SystemFields)
	default:
		panic(errors.AssertionFailedf("unhandled relational expression %T", e))
	}
}
