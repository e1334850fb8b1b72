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

// checkCall verifies that a call has an operand count that fits its operator.
// The operand list is fixed once the call is constructed.
func checkCall(c *CallExpr) {
	if c.Fn == nil {
		panic(errors.AssertionFailedf("call without a function"))
	}
	n := len(c.Args)
	for i, arg := range c.Args {
		if arg == nil {
			panic(errors.AssertionFailedf("%s operand %d is nil", c.Fn.Op, redact.Safe(i)))
		}
	}

	expect := func(ok bool, what string) {
		if !ok {
			panic(errors.AssertionFailedf(
				"%s expects %s operands, got %d", c.Fn.Op, redact.SafeString(what), redact.Safe(n),
			))
		}
	}
	switch c.Fn.Op {
	case opt.AndOp, opt.OrOp:
		expect(n >= 2, "at least 2")

	case opt.NotOp, opt.IsNullOp, opt.IsNotNullOp, opt.UnaryMinusOp, opt.CastOp:
		expect(n == 1, "1")

	case opt.EqOp, opt.NeOp, opt.LtOp, opt.LeOp, opt.GtOp, opt.GeOp,
		opt.IsNotDistinctFromOp, opt.PlusOp, opt.MinusOp, opt.MultOp, opt.DivOp:
		expect(n == 2, "2")

	case opt.InOp:
		expect(n >= 2, "at least 2")

	case opt.BetweenOp:
		expect(n == 4, "4")
		if inv, ok := c.Args[0].(*ConstExpr); !ok || inv.Typ.Family() != types.BoolFamily {
			panic(errors.AssertionFailedf("BETWEEN must start with its invert flag, got %s", c.Args[0]))
		}

	case opt.FunctionOp, opt.AggregateOp, opt.OtherOp:

	default:
		panic(errors.AssertionFailedf("%s is not a call operator", c.Fn.Op))
	}
}

// CheckRel does sanity checking on a relational expression when it is
// constructed: every column reference in its scalar operands must address a
// column of its input schema.
func CheckRel(e RelExpr) {
	switch t := e.(type) {
	case *ScanExpr:
		for i := range t.Cols {
			if t.Cols[i].Type == nil {
				panic(errors.AssertionFailedf("scan %s column %d has no type", t.Table, redact.Safe(i)))
			}
		}

	case *SelectExpr:
		checkRefs(t.Filter, t.Input.FieldCount(), e)
		switch t.Filter.DataType().Family() {
		case types.BoolFamily, types.UnknownFamily:
		default:
			panic(errors.AssertionFailedf("select filter %s is not boolean", t.Filter))
		}

	case *ProjectExpr:
		if len(t.Projections) != len(t.Names) {
			panic(errors.AssertionFailedf(
				"project has %d expressions and %d names",
				redact.Safe(len(t.Projections)), redact.Safe(len(t.Names)),
			))
		}
		for _, p := range t.Projections {
			checkRefs(p, t.Input.FieldCount(), e)
		}

	case *JoinExpr:
		if len(t.Inputs) < 2 {
			panic(errors.AssertionFailedf("join needs at least 2 inputs, got %d", redact.Safe(len(t.Inputs))))
		}
		if t.On != nil {
			checkRefs(t.On, t.FieldCount(), e)
		}

	default:
		panic(errors.AssertionFailedf("unhandled relational expression %T", e))
	}
}

func checkRefs(s ScalarExpr, fieldCount int, e RelExpr) {
	ColumnRefs(s).ForEach(func(pos int) {
		if pos >= fieldCount {
			panic(errors.AssertionFailedf(
				"%s references column %d but its input has %d columns",
				e.Op(), redact.Safe(pos), redact.Safe(fieldCount),
			))
		}
	})
}
