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
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/cockroachdb/optpred/pkg/util/treeprinter"
)

// The printed form of a scalar expression is a prefix rendering:
//
//	AND(=($0, 1), IN($1, 'a', 'b'), BETWEEN(false, $2, 1, 5))
//
// Literals print their value, followed by ":TYPE" when the type is not the
// one implied by the value. The rewrite rules use the printed form as the
// identity of a predicate.

func (e *ConstExpr) String() string       { return formatScalar(e) }
func (e *VariableExpr) String() string    { return formatScalar(e) }
func (e *CallExpr) String() string        { return formatScalar(e) }
func (e *WindowExpr) String() string      { return formatScalar(e) }
func (e *CorrelationExpr) String() string { return formatScalar(e) }
func (e *PlaceholderExpr) String() string { return formatScalar(e) }
func (e *RangeRefExpr) String() string    { return formatScalar(e) }
func (e *FieldAccessExpr) String() string { return formatScalar(e) }

func formatScalar(e ScalarExpr) string {
	var buf bytes.Buffer
	writeScalar(&buf, e)
	return buf.String()
}

func writeScalar(buf *bytes.Buffer, e ScalarExpr) {
	switch t := e.(type) {
	case *ConstExpr:
		writeConst(buf, t)

	case *VariableExpr:
		fmt.Fprintf(buf, "$%d", t.Col)

	case *CallExpr:
		if t.Fn.Op == opt.CastOp {
			buf.WriteString("CAST(")
			writeScalar(buf, t.Args[0])
			fmt.Fprintf(buf, "):%s", t.Typ)
			return
		}
		buf.WriteString(t.Fn.Name)
		writeList(buf, t.Args)

	case *WindowExpr:
		buf.WriteString(t.Fn.Name)
		writeList(buf, t.Args)
		buf.WriteString(" OVER (")
		if len(t.Partition) > 0 {
			buf.WriteString("PARTITION BY ")
			writeItems(buf, t.Partition)
		}
		if len(t.Ordering) > 0 {
			if len(t.Partition) > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString("ORDER BY ")
			writeItems(buf, t.Ordering)
		}
		buf.WriteByte(')')

	case *CorrelationExpr:
		fmt.Fprintf(buf, "$cor%d", t.ID)

	case *PlaceholderExpr:
		fmt.Fprintf(buf, "?%d", t.Index)

	case *RangeRefExpr:
		fmt.Fprintf(buf, "RANGE($%d)", t.Offset)

	case *FieldAccessExpr:
		writeScalar(buf, t.Input)
		buf.WriteByte('.')
		buf.WriteString(t.Field)

	default:
		panic(errors.AssertionFailedf("unhandled scalar expression %T", e))
	}
}

func writeList(buf *bytes.Buffer, list []ScalarExpr) {
	buf.WriteByte('(')
	writeItems(buf, list)
	buf.WriteByte(')')
}

func writeItems(buf *bytes.Buffer, list []ScalarExpr) {
	for i, item := range list {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeScalar(buf, item)
	}
}

func writeConst(buf *bytes.Buffer, c *ConstExpr) {
	var natural *types.T
	switch v := c.Value.(type) {
	case nil:
		buf.WriteString("null")
		natural = types.Unknown
	case bool:
		buf.WriteString(strconv.FormatBool(v))
		natural = types.Bool
	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))
		natural = types.Int
	case float64:
		// Floats always carry their type, so that they never print like
		// decimals.
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case *apd.Decimal:
		buf.WriteString(v.String())
		natural = types.Decimal
	case string:
		buf.WriteByte('\'')
		buf.WriteString(strings.ReplaceAll(v, "'", "''"))
		buf.WriteByte('\'')
		natural = types.String
	default:
		panic(errors.AssertionFailedf("unsupported literal value of type %T", c.Value))
	}
	if natural == nil || !natural.Identical(c.Typ) {
		buf.WriteByte(':')
		buf.WriteString(c.Typ.String())
	}
}

// ExprFmtFlags controls which properties of a relational expression are shown
// in formatted output.
type ExprFmtFlags int

const (
	// ExprFmtShowAll shows all properties of the expression.
	ExprFmtShowAll ExprFmtFlags = 0

	// ExprFmtHideIDs does not show the RelID of each expression.
	ExprFmtHideIDs ExprFmtFlags = 1 << (iota - 1)

	// ExprFmtHideTypes does not show the types of scan columns.
	ExprFmtHideTypes
)

// HasFlags tests whether the given flags are all set.
func (f ExprFmtFlags) HasFlags(subset ExprFmtFlags) bool {
	return f&subset == subset
}

// FormatRel returns a tree rendering of the given relational expression, such
// as:
//
//	select IN($0, 1, 2)
//	 └── project $0 AS x, +($1, 1) AS $f1
//	      └── scan a (x:INT, y:INT)
func FormatRel(e RelExpr, flags ExprFmtFlags) string {
	tp := treeprinter.New()
	formatRel(e, flags, tp)
	return tp.String()
}

func formatRel(e RelExpr, flags ExprFmtFlags, tp treeprinter.Node) {
	var buf bytes.Buffer
	switch t := e.(type) {
	case *ScanExpr:
		fmt.Fprintf(&buf, "scan %s ", t.Table)
		writeFields(&buf, t.Cols, flags)

	case *SelectExpr:
		buf.WriteString("select ")
		writeScalar(&buf, t.Filter)

	case *ProjectExpr:
		buf.WriteString("project")
		for i, p := range t.Projections {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte(' ')
			writeScalar(&buf, p)
			if t.Names[i] != "" {
				fmt.Fprintf(&buf, " AS %s", t.Names[i])
			}
		}

	case *JoinExpr:
		buf.WriteString("join")
		if t.On != nil {
			buf.WriteByte(' ')
			writeScalar(&buf, t.On)
		}
		if len(t.SystemFields) > 0 {
			buf.WriteString(" system ")
			writeFields(&buf, t.SystemFields, flags)
		}

	default:
		panic(errors.AssertionFailedf("unhandled relational expression %T", e))
	}
	if !flags.HasFlags(ExprFmtHideIDs) {
		fmt.Fprintf(&buf, " [#%d]", e.ID())
	}

	tp = tp.Child(buf.String())
	for i, n := 0, e.ChildCount(); i < n; i++ {
		formatRel(e.Child(i), flags, tp)
	}
}

func writeFields(buf *bytes.Buffer, fields []Field, flags ExprFmtFlags) {
	buf.WriteByte('(')
	for i := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fields[i].Name)
		if !flags.HasFlags(ExprFmtHideTypes) {
			fmt.Fprintf(buf, ":%s", fields[i].Type)
		}
	}
	buf.WriteByte(')')
}
