// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package optparse

import (
	"testing"

	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestParseScalar(t *testing.T) {
	cols := []*types.T{types.Int, types.String, types.Int}
	testCases := []struct {
		in  string
		out string
		typ *types.T
	}{
		{in: "$0 = 1 AND $1 > 'a'", out: "AND(=($0, 1), >($1, 'a'))", typ: types.Bool},
		{in: "$0 IN (1, 2) OR $2 BETWEEN 1 AND 5", out: "OR(IN($0, 1, 2), BETWEEN(false, $2, 1, 5))"},
		{in: "$0 NOT BETWEEN 1 AND 2", out: "BETWEEN(true, $0, 1, 2)"},
		{in: "NOT $0 IN (3)", out: "NOT(IN($0, 3))"},
		{in: "$0 NOT IN (3)", out: "NOT(IN($0, 3))"},
		{in: "($0 = 1 AND $2 = 2) AND $0 = 3", out: "AND(AND(=($0, 1), =($2, 2)), =($0, 3))"},
		{in: "$0 = 1 OR $0 = 2 OR $0 = 3", out: "OR(=($0, 1), =($0, 2), =($0, 3))"},
		{in: "CAST($0 AS DECIMAL)", out: "CAST($0):DECIMAL", typ: types.Decimal},
		{in: "$0::STRING", out: "CAST($0):STRING", typ: types.String},
		{in: "$0 + 1.5", out: "+($0, 1.5)", typ: types.Decimal},
		{in: "$0 * 2 - $2 / 4", out: "-(*($0, 2), /($2, 4))", typ: types.Int},
		{in: "1.5:FLOAT", out: "1.5:FLOAT", typ: types.Float},
		{in: "1:INT4", out: "1:INT4", typ: types.Int4},
		{in: "-3", out: "-3", typ: types.Int},
		{in: "-$0", out: "-($0)", typ: types.Int},
		{in: "null", out: "null", typ: types.Unknown},
		{in: "'it''s'", out: "'it''s'", typ: types.String},
		{in: "?0 = $cor1.f", out: "=(?0, $cor1.f)"},
		{in: "RANGE($1)", out: "RANGE($1)", typ: types.Tuple},
		{in: "$0 IS NOT NULL AND $1 IS NULL", out: "AND(IS NOT NULL($0), IS NULL($1))"},
		{in: "$0 IS NOT DISTINCT FROM $2", out: "IS NOT DISTINCT FROM($0, $2)"},
		{in: "random() > 0.5", out: ">(random(), 0.5)"},
		{in: "lower($1) <> 'x'", out: "<>(lower($1), 'x')"},
		{in: "sum($0) OVER (PARTITION BY $1 ORDER BY $2)", out: "sum($0) OVER (PARTITION BY $1 ORDER BY $2)", typ: types.Int},
		{in: "rank() OVER ()", out: "rank() OVER ()", typ: types.Int},
		{in: "count($0)", out: "count($0)", typ: types.Int},
		{in: "true", out: "true", typ: types.Bool},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := ParseScalar(tc.in, cols)
			require.NoError(t, err)
			require.Equal(t, tc.out, e.String())
			if tc.typ != nil {
				require.True(t, tc.typ.Identical(e.DataType()), "type %s", e.DataType())
			}
		})
	}
}

func TestParseScalarOperators(t *testing.T) {
	e, err := ParseScalar("$0 = 1 OR random() < 0.5", []*types.T{types.Int})
	require.NoError(t, err)
	require.Equal(t, opt.OrOp, e.Op())
	require.Equal(t, opt.EqOp, e.Child(0).Op())

	call := e.Child(1).Child(0).(*memo.CallExpr)
	require.Equal(t, opt.FunctionOp, call.Op())
	require.False(t, call.Fn.Deterministic)

	w, err := ParseScalar("max($0) OVER (ORDER BY $0)", []*types.T{types.Int})
	require.NoError(t, err)
	require.Equal(t, opt.WindowOp, w.Op())
	require.Equal(t, 2, w.ChildCount())
}

func TestParseScalarErrors(t *testing.T) {
	cols := []*types.T{types.Int}
	testCases := []struct {
		in  string
		err string
	}{
		{in: "$5 = 1", err: "column $5 out of range"},
		{in: "$0 =", err: "unexpected"},
		{in: "'abc", err: "unterminated string literal"},
		{in: "$0 IN ()", err: "IN list must not be empty"},
		{in: "$0 = 1 1", err: "after end of expression"},
		{in: "CAST($0 AS blob)", err: "unknown type name"},
		{in: "$0 + 'a'", err: "no common type"},
		{in: "$0 # 1", err: "unexpected character"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseScalar(tc.in, cols)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestParseRel(t *testing.T) {
	m := memo.New()
	e, err := ParseRel(m, "select(join(scan a (x INT, y INT), scan b (z INT) ON $0 = $2), $1 > 1)")
	require.NoError(t, err)

	expected := `select >($1, 1)
 └── join =($0, $2)
      ├── scan a (x:INT, y:INT)
      └── scan b (z:INT)
`
	require.Equal(t, expected, memo.FormatRel(e, memo.ExprFmtHideIDs))
	require.Equal(t, 4, m.ExprCount())

	p, err := ParseRel(m, "project(scan a (x INT, y STRING), $1, $0 + 1 AS inc)")
	require.NoError(t, err)
	require.Equal(t, []memo.Field{{Name: "y", Type: types.String}, {Name: "inc", Type: types.Int}}, p.Fields())

	j, err := ParseRel(m, "join(system (s INT), scan a (x INT), scan b (y INT) ON $0 = 1 AND $1 = $2)")
	require.NoError(t, err)
	require.Equal(t, 3, j.FieldCount())
	require.Equal(t, 1, j.(*memo.JoinExpr).InputOffset(0))
	require.Equal(t, 2, j.(*memo.JoinExpr).InputOffset(1))
}

func TestParseRelErrors(t *testing.T) {
	m := memo.New()
	for _, in := range []string{
		"scan",
		"filter(scan a (x INT), $0 = 1)",
		"select(scan a (x INT), $1 = 1)",
		"select(scan a (x INT), $0)",
		"join(scan a (x INT))",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRel(m, in)
			require.Error(t, err)
		})
	}
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields("x INT, y STRING, z DECIMAL")
	require.NoError(t, err)
	require.Len(t, fields, 3)
	require.Equal(t, "z", fields[2].Name)
	require.True(t, types.Decimal.Identical(fields[2].Type))

	fields, err = ParseFields("")
	require.NoError(t, err)
	require.Empty(t, fields)
}
