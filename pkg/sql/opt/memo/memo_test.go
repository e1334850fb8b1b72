// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package memo_test

import (
	"testing"

	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/optparse"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func parseRel(t *testing.T, m *memo.Memo, s string) memo.RelExpr {
	t.Helper()
	e, err := optparse.ParseRel(m, s)
	require.NoError(t, err)
	return e
}

func TestFormatRel(t *testing.T) {
	m := memo.New()
	e := parseRel(t, m, `
		project(
			select(
				join(system (s INT), scan a (x INT), scan b (y STRING) ON $1 > 0),
				$2 = 'z'
			),
			$1 AS x, lower($2) AS y
		)`)

	expected := `project $1 AS x, lower($2) AS y [#5]
 └── select =($2, 'z') [#4]
      └── join >($1, 0) system (s:INT) [#3]
           ├── scan a (x:INT) [#1]
           └── scan b (y:STRING) [#2]
`
	require.Equal(t, expected, memo.FormatRel(e, memo.ExprFmtShowAll))

	expected = `project $1 AS x, lower($2) AS y
 └── select =($2, 'z')
      └── join >($1, 0) system (s)
           ├── scan a (x)
           └── scan b (y)
`
	require.Equal(t, expected, memo.FormatRel(e, memo.ExprFmtHideIDs|memo.ExprFmtHideTypes))
}

func TestReplaceChildren(t *testing.T) {
	m := memo.New()
	sel := parseRel(t, m, "select(scan a (x INT, y INT), $0 = 1)")
	other := parseRel(t, m, "scan b (p INT, q INT)")

	require.Same(t, sel, m.ReplaceChildren(sel, []memo.RelExpr{sel.Child(0)}))

	replaced := m.ReplaceChildren(sel, []memo.RelExpr{other})
	require.NotEqual(t, sel.ID(), replaced.ID())
	require.Equal(t, sel.(*memo.SelectExpr).Filter, replaced.(*memo.SelectExpr).Filter)
	require.Equal(t, "p", replaced.Fields()[0].Name)

	require.Panics(t, func() { m.ReplaceChildren(sel, nil) })
}

func TestConstructionChecks(t *testing.T) {
	m := memo.New()
	scan := m.ConstructScan("a", []memo.Field{{Name: "x", Type: types.Int}})
	bad := memo.NewVariable(1, types.Int)

	require.Panics(t, func() { m.ConstructSelect(scan, bad) })
	require.Panics(t, func() { m.ConstructProject(scan, []memo.ScalarExpr{bad}, []string{"b"}) })
	require.Panics(t, func() { m.ConstructProject(scan, []memo.ScalarExpr{bad}, nil) })
	require.Panics(t, func() { m.ConstructJoin([]memo.RelExpr{scan}, nil, nil) })
	require.Panics(t, func() { m.ConstructScan("b", []memo.Field{{Name: "x"}}) })

	// With checks disabled the same expression is accepted.
	m.Init(false /* checks */)
	require.NotPanics(t, func() { m.ConstructSelect(scan, bad) })
	require.Equal(t, 1, m.ExprCount())
}

func TestPulledUpPredicates(t *testing.T) {
	m := memo.New()
	format := func(preds []memo.ScalarExpr) []string {
		res := make([]string, len(preds))
		for i := range preds {
			res[i] = preds[i].String()
		}
		return res
	}

	scan := parseRel(t, m, "scan a (x INT, y INT)")
	require.Empty(t, memo.PulledUpPredicates(scan))

	sel := parseRel(t, m, "select(select(scan a (x INT, y INT), $0 > 1), $1 = 2 AND $0 < 10)")
	require.Equal(t, []string{">($0, 1)", "=($1, 2)", "<($0, 10)"}, format(memo.PulledUpPredicates(sel)))

	// Only predicates over passed-through columns survive a projection.
	proj := m.ConstructProject(sel, []memo.ScalarExpr{
		memo.NewVariable(1, types.Int),
		memo.NewCall(memo.PlusFn, types.Int, memo.NewVariable(0, types.Int), memo.NewConst(int64(1), types.Int)),
	}, []string{"y", "inc"})
	require.Equal(t, []string{"=($0, 2)"}, format(memo.PulledUpPredicates(proj)))

	join := m.ConstructJoin([]memo.RelExpr{sel, proj},
		memo.NewCall(memo.EqFn, types.Bool, memo.NewVariable(1, types.Int), memo.NewVariable(2, types.Int)),
		nil,
	)
	require.Equal(t,
		[]string{">($0, 1)", "=($1, 2)", "<($0, 10)", "=($2, 2)", "=($1, $2)"},
		format(memo.PulledUpPredicates(join)),
	)
}
