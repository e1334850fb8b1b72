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
)

// PulledUpPredicates returns predicates that hold for every row produced by
// e, addressed in e's output schema. The result is a conservative subset: it
// contains only predicates found literally in filters and join conditions
// below e.
//
//   - Scan: none.
//   - Select: the input's predicates, then the conjuncts of the filter.
//   - Project: the input's predicates whose columns are all passed through
//     as bare column projections, remapped to the output positions.
//   - Join: each input's predicates shifted into the join schema, then the
//     conjuncts of the join condition.
func PulledUpPredicates(e RelExpr) []ScalarExpr {
	switch t := e.(type) {
	case *ScanExpr:
		return nil

	case *SelectExpr:
		preds := PulledUpPredicates(t.Input)
		return append(preds[:len(preds):len(preds)], ExtractConjuncts(t.Filter)...)

	case *ProjectExpr:
		inputPreds := PulledUpPredicates(t.Input)
		if len(inputPreds) == 0 {
			return nil
		}
		// Map each passed-through input column to its first output position.
		outPos := make(map[int]int, len(t.Projections))
		for i, p := range t.Projections {
			if v, ok := p.(*VariableExpr); ok {
				if _, seen := outPos[v.Col]; !seen {
					outPos[v.Col] = i
				}
			}
		}
		var preds []ScalarExpr
		for _, pred := range inputPreds {
			covered := true
			ColumnRefs(pred).ForEach(func(col int) {
				if _, ok := outPos[col]; !ok {
					covered = false
				}
			})
			if !covered {
				continue
			}
			preds = append(preds, RemapColumns(pred, func(v *VariableExpr) ScalarExpr {
				return NewVariable(outPos[v.Col], v.Typ)
			}))
		}
		return preds

	case *JoinExpr:
		var preds []ScalarExpr
		for i, in := range t.Inputs {
			off := t.InputOffset(i)
			for _, pred := range PulledUpPredicates(in) {
				preds = append(preds, ShiftColumns(pred, off))
			}
		}
		if t.On != nil {
			preds = append(preds, ExtractConjuncts(t.On)...)
		}
		return preds

	default:
		panic(errors.AssertionFailedf("unhandled relational expression %T", e))
	}
}
