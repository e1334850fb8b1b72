// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package joinpred

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/opt/norm"
	"github.com/cockroachdb/optpred/pkg/sql/types"
	"github.com/cockroachdb/redact"
)

// ErrCannotDecompose marks the errors returned by Decompose. Callers are
// expected to check for it with errors.Is and keep the condition as a single
// opaque predicate.
var ErrCannotDecompose = errors.New("cannot decompose join condition")

// Decompose splits the given join condition into leaf predicates, one per
// top-level conjunct. Column references in predicate address the join
// schema extended with systemFieldCount leading system columns, which is the
// layout of memo.JoinExpr. A nil or TRUE predicate has no conjuncts.
//
// An error marked with ErrCannotDecompose is returned if a conjunct
// references a system column or a position beyond the last input, or if the
// two sides of an equality have no common type.
func Decompose(
	inputs []memo.RelExpr, systemFieldCount int, predicate memo.ScalarExpr,
) (*JoinPredicateInfo, error) {
	var d decomposer
	d.init(inputs, systemFieldCount)

	info := newJoinPredicateInfo(len(inputs))
	if predicate == nil {
		return info, nil
	}
	for _, conjunct := range memo.ExtractConjuncts(predicate) {
		leaf, err := d.leaf(conjunct)
		if err != nil {
			return nil, err
		}
		info.add(leaf)
	}
	return info, nil
}

// decomposer holds the join schema range of every input.
type decomposer struct {
	sys int
	// offsets[i] is the number of fields in inputs 0..i-1. offsets has one
	// more entry than there are inputs, so offsets[len(inputs)] is the total.
	offsets []int
	// ranges[i] is inputRange(i); all is the union of the ranges.
	ranges []opt.ColSet
	all    opt.ColSet
}

func (d *decomposer) init(inputs []memo.RelExpr, systemFieldCount int) {
	d.sys = systemFieldCount
	d.offsets = make([]int, len(inputs)+1)
	for i, in := range inputs {
		d.offsets[i+1] = d.offsets[i] + in.FieldCount()
	}
	d.ranges = make([]opt.ColSet, len(inputs))
	for i := range inputs {
		d.ranges[i] = opt.MakeColSetRange(d.sys+d.offsets[i], d.sys+d.offsets[i+1])
	}
	d.all = opt.MakeColSetRange(d.sys, d.sys+d.offsets[len(inputs)])
}

func (d *decomposer) inputCount() int {
	return len(d.offsets) - 1
}

// inputRange returns the columns of the nth input in the join schema shifted
// by the system columns.
func (d *decomposer) inputRange(nth int) opt.ColSet {
	return d.ranges[nth]
}

// owner returns the first input whose range contains every column of cols,
// or -1 if there is none. An empty set is owned by the first input.
func (d *decomposer) owner(cols opt.ColSet) int {
	for i := 0; i < d.inputCount(); i++ {
		if cols.SubsetOf(d.inputRange(i)) {
			return i
		}
	}
	return -1
}

func (d *decomposer) leaf(conjunct memo.ScalarExpr) (*JoinLeafPredicateInfo, error) {
	refs := memo.ColumnRefs(conjunct)
	if !refs.SubsetOf(d.all) {
		return nil, errors.Mark(errors.WithHintf(
			errors.Newf("conjunct %s references columns %s outside of the join inputs",
				redact.Safe(conjunct.String()), redact.Safe(refs.String())),
			"the join has %d system columns and %d input columns",
			redact.Safe(d.sys), redact.Safe(d.offsets[d.inputCount()]),
		), ErrCannotDecompose)
	}

	leaf, ok, err := d.splitEquality(conjunct)
	if err != nil || ok {
		return leaf, err
	}

	leaf = &JoinLeafPredicateInfo{
		kind:     opt.OtherOp,
		conjunct: conjunct,
		attached: d.owner(refs),
		keys:     make([][]memo.ScalarExpr, d.inputCount()),
	}
	if leaf.attached >= 0 {
		leaf.keys[leaf.attached] = []memo.ScalarExpr{conjunct}
	}
	return leaf, nil
}

// splitEquality returns an equi-join leaf for a conjunct of the form
// <expr over input i> = <expr over input j>, with i != j. It returns false if
// the conjunct has another shape.
func (d *decomposer) splitEquality(
	conjunct memo.ScalarExpr,
) (_ *JoinLeafPredicateInfo, ok bool, _ error) {
	if conjunct.Op() != opt.EqOp {
		return nil, false, nil
	}
	left, right := conjunct.Child(0), conjunct.Child(1)
	leftRefs, rightRefs := memo.ColumnRefs(left), memo.ColumnRefs(right)
	if leftRefs.Empty() || rightRefs.Empty() {
		return nil, false, nil
	}
	leftInput, rightInput := d.owner(leftRefs), d.owner(rightRefs)
	if leftInput < 0 || rightInput < 0 || leftInput == rightInput {
		return nil, false, nil
	}

	leftKey := memo.ShiftColumns(left, -(d.sys + d.offsets[leftInput]))
	rightKey := memo.ShiftColumns(right, -(d.sys + d.offsets[rightInput]))
	if lt, rt := leftKey.DataType(), rightKey.DataType(); !lt.Identical(rt) {
		typ, ok := types.CommonType(lt, rt)
		if !ok {
			return nil, false, errors.Mark(
				errors.Newf("cannot find common type for join keys %s (type %s) and %s (type %s)",
					redact.Safe(left.String()), lt, redact.Safe(right.String()), rt),
				ErrCannotDecompose,
			)
		}
		leftKey = norm.ConstructCast(leftKey, typ)
		rightKey = norm.ConstructCast(rightKey, typ)
	}

	n := d.inputCount()
	leaf := &JoinLeafPredicateInfo{
		kind:      opt.EqOp,
		conjunct:  conjunct,
		attached:  -1,
		keys:      make([][]memo.ScalarExpr, n),
		childCols: make([]opt.ColSet, n),
		joinCols:  make([]opt.ColSet, n),
	}
	leaf.keys[leftInput] = []memo.ScalarExpr{leftKey}
	leaf.keys[rightInput] = []memo.ScalarExpr{rightKey}
	for i := 0; i < n; i++ {
		for _, key := range leaf.keys[i] {
			leaf.childCols[i].UnionWith(memo.ColumnRefs(key))
		}
		leaf.joinCols[i] = leaf.childCols[i].Shift(d.offsets[i])
	}
	return leaf, true, nil
}
