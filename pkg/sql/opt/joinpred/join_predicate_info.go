// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package joinpred analyzes join conditions. Decompose splits a condition
// into leaf predicates and records, for every input, which of its columns
// take part in equi-join keys. ProjectNonColumnEquiConditions turns equi-join
// keys that are not bare columns into projected columns of the join inputs.
//
// Position sets use two schemas. The child schema addresses the columns of
// one input starting at zero. The join schema addresses the concatenation of
// all inputs, so that the nth column of input i is at position
// n + (field count of inputs 0..i-1).
package joinpred

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/redact"
)

// JoinLeafPredicateInfo describes one conjunct of a join condition.
//
// When the conjunct is an equality between expressions that each reference a
// single, distinct input, Kind is opt.EqOp, each side is stored (rewritten
// into the child schema of its input) as that input's key expression, and
// the column position sets are filled in.
//
// Otherwise Kind is opt.OtherOp and the position sets are empty. If one input
// contains every column referenced by the conjunct, the raw conjunct is that
// input's only key expression; if not, the conjunct is not attached to any
// input.
type JoinLeafPredicateInfo struct {
	kind     opt.Operator
	conjunct memo.ScalarExpr
	attached int

	keys      [][]memo.ScalarExpr
	childCols []opt.ColSet
	joinCols  []opt.ColSet
}

// Kind returns opt.EqOp for an equi-join leaf and opt.OtherOp otherwise.
func (l *JoinLeafPredicateInfo) Kind() opt.Operator { return l.kind }

// Conjunct returns the conjunct of the join condition this leaf was built
// from, unchanged.
func (l *JoinLeafPredicateInfo) Conjunct() memo.ScalarExpr { return l.conjunct }

// InputCount returns the number of join inputs.
func (l *JoinLeafPredicateInfo) InputCount() int { return len(l.keys) }

// AttachedInput returns the input that owns an OTHER leaf, or -1 if the leaf
// spans several inputs. Equi-join leaves return -1.
func (l *JoinLeafPredicateInfo) AttachedInput() int { return l.attached }

// JoinKeys returns the key expressions contributed by the nth input.
func (l *JoinLeafPredicateInfo) JoinKeys(nth int) []memo.ScalarExpr { return l.keys[nth] }

// KeyColsInChild returns the positions, in the child schema of the nth
// input, of the columns referenced by that input's key expressions.
func (l *JoinLeafPredicateInfo) KeyColsInChild(nth int) opt.ColSet {
	if l.childCols == nil {
		return opt.ColSet{}
	}
	return l.childCols[nth]
}

// KeyColsInJoin is like KeyColsInChild, but in the join schema.
func (l *JoinLeafPredicateInfo) KeyColsInJoin(nth int) opt.ColSet {
	if l.joinCols == nil {
		return opt.ColSet{}
	}
	return l.joinCols[nth]
}

// LeftJoinKeys returns JoinKeys(0) of a binary join.
func (l *JoinLeafPredicateInfo) LeftJoinKeys() []memo.ScalarExpr {
	assertBinary(len(l.keys))
	return l.keys[0]
}

// RightJoinKeys returns JoinKeys(1) of a binary join.
func (l *JoinLeafPredicateInfo) RightJoinKeys() []memo.ScalarExpr {
	assertBinary(len(l.keys))
	return l.keys[1]
}

func (l *JoinLeafPredicateInfo) LeftKeyColsInChild() opt.ColSet {
	assertBinary(len(l.keys))
	return l.KeyColsInChild(0)
}

func (l *JoinLeafPredicateInfo) RightKeyColsInChild() opt.ColSet {
	assertBinary(len(l.keys))
	return l.KeyColsInChild(1)
}

func (l *JoinLeafPredicateInfo) LeftKeyColsInJoin() opt.ColSet {
	assertBinary(len(l.keys))
	return l.KeyColsInJoin(0)
}

func (l *JoinLeafPredicateInfo) RightKeyColsInJoin() opt.ColSet {
	assertBinary(len(l.keys))
	return l.KeyColsInJoin(1)
}

// JoinPredicateInfo describes a whole join condition as an ordered list of
// equi-join leaves and an ordered list of the remaining leaves. Together the
// two lists hold every top-level conjunct of the condition exactly once.
type JoinPredicateInfo struct {
	equi    []*JoinLeafPredicateInfo
	nonEqui []*JoinLeafPredicateInfo

	// childCols and joinCols are the unions, per input, of the position sets
	// of the equi-join leaves.
	childCols []opt.ColSet
	joinCols  []opt.ColSet

	// leaves maps each join schema position referenced by an equi-join leaf
	// to those leaves, in the order they were found.
	leaves  map[int][]*JoinLeafPredicateInfo
	keyCols opt.ColSet
}

// EquiLeaves returns the equi-join leaves in conjunct order.
func (p *JoinPredicateInfo) EquiLeaves() []*JoinLeafPredicateInfo { return p.equi }

// NonEquiLeaves returns the other leaves in conjunct order.
func (p *JoinPredicateInfo) NonEquiLeaves() []*JoinLeafPredicateInfo { return p.nonEqui }

// InputCount returns the number of join inputs.
func (p *JoinPredicateInfo) InputCount() int { return len(p.childCols) }

// KeyColsInChild returns the columns of the nth input that are part of an
// equi-join key, in the child schema of that input.
func (p *JoinPredicateInfo) KeyColsInChild(nth int) opt.ColSet { return p.childCols[nth] }

// KeyColsInJoin returns the columns of the nth input that are part of an
// equi-join key, in the join schema.
func (p *JoinPredicateInfo) KeyColsInJoin(nth int) opt.ColSet { return p.joinCols[nth] }

func (p *JoinPredicateInfo) LeftKeyColsInChild() opt.ColSet {
	assertBinary(len(p.childCols))
	return p.childCols[0]
}

func (p *JoinPredicateInfo) RightKeyColsInChild() opt.ColSet {
	assertBinary(len(p.childCols))
	return p.childCols[1]
}

func (p *JoinPredicateInfo) LeftKeyColsInJoin() opt.ColSet {
	assertBinary(len(p.joinCols))
	return p.joinCols[0]
}

func (p *JoinPredicateInfo) RightKeyColsInJoin() opt.ColSet {
	assertBinary(len(p.joinCols))
	return p.joinCols[1]
}

// KeyCols returns every join schema position that is referenced by at least
// one equi-join leaf.
func (p *JoinPredicateInfo) KeyCols() opt.ColSet { return p.keyCols }

// LeavesForCol returns the equi-join leaves that reference the given join
// schema position, in the order they appear in the condition.
func (p *JoinPredicateInfo) LeavesForCol(pos int) []*JoinLeafPredicateInfo {
	return p.leaves[pos]
}

func newJoinPredicateInfo(inputCount int) *JoinPredicateInfo {
	return &JoinPredicateInfo{
		childCols: make([]opt.ColSet, inputCount),
		joinCols:  make([]opt.ColSet, inputCount),
		leaves:    make(map[int][]*JoinLeafPredicateInfo),
	}
}

func (p *JoinPredicateInfo) add(leaf *JoinLeafPredicateInfo) {
	if leaf.kind != opt.EqOp {
		p.nonEqui = append(p.nonEqui, leaf)
		return
	}
	p.equi = append(p.equi, leaf)
	for i := range p.childCols {
		p.childCols[i].UnionWith(leaf.KeyColsInChild(i))
		p.joinCols[i].UnionWith(leaf.KeyColsInJoin(i))
		leaf.KeyColsInJoin(i).ForEach(func(pos int) {
			p.leaves[pos] = append(p.leaves[pos], leaf)
			p.keyCols.Add(pos)
		})
	}
}

func assertBinary(inputCount int) {
	if inputCount != 2 {
		panic(errors.AssertionFailedf("expected a binary join, got %d inputs", redact.Safe(inputCount)))
	}
}
