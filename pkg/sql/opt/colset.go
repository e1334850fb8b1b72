// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package opt

import (
	"bytes"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
)

// ColSet efficiently stores an unordered set of column positions. The zero
// value is an empty set. ColSets have value semantics: Add and UnionWith only
// affect the receiver, never a set it was copied from.
type ColSet struct {
	// set is nil for the empty set. It is never mutated once shared: mutating
	// methods clone it first.
	set *bitset.BitSet
}

// MakeColSet returns a set initialized with the given positions.
func MakeColSet(pos ...int) ColSet {
	if len(pos) == 0 {
		return ColSet{}
	}
	b := bitset.New(0)
	for _, p := range pos {
		b.Set(checkPos(p))
	}
	return ColSet{set: b}
}

// MakeColSetRange returns the set of positions in [from, to).
func MakeColSetRange(from, to int) ColSet {
	if from >= to {
		return ColSet{}
	}
	checkPos(from)
	b := bitset.New(uint(to))
	for i := from; i < to; i++ {
		b.Set(uint(i))
	}
	return ColSet{set: b}
}

func checkPos(pos int) uint {
	if pos < 0 {
		panic(errors.AssertionFailedf("negative column position %d", pos))
	}
	return uint(pos)
}

// Add adds a position to the set.
func (s *ColSet) Add(pos int) {
	p := checkPos(pos)
	if s.set == nil {
		s.set = bitset.New(p + 1)
	} else {
		s.set = s.set.Clone()
	}
	s.set.Set(p)
}

// Contains returns true if the set contains the position.
func (s ColSet) Contains(pos int) bool {
	if s.set == nil || pos < 0 {
		return false
	}
	return s.set.Test(uint(pos))
}

// Len returns the number of positions in the set.
func (s ColSet) Len() int {
	if s.set == nil {
		return 0
	}
	return int(s.set.Count())
}

// Empty returns true if the set is empty.
func (s ColSet) Empty() bool {
	return s.Len() == 0
}

// UnionWith adds all the positions from rhs to this set.
func (s *ColSet) UnionWith(rhs ColSet) {
	if rhs.set == nil {
		return
	}
	if s.set == nil {
		s.set = rhs.set
		return
	}
	s.set = s.set.Union(rhs.set)
}

// Union returns the union of s and rhs as a new set.
func (s ColSet) Union(rhs ColSet) ColSet {
	r := s
	r.UnionWith(rhs)
	return r
}

// SubsetOf returns true if every position of s is in rhs.
func (s ColSet) SubsetOf(rhs ColSet) bool {
	if s.Empty() {
		return true
	}
	if rhs.set == nil {
		return false
	}
	return rhs.set.IsSuperSet(s.set)
}

// Intersects returns true if s and rhs share a position.
func (s ColSet) Intersects(rhs ColSet) bool {
	if s.set == nil || rhs.set == nil {
		return false
	}
	return s.set.IntersectionCardinality(rhs.set) > 0
}

// Equals returns true if the two sets contain the same positions.
func (s ColSet) Equals(rhs ColSet) bool {
	return s.SubsetOf(rhs) && rhs.SubsetOf(s)
}

// ForEach calls fn for each position in ascending order.
func (s ColSet) ForEach(fn func(pos int)) {
	if s.set == nil {
		return
	}
	for i, ok := s.set.NextSet(0); ok; i, ok = s.set.NextSet(i + 1) {
		fn(int(i))
	}
}

// Ordered returns the positions in ascending order.
func (s ColSet) Ordered() []int {
	res := make([]int, 0, s.Len())
	s.ForEach(func(pos int) { res = append(res, pos) })
	return res
}

// Shift returns a new set with every position moved by delta.
func (s ColSet) Shift(delta int) ColSet {
	if s.Empty() {
		return ColSet{}
	}
	b := bitset.New(0)
	s.ForEach(func(pos int) { b.Set(checkPos(pos + delta)) })
	return ColSet{set: b}
}

// Copy returns a copy of s that can be mutated independently.
func (s ColSet) Copy() ColSet {
	if s.set == nil {
		return ColSet{}
	}
	return ColSet{set: s.set.Clone()}
}

func (s ColSet) String() string {
	var buf bytes.Buffer
	buf.WriteByte('(')
	first := true
	s.ForEach(func(pos int) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&buf, "%d", pos)
	})
	buf.WriteByte(')')
	return buf.String()
}
