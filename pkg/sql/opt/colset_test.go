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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColSet(t *testing.T) {
	var s ColSet
	require.True(t, s.Empty())
	require.Equal(t, "()", s.String())

	s.Add(3)
	s.Add(1)
	s.Add(3)
	require.Equal(t, 2, s.Len())
	require.Equal(t, []int{1, 3}, s.Ordered())
	require.True(t, s.Contains(3))
	require.False(t, s.Contains(2))
	require.False(t, s.Contains(-1))

	// Copies are independent of the original.
	c := s
	c.Add(10)
	require.False(t, s.Contains(10))
	require.True(t, c.Contains(10))

	u := s.Union(MakeColSet(7))
	require.Equal(t, "(1,3,7)", u.String())
	require.Equal(t, "(1,3)", s.String())

	require.True(t, s.SubsetOf(u))
	require.False(t, u.SubsetOf(s))
	require.True(t, ColSet{}.SubsetOf(s))
	require.True(t, s.Intersects(u))
	require.False(t, s.Intersects(MakeColSet(0, 2)))
	require.True(t, MakeColSet(1, 3).Equals(s))

	require.Equal(t, "(6,8)", s.Shift(5).String())
	require.Equal(t, "(2,3,4)", MakeColSetRange(2, 5).String())
}

func TestColSetUnionWithSharing(t *testing.T) {
	a := MakeColSet(1)
	var b ColSet
	b.UnionWith(a)
	b.Add(2)
	require.Equal(t, "(1)", a.String())
	require.Equal(t, "(1,2)", b.String())
}

func TestColSetNegativePanics(t *testing.T) {
	require.Panics(t, func() {
		var s ColSet
		s.Add(-1)
	})
}

func TestColSetConstructors(t *testing.T) {
	const n = 100000
	r := MakeColSetRange(0, n)
	require.Equal(t, n, r.Len())
	require.True(t, r.Contains(n-1))
	require.False(t, r.Contains(n))

	require.True(t, MakeColSetRange(5, 5).Empty())
	require.True(t, MakeColSetRange(5, 2).Empty())
	require.True(t, ColSet{}.Shift(3).Empty())

	small := MakeColSetRange(2, 4)
	shifted := small.Shift(-2)
	shifted.Add(7)
	require.Equal(t, "(2,3)", small.String())
	require.Equal(t, "(0,1,7)", shifted.String())

	require.Equal(t, "(1,4)", MakeColSet(4, 1, 4).String())
	require.Panics(t, func() { MakeColSet(1, -1) })
	require.Panics(t, func() { MakeColSetRange(-1, 2) })
	require.Panics(t, func() { small.Shift(-3) })
}
