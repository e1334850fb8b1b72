// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package treeprinter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreePrinter(t *testing.T) {
	tp := New()
	root := tp.Child("root")
	c1 := root.Child("child1")
	c1.Childf("grandchild%d", 1)
	c1.Child("grandchild2").Child("leaf")
	root.Child("child2").Child("x")

	expected := `root
 ├── child1
 │    ├── grandchild1
 │    └── grandchild2
 │         └── leaf
 └── child2
      └── x
`
	require.Equal(t, expected, tp.String())
	require.Equal(t, "", New().String())
}
