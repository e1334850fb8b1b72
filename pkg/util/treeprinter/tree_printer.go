// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package treeprinter renders trees of text lines, as in:
//
//	root
//	 ├── child1
//	 │    └── grandchild
//	 └── child2
package treeprinter

import (
	"fmt"
	"strings"
)

const (
	edgeMid  = " ├── "
	edgeLast = " └── "
	edgeLink = " │   "
	edgeNone = "     "
)

type node struct {
	text     string
	children []*node
}

// Node is a handle to a node of the tree. The zero Node is not usable; use
// New.
type Node struct {
	n *node
}

// New returns the invisible root of a new tree. Its first child is printed
// without an edge.
func New() Node {
	return Node{n: &node{}}
}

// Child adds a child with the given text and returns it.
func (n Node) Child(text string) Node {
	c := &node{text: text}
	n.n.children = append(n.n.children, c)
	return Node{n: c}
}

// Childf adds a child with formatted text and returns it.
func (n Node) Childf(format string, args ...interface{}) Node {
	return n.Child(fmt.Sprintf(format, args...))
}

// String renders the whole tree the node belongs to, starting at n.
func (n Node) String() string {
	var sb strings.Builder
	for _, c := range n.n.children {
		sb.WriteString(c.text)
		sb.WriteByte('\n')
		writeChildren(&sb, c, "")
	}
	return sb.String()
}

func writeChildren(sb *strings.Builder, n *node, prefix string) {
	for i, c := range n.children {
		edge, next := edgeMid, edgeLink
		if i == len(n.children)-1 {
			edge, next = edgeLast, edgeNone
		}
		sb.WriteString(prefix)
		sb.WriteString(edge)
		sb.WriteString(c.text)
		sb.WriteByte('\n')
		writeChildren(sb, c, prefix+next)
	}
}
