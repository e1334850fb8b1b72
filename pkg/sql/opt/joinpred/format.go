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
	"bytes"
	"fmt"

	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/util/treeprinter"
)

// String returns a tree rendering of the decomposition, for example:
//
//	join-predicate
//	 ├── equi
//	 │    └── =($0, $2): keys=[$0] [$0] child=(0) (0) join=(0) (2)
//	 ├── non-equi
//	 │    └── >($1, 1): attached=0 keys=[>($1, 1)] []
//	 ├── key-cols: child=(0) (0) join=(0) (2)
//	 └── leaves
//	      ├── 0: =($0, $2)
//	      └── 2: =($0, $2)
func (p *JoinPredicateInfo) String() string {
	tp := treeprinter.New()
	root := tp.Child("join-predicate")

	if len(p.equi) > 0 {
		n := root.Child("equi")
		for _, l := range p.equi {
			n.Child(l.String())
		}
	}
	if len(p.nonEqui) > 0 {
		n := root.Child("non-equi")
		for _, l := range p.nonEqui {
			n.Child(l.String())
		}
	}

	var buf bytes.Buffer
	buf.WriteString("key-cols: child=")
	writeColSets(&buf, p.childCols)
	buf.WriteString(" join=")
	writeColSets(&buf, p.joinCols)
	root.Child(buf.String())

	if !p.keyCols.Empty() {
		n := root.Child("leaves")
		p.keyCols.ForEach(func(pos int) {
			buf.Reset()
			fmt.Fprintf(&buf, "%d:", pos)
			for i, l := range p.leaves[pos] {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteByte(' ')
				buf.WriteString(l.conjunct.String())
			}
			n.Child(buf.String())
		})
	}
	return tp.String()
}

// String returns a one-line rendering of the leaf: its conjunct followed by
// the key expressions of every input and, for equi-join leaves, the position
// sets.
func (l *JoinLeafPredicateInfo) String() string {
	var buf bytes.Buffer
	buf.WriteString(l.conjunct.String())
	buf.WriteByte(':')
	if l.kind != opt.EqOp {
		if l.attached >= 0 {
			fmt.Fprintf(&buf, " attached=%d", l.attached)
		} else {
			buf.WriteString(" unattached")
		}
	}
	buf.WriteString(" keys=")
	for i, keys := range l.keys {
		if i > 0 {
			buf.WriteByte(' ')
		}
		writeKeys(&buf, keys)
	}
	if l.kind == opt.EqOp {
		buf.WriteString(" child=")
		writeColSets(&buf, l.childCols)
		buf.WriteString(" join=")
		writeColSets(&buf, l.joinCols)
	}
	return buf.String()
}

func writeKeys(buf *bytes.Buffer, keys []memo.ScalarExpr) {
	buf.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k.String())
	}
	buf.WriteByte(']')
}

func writeColSets(buf *bytes.Buffer, sets []opt.ColSet) {
	for i, s := range sets {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(s.String())
	}
}
