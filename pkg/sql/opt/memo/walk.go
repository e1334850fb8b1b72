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

// WalkResult tells Walk how to proceed after visiting a node.
type WalkResult uint8

const (
	// WalkContinue visits the children of the node, then its siblings.
	WalkContinue WalkResult = iota
	// WalkSkipChildren does not visit the children of the node.
	WalkSkipChildren
	// WalkStop ends the walk.
	WalkStop
)

// Walk visits e and its descendants in pre-order. It returns false if fn
// stopped the walk.
func Walk(e ScalarExpr, fn func(e ScalarExpr) WalkResult) bool {
	switch fn(e) {
	case WalkStop:
		return false
	case WalkSkipChildren:
		return true
	}
	for i, n := 0, e.ChildCount(); i < n; i++ {
		if !Walk(e.Child(i), fn) {
			return false
		}
	}
	return true
}

// Any returns true if pred holds for e or any of its descendants. The walk
// ends at the first match.
func Any(e ScalarExpr, pred func(e ScalarExpr) bool) bool {
	found := false
	Walk(e, func(e ScalarExpr) WalkResult {
		if pred(e) {
			found = true
			return WalkStop
		}
		return WalkContinue
	})
	return found
}
