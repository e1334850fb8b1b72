// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package xform

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/dolthub/swiss"
)

// visitKey identifies an expression visited by a rule.
type visitKey struct {
	rule opt.RuleName
	id   memo.RelID
}

// VisitedRegistry records, for every rule, the expressions the rule has
// already matched or produced, so that it does not fire on them again.
// Entries are never removed. A VisitedRegistry belongs to a single session
// and is not safe for concurrent use.
type VisitedRegistry struct {
	visited *swiss.Map[visitKey, struct{}]
}

// Init initializes an empty registry.
func (r *VisitedRegistry) Init() {
	r.visited = swiss.NewMap[visitKey, struct{}](16)
}

// Add records that rule visited e. It returns false if that was already
// known.
func (r *VisitedRegistry) Add(rule opt.RuleName, e memo.RelExpr) bool {
	key := visitKey{rule: rule, id: e.ID()}
	if r.visited.Has(key) {
		return false
	}
	r.visited.Put(key, struct{}{})
	return true
}

// Contains returns true if rule visited e.
func (r *VisitedRegistry) Contains(rule opt.RuleName, e memo.RelExpr) bool {
	return r.visited.Has(visitKey{rule: rule, id: e.ID()})
}

// Len returns the number of entries, over all rules.
func (r *VisitedRegistry) Len() int {
	return r.visited.Count()
}

// RuleStats counts how many times each rule fired.
type RuleStats [opt.NumRuleNames]int

// Total returns the number of times any rule fired.
func (s *RuleStats) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// String lists the rules that fired, in rule order, like
// "PreFilter: 2, PushJoinKeyExprs: 1".
func (s *RuleStats) String() string {
	var buf bytes.Buffer
	for i, c := range s {
		if c == 0 {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %d", opt.RuleName(i), c)
	}
	if buf.Len() == 0 {
		return "no rules fired"
	}
	return buf.String()
}
