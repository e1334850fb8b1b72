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
	"fmt"

	"github.com/cockroachdb/redact"
)

// RuleName enumerates the names of all the rewrite rules. It is the rule
// identity used by the visited registry.
type RuleName uint16

const (
	InvalidRuleName RuleName = iota

	// PreFilter extracts factors common to every branch of a disjunction in a
	// filter and adds them as a new filter below the original one.
	PreFilter

	// PushJoinKeyExprs projects equi-join keys that are not bare columns as new
	// columns of the join inputs.
	PushJoinKeyExprs

	// NumRuleNames tracks the total count of rule names.
	NumRuleNames
)

var ruleNames = [...]string{
	InvalidRuleName:  "Invalid",
	PreFilter:        "PreFilter",
	PushJoinKeyExprs: "PushJoinKeyExprs",
}

func (r RuleName) String() string {
	if r >= NumRuleNames {
		return fmt.Sprintf("RuleName(%d)", r)
	}
	return ruleNames[r]
}

// SafeFormat implements redact.SafeFormatter.
func (r RuleName) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(r.String()))
}

// RuleNameFromString returns the rule with the given name, or false if there
// is none.
func RuleNameFromString(name string) (RuleName, bool) {
	for i := InvalidRuleName + 1; i < NumRuleNames; i++ {
		if ruleNames[i] == name {
			return i, true
		}
	}
	return InvalidRuleName, false
}
