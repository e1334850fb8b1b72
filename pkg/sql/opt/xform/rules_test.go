// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package xform_test

import (
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/optpred/pkg/sql/opt/testutils"
)

// Rules files can be run separately like this:
//
//	go test ./pkg/sql/opt/xform -run TestRules/prefilter
//	go test ./pkg/sql/opt/xform -run TestRules/join_keys
func TestRules(t *testing.T) {
	datadriven.Walk(t, "testdata/rules", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			tester := testutils.New(d.Input)
			return tester.RunCommand(t, d)
		})
	})
}
