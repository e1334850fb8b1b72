// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package opt_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
	"github.com/stretchr/testify/require"
)

func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	fn()
	return nil
}

func TestCatchOptimizerError(t *testing.T) {
	err := catch(func() { panic(errors.AssertionFailedf("bad %d", 1)) })
	require.True(t, errors.HasAssertionFailure(err))
	require.Equal(t, "bad 1", err.Error())

	err = catch(func() { panic(errors.New("plain")) })
	require.False(t, errors.HasAssertionFailure(err))

	err = catch(func() {
		var s []int
		_ = s[len(s)]
	})
	require.True(t, errors.HasAssertionFailure(err))

	require.Panics(t, func() { _ = catch(func() { panic("boom") }) })
	require.NoError(t, catch(func() {}))
}
