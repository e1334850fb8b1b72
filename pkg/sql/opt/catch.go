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
	"runtime"

	"github.com/cockroachdb/errors"
)

// CatchOptimizerError catches any runtime panics from rewrite functions and
// returns them as errors. Rules and normalization helpers report invariant
// violations by panicking with an assertion failure rather than threading an
// error through every call. This is only possible because the rewrite code
// does not update shared state other than the visited registry, and does not
// manipulate locks.
//
// It is passed the value recovered by a deferred function:
//
//	defer func() {
//	  if r := recover(); r != nil {
//	    err = opt.CatchOptimizerError(r)
//	  }
//	}()
func CatchOptimizerError(r interface{}) error {
	err, ok := r.(error)
	if !ok {
		// Not an error object. For serious internal errors e.g. in the scheduler,
		// bad goroutine state, allocator problem etc, the go runtime throws a
		// string which does not implement error. So in this case we suspect we are
		// not able to recover, and must crash.
		panic(r)
	}
	if errors.HasInterface(err, (*runtime.Error)(nil)) {
		// Convert runtime errors (index out of range, nil dereference) to
		// assertion failures, which include stacks.
		return errors.HandleAsAssertionFailure(err)
	}
	return err
}
