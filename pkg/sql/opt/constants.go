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

// DefaultMaxIterations denotes the default limit on the number of passes the
// fixed-point rewrite loop makes over a plan.
const DefaultMaxIterations = 16

// DefaultCNFMaxNodeCount is the default limit on the size of a boolean
// expression produced by CNF conversion. Conversion of an expression that
// would exceed it is abandoned.
const DefaultCNFMaxNodeCount = 256

// UnnamedColumnPrefix is the prefix given to synthesized projection columns
// that do not have a name.
const UnnamedColumnPrefix = "$f"
