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
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/sql/opt"
)

// PreFilterEnabled controls the PreFilter rule.
var PreFilterEnabled = settings.RegisterBoolSetting(
	"sql.opt.prefilter.enabled",
	"if set, factors common to every branch of a disjunction in a filter are evaluated by a new filter below it",
	true,
)

// JoinKeyProjectionEnabled controls the PushJoinKeyExprs rule.
var JoinKeyProjectionEnabled = settings.RegisterBoolSetting(
	"sql.opt.join_key_projection.enabled",
	"if set, equi-join keys that are not bare columns are projected as new columns of the join inputs",
	true,
)

// MaxIterations bounds the number of passes of the Optimizer over a tree.
var MaxIterations = settings.RegisterValidatedIntSetting(
	"sql.opt.max_iterations",
	"maximum number of rewrite passes over a relational tree",
	opt.DefaultMaxIterations,
	settings.PositiveInt,
)

// CNFMaxNodeCount bounds conversion to conjunctive normal form.
var CNFMaxNodeCount = settings.RegisterValidatedIntSetting(
	"sql.opt.cnf.max_node_count",
	"maximum number of nodes built when converting a predicate to conjunctive normal form; 0 means no limit",
	opt.DefaultCNFMaxNodeCount,
	settings.NonNegativeInt,
)
