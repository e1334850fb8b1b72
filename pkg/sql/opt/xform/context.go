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
	"context"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/optpred/pkg/settings"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/google/uuid"
)

// FilterFactory builds filters. It is implemented by *memo.Memo.
type FilterFactory interface {
	ConstructSelect(input memo.RelExpr, filter memo.ScalarExpr) memo.RelExpr
}

var _ FilterFactory = &memo.Memo{}

// RewriteContext is the state of one rewrite session that is passed to
// every rule: the memo that builds new expressions, the visited registry,
// the session settings and a context carrying the session log tags.
type RewriteContext struct {
	ctx      context.Context
	mem      *memo.Memo
	registry VisitedRegistry
	settings *settings.Values
	session  uuid.UUID
	funcs    CustomFuncs
}

// Init initializes a RewriteContext for a new session with a random
// session ID. sv may be nil, in which case every setting has its default
// value.
func (rc *RewriteContext) Init(ctx context.Context, mem *memo.Memo, sv *settings.Values) {
	rc.InitWithSession(ctx, mem, sv, uuid.New())
}

// InitWithSession is like Init with the given session ID.
func (rc *RewriteContext) InitWithSession(
	ctx context.Context, mem *memo.Memo, sv *settings.Values, session uuid.UUID,
) {
	*rc = RewriteContext{
		ctx:      logtags.AddTag(ctx, "session", session.String()),
		mem:      mem,
		settings: sv,
		session:  session,
	}
	rc.registry.Init()
	rc.funcs.Init(rc)
}

// Ctx returns the context of the session.
func (rc *RewriteContext) Ctx() context.Context { return rc.ctx }

// Memo returns the factory of new expressions.
func (rc *RewriteContext) Memo() *memo.Memo { return rc.mem }

// Registry returns the visited registry of the session.
func (rc *RewriteContext) Registry() *VisitedRegistry { return &rc.registry }

// Settings returns the settings of the session.
func (rc *RewriteContext) Settings() *settings.Values { return rc.settings }

// SessionID returns the identity of the session.
func (rc *RewriteContext) SessionID() uuid.UUID { return rc.session }

// Funcs returns the custom functions bound to the session.
func (rc *RewriteContext) Funcs() *CustomFuncs { return &rc.funcs }
