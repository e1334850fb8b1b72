// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package log is the logging facade used by the optimizer. Messages are
// formatted with redact, so that arguments not marked safe can be told
// apart, and written to a zap logger along with the tags found in the
// context (see github.com/cockroachdb/logtags). The default logger drops
// everything.
package log

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

var verbosity atomic.Int32

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger installs l as the destination of all log messages and returns a
// function that restores the previous logger.
func SetLogger(l *zap.Logger) (restore func()) {
	prev := logger.Swap(l)
	return func() { logger.Store(prev) }
}

// SetVerbosity sets the level up to which V returns true and returns a
// function that restores the previous level.
func SetVerbosity(level int32) (restore func()) {
	prev := verbosity.Swap(level)
	return func() { verbosity.Store(prev) }
}

// V returns true if the logging verbosity is at least level.
func V(level int32) bool {
	return verbosity.Load() >= level
}

// Safe marks a value as safe for reporting. See redact.Safe.
func Safe(v interface{}) redact.SafeValue {
	return redact.Safe(v)
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, zapcore.InfoLevel, format, args)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, zapcore.WarnLevel, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, zapcore.ErrorLevel, format, args)
}

// VEventf logs a debug message if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		logf(ctx, zapcore.DebugLevel, format, args)
	}
}

func logf(ctx context.Context, lvl zapcore.Level, format string, args []interface{}) {
	l := logger.Load()
	ce := l.Check(lvl, "")
	if ce == nil {
		return
	}
	ce.Message = redact.Sprintf(format, args...).StripMarkers()
	ce.Write(tagFields(ctx)...)
}

// tagFields returns one zap field per log tag in ctx. Tags without a value
// are logged with an empty string.
func tagFields(ctx context.Context) []zap.Field {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return nil
	}
	res := make([]zap.Field, 0, len(tags.Get()))
	for _, t := range tags.Get() {
		res = append(res, zap.String(t.Key(), t.ValueStr()))
	}
	return res
}

// FormatWithContextTags formats the string and prepends the context tags,
// like "[session=1,rule=PreFilter] message". Redaction markers are not
// inserted.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	msg := redact.Sprintf(format, args...).StripMarkers()
	if tags := logtags.FromContext(ctx); tags != nil {
		return "[" + tags.String() + "] " + msg
	}
	return msg
}
