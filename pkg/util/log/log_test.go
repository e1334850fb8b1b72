// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package log

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogf(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer SetLogger(zap.New(core))()

	ctx := logtags.AddTag(context.Background(), "session", 7)
	ctx = logtags.AddTag(ctx, "rule", "PreFilter")

	Infof(ctx, "fired on %d with %s", Safe(3), "secret")
	Warningf(context.Background(), "no tags")
	Errorf(ctx, "failed: %v", Safe("x"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	require.Equal(t, "fired on 3 with secret", entries[0].Message)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, map[string]interface{}{"session": "7", "rule": "PreFilter"}, entries[0].ContextMap())
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Empty(t, entries[1].Context)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestVerbosity(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer SetLogger(zap.New(core))()

	require.False(t, V(1))
	VEventf(context.Background(), 1, "hidden")
	require.Zero(t, logs.Len())

	restore := SetVerbosity(2)
	require.True(t, V(1))
	require.True(t, V(2))
	require.False(t, V(3))
	VEventf(context.Background(), 2, "shown %d", 1)
	restore()

	require.False(t, V(1))
	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	require.Equal(t, "shown 1", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer SetLogger(zap.New(core))()

	Infof(context.Background(), "dropped")
	Warningf(context.Background(), "kept")
	require.Equal(t, 1, logs.Len())
}

func TestFormatWithContextTags(t *testing.T) {
	ctx := logtags.AddTag(context.Background(), "session", "abc")
	ctx = logtags.AddTag(ctx, "v", nil)
	require.Equal(t, "[session=abc,v] hello 1", FormatWithContextTags(ctx, "hello %d", 1))
	require.Equal(t, "hello", FormatWithContextTags(context.Background(), "hello"))
}

func TestEveryN(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	e := Every(time.Minute)
	e.now = func() time.Time { return now }

	require.True(t, e.ShouldLog())
	now = start.Add(30 * time.Second)
	require.False(t, e.ShouldLog())
	now = start.Add(time.Minute)
	require.True(t, e.ShouldLog())
	require.False(t, e.ShouldLog())

	defer SetVerbosity(2)()
	require.True(t, e.ShouldLog())
}
