// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var boolTA = RegisterBoolSetting("test.bool.t", "desc", true)
var boolFA = RegisterBoolSetting("test.bool.f", "", false)
var i1A = RegisterIntSetting("test.i.1", "", 0)
var i2A = RegisterValidatedIntSetting("test.i.2", "", 5, PositiveInt)

func TestCache(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var sv Values
		require.True(t, boolTA.Get(&sv))
		require.False(t, boolFA.Get(&sv))
		require.Equal(t, int64(0), i1A.Get(&sv))
		require.Equal(t, int64(5), i2A.Get(&sv))
		require.Equal(t, int64(5), i2A.Get(nil))
		require.Empty(t, sv.Overridden())
	})

	t.Run("lookup", func(t *testing.T) {
		s, ok := Lookup("test.i.2")
		require.True(t, ok)
		require.Same(t, i2A, s)
		require.Equal(t, "i", s.Typ())
		require.Equal(t, "5", s.EncodedDefault())

		s, ok = Lookup("test.bool.t")
		require.True(t, ok)
		require.Equal(t, "desc", s.Description())

		_, ok = Lookup("dne")
		require.False(t, ok)
		require.Subset(t, Keys(), []string{"test.bool.f", "test.bool.t", "test.i.1", "test.i.2"})
	})

	t.Run("read and write each type", func(t *testing.T) {
		var sv Values
		require.NoError(t, sv.Set("test.bool.t", EncodeBool(false)))
		require.NoError(t, sv.Set("test.i.2", EncodeInt(3)))
		boolFA.Override(&sv, true)
		require.NoError(t, i1A.Override(&sv, -4))

		require.False(t, boolTA.Get(&sv))
		require.True(t, boolFA.Get(&sv))
		require.Equal(t, int64(-4), i1A.Get(&sv))
		require.Equal(t, "3", i2A.String(&sv))
		require.Equal(t, []string{"test.bool.f", "test.bool.t", "test.i.1", "test.i.2"}, sv.Overridden())

		sv.Reset("test.i.2")
		require.Equal(t, int64(5), i2A.Get(&sv))
	})

	t.Run("validation", func(t *testing.T) {
		var sv Values
		require.Error(t, sv.Set("test.i.2", "0"))
		require.Error(t, i2A.Override(&sv, -1))
		require.Error(t, sv.Set("test.i.2", "many"))
		require.Error(t, sv.Set("test.bool.t", "maybe"))
		require.Equal(t, int64(5), i2A.Get(&sv))

		err := sv.Set("dne", "1")
		require.Error(t, err)
		require.Contains(t, err.Error(), `unknown setting "dne"`)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		require.Panics(t, func() { RegisterBoolSetting("test.bool.t", "", true) })
		require.Panics(t, func() { RegisterValidatedIntSetting("test.i.bad", "", 0, PositiveInt) })
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
		return path
	}

	testCases := []struct {
		name     string
		contents string
		err      string
	}{
		{
			name:     "flat.toml",
			contents: "\"test.i.2\" = 7\n\"test.bool.t\" = false\n",
		},
		{
			name:     "nested.toml",
			contents: "[test]\nbool.t = false\ni.2 = 7\n",
		},
		{
			name:     "nested.yaml",
			contents: "test:\n  bool:\n    t: false\n  i:\n    \"2\": 7\n",
		},
		{
			name:     "flat.yml",
			contents: "test.i.2: 7\ntest.bool.t: \"false\"\n",
		},
		{
			name:     "invalid.yaml",
			contents: "test.i.2: 0\n",
			err:      "non-positive",
		},
		{
			name:     "wrongtype.toml",
			contents: "\"test.bool.t\" = 3\n",
			err:      "expected a bool",
		},
		{
			name:     "unknown.toml",
			contents: "\"test.unknown\" = 3\n",
			err:      "unknown setting",
		},
		{
			name:     "settings.json",
			contents: "{}",
			err:      "unsupported settings file extension",
		},
		{
			name:     "broken.toml",
			contents: "= 3",
			err:      "parsing TOML",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sv Values
			err := sv.LoadFile(write(tc.name, tc.contents))
			if tc.err != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(7), i2A.Get(&sv))
			require.False(t, boolTA.Get(&sv))
		})
	}

	var sv Values
	require.Error(t, sv.LoadFile(filepath.Join(dir, "missing.toml")))
}
