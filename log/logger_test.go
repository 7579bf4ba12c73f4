// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	// declared before the root is configured, like package level loggers
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelInfo)
	SetDefault(New(NewJSONHandler(&buf, &level)))

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.With("k", 1).Info("shown", "v", "x")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "x", rec["v"])
	assert.EqualValues(t, 1, rec["k"])

	buf.Reset()
	level.Set(LevelDebug)
	logger.Debug("now visible")
	assert.NotZero(t, buf.Len())
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelError, FromLegacyLevel(LegacyLevelError))
	assert.Equal(t, LevelTrace, FromLegacyLevel(LegacyLevelTrace))
}
