// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(&bytes.Buffer{}, Options{Level: tt.level})
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Format: FormatJSON})
	require.NoError(t, err)

	logger.Warn("falling back to default base branch", "pr", "42", "fallback", "main")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "falling back to default base branch", entry["msg"])
	assert.Equal(t, "42", entry["pr"])
	assert.Equal(t, "main", entry["fallback"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "warn", Format: FormatLogfmt})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "pr", "7")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"), "got %q", out)
	assert.Contains(t, out, "pr=7")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	logger := Discard()
	assert.Same(t, logger, OrDiscard(logger))
}
