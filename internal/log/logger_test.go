package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentBank, Output: &buf})

	logger.Debug("hidden")
	logger.Info("Transaction committed", FieldAccount, "1234")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Transaction committed", record["msg"])
	assert.Equal(t, ComponentBank, record[FieldComponent])
	assert.Equal(t, "1234", record[FieldAccount])
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: slog.LevelInfo, Format: "text", Output: &buf})

	WithComponent(root, ComponentScript).Info("Operation failed")
	assert.Contains(t, buf.String(), "component=script")

	assert.NotNil(t, WithComponent(nil, ComponentApp))
}
