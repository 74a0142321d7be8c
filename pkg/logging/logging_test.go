package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, `unknown level "loud"`)
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("k", "v").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "v", line["k"])
	assert.Contains(t, line, "time")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := Console("info", &buf)
	require.NoError(t, err)

	log.Info().Msg("ready")
	assert.Contains(t, buf.String(), "ready")
	assert.Contains(t, buf.String(), "INF")
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
		json    bool
	}{
		{name: "default is json", format: "", json: true},
		{name: "json", format: FormatJSON, json: true},
		{name: "console", format: FormatConsole},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := Open(tt.format, "info", &buf)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			require.NoError(t, err)

			log.Info().Msg("ready")
			assert.Equal(t, tt.json, json.Valid(bytes.TrimSpace(buf.Bytes())))
			assert.Contains(t, buf.String(), "ready")
		})
	}
}
