package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldHook struct{}

func (fieldHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("hooked", "yes")
}

func TestNew_appends_to_file(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "tsreview.log")

	for _, msg := range []string{"first", "second"} {
		l, closer, err := New("info", file, fieldHook{})
		require.NoError(t, err)
		l.Info().Msg(msg)
		l.Debug().Msg("filtered")
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"message":"first"`)
	assert.Contains(t, out, `"message":"second"`)
	assert.Contains(t, out, `"hooked":"yes"`)
	assert.NotContains(t, out, "filtered")
}

func TestNew_invalid_level(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
