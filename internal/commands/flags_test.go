package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaths_use_xdg(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	assert.Equal(t, filepath.Join(dir, "config", "tsreview", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "tsreview"), DefaultDataDir())
	assert.Equal(t, filepath.Join(dir, "state", "tsreview", "tsreview.log"), DefaultLogFile())
}
