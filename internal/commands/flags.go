package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/tsreview/internal/core/config"
	"github.com/hay-kot/tsreview/internal/core/eventbus"
	"github.com/hay-kot/tsreview/internal/data/stores"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Bus carries review events to the history recorder and notification router
	Bus *eventbus.EventBus

	History       *stores.HistoryStore
	Notifications *stores.NotifyStore
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tsreview", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tsreview")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/tsreview/tsreview.log
// On Linux: $XDG_STATE_HOME/tsreview/tsreview.log (defaults to ~/.local/state/tsreview/tsreview.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "tsreview", "tsreview.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "tsreview", "tsreview.log")
	}

	return filepath.Join(home, ".local", "state", "tsreview", "tsreview.log")
}
