package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/redline"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// sourceFlags are shared by every command that opens an analysis file.
type sourceFlags struct {
	textPath string
}

func (s *sourceFlags) source(analysisPath string) redline.Source {
	return redline.Source{AnalysisPath: analysisPath, TextPath: s.textPath}
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "redline", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "redline")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/redline/redline.log
// On Linux: $XDG_STATE_HOME/redline/redline.log (defaults to ~/.local/state/redline/redline.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "redline", "redline.log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "redline", "redline.log")
	}
	return filepath.Join(home, ".local", "state", "redline", "redline.log")
}
