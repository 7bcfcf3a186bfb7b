package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName     = "pahkat"
	configFile  = "config.toml"
	historyFile = "history.db"
	cacheFile   = "packages.db"

	// EnvConfigDir and EnvDataDir override the platform directories.
	EnvConfigDir = "PAHKAT_CONFIG_DIR"
	EnvDataDir   = "PAHKAT_DATA_DIR"
)

// platformDir resolves a per-user directory for pahkat. An explicit override
// wins, then the platform convention: macOS Library paths, Windows app data
// variables, XDG variables with home fallbacks elsewhere.
func platformDir(override, darwin, windowsVar, xdgVar string, xdgFallback ...string) string {
	if dir := os.Getenv(override); dir != "" {
		return dir
	}

	home, _ := os.UserHomeDir() //nolint:errcheck
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", darwin, appName)
	case "windows":
		return filepath.Join(os.Getenv(windowsVar), appName)
	}

	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(append(append([]string{home}, xdgFallback...), appName)...)
}

// ConfigDir returns the directory holding config.toml.
func ConfigDir() string {
	return platformDir(EnvConfigDir, "Application Support", "APPDATA", "XDG_CONFIG_HOME", ".config")
}

// DataDir returns the directory holding the cache, history and logs.
func DataDir() string {
	return platformDir(EnvDataDir, "Caches", "LOCALAPPDATA", "XDG_DATA_HOME", ".local", "share")
}

// ConfigPath returns the default config file path.
func ConfigPath() string { return filepath.Join(ConfigDir(), configFile) }

// HistoryPath returns the transaction history database path.
func HistoryPath() string { return filepath.Join(DataDir(), historyFile) }

// CachePath returns the package cache database path.
func CachePath() string { return filepath.Join(DataDir(), cacheFile) }

// EnsureConfigDir creates the config directory if needed.
func EnsureConfigDir() error { return os.MkdirAll(ConfigDir(), 0o755) }

// EnsureDataDir creates the data directory if needed.
func EnsureDataDir() error { return os.MkdirAll(DataDir(), 0o755) }
