package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "custodypanel"

	// StudyStart and StudyEnd bound the observation window for the
	// prison panel, MM-YYYY.
	StudyStart = "10-2014"
	StudyEnd   = "09-2024"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/custodypanel by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/custodypanel by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/custodypanel/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/custodypanel/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// PrisonsFilePath returns the full path to the prison registry file.
func PrisonsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "prisons.yaml")
}

// EventsFilePath returns the full path to the prison events file.
func EventsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "events.yaml")
}

// DatabaseFilePath returns the default location of the SQLite store.
func DatabaseFilePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), AppName+".db")
}
