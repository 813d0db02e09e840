package iofs

import (
	_ "embed"
	"os"

	"github.com/custodymetrics/custodypanel/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed prisons.yaml
var PrisonsYAML string

//go:embed events.yaml
var EventsYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Keep an existing config file untouched
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// EnsureRegistryFiles writes the embedded prison registry and event log
// into the config directory unless the user already has their own.
func EnsureRegistryFiles(homeDir string) error {
	files := []struct {
		path    string
		content string
	}{
		{config.PrisonsFilePath(homeDir), PrisonsYAML},
		{config.EventsFilePath(homeDir), EventsYAML},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return CopyFileError(f.path, err)
		}
	}
	return nil
}
