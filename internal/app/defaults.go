package app

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SCRAPBOOK_CONFIG_PATH: config file location (default: $XDG_CONFIG_HOME/scrapbook.toml)
//   - SCRAPBOOK_HOME: base directory for scrapbook data (default: $XDG_DATA_HOME/scrapbook)
func GetDefaults() (map[string]string, error) {
	xdg.Reload()

	configPath := getConfigPath()
	baseDir := getBaseDir()

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

func getConfigPath() string {
	if path := os.Getenv("SCRAPBOOK_CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, "scrapbook.toml")
}

func getBaseDir() string {
	if path := os.Getenv("SCRAPBOOK_HOME"); path != "" {
		return path
	}
	return filepath.Join(xdg.DataHome, "scrapbook")
}
