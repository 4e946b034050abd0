package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SCRAPBOOK_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("SCRAPBOOK_HOME", "/custom/scrapbook")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/scrapbook" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/scrapbook")
		}
		if defaults["log_dir"] != "/custom/scrapbook/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/scrapbook/log")
		}
	})

	t.Run("falls back to xdg dirs", func(t *testing.T) {
		t.Setenv("SCRAPBOOK_CONFIG_PATH", "")
		t.Setenv("SCRAPBOOK_HOME", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		wantConfig := filepath.Join("/xdg/config", "scrapbook.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join("/xdg/data", "scrapbook")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}
