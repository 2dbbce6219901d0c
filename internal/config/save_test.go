package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveToRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	cfg := &Config{
		DefaultVault: "work",
		Vaults: map[string]string{
			"work": "/tmp/work-vault",
			"home": "/tmp/home-vault",
		},
		Editor: "vim",
		UI: UIConfig{
			Accent: "39",
		},
	}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if loaded.DefaultVault != "work" {
		t.Errorf("expected default_vault 'work', got %q", loaded.DefaultVault)
	}
	if loaded.Vaults["home"] != "/tmp/home-vault" {
		t.Errorf("expected home vault path, got %q", loaded.Vaults["home"])
	}
	if loaded.Editor != "vim" {
		t.Errorf("expected editor 'vim', got %q", loaded.Editor)
	}
	if loaded.UI.Accent != "39" {
		t.Errorf("expected ui.accent '39', got %q", loaded.UI.Accent)
	}
}

func TestSaveToOmitsEmptyFields(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	err := SaveTo(path, &Config{
		Vaults: map[string]string{
			"work": "/vault/work",
		},
	})
	if err != nil {
		t.Fatalf("save config: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "editor") {
		t.Errorf("empty editor should be omitted, got:\n%s", content)
	}
	if strings.Contains(content, "default_vault") {
		t.Errorf("empty default_vault should be omitted, got:\n%s", content)
	}
	if !strings.Contains(content, "[vaults]") {
		t.Errorf("expected vaults table in output, got:\n%s", content)
	}
}

func TestSaveToRequiresPath(t *testing.T) {
	if err := SaveTo("", &Config{}); err == nil {
		t.Error("expected error for empty path")
	}
}
