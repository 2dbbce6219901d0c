package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/rook/internal/atomicfile"
	"github.com/aidanlsb/rook/internal/paths"
)

// VaultConfig represents vault-level check rules from rook.yaml.
type VaultConfig struct {
	// Report is the vault-relative document that receives the generated
	// report between the rook markers (default: "report.md").
	Report string `yaml:"report,omitempty"`

	// IgnoreAnchors lists anchor fragments never flagged as missing
	// (structural/formatting anchors like "toc").
	IgnoreAnchors []string `yaml:"ignore_anchors,omitempty"`

	// IgnoreFiles lists reference targets that are never resolved or
	// flagged, matched against the cleaned target text.
	IgnoreFiles []string `yaml:"ignore_files,omitempty"`

	// IgnoreUnreferencedPath lists path prefixes excluded from the
	// unreferenced-attachment report.
	IgnoreUnreferencedPath []string `yaml:"ignore_unreferenced_path,omitempty"`

	// Exclude lists glob patterns for files excluded from scanning
	// entirely.
	Exclude []string `yaml:"exclude,omitempty"`

	// Attachments lists glob patterns for attachment-like assets; only
	// matching files are reported as unreferenced
	// (default: "**/attachments/**").
	Attachments []string `yaml:"attachments,omitempty"`

	// Templates lists path prefixes whose files are never tracked for
	// reachability (default: "templates").
	Templates []string `yaml:"templates,omitempty"`
}

// DefaultVaultConfig returns the default vault configuration.
func DefaultVaultConfig() *VaultConfig {
	return &VaultConfig{
		Report:      "report.md",
		Attachments: []string{"**/attachments/**"},
		Templates:   []string{"templates"},
	}
}

// normalize applies defaults for missing values and cleans list entries.
func (vc *VaultConfig) normalize() {
	def := DefaultVaultConfig()

	vc.Report = paths.Normalize(strings.TrimSpace(vc.Report))
	if vc.Report == "" {
		vc.Report = def.Report
	}

	vc.IgnoreAnchors = cleanList(vc.IgnoreAnchors, false)
	vc.IgnoreFiles = cleanList(vc.IgnoreFiles, false)
	vc.IgnoreUnreferencedPath = cleanList(vc.IgnoreUnreferencedPath, true)
	vc.Exclude = cleanList(vc.Exclude, false)

	vc.Attachments = cleanList(vc.Attachments, false)
	if len(vc.Attachments) == 0 {
		vc.Attachments = def.Attachments
	}

	vc.Templates = cleanList(vc.Templates, true)
	if len(vc.Templates) == 0 {
		vc.Templates = def.Templates
	}
}

// cleanList trims entries and drops empties. Path-valued lists are also
// slash-normalized so config written on Windows behaves the same.
func cleanList(values []string, asPath bool) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if asPath {
			v = paths.Normalize(v)
		}
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// LoadVaultConfig loads check rules from rook.yaml at the vault root.
// Rules config is never fatal: a missing or unreadable file falls back
// to the built-in defaults and the returned warning says why.
func LoadVaultConfig(vaultPath string) (*VaultConfig, string) {
	configPath := filepath.Join(vaultPath, "rook.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		cfg := DefaultVaultConfig()
		cfg.normalize()
		if os.IsNotExist(err) {
			return cfg, "rook.yaml not found; using default rules"
		}
		return cfg, fmt.Sprintf("failed to read rook.yaml: %v; using default rules", err)
	}

	var config VaultConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		cfg := DefaultVaultConfig()
		cfg.normalize()
		return cfg, fmt.Sprintf("failed to parse rook.yaml: %v; using default rules", err)
	}

	config.normalize()
	return &config, ""
}

// CreateDefaultVaultConfig creates a default rook.yaml file in the vault.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultVaultConfig(vaultPath string) (bool, error) {
	configPath := filepath.Join(vaultPath, "rook.yaml")

	// Skip if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# Rook Vault Configuration
# Rules for the reference integrity check.

# Document that receives the generated report. Everything between the
# rook markers in this file is replaced on each run.
report: report.md

# Anchor fragments never flagged as missing (structural/formatting
# anchors).
# ignore_anchors:
#   - toc
#   - top

# Reference targets excluded from checking entirely.
# ignore_files:
#   - scratch

# Path prefixes excluded from the unreferenced-attachment report.
# ignore_unreferenced_path:
#   - archive

# Glob patterns for files excluded from scanning.
# exclude:
#   - "private/**"

# Where attachment-like assets live. Only files matching these globs
# are reported when unreferenced.
attachments:
  - "**/attachments/**"

# Path prefixes holding templates; template assets are never tracked.
templates:
  - templates
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write vault config: %w", err)
	}

	return true, nil
}

// SaveVaultConfig writes the vault config back to rook.yaml.
func SaveVaultConfig(vaultPath string, cfg *VaultConfig) error {
	configPath := filepath.Join(vaultPath, "rook.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rook.yaml: %w", err)
	}

	return nil
}
