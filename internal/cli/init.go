package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rook/internal/config"
	"github.com/aidanlsb/rook/internal/index"
	"github.com/aidanlsb/rook/internal/report"
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a vault for checking",
	Long: `Creates the rook scaffolding at the specified path.

Creates:
  - rook.yaml    (check rules)
  - report.md    (report document with managed markers)
  - .rook/       (metadata cache directory)
  - .gitignore   (ignores derived files)

Existing files are kept as they are.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := os.MkdirAll(path, 0755); err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create vault directory: %w", err), "")
		}

		stateDir := filepath.Join(path, index.StateDirName)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create %s directory: %w", index.StateDirName, err), "")
		}

		gitignoreStatus, err := ensureGitignore(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		createdConfig, err := config.CreateDefaultVaultConfig(path)
		if err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create rook.yaml: %w", err), "")
		}

		// The report scaffold honors a report path already configured in an
		// existing rook.yaml.
		vaultCfg, _ := config.LoadVaultConfig(path)
		createdReport, err := createDefaultReport(path, vaultCfg.Report)
		if err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create %s: %w", vaultCfg.Report, err), "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":           path,
				"created_config": createdConfig,
				"created_report": createdReport,
				"report":         vaultCfg.Report,
				"gitignore":      gitignoreStatus,
			}, nil)
			return nil
		}

		fmt.Printf("Initializing vault at: %s\n", path)

		if createdConfig {
			fmt.Println("✓ Created rook.yaml (check rules)")
		} else {
			fmt.Println("• rook.yaml already exists (kept)")
		}

		if createdReport {
			fmt.Printf("✓ Created %s (report document)\n", vaultCfg.Report)
		} else {
			fmt.Printf("• %s already exists (kept)\n", vaultCfg.Report)
		}

		fmt.Printf("✓ Ensured %s/ directory exists\n", index.StateDirName)

		switch gitignoreStatus {
		case "created":
			fmt.Println("✓ Created .gitignore")
		case "updated":
			fmt.Println("✓ Updated .gitignore (added rook entries)")
		default:
			fmt.Println("• .gitignore already has rook entries")
		}

		if createdConfig || createdReport {
			fmt.Println("\nVault initialized! Run 'rook check' to populate the report.")
		} else {
			fmt.Println("\nExisting vault detected. Configuration preserved.")
		}

		return nil
	},
}

// ensureGitignore adds the rook state directory to .gitignore, creating the
// file when needed. Returns "created", "updated", or "unchanged".
func ensureGitignore(vaultPath string) (string, error) {
	gitignorePath := filepath.Join(vaultPath, ".gitignore")
	entry := index.StateDirName + "/"

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	if strings.Contains(existing, entry) {
		return "unchanged", nil
	}

	if existing == "" {
		content := `# Rook (auto-generated)
# The markdown files are the source of truth

# Metadata cache
` + entry + `
`
		if err := os.WriteFile(gitignorePath, []byte(content), 0644); err != nil {
			return "", fmt.Errorf("failed to write .gitignore: %w", err)
		}
		return "created", nil
	}

	content := strings.TrimRight(existing, "\n") + "\n\n# Rook\n" + entry + "\n"
	if err := os.WriteFile(gitignorePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return "updated", nil
}

// createDefaultReport writes the report scaffold with an empty managed
// section. Returns false when the file already exists.
func createDefaultReport(vaultPath, reportFile string) (bool, error) {
	reportPath := filepath.Join(vaultPath, filepath.FromSlash(reportFile))
	if _, err := os.Stat(reportPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if dir := filepath.Dir(reportPath); dir != vaultPath {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}

	content := "# Check report\n\n" +
		report.BeginMarker + "\n" +
		"Run `rook check` to populate this report.\n" +
		report.EndMarker + "\n"
	if err := os.WriteFile(reportPath, []byte(content), 0644); err != nil {
		return false, err
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
