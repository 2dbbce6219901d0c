package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rook/internal/config"
	"github.com/aidanlsb/rook/internal/ui"
	"github.com/aidanlsb/rook/internal/vault"
)

var (
	reportFileFlag string
	reportOpen     bool
	reportRaw      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the check report",
	Long: `Prints the report document written by 'rook check'. In a terminal the
markdown is rendered; pipe the output or pass --raw for the file as-is.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultPath := getVaultPath()

		vaultCfg, cfgWarning := config.LoadVaultConfig(vaultPath)
		reportFile := vaultCfg.Report
		if reportFileFlag != "" {
			reportFile = reportFileFlag
		}
		reportPath := filepath.Join(vaultPath, filepath.FromSlash(reportFile))

		raw, err := os.ReadFile(reportPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrReportNotFound,
					fmt.Sprintf("report file not found: %s", reportFile),
					"Run 'rook check' to generate it, or 'rook init' to create the vault scaffolding")
			}
			return handleError(ErrFileReadError, err, "")
		}

		if reportOpen {
			vault.OpenInEditorOrPrintPath(getConfig(), reportPath)
			return nil
		}

		if isJSONOutput() {
			var warnings []Warning
			if cfgWarning != "" {
				warnings = append(warnings, Warning{Code: WarnVaultConfig, Message: cfgWarning})
			}
			outputSuccessWithWarnings(map[string]interface{}{
				"path":    reportFile,
				"content": string(raw),
			}, warnings, nil)
			return nil
		}

		if cfgWarning != "" {
			fmt.Fprintln(os.Stderr, ui.Warning(cfgWarning))
		}

		display := ui.NewDisplayContext()
		if display.IsTTY && !reportRaw {
			rendered, renderErr := ui.RenderMarkdown(string(raw), display.WrapWidth(100))
			if renderErr == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Print(string(raw))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFileFlag, "report", "", "Report file path relative to the vault root (overrides rook.yaml)")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "Open the report in the configured editor")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print the file without rendering")
	rootCmd.AddCommand(reportCmd)
}
