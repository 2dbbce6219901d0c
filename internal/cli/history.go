package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rook/internal/audit"
	"github.com/aidanlsb/rook/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past check runs",
	Long: `Prints the check-run history recorded in .rook/history.log: when each
check ran, how much it scanned, and how many findings it reported per
category. Useful for watching breakage trend toward zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := audit.Recent(getVaultPath(), historyLimit)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		if isJSONOutput() {
			if entries == nil {
				entries = []audit.Entry{}
			}
			outputSuccess(map[string]interface{}{
				"runs": entries,
			}, &Meta{Count: len(entries)})
			return nil
		}

		if len(entries) == 0 {
			fmt.Println(ui.Hint("No check runs recorded yet. Run 'rook check' first."))
			return nil
		}

		tbl := ui.NewTable(4)
		tbl.AddRow("WHEN", "DOCS", "REFS", "FINDINGS")
		for _, e := range entries {
			findings := "clean"
			if n := e.Findings(); n > 0 {
				findings = ui.FindingCounts(e.MissingRefs, e.MissingAnchors, e.MissingMapImages, e.Unreferenced)
			}
			tbl.AddRow(
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", e.Docs),
				fmt.Sprintf("%d", e.Refs),
				findings,
			)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
