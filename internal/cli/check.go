package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rook/internal/audit"
	"github.com/aidanlsb/rook/internal/check"
	"github.com/aidanlsb/rook/internal/config"
	"github.com/aidanlsb/rook/internal/index"
	"github.com/aidanlsb/rook/internal/report"
	"github.com/aidanlsb/rook/internal/ui"
	"github.com/aidanlsb/rook/internal/vault"
)

var (
	checkReportFlag string
	checkNowFlag    string
	checkJobs       int
	checkNoCache    bool
	checkStrict     bool
)

// checkRefJSON is one missing-ref or missing-map-image row in JSON output.
type checkRefJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Detail string `json:"detail,omitempty"`
}

// checkAnchorJSON is one missing-anchor row in JSON output.
type checkAnchorJSON struct {
	Source string `json:"source"`
	Anchor string `json:"anchor"`
	Target string `json:"target"`
	Detail string `json:"detail,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check vault references and update the report",
	Long: `Scans every markdown document in the vault, resolves wiki links, markdown
links, embeds, and leaflet image refs, and rewrites the managed section of
the report document with everything broken:

  - references whose target does not exist
  - heading or block anchors missing from an existing target
  - leaflet map images that point nowhere
  - attachment files no document references

Rules come from rook.yaml in the vault root; a missing or broken rook.yaml
falls back to defaults with a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		vaultPath := getVaultPath()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		vaultCfg, cfgWarning := config.LoadVaultConfig(vaultPath)

		// Period boundaries are UTC, so the comparison time must be too.
		now := time.Now().UTC()
		if checkNowFlag != "" {
			parsed, err := vault.ParseDateArg(checkNowFlag)
			if err != nil {
				return handleError(ErrInvalidInput, err, "Use YYYY-MM-DD or today/yesterday/tomorrow")
			}
			now = parsed
		}

		reportFile := vaultCfg.Report
		if checkReportFlag != "" {
			reportFile = checkReportFlag
		}

		// One check at a time per vault: the report splice and cache writes
		// must not race another run.
		lock, err := index.AcquireLock(vaultPath)
		if err != nil {
			if errors.Is(err, index.ErrVaultLocked) {
				return handleErrorMsg(ErrVaultLocked, "another rook check is already running against this vault", "Wait for it to finish and retry")
			}
			return handleError(ErrInternal, err, "")
		}
		defer lock.Release()

		var warnings []Warning
		if cfgWarning != "" {
			warnings = append(warnings, Warning{Code: WarnVaultConfig, Message: cfgWarning})
		}

		var cache *index.Cache
		if !checkNoCache {
			cache, err = index.Open(vaultPath)
			if err != nil {
				warnings = append(warnings, Warning{Code: WarnCacheUnavailable, Message: fmt.Sprintf("metadata cache unavailable: %v", err)})
			} else {
				defer cache.Close()
			}
		}

		showSpinner := !isJSONOutput()
		var sp *ui.Spinner
		if showSpinner {
			sp = ui.NewSpinner("Checking vault")
			sp.Start()
		}

		loadOpts := vault.LoadOptions{
			Exclude: vaultCfg.Exclude,
			Jobs:    checkJobs,
		}
		if cache != nil {
			loadOpts.Cache = cache
		}
		store, err := vault.Load(ctx, vaultPath, loadOpts)
		if err != nil {
			if sp != nil {
				sp.Stop()
			}
			return handleError(ErrInternal, fmt.Errorf("loading vault: %w", err), "")
		}

		res, err := check.Run(ctx, store, check.Options{
			IgnoreAnchors:           vaultCfg.IgnoreAnchors,
			IgnoreFiles:             vaultCfg.IgnoreFiles,
			IgnoreUnreferencedPaths: vaultCfg.IgnoreUnreferencedPath,
			AttachmentGlobs:         vaultCfg.Attachments,
			Templates:               vaultCfg.Templates,
			ReportFile:              reportFile,
			Now:                     now,
			Jobs:                    checkJobs,
		})
		if err != nil {
			if sp != nil {
				sp.Stop()
			}
			return handleError(ErrCheckFailed, err, "")
		}

		// Drop cache entries whose documents no longer exist in this snapshot.
		if cache != nil {
			docs := store.Documents()
			live := make([]string, 0, len(docs))
			for _, d := range docs {
				live = append(live, d.Hash)
			}
			if _, pruneErr := cache.Prune(live); pruneErr != nil {
				warnings = append(warnings, Warning{Code: WarnCacheUnavailable, Message: fmt.Sprintf("cache prune failed: %v", pruneErr)})
			}
		}

		for _, w := range store.Warnings() {
			warnings = append(warnings, Warning{
				Code:    WarnFileUnreadable,
				Message: fmt.Sprintf("could not read %s: %v", w.Path, w.Err),
				Path:    w.Path,
			})
		}

		reportPath := filepath.Join(vaultPath, filepath.FromSlash(reportFile))
		if err := report.Update(reportPath, res.Report); err != nil {
			if sp != nil {
				sp.Stop()
			}
			return handleError(ErrReportNotFound, err, "Run 'rook init "+vaultPath+"' to create the report scaffolding")
		}

		if sp != nil {
			sp.Stop()
		}

		if err := audit.New(vaultPath).Log(audit.Entry{
			Docs:             res.Docs,
			Files:            res.Files,
			Refs:             res.Refs,
			MissingRefs:      len(res.Report.MissingRefs),
			MissingAnchors:   len(res.Report.MissingAnchors),
			MissingMapImages: len(res.Report.MissingMapImages),
			Unreferenced:     len(res.Report.Unreferenced),
			ElapsedMs:        time.Since(started).Milliseconds(),
			Report:           reportFile,
		}); err != nil {
			warnings = append(warnings, Warning{Code: WarnHistoryUnavailable, Message: fmt.Sprintf("history log not updated: %v", err)})
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(checkData(res, reportFile), warnings, &Meta{
				Count:     res.Report.Count(),
				ElapsedMs: time.Since(started).Milliseconds(),
			})
		} else {
			printCheckResult(res, reportFile, warnings)
		}

		if checkStrict && !res.Report.Empty() {
			os.Exit(1)
		}
		return nil
	},
}

func checkData(res *check.Result, reportFile string) map[string]interface{} {
	refs := make([]checkRefJSON, 0, len(res.Report.MissingRefs))
	for _, r := range res.Report.MissingRefs {
		refs = append(refs, checkRefJSON{Source: r.Source, Target: r.Target, Detail: r.Detail})
	}
	anchors := make([]checkAnchorJSON, 0, len(res.Report.MissingAnchors))
	for _, r := range res.Report.MissingAnchors {
		anchors = append(anchors, checkAnchorJSON{Source: r.Source, Anchor: r.Anchor, Target: r.Target, Detail: r.Detail})
	}
	images := make([]checkRefJSON, 0, len(res.Report.MissingMapImages))
	for _, r := range res.Report.MissingMapImages {
		images = append(images, checkRefJSON{Source: r.Source, Target: r.Target, Detail: r.Detail})
	}
	unreferenced := res.Report.Unreferenced
	if unreferenced == nil {
		unreferenced = []string{}
	}

	return map[string]interface{}{
		"documents":          res.Docs,
		"files":              res.Files,
		"refs":               res.Refs,
		"findings":           res.Report.Count(),
		"missing_refs":       refs,
		"missing_anchors":    anchors,
		"missing_map_images": images,
		"unreferenced":       unreferenced,
		"report":             reportFile,
	}
}

func printCheckResult(res *check.Result, reportFile string, warnings []Warning) {
	for _, w := range warnings {
		fmt.Println(ui.Warning(w.Message))
	}

	display := ui.NewDisplayContext()
	c := res.Report

	if len(c.MissingRefs) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", ui.Header("Missing references"), ui.Hint(ui.Count(len(c.MissingRefs), "ref", "refs")))
		tbl := ui.NewFindingsTable(display, ui.RefLayout)
		width := tbl.ColumnWidth(1)
		for _, r := range c.MissingRefs {
			tbl.AddRow(r.Source, ui.TruncateWithEllipsis(refCell(r), width))
		}
		fmt.Println(tbl.Render())
	}

	if len(c.MissingAnchors) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", ui.Header("Missing anchors"), ui.Hint(ui.Count(len(c.MissingAnchors), "anchor", "anchors")))
		tbl := ui.NewFindingsTable(display, ui.AnchorLayout)
		width := tbl.ColumnWidth(2)
		for _, r := range c.MissingAnchors {
			tbl.AddRow(r.Source, "#"+r.Anchor, ui.TruncateWithEllipsis(refCell(r), width))
		}
		fmt.Println(tbl.Render())
	}

	if len(c.MissingMapImages) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", ui.Header("Missing map images"), ui.Hint(ui.Count(len(c.MissingMapImages), "image", "images")))
		tbl := ui.NewFindingsTable(display, ui.RefLayout)
		width := tbl.ColumnWidth(1)
		for _, r := range c.MissingMapImages {
			tbl.AddRow(r.Source, ui.TruncateWithEllipsis(refCell(r), width))
		}
		fmt.Println(tbl.Render())
	}

	if len(c.Unreferenced) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", ui.Header("Unreferenced attachments"), ui.Hint(ui.Count(len(c.Unreferenced), "file", "files")))
		lst := ui.NewList()
		for _, p := range c.Unreferenced {
			lst.Add(ui.FilePath(p))
		}
		fmt.Print(lst.String())
	}

	fmt.Println()
	if c.Empty() {
		fmt.Println(ui.Successf("No problems found in %d documents", res.Docs))
	} else {
		fmt.Println(ui.Errorf("%d problems found %s", c.Count(), ui.FindingCounts(
			len(c.MissingRefs), len(c.MissingAnchors), len(c.MissingMapImages), len(c.Unreferenced))))
	}
	fmt.Println(ui.Hint("report: " + reportFile))
}

// refCell renders a finding target with its optional detail annotation.
func refCell(r report.Row) string {
	if r.Detail == "" {
		return r.Target
	}
	return r.Target + " (" + r.Detail + ")"
}

func init() {
	checkCmd.Flags().StringVar(&checkReportFlag, "report", "", "Report file path relative to the vault root (overrides rook.yaml)")
	checkCmd.Flags().StringVar(&checkNowFlag, "now", "", "Reference date for periodic-note suppression (YYYY-MM-DD)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "Parallel workers (0 = number of CPUs)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "Skip the metadata cache and parse every document")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit non-zero when any finding is reported")
	rootCmd.AddCommand(checkCmd)
}
