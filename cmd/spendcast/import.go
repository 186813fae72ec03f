package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/ingest"
	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/series"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from CSV statement exports",
		Long: `Import transactions from bank or credit-card CSV exports.

Column layout is detected automatically: the date, amount, and
description/category columns are identified by header name or content.
Duplicate transactions are skipped on re-import.

Examples:
  spendcast import ~/Downloads/accountactivity.csv
  spendcast import ~/Downloads/*.csv --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	files, err := expandGlobs(args)
	if err != nil {
		return err
	}

	loader := ingest.NewCSVLoader()
	var all []model.Transaction

	bar := progressbar.Default(int64(len(files)), "importing")
	for _, path := range files {
		f, err := os.Open(path) // #nosec G304 -- user-supplied import path
		if err != nil {
			return common.NewUserError(fmt.Sprintf("could not open %s", path), err)
		}
		txns, err := loader.Load(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		all = append(all, txns...)
		_ = bar.Add(1)
	}

	if dryRun {
		common.LogInfo("dry run complete, nothing saved", common.Fields{"transactions": len(all)})
		return nil
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Statement exports often arrive newest-first; insert chronologically.
	series.SortByDate(all)
	saved, err := store.SaveTransactions(cmd.Context(), all)
	if err != nil {
		return err
	}

	common.LogInfo("import complete", common.Fields{
		"files":              len(files),
		"parsed":             len(all),
		"saved":              saved,
		"duplicates_skipped": len(all) - saved,
	})
	return nil
}

// expandGlobs resolves glob patterns and direct paths into a file list.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("no files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
