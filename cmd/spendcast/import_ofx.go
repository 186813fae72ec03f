package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/earlystart/spendcast/internal/ingest"
	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/series"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Examples:
  spendcast import-ofx ~/Downloads/chase_jan_2024.qfx
  spendcast import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	files, err := expandGlobs(args)
	if err != nil {
		return err
	}

	loader := ingest.NewOFXLoader()
	var all []model.Transaction

	for _, path := range files {
		slog.Info("processing file", "file", filepath.Base(path))
		f, err := os.Open(path) // #nosec G304 -- user-supplied import path
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		txns, err := loader.Load(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		all = append(all, txns...)
	}

	if dryRun {
		slog.Info("dry run complete, nothing saved", "transactions", len(all))
		return nil
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	series.SortByDate(all)
	saved, err := store.SaveTransactions(cmd.Context(), all)
	if err != nil {
		return err
	}

	slog.Info("import complete",
		"files", len(files),
		"parsed", len(all),
		"saved", saved)
	return nil
}
