package cli

import (
	"fmt"
	"os"

	"risk-tracker/internal/config"
	"risk-tracker/internal/database"
	"risk-tracker/internal/importer"

	"github.com/spf13/cobra"
)

var (
	importYear     int
	importBatch    int
	importSingleTx bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Bulk-import assets, controls and risk findings from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("file not found: %s", path)
		}

		cfg := config.Load()
		database.Init(cfg.DBDSN)

		doc, err := importer.ReadWorkbook(path)
		if err != nil {
			return err
		}

		imp := importer.New(database.DB, importer.Options{
			AssessmentYear:    importYear,
			BatchSize:         importBatch,
			SingleTransaction: importSingleTx,
		})

		summary, err := imp.Run(doc)
		if err != nil {
			return err
		}

		fmt.Printf("assets imported:   %d\n", summary.AssetsImported)
		fmt.Printf("controls imported: %d\n", summary.ControlsImported)
		fmt.Printf("risks imported:    %d\n", summary.RisksImported)
		return nil
	},
}

func init() {
	importCmd.Flags().IntVar(&importYear, "year", 0, "Assessment year stamped on imported risks (default 2025)")
	importCmd.Flags().IntVar(&importBatch, "batch-size", 0, "Risk rows per commit batch (default 100)")
	importCmd.Flags().BoolVar(&importSingleTx, "single-tx", false, "Run the whole import in one transaction")
	rootCmd.AddCommand(importCmd)
}
