package cli

import (
	"fmt"

	"risk-tracker/internal/config"
	"risk-tracker/internal/database"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create missing tables and seed the lookup reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		// Init migrates and seeds; repeated runs are no-ops
		database.Init(cfg.DBDSN)

		fmt.Println("database ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
