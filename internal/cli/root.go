// Package cli implements the riskctl command-line tool.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Admin tooling for the risk assessment tracker",
	Long: `riskctl runs maintenance tasks against the risk assessment store:
seeding the lookup tables and bulk-importing historical findings from
spreadsheet exports.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
