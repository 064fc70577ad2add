package main

import (
	"time"

	"github.com/riordanpawley/sluse/internal/cli"
	"github.com/spf13/cobra"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Print the date window of every period",
	Long: `Print the closed day range each period covers today, in local time.

Periods shown on the kiosk (display.periods) are marked with *.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := &cli.Dependencies{Config: cfg, Out: cmd.OutOrStdout(), Now: time.Now}
		return cli.PeriodsCommand(deps)
	},
}

func init() {
	rootCmd.AddCommand(periodsCmd)
}
