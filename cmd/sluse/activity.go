package main

import (
	"github.com/riordanpawley/sluse/internal/cli"
	"github.com/riordanpawley/sluse/internal/domain"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent refresh activity",
	Long: `Display the refresh activity log written by the kiosk.

Every refresh cycle records one row per period with the project count,
fetch duration and error, if any.

Examples:
  sluse activity                     # Show last 50 rows
  sluse activity -n 10               # Show last 10 rows
  sluse activity --period delayed    # Only the delayed period
  sluse activity --failed            # Only failed fetches`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		periodName, _ := cmd.Flags().GetString("period")
		failed, _ := cmd.Flags().GetBool("failed")

		opts := domain.ListRefreshOptions{Limit: limit, FailedOnly: failed}
		if periodName != "" {
			p, err := domain.ParsePeriod(periodName)
			if err != nil {
				return err
			}
			opts.Period = p
		}

		deps, err := cli.NewDependencies(cfg, nil)
		if err != nil {
			return err
		}
		defer deps.Close()
		deps.Out = cmd.OutOrStdout()

		return cli.ActivityCommand(cmd.Context(), deps, opts)
	},
}

func init() {
	activityCmd.Flags().IntP("limit", "n", 50, "Number of rows to show")
	activityCmd.Flags().StringP("period", "p", "", "Filter by period")
	activityCmd.Flags().Bool("failed", false, "Only show failed fetches")
	rootCmd.AddCommand(activityCmd)
}
