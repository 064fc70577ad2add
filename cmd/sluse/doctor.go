package main

import (
	"github.com/riordanpawley/sluse/internal/cli"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project API and the activity log",
	Long: `Probe the project API health endpoint, query every configured period
once and summarise recent refresh activity.

Exits non-zero when the API is unreachable or every period query fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := cli.NewDependencies(cfg, nil)
		if err != nil {
			return err
		}
		defer deps.Close()
		deps.Out = cmd.OutOrStdout()

		return cli.DoctorCommand(cmd.Context(), deps)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
