package main

import (
	"github.com/riordanpawley/sluse/internal/cli"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <period>",
	Short: "Query one period once and print its projects",
	Long: `Query the project API for one period and print the result.

Periods: confirmed, prepped, onLocation, delayed, toBeInvoiced, transport.

Examples:
  sluse fetch confirmed
  sluse fetch delayed --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		deps, err := cli.NewDependencies(cfg, nil)
		if err != nil {
			return err
		}
		defer deps.Close()
		deps.Out = cmd.OutOrStdout()

		return cli.FetchCommand(cmd.Context(), deps, args[0], asJSON)
	},
}

func init() {
	fetchCmd.Flags().Bool("json", false, "Print projects as JSON")
	rootCmd.AddCommand(fetchCmd)
}
