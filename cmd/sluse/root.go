package main

import (
	"fmt"
	"os"

	"github.com/riordanpawley/sluse/internal/config"
	"github.com/spf13/cobra"
)

var (
	projectDir string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sluse",
	Short: "Warehouse bay kiosk board",
	Long: `Sluse runs the warehouse bay kiosk: project panels per period that page
through automatically, refresh in the background and reload themselves
every few hours.

Configuration is read from .sluse.json or .sluse.yaml in the project
directory, then from SLUSE_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := projectDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			dir = wd
		}

		loaded, err := config.LoadConfig(dir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKiosk(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", "", "Directory containing .sluse.json or .sluse.yaml (default: current directory)")
}
