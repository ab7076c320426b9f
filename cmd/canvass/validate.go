package main

import (
	"fmt"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check campaigns for errors",
	Long: `Parses every campaign and reports invalid flows, unknown validators,
unreachable questions and duplicate campaign codes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backends, err := cli.OpenBackends(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()

		if err := cli.Validate(cmd.Context(), backends.Campaigns, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
