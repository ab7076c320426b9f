package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvass"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number of canvass",
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "canvass version %s\n", strings.TrimSpace(canvass.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
