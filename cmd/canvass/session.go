package main

import (
	"github.com/aretw0/canvass/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect and remove sessions in the configured store. Keys have the form <campaign>:<user>.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		backends, err := cli.OpenBackends(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()
		return cli.ListSessions(cmd.Context(), backends.Manager(cfg, logger), cmd.OutOrStdout())
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <campaign:user>",
	Short: "Print a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backends, err := cli.OpenBackends(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()
		return cli.InspectSession(cmd.Context(), backends.Manager(cfg, logger), args[0], cmd.OutOrStdout())
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <campaign:user>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backends, err := cli.OpenBackends(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()
		return cli.RemoveSessions(cmd.Context(), backends.Manager(cfg, logger), args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
