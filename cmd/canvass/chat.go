package main

import (
	"errors"
	"os"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [campaign]",
	Short: "Take part in a campaign from the terminal",
	Long: `Starts a local conversation with a campaign. With --json, replies are
written as JSON lines and each input line may be a JSON string, which makes
the command scriptable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		campaign, _ := flags.GetString("campaign")
		if len(args) > 0 {
			campaign = args[0]
		}
		if campaign == "" {
			campaign = cfg.DefaultCampaign
		}
		if campaign == "" {
			return errors.New("no campaign given (pass one or set CANVASS_DEFAULT_CAMPAIGN)")
		}
		user, _ := flags.GetString("user")
		asJSON, _ := flags.GetBool("json")
		noStart, _ := flags.GetBool("no-start")

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		app, err := cli.Build(sc, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		opening := ""
		if kws := app.Engine.StartKeywords(); !noStart && len(kws) > 0 {
			opening = kws[0]
		}

		return cli.RunChat(sc, app.Engine, cli.ChatOptions{
			Campaign:     campaign,
			User:         user,
			Opening:      opening,
			JSON:         asJSON,
			MaxInputSize: cfg.MaxInputSize,
			In:           os.Stdin,
			Out:          os.Stdout,
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("campaign", "c", "", "Campaign id to talk to")
	chatCmd.Flags().StringP("user", "u", "local", "User id the answers are recorded under")
	chatCmd.Flags().Bool("json", false, "Use JSON lines for input and output")
	chatCmd.Flags().Bool("no-start", false, "Wait for the first message instead of starting the flow")
}
