package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/canvass/internal/config"
	"github.com/aretw0/canvass/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "canvass",
	Short: "Canvass runs surveys and petitions as chat conversations",
	Long: `Canvass turns campaign files into question-by-question conversations.
Messages arrive from WhatsApp webhooks, the JSON API, MCP agents or the terminal.

Configuration is read from CANVASS_* environment variables (and an optional
.env file); flags override the environment.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", "", "Load variables from this .env file (default: ./.env if present)")
	flags.String("campaigns-dir", "", "Directory containing campaign YAML/JSON files")
	flags.String("store", "", "Session store: memory, file, redis, postgres or sqlite")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("locale", "", "Message locale (en, pt-BR)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	var files []string
	if f, _ := flags.GetString("env-file"); f != "" {
		files = append(files, f)
	}
	c, err := config.Load(files...)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"campaigns-dir": &c.CampaignsDir,
		"store":         &c.Store,
		"log-level":     &c.LogLevel,
		"log-format":    &c.LogFormat,
		"locale":        &c.Locale,
	}
	for name, field := range overrides {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}

	if err := c.Validate(); err != nil {
		return err
	}
	l, err := logging.NewFromConfig(c.LogFormat, c.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(l)

	cfg, logger = c, l
	return nil
}
