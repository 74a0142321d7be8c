package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "oncemcp",
		Short: "MCP server for the 1NCE IoT management API",
		Long: "oncemcp exposes 1NCE product, order, and SIM management as MCP tools, resources, and prompts. " +
			"Credentials come from ONCE_CLIENT_ID and ONCE_CLIENT_SECRET, a .env file, or --config.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv(opts.envFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to YAML configuration file")
	flags.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newToolsCmd(opts),
		newCallCmd(opts),
		newResourcesCmd(opts),
		newReadCmd(opts),
		newPromptCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// loadDotEnv loads environment variables from path. Missing files are ignored
// and variables already set in the environment win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
