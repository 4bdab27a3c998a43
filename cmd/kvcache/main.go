package main

import (
	"os"

	"github.com/spf13/cobra"

	"kvcache/internal/config"
)

const (
	configFlag    = "config"
	envPrefixFlag = "env-config-prefix"
)

func main() {
	root := newRootCommand()

	if err := root.Execute(); err != nil {
		root.PrintErrln(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kvcache",
		Short:         "A persistent key-value cache with time based expiration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP(configFlag, "c", "", "Path to the yaml configuration file")
	root.PersistentFlags().String(envPrefixFlag, config.DefaultEnvPrefix,
		"Prefix of the environment variables overriding the configuration")

	root.AddCommand(
		newServeCommand(),
		newGetCommand(),
		newPutCommand(),
		newDeleteCommand(),
		newSweepCommand(),
		newTokenCommand(),
	)

	return root
}
