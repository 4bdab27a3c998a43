package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kvcache/internal/auth"
)

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "token <subject>",
		Short:   "Issues a bearer token for the HTTP API",
		Example: "KVCACHE_AUTH_SECRET=s3cr3t kvcache token worker-1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, _, err := loadConfig(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			token, err := auth.NewIssuer(conf.Auth).GenerateToken(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}
}
