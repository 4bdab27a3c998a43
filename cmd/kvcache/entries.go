package main

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"kvcache/internal/cache"
)

const ttlFlag = "ttl"

var ErrEntryNotFound = errors.New("entry not found")

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Prints the value stored under key as JSON",
		Example: "kvcache get session:42 -c config.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlags(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			value, found, err := a.cache.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("%w: %s", ErrEntryNotFound, args[0])
			}

			raw, err := json.Marshal(value)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(raw))

			return nil
		},
	}
}

func newPutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "put <key> <json>",
		Short:   "Stores a JSON value under key",
		Example: `kvcache put session:42 '{"user":"ann"}' --ttl 60`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				return fmt.Errorf("value is not valid JSON: %w", err)
			}

			withTTL := cmd.Flags().Changed(ttlFlag)
			seconds, _ := cmd.Flags().GetInt64(ttlFlag)

			ttl, err := cache.TTLFromSeconds(seconds)
			if err != nil {
				return err
			}

			a, err := openFromFlags(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if !withTTL {
				return a.cache.Put(cmd.Context(), args[0], value)
			}

			return a.cache.PutWithTTL(cmd.Context(), args[0], value, ttl)
		},
	}

	cmd.Flags().Int64(ttlFlag, 0, "Time to live in seconds (defaults to cache.default_ttl)")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "del <key>",
		Aliases: []string{"delete"},
		Short:   "Removes the entry stored under key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlags(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.cache.Delete(cmd.Context(), args[0])
		},
	}
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Removes all expired entries and prints how many were removed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openFromFlags(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.cache.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), count)

			return nil
		},
	}
}
