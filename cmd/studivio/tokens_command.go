package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studivio/internal/auth"
	"studivio/internal/store"
)

func newTokensCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Maintain the revoked token list",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop revocations whose tokens have expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Auth.RevocationBackend == "redis" {
				fmt.Fprintln(out, "Redis revocations expire on their own; nothing to purge")
				return nil
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := auth.NewSQLiteRevocations(st).Purge(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Purged %d expired revocation(s)\n", n)
			return nil
		},
	})
	return cmd
}
