package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studivio/internal/preflight"
	"studivio/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check configuration and upstream services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			uploads, _ := staging.ListUploads(cfg.Paths.TempDir)

			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, ctx.configPath, colorize),
				renderStatusLine("Bind address", statusInfo, cfg.API.Bind, colorize),
				renderStatusLine("Revocation backend", statusInfo, cfg.Auth.RevocationBackend, colorize),
				renderStatusLine("Todos require auth", statusInfo, yesNo(cfg.API.TodosRequireAuth), colorize),
				renderStatusLine("Archive enabled", statusInfo, yesNo(cfg.Archive.Enabled), colorize),
				renderStatusLine("Scratch uploads", statusInfo, fmt.Sprintf("%d in %s", len(uploads), cfg.Paths.TempDir), colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Checks", colorize)...)

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				lines = append(lines, renderStatusLine(r.Name, resultKind(r), r.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}
}
