package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cleaver/internal/config"
	"cleaver/internal/preflight"
	"cleaver/internal/session"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool availability, directory health, and session counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *session.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				var lines []string

				lines = append(lines, renderSectionHeader("Environment", colorize)...)
				for _, check := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !check.Passed {
						kind = statusError
					}
					lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
				}

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Sessions", colorize)...)
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				total := 0
				for _, status := range session.AllStatuses() {
					count := stats[status]
					total += count
					if count == 0 {
						continue
					}
					lines = append(lines, renderStatusLine(string(status), statusInfo, fmt.Sprintf("%d", count), colorize))
				}
				if total == 0 {
					lines = append(lines, renderStatusLine("recorded", statusInfo, "none", colorize))
				}
				lines = append(lines, renderStatusLine("database", statusInfo, store.Path(), colorize))

				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}
}
