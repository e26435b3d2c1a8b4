package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cleaver/internal/chunking"
	"cleaver/internal/config"
	"cleaver/internal/session"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve <session-id> <segment-id>",
		Short: "Resolve the on-disk path of a produced segment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, segmentID := args[0], args[1]

			return ctx.withStore(func(cfg *config.Config, store *session.Store) error {
				sess, err := store.Get(cmd.Context(), sessionID)
				if err != nil {
					return err
				}
				if sess == nil {
					return fmt.Errorf("session %s not found", sessionID)
				}

				// The borrowed-original case keeps the segment outside the
				// output dir; the stored record is authoritative there.
				records, err := sess.Segments()
				if err != nil {
					return err
				}
				for _, record := range records {
					if record.ID == segmentID && record.Borrowed {
						return printResolved(cmd, jsonOut, sessionID, segmentID, record.Path)
					}
				}

				path, err := chunking.ResolvePath(sess.OutputDir, segmentID)
				if err != nil {
					return fmt.Errorf("resolve segment %s in session %s: %w", segmentID, sessionID, err)
				}
				return printResolved(cmd, jsonOut, sessionID, segmentID, path)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON output")
	return cmd
}

func printResolved(cmd *cobra.Command, jsonOut bool, sessionID, segmentID, path string) error {
	if jsonOut {
		return writeJSON(cmd, map[string]string{
			"session_id": sessionID,
			"segment_id": segmentID,
			"path":       path,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
