package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cleaver/internal/config"
	"cleaver/internal/logging"
	"cleaver/internal/session"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and manage recorded chunking sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsPruneCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]session.Status, 0, len(listStatuses))
			for _, raw := range listStatuses {
				status, ok := session.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(cfg *config.Config, store *session.Store) error {
				sessions, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, sessionViews(sessions))
				}
				if len(sessions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
					return nil
				}

				rows := make([][]string, 0, len(sessions))
				for _, sess := range sessions {
					rows = append(rows, []string{
						sess.ID,
						string(sess.Status),
						shortenPath(sess.SourcePath),
						strconv.Itoa(sess.SegmentCount),
						formatDuration(sess.TotalDuration),
						formatTimestamp(sess.UpdatedAt),
					})
				}
				table := renderTable(
					[]string{"ID", "Status", "Source", "Segments", "Duration", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON output")
	return cmd
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session with its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *session.Store) error {
				sess, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if sess == nil {
					return fmt.Errorf("session %s not found", args[0])
				}

				records, err := sess.Segments()
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, struct {
						sessionView
						Segments []session.SegmentRecord `json:"segments"`
					}{sessionView: newSessionView(sess), Segments: records})
				}

				out := cmd.OutOrStdout()
				details := [][]string{
					{"ID", sess.ID},
					{"Status", string(sess.Status)},
					{"Source", sess.SourcePath},
					{"Output dir", sess.OutputDir},
					{"Segments", strconv.Itoa(sess.SegmentCount)},
					{"Duration", formatDuration(sess.TotalDuration)},
					{"Created", formatTimestamp(sess.CreatedAt)},
					{"Updated", formatTimestamp(sess.UpdatedAt)},
				}
				if sess.ErrorMessage != "" {
					details = append(details, []string{"Error", sess.ErrorKind + ": " + sess.ErrorMessage})
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, details, []columnAlignment{alignLeft, alignLeft}))

				if len(records) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.ID,
						fmt.Sprintf("%.3f", record.StartTime),
						fmt.Sprintf("%.3f", record.EndTime),
						formatBytes(record.SizeBytes),
						yesNo(record.Borrowed),
						shortenPath(record.Path),
					})
				}
				table := renderTable(
					[]string{"Segment", "Start", "End", "Size", "Borrowed", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
				)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON output")
	return cmd
}

func newSessionsPruneCommand(ctx *commandContext) *cobra.Command {
	var retentionHours int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove expired sessions and their output directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *session.Store) error {
				hours := retentionHours
				if hours < 0 {
					hours = cfg.Sessions.RetentionHours
				}
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("initialize logging: %w", err)
				}

				report, err := store.Prune(cmd.Context(), time.Duration(hours)*time.Hour, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d sessions (%d output directories removed, %d skipped)\n",
					report.Removed, report.DirsRemoved, report.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&retentionHours, "retention-hours", -1, "Override the configured retention window")
	return cmd
}

type sessionView struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	SourcePath    string  `json:"source_path"`
	OutputDir     string  `json:"output_dir"`
	SegmentCount  int     `json:"segment_count"`
	TotalDuration float64 `json:"total_duration_seconds"`
	ErrorKind     string  `json:"error_kind,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func newSessionView(sess *session.Session) sessionView {
	return sessionView{
		ID:            sess.ID,
		Status:        string(sess.Status),
		SourcePath:    sess.SourcePath,
		OutputDir:     sess.OutputDir,
		SegmentCount:  sess.SegmentCount,
		TotalDuration: sess.TotalDuration,
		ErrorKind:     sess.ErrorKind,
		ErrorMessage:  sess.ErrorMessage,
		CreatedAt:     sess.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     sess.UpdatedAt.Format(time.RFC3339),
	}
}

func sessionViews(sessions []*session.Session) []sessionView {
	views := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, newSessionView(sess))
	}
	return views
}

func shortenPath(path string) string {
	const maxLen = 48
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
