package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cleaver/internal/chunking"
	"cleaver/internal/config"
	"cleaver/internal/logging"
	"cleaver/internal/preflight"
	"cleaver/internal/services"
	"cleaver/internal/session"
)

var chunkFileExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".webm": {},
	".avi":  {},
}

type chunkReport struct {
	SessionID string  `json:"session_id"`
	Source    string  `json:"source"`
	OutputDir string  `json:"output_dir"`
	Segments  int     `json:"segments"`
	Duration  float64 `json:"duration_seconds"`
	ErrorKind string  `json:"error_kind,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func newChunkCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var jsonOut bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "chunk <path>...",
		Short: "Split video files into size-bounded segments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir != "" && len(args) > 1 {
				return errors.New("--output-dir only applies to a single input file")
			}

			sources := make([]string, 0, len(args))
			for _, arg := range args {
				absPath, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}
				info, err := os.Stat(absPath)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("file does not exist: %s", absPath)
					}
					return fmt.Errorf("inspect file: %w", err)
				}
				if info.IsDir() {
					return fmt.Errorf("%s is a directory", absPath)
				}
				ext := strings.ToLower(filepath.Ext(info.Name()))
				if _, ok := chunkFileExtensions[ext]; !ok {
					return fmt.Errorf("unsupported file extension %q", ext)
				}
				sources = append(sources, absPath)
			}

			return ctx.withStore(func(cfg *config.Config, store *session.Store) error {
				if !skipPreflight {
					checks := preflight.RunAll(cmd.Context(), cfg)
					if !preflight.AllPassed(checks) {
						return preflightError(checks)
					}
				}

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("initialize logging: %w", err)
				}
				engine := chunking.NewEngine(cfg, logger)

				reports := make([]chunkReport, len(sources))
				runCtx := cmd.Context()
				var group errgroup.Group
				group.SetLimit(cfg.Chunking.MaxConcurrent)
				for i, source := range sources {
					i, source := i, source
					group.Go(func() error {
						reports[i] = runChunkSession(runCtx, store, engine, source, outputDir)
						return nil
					})
				}
				// Per-run failures land in the reports; the group only
				// bounds concurrency.
				_ = group.Wait()

				if jsonOut {
					if err := writeJSON(cmd, reports); err != nil {
						return err
					}
				} else {
					fmt.Fprint(cmd.OutOrStdout(), renderChunkReports(reports))
				}

				if failed := countFailed(reports); failed > 0 {
					return fmt.Errorf("%d of %d files failed", failed, len(reports))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for produced segments (single input only)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON output")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip tool and directory checks before chunking")
	return cmd
}

// runChunkSession drives one source file through a recorded session. Failures
// are captured in the returned report rather than aborting sibling runs.
func runChunkSession(ctx context.Context, store *session.Store, engine *chunking.Engine, source, outputOverride string) chunkReport {
	report := chunkReport{Source: source}

	sess, err := store.Create(ctx, source, outputOverride)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.SessionID = sess.ID

	outputDir := sess.OutputDir
	report.OutputDir = outputDir

	if err := store.SetStatus(ctx, sess.ID, session.StatusChunking); err != nil {
		report.Error = err.Error()
		return report
	}

	result, err := engine.Chunk(services.WithSessionID(ctx, sess.ID), source, outputDir)
	if err != nil {
		report.ErrorKind = services.Classify(err)
		report.Error = err.Error()
		_ = store.MarkFailed(ctx, sess.ID, report.ErrorKind, err.Error())
		return report
	}

	records := segmentRecords(result)
	if err := store.SaveResult(ctx, sess.ID, records, result.TotalDuration); err != nil {
		report.Error = err.Error()
		return report
	}

	report.Segments = len(records)
	report.Duration = result.TotalDuration
	return report
}

func segmentRecords(result chunking.Result) []session.SegmentRecord {
	records := make([]session.SegmentRecord, 0, len(result.Segments))
	for _, seg := range result.Segments {
		record := session.SegmentRecord{
			ID:        seg.ID,
			Index:     seg.Index,
			Path:      seg.Path,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Borrowed:  seg.Borrowed,
		}
		if info, err := os.Stat(seg.Path); err == nil {
			record.SizeBytes = info.Size()
		}
		records = append(records, record)
	}
	return records
}

func renderChunkReports(reports []chunkReport) string {
	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		outcome := "ok"
		if report.Error != "" {
			outcome = report.Error
			if report.ErrorKind != "" {
				outcome = report.ErrorKind + ": " + report.Error
			}
		}
		rows = append(rows, []string{
			report.SessionID,
			filepath.Base(report.Source),
			strconv.Itoa(report.Segments),
			formatDuration(report.Duration),
			outcome,
		})
	}
	return renderTable(
		[]string{"Session", "Source", "Segments", "Duration", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	) + "\n"
}

func countFailed(reports []chunkReport) int {
	failed := 0
	for _, report := range reports {
		if report.Error != "" {
			failed++
		}
	}
	return failed
}

func preflightError(checks []preflight.Result) error {
	var failed []string
	for _, check := range checks {
		if !check.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", check.Name, check.Detail))
		}
	}
	return fmt.Errorf("preflight checks failed:\n  %s", strings.Join(failed, "\n  "))
}
