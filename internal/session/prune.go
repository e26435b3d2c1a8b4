package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"cleaver/internal/logging"
)

// PruneReport summarizes one retention sweep.
type PruneReport struct {
	Removed     int
	DirsRemoved int
	Skipped     int
}

// Prune removes terminal sessions older than retention, deleting each
// session's output directory along with its row. Borrowed originals live
// outside the work dir and are never touched.
//
// A file lock serializes sweeps so concurrent invocations do not race over
// the same directories. When another sweep holds the lock, Prune returns
// immediately with an empty report.
func (s *Store) Prune(ctx context.Context, retention time.Duration, logger *slog.Logger) (PruneReport, error) {
	lock := flock.New(s.path + ".prune.lock")
	ok, err := lock.TryLock()
	if err != nil {
		return PruneReport{}, fmt.Errorf("acquire prune lock: %w", err)
	}
	if !ok {
		logger.Debug("prune already in progress, skipping")
		return PruneReport{}, nil
	}
	defer func() {
		_ = lock.Unlock()
	}()

	cutoff := time.Now().UTC().Add(-retention)
	expired, err := s.ExpiredBefore(ctx, cutoff)
	if err != nil {
		return PruneReport{}, err
	}

	report := PruneReport{}
	for _, sess := range expired {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		if err := s.removeOutputDir(sess); err != nil {
			report.Skipped++
			logger.Warn("could not remove session output directory",
				logging.String(logging.FieldSessionID, sess.ID),
				logging.Error(err),
			)
			continue
		}
		if sess.OutputDir != "" {
			report.DirsRemoved++
		}
		removed, err := s.Remove(ctx, sess.ID)
		if err != nil {
			return report, err
		}
		if removed {
			report.Removed++
		}
	}

	if report.Removed > 0 {
		logger.Info("pruned expired sessions",
			logging.Int("removed", report.Removed),
			logging.Int("dirs_removed", report.DirsRemoved),
		)
	}
	return report, nil
}

// removeOutputDir deletes the session's output directory, refusing paths
// outside the store's work dir.
func (s *Store) removeOutputDir(sess *Session) error {
	dir := sess.OutputDir
	if dir == "" {
		return nil
	}
	rel, err := filepath.Rel(s.workDir, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.New("output dir is outside the work dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	return nil
}
