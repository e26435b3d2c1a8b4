package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"cleaver/internal/config"
	"cleaver/internal/logging"
	"cleaver/internal/media/ffprobe"
	"cleaver/internal/services"
	"cleaver/internal/services/ffmpeg"
)

// Prober inspects a source file for duration and bitrate metadata.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Result is the outcome of a successful chunking run.
type Result struct {
	Segments      []Segment
	TotalDuration float64
}

// Engine turns one source video into budget-bounded segments.
type Engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	encoder ffmpeg.Client
	probe   Prober
}

// Option customizes engine construction.
type Option func(*Engine)

// WithEncoder overrides the ffmpeg client, primarily for tests.
func WithEncoder(client ffmpeg.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.encoder = client
		}
	}
}

// WithProber overrides the media prober, primarily for tests.
func WithProber(probe Prober) Option {
	return func(e *Engine) {
		if probe != nil {
			e.probe = probe
		}
	}
}

// NewEngine constructs an Engine from configuration.
func NewEngine(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "chunker"),
		encoder: ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.FFmpegBinary())),
		probe:   ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Chunk probes sourcePath, plans a partition, materializes and validates the
// segments inside outputDir, and returns the re-indexed final list.
//
// The run is all-or-nothing: on any failure (including context cancellation)
// every pipeline-produced file is removed before the error is returned, so a
// caller never observes a partial chunk set. The borrowed original is never
// touched.
func (e *Engine) Chunk(ctx context.Context, sourcePath, outputDir string) (result Result, err error) {
	logger := logging.WithContext(ctx, e.logger)

	info, statErr := os.Stat(sourcePath)
	if statErr != nil {
		return Result{}, services.Wrap(services.ErrProbe, "chunker", "stat source", sourcePath, statErr)
	}
	if mkErr := os.MkdirAll(outputDir, 0o755); mkErr != nil {
		return Result{}, services.Wrap(services.ErrValidation, "chunker", "create output directory", outputDir, mkErr)
	}

	defer func() {
		if err == nil {
			return
		}
		if cleanupErr := removeOwnedFiles(outputDir); cleanupErr != nil {
			logger.Warn("failed to clean up segment files after aborted run", logging.Error(cleanupErr))
		}
	}()

	duration, bitrate, probeErr := e.probeSource(ctx, sourcePath, logger)
	if probeErr != nil {
		return Result{}, probeErr
	}

	planned, planErr := planSegments(sourcePath, info.Size(), duration, bitrate, e.cfg.Chunking.MaxSegmentBytes)
	if planErr != nil {
		return Result{}, planErr
	}
	logger.Info("chunk plan ready",
		logging.Int("planned_segments", len(planned)),
		logging.Float64("duration_seconds", duration),
		logging.Int64("source_bytes", info.Size()),
		logging.Float64("target_chunk_seconds", targetSeconds(bitrate, e.cfg.Chunking.MaxSegmentBytes)),
		logging.Bool("passthrough", len(planned) == 1 && planned[0].Borrowed),
	)

	validated := make([]Segment, 0, len(planned))
	for _, seg := range planned {
		if !seg.Borrowed {
			seg.Path = scratchPath(outputDir, seg.ID)
			if encErr := e.extract(ctx, sourcePath, seg); encErr != nil {
				return Result{}, encErr
			}
		}
		accepted, valErr := e.validateSegment(ctx, sourcePath, outputDir, seg, 0, logger)
		if valErr != nil {
			return Result{}, valErr
		}
		validated = append(validated, accepted...)
	}

	final, reindexErr := reindex(outputDir, validated)
	if reindexErr != nil {
		return Result{}, reindexErr
	}

	if tilingErr := checkTiling(final, duration); tilingErr != nil {
		return Result{}, services.Wrap(services.ErrValidation, "chunker", "verify partition", "", tilingErr)
	}

	logger.Info("chunking complete",
		logging.Int("segments", len(final)),
		logging.Float64("duration_seconds", duration),
	)
	return Result{Segments: final, TotalDuration: duration}, nil
}

// probeSource resolves duration and bitrate. A missing duration is fatal; a
// missing bitrate degrades to the configured fallback so the run can proceed
// with a coarser plan.
func (e *Engine) probeSource(ctx context.Context, sourcePath string, logger *slog.Logger) (float64, int64, error) {
	probed, err := e.probe(ctx, e.cfg.FFprobeBinary(), sourcePath)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrProbe, "prober", "inspect", sourcePath, err)
	}

	duration := probed.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		return 0, 0, services.Wrap(services.ErrProbe, "prober", "inspect",
			fmt.Sprintf("no resolvable duration for %s", sourcePath), nil)
	}

	bitrate := probed.BitRate()
	if bitrate <= 0 {
		bitrate = e.cfg.DefaultBitrateBps()
		logger.Warn("source reports no bitrate, using fallback",
			logging.String("source", sourcePath),
			logging.Int64("fallback_bps", bitrate),
		)
	}
	return duration, bitrate, nil
}

func (e *Engine) extract(ctx context.Context, sourcePath string, seg Segment) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return services.Wrap(services.ErrEncode, "encoder", "extract", "run cancelled", ctxErr)
	}
	if err := e.encoder.Extract(ctx, sourcePath, seg.Path, seg.StartTime, seg.Duration()); err != nil {
		return services.Wrap(services.ErrEncode, "encoder", "extract",
			fmt.Sprintf("segment %s [%f, %f)", seg.ID, seg.StartTime, seg.EndTime), err)
	}
	return nil
}
