package config

const (
	defaultWorkDir           = "~/.local/share/cleaver/sessions"
	defaultLogDir            = "~/.local/share/cleaver/logs"
	defaultMaxSegmentBytes   = 18 * 1024 * 1024
	defaultBitrateKbps       = 2000
	defaultMaxSplitDepth     = 8
	defaultMaxConcurrent     = 2
	defaultRetentionHours    = 24
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultFFmpegBinaryName  = "ffmpeg"
	defaultFFprobeBinaryName = "ffprobe"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Chunking: Chunking{
			MaxSegmentBytes:    defaultMaxSegmentBytes,
			DefaultBitrateKbps: defaultBitrateKbps,
			MaxSplitDepth:      defaultMaxSplitDepth,
			FFmpegBinary:       defaultFFmpegBinaryName,
			FFprobeBinary:      defaultFFprobeBinaryName,
			MaxConcurrent:      defaultMaxConcurrent,
		},
		Sessions: Sessions{
			RetentionHours: defaultRetentionHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
