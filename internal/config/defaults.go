package config

const (
	defaultConfigPath       = "~/.config/ffjob/config.toml"
	projectConfigName       = "ffjob.toml"
	defaultLogDir           = "~/.local/share/ffjob/logs"
	defaultStateDir         = "~/.local/share/ffjob"
	defaultOptionSetDBName  = "option_sets.db"
	defaultFFmpegLogLevel   = "info"
	defaultProgressMode     = ProgressAuto
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Progress modes.
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		FFmpeg: FFmpeg{
			LogLevel:   defaultFFmpegLogLevel,
			HideBanner: true,
		},
		Encoding: Encoding{
			Progress:      defaultProgressMode,
			VerifyStreams: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
