package config

const (
	defaultOutputDir      = "~/.local/share/stenograf/output"
	defaultCacheDir       = "~/.local/share/stenograf/cache"
	defaultLogDir         = "~/.local/share/stenograf/logs"
	defaultStorePath      = "~/.local/share/stenograf/stenograf.db"
	defaultYear           = 2017
	defaultUserAgent      = "stenograf/dev"
	defaultRequestTimeout = 60
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
			StorePath: defaultStorePath,
		},
		Source: Source{
			Year:           defaultYear,
			UserAgent:      defaultUserAgent,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
