package config

const (
	defaultQueueRoot    = "~/.local/share/hopper/queue"
	defaultLogDir       = "~/.local/share/hopper/logs"
	defaultAPIBind      = "127.0.0.1:7691"
	defaultPollInterval = 5
	defaultMinFreeGiB   = 1
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			QueueRoot: defaultQueueRoot,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Worker: Worker{
			PollInterval:   defaultPollInterval,
			PreferPriority: true,
		},
		Processing: Processing{
			OCRTriage:     true,
			RedactionScan: true,
			WriteReports:  true,
			MinFreeGiB:    defaultMinFreeGiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
