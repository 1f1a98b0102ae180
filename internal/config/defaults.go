package config

const (
	defaultStagingDir    = "~/.local/share/soundshield/staging"
	defaultOutputDir     = "~/transcripts"
	defaultLogDir        = "~/.local/share/soundshield/logs"
	defaultRuntimeDir    = "~/.local/share/soundshield/runtime"
	defaultModel         = "paraformer-zh"
	defaultVADModel      = "fsmn-vad"
	defaultPuncModel     = "ct-punc"
	defaultDevice        = "auto"
	defaultBatchSeconds  = 300
	defaultMaxCueChars   = 40
	defaultMinCueSeconds = 1.5
	defaultMaxCueSeconds = 5.0
	defaultMountRoot     = "/media"

	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 60

	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultHeartbeatInterval  = 15
	defaultHeartbeatTimeout   = 300

	defaultNotifyTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		ASR: ASR{
			RuntimeDir:       defaultRuntimeDir,
			Model:            defaultModel,
			VADModel:         defaultVADModel,
			PuncModel:        defaultPuncModel,
			Device:           defaultDevice,
			BatchSizeSeconds: defaultBatchSeconds,
		},
		Subtitles: Subtitles{
			Enabled:        true,
			MaxCharsPerCue: defaultMaxCueChars,
			MinCueSeconds:  defaultMinCueSeconds,
			MaxCueSeconds:  defaultMaxCueSeconds,
		},
		Export: Export{
			Transcript: true,
			Subtitle:   true,
		},
		Watch: Watch{
			Enabled:   false,
			MountRoot: defaultMountRoot,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Transcript:     true,
			Queue:          true,
			Errors:         true,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
