package config

const (
	defaultStateDir             = "~/.local/share/removesamples"
	defaultLogMaxSizeMB         = 10
	defaultLogMaxBackups        = 3
	defaultLogMaxAgeDays        = 30
	defaultHistoryRetentionDays = 90
	defaultNtfyRequestTimeout   = 10

	defaultVideoSizeLimitMB = 150
	defaultAudioSizeLimitMB = 2
	defaultVideoExtensions  = ".mkv,.mp4,.avi,.mov,.wmv,.flv,.webm,.ts,.m4v,.vob"
	defaultAudioExtensions  = ".wav,.aiff,.mp3,.flac,.m4a,.ogg,.aac,.alac,.ape,.opus,.wma"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		State: State{
			Dir: defaultStateDir,
		},
		Logging: Logging{
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Cleanup:        true,
			Errors:         true,
		},
		Lock: Lock{
			Enabled: true,
		},
	}
}
