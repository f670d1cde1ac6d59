package config

const (
	defaultWatchDir        = "~/media/incoming"
	defaultImageDir        = "~/media/photos"
	defaultVideoDir        = "~/media/videos"
	defaultLogDir          = "~/.local/share/lumen/logs"
	defaultLogRetention    = 60
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultMinFileAge      = 60
	defaultWatchInterval   = 5
	defaultWorkers         = 2
	defaultOnConflict      = "rename"
	defaultRenameSuffix    = "_{counter}"
	defaultBehavior        = "append"
	defaultExiftoolBinary  = "exiftool"
	defaultServiceTimeout  = 30
	defaultTranscribeMaxMB = 50
	defaultMaxImageWidth   = 1920
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir: defaultWatchDir,
			ImageDir: defaultImageDir,
			VideoDir: defaultVideoDir,
			LogDir:   defaultLogDir,
		},
		Watcher: Watcher{
			MinFileAge: defaultMinFileAge,
			Interval:   defaultWatchInterval,
			Recursive:  true,
		},
		Organizer: Organizer{
			Enabled:      true,
			OnConflict:   defaultOnConflict,
			RenameSuffix: defaultRenameSuffix,
		},
		Scheduler: Scheduler{
			Workers: defaultWorkers,
		},
		Metadata: Metadata{
			Write:          true,
			Behavior:       defaultBehavior,
			ExiftoolBinary: defaultExiftoolBinary,
		},
		Images: ImageCapabilities{
			Tagging:     true,
			Geotagging:  true,
			Description: true,
			Colors:      true,
			Faces:       true,
			OCR:         true,
		},
		Videos: VideoCapabilities{
			Geotagging:    true,
			Transcription: true,
		},
		Services: Services{
			TimeoutSeconds:  defaultServiceTimeout,
			TranscribeMaxMB: defaultTranscribeMaxMB,
			MaxImageWidth:   defaultMaxImageWidth,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
