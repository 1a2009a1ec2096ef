package config

const (
	defaultRegion     = "us-east-1"
	defaultAPIBind    = "127.0.0.1:7319"
	defaultLogDir     = "~/.local/share/meetingscribe/logs"
	defaultScratchDir = "~/.local/share/meetingscribe/scratch"
	defaultLanguage   = "ja"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// DefaultModelFile is the multilingual whisper.cpp model used when no
	// model path is configured.
	DefaultModelFile = "ggml-large-v3.bin"
)

// Default returns a Config populated with repository defaults. Binary, model,
// and output-directory fields stay blank here; ResolveDefaults probes the
// environment for them.
func Default() Config {
	return Config{
		Storage: Storage{
			Region: defaultRegion,
		},
		Pipeline: Pipeline{
			Language:          defaultLanguage,
			IncludeTimestamps: false,
			IncludeSpeaker:    true,
		},
		Daemon: Daemon{
			APIBind:    defaultAPIBind,
			LogDir:     defaultLogDir,
			ScratchDir: defaultScratchDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
