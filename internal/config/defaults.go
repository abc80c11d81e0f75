package config

const (
	defaultRecordingsDir    = "~/.local/share/ishe/recordings"
	defaultLogDir           = "~/.local/share/ishe/logs"
	defaultAPIBind          = "127.0.0.1:7488"
	defaultServerURL        = "http://127.0.0.1:7488"
	defaultUploadLimitBytes = 32 << 20
	defaultMinValue         = -100
	defaultMaxValue         = 100
	defaultCueBackend       = CueBackendCommand
	defaultCueCommand       = "aplay"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Cue backends understood by the cue package.
const (
	CueBackendCommand = "command"
	CueBackendNone    = "none"
)

var defaultCueArgs = []string{"-q", "-"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecordingsDir: defaultRecordingsDir,
			LogDir:        defaultLogDir,
			APIBind:       defaultAPIBind,
		},
		Server: Server{
			URL:              defaultServerURL,
			UploadLimitBytes: defaultUploadLimitBytes,
		},
		Session: Session{
			MinValue: defaultMinValue,
			MaxValue: defaultMaxValue,
		},
		Cue: Cue{
			Backend: defaultCueBackend,
			Command: defaultCueCommand,
			Args:    append([]string(nil), defaultCueArgs...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
