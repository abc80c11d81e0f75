package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ishe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The cue is silenced unless an option turns it back on.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RecordingsDir = filepath.Join(base, "recordings")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Cue.Backend = config.CueBackendNone

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIToken sets the shared bearer token on both server and client sides.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
		b.cfg.Server.Token = token
	}
}

// WithServerURL points the client side of the config at url.
func WithServerURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.URL = url
	}
}

// WithCueCommand enables the command cue backend with the given player.
func WithCueCommand(command string, args ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cue.Backend = config.CueBackendCommand
		b.cfg.Cue.Command = command
		b.cfg.Cue.Args = args
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default cue player is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"aplay"}
		}
		for _, name := range names {
			StubBinary(b.t, filepath.Join(b.baseDir, "bin"), name, "#!/bin/sh\ncat >/dev/null\nexit 0\n")
		}
	}
}

// StubBinary writes an executable shell script into binDir and prepends
// binDir to PATH for the rest of the test.
func StubBinary(t testing.TB, binDir, name, script string) string {
	t.Helper()

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if !pathHasPrefix(oldPath, binDir) {
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath)
	}
	return target
}

func pathHasPrefix(pathList, dir string) bool {
	list := filepath.SplitList(pathList)
	return len(list) > 0 && list[0] == dir
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RecordingsDir)
}
