package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ishe/internal/config"
	"ishe/internal/journal"
	"ishe/internal/logging"
	"ishe/internal/recordings"
	"ishe/internal/server"
	"ishe/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

// remoteEnv is a recording server backed by its own temp directories.
type remoteEnv struct {
	store   *recordings.Store
	journal *journal.Store
	ts      *httptest.Server
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(home, ".config", "ishe", "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func setupRemote(t *testing.T, token string) *remoteEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken(token))
	store := testsupport.MustOpenRecordings(t, cfg)
	jr := testsupport.MustOpenJournal(t, cfg)
	srv := server.New(server.Options{
		Store:   store,
		Journal: jr,
		Logger:  logging.NewNop(),
		Token:   token,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &remoteEnv{store: store, journal: jr, ts: ts}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func csvValues(t *testing.T, data []byte) []string {
	t.Helper()
	var values []string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		_, value, ok := strings.Cut(line, ",")
		if !ok {
			t.Fatalf("malformed csv line %q", line)
		}
		values = append(values, value)
	}
	return values
}
