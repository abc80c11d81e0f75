package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ishe/internal/api"
	"ishe/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.RecordingsDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, env, "", "config", "init", "--stdout")
	if err != nil {
		t.Fatalf("config init --stdout: %v", err)
	}
	requireContains(t, out, "[session]")
}

func TestDoctorPassesWithCueDisabled(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Recordings directory")
	requireContains(t, out, "[OK]")
}

func TestDoctorReportsUnreachableServer(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithServerURL("http://127.0.0.1:1"))

	out, _, err := runCLI(t, env, "", "doctor", "--server")
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "[FAIL]")
	requireContains(t, err.Error(), "1 check failed")
}

func TestJournalRemoteAfterUpload(t *testing.T) {
	remote := setupRemote(t, "")
	env := setupCLITestEnv(t, testsupport.WithServerURL(remote.ts.URL))
	path := testsupport.WriteRecording(t, t.TempDir(), firstName, "0,1\n")
	if _, _, err := runCLI(t, env, "", "upload", path); err != nil {
		t.Fatalf("upload: %v", err)
	}

	out, _, err := runCLI(t, env, "", "journal", "--remote")
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	requireContains(t, out, "Upload")
	requireContains(t, out, firstName)

	out, _, err = runCLI(t, env, "", "journal", "--remote", "--json")
	if err != nil {
		t.Fatalf("journal --json: %v", err)
	}
	var list api.JournalList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Action != "upload" {
		t.Fatalf("unexpected entries %+v", list.Entries)
	}
}

func TestJournalLocalEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "", "journal")
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	requireContains(t, out, "No journal entries")
}
