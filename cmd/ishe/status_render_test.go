package main

import (
	"bytes"
	"strings"
	"testing"

	"ishe/internal/preflight"
)

func TestRenderCheckAlignsDetails(t *testing.T) {
	got := renderCheck(preflight.Result{Name: "Journal", Passed: true, Detail: "/tmp/j.db"}, 12, false)
	want := "  [OK]   Journal       /tmp/j.db"
	if got != want {
		t.Fatalf("renderCheck mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderCheckColorsByOutcome(t *testing.T) {
	got := renderCheck(preflight.Result{Name: "Server", Detail: "unreachable"}, 6, true)
	if !strings.Contains(got, ansiRed+"[FAIL]"+ansiReset) {
		t.Fatalf("expected red FAIL tag, got %q", got)
	}
}

func TestWriteCheckResultsTally(t *testing.T) {
	var buf bytes.Buffer
	writeCheckResults(&buf, []preflight.Result{
		{Name: "Recordings directory", Passed: true},
		{Name: "Cue player", Optional: true, Detail: "aplay not found"},
		{Name: "Recording server", Detail: "unreachable"},
	}, false)
	out := buf.String()
	for _, want := range []string{"[OK]", "[WARN] Cue player", "aplay not found", "[FAIL] Recording server", "1 passed, 1 warnings, 1 failed"} {
		requireContains(t, out, want)
	}
}

func TestIsTerminalBuffer(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		0:          "0 B",
		9999:       "9,999 B",
		20 * 1024:  "20.0 KiB",
		3 << 20:    "3.0 MiB",
		1536 << 20: "1,536.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
