package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// SampleCSV returns n valid recording lines with elapsed times 10ms apart
// and values sweeping -n..n in steps of two.
func SampleCSV(n int) string {
	var b strings.Builder
	for i := range n {
		b.WriteString(strconv.Itoa(i * 10))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(2*i - n))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteRecording writes a CSV recording with the given content into dir.
func WriteRecording(t testing.TB, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
