package services_test

import (
	"errors"
	"strings"
	"testing"

	"ishe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIO, "save", "write temp file", base)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"save", "write temp file", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

type kindError struct{}

func (kindError) Error() string     { return "custom" }
func (kindError) ErrorKind() string { return "custom" }

func TestKindMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrValidation, "delete", "bad name", nil), "validation"},
		{services.Wrap(services.ErrNotFound, "read", "", nil), "not_found"},
		{services.Wrap(services.ErrArchive, "bundle", "", errors.New("x")), "archive"},
		{services.Wrap(services.ErrAudio, "cue", "", nil), "audio"},
		{services.Wrap(nil, "list", "", nil), "io"},
		{kindError{}, "custom"},
		{errors.New("plain"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
