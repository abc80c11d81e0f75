package export

import (
	"fmt"
	"strings"
	"time"

	"ishe/internal/services"
)

// Extension is the suffix every recording name carries.
const Extension = ".csv"

// nameLayout is RFC 3339 in UTC with milliseconds and "-" in place of ":" so
// names are valid on every filesystem.
const nameLayout = "2006-01-02T15-04-05.000Z"

// NameFor derives the recording file name for a session started at start.
func NameFor(start time.Time) string {
	return start.UTC().Format(nameLayout) + Extension
}

// ParseName recovers the session start time from a name produced by NameFor.
func ParseName(name string) (time.Time, error) {
	stem, ok := strings.CutSuffix(name, Extension)
	if !ok {
		return time.Time{}, services.Wrap(services.ErrValidation, "parse name", fmt.Sprintf("%q lacks %s suffix", name, Extension), nil)
	}
	t, err := time.ParseInLocation(nameLayout, stem, time.UTC)
	if err != nil {
		return time.Time{}, services.Wrap(services.ErrValidation, "parse name", fmt.Sprintf("%q", name), err)
	}
	return t, nil
}
