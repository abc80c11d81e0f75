package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"ishe/internal/services"
)

// ContentProvider returns the bytes stored under name.
type ContentProvider func(ctx context.Context, name string) ([]byte, error)

// ArchiveError reports the entry that aborted a bundle.
type ArchiveError struct {
	Name string
	Err  error
}

func (e *ArchiveError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("archive: %v", e.Err)
	}
	return fmt.Sprintf("archive entry %q: %v", e.Name, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// ErrorKind classifies bundle failures for the HTTP layer.
func (e *ArchiveError) ErrorKind() string { return "archive" }

// Is lets errors.Is(err, services.ErrArchive) match.
func (e *ArchiveError) Is(target error) bool { return target == services.ErrArchive }

// BundleZip writes one entry per name, in order, with the bytes returned by
// provider. The first failure aborts the bundle and no archive is returned.
func BundleZip(ctx context.Context, names []string, provider ContentProvider) ([]byte, error) {
	if provider == nil {
		return nil, &ArchiveError{Err: fmt.Errorf("content provider is required")}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, &ArchiveError{Name: name, Err: err}
		}
		data, err := provider(ctx, name)
		if err != nil {
			return nil, &ArchiveError{Name: name, Err: err}
		}
		entry, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, &ArchiveError{Name: name, Err: err}
		}
		if _, err := entry.Write(data); err != nil {
			return nil, &ArchiveError{Name: name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &ArchiveError{Err: err}
	}
	return buf.Bytes(), nil
}
