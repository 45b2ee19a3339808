package data

import (
	"context"
	"os"
)

// LocalFile reads the fallback publication kept on disk.
type LocalFile struct {
	Path string
}

// Fetch returns the file's bytes. Failures are *IngestionError.
func (l LocalFile) Fetch(_ context.Context) ([]byte, error) {
	if l.Path == "" {
		return nil, &IngestionError{Source: SourceLocal, Code: "NO_FALLBACK", Message: "no local fallback configured"}
	}
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, &IngestionError{Source: SourceLocal, Code: "LOCAL_READ_FAILED", Message: "failed to read " + l.Path, Err: err}
	}
	return raw, nil
}
