package data

import "fmt"

const (
	SourceOfficial = "official"
	SourceLocal    = "local"
)

// IngestionError reports that raw receipts could not be obtained.
type IngestionError struct {
	Source     string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s ingestion: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("%s ingestion: %s", e.Source, e.Message)
}

func (e *IngestionError) Unwrap() error { return e.Err }
