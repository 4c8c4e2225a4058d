package ingest

import "errors"

var (
	// ErrInvalidChunkConfig is returned when chunk size or overlap is out of range.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrEmptyDocument is returned when a parsed document contains no text.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrUnsupportedFormat is returned for file formats the parser cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
