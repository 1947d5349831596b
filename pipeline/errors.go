package pipeline

import "errors"

var (
	// ErrNoAnalyzableFiles is returned when discovery yields nothing or every file failed
	ErrNoAnalyzableFiles = errors.New("no analyzable files")
	// ErrTimeout is returned for a file that exceeded its analysis budget
	ErrTimeout = errors.New("file analysis timed out")
	// ErrNotFound is returned by reader for absent or expired run data
	ErrNotFound = errors.New("analysis not found")
)
