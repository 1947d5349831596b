package info

import (
	"bytes"
	"math"
)

// Encoding values
const (
	EncodingUTF8   = "utf-8"
	EncodingBinary = "binary"
)

// File represents normalized analysis of a single source file
type File struct {
	Path       string   `json:"path"`
	Language   Language `json:"language"`
	Nodes      []Node   `json:"nodes"`
	Imports    []string `json:"imports"`
	Exports    []string `json:"exports"`
	Classes    []string `json:"classes"`
	Functions  []string `json:"functions"`
	Variables  []string `json:"variables"`
	Complexity float64  `json:"complexity"`
	Lines      int      `json:"lines"`
	Hash       string   `json:"hash"`
	SizeBytes  int      `json:"size_bytes"`
	Encoding   string   `json:"encoding"`
}

// FileSummary represents compact file record
type FileSummary struct {
	Path       string   `json:"path"`
	Language   Language `json:"language"`
	Lines      int      `json:"lines"`
	Complexity float64  `json:"complexity"`
	Classes    int      `json:"classes"`
	Functions  int      `json:"functions"`
	Imports    int      `json:"imports"`
	SizeBytes  int      `json:"size_bytes"`
	Hash       string   `json:"hash"`
}

// NewFile creates a file with content derived metadata populated
func NewFile(path string, lang Language, content []byte) *File {
	return &File{
		Path:      path,
		Language:  lang,
		Lines:     CountLines(content),
		Hash:      Hash(content),
		SizeBytes: len(content),
		Encoding:  EncodingUTF8,
	}
}

// Summary returns compact file record
func (f *File) Summary() FileSummary {
	hash := f.Hash
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return FileSummary{
		Path:       f.Path,
		Language:   f.Language,
		Lines:      f.Lines,
		Complexity: math.Round(f.Complexity*100) / 100,
		Classes:    len(f.Classes),
		Functions:  len(f.Functions),
		Imports:    len(f.Imports),
		SizeBytes:  f.SizeBytes,
		Hash:       hash,
	}
}

// CountLines returns number of lines, an empty content has one line
func CountLines(content []byte) int {
	return bytes.Count(content, []byte{'\n'}) + 1
}
