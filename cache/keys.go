package cache

import "strconv"

const (
	blobPrefix = "blob:"
	// MaxChunks bounds sequential chunk reads
	MaxChunks = 100
)

// AnalysisKey returns run record key
func AnalysisKey(runID string) string {
	return "analysis:" + runID
}

// FilesKey returns file summary chunk prefix
func FilesKey(runID string) string {
	return "files:" + runID
}

// ChunkKey returns key of the i-th chunk under prefix
func ChunkKey(prefix string, i int) string {
	return prefix + ":" + strconv.Itoa(i)
}

// FileKey returns full per file analysis key
func FileKey(runID, name string) string {
	return "file:" + runID + ":" + name
}

// NodesKey returns essential node list key
func NodesKey(runID string) string {
	return "nodes:" + runID
}

// SourceKey returns raw source key for a path variant
func SourceKey(runID, variant string) string {
	return "source:" + runID + ":" + variant
}

// RunPrefixes returns key prefixes owned by a run
func RunPrefixes(runID string) []string {
	return []string{
		AnalysisKey(runID),
		FilesKey(runID) + ":",
		"file:" + runID + ":",
		NodesKey(runID),
		"source:" + runID + ":",
	}
}

func blobKey(key string) string {
	return blobPrefix + key
}
