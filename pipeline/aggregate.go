package pipeline

import (
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/viant/astscope/inspector/info"
)

const (
	topN           = 10
	maxImports     = 100
	mediumFileSize = 100
	largeFileSize  = 500
)

// SizeDistribution counts files per line tier
type SizeDistribution struct {
	Small  int `json:"small_files"`
	Medium int `json:"medium_files"`
	Large  int `json:"large_files"`
}

// FileComplexity represents complexity ranking entry
type FileComplexity struct {
	File       string  `json:"file"`
	Complexity float64 `json:"complexity"`
}

// FileLines represents size ranking entry
type FileLines struct {
	File  string `json:"file"`
	Lines int    `json:"lines"`
}

// FileImports represents import count ranking entry
type FileImports struct {
	File    string `json:"file"`
	Imports int    `json:"imports"`
}

// Summary represents repository level totals
type Summary struct {
	TotalFiles        int                   `json:"total_files"`
	TotalLines        int                   `json:"total_lines"`
	TotalClasses      int                   `json:"total_classes"`
	TotalFunctions    int                   `json:"total_functions"`
	AverageComplexity float64               `json:"average_complexity"`
	Languages         map[info.Language]int `json:"languages"`
	Imports           []string              `json:"imports"`
	SizeDistribution  SizeDistribution      `json:"file_size_distribution"`
	MostComplexFiles  []FileComplexity      `json:"top_complex_files"`
}

// Metrics represents repository rankings and import graph
type Metrics struct {
	FilesByComplexity []FileComplexity    `json:"files_by_complexity"`
	LargestFiles      []FileLines         `json:"largest_files"`
	MostImports       []FileImports       `json:"most_imports"`
	ImportGraph       map[string][]string `json:"import_graph"`
}

// Summarize computes totals over files given in discovery order
func Summarize(files []*info.File) Summary {
	ret := Summary{
		TotalFiles: len(files),
		Languages:  map[info.Language]int{},
		Imports:    []string{},
	}
	var complexitySum float64
	complexityCount := 0
	imports := map[string]bool{}
	for _, file := range files {
		ret.TotalLines += file.Lines
		ret.TotalClasses += len(file.Classes)
		ret.TotalFunctions += len(file.Functions)
		ret.Languages[file.Language]++
		if file.Complexity > 0 {
			complexitySum += file.Complexity
			complexityCount++
		}
		for _, imported := range file.Imports {
			imports[imported] = true
		}
		switch {
		case file.Lines < mediumFileSize:
			ret.SizeDistribution.Small++
		case file.Lines < largeFileSize:
			ret.SizeDistribution.Medium++
		default:
			ret.SizeDistribution.Large++
		}
	}
	if complexityCount > 0 {
		ret.AverageComplexity = complexitySum / float64(complexityCount)
	}
	for imported := range imports {
		ret.Imports = append(ret.Imports, imported)
	}
	sort.Strings(ret.Imports)
	if len(ret.Imports) > maxImports {
		ret.Imports = ret.Imports[:maxImports]
	}
	for _, file := range rank(files, byComplexity) {
		ret.MostComplexFiles = append(ret.MostComplexFiles, FileComplexity{File: file.Path, Complexity: file.Complexity})
	}
	return ret
}

// Measure computes rankings and import graph over files given in discovery order
func Measure(files []*info.File) Metrics {
	ret := Metrics{ImportGraph: ImportGraph(files)}
	for _, file := range rank(files, byComplexity) {
		ret.FilesByComplexity = append(ret.FilesByComplexity, FileComplexity{File: path.Base(file.Path), Complexity: file.Complexity})
	}
	for _, file := range rank(files, func(a, b *info.File) bool { return a.Lines > b.Lines }) {
		ret.LargestFiles = append(ret.LargestFiles, FileLines{File: path.Base(file.Path), Lines: file.Lines})
	}
	for _, file := range rank(files, func(a, b *info.File) bool { return len(a.Imports) > len(b.Imports) }) {
		ret.MostImports = append(ret.MostImports, FileImports{File: path.Base(file.Path), Imports: len(file.Imports)})
	}
	return ret
}

func byComplexity(a, b *info.File) bool {
	return a.Complexity > b.Complexity
}

// rank returns first topN files ordered by less; ties keep discovery order
func rank(files []*info.File, less func(a, b *info.File) bool) []*info.File {
	sorted := append([]*info.File(nil), files...)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}

// ImportGraph links each file stem to local stems its imports resolve to by name heuristics
func ImportGraph(files []*info.File) map[string][]string {
	stems := map[string]bool{}
	for _, file := range files {
		stems[Stem(file.Path)] = true
	}
	graph := map[string][]string{}
	for _, file := range files {
		stem := Stem(file.Path)
		deps, ok := graph[stem]
		if !ok {
			deps = []string{}
		}
		for _, imported := range file.Imports {
			target, ok := localTarget(imported, stems)
			if !ok || target == stem || slices.Contains(deps, target) {
				continue
			}
			deps = append(deps, target)
		}
		graph[stem] = deps
	}
	return graph
}

// Stem returns file base name without extension
func Stem(location string) string {
	base := path.Base(strings.ReplaceAll(location, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

func localTarget(imported string, stems map[string]bool) (string, bool) {
	imported = strings.Trim(imported, "\"'`<> ")
	if imported == "" {
		return "", false
	}
	if stems[imported] {
		return imported, true
	}
	if head, _, _ := strings.Cut(strings.TrimLeft(imported, "."), "."); head != "" && stems[head] {
		return head, true
	}
	if segment := Stem(strings.TrimSuffix(imported, "/")); segment != "" && stems[segment] {
		return segment, true
	}
	return "", false
}
