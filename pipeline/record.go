package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/repository"
)

// Result represents analysis run outcome
type Result struct {
	RunID        string              `json:"run_id"`
	Root         string              `json:"repo_path"`
	Origin       string              `json:"origin,omitempty"`
	Project      *repository.Project `json:"project,omitempty"`
	Summary      Summary             `json:"summary"`
	Metrics      Metrics             `json:"metrics"`
	Files        []*info.File        `json:"-"`
	Discovered   int                 `json:"discovered"`
	Failures     int                 `json:"-"`
	AnalysisTime time.Duration       `json:"-"`
}

// Paths returns analyzed file paths in discovery order
func (r *Result) Paths() []string {
	var result = make([]string, 0, len(r.Files))
	for _, file := range r.Files {
		result = append(result, file.Path)
	}
	return result
}

// Record represents cached run record
type Record struct {
	RunID        string              `json:"run_id"`
	Root         string              `json:"repo_path"`
	Origin       string              `json:"origin,omitempty"`
	Project      *repository.Project `json:"project,omitempty"`
	Summary      Summary             `json:"summary"`
	Metrics      Metrics             `json:"metrics"`
	AnalysisTime float64             `json:"analysis_time"`
	Timestamp    time.Time           `json:"timestamp"`
	FileCount    int                 `json:"file_count"`
	Temporary    bool                `json:"is_temporary_clone"`
}

// EssentialNode represents condensed searchable node
type EssentialNode struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Complexity *int   `json:"complexity,omitempty"`
}

func newEssentialNode(node *info.Node) EssentialNode {
	return EssentialNode{ID: node.ID, Type: node.Type, Name: node.Name, File: node.File, Line: node.Line, Complexity: node.Complexity}
}

// Source represents cached raw source text
type Source struct {
	Source   string `json:"source"`
	Encoding string `json:"encoding"`
	Lines    int    `json:"lines"`
	Size     int    `json:"size"`
	Path     string `json:"path"`
}

// NewRunID returns a random run identifier
func NewRunID() string {
	return uuid.NewString()
}
