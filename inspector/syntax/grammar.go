package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/astscope/inspector/info"
)

// Grammar describes how a tree-sitter language maps onto universal nodes
type Grammar struct {
	Language info.Language
	Sitter   *sitter.Language
	// Types maps raw grammar node types to universal kinds
	Types map[string]string
	// Branches lists node types that add a decision point
	Branches []string
	// Tolerant grammars accept trees with error nodes
	Tolerant bool
}

// Kind returns universal kind for a raw node type
func (g *Grammar) Kind(rawType string) string {
	if kind, ok := g.Types[rawType]; ok {
		return kind
	}
	return rawType
}

// Extractor defines per language capabilities
type Extractor interface {
	ExtractImports(tree *Tree) []string
	ExtractExports(tree *Tree) []string
	ExtractClasses(tree *Tree) []string
	ExtractFunctions(tree *Tree) []string
	ExtractVariables(tree *Tree) []string
	CalculateComplexity(tree *Tree) float64
}

// Base provides default capabilities, languages embed it and override what they support
type Base struct{}

func (Base) ExtractImports(*Tree) []string   { return nil }
func (Base) ExtractExports(*Tree) []string   { return nil }
func (Base) ExtractClasses(*Tree) []string   { return nil }
func (Base) ExtractFunctions(*Tree) []string { return nil }
func (Base) ExtractVariables(*Tree) []string { return nil }

// CalculateComplexity returns line based estimate
func (Base) CalculateComplexity(tree *Tree) float64 {
	return LineComplexity(tree.Lines())
}

// LineComplexity returns max(1, lines/10)
func LineComplexity(lines int) float64 {
	return max(1, float64(lines)/10)
}

// BranchComplexity returns 1 plus number of decision points in the tree
func BranchComplexity(tree *Tree, branches []string) float64 {
	return float64(1 + tree.Count(branches...))
}
