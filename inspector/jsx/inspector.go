package jsx

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

// Types maps ECMAScript grammar nodes to universal kinds
var Types = map[string]string{
	"function_declaration":           info.KindFunction,
	"generator_function_declaration": info.KindFunction,
	"function_expression":            info.KindFunction,
	"function":                       info.KindFunction,
	"arrow_function":                 info.KindFunction,
	"method_definition":              info.KindMethod,
	"class_declaration":              info.KindClass,
	"variable_declaration":           info.KindVariable,
	"lexical_declaration":            info.KindVariable,
	"import_statement":               info.KindImport,
	"export_statement":               info.KindExport,
}

// Branches lists ECMAScript decision points
var Branches = []string{
	"if_statement",
	"while_statement",
	"do_statement",
	"for_statement",
	"for_in_statement",
	"switch_case",
	"catch_clause",
	"ternary_expression",
}

var grammar = &syntax.Grammar{
	Language: info.JavaScript,
	Sitter:   javascript.GetLanguage(),
	Types:    Types,
	Branches: Branches,
}

// Inspector extracts JavaScript and JSX declarations
type Inspector struct {
	Extractor
	engine *syntax.Engine
}

// NewInspector creates JavaScript inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	engine, err := syntax.NewEngine(grammar, options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{engine: engine, Extractor: Extractor{Branches: Branches}}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return info.JavaScript
}

// InspectSource parses JavaScript source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// findImportNodes finds all import statement nodes
func findImportNodes(rootNode *sitter.Node) []*sitter.Node {
	var importNodes []*sitter.Node
	for j := uint32(0); j < rootNode.NamedChildCount(); j++ {
		childNode := rootNode.NamedChild(int(j))
		if childNode.Type() == "import_statement" {
			importNodes = append(importNodes, childNode)
		}
	}
	return importNodes
}
