package java

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

var grammar = &syntax.Grammar{
	Language: info.Java,
	Sitter:   java.GetLanguage(),
	Types: map[string]string{
		"method_declaration":      info.KindMethod,
		"constructor_declaration": info.KindMethod,
		"class_declaration":       info.KindClass,
		"record_declaration":      info.KindClass,
		"enum_declaration":        info.KindClass,
		"interface_declaration":   info.KindInterface,
		"field_declaration":       info.KindVariable,
		"variable_declarator":     info.KindVariable,
		"import_declaration":      info.KindImport,
		"package_declaration":     info.KindPackage,
	},
	Branches: []string{
		"if_statement",
		"while_statement",
		"do_statement",
		"for_statement",
		"enhanced_for_statement",
		"switch_label",
		"catch_clause",
		"ternary_expression",
	},
}

var typeDeclarations = []string{"class_declaration", "interface_declaration", "enum_declaration", "record_declaration"}

// Inspector extracts Java declarations
type Inspector struct {
	syntax.Base
	engine *syntax.Engine
}

// NewInspector creates Java inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	engine, err := syntax.NewEngine(grammar, options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{engine: engine}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return info.Java
}

// InspectSource parses Java source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractImports returns imported type or package names
func (i *Inspector) ExtractImports(tree *syntax.Tree) []string {
	var imports []string
	for _, node := range findImportNodes(tree.Root) {
		if name := parseImportDeclaration(node, tree.Source); name != "" {
			imports = append(imports, name)
		}
	}
	return imports
}

// ExtractExports returns public top level type names
func (i *Inspector) ExtractExports(tree *syntax.Tree) []string {
	var exports []string
	root := tree.Root
	for j := uint32(0); j < root.NamedChildCount(); j++ {
		child := root.NamedChild(int(j))
		if isTypeDeclaration(child) && isNodePublic(child) {
			exports = append(exports, tree.Name(child))
		}
	}
	return exports
}

// ExtractClasses returns class, interface, enum and record names
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	return tree.Names(typeDeclarations...)
}

// ExtractFunctions returns method and constructor names
func (i *Inspector) ExtractFunctions(tree *syntax.Tree) []string {
	return tree.Names("method_declaration", "constructor_declaration")
}

// ExtractVariables returns field and local variable names
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	for _, declaration := range tree.Find("field_declaration", "local_variable_declaration") {
		for j := uint32(0); j < declaration.NamedChildCount(); j++ {
			child := declaration.NamedChild(int(j))
			if child.Type() == "variable_declarator" {
				variables = append(variables, tree.Name(child))
			}
		}
	}
	return variables
}

// CalculateComplexity counts decision points
func (i *Inspector) CalculateComplexity(tree *syntax.Tree) float64 {
	return syntax.BranchComplexity(tree, grammar.Branches)
}

// findImportNodes finds all import declaration nodes
func findImportNodes(rootNode *sitter.Node) []*sitter.Node {
	var importNodes []*sitter.Node
	for j := uint32(0); j < rootNode.NamedChildCount(); j++ {
		childNode := rootNode.NamedChild(int(j))
		if childNode.Type() == "import_declaration" {
			importNodes = append(importNodes, childNode)
		}
	}
	return importNodes
}

// parseImportDeclaration returns qualified import name, wildcard imports keep the trailing asterisk
func parseImportDeclaration(node *sitter.Node, source []byte) string {
	var name string
	wildcard := false
	for j := uint32(0); j < node.NamedChildCount(); j++ {
		child := node.NamedChild(int(j))
		switch child.Type() {
		case "scoped_identifier", "identifier":
			name = child.Content(source)
		case "asterisk":
			wildcard = true
		}
	}
	if name != "" && wildcard {
		name += ".*"
	}
	return name
}

func isTypeDeclaration(node *sitter.Node) bool {
	for _, candidate := range typeDeclarations {
		if node.Type() == candidate {
			return true
		}
	}
	return false
}

// isNodePublic checks if a node has the 'public' modifier
func isNodePublic(node *sitter.Node) bool {
	if node.NamedChildCount() == 0 {
		return false
	}
	modifiersNode := node.NamedChild(0)
	if modifiersNode.Type() != "modifiers" {
		return false
	}
	for i := uint32(0); i < modifiersNode.ChildCount(); i++ {
		if modifiersNode.Child(int(i)).Type() == "public" {
			return true
		}
	}
	return false
}
