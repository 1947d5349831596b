package golang

import (
	"context"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

var grammar = &syntax.Grammar{
	Language: info.Go,
	Sitter:   golang.GetLanguage(),
	Types: map[string]string{
		"function_declaration": info.KindFunction,
		"method_declaration":   info.KindMethod,
		"type_declaration":     info.KindType,
		"type_spec":            info.KindType,
		"var_declaration":      info.KindVariable,
		"const_declaration":    info.KindConstant,
		"import_declaration":   info.KindImport,
		"package_clause":       info.KindPackage,
	},
	Branches: []string{
		"if_statement",
		"for_statement",
		"expression_case",
		"type_case",
		"communication_case",
	},
}

// Inspector extracts Go declarations
type Inspector struct {
	syntax.Base
	engine *syntax.Engine
}

// NewInspector creates Go inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	engine, err := syntax.NewEngine(grammar, options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{engine: engine}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return info.Go
}

// InspectSource parses Go source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractImports returns imported package paths
func (i *Inspector) ExtractImports(tree *syntax.Tree) []string {
	var imports []string
	for _, spec := range tree.Find("import_spec") {
		if pathNode := spec.ChildByFieldName("path"); pathNode != nil {
			imports = append(imports, syntax.Unquote(tree.Text(pathNode)))
		}
	}
	return imports
}

// ExtractExports returns exported top level identifiers
func (i *Inspector) ExtractExports(tree *syntax.Tree) []string {
	var exports []string
	root := tree.Root
	for j := uint32(0); j < root.NamedChildCount(); j++ {
		child := root.NamedChild(int(j))
		for _, name := range declaredNames(tree, child) {
			if isExported(name) {
				exports = append(exports, name)
			}
		}
	}
	return exports
}

// ExtractClasses returns struct and interface type names
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	var classes []string
	for _, spec := range tree.Find("type_spec") {
		typeNode := spec.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		switch typeNode.Type() {
		case "struct_type", "interface_type":
			classes = append(classes, tree.Name(spec))
		}
	}
	return classes
}

// ExtractFunctions returns function and method names
func (i *Inspector) ExtractFunctions(tree *syntax.Tree) []string {
	return tree.Names("function_declaration", "method_declaration")
}

// ExtractVariables returns var and const names
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	for _, spec := range tree.Find("var_spec", "const_spec") {
		variables = append(variables, specNames(tree, spec)...)
	}
	return variables
}

// CalculateComplexity counts decision points
func (i *Inspector) CalculateComplexity(tree *syntax.Tree) float64 {
	return syntax.BranchComplexity(tree, grammar.Branches)
}

func declaredNames(tree *syntax.Tree, node *sitter.Node) []string {
	switch node.Type() {
	case "function_declaration", "method_declaration":
		return []string{tree.Name(node)}
	case "type_declaration":
		var names []string
		for j := uint32(0); j < node.NamedChildCount(); j++ {
			if spec := node.NamedChild(int(j)); spec.Type() == "type_spec" || spec.Type() == "type_alias" {
				names = append(names, tree.Name(spec))
			}
		}
		return names
	case "var_declaration", "const_declaration":
		var names []string
		for j := uint32(0); j < node.NamedChildCount(); j++ {
			child := node.NamedChild(int(j))
			switch child.Type() {
			case "var_spec", "const_spec":
				names = append(names, specNames(tree, child)...)
			case "var_spec_list":
				for k := uint32(0); k < child.NamedChildCount(); k++ {
					names = append(names, specNames(tree, child.NamedChild(int(k)))...)
				}
			}
		}
		return names
	}
	return nil
}

func specNames(tree *syntax.Tree, spec *sitter.Node) []string {
	var names []string
	for j := uint32(0); j < spec.NamedChildCount(); j++ {
		child := spec.NamedChild(int(j))
		if child.Type() == "identifier" {
			names = append(names, tree.Text(child))
		}
	}
	return names
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
