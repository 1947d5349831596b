package rust

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

var grammar = &syntax.Grammar{
	Language: info.Rust,
	Sitter:   rust.GetLanguage(),
	Types: map[string]string{
		"function_item":   info.KindFunction,
		"impl_item":       "implementation",
		"struct_item":     info.KindStruct,
		"enum_item":       "enum",
		"trait_item":      "trait",
		"let_declaration": info.KindVariable,
		"const_item":      info.KindConstant,
		"static_item":     info.KindVariable,
		"use_declaration": info.KindImport,
		"mod_item":        info.KindModule,
	},
	Branches: []string{
		"if_expression",
		"while_expression",
		"for_expression",
		"loop_expression",
		"match_arm",
	},
}

var items = []string{"struct_item", "enum_item", "trait_item", "union_item"}

// Inspector extracts Rust items
type Inspector struct {
	syntax.Base
	engine *syntax.Engine
}

// NewInspector creates Rust inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	engine, err := syntax.NewEngine(grammar, options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{engine: engine}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return info.Rust
}

// InspectSource parses Rust source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractImports returns use paths
func (i *Inspector) ExtractImports(tree *syntax.Tree) []string {
	var imports []string
	for _, node := range tree.Find("use_declaration") {
		if argument := node.ChildByFieldName("argument"); argument != nil {
			imports = append(imports, tree.Text(argument))
		}
	}
	for _, node := range tree.Find("extern_crate_declaration") {
		if name := node.ChildByFieldName("name"); name != nil {
			imports = append(imports, tree.Text(name))
		}
	}
	return imports
}

// ExtractExports returns names of public items
func (i *Inspector) ExtractExports(tree *syntax.Tree) []string {
	var exports []string
	tree.Walk(func(node *sitter.Node) bool {
		switch {
		case node.Type() == "impl_item":
			return false
		case !strings.HasSuffix(node.Type(), "_item"):
			return true
		}
		if isPublic(tree, node) {
			if name := tree.Name(node); name != "" {
				exports = append(exports, name)
			}
		}
		return node.Type() == "mod_item"
	})
	return exports
}

// ExtractClasses returns struct, enum, union and trait names
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	return tree.Names(items...)
}

// ExtractFunctions returns function names
func (i *Inspector) ExtractFunctions(tree *syntax.Tree) []string {
	return tree.Names("function_item")
}

// ExtractVariables returns let, const and static bindings
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	for _, node := range tree.Find("let_declaration", "const_item", "static_item") {
		if node.Type() != "let_declaration" {
			variables = append(variables, tree.Name(node))
			continue
		}
		pattern := node.ChildByFieldName("pattern")
		if pattern == nil {
			continue
		}
		if pattern.Type() == "identifier" {
			variables = append(variables, tree.Text(pattern))
			continue
		}
		for j := uint32(0); j < pattern.NamedChildCount(); j++ {
			if child := pattern.NamedChild(int(j)); child.Type() == "identifier" {
				variables = append(variables, tree.Text(child))
			}
		}
	}
	return variables
}

// CalculateComplexity counts decision points
func (i *Inspector) CalculateComplexity(tree *syntax.Tree) float64 {
	return syntax.BranchComplexity(tree, grammar.Branches)
}

func isPublic(tree *syntax.Tree, node *sitter.Node) bool {
	for j := uint32(0); j < node.NamedChildCount(); j++ {
		child := node.NamedChild(int(j))
		if child.Type() == "visibility_modifier" {
			return strings.HasPrefix(tree.Text(child), "pub")
		}
	}
	return false
}
