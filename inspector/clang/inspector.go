package clang

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

var cGrammar = &syntax.Grammar{
	Language: info.C,
	Sitter:   c.GetLanguage(),
	Types: map[string]string{
		"function_definition": info.KindFunction,
		"declaration":         "declaration",
		"struct_specifier":    info.KindStruct,
		"union_specifier":     info.KindStruct,
		"enum_specifier":      "enum",
		"type_definition":     "typedef",
		"preproc_include":     "include",
	},
	Branches: []string{
		"if_statement",
		"while_statement",
		"do_statement",
		"for_statement",
		"case_statement",
		"conditional_expression",
	},
}

var cppGrammar = &syntax.Grammar{
	Language: info.Cpp,
	Sitter:   cpp.GetLanguage(),
	Types: map[string]string{
		"function_definition":  info.KindFunction,
		"declaration":          "declaration",
		"class_specifier":      info.KindClass,
		"struct_specifier":     info.KindStruct,
		"union_specifier":      info.KindStruct,
		"enum_specifier":       "enum",
		"namespace_definition": "namespace",
		"template_declaration": "template",
		"preproc_include":      "include",
	},
	Branches: []string{
		"if_statement",
		"while_statement",
		"do_statement",
		"for_statement",
		"for_range_loop",
		"case_statement",
		"catch_clause",
		"conditional_expression",
	},
}

// Inspector extracts C and C++ declarations
type Inspector struct {
	syntax.Base
	engine   *syntax.Engine
	language info.Language
}

// NewInspector creates inspector for C or C++
func NewInspector(language info.Language, options ...syntax.Option) (*Inspector, error) {
	var grammar *syntax.Grammar
	switch language {
	case info.C:
		grammar = cGrammar
	case info.Cpp:
		grammar = cppGrammar
	default:
		return nil, fmt.Errorf("unsupported language: %v", language)
	}
	engine, err := syntax.NewEngine(grammar, options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{engine: engine, language: language}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return i.language
}

// InspectSource parses C/C++ source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractImports returns included header paths
func (i *Inspector) ExtractImports(tree *syntax.Tree) []string {
	var imports []string
	for _, node := range tree.Find("preproc_include") {
		if path := node.ChildByFieldName("path"); path != nil {
			imports = append(imports, syntax.Unquote(tree.Text(path)))
		}
	}
	return imports
}

// ExtractClasses returns named class, struct, union and enum definitions
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	var classes []string
	for _, node := range tree.Find("class_specifier", "struct_specifier", "union_specifier", "enum_specifier") {
		if node.ChildByFieldName("body") == nil {
			continue
		}
		if name := node.ChildByFieldName("name"); name != nil {
			classes = append(classes, tree.Text(name))
		}
	}
	return classes
}

// ExtractFunctions returns defined function names
func (i *Inspector) ExtractFunctions(tree *syntax.Tree) []string {
	return tree.Names("function_definition")
}

// ExtractVariables returns declared variable names, function prototypes are skipped
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	for _, declaration := range tree.Find("declaration", "field_declaration") {
		for j := uint32(0); j < declaration.NamedChildCount(); j++ {
			child := declaration.NamedChild(int(j))
			if name := variableName(tree, child); name != "" {
				variables = append(variables, name)
			}
		}
	}
	return variables
}

// CalculateComplexity counts decision points
func (i *Inspector) CalculateComplexity(tree *syntax.Tree) float64 {
	return syntax.BranchComplexity(tree, i.engine.Grammar().Branches)
}

func variableName(tree *syntax.Tree, declarator *sitter.Node) string {
	for depth := 0; declarator != nil && depth < 8; depth++ {
		switch declarator.Type() {
		case "identifier", "field_identifier":
			return tree.Text(declarator)
		case "init_declarator", "pointer_declarator", "array_declarator", "reference_declarator":
			next := declarator.ChildByFieldName("declarator")
			if next == nil && declarator.NamedChildCount() > 0 {
				next = declarator.NamedChild(int(declarator.NamedChildCount()) - 1)
			}
			declarator = next
		default:
			return ""
		}
	}
	return ""
}
