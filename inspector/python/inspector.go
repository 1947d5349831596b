package python

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

var grammar = &syntax.Grammar{
	Language: info.Python,
	Sitter:   python.GetLanguage(),
	Types: map[string]string{
		"function_definition":   info.KindFunction,
		"class_definition":      info.KindClass,
		"import_statement":      info.KindImport,
		"import_from_statement": info.KindImport,
		"assignment":            info.KindVariable,
		"lambda":                info.KindFunction,
	},
	Branches: []string{
		"if_statement",
		"elif_clause",
		"for_statement",
		"while_statement",
		"try_statement",
		"except_clause",
		"lambda",
		"boolean_operator",
		"conditional_expression",
	},
}

// Inspector extracts Python declarations
type Inspector struct {
	syntax.Base
	engine *syntax.Engine
}

// NewInspector creates Python inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	engine, err := syntax.NewEngine(grammar, options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{engine: engine}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return info.Python
}

// InspectSource parses Python source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractImports returns imported modules, from-imports are qualified with their module
func (i *Inspector) ExtractImports(tree *syntax.Tree) []string {
	var imports []string
	tree.Walk(func(node *sitter.Node) bool {
		switch node.Type() {
		case "import_statement":
			imports = append(imports, importedNames(tree, node)...)
			return false
		case "import_from_statement":
			module := ""
			if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
				module = tree.Text(moduleNode)
			}
			names := importedNames(tree, node)
			if len(names) == 0 {
				imports = append(imports, module)
			}
			for _, name := range names {
				switch {
				case module == "":
					imports = append(imports, name)
				case module[len(module)-1] == '.':
					imports = append(imports, module+name)
				default:
					imports = append(imports, module+"."+name)
				}
			}
			return false
		}
		return true
	})
	return imports
}

// ExtractExports returns names listed in __all__
func (i *Inspector) ExtractExports(tree *syntax.Tree) []string {
	var exports []string
	for _, assignment := range tree.Find("assignment") {
		left := assignment.ChildByFieldName("left")
		right := assignment.ChildByFieldName("right")
		if left == nil || right == nil || tree.Text(left) != "__all__" {
			continue
		}
		if right.Type() != "list" && right.Type() != "tuple" {
			continue
		}
		for j := uint32(0); j < right.NamedChildCount(); j++ {
			if item := right.NamedChild(int(j)); item.Type() == "string" {
				exports = append(exports, syntax.Unquote(tree.Text(item)))
			}
		}
	}
	return exports
}

// ExtractClasses returns class names
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	return tree.Names("class_definition")
}

// ExtractFunctions returns function and method names
func (i *Inspector) ExtractFunctions(tree *syntax.Tree) []string {
	return tree.Names("function_definition")
}

// ExtractVariables returns unique assigned names in first assignment order
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			variables = append(variables, name)
		}
	}
	for _, assignment := range tree.Find("assignment", "augmented_assignment") {
		left := assignment.ChildByFieldName("left")
		if left == nil {
			continue
		}
		switch left.Type() {
		case "identifier":
			add(tree.Text(left))
		case "pattern_list", "tuple_pattern":
			for j := uint32(0); j < left.NamedChildCount(); j++ {
				if item := left.NamedChild(int(j)); item.Type() == "identifier" {
					add(tree.Text(item))
				}
			}
		}
	}
	return variables
}

// CalculateComplexity counts decision points
func (i *Inspector) CalculateComplexity(tree *syntax.Tree) float64 {
	return syntax.BranchComplexity(tree, grammar.Branches)
}

func importedNames(tree *syntax.Tree, statement *sitter.Node) []string {
	var names []string
	module := statement.ChildByFieldName("module_name")
	for j := uint32(0); j < statement.NamedChildCount(); j++ {
		child := statement.NamedChild(int(j))
		if module != nil && child.StartByte() == module.StartByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			names = append(names, tree.Text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, tree.Text(name))
			}
		case "wildcard_import":
			names = append(names, "*")
		}
	}
	return names
}
