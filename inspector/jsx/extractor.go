package jsx

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/astscope/inspector/syntax"
)

// Extractor implements ECMAScript capabilities shared by JavaScript and TypeScript
type Extractor struct {
	Branches []string
}

// ExtractImports returns module specifiers of import statements and require calls
func (e Extractor) ExtractImports(tree *syntax.Tree) []string {
	var imports []string
	for _, node := range findImportNodes(tree.Root) {
		if source := node.ChildByFieldName("source"); source != nil {
			imports = append(imports, syntax.Unquote(tree.Text(source)))
		}
	}
	for _, call := range tree.Find("call_expression") {
		if module := requiredModule(tree, call); module != "" {
			imports = append(imports, module)
		}
	}
	return imports
}

// ExtractExports returns exported names, default exports are reported as "default"
func (e Extractor) ExtractExports(tree *syntax.Tree) []string {
	var exports []string
	for _, node := range tree.Find("export_statement") {
		if isDefaultExport(node) {
			exports = append(exports, "default")
			continue
		}
		if declaration := node.ChildByFieldName("declaration"); declaration != nil {
			exports = append(exports, declarationNames(tree, declaration)...)
			continue
		}
		for _, specifier := range findNamed(node, "export_specifier") {
			target := specifier.ChildByFieldName("alias")
			if target == nil {
				target = specifier.ChildByFieldName("name")
			}
			if target != nil {
				exports = append(exports, tree.Text(target))
			}
		}
	}
	return exports
}

// ExtractClasses returns class names
func (e Extractor) ExtractClasses(tree *syntax.Tree) []string {
	return tree.Names("class_declaration", "abstract_class_declaration")
}

// ExtractFunctions returns declared functions, methods and arrow functions bound to variables
func (e Extractor) ExtractFunctions(tree *syntax.Tree) []string {
	var functions []string
	tree.Walk(func(node *sitter.Node) bool {
		switch node.Type() {
		case "function_declaration", "generator_function_declaration", "method_definition":
			if name := tree.Name(node); name != "" {
				functions = append(functions, name)
			}
		case "variable_declarator":
			value := node.ChildByFieldName("value")
			if value == nil {
				break
			}
			switch value.Type() {
			case "arrow_function", "function", "function_expression":
				if name := tree.Name(node); name != "" {
					functions = append(functions, name)
				}
			}
		}
		return true
	})
	return functions
}

// ExtractVariables returns declared variable names
func (e Extractor) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	for _, declarator := range tree.Find("variable_declarator") {
		if name := declarator.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			variables = append(variables, tree.Text(name))
		}
	}
	return variables
}

// CalculateComplexity counts decision points
func (e Extractor) CalculateComplexity(tree *syntax.Tree) float64 {
	return syntax.BranchComplexity(tree, e.Branches)
}

func requiredModule(tree *syntax.Tree, call *sitter.Node) string {
	function := call.ChildByFieldName("function")
	if function == nil || function.Type() != "identifier" || tree.Text(function) != "require" {
		return ""
	}
	arguments := call.ChildByFieldName("arguments")
	if arguments == nil || arguments.NamedChildCount() == 0 {
		return ""
	}
	first := arguments.NamedChild(0)
	if first.Type() != "string" {
		return ""
	}
	return syntax.Unquote(tree.Text(first))
}

func isDefaultExport(node *sitter.Node) bool {
	for j := uint32(0); j < node.ChildCount(); j++ {
		if node.Child(int(j)).Type() == "default" {
			return true
		}
	}
	return false
}

func declarationNames(tree *syntax.Tree, declaration *sitter.Node) []string {
	switch declaration.Type() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		for _, declarator := range findNamed(declaration, "variable_declarator") {
			names = append(names, tree.Name(declarator))
		}
		return names
	}
	if name := tree.Name(declaration); name != "" {
		return []string{name}
	}
	return nil
}

func findNamed(node *sitter.Node, nodeType string) []*sitter.Node {
	var result []*sitter.Node
	for j := uint32(0); j < node.NamedChildCount(); j++ {
		child := node.NamedChild(int(j))
		if child.Type() == nodeType {
			result = append(result, child)
			continue
		}
		result = append(result, findNamed(child, nodeType)...)
	}
	return result
}
