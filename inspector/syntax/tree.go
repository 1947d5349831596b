package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/astscope/inspector/info"
)

// Tree represents parsed source with its root node
type Tree struct {
	Path     string
	Source   []byte
	Language info.Language
	Root     *sitter.Node
	tree     *sitter.Tree
}

// Close releases native parse tree
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Lines returns number of source lines
func (t *Tree) Lines() int {
	return info.CountLines(t.Source)
}

// Text returns node source text
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(t.Source)
}

// Walk visits nodes in pre-order, returning false from fn skips node children
func (t *Tree) Walk(fn func(node *sitter.Node) bool) {
	if t.Root == nil {
		return
	}
	stack := []*sitter.Node{t.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(node) {
			continue
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
}

// Find returns nodes of the supplied types in pre-order
func (t *Tree) Find(types ...string) []*sitter.Node {
	set := make(map[string]bool, len(types))
	for _, candidate := range types {
		set[candidate] = true
	}
	var result []*sitter.Node
	t.Walk(func(node *sitter.Node) bool {
		if set[node.Type()] {
			result = append(result, node)
		}
		return true
	})
	return result
}

// Count returns number of nodes of the supplied types
func (t *Tree) Count(types ...string) int {
	return len(t.Find(types...))
}

// Name returns declared name of a node, following name and declarator fields
func (t *Tree) Name(node *sitter.Node) string {
	for depth := 0; node != nil && depth < 8; depth++ {
		if isIdentifier(node.Type()) {
			return t.Text(node)
		}
		if name := node.ChildByFieldName("name"); name != nil {
			if isIdentifier(name.Type()) || name.NamedChildCount() == 0 {
				return t.Text(name)
			}
			node = name
			continue
		}
		if declarator := node.ChildByFieldName("declarator"); declarator != nil {
			node = declarator
			continue
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child != nil && isIdentifier(child.Type()) {
				return t.Text(child)
			}
		}
		return ""
	}
	return ""
}

// Names returns declared names of the supplied node types in pre-order
func (t *Tree) Names(types ...string) []string {
	var result []string
	for _, node := range t.Find(types...) {
		if name := t.Name(node); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// Statements returns trimmed source text of the supplied node types
func (t *Tree) Statements(types ...string) []string {
	var result []string
	for _, node := range t.Find(types...) {
		if text := strings.TrimSpace(t.Text(node)); text != "" {
			result = append(result, text)
		}
	}
	return result
}

// Unquote strips string literal delimiters
func Unquote(literal string) string {
	literal = strings.TrimSpace(literal)
	if len(literal) >= 2 {
		switch literal[0] {
		case '"', '\'', '`', '<':
			return literal[1 : len(literal)-1]
		}
	}
	return literal
}

func isIdentifier(nodeType string) bool {
	switch nodeType {
	case "identifier", "type_identifier", "field_identifier", "property_identifier",
		"package_identifier", "namespace_identifier", "constant", "tag_name", "class_name":
		return true
	}
	return false
}
