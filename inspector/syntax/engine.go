package syntax

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/astscope/inspector/info"
)

// DefaultMaxNodes bounds nodes collected per file
const DefaultMaxNodes = 5000

var (
	// ErrSyntax indicates source that does not conform to the grammar
	ErrSyntax = errors.New("syntax error")
	// ErrGrammar indicates unavailable grammar
	ErrGrammar = errors.New("grammar unavailable")
)

// Engine parses source with a grammar and normalizes the result
type Engine struct {
	grammar  *Grammar
	maxNodes int
}

// Option represents engine option
type Option func(*Engine)

// WithMaxNodes limits number of nodes collected per file
func WithMaxNodes(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.maxNodes = limit
		}
	}
}

// NewEngine creates an engine for the grammar
func NewEngine(grammar *Grammar, options ...Option) (*Engine, error) {
	if grammar == nil || grammar.Sitter == nil {
		return nil, ErrGrammar
	}
	ret := &Engine{grammar: grammar, maxNodes: DefaultMaxNodes}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

// Grammar returns engine grammar
func (e *Engine) Grammar() *Grammar {
	return e.grammar
}

// Parse parses content, a fresh parser is used per call so engines are safe for concurrent use
func (e *Engine) Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	return e.parse(ctx, e.grammar.Sitter, path, content)
}

// ParseWith parses content with an alternative grammar dialect
func (e *Engine) ParseWith(ctx context.Context, lang *sitter.Language, path string, content []byte) (*Tree, error) {
	return e.parse(ctx, lang, path, content)
}

func (e *Engine) parse(ctx context.Context, lang *sitter.Language, path string, content []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("failed to parse %s: empty tree", path)
	}
	ret := &Tree{Path: path, Source: content, Language: e.grammar.Language, Root: root, tree: tree}
	if root.HasError() && !e.grammar.Tolerant {
		line, col := ret.firstError()
		ret.Close()
		return nil, fmt.Errorf("%w: %s:%d:%d", ErrSyntax, path, line, col)
	}
	return ret, nil
}

// Analyze parses content and builds normalized file analysis
func (e *Engine) Analyze(ctx context.Context, path string, content []byte, extractor Extractor) (*info.File, error) {
	tree, err := e.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return e.Build(tree, extractor), nil
}

// Build normalizes parsed tree into file analysis
func (e *Engine) Build(tree *Tree, extractor Extractor) *info.File {
	file := info.NewFile(tree.Path, e.grammar.Language, tree.Source)
	file.Nodes = e.Nodes(tree)
	file.Imports = orEmpty(extractor.ExtractImports(tree))
	file.Exports = orEmpty(extractor.ExtractExports(tree))
	file.Classes = orEmpty(extractor.ExtractClasses(tree))
	file.Functions = orEmpty(extractor.ExtractFunctions(tree))
	file.Variables = orEmpty(extractor.ExtractVariables(tree))
	file.Complexity = extractor.CalculateComplexity(tree)
	return file
}

type frame struct {
	node   *sitter.Node
	parent int
	owner  int
}

// Nodes returns universal nodes of named grammar nodes in pre-order
func (e *Engine) Nodes(tree *Tree) []info.Node {
	if tree.Root == nil {
		return nil
	}
	branches := make(map[string]bool, len(e.grammar.Branches))
	for _, candidate := range e.grammar.Branches {
		branches[candidate] = true
	}
	var nodes []info.Node
	var complexity = map[int]int{}
	stack := []frame{{node: tree.Root, parent: -1, owner: -1}}
	for len(stack) > 0 && len(nodes) < e.maxNodes {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := current.node
		rawType := node.Type()
		if branches[rawType] && current.owner >= 0 {
			complexity[current.owner]++
		}
		parent, owner := current.parent, current.owner
		if node.IsNamed() {
			index := len(nodes)
			nodes = append(nodes, e.node(tree, node, index))
			if parent >= 0 {
				nodes[parent].Children = append(nodes[parent].Children, nodes[index].ID)
			}
			switch nodes[index].Type {
			case info.KindFunction, info.KindMethod:
				owner = index
				complexity[index] = 1
			}
			parent = index
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, frame{node: child, parent: parent, owner: owner})
			}
		}
	}
	for index, value := range complexity {
		score := value
		nodes[index].Complexity = &score
	}
	return nodes
}

func (e *Engine) node(tree *Tree, node *sitter.Node, ordinal int) info.Node {
	start, end := node.StartPoint(), node.EndPoint()
	rawType := node.Type()
	kind := e.grammar.Kind(rawType)
	ret := info.Node{
		ID:       info.NodeID(tree.Path, int(start.Row)+1, int(start.Column), ordinal),
		Type:     kind,
		File:     tree.Path,
		Line:     int(start.Row) + 1,
		Col:      int(start.Column),
		EndLine:  int(end.Row) + 1,
		EndCol:   int(end.Column),
		Language: e.grammar.Language,
		Properties: map[string]any{
			info.PropRawType:     rawType,
			info.PropTextLength:  int(node.EndByte() - node.StartByte()),
			info.PropHasChildren: node.ChildCount() > 0,
		},
	}
	if kind != rawType {
		ret.Name = tree.Name(node)
	}
	return ret
}

func (t *Tree) firstError() (int, int) {
	line, col := 0, 0
	found := false
	t.Walk(func(node *sitter.Node) bool {
		if found {
			return false
		}
		if node.IsMissing() || node.Type() == "ERROR" {
			point := node.StartPoint()
			line, col = int(point.Row)+1, int(point.Column)
			found = true
			return false
		}
		return node.HasError()
	})
	return line, col
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
