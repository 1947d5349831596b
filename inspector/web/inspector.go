package web

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

var cssGrammar = &syntax.Grammar{
	Language: info.CSS,
	Sitter:   css.GetLanguage(),
	Types: map[string]string{
		"rule_set":            "rule",
		"at_rule":             "at_rule",
		"media_statement":     "at_rule",
		"keyframes_statement": "at_rule",
		"declaration":         "property",
		"import_statement":    info.KindImport,
	},
	Tolerant: true,
}

var htmlGrammar = &syntax.Grammar{
	Language: info.HTML,
	Sitter:   html.GetLanguage(),
	Types: map[string]string{
		"element":        "element",
		"script_element": "element",
		"style_element":  "element",
		"start_tag":      "start_tag",
		"end_tag":        "end_tag",
		"attribute":      "attribute",
		"text":           "text",
	},
	Tolerant: true,
}

// Inspector extracts stylesheet and markup structure
type Inspector struct {
	syntax.Base
	engine   *syntax.Engine
	language info.Language
}

// NewInspector creates inspector for CSS or HTML
func NewInspector(language info.Language, options ...syntax.Option) (*Inspector, error) {
	var grammar *syntax.Grammar
	switch language {
	case info.CSS:
		grammar = cssGrammar
	case info.HTML:
		grammar = htmlGrammar
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

// InspectSource parses markup or stylesheet and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractImports returns @import targets or script/link references
func (i *Inspector) ExtractImports(tree *syntax.Tree) []string {
	if i.language == info.CSS {
		var imports []string
		for _, node := range tree.Find("import_statement") {
			if node.NamedChildCount() == 0 {
				continue
			}
			if target := cssURL(tree.Text(node.NamedChild(0))); target != "" {
				imports = append(imports, target)
			}
		}
		return imports
	}
	var imports []string
	for _, tag := range tree.Find("start_tag", "self_closing_tag") {
		name := tagName(tree, tag)
		switch name {
		case "script":
			if src, ok := attribute(tree, tag, "src"); ok {
				imports = append(imports, src)
			}
		case "link":
			if href, ok := attribute(tree, tag, "href"); ok {
				imports = append(imports, href)
			}
		}
	}
	return imports
}

// ExtractClasses returns unique class names in first use order
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	var classes []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			classes = append(classes, name)
		}
	}
	if i.language == info.CSS {
		for _, node := range tree.Find("class_selector") {
			if count := node.NamedChildCount(); count > 0 {
				add(tree.Text(node.NamedChild(int(count) - 1)))
			}
		}
		return classes
	}
	for _, tag := range tree.Find("start_tag", "self_closing_tag") {
		if value, ok := attribute(tree, tag, "class"); ok {
			for _, name := range strings.Fields(value) {
				add(name)
			}
		}
	}
	return classes
}

// ExtractVariables returns custom properties or element ids
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	var variables []string
	if i.language == info.CSS {
		for _, node := range tree.Find("property_name") {
			if name := tree.Text(node); strings.HasPrefix(name, "--") {
				variables = append(variables, name)
			}
		}
		return variables
	}
	for _, tag := range tree.Find("start_tag", "self_closing_tag") {
		if id, ok := attribute(tree, tag, "id"); ok && id != "" {
			variables = append(variables, id)
		}
	}
	return variables
}

func tagName(tree *syntax.Tree, tag *sitter.Node) string {
	for j := uint32(0); j < tag.NamedChildCount(); j++ {
		if child := tag.NamedChild(int(j)); child.Type() == "tag_name" {
			return strings.ToLower(tree.Text(child))
		}
	}
	return ""
}

func attribute(tree *syntax.Tree, tag *sitter.Node, name string) (string, bool) {
	for j := uint32(0); j < tag.NamedChildCount(); j++ {
		attr := tag.NamedChild(int(j))
		if attr.Type() != "attribute" || attr.NamedChildCount() == 0 {
			continue
		}
		if !strings.EqualFold(tree.Text(attr.NamedChild(0)), name) {
			continue
		}
		if attr.NamedChildCount() < 2 {
			return "", true
		}
		return syntax.Unquote(tree.Text(attr.NamedChild(1))), true
	}
	return "", false
}

func cssURL(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "url(") && strings.HasSuffix(value, ")") {
		value = value[4 : len(value)-1]
	}
	return syntax.Unquote(value)
}
