package typescript

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/jsx"
	"github.com/viant/astscope/inspector/syntax"
)

func newGrammar() *syntax.Grammar {
	types := map[string]string{
		"interface_declaration":      info.KindInterface,
		"type_alias_declaration":     info.KindType,
		"enum_declaration":           info.KindType,
		"abstract_class_declaration": info.KindClass,
		"method_signature":           info.KindMethod,
		"internal_module":            info.KindModule,
	}
	for k, v := range jsx.Types {
		types[k] = v
	}
	return &syntax.Grammar{
		Language: info.TypeScript,
		Sitter:   typescript.GetLanguage(),
		Types:    types,
		Branches: jsx.Branches,
	}
}

// Inspector extracts TypeScript declarations, .tsx files use the TSX dialect
type Inspector struct {
	jsx.Extractor
	engine *syntax.Engine
	tsx    *sitter.Language
}

// NewInspector creates TypeScript inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	engine, err := syntax.NewEngine(newGrammar(), options...)
	if err != nil {
		return nil, err
	}
	return &Inspector{
		Extractor: jsx.Extractor{Branches: jsx.Branches},
		engine:    engine,
		tsx:       tsx.GetLanguage(),
	}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return info.TypeScript
}

// InspectSource parses TypeScript source and returns normalized analysis
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	if strings.EqualFold(filepath.Ext(path), ".tsx") {
		tree, err := i.engine.ParseWith(ctx, i.tsx, path, src)
		if err != nil {
			return nil, err
		}
		defer tree.Close()
		return i.engine.Build(tree, i), nil
	}
	return i.engine.Analyze(ctx, path, src, i)
}

// ExtractClasses returns class and interface names
func (i *Inspector) ExtractClasses(tree *syntax.Tree) []string {
	return tree.Names("class_declaration", "abstract_class_declaration", "interface_declaration")
}

// ExtractVariables returns declared variables and enum names
func (i *Inspector) ExtractVariables(tree *syntax.Tree) []string {
	variables := i.Extractor.ExtractVariables(tree)
	return append(variables, tree.Names("enum_declaration")...)
}
