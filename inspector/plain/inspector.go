package plain

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

// Inspector produces content level analysis for files without a grammar
type Inspector struct {
	language info.Language
}

// NewInspector creates simplified inspector
func NewInspector(options ...syntax.Option) (*Inspector, error) {
	return &Inspector{language: info.Text}, nil
}

// Language returns inspector language
func (i *Inspector) Language() info.Language {
	return i.language
}

// InspectSource returns line, size and hash metadata with line based complexity
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*info.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	language := i.language
	if detected, ok := info.DetectLanguage(path); ok {
		language = detected
	}
	file := info.NewFile(path, language, src)
	if !utf8.Valid(src) || !isText(src) {
		file.Encoding = info.EncodingBinary
	}
	file.Nodes = []info.Node{}
	file.Imports = []string{}
	file.Exports = []string{}
	file.Classes = []string{}
	file.Functions = []string{}
	file.Variables = []string{}
	file.Complexity = syntax.LineComplexity(file.Lines)
	return file, nil
}

func isText(src []byte) bool {
	if len(src) == 0 {
		return true
	}
	for mtype := mimetype.Detect(src); mtype != nil; mtype = mtype.Parent() {
		if strings.HasPrefix(mtype.String(), "text/") {
			return true
		}
	}
	return false
}
