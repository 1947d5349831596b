package info

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a source language
type Language string

const (
	Go         Language = "go"
	Java       Language = "java"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Rust       Language = "rust"
	C          Language = "c"
	Cpp        Language = "cpp"
	CSS        Language = "css"
	HTML       Language = "html"
	Text       Language = "text"
)

var extensions = map[string]Language{
	".go":   Go,
	".java": Java,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".py":   Python,
	".pyi":  Python,
	".rs":   Rust,
	".c":    C,
	".h":    C,
	".cpp":  Cpp,
	".cc":   Cpp,
	".cxx":  Cpp,
	".hpp":  Cpp,
	".hh":   Cpp,
	".hxx":  Cpp,
	".css":  CSS,
	".html": HTML,
	".htm":  HTML,
}

// DetectLanguage returns the language for the file extension
func DetectLanguage(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Extensions returns sorted extensions of all known languages
func Extensions() []string {
	var result = make([]string, 0, len(extensions))
	for ext := range extensions {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

// ExtensionsOf returns sorted extensions mapped to the supplied languages
func ExtensionsOf(languages ...Language) []string {
	var result []string
	for ext, lang := range extensions {
		for _, candidate := range languages {
			if lang == candidate {
				result = append(result, ext)
				break
			}
		}
	}
	sort.Strings(result)
	return result
}

func (l Language) String() string {
	return string(l)
}
