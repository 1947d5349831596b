package info_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/astscope/inspector/info"
)

func TestDetectLanguage(t *testing.T) {
	testCases := []struct {
		path   string
		expect info.Language
		ok     bool
	}{
		{path: "main.go", expect: info.Go, ok: true},
		{path: "src/App.JSX", expect: info.JavaScript, ok: true},
		{path: "component.tsx", expect: info.TypeScript, ok: true},
		{path: "lib/mod.rs", expect: info.Rust, ok: true},
		{path: "a/b/c.hpp", expect: info.Cpp, ok: true},
		{path: "include/x.h", expect: info.C, ok: true},
		{path: "index.htm", expect: info.HTML, ok: true},
		{path: "README.md", ok: false},
		{path: "Makefile", ok: false},
	}
	for _, testCase := range testCases {
		actual, ok := info.DetectLanguage(testCase.path)
		assert.Equal(t, testCase.ok, ok, testCase.path)
		assert.Equal(t, testCase.expect, actual, testCase.path)
	}
}

func TestExtensions(t *testing.T) {
	all := info.Extensions()
	assert.Contains(t, all, ".go")
	assert.Contains(t, all, ".py")
	assert.IsIncreasing(t, all)
	assert.Equal(t, []string{".ts", ".tsx"}, info.ExtensionsOf(info.TypeScript))
}

func TestHash(t *testing.T) {
	a := info.Hash([]byte("package main\n"))
	b := info.Hash([]byte("package main\n"))
	c := info.Hash([]byte("package other\n"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestNodeID(t *testing.T) {
	a := info.NodeID("a.go", 1, 0, 0)
	assert.Equal(t, a, info.NodeID("a.go", 1, 0, 0))
	assert.NotEqual(t, a, info.NodeID("a.go", 1, 0, 1))
	assert.NotEqual(t, a, info.NodeID("b.go", 1, 0, 0))
}

func TestFile_Summary(t *testing.T) {
	content := []byte("line1\nline2\nline3")
	file := info.NewFile("pkg/a.py", info.Python, content)
	file.Complexity = 3.14159
	file.Functions = []string{"f", "g"}
	file.Imports = []string{"os"}

	summary := file.Summary()
	assert.Equal(t, 3, summary.Lines)
	assert.Equal(t, 3.14, summary.Complexity)
	assert.Equal(t, 2, summary.Functions)
	assert.Equal(t, 1, summary.Imports)
	assert.Equal(t, 0, summary.Classes)
	assert.Equal(t, len(content), summary.SizeBytes)
	assert.Len(t, summary.Hash, 8)
	assert.Equal(t, file.Hash[:8], summary.Hash)
}
