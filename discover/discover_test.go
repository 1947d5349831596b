package discover_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/discover"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	}
}

func TestDiscoverer_Discover(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		options   []discover.Option
		expect    []string
		stop      discover.Ceiling
		oversized int
	}{
		{
			name: "excluded directories are pruned",
			files: map[string]string{
				"main.go":                 "package main",
				"node_modules/x/index.js": "module.exports = 1",
				".git/HEAD":               "ref: refs/heads/main",
				"pkg/util.go":             "package pkg",
				"__pycache__/a.pyc":       "x",
				"vendor/lib/lib.go":       "package lib",
				"target/classes/A.java":   "class A {}",
			},
			expect: []string{"main.go", "pkg/util.go"},
		},
		{
			name: "extension filter",
			files: map[string]string{
				"a.go":     "package a",
				"b.py":     "x = 1",
				"c.md":     "# c",
				"d/E.PY":   "y = 2",
				"d/f.java": "class F {}",
			},
			options: []discover.Option{discover.WithExtensions(".go", ".py")},
			expect:  []string{"a.go", "b.py", "d/E.PY"},
		},
		{
			name: "oversized file skipped",
			files: map[string]string{
				"big.go":   "package big // padded beyond limit",
				"small.go": "package s",
			},
			options:   []discover.Option{discover.WithMaxFileSize(10)},
			expect:    []string{"small.go"},
			oversized: 1,
		},
		{
			name: "total size ceiling halts traversal",
			files: map[string]string{
				"a.txt": "12345",
				"b.txt": "12345",
				"c.txt": "12345",
			},
			options: []discover.Option{discover.WithMaxTotalSize(12)},
			expect:  []string{"a.txt", "b.txt"},
			stop:    discover.CeilingTotalSize,
		},
		{
			name:   "empty repository",
			files:  map[string]string{},
			expect: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)
			result, err := discover.New(tt.options...).Discover(context.Background(), root)
			require.NoError(t, err)
			var actual []string
			for _, candidate := range result.Files {
				actual = append(actual, candidate.Rel)
				assert.Equal(t, filepath.Join(root, filepath.FromSlash(candidate.Rel)), candidate.Path)
			}
			assert.Equal(t, tt.expect, actual)
			assert.Equal(t, tt.stop, result.Stop)
			assert.Equal(t, tt.oversized, result.Oversized)
		})
	}
}

func TestDiscoverer_MaxFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 25; i++ {
		files[fmt.Sprintf("dir%d/file%02d.go", i%3, i)] = "package x"
	}
	writeTree(t, root, files)

	discoverer := discover.New(discover.WithMaxFiles(10))
	first, err := discoverer.Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, first.Files, 10)
	assert.Equal(t, discover.CeilingFileCount, first.Stop)

	second, err := discoverer.Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, first.Paths(), second.Paths())
	assert.EqualValues(t, 10*len("package x"), first.TotalBytes)
}

func TestDiscoverer_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := discover.New().Discover(context.Background(), filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})
	t.Run("file root", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.py": "x = 1"})
		_, err := discover.New().Discover(context.Background(), filepath.Join(root, "a.py"))
		assert.ErrorIs(t, err, discover.ErrNotDirectory)
	})
	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.go": "package a"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := discover.New().Discover(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
