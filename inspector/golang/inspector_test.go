package golang_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/inspector/golang"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

func TestInspector_InspectSource(t *testing.T) {
	tests := []struct {
		name          string
		source        string
		wantImports   []string
		wantClasses   []string
		wantFunctions []string
		wantVariables []string
		wantExports   []string
		wantErr       bool
	}{
		{
			name: "service",
			source: `package app

import (
	"fmt"
	str "strings"
)

const Version = "1.0"

var counter int

type Service struct {
	Name string
}

type Runner interface {
	Run() error
}

type ID string

func NewService(name string) *Service {
	if name == "" {
		name = "default"
	}
	return &Service{Name: str.ToUpper(name)}
}

func (s *Service) Run() error {
	for i := 0; i < 3; i++ {
		fmt.Println(s.Name, i)
	}
	return nil
}

func helper() {}
`,
			wantImports:   []string{"fmt", "strings"},
			wantClasses:   []string{"Service", "Runner"},
			wantFunctions: []string{"NewService", "Run", "helper"},
			wantVariables: []string{"Version", "counter"},
			wantExports:   []string{"Version", "Service", "Runner", "ID", "NewService", "Run"},
		},
		{
			name:    "syntax error",
			source:  "package app\n\nfunc broken( {\n",
			wantErr: true,
		},
	}

	inspector, err := golang.NewInspector()
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := inspector.InspectSource(context.Background(), "app/service.go", []byte(tt.source))
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, syntax.ErrSyntax))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, info.Go, file.Language)
			assert.Equal(t, tt.wantImports, file.Imports)
			assert.Equal(t, tt.wantClasses, file.Classes)
			assert.Equal(t, tt.wantFunctions, file.Functions)
			assert.Equal(t, tt.wantVariables, file.Variables)
			assert.Equal(t, tt.wantExports, file.Exports)
			assert.Equal(t, 3.0, file.Complexity)
			assert.NotEmpty(t, file.Nodes)
			assert.Equal(t, info.EncodingUTF8, file.Encoding)
		})
	}
}

func TestInspector_Nodes(t *testing.T) {
	inspector, err := golang.NewInspector()
	require.NoError(t, err)
	src := []byte("package app\n\nfunc Max(a, b int) int {\n\tif a > b {\n\t\treturn a\n\t}\n\treturn b\n}\n")

	file, err := inspector.InspectSource(context.Background(), "max.go", src)
	require.NoError(t, err)

	ids := map[string]bool{}
	var function *info.Node
	for i := range file.Nodes {
		node := &file.Nodes[i]
		assert.False(t, ids[node.ID], "duplicate id %v", node.ID)
		ids[node.ID] = true
		assert.Contains(t, node.Properties, info.PropRawType)
		if node.Type == info.KindFunction {
			function = node
		}
	}
	require.NotNil(t, function)
	assert.Equal(t, "Max", function.Name)
	assert.Equal(t, 3, function.Line)
	assert.Equal(t, 8, function.EndLine)
	require.NotNil(t, function.Complexity)
	assert.Equal(t, 2, *function.Complexity)
	for _, child := range function.Children {
		assert.True(t, ids[child])
	}

	again, err := inspector.InspectSource(context.Background(), "max.go", src)
	require.NoError(t, err)
	assert.Equal(t, file.Hash, again.Hash)
	assert.Equal(t, file.Nodes[0].ID, again.Nodes[0].ID)
}

func TestInspector_MaxNodes(t *testing.T) {
	inspector, err := golang.NewInspector(syntax.WithMaxNodes(3))
	require.NoError(t, err)
	file, err := inspector.InspectSource(context.Background(), "a.go", []byte("package a\n\nfunc A() {}\nfunc B() {}\n"))
	require.NoError(t, err)
	assert.Len(t, file.Nodes, 3)
	assert.Equal(t, []string{"A", "B"}, file.Functions)
}
