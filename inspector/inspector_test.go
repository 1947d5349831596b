package inspector_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/inspector"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

func TestFactory_ForFile(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		inspector string
		language  info.Language
	}{
		{name: "Go file", filename: "test.go", inspector: "golang", language: info.Go},
		{name: "Java file", filename: "Test.java", inspector: "java", language: info.Java},
		{name: "JS file", filename: "test.js", inspector: "jsx", language: info.JavaScript},
		{name: "JSX file", filename: "Component.jsx", inspector: "jsx", language: info.JavaScript},
		{name: "TSX file", filename: "App.tsx", inspector: "typescript", language: info.TypeScript},
		{name: "Python file", filename: "app.py", inspector: "python", language: info.Python},
		{name: "Rust file", filename: "lib.rs", inspector: "rust", language: info.Rust},
		{name: "C++ file", filename: "test.cpp", inspector: "clang", language: info.Cpp},
		{name: "HTML file", filename: "index.html", inspector: "web", language: info.HTML},
		{name: "Unsupported file", filename: "notes.txt", inspector: "plain", language: info.Text},
	}

	factory := inspector.NewFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp := factory.ForFile(tt.filename)
			require.NotNil(t, insp)
			inspType := GetInspectorType(insp)
			assert.True(t, strings.Contains(inspType, tt.inspector), "got %s, want %s", inspType, tt.inspector)
			assert.Equal(t, tt.language, insp.Language())
		})
	}
}

// GetInspectorType returns the package path of the inspector implementation
func GetInspectorType(i interface{}) string {
	return reflect.TypeOf(i).String()
}

func TestFactory_Inspector_Cached(t *testing.T) {
	var created int32
	factory := inspector.NewFactory(inspector.WithRegistry(map[info.Language]inspector.Constructor{
		info.Go: func(options ...syntax.Option) (inspector.Inspector, error) {
			atomic.AddInt32(&created, 1)
			return inspector.DefaultRegistry()[info.Go](options...)
		},
	}))

	var wg sync.WaitGroup
	instances := make([]inspector.Inspector, 16)
	for i := range instances {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			instances[i] = factory.Inspector(info.Go)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
	for _, instance := range instances {
		assert.Same(t, instances[0], instance)
	}
	assert.Nil(t, factory.Inspector(info.Java))
}

func TestFactory_Inspector_InitFailure(t *testing.T) {
	var attempts int32
	factory := inspector.NewFactory(inspector.WithConstructor(info.Rust, func(options ...syntax.Option) (inspector.Inspector, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, errors.New("grammar missing")
	}))
	assert.Nil(t, factory.Inspector(info.Rust))
	assert.Nil(t, factory.Inspector(info.Rust))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))

	fallback := factory.ForFile("src/lib.rs")
	require.NotNil(t, fallback)
	assert.Same(t, factory.Fallback(), fallback)
	file, err := fallback.InspectSource(context.Background(), "src/lib.rs", []byte("fn main() {}\n"))
	require.NoError(t, err)
	assert.Equal(t, info.Rust, file.Language)
	assert.Equal(t, 1.0, file.Complexity)
}

func TestFactory_InspectFile(t *testing.T) {
	factory := inspector.NewFactory()
	file, err := factory.InspectFile(context.Background(), "main.go", []byte("package main\n\nfunc main() {}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, file.Functions)

	_, err = factory.InspectFile(context.Background(), "main.go", []byte("package main\nfunc {"))
	assert.ErrorIs(t, err, inspector.ErrParseFailed)
	assert.ErrorIs(t, err, syntax.ErrSyntax)
}

func TestFactory_Extensions(t *testing.T) {
	factory := inspector.NewFactory()
	assert.Equal(t, info.Extensions(), factory.Extensions())
	assert.Len(t, factory.Supported(), 10)
}
