package syntax_test

import (
	"context"
	"testing"

	"github.com/smacker/go-tree-sitter/python"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

const source = "def run(value):\n    if value:\n        return 1\n    return 0\n"

func newGrammar(tolerant bool) *syntax.Grammar {
	return &syntax.Grammar{
		Language: info.Python,
		Sitter:   python.GetLanguage(),
		Types:    map[string]string{"function_definition": info.KindFunction},
		Branches: []string{"if_statement"},
		Tolerant: tolerant,
	}
}

func TestNewEngine(t *testing.T) {
	_, err := syntax.NewEngine(nil)
	assert.ErrorIs(t, err, syntax.ErrGrammar)
	_, err = syntax.NewEngine(&syntax.Grammar{Language: info.Python})
	assert.ErrorIs(t, err, syntax.ErrGrammar)
}

func TestEngine_Analyze(t *testing.T) {
	engine, err := syntax.NewEngine(newGrammar(false))
	require.NoError(t, err)

	file, err := engine.Analyze(context.Background(), "run.py", []byte(source), syntax.Base{})
	require.NoError(t, err)
	assert.Equal(t, info.Python, file.Language)
	assert.Equal(t, 1.0, file.Complexity)
	assert.Equal(t, []string{}, file.Imports)
	assert.Equal(t, []string{}, file.Functions)
	require.NotEmpty(t, file.Nodes)
	assert.Equal(t, "module", file.Nodes[0].Type)

	var function *info.Node
	for i := range file.Nodes {
		if file.Nodes[i].Type == info.KindFunction {
			function = &file.Nodes[i]
			break
		}
	}
	require.NotNil(t, function)
	assert.Equal(t, "run", function.Name)
	assert.Equal(t, 1, function.Line)
	require.NotNil(t, function.Complexity)
	assert.Equal(t, 2, *function.Complexity)
	assert.Contains(t, file.Nodes[0].Children, function.ID)

	again, err := engine.Analyze(context.Background(), "run.py", []byte(source), syntax.Base{})
	require.NoError(t, err)
	assert.Equal(t, file.Nodes[1].ID, again.Nodes[1].ID)
}

func TestEngine_MaxNodes(t *testing.T) {
	engine, err := syntax.NewEngine(newGrammar(false), syntax.WithMaxNodes(3))
	require.NoError(t, err)
	file, err := engine.Analyze(context.Background(), "run.py", []byte(source), syntax.Base{})
	require.NoError(t, err)
	assert.Len(t, file.Nodes, 3)
}

func TestEngine_SyntaxError(t *testing.T) {
	broken := []byte("def run(:\n    return\n")
	tests := []struct {
		name     string
		tolerant bool
		expectOK bool
	}{
		{name: "strict grammar", tolerant: false, expectOK: false},
		{name: "tolerant grammar", tolerant: true, expectOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := syntax.NewEngine(newGrammar(tt.tolerant))
			require.NoError(t, err)
			file, err := engine.Analyze(context.Background(), "broken.py", broken, syntax.Base{})
			if tt.expectOK {
				require.NoError(t, err)
				assert.NotNil(t, file)
				return
			}
			assert.ErrorIs(t, err, syntax.ErrSyntax)
			assert.Contains(t, err.Error(), "broken.py:")
		})
	}
}

func TestComplexity(t *testing.T) {
	assert.Equal(t, 1.0, syntax.LineComplexity(3))
	assert.Equal(t, 2.5, syntax.LineComplexity(25))
}
