package rust_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/inspector/rust"
)

func TestInspector_InspectSource(t *testing.T) {
	src := `use std::collections::HashMap;
use crate::config::Settings;

const LIMIT: usize = 10;

pub struct Cache {
    items: HashMap<String, String>,
}

enum State { Ready, Busy }

pub trait Store {
    fn get(&self, key: &str) -> Option<String>;
}

impl Cache {
    pub fn new() -> Self {
        let items = HashMap::new();
        Cache { items }
    }
}

pub fn pick(state: State) -> u8 {
    let (a, b) = (1, 2);
    match state {
        State::Ready => a,
        State::Busy => b,
    }
}
`
	inspector, err := rust.NewInspector()
	require.NoError(t, err)
	file, err := inspector.InspectSource(context.Background(), "src/lib.rs", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"std::collections::HashMap", "crate::config::Settings"}, file.Imports)
	assert.Equal(t, []string{"Cache", "State", "Store"}, file.Classes)
	assert.Equal(t, []string{"new", "pick"}, file.Functions)
	assert.Equal(t, []string{"LIMIT", "items", "a", "b"}, file.Variables)
	assert.Equal(t, []string{"Cache", "Store", "pick"}, file.Exports)
	assert.Equal(t, 3.0, file.Complexity)
}
