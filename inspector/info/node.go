package info

// Node kinds shared across languages
const (
	KindFunction  = "function"
	KindMethod    = "method"
	KindClass     = "class"
	KindInterface = "interface"
	KindStruct    = "struct"
	KindImport    = "import"
	KindExport    = "export"
	KindVariable  = "variable"
	KindConstant  = "constant"
	KindType      = "type"
	KindPackage   = "package"
	KindModule    = "module"
)

// Property keys every node carries
const (
	PropRawType     = "raw_type"
	PropTextLength  = "text_length"
	PropHasChildren = "has_children"
)

// Node represents a language neutral syntax node
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name,omitempty"`
	File       string         `json:"file"`
	Line       int            `json:"line"`
	Col        int            `json:"col"`
	EndLine    int            `json:"end_line,omitempty"`
	EndCol     int            `json:"end_col,omitempty"`
	Children   []string       `json:"children,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Language   Language       `json:"language"`
	Complexity *int           `json:"complexity,omitempty"`
}

// IsEssential returns true for nodes retained in condensed node listings
func (n *Node) IsEssential() bool {
	switch n.Type {
	case KindFunction, KindMethod, KindClass, KindInterface, KindStruct, KindImport:
		return true
	}
	return false
}
