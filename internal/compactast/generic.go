package compactast

import "github.com/hassan/astinterp/internal/ast"

// GenericNode is the JSON-friendly mirror of rawNode: the same (type,
// flags, value, child-index) shape the binary format carries, exported so
// a host tool (cmd/asthost's encode/decode subcommands) can round-trip an
// AST through JSON for inspection without duplicating the linking logic
// linking.go already implements for the binary decoder.
type GenericNode struct {
	Type     ast.NodeType     `json:"type"`
	Flags    ast.Flags        `json:"flags"`
	Value    *ast.LiteralValue `json:"value,omitempty"`
	Children []uint16         `json:"children,omitempty"`
}

// Flatten walks root the same way the encoder does (collectNodes's
// pre-order, parent-before-child traversal) and returns every node in the
// generic shape, suitable for json.Marshal.
func Flatten(root ast.Node) []GenericNode {
	nodes := collectNodes(root)
	index := make(map[ast.Node]uint16, len(nodes))
	for idx, n := range nodes {
		index[n] = uint16(idx)
	}
	out := make([]GenericNode, len(nodes))
	for idx, n := range nodes {
		var children []uint16
		for _, c := range n.Children() {
			children = append(children, index[c])
		}
		out[idx] = GenericNode{Type: n.Type(), Flags: n.Flags(), Value: n.Value(), Children: children}
	}
	return out
}

// Link reconstructs a typed ast.Node tree from its generic shape, reusing
// the exact same type-directed reconstruction the binary decoder's link()
// uses. Index 0 must be the root, and every child index must be greater
// than its parent's own index (link() builds in descending index order, so
// a child at a lower index is not yet built and is rejected with
// ErrChildIndexOutOfRange, independent of how the slice was produced).
func Link(nodes []GenericNode) (ast.Node, error) {
	raw := make([]rawNode, len(nodes))
	for i, n := range nodes {
		raw[i] = rawNode{typ: n.Type, flags: n.Flags, value: n.Value, children: n.Children}
	}
	return link(raw)
}
