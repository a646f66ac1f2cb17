package compactast

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hassan/astinterp/internal/ast"
)

// Encoder turns an in-memory AST into CompactAST bytes. It is host-only —
// nothing here runs on the embedded decode side (spec §4.2.1).
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

// Encode implements spec §4.2.1 end to end: node collection, string
// interning, size precomputation, and layout.
func (e *Encoder) Encode(root ast.Node) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("compactast: cannot encode a nil root")
	}

	nodes := collectNodes(root)
	strings, stringIndex := internStrings(nodes)

	var stringTable bytes.Buffer
	if err := writeStringTable(&stringTable, strings); err != nil {
		return nil, err
	}
	stringTableBytes := stringTable.Bytes()

	var out bytes.Buffer
	out.Grow(HeaderSize + len(stringTableBytes) + len(nodes)*8)

	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint16(header[4:6], Version)
	binary.LittleEndian.PutUint16(header[6:8], 0) // flags, reserved
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(nodes)))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(stringTableBytes)))
	out.Write(header)
	out.Write(stringTableBytes)

	index := make(map[ast.Node]uint16, len(nodes))
	for i, n := range nodes {
		index[n] = uint16(i)
	}

	for _, n := range nodes {
		block, err := encodeNodeBlock(n, index, stringIndex)
		if err != nil {
			return nil, err
		}
		out.Write(block)
	}

	return out.Bytes(), nil
}

// collectNodes performs the depth-first traversal of spec §4.2.1 step 1:
// the root is index 0, and every node reachable through Children() gets a
// contiguous index in pre-order (a parent's index is always lower than
// any of its descendants'). VarDecl's flattening falls out for free here
// because VarDeclNode.Children() and DeclaratorNode.Children() already
// expose the flattened shape — there is no separate "declarations wrapper"
// object in this package's node family to special-case.
func collectNodes(root ast.Node) []ast.Node {
	var nodes []ast.Node
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		nodes = append(nodes, n)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

// internStrings builds the string table in first-seen order, collapsing
// duplicates (spec §4.2.1 step 2, §8 "two occurrences of setup share one
// entry").
func internStrings(nodes []ast.Node) ([]string, map[string]uint16) {
	var strings []string
	index := make(map[string]uint16)
	for _, n := range nodes {
		v := n.Value()
		if v == nil || v.Type != ast.VString {
			continue
		}
		if _, ok := index[v.Str]; ok {
			continue
		}
		index[v.Str] = uint16(len(strings))
		strings = append(strings, v.Str)
	}
	return strings, index
}

func writeStringTable(buf *bytes.Buffer, strings []string) error {
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(strings)))
	buf.Write(countBuf[:])

	for _, s := range strings {
		if len(s) > 0xFFFF {
			return fmt.Errorf("compactast: string too long to intern (%d bytes)", len(s))
		}
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
		buf.Write(lenBuf[:])
		buf.WriteString(s)
		buf.WriteByte(0)
	}

	// Pad to a 4-byte boundary so node data begins aligned (spec §4.2.1
	// step 3, §8 "4-byte alignment").
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
	return nil
}

// encodeNodeBlock writes one node's type/flags/dataSize header followed by
// its value (if any) and child index list (if any) — spec §4.2.1 step 5.
func encodeNodeBlock(n ast.Node, index map[ast.Node]uint16, stringIndex map[string]uint16) ([]byte, error) {
	var payload bytes.Buffer

	if n.Flags()&FlagHasValue != 0 {
		if err := encodeValue(&payload, n.Value(), stringIndex); err != nil {
			return nil, err
		}
	}

	if n.Flags()&FlagHasChildren != 0 {
		for _, c := range n.Children() {
			idx, ok := index[c]
			if !ok {
				return nil, fmt.Errorf("compactast: child of %s not found during indexing", n.Type())
			}
			var idxBuf [2]byte
			binary.LittleEndian.PutUint16(idxBuf[:], idx)
			payload.Write(idxBuf[:])
		}
	}

	if payload.Len() > 0xFFFF {
		return nil, fmt.Errorf("compactast: node %s payload too large (%d bytes)", n.Type(), payload.Len())
	}

	block := make([]byte, 4, 4+payload.Len())
	block[0] = uint8(n.Type())
	block[1] = uint8(n.Flags())
	binary.LittleEndian.PutUint16(block[2:4], uint16(payload.Len()))
	block = append(block, payload.Bytes()...)
	return block, nil
}

// encodeValue writes a tagged value: valueType(1) then the type-specific
// payload (spec §6.1's tagged-value table). The type tag to use is taken
// directly from the LiteralValue, which is expected to already hold the
// smallest representation that fits (ast.IntValue / ast.FloatValue /
// ast.UintValue apply that rule at construction time — see DESIGN.md).
func encodeValue(buf *bytes.Buffer, v *ast.LiteralValue, stringIndex map[string]uint16) error {
	buf.WriteByte(uint8(v.Type))

	switch v.Type {
	case ast.VVoid, ast.VNull:
		// no payload
	case ast.VBool:
		if v.Bool {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case ast.VInt8:
		buf.WriteByte(byte(int8(v.Int)))
	case ast.VUint8:
		buf.WriteByte(byte(uint8(v.Uint)))
	case ast.VInt16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(v.Int)))
		buf.Write(b[:])
	case ast.VUint16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v.Uint))
		buf.Write(b[:])
	case ast.VInt32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(int32(v.Int)))
		buf.Write(b[:])
	case ast.VUint32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v.Uint))
		buf.Write(b[:])
	case ast.VInt64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.Int))
		buf.Write(b[:])
	case ast.VUint64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v.Uint)
		buf.Write(b[:])
	case ast.VFloat32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], float32bits(v.Float))
		buf.Write(b[:])
	case ast.VFloat64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], float64bits(v.Float))
		buf.Write(b[:])
	case ast.VString:
		idx, ok := stringIndex[v.Str]
		if !ok {
			return fmt.Errorf("compactast: string %q not found in string table", v.Str)
		}
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], idx)
		buf.Write(b[:])
	default:
		return fmt.Errorf("compactast: unknown value type 0x%02X", uint8(v.Type))
	}
	return nil
}
