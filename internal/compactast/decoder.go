package compactast

import (
	"encoding/binary"

	"github.com/hassan/astinterp/internal/ast"
)

// Decoder turns CompactAST bytes back into an in-memory AST. This is the
// side a resource-constrained target would actually embed; the host-only
// Encoder lives in encoder.go (spec §4.2.1's "host encoder / embedded
// decoder" split).
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

// rawNode is the generic, not-yet-typed shape of one decoded node table
// entry: a type tag, its flags, its optional value, and its child indices.
// linking.go turns a slice of these into actual ast.Node values.
type rawNode struct {
	typ      ast.NodeType
	flags    ast.Flags
	value    *ast.LiteralValue
	children []uint16
}

// Decode implements spec §4.2.2's decode pipeline: validate the header,
// parse the string table, parse the node table, then link (linking.go)
// the generic node table into the typed tree rooted at index 0.
func (d *Decoder) Decode(data []byte) (ast.Node, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncatedBuffer
	}
	if binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint16(data[4:6]) != Version {
		return nil, ErrUnsupportedVersion
	}
	nodeCount := binary.LittleEndian.Uint32(data[8:12])
	stringTableSize := binary.LittleEndian.Uint32(data[12:16])

	offset := HeaderSize
	if offset+int(stringTableSize) > len(data) {
		return nil, ErrTruncatedBuffer
	}
	strTable, err := parseStringTable(data[offset : offset+int(stringTableSize)])
	if err != nil {
		return nil, err
	}
	offset += int(stringTableSize)

	rawNodes := make([]rawNode, 0, nodeCount)
	for i := uint32(0); i < nodeCount; i++ {
		if offset+4 > len(data) {
			return nil, ErrTruncatedBuffer
		}
		typ := ast.NodeType(data[offset])
		flags := ast.Flags(data[offset+1])
		dataSize := int(binary.LittleEndian.Uint16(data[offset+2 : offset+4]))
		offset += 4
		if dataSize < 0 || offset+dataSize > len(data) {
			return nil, ErrTruncatedBuffer
		}
		block := data[offset : offset+dataSize]
		offset += dataSize

		var value *ast.LiteralValue
		pos := 0
		if flags&FlagHasValue != 0 {
			v, n, verr := decodeValue(block, strTable)
			if verr != nil {
				return nil, verr
			}
			value, pos = v, n
		}

		var children []uint16
		if flags&FlagHasChildren != 0 {
			remaining := block[pos:]
			if len(remaining)%2 != 0 {
				return nil, ErrTruncatedBuffer
			}
			children = make([]uint16, len(remaining)/2)
			for j := range children {
				children[j] = binary.LittleEndian.Uint16(remaining[j*2 : j*2+2])
			}
		}

		rawNodes = append(rawNodes, rawNode{typ: typ, flags: flags, value: value, children: children})
	}

	return link(rawNodes)
}

// parseStringTable reads the count-prefixed, length-prefixed, NUL-terminated
// entries written by writeStringTable (spec §4.2.1 step 3). Padding bytes
// added for 4-byte alignment are not part of any entry and are simply left
// unread once the declared count is satisfied.
func parseStringTable(buf []byte) ([]string, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	if len(buf) < 4 {
		return nil, ErrCorruptStringTable
	}
	count := binary.LittleEndian.Uint32(buf[0:4])
	offset := 4
	out := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if offset+2 > len(buf) {
			return nil, ErrCorruptStringTable
		}
		length := int(binary.LittleEndian.Uint16(buf[offset : offset+2]))
		offset += 2
		if offset+length+1 > len(buf) {
			return nil, ErrCorruptStringTable
		}
		s := string(buf[offset : offset+length])
		if buf[offset+length] != 0 {
			return nil, ErrCorruptStringTable
		}
		offset += length + 1
		out = append(out, s)
	}
	return out, nil
}

// decodeValue reads one tagged LiteralValue and returns how many bytes of
// block it consumed (the tag byte plus its type-specific payload), mirroring
// encodeValue's layout exactly.
func decodeValue(block []byte, strTable []string) (*ast.LiteralValue, int, error) {
	if len(block) < 1 {
		return nil, 0, ErrTruncatedBuffer
	}
	t := ast.ValueType(block[0])
	rest := block[1:]

	switch t {
	case ast.VVoid, ast.VNull:
		return &ast.LiteralValue{Type: t}, 1, nil
	case ast.VBool:
		if len(rest) < 1 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Bool: rest[0] != 0}, 2, nil
	case ast.VInt8:
		if len(rest) < 1 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Int: int64(int8(rest[0]))}, 2, nil
	case ast.VUint8:
		if len(rest) < 1 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Uint: uint64(rest[0])}, 2, nil
	case ast.VInt16:
		if len(rest) < 2 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Int: int64(int16(binary.LittleEndian.Uint16(rest)))}, 3, nil
	case ast.VUint16:
		if len(rest) < 2 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Uint: uint64(binary.LittleEndian.Uint16(rest))}, 3, nil
	case ast.VInt32:
		if len(rest) < 4 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Int: int64(int32(binary.LittleEndian.Uint32(rest)))}, 5, nil
	case ast.VUint32:
		if len(rest) < 4 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Uint: uint64(binary.LittleEndian.Uint32(rest))}, 5, nil
	case ast.VInt64:
		if len(rest) < 8 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Int: int64(binary.LittleEndian.Uint64(rest))}, 9, nil
	case ast.VUint64:
		if len(rest) < 8 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Uint: binary.LittleEndian.Uint64(rest)}, 9, nil
	case ast.VFloat32:
		if len(rest) < 4 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Float: float32frombits(binary.LittleEndian.Uint32(rest))}, 5, nil
	case ast.VFloat64:
		if len(rest) < 8 {
			return nil, 0, ErrTruncatedBuffer
		}
		return &ast.LiteralValue{Type: t, Float: float64frombits(binary.LittleEndian.Uint64(rest))}, 9, nil
	case ast.VString:
		if len(rest) < 2 {
			return nil, 0, ErrTruncatedBuffer
		}
		idx := binary.LittleEndian.Uint16(rest)
		if int(idx) >= len(strTable) {
			return nil, 0, ErrCorruptStringTable
		}
		return &ast.LiteralValue{Type: t, Str: strTable[idx]}, 3, nil
	default:
		// Not one of spec §7's named error kinds; reusing ErrInvalidNodeType
		// here since an unrecognized value tag is the same class of
		// problem as an unrecognized node type tag — a byte in the stream
		// that isn't part of the closed wire vocabulary.
		return nil, 0, ErrInvalidNodeType
	}
}
