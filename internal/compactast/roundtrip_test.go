package compactast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/astinterp/internal/ast"
)

// intXDeclProgram builds `int x = 5;` at the top level, matching spec §8
// scenario 6's concrete CompactAST example.
func intXDeclProgram() *ast.ProgramNode {
	decl := ast.NewVarDecl(
		ast.NewType("int"),
		[]*ast.DeclaratorNode{ast.NewDeclarator("x", ast.NewNumber(ast.UintValue(5)))},
	)
	return ast.NewProgram([]ast.Node{decl})
}

func blinkProgram() *ast.ProgramNode {
	setupBody := ast.NewCompound([]ast.Node{
		ast.NewExpressionStmt(ast.NewFuncCall(ast.NewIdentifier("pinMode"), []ast.Node{
			ast.NewNumber(ast.UintValue(13)),
			ast.NewConstant("OUTPUT"),
		})),
	})
	loopBody := ast.NewCompound([]ast.Node{
		ast.NewExpressionStmt(ast.NewFuncCall(ast.NewIdentifier("digitalWrite"), []ast.Node{
			ast.NewNumber(ast.UintValue(13)),
			ast.NewConstant("HIGH"),
		})),
	})
	setup := ast.NewFuncDef(ast.NewIdentifier("setup"), ast.NewType("void"), nil, setupBody)
	loop := ast.NewFuncDef(ast.NewIdentifier("loop"), ast.NewType("void"), nil, loopBody)
	return ast.NewProgram([]ast.Node{setup, loop})
}

func TestRoundTrip_IntDeclaration(t *testing.T) {
	root := intXDeclProgram()

	data, err := NewEncoder().Encode(root)
	require.NoError(t, err)

	decoded, err := NewDecoder().Decode(data)
	require.NoError(t, err)

	assert.Equal(t, Flatten(root), Flatten(decoded))
}

func TestRoundTrip_BlinkProgram(t *testing.T) {
	root := blinkProgram()

	data, err := NewEncoder().Encode(root)
	require.NoError(t, err)

	decoded, err := NewDecoder().Decode(data)
	require.NoError(t, err)

	assert.Equal(t, Flatten(root), Flatten(decoded))
}

// TestEncode_IntDeclarationMatchesSpecExample pins down spec §8 scenario 6's
// literal byte expectations: header magic/version, node count, and the
// Number node's exact 2-byte value payload (UINT8 tag + value 5).
func TestEncode_IntDeclarationMatchesSpecExample(t *testing.T) {
	data, err := NewEncoder().Encode(intXDeclProgram())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(data), HeaderSize)
	assert.Equal(t, []byte{0x50, 0x54, 0x53, 0x41}, data[0:4], "magic ASTP little-endian")
	assert.Equal(t, []byte{0x00, 0x01}, data[4:6], "version 0x0100 little-endian")

	nodeCount := uint32(data[8]) | uint32(data[9])<<8 | uint32(data[10])<<16 | uint32(data[11])<<24
	assert.GreaterOrEqual(t, nodeCount, uint32(4), "Program, VarDecl, Type, Declarator, Number")

	stringTableSize := uint32(data[12]) | uint32(data[13])<<8 | uint32(data[14])<<16 | uint32(data[15])<<24
	offset := HeaderSize + int(stringTableSize)
	require.Zero(t, offset%4, "node table must start 4-byte aligned")

	// Find the Number node's block among the node table entries and check
	// its tagged-value payload is exactly {0x03, 0x05}.
	found := false
	for offset+4 <= len(data) {
		typ := data[offset]
		flags := data[offset+1]
		dataSize := int(data[offset+2]) | int(data[offset+3])<<8
		offset += 4
		block := data[offset : offset+dataSize]
		offset += dataSize
		if ast.NodeType(typ) == ast.Number && flags&uint8(FlagHasValue) != 0 {
			assert.Equal(t, []byte{0x03, 0x05}, block[:2])
			found = true
		}
	}
	assert.True(t, found, "expected to find the Number node's block")
}

func TestEncode_IsDeterministic(t *testing.T) {
	a, err := NewEncoder().Encode(blinkProgram())
	require.NoError(t, err)
	b, err := NewEncoder().Encode(blinkProgram())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_StringTableDedupesRepeatedNames(t *testing.T) {
	callSetupTwice := ast.NewProgram([]ast.Node{
		ast.NewFuncDef(ast.NewIdentifier("setup"), ast.NewType("void"), nil, ast.NewCompound(nil)),
		ast.NewExpressionStmt(ast.NewFuncCall(ast.NewIdentifier("setup"), nil)),
	})
	data, err := NewEncoder().Encode(callSetupTwice)
	require.NoError(t, err)

	stringTableSize := uint32(data[12]) | uint32(data[13])<<8 | uint32(data[14])<<16 | uint32(data[15])<<24
	table := data[HeaderSize : HeaderSize+int(stringTableSize)]
	count := uint32(table[0]) | uint32(table[1])<<8 | uint32(table[2])<<16 | uint32(table[3])<<24

	occurrences := 0
	for offset := 4; offset < len(table); {
		length := int(table[offset]) | int(table[offset+1])<<8
		offset += 2
		if string(table[offset:offset+length]) == "setup" {
			occurrences++
		}
		offset += length + 1
	}
	assert.Equal(t, 1, occurrences, "setup should appear exactly once in the string table")
	assert.GreaterOrEqual(t, count, uint32(1))
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	data, err := NewEncoder().Encode(intXDeclProgram())
	require.NoError(t, err)
	data[0] = 0xFF
	_, err = NewDecoder().Decode(data)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecode_RejectsUnsupportedVersion(t *testing.T) {
	data, err := NewEncoder().Encode(intXDeclProgram())
	require.NoError(t, err)
	data[4], data[5] = 0x02, 0x00
	_, err = NewDecoder().Decode(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_RejectsTruncatedHeader(t *testing.T) {
	_, err := NewDecoder().Decode([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
}

func TestDecode_RejectsTruncatedNodeTable(t *testing.T) {
	data, err := NewEncoder().Encode(intXDeclProgram())
	require.NoError(t, err)
	_, err = NewDecoder().Decode(data[:len(data)-2])
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
}

func TestDecode_RejectsRootUsedAsChild(t *testing.T) {
	// Two nodes where node 1 (a VarDecl) illegally references index 0 (the
	// root Program) as one of its own children.
	nodes := []rawNode{
		{typ: ast.Program, flags: FlagHasChildren, children: []uint16{1}},
		{typ: ast.VarDecl, flags: FlagHasChildren, children: []uint16{0}},
	}
	_, err := link(nodes)
	assert.ErrorIs(t, err, ErrRootUsedAsChild)
}

func TestDecode_RejectsChildIndexOutOfRange(t *testing.T) {
	nodes := []rawNode{
		{typ: ast.Program, flags: FlagHasChildren, children: []uint16{5}},
	}
	_, err := link(nodes)
	assert.ErrorIs(t, err, ErrChildIndexOutOfRange)
}

// Boundary behaviors from spec §8: integer value encoding picks the
// smallest type that fits.
func TestIntValue_PicksSmallestFittingWidth(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want ast.ValueType
	}{
		{"zero", 0, ast.VInt8},
		{"127 fits int8", 127, ast.VInt8},
		{"-128 fits int8", -128, ast.VInt8},
		{"-129 needs int16", -129, ast.VInt16},
		{"255 needs int16 (signed)", 255, ast.VInt16},
		{"256 needs int16", 256, ast.VInt16},
		{"32767 fits int16", 32767, ast.VInt16},
		{"32768 needs int32", 32768, ast.VInt32},
		{"65535 needs int32 (signed)", 65535, ast.VInt32},
		{"65536 needs int32", 65536, ast.VInt32},
		{"int32 max", 2147483647, ast.VInt32},
		{"int32 min", -2147483648, ast.VInt32},
		{"beyond int32 needs int64", 2147483648, ast.VInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ast.IntValue(tt.in)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.in, got.Int)
		})
	}
}

func TestUintValue_PicksSmallestFittingWidth(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want ast.ValueType
	}{
		{"0", 0, ast.VUint8},
		{"255", 255, ast.VUint8},
		{"256", 256, ast.VUint16},
		{"65535", 65535, ast.VUint16},
		{"65536", 65536, ast.VUint32},
		{"4294967295", 4294967295, ast.VUint32},
		{"4294967296", 4294967296, ast.VUint64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ast.UintValue(tt.in)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestFloatValue_PicksFloat32OnlyWhenExact(t *testing.T) {
	half := ast.FloatValue(0.5)
	assert.Equal(t, ast.VFloat32, half.Type)

	pi := ast.FloatValue(3.14159265358979)
	assert.Equal(t, ast.VFloat64, pi.Type)
}

func TestAlignment_ShortStringStillAlignsNodeTable(t *testing.T) {
	root := ast.NewProgram([]ast.Node{
		ast.NewExpressionStmt(ast.NewIdentifier("a")),
	})
	data, err := NewEncoder().Encode(root)
	require.NoError(t, err)
	stringTableSize := uint32(data[12]) | uint32(data[13])<<8 | uint32(data[14])<<16 | uint32(data[15])<<24
	assert.Zero(t, (HeaderSize+int(stringTableSize))%4)
}
