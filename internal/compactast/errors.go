package compactast

import "errors"

// Format error kinds (spec §7). These are fatal to the whole decode — the
// decoder never returns a partially-built tree.
var (
	ErrInvalidMagic         = errors.New("compactast: invalid magic")
	ErrUnsupportedVersion   = errors.New("compactast: unsupported version")
	ErrTruncatedBuffer      = errors.New("compactast: truncated buffer")
	ErrCorruptStringTable   = errors.New("compactast: corrupt string table")
	ErrInvalidNodeType      = errors.New("compactast: invalid node type")
	ErrChildIndexOutOfRange = errors.New("compactast: child index out of range")
	ErrRootUsedAsChild      = errors.New("compactast: root node used as a child")
)
