package compactast

import "math"

func float32bits(f float64) uint32 { return math.Float32bits(float32(f)) }
func float64bits(f float64) uint64 { return math.Float64bits(f) }

func float32frombits(b uint32) float64 { return float64(math.Float32frombits(b)) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }
