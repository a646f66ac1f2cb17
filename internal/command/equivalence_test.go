package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquivalent_IgnoresTimestampAndRequestID(t *testing.T) {
	a := []Command{
		{Type: DigitalReadRequest, Timestamp: 1, Payload: DigitalReadRequestPayload{Pin: 14, RequestID: "abc-123"}},
	}
	b := []Command{
		{Type: DigitalReadRequest, Timestamp: 99, Payload: DigitalReadRequestPayload{Pin: 14, RequestID: "xyz-789"}},
	}
	assert.True(t, Equivalent(a, b))
}

func TestEquivalent_NumericFormattingDoesNotMatter(t *testing.T) {
	a := []Command{{Type: VarSet, Payload: VarSetPayload{Variable: "v", Value: 10}}}
	b := []Command{{Type: VarSet, Payload: VarSetPayload{Variable: "v", Value: int64(10)}}}
	assert.True(t, Equivalent(a, b))
}

func TestEquivalent_DifferentPinIsNotEquivalent(t *testing.T) {
	a := []Command{{Type: DigitalWrite, Payload: DigitalWritePayload{Pin: 13, Value: 1}}}
	b := []Command{{Type: DigitalWrite, Payload: DigitalWritePayload{Pin: 14, Value: 1}}}
	assert.False(t, Equivalent(a, b))
}

func TestEquivalent_DifferentLengthIsNotEquivalent(t *testing.T) {
	a := []Command{{Type: ProgramStart}}
	b := []Command{{Type: ProgramStart}, {Type: ProgramEnd}}
	assert.False(t, Equivalent(a, b))
}

func TestEquivalent_OrderMatters(t *testing.T) {
	a := []Command{{Type: ProgramStart}, {Type: ProgramEnd}}
	b := []Command{{Type: ProgramEnd}, {Type: ProgramStart}}
	assert.False(t, Equivalent(a, b))
}

func TestNormalize_ReplacesRequestIDWithPlaceholder(t *testing.T) {
	n := Normalize([]Command{
		{Type: MillisRequest, Payload: MillisRequestPayload{RequestID: "r1"}},
	})
	payload := n[0]["payload"].(map[string]interface{})
	assert.Equal(t, requestIDPlaceholder, payload["RequestID"])
}
