package interp

import "github.com/hassan/astinterp/internal/command"

// arduinoConstants is the fixed constant vocabulary a ConstantNode may
// name, resolved without a scope lookup (spec's worked examples and
// SUPPLEMENTED FEATURES section).
var arduinoConstants = map[string]Value{
	"HIGH":         Int32Value(1),
	"LOW":          Int32Value(0),
	"INPUT":        Int32Value(0),
	"OUTPUT":       Int32Value(1),
	"INPUT_PULLUP": Int32Value(2),
	"A0":           Int32Value(14),
	"A1":           Int32Value(15),
	"A2":           Int32Value(16),
	"A3":           Int32Value(17),
	"A4":           Int32Value(18),
	"A5":           Int32Value(19),
	"true":         BoolValue(true),
	"false":        BoolValue(false),
}

func argAt(args []Value, idx int) Value {
	if idx < len(args) {
		return args[idx]
	}
	return VoidValue()
}

func pinModeName(v Value) string {
	switch v.AsInt() {
	case 1:
		return "OUTPUT"
	case 2:
		return "INPUT_PULLUP"
	default:
		return "INPUT"
	}
}

type builtinFunc func(i *Interpreter, args []Value) (Value, error)

// builtins are the immediate and request/response Arduino API functions
// a bare call (no receiver) may name. An identifier naming a builtin
// resolves before any user function of the same name could — sketches
// don't redefine pinMode/digitalWrite/etc (spec §4.3.3 resolution order).
var builtins = map[string]builtinFunc{
	"pinMode": func(i *Interpreter, args []Value) (Value, error) {
		pin := int(argAt(args, 0).AsInt())
		i.emitter.Emit(command.PinMode, command.PinModePayload{Pin: pin, Mode: pinModeName(argAt(args, 1))})
		return VoidValue(), nil
	},
	"digitalWrite": func(i *Interpreter, args []Value) (Value, error) {
		pin := int(argAt(args, 0).AsInt())
		val := int(argAt(args, 1).AsInt())
		i.emitter.Emit(command.DigitalWrite, command.DigitalWritePayload{Pin: pin, Value: val})
		return VoidValue(), nil
	},
	"analogWrite": func(i *Interpreter, args []Value) (Value, error) {
		pin := int(argAt(args, 0).AsInt())
		val := int(argAt(args, 1).AsInt())
		i.emitter.Emit(command.AnalogWrite, command.AnalogWritePayload{Pin: pin, Value: val})
		return VoidValue(), nil
	},
	"digitalRead": func(i *Interpreter, args []Value) (Value, error) {
		pin := int(argAt(args, 0).AsInt())
		v, ok := i.awaitResponse("digitalRead", func(requestID string) command.Command {
			return i.emitter.Emit(command.DigitalReadRequest, command.DigitalReadRequestPayload{Pin: pin, RequestID: requestID})
		})
		if !ok {
			return Value{}, errStopped
		}
		return v, nil
	},
	"analogRead": func(i *Interpreter, args []Value) (Value, error) {
		pin := int(argAt(args, 0).AsInt())
		v, ok := i.awaitResponse("analogRead", func(requestID string) command.Command {
			return i.emitter.Emit(command.AnalogReadRequest, command.AnalogReadRequestPayload{Pin: pin, RequestID: requestID})
		})
		if !ok {
			return Value{}, errStopped
		}
		return v, nil
	},
	"millis": func(i *Interpreter, args []Value) (Value, error) {
		v, ok := i.awaitResponse("millis", func(requestID string) command.Command {
			return i.emitter.Emit(command.MillisRequest, command.MillisRequestPayload{RequestID: requestID})
		})
		if !ok {
			return Value{}, errStopped
		}
		return v, nil
	},
	"micros": func(i *Interpreter, args []Value) (Value, error) {
		v, ok := i.awaitResponse("micros", func(requestID string) command.Command {
			return i.emitter.Emit(command.MicrosRequest, command.MicrosRequestPayload{RequestID: requestID})
		})
		if !ok {
			return Value{}, errStopped
		}
		return v, nil
	},
	"delay": func(i *Interpreter, args []Value) (Value, error) {
		i.emitter.Emit(command.Delay, command.DelayPayload{Duration: argAt(args, 0).AsInt()})
		return VoidValue(), nil
	},
	"delayMicroseconds": func(i *Interpreter, args []Value) (Value, error) {
		i.emitter.Emit(command.DelayMicroseconds, command.DelayMicrosecondsPayload{Duration: argAt(args, 0).AsInt()})
		return VoidValue(), nil
	},
}

// serialMethods covers Serial.* calls, which spec §4.4 models as
// immediate commands rather than request/response: the host never needs
// to answer Serial.print back with a value, only record that it
// happened.
var serialMethods = map[string]builtinFunc{
	"begin": func(i *Interpreter, args []Value) (Value, error) {
		i.emitter.Emit(command.SerialBegin, command.SerialBeginPayload{BaudRate: int(argAt(args, 0).AsInt())})
		return VoidValue(), nil
	},
	"print": func(i *Interpreter, args []Value) (Value, error) {
		i.emitter.Emit(command.SerialPrint, command.SerialPrintPayload{Data: argAt(args, 0).GoString()})
		return VoidValue(), nil
	},
	"println": func(i *Interpreter, args []Value) (Value, error) {
		i.emitter.Emit(command.SerialPrintln, command.SerialPrintlnPayload{Data: argAt(args, 0).GoString()})
		return VoidValue(), nil
	},
}
