// Package message defines the OSC message exchanged with Ableton Live.
//
// Message is the "envelope" for every command, query, response, and change
// notification. It gets serialized by the codec layer and carried one message
// per UDP datagram.
package message

import "fmt"

// Message carries the data for a single OSC message.
//
//   - On command/query: Address names the remote operation (e.g., "/live/song/get/tempo"),
//     Arguments holds the operation parameters.
//   - On response/notification: Address is the property address, Arguments holds the values.
//
// Messages are immutable after construction: New copies its input and callers
// must not mutate Arguments afterwards.
type Message struct {
	Address   string    // Hierarchical slash-delimited path, e.g., "/live/song/set/tempo"
	Arguments Arguments // Ordered typed arguments; position and type carry meaning
}

// New builds a Message with canonicalized argument types.
//
// Accepted argument types are Go integers (canonicalized to int32, or int64
// when the value does not fit in 32 bits), float32, float64, string, and bool.
// Any other type is rejected here so a bad argument fails at the call site
// rather than inside the listener goroutine.
func New(address string, args ...any) (*Message, error) {
	canonical := make(Arguments, 0, len(args))
	for i, arg := range args {
		c, err := canonicalize(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i, address, err)
		}
		canonical = append(canonical, c)
	}
	return &Message{Address: address, Arguments: canonical}, nil
}

// canonicalize maps a caller-supplied argument onto the wire-representable
// types. Integer and floating-point values stay distinct, and 32-bit and
// 64-bit widths stay distinct, because argument position and type are how
// callers interpret responses.
func canonicalize(arg any) (any, error) {
	switch v := arg.(type) {
	case int32, int64, float32, float64, string, bool:
		return v, nil
	case int:
		if v >= -1<<31 && v < 1<<31 {
			return int32(v), nil
		}
		return int64(v), nil
	case int8:
		return int32(v), nil
	case int16:
		return int32(v), nil
	case uint8:
		return int32(v), nil
	case uint16:
		return int32(v), nil
	case uint32:
		return int64(v), nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", arg)
	}
}

// Arguments is the ordered argument list of a Message.
//
// The accessor methods coerce within a numeric kind the way the wrapper layer
// expects (a tempo arrives as float32 or float64 depending on the remote, a
// track count as int32), while refusing cross-kind coercion.
type Arguments []any

// Int returns the argument at index i as an int64.
func (a Arguments) Int(i int) (int64, error) {
	if i < 0 || i >= len(a) {
		return 0, fmt.Errorf("argument index %d out of range (have %d)", i, len(a))
	}
	switch v := a[i].(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("argument %d is %T, not an integer", i, a[i])
	}
}

// Float returns the argument at index i as a float64.
func (a Arguments) Float(i int) (float64, error) {
	if i < 0 || i >= len(a) {
		return 0, fmt.Errorf("argument index %d out of range (have %d)", i, len(a))
	}
	switch v := a[i].(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("argument %d is %T, not a float", i, a[i])
	}
}

// String returns the argument at index i as a string.
func (a Arguments) String(i int) (string, error) {
	if i < 0 || i >= len(a) {
		return "", fmt.Errorf("argument index %d out of range (have %d)", i, len(a))
	}
	s, ok := a[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d is %T, not a string", i, a[i])
	}
	return s, nil
}

// Bool returns the argument at index i as a bool. Integer 0/1 is accepted
// because the remote reports several boolean properties as ints.
func (a Arguments) Bool(i int) (bool, error) {
	if i < 0 || i >= len(a) {
		return false, fmt.Errorf("argument index %d out of range (have %d)", i, len(a))
	}
	switch v := a[i].(type) {
	case bool:
		return v, nil
	case int32:
		return v != 0, nil
	case int64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("argument %d is %T, not a bool", i, a[i])
	}
}
