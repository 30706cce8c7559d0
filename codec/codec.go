// Package codec converts between message.Message and raw OSC datagram bytes.
//
// Encode and Decode are exact inverses over well-formed messages: every
// packet Encode produces round-trips through Decode to an equal Message,
// with integer/float and 32/64-bit distinctions preserved. Decode never
// panics on adversarial input; a malformed packet yields an error wrapping
// ErrMalformedPacket so the listener loop can log and drop it.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"liveosc/message"
	"liveosc/protocol"
)

// ErrUnsupportedType reports an argument Encode cannot represent on the wire.
var ErrUnsupportedType = errors.New("unsupported argument type")

// ErrBadAddress reports an address Encode cannot represent on the wire.
var ErrBadAddress = errors.New("invalid address")

// ErrMalformedPacket reports an inbound datagram that is not a valid OSC message.
var ErrMalformedPacket = errors.New("malformed packet")

// Encode serializes msg into a single-datagram OSC packet.
//
// OSC strings are NUL-terminated, so addresses and string arguments must be
// NUL-free; Encode rejects them rather than emit bytes that would decode to
// something shorter.
func Encode(msg *message.Message) ([]byte, error) {
	if !strings.HasPrefix(msg.Address, "/") {
		return nil, fmt.Errorf("address %q must start with '/': %w", msg.Address, ErrBadAddress)
	}
	if strings.ContainsRune(msg.Address, 0) {
		return nil, fmt.Errorf("address %q contains NUL: %w", msg.Address, ErrBadAddress)
	}

	// Build the type tag string first; booleans live only in the tags.
	tags := make([]byte, 0, len(msg.Arguments)+1)
	tags = append(tags, ',')
	for i, arg := range msg.Arguments {
		switch v := arg.(type) {
		case int32:
			tags = append(tags, protocol.TagInt32)
		case int64:
			tags = append(tags, protocol.TagInt64)
		case float32:
			tags = append(tags, protocol.TagFloat32)
		case float64:
			tags = append(tags, protocol.TagFloat64)
		case string:
			if strings.ContainsRune(v, 0) {
				return nil, fmt.Errorf("argument %d of %q contains NUL: %w", i, msg.Address, ErrUnsupportedType)
			}
			tags = append(tags, protocol.TagString)
		case bool:
			if v {
				tags = append(tags, protocol.TagTrue)
			} else {
				tags = append(tags, protocol.TagFalse)
			}
		default:
			return nil, fmt.Errorf("argument %d of %q is %T: %w", i, msg.Address, arg, ErrUnsupportedType)
		}
	}

	buf := protocol.WriteString(nil, msg.Address)
	buf = protocol.WriteString(buf, string(tags))
	for _, arg := range msg.Arguments {
		switch v := arg.(type) {
		case int32:
			buf = protocol.WriteInt32(buf, v)
		case int64:
			buf = protocol.WriteInt64(buf, v)
		case float32:
			buf = protocol.WriteFloat32(buf, v)
		case float64:
			buf = protocol.WriteFloat64(buf, v)
		case string:
			buf = protocol.WriteString(buf, v)
		case bool:
			// No argument data.
		}
	}
	return buf, nil
}

// Decode parses a single-datagram OSC packet into a Message.
func Decode(data []byte) (*message.Message, error) {
	addr, offset, err := protocol.ReadString(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: address: %w", ErrMalformedPacket, err)
	}
	if strings.HasPrefix(addr, "#") {
		// OSC bundles are never sent by AbletonOSC; refuse rather than misparse.
		return nil, fmt.Errorf("%w: bundle packets are not supported", ErrMalformedPacket)
	}
	if !strings.HasPrefix(addr, "/") {
		return nil, fmt.Errorf("%w: address %q must start with '/'", ErrMalformedPacket, addr)
	}

	tags, offset, err := protocol.ReadString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: type tags: %w", ErrMalformedPacket, err)
	}
	if len(tags) == 0 || tags[0] != ',' {
		return nil, fmt.Errorf("%w: type tag string %q must start with ','", ErrMalformedPacket, tags)
	}

	args := make(message.Arguments, 0, len(tags)-1)
	for _, tag := range []byte(tags[1:]) {
		var arg any
		switch tag {
		case protocol.TagInt32:
			arg, offset, err = readInt32(data, offset)
		case protocol.TagInt64:
			arg, offset, err = readInt64(data, offset)
		case protocol.TagFloat32:
			arg, offset, err = readFloat32(data, offset)
		case protocol.TagFloat64:
			arg, offset, err = readFloat64(data, offset)
		case protocol.TagString:
			arg, offset, err = readString(data, offset)
		case protocol.TagTrue:
			arg = true
		case protocol.TagFalse:
			arg = false
		default:
			return nil, fmt.Errorf("%w: unknown type tag %q", ErrMalformedPacket, tag)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q: %w", ErrMalformedPacket, tag, err)
		}
		args = append(args, arg)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after arguments", ErrMalformedPacket, len(data)-offset)
	}
	return &message.Message{Address: addr, Arguments: args}, nil
}

// The read helpers below exist only to give the tag switch a uniform
// (any, int, error) shape.

func readInt32(data []byte, offset int) (any, int, error) {
	v, next, err := protocol.ReadInt32(data, offset)
	return v, next, err
}

func readInt64(data []byte, offset int) (any, int, error) {
	v, next, err := protocol.ReadInt64(data, offset)
	return v, next, err
}

func readFloat32(data []byte, offset int) (any, int, error) {
	v, next, err := protocol.ReadFloat32(data, offset)
	return v, next, err
}

func readFloat64(data []byte, offset int) (any, int, error) {
	v, next, err := protocol.ReadFloat64(data, offset)
	return v, next, err
}

func readString(data []byte, offset int) (any, int, error) {
	v, next, err := protocol.ReadString(data, offset)
	return v, next, err
}
