// Package rpcpb hand-rolls the subset of the name-node ClientProtocol and
// common RPC protobuf messages this client speaks, encoding and decoding
// them directly against the protobuf wire format (tag/varint/length-
// delimited records) via google.golang.org/protobuf/encoding/protowire.
// There is no .proto source and no generated code: every message is a
// plain Go struct with hand-written Marshal/Unmarshal methods, the way a
// client that cannot run protoc still needs to speak the wire format.
package rpcpb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// rangeFields walks every field in a serialized protobuf message and
// invokes fn with its tag number, wire type, and the remainder of the
// buffer positioned at the start of its value. fn must return how many
// bytes of that value it consumed; returning 0 (or not recognizing the
// field) safely skips it via protowire's own field-skipping logic so
// unknown/future fields never abort decoding.
func rangeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("rpcpb: malformed tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		consumed, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if consumed == 0 {
			consumed = protowire.ConsumeFieldValue(num, typ, b)
			if consumed < 0 {
				return fmt.Errorf("rpcpb: malformed field %d: %w", num, protowire.ParseError(consumed))
			}
		}
		b = b[consumed:]
	}
	return nil
}

func consumeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("rpcpb: malformed varint: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return "", 0, fmt.Errorf("rpcpb: malformed string: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("rpcpb: malformed bytes: %w", protowire.ParseError(n))
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, n, nil
}
