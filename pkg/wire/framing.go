// Package wire implements the outer framing of the name-node RPC wire
// protocol: every request and response body is a run of one or more
// length-delimited protobuf messages, the whole run prefixed by a single
// big-endian uint32 byte count. This package only handles that envelope;
// message contents live in pkg/wire/rpcpb.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxFrameSize bounds how large a single incoming frame may declare
// itself to be, guarding against a corrupt or hostile length prefix
// causing an unbounded allocation.
const MaxFrameSize = 64 << 20 // 64 MiB

// WriteGroup writes a message group: a 4-byte big-endian length followed
// by each of msgs, each prefixed by its own varint length (protobuf's
// length-delimited encoding), exactly as send_message_group encodes the
// handshake header + connection context, or a header + method request.
func WriteGroup(w io.Writer, msgs ...[]byte) error {
	var total int
	for _, m := range msgs {
		total += protowire.SizeBytes(len(m))
	}
	if total > MaxFrameSize {
		return fmt.Errorf("wire: outgoing frame of %d bytes exceeds max %d", total, MaxFrameSize)
	}

	header := make([]byte, 4, 4+total)
	binary.BigEndian.PutUint32(header, uint32(total))

	buf := header
	for _, m := range msgs {
		buf = protowire.AppendBytes(buf, m)
	}

	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed frame from r and returns its raw
// payload (the concatenation of length-delimited messages within it),
// without splitting it into individual messages.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("wire: incoming frame of %d bytes exceeds max %d", n, MaxFrameSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SplitDelimited splits a frame payload into its constituent
// length-delimited protobuf messages, in order. It returns an error if
// the payload ends mid-message (an incomplete protobuf record).
func SplitDelimited(payload []byte, count int) ([][]byte, error) {
	out := make([][]byte, 0, count)
	b := payload
	for len(out) < count {
		if len(b) == 0 {
			return nil, fmt.Errorf("wire: incomplete protobuf record: expected %d messages, got %d", count, len(out))
		}
		msg, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, fmt.Errorf("wire: malformed length-delimited record: %w", protowire.ParseError(n))
		}
		out = append(out, msg)
		b = b[n:]
	}
	return out, nil
}
