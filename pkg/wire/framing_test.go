package wire

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/protobuf/encoding/protowire"
)

func appendString(tag protowire.Number, s string) []byte {
	var b []byte
	b = protowire.AppendTag(b, tag, protowire.BytesType)
	b = protowire.AppendString(b, s)
	return b
}

func TestWriteGroupThenReadFrameRoundTrips(t *testing.T) {
	msg1 := appendString(1, "header")
	msg2 := appendString(1, "body")

	var buf bytes.Buffer
	require.NoError(t, WriteGroup(&buf, msg1, msg2))

	payload, err := ReadFrame(&buf)
	require.NoError(t, err)

	msgs, err := SplitDelimited(payload, 2)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, msg1, msgs[0])
	assert.Equal(t, msg2, msgs[1])
}

// TestFramingConsumesExactlyThePrefixedByteCount asserts the framing
// invariant from spec §8: the number of bytes consumed reading one
// response group equals exactly the 32-bit length prefix, no more and
// no less, even when extra bytes follow in the stream.
func TestFramingConsumesExactlyThePrefixedByteCount(t *testing.T) {
	msg := appendString(1, "payload")

	var buf bytes.Buffer
	require.NoError(t, WriteGroup(&buf, msg))
	prefixedLen := protowire.SizeBytes(len(msg))

	trailer := []byte("next-frame-sentinel")
	buf.Write(trailer)

	payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Len(t, payload, prefixedLen)
	assert.Equal(t, trailer, buf.Bytes())
}

func TestReadFrameRejectsOversizedPrefix(t *testing.T) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], MaxFrameSize+1)
	r := bytes.NewReader(lenBuf[:])

	_, err := ReadFrame(r)
	assert.Error(t, err)
}

func TestSplitDelimitedErrorsOnIncompleteRecord(t *testing.T) {
	msg := appendString(1, "only-one")

	_, err := SplitDelimited(msg, 2)
	assert.Error(t, err)
}

func TestWriteGroupRejectsOversizedGroup(t *testing.T) {
	huge := make([]byte, MaxFrameSize+1)
	var buf bytes.Buffer
	err := WriteGroup(&buf, huge)
	assert.Error(t, err)
}
