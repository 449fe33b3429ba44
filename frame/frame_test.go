package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	payload := []byte{0x08, 0x01, 'N', 'I'}
	cksum := Checksum(payload)
	var sum byte
	for _, b := range payload {
		sum += b
	}
	assert.EqualValues(t, 0xFF, sum+cksum)
}

func TestEncodePlain(t *testing.T) {
	// S1 from spec: AT NI request, frame id 0x01.
	payload := []byte{0x08, 0x01, 'N', 'I'}
	got := Encode(payload, false)
	want := []byte{0x7E, 0x00, 0x04, 0x08, 0x01, 'N', 'I', 0x5F}
	assert.Equal(t, want, got)
}

func TestEncodeEscapedReservedBytes(t *testing.T) {
	// S2-like: a payload containing 0x7E and 0x11 must come out escaped,
	// and the length/checksum bytes themselves are subject to escaping too.
	payload := []byte{0x7E, 0x11, 0x13, 0x7D}
	out := Encode(payload, true)
	require.Equal(t, Delimiter, out[0])
	rest := out[1:]
	for i := 0; i < len(rest); i++ {
		if rest[i] == escapeByte {
			require.Less(t, i+1, len(rest))
			unescaped := rest[i+1] ^ escapeXOR
			assert.Contains(t, []byte{Delimiter, escapeByte, xon, xoff}, unescaped)
			i++
			continue
		}
		assert.NotEqual(t, Delimiter, rest[i])
	}
}

func TestEscapeReversibility(t *testing.T) {
	for _, payload := range [][]byte{
		{},
		{0x00},
		{0x7E, 0x7D, 0x11, 0x13},
		bytes.Repeat([]byte{0xAA, 0x7E, 0x55, 0x7D}, 20),
	} {
		encoded := Encode(payload, true)
		decoded, err := DecodeFrame(encoded[1:], true)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	}
}

func TestRoundtripPlainAndEscaped(t *testing.T) {
	payloads := [][]byte{
		{0x88, 0x01, 'N', 'I', 0x00, 'R', 'o', 'u', 't', 'e'},
		{0x8B, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00},
		make([]byte, 300),
	}
	for _, p := range payloads {
		for _, escaped := range []bool{false, true} {
			encoded := Encode(p, escaped)
			decoded, err := DecodeFrame(encoded[1:], escaped)
			require.NoError(t, err)
			assert.Equal(t, p, decoded)
		}
	}
}

func TestDecoderResyncsOnBadChecksum(t *testing.T) {
	good := Encode([]byte{0x08, 0x01, 'N', 'I'}, false)
	corrupt := Encode([]byte{0x08, 0x02, 'N', 'I'}, false)
	corrupt[len(corrupt)-1] ^= 0xFF // break the checksum

	stream := append(append([]byte{}, corrupt...), good...)
	var gotBad int
	dec := NewDecoder(bytes.NewReader(stream), false)
	dec.OnBadChecksum = func() { gotBad++ }

	payload, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01, 'N', 'I'}, payload)
	assert.Equal(t, 1, gotBad)
}

func TestDecoderStreamEOF(t *testing.T) {
	dec := NewDecoder(bytes.NewReader(nil), false)
	_, err := dec.Next()
	assert.Error(t, err)
}

func TestDecodeFrameTruncated(t *testing.T) {
	_, err := DecodeFrame([]byte{0x00, 0x04, 0x08}, false)
	assert.ErrorIs(t, err, ErrTruncated)
}
