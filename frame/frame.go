// Package frame implements the XBee API frame wire format: the
// delimiter/length/payload/checksum envelope and the reserved-byte
// escaping discipline used in API-escaped mode (AP=2).
package frame

import (
	"bufio"
	"errors"
	"io"
)

// Delimiter marks the start of every API frame on the wire.
const Delimiter byte = 0x7E

const (
	escapeByte byte = 0x7D
	xon        byte = 0x11
	xoff       byte = 0x13
	escapeXOR  byte = 0x20
)

// ErrBadChecksum is returned when a frame's checksum byte does not
// validate against its payload.
var ErrBadChecksum = errors.New("frame: bad checksum")

// ErrTruncated is returned when fewer bytes than the declared length
// are available to satisfy a frame.
var ErrTruncated = errors.New("frame: truncated")

func needsEscape(b byte) bool {
	switch b {
	case Delimiter, escapeByte, xon, xoff:
		return true
	}
	return false
}

// Checksum computes the single checksum byte for payload per the
// XBee API: 0xFF minus the low byte of the sum of the payload bytes.
func Checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return 0xFF - sum
}

// Encode serializes payload as a complete API frame: delimiter,
// big-endian 16-bit length, payload, checksum. When escaped is true,
// every byte after the delimiter that collides with a reserved value
// (0x7E, 0x7D, 0x11, 0x13) is replaced with the two-byte escape
// sequence 0x7D, b^0x20.
func Encode(payload []byte, escaped bool) []byte {
	length := len(payload)
	cksum := Checksum(payload)

	body := make([]byte, 0, length+3)
	body = append(body, byte(length>>8), byte(length&0xFF))
	body = append(body, payload...)
	body = append(body, cksum)

	if !escaped {
		out := make([]byte, 0, len(body)+1)
		out = append(out, Delimiter)
		return append(out, body...)
	}

	out := make([]byte, 1, len(body)*2+1)
	out[0] = Delimiter
	for _, b := range body {
		if needsEscape(b) {
			out = append(out, escapeByte, b^escapeXOR)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// DecodeFrame parses one complete, already-delimited frame (the bytes
// starting right after the leading 0x7E) out of a fully-buffered
// escaped or plain byte slice. It's used for one-shot decode of a
// single known frame, e.g. in encode/decode roundtrip tests; the
// streaming Decoder below is what the reader uses against a live
// transport.
func DecodeFrame(body []byte, escaped bool) (payload []byte, err error) {
	unescaped := body
	if escaped {
		unescaped, err = unescapeAll(body)
		if err != nil {
			return nil, err
		}
	}
	if len(unescaped) < 3 {
		return nil, ErrTruncated
	}
	length := int(unescaped[0])<<8 | int(unescaped[1])
	if len(unescaped) < 2+length+1 {
		return nil, ErrTruncated
	}
	payload = unescaped[2 : 2+length]
	cksum := unescaped[2+length]
	var sum byte
	for _, b := range payload {
		sum += b
	}
	sum += cksum
	if sum != 0xFF {
		return nil, ErrBadChecksum
	}
	return payload, nil
}

func unescapeAll(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == escapeByte {
			i++
			if i >= len(b) {
				return nil, ErrTruncated
			}
			out = append(out, b[i]^escapeXOR)
			continue
		}
		out = append(out, b[i])
	}
	return out, nil
}

// Decoder is a reentrant, resynchronizing reader of API frames from a
// byte stream. It resyncs to the next delimiter, reads a length
// prefix, payload and checksum (unescaping as it goes when Escaped is
// set), and verifies the checksum. A bad checksum is logged-and-
// skipped by the caller (Next retries internally); a genuine
// transport error is returned unchanged so the caller's read loop can
// exit.
type Decoder struct {
	r       *bufio.Reader
	Escaped bool

	// OnBadChecksum, when set, is invoked (with no arguments) every
	// time a frame fails its checksum and is discarded, letting the
	// caller log without the decoder itself taking a logging
	// dependency.
	OnBadChecksum func()

	// OnSkipByte, when set, is invoked for every byte consumed while
	// resynchronizing to the next delimiter. The transport may carry
	// non-frame bytes outside of API mode (transparent-mode replies
	// to the "+++" command-mode probe, for instance); this lets a
	// caller observe them without the decoder itself understanding
	// anything about that protocol.
	OnSkipByte func(b byte)
}

// NewDecoder wraps r in a buffered, resynchronizing frame reader.
func NewDecoder(r io.Reader, escaped bool) *Decoder {
	return &Decoder{r: bufio.NewReader(r), Escaped: escaped}
}

// Next blocks until it has decoded one full frame's payload, or a
// non-recoverable transport error (including io.EOF) occurs. Checksum
// failures are transparently discarded and retried: the decoder has
// already consumed exactly the declared frame length, so the next
// delimiter search starts right where the failed frame ended.
func (d *Decoder) Next() ([]byte, error) {
	for {
		payload, err := d.next()
		if err == nil {
			return payload, nil
		}
		if errors.Is(err, ErrBadChecksum) {
			if d.OnBadChecksum != nil {
				d.OnBadChecksum()
			}
			continue
		}
		return nil, err
	}
}

func (d *Decoder) next() ([]byte, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == Delimiter {
			break
		}
		if d.OnSkipByte != nil {
			d.OnSkipByte(b)
		}
	}
	lenHi, err := d.readByte()
	if err != nil {
		return nil, err
	}
	lenLo, err := d.readByte()
	if err != nil {
		return nil, err
	}
	length := int(lenHi)<<8 | int(lenLo)
	payload := make([]byte, length)
	for i := 0; i < length; i++ {
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		payload[i] = b
	}
	cksum, err := d.readByte()
	if err != nil {
		return nil, err
	}
	var sum byte
	for _, b := range payload {
		sum += b
	}
	sum += cksum
	if sum != 0xFF {
		return nil, ErrBadChecksum
	}
	return payload, nil
}

// readByte reads one logical (post-unescape) byte from the stream.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if d.Escaped && b == escapeByte {
		b2, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		return b2 ^ escapeXOR, nil
	}
	return b, nil
}
