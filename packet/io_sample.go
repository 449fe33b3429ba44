package packet

import "encoding/binary"

// IOSample is the decoded body shared by the modern and legacy I/O
// sample indicators: a digital channel bitmask with one combined
// sample word, plus one 10-bit analog sample per set analog channel.
type IOSample struct {
	DigitalMask    uint16
	AnalogMask     byte
	DigitalSamples uint16 // valid only if DigitalMask != 0
	AnalogSamples  []uint16
}

// DigitalSet reports whether digital channel ch's bit is present in
// this sample.
func (s IOSample) DigitalSet(ch uint) bool {
	return s.DigitalMask&(1<<ch) != 0
}

// DigitalHigh reports the level of digital channel ch, valid only
// when DigitalSet(ch) is true.
func (s IOSample) DigitalHigh(ch uint) bool {
	return s.DigitalSamples&(1<<ch) != 0
}

// AnalogValue returns the sample for analog channel ch and whether it
// was present in this indicator.
func (s IOSample) AnalogValue(ch uint) (uint16, bool) {
	if s.AnalogMask&(1<<ch) == 0 {
		return 0, false
	}
	idx := 0
	for c := uint(0); c < ch; c++ {
		if s.AnalogMask&(1<<c) != 0 {
			idx++
		}
	}
	if idx >= len(s.AnalogSamples) {
		return 0, false
	}
	return s.AnalogSamples[idx], true
}

func decodeIOSample(b []byte) (IOSample, []byte, error) {
	if len(b) < 4 {
		return IOSample{}, nil, malformed(TypeIOSample, "io sample header too short")
	}
	sampleCount := b[0] // always 1 on current firmware, kept for wire fidelity
	_ = sampleCount
	digitalMask := binary.BigEndian.Uint16(b[1:3])
	analogMask := b[3]
	rest := b[4:]

	var s IOSample
	s.DigitalMask = digitalMask
	s.AnalogMask = analogMask

	if digitalMask != 0 {
		if len(rest) < 2 {
			return IOSample{}, nil, malformed(TypeIOSample, "missing digital sample word")
		}
		s.DigitalSamples = binary.BigEndian.Uint16(rest[:2])
		rest = rest[2:]
	}
	for ch := uint(0); ch < 8; ch++ {
		if analogMask&(1<<ch) == 0 {
			continue
		}
		if len(rest) < 2 {
			return IOSample{}, nil, malformed(TypeIOSample, "missing analog sample for channel %d", ch)
		}
		s.AnalogSamples = append(s.AnalogSamples, binary.BigEndian.Uint16(rest[:2]))
		rest = rest[2:]
	}
	return s, rest, nil
}

func encodeIOSample(s IOSample) []byte {
	out := make([]byte, 4)
	out[0] = 1
	binary.BigEndian.PutUint16(out[1:3], s.DigitalMask)
	out[3] = s.AnalogMask
	if s.DigitalMask != 0 {
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, s.DigitalSamples)
		out = append(out, buf...)
	}
	for _, v := range s.AnalogSamples {
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, v)
		out = append(out, buf...)
	}
	return out
}

// IOSampleIndicator is the modern I/O data sample RX frame.
type IOSampleIndicator struct {
	Source64 A64
	Source16 A16
	Options  ReceiveOption
	Sample   IOSample
}

func (p *IOSampleIndicator) FrameType() FrameType { return TypeIOSample }
func (p *IOSampleIndicator) NeedsFrameID() bool    { return false }
func (p *IOSampleIndicator) FrameID() byte         { return 0 }
func (p *IOSampleIndicator) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *IOSampleIndicator) SerializePayload() []byte {
	out := make([]byte, 0, 12)
	out = append(out, byte(TypeIOSample))
	out = append(out, p.Source64.Bytes()...)
	out = append(out, p.Source16.Bytes()...)
	out = append(out, byte(p.Options))
	return append(out, encodeIOSample(p.Sample)...)
}

func parseIOSampleIndicator(raw []byte) (Packet, error) {
	if len(raw) < 12 {
		return nil, malformed(TypeIOSample, "short frame (%d bytes)", len(raw))
	}
	sample, _, err := decodeIOSample(raw[12:])
	if err != nil {
		return nil, err
	}
	return &IOSampleIndicator{
		Source64: NewA64(raw[1:9]),
		Source16: NewA16(raw[9:11]),
		Options:  ReceiveOption(raw[11]),
		Sample:   sample,
	}, nil
}

// RX64IOLegacy is the legacy 64-bit-addressed I/O sample frame.
type RX64IOLegacy struct {
	Source64 A64
	RSSI     byte
	Options  ReceiveOption
	Sample   IOSample
}

func (p *RX64IOLegacy) FrameType() FrameType { return TypeRX64IO }
func (p *RX64IOLegacy) NeedsFrameID() bool    { return false }
func (p *RX64IOLegacy) FrameID() byte         { return 0 }
func (p *RX64IOLegacy) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *RX64IOLegacy) SerializePayload() []byte {
	out := make([]byte, 0, 11)
	out = append(out, byte(TypeRX64IO))
	out = append(out, p.Source64.Bytes()...)
	out = append(out, p.RSSI, byte(p.Options))
	return append(out, encodeIOSample(p.Sample)...)
}

func parseRX64IOLegacy(raw []byte) (Packet, error) {
	if len(raw) < 11 {
		return nil, malformed(TypeRX64IO, "short frame (%d bytes)", len(raw))
	}
	sample, _, err := decodeIOSample(raw[11:])
	if err != nil {
		return nil, err
	}
	return &RX64IOLegacy{
		Source64: NewA64(raw[1:9]),
		RSSI:     raw[9],
		Options:  ReceiveOption(raw[10]),
		Sample:   sample,
	}, nil
}

// RX16IOLegacy is the legacy 16-bit-addressed I/O sample frame.
type RX16IOLegacy struct {
	Source16 A16
	RSSI     byte
	Options  ReceiveOption
	Sample   IOSample
}

func (p *RX16IOLegacy) FrameType() FrameType { return TypeRX16IO }
func (p *RX16IOLegacy) NeedsFrameID() bool    { return false }
func (p *RX16IOLegacy) FrameID() byte         { return 0 }
func (p *RX16IOLegacy) IsBroadcast() bool     { return p.Options.Broadcast() }

func (p *RX16IOLegacy) SerializePayload() []byte {
	out := make([]byte, 0, 5)
	out = append(out, byte(TypeRX16IO))
	out = append(out, p.Source16.Bytes()...)
	out = append(out, p.RSSI, byte(p.Options))
	return append(out, encodeIOSample(p.Sample)...)
}

func parseRX16IOLegacy(raw []byte) (Packet, error) {
	if len(raw) < 5 {
		return nil, malformed(TypeRX16IO, "short frame (%d bytes)", len(raw))
	}
	sample, _, err := decodeIOSample(raw[5:])
	if err != nil {
		return nil, err
	}
	return &RX16IOLegacy{
		Source16: NewA16(raw[1:3]),
		RSSI:     raw[3],
		Options:  ReceiveOption(raw[4]),
		Sample:   sample,
	}, nil
}
