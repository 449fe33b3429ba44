package packet

// Packet is the common interface every frame variant implements. The
// codec (package frame) deals only in raw payload bytes; Packet is
// the typed layer on top, parsed lazily from those bytes by Parse.
type Packet interface {
	// FrameType returns the one-byte wire discriminant for this variant.
	FrameType() FrameType
	// NeedsFrameID reports whether this variant carries a frame ID
	// that a transmit-status or AT response can correlate against.
	NeedsFrameID() bool
	// FrameID returns the frame ID, or 0 if NeedsFrameID is false or
	// the sender disabled status (0x00).
	FrameID() byte
	// IsBroadcast reports whether this packet targets, or was
	// received as, a broadcast.
	IsBroadcast() bool
	// SerializePayload renders the frame-type byte and all
	// type-specific fields as the raw payload the frame codec wraps.
	SerializePayload() []byte
}

// Parse dispatches on the frame-type byte (raw[0]) to decode raw into
// a typed Packet. Unrecognized frame types decode to UnknownFrame
// rather than erroring, since forward compatibility with newer
// firmware frame types should not break the reader loop.
func Parse(raw []byte) (Packet, error) {
	if len(raw) == 0 {
		return nil, malformed(0, "empty frame")
	}
	t := FrameType(raw[0])
	switch t {
	case TypeATCommand:
		return parseATCommandRequest(raw)
	case TypeATCommandQueue:
		return parseATCommandQueueRequest(raw)
	case TypeRemoteATCommand:
		return parseRemoteATCommandRequest(raw)
	case TypeATCommandResponse:
		return parseATCommandResponse(raw)
	case TypeRemoteATResponse:
		return parseRemoteATCommandResponse(raw)
	case TypeTransmit:
		return parseTransmitRequest(raw)
	case TypeTX64:
		return parseTX64Request(raw)
	case TypeTX16:
		return parseTX16Request(raw)
	case TypeTransmitStatus:
		return parseTransmitStatus(raw)
	case TypeTXStatus:
		return parseTXStatusLegacy(raw)
	case TypeReceive:
		return parseReceiveIndicator(raw)
	case TypeRX64:
		return parseRX64Legacy(raw)
	case TypeRX16:
		return parseRX16Legacy(raw)
	case TypeIOSample:
		return parseIOSampleIndicator(raw)
	case TypeRX64IO:
		return parseRX64IOLegacy(raw)
	case TypeRX16IO:
		return parseRX16IOLegacy(raw)
	case TypeModemStatus:
		return parseModemStatusIndicator(raw)
	case TypeExplicitAddressing:
		return parseExplicitAddressingRequest(raw)
	case TypeExplicitRX:
		return parseExplicitRXIndicator(raw)
	case TypeUserDataRelay:
		return parseUserDataRelayRequest(raw)
	case TypeUserDataRelayOutput:
		return parseUserDataRelayOutput(raw)
	case TypeTXIPv4:
		return parseTXIPv4Request(raw)
	case TypeRXIPv4:
		return parseRXIPv4Indicator(raw)
	case TypeTXSMS:
		return parseTXSMSRequest(raw)
	case TypeRXSMS:
		return parseRXSMSIndicator(raw)
	default:
		cp := make(UnknownFrame, len(raw))
		copy(cp, raw)
		return cp, nil
	}
}

// UnknownFrame carries the raw payload of a frame type this package
// does not model, so the reader can still enqueue/forward it instead
// of dropping it.
type UnknownFrame []byte

func (f UnknownFrame) FrameType() FrameType   { return FrameType(f[0]) }
func (f UnknownFrame) NeedsFrameID() bool     { return false }
func (f UnknownFrame) FrameID() byte          { return 0 }
func (f UnknownFrame) IsBroadcast() bool      { return false }
func (f UnknownFrame) SerializePayload() []byte {
	out := make([]byte, len(f))
	copy(out, f)
	return out
}
