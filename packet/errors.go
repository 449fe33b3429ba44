package packet

import "fmt"

// MalformedPacketError reports a frame whose payload could not be
// parsed into a typed packet: too short, an unrecognized frame type,
// or a field with an invalid value.
type MalformedPacketError struct {
	Type   FrameType
	Reason string
}

func (e *MalformedPacketError) Error() string {
	return fmt.Sprintf("packet: malformed %s frame: %s", e.Type, e.Reason)
}

func malformed(t FrameType, format string, args ...interface{}) error {
	return &MalformedPacketError{Type: t, Reason: fmt.Sprintf(format, args...)}
}
