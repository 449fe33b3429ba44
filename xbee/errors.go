package xbee

import (
	"errors"
	"fmt"

	"github.com/xbee-go/xbeeapi/packet"
)

// Sentinel errors for session lifecycle violations, matching the
// teacher's package-level Err* declarations in xbee.go.
var (
	ErrAlreadyOpen     = errors.New("xbee: session already open")
	ErrInterfaceClosed = errors.New("xbee: interface closed")
	ErrAuthFailure     = errors.New("xbee: BLE authentication failed")
)

// InvalidArgumentError reports a caller-supplied value out of range.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("xbee: invalid argument %s: %s", e.Argument, e.Reason)
}

// InvalidModeError reports that the operating mode is UNKNOWN or AT
// when API framing is required.
type InvalidModeError struct {
	Mode OperatingMode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("xbee: invalid operating mode %s, API mode required", e.Mode)
}

// TimeoutError reports that no matching response arrived within the
// configured window.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("xbee: timeout waiting for %s", e.Op)
}

func (e *TimeoutError) Timeout() bool { return true }

// TransmitFailedError wraps a non-success delivery status.
type TransmitFailedError struct {
	Status packet.DeliveryStatus
}

func (e *TransmitFailedError) Error() string {
	return fmt.Sprintf("xbee: transmit failed: %s", e.Status)
}

// ATCommandError wraps a non-OK AT command status.
type ATCommandError struct {
	Command packet.ATCommand
	Status  packet.CommandStatus
}

func (e *ATCommandError) Error() string {
	return fmt.Sprintf("xbee: AT command %s returned %s", e.Command, e.Status)
}

// ATCommandEmptyError reports an OK response with no payload where a
// value was expected.
type ATCommandEmptyError struct {
	Command packet.ATCommand
}

func (e *ATCommandEmptyError) Error() string {
	return fmt.Sprintf("xbee: AT command %s returned an empty value", e.Command)
}

// WrongProtocolError reports that the derived protocol disagreed with
// one set as expected before opening.
type WrongProtocolError struct {
	Expected, Got Protocol
}

func (e *WrongProtocolError) Error() string {
	return fmt.Sprintf("xbee: expected protocol %s, radio reports %s", e.Expected, e.Got)
}

// OperationNotSupportedError reports a feature not applicable to the
// current protocol or role.
type OperationNotSupportedError struct {
	Operation string
	Reason    string
}

func (e *OperationNotSupportedError) Error() string {
	return fmt.Sprintf("xbee: %s not supported: %s", e.Operation, e.Reason)
}

// TransportError wraps a transport I/O failure that isn't otherwise
// classified as InterfaceClosed or a malformed-packet decode failure.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return fmt.Sprintf("xbee: transport error: %s", e.Cause) }
func (e *TransportError) Unwrap() error { return e.Cause }
