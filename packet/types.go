// Package packet implements the typed XBee API frame model: the
// tagged union of request/response/indicator variants described by
// the frame engine, their field layouts, and serialization to and
// from the raw payload bytes the frame codec hands back.
package packet

import (
	"fmt"
	"strings"
)

// FrameType is the one-byte discriminant at the start of every API
// frame payload.
type FrameType byte

// Frame type discriminants, from the wire format table.
const (
	TypeTX64                FrameType = 0x00 // legacy
	TypeTX16                FrameType = 0x01 // legacy
	TypeATCommand           FrameType = 0x08
	TypeATCommandQueue      FrameType = 0x09
	TypeTransmit            FrameType = 0x10
	TypeExplicitAddressing  FrameType = 0x11
	TypeTXSMS               FrameType = 0x1F
	TypeTXIPv4              FrameType = 0x20
	TypeRemoteATCommand     FrameType = 0x17
	TypeUserDataRelay       FrameType = 0x2D
	TypeRX64                FrameType = 0x80 // legacy
	TypeRX16                FrameType = 0x81 // legacy
	TypeRX64IO              FrameType = 0x82 // legacy
	TypeRX16IO              FrameType = 0x83 // legacy
	TypeATCommandResponse   FrameType = 0x88
	TypeTXStatus            FrameType = 0x89 // legacy
	TypeModemStatus         FrameType = 0x8A
	TypeTransmitStatus      FrameType = 0x8B
	TypeReceive             FrameType = 0x90
	TypeExplicitRX          FrameType = 0x91
	TypeIOSample            FrameType = 0x92
	TypeRemoteATResponse    FrameType = 0x97
	TypeRXSMS               FrameType = 0x9F
	TypeRXIPv4              FrameType = 0xB0
	TypeUserDataRelayOutput FrameType = 0xAD
)

func (t FrameType) String() string {
	switch t {
	case TypeTX64:
		return "TX64"
	case TypeTX16:
		return "TX16"
	case TypeATCommand:
		return "ATCommand"
	case TypeATCommandQueue:
		return "ATCommandQueue"
	case TypeTransmit:
		return "Transmit"
	case TypeExplicitAddressing:
		return "ExplicitAddressing"
	case TypeTXSMS:
		return "TXSMS"
	case TypeTXIPv4:
		return "TXIPv4"
	case TypeRemoteATCommand:
		return "RemoteATCommand"
	case TypeUserDataRelay:
		return "UserDataRelay"
	case TypeRX64:
		return "RX64"
	case TypeRX16:
		return "RX16"
	case TypeRX64IO:
		return "RX64IO"
	case TypeRX16IO:
		return "RX16IO"
	case TypeATCommandResponse:
		return "ATCommandResponse"
	case TypeTXStatus:
		return "TXStatus"
	case TypeModemStatus:
		return "ModemStatus"
	case TypeTransmitStatus:
		return "TransmitStatus"
	case TypeReceive:
		return "Receive"
	case TypeExplicitRX:
		return "ExplicitRX"
	case TypeIOSample:
		return "IOSample"
	case TypeRemoteATResponse:
		return "RemoteATResponse"
	case TypeRXSMS:
		return "RXSMS"
	case TypeRXIPv4:
		return "RXIPv4"
	case TypeUserDataRelayOutput:
		return "UserDataRelayOutput"
	}
	return fmt.Sprintf("FrameType(0x%02X)", byte(t))
}

// ATCommand is a two-letter AT command name, e.g. "NI".
type ATCommand [2]byte

func NewATCommand(s string) ATCommand {
	var c ATCommand
	copy(c[:], s)
	return c
}

func (c ATCommand) String() string { return string(c[0]) + string(c[1]) }

// EqualFold reports whether c names the same command as other,
// ignoring case; the dispatcher's correlation check is case-insensitive.
func (c ATCommand) EqualFold(other ATCommand) bool {
	return strings.EqualFold(c.String(), other.String())
}

// CommandStatus is the one-byte result code on AT command responses.
type CommandStatus byte

const (
	StatusOK               CommandStatus = 0x00
	StatusError            CommandStatus = 0x01
	StatusInvalidCommand   CommandStatus = 0x02
	StatusInvalidParameter CommandStatus = 0x03
	StatusTxFailure        CommandStatus = 0x04
)

func (s CommandStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusInvalidCommand:
		return "INVALID_COMMAND"
	case StatusInvalidParameter:
		return "INVALID_PARAMETER"
	case StatusTxFailure:
		return "TX_FAILURE"
	}
	return fmt.Sprintf("CommandStatus(%d)", byte(s))
}

// DeliveryStatus is the delivery result code on a transmit-status frame.
type DeliveryStatus byte

const (
	DeliverySuccess                    DeliveryStatus = 0x00
	DeliveryMACACKFailure              DeliveryStatus = 0x01
	DeliveryCCAFailure                 DeliveryStatus = 0x02
	DeliveryInvalidDestinationEndpoint DeliveryStatus = 0x15
	DeliveryNetworkACKFailure          DeliveryStatus = 0x21
	DeliveryNotJoinedToNetwork         DeliveryStatus = 0x22
	DeliverySelfAddressed              DeliveryStatus = 0x23
	DeliveryAddressNotFound            DeliveryStatus = 0x24
	DeliveryRouteNotFound              DeliveryStatus = 0x25
	DeliveryBroadcastSourceFailed      DeliveryStatus = 0x26
	DeliveryInvalidBindingTableIndex   DeliveryStatus = 0x2B
	DeliveryResourceError              DeliveryStatus = 0x2C
	DeliveryBroadcastWithAPS           DeliveryStatus = 0x2D
	DeliveryUnicastWithAPSNoEE         DeliveryStatus = 0x2E
	DeliveryResourceError2             DeliveryStatus = 0x32
	DeliveryPayloadTooLarge            DeliveryStatus = 0x74
)

// Success reports whether the delivery status counts as a success for
// send_and_check purposes: plain success or self-addressed.
func (d DeliveryStatus) Success() bool {
	return d == DeliverySuccess || d == DeliverySelfAddressed
}

func (d DeliveryStatus) String() string {
	switch d {
	case DeliverySuccess:
		return "Success"
	case DeliveryMACACKFailure:
		return "MACACKFailure"
	case DeliveryCCAFailure:
		return "CCAFailure"
	case DeliveryInvalidDestinationEndpoint:
		return "InvalidDestinationEndpoint"
	case DeliveryNetworkACKFailure:
		return "NetworkACKFailure"
	case DeliveryNotJoinedToNetwork:
		return "NotJoinedToNetwork"
	case DeliverySelfAddressed:
		return "SelfAddressed"
	case DeliveryAddressNotFound:
		return "AddressNotFound"
	case DeliveryRouteNotFound:
		return "RouteNotFound"
	case DeliveryBroadcastSourceFailed:
		return "BroadcastSourceFailed"
	case DeliveryInvalidBindingTableIndex:
		return "InvalidBindingTableIndex"
	case DeliveryResourceError, DeliveryResourceError2:
		return "ResourceError"
	case DeliveryBroadcastWithAPS:
		return "AttemptedBroadcastWithAPS"
	case DeliveryUnicastWithAPSNoEE:
		return "AttemptedUnicastWithAPSNoEE"
	case DeliveryPayloadTooLarge:
		return "DataPayloadTooLarge"
	}
	return fmt.Sprintf("DeliveryStatus(0x%02X)", byte(d))
}

// DiscoveryStatus is the route/address discovery overhead code on a
// transmit-status frame.
type DiscoveryStatus byte

const (
	DiscoveryNone            DiscoveryStatus = 0x00
	DiscoveryAddress         DiscoveryStatus = 0x01
	DiscoveryRoute           DiscoveryStatus = 0x02
	DiscoveryAddressAndRoute DiscoveryStatus = 0x03
	DiscoveryExtendedTimeout DiscoveryStatus = 0x40
)

func (d DiscoveryStatus) String() string {
	switch d {
	case DiscoveryNone:
		return "None"
	case DiscoveryAddress:
		return "Address"
	case DiscoveryRoute:
		return "Route"
	case DiscoveryAddressAndRoute:
		return "AddressAndRoute"
	case DiscoveryExtendedTimeout:
		return "ExtendedTimeout"
	}
	return fmt.Sprintf("DiscoveryStatus(0x%02X)", byte(d))
}

// ModemStatus is the one-byte status code on a modem-status indicator.
type ModemStatus byte

const (
	ModemHardwareReset          ModemStatus = 0x00
	ModemWatchdogTimerReset     ModemStatus = 0x01
	ModemJoinedNetwork          ModemStatus = 0x02
	ModemDisassociated          ModemStatus = 0x03
	ModemCoordinatorStarted     ModemStatus = 0x06
	ModemNetworkKeyUpdated      ModemStatus = 0x07
	ModemVoltageSupplyExceeded  ModemStatus = 0x0D
	ModemConfigChangeDuringJoin ModemStatus = 0x11
)

func (m ModemStatus) String() string {
	switch m {
	case ModemHardwareReset:
		return "HardwareReset"
	case ModemWatchdogTimerReset:
		return "WatchdogTimerReset"
	case ModemJoinedNetwork:
		return "JoinedNetwork"
	case ModemDisassociated:
		return "Disassociated"
	case ModemCoordinatorStarted:
		return "CoordinatorStarted"
	case ModemNetworkKeyUpdated:
		return "NetworkKeyUpdated"
	case ModemVoltageSupplyExceeded:
		return "VoltageSupplyLimitExceeded"
	case ModemConfigChangeDuringJoin:
		return "ConfigChangeDuringJoin"
	}
	if m >= 0x80 {
		return "StackError"
	}
	return fmt.Sprintf("ModemStatus(0x%02X)", byte(m))
}

// TransmitOption is the transmit-request options bitfield.
type TransmitOption byte

const (
	TransmitDisableRetriesAndRouteRepair TransmitOption = 0x01
	TransmitEnableAPSEncryption          TransmitOption = 0x20
	TransmitExtendedTimeout              TransmitOption = 0x40
)

func (o TransmitOption) Has(opt TransmitOption) bool { return o&opt != 0 }

func (o TransmitOption) String() string {
	if o == 0 {
		return "None"
	}
	var parts []string
	if o.Has(TransmitDisableRetriesAndRouteRepair) {
		parts = append(parts, "DisableRetriesAndRouteRepair")
		o &^= TransmitDisableRetriesAndRouteRepair
	}
	if o.Has(TransmitEnableAPSEncryption) {
		parts = append(parts, "EnableAPSEncryption")
		o &^= TransmitEnableAPSEncryption
	}
	if o.Has(TransmitExtendedTimeout) {
		parts = append(parts, "ExtendedTimeout")
		o &^= TransmitExtendedTimeout
	}
	if o != 0 {
		parts = append(parts, fmt.Sprintf("TransmitOption(%d)", byte(o)))
	}
	return strings.Join(parts, "|")
}

// ReceiveOption is the receive-indicator options bitfield. Bits 1 and
// 2 (broadcast PAN / broadcast address) drive IsBroadcast.
type ReceiveOption byte

const (
	ReceiveAcknowledged  ReceiveOption = 0x01
	ReceiveBroadcastPAN  ReceiveOption = 0x02
	ReceiveBroadcastAddr ReceiveOption = 0x04
	ReceiveEncrypted     ReceiveOption = 0x20
	ReceiveFromEndDevice ReceiveOption = 0x40
)

func (o ReceiveOption) Has(opt ReceiveOption) bool { return o&opt != 0 }

// Broadcast reports whether either broadcast bit is set.
func (o ReceiveOption) Broadcast() bool {
	return o.Has(ReceiveBroadcastPAN) || o.Has(ReceiveBroadcastAddr)
}

func (o ReceiveOption) String() string {
	if o == 0 {
		return "None"
	}
	var parts []string
	if o.Has(ReceiveAcknowledged) {
		parts = append(parts, "Acknowledged")
		o &^= ReceiveAcknowledged
	}
	if o.Has(ReceiveBroadcastPAN) {
		parts = append(parts, "BroadcastPAN")
		o &^= ReceiveBroadcastPAN
	}
	if o.Has(ReceiveBroadcastAddr) {
		parts = append(parts, "BroadcastAddress")
		o &^= ReceiveBroadcastAddr
	}
	if o.Has(ReceiveEncrypted) {
		parts = append(parts, "Encrypted")
		o &^= ReceiveEncrypted
	}
	if o.Has(ReceiveFromEndDevice) {
		parts = append(parts, "FromEndDevice")
		o &^= ReceiveFromEndDevice
	}
	if o != 0 {
		parts = append(parts, fmt.Sprintf("ReceiveOption(%d)", byte(o)))
	}
	return strings.Join(parts, "|")
}

// RelayInterface identifies one of the on-module interfaces a
// User Data Relay frame can move bytes to/from.
type RelayInterface byte

const (
	RelaySerial      RelayInterface = 0x00
	RelayBluetooth   RelayInterface = 0x01
	RelayMicroPython RelayInterface = 0x02
)

func (i RelayInterface) String() string {
	switch i {
	case RelaySerial:
		return "Serial"
	case RelayBluetooth:
		return "Bluetooth"
	case RelayMicroPython:
		return "MicroPython"
	}
	return fmt.Sprintf("RelayInterface(%d)", byte(i))
}
