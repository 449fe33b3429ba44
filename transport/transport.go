// Package transport defines the byte-stream abstraction the engine
// drives: a UART, a BLE GATT pipe, or a TCP socket, all reduced to the
// same read/write/kind surface.
package transport

import (
	"context"
	"io"
)

// Kind identifies the physical transport underneath a Transport, since
// the reader and device core change behavior for BLE (encryption is
// transparent to the reader once keys are installed) and treat serial
// and TCP identically.
type Kind int

const (
	Serial Kind = iota
	BLE
	TCP
)

func (k Kind) String() string {
	switch k {
	case Serial:
		return "Serial"
	case BLE:
		return "BLE"
	case TCP:
		return "TCP"
	}
	return "Unknown"
}

// Transport is the external collaborator the engine consumes. Concrete
// implementations (transport/serial, a BLE GATT bridge, a TCP dialer)
// live outside this package; the core only depends on this interface.
type Transport interface {
	io.ReadWriteCloser

	// Open prepares the transport for I/O. Implementations that dial
	// eagerly (transport/serial's Open constructors) may treat this as
	// a no-op that just checks IsOpen.
	Open() error
	// IsOpen reports whether the transport is usable for I/O.
	IsOpen() bool
	// Kind identifies the physical medium, driving BLE-specific
	// behavior in the reader and open sequence.
	Kind() Kind
}

// Encryptor is implemented by BLE transports that perform per-frame
// encryption once session keys are installed. The reader and device
// core never encrypt/decrypt directly; they just call SetEncryptionKeys
// after the Authenticator (below) succeeds.
type Encryptor interface {
	SetEncryptionKeys(key, txNonce, rxNonce []byte) error
}

// AuthResult carries the session keys an Authenticator derives.
type AuthResult struct {
	Key     []byte
	TxNonce []byte
	RxNonce []byte
}

// Authenticator performs the BLE SRP handshake that derives per-session
// encryption keys. The handshake itself lives outside this package;
// the core only calls this interface.
type Authenticator interface {
	Authenticate(ctx context.Context, password string) (*AuthResult, error)
}
