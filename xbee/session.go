// Package xbee implements the XBee API frame engine: the reader,
// packet queue, request/response dispatcher, device core, network
// registry and discovery engine that together drive a radio module
// over any transport.Transport.
package xbee

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xbee-go/xbeeapi/frame"
	"github.com/xbee-go/xbeeapi/packet"
	"github.com/xbee-go/xbeeapi/transport"
)

const defaultReceiveTimeout = 2000 * time.Millisecond

// Session is the device core (C6): it owns the transport, the reader
// goroutine, the packet queue, the dispatcher's pending-request table
// and the network registry for as long as the connection is open.
type Session struct {
	transport transport.Transport
	log       *zap.SugaredLogger

	mode         OperatingMode
	protocol     Protocol
	expectProto  Protocol
	localAddr64  packet.A64
	localAddr16  packet.A16
	localNodeID  string

	frameID      atomic.Uint32
	receiveTimeout time.Duration
	applyChanges atomic.Bool
	queueSize    int

	opened      atomic.Bool
	escapedFlag atomic.Bool

	queue   *packetQueue
	network *network
	bus     *eventBus

	pendingMu sync.Mutex
	waiters   map[pendingKey]*waiter

	writeMu sync.Mutex

	probing atomic.Bool
	probeMu sync.Mutex
	probeBuf []byte

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	auth transport.Authenticator
}

// Option configures a Session at construction.
type Option func(*Session)

// WithLogger installs a structured logger; the default is a no-op
// logger so the library stays silent unless the embedder opts in.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithReceiveTimeout overrides the default 2000 ms synchronous timeout.
func WithReceiveTimeout(d time.Duration) Option {
	return func(s *Session) { s.receiveTimeout = d }
}

// WithApplyChanges sets the initial "apply configuration changes
// immediately" flag, default true.
func WithApplyChanges(apply bool) Option {
	return func(s *Session) { s.applyChanges.Store(apply) }
}

// WithQueueSize overrides the default packet queue capacity of 50.
func WithQueueSize(n int) Option {
	return func(s *Session) { s.queueSize = n }
}

// WithExpectedProtocol causes Open to fail with WrongProtocolError if
// the derived protocol in ReadDeviceInfo disagrees.
func WithExpectedProtocol(p Protocol) Option {
	return func(s *Session) { s.expectProto = p }
}

// WithAuthenticator installs the BLE SRP handshake collaborator used
// in place of AT mode determination when the transport is BLE.
func WithAuthenticator(a transport.Authenticator) Option {
	return func(s *Session) { s.auth = a }
}

// Open performs the full open sequence: opens the
// transport, starts the reader, runs mode determination (or BLE
// authentication) and reads device info.
func Open(ctx context.Context, t transport.Transport, opts ...Option) (*Session, error) {
	s := &Session{
		transport:      t,
		log:            zap.NewNop().Sugar(),
		receiveTimeout: defaultReceiveTimeout,
		localAddr16:    packet.A16Unknown,
		queue:          nil,
		network:        newNetwork(),
		bus:            newEventBus(),
		waiters:        make(map[pendingKey]*waiter),
	}
	s.applyChanges.Store(true)
	s.frameID.Store(0)
	for _, opt := range opts {
		opt(s)
	}
	s.queue = newPacketQueue(s.queueSize)

	if err := t.Open(); err != nil {
		return nil, fmt.Errorf("xbee: opening transport: %w", err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(s.ctx)
	s.group = group
	s.ctx = gctx
	group.Go(func() error { return s.readLoop() })

	// Settle delay so the reader goroutine is demonstrably live before
	// the mode-determination handshake starts writing.
	time.Sleep(10 * time.Millisecond)

	if t.Kind() == transport.BLE {
		s.setMode(ModeAPI)
		if s.auth == nil {
			s.Close()
			return nil, ErrAuthFailure
		}
		res, err := s.auth.Authenticate(ctx, "")
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("xbee: BLE authentication: %w", err)
		}
		if enc, ok := t.(transport.Encryptor); ok {
			if err := enc.SetEncryptionKeys(res.Key, res.TxNonce, res.RxNonce); err != nil {
				s.Close()
				return nil, fmt.Errorf("xbee: installing BLE session keys: %w", err)
			}
		}
	} else if s.mode == ModeUnknown {
		mode, err := s.determineOperatingMode()
		if err != nil {
			s.Close()
			return nil, err
		}
		s.setMode(mode)
		if s.mode == ModeUnknown || s.mode == ModeAT {
			s.Close()
			return nil, &InvalidModeError{Mode: s.mode}
		}
	}

	if err := s.readDeviceInfo(ctx); err != nil {
		s.Close()
		return nil, err
	}

	s.opened.Store(true)
	s.log.Infow("xbee session opened", "mode", s.mode, "protocol", s.protocol)
	return s, nil
}

// Close stops the reader, fails any waiting synchronous requests with
// ErrInterfaceClosed, and closes the transport.
func (s *Session) Close() error {
	if !s.opened.CompareAndSwap(true, false) {
		// Still attempt teardown for a session that failed mid-Open.
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.pendingMu.Lock()
	for k, w := range s.waiters {
		close(w.ch)
		delete(s.waiters, k)
	}
	s.pendingMu.Unlock()

	if s.queue != nil {
		s.queue.close()
	}
	s.bus.closeAll()

	// Closing the transport first unblocks a reader waiting in Read.
	cerr := s.transport.Close()
	var err error
	if s.group != nil {
		err = s.group.Wait()
	}
	if cerr != nil && err == nil {
		err = cerr
	}
	s.log.Info("xbee session closed")
	return err
}

// IsOpen reports whether the session is usable for I/O.
func (s *Session) IsOpen() bool { return s.opened.Load() }

// Mode returns the session's operating mode.
func (s *Session) Mode() OperatingMode { return s.mode }

// Protocol returns the local radio's derived protocol.
func (s *Session) Protocol() Protocol { return s.protocol }

// LocalAddr64 returns the local radio's 64-bit address.
func (s *Session) LocalAddr64() packet.A64 { return s.localAddr64 }

// LocalAddr16 returns the local radio's 16-bit network address, which
// is A16Unknown for protocols without one.
func (s *Session) LocalAddr16() packet.A16 { return s.localAddr16 }

// NodeID returns the locally cached node identifier.
func (s *Session) NodeID() string { return s.localNodeID }

// Subscribe returns a channel receiving every Event the reader
// publishes from this point on.
func (s *Session) Subscribe() <-chan Event { return s.bus.Subscribe(16) }

// nextFrameID allocates the next frame ID, wrapping 0xFF -> 0x01 and
// never emitting 0x00.
func (s *Session) nextFrameID() byte {
	for {
		cur := s.frameID.Load()
		next := cur + 1
		if next > 0xFF {
			next = 1
		}
		if s.frameID.CompareAndSwap(cur, next) {
			return byte(next)
		}
	}
}

// escaped reports the frame codec's current escaping mode. Backed by
// an atomic flag (rather than reading s.mode directly) so the reader
// goroutine can observe the mode handshake's outcome without a data
// race, since readLoop runs concurrently with Open's handshake.
func (s *Session) escaped() bool { return s.escapedFlag.Load() }

// setMode records the session's operating mode and updates the
// escaping flag the reader consults.
func (s *Session) setMode(m OperatingMode) {
	s.mode = m
	s.escapedFlag.Store(m.escaped())
}

// write serializes p via the frame codec and writes it to the
// transport. Writes are serialized by writeMu, so frames from
// concurrent senders never interleave.
func (s *Session) write(p packet.Packet) error {
	encoded := frame.Encode(p.SerializePayload(), s.escaped())
	s.writeMu.Lock()
	_, err := s.transport.Write(encoded)
	s.writeMu.Unlock()
	if err != nil {
		if !s.transport.IsOpen() {
			return ErrInterfaceClosed
		}
		return &TransportError{Cause: err}
	}
	return nil
}
