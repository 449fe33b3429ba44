package xbee

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xbee-go/xbeeapi/packet"
)

const (
	commandModePreSilence  = 1200 * time.Millisecond
	commandModePostWindow  = 1500 * time.Millisecond
	resetWaitTimeout       = 5000 * time.Millisecond
	discoveryDefaultMillis = 20000
)

// recordProbeByte appends b to the in-flight command-mode probe
// buffer, if a probe is active (device.go's determineOperatingMode).
// Called from the reader goroutine via frame.Decoder.OnSkipByte.
func (s *Session) recordProbeByte(b byte) {
	if !s.probing.Load() {
		return
	}
	s.probeMu.Lock()
	if len(s.probeBuf) > 64 {
		s.probeBuf = s.probeBuf[1:]
	}
	s.probeBuf = append(s.probeBuf, b)
	s.probeMu.Unlock()
}

func (s *Session) probeContains(needle string) bool {
	s.probeMu.Lock()
	defer s.probeMu.Unlock()
	return bytes.Contains(s.probeBuf, []byte(needle))
}

// determineOperatingMode:
// optimistically assume API mode and query AP; fall back to the
// "+++" command-mode probe if the radio never answers.
func (s *Session) determineOperatingMode() (OperatingMode, error) {
	s.setMode(ModeAPI)

	resp, err := s.sendSync(context.Background(), &packet.ATCommandRequest{
		ID:      s.nextFrameID(),
		Command: atAP,
	})
	if err == nil {
		atResp, ok := resp.(*packet.ATCommandResponse)
		if ok && atResp.Status == packet.StatusOK && len(atResp.Value) > 0 && atResp.Value[0] == 0x02 {
			return ModeAPIEscaped, nil
		}
		return ModeAPI, nil
	}

	s.probeMu.Lock()
	s.probeBuf = nil
	s.probeMu.Unlock()
	s.probing.Store(true)
	defer s.probing.Store(false)

	time.Sleep(commandModePreSilence)
	if _, werr := s.transport.Write([]byte("+++")); werr != nil {
		return ModeUnknown, &TransportError{Cause: werr}
	}

	deadline := time.Now().Add(commandModePostWindow)
	for time.Now().Before(deadline) {
		if s.probeContains("OK\r") {
			return ModeAT, nil
		}
		time.Sleep(25 * time.Millisecond)
	}
	if s.probeContains("OK\r") {
		return ModeAT, nil
	}
	return ModeUnknown, nil
}

// readDeviceInfo reads SH/SL, NI, HV,
// VR (deriving Protocol), and MY when the protocol has one.
func (s *Session) readDeviceInfo(ctx context.Context) error {
	sh, err := s.getLocal(ctx, atSH)
	if err != nil {
		return fmt.Errorf("xbee: reading SH: %w", err)
	}
	sl, err := s.getLocal(ctx, atSL)
	if err != nil {
		return fmt.Errorf("xbee: reading SL: %w", err)
	}
	if s.localAddr64.IsUnknown() || s.localAddr64 == (packet.A64{}) {
		var full [8]byte
		copy(full[4-len(shPad(sh)):4], shPad(sh))
		copy(full[8-len(shPad(sl)):8], shPad(sl))
		s.localAddr64 = packet.NewA64(full[:])
	}

	ni, err := s.getLocal(ctx, atNI)
	if err == nil {
		s.localNodeID = string(ni)
	}

	hv, err := s.getLocal(ctx, atHV)
	if err != nil {
		return fmt.Errorf("xbee: reading HV: %w", err)
	}
	vr, err := s.getLocal(ctx, atVR)
	if err != nil {
		return fmt.Errorf("xbee: reading VR: %w", err)
	}
	hvVal := beUint16(hv)
	vrVal := beUint16(vr)
	proto := DeriveProtocol(hvVal, vrVal)

	if s.expectProto != ProtocolUnknown && s.expectProto != proto {
		return &WrongProtocolError{Expected: s.expectProto, Got: proto}
	}
	s.protocol = proto

	if proto.Has16BitAddress() {
		if my, err := s.getLocal(ctx, atMY); err == nil {
			s.localAddr16 = packet.NewA16(pad(my, 2))
		}
	}
	return nil
}

// shPad and pad left-pad a big-endian integer value to n bytes, as
// returned AT values are the minimal non-zero-leading encoding.
func shPad(b []byte) []byte { return pad(b, 4) }

func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

func beUint16(b []byte) uint16 {
	p := pad(b, 2)
	return uint16(p[0])<<8 | uint16(p[1])
}

// getLocal sends a local AT get (empty value) and returns the
// response value, failing with ATCommandError/ATCommandEmptyError on
// a non-OK status or an unexpectedly empty payload.
func (s *Session) getLocal(ctx context.Context, cmd packet.ATCommand) ([]byte, error) {
	resp, err := s.sendSync(ctx, &packet.ATCommandRequest{ID: s.nextFrameID(), Command: cmd})
	if err != nil {
		return nil, err
	}
	atResp := resp.(*packet.ATCommandResponse)
	if atResp.Status != packet.StatusOK {
		return nil, &ATCommandError{Command: cmd, Status: atResp.Status}
	}
	if len(atResp.Value) == 0 {
		return nil, &ATCommandEmptyError{Command: cmd}
	}
	return atResp.Value, nil
}

// GetParameter reads a local AT parameter.
func (s *Session) GetParameter(ctx context.Context, cmd packet.ATCommand) ([]byte, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	return s.getLocal(ctx, cmd)
}

// SetParameter writes a local AT parameter. When ApplyChanges is
// false the queued variant is used, deferring effect until AC/a reset.
func (s *Session) SetParameter(ctx context.Context, cmd packet.ATCommand, value []byte) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	var req packet.Packet
	id := s.nextFrameID()
	if s.applyChanges.Load() {
		req = &packet.ATCommandRequest{ID: id, Command: cmd, Value: value}
	} else {
		req = &packet.ATCommandQueueRequest{ID: id, Command: cmd, Value: value}
	}
	resp, err := s.sendSync(ctx, req)
	if err != nil {
		return err
	}
	atResp, ok := resp.(*packet.ATCommandResponse)
	if !ok || atResp.Status != packet.StatusOK {
		status := packet.StatusError
		if ok {
			status = atResp.Status
		}
		return &ATCommandError{Command: cmd, Status: status}
	}
	if cmd == atNI {
		s.localNodeID = string(value)
	}
	return nil
}

// ExecuteCommand sends a local AT command with no value and ignores
// any non-error response.
func (s *Session) ExecuteCommand(ctx context.Context, cmd packet.ATCommand) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	resp, err := s.sendSync(ctx, &packet.ATCommandRequest{ID: s.nextFrameID(), Command: cmd})
	if err != nil {
		return err
	}
	atResp, ok := resp.(*packet.ATCommandResponse)
	if ok && atResp.Status != packet.StatusOK {
		return &ATCommandError{Command: cmd, Status: atResp.Status}
	}
	return nil
}

// WriteChanges persists the current configuration to non-volatile
// memory (AT command WR).
func (s *Session) WriteChanges(ctx context.Context) error {
	return s.ExecuteCommand(ctx, atWR)
}

// AssociationIndication reads the AI parameter; 0x00 means joined.
func (s *Session) AssociationIndication(ctx context.Context) (byte, error) {
	v, err := s.GetParameter(ctx, atAI)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, &ATCommandEmptyError{Command: atAI}
	}
	return v[len(v)-1], nil
}

// remoteGet wraps cmd in a RemoteATCommand addressed to target, relaying
// through the local radio.
func (s *Session) remoteGet(ctx context.Context, target *RemoteNode, cmd packet.ATCommand) ([]byte, error) {
	resp, err := s.sendSync(ctx, &packet.RemoteATCommandRequest{
		ID: s.nextFrameID(), Dest64: target.Addr64, Dest16: target.Addr16, Command: cmd,
	})
	if err != nil {
		return nil, err
	}
	rResp := resp.(*packet.RemoteATCommandResponse)
	if rResp.Status != packet.StatusOK {
		return nil, &ATCommandError{Command: cmd, Status: rResp.Status}
	}
	return rResp.Value, nil
}

func (s *Session) remoteSet(ctx context.Context, target *RemoteNode, cmd packet.ATCommand, value []byte) error {
	opts := packet.RemoteATOption(0)
	if s.applyChanges.Load() {
		opts = packet.RemoteATApplyChanges
	}
	resp, err := s.sendSync(ctx, &packet.RemoteATCommandRequest{
		ID: s.nextFrameID(), Dest64: target.Addr64, Dest16: target.Addr16,
		Options: opts, Command: cmd, Value: value,
	})
	if err != nil {
		return err
	}
	rResp, ok := resp.(*packet.RemoteATCommandResponse)
	if !ok || rResp.Status != packet.StatusOK {
		status := packet.StatusError
		if ok {
			status = rResp.Status
		}
		return &ATCommandError{Command: cmd, Status: status}
	}
	return nil
}

// Reset performs a local software reset: send FR, then wait up to
// 5000 ms for a hardware- or watchdog-reset modem status.
func (s *Session) Reset(ctx context.Context) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	sub := s.Subscribe()
	if err := s.ExecuteCommand(ctx, atFR); err != nil {
		return err
	}
	deadline := time.NewTimer(resetWaitTimeout)
	defer deadline.Stop()
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return ErrInterfaceClosed
			}
			if m, ok := ev.(ModemStatusReceived); ok {
				if m.Status == packet.ModemHardwareReset || m.Status == packet.ModemWatchdogTimerReset {
					return nil
				}
			}
		case <-deadline.C:
			return &TimeoutError{Op: "reset"}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ResetRemote resets a remote node. 802.15.4 remotes commonly never
// answer FR; that silence is treated as best-effort success rather
// than a timeout.
func (s *Session) ResetRemote(ctx context.Context, target *RemoteNode) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	_, err := s.remoteGet(ctx, target, atFR)
	if err == nil {
		return nil
	}
	if _, isTimeout := err.(*TimeoutError); isTimeout && s.protocol == Protocol802154 {
		return nil
	}
	return err
}

// SetDestination performs "disable apply -> set DH -> set DL -> AC ->
// restore apply" as a single operation.
// The apply-changes flag is restored on every return path, including
// errors.
func (s *Session) SetDestination(ctx context.Context, dest packet.A64) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	prevApply := s.applyChanges.Load()
	s.applyChanges.Store(false)
	defer s.applyChanges.Store(prevApply)

	full := dest.Bytes()
	if err := s.SetParameter(ctx, atDH, full[0:4]); err != nil {
		return err
	}
	if err := s.SetParameter(ctx, atDL, full[4:8]); err != nil {
		return err
	}
	return s.ExecuteCommand(ctx, atAC)
}

// SendData picks the optimal wire frame for (local protocol, has-A16)
// and transmits bytes asynchronously.
func (s *Session) SendData(target *RemoteNode, data []byte) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	return s.sendAsync(s.buildTransmit(target, data))
}

// SendDataAndCheck is SendData's synchronous, status-checked form.
func (s *Session) SendDataAndCheck(ctx context.Context, target *RemoteNode, data []byte) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	return s.SendAndCheck(ctx, s.buildTransmit(target, data))
}

func (s *Session) buildTransmit(target *RemoteNode, data []byte) packet.Packet {
	id := s.nextFrameID()
	if s.protocol == Protocol802154 {
		return &packet.TX64Request{ID: id, Dest64: target.Addr64, Data: data}
	}
	dest16 := target.Addr16
	if dest16 == (packet.A16{}) {
		dest16 = packet.A16Unknown
	}
	return &packet.TransmitRequest{ID: id, Dest64: target.Addr64, Dest16: dest16, Data: data}
}

// SendExplicitData sends application-addressed data; refused on
// 802.15.4, which has no endpoint concept.
func (s *Session) SendExplicitData(ctx context.Context, target *RemoteNode, srcEP, dstEP packet.Endpoint, cluster packet.ClusterID, profile packet.ProfileID, data []byte) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	if s.protocol == Protocol802154 {
		return &OperationNotSupportedError{Operation: "explicit addressing", Reason: "802.15.4 has no endpoint model"}
	}
	dest16 := target.Addr16
	if dest16 == (packet.A16{}) {
		dest16 = packet.A16Unknown
	}
	return s.SendAndCheck(ctx, &packet.ExplicitAddressingRequest{
		ID: s.nextFrameID(), Dest64: target.Addr64, Dest16: dest16,
		SourceEndpoint: srcEP, DestEndpoint: dstEP, Cluster: cluster, Profile: profile,
		Data: data,
	})
}

// SendUserDataRelay moves up to 255 bytes to another on-module
// interface; the radio generates no transmit-status for it, so it is
// always sent asynchronously.
func (s *Session) SendUserDataRelay(dest packet.RelayInterface, data []byte) error {
	if !s.opened.Load() {
		return ErrInterfaceClosed
	}
	if len(data) > 255 {
		return &InvalidArgumentError{Argument: "data", Reason: "user data relay payload exceeds 255 bytes"}
	}
	return s.sendAsync(&packet.UserDataRelayRequest{Dest: dest, Data: data})
}

// ActiveScan runs an energy-detect scan by reading the AS AT command
// response stream: records arrive as successive ATCommandResponse
// values sharing one frame ID, terminated by the radio falling silent
// for the given window.
func (s *Session) ActiveScan(ctx context.Context, window time.Duration) ([]byte, error) {
	if !s.opened.Load() {
		return nil, ErrInterfaceClosed
	}
	id := s.nextFrameID()
	ch, unregister := s.registerWaiter(id, true)
	defer unregister()

	if err := s.sendAsync(&packet.ATCommandRequest{ID: id, Command: atAS}); err != nil {
		return nil, err
	}

	var collected []byte
	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case resp, ok := <-ch:
			if !ok {
				return collected, ErrInterfaceClosed
			}
			if atResp, ok := resp.(*packet.ATCommandResponse); ok {
				collected = append(collected, atResp.Value...)
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(window)
		case <-timer.C:
			return collected, nil
		case <-ctx.Done():
			return collected, ctx.Err()
		}
	}
}
