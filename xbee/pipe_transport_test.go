package xbee

import (
	"io"
	"sync/atomic"

	"github.com/xbee-go/xbeeapi/frame"
	"github.com/xbee-go/xbeeapi/transport"
)

// pipeTransport is an in-memory transport.Transport over a pair of
// io.Pipe connections, used in place of real serial hardware. Writes
// from the session under test land on toTest (the test reads them);
// the test writes simulated radio replies on fromTest (the session
// reads them).
type pipeTransport struct {
	toTestR   *io.PipeReader
	toTestW   *io.PipeWriter
	fromTestR *io.PipeReader
	fromTestW *io.PipeWriter

	open atomic.Bool
}

func newPipeTransport() *pipeTransport {
	ttr, ttw := io.Pipe()
	ftr, ftw := io.Pipe()
	return &pipeTransport{toTestR: ttr, toTestW: ttw, fromTestR: ftr, fromTestW: ftw}
}

func (p *pipeTransport) Read(b []byte) (int, error)  { return p.fromTestR.Read(b) }
func (p *pipeTransport) Write(b []byte) (int, error) { return p.toTestW.Write(b) }

func (p *pipeTransport) Close() error {
	p.open.Store(false)
	p.toTestW.Close()
	p.fromTestW.Close()
	return nil
}

func (p *pipeTransport) Open() error          { p.open.Store(true); return nil }
func (p *pipeTransport) IsOpen() bool         { return p.open.Load() }
func (p *pipeTransport) Kind() transport.Kind { return transport.Serial }

// sent reads one whole frame's raw payload as written by the session.
func (p *pipeTransport) sent() ([]byte, error) {
	return readOneFrame(p.toTestR)
}

// reply writes one encoded frame as if the radio produced it.
func (p *pipeTransport) reply(payload []byte, escaped bool) error {
	_, err := p.fromTestW.Write(frame.Encode(payload, escaped))
	return err
}

func readOneFrame(r io.Reader) ([]byte, error) {
	dec := frame.NewDecoder(r, false)
	return dec.Next()
}
