package serial

import (
	"io"

	nativeserial "github.com/jacobsa/go-serial/serial"

	"github.com/xbee-go/xbeeapi/transport"
)

// Open dials a local serial port on darwin via jacobsa/go-serial and
// wraps it to satisfy transport.Transport.
func Open(dev string, baud int) (transport.Transport, error) {
	port, err := nativeserial.Open(nativeserial.OpenOptions{
		PortName:        dev,
		BaudRate:        uint(baud),
		DataBits:        8,
		StopBits:        1,
		ParityMode:      nativeserial.PARITY_NONE,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, err
	}
	return &serialPort{rwc: port}, nil
}

type serialPort struct {
	rwc io.ReadWriteCloser
}

func (p *serialPort) Read(b []byte) (int, error)  { return p.rwc.Read(b) }
func (p *serialPort) Write(b []byte) (int, error) { return p.rwc.Write(b) }
func (p *serialPort) Close() error                { return p.rwc.Close() }
func (p *serialPort) Open() error                 { return nil }
func (p *serialPort) IsOpen() bool                { return p.rwc != nil }
func (p *serialPort) Kind() transport.Kind        { return transport.Serial }
