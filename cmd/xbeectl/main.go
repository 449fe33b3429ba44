// Command xbeectl is a small demonstration CLI over the xbee package:
// open a serial port, print every event it sees, and optionally run
// node discovery or send one payload.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xbee-go/xbeeapi/packet"
	"github.com/xbee-go/xbeeapi/transport/serial"
	"github.com/xbee-go/xbeeapi/xbee"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "xbeectl:", err)
		os.Exit(1)
	}
}

func run() error {
	dev := flag.String("port", "/dev/ttyUSB0", "serial device")
	baud := flag.Int("baud", 9600, "baud rate")
	discover := flag.Bool("discover", false, "run node discovery and exit")
	send := flag.String("send", "", "broadcast this text and exit")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var logger *zap.SugaredLogger
	if *verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = zl.Sugar()
	} else {
		logger = zap.NewNop().Sugar()
	}

	t, err := serial.Open(*dev, *baud)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *dev, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := xbee.Open(ctx, t, xbee.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	defer s.Close()

	fmt.Printf("connected: mode=%s protocol=%s addr64=%s ni=%q\n",
		s.Mode(), s.Protocol(), s.LocalAddr64(), s.NodeID())

	events := s.Subscribe()
	go printEvents(events)

	switch {
	case *discover:
		return runDiscover(ctx, s)
	case *send != "":
		return runSend(ctx, s, *send)
	default:
		<-ctx.Done()
		return nil
	}
}

func runDiscover(ctx context.Context, s *xbee.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	nodes, err := s.Discover(ctx, "")
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	fmt.Printf("discovered %d node(s)\n", len(nodes))
	for _, n := range nodes {
		fmt.Printf("  %s (%s) ni=%q\n", n.Addr64, n.Addr16, n.NodeID)
	}
	return nil
}

func runSend(ctx context.Context, s *xbee.Session, text string) error {
	target := &xbee.RemoteNode{Addr64: packet.A64Broadcast, Addr16: packet.A16Broadcast}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.SendDataAndCheck(ctx, target, []byte(text)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	fmt.Println("sent")
	return nil
}

func printEvents(events <-chan xbee.Event) {
	for ev := range events {
		switch e := ev.(type) {
		case xbee.DataReceived:
			fmt.Printf("data from %s: %q\n", e.Source64, e.Data)
		case xbee.DeviceDiscovered:
			fmt.Printf("discovered %s (%s)\n", e.Node.Addr64, e.Node.NodeID)
		case xbee.ModemStatusReceived:
			fmt.Printf("modem status: %v\n", e.Status)
		case xbee.DiscoveryError:
			fmt.Printf("discovery error: %v\n", e.Err)
		}
	}
}
