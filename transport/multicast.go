package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// maxDatagram is the largest UDP payload MulticastReader will accept in one
// read; an ASTERIX multicast feed packs one or more data blocks per
// datagram and never approaches this in practice.
const maxDatagram = 65535

// MulticastReader listens on a UDP multicast group and delivers each
// received datagram's payload on Packets. Its goroutine/context shape
// mirrors the teacher's Client.readingFromSocket: one reader goroutine
// started by Listen, stopped by cancelling ctx or calling Close.
type MulticastReader struct {
	conn    *net.UDPConn
	Packets chan []byte

	lg *logrus.Logger
}

// NewMulticastReader joins the multicast group named by addr (e.g.
// "239.1.1.1:10000") on iface (empty string picks the default interface)
// and returns a reader ready for Listen.
func NewMulticastReader(addr, iface string, lg *logrus.Logger) (*MulticastReader, error) {
	if lg == nil {
		lg = logrus.New()
	}
	gaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolving multicast address %s: %w", addr, err)
	}

	var ifi *net.Interface
	if iface != "" {
		ifi, err = net.InterfaceByName(iface)
		if err != nil {
			return nil, fmt.Errorf("looking up interface %s: %w", iface, err)
		}
	}

	conn, err := net.ListenMulticastUDP("udp", ifi, gaddr)
	if err != nil {
		return nil, fmt.Errorf("joining multicast group %s: %w", addr, err)
	}

	return &MulticastReader{
		conn:    conn,
		Packets: make(chan []byte, 16),
		lg:      lg,
	}, nil
}

// Listen starts the read loop in its own goroutine; it returns immediately.
// The loop exits, and Packets is closed, when ctx is cancelled or the
// underlying connection is closed.
func (m *MulticastReader) Listen(ctx context.Context) {
	m.lg.Info("start goroutine reading multicast datagrams")
	go m.readLoop(ctx)
}

func (m *MulticastReader) readLoop(ctx context.Context) {
	defer func() {
		m.lg.Info("stop goroutine reading multicast datagrams")
		close(m.Packets)
	}()

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, _, err := m.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				m.lg.Errorf("multicast read error: %v", err)
				return
			}
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])

		select {
		case m.Packets <- payload:
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the multicast socket.
func (m *MulticastReader) Close() error {
	return m.conn.Close()
}
