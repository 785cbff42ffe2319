package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"zombieland-server/pkg/api"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DefaultQueueSize - сколько датаграмм ждут тика, прежде чем читатель начнет их терять.
const DefaultQueueSize = 1024

var ErrShortWrite = errors.New("short datagram write")

// Datagram - одна принятая датаграмма.
type Datagram struct {
	Addr *net.UDPAddr
	Data []byte
}

//go:generate go tool mockgen -destination=./mocks/packetconn_mock.go -package=mocks . PacketConn

// PacketConn - часть *net.UDPConn, которая нужна транспорту.
type PacketConn interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
	LocalAddr() net.Addr
	Close() error
}

// UDPTransport читает сокет в отдельной горутине и складывает датаграммы
// в очередь. Тик забирает их через Drain, не блокируясь.
type UDPTransport struct {
	conn  PacketConn
	inbox chan Datagram

	dropped atomic.Uint64
	closed  atomic.Bool
}

// Listen открывает UDP-сокет на всех интерфейсах.
func Listen(port int) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("listen udp :%d: %w", port, err)
	}
	return NewUDPTransport(conn, DefaultQueueSize), nil
}

func NewUDPTransport(conn PacketConn, queue int) *UDPTransport {
	return &UDPTransport{
		conn:  conn,
		inbox: make(chan Datagram, queue),
	}
}

func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// ReadLoop читает сокет до отмены контекста или закрытия.
func (t *UDPTransport) ReadLoop(ctx context.Context) error {
	log := logger.For("udp_transport").WithFields(logrus.Fields{
		"addr": t.conn.LocalAddr(),
	})
	log.Info("UDP reader started")

	stop := context.AfterFunc(ctx, func() { _ = t.Close() })
	defer stop()

	// +1 байт, чтобы отличить датаграмму ровно лимита от обрезанной.
	buf := make([]byte, api.MaxMessageSize+1)
	for {
		n, addr, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			if t.closed.Load() || errors.Is(err, net.ErrClosed) {
				log.Info("UDP reader stopped")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("read udp: %w", err)
		}
		if n > api.MaxMessageSize {
			log.WithField("from", addr).Warn("Oversized datagram dropped")
			continue
		}

		d := Datagram{Addr: addr, Data: append([]byte(nil), buf[:n]...)}
		select {
		case t.inbox <- d:
		default:
			if t.dropped.Add(1)%100 == 1 {
				log.WithField("dropped", t.dropped.Load()).Warn("Inbound queue full")
			}
		}
	}
}

// Drain забирает все накопившиеся датаграммы в порядке прихода.
func (t *UDPTransport) Drain() []Datagram {
	var out []Datagram
	for {
		select {
		case d := <-t.inbox:
			out = append(out, d)
		default:
			return out
		}
	}
}

// Send отправляет одну датаграмму.
func (t *UDPTransport) Send(addr *net.UDPAddr, b []byte) error {
	n, err := t.conn.WriteToUDP(b, addr)
	if err != nil {
		return fmt.Errorf("send to %s: %w", addr, err)
	}
	if n != len(b) {
		return fmt.Errorf("send to %s: %w (%d of %d)", addr, ErrShortWrite, n, len(b))
	}
	return nil
}

// Dropped - сколько датаграмм потеряно из-за переполненной очереди.
func (t *UDPTransport) Dropped() uint64 {
	return t.dropped.Load()
}

func (t *UDPTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.conn.Close()
}
