package agent

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"zombieland-server/internal/engine"
	"zombieland-server/internal/network"

	"golang.org/x/sync/errgroup"
)

// startServer поднимает настоящий игровой цикл на loopback.
// Ответы сервер шлет на clientPort (offset 0).
func startServer(t *testing.T, clientPort int) *net.UDPAddr {
	t.Helper()

	cfg := engine.NewConfig()
	cfg.Seed = 7
	cfg.ClientBasePort = clientPort

	world, err := engine.BuildWorld(cfg)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	transport, err := network.Listen(0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	svc := engine.NewService(cfg, world, transport)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return transport.ReadLoop(gctx) })
	g.Go(func() error { return svc.Run(gctx) })

	t.Cleanup(func() {
		cancel()
		if err := g.Wait(); err != nil {
			t.Errorf("server stopped with error: %v", err)
		}
	})

	port := transport.LocalAddr().(*net.UDPAddr).Port
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
}

func newTestBot(t *testing.T, name string) *Bot {
	t.Helper()
	b, err := NewBot(name, nil, 0, 0, 1)
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBot_LoginAndPlay(t *testing.T) {
	b := newTestBot(t, "robot")
	b.server = startServer(t, b.LocalPort())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := b.Login(ctx); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	playCtx, stop := context.WithTimeout(ctx, 500*time.Millisecond)
	defer stop()

	if err := b.Run(playCtx); err != nil && !errors.Is(err, ErrDied) {
		t.Fatalf("Run() error = %v", err)
	}
	if b.States == 0 {
		t.Fatal("bot received no SERVER_STATE")
	}
	if b.frame == 0 {
		t.Error("bot sent no input frames")
	}
}

func TestBot_LoginResumes(t *testing.T) {
	b := newTestBot(t, "again")
	b.server = startServer(t, b.LocalPort())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := b.Login(ctx); err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	id := b.ID

	// Повторный LOGIN с того же адреса и offset возвращает ту же сессию.
	if err := b.Login(ctx); err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	if b.ID != id {
		t.Errorf("resumed ID = %d, want %d", b.ID, id)
	}
}

func TestBot_NoServer(t *testing.T) {
	b := newTestBot(t, "lonely")
	// Порт, на котором никто не слушает: закрытый сокет.
	dead, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	b.server = dead.LocalAddr().(*net.UDPAddr)
	_ = dead.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Login(ctx); !errors.Is(err, ErrNoReply) {
		t.Fatalf("Login() error = %v, want %v", err, ErrNoReply)
	}
}
