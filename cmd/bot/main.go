package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"zombieland-server/internal/agent"
	"zombieland-server/internal/engine"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	var (
		serverAddr string
		basePort   int
		count      int
		name       string
		seed       int64
	)
	flag.StringVar(&serverAddr, "server", fmt.Sprintf("127.0.0.1:%d", engine.DefaultPort), "Server UDP address")
	flag.IntVar(&basePort, "base", engine.DefaultPort, "Client base port (must match server client_base_port)")
	flag.IntVar(&count, "count", 1, "Number of bots")
	flag.StringVar(&name, "name", "bot", "Name prefix")
	flag.Int64Var(&seed, "seed", 1, "Bot decision seed")
	flag.Parse()

	if count < 1 || count > api.MaxPortOffset+1 {
		logger.Log.Fatalf("count must be in [1, %d]", api.MaxPortOffset+1)
	}

	server, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		logger.Log.WithError(err).Fatal("Bad server address")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		offset := uint16(i)
		botName := fmt.Sprintf("%s%d", name, i)

		b, err := agent.NewBot(botName, server, basePort+int(offset), offset, seed+int64(i))
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to open bot socket")
		}
		defer b.Close()

		g.Go(func() error {
			if err := b.Login(gctx); err != nil {
				return fmt.Errorf("%s: %w", botName, err)
			}
			err := b.Run(gctx)
			if errors.Is(err, agent.ErrDied) {
				// смерть одного бота не останавливает остальных
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Error("Bots stopped")
		os.Exit(1)
	}
	logger.Log.Info("Bots stopped")
}
