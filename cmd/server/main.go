package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"zombieland-server/internal/domain"
	"zombieland-server/internal/engine"
	"zombieland-server/internal/infrastructure/storage"
	"zombieland-server/internal/network"
	"zombieland-server/internal/server"
	"zombieland-server/internal/version"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var (
		configPath string
		replayPath string
		seed       int64
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config")
	flag.StringVar(&replayPath, "replay", "", "Path to .zlrp replay file to simulate")
	flag.Int64Var(&seed, "seed", 0, "World seed (0 keeps config/env value)")
	flag.Parse()

	logger.Log.Info("Starting Zombieland server...")
	logger.Log.Info(version.String())

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	if err := cfg.ApplyEnv(); err != nil {
		logger.Log.WithError(err).Fatal("Bad environment")
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("Invalid config")
	}

	world, err := engine.BuildWorld(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to build world")
	}

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		runReplay(cfg, world, replayPath)
		return
	}

	// 2. Сеть и ядро
	transport, err := network.Listen(cfg.Port)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open UDP socket")
	}
	gameService := engine.NewService(cfg, world, transport)

	logger.Log.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"seed":      cfg.Seed,
		"tick_rate": cfg.TickRateHz,
		"world":     coalesce(cfg.WorldFile, "embedded"),
	}).Info("Server listening")

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Симуляция, читатель сокета и debug-сервер в одной группе
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return transport.ReadLoop(gctx) })
	g.Go(func() error { return gameService.Run(gctx) })
	if cfg.DebugAddr != "" {
		srv := server.New(gameService, cfg.DebugAddr)
		g.Go(func() error { return srv.Run(gctx) })
	}

	runErr := g.Wait()
	if runErr != nil {
		logger.Log.WithError(runErr).Error("Server stopped with error")
	}
	logger.Log.Info("Shutting down...")

	if gameService.Sim.Replay != nil {
		journal := storage.NewReplayService(cfg.ReplayDir, api.ProtocolVersion)
		path, err := journal.Save(gameService.Sim.Replay)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to save replay")
		} else {
			logger.Log.WithField("path", path).Info("Replay saved")
		}
	}

	logger.Log.Info("Done.")
	if runErr != nil {
		os.Exit(1)
	}
}

// runReplay прогоняет журнал и печатает итог в лог.
func runReplay(cfg engine.Config, world *domain.World, path string) {
	logger.Log.Info("Mode: Replay Simulation")

	journal := storage.NewReplayService("", api.ProtocolVersion)
	session, err := journal.Load(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load replay")
	}

	sum, err := engine.Playback(cfg, world, session)
	if err != nil {
		logger.Log.WithError(err).Fatal("Replay failed")
	}
	for _, a := range sum.Areas {
		logger.Log.WithFields(logrus.Fields{
			"area":    a.Name,
			"zombies": a.Zombies,
			"objects": a.Objects,
			"players": a.Players,
		}).Info("Area state")
	}
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
