package engine

import (
	"net"

	"zombieland-server/internal/domain"
	"zombieland-server/internal/network"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// replayFeed подает записанные датаграммы тику, в котором они были приняты.
// Ответы сервера никуда не уходят.
type replayFeed struct {
	actions []domain.ReplayAction
	pos     int
	tick    func() uint32
}

func (f *replayFeed) Drain() []network.Datagram {
	var out []network.Datagram
	now := f.tick()
	for f.pos < len(f.actions) && f.actions[f.pos].Tick <= now {
		act := f.actions[f.pos]
		f.pos++

		addr, err := net.ResolveUDPAddr("udp", act.Addr)
		if err != nil {
			logger.For("replay").WithFields(logrus.Fields{
				"tick": act.Tick,
				"addr": act.Addr,
			}).WithError(err).Warn("Replay action skipped")
			continue
		}
		out = append(out, network.Datagram{Addr: addr, Data: act.Datagram})
	}
	return out
}

func (f *replayFeed) Send(*net.UDPAddr, []byte) error { return nil }

// Playback прогоняет журнал через симуляцию без сети и часов и возвращает
// сводку после последнего записанного тика. Тот же сид и тот же вход
// дают тот же мир.
func Playback(cfg Config, world *domain.World, session *domain.ReplaySession) (*WorldSummary, error) {
	cfg.Seed = session.Seed
	cfg.ReplayDir = ""

	feed := &replayFeed{actions: session.Actions}
	svc := NewService(cfg, world, feed)
	feed.tick = func() uint32 { return svc.Sim.World.Tick }

	var last uint32
	if n := len(session.Actions); n > 0 {
		last = session.Actions[n-1].Tick
	}

	log := logger.For("replay").WithFields(logrus.Fields{
		"seed":      session.Seed,
		"actions":   len(session.Actions),
		"last_tick": last,
	})
	log.Info("Replay started")

	for svc.Sim.World.Tick <= last {
		if err := svc.Tick(); err != nil {
			return nil, err
		}
	}

	sum := svc.Sim.Summarize()
	log.WithFields(logrus.Fields{
		"tick":    sum.Tick,
		"players": len(sum.Players),
	}).Info("Replay finished")
	return sum, nil
}
