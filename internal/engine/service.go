package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"zombieland-server/internal/domain"
	"zombieland-server/internal/network"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnexpectedMessage = errors.New("server-only message from client")
	ErrForeignInput      = errors.New("input from a foreign address")
)

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . Transport

// Transport - сетевой порт сервиса: входящие датаграммы и отправка ответов.
type Transport interface {
	Drain() []network.Datagram
	Send(addr *net.UDPAddr, b []byte) error
}

// GameService крутит симуляцию в фиксированном темпе и связывает ее с сетью.
// Мир трогает только горутина Run; наружу уходят лишь копии сводки.
type GameService struct {
	Sim *Instance
	Hub *network.Broadcaster

	cfg       Config
	transport Transport

	summary  atomic.Pointer[WorldSummary]
	overruns atomic.Uint64
}

func NewService(cfg Config, world *domain.World, transport Transport) *GameService {
	s := &GameService{
		Sim:       NewInstance(world, cfg),
		Hub:       network.NewBroadcaster(),
		cfg:       cfg,
		transport: transport,
	}
	if cfg.ReplayDir != "" {
		s.Sim.StartRecording()
	}
	s.summary.Store(s.Sim.Summarize())
	return s
}

func (s *GameService) log() *logrus.Entry {
	return logger.For("game_service").WithFields(logrus.Fields{
		"tick": s.Sim.World.Tick,
	})
}

// Run выполняет тики до отмены контекста. Опоздавший тик не догоняется:
// следующий начинается сразу, время идет по стенным часам.
func (s *GameService) Run(ctx context.Context) error {
	budget := s.cfg.TickDuration()
	s.log().WithFields(logrus.Fields{
		"seed":   s.Sim.Seed,
		"budget": budget,
	}).Info("Game loop started")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log().Info("Game loop stopped")
			return nil
		case <-timer.C:
		}

		start := time.Now()
		if err := s.Tick(); err != nil {
			return err
		}

		elapsed := time.Since(start)
		if elapsed >= budget {
			s.overruns.Add(1)
			s.log().WithField("elapsed", elapsed).Warn("Tick overran its budget, pacing skipped")
			timer.Reset(0)
			continue
		}
		timer.Reset(budget - elapsed)
	}
}

// Tick - один полный цикл: прием, симуляция, рассылка.
func (s *GameService) Tick() error {
	for _, d := range s.transport.Drain() {
		if err := s.HandleDatagram(d); err != nil {
			if s.cfg.StrictProtocol {
				return err
			}
			s.log().WithError(err).WithField("from", d.Addr).Warn("Datagram dropped")
		}
	}

	report := s.Sim.Step()

	for _, a := range report.Died {
		p, _ := a.AsPlayer()
		s.reply(p.Addr, api.PlayerDied{})
	}
	s.broadcast()

	if (report.Tick+1)%uint32(s.cfg.ObserverEveryTicks) == 0 {
		s.publishSummary()
	}
	return nil
}

// HandleDatagram разбирает и применяет одну входящую датаграмму.
// Возвращает только ошибки протокола; отказы в логине уходят клиенту ответом.
func (s *GameService) HandleDatagram(d network.Datagram) error {
	msg, err := api.Decode(d.Data)
	if err != nil {
		return err
	}
	if err := api.Validate(msg); err != nil {
		return fmt.Errorf("%s: %w", msg.Type(), err)
	}

	switch m := msg.(type) {
	case api.Login:
		s.Sim.Record(d.Addr.String(), d.Data)
		return s.handleLogin(d.Addr, m)

	case api.CharState:
		a, p, err := s.Sim.Player(m.ID)
		if err != nil {
			// Клиент умершего игрока еще какое-то время шлет ввод.
			s.log().WithField("id", m.ID).Debug("Input for unknown player")
			return nil
		}
		if !p.Addr.IP.Equal(d.Addr.IP) {
			return fmt.Errorf("%w: player %s from %s", ErrForeignInput, a.ID, d.Addr)
		}
		s.Sim.Record(d.Addr.String(), d.Data)
		_, err = s.Sim.ApplyInput(m)
		return err

	case api.Logout:
		a, p, err := s.Sim.Player(m.ID)
		if err != nil {
			return nil
		}
		if !p.Addr.IP.Equal(d.Addr.IP) {
			return fmt.Errorf("%w: player %s from %s", ErrForeignInput, a.ID, d.Addr)
		}
		s.Sim.Record(d.Addr.String(), d.Data)
		return s.Sim.Logout(m.ID)

	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Type())
	}
}

func (s *GameService) handleLogin(src *net.UDPAddr, m api.Login) error {
	addr := s.replyAddr(src, m.PortOffset)
	log := s.log().WithFields(logrus.Fields{"name": m.Name, "addr": addr})

	if m.Version != api.ProtocolVersion {
		log.WithField("version", m.Version).Info("Login with foreign protocol version")
		s.reply(addr, api.VersionMismatch{})
		return nil
	}

	a, resumed, err := s.Sim.Login(LoginRequest{
		Name:       m.Name,
		Body:       m.Body,
		Addr:       addr,
		PortOffset: m.PortOffset,
	})
	switch {
	case errors.Is(err, ErrNameInUse):
		log.Info("Login refused: name in use")
		s.reply(addr, api.NameInUse{})
		return nil
	case errors.Is(err, ErrServerFull):
		log.Info("Login refused: server full")
		s.reply(addr, api.ServerFull{})
		return nil
	case err != nil:
		return err
	}

	if resumed {
		log.WithField("player_id", a.ID).Debug("Repeated login, LOGIN_OK resent")
	}
	s.reply(addr, api.LoginOK{ID: uint32(a.ID)})
	return nil
}

// replyAddr - клиент слушает отдельный порт: base + offset на том же IP.
func (s *GameService) replyAddr(src *net.UDPAddr, offset uint16) *net.UDPAddr {
	return &net.UDPAddr{
		IP:   src.IP,
		Port: s.cfg.ClientBasePort + int(offset),
		Zone: src.Zone,
	}
}

// reply отправляет служебный ответ. Сбой не критичен: клиент повторит запрос.
func (s *GameService) reply(addr *net.UDPAddr, m api.Message) {
	b, err := api.Encode(m)
	if err != nil {
		s.log().WithError(err).WithField("type", m.Type()).Error("Encode failed")
		return
	}
	if err := s.transport.Send(addr, b); err != nil {
		s.log().WithError(err).WithField("type", m.Type()).Warn("Reply not sent")
	}
}

// broadcast шлет каждому игроку его снапшот. Сбой отправки отключает
// только этого игрока, остальные получают свои снапшоты как обычно.
func (s *GameService) broadcast() {
	w := s.Sim.World
	for _, a := range w.Players() {
		p, _ := a.AsPlayer()
		st, dropped := BuildState(w, a)
		if dropped > 0 {
			s.Sim.playerLog(a, p).WithField("dropped", dropped).Warn("Snapshot truncated")
		}

		b, err := api.Encode(st)
		if err != nil {
			s.Sim.playerLog(a, p).WithError(err).Error("Snapshot encode failed")
			continue
		}
		if err := s.transport.Send(p.Addr, b); err != nil {
			s.Sim.playerLog(a, p).WithError(err).Error("Snapshot send failed")
			s.Sim.Disconnect(a, "send failed")
		}
	}
}

func (s *GameService) publishSummary() {
	sum := s.Sim.Summarize()
	s.summary.Store(sum)

	if s.Hub.SubscriberCount() == 0 {
		return
	}
	b, err := json.Marshal(sum)
	if err != nil {
		s.log().WithError(err).Error("Summary encode failed")
		return
	}
	s.Hub.Broadcast(b)
}

// Summary - последняя опубликованная сводка. Безопасно из любой горутины.
func (s *GameService) Summary() *WorldSummary {
	return s.summary.Load()
}

// Overruns - сколько тиков не уложились в бюджет.
func (s *GameService) Overruns() uint64 {
	return s.overruns.Load()
}
