package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"zombieland-server/internal/domain"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/logger"
	"zombieland-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

const (
	loginAttempts = 5
	loginWait     = 200 * time.Millisecond
)

var (
	ErrNameInUse       = errors.New("name in use")
	ErrServerFull      = errors.New("server full")
	ErrVersionMismatch = errors.New("protocol version mismatch")
	ErrNoReply         = errors.New("server did not answer")
	ErrDied            = errors.New("bot died")
)

// Bot - внешний клиент без экрана (Headless Agent).
// Говорит с сервером тем же UDP-протоколом, что и обычный клиент:
// получает свой SERVER_STATE и отвечает CLIENT_CHAR_STATE.
//
// Жизненный цикл:
//  1. NewBot -> открывает сокет на порту, куда сервер шлет ответы.
//  2. Login -> LOGIN с повторами до LOGIN_OK или отказа.
//  3. Run -> на каждый снапшот решение через Decide и кадр ввода.
//  4. Отмена контекста -> LOGOUT и закрытие сокета.
type Bot struct {
	Name       string
	Body       uint32
	PortOffset uint16

	// ID выдан сервером в LOGIN_OK.
	ID uint32
	// States - сколько снапшотов получено.
	States int
	Last   *api.ServerState

	server *net.UDPAddr
	conn   *net.UDPConn
	rng    *rand.Rand
	frame  uint32
	log    *logrus.Entry
}

// NewBot открывает сокет на listenPort (0 - любой свободный).
// Сервер отвечает на client_base_port + offset, listenPort должен с этим совпадать.
func NewBot(name string, server *net.UDPAddr, listenPort int, offset uint16, seed int64) (*Bot, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: listenPort})
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", name, err)
	}
	return &Bot{
		Name:       name,
		PortOffset: offset,
		server:     server,
		conn:       conn,
		rng:        utils.NewRand(seed),
		log: logger.For("bot").WithFields(logrus.Fields{
			"name": name,
		}),
	}, nil
}

// LocalPort - порт, на котором бот ждет ответы.
func (b *Bot) LocalPort() int {
	return b.conn.LocalAddr().(*net.UDPAddr).Port
}

func (b *Bot) Close() error {
	return b.conn.Close()
}

func (b *Bot) send(m api.Message) error {
	raw, err := api.Encode(m)
	if err != nil {
		return err
	}
	_, err = b.conn.WriteToUDP(raw, b.server)
	return err
}

// receive ждет одну датаграмму. Таймаут возвращает (nil, nil).
func (b *Bot) receive(wait time.Duration) (api.Message, error) {
	if err := b.conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		return nil, err
	}
	buf := make([]byte, api.MaxMessageSize)
	n, _, err := b.conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, nil
		}
		return nil, err
	}
	return api.Decode(buf[:n])
}

func (b *Bot) loginRequest() api.Login {
	return api.Login{Version: api.ProtocolVersion, PortOffset: b.PortOffset, Name: b.Name, Body: b.Body}
}

// Login повторяет LOGIN, пока сервер не ответит.
// Снапшоты, пришедшие до ответа (повторный вход), пропускаются.
func (b *Bot) Login(ctx context.Context) error {
	for attempt := 0; attempt < loginAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.send(b.loginRequest()); err != nil {
			return err
		}

		deadline := time.Now().Add(loginWait)
		for time.Now().Before(deadline) {
			msg, err := b.receive(time.Until(deadline))
			if err != nil {
				b.log.WithError(err).Debug("Garbage while logging in")
				continue
			}
			switch m := msg.(type) {
			case api.LoginOK:
				b.ID = m.ID
				b.log.WithField("id", m.ID).Info("Bot logged in")
				return nil
			case api.NameInUse:
				return ErrNameInUse
			case api.ServerFull:
				return ErrServerFull
			case api.VersionMismatch:
				return ErrVersionMismatch
			}
		}
	}
	return ErrNoReply
}

// Run играет до отмены контекста или смерти.
func (b *Bot) Run(ctx context.Context) error {
	interval := time.Second / domain.TickRate

	for {
		if ctx.Err() != nil {
			if err := b.send(api.Logout{ID: b.ID}); err != nil {
				b.log.WithError(err).Debug("Logout not sent")
			}
			b.log.WithField("states", b.States).Info("Bot stopped")
			return nil
		}

		msg, err := b.receive(interval)
		if errors.Is(err, net.ErrClosed) {
			return err
		}
		if err != nil {
			b.log.WithError(err).Debug("Bad datagram")
			continue
		}
		switch m := msg.(type) {
		case api.ServerState:
			b.Last = &m
			b.States++
		case api.PlayerDied:
			b.log.WithField("states", b.States).Info("Bot died")
			return ErrDied
		}

		if b.Last == nil {
			continue
		}
		if err := b.send(b.nextInput()); err != nil {
			return err
		}
	}
}

func (b *Bot) nextInput() api.CharState {
	in := Decide(*b.Last, b.rng)
	b.frame++
	return api.CharState{
		ID:     b.ID,
		Frame:  b.frame,
		SpeedX: int32(in.Speed.X),
		SpeedY: int32(in.Speed.Y),
		Facing: uint32(in.Facing),
		Flags:  in.Flags,
		SwapA:  api.NoSlot,
		SwapB:  api.NoSlot,
	}
}
