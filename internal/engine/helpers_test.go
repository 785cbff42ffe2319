package engine

import (
	"net"
	"testing"

	"zombieland-server/internal/domain"
	"zombieland-server/internal/network"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/worldmap"
)

func testConfig() Config {
	cfg := NewConfig()
	cfg.Seed = 42
	cfg.ClientBasePort = 20000
	return cfg
}

func openField() *domain.Area {
	return &domain.Area{
		ID:       0,
		Name:     "field",
		Walkable: domain.GridRect(0, 0, 32, 32),
		Economy:  &domain.Economy{},
	}
}

func testWorld(areas ...*domain.Area) *domain.World {
	return domain.NewWorld(areas, areas[0], domain.Rect{X: 96, Y: 0, W: 16, H: 16})
}

func defaultWorld(t *testing.T) *domain.World {
	t.Helper()
	w, err := worldmap.Default()
	if err != nil {
		t.Fatalf("default world: %v", err)
	}
	return w
}

func clientIP(last byte) net.IP {
	return net.IPv4(10, 0, 0, last)
}

func login(t *testing.T, inst *Instance, name string, last byte) (*domain.Agent, *domain.Player) {
	t.Helper()
	a, _, err := inst.Login(LoginRequest{
		Name: name,
		Addr: &net.UDPAddr{IP: clientIP(last), Port: 20000},
	})
	if err != nil {
		t.Fatalf("login %s: %v", name, err)
	}
	p, _ := a.AsPlayer()
	return a, p
}

// input собирает CLIENT_CHAR_STATE с пустыми слотами обмена.
func input(a *domain.Agent, frame uint32, flags api.InputFlags) api.CharState {
	return api.CharState{
		ID:     uint32(a.ID),
		Frame:  frame,
		Facing: uint32(a.Facing),
		Flags:  flags,
		SwapA:  api.NoSlot,
		SwapB:  api.NoSlot,
	}
}

func datagram(t *testing.T, from *net.UDPAddr, m api.Message) network.Datagram {
	t.Helper()
	b, err := api.Encode(m)
	if err != nil {
		t.Fatalf("encode %s: %v", m.Type(), err)
	}
	return network.Datagram{Addr: from, Data: b}
}

// withoutSessions обнуляет случайные UUID сессий, чтобы сводки можно было сравнивать.
func withoutSessions(s *WorldSummary) *WorldSummary {
	cp := *s
	cp.Players = append([]PlayerSummary(nil), s.Players...)
	for i := range cp.Players {
		cp.Players[i].Session = ""
	}
	return &cp
}

func worldmapDefault() (*domain.World, error) {
	return worldmap.Default()
}
