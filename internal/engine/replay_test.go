package engine

import (
	"errors"
	"net"
	"reflect"
	"testing"

	"zombieland-server/internal/engine/mocks"
	"zombieland-server/internal/infrastructure/storage"
	"zombieland-server/internal/network"
	"zombieland-server/pkg/api"

	"go.uber.org/mock/gomock"
)

func TestPlayback_ReproducesLiveRun(t *testing.T) {
	const ticks = 120

	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	cfg := testConfig()
	cfg.ReplayDir = t.TempDir()
	svc := NewService(cfg, defaultWorld(t), tr)

	src := &net.UDPAddr{IP: clientIP(5), Port: 40000}
	var id uint32

	tr.EXPECT().Drain().DoAndReturn(func() []network.Datagram {
		tick := svc.Sim.World.Tick
		if tick == 0 {
			return []network.Datagram{datagram(t, src, api.Login{Version: api.ProtocolVersion, Name: "alice"})}
		}
		if id == 0 {
			id = uint32(svc.Sim.World.PlayerByName("alice").ID)
		}
		msg := api.CharState{ID: id, Frame: tick, SpeedX: 1, Facing: 2, SwapA: api.NoSlot, SwapB: api.NoSlot}
		if tick%20 == 0 {
			msg.Flags = api.FlagShoot
		}
		if tick > 60 {
			msg.SpeedX, msg.SpeedY, msg.Facing = 0, 1, 0
		}
		return []network.Datagram{datagram(t, src, msg)}
	}).Times(ticks)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	for i := 0; i < ticks; i++ {
		if err := svc.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	live := withoutSessions(svc.Sim.Summarize())

	journal := storage.NewReplayService(cfg.ReplayDir, api.ProtocolVersion)
	path, err := journal.Save(svc.Sim.Replay)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	session, err := journal.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(session.Actions) != ticks {
		t.Fatalf("journal has %d actions, want %d", len(session.Actions), ticks)
	}

	replayed, err := Playback(testConfig(), defaultWorld(t), session)
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	if got := withoutSessions(replayed); !reflect.DeepEqual(got, live) {
		t.Errorf("replay diverged:\nlive   %+v\nreplay %+v", live, got)
	}
}

func TestPlayback_ReproducesServerDisconnect(t *testing.T) {
	const (
		ticks    = 90
		failFrom = 40
	)

	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	cfg := testConfig()
	cfg.ReplayDir = t.TempDir()
	svc := NewService(cfg, defaultWorld(t), tr)

	alice := &net.UDPAddr{IP: clientIP(5), Port: 40000}
	bob := &net.UDPAddr{IP: clientIP(6), Port: 40000}
	ids := map[string]uint32{}

	tr.EXPECT().Drain().DoAndReturn(func() []network.Datagram {
		tick := svc.Sim.World.Tick
		if tick == 0 {
			return []network.Datagram{
				datagram(t, alice, api.Login{Version: api.ProtocolVersion, Name: "alice"}),
				datagram(t, bob, api.Login{Version: api.ProtocolVersion, Name: "bob", PortOffset: 1}),
			}
		}
		if len(ids) == 0 {
			ids["alice"] = uint32(svc.Sim.World.PlayerByName("alice").ID)
			ids["bob"] = uint32(svc.Sim.World.PlayerByName("bob").ID)
		}
		walk := func(name string, from *net.UDPAddr) network.Datagram {
			return datagram(t, from, api.CharState{ID: ids[name], Frame: tick, SpeedX: 1, Facing: 2, SwapA: api.NoSlot, SwapB: api.NoSlot})
		}
		return []network.Datagram{walk("alice", alice), walk("bob", bob)}
	}).Times(ticks)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(addr *net.UDPAddr, _ []byte) error {
		if addr.IP.Equal(alice.IP) && svc.Sim.World.Tick >= failFrom {
			return errors.New("host unreachable")
		}
		return nil
	}).AnyTimes()

	for i := 0; i < ticks; i++ {
		if err := svc.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if svc.Sim.World.PlayerByName("alice") != nil {
		t.Fatal("alice still connected after failed sends")
	}
	live := withoutSessions(svc.Sim.Summarize())

	logouts := 0
	for _, act := range svc.Sim.Replay.Actions {
		if m, err := api.Decode(act.Datagram); err == nil {
			if lo, ok := m.(api.Logout); ok && lo.ID == ids["alice"] {
				logouts++
			}
		}
	}
	if logouts != 1 {
		t.Fatalf("journal has %d LOGOUT records for alice, want 1", logouts)
	}

	replayed, err := Playback(testConfig(), defaultWorld(t), svc.Sim.Replay)
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	if got := withoutSessions(replayed); !reflect.DeepEqual(got, live) {
		t.Errorf("replay diverged:\nlive   %+v\nreplay %+v", live, got)
	}
}
