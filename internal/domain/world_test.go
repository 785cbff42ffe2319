package domain

import (
	"testing"

	"zombieland-server/internal/core/types/enums"
)

func newTestArea() *Area {
	return &Area{ID: 0, Name: "field", Walkable: GridRect(0, 0, 32, 32), Economy: &Economy{}}
}

func TestWorld_InsertGetRemove(t *testing.T) {
	area := newTestArea()
	world := NewWorld([]*Area{area}, area, GridRect(6, 0, 1, 1))

	p := NewPlayer("alice", 0, nil, 0, "s1")
	a := NewPlayerAgent(p, world.StartBox, area)

	id, err := world.Insert(a)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id.Kind() != enums.AgentKindPlayer {
		t.Errorf("Kind() = %v, want PLAYER", id.Kind())
	}
	if world.Get(id) != a {
		t.Fatalf("Get() did not return inserted agent")
	}
	if world.Count() != 1 || world.PlayerCount() != 1 {
		t.Errorf("Count() = %d, PlayerCount() = %d", world.Count(), world.PlayerCount())
	}

	if !world.Remove(id) {
		t.Fatalf("Remove() = false")
	}
	if world.Get(id) != nil {
		t.Errorf("Get() after Remove must be nil")
	}
	if world.Remove(id) {
		t.Errorf("second Remove() must report false")
	}
}

func TestWorld_StaleIDAfterReuse(t *testing.T) {
	area := newTestArea()
	world := NewWorld([]*Area{area}, area, Rect{})

	first := NewZombieAgent(&Zombie{}, Rect{W: 16, H: 16}, area)
	oldID, _ := world.Insert(first)
	world.Remove(oldID)

	second := NewZombieAgent(&Zombie{}, Rect{W: 16, H: 16}, area)
	newID, _ := world.Insert(second)

	if newID.Index() != oldID.Index() {
		t.Fatalf("expected slot reuse, got idx %d and %d", oldID.Index(), newID.Index())
	}
	if newID == oldID {
		t.Fatalf("reused slot must get a new generation")
	}
	if world.Get(oldID) != nil {
		t.Errorf("stale id resolved to a live agent")
	}
	if world.Get(newID) != second {
		t.Errorf("new id does not resolve")
	}
}

func TestWorld_AgentsOrderedByIndex(t *testing.T) {
	area := newTestArea()
	world := NewWorld([]*Area{area}, area, Rect{})

	var ids []uint16
	for i := 0; i < 5; i++ {
		id, _ := world.Insert(NewZombieAgent(&Zombie{}, Rect{}, area))
		ids = append(ids, id.Index())
	}
	world.Remove(world.Agents()[2].ID)

	prev := -1
	for _, a := range world.Agents() {
		if int(a.ID.Index()) <= prev {
			t.Fatalf("agents not in index order: %v", ids)
		}
		prev = int(a.ID.Index())
	}
	if got := len(world.Agents()); got != 4 {
		t.Errorf("len(Agents()) = %d, want 4", got)
	}
}

func TestWorld_PlayerByName(t *testing.T) {
	area := newTestArea()
	world := NewWorld([]*Area{area}, area, Rect{})
	a := NewPlayerAgent(NewPlayer("bob", 1, nil, 0, ""), Rect{}, area)
	world.Insert(a)
	world.Insert(NewZombieAgent(&Zombie{}, Rect{}, area))

	if world.PlayerByName("bob") != a {
		t.Errorf("PlayerByName(bob) did not find the player")
	}
	if world.PlayerByName("carol") != nil {
		t.Errorf("PlayerByName(carol) must be nil")
	}
}

func TestAgent_VariantAccess(t *testing.T) {
	area := newTestArea()
	player := NewPlayerAgent(NewPlayer("p", 0, nil, 0, ""), Rect{}, area)
	zombie := NewZombieAgent(&Zombie{}, Rect{}, area)

	if _, ok := player.AsZombie(); ok {
		t.Errorf("player must not expose zombie body")
	}
	if _, ok := zombie.AsPlayer(); ok {
		t.Errorf("zombie must not expose player body")
	}
	if p, ok := player.AsPlayer(); !ok || p.Name != "p" {
		t.Errorf("AsPlayer() failed")
	}
	if !zombie.IsZombie() || zombie.Health != ZombieHealth {
		t.Errorf("zombie defaults wrong: kind=%v health=%d", zombie.Kind(), zombie.Health)
	}
}
