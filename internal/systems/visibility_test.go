package systems

import (
	"testing"

	"zombieland-server/internal/core/types"
	"zombieland-server/internal/core/types/enums"
	"zombieland-server/internal/domain"
)

func TestCollectVisible_PlayersSeeEachOther(t *testing.T) {
	area := newField()
	world := newWorld(area)
	a, _ := addPlayer(t, world, area, "a", cell(2, 2))
	b, pb := addPlayer(t, world, area, "b", cell(4, 2))
	pb.Body = 3
	addZombie(t, world, area, cell(25, 2)) // за краем окна обзора

	got := CollectVisible(a, world, domain.MaxVisibles)
	if len(got.Items) != 1 {
		t.Fatalf("a sees %d items, want 1", len(got.Items))
	}
	if it := got.Items[0]; it.Kind != SightPlayer || it.Box != b.Box || it.Subtype != 3 {
		t.Errorf("unexpected sighting %+v", it)
	}

	back := CollectVisible(b, world, domain.MaxVisibles)
	for _, it := range back.Items {
		if it.Box == b.Box && it.Kind == SightPlayer {
			t.Errorf("player sees itself")
		}
	}
}

func TestCollectVisible_PrivateIsolation(t *testing.T) {
	field := newField()
	room := newField()
	room.ID, room.Private = 1, true
	room.Economy.Slots = []*domain.SpawnSlot{{Box: cell(3, 3)}}
	world := newWorld(field, room)

	a, _ := addPlayer(t, world, room, "a", cell(2, 2))
	b, _ := addPlayer(t, world, room, "b", cell(2, 3))
	a.Private = room.NewPrivate(a.ID)
	b.Private = room.NewPrivate(b.ID)

	a.Private.Economy.AddObject(&domain.Object{Kind: enums.ObjectWater, Box: cell(3, 3), Slot: a.Private.Economy.Slots[0]})
	world.AddShot(&domain.Shot{Box: cell(5, 2), Area: room, Private: a.Private, Owner: a.ID, Remaining: 3})
	world.AddShot(&domain.Shot{Box: cell(6, 2), Area: room, Private: b.Private, Owner: b.ID, Remaining: 3})

	got := CollectVisible(a, world, domain.MaxVisibles)
	kinds := map[SightingKind]int{}
	for _, it := range got.Items {
		kinds[it.Kind]++
	}
	if kinds[SightPlayer] != 0 {
		t.Errorf("private viewer sees other players")
	}
	if kinds[SightWater] != 1 || kinds[SightShot] != 1 {
		t.Errorf("private viewer sightings = %v", kinds)
	}

	if other := CollectVisible(b, world, domain.MaxVisibles); len(other.Items) != 1 || other.Items[0].Kind != SightShot {
		t.Errorf("b sees someone else's instance: %+v", other.Items)
	}
}

func TestCollectVisible_TruncatesNearestFirst(t *testing.T) {
	area := newField()
	area.Economy.AddObject(&domain.Object{Kind: enums.ObjectHealth, Box: cell(0, 1)})
	world := newWorld(area)
	viewer, _ := addPlayer(t, world, area, "v", cell(0, 0))
	first := addZombie(t, world, area, cell(1, 0))
	farthest := addZombie(t, world, area, cell(3, 0))
	second := addZombie(t, world, area, cell(2, 0))

	got := CollectVisible(viewer, world, 3)
	if got.Dropped != 1 || len(got.Items) != 3 {
		t.Fatalf("items=%d dropped=%d", len(got.Items), got.Dropped)
	}

	want := []Sighting{
		{Kind: SightZombie, Box: first.Box},
		{Kind: SightHealth, Box: cell(0, 1)},
		{Kind: SightZombie, Box: second.Box},
	}
	for i, w := range want {
		if got.Items[i].Kind != w.Kind || got.Items[i].Box != w.Box {
			t.Errorf("item %d = %v at %v, want %v at %v", i, got.Items[i].Kind, got.Items[i].Box, w.Kind, w.Box)
		}
	}
	for _, it := range got.Items {
		if it.Box == farthest.Box {
			t.Errorf("farthest zombie should be dropped")
		}
	}
}

func TestCollectVisible_BagState(t *testing.T) {
	area, bag := newBagArea()
	world := newWorld(area)
	viewer, _ := addPlayer(t, world, area, "v", cell(1, 1))

	got := CollectVisible(viewer, world, domain.MaxVisibles)
	if len(got.Items) != 1 || got.Items[0].Kind != SightSearchable || got.Items[0].Subtype != 1 {
		t.Fatalf("items = %+v", got.Items)
	}

	bag.SearchedBy = types.PackAgentID(enums.AgentKindPlayer, 0, 7)
	got = CollectVisible(viewer, world, domain.MaxVisibles)
	if got.Items[0].Kind != SightSearching {
		t.Errorf("locked bag kind = %v", got.Items[0].Kind)
	}
}

func TestCollectVisible_ReportsMotion(t *testing.T) {
	area := newField()
	world := newWorld(area)
	viewer, _ := addPlayer(t, world, area, "v", cell(1, 1))
	z := addZombie(t, world, area, cell(3, 1))
	z.Velocity = domain.Vec{X: -3, Y: 1}
	z.Invulnerable = 4
	z.Facing = domain.FacingLeft

	it := CollectVisible(viewer, world, domain.MaxVisibles).Items[0]
	if it.Velocity != (domain.Vec{X: -1, Y: 1}) || !it.Invulnerable || it.Facing != domain.FacingLeft {
		t.Errorf("sighting = %+v", it)
	}
}
