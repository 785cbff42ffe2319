package engine

import (
	"testing"

	"zombieland-server/internal/core/types/enums"
	"zombieland-server/internal/domain"
	"zombieland-server/pkg/api"
)

func TestBuildState_Flags(t *testing.T) {
	inst := NewInstance(testWorld(openField()), testConfig())
	a, p := login(t, inst, "alice", 5)
	a.Invulnerable = 3
	p.JustStabbed = true
	p.Ammo = 2

	st, dropped := BuildState(inst.World, a)
	if dropped != 0 {
		t.Errorf("dropped = %d", dropped)
	}
	if st.Frame != inst.World.Tick || st.Ammo != 2 || st.Health != domain.PlayerMaxHealth {
		t.Errorf("state = %+v", st)
	}
	if st.Flags != api.StateInvulnerable|api.StateJustStabbed {
		t.Errorf("flags = %b", st.Flags)
	}
	if st.NPCID != api.NoSlot || st.Text != "" {
		t.Errorf("unexpected dialogue: npc=%d text=%q", st.NPCID, st.Text)
	}
	if st.Box != (api.Rect{X: 96, Y: 0, W: 16, H: 16}) {
		t.Errorf("box = %+v", st.Box)
	}
}

func TestBuildState_FrameFollowsServerTick(t *testing.T) {
	inst := NewInstance(testWorld(openField()), testConfig())
	a, _ := login(t, inst, "alice", 5)

	if _, err := inst.ApplyInput(input(a, 5, 0)); err != nil {
		t.Fatalf("ApplyInput: %v", err)
	}

	// Ввод больше не приходит, а кадр снапшота все равно растет.
	var prev uint32
	for i := 0; i < 3; i++ {
		inst.Step()
		st, _ := BuildState(inst.World, a)
		if st.Frame != inst.World.Tick {
			t.Fatalf("tick %d: frame = %d, want world tick %d", i, st.Frame, inst.World.Tick)
		}
		if i > 0 && st.Frame <= prev {
			t.Fatalf("frame did not advance: %d then %d", prev, st.Frame)
		}
		prev = st.Frame
	}
}

func TestBuildState_DialogueDeliveredOnce(t *testing.T) {
	inst := NewInstance(testWorld(openField()), testConfig())
	a, p := login(t, inst, "alice", 5)
	p.Dialogue = &domain.Dialogue{
		Text:  "Stay by the fire.",
		Lines: 1,
		NPC:   &domain.NPC{ID: 4, Facing: domain.FacingUp},
	}

	first, _ := BuildState(inst.World, a)
	if first.Text != "Stay by the fire." || first.TextLines != 1 || first.NPCID != 4 || first.NPCFacing != uint32(domain.FacingUp) {
		t.Errorf("first snapshot dialogue = %+v", first)
	}

	second, _ := BuildState(inst.World, a)
	if second.Text != "" || second.TextLines != 0 || second.NPCID != api.NoSlot {
		t.Errorf("dialogue repeated: %+v", second)
	}
}

func TestBuildState_Bags(t *testing.T) {
	inst := NewInstance(testWorld(openField()), testConfig())
	a, p := login(t, inst, "alice", 5)
	p.Bag[0] = enums.ObjectFlesh

	closed, _ := BuildState(inst.World, a)
	if closed.OwnBag != [api.BagSize]uint32{} {
		t.Errorf("own bag sent while not searching: %v", closed.OwnBag)
	}

	bag := &domain.Bag{ID: 2, Slots: [domain.BagSize]enums.ObjectKind{enums.ObjectWater}}
	p.Search = domain.SearchOwnAndWorld
	p.Searching = bag

	open, _ := BuildState(inst.World, a)
	if open.SearchMode != uint32(domain.SearchOwnAndWorld) {
		t.Errorf("search mode = %d", open.SearchMode)
	}
	if open.OwnBag[0] != uint32(enums.ObjectFlesh) || open.WorldBag[0] != uint32(enums.ObjectWater) {
		t.Errorf("bags = %v / %v", open.OwnBag, open.WorldBag)
	}
}

func TestBuildState_TruncatedSnapshotFitsDatagram(t *testing.T) {
	field := openField()
	inst := NewInstance(testWorld(field), testConfig())
	a, _ := login(t, inst, "alice", 5)

	for y := 2; y < 7; y++ {
		for x := 1; x < 7; x++ {
			z := domain.NewZombieAgent(&domain.Zombie{}, domain.GridRect(x, y, 1, 1), field)
			if _, err := inst.World.Insert(z); err != nil {
				t.Fatal(err)
			}
		}
	}

	st, dropped := BuildState(inst.World, a)
	if len(st.Visibles) != api.MaxVisibles || dropped != 30-api.MaxVisibles {
		t.Fatalf("visibles=%d dropped=%d", len(st.Visibles), dropped)
	}
	b, err := api.Encode(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(b) > api.MaxMessageSize {
		t.Errorf("snapshot is %d bytes", len(b))
	}
}
