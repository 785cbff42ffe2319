package engine

import (
	"zombieland-server/internal/domain"
	"zombieland-server/internal/systems"
	"zombieland-server/pkg/api"
)

// BuildState собирает персональный снапшот игрока.
// Реплика диалога уходит один раз: после сборки она очищается.
// Frame - номер отработанного тика, клиент отбрасывает снапшоты не новее последнего.
// Второе значение - сколько видимых записей не влезло в лимит.
func BuildState(w *domain.World, a *domain.Agent) (api.ServerState, int) {
	p, ok := a.AsPlayer()
	if !ok {
		return api.ServerState{}, 0
	}

	st := api.ServerState{
		Frame:      w.Tick,
		Area:       uint32(a.Area.ID),
		Box:        wireRect(a.Box),
		Facing:     uint32(a.Facing),
		Health:     int32(a.Health),
		Ammo:       uint32(p.Ammo),
		Hunger:     uint32(p.Hunger),
		Thirst:     uint32(p.Thirst),
		SearchMode: uint32(p.Search),
		NPCID:      api.NoSlot,
	}
	if a.Invulnerable > 0 {
		st.Flags |= api.StateInvulnerable
	}
	if p.JustShot {
		st.Flags |= api.StateJustShot
	}
	if p.JustStabbed {
		st.Flags |= api.StateJustStabbed
	}

	if p.Search != domain.SearchNone {
		for i, k := range p.Bag {
			st.OwnBag[i] = uint32(k)
		}
	}
	if p.Searching != nil {
		for i, k := range p.Searching.Slots {
			st.WorldBag[i] = uint32(k)
		}
	}

	if d := p.Dialogue; d != nil {
		st.Text = d.Text
		st.TextLines = uint32(d.Lines)
		if d.NPC != nil {
			st.NPCID = int32(d.NPC.ID)
			st.NPCFacing = uint32(d.NPC.Facing)
		}
		p.Dialogue = nil
	}

	vis := systems.CollectVisible(a, w, api.MaxVisibles)
	st.Visibles = make([]api.Visible, 0, len(vis.Items))
	for _, s := range vis.Items {
		v := api.Visible{
			Kind:    uint32(s.Kind),
			Subtype: s.Subtype,
			Box:     wireRect(s.Box),
			Facing:  uint32(s.Facing),
			SpeedX:  int32(domain.Sign(s.Velocity.X)),
			SpeedY:  int32(domain.Sign(s.Velocity.Y)),
		}
		if s.Invulnerable {
			v.Flags |= api.VisibleFlagInvulnerable
		}
		st.Visibles = append(st.Visibles, v)
	}

	return st, vis.Dropped
}

func wireRect(r domain.Rect) api.Rect {
	return api.Rect{X: int32(r.X), Y: int32(r.Y), W: int32(r.W), H: int32(r.H)}
}
