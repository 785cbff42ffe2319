package domain

import (
	"errors"

	"zombieland-server/internal/core/types"
)

// ErrArenaFull - в арене кончились индексы.
var ErrArenaFull = errors.New("agent arena is full")

type agentSlot struct {
	gen   uint16
	agent *Agent
}

// World - единственный владелец всего изменяемого состояния симуляции.
// Агенты лежат в арене и адресуются стабильным AgentID; обход всегда идет
// по возрастанию индекса, поэтому порядок детерминирован.
type World struct {
	Areas     []*Area
	StartArea *Area
	StartBox  Rect

	Tick  uint32
	Shots []*Shot

	slots []agentSlot
	free  []uint16
	live  int
}

// NewWorld собирает мир из готовых зон.
func NewWorld(areas []*Area, start *Area, startBox Rect) *World {
	return &World{
		Areas:     areas,
		StartArea: start,
		StartBox:  startBox,
	}
}

// AreaByID возвращает зону или nil.
func (w *World) AreaByID(id int) *Area {
	for _, a := range w.Areas {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Insert кладет агента в свободный слот и проставляет ему ID.
func (w *World) Insert(a *Agent) (types.AgentID, error) {
	var idx uint16
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		if len(w.slots) > types.MaxIndex {
			return types.NilAgentID, ErrArenaFull
		}
		w.slots = append(w.slots, agentSlot{})
		idx = uint16(len(w.slots) - 1)
	}

	slot := &w.slots[idx]
	slot.agent = a
	a.ID = types.PackAgentID(a.Kind(), slot.gen, idx)
	w.live++
	return a.ID, nil
}

// Get возвращает живого агента по ID. Устаревший ID (другое поколение) дает nil.
func (w *World) Get(id types.AgentID) *Agent {
	idx := int(id.Index())
	if id.IsNil() || idx >= len(w.slots) {
		return nil
	}
	a := w.slots[idx].agent
	if a == nil || a.ID != id {
		return nil
	}
	return a
}

// Remove освобождает слот и увеличивает его поколение.
func (w *World) Remove(id types.AgentID) bool {
	if w.Get(id) == nil {
		return false
	}
	idx := id.Index()
	slot := &w.slots[idx]
	slot.agent = nil
	slot.gen = (slot.gen + 1) & types.MaxGeneration
	w.free = append(w.free, idx)
	w.live--
	return true
}

// Agents возвращает живых агентов в порядке индексов.
func (w *World) Agents() []*Agent {
	out := make([]*Agent, 0, w.live)
	for _, s := range w.slots {
		if s.agent != nil {
			out = append(out, s.agent)
		}
	}
	return out
}

// Players - только игроки, в порядке индексов.
func (w *World) Players() []*Agent {
	var out []*Agent
	for _, s := range w.slots {
		if s.agent != nil && s.agent.IsPlayer() {
			out = append(out, s.agent)
		}
	}
	return out
}

// Count - число живых агентов.
func (w *World) Count() int {
	return w.live
}

// PlayerCount - число подключенных игроков.
func (w *World) PlayerCount() int {
	n := 0
	for _, s := range w.slots {
		if s.agent != nil && s.agent.IsPlayer() {
			n++
		}
	}
	return n
}

// PlayerByName ищет игрока по имени (имена уникальны).
func (w *World) PlayerByName(name string) *Agent {
	for _, s := range w.slots {
		if s.agent == nil {
			continue
		}
		if p, ok := s.agent.AsPlayer(); ok && p.Name == name {
			return s.agent
		}
	}
	return nil
}

// AddShot регистрирует трассер.
func (w *World) AddShot(s *Shot) {
	w.Shots = append(w.Shots, s)
}
