package domain

import (
	"zombieland-server/internal/core/types"
	"zombieland-server/internal/core/types/enums"
)

// Area - узел графа мира. Топология статична, живое состояние
// (зомби, экономика) меняется только внутри тика.
type Area struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Walkable Rect   `json:"walkable"`

	// Obstacles блокируют и движение, и выстрелы.
	Obstacles []Rect `json:"obstacles"`
	// HalfObstacles блокируют только движение (берег, забор).
	HalfObstacles []Rect `json:"halfObstacles"`

	Warps         []Warp         `json:"-"`
	Interactables []Interactable `json:"interactables"`
	NPCs          []*NPC         `json:"npcs"`

	ZombieSpawns []Rect `json:"zombieSpawns"`
	ZombieCount  int    `json:"zombieCount"`

	Peaceful bool `json:"peaceful"`
	Private  bool `json:"private"`

	// Economy - общая экономика публичной зоны. Для приватной зоны это
	// шаблон, из которого копируются личные экземпляры.
	Economy *Economy `json:"-"`

	blockers []Rect
}

// Blockers - все препятствия для движения: сначала полные, потом половинные.
func (a *Area) Blockers() []Rect {
	if a.blockers == nil {
		a.blockers = make([]Rect, 0, len(a.Obstacles)+len(a.HalfObstacles))
		a.blockers = append(a.blockers, a.Obstacles...)
		a.blockers = append(a.blockers, a.HalfObstacles...)
	}
	return a.blockers
}

// NewPrivate создает личный экземпляр зоны: свои точки спавна и свои сумки
// с исходным содержимым.
func (a *Area) NewPrivate(owner types.AgentID) *PrivateArea {
	return &PrivateArea{Area: a, Owner: owner, Economy: a.Economy.cloneLayout()}
}

// Warp - переход в другую зону при полном попадании бокса игрока в Trigger.
type Warp struct {
	Trigger Rect
	Dest    *Area
	// Spawn - левый верхний угол игрока после перехода.
	Spawn Vec
}

// Interactable - статичный триггер с текстом.
type Interactable struct {
	Box  Rect   `json:"box"`
	Text string `json:"text"`
}

// NPC - персонаж с репликой, поворачивается к собеседнику.
type NPC struct {
	ID     int    `json:"id"`
	Box    Rect   `json:"box"`
	Facing Facing `json:"facing"`
	Text   string `json:"text"`
}

// PrivateArea - личная тень приватной зоны.
type PrivateArea struct {
	Area    *Area
	Owner   types.AgentID
	Economy *Economy
}

// SpawnSlot - точка спавна предметов.
type SpawnSlot struct {
	Box      Rect
	Occupant *Object
	// VacatedAt - тик, когда слот освободился. Заполнить его снова можно
	// не раньше чем через ObjectSpawnInterval.
	VacatedAt uint32
	Vacated   bool
}

// Ready - слот пуст и выдержал интервал после последнего подбора.
func (s *SpawnSlot) Ready(tick, interval uint32) bool {
	if s.Occupant != nil {
		return false
	}
	return !s.Vacated || tick-s.VacatedAt >= interval
}

// Object - подбираемый предмет.
type Object struct {
	Kind enums.ObjectKind `json:"kind"`
	Box  Rect             `json:"box"`
	// Slot - точка спавна, из которой он появился; nil для выпавших из зомби.
	Slot *SpawnSlot `json:"-"`
}

// Bag - сумка в мире, обыскивать может только один игрок одновременно.
type Bag struct {
	ID      int                       `json:"id"`
	Box     Rect                      `json:"box"`
	Trigger Rect                      `json:"trigger"`
	Slots   [BagSize]enums.ObjectKind `json:"slots"`

	SearchedBy types.AgentID `json:"searchedBy"`
}

// Economy - живые предметы и сумки одной зоны (или одного приватного экземпляра).
type Economy struct {
	Slots   []*SpawnSlot
	Objects []*Object
	Bags    []*Bag
}

// cloneLayout копирует точки спавна (пустыми) и сумки (с содержимым).
func (e *Economy) cloneLayout() *Economy {
	out := &Economy{}
	if e == nil {
		return out
	}
	for _, s := range e.Slots {
		out.Slots = append(out.Slots, &SpawnSlot{Box: s.Box})
	}
	for _, b := range e.Bags {
		cp := *b
		cp.SearchedBy = types.NilAgentID
		out.Bags = append(out.Bags, &cp)
	}
	return out
}

// AddObject кладет предмет в экономику; если указан слот, занимает его.
func (e *Economy) AddObject(o *Object) {
	if o.Slot != nil {
		o.Slot.Occupant = o
	}
	e.Objects = append(e.Objects, o)
}

// RemoveObject убирает предмет и освобождает его слот.
// Порядок оставшихся предметов сохраняется, иначе реплей разойдется.
func (e *Economy) RemoveObject(o *Object, tick uint32) bool {
	for i, cur := range e.Objects {
		if cur != o {
			continue
		}
		e.Objects = append(e.Objects[:i], e.Objects[i+1:]...)
		if o.Slot != nil && o.Slot.Occupant == o {
			o.Slot.Occupant = nil
			o.Slot.VacatedAt = tick
			o.Slot.Vacated = true
		}
		return true
	}
	return false
}

// FreeSlots возвращает слоты, которые можно заполнить на тике tick.
func (e *Economy) FreeSlots(tick uint32, interval uint32) []*SpawnSlot {
	var out []*SpawnSlot
	for _, s := range e.Slots {
		if s.Ready(tick, interval) {
			out = append(out, s)
		}
	}
	return out
}

// Shot - трассер выстрела. Урон нанесен при создании, сам по себе не бьет.
type Shot struct {
	Box       Rect          `json:"box"`
	Area      *Area         `json:"-"`
	Private   *PrivateArea  `json:"-"`
	Owner     types.AgentID `json:"owner"`
	Remaining int           `json:"remaining"`
}
