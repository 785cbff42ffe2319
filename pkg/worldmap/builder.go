package worldmap

import (
	"errors"
	"fmt"

	"zombieland-server/internal/core/types/enums"
	"zombieland-server/internal/domain"
)

var (
	ErrDuplicateArea = errors.New("duplicate area")
	ErrUnknownArea   = errors.New("unknown area")
	ErrBadGeometry   = errors.New("bad geometry")
	ErrBadItem       = errors.New("bad bag item")
)

// AreaBuilder предоставляет fluent API для описания зоны в клетках сетки.
type AreaBuilder struct {
	key  string
	area *domain.Area
	err  error
}

// NewArea создает builder зоны. key - имя, по которому на зону ссылаются варпы.
func NewArea(id int, key string) *AreaBuilder {
	return &AreaBuilder{
		key: key,
		area: &domain.Area{
			ID:      id,
			Name:    key,
			Economy: &domain.Economy{},
		},
	}
}

func (b *AreaBuilder) fail(format string, args ...any) *AreaBuilder {
	if b.err == nil {
		b.err = fmt.Errorf("area %q: "+format, append([]any{b.key}, args...)...)
	}
	return b
}

// WithName задает отображаемое имя.
func (b *AreaBuilder) WithName(name string) *AreaBuilder {
	b.area.Name = name
	return b
}

func (b *AreaBuilder) Walkable(x, y, w, h int) *AreaBuilder {
	if w <= 0 || h <= 0 {
		return b.fail("%w: empty walkable", ErrBadGeometry)
	}
	b.area.Walkable = domain.GridRect(x, y, w, h)
	return b
}

func (b *AreaBuilder) Obstacle(x, y, w, h int) *AreaBuilder {
	if w <= 0 || h <= 0 {
		return b.fail("%w: empty obstacle at %d,%d", ErrBadGeometry, x, y)
	}
	b.area.Obstacles = append(b.area.Obstacles, domain.GridRect(x, y, w, h))
	return b
}

// HalfObstacle блокирует движение, но пропускает выстрелы.
func (b *AreaBuilder) HalfObstacle(x, y, w, h int) *AreaBuilder {
	if w <= 0 || h <= 0 {
		return b.fail("%w: empty half obstacle at %d,%d", ErrBadGeometry, x, y)
	}
	b.area.HalfObstacles = append(b.area.HalfObstacles, domain.GridRect(x, y, w, h))
	return b
}

func (b *AreaBuilder) ZombieSpawn(x, y int) *AreaBuilder {
	b.area.ZombieSpawns = append(b.area.ZombieSpawns, domain.GridRect(x, y, 1, 1))
	return b
}

func (b *AreaBuilder) ObjectSpawn(x, y int) *AreaBuilder {
	b.area.Economy.Slots = append(b.area.Economy.Slots, &domain.SpawnSlot{Box: domain.GridRect(x, y, 1, 1)})
	return b
}

// Bag ставит сумку в клетку (x, y); обыскивать можно, стоя целиком внутри trigger.
func (b *AreaBuilder) Bag(id, x, y int, trigger domain.Rect, items ...string) *AreaBuilder {
	if len(items) > domain.BagSize {
		return b.fail("%w: bag %d holds %d items", ErrBadItem, id, len(items))
	}
	bag := &domain.Bag{
		ID:      id,
		Box:     domain.GridRect(x, y, 1, 1),
		Trigger: domain.GridRect(trigger.X, trigger.Y, trigger.W, trigger.H),
	}
	for i, name := range items {
		kind, ok := enums.ParseObjectKind(name)
		if !ok || kind == enums.ObjectNone {
			return b.fail("%w: %q", ErrBadItem, name)
		}
		bag.Slots[i] = kind
	}
	b.area.Economy.Bags = append(b.area.Economy.Bags, bag)
	return b
}

func (b *AreaBuilder) Interactable(box domain.Rect, text string) *AreaBuilder {
	if len(text) > domain.MaxTextLen {
		return b.fail("%w: text of %d bytes", ErrBadGeometry, len(text))
	}
	b.area.Interactables = append(b.area.Interactables, domain.Interactable{
		Box:  domain.GridRect(box.X, box.Y, box.W, box.H),
		Text: text,
	})
	return b
}

func (b *AreaBuilder) NPC(id, x, y int, facing domain.Facing, text string) *AreaBuilder {
	if len(text) > domain.MaxTextLen {
		return b.fail("%w: npc text of %d bytes", ErrBadGeometry, len(text))
	}
	b.area.NPCs = append(b.area.NPCs, &domain.NPC{
		ID:     id,
		Box:    domain.GridRect(x, y, 1, 1),
		Facing: facing,
		Text:   text,
	})
	return b
}

// Peaceful отключает бой и спавн зомби.
func (b *AreaBuilder) Peaceful() *AreaBuilder {
	b.area.Peaceful = true
	return b
}

// Private дает каждому игроку свой экземпляр зоны.
func (b *AreaBuilder) Private() *AreaBuilder {
	b.area.Private = true
	return b
}

type pendingWarp struct {
	from    string
	trigger domain.Rect
	to      string
	spawn   domain.Vec
}

// WorldBuilder собирает граф зон и связывает варпы по ключам.
type WorldBuilder struct {
	areas    []*AreaBuilder
	warps    []pendingWarp
	startKey string
	startX   int
	startY   int
	err      error
}

func NewWorld() *WorldBuilder {
	return &WorldBuilder{}
}

func (w *WorldBuilder) Add(areas ...*AreaBuilder) *WorldBuilder {
	w.areas = append(w.areas, areas...)
	return w
}

// Warp - переход из зоны from в зону to; координаты в клетках.
func (w *WorldBuilder) Warp(from string, trigger domain.Rect, to string, spawnX, spawnY int) *WorldBuilder {
	if trigger.W <= 0 || trigger.H <= 0 {
		if w.err == nil {
			w.err = fmt.Errorf("warp %s->%s: %w: empty trigger", from, to, ErrBadGeometry)
		}
		return w
	}
	w.warps = append(w.warps, pendingWarp{
		from:    from,
		trigger: domain.GridRect(trigger.X, trigger.Y, trigger.W, trigger.H),
		to:      to,
		spawn:   domain.Vec{X: spawnX * domain.GridCell, Y: spawnY * domain.GridCell},
	})
	return w
}

// Start задает зону и клетку появления новых игроков.
func (w *WorldBuilder) Start(key string, x, y int) *WorldBuilder {
	w.startKey, w.startX, w.startY = key, x, y
	return w
}

// Build проверяет граф и возвращает готовый мир.
func (w *WorldBuilder) Build() (*domain.World, error) {
	if w.err != nil {
		return nil, w.err
	}

	byKey := make(map[string]*domain.Area, len(w.areas))
	byID := make(map[int]bool, len(w.areas))
	areas := make([]*domain.Area, 0, len(w.areas))

	for _, ab := range w.areas {
		if ab.err != nil {
			return nil, ab.err
		}
		if _, dup := byKey[ab.key]; dup {
			return nil, fmt.Errorf("%w: key %q", ErrDuplicateArea, ab.key)
		}
		if byID[ab.area.ID] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateArea, ab.area.ID)
		}
		if ab.area.Walkable.W <= 0 || ab.area.Walkable.H <= 0 {
			return nil, fmt.Errorf("area %q: %w: walkable not set", ab.key, ErrBadGeometry)
		}
		byKey[ab.key] = ab.area
		byID[ab.area.ID] = true
		areas = append(areas, ab.area)
	}

	for _, pw := range w.warps {
		from, ok := byKey[pw.from]
		if !ok {
			return nil, fmt.Errorf("%w: warp source %q", ErrUnknownArea, pw.from)
		}
		to, ok := byKey[pw.to]
		if !ok {
			return nil, fmt.Errorf("%w: warp destination %q", ErrUnknownArea, pw.to)
		}
		landing := domain.Rect{X: pw.spawn.X, Y: pw.spawn.Y, W: domain.GridCell, H: domain.GridCell}
		if !landing.Inside(to.Walkable) {
			return nil, fmt.Errorf("warp %s->%s: %w: spawn outside walkable", pw.from, pw.to, ErrBadGeometry)
		}
		from.Warps = append(from.Warps, domain.Warp{Trigger: pw.trigger, Dest: to, Spawn: pw.spawn})
	}

	start, ok := byKey[w.startKey]
	if !ok {
		return nil, fmt.Errorf("%w: start %q", ErrUnknownArea, w.startKey)
	}
	startBox := domain.GridRect(w.startX, w.startY, 1, 1)
	if !startBox.Inside(start.Walkable) {
		return nil, fmt.Errorf("start: %w: outside walkable", ErrBadGeometry)
	}
	for _, ob := range start.Blockers() {
		if ob.Intersects(startBox) {
			return nil, fmt.Errorf("start: %w: blocked by obstacle %v", ErrBadGeometry, ob)
		}
	}

	return domain.NewWorld(areas, start, startBox), nil
}
