package engine

import (
	"zombieland-server/internal/core/types"
	"zombieland-server/internal/domain"
)

// WorldSummary - сводка мира для наблюдателей и /debug/world.
type WorldSummary struct {
	Tick    uint32          `json:"tick"`
	Seed    int64           `json:"seed"`
	Players []PlayerSummary `json:"players"`
	Areas   []AreaSummary   `json:"areas"`
	Shots   int             `json:"shots"`
}

type PlayerSummary struct {
	ID      types.AgentID `json:"id"`
	Name    string        `json:"name"`
	Session string        `json:"session"`
	Area    string        `json:"area"`
	Box     domain.Rect   `json:"box"`
	Health  int           `json:"health"`
	Ammo    int           `json:"ammo"`
	Hunger  int           `json:"hunger"`
	Thirst  int           `json:"thirst"`
	Bag     []string      `json:"bag"`
}

type AreaSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Zombies int    `json:"zombies"`
	Objects int    `json:"objects"`
	Players int    `json:"players"`
}

// Summarize снимает сводку. Вызывается из потока симуляции.
func (i *Instance) Summarize() *WorldSummary {
	w := i.World
	s := &WorldSummary{
		Tick:    w.Tick,
		Seed:    i.Seed,
		Players: []PlayerSummary{},
		Shots:   len(w.Shots),
	}

	perArea := make(map[*domain.Area]int, len(w.Areas))
	for _, a := range w.Players() {
		p, _ := a.AsPlayer()
		perArea[a.Area]++

		bag := make([]string, 0, domain.BagSize)
		for _, k := range p.Bag {
			bag = append(bag, k.String())
		}
		s.Players = append(s.Players, PlayerSummary{
			ID:      a.ID,
			Name:    p.Name,
			Session: p.Session,
			Area:    a.Area.Name,
			Box:     a.Box,
			Health:  a.Health,
			Ammo:    p.Ammo,
			Hunger:  p.Hunger,
			Thirst:  p.Thirst,
			Bag:     bag,
		})
	}

	for _, area := range w.Areas {
		objects := 0
		if area.Economy != nil && !area.Private {
			objects = len(area.Economy.Objects)
		}
		s.Areas = append(s.Areas, AreaSummary{
			ID:      area.ID,
			Name:    area.Name,
			Zombies: area.ZombieCount,
			Objects: objects,
			Players: perArea[area],
		})
	}
	return s
}
