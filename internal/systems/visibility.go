package systems

import (
	"sort"

	"zombieland-server/internal/core/types/enums"
	"zombieland-server/internal/domain"
)

// SightingKind - тип видимой записи. Значения совпадают с сетевыми.
type SightingKind uint8

const (
	SightPlayer SightingKind = iota
	SightZombie
	SightShot
	SightHealth
	SightAmmo
	SightFood
	SightWater
	SightFlesh
	SightSearchable
	SightSearching
)

// Sighting - то, что игрок видит в снапшоте.
type Sighting struct {
	Kind         SightingKind
	Subtype      uint32
	Box          domain.Rect
	Facing       domain.Facing
	Velocity     domain.Vec
	Invulnerable bool

	distance int
}

// Visibility - итог отбора: видимые записи и сколько не влезло в лимит.
type Visibility struct {
	Items   []Sighting
	Dropped int
}

// CollectVisible собирает то, что видит viewer, и обрезает список до limit.
//
// В публичной зоне видны другие агенты, трассеры, предметы и сумки в пределах
// окна обзора. В приватной зоне других агентов нет: только своя экономика и
// свои трассеры. При переполнении остаются ближайшие (Чебышёв между центрами),
// равные по дальности упорядочены по типу.
func CollectVisible(viewer *domain.Agent, world *domain.World, limit int) Visibility {
	var out []Sighting
	add := func(s Sighting) {
		if inViewport(viewer.Box, s.Box) {
			s.distance = viewer.Box.ChebyshevTo(s.Box)
			out = append(out, s)
		}
	}

	if viewer.Private == nil {
		for _, a := range world.Agents() {
			if a == viewer || !a.SameSpace(viewer) {
				continue
			}
			add(agentSighting(a))
		}
	}

	for _, s := range world.Shots {
		if s.Area != viewer.Area || s.Private != viewer.Private {
			continue
		}
		add(Sighting{Kind: SightShot, Box: s.Box})
	}

	if eco := viewer.Economy(); eco != nil {
		for _, o := range eco.Objects {
			add(Sighting{Kind: objectSighting(o.Kind), Box: o.Box})
		}
		for _, b := range eco.Bags {
			kind := SightSearchable
			if !b.SearchedBy.IsNil() {
				kind = SightSearching
			}
			add(Sighting{Kind: kind, Subtype: uint32(b.ID), Box: b.Box})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].distance != out[j].distance {
			return out[i].distance < out[j].distance
		}
		return out[i].Kind < out[j].Kind
	})

	res := Visibility{Items: out}
	if limit >= 0 && len(out) > limit {
		res.Items = out[:limit]
		res.Dropped = len(out) - limit
	}
	return res
}

func agentSighting(a *domain.Agent) Sighting {
	s := Sighting{
		Kind:         SightZombie,
		Box:          a.Box,
		Facing:       a.Facing,
		Velocity:     a.Velocity.Signs(),
		Invulnerable: a.Invulnerable > 0,
	}
	if p, ok := a.AsPlayer(); ok {
		s.Kind = SightPlayer
		s.Subtype = p.Body
	}
	return s
}

func objectSighting(kind enums.ObjectKind) SightingKind {
	switch kind {
	case enums.ObjectHealth:
		return SightHealth
	case enums.ObjectAmmo:
		return SightAmmo
	case enums.ObjectFood:
		return SightFood
	case enums.ObjectWater:
		return SightWater
	}
	return SightFlesh
}

func inViewport(viewer, box domain.Rect) bool {
	d := viewer.CenterDelta(box)
	return abs(d.X) <= domain.ViewportHalfW && abs(d.Y) <= domain.ViewportHalfH
}
