package agent

import (
	"zombieland-server/internal/domain"
	"zombieland-server/internal/systems"
	"zombieland-server/pkg/api"
)

// alignSlack - насколько центры могут разойтись, чтобы цель считалась на линии огня.
const alignSlack = domain.GridCell / 2

// Intent - решение бота на один кадр ввода.
type Intent struct {
	Speed  domain.Vec
	Facing domain.Facing
	Flags  api.InputFlags
}

// Decide выбирает действие только по снапшоту, как живой игрок:
// зомби на линии - повернуться и стрелять (нож, если кончились патроны),
// зомби в стороне - выйти на линию по короткой оси,
// иначе идти к ближайшему предмету или бродить.
func Decide(st api.ServerState, rng systems.Rand) Intent {
	me := fromWire(st.Box)
	facing := domain.Facing(st.Facing)

	if z, ok := nearest(st, me, isZombie); ok {
		d := me.CenterDelta(z)
		if abs(d.X) < alignSlack || abs(d.Y) < alignSlack {
			in := Intent{Facing: domain.FacingFromDominant(d, facing)}
			switch {
			case st.Ammo > 0:
				in.Flags |= api.FlagShoot
			case me.ChebyshevTo(z) <= domain.StabReach:
				in.Flags |= api.FlagStab
			}
			return in
		}

		var v domain.Vec
		if abs(d.X) < abs(d.Y) {
			v.X = domain.Sign(d.X)
		} else {
			v.Y = domain.Sign(d.Y)
		}
		return Intent{Speed: v, Facing: domain.FacingFromDominant(d, facing)}
	}

	if o, ok := nearest(st, me, isPickup); ok {
		v := me.CenterDelta(o).Signs()
		return Intent{Speed: v, Facing: domain.FacingFromDominant(v, facing)}
	}

	v := domain.Vec{X: rng.Intn(3) - 1, Y: rng.Intn(3) - 1}
	return Intent{Speed: v, Facing: domain.FacingFromDominant(v, facing)}
}

func isZombie(v api.Visible) bool {
	return systems.SightingKind(v.Kind) == systems.SightZombie
}

func isPickup(v api.Visible) bool {
	switch systems.SightingKind(v.Kind) {
	case systems.SightHealth, systems.SightAmmo, systems.SightFood, systems.SightWater:
		return true
	}
	return false
}

// nearest - ближайшая по Чебышёву запись, подходящая под фильтр.
func nearest(st api.ServerState, me domain.Rect, match func(api.Visible) bool) (domain.Rect, bool) {
	var (
		best  domain.Rect
		bestD = -1
	)
	for _, v := range st.Visibles {
		if !match(v) {
			continue
		}
		box := fromWire(v.Box)
		if d := me.ChebyshevTo(box); bestD < 0 || d < bestD {
			best, bestD = box, d
		}
	}
	return best, bestD >= 0
}

func fromWire(r api.Rect) domain.Rect {
	return domain.Rect{X: int(r.X), Y: int(r.Y), W: int(r.W), H: int(r.H)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
