package systems

import (
	"zombieland-server/internal/domain"
)

// DecayPlayer старит все таймеры игрока на один тик.
// Голод и жажда на максимуме снимают по единице здоровья за тик каждый,
// неуязвимость от этого не спасает. Возвращает потерянное здоровье.
func DecayPlayer(a *domain.Agent, p *domain.Player) int {
	lost := 0

	p.HungerTimer--
	if p.HungerTimer <= 0 {
		p.HungerTimer = domain.HungerInterval
		p.Hunger = min(p.Hunger+1, domain.MaxHunger)
	}
	p.ThirstTimer--
	if p.ThirstTimer <= 0 {
		p.ThirstTimer = domain.ThirstInterval
		p.Thirst = min(p.Thirst+1, domain.MaxThirst)
	}
	if p.Hunger >= domain.MaxHunger {
		a.Health--
		lost++
	}
	if p.Thirst >= domain.MaxThirst {
		a.Health--
		lost++
	}

	countdown(&p.ShootRest)
	countdown(&p.StabRest)
	countdown(&p.SwapLock)
	countdown(&a.Invulnerable)
	if a.Freeze > 0 {
		a.Freeze--
		if a.Freeze == 0 {
			a.Velocity = domain.Vec{}
		}
	}
	p.Timeout--

	return lost
}

// DecayZombie - у зомби стареет только неуязвимость, оглушение считает ИИ.
func DecayZombie(a *domain.Agent) {
	countdown(&a.Invulnerable)
}

// DecayShots уменьшает жизнь трассеров и выбрасывает истекшие.
func DecayShots(w *domain.World) {
	kept := w.Shots[:0]
	for _, s := range w.Shots {
		s.Remaining--
		if s.Remaining > 0 {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(w.Shots); i++ {
		w.Shots[i] = nil
	}
	w.Shots = kept
}

func countdown(v *int) {
	if *v > 0 {
		*v--
	}
}
