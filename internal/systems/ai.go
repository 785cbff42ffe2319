package systems

import (
	"zombieland-server/internal/domain"
)

// Rand - источник случайности симуляции. *rand.Rand мира удовлетворяет ему,
// тесты подставляют фиксированную последовательность.
type Rand interface {
	Intn(n int) int
}

// ThinkZombie - решение зомби на тик.
//
// Оглушенный зомби только отсчитывает Freeze; по окончании скорость обнуляется.
// Иначе раз в ZombieThinkTicks: ближайший игрок в радиусе зрения - погоня
// (по каждой оси независимо), никого - случайное блуждание.
func ThinkZombie(z *domain.Agent, agents []*domain.Agent, rng Rand) {
	zb, ok := z.AsZombie()
	if !ok {
		return
	}

	if z.Freeze > 0 {
		z.Freeze--
		if z.Freeze == 0 {
			z.Velocity = domain.Vec{}
		}
		return
	}

	zb.ThinkCooldown--
	if zb.ThinkCooldown > 0 {
		return
	}
	zb.ThinkCooldown = domain.ZombieThinkTicks

	if target := NearestPlayer(z, agents, domain.ZombieSightRadius); target != nil {
		d := z.Box.CenterDelta(target.Box)
		z.Velocity = d.Signs().Scale(domain.ZombieSpeed)
		z.Facing = domain.FacingFromDominant(d, z.Facing)
		return
	}

	wander(z, rng)
}

// NearestPlayer - ближайший живой игрок в том же пространстве в пределах radius.
func NearestPlayer(from *domain.Agent, agents []*domain.Agent, radius int) *domain.Agent {
	var (
		best     *domain.Agent
		bestDist = radius*radius + 1
	)
	for _, a := range agents {
		if !a.IsPlayer() || !a.Alive() || !a.SameSpace(from) {
			continue
		}
		if d := from.Box.DistanceSquaredTo(a.Box); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

func wander(z *domain.Agent, rng Rand) {
	v := domain.Vec{
		X: (rng.Intn(3) - 1) * domain.ZombieSpeed,
		Y: (rng.Intn(3) - 1) * domain.ZombieSpeed,
	}
	z.Velocity = v

	switch {
	case v.X > 0:
		z.Facing = domain.FacingRight
	case v.X < 0:
		z.Facing = domain.FacingLeft
	}
	switch {
	case v.Y > 0:
		z.Facing = domain.FacingDown
	case v.Y < 0:
		z.Facing = domain.FacingUp
	}
}
