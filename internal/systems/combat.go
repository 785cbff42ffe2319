package systems

import (
	"zombieland-server/internal/domain"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ShotResult - итог хит-скана.
type ShotResult struct {
	Hit bool
	// Point - клетка попадания (для трассера).
	Point domain.Rect
	// Target - агент, в которого попали; nil для стены или края зоны.
	Target   *domain.Agent
	Boundary bool
	Distance int
}

// ResolveShot ищет ближайшую цель в узкой полосе по направлению взгляда.
// Полные препятствия и агенты рассматриваются вместе, половинные пропускают пулю.
// Если ничего не найдено, целью становится край зоны, если он в пределах GunRange.
// Функция чистая: мир не меняется.
func ResolveShot(shooter *domain.Agent, agents []*domain.Agent) ShotResult {
	var best ShotResult
	box, facing := shooter.Box, shooter.Facing

	consider := func(point domain.Rect, dist int, target *domain.Agent) {
		if dist > domain.GunRange {
			return
		}
		if best.Hit && !closer(dist, target, best.Distance, best.Target) {
			return
		}
		best = ShotResult{Hit: true, Point: point, Target: target, Distance: dist}
	}

	for _, ob := range shooter.Area.Obstacles {
		if point, dist, ok := scanTarget(box, facing, ob); ok {
			consider(point, dist, nil)
		}
	}
	for _, other := range agents {
		if other == shooter || !other.Alive() || !other.SameSpace(shooter) {
			continue
		}
		if point, dist, ok := scanTarget(box, facing, other.Box); ok {
			consider(point, dist, other)
		}
	}

	if best.Hit {
		return best
	}

	point, dist := boundaryPoint(box, facing, shooter.Area.Walkable)
	if dist <= domain.GunRange {
		return ShotResult{Hit: true, Point: point, Boundary: true, Distance: dist}
	}
	return ShotResult{}
}

// closer: меньшая дистанция; при равенстве стена закрывает агента,
// среди агентов выигрывает меньший ID.
func closer(dist int, target *domain.Agent, bestDist int, bestTarget *domain.Agent) bool {
	if dist != bestDist {
		return dist < bestDist
	}
	if bestTarget == nil {
		return false
	}
	if target == nil {
		return true
	}
	return target.ID < bestTarget.ID
}

// scanTarget проверяет, лежит ли target в полосе выстрела.
// Полоса - центральная линия стреляющего; дистанция - зазор между
// передней гранью стреляющего и ближней гранью цели.
func scanTarget(box domain.Rect, facing domain.Facing, target domain.Rect) (domain.Rect, int, bool) {
	cx, cy := box.Center()
	cell := domain.Rect{W: domain.GridCell, H: domain.GridCell}

	switch facing {
	case domain.FacingDown:
		if box.Y < target.Y && cx >= target.X && cx <= target.X+target.W {
			return cell.At(box.X, target.Y), max(0, target.Y-(box.Y+box.H)), true
		}
	case domain.FacingUp:
		if box.Y > target.Y && cx >= target.X && cx <= target.X+target.W {
			return cell.At(box.X, target.Y+target.H-domain.GridCell), max(0, box.Y-(target.Y+target.H)), true
		}
	case domain.FacingRight:
		if box.X < target.X && cy >= target.Y && cy <= target.Y+target.H {
			return cell.At(target.X, box.Y), max(0, target.X-(box.X+box.W)), true
		}
	case domain.FacingLeft:
		if box.X > target.X && cy >= target.Y && cy <= target.Y+target.H {
			return cell.At(target.X+target.W-domain.GridCell, box.Y), max(0, box.X-(target.X+target.W)), true
		}
	}
	return domain.Rect{}, 0, false
}

// boundaryPoint - клетка сразу за краем зоны по направлению взгляда.
func boundaryPoint(box domain.Rect, facing domain.Facing, walk domain.Rect) (domain.Rect, int) {
	cell := domain.Rect{W: domain.GridCell, H: domain.GridCell}

	switch facing {
	case domain.FacingDown:
		edge := walk.Y + walk.H
		return cell.At(box.X, edge), edge - (box.Y + box.H)
	case domain.FacingUp:
		return cell.At(box.X, walk.Y-domain.GridCell), box.Y - walk.Y
	case domain.FacingRight:
		edge := walk.X + walk.W
		return cell.At(edge, box.Y), edge - (box.X + box.W)
	}
	return cell.At(walk.X-domain.GridCell, box.Y), box.X - walk.X
}

// Fire - выстрел игрока: тратит патрон, ищет цель, наносит урон один раз
// и возвращает трассер (nil, если в пределах дальности ничего нет).
func Fire(shooter *domain.Agent, p *domain.Player, agents []*domain.Agent) (*domain.Shot, ShotResult) {
	if p.Ammo <= 0 {
		return nil, ShotResult{}
	}
	p.Ammo--

	res := ResolveShot(shooter, agents)
	if !res.Hit {
		return nil, res
	}

	if res.Target != nil && ApplyDamage(res.Target, domain.ShotDamage) {
		if res.Target.IsZombie() {
			res.Target.Velocity = domain.Vec{}
			res.Target.Freeze = domain.ZombieStaggerTicks
		}
		logger.For("combat_system").WithFields(logrus.Fields{
			"shooter":  shooter.ID,
			"target":   res.Target.ID,
			"hp_after": res.Target.Health,
		}).Debug("Shot hit")
	}

	return &domain.Shot{
		Box:       res.Point,
		Area:      shooter.Area,
		Private:   shooter.Private,
		Owner:     shooter.ID,
		Remaining: domain.ShotDuration,
	}, res
}

// ApplyDamage снимает здоровье и открывает окно неуязвимости.
// Неуязвимую цель не трогает и возвращает false.
func ApplyDamage(target *domain.Agent, amount int) bool {
	if target.Invulnerable > 0 {
		return false
	}
	target.Health -= amount
	target.Invulnerable = domain.InvulnerableTicks
	return true
}

// FindStabTarget выбирает ближайшую цель перед атакующим: центр цели впереди
// не дальше StabReach и смещен вбок меньше чем на StabLateral.
func FindStabTarget(attacker *domain.Agent, agents []*domain.Agent) *domain.Agent {
	var (
		best                 *domain.Agent
		bestAhead, bestShift int
	)

	for _, other := range agents {
		if other == attacker || !other.Alive() || !other.SameSpace(attacker) {
			continue
		}
		ahead, lateral := stabAxes(attacker, other)
		shift := abs(lateral)
		if ahead <= 0 || ahead > domain.StabReach || shift >= domain.StabLateral {
			continue
		}
		if best == nil || ahead < bestAhead || (ahead == bestAhead && shift < bestShift) {
			best, bestAhead, bestShift = other, ahead, shift
		}
	}
	return best
}

// Stab - удар ножом. Урон и отбрасывание только по уязвимой цели.
func Stab(attacker *domain.Agent, agents []*domain.Agent) *domain.Agent {
	target := FindStabTarget(attacker, agents)
	if target == nil {
		return nil
	}
	if !ApplyDamage(target, domain.StabDamage) {
		return nil
	}

	_, lateral := stabAxes(attacker, target)
	speed := domain.StabKnockback
	if target.IsPlayer() && target.ID > attacker.ID {
		speed++
	}
	push := attacker.Facing.Unit().Scale(speed)
	if attacker.Facing.Vertical() {
		push.X = domain.Sign(lateral)
	} else {
		push.Y = domain.Sign(lateral)
	}
	target.Velocity = push
	target.Freeze = domain.StabFreezeTicks

	logger.For("combat_system").WithFields(logrus.Fields{
		"attacker":  attacker.ID,
		"target":    target.ID,
		"knockback": push,
		"hp_after":  target.Health,
	}).Debug("Stab hit")

	return target
}

// ApplyBite - контакт зомби с игроком: урон и отбрасывание от зомби.
func ApplyBite(zombie, player *domain.Agent) bool {
	if zombie.Peaceful() || !ApplyDamage(player, domain.ZombieBiteDamage) {
		return false
	}
	away := zombie.Box.CenterDelta(player.Box).Signs()
	if away.IsZero() {
		away = zombie.Facing.Unit()
	}
	player.Velocity = away.Scale(domain.BiteKnockback)
	player.Freeze = domain.BiteFreezeTicks
	return true
}

// stabAxes - смещение центра цели вдоль взгляда атакующего и поперек него.
func stabAxes(attacker, target *domain.Agent) (ahead, lateral int) {
	d := attacker.Box.CenterDelta(target.Box)
	u := attacker.Facing.Unit()
	if attacker.Facing.Vertical() {
		return d.Y * u.Y, d.X
	}
	return d.X * u.X, d.Y
}
