package systems

import (
	"zombieland-server/internal/domain"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ResolveAgainstObstacle разрешает столкновение одного бокса с одним препятствием.
//
// moved - бокс уже после применения скорости vel. Если пересечения нет,
// возвращается как есть. Иначе ход откатывается и выбирается ось:
//   - после отката проекции по X все еще пересекаются - удар по вертикали,
//     X сохраняется, Y прижимается к ближней грани препятствия;
//   - симметрично для Y;
//   - угол: пробуем сдвиг на 1 пиксель только по X и только по Y против probe
//     и разрешаем по той оси, которая заблокирована; если свободны или заняты
//     обе, прижимаем обе координаты.
//
// Возвращаемая скорость - смещение, реально примененное к исходному боксу,
// чтобы повторный откат при следующем проходе был согласован.
func ResolveAgainstObstacle(moved domain.Rect, vel domain.Vec, obstacle domain.Rect, probe []domain.Rect) (domain.Rect, domain.Vec, bool) {
	if vel.IsZero() || !moved.Intersects(obstacle) {
		return moved, vel, false
	}

	back := moved.Shift(vel.Neg())

	switch {
	case back.IntersectsX(obstacle):
		moved, vel = snapY(back, vel, obstacle, true)
	case back.IntersectsY(obstacle):
		moved, vel = snapX(back, vel, obstacle, true)
	default:
		canMoveX := IsRectFree(back.Shift(domain.Vec{X: step(vel.X)}), probe)
		canMoveY := IsRectFree(back.Shift(domain.Vec{Y: step(vel.Y)}), probe)

		switch {
		case canMoveX && !canMoveY:
			moved, vel = snapY(back, vel, obstacle, true)
		case !canMoveX && canMoveY:
			moved, vel = snapX(back, vel, obstacle, true)
		default:
			moved, vel = snapX(back, vel, obstacle, false)
			moved, vel = snapY(moved, vel, obstacle, false)
		}
	}

	return moved, vel, true
}

// ResolveAgainstObstacleSet гоняет разрешение по всему списку, начиная
// заново после каждого столкновения, пока ни одно препятствие не пересекается.
// hits - индексы препятствий в порядке ударов, один индекс может повторяться.
func ResolveAgainstObstacleSet(moved domain.Rect, vel domain.Vec, obstacles []domain.Rect) (domain.Rect, domain.Vec, []int) {
	var hits []int
	for pass := 0; pass < domain.MaxResolvePasses; pass++ {
		hit := -1
		for i, ob := range obstacles {
			var c bool
			moved, vel, c = ResolveAgainstObstacle(moved, vel, ob, obstacles)
			if c {
				hit = i
				break
			}
		}
		if hit < 0 {
			return moved, vel, hits
		}
		hits = append(hits, hit)
	}

	logger.For("physics_system").WithFields(logrus.Fields{
		"box":      moved,
		"velocity": vel,
	}).Warn("Collision resolution did not converge")
	return moved, vel, hits
}

// SweepBox применяет скорость к боксу и разрешает столкновения со статикой и агентами.
func SweepBox(box domain.Rect, vel domain.Vec, obstacles []domain.Rect) (domain.Rect, domain.Vec, []int) {
	return ResolveAgainstObstacleSet(box.Shift(vel), vel, obstacles)
}

// ClampToBounds удерживает бокс внутри проходимой области.
// Бокс больше области прижимается к ее левому верхнему углу.
func ClampToBounds(box, bounds domain.Rect) domain.Rect {
	if box.X+box.W > bounds.X+bounds.W {
		box.X = bounds.X + bounds.W - box.W
	}
	if box.Y+box.H > bounds.Y+bounds.H {
		box.Y = bounds.Y + bounds.H - box.H
	}
	if box.X < bounds.X {
		box.X = bounds.X
	}
	if box.Y < bounds.Y {
		box.Y = bounds.Y
	}
	return box
}

// IsRectFree - бокс не пересекает ни одно препятствие.
func IsRectFree(box domain.Rect, obstacles []domain.Rect) bool {
	for _, ob := range obstacles {
		if box.Intersects(ob) {
			return false
		}
	}
	return true
}

// snapY прижимает Y к грани препятствия со стороны подхода.
// withX - восстановить ход по X (он не участвовал в ударе).
func snapY(back domain.Rect, vel domain.Vec, obstacle domain.Rect, withX bool) (domain.Rect, domain.Vec) {
	box := back
	if withX {
		box.X += vel.X
	}
	y := obstacle.Y + obstacle.H
	if vel.Y > 0 {
		y = obstacle.Y - box.H
	}
	vel.Y = y - back.Y
	box.Y = y
	return box, vel
}

func snapX(back domain.Rect, vel domain.Vec, obstacle domain.Rect, withY bool) (domain.Rect, domain.Vec) {
	box := back
	if withY {
		box.Y += vel.Y
	}
	x := obstacle.X + obstacle.W
	if vel.X > 0 {
		x = obstacle.X - box.W
	}
	vel.X = x - back.X
	box.X = x
	return box, vel
}

func step(v int) int {
	if v > 0 {
		return 1
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
