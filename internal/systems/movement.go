package systems

import (
	"zombieland-server/internal/domain"
)

// MovementResult - результат движения агента за тик
type MovementResult struct {
	Box     domain.Rect
	Moved   domain.Vec
	Blocked bool
	// Contacts - агенты, в которых уперся движущийся (для укусов и отбрасывания).
	Contacts []*domain.Agent
}

// CalculateMove вычисляет новую позицию агента. Не меняет состояние мира.
//
// Сначала статика зоны (полные и половинные препятствия), затем другие живые
// агенты в том же пространстве, затем прижим к проходимой области.
func CalculateMove(a *domain.Agent, others []*domain.Agent) MovementResult {
	vel := a.Velocity
	res := MovementResult{Box: a.Box}
	if vel.IsZero() || a.Area == nil {
		return res
	}

	static := a.Area.Blockers()
	obstacles := make([]domain.Rect, 0, len(static)+len(others))
	obstacles = append(obstacles, static...)

	var dynamic []*domain.Agent
	for _, o := range others {
		if o == a || !o.Alive() || !o.SameSpace(a) {
			continue
		}
		dynamic = append(dynamic, o)
		obstacles = append(obstacles, o.Box)
	}

	moved, _, hits := SweepBox(a.Box, vel, obstacles)
	res.Blocked = len(hits) > 0
	for _, i := range hits {
		if i >= len(static) {
			res.Contacts = appendUnique(res.Contacts, dynamic[i-len(static)])
		}
	}

	res.Box = ClampToBounds(moved, a.Area.Walkable)
	res.Moved = domain.Vec{X: res.Box.X - a.Box.X, Y: res.Box.Y - a.Box.Y}
	return res
}

// MoveAgent применяет CalculateMove.
func MoveAgent(a *domain.Agent, others []*domain.Agent) MovementResult {
	res := CalculateMove(a, others)
	a.Box = res.Box
	return res
}

// SteerPlayer переводит последний ввод в скорость. Во время Freeze игрок
// летит по инерции отбрасывания и ввод игнорируется.
func SteerPlayer(a *domain.Agent, p *domain.Player) {
	if a.Freeze > 0 {
		return
	}
	a.Velocity = p.Input.Speed.Signs().Scale(domain.CharSpeed)
	if p.Input.Facing.Valid() {
		a.Facing = p.Input.Facing
	}
}

func appendUnique(list []*domain.Agent, a *domain.Agent) []*domain.Agent {
	for _, cur := range list {
		if cur == a {
			return list
		}
	}
	return append(list, a)
}
