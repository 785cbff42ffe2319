package systems

import (
	"testing"

	"zombieland-server/internal/domain"
)

// seqRand отдает заранее заданные значения по кругу.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func newField() *domain.Area {
	return &domain.Area{
		ID:       0,
		Name:     "field",
		Walkable: domain.GridRect(0, 0, 32, 32),
		Economy:  &domain.Economy{},
	}
}

func newWorld(areas ...*domain.Area) *domain.World {
	return domain.NewWorld(areas, areas[0], domain.Rect{X: 96, Y: 0, W: 16, H: 16})
}

func addPlayer(t *testing.T, w *domain.World, area *domain.Area, name string, box domain.Rect) (*domain.Agent, *domain.Player) {
	t.Helper()
	p := domain.NewPlayer(name, 0, nil, 0, "test")
	a := domain.NewPlayerAgent(p, box, area)
	if _, err := w.Insert(a); err != nil {
		t.Fatalf("insert player: %v", err)
	}
	return a, p
}

func addZombie(t *testing.T, w *domain.World, area *domain.Area, box domain.Rect) *domain.Agent {
	t.Helper()
	z := domain.NewZombieAgent(&domain.Zombie{}, box, area)
	if _, err := w.Insert(z); err != nil {
		t.Fatalf("insert zombie: %v", err)
	}
	area.ZombieCount++
	return z
}

func cell(x, y int) domain.Rect {
	return domain.GridRect(x, y, 1, 1)
}
