package systems

import (
	"testing"

	"zombieland-server/internal/domain"
)

func TestThinkZombie(t *testing.T) {
	t.Run("Chases Nearest Player", func(t *testing.T) {
		area := newField()
		world := newWorld(area)
		zombie := addZombie(t, world, area, cell(10, 10))
		near, _ := addPlayer(t, world, area, "near", cell(12, 9))
		addPlayer(t, world, area, "far", cell(4, 10))

		ThinkZombie(zombie, world.Agents(), &seqRand{vals: []int{0}})

		if got := NearestPlayer(zombie, world.Agents(), domain.ZombieSightRadius); got != near {
			t.Fatalf("NearestPlayer = %v, want near", got)
		}
		if zombie.Velocity != (domain.Vec{X: domain.ZombieSpeed, Y: -domain.ZombieSpeed}) {
			t.Errorf("Velocity = %v", zombie.Velocity)
		}
		if zombie.Facing != domain.FacingRight {
			t.Errorf("Facing = %v, want RIGHT", zombie.Facing)
		}
	})

	t.Run("Wanders When Nobody Is Close", func(t *testing.T) {
		area := newField()
		world := newWorld(area)
		zombie := addZombie(t, world, area, cell(1, 1))
		addPlayer(t, world, area, "far", cell(30, 30))

		ThinkZombie(zombie, world.Agents(), &seqRand{vals: []int{2, 0}})

		if zombie.Velocity != (domain.Vec{X: 1, Y: -1}) {
			t.Errorf("Velocity = %v", zombie.Velocity)
		}
		if zombie.Facing != domain.FacingUp {
			t.Errorf("Facing = %v, want UP", zombie.Facing)
		}
	})

	t.Run("Rethinks Only After Cooldown", func(t *testing.T) {
		area := newField()
		world := newWorld(area)
		zombie := addZombie(t, world, area, cell(1, 1))
		rng := &seqRand{vals: []int{2, 1}}

		ThinkZombie(zombie, world.Agents(), rng)
		first := zombie.Velocity
		rng.vals = []int{0, 0}
		for i := 1; i < domain.ZombieThinkTicks; i++ {
			ThinkZombie(zombie, world.Agents(), rng)
			if zombie.Velocity != first {
				t.Fatalf("tick %d: velocity changed before cooldown", i)
			}
		}
		ThinkZombie(zombie, world.Agents(), rng)
		if zombie.Velocity != (domain.Vec{X: -1, Y: -1}) {
			t.Errorf("Velocity after cooldown = %v", zombie.Velocity)
		}
	})

	t.Run("Frozen Zombie Keeps Knockback", func(t *testing.T) {
		area := newField()
		world := newWorld(area)
		zombie := addZombie(t, world, area, cell(5, 5))
		addPlayer(t, world, area, "p", cell(6, 5))
		zombie.Freeze = 2
		zombie.Velocity = domain.Vec{X: 3}

		ThinkZombie(zombie, world.Agents(), &seqRand{vals: []int{0}})
		if zombie.Velocity != (domain.Vec{X: 3}) || zombie.Freeze != 1 {
			t.Fatalf("frozen zombie changed course: %v freeze=%d", zombie.Velocity, zombie.Freeze)
		}
		ThinkZombie(zombie, world.Agents(), &seqRand{vals: []int{0}})
		if !zombie.Velocity.IsZero() || zombie.Freeze != 0 {
			t.Errorf("velocity must reset when freeze ends: %v", zombie.Velocity)
		}
	})

	t.Run("Ignores Players In Other Spaces", func(t *testing.T) {
		area := newField()
		room := newField()
		room.ID = 1
		world := newWorld(area, room)
		zombie := addZombie(t, world, area, cell(5, 5))
		addPlayer(t, world, room, "inside", cell(6, 5))

		if got := NearestPlayer(zombie, world.Agents(), domain.ZombieSightRadius); got != nil {
			t.Errorf("zombie sees a player in another area")
		}
	})
}
