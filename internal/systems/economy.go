package systems

import (
	"zombieland-server/internal/core/types/enums"
	"zombieland-server/internal/domain"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SpawnObject заполняет один готовый слот случайным предметом.
// Возвращает nil, если свободных слотов нет.
func SpawnObject(eco *domain.Economy, tick uint32, rng Rand) *domain.Object {
	free := eco.FreeSlots(tick, domain.ObjectSpawnInterval)
	if len(free) == 0 {
		return nil
	}
	slot := free[rng.Intn(len(free))]
	kind := enums.SpawnableObjects[rng.Intn(len(enums.SpawnableObjects))]

	obj := &domain.Object{Kind: kind, Box: slot.Box, Slot: slot}
	eco.AddObject(obj)
	return obj
}

// SpawnZombie выпускает зомби в случайной точке спавна зоны.
// Мирные и приватные зоны, переполненные зоны и занятая точка - без спавна.
func SpawnZombie(world *domain.World, area *domain.Area, rng Rand) (*domain.Agent, error) {
	if len(area.ZombieSpawns) == 0 || area.Peaceful || area.Private || area.ZombieCount >= domain.MaxZombiesPerArea {
		return nil, nil
	}

	spawn := area.ZombieSpawns[rng.Intn(len(area.ZombieSpawns))]
	box := domain.Rect{X: spawn.X, Y: spawn.Y, W: domain.GridCell, H: domain.GridCell}
	for _, other := range world.Agents() {
		if other.Area == area && other.Private == nil && other.Box.Intersects(box) {
			return nil, nil
		}
	}

	z := domain.NewZombieAgent(&domain.Zombie{}, box, area)
	if _, err := world.Insert(z); err != nil {
		return nil, err
	}
	area.ZombieCount++
	return z, nil
}

// DropFromZombie с вероятностью 1/ZombieDropChance оставляет мясо на месте трупа.
// Выпавший предмет не привязан к слоту и не возрождается.
func DropFromZombie(z *domain.Agent, rng Rand) *domain.Object {
	if rng.Intn(domain.ZombieDropChance) != 0 {
		return nil
	}
	eco := z.Economy()
	if eco == nil {
		return nil
	}
	obj := &domain.Object{
		Kind: enums.ObjectFlesh,
		Box:  domain.Rect{X: z.Box.X, Y: z.Box.Y, W: domain.GridCell, H: domain.GridCell},
	}
	eco.AddObject(obj)
	return obj
}

// PickupOverlap - бокс игрока перекрывает предмет больше чем на полклетки по обеим осям.
func PickupOverlap(player, object domain.Rect) bool {
	return player.OverlapX(object) > domain.GridCell/2 && player.OverlapY(object) > domain.GridCell/2
}

// CollectObjects подбирает все предметы под игроком и возвращает их типы.
func CollectObjects(a *domain.Agent, p *domain.Player, tick uint32) []enums.ObjectKind {
	eco := a.Economy()
	if eco == nil {
		return nil
	}

	var picked []enums.ObjectKind
	candidates := append([]*domain.Object(nil), eco.Objects...)
	for _, obj := range candidates {
		if !PickupOverlap(a.Box, obj.Box) || !applyPickup(a, p, obj.Kind) {
			continue
		}
		eco.RemoveObject(obj, tick)
		picked = append(picked, obj.Kind)

		logger.For("economy_system").WithFields(logrus.Fields{
			"player_id": a.ID,
			"name":      p.Name,
			"object":    obj.Kind,
		}).Debug("Object picked up")
	}
	return picked
}

// applyPickup применяет эффект. Мясо при полной сумке не подбирается.
func applyPickup(a *domain.Agent, p *domain.Player, kind enums.ObjectKind) bool {
	switch kind {
	case enums.ObjectHealth:
		a.Health = domain.PlayerMaxHealth
	case enums.ObjectAmmo:
		p.Ammo = domain.MaxAmmo
	case enums.ObjectFood:
		p.Hunger = 0
		p.HungerTimer = domain.HungerInterval
	case enums.ObjectWater:
		p.Thirst = 0
		p.ThirstTimer = domain.ThirstInterval
	case enums.ObjectFlesh:
		i := p.FreeBagSlot()
		if i < 0 {
			return false
		}
		p.Bag[i] = enums.ObjectFlesh
	default:
		return false
	}
	return true
}
