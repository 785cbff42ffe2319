package domain

// Сетка карты: все координаты в пикселях, размеры кратны клетке.
const (
	GridCell = 16
)

// Темп симуляции
const (
	TickRate           = 30
	ClientTimeoutTicks = 1800
)

// Лимиты сессий
const (
	MaxPlayers = 64
	MaxNameLen = 15
)

// Движение (пикселей за тик)
const (
	CharSpeed   = 2
	ZombieSpeed = 1

	// MaxResolvePasses ограничивает перезапуски разрешения коллизий.
	// При малых скоростях неподвижная точка достигается за 2-3 прохода.
	MaxResolvePasses = 64
)

// Здоровье и урон
const (
	PlayerMaxHealth   = 10
	ZombieHealth      = 2
	InvulnerableTicks = 30

	PlayerStartAmmo = 5
	MaxAmmo         = 10
)

// Стрельба и нож
const (
	ShootCooldown = 10
	StabCooldown  = 10
	ShotDuration  = 10
	GunRange      = 10 * GridCell
	ShotDamage    = 1

	StabReach       = GridCell + GridCell/2
	StabLateral     = GridCell
	StabDamage      = 1
	StabKnockback   = 3
	StabFreezeTicks = 6

	ZombieBiteDamage = 1
	BiteKnockback    = 3
	BiteFreezeTicks  = 6

	ZombieStaggerTicks = 10
)

// Зомби
const (
	ZombieThinkTicks    = 25
	ZombieSightRadius   = 8 * GridCell
	ZombieSpawnInterval = 300
	MaxZombiesPerArea   = 10
	// ZombieDropChance: выпадение мяса с вероятностью 1/ZombieDropChance.
	ZombieDropChance = 5
)

// Экономика
const (
	ObjectSpawnInterval = 300

	MaxHunger      = 10
	HungerInterval = 900
	MaxThirst      = 10
	ThirstInterval = 600

	BagSize       = 6
	SwapLockTicks = 5
)

// Видимость и тексты
const (
	ViewportHalfW = 20 * GridCell
	ViewportHalfH = 15 * GridCell
	// MaxVisibles - потолок записей в одном снапшоте, чтобы пакет влез в датаграмму.
	MaxVisibles = 24

	TextLineSize = 30
	MaxTextLen   = 4 * TextLineSize
)
