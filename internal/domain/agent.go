package domain

import (
	"net"

	"zombieland-server/internal/core/types"
	"zombieland-server/internal/core/types/enums"
)

// AgentBody - вариантная часть агента. Реализуют только *Player и *Zombie,
// доступ к полям варианта возможен лишь через AsPlayer/AsZombie.
type AgentBody interface {
	agentKind() enums.AgentKind
}

// Agent - общая часть игрока и зомби.
type Agent struct {
	ID      types.AgentID `json:"id"`
	Box     Rect          `json:"box"`
	Area    *Area         `json:"-"`
	Private *PrivateArea  `json:"-"`

	// Health может уйти в минус до прохода уборки мертвых.
	Health       int    `json:"health"`
	Invulnerable int    `json:"invulnerable"`
	Facing       Facing `json:"facing"`

	// Velocity - текущая скорость. У игрока во время Freeze это отбрасывание,
	// иначе желаемая скорость из ввода.
	Velocity Vec `json:"velocity"`
	Freeze   int `json:"freeze"`

	body AgentBody
}

// NewPlayerAgent создает агента-игрока. ID выдает арена мира.
func NewPlayerAgent(p *Player, box Rect, area *Area) *Agent {
	return &Agent{Box: box, Area: area, Health: PlayerMaxHealth, Facing: FacingDown, body: p}
}

// NewZombieAgent создает зомби в точке спавна.
func NewZombieAgent(z *Zombie, box Rect, area *Area) *Agent {
	return &Agent{Box: box, Area: area, Health: ZombieHealth, Facing: FacingDown, body: z}
}

func (a *Agent) Kind() enums.AgentKind {
	if a.body == nil {
		return enums.AgentKindUnknown
	}
	return a.body.agentKind()
}

func (a *Agent) AsPlayer() (*Player, bool) {
	p, ok := a.body.(*Player)
	return p, ok
}

func (a *Agent) AsZombie() (*Zombie, bool) {
	z, ok := a.body.(*Zombie)
	return z, ok
}

func (a *Agent) IsPlayer() bool { return a.Kind() == enums.AgentKindPlayer }
func (a *Agent) IsZombie() bool { return a.Kind() == enums.AgentKindZombie }

func (a *Agent) Alive() bool {
	return a.Health > 0
}

// SameSpace - агенты в одной зоне и в одном экземпляре приватной зоны.
func (a *Agent) SameSpace(o *Agent) bool {
	return a.Area == o.Area && a.Private == o.Private
}

// Economy возвращает живую экономику там, где стоит агент.
func (a *Agent) Economy() *Economy {
	if a.Private != nil {
		return a.Private.Economy
	}
	if a.Area == nil {
		return nil
	}
	return a.Area.Economy
}

// Peaceful - бой в зоне агента отключен.
func (a *Agent) Peaceful() bool {
	return a.Area != nil && a.Area.Peaceful
}

// SearchMode - что игрок сейчас видит в окне обыска.
type SearchMode uint8

const (
	SearchNone SearchMode = iota
	SearchOwn
	SearchOwnAndWorld
)

// Input - последний принятый ввод клиента.
type Input struct {
	Speed    Vec
	Facing   Facing
	Interact bool
	Shoot    bool
	Stab     bool
	Search   bool
	SwapA    int
	SwapB    int
}

// Dialogue - текст, который уйдет в ближайший снапшот.
type Dialogue struct {
	Text  string
	Lines int
	NPC   *NPC
}

// Player - вариант агента, управляемый клиентом.
type Player struct {
	Name       string
	Body       uint32
	Session    string
	Addr       *net.UDPAddr
	PortOffset uint16

	LastFrame uint32
	HasFrame  bool
	Input     Input
	Timeout   int

	Ammo        int
	Hunger      int
	HungerTimer int
	Thirst      int
	ThirstTimer int

	ShootRest    int
	StabRest     int
	PendingShoot bool
	PendingStab  bool
	JustShot     bool
	JustStabbed  bool

	Search    SearchMode
	Searching *Bag
	SwapA     int
	SwapB     int
	SwapLock  int
	Bag       [BagSize]enums.ObjectKind

	PendingInteract bool
	Dialogue        *Dialogue

	// Privates - личные экземпляры всех приватных зон, ключ - ID зоны.
	Privates map[int]*PrivateArea
}

func (*Player) agentKind() enums.AgentKind { return enums.AgentKindPlayer }

// NewPlayer заполняет стартовые значения.
func NewPlayer(name string, body uint32, addr *net.UDPAddr, portOffset uint16, session string) *Player {
	return &Player{
		Name:        name,
		Body:        body,
		Session:     session,
		Addr:        addr,
		PortOffset:  portOffset,
		Timeout:     ClientTimeoutTicks,
		Ammo:        PlayerStartAmmo,
		HungerTimer: HungerInterval,
		ThirstTimer: ThirstInterval,
		SwapA:       -1,
		SwapB:       -1,
		Privates:    make(map[int]*PrivateArea),
	}
}

// FreeBagSlot возвращает индекс первого пустого слота или -1.
func (p *Player) FreeBagSlot() int {
	for i, k := range p.Bag {
		if k == enums.ObjectNone {
			return i
		}
	}
	return -1
}

// Zombie - вариант агента под управлением ИИ.
type Zombie struct {
	ThinkCooldown int
}

func (*Zombie) agentKind() enums.AgentKind { return enums.AgentKindZombie }
