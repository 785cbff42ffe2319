package engine

import (
	"errors"
	"math/rand"
	"net"
	"time"

	"zombieland-server/internal/core/types"
	"zombieland-server/internal/domain"
	"zombieland-server/internal/systems"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrNameInUse     = errors.New("name in use")
	ErrServerFull    = errors.New("server full")
)

// Instance - один запущенный мир. Все изменения состояния происходят только
// внутри его методов и только из одного потока.
type Instance struct {
	World *domain.World
	Rng   *rand.Rand
	Seed  int64

	cfg Config

	// Replay - лента принятых датаграмм, nil если запись выключена.
	Replay *domain.ReplaySession
}

// LoginRequest - разобранный LOGIN с адресом для ответов.
type LoginRequest struct {
	Name       string
	Body       uint32
	Addr       *net.UDPAddr
	PortOffset uint16
}

// TickReport - что произошло за тик и требует реакции транспорта.
type TickReport struct {
	Tick uint32
	// Died - убитые игроки, уже удаленные из мира. Им уходит PLAYER_DIED.
	Died     []*domain.Agent
	TimedOut []*domain.Agent

	ZombiesSpawned int
	ZombiesKilled  int
	ObjectsSpawned int
}

func NewInstance(world *domain.World, cfg Config) *Instance {
	return &Instance{
		World: world,
		Rng:   utils.NewRand(cfg.Seed),
		Seed:  cfg.Seed,
		cfg:   cfg,
	}
}

// StartRecording включает запись входа для реплея.
func (i *Instance) StartRecording() {
	i.Replay = &domain.ReplaySession{
		Seed:      i.Seed,
		Timestamp: time.Now().Unix(),
		Actions:   make([]domain.ReplayAction, 0, 1024),
	}
}

// Record кладет датаграмму в ленту с текущим тиком.
func (i *Instance) Record(addr string, datagram []byte) {
	if i.Replay == nil {
		return
	}
	i.Replay.Actions = append(i.Replay.Actions, domain.ReplayAction{
		Tick:     i.World.Tick,
		Addr:     addr,
		Datagram: append([]byte(nil), datagram...),
	})
}

// Login создает игрока. Повторный LOGIN с тем же именем с того же адреса
// возвращает уже существующего игрока (resumed=true): LOGIN_OK мог потеряться.
func (i *Instance) Login(req LoginRequest) (a *domain.Agent, resumed bool, err error) {
	if existing := i.World.PlayerByName(req.Name); existing != nil {
		p, _ := existing.AsPlayer()
		if sameClient(p, req) {
			return existing, true, nil
		}
		return nil, false, ErrNameInUse
	}
	if i.World.PlayerCount() >= i.cfg.MaxPlayers {
		return nil, false, ErrServerFull
	}

	p := domain.NewPlayer(req.Name, req.Body, req.Addr, req.PortOffset, utils.NewSessionID())
	p.Timeout = i.cfg.ClientTimeoutTicks
	a = domain.NewPlayerAgent(p, i.spawnBox(), i.World.StartArea)

	if _, err := i.World.Insert(a); err != nil {
		return nil, false, ErrServerFull
	}

	// Набор приватных зон строится один раз: граф мира статичен.
	for _, area := range i.World.Areas {
		if area.Private {
			p.Privates[area.ID] = area.NewPrivate(a.ID)
		}
	}

	i.playerLog(a, p).WithField("area", a.Area.Name).Info("Player joined")
	return a, false, nil
}

func sameClient(p *domain.Player, req LoginRequest) bool {
	if p == nil || p.Addr == nil || req.Addr == nil {
		return false
	}
	return p.Addr.IP.Equal(req.Addr.IP) && p.PortOffset == req.PortOffset
}

// spawnBox ищет свободную клетку рядом со стартовой.
func (i *Instance) spawnBox() domain.Rect {
	start := i.World.StartBox
	agents := i.World.Agents()

	for ring := 0; ring < 8; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if max(abs(dx), abs(dy)) != ring {
					continue
				}
				box := start.Shift(domain.Vec{X: dx * domain.GridCell, Y: dy * domain.GridCell})
				if i.boxFree(box, agents) {
					return box
				}
			}
		}
	}
	return start
}

func (i *Instance) boxFree(box domain.Rect, agents []*domain.Agent) bool {
	area := i.World.StartArea
	if !box.Inside(area.Walkable) || !systems.IsRectFree(box, area.Blockers()) {
		return false
	}
	for _, a := range agents {
		if a.Area == area && a.Private == nil && a.Box.Intersects(box) {
			return false
		}
	}
	return true
}

// Player возвращает агента-игрока по сетевому ID.
func (i *Instance) Player(id uint32) (*domain.Agent, *domain.Player, error) {
	a := i.World.Get(types.AgentID(id))
	if a == nil {
		return nil, nil, ErrUnknownPlayer
	}
	p, ok := a.AsPlayer()
	if !ok {
		return nil, nil, ErrUnknownPlayer
	}
	return a, p, nil
}

// ApplyInput принимает ввод клиента. Кадры не новее последнего принятого
// отбрасываются (applied=false), это не ошибка.
func (i *Instance) ApplyInput(msg api.CharState) (applied bool, err error) {
	_, p, err := i.Player(msg.ID)
	if err != nil {
		return false, err
	}
	if p.HasFrame && msg.Frame <= p.LastFrame {
		return false, nil
	}
	p.HasFrame = true
	p.LastFrame = msg.Frame
	p.Timeout = i.cfg.ClientTimeoutTicks

	p.Input = domain.Input{
		Speed:    domain.Vec{X: domain.Sign(int(msg.SpeedX)), Y: domain.Sign(int(msg.SpeedY))},
		Facing:   domain.Facing(msg.Facing),
		Interact: msg.Flags.Has(api.FlagInteract),
		Shoot:    msg.Flags.Has(api.FlagShoot),
		Stab:     msg.Flags.Has(api.FlagStab),
		Search:   msg.Flags.Has(api.FlagSearch),
		SwapA:    int(msg.SwapA),
		SwapB:    int(msg.SwapB),
	}
	// Флаги только взводят действие, решает сервер по своим кулдаунам.
	p.PendingShoot = p.PendingShoot || p.Input.Shoot
	p.PendingStab = p.PendingStab || p.Input.Stab
	p.PendingInteract = p.PendingInteract || p.Input.Interact
	if msg.SwapA != api.NoSlot && msg.SwapB != api.NoSlot {
		p.SwapA, p.SwapB = int(msg.SwapA), int(msg.SwapB)
	}

	return true, nil
}

// Logout удаляет игрока по его запросу.
func (i *Instance) Logout(id uint32) error {
	a, p, err := i.Player(id)
	if err != nil {
		return err
	}
	i.removePlayer(a, p)
	i.playerLog(a, p).Info("Player left")
	return nil
}

// Disconnect удаляет игрока по решению сервера (например, сбой отправки).
func (i *Instance) Disconnect(a *domain.Agent, reason string) {
	p, ok := a.AsPlayer()
	if !ok || i.World.Get(a.ID) != a {
		return
	}
	i.removePlayer(a, p)
	i.playerLog(a, p).WithField("reason", reason).Warn("Player disconnected")

	// Для реплея отключение записывается как LOGOUT игрока.
	if raw, err := api.Encode(api.Logout{ID: uint32(a.ID)}); err == nil {
		i.Record(p.Addr.String(), raw)
	}
}

func (i *Instance) removePlayer(a *domain.Agent, p *domain.Player) {
	systems.ReleaseSearch(a, p)
	i.World.Remove(a.ID)
}

// Step продвигает мир на один тик:
// ИИ, движение, бой, экономика и варпы, старение, уборка мертвых.
func (i *Instance) Step() TickReport {
	w := i.World
	report := TickReport{Tick: w.Tick}

	i.thinkPhase()
	i.movePhase()
	i.combatPhase()
	i.economyPhase(&report)
	i.decayPhase()
	i.cullPhase(&report)

	w.Tick++
	return report
}

func (i *Instance) thinkPhase() {
	agents := i.World.Agents()
	for _, a := range agents {
		if a.IsZombie() {
			systems.ThinkZombie(a, agents, i.Rng)
		}
	}
}

func (i *Instance) movePhase() {
	agents := i.World.Agents()
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		if p, ok := a.AsPlayer(); ok {
			systems.SteerPlayer(a, p)
		}

		res := systems.MoveAgent(a, agents)
		for _, other := range res.Contacts {
			i.contact(a, other)
		}
	}
}

// contact: зомби кусает игрока, остальные пары только упираются.
func (i *Instance) contact(mover, other *domain.Agent) {
	switch {
	case mover.IsZombie() && other.IsPlayer():
		systems.ApplyBite(mover, other)
	case mover.IsPlayer() && other.IsZombie():
		systems.ApplyBite(other, mover)
	}
}

func (i *Instance) combatPhase() {
	w := i.World
	agents := w.Agents()

	for _, a := range agents {
		p, ok := a.AsPlayer()
		if !ok {
			continue
		}
		p.JustShot, p.JustStabbed = false, false
		if !a.Alive() {
			p.PendingShoot, p.PendingStab, p.PendingInteract = false, false, false
			continue
		}

		if p.PendingShoot && p.ShootRest == 0 && p.Ammo > 0 && !a.Peaceful() {
			shot, res := systems.Fire(a, p, agents)
			if shot != nil {
				w.AddShot(shot)
			}
			p.JustShot = true
			p.ShootRest = domain.ShootCooldown
			i.playerLog(a, p).WithFields(logrus.Fields{
				"hit":      res.Hit,
				"boundary": res.Boundary,
				"ammo":     p.Ammo,
			}).Debug("Player fired")
		}
		if p.PendingStab && p.StabRest == 0 && !a.Peaceful() {
			systems.Stab(a, agents)
			p.JustStabbed = true
			p.StabRest = domain.StabCooldown
		}
		if p.PendingInteract {
			systems.Interact(a, p)
		}
		p.PendingShoot, p.PendingStab, p.PendingInteract = false, false, false

		systems.UpdateSearch(a, p)
		if p.SwapA != api.NoSlot && p.SwapB != api.NoSlot {
			if err := systems.SwapSlots(p, p.SwapA, p.SwapB); err != nil {
				i.playerLog(a, p).WithError(err).Debug("Swap rejected")
			}
			p.SwapA, p.SwapB = api.NoSlot, api.NoSlot
		}
	}
}

func (i *Instance) economyPhase(report *TickReport) {
	w := i.World

	if w.Tick%domain.ObjectSpawnInterval == 0 {
		for _, area := range w.Areas {
			if !area.Private && systems.SpawnObject(area.Economy, w.Tick, i.Rng) != nil {
				report.ObjectsSpawned++
			}
		}
		// Личные экономики обходятся в порядке зон, не map.
		for _, a := range w.Players() {
			p, _ := a.AsPlayer()
			for _, area := range w.Areas {
				priv, ok := p.Privates[area.ID]
				if ok && systems.SpawnObject(priv.Economy, w.Tick, i.Rng) != nil {
					report.ObjectsSpawned++
				}
			}
		}
	}

	if w.Tick%domain.ZombieSpawnInterval == 0 {
		for _, area := range w.Areas {
			z, err := systems.SpawnZombie(w, area, i.Rng)
			if err != nil {
				i.log().WithError(err).WithField("area", area.Name).Warn("Zombie spawn failed")
				continue
			}
			if z != nil {
				report.ZombiesSpawned++
			}
		}
	}

	for _, a := range w.Players() {
		if !a.Alive() {
			continue
		}
		p, _ := a.AsPlayer()
		systems.CollectObjects(a, p, w.Tick)
		i.applyWarps(a, p)
	}
}

func (i *Instance) applyWarps(a *domain.Agent, p *domain.Player) {
	for _, warp := range a.Area.Warps {
		if !a.Box.Inside(warp.Trigger) {
			continue
		}
		systems.ReleaseSearch(a, p)
		from := a.Area

		a.Area = warp.Dest
		a.Private = nil
		if warp.Dest.Private {
			a.Private = p.Privates[warp.Dest.ID]
		}
		a.Box = a.Box.At(warp.Spawn.X, warp.Spawn.Y)
		a.Velocity = domain.Vec{}

		i.playerLog(a, p).WithFields(logrus.Fields{
			"from": from.Name,
			"to":   warp.Dest.Name,
		}).Info("Player warped")
		return
	}
}

func (i *Instance) decayPhase() {
	for _, a := range i.World.Agents() {
		if p, ok := a.AsPlayer(); ok {
			systems.DecayPlayer(a, p)
		} else {
			systems.DecayZombie(a)
		}
	}
	systems.DecayShots(i.World)
}

func (i *Instance) cullPhase(report *TickReport) {
	w := i.World
	for _, a := range w.Agents() {
		if a.IsZombie() {
			if a.Alive() {
				continue
			}
			systems.DropFromZombie(a, i.Rng)
			a.Area.ZombieCount--
			w.Remove(a.ID)
			report.ZombiesKilled++
			continue
		}

		p, _ := a.AsPlayer()
		switch {
		case !a.Alive():
			i.removePlayer(a, p)
			report.Died = append(report.Died, a)
			i.playerLog(a, p).Info("Player died")
		case p.Timeout <= 0:
			i.removePlayer(a, p)
			report.TimedOut = append(report.TimedOut, a)
			i.playerLog(a, p).Info("Player timed out")
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
