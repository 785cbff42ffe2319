package api

import "fmt"

// Протокол клиент-сервер поверх UDP. Каждая датаграмма начинается с u32 тега
// типа, дальше идет фиксированный для типа payload. Все числа big-endian.
// Сообщения не фрагментируются: одна датаграмма - одно сообщение.

const (
	// ProtocolVersion передается в LOGIN; несовпадение - VERSION_MISMATCH.
	ProtocolVersion = 1

	// MaxMessageSize - предел датаграммы. Самый большой SERVER_STATE
	// (полный текст и MaxVisibles записей) в него укладывается.
	MaxMessageSize = 1400

	// NameSize - поле имени в LOGIN, с завершающим NUL.
	NameSize    = 16
	MaxNameLen  = NameSize - 1
	BagSize     = 6
	MaxVisibles = 24
	MaxTextLen  = 120

	// MaxPortOffset - клиенты слушают base_port+offset, offset в [0, MaxPortOffset].
	MaxPortOffset = 15

	// NoSlot - пустое значение swap_a/swap_b и npc_id.
	NoSlot = -1
)

// MsgType - тег сообщения.
type MsgType uint32

const (
	MsgLogin MsgType = iota
	MsgLoginOK
	MsgNameInUse
	MsgServerFull
	MsgClientCharState
	MsgServerState
	MsgPlayerDied
	MsgLogout
	MsgVersionMismatch
)

var msgTypeNames = [...]string{
	MsgLogin:           "LOGIN",
	MsgLoginOK:         "LOGIN_OK",
	MsgNameInUse:       "NAME_IN_USE",
	MsgServerFull:      "SERVER_FULL",
	MsgClientCharState: "CLIENT_CHAR_STATE",
	MsgServerState:     "SERVER_STATE",
	MsgPlayerDied:      "PLAYER_DIED",
	MsgLogout:          "LOGOUT",
	MsgVersionMismatch: "VERSION_MISMATCH",
}

func (t MsgType) String() string {
	if int(t) < len(msgTypeNames) {
		return msgTypeNames[t]
	}
	return fmt.Sprintf("MSG(%d)", uint32(t))
}

// Message - любое сообщение протокола.
type Message interface {
	Type() MsgType
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Login - запрос на вход. Ответ: LoginOK, NameInUse, ServerFull или VersionMismatch.
type Login struct {
	Version    uint16
	PortOffset uint16
	// Name - до MaxNameLen байт, на проводе дополняется нулями до NameSize.
	Name string
	// Body - скин персонажа, сервер только пересылает его другим.
	Body uint32
}

// InputFlags - кнопки, зажатые в кадре клиента.
type InputFlags uint32

const (
	FlagInteract InputFlags = 1 << iota
	FlagShoot
	FlagStab
	FlagSearch

	knownInputFlags = FlagInteract | FlagShoot | FlagStab | FlagSearch
)

func (f InputFlags) Has(flag InputFlags) bool { return f&flag != 0 }

// CharState - ввод клиента за кадр. Сервер принимает только кадры новее
// последнего принятого, остальные молча отбрасывает.
type CharState struct {
	ID     uint32
	Frame  uint32
	SpeedX int32
	SpeedY int32
	Facing uint32
	Flags  InputFlags
	// SwapA/SwapB - слоты для обмена в адресах [своя сумка][сумка мира], NoSlot - нет.
	SwapA int32
	SwapB int32
}

// Logout - клиент уходит сам.
type Logout struct {
	ID uint32
}

// --- СЕРВЕР -> КЛИЕНТ ---

type LoginOK struct {
	ID uint32
}

type NameInUse struct{}
type ServerFull struct{}
type VersionMismatch struct{}
type PlayerDied struct{}

// Rect - бокс в пикселях.
type Rect struct {
	X, Y, W, H int32
}

// StateFlags - флаги собственного персонажа в снапшоте.
type StateFlags uint32

const (
	StateInvulnerable StateFlags = 1 << iota
	StateJustShot
	StateJustStabbed
)

func (f StateFlags) Has(flag StateFlags) bool { return f&flag != 0 }

// VisibleFlagInvulnerable - мигание чужого персонажа.
const VisibleFlagInvulnerable uint32 = 1

// Visible - одна запись о том, что видит игрок.
type Visible struct {
	Kind    uint32
	Subtype uint32
	Box     Rect
	Facing  uint32
	// SpeedX/SpeedY - знаки скорости, клиенту хватает для анимации.
	SpeedX int32
	SpeedY int32
	Flags  uint32
}

// ServerState - снапшот для одного игрока, отправляется каждый тик.
type ServerState struct {
	// Frame - последний принятый кадр клиента.
	Frame uint32
	Area  uint32
	Box   Rect

	Facing uint32
	Health int32
	Flags  StateFlags
	Ammo   uint32
	Hunger uint32
	Thirst uint32

	SearchMode uint32
	OwnBag     [BagSize]uint32
	WorldBag   [BagSize]uint32

	// NPCID - собеседник для портрета в окне диалога, NoSlot - без NPC.
	NPCID     int32
	NPCFacing uint32
	TextLines uint32
	Text      string

	Visibles []Visible
}

func (Login) Type() MsgType           { return MsgLogin }
func (LoginOK) Type() MsgType         { return MsgLoginOK }
func (NameInUse) Type() MsgType       { return MsgNameInUse }
func (ServerFull) Type() MsgType      { return MsgServerFull }
func (CharState) Type() MsgType       { return MsgClientCharState }
func (ServerState) Type() MsgType     { return MsgServerState }
func (PlayerDied) Type() MsgType      { return MsgPlayerDied }
func (Logout) Type() MsgType          { return MsgLogout }
func (VersionMismatch) Type() MsgType { return MsgVersionMismatch }
