package api

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrShortMessage    = errors.New("message shorter than type tag")
	ErrUnknownType     = errors.New("unknown message type")
	ErrTruncated       = errors.New("message payload truncated")
	ErrTrailingData    = errors.New("trailing bytes after payload")
	ErrTextTooLong     = errors.New("text exceeds limit")
	ErrTooManyVisibles = errors.New("too many visible records")
	ErrMessageTooLarge = errors.New("message exceeds datagram limit")
	ErrInvalidName     = errors.New("invalid player name")
)

const tagSize = 4

// Encoder дописывает big-endian поля в буфер.
type Encoder struct {
	buf []byte
}

func NewEncoder(capacity int) *Encoder {
	return &Encoder{buf: make([]byte, 0, capacity)}
}

func (e *Encoder) U16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }
func (e *Encoder) U32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }
func (e *Encoder) I32(v int32)  { e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v)) }
func (e *Encoder) Raw(b []byte) { e.buf = append(e.buf, b...) }

func (e *Encoder) Rect(r Rect) {
	e.I32(r.X)
	e.I32(r.Y)
	e.I32(r.W)
	e.I32(r.H)
}

func (e *Encoder) Bytes() []byte { return e.buf }
func (e *Encoder) Len() int      { return len(e.buf) }

// Decoder читает big-endian поля. Первая ошибка залипает, остальные чтения
// возвращают нули, проверять достаточно в конце через Err/Finish.
type Decoder struct {
	buf []byte
	off int
	err error
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf)-d.off < n {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, d.off, len(d.buf)-d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *Decoder) U16() uint16 {
	if b := d.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (d *Decoder) U32() uint32 {
	if b := d.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (d *Decoder) I32() int32 { return int32(d.U32()) }

func (d *Decoder) Raw(n int) []byte {
	return d.take(n)
}

func (d *Decoder) Rect() Rect {
	return Rect{X: d.I32(), Y: d.I32(), W: d.I32(), H: d.I32()}
}

func (d *Decoder) Err() error { return d.err }

// Finish проверяет, что payload прочитан целиком.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if rest := len(d.buf) - d.off; rest != 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, rest)
	}
	return nil
}

// Encode сериализует сообщение в одну датаграмму.
func Encode(m Message) ([]byte, error) {
	e := NewEncoder(64)
	e.U32(uint32(m.Type()))

	switch msg := m.(type) {
	case Login:
		name, err := encodeName(msg.Name)
		if err != nil {
			return nil, err
		}
		e.U16(msg.Version)
		e.U16(msg.PortOffset)
		e.Raw(name[:])
		e.U32(msg.Body)
	case LoginOK:
		e.U32(msg.ID)
	case Logout:
		e.U32(msg.ID)
	case CharState:
		e.U32(msg.ID)
		e.U32(msg.Frame)
		e.I32(msg.SpeedX)
		e.I32(msg.SpeedY)
		e.U32(msg.Facing)
		e.U32(uint32(msg.Flags))
		e.I32(msg.SwapA)
		e.I32(msg.SwapB)
	case ServerState:
		if err := encodeServerState(e, &msg); err != nil {
			return nil, err
		}
	case NameInUse, ServerFull, VersionMismatch, PlayerDied:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, m)
	}

	if e.Len() > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, e.Len())
	}
	return e.Bytes(), nil
}

func encodeServerState(e *Encoder, s *ServerState) error {
	if len(s.Text) > MaxTextLen {
		return fmt.Errorf("%w: %d bytes", ErrTextTooLong, len(s.Text))
	}
	if len(s.Visibles) > MaxVisibles {
		return fmt.Errorf("%w: %d", ErrTooManyVisibles, len(s.Visibles))
	}

	e.U32(s.Frame)
	e.U32(s.Area)
	e.Rect(s.Box)
	e.U32(s.Facing)
	e.I32(s.Health)
	e.U32(uint32(s.Flags))
	e.U32(s.Ammo)
	e.U32(s.Hunger)
	e.U32(s.Thirst)
	e.U32(s.SearchMode)
	for _, v := range s.OwnBag {
		e.U32(v)
	}
	for _, v := range s.WorldBag {
		e.U32(v)
	}
	e.I32(s.NPCID)
	e.U32(s.NPCFacing)
	e.U32(s.TextLines)
	e.U16(uint16(len(s.Text)))
	e.Raw([]byte(s.Text))

	e.U16(uint16(len(s.Visibles)))
	for _, v := range s.Visibles {
		e.U32(v.Kind)
		e.U32(v.Subtype)
		e.Rect(v.Box)
		e.U32(v.Facing)
		e.I32(v.SpeedX)
		e.I32(v.SpeedY)
		e.U32(v.Flags)
	}
	return nil
}

// PeekType читает только тег.
func PeekType(b []byte) (MsgType, error) {
	if len(b) < tagSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(b))
	}
	return MsgType(binary.BigEndian.Uint32(b)), nil
}

// Decode разбирает датаграмму целиком: лишние байты в конце - ошибка.
func Decode(b []byte) (Message, error) {
	t, err := PeekType(b)
	if err != nil {
		return nil, err
	}
	if len(b) > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(b))
	}

	d := NewDecoder(b[tagSize:])
	var m Message

	switch t {
	case MsgLogin:
		msg := Login{Version: d.U16(), PortOffset: d.U16()}
		msg.Name = decodeName(d.Raw(NameSize))
		msg.Body = d.U32()
		m = msg
	case MsgLoginOK:
		m = LoginOK{ID: d.U32()}
	case MsgLogout:
		m = Logout{ID: d.U32()}
	case MsgClientCharState:
		m = CharState{
			ID:     d.U32(),
			Frame:  d.U32(),
			SpeedX: d.I32(),
			SpeedY: d.I32(),
			Facing: d.U32(),
			Flags:  InputFlags(d.U32()),
			SwapA:  d.I32(),
			SwapB:  d.I32(),
		}
	case MsgServerState:
		msg, err := decodeServerState(d)
		if err != nil {
			return nil, err
		}
		m = msg
	case MsgNameInUse:
		m = NameInUse{}
	case MsgServerFull:
		m = ServerFull{}
	case MsgVersionMismatch:
		m = VersionMismatch{}
	case MsgPlayerDied:
		m = PlayerDied{}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint32(t))
	}

	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t, err)
	}
	return m, nil
}

func decodeServerState(d *Decoder) (ServerState, error) {
	s := ServerState{
		Frame:  d.U32(),
		Area:   d.U32(),
		Box:    d.Rect(),
		Facing: d.U32(),
		Health: d.I32(),
		Flags:  StateFlags(d.U32()),
		Ammo:   d.U32(),
		Hunger: d.U32(),
		Thirst: d.U32(),
	}
	s.SearchMode = d.U32()
	for i := range s.OwnBag {
		s.OwnBag[i] = d.U32()
	}
	for i := range s.WorldBag {
		s.WorldBag[i] = d.U32()
	}
	s.NPCID = d.I32()
	s.NPCFacing = d.U32()
	s.TextLines = d.U32()

	textLen := int(d.U16())
	if textLen > MaxTextLen {
		return s, fmt.Errorf("%w: %d bytes", ErrTextTooLong, textLen)
	}
	s.Text = string(d.Raw(textLen))

	count := int(d.U16())
	if count > MaxVisibles {
		return s, fmt.Errorf("%w: %d", ErrTooManyVisibles, count)
	}
	if count > 0 {
		s.Visibles = make([]Visible, 0, count)
	}
	for i := 0; i < count && d.Err() == nil; i++ {
		s.Visibles = append(s.Visibles, Visible{
			Kind:    d.U32(),
			Subtype: d.U32(),
			Box:     d.Rect(),
			Facing:  d.U32(),
			SpeedX:  d.I32(),
			SpeedY:  d.I32(),
			Flags:   d.U32(),
		})
	}
	return s, d.Err()
}

func encodeName(name string) ([NameSize]byte, error) {
	var out [NameSize]byte
	if name == "" || len(name) > MaxNameLen || bytes.IndexByte([]byte(name), 0) >= 0 {
		return out, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	copy(out[:], name)
	return out, nil
}

// decodeName обрезает имя по первому NUL.
func decodeName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
