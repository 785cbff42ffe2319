package api

import (
	"errors"
	"fmt"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

var (
	ErrBadPortOffset = errors.New("port offset out of range")
	ErrBadFacing     = errors.New("facing out of range")
	ErrBadFlags      = errors.New("unknown input flags")
	ErrBadSwapSlot   = errors.New("swap slot out of range")
)

func (l Login) Validate() error {
	if l.Name == "" || len(l.Name) > MaxNameLen {
		return fmt.Errorf("%w: %q", ErrInvalidName, l.Name)
	}
	for _, c := range []byte(l.Name) {
		if c < 0x20 || c > 0x7e {
			return fmt.Errorf("%w: non-printable byte 0x%02x", ErrInvalidName, c)
		}
	}
	if l.PortOffset > MaxPortOffset {
		return fmt.Errorf("%w: %d", ErrBadPortOffset, l.PortOffset)
	}
	return nil
}

func (c CharState) Validate() error {
	if c.Facing > 3 {
		return fmt.Errorf("%w: %d", ErrBadFacing, c.Facing)
	}
	if c.Flags&^knownInputFlags != 0 {
		return fmt.Errorf("%w: %#x", ErrBadFlags, uint32(c.Flags))
	}
	for _, slot := range []int32{c.SwapA, c.SwapB} {
		if slot < NoSlot || slot >= 2*BagSize {
			return fmt.Errorf("%w: %d", ErrBadSwapSlot, slot)
		}
	}
	return nil
}

// Validate вызывает проверку, если сообщение ее поддерживает.
func Validate(m Message) error {
	if v, ok := m.(Validator); ok {
		return v.Validate()
	}
	return nil
}
