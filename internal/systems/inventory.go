package systems

import (
	"errors"
	"fmt"

	"zombieland-server/internal/core/types"
	"zombieland-server/internal/core/types/enums"
	"zombieland-server/internal/domain"
)

var (
	ErrNotSearching = errors.New("player is not searching")
	ErrSwapLocked   = errors.New("swap is cooling down")
	ErrSwapSameSlot = errors.New("swap needs two different slots")
	ErrSwapSlot     = errors.New("slot is outside the search scope")
)

// UpdateSearch применяет флаг обыска из ввода.
//
// Без флага замок сумки снимается. С флагом игрок видит свою сумку, а стоя
// внутри триггера свободной сумки мира захватывает ее замок. Вышел из
// триггера - замок отпускается.
func UpdateSearch(a *domain.Agent, p *domain.Player) {
	if !p.Input.Search {
		ReleaseSearch(a, p)
		p.Search = domain.SearchNone
		return
	}

	if p.Searching != nil && !a.Box.Inside(p.Searching.Trigger) {
		ReleaseSearch(a, p)
	}

	if p.Searching == nil {
		if eco := a.Economy(); eco != nil {
			for _, bag := range eco.Bags {
				if !a.Box.Inside(bag.Trigger) {
					continue
				}
				if bag.SearchedBy.IsNil() || bag.SearchedBy == a.ID {
					bag.SearchedBy = a.ID
					p.Searching = bag
					break
				}
			}
		}
	}

	if p.Searching != nil {
		p.Search = domain.SearchOwnAndWorld
	} else {
		p.Search = domain.SearchOwn
	}
}

// ReleaseSearch отпускает замок сумки мира, если он у игрока.
func ReleaseSearch(a *domain.Agent, p *domain.Player) {
	if p.Searching == nil {
		return
	}
	if p.Searching.SearchedBy == a.ID {
		p.Searching.SearchedBy = types.NilAgentID
	}
	p.Searching = nil
	if p.Search == domain.SearchOwnAndWorld {
		p.Search = domain.SearchOwn
	}
}

// SwapSlots меняет местами два слота в адресном пространстве
// [своя сумка][сумка мира]. Успешный обмен ставит короткий замок.
func SwapSlots(p *domain.Player, i, j int) error {
	if p.Search == domain.SearchNone {
		return ErrNotSearching
	}
	if p.SwapLock > 0 {
		return ErrSwapLocked
	}
	if i == j {
		return ErrSwapSameSlot
	}

	a, err := slotRef(p, i)
	if err != nil {
		return err
	}
	b, err := slotRef(p, j)
	if err != nil {
		return err
	}

	*a, *b = *b, *a
	p.SwapLock = domain.SwapLockTicks
	return nil
}

func slotRef(p *domain.Player, idx int) (*enums.ObjectKind, error) {
	switch {
	case idx >= 0 && idx < domain.BagSize:
		return &p.Bag[idx], nil
	case idx >= domain.BagSize && idx < 2*domain.BagSize &&
		p.Search == domain.SearchOwnAndWorld && p.Searching != nil:
		return &p.Searching.Slots[idx-domain.BagSize], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrSwapSlot, idx)
}
