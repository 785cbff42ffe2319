package systems

import (
	"zombieland-server/internal/domain"
)

// FacesObject - персонаж стоит вплотную к объекту и смотрит на него.
// Вдоль взгляда нужно точное касание граней, поперек - больше половины
// персонажа должно приходиться на объект.
func FacesObject(box domain.Rect, facing domain.Facing, obj domain.Rect) bool {
	alignedX := box.X > obj.X-box.W/2 && box.X+box.W/2 < obj.X+obj.W
	alignedY := box.Y > obj.Y-box.H/2 && box.Y+box.H/2 < obj.Y+obj.H

	switch facing {
	case domain.FacingDown:
		return alignedX && box.Y+box.H == obj.Y
	case domain.FacingUp:
		return alignedX && box.Y == obj.Y+obj.H
	case domain.FacingRight:
		return alignedY && box.X+box.W == obj.X
	case domain.FacingLeft:
		return alignedY && box.X == obj.X+obj.W
	}
	return false
}

// faceOverlap - сколько пикселей персонажа приходится на объект поперек взгляда.
func faceOverlap(box domain.Rect, facing domain.Facing, obj domain.Rect) int {
	if facing.Vertical() {
		return box.OverlapX(obj)
	}
	return box.OverlapY(obj)
}

// Interact ищет триггер перед игроком и ставит реплику в очередь на отправку.
// Если вплотную стоят несколько, берется тот, на который приходится больше
// персонажа; при равенстве статичный триггер раньше NPC, дальше порядок в зоне.
// NPC поворачивается к игроку.
func Interact(a *domain.Agent, p *domain.Player) bool {
	if a.Area == nil {
		return false
	}

	var (
		bestText string
		bestNPC  *domain.NPC
		best     = 0
	)
	for _, it := range a.Area.Interactables {
		if !FacesObject(a.Box, a.Facing, it.Box) {
			continue
		}
		if ov := faceOverlap(a.Box, a.Facing, it.Box); ov > best {
			best, bestText, bestNPC = ov, it.Text, nil
		}
	}
	for _, npc := range a.Area.NPCs {
		if !FacesObject(a.Box, a.Facing, npc.Box) {
			continue
		}
		if ov := faceOverlap(a.Box, a.Facing, npc.Box); ov > best {
			best, bestText, bestNPC = ov, npc.Text, npc
		}
	}
	if best == 0 {
		return false
	}

	p.Dialogue = &domain.Dialogue{Text: bestText, Lines: TextLines(bestText), NPC: bestNPC}
	if bestNPC != nil {
		bestNPC.Facing = a.Facing.Opposite()
	}
	return true
}

// TextLines - число строк шириной TextLineSize.
func TextLines(text string) int {
	return (len(text) + domain.TextLineSize - 1) / domain.TextLineSize
}
