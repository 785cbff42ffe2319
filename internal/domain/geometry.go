package domain

import "strings"

// Rect - прямоугольник в пикселях (левый верхний угол + размер).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Vec - смещение за тик.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GridRect строит прямоугольник из координат в клетках.
func GridRect(x, y, w, h int) Rect {
	return Rect{X: x * GridCell, Y: y * GridCell, W: w * GridCell, H: h * GridCell}
}

// Shift возвращает сдвинутую копию.
func (r Rect) Shift(v Vec) Rect {
	return Rect{X: r.X + v.X, Y: r.Y + v.Y, W: r.W, H: r.H}
}

// At переносит прямоугольник в точку, сохраняя размер.
func (r Rect) At(x, y int) Rect {
	return Rect{X: x, Y: y, W: r.W, H: r.H}
}

// IntersectsX - пересекаются ли проекции на ось X (касание не считается).
func (r Rect) IntersectsX(o Rect) bool {
	return r.X+r.W > o.X && o.X+o.W > r.X
}

// IntersectsY - то же по оси Y.
func (r Rect) IntersectsY(o Rect) bool {
	return r.Y+r.H > o.Y && o.Y+o.H > r.Y
}

func (r Rect) Intersects(o Rect) bool {
	return r.IntersectsX(o) && r.IntersectsY(o)
}

// Inside - r целиком лежит внутри o.
func (r Rect) Inside(o Rect) bool {
	return r.X >= o.X && r.Y >= o.Y && r.X+r.W <= o.X+o.W && r.Y+r.H <= o.Y+o.H
}

// OverlapX возвращает ширину пересечения проекций (0, если их нет).
func (r Rect) OverlapX(o Rect) int {
	return max(0, min(r.X+r.W, o.X+o.W)-max(r.X, o.X))
}

// OverlapY возвращает высоту пересечения проекций.
func (r Rect) OverlapY(o Rect) int {
	return max(0, min(r.Y+r.H, o.Y+o.H)-max(r.Y, o.Y))
}

// Center - центр в целых пикселях (округление вниз).
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// CenterDelta - вектор от центра r к центру o.
func (r Rect) CenterDelta(o Rect) Vec {
	rx, ry := r.Center()
	ox, oy := o.Center()
	return Vec{X: ox - rx, Y: oy - ry}
}

// ChebyshevTo - расстояние между центрами по худшей оси.
func (r Rect) ChebyshevTo(o Rect) int {
	d := r.CenterDelta(o)
	return max(abs(d.X), abs(d.Y))
}

// DistanceSquaredTo - квадрат евклидова расстояния между центрами.
func (r Rect) DistanceSquaredTo(o Rect) int {
	d := r.CenterDelta(o)
	return d.X*d.X + d.Y*d.Y
}

func (v Vec) Neg() Vec {
	return Vec{X: -v.X, Y: -v.Y}
}

func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec) Scale(k int) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Signs возвращает покомпонентный знак (-1, 0, 1). Так скорость уходит клиенту.
func (v Vec) Signs() Vec {
	return Vec{X: Sign(v.X), Y: Sign(v.Y)}
}

func Sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Facing - направление взгляда. Значения совпадают с сетевыми.
type Facing uint8

const (
	FacingDown Facing = iota
	FacingUp
	FacingRight
	FacingLeft
)

var facingNames = [...]string{"DOWN", "UP", "RIGHT", "LEFT"}

func (f Facing) Valid() bool {
	return f <= FacingLeft
}

func (f Facing) String() string {
	if f.Valid() {
		return facingNames[f]
	}
	return "UNKNOWN"
}

// ParseFacing принимает имя направления в любом регистре.
func ParseFacing(s string) (Facing, bool) {
	for i, name := range facingNames {
		if strings.EqualFold(name, s) {
			return Facing(i), true
		}
	}
	return 0, false
}

// Unit - единичный вектор взгляда.
func (f Facing) Unit() Vec {
	switch f {
	case FacingDown:
		return Vec{Y: 1}
	case FacingUp:
		return Vec{Y: -1}
	case FacingRight:
		return Vec{X: 1}
	case FacingLeft:
		return Vec{X: -1}
	}
	return Vec{}
}

// Opposite - куда смотреть, чтобы встретиться взглядом.
func (f Facing) Opposite() Facing {
	switch f {
	case FacingDown:
		return FacingUp
	case FacingUp:
		return FacingDown
	case FacingRight:
		return FacingLeft
	}
	return FacingRight
}

// Vertical - ось взгляда Y.
func (f Facing) Vertical() bool {
	return f == FacingDown || f == FacingUp
}

// FacingFromDominant выбирает направление по доминирующей оси вектора.
// Для нулевого вектора возвращает fallback.
func FacingFromDominant(v Vec, fallback Facing) Facing {
	switch {
	case v.IsZero():
		return fallback
	case abs(v.X) > abs(v.Y):
		if v.X > 0 {
			return FacingRight
		}
		return FacingLeft
	case v.Y > 0:
		return FacingDown
	}
	return FacingUp
}
