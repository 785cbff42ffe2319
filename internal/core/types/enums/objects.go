package enums

import "strings"

// ObjectKind - тип подбираемого предмета. Ноль означает пустой слот сумки,
// значения совпадают с теми, что уходят по сети.
type ObjectKind uint8

const (
	ObjectNone   ObjectKind = iota // 0
	ObjectHealth                   // 1
	ObjectAmmo                     // 2
	ObjectFood                     // 3
	ObjectWater                    // 4
	ObjectFlesh                    // 5
)

// SpawnableObjects - то, что спавнер кладет в свободные точки.
var SpawnableObjects = [...]ObjectKind{ObjectHealth, ObjectAmmo, ObjectFood, ObjectWater}

var objectKindToString = map[ObjectKind]string{
	ObjectNone:   "NONE",
	ObjectHealth: "HEALTH",
	ObjectAmmo:   "AMMO",
	ObjectFood:   "FOOD",
	ObjectWater:  "WATER",
	ObjectFlesh:  "FLESH",
}

var objectKindStringToType = map[string]ObjectKind{
	"NONE":   ObjectNone,
	"HEALTH": ObjectHealth,
	"AMMO":   ObjectAmmo,
	"FOOD":   ObjectFood,
	"WATER":  ObjectWater,
	"FLESH":  ObjectFlesh,
}

func (k ObjectKind) String() string {
	if val, ok := objectKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseObjectKind нужен загрузчику карты (содержимое сумок задается строками).
func ParseObjectKind(s string) (ObjectKind, bool) {
	val, ok := objectKindStringToType[strings.ToUpper(s)]
	return val, ok
}
