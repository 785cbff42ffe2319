package enums

import "strings"

// AgentKind - вариант агента. Нулевое значение зарезервировано,
// поэтому упакованный AgentID живого агента никогда не равен нулю.
type AgentKind uint8

const (
	AgentKindUnknown AgentKind = iota
	AgentKindPlayer
	AgentKindZombie
)

var agentKindToString = map[AgentKind]string{
	AgentKindPlayer: "PLAYER",
	AgentKindZombie: "ZOMBIE",
}

var agentKindStringToType = map[string]AgentKind{
	"PLAYER": AgentKindPlayer,
	"ZOMBIE": AgentKindZombie,
}

// String возвращает строковое представление (для логов и дебага)
func (k AgentKind) String() string {
	if val, ok := agentKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseAgentKind(s string) AgentKind {
	if val, ok := agentKindStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return AgentKindUnknown
}
