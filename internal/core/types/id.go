package types

import (
	"fmt"
	"strconv"

	"zombieland-server/internal/core/types/enums"
)

// AgentID - 32-битный идентификатор агента (игрока или зомби).
//
// Формат битов (от старших к младшим):
//
//	[ Kind (4) | Generation (12) | Index (16) ]
//
// Где:
//   - Kind - вариант агента (enums.AgentKind)
//   - Generation - версия слота арены (защита от устаревших ссылок)
//   - Index - индекс слота в арене мира
//
// Игрок получает свой AgentID в LOGIN_OK и присылает его в каждом
// CLIENT_CHAR_STATE, поэтому ввод со старым поколением слота
// не попадет в нового игрока, занявшего тот же индекс.
type AgentID uint32

// NilAgentID - отсутствие агента (например, свободный замок сумки).
const NilAgentID AgentID = 0

const (
	bitsIndex = 16
	bitsGen   = 12
	bitsKind  = 4

	shiftGen  = bitsIndex
	shiftKind = bitsIndex + bitsGen

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskKind  = (1 << bitsKind) - 1

	// MaxGeneration - поколение после него снова становится нулевым.
	MaxGeneration = maskGen
	// MaxIndex - последний допустимый индекс слота.
	MaxIndex = maskIndex
)

// PackAgentID собирает AgentID из составных частей.
// Лишние старшие биты gen отбрасываются.
func PackAgentID(kind enums.AgentKind, gen uint16, index uint16) AgentID {
	return AgentID(
		(uint32(kind)&maskKind)<<shiftKind |
			(uint32(gen)&maskGen)<<shiftGen |
			uint32(index),
	)
}

// Index возвращает индекс слота в арене.
func (id AgentID) Index() uint16 {
	return uint16(id & maskIndex)
}

// Generation возвращает поколение слота.
func (id AgentID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

// Kind возвращает вариант агента.
func (id AgentID) Kind() enums.AgentKind {
	return enums.AgentKind((id >> shiftKind) & maskKind)
}

func (id AgentID) IsNil() bool {
	return id == NilAgentID
}

// String для логов.
func (id AgentID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[%s gen=%d idx=%d]", id.Kind(), id.Generation(), id.Index())
}

// MarshalJSON пишет число: uint32 безопасно помещается в double.
func (id AgentID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(id), 10)), nil
}

// UnmarshalJSON принимает и число, и строку с числом.
func (id *AgentID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*id = NilAgentID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*id = AgentID(v)
	return nil
}
