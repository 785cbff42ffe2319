package utils

import (
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"
)

// NewSessionID выдает идентификатор игровой сессии для корреляции логов.
func NewSessionID() string {
	return uuid.NewString()
}

// SeedFromString превращает произвольную строку в сид (ZL_SEED=alpha).
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() &^ (1 << 63))
}

// NewRand создает изолированный генератор. Глобальный rand не используется,
// иначе реплей перестает быть детерминированным.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
