package engine

import (
	"fmt"

	"zombieland-server/internal/domain"
	"zombieland-server/pkg/worldmap"
)

// BuildWorld загружает граф мира: из файла, если он задан, иначе встроенный.
func BuildWorld(cfg Config) (*domain.World, error) {
	if cfg.WorldFile == "" {
		return worldmap.Default()
	}
	w, err := worldmap.LoadFile(cfg.WorldFile)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", cfg.WorldFile, err)
	}
	return w, nil
}
