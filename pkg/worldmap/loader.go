package worldmap

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"zombieland-server/internal/domain"
	"zombieland-server/pkg/logger"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed world.yaml world.schema.json
var files embed.FS

const schemaURL = "world.schema.json"

// Definition - мир в том виде, как он записан в YAML. Все координаты в клетках.
type Definition struct {
	Start StartDef  `yaml:"start"`
	Areas []AreaDef `yaml:"areas"`
}

type StartDef struct {
	Area string `yaml:"area"`
	At   []int  `yaml:"at"`
}

type AreaDef struct {
	ID            int               `yaml:"id"`
	Key           string            `yaml:"key"`
	Name          string            `yaml:"name"`
	Walkable      []int             `yaml:"walkable"`
	Peaceful      bool              `yaml:"peaceful"`
	Private       bool              `yaml:"private"`
	Obstacles     [][]int           `yaml:"obstacles"`
	HalfObstacles [][]int           `yaml:"half_obstacles"`
	ZombieSpawns  [][]int           `yaml:"zombie_spawns"`
	ObjectSpawns  [][]int           `yaml:"object_spawns"`
	Bags          []BagDef          `yaml:"bags"`
	Interactables []InteractableDef `yaml:"interactables"`
	NPCs          []NPCDef          `yaml:"npcs"`
	Warps         []WarpDef         `yaml:"warps"`
}

type BagDef struct {
	ID      int      `yaml:"id"`
	At      []int    `yaml:"at"`
	Trigger []int    `yaml:"trigger"`
	Items   []string `yaml:"items"`
}

type InteractableDef struct {
	Box  []int  `yaml:"box"`
	Text string `yaml:"text"`
}

type NPCDef struct {
	ID     int    `yaml:"id"`
	At     []int  `yaml:"at"`
	Facing string `yaml:"facing"`
	Text   string `yaml:"text"`
}

type WarpDef struct {
	Trigger []int  `yaml:"trigger"`
	To      string `yaml:"to"`
	Spawn   []int  `yaml:"spawn"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := files.ReadFile(schemaURL)
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Default собирает встроенный мир.
func Default() (*domain.World, error) {
	raw, err := files.ReadFile("world.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// LoadFile собирает мир из YAML-файла.
func LoadFile(path string) (*domain.World, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Parse проверяет документ по схеме и строит мир.
func Parse(raw []byte) (*domain.World, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("world.yaml: %w", err)
	}

	w, err := def.Builder().Build()
	if err != nil {
		return nil, err
	}

	logger.For("worldmap").WithFields(logrus.Fields{
		"areas": len(w.Areas),
		"start": w.StartArea.Name,
	}).Info("World loaded")

	return w, nil
}

// Validate сверяет YAML-документ со схемой. Схема написана для JSON,
// поэтому документ сначала переводится в JSON-значения.
func Validate(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("world schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("world.yaml: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("world.yaml: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("world.yaml: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("world.yaml: %w", err)
	}
	return nil
}

// Builder переводит описание в вызовы fluent API.
// Длины массивов уже проверены схемой.
func (d Definition) Builder() *WorldBuilder {
	wb := NewWorld()

	for _, ad := range d.Areas {
		ab := NewArea(ad.ID, ad.Key).
			WithName(ad.Name).
			Walkable(ad.Walkable[0], ad.Walkable[1], ad.Walkable[2], ad.Walkable[3])
		if ad.Name == "" {
			ab.WithName(ad.Key)
		}
		if ad.Peaceful {
			ab.Peaceful()
		}
		if ad.Private {
			ab.Private()
		}

		for _, r := range ad.Obstacles {
			ab.Obstacle(r[0], r[1], r[2], r[3])
		}
		for _, r := range ad.HalfObstacles {
			ab.HalfObstacle(r[0], r[1], r[2], r[3])
		}
		for _, p := range ad.ZombieSpawns {
			ab.ZombieSpawn(p[0], p[1])
		}
		for _, p := range ad.ObjectSpawns {
			ab.ObjectSpawn(p[0], p[1])
		}
		for _, bd := range ad.Bags {
			ab.Bag(bd.ID, bd.At[0], bd.At[1], rect(bd.Trigger), bd.Items...)
		}
		for _, it := range ad.Interactables {
			ab.Interactable(rect(it.Box), it.Text)
		}
		for _, n := range ad.NPCs {
			facing := domain.FacingDown
			if n.Facing != "" {
				f, ok := domain.ParseFacing(n.Facing)
				if !ok {
					ab.fail("%w: npc %d facing %q", ErrBadGeometry, n.ID, n.Facing)
					continue
				}
				facing = f
			}
			ab.NPC(n.ID, n.At[0], n.At[1], facing, n.Text)
		}
		for _, wd := range ad.Warps {
			wb.Warp(ad.Key, rect(wd.Trigger), wd.To, wd.Spawn[0], wd.Spawn[1])
		}

		wb.Add(ab)
	}

	if len(d.Start.At) == 2 {
		wb.Start(d.Start.Area, d.Start.At[0], d.Start.At[1])
	} else {
		wb.Start(d.Start.Area, 0, 0)
	}
	return wb
}

func rect(v []int) domain.Rect {
	return domain.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
}
