package engine

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"zombieland-server/internal/domain"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/utils"

	"gopkg.in/yaml.v3"
)

const DefaultPort = 19894

var ErrInvalidConfig = errors.New("invalid config")

// Config хранит параметры запуска сервера
type Config struct {
	// Seed - мастер-зерно симуляции. От него зависят ИИ и спавнер,
	// реплей с тем же сидом и тем же входом дает тот же мир.
	Seed int64 `yaml:"seed"`

	Port int `yaml:"port"`
	// ClientBasePort - клиент слушает ClientBasePort + port_offset из LOGIN.
	ClientBasePort int `yaml:"client_base_port"`

	TickRateHz         int `yaml:"tick_rate_hz"`
	MaxPlayers         int `yaml:"max_players"`
	ClientTimeoutTicks int `yaml:"client_timeout_ticks"`

	// DebugAddr - адрес HTTP-сервера наблюдения, пусто - выключен.
	DebugAddr          string `yaml:"debug_addr"`
	ObserverEveryTicks int    `yaml:"observer_every_ticks"`

	// ReplayDir - куда писать журнал входа, пусто - не писать.
	ReplayDir string `yaml:"replay_dir"`

	// StrictProtocol - любой битый пакет останавливает сервер.
	StrictProtocol bool `yaml:"strict_protocol"`

	// WorldFile - YAML с миром, пусто - встроенный мир.
	WorldFile string `yaml:"world_file"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:               time.Now().UnixNano(),
		Port:               DefaultPort,
		ClientBasePort:     DefaultPort,
		TickRateHz:         domain.TickRate,
		MaxPlayers:         domain.MaxPlayers,
		ClientTimeoutTicks: domain.ClientTimeoutTicks,
		ObserverEveryTicks: 15,
	}
}

// LoadConfig читает YAML поверх значений по умолчанию. Пустой путь - только умолчания.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// client_base_port по умолчанию следует за port
	basePortSet := false
	var probe struct {
		ClientBasePort *int `yaml:"client_base_port"`
	}
	if err := yaml.Unmarshal(raw, &probe); err == nil && probe.ClientBasePort != nil {
		basePortSet = true
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if !basePortSet {
		cfg.ClientBasePort = cfg.Port
	}
	return cfg, nil
}

// ApplyEnv накладывает переменные окружения ZL_*.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ZL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ZL_PORT=%q", ErrInvalidConfig, v)
		}
		if c.ClientBasePort == c.Port {
			c.ClientBasePort = port
		}
		c.Port = port
	}
	if v := os.Getenv("ZL_SEED"); v != "" {
		// Нечисловой сид хешируется, чтобы можно было писать ZL_SEED=alpha.
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			seed = utils.SeedFromString(v)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv("ZL_DEBUG_ADDR"); ok {
		c.DebugAddr = v
	}
	if v, ok := os.LookupEnv("ZL_REPLAY_DIR"); ok {
		c.ReplayDir = v
	}
	return nil
}

// Validate проверяет диапазоны.
func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	case c.ClientBasePort <= 0 || c.ClientBasePort+api.MaxPortOffset > 65535:
		return fmt.Errorf("%w: client_base_port %d", ErrInvalidConfig, c.ClientBasePort)
	case c.TickRateHz <= 0 || c.TickRateHz > 1000:
		return fmt.Errorf("%w: tick_rate_hz %d", ErrInvalidConfig, c.TickRateHz)
	case c.MaxPlayers <= 0 || c.MaxPlayers > domain.MaxPlayers:
		return fmt.Errorf("%w: max_players %d (limit %d)", ErrInvalidConfig, c.MaxPlayers, domain.MaxPlayers)
	case c.ClientTimeoutTicks <= 0:
		return fmt.Errorf("%w: client_timeout_ticks %d", ErrInvalidConfig, c.ClientTimeoutTicks)
	case c.ObserverEveryTicks <= 0:
		return fmt.Errorf("%w: observer_every_ticks %d", ErrInvalidConfig, c.ObserverEveryTicks)
	}
	return nil
}

// TickDuration - бюджет одного тика.
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRateHz)
}
