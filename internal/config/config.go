package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World    WorldConfig    `toml:"world"`
	Movement MovementConfig `toml:"movement"`
	Jump     JumpConfig     `toml:"jump"`
	Render   RenderConfig   `toml:"render"`
	Logging  LoggingConfig  `toml:"logging"`
}

type WorldConfig struct {
	MapPath    string        `toml:"map_path"`    // Tiled JSON map; empty = procedural generation
	KindTable  string        `toml:"kind_table"`  // optional extra tile kinds (YAML)
	ScriptsDir string        `toml:"scripts_dir"` // Lua tile behavior scripts
	Width      int           `toml:"width"`       // generated map size (tiles)
	Height     int           `toml:"height"`
	TileEdge   int           `toml:"tile_edge"` // pixels
	Seed       int64         `toml:"seed"`
	TickRate   time.Duration `toml:"tick_rate"`
}

type MovementConfig struct {
	Accel       float64 `toml:"accel"`        // px/s²
	Drag        float64 `toml:"drag"`         // exponential drag coefficient, 1/s
	MaxSpeed    float64 `toml:"max_speed"`    // px/s
	SprintBoost float64 `toml:"sprint_boost"` // multiplier on max speed while sprinting
	AirControl  float64 `toml:"air_control"`  // accel/drag multiplier while airborne, < 1
	HitboxW     float64 `toml:"hitbox_w"`     // px
	HitboxH     float64 `toml:"hitbox_h"`     // px
}

type JumpConfig struct {
	Strength        float64       `toml:"strength"`   // initial upward speed, px/s
	Gravity         float64       `toml:"gravity"`    // px/s²
	MaxHeight       float64       `toml:"max_height"` // px off the ground
	HangFactor      float64       `toml:"hang_factor"`
	CoyoteTime      time.Duration `toml:"coyote_time"`
	BufferTime      time.Duration `toml:"buffer_time"`
	LandingDuration time.Duration `toml:"landing_duration"`
	AssistStep      float64       `toml:"assist_step"`   // spiral step, px
	AssistRadius    float64       `toml:"assist_radius"` // max correction distance, px
	AssistSnap      float64       `toml:"assist_snap"`   // immediate-accept distance, px
}

type RenderConfig struct {
	ChunkEdge     int     `toml:"chunk_edge"`     // tiles per chunk side
	CameraPadding float64 `toml:"camera_padding"` // px added around the view rect
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		World: WorldConfig{
			ScriptsDir: "scripts",
			Width:      128,
			Height:     128,
			TileEdge:   32,
			Seed:       1,
			TickRate:   16 * time.Millisecond,
		},
		Movement: MovementConfig{
			Accel:       900,
			Drag:        8,
			MaxSpeed:    140,
			SprintBoost: 1.6,
			AirControl:  0.6,
			HitboxW:     20,
			HitboxH:     24,
		},
		Jump: JumpConfig{
			Strength:        280,
			Gravity:         1200,
			MaxHeight:       24,
			HangFactor:      0.55,
			CoyoteTime:      150 * time.Millisecond,
			BufferTime:      100 * time.Millisecond,
			LandingDuration: 80 * time.Millisecond,
			AssistStep:      2,
			AssistRadius:    16,
			AssistSnap:      6,
		},
		Render: RenderConfig{
			ChunkEdge:     16,
			CameraPadding: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	if c.World.TileEdge <= 0 {
		return fmt.Errorf("world.tile_edge must be positive")
	}
	if c.World.TickRate <= 0 {
		return fmt.Errorf("world.tick_rate must be positive")
	}
	if c.Movement.AirControl <= 0 || c.Movement.AirControl > 1 {
		return fmt.Errorf("movement.air_control must be in (0, 1]")
	}
	if c.Jump.MaxHeight <= 0 || c.Jump.Gravity <= 0 || c.Jump.Strength <= 0 {
		return fmt.Errorf("jump parameters must be positive")
	}
	if c.Jump.AssistSnap > c.Jump.AssistRadius {
		return fmt.Errorf("jump.assist_snap exceeds jump.assist_radius")
	}
	return nil
}
