package tile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry is the closed lookup table of tile-kind configurations. Kinds are
// registered during startup (built-ins, YAML tables, mod hooks) and the table
// is sealed before the first tick; registration after sealing is a caller bug.
type Registry struct {
	byID   map[Kind]*KindConfig
	byName map[string]*KindConfig
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[Kind]*KindConfig, 32),
		byName: make(map[string]*KindConfig, 32),
	}
}

// Builtin returns a registry pre-loaded with the engine's stock kinds.
func Builtin() *Registry {
	r := NewRegistry()
	for _, cfg := range []*KindConfig{
		{ID: KindEmpty, Name: "empty"},
		{ID: KindGrass, Name: "grass", Variants: 4, Strategy: StrategyNoise, NoiseScale: 8},
		{ID: KindWater, Name: "water", Variants: 2, Strategy: StrategyCheckerboard},
		{ID: KindSand, Name: "sand", Variants: 3, Strategy: StrategyRandom},
		{ID: KindPath, Name: "path"},
		{ID: KindStone, Name: "stone", BlocksMovement: true, Height: 24},
		{ID: KindWall, Name: "wall", BlocksMovement: true, Height: 32},
		{ID: KindFence, Name: "fence", BlocksMovement: true, Height: 8},
		{ID: KindLava, Name: "lava", Interactive: true, Variants: 2, Strategy: StrategyRandom},
		{ID: KindSpring, Name: "spring", Interactive: true},
	} {
		// Built-ins are static data; a failure here is unreachable.
		if err := r.Register(cfg); err != nil {
			panic(fmt.Sprintf("builtin kind %q: %v", cfg.Name, err))
		}
	}
	return r
}

// Register adds one kind. Duplicate IDs or names, unknown variant strategies,
// and registration after Seal all fail.
func (r *Registry) Register(cfg *KindConfig) error {
	if r.sealed {
		return fmt.Errorf("register kind %q: registry is sealed", cfg.Name)
	}
	if cfg.Name == "" {
		return fmt.Errorf("register kind %d: empty name", cfg.ID)
	}
	if _, dup := r.byID[cfg.ID]; dup {
		return fmt.Errorf("register kind %q: id %d already registered", cfg.Name, cfg.ID)
	}
	if _, dup := r.byName[cfg.Name]; dup {
		return fmt.Errorf("register kind %q: name already registered", cfg.Name)
	}
	if cfg.Variants < 1 {
		cfg.Variants = 1
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyStatic
	}
	if !validStrategy(cfg.Strategy) {
		return fmt.Errorf("register kind %q: unknown variant strategy %q", cfg.Name, cfg.Strategy)
	}
	if cfg.Strategy == StrategyNoise && cfg.NoiseScale <= 0 {
		cfg.NoiseScale = 8
	}
	r.byID[cfg.ID] = cfg
	r.byName[cfg.Name] = cfg
	return nil
}

// SetBehavior attaches a behavior to an already-registered kind. Used by mod
// initialization (Go or Lua) before Seal.
func (r *Registry) SetBehavior(name string, b Behavior) error {
	if r.sealed {
		return fmt.Errorf("set behavior on %q: registry is sealed", name)
	}
	cfg, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("set behavior: unknown kind %q", name)
	}
	cfg.Behavior = b
	return nil
}

// Seal freezes the registry. Idempotent.
func (r *Registry) Seal() { r.sealed = true }

func (r *Registry) Get(id Kind) (*KindConfig, bool) {
	cfg, ok := r.byID[id]
	return cfg, ok
}

func (r *Registry) ByName(name string) (*KindConfig, bool) {
	cfg, ok := r.byName[name]
	return cfg, ok
}

func (r *Registry) Len() int { return len(r.byID) }

// Each calls fn for every registered kind. Iteration order is unspecified.
func (r *Registry) Each(fn func(*KindConfig)) {
	for _, cfg := range r.byID {
		fn(cfg)
	}
}

type kindsFile struct {
	Kinds []*KindConfig `yaml:"kinds"`
}

// LoadYAML registers additional kinds from a YAML table, mirroring the shape:
//
//	kinds:
//	  - id: 200
//	    name: mud
//	    variants: 3
//	    strategy: random
func (r *Registry) LoadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read kind table %s: %w", path, err)
	}
	var file kindsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse kind table %s: %w", path, err)
	}
	for _, cfg := range file.Kinds {
		if err := r.Register(cfg); err != nil {
			return fmt.Errorf("kind table %s: %w", path, err)
		}
	}
	return nil
}
