package tile

// Kind identifies a tile category. Kind 0 is always the empty tile.
type Kind uint16

// Built-in kinds. Gaps are left between groups so content packs can slot
// new kinds near their category without renumbering.
const (
	KindEmpty Kind = iota // 0
	KindGrass             // 1
	KindWater             // 2
	KindSand              // 3
	KindPath              // 4
	KindStone             // 5

	// Obstacles (starting at 50)
	KindWall  Kind = 50
	KindFence Kind = 51

	// Hazard / interactive tiles (starting at 100)
	KindLava   Kind = 100
	KindSpring Kind = 101
)

// KindConfig holds the static, process-wide properties of one tile kind.
// Entries are registered at startup and read-only afterwards.
type KindConfig struct {
	ID             Kind    `yaml:"id"`
	Name           string  `yaml:"name"`
	BlocksMovement bool    `yaml:"blocks_movement"`
	Height         float64 `yaml:"height"` // obstacle height in pixels, for jump clearance
	Interactive    bool    `yaml:"interactive"`
	Variants       int     `yaml:"variants"`
	Strategy       string  `yaml:"strategy"`    // static | checkerboard | random | noise
	NoiseScale     float64 `yaml:"noise_scale"` // lattice scale for the noise strategy

	// Behavior is attached in code (or by the scripting engine), never from YAML.
	Behavior Behavior `yaml:"-"`
}
