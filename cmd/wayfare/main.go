package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/config"
	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/core/event"
	coresys "github.com/jacogrande/wayfare/internal/core/system"
	"github.com/jacogrande/wayfare/internal/gen"
	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/render"
	"github.com/jacogrande/wayfare/internal/scripting"
	"github.com/jacogrande/wayfare/internal/system"
	"github.com/jacogrande/wayfare/internal/tile"
	"github.com/jacogrande/wayfare/internal/tiled"
	"github.com/jacogrande/wayfare/internal/vec"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/wayfare.toml"
	if p := os.Getenv("WAYFARE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Defaults()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	if cfg.World.MapPath == "" {
		log.Info("no map configured, generating terrain", zap.Int64("seed", cfg.World.Seed))
	}

	// 3. Tile kinds: built-ins, optional YAML table, behaviors, mods
	kinds := tile.Builtin()
	if cfg.World.KindTable != "" {
		if err := kinds.LoadYAML(cfg.World.KindTable); err != nil {
			return fmt.Errorf("kind table: %w", err)
		}
	}
	if err := kinds.SetBehavior("lava", tile.NewPeriodicDamage(500*time.Millisecond, 5)); err != nil {
		return err
	}
	if err := kinds.SetBehavior("spring", tile.NewPeriodicHeal(time.Second, 2)); err != nil {
		return err
	}
	engine, err := scripting.NewEngine(cfg.World.ScriptsDir, kinds, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	kinds.Seal()
	log.Info("tile kinds ready", zap.Int("count", kinds.Len()))

	// 4. World grid: authored map or generated terrain
	var world *grid.Grid
	if cfg.World.MapPath != "" {
		world, err = tiled.LoadFile(cfg.World.MapPath, kinds)
		if err != nil {
			return err
		}
		log.Info("map loaded", zap.String("path", cfg.World.MapPath),
			zap.Int("width", world.Width()), zap.Int("height", world.Height()))
	} else {
		world, err = gen.New(cfg.World.Seed).Generate(cfg.World.Width, cfg.World.Height, cfg.World.TileEdge, kinds)
		if err != nil {
			return err
		}
		log.Info("terrain generated",
			zap.Int("width", world.Width()), zap.Int("height", world.Height()))
	}

	// 5. ECS world, stores, player entity
	ecsWorld := ecs.NewWorld()
	transforms := ecs.NewStore[component.Transform]()
	motions := ecs.NewStore[component.Motion]()
	intents := ecs.NewStore[component.InputIntent]()
	jumps := ecs.NewStore[component.JumpState]()
	healths := ecs.NewStore[component.Health]()
	for _, s := range []ecs.Removable{transforms, motions, intents, jumps, healths} {
		ecsWorld.RegisterStore(s)
	}

	player := ecsWorld.CreateEntity()
	spawn := findSpawn(world)
	transforms.Set(player, &component.Transform{Pos: spawn, Tile: world.TileOf(spawn)})
	motions.Set(player, &component.Motion{Hitbox: vec.Vec2F{X: cfg.Movement.HitboxW, Y: cfg.Movement.HitboxH}})
	intents.Set(player, &component.InputIntent{})
	jumps.Set(player, &component.JumpState{})
	healths.Set(player, &component.Health{HP: 100, MaxHP: 100})

	// 6. Render index over headless collaborators
	atlas := newHeadlessAtlas(kinds)
	index := render.NewIndex(world, atlas, headlessFactory{}, cfg.Render.ChunkEdge, cfg.Render.CameraPadding, log)

	// 7. Systems
	bus := event.NewBus()
	camera := &followCamera{transforms: transforms, target: player, w: 640, h: 360}
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewInputSystem(idleInput{}, intents, player))
	runner.Register(system.NewJumpSystem(jumps, intents, transforms, world, bus, cfg.Jump))
	runner.Register(system.NewMotionSystem(transforms, motions, intents, jumps, world, world, bus, cfg.Movement))
	runner.Register(system.NewBehaviorSystem(transforms, healths, world, bus, log))
	runner.Register(system.NewCullingSystem(index, camera))
	runner.Register(system.NewCleanupSystem(ecsWorld))

	// 8. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	log.Info("simulation running", zap.Duration("tick", cfg.World.TickRate))

	statCounter := 0
	statInterval := int(5 * time.Second / cfg.World.TickRate)
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.World.TickRate)
			statCounter++
			if statCounter >= statInterval {
				statCounter = 0
				tr, _ := transforms.Get(player)
				js, _ := jumps.Get(player)
				log.Info("tick stats",
					zap.Float64("x", tr.Pos.X), zap.Float64("y", tr.Pos.Y),
					zap.String("phase", js.Phase.String()),
					zap.Int("visible_chunks", index.VisibleCount()))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// findSpawn picks the first unblocked tile, scanning from the map center
// outward row by row.
func findSpawn(g *grid.Grid) vec.Vec2F {
	cx, cy := g.Width()/2, g.Height()/2
	for radius := 0; radius < g.Width()+g.Height(); radius++ {
		for ty := cy - radius; ty <= cy+radius; ty++ {
			for tx := cx - radius; tx <= cx+radius; tx++ {
				if !g.IsBlocked(tx, ty) {
					x, y := g.TileToWorldCenter(tx, ty)
					return vec.Vec2F{X: x, Y: y}
				}
			}
		}
	}
	x, y := g.TileToWorldCenter(cx, cy)
	return vec.Vec2F{X: x, Y: y}
}

// ── headless collaborators ────────────────────────────────────────
// The windowing layer normally supplies these; the standalone binary runs
// the simulation without a renderer attached.

type idleInput struct{}

func (idleInput) Poll() component.InputIntent { return component.InputIntent{} }

type followCamera struct {
	transforms *ecs.Store[component.Transform]
	target     ecs.EntityID
	w, h       float64
}

func (c *followCamera) ViewRect() vec.Rect {
	tr, ok := c.transforms.Get(c.target)
	if !ok {
		return vec.Rect{W: c.w, H: c.h}
	}
	return vec.Rect{X: tr.Pos.X - c.w/2, Y: tr.Pos.Y - c.h/2, W: c.w, H: c.h}
}

// headlessAtlas hands every registered kind a dense range of texture ids.
type headlessAtlas struct {
	base map[tile.Kind]render.TextureID
	n    map[tile.Kind]int
}

func newHeadlessAtlas(kinds *tile.Registry) *headlessAtlas {
	a := &headlessAtlas{
		base: make(map[tile.Kind]render.TextureID),
		n:    make(map[tile.Kind]int),
	}
	next := render.TextureID(1)
	kinds.Each(func(cfg *tile.KindConfig) {
		a.base[cfg.ID] = next
		a.n[cfg.ID] = cfg.Variants
		next += render.TextureID(cfg.Variants)
	})
	return a
}

func (a *headlessAtlas) Texture(kind tile.Kind, variant int) (render.TextureID, bool) {
	base, ok := a.base[kind]
	if !ok || variant < 0 || variant >= a.n[kind] {
		return 0, false
	}
	return base + render.TextureID(variant), true
}

type headlessFactory struct{}

func (headlessFactory) NewBatch() render.Batch { return &headlessBatch{} }

// headlessBatch records primitive counts so culling still has observable
// effect without a GPU.
type headlessBatch struct {
	prims   int
	visible bool
}

func (b *headlessBatch) Clear()                                 { b.prims = 0 }
func (b *headlessBatch) Add(tex render.TextureID, dst vec.Rect) { b.prims++ }
func (b *headlessBatch) Show()                                  { b.visible = true }
func (b *headlessBatch) Hide()                                  { b.visible = false }

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
