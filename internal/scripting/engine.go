// Package scripting hosts the Lua extension point for modded tile behaviors.
// Scripts run at load time to register behaviors; callbacks execute on the
// game-loop goroutine during the behavior phase.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jacogrande/wayfare/internal/core/ecs"
	"github.com/jacogrande/wayfare/internal/tile"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only.
type Engine struct {
	vm    *lua.LState
	kinds *tile.Registry
	log   *zap.Logger

	// Effects sink for the callback currently executing. Valid only for the
	// duration of one dispatch; the tick loop never re-enters.
	activeFx tile.Effects
}

// NewEngine creates a Lua engine, installs the tile API, and runs every
// script in dir. Scripts call register_tile_behavior(kind_name, callbacks)
// before the registry seals.
func NewEngine(dir string, kinds *tile.Registry, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, kinds: kinds, log: log}
	vm.SetGlobal("register_tile_behavior", vm.NewFunction(e.luaRegisterBehavior))
	vm.SetGlobal("damage", vm.NewFunction(e.luaDamage))
	vm.SetGlobal("heal", vm.NewFunction(e.luaHeal))

	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() { e.vm.Close() }

// loadDir loads all .lua files in a directory. A missing directory is not an
// error — mods are optional.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read scripts dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// luaRegisterBehavior implements register_tile_behavior(name, {on_enter=fn,
// on_leave=fn, on_stand=fn}).
func (e *Engine) luaRegisterBehavior(L *lua.LState) int {
	name := L.CheckString(1)
	callbacks := L.CheckTable(2)

	b := &luaBehavior{
		engine: e,
		enter:  callbacks.RawGetString("on_enter"),
		leave:  callbacks.RawGetString("on_leave"),
		stand:  callbacks.RawGetString("on_stand"),
	}
	if err := e.kinds.SetBehavior(name, b); err != nil {
		L.RaiseError("register_tile_behavior: %v", err)
		return 0
	}
	e.log.Info("lua tile behavior registered", zap.String("kind", name))
	return 0
}

func (e *Engine) luaDamage(L *lua.LState) int {
	if e.activeFx == nil {
		L.RaiseError("damage() called outside a tile callback")
		return 0
	}
	id := ecs.EntityID(L.CheckNumber(1))
	e.activeFx.Damage(id, L.CheckInt(2))
	return 0
}

func (e *Engine) luaHeal(L *lua.LState) int {
	if e.activeFx == nil {
		L.RaiseError("heal() called outside a tile callback")
		return 0
	}
	id := ecs.EntityID(L.CheckNumber(1))
	e.activeFx.Heal(id, L.CheckInt(2))
	return 0
}

// luaBehavior adapts a Lua callback table to tile.Behavior.
type luaBehavior struct {
	engine *Engine
	enter  lua.LValue
	leave  lua.LValue
	stand  lua.LValue
}

func (b *luaBehavior) OnEnter(ctx tile.Context, fx tile.Effects) {
	b.call(b.enter, ctx, fx, 0)
}

func (b *luaBehavior) OnLeave(ctx tile.Context, fx tile.Effects) {
	b.call(b.leave, ctx, fx, 0)
}

func (b *luaBehavior) OnStand(ctx tile.Context, fx tile.Effects, dt time.Duration) {
	b.call(b.stand, ctx, fx, dt.Seconds())
}

func (b *luaBehavior) call(fn lua.LValue, ctx tile.Context, fx tile.Effects, dt float64) {
	if fn == lua.LNil {
		return
	}
	e := b.engine
	e.activeFx = fx
	defer func() { e.activeFx = nil }()

	tbl := e.vm.NewTable()
	tbl.RawSetString("entity", lua.LNumber(ctx.Entity))
	tbl.RawSetString("x", lua.LNumber(ctx.Tile.X))
	tbl.RawSetString("y", lua.LNumber(ctx.Tile.Y))
	tbl.RawSetString("kind", lua.LNumber(ctx.Kind))
	tbl.RawSetString("dt", lua.LNumber(dt))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, tbl); err != nil {
		// A broken mod script must not take the frame down.
		e.log.Error("lua tile callback failed", zap.Error(err))
	}
}
