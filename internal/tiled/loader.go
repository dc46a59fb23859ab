// Package tiled converts Tiled-style JSON maps into the engine's tile grid.
// Authoring mistakes are surfaced as named load-time failures; the converter
// refuses to build a grid rather than coercing bad data.
package tiled

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jacogrande/wayfare/internal/grid"
	"github.com/jacogrande/wayfare/internal/tile"
)

// Named load-time failure classes.
var (
	ErrNonSquareTile   = errors.New("tiled: tile cells must be square")
	ErrExternalTileset = errors.New("tiled: external tilesets are not supported")
	ErrFlipFlags       = errors.New("tiled: flipped/rotated tiles are not supported")
	ErrLayerSize       = errors.New("tiled: layer size does not match map")
	ErrMissingKind     = errors.New("tiled: tile has no kind property")
	ErrUnknownKind     = errors.New("tiled: tile kind is not registered")
)

// GID flip/rotation flag bits (horizontal, vertical, diagonal, hex-120).
const flipMask uint32 = 0x8000_0000 | 0x4000_0000 | 0x2000_0000 | 0x1000_0000

// Property names the converter understands on tileset tiles and layers.
const (
	propKind     = "kind"
	propCollides = "collides"
	propVariant  = "variant"
	propHeight   = "height"
	propZ        = "z"
)

type tiledMap struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	TileWidth  int            `json:"tilewidth"`
	TileHeight int            `json:"tileheight"`
	Layers     []tiledLayer   `json:"layers"`
	Tilesets   []tiledTileset `json:"tilesets"`
}

type tiledLayer struct {
	Name       string          `json:"name"`
	Class      string          `json:"class,omitempty"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Data       []uint32        `json:"data,omitempty"` // uint32 so flip bits survive decoding
	Properties []tiledProperty `json:"properties,omitempty"`
}

type tiledTileset struct {
	FirstGID int         `json:"firstgid"`
	Source   string      `json:"source,omitempty"`
	Name     string      `json:"name,omitempty"`
	Tiles    []tiledTile `json:"tiles,omitempty"`
}

type tiledTile struct {
	ID         int             `json:"id"`
	Properties []tiledProperty `json:"properties,omitempty"`
}

type tiledProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// tileDef is the resolved engine mapping for one global tile id.
type tileDef struct {
	kind           tile.Kind
	collides       bool
	variant        int     // -1 = unset
	heightOverride float64 // -1 = unset
}

// LoadFile reads and converts a map file.
func LoadFile(path string, kinds *tile.Registry) (*grid.Grid, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	g, err := Convert(raw, kinds)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return g, nil
}

// Convert builds a grid from a Tiled JSON document.
func Convert(data []byte, kinds *tile.Registry) (*grid.Grid, error) {
	var m tiledMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse map json: %w", err)
	}
	if m.TileWidth != m.TileHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquareTile, m.TileWidth, m.TileHeight)
	}

	defs, err := buildTileDefs(m.Tilesets, kinds)
	if err != nil {
		return nil, err
	}

	g, err := grid.New(m.Width, m.Height, m.TileWidth, kinds)
	if err != nil {
		return nil, err
	}

	// Collision bits from dedicated collision layers and per-tile collide
	// flags are OR'd in after SyncCollisionFromTiles, which clears the
	// bitmap.
	collisionCells := make([]bool, m.Width*m.Height)

	for i, layer := range m.Layers {
		switch classify(layer) {
		case layerIgnore:
			continue
		case layerCollision:
			if err := readCollisionLayer(layer, m.Width, m.Height, collisionCells); err != nil {
				return nil, err
			}
		case layerTile:
			l, err := readTileLayer(layer, m.Width, m.Height, i, defs, collisionCells)
			if err != nil {
				return nil, err
			}
			if err := g.AddLayer(l); err != nil {
				return nil, err
			}
		}
	}

	g.SyncCollisionFromTiles()
	for ty := 0; ty < m.Height; ty++ {
		for tx := 0; tx < m.Width; tx++ {
			if collisionCells[ty*m.Width+tx] {
				g.SetCollision(tx, ty, true)
			}
		}
	}
	return g, nil
}

func buildTileDefs(tilesets []tiledTileset, kinds *tile.Registry) (map[uint32]tileDef, error) {
	defs := make(map[uint32]tileDef)
	for _, ts := range tilesets {
		if ts.Source != "" {
			return nil, fmt.Errorf("%w: %s", ErrExternalTileset, ts.Source)
		}
		for _, t := range ts.Tiles {
			gid := uint32(ts.FirstGID + t.ID)
			kindName, ok := propString(t.Properties, propKind)
			if !ok {
				// Tiles without a kind mapping stay absent from defs; a
				// layer referencing them fails at that point with context.
				continue
			}
			cfg, ok := kinds.ByName(kindName)
			if !ok {
				return nil, fmt.Errorf("%w: %q (tileset %s, local id %d)",
					ErrUnknownKind, kindName, ts.Name, t.ID)
			}
			def := tileDef{kind: cfg.ID, variant: -1, heightOverride: -1}
			def.collides, _ = propBool(t.Properties, propCollides)
			if v, ok := propInt(t.Properties, propVariant); ok {
				def.variant = v
			}
			if h, ok := propFloat(t.Properties, propHeight); ok {
				def.heightOverride = h
			}
			defs[gid] = def
		}
	}
	return defs, nil
}

type layerClass int

const (
	layerTile layerClass = iota
	layerCollision
	layerIgnore
)

func classify(l tiledLayer) layerClass {
	tag := l.Class
	if tag == "" {
		tag = l.Name
	}
	switch {
	case strings.EqualFold(tag, "collision") || strings.HasPrefix(strings.ToLower(tag), "collision"):
		return layerCollision
	case strings.EqualFold(tag, "ignore"):
		return layerIgnore
	default:
		return layerTile
	}
}

func checkLayerShape(l tiledLayer, w, h int) error {
	if l.Width != w || l.Height != h {
		return fmt.Errorf("%w: layer %q is %dx%d, map is %dx%d",
			ErrLayerSize, l.Name, l.Width, l.Height, w, h)
	}
	if len(l.Data) != w*h {
		return fmt.Errorf("%w: layer %q has %d cells for %dx%d",
			ErrLayerSize, l.Name, len(l.Data), w, h)
	}
	return nil
}

func readTileLayer(l tiledLayer, w, h, order int, defs map[uint32]tileDef, collision []bool) (*grid.Layer, error) {
	if err := checkLayerShape(l, w, h); err != nil {
		return nil, err
	}
	z := order
	if v, ok := propInt(l.Properties, propZ); ok {
		z = v
	}

	tiles := make([]grid.Tile, w*h)
	for i, gid := range l.Data {
		if gid == 0 {
			tiles[i] = grid.NewTile(tile.KindEmpty)
			continue
		}
		if gid&flipMask != 0 {
			return nil, fmt.Errorf("%w: layer %q cell %d (gid %#x)", ErrFlipFlags, l.Name, i, gid)
		}
		def, ok := defs[gid]
		if !ok {
			return nil, fmt.Errorf("%w: layer %q cell %d references gid %d", ErrMissingKind, l.Name, i, gid)
		}
		t := grid.NewTile(def.kind)
		t.Variant = def.variant
		t.HeightOverride = def.heightOverride
		tiles[i] = t
		if def.collides {
			collision[i] = true
		}
	}
	return grid.NewLayerFromTiles(l.Name, z, w, h, tiles)
}

// readCollisionLayer marks every cell holding any non-zero gid as blocked.
func readCollisionLayer(l tiledLayer, w, h int, out []bool) error {
	if err := checkLayerShape(l, w, h); err != nil {
		return err
	}
	for i, gid := range l.Data {
		if gid == 0 {
			continue
		}
		if gid&flipMask != 0 {
			return fmt.Errorf("%w: layer %q cell %d (gid %#x)", ErrFlipFlags, l.Name, i, gid)
		}
		out[i] = true
	}
	return nil
}

// ── property helpers ──────────────────────────────────────────────

func findProp(props []tiledProperty, name string) (any, bool) {
	for _, p := range props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

func propString(props []tiledProperty, name string) (string, bool) {
	v, ok := findProp(props, name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func propBool(props []tiledProperty, name string) (bool, bool) {
	v, ok := findProp(props, name)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func propInt(props []tiledProperty, name string) (int, bool) {
	v, ok := findProp(props, name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64) // json numbers decode as float64
	return int(f), ok
}

func propFloat(props []tiledProperty, name string) (float64, bool) {
	v, ok := findProp(props, name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
