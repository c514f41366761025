package world

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/brickfall/internal/core"
)

// ShareCodePrefix marks version 1 level share codes.
const ShareCodePrefix = "BF1:"

// MaxGridSize bounds the columns and rows of an imported level.
const MaxGridSize = 99

// ErrBadShareCode is returned for share codes that cannot be decoded into
// a valid matrix.
var ErrBadShareCode = errors.New("world: bad share code")

// BrickRecord is the serialized form of a brick.
type BrickRecord struct {
	Type      string  `msgpack:"t" yaml:"type"`
	X         int     `msgpack:"x" yaml:"x"`
	Y         int     `msgpack:"y" yaml:"y"`
	W         int     `msgpack:"w,omitempty" yaml:"w,omitempty"`
	H         int     `msgpack:"h,omitempty" yaml:"h,omitempty"`
	Health    float64 `msgpack:"hp" yaml:"health"`
	MaxHealth float64 `msgpack:"mhp" yaml:"max_health"`
	Overlay   string  `msgpack:"o,omitempty" yaml:"overlay,omitempty"`
	Level     int     `msgpack:"l,omitempty" yaml:"level,omitempty"`
	Coins     int     `msgpack:"c,omitempty" yaml:"coins,omitempty"`
	Food      int     `msgpack:"f,omitempty" yaml:"food,omitempty"`
	Gems      int     `msgpack:"g,omitempty" yaml:"gems,omitempty"`
}

// LevelRecord is the serialized form of a matrix.
type LevelRecord struct {
	Cols   int           `msgpack:"cols" yaml:"cols"`
	Rows   int           `msgpack:"rows" yaml:"rows"`
	Bricks []BrickRecord `msgpack:"b" yaml:"bricks"`
}

// Record converts the matrix to its serialized form.
func (m *Matrix) Record() LevelRecord {
	rec := LevelRecord{Cols: m.cols, Rows: m.rows}
	for _, b := range m.Bricks() {
		rec.Bricks = append(rec.Bricks, BrickRecord{
			Type:      b.Type.String(),
			X:         b.X,
			Y:         b.Y,
			W:         b.W,
			H:         b.H,
			Health:    b.Health,
			MaxHealth: b.MaxHealth,
			Overlay:   b.Overlay.String(),
			Level:     b.Level,
			Coins:     b.Coins,
			Food:      b.Food,
			Gems:      b.Gems,
		})
	}
	return rec
}

// FromRecord builds a matrix from its serialized form. Any unknown type,
// overlap or out-of-bounds brick fails the whole import.
func FromRecord(rec LevelRecord) (*Matrix, error) {
	if rec.Cols < 1 || rec.Rows < 1 || rec.Cols%2 == 0 || rec.Rows%2 == 0 ||
		rec.Cols > MaxGridSize || rec.Rows > MaxGridSize {
		return nil, fmt.Errorf("grid %dx%d", rec.Cols, rec.Rows)
	}
	m := NewMatrix(rec.Cols, rec.Rows)
	for i, r := range rec.Bricks {
		t, ok := ParseBrickType(r.Type)
		if !ok {
			return nil, fmt.Errorf("brick %d: unknown type %q", i, r.Type)
		}
		o, ok := ParseOverlay(r.Overlay)
		if !ok {
			return nil, fmt.Errorf("brick %d: unknown overlay %q", i, r.Overlay)
		}
		if !core.IsFinite(r.Health) || !core.IsFinite(r.MaxHealth) ||
			r.MaxHealth <= 0 || r.Health <= 0 || r.Health > r.MaxHealth {
			return nil, fmt.Errorf("brick %d: health %v/%v", i, r.Health, r.MaxHealth)
		}
		if r.W > rec.Cols || r.H > rec.Rows || r.W < 0 || r.H < 0 {
			return nil, fmt.Errorf("brick %d: size %dx%d", i, r.W, r.H)
		}
		if r.Coins < 0 || r.Food < 0 || r.Gems < 0 {
			return nil, fmt.Errorf("brick %d: negative payload", i)
		}
		b := &Brick{
			Type: t, Overlay: o,
			X: r.X, Y: r.Y, W: max(r.W, 1), H: max(r.H, 1),
			Health: r.Health, MaxHealth: r.MaxHealth,
			Level: r.Level,
			Coins: r.Coins, MaxCoins: r.Coins,
			Food: r.Food, MaxFood: r.Food,
			Gems: r.Gems, MaxGems: r.Gems,
		}
		if !m.Place(b) {
			return nil, fmt.Errorf("brick %d at (%d,%d) overlaps or is out of bounds", i, r.X, r.Y)
		}
	}
	return m, nil
}

// ExportCode encodes the matrix as a share code: the prefix followed by
// base64url of the msgpack level record.
func ExportCode(m *Matrix) (string, error) {
	data, err := msgpack.Marshal(m.Record())
	if err != nil {
		return "", fmt.Errorf("world: cannot encode level: %w", err)
	}
	return ShareCodePrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

// ImportCode decodes a share code. On failure no matrix is returned and the
// error wraps ErrBadShareCode.
func ImportCode(code string) (*Matrix, error) {
	code = strings.TrimSpace(code)
	payload, ok := strings.CutPrefix(code, ShareCodePrefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s prefix", ErrBadShareCode, ShareCodePrefix)
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShareCode, err)
	}
	var rec LevelRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShareCode, err)
	}
	m, err := FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShareCode, err)
	}
	return m, nil
}

// ExportYAML encodes the matrix as an editable YAML document.
func ExportYAML(m *Matrix) ([]byte, error) {
	data, err := yaml.Marshal(m.Record())
	if err != nil {
		return nil, fmt.Errorf("world: cannot encode level yaml: %w", err)
	}
	return data, nil
}

// ImportYAML decodes a YAML level document.
func ImportYAML(data []byte) (*Matrix, error) {
	var rec LevelRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("world: cannot parse level yaml: %w", err)
	}
	m, err := FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("world: invalid level: %w", err)
	}
	return m, nil
}
