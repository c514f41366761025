package world

import (
	"encoding/base64"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
)

func testBoard() Board {
	return NewBoard(config.DefaultConfig().Board)
}

func TestBoardGridPixelRoundTrip(t *testing.T) {
	b := testBoard()
	for gy := -b.HalfRows(); gy <= b.HalfRows(); gy++ {
		for gx := -b.HalfCols(); gx <= b.HalfCols(); gx++ {
			x, y := b.PixelToGrid(b.GridToPixel(gx, gy))
			assert.Equal(t, gx, x)
			assert.Equal(t, gy, y)
			assert.True(t, b.CellRect(gx, gy, 1, 1).Contains(b.GridToPixel(gx, gy)))
		}
	}
}

func TestBoardBoundaryFloorsToNextCell(t *testing.T) {
	b := testBoard()
	o := b.CellOrigin(2, 3)
	gx, gy := b.PixelToGrid(o)
	assert.Equal(t, 2, gx)
	assert.Equal(t, 3, gy)

	gx, _ = b.PixelToGrid(core.V(o.X-0.001, o.Y))
	assert.Equal(t, 1, gx)
}

func TestBoardWallsInsetHalfBorder(t *testing.T) {
	b := testBoard()
	w := b.Walls()
	assert.InDelta(t, b.Border/2, w.Min.X, 1e-9)
	assert.InDelta(t, b.Bounds().Max.Y-b.Border/2, w.Max.Y, 1e-9)
	assert.True(t, w.Contains(b.LaunchOrigin()))
}

func TestBrickHitSanitizesDamage(t *testing.T) {
	for _, dmg := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5} {
		br := NewBrick(BrickNormal, 0, 0, 10)
		res := br.Hit(dmg)
		assert.True(t, res.Sanitized)
		assert.Equal(t, 1.0, res.Dealt)
		assert.Equal(t, 9.0, br.Health)
	}
}

func TestBrickHitBreaksOnce(t *testing.T) {
	br := NewBrick(BrickNormal, 0, 0, 10)
	res := br.Hit(25)
	assert.True(t, res.Broken)
	assert.Equal(t, 10.0, res.Dealt)
	assert.Equal(t, 0.0, br.Health)

	res = br.Hit(5)
	assert.False(t, res.Broken)
	assert.Zero(t, res.Dealt)
}

func TestBrickHealAndBuff(t *testing.T) {
	br := NewBrick(BrickNormal, 0, 0, 20)
	br.Hit(15)
	assert.Equal(t, 10.0, br.Heal(10))
	assert.Equal(t, 5.0, br.Heal(50))
	assert.Equal(t, br.MaxHealth, br.Health)

	br.Buff(10)
	assert.Equal(t, 30.0, br.MaxHealth)
	assert.Equal(t, 30.0, br.Health)
}

func TestBrickTakeCoins(t *testing.T) {
	br := NewBrick(BrickNormal, 0, 0, 100)
	br.Coins, br.MaxCoins = 10, 10

	assert.Equal(t, 3, br.TakeCoins(25)) // ceil(10*25/100)
	assert.Equal(t, 7, br.Coins)
	assert.Equal(t, 7, br.TakeCoins(1000))
	assert.Zero(t, br.TakeCoins(10))
}

func TestMatrixMultiCellSharesOneID(t *testing.T) {
	m := NewMatrix(5, 5)
	long := &Brick{Type: BrickNormal, X: -1, Y: 0, W: 3, H: 1, Health: 30, MaxHealth: 30}
	require.True(t, m.Place(long))

	for gx := -1; gx <= 1; gx++ {
		assert.Equal(t, long.ID, m.IDAt(gx, 0))
	}
	assert.Equal(t, 1, m.Len())

	assert.False(t, m.Place(NewBrick(BrickNormal, 0, 0, 10)), "overlap must be rejected")
	assert.False(t, m.Place(NewBrick(BrickNormal, 3, 0, 10)), "out of bounds must be rejected")

	m.Remove(long.ID)
	for gx := -1; gx <= 1; gx++ {
		assert.Nil(t, m.At(gx, 0))
	}
	assert.Zero(t, m.Len())
}

func TestMatrixNeighbors(t *testing.T) {
	m := ParseMatrix(5, 5, []string{
		".....",
		"..#..",
		".#G#.",
		"..#..",
		".....",
	}, 10)
	center := m.At(0, 0)
	require.NotNil(t, center)
	assert.Len(t, m.Neighbors(center), 4)
	assert.Equal(t, 1, m.Count(BrickGoal))
}

func TestMatrixResize(t *testing.T) {
	m := NewMatrix(5, 5)
	a := NewBrick(BrickNormal, 0, 0, 10)
	b := NewBrick(BrickNormal, 2, 0, 10)
	require.True(t, m.Place(a))
	require.True(t, m.Place(b))

	assert.False(t, m.Resize(a.ID, 0, 0, 3, 1))
	assert.True(t, m.Resize(a.ID, -1, 0, 2, 1))
	assert.Equal(t, a.ID, m.IDAt(-1, 0))
	assert.Equal(t, a.ID, m.IDAt(0, 0))
}

func TestParseMatrixRoundTripsString(t *testing.T) {
	lines := []string{
		"#G+",
		"*-|",
		"wSC",
	}
	m := ParseMatrix(3, 3, lines, 10)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", m.String())
}

func TestShareCodeRoundTrip(t *testing.T) {
	m := ParseMatrix(5, 5, []string{
		"#G#..",
		".*...",
		"..5..",
	}, 20)
	m.At(-2, -2).Overlay = OverlaySpike
	m.At(0, -2).Coins = 4

	code, err := ExportCode(m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, ShareCodePrefix))

	got, err := ImportCode(code)
	require.NoError(t, err)
	assert.Equal(t, m.String(), got.String())
	assert.Equal(t, OverlaySpike, got.At(-2, -2).Overlay)
	assert.Equal(t, 4, got.At(0, -2).Coins)
	assert.Equal(t, 50.0, got.At(0, 0).MaxHealth)
}

func TestImportCodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{
		"",
		"hello",
		ShareCodePrefix + "!!!",
		ShareCodePrefix + "AAAA",
	} {
		m, err := ImportCode(code)
		assert.ErrorIs(t, err, ErrBadShareCode, code)
		assert.Nil(t, m)
	}
}

func TestImportRejectsOverlap(t *testing.T) {
	rec := LevelRecord{Cols: 3, Rows: 3, Bricks: []BrickRecord{
		{Type: "normal", X: 0, Y: 0, Health: 1, MaxHealth: 1},
		{Type: "normal", X: 0, Y: 0, Health: 1, MaxHealth: 1},
	}}
	_, err := FromRecord(rec)
	assert.Error(t, err)
}

func encodeRecord(t *testing.T, rec LevelRecord) string {
	t.Helper()
	data, err := msgpack.Marshal(rec)
	require.NoError(t, err)
	return ShareCodePrefix + base64.RawURLEncoding.EncodeToString(data)
}

func TestImportCodeRejectsBadRecords(t *testing.T) {
	goal := func(hp, maxHP float64) []BrickRecord {
		return []BrickRecord{{Type: "goal", Health: hp, MaxHealth: maxHP}}
	}
	tests := []struct {
		name string
		rec  LevelRecord
	}{
		{"huge grid", LevelRecord{Cols: math.MaxInt32, Rows: math.MaxInt32}},
		{"just over the cap", LevelRecord{Cols: MaxGridSize + 2, Rows: 3}},
		{"nan health", LevelRecord{Cols: 3, Rows: 3, Bricks: goal(math.NaN(), 10)}},
		{"nan max health", LevelRecord{Cols: 3, Rows: 3, Bricks: goal(5, math.NaN())}},
		{"infinite health", LevelRecord{Cols: 3, Rows: 3, Bricks: goal(math.Inf(1), math.Inf(1))}},
		{"oversized brick", LevelRecord{Cols: 3, Rows: 3, Bricks: []BrickRecord{
			{Type: "normal", W: 1 << 30, H: 1, Health: 1, MaxHealth: 1},
		}}},
		{"negative coins", LevelRecord{Cols: 3, Rows: 3, Bricks: []BrickRecord{
			{Type: "normal", Health: 1, MaxHealth: 1, Coins: -4},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				m   *Matrix
				err error
			)
			require.NotPanics(t, func() { m, err = ImportCode(encodeRecord(t, tt.rec)) })
			assert.ErrorIs(t, err, ErrBadShareCode)
			assert.Nil(t, m)
		})
	}

	m, err := ImportCode(encodeRecord(t, LevelRecord{Cols: MaxGridSize, Rows: MaxGridSize}))
	require.NoError(t, err)
	assert.Equal(t, MaxGridSize, m.Cols())
}

func TestImportYAMLRejectsNonFiniteHealth(t *testing.T) {
	doc := "cols: 3\nrows: 3\nbricks:\n  - type: goal\n    x: 0\n    y: 0\n    health: .nan\n    max_health: 10\n"
	m, err := ImportYAML([]byte(doc))
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestYAMLRoundTrip(t *testing.T) {
	m := ParseMatrix(3, 3, []string{"#G#"}, 10)
	data, err := ExportYAML(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: goal")

	got, err := ImportYAML(data)
	require.NoError(t, err)
	assert.Equal(t, m.String(), got.String())
}

func TestTypeNamesRoundTrip(t *testing.T) {
	for _, bt := range MainBallTypes() {
		got, ok := ParseBallType(bt.String())
		assert.True(t, ok)
		assert.Equal(t, bt, got)
	}
	for i := BrickNormal; i <= BrickWoodStorage; i++ {
		got, ok := ParseBrickType(i.String())
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}
	_, ok := ParseOverlay("laser")
	assert.True(t, ok)
	_, ok = ParseOverlay("flamethrower")
	assert.False(t, ok)
}
