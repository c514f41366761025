package brickfall

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// HomeBase is the meta-progression economy: producer buildings fill an
// internal pool and hand it to storages in fixed batches.
type HomeBase struct {
	cfg    config.HomeBaseConfig
	m      *world.Matrix
	logger *log.Logger
}

// NewHomeBase wraps a matrix of building bricks. Storage capacities are
// filled in from config when unset.
func NewHomeBase(cfg config.HomeBaseConfig, m *world.Matrix, logger *log.Logger) *HomeBase {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &HomeBase{cfg: cfg, m: m, logger: logger}
	for _, b := range m.Bricks() {
		if bc, ok := h.building(b); ok && bc.Stores != "" && b.Capacity == 0 {
			b.Capacity = bc.Capacity
		}
	}
	return h
}

// DefaultHomeBase lays out one of each building on a 7×5 grid.
func DefaultHomeBase(cfg config.HomeBaseConfig, logger *log.Logger) *HomeBase {
	m := world.NewMatrix(7, 5)
	layout := []struct {
		t    world.BrickType
		x, y int
	}{
		{world.BrickFarmland, -2, -1},
		{world.BrickFoodStorage, 0, -1},
		{world.BrickSawmill, -2, 1},
		{world.BrickWoodStorage, 0, 1},
		{world.BrickBallProducer, 2, 0},
		{world.BrickBallCage, 3, 0},
	}
	for _, l := range layout {
		m.Place(world.NewBrick(l.t, l.x, l.y, 1))
	}
	return NewHomeBase(cfg, m, logger)
}

// Matrix returns the building grid.
func (h *HomeBase) Matrix() *world.Matrix { return h.m }

// building looks up a brick's building config. The ball cage doubles as
// the storage for the ball producer.
func (h *HomeBase) building(b *world.Brick) (config.BuildingConfig, bool) {
	if !b.Type.IsBuilding() && b.Type != world.BrickBallCage {
		return config.BuildingConfig{}, false
	}
	bc, ok := h.cfg.Buildings[b.Type.String()]
	return bc, ok
}

func (h *HomeBase) batchFor(bc config.BuildingConfig) int {
	if bc.Batch > 0 {
		return bc.Batch
	}
	return max(h.cfg.BatchSize, 1)
}

// ProductionTick adds each producer's rate to its pool, then distributes.
func (h *HomeBase) ProductionTick() {
	for _, b := range h.m.Bricks() {
		if bc, ok := h.building(b); ok && bc.Produces != "" {
			b.Pool += bc.Rate
		}
	}
	h.Distribute()
}

// Distribute moves whole batches from producers to the nearest storage of
// the same resource within range that has room for a full batch. A
// producer with a batch ready and no such storage is blocked and keeps
// its pool.
func (h *HomeBase) Distribute() {
	for _, p := range h.m.Bricks() {
		bc, ok := h.building(p)
		if !ok || bc.Produces == "" {
			continue
		}
		batch := h.batchFor(bc)
		p.Blocked = false
		for p.Pool >= batch {
			target := h.storageFor(p, bc, batch)
			if target == nil {
				p.Blocked = true
				h.logger.Debug("producer blocked", "building", p.Type, "pool", p.Pool)
				break
			}
			target.Stored += batch
			p.Pool -= batch
		}
	}
}

// storageFor picks the nearest storage with room, ties broken by id.
func (h *HomeBase) storageFor(p *world.Brick, bc config.BuildingConfig, batch int) *world.Brick {
	var best *world.Brick
	bestD := 0
	for _, s := range h.m.Bricks() {
		sc, ok := h.building(s)
		if !ok || sc.Stores != bc.Produces || s.Capacity-s.Stored < batch {
			continue
		}
		d := core.ChebyshevDist(s.X, s.Y, p.X, p.Y)
		if d > bc.Range {
			continue
		}
		if best == nil || d < bestD {
			best, bestD = s, d
		}
	}
	return best
}

// Deposit adds run earnings to the first producer of a resource.
func (h *HomeBase) Deposit(resource string, n int) error {
	if n <= 0 {
		return nil
	}
	for _, b := range h.m.Bricks() {
		if bc, ok := h.building(b); ok && bc.Produces == resource {
			b.Pool += n
			return nil
		}
	}
	return fmt.Errorf("brickfall: no producer for %q", resource)
}

// Restore fills storages of a resource up to amount, nearest id first.
func (h *HomeBase) Restore(resource string, amount int) {
	for _, s := range h.m.Bricks() {
		if amount <= 0 {
			return
		}
		if bc, ok := h.building(s); ok && bc.Stores == resource {
			add := min(amount, s.Capacity-s.Stored)
			s.Stored += add
			amount -= add
		}
	}
}

// Totals sums stored amounts per resource.
func (h *HomeBase) Totals() map[string]int {
	out := make(map[string]int)
	for _, s := range h.m.Bricks() {
		if bc, ok := h.building(s); ok && bc.Stores != "" {
			out[bc.Stores] += s.Stored
		}
	}
	return out
}

// Resources lists resource names in stable order.
func (h *HomeBase) Resources() []string {
	set := make(map[string]bool)
	for _, bc := range h.cfg.Buildings {
		if bc.Stores != "" {
			set[bc.Stores] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Blocked lists the producers that could not distribute.
func (h *HomeBase) Blocked() []*world.Brick {
	var out []*world.Brick
	for _, b := range h.m.Bricks() {
		if b.Blocked {
			out = append(out, b)
		}
	}
	return out
}
