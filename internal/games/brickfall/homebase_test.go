package brickfall

import (
	"slices"
	"testing"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

func homeBaseAt(t *testing.T, cfg config.HomeBaseConfig, bricks ...*world.Brick) *HomeBase {
	t.Helper()
	m := world.NewMatrix(7, 5)
	for _, b := range bricks {
		if !m.Place(b) {
			t.Fatalf("cannot place %s at (%d,%d)", b.Type, b.X, b.Y)
		}
	}
	return NewHomeBase(cfg, m, nil)
}

func TestProductionMovesWholeBatches(t *testing.T) {
	cfg := config.DefaultConfig().HomeBase
	farm := world.NewBrick(world.BrickFarmland, -2, 0, 1)
	store := world.NewBrick(world.BrickFoodStorage, 0, 0, 1)
	h := homeBaseAt(t, cfg, farm, store)

	h.ProductionTick()
	if store.Stored != 10 || farm.Pool != 2 {
		t.Errorf("stored %d pool %d, want 10 and 2", store.Stored, farm.Pool)
	}
	if farm.Blocked {
		t.Error("producer blocked with room available")
	}
}

func TestProducerBlockedWithoutRoom(t *testing.T) {
	tests := []struct {
		name   string
		stored int
		x      int
	}{
		{"storage nearly full", 45, 0},
		{"storage out of range", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig().HomeBase
			farm := world.NewBrick(world.BrickFarmland, -3, 0, 1)
			store := world.NewBrick(world.BrickFoodStorage, tt.x, 0, 1)
			store.Stored = tt.stored
			h := homeBaseAt(t, cfg, farm, store)

			h.ProductionTick()
			if !farm.Blocked {
				t.Error("producer not blocked")
			}
			if farm.Pool != 12 || store.Stored != tt.stored {
				t.Errorf("pool %d stored %d, want 12 and %d", farm.Pool, store.Stored, tt.stored)
			}
			if got := h.Blocked(); len(got) != 1 || got[0] != farm {
				t.Errorf("Blocked() = %v", got)
			}
		})
	}
}

func TestDistributePicksNearestStorage(t *testing.T) {
	cfg := config.DefaultConfig().HomeBase
	farm := world.NewBrick(world.BrickFarmland, 0, 0, 1)
	far := world.NewBrick(world.BrickFoodStorage, -2, 0, 1)
	near := world.NewBrick(world.BrickFoodStorage, 1, 1, 1)
	h := homeBaseAt(t, cfg, far, farm, near)

	farm.Pool = 20
	h.Distribute()
	if near.Stored != 20 || far.Stored != 0 {
		t.Errorf("near %d far %d, want 20 and 0", near.Stored, far.Stored)
	}
}

func TestBallProducerFillsCage(t *testing.T) {
	h := DefaultHomeBase(config.DefaultConfig().HomeBase, nil)
	h.ProductionTick()
	if got := h.Totals()["ball"]; got != 1 {
		t.Fatalf("balls stored = %d, want 1", got)
	}
	h.ProductionTick()
	if got := h.Totals()["ball"]; got != 1 {
		t.Errorf("balls stored = %d, want cage capacity 1", got)
	}
	if len(h.Blocked()) != 1 {
		t.Errorf("blocked producers = %d, want 1", len(h.Blocked()))
	}
}

func TestDepositAndRestore(t *testing.T) {
	h := DefaultHomeBase(config.DefaultConfig().HomeBase, nil)
	if err := h.Deposit("food", 30); err != nil {
		t.Fatalf("deposit food: %v", err)
	}
	h.Distribute()
	if got := h.Totals()["food"]; got != 30 {
		t.Errorf("food stored = %d, want 30", got)
	}
	if err := h.Deposit("gems", 5); err == nil {
		t.Error("deposit without a producer succeeded")
	}

	h.Restore("wood", 80)
	if got := h.Totals()["wood"]; got != 50 {
		t.Errorf("wood restored = %d, want capacity 50", got)
	}
	if got, want := h.Resources(), []string{"ball", "food", "wood"}; !slices.Equal(got, want) {
		t.Errorf("Resources() = %v, want %v", got, want)
	}
}
