package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/games/brickfall"
	"github.com/vovakirdan/brickfall/internal/storage"
)

// RunRecord converts a finished run's summary into its stored form.
func RunRecord(sum brickfall.RunSummary) storage.RunRecord {
	return storage.RunRecord{
		Mode: sum.Mode, Seed: sum.Seed, Level: sum.Level, Wave: sum.Wave,
		Score: sum.Score, Coins: sum.Coins, XP: sum.XP, Turns: sum.Turns,
		BestCombo: sum.BestCombo, Reason: sum.Reason,
	}
}

// LoadHomeBase rebuilds the default home base and refills its storages
// from the stored resource totals. A nil store gives an empty base.
func LoadHomeBase(store *storage.Store, cfg config.HomeBaseConfig, logger *log.Logger) (*brickfall.HomeBase, error) {
	h := brickfall.DefaultHomeBase(cfg, logger)
	if store == nil {
		return h, nil
	}
	totals, err := store.Resources()
	if err != nil {
		return h, fmt.Errorf("tui: load home base: %w", err)
	}
	for _, res := range h.Resources() {
		h.Restore(res, totals[res])
	}
	return h, nil
}

// SettleRun deposits a finished run's food and wood into the home base,
// runs one production tick and stores the new totals.
func SettleRun(store *storage.Store, cfg config.HomeBaseConfig, sum brickfall.RunSummary, logger *log.Logger) (map[string]int, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h, err := LoadHomeBase(store, cfg, logger)
	if err != nil {
		return nil, err
	}
	earned := []struct {
		res string
		n   int
	}{
		{"food", sum.Food},
		{"wood", sum.Wood},
	}
	for _, e := range earned {
		if err := h.Deposit(e.res, e.n); err != nil {
			logger.Warn("cannot deposit run earnings", "resource", e.res, "err", err)
		}
	}
	h.ProductionTick()
	for _, b := range h.Blocked() {
		logger.Debug("home base producer blocked", "building", b.Type, "pool", b.Pool)
	}

	totals := h.Totals()
	if store != nil {
		if err := store.SaveResources(totals); err != nil {
			return nil, fmt.Errorf("tui: save home base: %w", err)
		}
	}
	return totals, nil
}
