package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveRunAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		id, err := store.SaveRun(RunRecord{Mode: "brickfall", Seed: 7, Level: 3, Score: score, Turns: 9})
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("run id %q is not a uuid: %v", id, err)
		}
	}
	if _, err := store.SaveRun(RunRecord{Mode: "brickfall_invasion", Wave: 4, Score: 500}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.TopRuns("brickfall", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	for i, want := range []int{200, 100, 50} {
		if runs[i].Score != want {
			t.Errorf("runs[%d].Score = %d, want %d", i, runs[i].Score, want)
		}
	}
	if runs[0].Level != 3 || runs[0].Seed != 7 || runs[0].Turns != 9 {
		t.Errorf("run fields not round-tripped: %+v", runs[0])
	}

	top, err := store.TopRuns("brickfall", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("limit ignored: got %d runs", len(top))
	}
}

func TestRecentRunsAndLookup(t *testing.T) {
	store := openTestStore(t)

	first, _ := store.SaveRun(RunRecord{Mode: "brickfall", Score: 1, Reason: "out of balls"})
	_, _ = store.SaveRun(RunRecord{Mode: "brickfall_trial", Score: 2})

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(all))
	}

	trial, err := store.RecentRuns("brickfall_trial", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(trial) != 1 || trial[0].Score != 2 {
		t.Errorf("trial runs = %+v", trial)
	}

	r, err := store.Run(first)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if r == nil || r.Reason != "out of balls" {
		t.Errorf("Run(%s) = %+v", first, r)
	}
	missing, err := store.Run(uuid.NewString())
	if err != nil || missing != nil {
		t.Errorf("missing run = %+v, %v", missing, err)
	}
}

func TestHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	score, err := store.HighScore("brickfall")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if score != 0 {
		t.Errorf("Expected high score 0 for empty db, got %d", score)
	}

	_, _ = store.SaveRun(RunRecord{Mode: "brickfall", Score: 100})
	_, _ = store.SaveRun(RunRecord{Mode: "brickfall", Score: 300})

	score, _ = store.HighScore("brickfall")
	if score != 300 {
		t.Errorf("Expected high score 300, got %d", score)
	}

	if err := store.ClearRuns("brickfall"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	score, _ = store.HighScore("brickfall")
	if score != 0 {
		t.Errorf("Expected high score 0 after clear, got %d", score)
	}
}

func TestAllModeStats(t *testing.T) {
	store := openTestStore(t)

	_, _ = store.SaveRun(RunRecord{Mode: "brickfall", Score: 100, Level: 2})
	_, _ = store.SaveRun(RunRecord{Mode: "brickfall", Score: 300, Level: 5})
	_, _ = store.SaveRun(RunRecord{Mode: "brickfall_invasion", Score: 40, Wave: 3})

	stats, err := store.AllModeStats()
	if err != nil {
		t.Fatalf("AllModeStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 modes, got %d", len(stats))
	}
	adv := stats["brickfall"]
	if adv.Runs != 2 || adv.HighScore != 300 || adv.AvgScore != 200 || adv.BestLevel != 5 {
		t.Errorf("adventure stats = %+v", adv)
	}
	if stats["brickfall_invasion"].BestWave != 3 {
		t.Errorf("invasion stats = %+v", stats["brickfall_invasion"])
	}
}

func TestLevels(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveLevel("castle", "BF1:abc", 12); err != nil {
		t.Fatalf("SaveLevel() failed: %v", err)
	}
	if err := store.SaveLevel("arena", "BF1:def", 4); err != nil {
		t.Fatalf("SaveLevel() failed: %v", err)
	}
	if err := store.SaveLevel("castle", "BF1:xyz", 13); err != nil {
		t.Fatalf("SaveLevel() overwrite failed: %v", err)
	}

	l, err := store.Level("castle")
	if err != nil {
		t.Fatalf("Level() failed: %v", err)
	}
	if l.Code != "BF1:xyz" || l.Bricks != 13 {
		t.Errorf("castle = %+v, want overwritten code", l)
	}

	list, err := store.Levels()
	if err != nil {
		t.Fatalf("Levels() failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "arena" {
		t.Errorf("Levels() = %+v", list)
	}

	if _, err := store.Level("moat"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Level(moat) err = %v, want ErrLevelNotFound", err)
	}
	if err := store.DeleteLevel("arena"); err != nil {
		t.Fatalf("DeleteLevel() failed: %v", err)
	}
	if err := store.DeleteLevel("arena"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("second DeleteLevel err = %v, want ErrLevelNotFound", err)
	}
}

func TestResources(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Resources()
	if err != nil {
		t.Fatalf("Resources() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no resources, got %v", got)
	}

	if err := store.SaveResources(map[string]int{"food": 30, "wood": 10}); err != nil {
		t.Fatalf("SaveResources() failed: %v", err)
	}
	if err := store.SaveResources(map[string]int{"food": 40}); err != nil {
		t.Fatalf("SaveResources() failed: %v", err)
	}

	got, _ = store.Resources()
	if got["food"] != 40 || got["wood"] != 10 {
		t.Errorf("Resources() = %v, want food 40 wood 10", got)
	}
}

func TestTildeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.brickfall/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".brickfall", "test.db")); err != nil {
		t.Errorf("expanded path not created: %v", err)
	}
}

func TestOpenAddsBestComboToOldDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE runs (
		id TEXT PRIMARY KEY, mode TEXT NOT NULL, seed INTEGER NOT NULL,
		level INTEGER NOT NULL DEFAULT 0, wave INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL, coins INTEGER NOT NULL DEFAULT 0,
		xp INTEGER NOT NULL DEFAULT 0, turns INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '', created_at DATETIME DEFAULT CURRENT_TIMESTAMP);
		INSERT INTO runs (id, mode, seed, score) VALUES ('old', 'brickfall', 1, 10);`)
	if err != nil {
		t.Fatalf("old schema: %v", err)
	}
	db.Close()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	old, err := store.Run("old")
	if err != nil || old == nil {
		t.Fatalf("Run() = %v, %v", old, err)
	}
	if old.BestCombo != 0 {
		t.Errorf("old run BestCombo = %d, want 0", old.BestCombo)
	}

	id, err := store.SaveRun(RunRecord{Mode: "brickfall", Seed: 2, Score: 20, BestCombo: 6})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	got, err := store.Run(id)
	if err != nil || got == nil {
		t.Fatalf("Run() = %v, %v", got, err)
	}
	if got.BestCombo != 6 {
		t.Errorf("BestCombo = %d, want 6", got.BestCombo)
	}
}
