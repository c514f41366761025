package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall"
	"github.com/vovakirdan/brickfall/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{"aim left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionAimLeft, false},
		{"aim right d", runes("d"), core.ActionAimRight, false},
		{"fire w", runes("w"), core.ActionFire, false},
		{"power-up", runes("e"), core.ActionPowerUp, false},
		{"next ball", tea.KeyMsg{Type: tea.KeyTab}, core.ActionNextBall, false},
		{"confirm", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"quit", runes("q"), core.ActionQuit, true},
		{"unbound", runes("z"), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			if got != tt.want || quit != tt.isQuit {
				t.Errorf("MapKey = (%v, %v), want (%v, %v)", got, quit, tt.want, tt.isQuit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()
	if km.MapKeyToFrame(runes("f"), &frame) {
		t.Fatal("f is not a quit key")
	}
	if !frame.Has(core.ActionSpeedUp) {
		t.Error("speed-up not set on frame")
	}
}

func TestSetupModel(t *testing.T) {
	s := NewSetupModel("Brickfall")
	if s.Difficulty() != config.DifficultyNormal || s.Level() != 1 {
		t.Fatalf("defaults = (%s, %d)", s.Difficulty(), s.Level())
	}

	s.Handle(MenuActionRight)
	if s.Difficulty() != config.DifficultyHard {
		t.Errorf("difficulty = %s, want hard", s.Difficulty())
	}
	s.Handle(MenuActionLeft)
	s.Handle(MenuActionLeft)
	if s.Difficulty() != config.DifficultyEasy {
		t.Errorf("difficulty = %s, want easy", s.Difficulty())
	}

	s.Handle(MenuActionDown)
	s.Handle(MenuActionLeft)
	if s.Level() != 1 {
		t.Errorf("level went below 1: %d", s.Level())
	}
	s.Handle(MenuActionRight)
	s.Handle(MenuActionRight)
	if s.Level() != 3 {
		t.Errorf("level = %d, want 3", s.Level())
	}
	if !s.Handle(MenuActionSelect) {
		t.Error("select should start the run")
	}
	if !strings.Contains(s.View(80), "Start level: < 3 >") {
		t.Error("view does not show the level")
	}
}

func TestMenuSelectsModeWithSetup(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	var model tea.Model = NewMenuModel(nil, cfg)
	press := func(msg tea.KeyMsg) {
		model, _ = model.Update(msg)
	}

	press(tea.KeyMsg{Type: tea.KeyEnter}) // open setup
	press(tea.KeyMsg{Type: tea.KeyRight}) // hard
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyRight}) // level 2
	press(tea.KeyMsg{Type: tea.KeyEnter}) // start

	res := model.(MenuModel).Result()
	if res.Quit || res.WantsHistory {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.GameID != brickfall.IDAdventure {
		t.Errorf("GameID = %q, want %q", res.GameID, brickfall.IDAdventure)
	}
	if res.Difficulty != config.DifficultyHard || res.Level != 2 {
		t.Errorf("setup = (%s, %d), want (hard, 2)", res.Difficulty, res.Level)
	}

	game, err := res.NewGame("", nil)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if game.ID() != brickfall.IDAdventure {
		t.Errorf("created %q", game.ID())
	}
}

func TestMenuHistoryAndBack(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	var model tea.Model = NewMenuModel(nil, cfg)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !model.(MenuModel).Result().WantsHistory {
		t.Error("tab should open history")
	}

	model = NewMenuModel(nil, cfg)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := model.(MenuModel)
	if m.setup != nil || m.IsQuitting() {
		t.Error("esc in setup should return to the mode list")
	}
}

func TestModelBackOnlyWhenOver(t *testing.T) {
	game := brickfall.New(brickfall.ModeAdventure)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 1}
	m := NewModel(game, nil, cfg, nil)
	m.embedded = true
	m.Init()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(Model).BackToMenu() {
		t.Error("back should be ignored while playing")
	}

	m.gameState.GameOver = true
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(Model).BackToMenu() {
		t.Error("back should return to the menu after game over")
	}
	if cmd != nil {
		t.Error("embedded model must not quit the program")
	}
}

func TestModelViewIncludesHelp(t *testing.T) {
	game := brickfall.New(brickfall.ModeAdventure)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 1}
	m := NewModel(game, nil, cfg, nil)
	m.Init()
	if !strings.Contains(m.View(), "launch") {
		t.Error("help bar missing from view")
	}
}

func TestSettleRunPersistsHomeBase(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "brickfall.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	cfg := config.DefaultConfig().HomeBase

	// 10 food + 12 produced = two batches of 10, the remainder stays pooled.
	totals, err := SettleRun(store, cfg, brickfall.RunSummary{Food: 10}, nil)
	if err != nil {
		t.Fatalf("SettleRun: %v", err)
	}
	if totals["food"] != 20 || totals["ball"] != 1 {
		t.Errorf("totals = %v, want food 20 ball 1", totals)
	}

	totals, err = SettleRun(store, cfg, brickfall.RunSummary{}, nil)
	if err != nil {
		t.Fatalf("SettleRun: %v", err)
	}
	if totals["food"] != 30 {
		t.Errorf("food = %d, want 30", totals["food"])
	}
	if totals["ball"] != 1 {
		t.Errorf("ball cage over capacity: %d", totals["ball"])
	}

	stored, err := store.Resources()
	if err != nil {
		t.Fatalf("Resources: %v", err)
	}
	if stored["food"] != 30 {
		t.Errorf("stored food = %d, want 30", stored["food"])
	}
}

func TestHistoryColumnsFollowMode(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "brickfall.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	runs := []brickfall.RunSummary{
		{Mode: brickfall.IDAdventure, Seed: 11, Level: 3, Score: 900, Coins: 42, BestCombo: 7, Reason: "ball lost"},
		{Mode: brickfall.IDInvasion, Seed: 12, Wave: 5, Score: 1200, XP: 80, BestCombo: 9, Reason: "goal reached"},
	}
	for _, sum := range runs {
		if _, err := store.SaveRun(RunRecord(sum)); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	m := NewHistoryModel(store, 120, 40)
	show := func(mode string) string {
		for range len(m.modes) {
			if m.mode() == mode {
				return m.View()
			}
			next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
			m = next.(HistoryModel)
		}
		t.Fatalf("mode %q not listed", mode)
		return ""
	}

	view := show(brickfall.IDInvasion)
	for _, want := range []string{"Wave", "Combo", "XP", "1200", "seed 12", "goal reached"} {
		if !strings.Contains(view, want) {
			t.Errorf("invasion view missing %q", want)
		}
	}
	if strings.Contains(view, "Coins") {
		t.Error("invasion view shows coins")
	}

	view = show(brickfall.IDAdventure)
	for _, want := range []string{"Level", "Coins", "Combo", "900", "seed 11"} {
		if !strings.Contains(view, want) {
			t.Errorf("adventure view missing %q", want)
		}
	}
	if strings.Contains(view, "Wave") {
		t.Error("adventure view shows waves")
	}

	back, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !back.(HistoryModel).IsGoingBack() {
		t.Error("esc did not go back")
	}
}
