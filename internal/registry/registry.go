// Package registry maps mode names to game factories. Modes register
// from init() so the CLI, the menu and SSH sessions share one list.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/brickfall/internal/core"
)

var (
	// ErrUnknownMode is returned when no registered mode matches a name.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrAmbiguousMode is returned when a short name matches several modes.
	ErrAmbiguousMode = errors.New("ambiguous game mode")
)

// Game is a playable mode. Implementations hold pure simulation state;
// the platform layer owns input mapping, timing and terminal output.
type Game interface {
	ID() string
	Title() string

	// Reset starts a new run sized to the runtime screen.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed frame.
	Step(in core.InputFrame) core.StepResult

	Render(dst *core.Screen)
	State() core.GameState
}

// ModeInfo describes a registered mode.
type ModeInfo struct {
	ID      string // Stored with every run, e.g. "brickfall_trial"
	Title   string
	Summary string // One line for listings
}

// ShortName is the part of the ID after the last underscore, or the
// whole ID when it has none.
func (i ModeInfo) ShortName() string {
	if n := strings.LastIndexByte(i.ID, '_'); n >= 0 {
		return i.ID[n+1:]
	}
	return i.ID
}

// Factory creates a fresh game for a mode.
type Factory func() Game

type entry struct {
	info    ModeInfo
	factory Factory
}

var (
	mu    sync.RWMutex
	modes = make(map[string]entry)
)

// Register adds a mode. It panics on an empty or duplicate ID.
func Register(info ModeInfo, f Factory) {
	if info.ID == "" || f == nil {
		panic("registry: mode needs an ID and a factory")
	}
	if info.Title == "" {
		info.Title = info.ID
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := modes[info.ID]; dup {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}
	modes[info.ID] = entry{info: info, factory: f}
}

// List returns every registered mode sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]ModeInfo, 0, len(modes))
	for _, e := range modes {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup resolves a full ID or a unique short name.
func Lookup(name string) (ModeInfo, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, err := lookup(name)
	return e.info, err
}

func lookup(name string) (entry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if e, ok := modes[name]; ok {
		return e, nil
	}
	var (
		found   entry
		matches []string
	)
	for _, e := range modes {
		if e.info.ShortName() == name {
			found = e
			matches = append(matches, e.info.ID)
		}
	}
	switch len(matches) {
	case 0:
		return entry{}, fmt.Errorf("registry: %w %q", ErrUnknownMode, name)
	case 1:
		return found, nil
	default:
		sort.Strings(matches)
		return entry{}, fmt.Errorf("registry: %w %q (%s)", ErrAmbiguousMode, name, strings.Join(matches, ", "))
	}
}

// Create builds a new game for a full ID or unique short name.
func Create(name string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return e.factory(), nil
}

// Exists reports whether name resolves to exactly one mode.
func Exists(name string) bool {
	_, err := Lookup(name)
	return err == nil
}
