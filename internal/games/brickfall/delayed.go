package brickfall

// delayedAction runs once framesRemaining reaches zero.
type delayedAction struct {
	framesRemaining int
	action          func(g *Game)
}

// schedule queues an action to run after the given number of ticks.
func (g *Game) schedule(frames int, action func(g *Game)) {
	g.delayed = append(g.delayed, delayedAction{framesRemaining: max(frames, 0), action: action})
}

// tickDelayed counts down and runs due actions in scheduling order.
// Actions may schedule more actions; those wait at least one tick.
func (g *Game) tickDelayed() {
	if len(g.delayed) == 0 {
		return
	}
	var due []delayedAction
	kept := g.delayed[:0]
	for _, d := range g.delayed {
		d.framesRemaining--
		if d.framesRemaining <= 0 {
			due = append(due, d)
		} else {
			kept = append(kept, d)
		}
	}
	g.delayed = kept
	for _, d := range due {
		d.action(g)
	}
}
