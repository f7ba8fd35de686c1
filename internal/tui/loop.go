package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/lingo/internal/wizard"
)

// continueMsg carries a wizard continuation back into Update.
type continueMsg struct {
	fn func()
}

// loop lets the wizard treat the Bubble Tea program as its event loop.
// Scheduled work runs inside a tea.Cmd goroutine; continuations and
// animation completions come back as continueMsg. It is only touched from
// Update.
type loop struct {
	pending []tea.Cmd
	playing *wizard.Animation
}

// Go implements wizard.Scheduler.
func (l *loop) Go(work func() func()) {
	l.pending = append(l.pending, func() tea.Msg {
		return continueMsg{fn: work()}
	})
}

// Animate implements wizard.Animator. A zero duration completes at once.
func (l *loop) Animate(a wizard.Animation, done func()) {
	if a.Duration <= 0 {
		done()
		return
	}
	anim := a
	l.playing = &anim
	l.pending = append(l.pending, tea.Tick(a.Duration, func(time.Time) tea.Msg {
		return continueMsg{fn: func() {
			l.playing = nil
			done()
		}}
	}))
}

// drain returns the commands queued since the last call.
func (l *loop) drain() tea.Cmd {
	if len(l.pending) == 0 {
		return nil
	}
	cmds := l.pending
	l.pending = nil
	return tea.Batch(cmds...)
}
