package wizard

import (
	"slices"
	"testing"

	"github.com/tturner/lingo/internal/history"
)

func TestHistoryNavigation(t *testing.T) {
	hist := history.New()
	anim := &deferredAnimator{}
	opts := DefaultOptions()
	opts.HistoryEnabled = true
	w := New(newForm("a", "b", "c"), Capabilities{History: hist, Animator: anim})
	mustInit(t, w, opts)

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	anim.flush()
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	anim.flush()
	if !slices.Equal(hist.Tokens(), []string{"a", "b", "c"}) {
		t.Fatalf("history tokens = %v", hist.Tokens())
	}
	for _, a := range anim.played {
		if a.Phase == PhaseOut && a.Duration != 0 {
			t.Fatalf("history mode out animation should have no duration: %+v", a)
		}
	}

	if err := w.Back(); err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	anim.flush()
	st := mustState(t, w)
	if st.Current != "b" || hist.Current() != "b" {
		t.Fatalf("back via history: wizard=%s history=%s", st.Current, hist.Current())
	}
	if !slices.Equal(st.Activated, []string{"a", "b"}) {
		t.Fatalf("stack = %v", st.Activated)
	}

	// Browser forward reloads c as a forward transition.
	hist.Forward()
	anim.flush()
	if st := mustState(t, w); st.Current != "c" {
		t.Fatalf("forward via history reached %s", st.Current)
	}
}

func TestHistoryShowAndReset(t *testing.T) {
	hist := history.New()
	opts := DefaultOptions()
	opts.HistoryEnabled = true
	w := New(newForm("a", "b", "c"), Capabilities{History: hist})
	mustInit(t, w, opts)

	if err := w.Show("c"); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if hist.Current() != "c" || mustState(t, w).Current != "c" {
		t.Fatalf("show should go through history, history at %q", hist.Current())
	}

	if err := w.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if hist.Len() != 1 || hist.Current() != "a" {
		t.Fatalf("reset should reseed history, got %v", hist.Tokens())
	}

	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	hist.Push("b")
	if w.Initialized() {
		t.Fatal("destroyed wizard must ignore history callbacks")
	}
}

func TestHistoryShowCurrentStep(t *testing.T) {
	hist := history.New()
	var kinds []EventKind
	opts := DefaultOptions()
	opts.HistoryEnabled = true
	opts.OnEvent = func(ev Event) { kinds = append(kinds, ev.Kind) }
	w := New(newForm("a", "b"), Capabilities{History: hist})
	mustInit(t, w, opts)

	if err := w.Show("a"); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if !slices.Equal(hist.Tokens(), []string{"a"}) {
		t.Fatalf("showing the current step should not add history, got %v", hist.Tokens())
	}
	if kinds[len(kinds)-1] != EventRerender {
		t.Fatalf("expected rerender event, got %v", kinds)
	}
}
