package wizard

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func textField(name string) *Field {
	return &Field{Name: name, Kind: KindText}
}

func newForm(ids ...string) *Form {
	form := &Form{Name: "test", Action: "/submit", Method: "post"}
	for _, id := range ids {
		form.Steps = append(form.Steps, &Step{ID: id, Fields: []*Field{textField(id + "_name")}})
	}
	return form
}

type fakeSubmitter struct {
	calls []Submission
	data  []byte
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, sub Submission) ([]byte, error) {
	f.calls = append(f.calls, sub)
	return f.data, f.err
}

type fakeValidator struct {
	invalid map[string]bool
	config  any
}

func (f *fakeValidator) Configure(_ *Form, config any) error {
	f.config = config
	return nil
}

func (f *fakeValidator) Valid(step *Step) bool {
	ok := true
	for _, field := range step.Fields {
		if f.invalid[field.Name] {
			field.Error = "invalid"
			ok = false
		}
	}
	return ok
}

func (f *fakeValidator) FocusInvalid(step *Step) *Field {
	for _, field := range step.Fields {
		if field.Error != "" {
			return field
		}
	}
	return nil
}

type fakeRemote struct {
	data   []byte
	err    error
	values url.Values
}

func (f *fakeRemote) Check(_ context.Context, _ RemoteCheck, values url.Values) ([]byte, error) {
	f.values = values
	return f.data, f.err
}

type deferredScheduler struct {
	pending []func() func()
}

func (d *deferredScheduler) Go(work func() func()) { d.pending = append(d.pending, work) }

func (d *deferredScheduler) run() {
	for len(d.pending) > 0 {
		work := d.pending[0]
		d.pending = d.pending[1:]
		if next := work(); next != nil {
			next()
		}
	}
}

type deferredAnimator struct {
	played  []Animation
	pending []func()
}

func (d *deferredAnimator) Animate(a Animation, done func()) {
	d.played = append(d.played, a)
	d.pending = append(d.pending, done)
}

func (d *deferredAnimator) flush() {
	for len(d.pending) > 0 {
		done := d.pending[0]
		d.pending = d.pending[1:]
		done()
	}
}

func mustInit(t *testing.T, w *Wizard, opts Options) {
	t.Helper()
	if err := w.Init(opts, nil, nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
}

func mustState(t *testing.T, w *Wizard) State {
	t.Helper()
	st, err := w.State()
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	return st
}

func TestNextFollowsDeclarationOrder(t *testing.T) {
	form := newForm("a", "b", "c", "d")
	var visited []string
	var lastFlags []bool
	opts := DefaultOptions()
	opts.AfterNext = func(ev Event) {
		visited = append(visited, ev.Current)
		lastFlags = append(lastFlags, ev.IsLastStep)
	}
	w := New(form, Capabilities{})
	mustInit(t, w, opts)

	for i := 0; i < 3; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
	}
	if diff := cmp.Diff([]string{"b", "c", "d"}, visited); diff != "" {
		t.Fatalf("visited order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, true}, lastFlags); diff != "" {
		t.Fatalf("last flags mismatch (-want +got):\n%s", diff)
	}
	st := mustState(t, w)
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, st.Activated); diff != "" {
		t.Fatalf("navigation stack mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitStepScenario(t *testing.T) {
	form := newForm("A", "B", "C")
	form.Steps[2].Classes = []string{"submit_step"}
	sub := &fakeSubmitter{}
	w := New(form, Capabilities{Submitter: sub})
	mustInit(t, w, DefaultOptions())

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	st := mustState(t, w)
	if st.Current != "B" || st.IsLastStep {
		t.Fatalf("after first next: current=%s last=%v", st.Current, st.IsLastStep)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	st = mustState(t, w)
	if st.Current != "C" || !st.IsLastStep {
		t.Fatalf("after second next: current=%s last=%v", st.Current, st.IsLastStep)
	}
	if st.Buttons.Next.Label != "Submit" {
		t.Fatalf("next label = %q, want Submit", st.Buttons.Next.Label)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	st = mustState(t, w)
	if st.Current != "C" {
		t.Fatalf("submission changed step to %s", st.Current)
	}
	if !st.Submitted {
		t.Fatal("expected submitted flag")
	}
	if len(sub.calls) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.calls))
	}
	if sub.calls[0].Action != "/submit" || sub.calls[0].Method != "post" {
		t.Fatalf("unexpected submission target: %+v", sub.calls[0])
	}
}

func TestSubmitClassBeforeEnd(t *testing.T) {
	form := newForm("a", "b", "c")
	form.Steps[1].Classes = []string{"done"}
	sub := &fakeSubmitter{}
	opts := DefaultOptions()
	opts.SubmitStepClass = "done"
	w := New(form, Capabilities{Submitter: sub})
	mustInit(t, w, opts)

	_ = w.Next()
	if err := w.Next(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	st := mustState(t, w)
	if st.Current != "b" || len(sub.calls) != 1 {
		t.Fatalf("expected submission on b, current=%s calls=%d", st.Current, len(sub.calls))
	}
}

func TestSubmitWithoutSubmitter(t *testing.T) {
	var diags []string
	w := New(newForm("only"), Capabilities{Reporter: ReporterFunc(func(msg string) { diags = append(diags, msg) })})
	mustInit(t, w, DefaultOptions())
	if err := w.Next(); !errors.Is(err, ErrNoSubmitter) {
		t.Fatalf("expected ErrNoSubmitter, got %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}

func TestBackRestoresPreviousStep(t *testing.T) {
	w := New(newForm("a", "b", "c"), Capabilities{})
	var backs []Event
	opts := DefaultOptions()
	opts.AfterBack = func(ev Event) { backs = append(backs, ev) }
	mustInit(t, w, opts)

	if err := w.Back(); err != nil {
		t.Fatalf("Back on first step failed: %v", err)
	}
	st := mustState(t, w)
	if st.Current != "a" || len(st.Activated) != 1 || len(backs) != 0 {
		t.Fatalf("back on first step should be a no-op: %+v", st)
	}

	_ = w.Next()
	_ = w.Next()
	before := mustState(t, w)
	if err := w.Back(); err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	after := mustState(t, w)
	if after.Current != "b" || after.Previous != "c" {
		t.Fatalf("back went to %s (previous %s)", after.Current, after.Previous)
	}
	if len(after.Activated) != len(before.Activated)-1 {
		t.Fatalf("stack length %d, want %d", len(after.Activated), len(before.Activated)-1)
	}
	if len(backs) != 1 || backs[0].Current != "b" {
		t.Fatalf("expected one afterBack for b, got %+v", backs)
	}
}

func TestResetReturnsToFirstStep(t *testing.T) {
	form := newForm("a", "b", "c")
	form.Steps[0].Fields[0].Default = "seed"
	form.Steps[0].Fields[0].Value = "seed"
	w := New(form, Capabilities{})
	mustInit(t, w, DefaultOptions())

	form.Steps[0].Fields[0].Value = "typed"
	_ = w.Next()
	_ = w.Next()
	form.Steps[2].Fields[0].Error = "bad"
	if err := w.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	st := mustState(t, w)
	want := []StepState{
		{ID: "a", Hidden: false, Disabled: false},
		{ID: "b", Hidden: true, Disabled: true},
		{ID: "c", Hidden: true, Disabled: true},
	}
	if diff := cmp.Diff(want, st.Steps); diff != "" {
		t.Fatalf("step states mismatch (-want +got):\n%s", diff)
	}
	if st.Current != "a" || st.IsLastStep || st.Previous != "" {
		t.Fatalf("unexpected state after reset: %+v", st)
	}
	if diff := cmp.Diff([]string{"a"}, st.Activated); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
	if form.Steps[0].Fields[0].Value != "seed" {
		t.Fatalf("field value = %q, want default", form.Steps[0].Fields[0].Value)
	}
	if form.Steps[2].Fields[0].Error != "" {
		t.Fatal("field error should be cleared")
	}
	if !st.Buttons.Back.Hidden {
		t.Fatal("back button should be hidden on the first step")
	}
}

func TestShowRoundTripIsBackward(t *testing.T) {
	w := New(newForm("a", "b", "c"), Capabilities{})
	var kinds []EventKind
	opts := DefaultOptions()
	opts.OnEvent = func(ev Event) { kinds = append(kinds, ev.Kind) }
	mustInit(t, w, opts)

	if err := w.Show("c"); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	st := mustState(t, w)
	if st.Current != "c" || st.Previous != "a" || !st.IsLastStep {
		t.Fatalf("unexpected state after show: %+v", st)
	}
	if err := w.Show(st.Previous); err != nil {
		t.Fatalf("Show back failed: %v", err)
	}
	st = mustState(t, w)
	if st.Current != "a" {
		t.Fatalf("current = %s, want a", st.Current)
	}
	if diff := cmp.Diff([]string{"a"}, st.Activated); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]EventKind{EventInit, EventNext, EventBack}, kinds); diff != "" {
		t.Fatalf("event kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestShowUnknownStep(t *testing.T) {
	w := New(newForm("a", "b"), Capabilities{})
	mustInit(t, w, DefaultOptions())
	if err := w.Show("zzz"); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func branchForm() *Form {
	return &Form{
		Name: "branch",
		Steps: []*Step{
			{ID: "A", Fields: []*Field{
				textField("name"),
				{Name: "go_b", Kind: KindCheckbox, Value: "B", Classes: []string{"link"}},
			}},
			{ID: "B", Fields: []*Field{textField("extra")}},
		},
	}
}

func TestBranchControlUnchecked(t *testing.T) {
	form := branchForm()
	var kinds []EventKind
	opts := DefaultOptions()
	opts.OnEvent = func(ev Event) { kinds = append(kinds, ev.Kind) }
	w := New(form, Capabilities{})
	mustInit(t, w, opts)

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	st := mustState(t, w)
	if st.Current != "A" {
		t.Fatalf("current = %s, want A", st.Current)
	}
	if kinds[len(kinds)-1] != EventRerender {
		t.Fatalf("expected rerender event, got %v", kinds)
	}

	form.Steps[0].Field("go_b").Checked = true
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "B" {
		t.Fatalf("current = %s, want B", st.Current)
	}
}

func TestBranchControlSkipsSteps(t *testing.T) {
	form := newForm("start", "user", "group", "confirm")
	form.Steps[0].Fields = append(form.Steps[0].Fields, &Field{
		Name:    "kind",
		Kind:    KindRadio,
		Value:   "group",
		Options: []Choice{{Label: "User", Value: "user"}, {Label: "Group", Value: "group"}},
		Classes: []string{"link"},
	})
	w := New(form, Capabilities{})
	mustInit(t, w, DefaultOptions())
	_ = w.Next()
	if st := mustState(t, w); st.Current != "group" {
		t.Fatalf("current = %s, want group", st.Current)
	}
	_ = w.Back()
	if st := mustState(t, w); st.Current != "start" {
		t.Fatalf("current = %s, want start", st.Current)
	}
}

func TestBranchControlUnknownTarget(t *testing.T) {
	form := branchForm()
	link := form.Steps[0].Field("go_b")
	link.Checked = true
	link.Value = "nowhere"
	w := New(form, Capabilities{})
	mustInit(t, w, DefaultOptions())
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "A" {
		t.Fatalf("current = %s, want A", st.Current)
	}
}

func TestValidationRefusesAdvance(t *testing.T) {
	form := newForm("a", "b")
	form.Steps[0].Fields = append(form.Steps[0].Fields, textField("email"))
	v := &fakeValidator{invalid: map[string]bool{"email": true}}
	opts := DefaultOptions()
	opts.ValidationEnabled = true
	w := New(form, Capabilities{Validator: v})
	if err := w.Init(opts, "rules", nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if v.config != "rules" {
		t.Fatalf("validation config not passed through: %v", v.config)
	}

	err := w.Next()
	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "email" {
		t.Fatalf("focused field = %q, want email", verr.Field)
	}
	st := mustState(t, w)
	if st.Current != "a" || st.Focus != "email" || len(st.Activated) != 1 {
		t.Fatalf("unexpected state after refused next: %+v", st)
	}

	v.invalid = nil
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "b" {
		t.Fatalf("current = %s, want b", st.Current)
	}
}

func TestMissingCapabilitiesDegrade(t *testing.T) {
	var diags []string
	opts := DefaultOptions()
	opts.ValidationEnabled = true
	opts.HistoryEnabled = true
	opts.RemoteChecks = map[string]RemoteCheck{"a": {URL: "/check"}}
	w := New(newForm("a", "b"), Capabilities{Reporter: ReporterFunc(func(msg string) { diags = append(diags, msg) })})
	if err := w.Init(opts, nil, &SubmitConfig{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	st := mustState(t, w)
	if st.Options.ValidationEnabled || st.Options.HistoryEnabled || len(st.Options.RemoteChecks) != 0 {
		t.Fatalf("options should be degraded: %+v", st.Options)
	}
	if len(diags) != 4 {
		t.Fatalf("expected four diagnostics, got %v", diags)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next should still work: %v", err)
	}
}

func TestDisableInputFields(t *testing.T) {
	form := newForm("a", "b", "c")
	w := New(form, Capabilities{})
	mustInit(t, w, DefaultOptions())

	check := func(visible string) {
		t.Helper()
		for _, s := range form.Steps {
			if s.ID == visible {
				if s.Hidden || s.Disabled() {
					t.Fatalf("visible step %s is hidden=%v disabled=%v", s.ID, s.Hidden, s.Disabled())
				}
				continue
			}
			if !s.Hidden || !s.Disabled() {
				t.Fatalf("inactive step %s is hidden=%v disabled=%v", s.ID, s.Hidden, s.Disabled())
			}
		}
	}
	check("a")
	_ = w.Next()
	check("b")
	_ = w.Back()
	check("a")

	opts := DefaultOptions()
	opts.DisableInputFields = false
	form2 := newForm("x", "y")
	w2 := New(form2, Capabilities{})
	mustInit(t, w2, opts)
	if form2.Steps[1].Disabled() {
		t.Fatal("fields should stay enabled when DisableInputFields is off")
	}
}

func TestSubmissionSendsVisitedSteps(t *testing.T) {
	form := newForm("start", "user", "group", "confirm")
	form.Steps[0].Fields[0].Value = "s"
	form.Steps[1].Fields[0].Value = "u"
	form.Steps[2].Fields[0].Value = "g"
	form.Steps[3].Fields[0].Value = "c"
	form.Steps[0].Fields = append(form.Steps[0].Fields, &Field{
		Name: "kind", Kind: KindRadio, Value: "group", Classes: []string{"link"},
	})
	form.Steps[2].Fields = append(form.Steps[2].Fields,
		&Field{Name: "admin", Kind: KindCheckbox, Checked: true},
		&Field{Name: "quota", Kind: KindCheckbox},
	)
	sub := &fakeSubmitter{}
	w := New(form, Capabilities{Submitter: sub})
	mustInit(t, w, DefaultOptions())

	_ = w.Next()
	_ = w.Next()
	if st := mustState(t, w); st.Current != "confirm" {
		t.Fatalf("current = %s, want confirm", st.Current)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	want := url.Values{
		"start_name":   {"s"},
		"kind":         {"group"},
		"group_name":   {"g"},
		"admin":        {"on"},
		"confirm_name": {"c"},
	}
	if diff := cmp.Diff(want, sub.calls[0].Values); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []string{"start", "group", "confirm"} {
		if form.Step(id).Disabled() {
			t.Fatalf("visited step %s should be re-enabled", id)
		}
	}
	if !form.Step("user").Disabled() {
		t.Fatal("unvisited step should stay disabled")
	}
}

func TestAsyncSubmission(t *testing.T) {
	sched := &deferredScheduler{}
	sub := &fakeSubmitter{data: []byte("created")}
	var got []byte
	w := New(newForm("a", "b"), Capabilities{Submitter: sub, Scheduler: sched})
	if err := w.Init(DefaultOptions(), nil, &SubmitConfig{Success: func(data []byte) { got = data }}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	_ = w.Next()
	if err := w.Next(); err != nil {
		t.Fatalf("async submit failed: %v", err)
	}
	st := mustState(t, w)
	if !st.Busy || !st.Buttons.Next.Disabled {
		t.Fatalf("controls should be disabled while submitting: %+v", st.Buttons)
	}
	if err := w.Next(); !errors.Is(err, ErrControlsDisabled) {
		t.Fatalf("expected ErrControlsDisabled, got %v", err)
	}
	if err := w.Back(); !errors.Is(err, ErrControlsDisabled) {
		t.Fatalf("expected ErrControlsDisabled, got %v", err)
	}

	sched.run()
	if string(got) != "created" {
		t.Fatalf("success data = %q", got)
	}
	st = mustState(t, w)
	if st.Busy || !st.Submitted || st.Current != "b" {
		t.Fatalf("unexpected state after submission: %+v", st)
	}
	if len(sub.calls) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.calls))
	}
}

func TestAsyncSubmissionFailure(t *testing.T) {
	boom := errors.New("boom")
	sub := &fakeSubmitter{err: boom}
	var failed error
	var kinds []EventKind
	opts := DefaultOptions()
	opts.OnEvent = func(ev Event) { kinds = append(kinds, ev.Kind) }
	w := New(newForm("a"), Capabilities{Submitter: sub})
	if err := w.Init(opts, nil, &SubmitConfig{Failure: func(err error) { failed = err }}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := w.Next(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !errors.Is(failed, boom) {
		t.Fatalf("failure callback got %v", failed)
	}
	if !slices.Contains(kinds, EventSubmitError) {
		t.Fatalf("expected submit_error event, got %v", kinds)
	}
	if st := mustState(t, w); st.Submitted || st.Busy {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestRemoteCheckGatesNavigation(t *testing.T) {
	form := newForm("a", "b")
	form.Steps[0].Fields[0].Value = "alice"
	remote := &fakeRemote{data: []byte("taken")}
	opts := DefaultOptions()
	opts.RemoteChecks = map[string]RemoteCheck{
		"a": {URL: "/users/check", Success: func(data []byte) bool { return string(data) == "ok" }},
	}
	w := New(form, Capabilities{Remote: remote})
	mustInit(t, w, opts)

	if err := w.Next(); !errors.Is(err, ErrRemoteRejected) {
		t.Fatalf("expected ErrRemoteRejected, got %v", err)
	}
	if st := mustState(t, w); st.Current != "a" || st.Busy {
		t.Fatalf("unexpected state after rejection: %+v", st)
	}
	if remote.values.Get("a_name") != "alice" {
		t.Fatalf("remote got values %v", remote.values)
	}

	remote.data = []byte("ok")
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "b" {
		t.Fatalf("current = %s, want b", st.Current)
	}
}

func TestRemoteCheckWithoutPredicate(t *testing.T) {
	remote := &fakeRemote{}
	opts := DefaultOptions()
	opts.RemoteChecks = map[string]RemoteCheck{"a": {URL: "/check"}}
	w := New(newForm("a", "b"), Capabilities{Remote: remote})
	mustInit(t, w, opts)
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "b" {
		t.Fatalf("current = %s, want b", st.Current)
	}

	remote.err = errors.New("503")
	_ = w.Back()
	if err := w.Next(); err == nil {
		t.Fatal("expected remote error to propagate")
	}
}

func TestTransitionOrderAndControls(t *testing.T) {
	anim := &deferredAnimator{}
	opts := DefaultOptions()
	opts.FocusFirstInput = true
	w := New(newForm("a", "b"), Capabilities{Animator: anim})
	mustInit(t, w, opts)
	if len(anim.played) != 0 {
		t.Fatalf("initial display should not animate: %+v", anim.played)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if len(anim.played) != 1 || anim.played[0].Phase != PhaseOut || anim.played[0].Step != "a" {
		t.Fatalf("expected only the out animation to start: %+v", anim.played)
	}
	if err := w.Next(); !errors.Is(err, ErrControlsDisabled) {
		t.Fatalf("expected ErrControlsDisabled mid-transition, got %v", err)
	}
	st := mustState(t, w)
	if !st.Buttons.Next.Disabled || !st.Buttons.Back.Disabled {
		t.Fatal("buttons should be disabled mid-transition")
	}

	anim.flush()
	want := []Animation{
		{Step: "a", Effect: "fade", Phase: PhaseOut, Duration: 400 * time.Millisecond},
		{Step: "b", Effect: "fade", Phase: PhaseIn, Duration: 400 * time.Millisecond},
	}
	if diff := cmp.Diff(want, anim.played); diff != "" {
		t.Fatalf("animations mismatch (-want +got):\n%s", diff)
	}
	st = mustState(t, w)
	if st.Busy || st.Buttons.Next.Disabled || st.Buttons.Back.Hidden {
		t.Fatalf("controls should be back after transition: %+v", st.Buttons)
	}
	if st.Focus != "b_name" {
		t.Fatalf("focus = %q, want b_name", st.Focus)
	}
}

func TestButtonsFollowPosition(t *testing.T) {
	form := newForm("a", "b")
	opts := DefaultOptions()
	opts.Labels = Labels{Next: "Continue", Back: "Previous", Submit: "Finish"}
	opts.ShowBackOnFirstStep = true
	w := New(form, Capabilities{})
	mustInit(t, w, opts)

	st := mustState(t, w)
	if st.Buttons.Next.Label != "Continue" || st.Buttons.Back.Label != "Previous" || st.Buttons.Back.Hidden {
		t.Fatalf("unexpected buttons on first step: %+v", st.Buttons)
	}
	_ = w.Next()
	if st := mustState(t, w); st.Buttons.Next.Label != "Finish" {
		t.Fatalf("next label = %q, want Finish", st.Buttons.Next.Label)
	}
}

func TestDestroy(t *testing.T) {
	form := newForm("a", "b", "c")
	form.Buttons = Buttons{Next: Button{Label: "Save"}, Back: Button{Label: "Clear"}}
	w := New(form, Capabilities{})
	mustInit(t, w, DefaultOptions())
	_ = w.Next()

	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if form.Buttons.Next.Label != "Save" || form.Buttons.Back.Label != "Clear" {
		t.Fatalf("labels not restored: %+v", form.Buttons)
	}
	for _, s := range form.Steps {
		if s.Hidden || s.Disabled() {
			t.Fatalf("step %s should be visible and enabled after destroy", s.ID)
		}
	}
	if err := w.Next(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := w.State(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := w.Destroy(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	mustInit(t, w, DefaultOptions())
	if st := mustState(t, w); st.Current != "a" || len(st.Activated) != 1 {
		t.Fatalf("re-init should start over: %+v", st)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	w := New(newForm("a", "b"), Capabilities{})
	mustInit(t, w, DefaultOptions())
	_ = w.Next()
	opts := DefaultOptions()
	opts.Labels.Next = "Other"
	mustInit(t, w, opts)
	st := mustState(t, w)
	if st.Current != "b" || st.Options.Labels.Next != "Next" {
		t.Fatalf("second Init should not change anything: %+v", st)
	}
}

func TestInitWithoutSteps(t *testing.T) {
	w := New(&Form{}, Capabilities{})
	if err := w.Init(DefaultOptions(), nil, nil); !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	w := New(newForm("a", "b"), Capabilities{})
	mustInit(t, w, DefaultOptions())
	st := mustState(t, w)
	st.Activated[0] = "mutated"
	st.Buttons.Next.Label = "mutated"
	again := mustState(t, w)
	if again.Activated[0] != "a" || again.Buttons.Next.Label != "Next" {
		t.Fatalf("snapshot mutation leaked into wizard: %+v", again)
	}
}

func TestRadioBranchFollowsSelectedValue(t *testing.T) {
	form := newForm("a", "b", "c")
	kind := &Field{
		Name:    "kind",
		Kind:    KindRadio,
		Options: []Choice{{Label: "B", Value: "b"}, {Label: "C", Value: "c"}},
		Classes: []string{"link"},
	}
	form.Steps[0].Fields = append(form.Steps[0].Fields, kind)
	w := New(form, Capabilities{})
	mustInit(t, w, DefaultOptions())

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "a" {
		t.Fatalf("radio without a selection moved to %s", st.Current)
	}

	// A radio holds its selected choice in Value; Checked is not consulted.
	kind.Value = "c"
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if st := mustState(t, w); st.Current != "c" {
		t.Fatalf("current = %s, want c", st.Current)
	}
}

func TestRemoteCheckGatesSubmission(t *testing.T) {
	form := newForm("a", "b")
	remote := &fakeRemote{data: []byte("nope")}
	sub := &fakeSubmitter{}
	opts := DefaultOptions()
	opts.RemoteChecks = map[string]RemoteCheck{
		"b": {URL: "/users/check", Success: func(data []byte) bool { return string(data) == "ok" }},
	}
	w := New(form, Capabilities{Remote: remote, Submitter: sub})
	mustInit(t, w, opts)

	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	form.Steps[1].Fields[0].Value = "bob"
	if err := w.Next(); !errors.Is(err, ErrRemoteRejected) {
		t.Fatalf("expected ErrRemoteRejected, got %v", err)
	}
	if remote.values.Get("b_name") != "bob" {
		t.Fatalf("remote got values %v", remote.values)
	}
	if len(sub.calls) != 0 {
		t.Fatalf("rejected step was submitted %d times", len(sub.calls))
	}
	if st := mustState(t, w); st.Submitted || st.Current != "b" {
		t.Fatalf("unexpected state after rejection: %+v", st)
	}

	remote.data = []byte("ok")
	if err := w.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if len(sub.calls) != 1 || !mustState(t, w).Submitted {
		t.Fatalf("expected one submission after the check passed, got %d", len(sub.calls))
	}
}

func TestRemoteCheckGatesAsyncSubmission(t *testing.T) {
	sched := &deferredScheduler{}
	remote := &fakeRemote{err: errors.New("503")}
	sub := &fakeSubmitter{data: []byte("saved")}
	var saved []byte
	opts := DefaultOptions()
	opts.RemoteChecks = map[string]RemoteCheck{"a": {URL: "/check"}}
	w := New(newForm("a"), Capabilities{Remote: remote, Submitter: sub, Scheduler: sched})
	if err := w.Init(opts, nil, &SubmitConfig{Success: func(data []byte) { saved = data }}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	_ = w.Next()
	sched.run()
	if len(sub.calls) != 0 {
		t.Fatalf("failed check still submitted")
	}

	remote.err = nil
	_ = w.Next()
	sched.run()
	if string(saved) != "saved" || len(sub.calls) != 1 {
		t.Fatalf("expected submission after check, saved=%q calls=%d", saved, len(sub.calls))
	}
}
