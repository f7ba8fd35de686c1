package wizard

import "fmt"

// transition moves from one step to another. Controls stay disabled until
// the incoming animation finishes; the outgoing step is hidden before the
// incoming one is revealed.
func (w *Wizard) transition(fromID, toID string, after func()) {
	from := w.form.Step(fromID)
	to := w.form.Step(toID)
	w.disableControls()

	if w.opts.DisableInputFields {
		from.setDisabled(true)
	}
	to.setDisabled(false)

	out := Animation{Step: fromID, Effect: w.opts.OutAnimation, Phase: PhaseOut, Duration: w.opts.OutDuration}
	if w.opts.HistoryEnabled {
		out.Duration = 0
	}
	w.animator().Animate(out, func() {
		if !w.initialized {
			return
		}
		from.Hidden = true
		to.Hidden = false
		in := Animation{Step: toID, Effect: w.opts.InAnimation, Phase: PhaseIn, Duration: w.opts.InDuration}
		w.animator().Animate(in, func() {
			if !w.initialized {
				return
			}
			w.finish(to)
			if after != nil {
				after()
			}
		})
	})
}

// rerender replays the entry animation of the current step.
func (w *Wizard) rerender() {
	step := w.form.Step(w.current)
	w.disableControls()
	in := Animation{Step: step.ID, Effect: w.opts.InAnimation, Phase: PhaseIn, Duration: w.opts.InDuration}
	w.animator().Animate(in, func() {
		if !w.initialized {
			return
		}
		w.finish(step)
		w.emit(w.event(EventRerender))
	})
}

func (w *Wizard) finish(step *Step) {
	if w.opts.FocusFirstInput {
		w.focus = ""
		if f := step.FirstInput(); f != nil {
			w.focus = f.Name
		}
	}
	w.busy = false
	w.updateButtons()
}

func (w *Wizard) disableControls() {
	w.busy = true
	w.form.Buttons.Next.Disabled = true
	w.form.Buttons.Back.Disabled = true
}

func (w *Wizard) updateButtons() {
	b := &w.form.Buttons
	b.Next.Disabled = false
	b.Back.Disabled = false
	if w.isLast {
		b.Next.Label = w.opts.Labels.Submit
	} else {
		b.Next.Label = w.opts.Labels.Next
	}
	b.Back.Label = w.opts.Labels.Back
	b.Back.Hidden = len(w.activated) <= 1 && !w.opts.ShowBackOnFirstStep
}

// submit re-enables every visited step so the whole accumulated form is
// sent, then submits either through the scheduler (ajax-style, when a
// SubmitConfig was given) or synchronously.
func (w *Wizard) submit() error {
	for _, id := range w.activated {
		w.form.Step(id).setDisabled(false)
	}
	if w.caps.Submitter == nil {
		w.diagnose("form cannot be submitted: no submitter available")
		return ErrNoSubmitter
	}
	sub := Submission{
		Form:   w.form.Name,
		Action: w.form.Action,
		Method: w.form.Method,
		Values: w.form.Values(w.activated),
	}
	w.log.Verbose("submitting %s with %d fields", w.form.Name, len(sub.Values))

	if w.submission == nil {
		_, err := w.caps.Submitter.Submit(w.ctx, sub)
		if err != nil {
			w.failSubmit(err)
			return err
		}
		w.submitted = true
		w.emit(w.event(EventSubmit))
		return nil
	}

	cfg := w.submission
	var result error
	w.disableControls()
	w.scheduler().Go(func() func() {
		data, err := w.caps.Submitter.Submit(w.ctx, sub)
		return func() {
			if !w.initialized {
				return
			}
			w.busy = false
			w.updateButtons()
			if err != nil {
				result = err
				w.failSubmit(err)
				if cfg.Failure != nil {
					cfg.Failure(err)
				}
				return
			}
			w.submitted = true
			w.emit(w.event(EventSubmit))
			if cfg.Success != nil {
				cfg.Success(data)
			}
		}
	})
	return result
}

func (w *Wizard) failSubmit(err error) {
	w.log.Error("submit %s: %v", w.form.Name, err)
	ev := w.event(EventSubmitError)
	ev.Err = err
	w.emit(ev)
}

// remoteCheck asks the server about the current step and only submits or
// navigates when it agrees.
func (w *Wizard) remoteCheck(step *Step, check RemoteCheck) error {
	values := step.Values()
	var result error
	w.disableControls()
	w.scheduler().Go(func() func() {
		data, err := w.caps.Remote.Check(w.ctx, check, values)
		return func() {
			if !w.initialized {
				return
			}
			w.busy = false
			w.updateButtons()
			if err == nil && check.Success != nil && !check.Success(data) {
				err = fmt.Errorf("%w: %s", ErrRemoteRejected, step.ID)
			}
			if err != nil {
				result = err
				w.log.Info("remote check for step %s: %v", step.ID, err)
				ev := w.event(EventRemoteError)
				ev.Err = err
				w.emit(ev)
				return
			}
			result = w.proceed()
		}
	})
	return result
}
