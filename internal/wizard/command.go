package wizard

import (
	"fmt"
	"strings"
)

// Command is one verb of the wizard command surface.
type Command struct {
	Verb   string
	Target string
}

func (c Command) String() string {
	if c.Target == "" {
		return c.Verb
	}
	return c.Verb + ":" + c.Target
}

// ParseCommand reads "next", "back", "show:<id>" (or "show <id>"),
// "reset", "destroy", "state" and "init". The empty string is "init".
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	verb, target, _ := strings.Cut(s, ":")
	if target == "" {
		verb, target, _ = strings.Cut(s, " ")
	}
	cmd := Command{Verb: strings.ToLower(strings.TrimSpace(verb)), Target: strings.TrimSpace(target)}
	if cmd.Verb == "" {
		cmd.Verb = "init"
	}
	switch cmd.Verb {
	case "show":
		if cmd.Target == "" {
			return Command{}, fmt.Errorf("show needs a step id")
		}
	case "init", "next", "back", "reset", "destroy", "state":
		if cmd.Target != "" {
			return Command{}, fmt.Errorf("%s takes no argument", cmd.Verb)
		}
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Verb)
	}
	return cmd, nil
}

// Do runs one command and returns the resulting snapshot. Every verb but
// destroy initializes the wizard with DefaultOptions first when it is not
// initialized yet. After destroy the returned snapshot is empty.
func (w *Wizard) Do(cmd Command) (State, error) {
	if !w.initialized && cmd.Verb != "destroy" {
		if err := w.Init(DefaultOptions(), nil, nil); err != nil {
			return State{}, err
		}
	}
	var err error
	switch cmd.Verb {
	case "init", "state":
	case "next":
		err = w.Next()
	case "back":
		err = w.Back()
	case "show":
		err = w.Show(cmd.Target)
	case "reset":
		err = w.Reset()
	case "destroy":
		return State{}, w.Destroy()
	default:
		return State{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Verb)
	}
	return w.snapshot(), err
}
