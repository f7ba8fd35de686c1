package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/tturner/lingo/internal/wizard"
)

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// stateYAML renders the wizard snapshot the way `lingo wizard script`
// prints it.
func stateYAML(w *wizard.Wizard) ([]byte, error) {
	st, err := w.State()
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}
