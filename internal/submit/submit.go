// Package submit transmits completed wizard forms.
package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tturner/lingo/internal/ajax"
	"github.com/tturner/lingo/internal/wizard"
)

var ErrNoAction = errors.New("form has no action")

// HTTP posts the form to its action through an ajax client, so error pages
// come back as errors.
type HTTP struct {
	client *ajax.Client
}

// NewHTTP returns an HTTP submitter.
func NewHTTP(client *ajax.Client) *HTTP {
	return &HTTP{client: client}
}

// Submit implements wizard.Submitter.
func (h *HTTP) Submit(ctx context.Context, sub wizard.Submission) ([]byte, error) {
	if strings.TrimSpace(sub.Action) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAction, sub.Form)
	}
	method := strings.ToUpper(sub.Method)
	if method == "" {
		method = http.MethodPost
	}
	return h.client.Do(ctx, method, sub.Action, sub.Values)
}

// Printer writes the submission as YAML instead of sending it. It backs
// dry runs and headless scripts without a server.
type Printer struct {
	W io.Writer
}

type printed struct {
	Form   string              `yaml:"form"`
	Action string              `yaml:"action,omitempty"`
	Method string              `yaml:"method,omitempty"`
	Values map[string][]string `yaml:"values"`
}

// Submit implements wizard.Submitter.
func (p Printer) Submit(_ context.Context, sub wizard.Submission) ([]byte, error) {
	// yaml.v3 writes map keys in sorted order.
	out := printed{
		Form:   sub.Form,
		Action: sub.Action,
		Method: strings.ToUpper(sub.Method),
		Values: sub.Values,
	}
	if out.Values == nil {
		out.Values = map[string][]string{}
	}
	data, err := yaml.Marshal(map[string]printed{"submission": out})
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	if _, err := p.W.Write(data); err != nil {
		return nil, fmt.Errorf("write submission: %w", err)
	}
	return data, nil
}
