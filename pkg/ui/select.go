package ui

import (
	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/stream"
)

// SelectOption configures a Select widget.
type SelectOption func(*selectConfig)

type selectConfig struct {
	name      string
	className string
	disabled  bool
	required  bool
}

// SelectName sets the form field name.
func SelectName(name string) SelectOption {
	return func(c *selectConfig) {
		c.name = name
	}
}

// SelectClass adds CSS classes.
func SelectClass(className string) SelectOption {
	return func(c *selectConfig) {
		c.className = className
	}
}

// SelectDisabled sets the disabled state.
func SelectDisabled(disabled bool) SelectOption {
	return func(c *selectConfig) {
		c.disabled = disabled
	}
}

// SelectRequired sets the required state.
func SelectRequired(required bool) SelectOption {
	return func(c *selectConfig) {
		c.required = required
	}
}

// Select renders a select element mirroring the store. The change event
// carries the chosen value and is written back to the store.
func Select(store *stream.Store[string], choices []Choice, opts ...SelectOption) *dom.Node {
	cfg := selectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	current := store.Get()
	args := []any{
		dom.Class(CN("select", cfg.className)),
		dom.Disabled(cfg.disabled),
		dom.Required(cfg.required),
		dom.On("change", func(value string) {
			store.Update(value)
		}),
	}
	if cfg.name != "" {
		args = append(args, dom.Name(cfg.name))
	}
	for _, c := range choices {
		args = append(args, dom.Option(
			dom.Value(c.Value),
			dom.Selected(c.Value == current),
			dom.Disabled(c.Disabled),
			c.Label,
		))
	}

	return dom.Select(args...)
}
