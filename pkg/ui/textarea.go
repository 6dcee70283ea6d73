package ui

import (
	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/stream"
)

// TextareaOption configures a Textarea widget.
type TextareaOption func(*textareaConfig)

type textareaConfig struct {
	name        string
	placeholder string
	rows        int
	className   string
	disabled    bool
	required    bool
}

// TextareaName sets the form field name.
func TextareaName(name string) TextareaOption {
	return func(c *textareaConfig) {
		c.name = name
	}
}

// TextareaPlaceholder sets the placeholder text.
func TextareaPlaceholder(placeholder string) TextareaOption {
	return func(c *textareaConfig) {
		c.placeholder = placeholder
	}
}

// TextareaRows sets the visible row count.
func TextareaRows(rows int) TextareaOption {
	return func(c *textareaConfig) {
		c.rows = rows
	}
}

// TextareaClass adds CSS classes.
func TextareaClass(className string) TextareaOption {
	return func(c *textareaConfig) {
		c.className = className
	}
}

// TextareaDisabled sets the disabled state.
func TextareaDisabled(disabled bool) TextareaOption {
	return func(c *textareaConfig) {
		c.disabled = disabled
	}
}

// TextareaRequired sets the required state.
func TextareaRequired(required bool) TextareaOption {
	return func(c *textareaConfig) {
		c.required = required
	}
}

// Textarea renders a textarea whose content mirrors the store. User
// input flows back into the store through the input event.
func Textarea(store *stream.Store[string], opts ...TextareaOption) *dom.Node {
	cfg := textareaConfig{rows: 3}
	for _, opt := range opts {
		opt(&cfg)
	}

	args := []any{
		dom.Class(CN("textarea", cfg.className)),
		dom.Rows(cfg.rows),
		dom.Disabled(cfg.disabled),
		dom.Required(cfg.required),
		dom.On("input", func(value string) {
			store.Update(value)
		}),
		store.Get(),
	}
	if cfg.name != "" {
		args = append(args, dom.Name(cfg.name))
	}
	if cfg.placeholder != "" {
		args = append(args, dom.Placeholder(cfg.placeholder))
	}

	return dom.Textarea(args...)
}
