package ui

import "github.com/bindkit-dev/bindkit/pkg/dom"

// FormControlOption configures a FormControl wrapper.
type FormControlOption func(*formControlConfig)

type formControlConfig struct {
	id        string
	hint      string
	errText   string
	className string
}

// ControlID sets the control's id and wires the label's for attribute.
func ControlID(id string) FormControlOption {
	return func(c *formControlConfig) {
		c.id = id
	}
}

// ControlHint adds help text under the control.
func ControlHint(hint string) FormControlOption {
	return func(c *formControlConfig) {
		c.hint = hint
	}
}

// ControlError adds an error message under the control.
func ControlError(errText string) FormControlOption {
	return func(c *formControlConfig) {
		c.errText = errText
	}
}

// ControlClass adds CSS classes to the wrapper.
func ControlClass(className string) FormControlOption {
	return func(c *formControlConfig) {
		c.className = className
	}
}

// FormControl wraps a widget with a label and optional hint or error
// text.
func FormControl(label string, control *dom.Node, opts ...FormControlOption) *dom.Node {
	cfg := formControlConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.id != "" && control != nil {
		control.SetAttr("id", cfg.id)
	}

	labelArgs := []any{dom.Class("form-label"), label}
	if cfg.id != "" {
		labelArgs = append(labelArgs, dom.For(cfg.id))
	}

	args := []any{
		dom.Class(CN("form-control", cfg.className)),
		dom.Label(labelArgs...),
		control,
	}
	if cfg.hint != "" {
		args = append(args, dom.P(dom.Class("form-hint"), cfg.hint))
	}
	if cfg.errText != "" {
		args = append(args, dom.P(dom.Class("form-error"), cfg.errText))
	}

	return dom.Div(args...)
}
