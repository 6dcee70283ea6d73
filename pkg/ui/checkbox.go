package ui

import (
	"github.com/bindkit-dev/bindkit/pkg/bind"
	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/stream"
)

// CheckboxOption configures a Checkbox widget.
type CheckboxOption func(*checkboxConfig)

type checkboxConfig struct {
	name      string
	label     string
	className string
	disabled  bool
}

// CheckboxName sets the form field name.
func CheckboxName(name string) CheckboxOption {
	return func(c *checkboxConfig) {
		c.name = name
	}
}

// CheckboxLabel wraps the checkbox in a label element.
func CheckboxLabel(label string) CheckboxOption {
	return func(c *checkboxConfig) {
		c.label = label
	}
}

// CheckboxClass adds CSS classes.
func CheckboxClass(className string) CheckboxOption {
	return func(c *checkboxConfig) {
		c.className = className
	}
}

// CheckboxDisabled sets the disabled state.
func CheckboxDisabled(disabled bool) CheckboxOption {
	return func(c *checkboxConfig) {
		c.disabled = disabled
	}
}

// Checkbox renders a checkbox mirroring a boolean store. The change
// event carries "true" or "false" and is written back to the store.
func Checkbox(store *stream.Store[bool], opts ...CheckboxOption) *dom.Node {
	cfg := checkboxConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	input := dom.Input(
		dom.Type("checkbox"),
		dom.Class(CN("checkbox", cfg.className)),
		dom.Checked(store.Get()),
		dom.Disabled(cfg.disabled),
		checkboxName(cfg.name),
		dom.On("change", func(value string) {
			store.Update(value == "true")
		}),
	)

	if cfg.label == "" {
		return input
	}
	return dom.Label(
		dom.Class("checkbox-label"),
		input,
		dom.Span(cfg.label),
	)
}

func checkboxName(name string) dom.Attr {
	if name == "" {
		return dom.Attr{}
	}
	return dom.Name(name)
}

// CheckboxGroupOption configures a CheckboxGroup widget.
type CheckboxGroupOption func(*checkboxGroupConfig)

type checkboxGroupConfig struct {
	legend    string
	className string
	bindOpts  []bind.Option[Choice]
}

// GroupLegend sets the fieldset legend.
func GroupLegend(legend string) CheckboxGroupOption {
	return func(c *checkboxGroupConfig) {
		c.legend = legend
	}
}

// GroupClass adds CSS classes to the fieldset.
func GroupClass(className string) CheckboxGroupOption {
	return func(c *checkboxGroupConfig) {
		c.className = className
	}
}

// GroupBindOptions passes options through to the underlying Bind call
// (observer, metrics, tracer).
func GroupBindOptions(opts ...bind.Option[Choice]) CheckboxGroupOption {
	return func(c *checkboxGroupConfig) {
		c.bindOpts = append(c.bindOpts, opts...)
	}
}

// CheckboxGroup renders a live fieldset of checkboxes, one per choice.
//
// The choice list is a keyed binding: choices can be added, removed, and
// reordered at runtime and retained rows keep their rendered nodes. The
// selected store holds the values currently checked; toggling a row
// updates it, and the row's checked attribute follows.
//
// The caller owns the returned handle and must Dispose it when the
// widget is unmounted.
func CheckboxGroup(choices *stream.Source[[]Choice], selected *stream.Store[[]string], opts ...CheckboxGroupOption) (*dom.Node, *bind.MountHandle, error) {
	cfg := checkboxGroupConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	fieldset := dom.Fieldset(dom.Class(CN("checkbox-group", cfg.className)))
	if cfg.legend != "" {
		fieldset.Children = append(fieldset.Children, dom.Legend(cfg.legend))
	}
	region := dom.NewRegion(fieldset)

	render := func(choice Choice, _ *stream.Source[Choice]) (*dom.Node, error) {
		var input *dom.Node
		input = dom.Input(
			dom.Type("checkbox"),
			dom.Value(choice.Value),
			dom.Checked(isSelected(selected.Get(), choice.Value)),
			dom.Disabled(choice.Disabled),
			dom.On("change", func(value string) {
				on := value == "true"
				selected.Handle(func(current []string) []string {
					return toggleValue(current, choice.Value, on)
				})
				if on {
					input.SetAttr("checked", "checked")
				} else {
					delete(input.Attrs, "checked")
				}
			}),
		)
		return dom.Label(
			dom.Class("checkbox-label"),
			dom.AttrOf("data-value", choice.Value),
			input,
			dom.Span(choice.Label),
		), nil
	}

	handle, err := bind.EachOf(choices, ChoiceValue).Bind(region, render, cfg.bindOpts...)
	if err != nil {
		return nil, nil, err
	}
	return fieldset, handle, nil
}

func isSelected(selected []string, value string) bool {
	for _, v := range selected {
		if v == value {
			return true
		}
	}
	return false
}

// toggleValue adds or removes value, preserving order and uniqueness.
func toggleValue(current []string, value string, on bool) []string {
	out := make([]string, 0, len(current)+1)
	for _, v := range current {
		if v != value {
			out = append(out, v)
		}
	}
	if on {
		out = append(out, value)
	}
	return out
}
