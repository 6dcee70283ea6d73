package ui

import "strings"

// CN joins class names, skipping empty entries.
func CN(classes ...string) string {
	var result []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			result = append(result, c)
		}
	}
	return strings.Join(result, " ")
}

// Choice is one selectable option of a Select or CheckboxGroup.
type Choice struct {
	Value    string
	Label    string
	Disabled bool
}

// ChoiceValue keys a Choice for keyed bindings.
func ChoiceValue(c Choice) string {
	return c.Value
}
