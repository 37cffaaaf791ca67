// Package valueeditor picks the input control for one query-builder rule.
//
// Render is a pure function of the rule's field type, operator and value. It
// returns one of a closed set of Control variants, each wired to the single
// OnChange callback of the rule; Bind turns a Control into terminal form
// fields.
package valueeditor

import (
	"fmt"
	"strings"
)

// FieldType is the declared editor type of a field.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multiselect"
	TypeTextArea    FieldType = "textarea"
	TypeSwitch      FieldType = "switch"
	TypeCheckbox    FieldType = "checkbox"
	TypeRadio       FieldType = "radio"
)

// Operators understood by Render. Any other operator falls through to the
// per-type dispatch.
const (
	OpNull       = "null"
	OpNotNull    = "notNull"
	OpBetween    = "between"
	OpNotBetween = "notBetween"
	OpIn         = "in"
	OpNotIn      = "notIn"
)

// Option is one choice of a select or radio field.
type Option struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// Props is everything the editor needs to draw a rule's value.
type Props struct {
	Type        FieldType
	Operator    string
	Value       any
	Options     []Option
	InputType   string
	Placeholder string
	Title       string
	Separator   string
	Disabled    bool

	// Extra is passed through untouched to whichever control is chosen.
	Extra map[string]any

	// OnChange receives every edit. Range halves arrive as the whole
	// two-element value.
	OnChange func(any)

	ListsAsArrays bool
	RuleID        string
	TestID        string
}

func (p Props) emit(v any) {
	if p.OnChange != nil {
		p.OnChange(v)
	}
}

// ValueAsArray returns value as a list. Strings are split on commas.
func ValueAsArray(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = stringValue(item)
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return []string{stringValue(v)}
	}
}

// MultiValue returns a copy of arr with index i set to v. The result is a
// list when listsAsArrays is set and a comma-joined string otherwise.
func MultiValue(arr []string, i int, v string, listsAsArrays bool) any {
	n := len(arr)
	if n < 2 {
		n = 2
	}
	if i >= n {
		n = i + 1
	}
	out := make([]string, n)
	copy(out, arr)
	out[i] = v

	if listsAsArrays {
		return out
	}
	return strings.Join(out, ",")
}

// FirstOption returns the name of the first option, or "" when there is none.
func FirstOption(options []Option) string {
	if len(options) == 0 {
		return ""
	}
	return options[0].Name
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func boolValue(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return true
	}
}
