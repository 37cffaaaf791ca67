package valueeditor

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// Binding holds the terminal form fields for a control. Edits land in the
// fields' own storage; Commit forwards them to the control's callbacks.
type Binding struct {
	fields  []huh.Field
	commits []func()
}

// Bind builds form fields for c. A nil control binds nothing.
func Bind(c Control) *Binding {
	b := &Binding{}
	if c != nil {
		b.bind(c)
	}
	return b
}

// Fields returns the form fields in display order.
func (b *Binding) Fields() []huh.Field {
	return b.fields
}

// Empty reports whether there is nothing to ask.
func (b *Binding) Empty() bool {
	return len(b.fields) == 0
}

// Group wraps the fields in a single form group.
func (b *Binding) Group() *huh.Group {
	return huh.NewGroup(b.fields...)
}

// Commit sends the edited values through the control callbacks, in order.
func (b *Binding) Commit() {
	for _, commit := range b.commits {
		commit()
	}
}

func (b *Binding) add(f huh.Field, commit func()) {
	b.fields = append(b.fields, f)
	if commit != nil {
		b.commits = append(b.commits, commit)
	}
}

func (b *Binding) bind(c Control) {
	base := c.base()
	if base.Disabled {
		b.add(huh.NewNote().Title(base.Title).Description(describe(c)), nil)
		return
	}

	switch ctl := c.(type) {
	case *Selector:
		b.bindSelector(ctl)
	case *TextArea:
		value := ctl.Value
		field := huh.NewText().
			Title(ctl.Title).
			Placeholder(ctl.Placeholder).
			Lines(ctl.Rows).
			Value(&value)
		b.add(field, func() { ctl.emit(value) })
	case *Switch:
		checked := ctl.Checked
		field := huh.NewConfirm().
			Title(ctl.Title).
			Affirmative("On").
			Negative("Off").
			Value(&checked)
		b.add(field, func() { ctl.emit(checked) })
	case *Checkbox:
		checked := ctl.Checked
		field := huh.NewConfirm().
			Title(ctl.Title).
			Affirmative("Yes").
			Negative("No").
			Value(&checked)
		b.add(field, func() { ctl.emit(checked) })
	case *RadioGroup:
		value := ctl.Value
		field := huh.NewSelect[string]().
			Title(ctl.Title).
			Options(huhOptions(ctl.Options)...).
			Inline(true).
			Value(&value)
		b.add(field, func() { ctl.emit(value) })
	case *TextInput:
		value := ctl.Value
		field := huh.NewInput().
			Title(ctl.Title).
			Placeholder(ctl.Placeholder).
			Value(&value)
		if ctl.InputType == "number" {
			field = field.Validate(validateNumber)
		}
		b.add(field, func() { ctl.emit(value) })
	case *Pair:
		b.bind(ctl.From)
		if ctl.Separator != "" {
			b.add(huh.NewNote().Description(ctl.Separator), nil)
		}
		b.bind(ctl.To)
	}
}

func (b *Binding) bindSelector(ctl *Selector) {
	options := huhOptions(ctl.Options)
	if ctl.Multiple {
		values := ValueAsArray(ctl.Value)
		field := huh.NewMultiSelect[string]().
			Title(ctl.Title).
			Options(options...).
			Value(&values)
		b.add(field, func() { ctl.emit(values) })
		return
	}

	value := stringValue(ctl.Value)
	field := huh.NewSelect[string]().
		Title(ctl.Title).
		Options(options...).
		Value(&value)
	b.add(field, func() { ctl.emit(value) })
}

func huhOptions(options []Option) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		label := o.Label
		if label == "" {
			label = o.Name
		}
		out = append(out, huh.NewOption(label, o.Name))
	}
	return out
}

func validateNumber(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

// describe renders the current value of a control as text.
func describe(c Control) string {
	switch ctl := c.(type) {
	case *Selector:
		if ctl.Multiple {
			return fmt.Sprint(ValueAsArray(ctl.Value))
		}
		return stringValue(ctl.Value)
	case *TextArea:
		return ctl.Value
	case *Switch:
		return onOff(ctl.Checked)
	case *Checkbox:
		return onOff(ctl.Checked)
	case *RadioGroup:
		return ctl.Value
	case *TextInput:
		return ctl.Value
	case *Pair:
		sep := ctl.Separator
		if sep == "" {
			sep = " "
		}
		return describe(ctl.From) + sep + describe(ctl.To)
	default:
		return ""
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
