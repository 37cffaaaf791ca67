package valueeditor

// ControlKind names a Control variant.
type ControlKind int

const (
	KindSelector ControlKind = iota
	KindTextArea
	KindSwitch
	KindCheckbox
	KindRadioGroup
	KindTextInput
	KindPair
)

func (k ControlKind) String() string {
	switch k {
	case KindSelector:
		return "selector"
	case KindTextArea:
		return "textarea"
	case KindSwitch:
		return "switch"
	case KindCheckbox:
		return "checkbox"
	case KindRadioGroup:
		return "radio"
	case KindTextInput:
		return "input"
	case KindPair:
		return "pair"
	default:
		return "unknown"
	}
}

// Control is the input chosen for a rule. The set of variants is closed.
type Control interface {
	Kind() ControlKind
	base() *Base
}

// Base holds what every control shares.
type Base struct {
	Title       string
	Placeholder string
	Disabled    bool
	Extra       map[string]any
	OnChange    func(any)
}

func (b *Base) base() *Base { return b }

func (b *Base) emit(v any) {
	if b.OnChange != nil {
		b.OnChange(v)
	}
}

// Selector picks one option, or several when Multiple is set. Value is a
// string, or a []string for multi-choice.
type Selector struct {
	Base
	Options  []Option
	Value    any
	Multiple bool
}

func (*Selector) Kind() ControlKind { return KindSelector }

// TextArea is multi-line text.
type TextArea struct {
	Base
	Value string
	Rows  int
}

func (*TextArea) Kind() ControlKind { return KindTextArea }

// Switch is a boolean toggle.
type Switch struct {
	Base
	Checked bool
}

func (*Switch) Kind() ControlKind { return KindSwitch }

// Checkbox is a boolean checkbox bound to its rule.
type Checkbox struct {
	Base
	ID      string
	Checked bool
}

func (*Checkbox) Kind() ControlKind { return KindCheckbox }

// RadioGroup picks one of Options.
type RadioGroup struct {
	Base
	Options []Option
	Value   string
}

func (*RadioGroup) Kind() ControlKind { return KindRadioGroup }

// TextInput is single-line input of kind InputType ("text", "number", ...).
type TextInput struct {
	Base
	InputType string
	Value     string
}

func (*TextInput) Kind() ControlKind { return KindTextInput }

// Pair edits the two halves of a range with a separator drawn between them.
// Each half reports the whole two-element value through the rule's callback.
type Pair struct {
	Base
	From      Control
	To        Control
	Separator string
	TestID    string
}

func (*Pair) Kind() ControlKind { return KindPair }

// Render returns the control for p, or nil when the operator takes no value.
func Render(p Props) Control {
	if p.Operator == OpNull || p.Operator == OpNotNull {
		return nil
	}

	inputType := p.InputType
	if inputType == "" || p.Operator == OpIn || p.Operator == OpNotIn {
		inputType = "text"
	}

	base := Base{
		Title:       p.Title,
		Placeholder: p.Placeholder,
		Disabled:    p.Disabled,
		Extra:       p.Extra,
		OnChange:    p.emit,
	}

	if (p.Operator == OpBetween || p.Operator == OpNotBetween) &&
		(p.Type == TypeSelect || p.Type == TypeText) {
		return renderPair(p, base, inputType)
	}

	switch p.Type {
	case TypeSelect:
		return &Selector{Base: base, Options: p.Options, Value: p.Value}
	case TypeMultiSelect:
		return &Selector{Base: base, Options: p.Options, Value: p.Value, Multiple: true}
	case TypeTextArea:
		return &TextArea{Base: base, Value: stringValue(p.Value), Rows: 2}
	case TypeSwitch:
		return &Switch{Base: base, Checked: boolValue(p.Value)}
	case TypeCheckbox:
		return &Checkbox{Base: base, ID: p.RuleID, Checked: boolValue(p.Value)}
	case TypeRadio:
		return &RadioGroup{Base: base, Options: p.Options, Value: stringValue(p.Value)}
	}

	return &TextInput{Base: base, InputType: inputType, Value: stringValue(p.Value)}
}

// renderPair returns the two halves of a range. Both halves write into one
// shared two-element value, so an edit to one half is kept when the other
// emits.
func renderPair(p Props, base Base, inputType string) *Pair {
	values := ValueAsArray(p.Value)
	current := make([]string, 2)
	copy(current, values)
	half := func(i int) Control {
		b := Base{
			Title:       base.Title,
			Placeholder: base.Placeholder,
			Disabled:    base.Disabled,
			Extra:       base.Extra,
			OnChange: func(v any) {
				current[i] = stringValue(v)
				p.emit(MultiValue(current, i, current[i], p.ListsAsArrays))
			},
		}
		if p.Type == TypeText {
			var v string
			if i < len(values) {
				v = values[i]
			}
			return &TextInput{Base: b, InputType: inputType, Value: v}
		}
		v := FirstOption(p.Options)
		if i < len(values) {
			v = values[i]
		}
		return &Selector{Base: b, Options: p.Options, Value: v}
	}

	return &Pair{
		Base:      base,
		From:      half(0),
		To:        half(1),
		Separator: p.Separator,
		TestID:    p.TestID,
	}
}
