package valueeditor

// Operator is a comparison offered for a field.
type Operator struct {
	Name  string
	Label string
}

var (
	opEqual      = Operator{Name: "=", Label: "="}
	opNotEqual   = Operator{Name: "!=", Label: "!="}
	opLess       = Operator{Name: "<", Label: "<"}
	opLessEq     = Operator{Name: "<=", Label: "<="}
	opGreater    = Operator{Name: ">", Label: ">"}
	opGreaterEq  = Operator{Name: ">=", Label: ">="}
	opContains   = Operator{Name: "contains", Label: "contains"}
	opBeginsWith = Operator{Name: "beginsWith", Label: "begins with"}
	opEndsWith   = Operator{Name: "endsWith", Label: "ends with"}
	opIn         = Operator{Name: OpIn, Label: "in"}
	opNotIn      = Operator{Name: OpNotIn, Label: "not in"}
	opBetween    = Operator{Name: OpBetween, Label: "between"}
	opNotBetween = Operator{Name: OpNotBetween, Label: "not between"}
	opNull       = Operator{Name: OpNull, Label: "is null"}
	opNotNull    = Operator{Name: OpNotNull, Label: "is not null"}
)

// Operators returns the operators that make sense for a field type.
func Operators(t FieldType) []Operator {
	switch t {
	case TypeSwitch, TypeCheckbox:
		return []Operator{opEqual, opNotEqual, opNull, opNotNull}
	case TypeSelect, TypeRadio:
		return []Operator{opEqual, opNotEqual, opIn, opNotIn, opBetween, opNotBetween, opNull, opNotNull}
	case TypeMultiSelect:
		return []Operator{opIn, opNotIn, opNull, opNotNull}
	case TypeTextArea:
		return []Operator{opEqual, opNotEqual, opContains, opBeginsWith, opEndsWith, opNull, opNotNull}
	default:
		return []Operator{
			opEqual, opNotEqual, opLess, opLessEq, opGreater, opGreaterEq,
			opContains, opBeginsWith, opEndsWith,
			opIn, opNotIn, opBetween, opNotBetween, opNull, opNotNull,
		}
	}
}
