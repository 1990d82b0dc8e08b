package model

import (
	"strings"

	"github.com/goliatone/go-fieldsets/pkg/naming"
)

// typeHint maps a name fragment to the field type it suggests. Hints are
// checked in order so more specific fragments win over generic ones.
type typeHint struct {
	fragment string
	kind     FieldType
}

var defaultTypeHints = []typeHint{
	{"EMAIL", FieldTypeEmail},
	{"DATE", FieldTypeDate},
	{"PHONE", FieldTypePhone},
	{"MOBILE", FieldTypePhone},
	{"FAX", FieldTypePhone},
	{"TEL", FieldTypePhone},
	{"AMOUNT", FieldTypeNumber},
	{"PRICE", FieldTypeNumber},
	{"NUMBER", FieldTypeNumber},
	{"QTY", FieldTypeNumber},
	{"QUANTITY", FieldTypeNumber},
	{"COUNT", FieldTypeNumber},
	{"ADDRESS", FieldTypeTextarea},
	{"DESCRIPTION", FieldTypeTextarea},
	{"NOTES", FieldTypeTextarea},
	{"COMMENTS", FieldTypeTextarea},
}

// InferType inspects a canonical variable name for known fragments and
// returns the suggested input type, defaulting to plain text.
func InferType(name string) FieldType {
	upper := strings.ToUpper(name)
	for _, hint := range defaultTypeHints {
		if strings.Contains(upper, hint.fragment) {
			return hint.kind
		}
	}
	return FieldTypeText
}

// FieldFromVariable seeds a Field from an extracted variable name, deriving
// the label and inferring the type with the default rules.
func FieldFromVariable(name string) Field {
	canonical := naming.Normalize(name)
	return Field{
		Name:  canonical,
		Label: naming.Label(canonical),
		Type:  InferType(canonical),
	}
}
