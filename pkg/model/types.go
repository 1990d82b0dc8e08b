// Package model defines the fieldset configuration types shared across the
// extraction, grouping, and editing pipeline. The JSON shape of Configuration
// is the exact payload the form service's fieldset endpoint accepts.
package model

// FieldType is the simplified enum for form-friendly input kinds. The type of
// a field is advisory: grouping infers it from the variable name and operators
// can override it freely.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypePhone    FieldType = "phone"
)

// FieldTypes lists every valid field type in presentation order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeDate,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypePhone,
	}
}

// Field models a single editable input inside a fieldset. Name is the
// canonical identifier matching the template variable; everything else is
// optional presentation metadata and omitted from payloads when empty.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        FieldType `json:"type,omitempty"`
}

// Fieldset is a named, ordered group of fields. Field order is significant:
// it drives the presentation order of whatever consumes the configuration.
type Fieldset struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Configuration is the root object persisted to the form service. It is
// always sent whole, never partially.
type Configuration []Fieldset

// FieldNames returns every field name across the configuration in order.
func (c Configuration) FieldNames() []string {
	var names []string
	for _, fs := range c {
		for _, field := range fs.Fields {
			names = append(names, field.Name)
		}
	}
	return names
}

// FieldCount returns the total number of fields across all fieldsets.
func (c Configuration) FieldCount() int {
	count := 0
	for _, fs := range c {
		count += len(fs.Fields)
	}
	return count
}

// Clone returns a deep copy so editing sessions never alias a caller's slice.
func (c Configuration) Clone() Configuration {
	if c == nil {
		return nil
	}
	out := make(Configuration, len(c))
	for i, fs := range c {
		out[i] = Fieldset{
			Name:   fs.Name,
			Fields: append([]Field(nil), fs.Fields...),
		}
	}
	return out
}
