// Package editor owns a fieldset configuration for the duration of a review
// session. Every operation is a pure in-memory transition over the owned
// configuration; the only I/O in the whole workflow happens outside the
// editor, when the caller persists the payload.
package editor

import (
	"fmt"

	"github.com/goliatone/go-fieldsets/pkg/model"
	"github.com/goliatone/go-fieldsets/pkg/naming"
)

// State identifies where a review session is in its lifecycle. Seeded and
// Editing expose the same operations; Seeded only marks that no mutation has
// happened yet.
type State string

const (
	StateSeeded     State = "seeded"
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StatePersisted  State = "persisted"
	StateAbandoned  State = "abandoned"
)

// Direction moves a fieldset or field relative to its neighbor.
type Direction int

const (
	Up Direction = iota
	Down
)

// Editor holds the in-memory configuration under review plus the originally
// extracted variable names, from which the unassigned set is derived. The
// editor is single-owner state: it is not safe for concurrent use and does
// not need to be, review sessions are event-driven and sequential.
type Editor struct {
	config    model.Configuration
	extracted []string
	state     State
}

// NewSeeded starts a session from a grouping engine seed. The seed and the
// extracted list are cloned so the session never aliases caller slices.
// Extracted names are canonicalized on ingest: Unassigned compares them
// against field names that are always stored in canonical form, so a
// collaborator sending lowercase variable names must not leave them
// permanently unassignable.
func NewSeeded(seed model.Configuration, extracted []string) *Editor {
	canonical := make([]string, 0, len(extracted))
	for _, name := range extracted {
		canonical = append(canonical, naming.Normalize(name))
	}
	return &Editor{
		config:    seed.Clone(),
		extracted: canonical,
		state:     StateSeeded,
	}
}

// NewEmpty starts a session with no fieldsets. This is the path taken when a
// template upload yields zero valid variables but the operator still wants to
// define fieldsets by hand.
func NewEmpty() *Editor {
	return &Editor{config: model.Configuration{}, state: StateSeeded}
}

// State returns the current lifecycle state.
func (e *Editor) State() State { return e.state }

// Configuration returns a snapshot of the current configuration. Mutating the
// snapshot does not affect the session.
func (e *Editor) Configuration() model.Configuration { return e.config.Clone() }

// Fieldsets returns the number of fieldsets in the configuration.
func (e *Editor) Fieldsets() int { return len(e.config) }

// Fieldset returns a copy of the fieldset at index.
func (e *Editor) Fieldset(index int) (model.Fieldset, error) {
	if err := e.checkFieldsetIndex(index); err != nil {
		return model.Fieldset{}, err
	}
	fs := e.config[index]
	fs.Fields = append([]model.Field(nil), fs.Fields...)
	return fs, nil
}

// AddFieldset appends a new empty fieldset and returns its index so the view
// layer can auto-expand it.
func (e *Editor) AddFieldset() (int, error) {
	if err := e.beginMutation(); err != nil {
		return 0, err
	}
	e.config = append(e.config, model.Fieldset{Fields: []model.Field{}})
	return len(e.config) - 1, nil
}

// RemoveFieldset deletes the fieldset at index. Its fields become unassigned;
// they are not moved anywhere automatically.
func (e *Editor) RemoveFieldset(index int) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldsetIndex(index); err != nil {
		return err
	}
	e.config = append(e.config[:index], e.config[index+1:]...)
	return nil
}

// RenameFieldset overwrites the fieldset name, applying the naming rule the
// same way the UI normalizes keystrokes: the stored value is always canonical.
func (e *Editor) RenameFieldset(index int, name string) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldsetIndex(index); err != nil {
		return err
	}
	e.config[index].Name = naming.Normalize(name)
	return nil
}

// ReorderFieldset swaps the fieldset at index with its neighbor in the given
// direction. Moving past either end of the list is a no-op.
func (e *Editor) ReorderFieldset(index int, dir Direction) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldsetIndex(index); err != nil {
		return err
	}
	target := neighbor(index, dir)
	if target < 0 || target >= len(e.config) {
		return nil
	}
	e.config[index], e.config[target] = e.config[target], e.config[index]
	return nil
}

// AddField appends a field to the target fieldset. When variableName names an
// unassigned extracted variable, the label and type are pre-filled with the
// same derivation rules the grouping engine uses. An empty variableName adds
// a blank ad hoc field.
func (e *Editor) AddField(fieldsetIndex int, variableName string) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldsetIndex(fieldsetIndex); err != nil {
		return err
	}

	if variableName == "" {
		e.config[fieldsetIndex].Fields = append(e.config[fieldsetIndex].Fields, model.Field{})
		return nil
	}

	canonical := naming.Normalize(variableName)
	if e.isAssigned(canonical) {
		return fmt.Errorf("editor: variable %s is already assigned", canonical)
	}
	e.config[fieldsetIndex].Fields = append(e.config[fieldsetIndex].Fields, model.FieldFromVariable(canonical))
	return nil
}

// RemoveField deletes the field; if it was one of the extracted variables it
// shows up as unassigned again.
func (e *Editor) RemoveField(fieldsetIndex, fieldIndex int) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldIndex(fieldsetIndex, fieldIndex); err != nil {
		return err
	}
	fields := e.config[fieldsetIndex].Fields
	e.config[fieldsetIndex].Fields = append(fields[:fieldIndex], fields[fieldIndex+1:]...)
	return nil
}

// MoveField removes the field from the source fieldset and appends it to the
// target in one transition. The field is never duplicated and never orphaned:
// all index checks run before anything mutates.
func (e *Editor) MoveField(sourceFieldset, sourceField, targetFieldset int) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldIndex(sourceFieldset, sourceField); err != nil {
		return err
	}
	if err := e.checkFieldsetIndex(targetFieldset); err != nil {
		return err
	}
	if sourceFieldset == targetFieldset {
		return nil
	}

	fields := e.config[sourceFieldset].Fields
	moved := fields[sourceField]
	e.config[sourceFieldset].Fields = append(fields[:sourceField], fields[sourceField+1:]...)
	e.config[targetFieldset].Fields = append(e.config[targetFieldset].Fields, moved)
	return nil
}

// ReorderField swaps a field with its neighbor inside one fieldset, with the
// same end-of-list no-op semantics as ReorderFieldset.
func (e *Editor) ReorderField(fieldsetIndex, fieldIndex int, dir Direction) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldIndex(fieldsetIndex, fieldIndex); err != nil {
		return err
	}
	fields := e.config[fieldsetIndex].Fields
	target := neighbor(fieldIndex, dir)
	if target < 0 || target >= len(fields) {
		return nil
	}
	fields[fieldIndex], fields[target] = fields[target], fields[fieldIndex]
	return nil
}

// FieldPatch carries a partial field update. Nil members leave the current
// value untouched.
type FieldPatch struct {
	Name        *string
	Label       *string
	Description *string
	Type        *model.FieldType
}

// UpdateField applies a partial update to one field. A changed name is
// re-normalized before storing. While the current name is exactly the
// derivation of the current label, editing the label re-derives the name;
// the link breaks as soon as the operator stores a name that no longer
// matches, and clearing the label never reverts the name.
func (e *Editor) UpdateField(fieldsetIndex, fieldIndex int, patch FieldPatch) error {
	if err := e.beginMutation(); err != nil {
		return err
	}
	if err := e.checkFieldIndex(fieldsetIndex, fieldIndex); err != nil {
		return err
	}

	field := &e.config[fieldsetIndex].Fields[fieldIndex]
	nameInSync := field.Name == naming.Normalize(field.Label)

	if patch.Label != nil {
		field.Label = *patch.Label
		if nameInSync && patch.Name == nil {
			if derived := naming.Normalize(*patch.Label); derived != "" {
				field.Name = derived
			}
		}
	}
	if patch.Name != nil {
		field.Name = naming.Normalize(*patch.Name)
	}
	if patch.Description != nil {
		field.Description = *patch.Description
	}
	if patch.Type != nil {
		field.Type = *patch.Type
	}
	return nil
}

// Unassigned returns the extracted variables not currently placed in any
// fieldset, in extraction order. It is derived state, recomputed per call.
func (e *Editor) Unassigned() []string {
	assigned := make(map[string]struct{})
	for _, fs := range e.config {
		for _, field := range fs.Fields {
			assigned[field.Name] = struct{}{}
		}
	}
	var out []string
	for _, name := range e.extracted {
		if _, ok := assigned[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Payload returns the configuration snapshot to serialize for persistence.
// It reads the state as it exists at call time, which is what Save must send.
func (e *Editor) Payload() model.Configuration { return e.config.Clone() }

// MarkPersisted closes the session after a successful save. Ownership of the
// configuration transfers to the form service; the local copy is now a stale
// read model.
func (e *Editor) MarkPersisted() error {
	if e.state != StateValidating {
		return fmt.Errorf("editor: cannot persist from state %s", e.state)
	}
	e.state = StatePersisted
	return nil
}

// ResumeEditing returns a validated session to Editing. This is the
// transition taken when persistence fails: the configuration is untouched and
// the operator keeps working, free to retry Save after correction.
func (e *Editor) ResumeEditing() error {
	if e.closed() {
		return fmt.Errorf("editor: session already %s", e.state)
	}
	e.state = StateEditing
	return nil
}

// Abandon discards the session without persistence (the Skip path).
func (e *Editor) Abandon() error {
	if e.closed() {
		return fmt.Errorf("editor: session already %s", e.state)
	}
	e.state = StateAbandoned
	return nil
}

func (e *Editor) beginMutation() error {
	switch e.state {
	case StatePersisted, StateAbandoned:
		return fmt.Errorf("editor: session already %s", e.state)
	}
	e.state = StateEditing
	return nil
}

func (e *Editor) closed() bool {
	return e.state == StatePersisted || e.state == StateAbandoned
}

func (e *Editor) isAssigned(name string) bool {
	for _, fs := range e.config {
		for _, field := range fs.Fields {
			if field.Name == name {
				return true
			}
		}
	}
	return false
}

func (e *Editor) checkFieldsetIndex(index int) error {
	if index < 0 || index >= len(e.config) {
		return fmt.Errorf("editor: fieldset index %d out of range", index)
	}
	return nil
}

func (e *Editor) checkFieldIndex(fieldsetIndex, fieldIndex int) error {
	if err := e.checkFieldsetIndex(fieldsetIndex); err != nil {
		return err
	}
	if fieldIndex < 0 || fieldIndex >= len(e.config[fieldsetIndex].Fields) {
		return fmt.Errorf("editor: field index %d out of range in fieldset %d", fieldIndex, fieldsetIndex)
	}
	return nil
}

func neighbor(index int, dir Direction) int {
	if dir == Up {
		return index - 1
	}
	return index + 1
}
