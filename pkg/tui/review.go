package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-fieldsets/pkg/editor"
	"github.com/goliatone/go-fieldsets/pkg/model"
)

// Decision is the outcome of a review session.
type Decision string

const (
	// DecisionSave means the configuration validated cleanly and the caller
	// should persist the editor payload.
	DecisionSave Decision = "save"
	// DecisionSkip means the operator abandoned the session; nothing is
	// persisted and the form keeps whatever fieldsets it already had.
	DecisionSkip Decision = "skip"
)

const (
	menuAddFieldset = "Add fieldset"
	menuEdit        = "Edit fieldset"
	menuAssign      = "Assign unassigned variables"
	menuSave        = "Save configuration"
	menuSkip        = "Skip without saving"

	menuRename         = "Rename"
	menuMoveUp         = "Move up"
	menuMoveDown       = "Move down"
	menuAddField       = "Add field"
	menuEditField      = "Edit field"
	menuRemoveFieldset = "Remove fieldset"
	menuBack           = "Back"

	menuFieldName     = "Edit name"
	menuFieldLabel    = "Edit label"
	menuFieldDesc     = "Edit description"
	menuFieldType     = "Change type"
	menuFieldMoveTo   = "Move to another fieldset"
	menuFieldMoveUp   = "Move up"
	menuFieldMoveDown = "Move down"
	menuFieldRemove   = "Remove field"
)

// Review runs the interactive loop over an editing session. It only mutates
// the editor; persistence and re-fetch stay with the caller.
type Review struct {
	driver PromptDriver
	editor *editor.Editor
}

// NewReview pairs a prompt driver with an editing session.
func NewReview(driver PromptDriver, ed *editor.Editor) *Review {
	return &Review{driver: driver, editor: ed}
}

// Run loops until the operator saves or skips. A DecisionSave return means
// Validate passed and the session is ready for MarkPersisted once the caller
// has stored the payload.
func (r *Review) Run(ctx context.Context) (Decision, error) {
	for {
		if err := r.driver.Info(ctx, r.summary()); err != nil {
			return "", err
		}

		options := []string{menuAddFieldset}
		if r.editor.Fieldsets() > 0 {
			options = append(options, menuEdit)
		}
		if len(r.editor.Unassigned()) > 0 && r.editor.Fieldsets() > 0 {
			options = append(options, menuAssign)
		}
		options = append(options, menuSave, menuSkip)

		choice, err := r.choose(ctx, "What next?", options)
		if err != nil {
			return "", err
		}

		switch choice {
		case menuAddFieldset:
			err = r.addFieldset(ctx)
		case menuEdit:
			err = r.editFieldset(ctx)
		case menuAssign:
			err = r.assignVariables(ctx)
		case menuSave:
			violations := r.editor.Validate()
			if len(violations) == 0 {
				return DecisionSave, nil
			}
			msg := "Cannot save yet:\n  " + strings.Join(violations, "\n  ")
			if err := r.driver.Info(ctx, msg); err != nil {
				return "", err
			}
		case menuSkip:
			ok, confirmErr := r.driver.Confirm(ctx, ConfirmConfig{
				Message: "Skip without saving? The form keeps its current fieldsets.",
			})
			if confirmErr != nil {
				return "", confirmErr
			}
			if ok {
				if err := r.editor.Abandon(); err != nil {
					return "", err
				}
				return DecisionSkip, nil
			}
		}
		if err != nil {
			// Operation errors (out-of-range index, already-assigned variable)
			// are shown and the loop continues; an abort ends the session.
			if errors.Is(err, ErrAborted) || ctx.Err() != nil {
				return "", err
			}
			if infoErr := r.driver.Info(ctx, err.Error()); infoErr != nil {
				return "", infoErr
			}
		}
	}
}

func (r *Review) addFieldset(ctx context.Context) error {
	name, err := r.driver.Input(ctx, InputConfig{
		Message: "Fieldset name:",
		Help:    "Letters, digits and underscores; the name is uppercased automatically.",
	})
	if err != nil {
		return err
	}
	idx, err := r.editor.AddFieldset()
	if err != nil {
		return err
	}
	return r.editor.RenameFieldset(idx, name)
}

func (r *Review) editFieldset(ctx context.Context) error {
	idx, err := r.chooseFieldset(ctx, "Which fieldset?")
	if err != nil || idx < 0 {
		return err
	}

	for {
		choice, err := r.choose(ctx, "Fieldset action:", []string{
			menuRename, menuMoveUp, menuMoveDown, menuAddField, menuEditField, menuRemoveFieldset, menuBack,
		})
		if err != nil {
			return err
		}

		switch choice {
		case menuRename:
			name, err := r.driver.Input(ctx, InputConfig{Message: "New name:"})
			if err != nil {
				return err
			}
			if err := r.editor.RenameFieldset(idx, name); err != nil {
				return err
			}
		case menuMoveUp:
			if err := r.editor.ReorderFieldset(idx, editor.Up); err != nil {
				return err
			}
			if idx > 0 {
				idx--
			}
		case menuMoveDown:
			if err := r.editor.ReorderFieldset(idx, editor.Down); err != nil {
				return err
			}
			if idx < r.editor.Fieldsets()-1 {
				idx++
			}
		case menuAddField:
			if err := r.addField(ctx, idx); err != nil {
				return err
			}
		case menuEditField:
			if err := r.editField(ctx, idx); err != nil {
				return err
			}
		case menuRemoveFieldset:
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Remove this fieldset? Its fields become unassigned."})
			if err != nil {
				return err
			}
			if ok {
				return r.editor.RemoveFieldset(idx)
			}
		case menuBack:
			return nil
		}
	}
}

// addField offers the unassigned variables plus a blank ad hoc field.
func (r *Review) addField(ctx context.Context, fieldsetIndex int) error {
	const adHoc = "(blank ad hoc field)"
	options := append([]string{adHoc}, r.editor.Unassigned()...)
	choice, err := r.choose(ctx, "Add which field?", options)
	if err != nil {
		return err
	}
	if choice == adHoc {
		return r.editor.AddField(fieldsetIndex, "")
	}
	return r.editor.AddField(fieldsetIndex, choice)
}

func (r *Review) editField(ctx context.Context, fieldsetIndex int) error {
	fs, err := r.editor.Fieldset(fieldsetIndex)
	if err != nil {
		return err
	}
	if len(fs.Fields) == 0 {
		return r.driver.Info(ctx, "Fieldset has no fields yet.")
	}

	labels := make([]string, len(fs.Fields))
	for i, field := range fs.Fields {
		labels[i] = fieldLabel(field)
	}
	fieldIndex, err := r.driver.Select(ctx, SelectConfig{Message: "Which field?", Options: labels})
	if err != nil {
		return err
	}
	if fieldIndex < 0 || fieldIndex >= len(fs.Fields) {
		return nil
	}

	choice, err := r.choose(ctx, "Field action:", []string{
		menuFieldName, menuFieldLabel, menuFieldDesc, menuFieldType,
		menuFieldMoveUp, menuFieldMoveDown, menuFieldMoveTo, menuFieldRemove, menuBack,
	})
	if err != nil {
		return err
	}

	switch choice {
	case menuFieldName:
		value, err := r.driver.Input(ctx, InputConfig{Message: "Field name:", Default: fs.Fields[fieldIndex].Name})
		if err != nil {
			return err
		}
		return r.editor.UpdateField(fieldsetIndex, fieldIndex, editor.FieldPatch{Name: &value})
	case menuFieldLabel:
		value, err := r.driver.Input(ctx, InputConfig{Message: "Field label:", Default: fs.Fields[fieldIndex].Label})
		if err != nil {
			return err
		}
		return r.editor.UpdateField(fieldsetIndex, fieldIndex, editor.FieldPatch{Label: &value})
	case menuFieldDesc:
		value, err := r.driver.Input(ctx, InputConfig{Message: "Field description:", Default: fs.Fields[fieldIndex].Description})
		if err != nil {
			return err
		}
		return r.editor.UpdateField(fieldsetIndex, fieldIndex, editor.FieldPatch{Description: &value})
	case menuFieldType:
		types := model.FieldTypes()
		options := make([]string, len(types))
		defaultIndex := 0
		for i, ft := range types {
			options[i] = string(ft)
			if ft == fs.Fields[fieldIndex].Type {
				defaultIndex = i
			}
		}
		picked, err := r.driver.Select(ctx, SelectConfig{Message: "Field type:", Options: options, DefaultIndex: defaultIndex})
		if err != nil {
			return err
		}
		if picked < 0 || picked >= len(types) {
			return nil
		}
		return r.editor.UpdateField(fieldsetIndex, fieldIndex, editor.FieldPatch{Type: &types[picked]})
	case menuFieldMoveUp:
		return r.editor.ReorderField(fieldsetIndex, fieldIndex, editor.Up)
	case menuFieldMoveDown:
		return r.editor.ReorderField(fieldsetIndex, fieldIndex, editor.Down)
	case menuFieldMoveTo:
		target, err := r.chooseFieldset(ctx, "Move to which fieldset?")
		if err != nil || target < 0 {
			return err
		}
		return r.editor.MoveField(fieldsetIndex, fieldIndex, target)
	case menuFieldRemove:
		return r.editor.RemoveField(fieldsetIndex, fieldIndex)
	}
	return nil
}

func (r *Review) assignVariables(ctx context.Context) error {
	unassigned := r.editor.Unassigned()
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message: "Assign which variables?",
		Options: unassigned,
	})
	if err != nil {
		return err
	}
	if len(picked) == 0 {
		return nil
	}
	target, err := r.chooseFieldset(ctx, "Into which fieldset?")
	if err != nil || target < 0 {
		return err
	}
	for _, idx := range picked {
		if idx < 0 || idx >= len(unassigned) {
			continue
		}
		if err := r.editor.AddField(target, unassigned[idx]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Review) chooseFieldset(ctx context.Context, message string) (int, error) {
	cfg := r.editor.Configuration()
	options := make([]string, len(cfg))
	for i, fs := range cfg {
		options[i] = fmt.Sprintf("%s (%d fields)", fs.Name, len(fs.Fields))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options, PageSize: 10})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(cfg) {
		return -1, nil
	}
	return idx, nil
}

func (r *Review) choose(ctx context.Context, message string, options []string) (string, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: no selection for %q", message)
	}
	return options[idx], nil
}

// summary renders the current layout as indented text, with the unassigned
// variables appended so the operator always sees what still needs a home.
func (r *Review) summary() string {
	var b strings.Builder
	cfg := r.editor.Configuration()
	if len(cfg) == 0 {
		b.WriteString("No fieldsets yet.\n")
	}
	for _, fs := range cfg {
		name := fs.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&b, "%s\n", name)
		for _, field := range fs.Fields {
			fmt.Fprintf(&b, "  - %s\n", fieldLabel(field))
		}
	}
	if unassigned := r.editor.Unassigned(); len(unassigned) > 0 {
		fmt.Fprintf(&b, "Unassigned: %s\n", strings.Join(unassigned, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func fieldLabel(field model.Field) string {
	name := field.Name
	if name == "" {
		name = "(unnamed)"
	}
	if field.Label != "" && field.Label != name {
		return fmt.Sprintf("%s (%s)", name, field.Label)
	}
	return name
}
