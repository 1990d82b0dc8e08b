package editor_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldsets/pkg/editor"
	"github.com/goliatone/go-fieldsets/pkg/grouping"
	"github.com/goliatone/go-fieldsets/pkg/model"
)

func seededEditor(t *testing.T) *editor.Editor {
	t.Helper()
	extracted := []string{"PARTY_A_NAME", "PARTY_A_DATE", "PARTY_B_NAME"}
	seed := grouping.New(grouping.DefaultConfig()).Group(extracted)
	return editor.NewSeeded(seed, extracted)
}

func TestNewSeeded_StateAndSnapshot(t *testing.T) {
	ed := seededEditor(t)
	if ed.State() != editor.StateSeeded {
		t.Fatalf("state = %s, want seeded", ed.State())
	}

	snapshot := ed.Configuration()
	snapshot[0].Name = "TAMPERED"
	if cfg := ed.Configuration(); cfg[0].Name == "TAMPERED" {
		t.Fatalf("snapshot aliases editor state")
	}
}

func TestNewSeeded_CanonicalizesExtractedNames(t *testing.T) {
	seed := model.Configuration{
		{Name: "PARTY_A", Fields: []model.Field{{Name: "PARTY_A_NAME"}}},
	}
	// Collaborators may send variable names in whatever casing they parsed;
	// the unassigned set must still line up with canonical field names.
	ed := editor.NewSeeded(seed, []string{"party a name", "party b name"})

	want := []string{"PARTY_B_NAME"}
	if diff := cmp.Diff(want, ed.Unassigned()); diff != "" {
		t.Fatalf("unassigned mismatch (-want +got):\n%s", diff)
	}

	if err := ed.AddField(0, "PARTY_B_NAME"); err != nil {
		t.Fatalf("add field: %v", err)
	}
	if unassigned := ed.Unassigned(); len(unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none after assignment", unassigned)
	}
}

func TestResumeEditing_AfterFailedPersist(t *testing.T) {
	ed := seededEditor(t)
	if violations := ed.Validate(); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if ed.State() != editor.StateValidating {
		t.Fatalf("state = %s, want validating", ed.State())
	}

	if err := ed.ResumeEditing(); err != nil {
		t.Fatalf("resume editing: %v", err)
	}
	if ed.State() != editor.StateEditing {
		t.Fatalf("state = %s, want editing", ed.State())
	}

	// The session is fully live: it can be edited, re-validated, and closed.
	if err := ed.RenameFieldset(0, "PARTY_A_DETAILS"); err != nil {
		t.Fatalf("rename after resume: %v", err)
	}
	if violations := ed.Validate(); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if err := ed.MarkPersisted(); err != nil {
		t.Fatalf("mark persisted: %v", err)
	}
	if err := ed.ResumeEditing(); err == nil {
		t.Fatal("expected error resuming a persisted session")
	}
}

func TestAddFieldset(t *testing.T) {
	ed := seededEditor(t)
	idx, err := ed.AddFieldset()
	if err != nil {
		t.Fatalf("add fieldset: %v", err)
	}
	if idx != 2 {
		t.Fatalf("new fieldset index = %d, want 2", idx)
	}
	if ed.State() != editor.StateEditing {
		t.Fatalf("mutation should enter editing state, got %s", ed.State())
	}

	fs, err := ed.Fieldset(idx)
	if err != nil {
		t.Fatalf("fieldset: %v", err)
	}
	if fs.Name != "" || len(fs.Fields) != 0 {
		t.Fatalf("new fieldset should be empty: %+v", fs)
	}
}

func TestRemoveFieldset_FieldsBecomeUnassigned(t *testing.T) {
	ed := seededEditor(t)
	// GENERAL (index 1) holds PARTY_B_NAME under the default grouping.
	if err := ed.RemoveFieldset(1); err != nil {
		t.Fatalf("remove fieldset: %v", err)
	}

	want := []string{"PARTY_B_NAME"}
	if diff := cmp.Diff(want, ed.Unassigned()); diff != "" {
		t.Fatalf("unassigned mismatch (-want +got):\n%s", diff)
	}
}

func TestRenameFieldset_LiveNormalization(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.RenameFieldset(0, "first party!"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	fs, _ := ed.Fieldset(0)
	if fs.Name != "FIRST_PARTY" {
		t.Fatalf("name not normalized: %q", fs.Name)
	}
}

func TestReorderFieldset(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.ReorderFieldset(1, editor.Up); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	first, _ := ed.Fieldset(0)
	if first.Name != "GENERAL" {
		t.Fatalf("expected GENERAL first after reorder, got %s", first.Name)
	}

	// Bounds: moving the top fieldset up is a no-op, not an error.
	if err := ed.ReorderFieldset(0, editor.Up); err != nil {
		t.Fatalf("no-op reorder errored: %v", err)
	}
	first, _ = ed.Fieldset(0)
	if first.Name != "GENERAL" {
		t.Fatalf("no-op reorder changed order")
	}
}

func TestAddField_FromUnassignedVariable(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.RemoveFieldset(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := ed.AddField(0, "PARTY_B_NAME"); err != nil {
		t.Fatalf("add field: %v", err)
	}

	fs, _ := ed.Fieldset(0)
	got := fs.Fields[len(fs.Fields)-1]
	want := model.Field{Name: "PARTY_B_NAME", Label: "Party B Name", Type: model.FieldTypeText}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("seeded field mismatch (-want +got):\n%s", diff)
	}
	if unassigned := ed.Unassigned(); len(unassigned) != 0 {
		t.Fatalf("variable should be assigned again: %v", unassigned)
	}
}

func TestAddField_RejectsAssignedVariable(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.AddField(1, "PARTY_A_NAME"); err == nil {
		t.Fatalf("expected duplicate-assignment error")
	}
}

func TestAddField_AdHoc(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.AddField(0, ""); err != nil {
		t.Fatalf("add ad hoc field: %v", err)
	}
	fs, _ := ed.Fieldset(0)
	got := fs.Fields[len(fs.Fields)-1]
	if got.Name != "" || got.Label != "" || got.Type != "" {
		t.Fatalf("ad hoc field should start blank: %+v", got)
	}
}

func TestMoveField_Atomic(t *testing.T) {
	ed := seededEditor(t)
	before := ed.Configuration().FieldCount()

	if err := ed.MoveField(0, 1, 1); err != nil {
		t.Fatalf("move field: %v", err)
	}

	cfg := ed.Configuration()
	if cfg.FieldCount() != before {
		t.Fatalf("field count changed: %d -> %d", before, cfg.FieldCount())
	}
	occurrences := 0
	for _, name := range cfg.FieldNames() {
		if name == "PARTY_A_DATE" {
			occurrences++
		}
	}
	if occurrences != 1 {
		t.Fatalf("moved field appears %d times, want 1", occurrences)
	}
	target := cfg[1]
	if target.Fields[len(target.Fields)-1].Name != "PARTY_A_DATE" {
		t.Fatalf("field not appended to target: %+v", target.Fields)
	}
	if len(cfg[0].Fields) != 1 {
		t.Fatalf("field not removed from source: %+v", cfg[0].Fields)
	}
}

func TestMoveField_SameFieldsetIsNoop(t *testing.T) {
	ed := seededEditor(t)
	before := ed.Configuration()
	if err := ed.MoveField(0, 0, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff(before, ed.Configuration()); diff != "" {
		t.Fatalf("same-fieldset move should not change anything:\n%s", diff)
	}
}

func TestReorderField(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.ReorderField(0, 1, editor.Up); err != nil {
		t.Fatalf("reorder field: %v", err)
	}
	fs, _ := ed.Fieldset(0)
	if fs.Fields[0].Name != "PARTY_A_DATE" {
		t.Fatalf("field order unchanged: %+v", fs.Fields)
	}

	if err := ed.ReorderField(0, 1, editor.Down); err != nil {
		t.Fatalf("no-op reorder errored: %v", err)
	}
	fs, _ = ed.Fieldset(0)
	if fs.Fields[1].Name != "PARTY_A_NAME" {
		t.Fatalf("end-of-list reorder should be a no-op")
	}
}

func TestUpdateField_NameNormalized(t *testing.T) {
	ed := seededEditor(t)
	name := "custom name?"
	if err := ed.UpdateField(0, 0, editor.FieldPatch{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	fs, _ := ed.Fieldset(0)
	if fs.Fields[0].Name != "CUSTOM_NAME" {
		t.Fatalf("name not normalized: %q", fs.Fields[0].Name)
	}
}

func TestUpdateField_LabelSyncsNameUntilDiverged(t *testing.T) {
	ed := seededEditor(t)

	// Seeded fields have Name == Normalize(Label), so label edits re-derive
	// the name.
	label := "Primary Party Name"
	if err := ed.UpdateField(0, 0, editor.FieldPatch{Label: &label}); err != nil {
		t.Fatalf("update label: %v", err)
	}
	fs, _ := ed.Fieldset(0)
	if fs.Fields[0].Name != "PRIMARY_PARTY_NAME" {
		t.Fatalf("auto-sync did not re-derive name: %q", fs.Fields[0].Name)
	}

	// Editing the name directly breaks the link.
	custom := "MANUAL_NAME"
	if err := ed.UpdateField(0, 0, editor.FieldPatch{Name: &custom}); err != nil {
		t.Fatalf("update name: %v", err)
	}
	label = "Another Label"
	if err := ed.UpdateField(0, 0, editor.FieldPatch{Label: &label}); err != nil {
		t.Fatalf("update label: %v", err)
	}
	fs, _ = ed.Fieldset(0)
	if fs.Fields[0].Name != "MANUAL_NAME" {
		t.Fatalf("diverged name should not re-sync: %q", fs.Fields[0].Name)
	}
}

func TestUpdateField_ClearingLabelKeepsName(t *testing.T) {
	ed := seededEditor(t)
	empty := ""
	if err := ed.UpdateField(0, 0, editor.FieldPatch{Label: &empty}); err != nil {
		t.Fatalf("update: %v", err)
	}
	fs, _ := ed.Fieldset(0)
	if fs.Fields[0].Name != "PARTY_A_NAME" {
		t.Fatalf("clearing label must not revert the name: %q", fs.Fields[0].Name)
	}
	if fs.Fields[0].Label != "" {
		t.Fatalf("label should be cleared: %q", fs.Fields[0].Label)
	}
}

func TestTerminalStatesRejectMutations(t *testing.T) {
	ed := seededEditor(t)
	if errs := ed.Validate(); len(errs) != 0 {
		t.Fatalf("seed should validate cleanly: %v", errs)
	}
	if err := ed.MarkPersisted(); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if ed.State() != editor.StatePersisted {
		t.Fatalf("state = %s, want persisted", ed.State())
	}
	if _, err := ed.AddFieldset(); err == nil {
		t.Fatalf("persisted session should reject mutations")
	}

	skipped := seededEditor(t)
	if err := skipped.Abandon(); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if err := skipped.AddField(0, ""); err == nil {
		t.Fatalf("abandoned session should reject mutations")
	}
}

func TestMarkPersisted_RequiresValidation(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.MarkPersisted(); err == nil {
		t.Fatalf("persisting without validation should fail")
	}
}

func TestIndexBounds(t *testing.T) {
	ed := seededEditor(t)
	if err := ed.RemoveFieldset(9); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if err := ed.RemoveField(0, 9); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if err := ed.MoveField(0, 0, 9); err == nil {
		t.Fatalf("expected out-of-range error for target")
	}
}
