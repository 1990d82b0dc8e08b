package editor_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldsets/pkg/editor"
	"github.com/goliatone/go-fieldsets/pkg/model"
)

func TestValidate_CollectsAllViolations(t *testing.T) {
	seed := model.Configuration{
		{Name: "", Fields: []model.Field{{Name: "OK_FIELD"}}},
		{Name: "EMPTY_SET", Fields: nil},
		{Name: "PARTIES", Fields: []model.Field{{Name: ""}}},
	}
	ed := editor.NewSeeded(seed, nil)

	errs := ed.Validate()
	want := []string{
		`Fieldset 1: Name is required`,
		`Fieldset "EMPTY_SET": At least one field is required`,
		`Fieldset "PARTIES", Field 1: Name is required`,
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("validation errors mismatch (-want +got):\n%s", diff)
	}
	if ed.State() != editor.StateEditing {
		t.Fatalf("failed validation should return to editing, got %s", ed.State())
	}
}

func TestValidate_CleanConfiguration(t *testing.T) {
	seed := model.Configuration{
		{Name: "PARTIES", Fields: []model.Field{{Name: "PARTY_A_NAME"}}},
	}
	ed := editor.NewSeeded(seed, nil)

	if errs := ed.Validate(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if ed.State() != editor.StateValidating {
		t.Fatalf("clean validation should hold in validating, got %s", ed.State())
	}
}

func TestValidate_EditingAfterFailureAllowed(t *testing.T) {
	seed := model.Configuration{{Name: "", Fields: nil}}
	ed := editor.NewSeeded(seed, nil)

	if errs := ed.Validate(); len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if err := ed.RenameFieldset(0, "fixed"); err != nil {
		t.Fatalf("editing after failed validation: %v", err)
	}
	if err := ed.AddField(0, ""); err != nil {
		t.Fatalf("add field: %v", err)
	}
	name := "SOME_FIELD"
	if err := ed.UpdateField(0, 0, editor.FieldPatch{Name: &name}); err != nil {
		t.Fatalf("update field: %v", err)
	}
	if errs := ed.Validate(); len(errs) != 0 {
		t.Fatalf("expected clean revalidation, got %v", errs)
	}
}
