// Package fieldsets is the root facade for the contract-template fieldset
// pipeline: extract {{variable}} placeholders from template text, group them
// into fieldsets, review the grouping interactively, and persist the approved
// configuration to the form service.
package fieldsets

import (
	"github.com/goliatone/go-fieldsets/pkg/editor"
	"github.com/goliatone/go-fieldsets/pkg/extract"
	"github.com/goliatone/go-fieldsets/pkg/grouping"
	"github.com/goliatone/go-fieldsets/pkg/model"
	"github.com/goliatone/go-fieldsets/pkg/workflow"
)

// Field aliases the shared field model for callers that only import the root.
type Field = model.Field

// Fieldset is a named, ordered group of fields.
type Fieldset = model.Fieldset

// Configuration is the root object persisted to the form service.
type Configuration = model.Configuration

// ExtractionResult is the outcome of scanning template text for variables.
type ExtractionResult = extract.Result

// Extract scans template text for {{variable}} placeholders.
func Extract(text string) ExtractionResult {
	return extract.Extract(text)
}

// Group clusters variable names into a seed configuration using the default
// grouping rules.
func Group(names []string) Configuration {
	return grouping.New(grouping.DefaultConfig()).Group(names)
}

// GroupWith clusters variable names using a custom grouping configuration.
func GroupWith(cfg grouping.Config, names []string) Configuration {
	return grouping.New(cfg).Group(names)
}

// NewEditor starts an editing session seeded from a grouping result.
func NewEditor(seed Configuration, extracted []string) *editor.Editor {
	return editor.NewSeeded(seed, extracted)
}

// NewWorkflow exposes the review workflow constructor from the top-level
// module for callers wiring the full upload-review-persist pipeline.
func NewWorkflow(options ...workflow.Option) (*workflow.Workflow, error) {
	return workflow.New(options...)
}
