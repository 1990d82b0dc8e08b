// Package workflow coordinates the full template review pipeline: upload or
// scan a template, group the extracted variables into a seed configuration,
// run the interactive review, and persist the approved result to the form
// service. It applies sensible defaults while remaining open to dependency
// injection for callers that bring their own pieces.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-fieldsets/pkg/editor"
	"github.com/goliatone/go-fieldsets/pkg/extract"
	"github.com/goliatone/go-fieldsets/pkg/formservice"
	"github.com/goliatone/go-fieldsets/pkg/grouping"
	"github.com/goliatone/go-fieldsets/pkg/model"
	"github.com/goliatone/go-fieldsets/pkg/tui"
)

// FormService is the slice of the form service client the workflow needs.
type FormService interface {
	UploadTemplate(ctx context.Context, formID, filename string, file io.Reader) (formservice.UploadResult, error)
	UpdateFieldsets(ctx context.Context, formID string, cfg model.Configuration) error
	Form(ctx context.Context, formID string) (formservice.Form, error)
}

// Reviewer runs the interactive portion of the pipeline over an editing
// session and reports the operator's decision.
type Reviewer interface {
	Review(ctx context.Context, ed *editor.Editor) (tui.Decision, error)
}

// ReviewerFunc adapts a function to the Reviewer interface.
type ReviewerFunc func(ctx context.Context, ed *editor.Editor) (tui.Decision, error)

// Review implements Reviewer.
func (f ReviewerFunc) Review(ctx context.Context, ed *editor.Editor) (tui.Decision, error) {
	return f(ctx, ed)
}

// Notifier surfaces out-of-band messages to the operator between review
// passes, such as a persistence failure before the review resumes. Reviewers
// that do not implement it simply miss the message; the retry still happens.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

type promptReviewer struct {
	driver tui.PromptDriver
}

func (r *promptReviewer) Review(ctx context.Context, ed *editor.Editor) (tui.Decision, error) {
	return tui.NewReview(r.driver, ed).Run(ctx)
}

func (r *promptReviewer) Notify(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}

// Option customises the workflow configuration.
type Option func(*Workflow)

// WithFormService injects the form service client. Required.
func WithFormService(service FormService) Option {
	return func(w *Workflow) {
		w.service = service
	}
}

// WithGroupingConfig overrides the grouping engine configuration.
func WithGroupingConfig(cfg grouping.Config) Option {
	return func(w *Workflow) {
		w.grouper = grouping.New(cfg)
	}
}

// WithGrouper injects a pre-built grouping engine.
func WithGrouper(engine *grouping.Engine) Option {
	return func(w *Workflow) {
		if engine != nil {
			w.grouper = engine
		}
	}
}

// WithPromptDriver runs the review over the given prompt driver instead of
// the default survey terminal prompts.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(w *Workflow) {
		if driver != nil {
			w.reviewer = &promptReviewer{driver: driver}
		}
	}
}

// WithReviewer replaces the interactive review entirely.
func WithReviewer(reviewer Reviewer) Option {
	return func(w *Workflow) {
		if reviewer != nil {
			w.reviewer = reviewer
		}
	}
}

// WithExtractor overrides the text extraction function.
func WithExtractor(fn func(string) extract.Result) Option {
	return func(w *Workflow) {
		if fn != nil {
			w.extract = fn
		}
	}
}

// Workflow owns the review pipeline dependencies.
type Workflow struct {
	service  FormService
	grouper  *grouping.Engine
	reviewer Reviewer
	extract  func(string) extract.Result
}

// New constructs a Workflow. The form service is the only dependency without
// a default.
func New(options ...Option) (*Workflow, error) {
	w := &Workflow{
		grouper:  grouping.New(grouping.DefaultConfig()),
		reviewer: &promptReviewer{driver: tui.NewSurveyDriver()},
		extract:  extract.Extract,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.service == nil {
		return nil, errors.New("workflow: form service is required")
	}
	return w, nil
}

// Request names the template source for one review run. Exactly one of File
// (uploaded to the form service for server-side extraction) or Text (scanned
// locally) must be set.
type Request struct {
	FormID   string
	Filename string
	File     io.Reader
	Text     string
}

// Result reports what one run did. Form is only populated after a successful
// save, refetched from the service so the caller sees the authoritative state.
type Result struct {
	Extraction extract.Result
	Seed       model.Configuration
	Decision   tui.Decision
	Form       *formservice.Form
}

// Run executes the pipeline: extraction, grouping seed, interactive review,
// and, on save, persistence plus re-fetch. A skipped review returns a normal
// Result with no Form; nothing was persisted. When extraction yields no valid
// variables the configuration step is skipped entirely. A failed save does not
// end the run: the error is surfaced and the review resumes with the same
// session.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("workflow: context is required")
	}
	if req.FormID == "" {
		return nil, errors.New("workflow: form id is required")
	}
	if req.File != nil && req.Text != "" {
		return nil, errors.New("workflow: provide a template file or template text, not both")
	}

	extraction, err := w.extraction(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{Extraction: extraction}
	if len(extraction.ValidVariables) == 0 {
		// Nothing to configure; the form keeps whatever fieldsets it has.
		result.Seed = model.Configuration{}
		result.Decision = tui.DecisionSkip
		return result, nil
	}

	seed := w.grouper.Group(extraction.ValidVariables)
	session := editor.NewSeeded(seed, extraction.ValidVariables)
	result.Seed = seed

	// Persistence failures are recoverable: the session stays live, the
	// operator sees the error, and the review resumes so Save can be retried.
	for {
		decision, err := w.reviewer.Review(ctx, session)
		if err != nil {
			return nil, fmt.Errorf("workflow: review: %w", err)
		}
		result.Decision = decision
		if decision != tui.DecisionSave {
			return result, nil
		}

		err = w.service.UpdateFieldsets(ctx, req.FormID, session.Payload())
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("workflow: persist fieldsets: %w", err)
		}
		if resumeErr := session.ResumeEditing(); resumeErr != nil {
			return nil, fmt.Errorf("workflow: persist fieldsets: %w", err)
		}
		if notifier, ok := w.reviewer.(Notifier); ok {
			if notifyErr := notifier.Notify(ctx, fmt.Sprintf("Save failed: %v", err)); notifyErr != nil {
				return nil, notifyErr
			}
		}
	}

	if err := session.MarkPersisted(); err != nil {
		return nil, fmt.Errorf("workflow: close session: %w", err)
	}

	form, err := w.service.Form(ctx, req.FormID)
	if err != nil {
		return nil, fmt.Errorf("workflow: refetch form: %w", err)
	}
	result.Form = &form
	return result, nil
}

func (w *Workflow) extraction(ctx context.Context, req Request) (extract.Result, error) {
	if req.File == nil {
		return w.extract(req.Text), nil
	}

	upload, err := w.service.UploadTemplate(ctx, req.FormID, req.Filename, req.File)
	if err != nil {
		return extract.Result{}, fmt.Errorf("workflow: upload template: %w", err)
	}
	if upload.ExtractionResults == nil {
		return extract.Result{}, nil
	}
	return *upload.ExtractionResults, nil
}
