package editor

import "fmt"

// Validate checks the configuration ahead of a save. All violations are
// collected and reported together so the operator sees the complete list in
// one pass; nothing fails fast. A clean result moves the session to
// Validating, the state MarkPersisted requires; any violation returns the
// session to Editing.
func (e *Editor) Validate() []string {
	if e.closed() {
		return []string{fmt.Sprintf("editor: session already %s", e.state)}
	}
	e.state = StateValidating

	var errs []string
	for idx, fs := range e.config {
		if fs.Name == "" {
			errs = append(errs, fmt.Sprintf("Fieldset %d: Name is required", idx+1))
		}
		if len(fs.Fields) == 0 {
			errs = append(errs, fmt.Sprintf("Fieldset %q: At least one field is required", fs.Name))
		}
		for fieldIdx, field := range fs.Fields {
			if field.Name == "" {
				errs = append(errs, fmt.Sprintf("Fieldset %q, Field %d: Name is required", fs.Name, fieldIdx+1))
			}
		}
	}

	if len(errs) > 0 {
		e.state = StateEditing
	}
	return errs
}
