package formservice

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var contractDocument []byte

const fieldsetsPath = "/forms/{formId}/fieldsets"

var (
	contractOnce   sync.Once
	contractSchema *openapi3.Schema
	contractErr    error
)

// fieldsetSchema loads the embedded service contract once and returns the
// request body schema of the fieldset persistence operation.
func fieldsetSchema() (*openapi3.Schema, error) {
	contractOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(contractDocument)
		if err != nil {
			contractErr = fmt.Errorf("formservice: load contract: %w", err)
			return
		}

		pathItem := doc.Paths.Find(fieldsetsPath)
		if pathItem == nil || pathItem.Put == nil {
			contractErr = errors.New("formservice: contract is missing the fieldsets operation")
			return
		}
		body := pathItem.Put.RequestBody
		if body == nil || body.Value == nil {
			contractErr = errors.New("formservice: contract is missing the fieldsets request body")
			return
		}
		media := body.Value.Content.Get("application/json")
		if media == nil || media.Schema == nil || media.Schema.Value == nil {
			contractErr = errors.New("formservice: contract is missing the fieldsets schema")
			return
		}
		contractSchema = media.Schema.Value
	})
	return contractSchema, contractErr
}

// validateFieldsetPayload checks a serialized configuration against the
// embedded contract so malformed payloads never leave the process.
func validateFieldsetPayload(payload []byte) error {
	schema, err := fieldsetSchema()
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("formservice: decode fieldset payload: %w", err)
	}
	if err := schema.VisitJSON(decoded); err != nil {
		return fmt.Errorf("formservice: fieldset payload violates contract: %w", err)
	}
	return nil
}
