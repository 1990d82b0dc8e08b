package formservice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response from the form service. Fields carries
// per-field validation messages when the service returned a structured
// payload; otherwise only Message is set. All API errors are recoverable:
// the editor keeps its state and the operator can retry after correction.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("formservice: %s (%d)", e.Message, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		parts = append(parts, key+": "+strings.Join(e.Fields[key], "; "))
	}
	return fmt.Sprintf("formservice: %s (%d): %s", e.Message, e.StatusCode, strings.Join(parts, ", "))
}

// errorPayload covers the response shapes the service is known to emit:
// a per-field error map, a list of {field, message} records, or a bare
// message under one of a few keys.
type errorPayload struct {
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Detail    string          `json:"detail"`
	RawErrors json.RawMessage `json:"errors"`
}

func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = genericMessage(statusCode, body)
		return apiErr
	}

	apiErr.Message = firstNonEmpty(payload.Message, payload.Error, payload.Detail)
	apiErr.Fields = decodeFieldErrors(payload.RawErrors)

	if apiErr.Message == "" && len(apiErr.Fields) > 0 {
		apiErr.Message = "validation failed"
	}
	if apiErr.Message == "" {
		apiErr.Message = genericMessage(statusCode, body)
	}
	return apiErr
}

func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}

	var asMap map[string][]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return normalizeFieldErrors(asMap)
	}

	var asRecords []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &asRecords); err == nil {
		out := make(map[string][]string)
		for _, record := range asRecords {
			message := strings.TrimSpace(record.Message)
			if message == "" {
				continue
			}
			key := strings.TrimSpace(record.Field)
			if key == "" {
				key = "_form"
			}
			out[key] = append(out[key], message)
		}
		return normalizeFieldErrors(out)
	}

	return nil
}

// normalizeFieldErrors trims and dedupes messages per field, preserving
// order, and drops fields left with nothing.
func normalizeFieldErrors(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for field, messages := range in {
		seen := make(map[string]struct{}, len(messages))
		var kept []string
		for _, message := range messages {
			trimmed := strings.TrimSpace(message)
			if trimmed == "" {
				continue
			}
			if _, exists := seen[trimmed]; exists {
				continue
			}
			seen[trimmed] = struct{}{}
			kept = append(kept, trimmed)
		}
		if len(kept) > 0 {
			out[strings.TrimSpace(field)] = kept
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func genericMessage(statusCode int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return trimmed
	}
	return http.StatusText(statusCode)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
