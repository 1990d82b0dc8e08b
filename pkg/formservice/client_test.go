package formservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldsets/pkg/extract"
	"github.com/goliatone/go-fieldsets/pkg/formservice"
	"github.com/goliatone/go-fieldsets/pkg/model"
)

func newClient(t *testing.T, handler http.Handler, options ...formservice.Option) *formservice.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := formservice.New(server.URL, options...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestUploadTemplate_Success(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/forms/frm_1/template" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("template")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "lease.docx" {
			t.Fatalf("filename = %q", header.Filename)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"extraction_results": map[string]any{
				"valid_variables":       []string{"PARTY_A_NAME"},
				"invalid_variables":     []string{"bad name!"},
				"total_variables_found": 2,
			},
			"filename":  "lease.docx",
			"file_size": 12345,
		})
	}))

	result, err := client.UploadTemplate(context.Background(), "frm_1", "lease.docx", strings.NewReader("binary"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	want := &extract.Result{
		ValidVariables:      []string{"PARTY_A_NAME"},
		InvalidVariables:    []string{"bad name!"},
		TotalVariablesFound: 2,
	}
	if diff := cmp.Diff(want, result.ExtractionResults); diff != "" {
		t.Fatalf("extraction results mismatch (-want +got):\n%s", diff)
	}
}

func TestUploadTemplate_RejectsUnsupportedExtension(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request should never leave the client")
	}))

	_, err := client.UploadTemplate(context.Background(), "frm_1", "contract.pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected extension rejection")
	}
}

func TestUploadTemplate_HasErrors(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "has_errors",
			"message": "document is password protected",
		})
	}))

	result, err := client.UploadTemplate(context.Background(), "frm_1", "lease.doc", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected extraction error")
	}
	if !strings.Contains(err.Error(), "password protected") {
		t.Fatalf("service message not surfaced verbatim: %v", err)
	}
	if result.Status != formservice.StatusHasErrors {
		t.Fatalf("status = %q", result.Status)
	}
}

func TestUpdateFieldsets_SendsWholeConfiguration(t *testing.T) {
	var received model.Configuration
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/forms/frm_1/fieldsets" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	cfg := model.Configuration{
		{Name: "PARTY_A", Fields: []model.Field{
			{Name: "PARTY_A_NAME", Label: "Party A Name", Type: model.FieldTypeText},
		}},
	}
	if err := client.UpdateFieldsets(context.Background(), "frm_1", cfg); err != nil {
		t.Fatalf("update: %v", err)
	}
	if diff := cmp.Diff(cfg, received); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateFieldsets_OmitsEmptyOptionalMembers(t *testing.T) {
	var raw string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		raw = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	cfg := model.Configuration{
		{Name: "PARTY_A", Fields: []model.Field{{Name: "PARTY_A_NAME"}}},
	}
	if err := client.UpdateFieldsets(context.Background(), "frm_1", cfg); err != nil {
		t.Fatalf("update: %v", err)
	}
	if strings.Contains(raw, `"label"`) || strings.Contains(raw, `"description"`) {
		t.Fatalf("empty optional members should be omitted: %s", raw)
	}
}

func TestUpdateFieldsets_ContractRejectsEmptyFieldset(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("invalid payload should not reach the service")
	}))

	cfg := model.Configuration{{Name: "EMPTY", Fields: []model.Field{}}}
	if err := client.UpdateFieldsets(context.Background(), "frm_1", cfg); err == nil {
		t.Fatalf("expected contract violation for empty fields")
	}
}

func TestUpdateFieldsets_ContractValidationDisabled(t *testing.T) {
	reached := false
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}), formservice.WithContractValidation(false))

	cfg := model.Configuration{{Name: "EMPTY", Fields: []model.Field{}}}
	if err := client.UpdateFieldsets(context.Background(), "frm_1", cfg); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reached {
		t.Fatalf("request should reach the service with validation off")
	}
}

func TestUpdateFieldsets_StructuredErrorPayload(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"validation failed","errors":{"fieldsets.0.name":["must be unique"," must be unique "]}}`))
	}))

	cfg := model.Configuration{
		{Name: "PARTY_A", Fields: []model.Field{{Name: "PARTY_A_NAME"}}},
	}
	err := client.UpdateFieldsets(context.Background(), "frm_1", cfg)

	var apiErr *formservice.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
	want := map[string][]string{"fieldsets.0.name": {"must be unique"}}
	if diff := cmp.Diff(want, apiErr.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_Refetch(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms/frm_9" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"frm_9","name":"Lease","fieldsets":[{"name":"PARTY_A","fields":[{"name":"PARTY_A_NAME"}]}]}`))
	}))

	form, err := client.Form(context.Background(), "frm_9")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.ID != "frm_9" || len(form.Fieldsets) != 1 {
		t.Fatalf("unexpected form: %+v", form)
	}
}

func TestForm_GenericErrorMessage(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))

	_, err := client.Form(context.Background(), "frm_1")
	var apiErr *formservice.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "upstream unavailable" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestAcceptsTemplateFile(t *testing.T) {
	accepted := []string{"a.doc", "b.docx", "B.DOCX", "nested/path/c.doc"}
	for _, name := range accepted {
		if !formservice.AcceptsTemplateFile(name) {
			t.Fatalf("expected %q to be accepted", name)
		}
	}
	rejected := []string{"a.pdf", "b.txt", "noext", "docx"}
	for _, name := range rejected {
		if formservice.AcceptsTemplateFile(name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}
