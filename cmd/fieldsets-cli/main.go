package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	fieldsets "github.com/goliatone/go-fieldsets"
	"github.com/goliatone/go-fieldsets/pkg/formservice"
	"github.com/goliatone/go-fieldsets/pkg/grouping"
	"github.com/goliatone/go-fieldsets/pkg/preview"
	"github.com/goliatone/go-fieldsets/pkg/workflow"
)

func main() {
	input := flag.String("input", "", "template text file to scan for {{variable}} placeholders")
	format := flag.String("format", "json", "output format: json (seed configuration) or html (preview)")
	output := flag.String("output", "", "output file (stdout if empty)")
	configDir := flag.String("config", "", "directory of grouping config documents (JSON/YAML)")
	review := flag.Bool("review", false, "run the interactive review against the form service")
	baseURL := flag.String("base-url", "", "form service base URL (required with -review)")
	formID := flag.String("form", "", "form ID (required with -review)")
	upload := flag.String("upload", "", "template .doc/.docx to upload instead of scanning -input")
	authToken := flag.String("auth-token", os.Getenv("FORM_SERVICE_TOKEN"), "bearer token for the form service")
	flag.Parse()

	ctx := context.Background()

	groupCfg := grouping.DefaultConfig()
	if *configDir != "" {
		loaded, err := grouping.LoadConfigFS(os.DirFS(*configDir))
		if err != nil {
			log.Fatalf("Failed to load grouping config: %v", err)
		}
		groupCfg = loaded
	}

	if *review {
		runReview(ctx, groupCfg, *baseURL, *formID, *input, *upload, *authToken)
		return
	}

	if *input == "" {
		log.Fatal("either -input or -review is required")
	}
	text, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}

	extraction := fieldsets.Extract(string(text))
	seed := fieldsets.GroupWith(groupCfg, extraction.ValidVariables)

	var rendered []byte
	switch *format {
	case "json":
		rendered, err = json.MarshalIndent(struct {
			Extraction fieldsets.ExtractionResult `json:"extraction"`
			Fieldsets  fieldsets.Configuration    `json:"fieldsets"`
		}{extraction, seed}, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode seed: %v", err)
		}
	case "html":
		renderer, err := preview.New()
		if err != nil {
			log.Fatalf("Failed to build preview renderer: %v", err)
		}
		rendered, err = renderer.Render(ctx, seed, nil)
		if err != nil {
			log.Fatalf("Failed to render preview: %v", err)
		}
	default:
		log.Fatalf("unknown format %q, expected json or html", *format)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output written to %s\n", *output)
	} else {
		fmt.Println(string(rendered))
	}
}

func runReview(ctx context.Context, groupCfg grouping.Config, baseURL, formID, input, upload, authToken string) {
	if baseURL == "" || formID == "" {
		log.Fatal("-review requires -base-url and -form")
	}

	var clientOpts []formservice.Option
	if authToken != "" {
		clientOpts = append(clientOpts, formservice.WithAuthToken(authToken))
	}
	client, err := formservice.New(baseURL, clientOpts...)
	if err != nil {
		log.Fatalf("Failed to build form service client: %v", err)
	}

	wf, err := workflow.New(
		workflow.WithFormService(client),
		workflow.WithGroupingConfig(groupCfg),
	)
	if err != nil {
		log.Fatalf("Failed to build workflow: %v", err)
	}

	req := workflow.Request{FormID: formID}
	switch {
	case upload != "":
		file, err := os.Open(upload)
		if err != nil {
			log.Fatalf("Failed to open template: %v", err)
		}
		defer file.Close()
		req.Filename = file.Name()
		req.File = file
	case input != "":
		text, err := os.ReadFile(input)
		if err != nil {
			log.Fatalf("Failed to read template: %v", err)
		}
		req.Text = string(text)
	default:
		log.Fatal("-review requires -input or -upload")
	}

	result, err := wf.Run(ctx, req)
	if err != nil {
		log.Fatalf("Review failed: %v", err)
	}

	switch {
	case result.Form != nil:
		fmt.Printf("Saved %d fieldsets to form %s\n", len(result.Form.Fieldsets), result.Form.ID)
	default:
		fmt.Println("Skipped; nothing persisted.")
	}
}
