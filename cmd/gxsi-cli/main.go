package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/goliatone/go-gxsi/pkg/designer"
	"github.com/goliatone/go-gxsi/pkg/formfile"
	importer "github.com/goliatone/go-gxsi/pkg/importer/openapi"
	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/goliatone/go-gxsi/pkg/renderers/htmlpreview"
	"github.com/goliatone/go-gxsi/pkg/renderers/rawxml"
)

func main() {
	formPath := flag.String("form", "", "YAML form definition to load")
	openapiPath := flag.String("openapi", "", "OpenAPI document to import a form from")
	operation := flag.String("operation", "", "operation ID to import (with -openapi)")
	interactive := flag.Bool("interactive", false, "edit the form through terminal prompts")
	output := flag.String("output", ".", "directory the exported artifacts are written to")
	preview := flag.String("preview", "", "write an HTML preview to this file")
	printXML := flag.Bool("print", false, "print the XML to stdout instead of writing files")
	flag.Parse()

	ctx := context.Background()

	doc, err := loadDocument(ctx, *formPath, *openapiPath, *operation)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	renderer, err := htmlpreview.New()
	if err != nil {
		log.Fatalf("Failed to initialize preview renderer: %v", err)
	}
	session := designer.New(
		designer.WithDocument(doc),
		designer.WithRenderer(renderer),
		designer.WithRenderer(rawxml.New()),
	)

	if *interactive {
		loop := designer.NewInteractive(session, designer.NewSurveyDriver(),
			designer.WithSaveFunc(saveTo(*output)))
		if err := loop.Run(ctx); err != nil {
			log.Fatalf("Designer failed: %v", err)
		}
		return
	}

	artifacts, err := session.Export()
	if err != nil {
		log.Fatalf("Failed to export form: %v", err)
	}

	if *printXML {
		fmt.Print(string(artifacts[0].Data))
	} else {
		save := saveTo(*output)
		for _, artifact := range artifacts {
			if err := save(artifact); err != nil {
				log.Fatalf("Failed to write %s: %v", artifact.Name, err)
			}
			fmt.Printf("Form written to %s\n", filepath.Join(*output, artifact.Name))
		}
	}

	if *preview != "" {
		page, err := session.Preview(ctx, "")
		if err != nil {
			log.Fatalf("Failed to render preview: %v", err)
		}
		if err := os.WriteFile(*preview, page, 0o644); err != nil {
			log.Fatalf("Failed to write preview: %v", err)
		}
		fmt.Printf("Preview written to %s\n", *preview)
	}
}

func loadDocument(ctx context.Context, formPath, openapiPath, operation string) (*model.Document, error) {
	switch {
	case formPath != "" && openapiPath != "":
		return nil, fmt.Errorf("-form and -openapi are mutually exclusive")
	case formPath != "":
		return formfile.ReadFile(formPath)
	case openapiPath != "":
		if operation == "" {
			return nil, fmt.Errorf("-openapi requires -operation")
		}
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return nil, err
		}
		return importer.New(importer.Options{}).Import(ctx, data, operation)
	default:
		return model.NewDocument(), nil
	}
}

func saveTo(dir string) func(designer.Artifact) error {
	return func(artifact designer.Artifact) error {
		return os.WriteFile(filepath.Join(dir, artifact.Name), artifact.Data, 0o644)
	}
}
