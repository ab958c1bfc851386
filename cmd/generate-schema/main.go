package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/marmos91/docroots/pkg/config"
)

func main() {
	// Generate JSON schema from Config struct, keyed like the YAML file
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true, // Inline all definitions for simplicity
		FieldNameTag:              "yaml",
	}

	schema := reflector.Reflect(&config.Config{})

	// Add schema metadata
	schema.Title = "docroots Configuration"
	schema.Description = "Configuration schema for the docroots document provider"
	schema.Version = "1.0.0"

	annotateRoots(schema)

	// Marshal to pretty JSON
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}

	// Write to file
	outputFile := "config.schema.json"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if err := os.WriteFile(outputFile, schemaJSON, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("JSON schema written to %s\n", outputFile)
}

// annotateRoots adds the constraints the struct tags cannot express to the
// roots array: tags are document id prefixes and must not contain ':'.
func annotateRoots(schema *jsonschema.Schema) {
	roots, ok := schema.Properties.Get("roots")
	if !ok || roots.Items == nil {
		return
	}
	roots.Description = "Directories exposed as document trees, addressed as <tag>:<relative path>"

	if tag, ok := roots.Items.Properties.Get("tag"); ok {
		tag.Pattern = "^[^:]+$"
		minLength := uint64(1)
		tag.MinLength = &minLength
	}
	if path, ok := roots.Items.Properties.Get("path"); ok {
		path.Description = "Absolute base directory; a leading ~ expands to the home directory"
	}
	roots.Items.Required = []string{"tag", "path"}
}
