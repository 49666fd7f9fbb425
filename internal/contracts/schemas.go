package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}

		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("failed to compile schema %s: %w", path, err)
		}

		key := strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
		compiledSchemas[key] = schema
		return nil
	})
	if err != nil {
		log.Fatalf("error compiling embedded schemas: %v", err)
	}
}

// Validate checks a JSON body against the named embedded schema,
// e.g. "search-response" or "search-event".
func Validate(name string, body []byte) error {
	schema, ok := compiledSchemas[name]
	if !ok {
		return fmt.Errorf("schema '%s' not found", name)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// ValidateSearchResponse checks an outward search page body.
func ValidateSearchResponse(body []byte) error {
	return Validate("search-response", body)
}

// ValidateSearchEvent checks a search analytics event payload before it is
// published, so malformed events never reach the exchange.
func ValidateSearchEvent(body []byte) error {
	return Validate("search-event", body)
}
