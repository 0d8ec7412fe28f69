package configset

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

const (
	clientSchema       = "client.schema.json"
	environmentsSchema = "environments.schema.json"
	rulesSchema        = "download_rules.schema.json"
	enrichmentSchema   = "enrichment_rules.schema.json"
)

var (
	schemaOnce sync.Once
	schemaErr  error
	schemas    map[string]*jsonschema.Schema
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		names := []string{clientSchema, environmentsSchema, rulesSchema, enrichmentSchema}
		compiler := jsonschema.NewCompiler()

		for _, name := range names {
			data, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				schemaErr = err
				return
			}
			if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}

		compiled := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			sch, err := compiler.Compile(name)
			if err != nil {
				schemaErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			compiled[name] = sch
		}
		schemas = compiled
	})
	return schemas, schemaErr
}

// validateDocument checks a decoded JSON document against one of the embedded
// schemas.
func validateDocument(schemaName string, document any) error {
	compiled, err := loadSchemas()
	if err != nil {
		return err
	}
	return compiled[schemaName].Validate(document)
}
