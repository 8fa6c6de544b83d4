// Package contracts хранит JSON-схемы сообщений, которыми сервис обменивается с внешним миром.
package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	EventRecommendationCreated = "RecommendationCreatedEvent"
	RecordPropertyCSV          = "PropertyCSVRecord"
	VersionV1                  = "1.0.0"
)

//go:embed schemas
var schemaFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

var schemaFiles = map[string]string{
	schemaKey(EventRecommendationCreated, VersionV1): "schemas/events/recommendation-created/v1.json",
	schemaKey(RecordPropertyCSV, VersionV1):          "schemas/records/property-csv/v1.json",
}

func schemaKey(name, version string) string {
	return fmt.Sprintf("%s/%s", name, version)
}

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	for key, path := range schemaFiles {
		data, err := schemaFS.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("contracts: read schema %s: %v", path, err))
		}
		if err := compiler.AddResource(path, bytes.NewReader(data)); err != nil {
			panic(fmt.Sprintf("contracts: add schema %s: %v", path, err))
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			panic(fmt.Sprintf("contracts: compile schema %s: %v", path, err))
		}
		compiledSchemas[key] = schema
	}
}

// ValidateEvent проверяет тело сообщения по схеме события указанной версии.
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	schema, ok := compiledSchemas[schemaKey(eventType, eventVersion)]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// ValidatePropertyRecord проверяет строку CSV импорта (заголовок -> значение).
func ValidatePropertyRecord(record map[string]string) error {
	schema := compiledSchemas[schemaKey(RecordPropertyCSV, VersionV1)]

	v := make(map[string]interface{}, len(record))
	for k, val := range record {
		v[k] = val
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match %s: %w", RecordPropertyCSV, err)
	}
	return nil
}
