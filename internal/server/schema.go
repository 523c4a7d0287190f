package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schemaSet holds each tool's compiled input schema.
type schemaSet struct {
	byTool map[string]*gojsonschema.Schema
}

// newSchemaSet compiles the input schema of every tool. A tool whose schema
// fails to compile is logged and served without validation.
func newSchemaSet(tools []Tool) *schemaSet {
	set := &schemaSet{byTool: make(map[string]*gojsonschema.Schema, len(tools))}
	for _, t := range tools {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.InputSchema))
		if err != nil {
			log.Printf("Invalid input schema for %s: %v", t.Name, err)
			continue
		}
		set.byTool[t.Name] = schema
	}
	return set
}

// validate checks args against the tool's input schema. Every violation is
// reported as "field: description", joined with "; ".
func (set *schemaSet) validate(tool string, args json.RawMessage) error {
	schema, ok := set.byTool[tool]
	if !ok {
		return nil
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
