// Copyright © 2026 The FXLINT authors

package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/catalog.schema.json
var schemaFS embed.FS

const schemaID = "catalog.schema.json"

// SchemaError is a single violation of the catalog schema.
type SchemaError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e SchemaError) String() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// SchemaErrors is returned by Load when a catalog does not conform to the
// catalog schema.
type SchemaErrors struct {
	Errors []SchemaError
}

func (e *SchemaErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i := range e.Errors {
		msgs[i] = e.Errors[i].String()
	}
	return "invalid catalog: " + strings.Join(msgs, "; ")
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile("schemas/" + schemaID)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse embedded schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaID, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	return schema, nil
})

// validateDocument validates a parsed JSON catalog document.
func validateDocument(doc any) []SchemaError {
	schema, err := compileSchema()
	if err != nil {
		return []SchemaError{{Message: err.Error()}}
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []SchemaError{{Message: err.Error()}}
	}
	return collectErrors(verr)
}

// collectErrors flattens the leaves of a validation error tree.
func collectErrors(ve *jsonschema.ValidationError) []SchemaError {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		return []SchemaError{{Path: path, Message: ve.Error()}}
	}
	var errs []SchemaError
	for _, cause := range ve.Causes {
		errs = append(errs, collectErrors(cause)...)
	}
	return errs
}
