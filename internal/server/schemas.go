package server

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Request schemas, compiled once at startup. Spanish field names mirror the
// wire documents the pricing backend and the session store use.
const completeQuoteSchema = `{
	"type": "object",
	"required": ["contact", "material", "delivery"],
	"properties": {
		"contact": {
			"type": "object",
			"required": ["full_name", "email", "phone"],
			"properties": {
				"full_name": {"type": "string", "minLength": 1},
				"email": {"type": "string", "minLength": 3},
				"phone": {"type": "string", "minLength": 1}
			}
		},
		"material": {
			"type": "object",
			"required": ["material", "thickness"],
			"properties": {
				"material": {"type": "string", "minLength": 1},
				"thickness": {"type": "string", "minLength": 1},
				"color": {"type": "string"}
			}
		},
		"delivery": {
			"type": "object",
			"required": ["tipo"],
			"properties": {
				"tipo": {"type": "string", "enum": ["recogida", "envio"]},
				"taller": {"type": "string"},
				"direccion": {
					"type": "object",
					"required": ["calle", "ciudad", "codigo_postal", "provincia"],
					"properties": {
						"calle": {"type": "string", "minLength": 1},
						"ciudad": {"type": "string", "minLength": 1},
						"codigo_postal": {"type": "string", "minLength": 1},
						"provincia": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}
}`

const advanceSchema = `{
	"type": "object",
	"required": ["action"],
	"properties": {
		"action": {"type": "string", "enum": ["material", "contact", "delivery"]},
		"material": {"type": "object"},
		"contact": {"type": "object"},
		"delivery": {"type": "object"}
	}
}`

type schemaSet struct {
	completeQuote *gojsonschema.Schema
	advance       *gojsonschema.Schema
}

func compileSchemas() (*schemaSet, error) {
	complete, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(completeQuoteSchema))
	if err != nil {
		return nil, fmt.Errorf("compile complete-quote schema: %w", err)
	}
	advance, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(advanceSchema))
	if err != nil {
		return nil, fmt.Errorf("compile advance schema: %w", err)
	}
	return &schemaSet{completeQuote: complete, advance: advance}, nil
}

// validate runs the document against the schema and flattens the findings
// into one error message.
func validate(schema *gojsonschema.Schema, document []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %v", errs)
	}
	return nil
}
