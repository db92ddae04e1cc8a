package api

import (
	"errors"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Request body constraints are declared as JSON Schemas and compiled once
// at init. String fields are trimmed before validation so whitespace-only
// values fail the minLength checks.
var (
	createUserSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": {"type": "string", "minLength": 1, "format": "email"},
			"password": {"type": "string", "minLength": 6}
		}
	}`)

	loginSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": {"type": "string"},
			"password": {"type": "string"}
		}
	}`)

	createTodoSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["text"],
		"properties": {
			"text": {"type": "string", "minLength": 1},
			"parent": {"type": "string", "format": "uuid"}
		}
	}`)

	createBoardSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": {"type": "string", "minLength": 1}
		}
	}`)

	createListSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["title", "parent"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"parent": {"type": "string", "format": "uuid"}
		}
	}`)
)

func mustCompileSchema(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("schema.json", strings.NewReader(src)); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// validationFailure is the 400 body for schema violations: one message per
// offending field.
type validationFailure struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// validateBody checks a decoded JSON document against a schema and shapes
// leaf violations into per-field messages. Returns nil when valid.
func validateBody(schema *jsonschema.Schema, doc any) *validationFailure {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	failure := &validationFailure{Message: "validation failed", Errors: map[string]string{}}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		collectLeafCauses(ve, failure.Errors)
	}
	if len(failure.Errors) == 0 {
		failure.Errors["body"] = err.Error()
	}
	return failure
}

func collectLeafCauses(ve *jsonschema.ValidationError, out map[string]string) {
	if len(ve.Causes) == 0 {
		for _, field := range fieldsFromCause(ve) {
			if _, seen := out[field]; !seen {
				out[field] = ve.Message
			}
		}
		return
	}
	for _, cause := range ve.Causes {
		collectLeafCauses(cause, out)
	}
}

// fieldsFromCause resolves the field name(s) a violation refers to. For
// most keywords that is the last segment of the instance pointer; required
// violations point at the object itself, so the missing names are pulled
// from the message instead.
func fieldsFromCause(ve *jsonschema.ValidationError) []string {
	if loc := strings.TrimPrefix(ve.InstanceLocation, "/"); loc != "" {
		parts := strings.Split(loc, "/")
		return []string{parts[len(parts)-1]}
	}
	if strings.HasSuffix(ve.KeywordLocation, "/required") {
		var fields []string
		quoted := strings.Split(ve.Message, "'")
		for i := 1; i < len(quoted); i += 2 {
			fields = append(fields, quoted[i])
		}
		if len(fields) > 0 {
			return fields
		}
	}
	return []string{"body"}
}
