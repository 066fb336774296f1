package scorecard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaName = "scorecard.schema.json"

//go:embed scorecard.schema.json
var schemaJSON []byte

var (
	printer = message.NewPrinter(language.English)
	schema  = mustCompileSchema(schemaJSON, schemaName)
)

// Schema returns the embedded JSON Schema document for scorecards.
func Schema() []byte { return bytes.Clone(schemaJSON) }

func mustCompileSchema(raw []byte, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("parse embedded %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("add %s resource: %v", name, err))
	}
	sch, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile %s: %v", name, err))
	}
	return sch
}

// validate checks the document shape. Malformed JSON and schema violations
// are both reported as a *ValidationError.
func validate(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &ValidationError{Problems: []string{"empty body"}}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ValidationError{Problems: []string{fmt.Sprintf("malformed JSON: %v", err)}}
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	var problems []string
	collect(ve, &problems)
	return &ValidationError{Problems: problems}
}

func collect(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collect(c, out)
	}
}
