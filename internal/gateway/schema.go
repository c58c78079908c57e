package gateway

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// searchRequestSchema validates the shape of a search request body.
// It is structural only: semantic rules (provider names, parameter
// compatibility, freshness grammar) belong to the search core so the
// stable rejection codes stay authoritative.
const searchRequestSchema = `{
	"type": "object",
	"required": ["query"],
	"additionalProperties": false,
	"properties": {
		"query":       {"type": "string"},
		"provider":    {"type": "string"},
		"count":       {"type": "integer"},
		"country":     {"type": "string"},
		"search_lang": {"type": "string"},
		"ui_lang":     {"type": "string"},
		"freshness":   {"type": "string"},
		"site":        {"type": "string"},
		"summary":     {"type": "boolean"}
	}
}`

type bodyValidator struct {
	schema *jsonschema.Schema
}

func newBodyValidator() (*bodyValidator, error) {
	// jsonschema.UnmarshalJSON keeps numbers as json.Number, which the
	// validator requires for integer checks.
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(searchRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("search-request.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("search-request.json")
	if err != nil {
		return nil, err
	}
	return &bodyValidator{schema: schema}, nil
}

func (v *bodyValidator) validate(body []byte) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("malformed JSON body")
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("body does not match search schema: %s", err)
	}
	return nil
}
