package shopapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const specItemsSchemaText = `{
	"type": "object",
	"additionalProperties": {
		"oneOf": [
			{"type": ["string", "number"]},
			{"type": "array", "items": {"type": ["string", "number"]}}
		]
	}
}`

const skuSpecSchemaText = `{
	"type": "object",
	"additionalProperties": {"type": ["string", "number"]}
}`

var (
	specItemsSchema = mustCompileSchema("specitems.json", specItemsSchemaText)
	skuSpecSchema   = mustCompileSchema("skuspec.json", skuSpecSchemaText)
)

var ErrMalformedSpec = errors.New("malformed spec")

func mustCompileSchema(name, text string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err)) // develop mistake
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	schema, err := c.Compile(name)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	return schema
}

// DecodeSpecItems decodes the spu "specItems" field into axes in the order the
// catalog sent them. A scalar value becomes a single-value axis.
func DecodeSpecItems(raw string) ([]domain.SpecAxis, error) {
	const op = "shopapi.DecodeSpecItems"

	data, ok, err := validateSpecText(raw, specItemsSchema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, nil
	}

	var axes []domain.SpecAxis
	index := make(map[string]int)
	err = walkObject(data, func(key string, value json.RawMessage) error {
		values, err := axisValues(value)
		if err != nil {
			return err
		}
		if i, dup := index[key]; dup {
			axes[i].Values = values
			return nil
		}
		index[key] = len(axes)
		axes = append(axes, domain.SpecAxis{Name: key, Values: values})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return axes, nil
}

// DecodeSKUSpec decodes the sku "spec" field.
func DecodeSKUSpec(raw string) (map[string]string, error) {
	const op = "shopapi.DecodeSKUSpec"

	data, ok, err := validateSpecText(raw, skuSpecSchema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	spec := make(map[string]string)
	if !ok {
		return spec, nil
	}

	err = walkObject(data, func(key string, value json.RawMessage) error {
		v, err := scalarString(value)
		if err != nil {
			return err
		}
		spec[key] = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return spec, nil
}

// validateSpecText normalizes single quotes and validates the document.
// It reports ok=false for a blank input.
func validateSpecText(
	raw string, schema *jsonschema.Schema,
) (data []byte, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}
	normalized := strings.ReplaceAll(raw, "'", `"`)

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(normalized))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedSpec, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedSpec, err)
	}
	return []byte(normalized), true, nil
}

func walkObject(data []byte, fn func(string, json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSpec, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: object expected", ErrMalformedSpec)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSpec, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: key expected", ErrMalformedSpec)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSpec, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func axisValues(value json.RawMessage) ([]string, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || value[0] != '[' {
		v, err := scalarString(value)
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSpec, err)
	}
	values := make([]string, 0, len(items))
	for _, it := range items {
		v, err := scalarString(it)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func scalarString(value json.RawMessage) (string, error) {
	value = bytes.TrimSpace(value)
	if len(value) > 0 && value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformedSpec, err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedSpec, err)
	}
	return n.String(), nil
}
