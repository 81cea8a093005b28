package kpi

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const storedIDsSchemaName = "kpi.stored_ids.json"

const storedIDsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array"
}`

var (
	storedIDsOnce     sync.Once
	storedIDsCompiled *jsonschema.Schema
	storedIDsErr      error
)

func storedIDsValidator() (*jsonschema.Schema, error) {
	storedIDsOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(storedIDsSchemaName, strings.NewReader(storedIDsSchema)); err != nil {
			storedIDsErr = fmt.Errorf("kpi: load stored ids schema: %w", err)
			return
		}
		storedIDsCompiled, storedIDsErr = compiler.Compile(storedIDsSchemaName)
		if storedIDsErr != nil {
			storedIDsErr = fmt.Errorf("kpi: compile stored ids schema: %w", storedIDsErr)
		}
	})
	return storedIDsCompiled, storedIDsErr
}

// DecodeIDs parses a stored preference value. Anything that is not a JSON
// array is rejected, as is a non-empty array without a single usable id.
// Elements that are not non-empty strings are skipped so the rest of the
// array still applies.
func DecodeIDs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("kpi: stored value is empty")
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("kpi: parse stored ids: %w", err)
	}
	schema, err := storedIDsValidator()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("kpi: stored ids failed validation: %w", err)
	}
	items, _ := payload.([]any)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, ok := item.(string)
		if !ok || id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if len(items) > 0 && len(ids) == 0 {
		return nil, fmt.Errorf("kpi: stored ids hold no usable entries")
	}
	return ids, nil
}

// EncodeIDs serializes ids as a JSON array, never null.
func EncodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("kpi: encode ids: %w", err)
	}
	return string(data), nil
}
