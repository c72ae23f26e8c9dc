package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Extractor probes a decoded JSON payload for a single value.
type Extractor func(payload any) (any, bool)

// Path returns an Extractor that walks nested objects by key.
func Path(keys ...string) Extractor {
	return func(payload any) (any, bool) {
		current := payload
		for _, key := range keys {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = obj[key]
			if !ok {
				return nil, false
			}
		}
		return current, current != nil
	}
}

// FirstString runs extractors in order and returns the first non-empty string
// (or number, formatted verbatim) any of them yields.
func FirstString(payload any, extractors []Extractor) (string, bool) {
	for _, extract := range extractors {
		value, ok := extract(payload)
		if !ok {
			continue
		}
		if s, ok := scalarString(value); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// FirstList runs extractors in order and returns the first JSON array found.
func FirstList(payload any, extractors []Extractor) ([]any, bool) {
	for _, extract := range extractors {
		value, ok := extract(payload)
		if !ok {
			continue
		}
		if list, ok := value.([]any); ok {
			return list, true
		}
	}
	return nil, false
}

// FirstObject runs extractors in order and returns the first JSON object found.
func FirstObject(payload any, extractors []Extractor) (map[string]any, bool) {
	for _, extract := range extractors {
		value, ok := extract(payload)
		if !ok {
			continue
		}
		if obj, ok := value.(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

// Root yields the payload itself.
func Root() Extractor {
	return func(payload any) (any, bool) { return payload, payload != nil }
}

// tenantIDExtractors lists the shapes the resolve endpoint has been seen to
// answer with, highest priority first.
var tenantIDExtractors = []Extractor{
	Path("data", "tenantId"),
	Path("tenantId"),
	Path("data", "tenant", "id"),
	Path("tenant", "id"),
	Path("data", "id"),
	Path("id"),
}

var tokenExtractors = []Extractor{
	Path("data", "token"),
	Path("token"),
	Path("data", "accessToken"),
	Path("accessToken"),
	Path("data", "access_token"),
	Path("access_token"),
}

// ExtractTenantID returns the tenant id carried by a resolve response body.
func ExtractTenantID(payload any) (string, bool) {
	return FirstString(payload, tenantIDExtractors)
}

// collectionExtractors locates a named collection in an enveloped or bare response.
func collectionExtractors(name string) []Extractor {
	return []Extractor{
		Path("data", name),
		Path(name),
		Path("data", "items"),
		Path("items"),
		Path("data"),
		Root(),
	}
}

// recordExtractors locates a single named record in an enveloped or bare response.
func recordExtractors(name string) []Extractor {
	return []Extractor{
		Path("data", name),
		Path(name),
		Path("data"),
		Root(),
	}
}

// decodeJSON decodes body keeping numbers as json.Number so ids survive intact.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return payload, nil
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case json.Number:
		return v.String(), true
	case float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}
