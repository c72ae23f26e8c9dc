package sdk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-bexpr"
	lru "github.com/hashicorp/golang-lru/v2"
)

const evaluatorCacheSize = 128

var evaluatorCache, _ = lru.New[string, *bexpr.Evaluator](evaluatorCacheSize)

// FilterEvents keeps the events whose Attributes satisfy the go-bexpr
// expression expr. An empty expression keeps everything. Events missing a
// referenced field do not match.
func FilterEvents(events []Event, expr string) ([]Event, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return events, nil
	}

	evaluator, err := compileFilter(expr)
	if err != nil {
		return nil, err
	}

	matched := make([]Event, 0, len(events))
	for _, event := range events {
		ok, err := evaluator.Evaluate(event.Attributes)
		if err != nil {
			continue
		}
		if ok {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

func compileFilter(expr string) (*bexpr.Evaluator, error) {
	if cached, ok := evaluatorCache.Get(expr); ok {
		return cached, nil
	}
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	evaluatorCache.Add(expr, evaluator)
	return evaluator, nil
}

// BuildEventFilter builds an AND expression matching every key/value pair.
// Strings are quoted, booleans and numbers are emitted verbatim.
func BuildEventFilter(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	expressions := make([]string, 0, len(keys))
	for _, key := range keys {
		expressions = append(expressions, fmt.Sprintf("%s == %s", key, formatFilterValue(fields[key])))
	}
	return strings.Join(expressions, " and ")
}

// ParseFilterPairs turns key=value arguments into filter fields. Values that
// parse as booleans or numbers keep that type. A repeated key keeps its last
// value and yields a warning.
func ParseFilterPairs(pairs []string) (map[string]any, []string, error) {
	fields := make(map[string]any, len(pairs))
	var warnings []string
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		if _, dup := fields[key]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate key %q: last value wins", key))
		}
		fields[key] = typedValue(strings.TrimSpace(value))
	}
	return fields, warnings, nil
}

func typedValue(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func formatFilterValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}
