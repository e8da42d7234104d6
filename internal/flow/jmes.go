package flow

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
)

// Compile parses a JMESPath expression once for repeated evaluation.
func Compile(expression string) (*jmespath.JMESPath, error) {
	compiled, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return compiled, nil
}

// EvalAny returns the raw value selected by the compiled expression.
// It will return nil and no error if the expression does not match anything.
func EvalAny(expr *jmespath.JMESPath, payload any) (any, error) {
	v, err := expr.Search(payload)
	if err != nil {
		return nil, fmt.Errorf("jmespath: %w", err)
	}
	return v, nil
}

// Filter keeps the records for which expression evaluates to true against the
// record's JSON form. An empty expression keeps everything.
func Filter[T any](expression string, records []T) ([]T, error) {
	if expression == "" {
		return records, nil
	}
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("jmespath: %w", err)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		doc, err := toDocument(r)
		if err != nil {
			return nil, err
		}
		v, err := EvalAny(compiled, doc)
		if err != nil {
			return nil, err
		}
		if matched, ok := v.(bool); ok && matched {
			out = append(out, r)
		}
	}
	return out, nil
}

// toDocument round-trips v through JSON so JMESPath sees the wire field names.
func toDocument(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
