package llm

import (
	"errors"
	"testing"
)

var scoreSchema = &Schema{
	Name: "test_score",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"score"},
		"properties": map[string]any{
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 10},
		},
	},
}

func TestValidateJSONAcceptsMatchingDocument(t *testing.T) {
	if err := ValidateJSON("test", scoreSchema, []byte(`{"score": 7.5}`)); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
	// second call hits the compiled cache
	if err := ValidateJSON("test", scoreSchema, []byte(`{"score": 3}`)); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestValidateJSONRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":      `score: 7`,
		"missing field": `{"feedback": "ok"}`,
		"out of range":  `{"score": 42}`,
	}
	for name, raw := range cases {
		err := ValidateJSON("test", scoreSchema, []byte(raw))
		var provErr *ProviderError
		if !errors.As(err, &provErr) || provErr.Code != ErrCodeInvalidResponse {
			t.Fatalf("%s: expected invalid response error, got %v", name, err)
		}
	}
}

func TestValidateJSONNilSchema(t *testing.T) {
	if err := ValidateJSON("test", nil, []byte(`anything`)); err != nil {
		t.Fatalf("expected nil schema to skip validation, got %v", err)
	}
}
