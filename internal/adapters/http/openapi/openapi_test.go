package openapi

import (
	"context"
	"encoding/json"
	"testing"
)

func TestLoadValidatesEmbeddedDocument(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, path := range []string{"/healthz", "/readyz", "/upload", "/predict", "/v1/summaries", "/v1/models/retrain"} {
		if doc.Paths.Find(path) == nil {
			t.Fatalf("missing path %s", path)
		}
	}
	schema := doc.Components.Schemas["PredictionRequest"]
	if schema == nil || len(schema.Value.Required) != 5 {
		t.Fatalf("prediction request must require five fields")
	}
}

func TestJSONRendersDocument(t *testing.T) {
	raw, err := JSON(context.Background())
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("rendered document is not JSON: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", doc["openapi"])
	}
}
