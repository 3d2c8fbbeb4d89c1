package question

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/lerda8/data-retrieving-training/internal/llm"
	"github.com/lerda8/data-retrieving-training/internal/schema"
)

type stubProvider struct {
	content string
	err     error

	lastRequest *llm.Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content, FinishReason: "stop"}, nil
}

func testDescriptor() *schema.Descriptor {
	return &schema.Descriptor{
		Industry:    "logistics",
		Description: "Freight and warehousing",
		Tables: []schema.Table{
			{Name: "warehouses", Columns: []string{"id", "name", "capacity"}},
			{Name: "shipments", Columns: []string{"id", "warehouse_id", "weight"}},
		},
		Relationships: []string{"shipments.warehouse_id -> warehouses.id"},
	}
}

func TestGenerator_Generate(t *testing.T) {
	provider := &stubProvider{
		content: `{"question": "How many shipments left each warehouse?", "sql": "SELECT w.name, COUNT(*) FROM shipments s JOIN warehouses w ON s.warehouse_id = w.id GROUP BY w.name"}`,
	}
	gen := NewGenerator(provider)

	q, err := gen.Generate(context.Background(), testDescriptor(), Medium)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if q.ID == uuid.Nil {
		t.Error("question should have an ID")
	}
	if q.Industry != "logistics" {
		t.Errorf("Industry = %q, want logistics", q.Industry)
	}
	if q.Difficulty != Medium {
		t.Errorf("Difficulty = %q, want medium", q.Difficulty)
	}
	if q.Prompt == "" || q.ReferenceSQL == "" {
		t.Errorf("question incomplete: prompt=%q sql=%q", q.Prompt, q.ReferenceSQL)
	}
	if q.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestGenerator_PromptCarriesSchemaAndDifficulty(t *testing.T) {
	provider := &stubProvider{
		content: `{"question": "q", "sql": "SELECT 1"}`,
	}
	gen := NewGenerator(provider)

	if _, err := gen.Generate(context.Background(), testDescriptor(), Hard); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := provider.lastRequest
	if req == nil {
		t.Fatal("provider was not called")
	}
	if !strings.Contains(req.Prompt, "warehouses") {
		t.Error("prompt should contain schema tables")
	}
	if !strings.Contains(req.Prompt, "shipments.warehouse_id -> warehouses.id") {
		t.Error("prompt should contain relationships")
	}
	if !strings.Contains(req.Prompt, "Difficulty: hard") {
		t.Error("prompt should carry the difficulty tier")
	}
	if req.System == "" {
		t.Error("system prompt should be set")
	}
}

func TestGenerator_ProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	gen := NewGenerator(provider)

	_, err := gen.Generate(context.Background(), testDescriptor(), Easy)
	if err == nil {
		t.Fatal("Generate() should fail when the provider errors")
	}
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("error = %v, want ErrGeneration", err)
	}
}

func TestGenerator_MalformedResponse(t *testing.T) {
	provider := &stubProvider{content: "Sure! Here is a question about warehouses."}
	gen := NewGenerator(provider)

	_, err := gen.Generate(context.Background(), testDescriptor(), Easy)
	if err == nil {
		t.Fatal("Generate() should fail on a malformed response")
	}
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("error = %v, want ErrGeneration", err)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{"easy", Easy, false},
		{"medium", Medium, false},
		{"hard", Hard, false},
		{"extreme", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDifficulty(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDifficulty(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDifficulty(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
