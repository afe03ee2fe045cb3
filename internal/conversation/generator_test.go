package conversation

import (
	"context"
	"errors"
	"testing"
)

func TestGeneratorNormalizesSuccess(t *testing.T) {
	g := NewGenerator(&stubLLMClient{reply: "  an answer  "}, nil, nil)

	res := g.Generate(context.Background(), "prompt")
	if !res.Ok() {
		t.Fatalf("expected ok result, got %+v", res.Err)
	}
	if res.Text != "an answer" {
		t.Fatalf("expected trimmed text, got %q", res.Text)
	}
}

func TestGeneratorNormalizesTransportFailure(t *testing.T) {
	g := NewGenerator(&stubLLMClient{err: errors.New("dial tcp: timeout")}, nil, nil)

	res := g.Generate(context.Background(), "prompt")
	if res.Ok() {
		t.Fatal("expected error result")
	}
	if res.Err.Kind != ErrorKindTransport {
		t.Fatalf("expected transport kind, got %s", res.Err.Kind)
	}
}

func TestGeneratorNormalizesEmptyResponse(t *testing.T) {
	g := NewGenerator(&stubLLMClient{reply: "   "}, nil, nil)

	res := g.Generate(context.Background(), "prompt")
	if res.Ok() {
		t.Fatal("expected error result for blank text")
	}
	if res.Err.Kind != ErrorKindEmptyResponse {
		t.Fatalf("expected empty-response kind, got %s", res.Err.Kind)
	}
}

func TestGenerationErrorMessage(t *testing.T) {
	err := &GenerationError{Kind: ErrorKindTransport, Detail: "boom"}
	if err.Error() == "" {
		t.Fatal("expected error text")
	}
}
