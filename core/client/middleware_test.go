package client

import (
	"context"
	"testing"

	"github.com/leofalp/askgpt/providers/completion"
)

// TestBuildSendChain_Order verifies that the first middleware is outermost.
func TestBuildSendChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next SendFunc) SendFunc {
			return func(ctx context.Context, request completion.CompletionRequest) (*completion.CompletionResponse, error) {
				order = append(order, name+":before")
				resp, err := next(ctx, request)
				order = append(order, name+":after")
				return resp, err
			}
		}
	}

	chain := buildSendChain(echoSender(), []Middleware{tag("a"), tag("b")})
	if _, err := chain(context.Background(), completion.CompletionRequest{Prompt: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a:before", "b:before", "b:after", "a:after"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

// TestBuildSendChain_Empty verifies the bare chain calls the sender directly.
func TestBuildSendChain_Empty(t *testing.T) {
	sender := echoSender()
	chain := buildSendChain(sender, nil)

	resp, err := chain(context.Background(), completion.CompletionRequest{Prompt: "direct"})
	if err != nil || resp.ID != "r-direct" {
		t.Fatalf("unexpected result: %+v, %v", resp, err)
	}
	if sender.calls.Load() != 1 {
		t.Errorf("expected one call, got %d", sender.calls.Load())
	}
}
