package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/sweetpotato0/deepresearch/message"
)

type fakeClient struct {
	text string
	err  error
}

func (f *fakeClient) Generate(ctx context.Context, msgs []*message.Message) (string, error) {
	return f.text, f.err
}

func (f *fakeClient) GenerateObject(ctx context.Context, msgs []*message.Message, out any) error {
	return f.err
}

func TestWithLoggingPassesThrough(t *testing.T) {
	client := WithLogging(&fakeClient{text: "hello"}, "test")

	text, err := client.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("Expected passthrough output, got %q", text)
	}

	if err := client.GenerateObject(context.Background(), nil, nil); err != nil {
		t.Errorf("GenerateObject failed: %v", err)
	}
}

func TestWithLoggingPropagatesErrors(t *testing.T) {
	wantErr := fmt.Errorf("upstream down")
	client := WithLogging(&fakeClient{err: wantErr}, "test")

	if _, err := client.Generate(context.Background(), nil); err != wantErr {
		t.Errorf("Expected upstream error, got %v", err)
	}
	if err := client.GenerateObject(context.Background(), nil, nil); err != wantErr {
		t.Errorf("Expected upstream error, got %v", err)
	}
}
