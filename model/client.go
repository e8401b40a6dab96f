package model

import (
	"context"

	"github.com/sweetpotato0/deepresearch/message"
)

// Client is the generation capability consumed by the pipeline stages. A
// failure of either method is fatal to the stage that invoked it.
type Client interface {
	// Generate produces free text for the given conversation.
	Generate(ctx context.Context, messages []*message.Message) (string, error)

	// GenerateObject produces structured output and decodes it into out,
	// which must be a pointer. The conversation should instruct the model
	// to answer with JSON only; providers add their own enforcement where
	// the API supports it.
	GenerateObject(ctx context.Context, messages []*message.Message, out any) error
}
