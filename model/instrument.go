package model

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweetpotato0/deepresearch/message"
	"github.com/sweetpotato0/deepresearch/pkg/logging"
)

// instrumented wraps a Client with request/response logging.
type instrumented struct {
	inner  Client
	logger *slog.Logger
}

// WithLogging decorates a client so every generation call is logged with its
// outcome and latency.
func WithLogging(client Client, name string) Client {
	return &instrumented{
		inner:  client,
		logger: logging.WithComponent("model").With("client", name),
	}
}

func (c *instrumented) Generate(ctx context.Context, messages []*message.Message) (string, error) {
	start := time.Now()
	text, err := c.inner.Generate(ctx, messages)
	if err != nil {
		c.logger.Error("generate failed", "messages", len(messages), "duration", time.Since(start), "error", err)
		return "", err
	}
	c.logger.Debug("generate completed", "messages", len(messages), "duration", time.Since(start), "output_length", len(text))
	return text, nil
}

func (c *instrumented) GenerateObject(ctx context.Context, messages []*message.Message, out any) error {
	start := time.Now()
	err := c.inner.GenerateObject(ctx, messages, out)
	if err != nil {
		c.logger.Error("generate object failed", "messages", len(messages), "duration", time.Since(start), "error", err)
		return err
	}
	c.logger.Debug("generate object completed", "messages", len(messages), "duration", time.Since(start))
	return err
}
