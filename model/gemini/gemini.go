package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	cfg "github.com/sweetpotato0/deepresearch/config"
	"github.com/sweetpotato0/deepresearch/message"
	"github.com/sweetpotato0/deepresearch/model"
	"google.golang.org/api/option"
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Provider implements the model.Client interface for Google Gemini
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a new Gemini provider using the official SDK
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}

	if err := cfg.ValidateLLMConfig(config.APIKey, config.Model, float64(config.Temperature), int(config.MaxTokens)); err != nil {
		return nil, fmt.Errorf("invalid Gemini configuration: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{
		config: config,
		client: client,
	}, nil
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// Generate implements model.Client
func (p *Provider) Generate(ctx context.Context, messages []*message.Message) (string, error) {
	return p.generate(ctx, messages, "")
}

// GenerateObject implements model.Client. Gemini supports native JSON
// output, so the response MIME type is forced.
func (p *Provider) GenerateObject(ctx context.Context, messages []*message.Message, out any) error {
	raw, err := p.generate(ctx, messages, "application/json")
	if err != nil {
		return err
	}
	if err := model.DecodeJSON(raw, out); err != nil {
		return fmt.Errorf("Gemini structured output invalid: %w", err)
	}
	return nil
}

func (p *Provider) generate(ctx context.Context, messages []*message.Message, mimeType string) (string, error) {
	gm := p.client.GenerativeModel(p.config.Model)
	gm.SetTemperature(p.config.Temperature)
	if p.config.MaxTokens > 0 {
		gm.SetMaxOutputTokens(p.config.MaxTokens)
	}
	if mimeType != "" {
		gm.ResponseMIMEType = mimeType
	}

	var parts []genai.Part
	for _, msg := range messages {
		switch msg.Role {
		case message.RoleSystem:
			gm.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
		default:
			parts = append(parts, genai.Text(msg.Content))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no user content to send to Gemini")
	}

	resp, err := gm.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}
