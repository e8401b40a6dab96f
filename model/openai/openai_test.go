package openai

import "testing"

func TestNewRejectsMissingAPIKey(t *testing.T) {
	if _, err := New(DefaultConfig()); err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestNewRejectsInvalidTemperature(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "sk-test"
	config.Temperature = 3.5

	if _, err := New(config); err == nil {
		t.Error("Expected error for out-of-range temperature")
	}
}

func TestNewWithValidConfig(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "sk-test"

	p, err := New(config)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.config.Model != "gpt-4o-mini" {
		t.Errorf("Expected default model gpt-4o-mini, got %s", p.config.Model)
	}
}
