package services

import (
	"context"
)

// LLMService defines the interface for interacting with an LLM API.
// It is deliberately narrow: the narrator composes the full prompt and
// parses the reply, so providers only move text back and forth.
type LLMService interface {
	// InitModel prepares the model for use on startup.
	InitModel(ctx context.Context, modelName string) error

	// GenerateText sends a composed prompt and returns the raw reply.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Close releases any underlying client resources.
	Close() error
}
