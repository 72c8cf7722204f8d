// Package llm proposes raw candidate values with a language model. It is
// an optional upstream extractor: every value it returns is checked
// against the source text and then goes through the same normalizers
// and priority rules as any other candidate.
package llm

import (
	"context"
	"errors"

	"github.com/ppiankov/jurisflow/internal/model"
)

// ErrCandidateLeak is returned in strict mode when the model proposes a
// value that does not occur verbatim in the text it was given.
var ErrCandidateLeak = errors.New("candidate not found in source text")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Extract proposes candidate values for the requested fields
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// FieldHint describes one field the model may fill
type FieldHint struct {
	Path  string   // Dotted field path (adicionais.noturno)
	Label string   // Human label
	Kind  string   // Value type, in words
	Terms []string // Allowed canonical terms for vocabulary fields
}

// ExtractRequest contains the input for candidate extraction
type ExtractRequest struct {
	Variant     model.Variant
	Fields      []FieldHint
	SourceText  string
	ContextText string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExtractResponse contains the proposed candidates
type ExtractResponse struct {
	Candidates []model.CandidateValue
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictCandidates rejects responses quoting text absent from the sources
	StrictCandidates bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:         "", // Disabled by default
		Timeout:          60,
		StrictCandidates: true,
		MaxTokens:        2000,
	}
}
