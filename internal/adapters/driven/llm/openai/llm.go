// Package openai provides a generation service adapter for
// OpenAI-compatible /chat/completions endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gpt-oss-20b"
	DefaultTimeout = 60 * time.Second
)

// RefusalAnswer is the reply the model is instructed to give when the
// answer is absent from the supplied context. Grounding is prompted,
// not enforced: treat it as best effort.
const RefusalAnswer = "I cannot find the answer in the document."

// groundingPrompt instructs the model to answer only from context.
const groundingPrompt = "You are a document assistant.\n" +
	"Use ONLY the provided context to answer the question.\n" +
	"If the answer is not in the context, reply:\n" +
	"\"" + RefusalAnswer + "\"\n\n" +
	"Context:\n%s\n\nQuestion:\n%s"

// Config holds configuration for the generation service.
type Config struct {
	// BaseURL is the API base URL (required).
	BaseURL string

	// APIKey is the bearer token (required).
	APIKey string

	// Model is the chat model to use (default: gpt-oss-20b).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// GenerationService produces grounded answers via an OpenAI-compatible
// chat completions API.
type GenerationService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model    string              `json:"model"`
	Messages []chatCompletionMsg `json:"messages"`
}

// chatChoice covers the response shapes compatible servers produce:
// the chat shape carries message.content, the legacy completion shape
// a bare text field. Exactly one is consulted, in that order.
type chatChoice struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message,omitempty"`
	Text *string `json:"text,omitempty"`
}

// answer returns the generated text for whichever shape is present.
func (c chatChoice) answer() (string, bool) {
	if c.Message != nil {
		return c.Message.Content, true
	}
	if c.Text != nil {
		return *c.Text, true
	}
	return "", false
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewGenerationService creates a new generation service client.
func NewGenerationService(cfg Config) (*GenerationService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: generation base URL", domain.ErrMissingConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: generation API key", domain.ErrMissingConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GenerationService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate sends the question plus assembled context to the model and
// returns the generated text.
func (s *GenerationService) Generate(ctx context.Context, question, contextText string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: fmt.Sprintf(groundingPrompt, contextText, question)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrGenerationService, err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: undecodable response: %v", domain.ErrGenerationService, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrGenerationService, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrGenerationService, resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", domain.ErrGenerationService)
	}

	answer, ok := chatResp.Choices[0].answer()
	if !ok {
		return "", fmt.Errorf("%w: unsupported response structure", domain.ErrGenerationService)
	}
	return answer, nil
}

// ModelName returns the name of the model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *GenerationService) Close() error {
	return nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
