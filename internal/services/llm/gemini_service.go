package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
	"google.golang.org/genai"
)

const (
	DefaultModel      = "gemini-1.5-flash"
	DefaultAPIVersion = "v1beta"

	// ProbePrompt is the fixed greeting sent by Probe
	ProbePrompt = "Hello, please respond with a short greeting to confirm you are working."
)

var (
	// ErrNoAPIKey is returned when a call is attempted without a credential
	ErrNoAPIKey = errors.New("google API key is not configured")

	// ErrInvalidResponse is returned when the first candidate carries no text
	ErrInvalidResponse = errors.New("invalid response format from Google AI")
)

// StatusError carries the HTTP status of a failed generateContent call
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Code, e.Message)
}

// GeminiService answers prompts through the Gemini generateContent endpoint.
// Clients are created lazily, one per credential, since the key arrives with each call.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	timeout time.Duration

	mu      sync.Mutex
	clients map[string]*genai.Client
}

var _ interfaces.AnswerProvider = (*GeminiService)(nil)

// NewGeminiService creates the service. An empty or unparseable timeout means none.
func NewGeminiService(config *common.GeminiConfig, logger arbor.ILogger) *GeminiService {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}

	timeout := common.ParseDurationOr(config.Timeout, 0)

	logger.Debug().
		Str("model", config.Model).
		Str("api_version", config.APIVersion).
		Str("base_url", config.BaseURL).
		Dur("timeout", timeout).
		Msg("Gemini answer service configured")

	return &GeminiService{
		config:  config,
		logger:  logger,
		timeout: timeout,
		clients: make(map[string]*genai.Client),
	}
}

// Model returns the configured model name
func (s *GeminiService) Model() string {
	return s.config.Model
}

// Generate sends prompt as the sole user content and returns the text of the first
// candidate's first part. Non-success status, a missing candidate, and transport
// failures are all errors.
func (s *GeminiService) Generate(ctx context.Context, apiKey string, prompt string) (*interfaces.Completion, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := s.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	startTime := time.Now()
	s.logger.Debug().
		Str("model", s.config.Model).
		Int("prompt_length", len(prompt)).
		Msg("Starting content generation")

	// Body is {contents:[{parts:[{text}]}]}; no role is sent
	contents := []*genai.Content{{Parts: []*genai.Part{genai.NewPartFromText(prompt)}}}
	resp, err := client.Models.GenerateContent(ctx, s.config.Model, contents, nil)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			s.logger.Warn().
				Int("status", apiErr.Code).
				Str("status_text", apiErr.Status).
				Str("model", s.config.Model).
				Msg("Content generation rejected")
			return nil, &StatusError{Code: apiErr.Code, Message: apiErr.Message}
		}
		s.logger.Warn().Err(err).Str("model", s.config.Model).Msg("Content generation failed")
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	text, ok := firstCandidateText(resp)
	if !ok {
		s.logger.Warn().Str("model", s.config.Model).Msg("Response did not contain candidate text")
		return nil, ErrInvalidResponse
	}

	s.logger.Info().
		Str("model", s.config.Model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Content generation completed")

	return &interfaces.Completion{Text: text, Model: s.config.Model}, nil
}

// ProbeResult reports a connectivity check against the remote service
type ProbeResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseTime int64  `json:"responseTime"`
	Response     string `json:"response,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Probe sends ProbePrompt and classifies the outcome. It never returns an error;
// failures are described in the result.
func (s *GeminiService) Probe(ctx context.Context, apiKey string) ProbeResult {
	if apiKey == "" {
		return ProbeResult{Success: false, Message: "Google API key is not configured"}
	}

	startTime := time.Now()
	completion, err := s.Generate(ctx, apiKey, ProbePrompt)
	elapsed := time.Since(startTime).Milliseconds()

	if err != nil {
		result := ProbeResult{Success: false, ResponseTime: elapsed, Error: err.Error()}

		var statusErr *StatusError
		switch {
		case errors.As(err, &statusErr):
			result.Message = fmt.Sprintf("API request failed with status %d", statusErr.Code)
		case errors.Is(err, ErrInvalidResponse):
			result.Message = "Invalid response format from Google AI"
		default:
			result.Message = "Failed to connect to Google AI API"
		}

		s.logger.Warn().Str("message", result.Message).Int64("response_time_ms", elapsed).Msg("Gemini probe failed")
		return result
	}

	s.logger.Info().Int64("response_time_ms", elapsed).Msg("Gemini probe succeeded")
	return ProbeResult{
		Success:      true,
		Message:      "Google AI API is working correctly!",
		ResponseTime: elapsed,
		Response:     completion.Text,
	}
}

func (s *GeminiService) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[apiKey]; ok {
		return c, nil
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    s.config.BaseURL,
			APIVersion: s.config.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	s.clients[apiKey] = c
	return c, nil
}

// asAPIError unwraps the SDK's status error, which may arrive by value or by pointer
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", false
	}
	if content.Parts[0].Text == "" {
		return "", false
	}
	return content.Parts[0].Text, true
}
