// Package gemini provides a minimal client for the Gemini REST API.
// It covers the two calls roam needs: a non-streaming structured
// generation request and a streaming chat request. Retry policy lives
// with the callers, not here.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultBaseURL is the Gemini API endpoint prefix.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNotConfigured is returned by New when no API key is provided.
// Callers must treat it as "AI features unavailable" and make no calls.
var ErrNotConfigured = errors.New("gemini: client not configured (missing API key)")

// Config holds configuration for the Gemini client.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides DefaultBaseURL (used in tests).
	BaseURL string
}

// Client is a Gemini API client. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. Returns ErrNotConfigured when cfg.APIKey is empty.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: baseURL,
		// No client-side timeout: the call is bounded only by the
		// provider's own timeout behavior (inherited risk).
		httpClient: &http.Client{},
	}, nil
}

// Model returns the model identifier this client targets.
func (c *Client) Model() string { return c.model }

// Message is one unit of conversation content sent to the API.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// GenerateRequest describes one non-streaming structured call.
type GenerateRequest struct {
	SystemInstruction string
	UserText          string
	// ResponseSchema constrains generation; when set the response MIME
	// type is application/json.
	ResponseSchema *Schema
}

// Wire types for the generateContent endpoint.

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateContentRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateText performs one generateContent round trip and returns the
// raw text of the first candidate. No retries, no decoding of the text.
func (c *Client) GenerateText(ctx context.Context, genReq GenerateRequest) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: genReq.UserText}}},
		},
	}
	if genReq.SystemInstruction != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: genReq.SystemInstruction}}}
	}
	if genReq.ResponseSchema != nil {
		reqBody.GenerationConfig = &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   genReq.ResponseSchema,
		}
	}

	req, err := c.createRequest(ctx, ":generateContent", reqBody)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if genResp.Error != nil {
		return "", fmt.Errorf("API error: %s", genResp.Error.Message)
	}

	text := candidateText(genResp)
	if text == "" {
		return "", fmt.Errorf("no text in response")
	}
	return text, nil
}

// createRequest builds an HTTP request against the model endpoint with
// auth headers set. verb is the RPC suffix, e.g. ":generateContent".
func (c *Client) createRequest(ctx context.Context, verb string, body any) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s%s", c.baseURL, c.model, verb)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	return req, nil
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	text := ""
	for _, p := range resp.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text
}
