// Package ai talks to the Gemini generateContent REST endpoint and turns its
// free-text answers into HealthChain results.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("ai: empty response")

// APIError carries a non-200 answer from the AI service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai: service returned %d: %s", e.StatusCode, e.Body)
}

// Part is a piece of a message: text, or inline binary data such as an image.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

type Content struct {
	Role  string
	Parts []Part
}

type Request struct {
	Model    string
	Contents []Content
	// ResponseMIMEType asks the model for a specific output format,
	// e.g. "application/json".
	ResponseMIMEType string
}

// Generator produces a text completion for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// --- Wire structures for the Gemini request and response ---

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type requestContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []requestPart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type requestBody struct {
	Contents         []requestContent  `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type responsePart struct {
	Text string `json:"text"`
}

type responseCandidate struct {
	Content struct {
		Parts []responsePart `json:"parts"`
		Role  string         `json:"role"`
	} `json:"content"`
}

type responseBody struct {
	Candidates []responseCandidate `json:"candidates"`
}

// Client is a Generator backed by the Gemini REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	body := requestBody{Contents: make([]requestContent, 0, len(req.Contents))}
	for _, content := range req.Contents {
		rc := requestContent{Role: content.Role}
		for _, p := range content.Parts {
			if len(p.Data) > 0 {
				rc.Parts = append(rc.Parts, requestPart{InlineData: &inlineData{
					MIMEType: p.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(p.Data),
				}})
				continue
			}
			rc.Parts = append(rc.Parts, requestPart{Text: p.Text})
		}
		body.Contents = append(body.Contents, rc)
	}
	if req.ResponseMIMEType != "" {
		body.GenerationConfig = &generationConfig{ResponseMIMEType: req.ResponseMIMEType}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode ai request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(req.Model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("build ai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send ai request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read ai response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var parsed responseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode ai response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
