package imageapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/five82/memegen/internal/meme"
)

// Generator produces meme images and ideas.
// This interface is implemented by *Client and can be used for testing.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	GenerateIdea(ctx context.Context, prompt string) (meme.Idea, error)
	SetAPIKey(key string)
}

// Ensure Client implements Generator at compile time.
var _ Generator = (*Client)(nil)

// ErrNoImage is returned when a response carries no generated image.
var ErrNoImage = errors.New("response contained no image")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

const (
	DefaultBaseURL    = "https://api.openai.com"
	DefaultImageModel = "gpt-4.1-mini"
	DefaultIdeaModel  = "gpt-4o-mini"
	DefaultTimeout    = 120 * time.Second

	defaultUserAgent = "memegen/0.1"
	responsesPath    = "/v1/responses"
	ideaSystemPrompt = "You are a creative meme assistant. Generate funny, engaging meme ideas."
)

// Options configures a Client. Zero fields take the defaults above.
type Options struct {
	BaseURL    string
	APIKey     string
	ImageModel string
	IdeaModel  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the OpenAI Responses API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	imageModel string
	ideaModel  string

	mu     sync.RWMutex
	apiKey string
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    base,
		http:       httpClient,
		userAgent:  defaultUserAgent,
		imageModel: orDefault(opts.ImageModel, DefaultImageModel),
		ideaModel:  orDefault(opts.IdeaModel, DefaultIdeaModel),
		apiKey:     strings.TrimSpace(opts.APIKey),
	}, nil
}

// SetAPIKey replaces the credential. A blank key sends requests without an
// Authorization header.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(key)
	c.mu.Unlock()
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// GenerateImage asks the image generation tool for a picture matching prompt
// and returns the base64 PNG payload.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	req := responseRequest{
		Model: c.imageModel,
		Input: prompt,
		Tools: []tool{{Type: "image_generation"}},
	}
	var resp responseBody
	if err := c.post(ctx, req, &resp); err != nil {
		return "", err
	}
	for _, out := range resp.Output {
		if out.Type == "image_generation_call" && out.Result != "" {
			return out.Result, nil
		}
	}
	return "", ErrNoImage
}

// GenerateIdea asks the chat model for a structured meme idea.
func (c *Client) GenerateIdea(ctx context.Context, prompt string) (meme.Idea, error) {
	if c == nil {
		return meme.Idea{}, fmt.Errorf("client is nil")
	}
	req := responseRequest{
		Model: c.ideaModel,
		Input: []inputMessage{
			{Role: "system", Content: ideaSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Text: &textOptions{Format: ideaFormat()},
	}
	var resp responseBody
	if err := c.post(ctx, req, &resp); err != nil {
		return meme.Idea{}, err
	}
	text := resp.text()
	if text == "" {
		return meme.Idea{}, fmt.Errorf("decode idea: empty output")
	}
	var idea meme.Idea
	if err := json.Unmarshal([]byte(text), &idea); err != nil {
		return meme.Idea{}, fmt.Errorf("decode idea: %w", err)
	}
	return idea, nil
}

func (c *Client) post(ctx context.Context, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: responsesPath})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if key := c.key(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope errorEnvelope
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != nil {
		apiErr.Message = strings.TrimSpace(envelope.Error.Message)
	}
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
