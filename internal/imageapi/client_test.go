package imageapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, key string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(Options{BaseURL: server.URL, APIKey: key, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("proxy.local:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "proxy.local:8080" {
		t.Fatalf("url = %q, want https://proxy.local:8080", u.String())
	}
}

func TestClient_GenerateImage(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	var got map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"output":[
			{"type":"message","content":[]},
			{"type":"image_generation_call","result":"aW1hZ2U="},
			{"type":"image_generation_call","result":"c2Vjb25k"}
		]}`)
	}, "sk-test")

	data, err := c.GenerateImage(context.Background(), "a cat in a tie")
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if data != "aW1hZ2U=" {
		t.Fatalf("data = %q, want first image result", data)
	}
	if gotMethod != http.MethodPost || gotPath != "/v1/responses" {
		t.Fatalf("request = %s %s, want POST /v1/responses", gotMethod, gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if got["model"] != DefaultImageModel || got["input"] != "a cat in a tie" {
		t.Fatalf("body = %#v", got)
	}
	tools, _ := got["tools"].([]any)
	if len(tools) != 1 || tools[0].(map[string]any)["type"] != "image_generation" {
		t.Fatalf("tools = %#v", got["tools"])
	}
}

func TestClient_GenerateImageWithoutResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"output":[{"type":"message"}]}`)
	}, "sk-test")

	if _, err := c.GenerateImage(context.Background(), "x"); !errors.Is(err, ErrNoImage) {
		t.Fatalf("GenerateImage error = %v, want ErrNoImage", err)
	}
}

func TestClient_BlankKeyOmitsAuthorization(t *testing.T) {
	var sawAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = io.WriteString(w, `{"output_text":"{\"topic\":\"t\",\"caption\":\"c\",\"imageDescription\":\"d\"}"}`)
	}, "  ")

	if _, err := c.GenerateIdea(context.Background(), "x"); err != nil {
		t.Fatalf("GenerateIdea returned error: %v", err)
	}
	if sawAuth {
		t.Fatalf("Authorization header sent with blank key")
	}

	c.SetAPIKey("sk-late")
	var auth string
	c.http.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"output_text":"{}"}`)),
			Header:     make(http.Header),
		}, nil
	})
	_, _ = c.GenerateIdea(context.Background(), "x")
	if auth != "Bearer sk-late" {
		t.Fatalf("Authorization after SetAPIKey = %q", auth)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_GenerateIdea(t *testing.T) {
	var got struct {
		Model string `json:"model"`
		Input []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"input"`
		Text struct {
			Format struct {
				Type   string `json:"type"`
				Strict bool   `json:"strict"`
			} `json:"format"`
		} `json:"text"`
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"output_text":"{\"topic\":\"Mondays\",\"caption\":\"Not again\",\"imageDescription\":\"a tired cat\",\"viralPotentialScore\":8}"}`)
	}, "sk-test")

	idea, err := c.GenerateIdea(context.Background(), "office life")
	if err != nil {
		t.Fatalf("GenerateIdea returned error: %v", err)
	}
	if idea.Topic != "Mondays" || idea.Caption != "Not again" || idea.ImageDescription != "a tired cat" {
		t.Fatalf("idea = %#v", idea)
	}
	if idea.ViralPotentialScore == nil || *idea.ViralPotentialScore != 8 {
		t.Fatalf("score = %v, want 8", idea.ViralPotentialScore)
	}
	if got.Model != DefaultIdeaModel {
		t.Fatalf("model = %q", got.Model)
	}
	if len(got.Input) != 2 || got.Input[0].Role != "system" || got.Input[1].Role != "user" || got.Input[1].Content != "office life" {
		t.Fatalf("input = %#v", got.Input)
	}
	if !strings.HasPrefix(got.Input[0].Content, "You are a creative meme assistant") {
		t.Fatalf("system prompt = %q", got.Input[0].Content)
	}
	if got.Text.Format.Type != "json_schema" || !got.Text.Format.Strict {
		t.Fatalf("format = %#v", got.Text.Format)
	}
}

func TestClient_GenerateIdeaFromContentParts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"output":[{"type":"message","content":[
			{"type":"output_text","text":"{\"topic\":\"a\",\"caption\":\"b\",\"imageDescription\":\"c\"}"}
		]}]}`)
	}, "sk-test")

	idea, err := c.GenerateIdea(context.Background(), "x")
	if err != nil {
		t.Fatalf("GenerateIdea returned error: %v", err)
	}
	if idea.Caption != "b" || idea.ViralPotentialScore != nil {
		t.Fatalf("idea = %#v", idea)
	}
}

func TestClient_GenerateIdeaBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"output_text":"not json"}`)
	}, "sk-test")

	_, err := c.GenerateIdea(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "decode idea") {
		t.Fatalf("GenerateIdea error = %v, want decode idea", err)
	}
}

func TestClient_APIError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"with message", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, "Incorrect API key provided"},
		{"plain body", http.StatusBadGateway, `upstream down`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, "sk-test")

			_, err := c.GenerateImage(context.Background(), "x")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Status != tc.status || apiErr.Message != tc.message {
				t.Fatalf("apiErr = %#v", apiErr)
			}
		})
	}
}

func TestClient_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "sk-test")
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GenerateImage(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GenerateImage error = %v, want context.Canceled", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.imageModel != DefaultImageModel || c.ideaModel != DefaultIdeaModel {
		t.Fatalf("models = %q/%q", c.imageModel, c.ideaModel)
	}
	if c.http.Timeout != DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
}
