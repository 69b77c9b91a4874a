package imageapi

// responseRequest is the body of POST /v1/responses. Input is either a plain
// prompt string or a list of role messages.
type responseRequest struct {
	Model string       `json:"model"`
	Input any          `json:"input"`
	Tools []tool       `json:"tools,omitempty"`
	Text  *textOptions `json:"text,omitempty"`
}

type tool struct {
	Type string `json:"type"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textOptions struct {
	Format textFormat `json:"format"`
}

type textFormat struct {
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

func ideaFormat() textFormat {
	return textFormat{
		Type: "json_schema",
		Name: "meme_idea",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic":               map[string]any{"type": "string"},
				"caption":             map[string]any{"type": "string"},
				"imageDescription":    map[string]any{"type": "string"},
				"viralPotentialScore": map[string]any{"type": "integer"},
			},
			"required":             []string{"topic", "caption", "imageDescription", "viralPotentialScore"},
			"additionalProperties": false,
		},
		Strict: true,
	}
}

type responseBody struct {
	Output     []outputItem `json:"output"`
	OutputText string       `json:"output_text"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Result  string        `json:"result,omitempty"`
	Content []contentPart `json:"content,omitempty"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// text returns the aggregated output_text, or the first output_text content
// part when the aggregate is absent.
func (r responseBody) text() string {
	if r.OutputText != "" {
		return r.OutputText
	}
	for _, out := range r.Output {
		for _, part := range out.Content {
			if part.Type == "output_text" && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
