package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig configures the Gemini REST client.
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	BaseURL        string // overridden in tests
}

// GeminiClient calls the Gemini generateContent and embedContent endpoints.
type GeminiClient struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
}

// NewGemini creates a Gemini REST client.
func NewGemini(cfg GeminiConfig) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	return &GeminiClient{
		httpClient:     &http.Client{Timeout: 120 * time.Second},
		baseURL:        baseURL,
		apiKey:         cfg.APIKey,
		model:          model,
		embeddingModel: embeddingModel,
	}
}

// Wire types for the generateContent endpoint.
type geminiPart struct {
	Text             string              `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResp `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type geminiFunctionResp struct {
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTools   `json:"tools,omitempty"`
}

type geminiTools struct {
	FunctionDeclarations []ToolDef `json:"functionDeclarations"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete performs one reasoning step.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*Message, error) {
	body := geminiRequest{Contents: make([]geminiContent, 0, len(req.Messages))}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	if len(req.Tools) > 0 {
		body.Tools = []geminiTools{{FunctionDeclarations: req.Tools}}
	}

	for i := range req.Messages {
		content, err := toGeminiContent(&req.Messages[i])
		if err != nil {
			return nil, err
		}
		body.Contents = append(body.Contents, content)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	var resp geminiResponse
	if err := c.post(ctx, url, body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	msg := &Message{Role: RoleAssistant}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			msg.Content += part.Text
		}
		if part.FunctionCall != nil {
			args := part.FunctionCall.Args
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				ID:   uuid.NewString(),
				Name: part.FunctionCall.Name,
				Args: args,
			})
		}
	}
	return msg, nil
}

// toGeminiContent maps the neutral message shape onto Gemini's wire format.
// Tool results become functionResponse parts in a user turn; Gemini has no
// separate tool role.
func toGeminiContent(m *Message) (geminiContent, error) {
	switch m.Role {
	case RoleTool:
		response := map[string]interface{}{}
		if m.Content != "" {
			if err := json.Unmarshal([]byte(m.Content), &response); err != nil {
				// Non-object tool output still has to reach the model.
				response = map[string]interface{}{"result": m.Content}
			}
		}
		return geminiContent{
			Role: "user",
			Parts: []geminiPart{{FunctionResponse: &geminiFunctionResp{
				Name:     m.ToolName,
				Response: response,
			}}},
		}, nil
	case RoleAssistant:
		content := geminiContent{Role: "model"}
		if m.Content != "" {
			content.Parts = append(content.Parts, geminiPart{Text: m.Content})
		}
		for _, tc := range m.ToolCalls {
			content.Parts = append(content.Parts, geminiPart{FunctionCall: &geminiFunctionCall{
				Name: tc.Name,
				Args: tc.Args,
			}})
		}
		if len(content.Parts) == 0 {
			content.Parts = []geminiPart{{Text: ""}}
		}
		return content, nil
	case RoleUser:
		return geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}}, nil
	default:
		return geminiContent{}, fmt.Errorf("unsupported message role %q", m.Role)
	}
}

type geminiEmbedRequest struct {
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// EmbedText produces an embedding vector for the given text.
func (c *GeminiClient) EmbedText(ctx context.Context, text string) ([]float64, error) {
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", c.baseURL, c.embeddingModel, c.apiKey)
	body := geminiEmbedRequest{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}

	var resp geminiEmbedResponse
	if err := c.post(ctx, url, body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding")
	}
	return resp.Embedding.Values, nil
}

func (c *GeminiClient) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read gemini response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode gemini response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

var (
	_ Client   = (*GeminiClient)(nil)
	_ Embedder = (*GeminiClient)(nil)
)
