package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"remitra/internal/config"
	"remitra/internal/domain"
	"remitra/internal/parser"
	"remitra/internal/port"
	"remitra/internal/recon"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Parser implements port.DocumentParser using the OpenAI Chat Completions
// API. When the first pass leaves critical fields empty it runs one stricter
// retry and merges only the gaps.
type Parser struct {
	apiKey     string
	model      string
	endpoint   string
	maxRetries int
	client     *http.Client
}

// NewParser creates an OpenAI-based waybill parser.
func NewParser(cfg *config.ParserConfig) *Parser {
	return newParser(cfg, apiURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Parser{
		apiKey:     cfg.APIKey,
		model:      model,
		endpoint:   endpoint,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	fields, err := p.call(ctx, input, parser.BuildWaybillPrompt())
	if err != nil {
		return nil, err
	}

	// The retry decision is made after the text-layer cross-checks, not on
	// the raw model answer. Hallucinated values get nulled first so they
	// count as gaps, and fields the label extractor can anchor do not waste
	// a second call.
	gapView := fields
	if input.SourceText != "" {
		fields = recon.ValidateAgainstSource(fields, input.SourceText)
		gapView = parser.MergeMissing(fields, recon.ExtractCriticalFields(input.SourceText))
	}

	if missing := parser.MissingCritical(gapView); len(missing) > 0 && p.maxRetries > 0 {
		retry, err := p.call(ctx, input, parser.BuildRetryPrompt(missing, input.SourceText))
		if err == nil {
			fields = parser.MergeMissing(fields, retry)
		}
		// the primary answer stands when the retry itself fails
	}

	return &port.ParseOutput{Fields: fields, ModelUsed: p.model}, nil
}

func (p *Parser) call(ctx context.Context, input port.ParseInput, prompt string) (recon.Extraction, error) {
	var fields recon.Extraction

	contentBlocks, err := buildContentBlocks(input, prompt)
	if err != nil {
		return fields, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":                 p.model,
		"max_completion_tokens": 4096,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fields, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fields, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fields, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fields, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parser.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return fields, parser.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return fields, baseErr
	}

	return parseResponse(respBody)
}

func buildContentBlocks(input port.ParseInput, prompt string) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	var blocks []map[string]interface{}

	switch input.ContentType {
	case "application/pdf":
		dataURI := fmt.Sprintf("data:%s;base64,%s", input.ContentType, encoded)
		blocks = append(blocks, map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  "waybill.pdf",
				"file_data": dataURI,
			},
		})
	case "image/jpeg", "image/png":
		dataURI := fmt.Sprintf("data:%s;base64,%s", input.ContentType, encoded)
		blocks = append(blocks, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURI,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for parsing: %s", input.ContentType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": prompt,
	})

	return blocks, nil
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (recon.Extraction, error) {
	var fields recon.Extraction

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fields, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return fields, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return fields, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	text := resp.Choices[0].Message.Content
	var payload struct {
		recon.Extraction
		ValidDocument *bool `json:"valid_document"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return fields, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	if payload.ValidDocument != nil && !*payload.ValidDocument {
		return fields, domain.ErrDocumentRejected
	}
	return payload.Extraction, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
