package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remitra/internal/config"
	"remitra/internal/domain"
	"remitra/internal/parser"
	"remitra/internal/parser/openai"
	"remitra/internal/port"
)

func newTestParser(serverURL string, maxRetries int) *openai.Parser {
	cfg := &config.ParserConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		MaxRetries:   maxRetries,
		TimeoutSecs:  30,
	}
	return openai.NewParserWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenAIParser_Parse_PDF_Success(t *testing.T) {
	llmJSON := `{"valid_document":true,"code":"T001-4821","driver_name":"QUISPE MAMANI JUAN CARLOS","plate":"CBS840","gross_weight":32.115,"client":"PALTARUMI S.A.C.","origin":"AREQUIPA-CARAVELI-CHALA","destination":"CALLAO-CALLAO-CALLAO"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, content, 2)
		assert.Equal(t, "file", content[0].(map[string]interface{})["type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 0)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "gpt-4o", out.ModelUsed)
	assert.Equal(t, "T001-4821", *out.Fields.Code)
	assert.Equal(t, "CBS840", *out.Fields.Plate)
	assert.InDelta(t, 32.115, *out.Fields.GrossWeight, 1e-9)
	assert.Nil(t, out.Fields.ReceivedWeight)
}

func TestOpenAIParser_Parse_RejectsNonWaybill(t *testing.T) {
	llmJSON := `{"valid_document":false,"code":null,"driver_name":null}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 0)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 not a waybill"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrDocumentRejected)
}

func TestOpenAIParser_Parse_RetryFillsMissingCriticalFields(t *testing.T) {
	firstJSON := `{"valid_document":true,"driver_name":"QUISPE MAMANI JUAN CARLOS","plate":"CBS840","gross_weight":32.115,"client":"PALTARUMI S.A.C.","origin":"AREQUIPA-CARAVELI-CHALA","destination":"CALLAO-CALLAO-CALLAO"}`
	retryJSON := `{"valid_document":true,"code":"T001-4821","driver_name":"OTRO NOMBRE"}`

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body := firstJSON
		if calls > 1 {
			body = retryJSON
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(body))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 1)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	// The retry only fills gaps; present fields keep the first answer.
	assert.Equal(t, "T001-4821", *out.Fields.Code)
	assert.Equal(t, "QUISPE MAMANI JUAN CARLOS", *out.Fields.DriverName)
}

func TestOpenAIParser_Parse_RetryAfterHallucinatedCode(t *testing.T) {
	// The fabricated code appears nowhere in the text layer, so the
	// cross-check nulls it and the gap still earns a retry.
	firstJSON := `{"valid_document":true,"code":"X999-0000","driver_name":"QUISPE MAMANI JUAN CARLOS","plate":"CBS840","gross_weight":32.115,"client":"PALTARUMI S.A.C.","origin":"AREQUIPA-CARAVELI-CHALA","destination":"CALLAO-CALLAO-CALLAO"}`
	retryJSON := `{"valid_document":true,"code":"T001-4821"}`
	sourceText := "REMITENTE PALTARUMI CONDUCTOR QUISPE MAMANI JUAN CARLOS UNIDAD CBS-840 PESO 32.115"

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body := firstJSON
		if calls > 1 {
			body = retryJSON
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(body))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 1)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
		SourceText:  sourceText,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "T001-4821", *out.Fields.Code)
	assert.Equal(t, "QUISPE MAMANI JUAN CARLOS", *out.Fields.DriverName)
}

func TestOpenAIParser_Parse_NoRetryWhenLabelAnchorsField(t *testing.T) {
	// The code is absent from the model answer but the label extractor can
	// pull it from the text layer, so no second call is spent on it.
	firstJSON := `{"valid_document":true,"driver_name":"QUISPE MAMANI JUAN CARLOS","plate":"CBS840","gross_weight":32.115,"client":"PALTARUMI S.A.C.","origin":"AREQUIPA-CARAVELI-CHALA","destination":"CALLAO-CALLAO-CALLAO"}`
	sourceText := `GUIA DE REMISION ELECTRONICA T001-4821 REMITENTE PALTARUMI CONDUCTOR QUISPE MAMANI JUAN CARLOS`

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(firstJSON))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 1)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
		SourceText:  sourceText,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Nil(t, out.Fields.Code)
	assert.Equal(t, "CBS840", *out.Fields.Plate)
}

func TestOpenAIParser_Parse_RetryFailureKeepsPrimary(t *testing.T) {
	firstJSON := `{"valid_document":true,"driver_name":"QUISPE MAMANI JUAN CARLOS","plate":"CBS840","gross_weight":32.115,"client":"PALTARUMI S.A.C.","origin":"AREQUIPA-CARAVELI-CHALA","destination":"CALLAO-CALLAO-CALLAO"}`

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(firstJSON))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 1)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Nil(t, out.Fields.Code)
	assert.Equal(t, "CBS840", *out.Fields.Plate)
}

func TestOpenAIParser_Parse_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	p := newTestParser(server.URL, 0)
	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, out)
	var rateErr *parser.RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, "openai", rateErr.Provider)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
}

func TestOpenAIParser_Parse_UnsupportedContentType(t *testing.T) {
	p := newTestParser("http://unused.invalid", 0)

	out, err := p.Parse(context.Background(), port.ParseInput{
		FileBytes:   []byte("plain text"),
		ContentType: "text/plain",
	})

	assert.Nil(t, out)
	assert.Error(t, err)
}
