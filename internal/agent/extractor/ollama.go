package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/feichai0017/file-organizer/internal/metrics"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

const (
	methodLLMOCR = "llm_ocr"
	// near-deterministic decoding
	defaultTemperature = 0.1
)

// OllamaResponse mirrors the /api/generate reply.
type OllamaResponse struct {
	Response        string `json:"response"`
	Model           string `json:"model"`
	Done            bool   `json:"done"`
	TotalDuration   int64  `json:"total_duration,omitempty"`
	LoadDuration    int64  `json:"load_duration,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	EvalDuration    int64  `json:"eval_duration,omitempty"`
	Error           string `json:"error,omitempty"`
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Images  []string               `json:"images"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

// StatusError is returned when the completion service answers with a non-2xx code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.StatusCode, e.Body)
}

type OllamaConfig struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

// OllamaExtractor sends the whole file as an image payload to a multimodal
// model served by Ollama.
type OllamaExtractor struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      logger.Logger
}

func NewOllamaExtractor(cfg OllamaConfig, log logger.Logger) *OllamaExtractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	return &OllamaExtractor{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.Named("ollama"),
	}
}

func (e *OllamaExtractor) Name() string {
	return "ollama"
}

func (e *OllamaExtractor) Model() string {
	return e.model
}

func (e *OllamaExtractor) Extract(ctx context.Context, doc Document) (*Extraction, error) {
	start := time.Now()
	result, err := e.generate(ctx, doc)
	metrics.ObserveExtraction(e.Name(), time.Since(start), err)
	if err != nil {
		e.logger.Error("LLM extraction failed",
			logger.String("path", doc.Path),
			logger.String("extension", doc.Extension),
			logger.Error(err),
		)
		return nil, err
	}

	text := strings.TrimSpace(result.Response)
	chars := utf8.RuneCountInString(text)
	metadata := map[string]interface{}{
		"model":       e.model,
		"method":      methodLLMOCR,
		"file_type":   doc.Extension,
		"total_chars": chars,
	}
	if result.TotalDuration > 0 {
		metadata["total_duration"] = result.TotalDuration
	}
	if result.LoadDuration > 0 {
		metadata["load_duration"] = result.LoadDuration
	}
	if result.PromptEvalCount > 0 {
		metadata["prompt_eval_count"] = result.PromptEvalCount
	}
	if result.EvalCount > 0 {
		metadata["eval_count"] = result.EvalCount
	}

	e.logger.Info("LLM extraction completed",
		logger.String("path", doc.Path),
		logger.String("extension", doc.Extension),
		logger.Int("chars", chars),
		logger.Int64("totalDurationNs", result.TotalDuration),
	)

	return &Extraction{Text: text, Metadata: metadata}, nil
}

func (e *OllamaExtractor) generate(ctx context.Context, doc Document) (*OllamaResponse, error) {
	reqBody := generateRequest{
		Model:  e.model,
		Prompt: PromptFor(doc.Extension),
		Images: []string{base64.StdEncoding.EncodeToString(doc.Content)},
		Stream: false,
		Options: map[string]interface{}{
			"temperature": e.temperature,
		},
	}

	reqData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := e.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	e.logger.Info("Calling Ollama",
		logger.String("url", url),
		logger.String("model", e.model),
		logger.Int("payloadBytes", len(reqData)),
	)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result OllamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", result.Error)
	}
	return &result, nil
}

// Ping checks that the service answers on /api/tags.
func (e *OllamaExtractor) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ollama: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// IsStatusError reports whether err came from a non-2xx reply.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

func (e *OllamaExtractor) Close() error {
	e.httpClient.CloseIdleConnections()
	return nil
}
