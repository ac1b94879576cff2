package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"chatmood/backend/internal/models"
	"chatmood/backend/pkg/logger"
	"chatmood/backend/pkg/resilience"
)

// Scorer is the HTTP client for the external sentiment inference service.
// The service owns the model weights and execution; this client only speaks
// its call contract: POST /classify with a text, receive a label and score.
type Scorer struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
}

// NewScorer creates a scorer client for the given service URL
func NewScorer(baseURL string, log *logger.Logger) (*Scorer, error) {
	if baseURL == "" {
		return nil, errors.New("model service URL is required")
	}

	return &Scorer{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("sentiment-model"), log),
	}, nil
}

// Health probes the inference service
func (s *Scorer) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("error creating health request: %v", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error probing model service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service health check failed with status code %d", resp.StatusCode)
	}
	return nil
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}

// Classify scores a single text through the inference service. Calls run
// behind a circuit breaker so a struggling service is not hammered.
func (s *Scorer) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	var verdict models.Sentiment

	err := s.breaker.Execute(func() error {
		jsonData, err := json.Marshal(classifyRequest{Text: text})
		if err != nil {
			return fmt.Errorf("error marshaling request: %v", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/classify", bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("error creating request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("error making API request: %v", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("error reading response body: %v", err)
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API request failed with status code %d: %s", resp.StatusCode, string(body))
		}

		var classifyResp classifyResponse
		if err := json.Unmarshal(body, &classifyResp); err != nil {
			return fmt.Errorf("error unmarshaling response: %v", err)
		}

		if classifyResp.Error != "" {
			return fmt.Errorf("API error: %s", classifyResp.Error)
		}

		switch classifyResp.Label {
		case models.LabelPositive, models.LabelNegative, models.LabelNeutral:
		default:
			return fmt.Errorf("unexpected label %q", classifyResp.Label)
		}

		verdict = models.Sentiment{Label: classifyResp.Label, Score: classifyResp.Score}
		return nil
	})

	return verdict, err
}
