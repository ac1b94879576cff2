package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatmood/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScorerRequiresURL(t *testing.T) {
	_, err := NewScorer("", nil)
	assert.Error(t, err)
}

func TestScorerHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewScorer(srv.URL, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Health(context.Background()))
}

func TestScorerHealthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s, err := NewScorer(srv.URL, nil)
	require.NoError(t, err)
	assert.Error(t, s.Health(context.Background()))
}

func TestScorerClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what a great day", req.Text)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"label": models.LabelPositive,
			"score": 0.93,
		})
	}))
	defer srv.Close()

	s, err := NewScorer(srv.URL, nil)
	require.NoError(t, err)

	verdict, err := s.Classify(context.Background(), "what a great day")
	require.NoError(t, err)
	assert.Equal(t, models.Sentiment{Label: models.LabelPositive, Score: 0.93}, verdict)
}

func TestScorerClassifyServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"label": "", "score": 0.0, "error": "model overloaded",
		})
	}))
	defer srv.Close()

	s, err := NewScorer(srv.URL, nil)
	require.NoError(t, err)

	_, err = s.Classify(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestScorerClassifyRejectsUnknownLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"label": "ECSTATIC", "score": 1.0,
		})
	}))
	defer srv.Close()

	s, err := NewScorer(srv.URL, nil)
	require.NoError(t, err)

	_, err = s.Classify(context.Background(), "anything")
	assert.Error(t, err)
}
