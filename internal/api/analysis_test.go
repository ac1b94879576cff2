package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatmood/backend/internal/insights"
	"chatmood/backend/internal/sentiment"
	"chatmood/backend/internal/service"
	"chatmood/backend/internal/ws"
	apperrors "chatmood/backend/pkg/errors"
	"chatmood/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logConfig := logger.DefaultConfig()
	logConfig.Output = io.Discard
	log := logger.New(logConfig)

	r := gin.New()
	r.Use(logger.Middleware(log))
	r.Use(apperrors.ErrorHandler())

	// A service with no database, no cache and no ready classifier: enough
	// for the request-validation and error-mapping paths
	svc := service.NewAnalysisService(
		nil,
		sentiment.NewCorpusClassifier(nil, sentiment.AdapterConfig{}, log),
		sentiment.NewAggregator(sentiment.AggregatorConfig{}),
		insights.NewEngine(insights.Config{}),
		nil, 0, log,
	)

	hub := ws.NewHub(log)
	go hub.Run()

	ctrl := NewAnalysisController(svc, hub, log)
	ctrl.RegisterRoutesV1(r.Group("/api/v1"))
	return r
}

func TestCreateAnalysisRequiresFile(t *testing.T) {
	r := newTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
}

func TestCreateAnalysisModelNotReady(t *testing.T) {
	r := newTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "chat.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("[12/31/23, 10:05] Ana: happy new year\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "MODEL_NOT_READY")
}

func TestCreateAnalysisNoMessages(t *testing.T) {
	r := newTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("this is not a chat export\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "NO_MESSAGES")
}

func TestGetAnalysisUnknownID(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/no-such-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ANALYSIS_NOT_FOUND")
}
