package api

import (
	"errors"
	"io"
	"net/http"

	"chatmood/backend/internal/models"
	"chatmood/backend/internal/sentiment"
	"chatmood/backend/internal/service"
	"chatmood/backend/internal/ws"
	"chatmood/backend/pkg/config"
	apperrors "chatmood/backend/pkg/errors"
	"chatmood/backend/pkg/logger"
	pkgws "chatmood/backend/pkg/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisController handles the chat analysis API endpoints
type AnalysisController struct {
	analysisService *service.AnalysisService
	hub             *ws.Hub
	log             *logger.Logger
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(analysisService *service.AnalysisService, hub *ws.Hub, log *logger.Logger) *AnalysisController {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &AnalysisController{
		analysisService: analysisService,
		hub:             hub,
		log:             log,
	}
}

// RegisterRoutesV1 registers the analysis routes under /api/v1
func (c *AnalysisController) RegisterRoutesV1(v1 *gin.RouterGroup) {
	analyses := v1.Group("/analyses")
	{
		analyses.POST("", c.CreateAnalysis)
		analyses.GET("/:id", c.GetAnalysis)
	}
}

// CreateAnalysis accepts a chat export upload, runs the pipeline and
// returns the full report. Clients wanting live progress pass a
// pre-generated analysisId form field and subscribe to /ws with it before
// uploading.
func (c *AnalysisController) CreateAnalysis(ctx *gin.Context) {
	cfg := config.Get()

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.Error(apperrors.NewBadRequestError("MISSING_FILE", "A chat export file is required"))
		return
	}
	defer file.Close()

	if header.Size > cfg.Security.MaxUploadSize {
		ctx.Error(apperrors.NewBadRequestError("FILE_TOO_LARGE", "The uploaded file exceeds the size limit"))
		return
	}

	// Best-effort decode: the export is expected to be UTF-8; invalid
	// bytes pass through and are handled lenient downstream.
	raw, err := io.ReadAll(io.LimitReader(file, cfg.Security.MaxUploadSize+1))
	if err != nil {
		ctx.Error(apperrors.NewBadRequestError("UNREADABLE_FILE", "The uploaded file could not be read"))
		return
	}

	progressID := ctx.PostForm("analysisId")
	if progressID == "" {
		progressID = uuid.New().String()
	}

	onProgress := func(p models.Progress) {
		c.hub.Publish(pkgws.ProgressEvent{
			AnalysisID: progressID,
			Current:    p.Current,
			Total:      p.Total,
			Status:     p.Status,
		})
	}

	report, err := c.analysisService.Analyze(ctx.Request.Context(), string(raw), service.AnalyzeOptions{
		FileName:   header.Filename,
		OnProgress: onProgress,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoMessages):
			ctx.Error(apperrors.NewError(http.StatusUnprocessableEntity, "NO_MESSAGES",
				"Could not parse any messages. Please make sure this is a valid chat export file."))
		case errors.Is(err, sentiment.ErrModelNotReady):
			ctx.Error(apperrors.NewError(http.StatusServiceUnavailable, "MODEL_NOT_READY",
				"The sentiment model is not ready. Please try again."))
		default:
			ctx.Error(err)
		}
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// GetAnalysis returns a previously computed report
func (c *AnalysisController) GetAnalysis(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.Error(apperrors.NewBadRequestError("MISSING_ID", "Analysis ID is required"))
		return
	}

	report, err := c.analysisService.GetReport(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAnalysisNotFound) {
			ctx.Error(apperrors.NewNotFoundError("ANALYSIS_NOT_FOUND", "No analysis exists with that ID"))
			return
		}
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}
