package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/metrics"
	middlewares "github.com/prefeitura-rio/app-personalizacao/internal/middleware"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

// EventStore gravação síncrona de eventos
type EventStore interface {
	InsertPageView(ctx context.Context, pv *models.PageView) error
	InsertWebVital(ctx context.Context, v *models.WebVital) error
}

// HeatmapQueue fila de eventos de heatmap gravados em lote
type HeatmapQueue interface {
	Send(event models.HeatmapEvent) bool
}

// BehaviorReader leitura do comportamento do usuário
type BehaviorReader interface {
	Digest(ctx context.Context, userID string, authenticated bool) (*models.AnalyticsDigest, error)
	Summary(ctx context.Context, userID string) (*models.BehaviorSummary, error)
}

// AnalyticsHandler gerencia a ingestão e leitura de eventos de analytics
type AnalyticsHandler struct {
	store     EventStore
	heatmap   HeatmapQueue
	reader    BehaviorReader
	validator *validator.Validate
	now       func() time.Time
}

// NewAnalyticsHandler cria um novo handler de analytics
func NewAnalyticsHandler(store EventStore, heatmap HeatmapQueue, reader BehaviorReader) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:     store,
		heatmap:   heatmap,
		reader:    reader,
		validator: validator.New(),
		now:       time.Now,
	}
}

// TrackPageView godoc
// @Summary Registra uma visita de página
// @Tags analytics
// @Accept json
// @Produce json
// @Param pageview body models.PageViewRequest true "Visita"
// @Success 200 {object} models.IngestResponse
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/analytics/pageview [post]
func (h *AnalyticsHandler) TrackPageView(c *gin.Context) {
	var request models.PageViewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}
	if err := h.validator.Struct(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validação falhou: " + err.Error()})
		return
	}

	userID, _ := identity(c, request.UserID)
	pv := &models.PageView{
		ID:        uuid.NewString(),
		UserID:    models.UserIDPtr(userID),
		Path:      request.Path,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.GetHeader("X-Forwarded-For"),
		Timestamp: h.now().UTC(),
	}

	if err := h.store.InsertPageView(c.Request.Context(), pv); err != nil {
		logger.FromContext(c.Request.Context()).Error("Falha ao gravar page view", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gravar page view"})
		return
	}

	metrics.AnalyticsEventsTotal.WithLabelValues("pageview").Inc()
	c.JSON(http.StatusOK, models.IngestResponse{Success: true, ID: pv.ID})
}

// TrackHeatmapEvent godoc
// @Summary Registra um evento de heatmap
// @Description O evento entra numa fila gravada em lote; o id é atribuído na hora.
// @Tags analytics
// @Accept json
// @Produce json
// @Param event body models.HeatmapEventRequest true "Evento"
// @Success 200 {object} models.IngestResponse
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/analytics/heatmap [post]
func (h *AnalyticsHandler) TrackHeatmapEvent(c *gin.Context) {
	var request models.HeatmapEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}
	if err := h.validator.Struct(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validação falhou: " + err.Error()})
		return
	}

	userID, _ := identity(c, request.UserID)
	event := models.HeatmapEvent{
		ID:               uuid.NewString(),
		UserID:           models.UserIDPtr(userID),
		Path:             request.Path,
		EventType:        request.EventType,
		X:                request.X,
		Y:                request.Y,
		ElementInfo:      request.ElementInfo,
		ScrollPercentage: request.ScrollPercentage,
		VisibleSections:  request.VisibleSections,
		Timestamp:        h.now().UTC(),
	}

	if !h.heatmap.Send(event) {
		logger.FromContext(c.Request.Context()).Warn("Evento de heatmap descartado", logger.String("event_type", event.EventType))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Fila de eventos indisponível"})
		return
	}

	metrics.AnalyticsEventsTotal.WithLabelValues(event.EventType).Inc()
	c.JSON(http.StatusOK, models.IngestResponse{Success: true, ID: event.ID})
}

// TrackWebVital godoc
// @Summary Registra uma métrica de performance do navegador
// @Tags analytics
// @Accept json
// @Produce json
// @Param vital body models.WebVitalRequest true "Métrica"
// @Success 200 {object} models.IngestResponse
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/analytics/vitals [post]
func (h *AnalyticsHandler) TrackWebVital(c *gin.Context) {
	var request models.WebVitalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}
	if err := h.validator.Struct(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validação falhou: " + err.Error()})
		return
	}

	userID, _ := identity(c, request.UserID)
	vital := &models.WebVital{
		ID:        uuid.NewString(),
		UserID:    models.UserIDPtr(userID),
		Name:      request.Name,
		Value:     request.Value,
		Path:      request.Path,
		UserAgent: c.Request.UserAgent(),
		Timestamp: h.now().UTC(),
	}

	if err := h.store.InsertWebVital(c.Request.Context(), vital); err != nil {
		logger.FromContext(c.Request.Context()).Error("Falha ao gravar web vital", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gravar web vital"})
		return
	}

	metrics.AnalyticsEventsTotal.WithLabelValues("vital").Inc()
	c.JSON(http.StatusOK, models.IngestResponse{Success: true, ID: vital.ID})
}

// GetUserData godoc
// @Summary Digest de analytics da identidade atual
// @Description Usuários anônimos recebem o digest do bucket anônimo.
// @Tags analytics
// @Produce json
// @Success 200 {object} models.UserDataResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/analytics/user-data [get]
func (h *AnalyticsHandler) GetUserData(c *gin.Context) {
	userID, authenticated := identity(c, "")

	digest, err := h.reader.Digest(c.Request.Context(), userID, authenticated)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Falha ao ler analytics", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao ler dados do usuário"})
		return
	}

	c.JSON(http.StatusOK, models.UserDataResponse{
		UserID:          userID,
		IsAuthenticated: authenticated,
		Digest:          digest,
	})
}

// identity resolve o usuário da requisição. O userId do corpo só é usado
// quando o middleware não identificou ninguém.
func identity(c *gin.Context, fallbackUserID string) (string, bool) {
	if middlewares.IsAuthenticated(c) {
		return middlewares.GetUserID(c), true
	}
	if models.IsAnonymous(fallbackUserID) {
		return "", false
	}
	return fallbackUserID, false
}
