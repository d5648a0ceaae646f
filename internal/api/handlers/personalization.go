package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/prioritization"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

// Recommender gera e invalida recomendações
type Recommender interface {
	Generate(ctx context.Context, req recommendation.Request) (*recommendation.Result, error)
	Invalidate(ctx context.Context, userID string)
}

// PersonalizationHandler gerencia os endpoints de recomendação e priorização
type PersonalizationHandler struct {
	recommender      Recommender
	reader           BehaviorReader
	validator        *validator.Validate
	defaultThreshold float64
}

// NewPersonalizationHandler cria um novo handler de personalização
func NewPersonalizationHandler(recommender Recommender, reader BehaviorReader, defaultThreshold float64) *PersonalizationHandler {
	return &PersonalizationHandler{
		recommender:      recommender,
		reader:           reader,
		validator:        validator.New(),
		defaultThreshold: defaultThreshold,
	}
}

// PostRecommendations godoc
// @Summary Gera recomendações de personalização
// @Description Usa o analyticsData enviado ou, na falta dele, o digest lido do banco. Falhas do provedor viram o fallback determinístico (source=fallback).
// @Tags personalization
// @Accept json
// @Produce json
// @Param request body models.RecommendationsRequest true "Pedido"
// @Success 200 {object} models.RecommendationsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/personalization/recommendations [post]
func (h *PersonalizationHandler) PostRecommendations(c *gin.Context) {
	var request models.RecommendationsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}

	userID, authenticated := identity(c, request.UserID)
	h.respond(c, request.AnalyticsData, userID, authenticated, request.ForceRefresh)
}

// GetRecommendations godoc
// @Summary Recomendações da identidade atual
// @Tags personalization
// @Produce json
// @Param force query bool false "Ignora o cache" default(false)
// @Success 200 {object} models.RecommendationsResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/personalization/recommendations [get]
func (h *PersonalizationHandler) GetRecommendations(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	userID, authenticated := identity(c, "")
	h.respond(c, nil, userID, authenticated, force)
}

// DeleteRecommendations godoc
// @Summary Descarta a recomendação em cache da identidade atual
// @Tags personalization
// @Success 204
// @Router /api/v1/personalization/recommendations [delete]
func (h *PersonalizationHandler) DeleteRecommendations(c *gin.Context) {
	userID, _ := identity(c, "")
	h.recommender.Invalidate(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}

// GetBehavior godoc
// @Summary Resumo de comportamento do usuário
// @Description Elementos mais clicados nas últimas 24h com razão por tipo de seção, páginas mais vistas e densidade sugerida.
// @Tags personalization
// @Produce json
// @Success 200 {object} models.BehaviorSummary
// @Failure 500 {object} map[string]string
// @Router /api/v1/personalization/behavior [get]
func (h *PersonalizationHandler) GetBehavior(c *gin.Context) {
	userID, _ := identity(c, "")

	summary, err := h.reader.Summary(c.Request.Context(), userID)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Falha ao montar resumo de comportamento", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao ler comportamento do usuário"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Prioritize godoc
// @Summary Reordena itens pela razão de interações
// @Description Itens fixos mantêm a posição; um item só ultrapassa outro quando a diferença de razão atinge o threshold.
// @Tags personalization
// @Accept json
// @Produce json
// @Param request body models.PrioritizeRequest true "Itens e contagens"
// @Success 200 {object} models.PrioritizeResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/personalization/prioritize [post]
func (h *PersonalizationHandler) Prioritize(c *gin.Context) {
	var request models.PrioritizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}
	if err := h.validator.Struct(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validação falhou: " + err.Error()})
		return
	}

	threshold := h.defaultThreshold
	if request.Threshold != nil {
		threshold = *request.Threshold
	}

	items := prioritization.Prioritize(request.Items, request.Counts, threshold)
	c.JSON(http.StatusOK, models.PrioritizeResponse{
		Order: models.IDs(items),
		Items: items,
	})
}

func (h *PersonalizationHandler) respond(c *gin.Context, digest *models.AnalyticsDigest, userID string, authenticated, force bool) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	if digest == nil {
		var err error
		digest, err = h.reader.Digest(ctx, userID, authenticated)
		if err != nil {
			log.Error("Falha ao ler analytics", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao ler dados de analytics"})
			return
		}
	}

	result, err := h.recommender.Generate(ctx, recommendation.Request{
		Digest:        digest,
		UserID:        userID,
		Authenticated: authenticated,
		ForceRefresh:  force,
	})
	if errors.Is(err, models.ErrInvalidDigest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error("Falha ao gerar recomendações", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar recomendações"})
		return
	}

	c.JSON(http.StatusOK, models.RecommendationsResponse{
		Success:         true,
		Recommendations: result.Payload,
		Source:          string(result.Source),
		FromCache:       result.FromCache(),
	})
}
