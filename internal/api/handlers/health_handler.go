package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// CheckFunc verifica uma dependência externa
type CheckFunc func(ctx context.Context) error

// HealthHandler gerencia os endpoints de health check
type HealthHandler struct {
	checks map[string]CheckFunc
}

// NewHealthHandler cria um novo handler de health check
func NewHealthHandler(checks map[string]CheckFunc) *HealthHandler {
	if checks == nil {
		checks = map[string]CheckFunc{}
	}
	return &HealthHandler{
		checks: checks,
	}
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe endpoint
// @Description Verifica se a aplicação está viva (sem checagem de dependências externas)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe endpoint
// @Description Verifica se a aplicação está pronta para receber tráfego (Postgres e Redis)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	h.respond(c, 3*time.Second, "ready", "not_ready")
}

// Health godoc
// @Summary Comprehensive health check endpoint
// @Description Verifica a saúde completa da aplicação (para monitoramento externo de uptime)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	h.respond(c, 5*time.Second, "healthy", "unhealthy")
}

func (h *HealthHandler) respond(c *gin.Context, timeout time.Duration, okStatus, failStatus string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	response := HealthResponse{
		Status:    okStatus,
		Checks:    make(map[string]string, len(h.checks)),
		Timestamp: time.Now().Unix(),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			response.Checks[name] = "failed"
			response.Status = failStatus
			if response.Error == "" {
				response.Error = name + " not available"
			}
			continue
		}
		response.Checks[name] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == failStatus {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
