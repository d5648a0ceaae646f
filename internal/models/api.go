package models

import "encoding/json"

// PageViewRequest corpo de POST /analytics/pageview
type PageViewRequest struct {
	Path   string `json:"path" validate:"required,max=2048" example:"/features"`
	UserID string `json:"userId,omitempty"`
}

// HeatmapEventRequest corpo de POST /analytics/heatmap
type HeatmapEventRequest struct {
	Path             string          `json:"path" validate:"required,max=2048" example:"/"`
	EventType        string          `json:"eventType" validate:"required,oneof=click scroll move visibility" example:"click"`
	X                *float64        `json:"x,omitempty"`
	Y                *float64        `json:"y,omitempty"`
	ElementInfo      json.RawMessage `json:"elementInfo,omitempty" swaggertype:"object"`
	ScrollPercentage *float64        `json:"scrollPercentage,omitempty"`
	VisibleSections  *string         `json:"visibleSections,omitempty" example:"features,pricing"`
	UserID           string          `json:"userId,omitempty"`
}

// WebVitalRequest corpo de POST /analytics/vitals
type WebVitalRequest struct {
	Name   string  `json:"name" validate:"required,max=64" example:"LCP"`
	Value  float64 `json:"value"`
	Path   string  `json:"path" validate:"max=2048"`
	UserID string  `json:"userId,omitempty"`
}

// IngestResponse resposta das rotas de ingestão
type IngestResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// UserDataResponse digest de analytics da identidade atual
type UserDataResponse struct {
	UserID          string           `json:"userId,omitempty"`
	IsAuthenticated bool             `json:"isAuthenticated"`
	Digest          *AnalyticsDigest `json:"analyticsData"`
}

// RecommendationsRequest corpo de POST /personalization/recommendations.
// Sem analyticsData, o digest é lido do banco.
type RecommendationsRequest struct {
	AnalyticsData *AnalyticsDigest `json:"analyticsData,omitempty"`
	UserID        string           `json:"userId,omitempty"`
	ForceRefresh  bool             `json:"forceRefresh"`
}

// RecommendationsResponse resposta das rotas de recomendação
type RecommendationsResponse struct {
	Success         bool     `json:"success"`
	Recommendations *Payload `json:"recommendations"`
	Source          string   `json:"source"`
	FromCache       bool     `json:"fromCache"`
}

// PrioritizeRequest corpo de POST /personalization/prioritize
type PrioritizeRequest struct {
	Items     []Item         `json:"items" validate:"required,min=1,dive"`
	Counts    map[string]int `json:"counts"`
	Threshold *float64       `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// PrioritizeResponse ordem priorizada
type PrioritizeResponse struct {
	Order []string `json:"order"`
	Items []Item   `json:"items"`
}
