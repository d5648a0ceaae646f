package models

import (
	"encoding/json"
	"time"
)

// Tipos de evento de heatmap
const (
	EventTypeClick      = "click"
	EventTypeScroll     = "scroll"
	EventTypeMove       = "move"
	EventTypeVisibility = "visibility"
)

// PageView visita registrada a uma página
type PageView struct {
	ID        string    `json:"id" db:"id"`
	UserID    *string   `json:"userId,omitempty" db:"user_id"`
	Path      string    `json:"path" db:"path"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// HeatmapEvent interação registrada pelo rastreador de heatmap
type HeatmapEvent struct {
	ID               string          `json:"id" db:"id"`
	UserID           *string         `json:"userId,omitempty" db:"user_id"`
	Path             string          `json:"path" db:"path"`
	EventType        string          `json:"eventType" db:"event_type"`
	X                *float64        `json:"x,omitempty" db:"x"`
	Y                *float64        `json:"y,omitempty" db:"y"`
	ElementInfo      json.RawMessage `json:"elementInfo,omitempty" db:"element_info"`
	ScrollPercentage *float64        `json:"scrollPercentage,omitempty" db:"scroll_percentage"`
	VisibleSections  *string         `json:"visibleSections,omitempty" db:"visible_sections"`
	Timestamp        time.Time       `json:"timestamp" db:"timestamp"`
}

// WebVital métrica de performance reportada pelo navegador
type WebVital struct {
	ID        string    `json:"id" db:"id"`
	UserID    *string   `json:"userId,omitempty" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Value     float64   `json:"value" db:"value"`
	Path      string    `json:"path" db:"path"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// ElementInfo descrição do elemento clicado enviada pelo cliente
type ElementInfo struct {
	Identifier string            `json:"identifier,omitempty"`
	ID         string            `json:"id,omitempty"`
	Text       string            `json:"text,omitempty"`
	Class      string            `json:"class,omitempty"`
	Tag        string            `json:"tag,omitempty"`
	Type       string            `json:"type,omitempty"`
	Dataset    map[string]string `json:"dataset,omitempty"`
}

// UserEvents eventos recentes de um usuário (ou do bucket anônimo)
type UserEvents struct {
	PageViews     []PageView     `json:"pageViews"`
	HeatmapEvents []HeatmapEvent `json:"heatmapEvents"`
	WebVitals     []WebVital     `json:"webVitals"`
}
