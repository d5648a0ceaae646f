package recommendation

import (
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

// ObservedReasoning justificativa das seções derivadas do digest
const ObservedReasoning = "derived from observed behavior"

// fallbackTopN quantas seções/elementos do digest entram no fallback
const fallbackTopN = 3

// DefaultPayload recomendação estática para o estado de autenticação
func DefaultPayload(authenticated bool) *models.Payload {
	if authenticated {
		return &models.Payload{
			TopSections: []models.TopSection{
				{Identifier: "dashboard", Priority: models.PriorityHigh, Reasoning: "Default high priority section"},
				{Identifier: "settings", Priority: models.PriorityMedium, Reasoning: "Default medium priority section"},
				{Identifier: "about", Priority: models.PriorityLow, Reasoning: "Default low priority section"},
			},
			UICustomizations: models.UICustomizations{
				ColorTheme: "professional",
				FontSizes:  "medium",
				Spacing:    "balanced",
				Emphasis:   []string{"dashboard-link"},
				Deemphasis: []string{},
			},
			LayoutPreferences: models.LayoutPreferences{
				ContentDensity:  "medium",
				NavigationStyle: "standard",
				FeaturedContent: []string{"dashboard"},
				ContentGrouping: "relevance",
			},
			UserJourney: models.UserJourney{
				SuggestedNextPages:   []string{"dashboard", "settings"},
				CallToActionEmphasis: "moderate",
				PersonalizedGreeting: "returning",
				AuthState:            models.AuthStateAuthenticated,
			},
		}
	}

	return &models.Payload{
		TopSections: []models.TopSection{
			{Identifier: "features", Priority: models.PriorityHigh, Reasoning: "Default high priority section"},
			{Identifier: "pricing", Priority: models.PriorityMedium, Reasoning: "Default medium priority section"},
			{Identifier: "about", Priority: models.PriorityLow, Reasoning: "Default low priority section"},
		},
		UICustomizations: models.UICustomizations{
			ColorTheme: "vibrant",
			FontSizes:  "medium",
			Spacing:    "balanced",
			Emphasis:   []string{"signup-cta", "login-link"},
			Deemphasis: []string{},
		},
		LayoutPreferences: models.LayoutPreferences{
			ContentDensity:  "medium",
			NavigationStyle: "prominent",
			FeaturedContent: []string{"features"},
			ContentGrouping: "relevance",
		},
		UserJourney: models.UserJourney{
			SuggestedNextPages:   []string{"signup", "login", "features"},
			CallToActionEmphasis: "strong",
			PersonalizedGreeting: "new",
			AuthState:            models.AuthStateAnonymous,
		},
	}
}

// Fallback recomendação determinística construída a partir do digest.
// Seções mais vistas viram topSections de prioridade alta e os elementos mais
// clicados viram emphasis; o resto vem dos padrões do estado de autenticação.
func Fallback(digest *models.AnalyticsDigest, authenticated bool) *models.Payload {
	payload := DefaultPayload(authenticated)
	if digest == nil {
		return payload
	}

	if sections := digest.TopViewedSections(fallbackTopN); len(sections) > 0 {
		payload.TopSections = make([]models.TopSection, 0, len(sections))
		for _, s := range sections {
			payload.TopSections = append(payload.TopSections, models.TopSection{
				Identifier: s,
				Priority:   models.PriorityHigh,
				Reasoning:  ObservedReasoning,
			})
		}
	}

	if clicked := digest.TopClickedElements(fallbackTopN); len(clicked) > 0 {
		payload.UICustomizations.Emphasis = clicked
	}

	return payload
}
