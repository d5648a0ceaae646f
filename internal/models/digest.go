package models

// MaxDigestEntries tamanho máximo de cada lista do digest
const MaxDigestEntries = 5

// PageViewSummary página visitada recentemente
type PageViewSummary struct {
	Path string `json:"path" validate:"required"`
}

// ElementClick contagem de cliques por elemento
type ElementClick struct {
	Element string `json:"element" validate:"required"`
	Count   int    `json:"count" validate:"gte=0"`
}

// SectionVisibility contagem de exibições por seção
type SectionVisibility struct {
	Section string `json:"section" validate:"required"`
	Count   int    `json:"count" validate:"gte=0"`
}

// ScrollDepth profundidade de rolagem observada numa página
type ScrollDepth struct {
	Path       string  `json:"path"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

// AnalyticsDigest resumo limitado do comportamento do usuário enviado ao modelo
type AnalyticsDigest struct {
	UserID            string              `json:"userId"`
	IsAuthenticated   bool                `json:"isAuthenticated"`
	PageViews         []PageViewSummary   `json:"pageViews" validate:"max=5,dive"`
	ElementClicks     []ElementClick      `json:"elementClicksData" validate:"max=5,dive"`
	SectionVisibility []SectionVisibility `json:"sectionVisibilityData" validate:"max=5,dive"`
	ScrollDepth       []ScrollDepth       `json:"scrollDepthData" validate:"max=5,dive"`
}

// TopClickedElements retorna até n elementos mais clicados
func (d *AnalyticsDigest) TopClickedElements(n int) []string {
	out := make([]string, 0, n)
	for _, c := range d.ElementClicks {
		if len(out) == n {
			break
		}
		out = append(out, c.Element)
	}
	return out
}

// TopViewedSections retorna até n seções mais vistas
func (d *AnalyticsDigest) TopViewedSections(n int) []string {
	out := make([]string, 0, n)
	for _, s := range d.SectionVisibility {
		if len(out) == n {
			break
		}
		out = append(out, s.Section)
	}
	return out
}

// ElementEngagement elemento observado com sua contagem e razão dentro do tipo de seção
type ElementEngagement struct {
	Identifier  string   `json:"identifier"`
	Type        string   `json:"type,omitempty"`
	Text        string   `json:"text,omitempty"`
	Path        string   `json:"path,omitempty"`
	SectionType string   `json:"sectionType"`
	Count       int      `json:"count"`
	Ratio       float64  `json:"ratio"`
	Priority    Priority `json:"priority"`
}

// BehaviorSummary resumo do comportamento usado para semear os contadores locais
type BehaviorSummary struct {
	TopSections       []ElementEngagement `json:"topSections"`
	SuggestedContent  []string            `json:"suggestedContent"`
	LayoutPreferences struct {
		ContentDensity string `json:"contentDensity"`
	} `json:"layoutPreferences"`
}
