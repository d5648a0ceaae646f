package recommendation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation/adapter"
)

var (
	errEmptyTopSections = errors.New("resposta sem topSections")
	errMalformedPayload = errors.New("resposta não é um JSON de recomendação")
)

// BuildPrompt monta as instruções de sistema e o prompt do usuário a partir do digest
func BuildPrompt(digest *models.AnalyticsDigest, userID string, authenticated bool) adapter.Request {
	status, yesNo := "DESLOGADO", "Não"
	focus := "Para usuários deslogados, priorize incentivos de cadastro, convites para login e destaques gerais de funcionalidades."
	nextPages := `["signup", "login", "features"]`
	if authenticated {
		status, yesNo = "LOGADO", "Sim"
		focus = "Para usuários logados, priorize conteúdo personalizado, acesso ao dashboard e recomendações específicas do usuário."
		nextPages = `["dashboard", "settings", "profile"]`
	}

	system := fmt.Sprintf(`Você é um motor de personalização web que analisa dados de comportamento do usuário para criar estratégias de personalização de interface. As recomendações devem ser específicas, baseadas em dados e com impacto visível. O usuário está %s; adapte as recomendações a isso. Responda apenas com JSON válido, sem explicações fora da estrutura. Os elementos mais clicados e as seções mais vistas DEVEM receber a maior prioridade.`, status)

	var b strings.Builder
	fmt.Fprintf(&b, "ID DO USUÁRIO: %s\n", models.CacheKey(userID))
	fmt.Fprintf(&b, "USUÁRIO AUTENTICADO: %s\n", yesNo)
	b.WriteString("DADOS DE ANALYTICS:\n")
	b.WriteString(summarizeDigest(digest))

	b.WriteString("\nELEMENTOS MAIS CLICADOS (MAIOR PRIORIDADE):\n")
	writeRanked(&b, digest.TopClickedElements(3), "Sem dados de cliques")

	b.WriteString("\nSEÇÕES MAIS VISTAS (MAIOR PRIORIDADE):\n")
	writeRanked(&b, digest.TopViewedSections(3), "Sem dados de visibilidade de seções")

	fmt.Fprintf(&b, `
Status de autenticação: %s. %s

Retorne as recomendações no formato JSON:
{
  "topSections": [
    {"identifier": "features", "priority": "high/medium/low", "reasoning": "explicação curta"}
  ],
  "uiCustomizations": {
    "colorTheme": "default/vibrant/subtle/professional",
    "fontSizes": "small/medium/large",
    "spacing": "compact/balanced/spacious",
    "emphasis": ["element-id-1"],
    "deemphasis": ["element-id-2"]
  },
  "layoutPreferences": {
    "contentDensity": "high/medium/low",
    "navigationStyle": "prominent/standard/minimal",
    "featuredContent": ["content-id-1"],
    "contentGrouping": "categorical/chronological/relevance"
  },
  "userJourney": {
    "suggestedNextPages": %s,
    "callToActionEmphasis": "strong/moderate/subtle",
    "personalizedGreeting": "returning/new/engaged",
    "authState": "%s"
  }
}

Seja específico e decidido. Escolha valores que gerem diferença perceptível na interface sem prejudicar a usabilidade.`,
		status, focus, nextPages, models.AuthStateFor(authenticated))

	return adapter.Request{System: system, Prompt: b.String()}
}

func writeRanked(b *strings.Builder, values []string, empty string) {
	if len(values) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for i, v := range values {
		fmt.Fprintf(b, "%d. %s\n", i+1, v)
	}
}

// summarizeDigest formata o digest de forma compacta para reduzir tokens
func summarizeDigest(d *models.AnalyticsDigest) string {
	var b strings.Builder

	if len(d.PageViews) > 0 {
		b.WriteString("Páginas visitadas recentemente:\n")
		for _, v := range limit(d.PageViews, 3) {
			fmt.Fprintf(&b, "- %s\n", v.Path)
		}
		b.WriteString("\n")
	}

	if len(d.ElementClicks) > 0 {
		b.WriteString("Elementos mais clicados (IMPORTANTE PARA PERSONALIZAÇÃO):\n")
		for _, c := range d.ElementClicks {
			fmt.Fprintf(&b, "- %s (%d cliques) - ALTA PRIORIDADE\n", c.Element, c.Count)
		}
		b.WriteString("\n")
	}

	if len(d.SectionVisibility) > 0 {
		b.WriteString("Seções mais vistas (IMPORTANTE PARA PERSONALIZAÇÃO):\n")
		for _, s := range d.SectionVisibility {
			fmt.Fprintf(&b, "- %s (vista %d vezes) - ALTA PRIORIDADE\n", s.Section, s.Count)
		}
		b.WriteString("\n")
	}

	if len(d.ScrollDepth) > 0 {
		b.WriteString("Profundidade de rolagem por página:\n")
		for _, s := range limit(d.ScrollDepth, 3) {
			path := s.Path
			if path == "" {
				path = "desconhecida"
			}
			fmt.Fprintf(&b, "- %s: %.0f%% rolado\n", path, s.Percentage)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func limit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// ParsePayload decodifica e valida a resposta do modelo.
// topSections vazio é uma falha; prioridades desconhecidas viram "medium"
// e listas ausentes viram listas vazias.
func ParsePayload(raw string) (*models.Payload, error) {
	var payload models.Payload
	if err := json.Unmarshal([]byte(adapter.ExtractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedPayload, err)
	}

	sections := payload.TopSections[:0]
	for _, s := range payload.TopSections {
		s.Identifier = strings.TrimSpace(s.Identifier)
		if s.Identifier == "" {
			continue
		}
		if !s.Priority.Valid() {
			s.Priority = models.PriorityMedium
		}
		sections = append(sections, s)
	}
	if len(sections) == 0 {
		return nil, errEmptyTopSections
	}
	payload.TopSections = sections

	normalizeLists(&payload)
	return &payload, nil
}

func normalizeLists(p *models.Payload) {
	if p.UICustomizations.Emphasis == nil {
		p.UICustomizations.Emphasis = []string{}
	}
	if p.UICustomizations.Deemphasis == nil {
		p.UICustomizations.Deemphasis = []string{}
	}
	if p.LayoutPreferences.FeaturedContent == nil {
		p.LayoutPreferences.FeaturedContent = []string{}
	}
	if p.UserJourney.SuggestedNextPages == nil {
		p.UserJourney.SuggestedNextPages = []string{}
	}
}
