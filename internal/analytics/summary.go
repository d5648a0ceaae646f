package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

const (
	// SummaryClickWindow cliques considerados no resumo de comportamento
	SummaryClickWindow = 24 * time.Hour
	// SummaryEventLimit eventos de cada tipo lidos para o resumo
	SummaryEventLimit = 100

	summaryMaxElements   = 20
	suggestedContentSize = 3
)

// Tipos de seção usados no cálculo de razões
const (
	SectionTypeFeature     = "feature"
	SectionTypeTestimonial = "testimonial"
	SectionTypeSection     = "section"
	SectionTypeUnknown     = "unknown"
)

var sectionTypes = []string{SectionTypeFeature, SectionTypeTestimonial, SectionTypeSection}

// SectionTypeOf deduz o tipo de seção pelo prefixo contido no identificador
func SectionTypeOf(identifier string) string {
	for _, t := range sectionTypes {
		if strings.Contains(identifier, t+"-") {
			return t
		}
	}
	return SectionTypeUnknown
}

// Summarize resume cliques e rolagens no comportamento usado para semear os
// contadores do cliente. A razão de cada elemento é calculada dentro do seu
// tipo de seção; elementos de tipo desconhecido ficam com razão 0.
func Summarize(clicks, scrolls []models.HeatmapEvent) *models.BehaviorSummary {
	summary := &models.BehaviorSummary{
		TopSections:      []models.ElementEngagement{},
		SuggestedContent: []string{},
	}
	summary.LayoutPreferences.ContentDensity = "medium"

	index := make(map[string]int)
	var elements []models.ElementEngagement
	for _, click := range clicks {
		if len(click.ElementInfo) == 0 {
			continue
		}
		var info models.ElementInfo
		if err := json.Unmarshal(click.ElementInfo, &info); err != nil {
			continue
		}

		identifier := summaryIdentifier(info)
		if i, ok := index[identifier]; ok {
			elements[i].Count++
			continue
		}
		index[identifier] = len(elements)
		elements = append(elements, models.ElementEngagement{
			Identifier:  identifier,
			Type:        info.Type,
			Text:        info.Text,
			Path:        click.Path,
			SectionType: SectionTypeOf(identifier),
			Count:       1,
		})
	}

	totals := make(map[string]int)
	for _, el := range elements {
		totals[el.SectionType] += el.Count
	}
	for i := range elements {
		el := &elements[i]
		if total := totals[el.SectionType]; el.SectionType != SectionTypeUnknown && total > 0 {
			el.Ratio = float64(el.Count) / float64(total)
		}
		el.Priority = models.PriorityForRatio(el.Ratio)
	}

	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Count > elements[j].Count
	})
	if len(elements) > summaryMaxElements {
		elements = elements[:summaryMaxElements]
	}
	if elements != nil {
		summary.TopSections = elements
	}

	pages := newCounter()
	for _, e := range clicks {
		pages.add(e.Path)
	}
	for _, e := range scrolls {
		pages.add(e.Path)
	}
	for _, entry := range pages.top(suggestedContentSize) {
		summary.SuggestedContent = append(summary.SuggestedContent, entry.key)
	}

	summary.LayoutPreferences.ContentDensity = contentDensity(scrolls)
	return summary
}

// summaryIdentifier identifier, data-analytics-id ou "tipo:id|classe"
func summaryIdentifier(info models.ElementInfo) string {
	if info.Identifier != "" {
		return info.Identifier
	}
	if id := info.Dataset["analyticsId"]; id != "" {
		return id
	}

	ref := info.ID
	if ref == "" {
		ref = info.Class
	}
	if ref == "" {
		ref = "unknown"
	}
	typ := info.Type
	if typ == "" {
		typ = "unknown"
	}
	return typ + ":" + ref
}

// contentDensity rolagem média acima de 75% indica conteúdo denso, abaixo de 40% espaçado
func contentDensity(scrolls []models.HeatmapEvent) string {
	if len(scrolls) == 0 {
		return "low"
	}

	var sum float64
	for _, s := range scrolls {
		if s.ScrollPercentage != nil {
			sum += *s.ScrollPercentage
		}
	}
	avg := sum / float64(len(scrolls))

	switch {
	case avg > 75:
		return "high"
	case avg < 40:
		return "low"
	default:
		return "medium"
	}
}
