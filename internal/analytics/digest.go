package analytics

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/utils"
)

// dashboardPath eventos do painel de analytics não entram no digest
const dashboardPath = "/analytics-dashboard"

const unknownElement = "unknown-element"

// BuildDigest resume os eventos recentes do usuário no digest enviado ao modelo.
// Contagens são ordenadas da maior para a menor (empates mantêm a ordem de
// aparição) e cada lista é limitada a models.MaxDigestEntries.
func BuildDigest(events *models.UserEvents, userID string, authenticated bool) *models.AnalyticsDigest {
	digest := &models.AnalyticsDigest{
		UserID:            models.CacheKey(userID),
		IsAuthenticated:   authenticated,
		PageViews:         []models.PageViewSummary{},
		ElementClicks:     []models.ElementClick{},
		SectionVisibility: []models.SectionVisibility{},
		ScrollDepth:       []models.ScrollDepth{},
	}
	if events == nil {
		return digest
	}

	seenPaths := make(map[string]bool)
	for _, pv := range events.PageViews {
		if len(digest.PageViews) == models.MaxDigestEntries {
			break
		}
		if pv.Path == "" || isDashboard(pv.Path) || seenPaths[pv.Path] {
			continue
		}
		seenPaths[pv.Path] = true
		digest.PageViews = append(digest.PageViews, models.PageViewSummary{Path: pv.Path})
	}

	clicks := newCounter()
	sections := newCounter()

	for _, e := range events.HeatmapEvents {
		if isDashboard(e.Path) {
			continue
		}

		if e.EventType == models.EventTypeClick && len(e.ElementInfo) > 0 {
			clicks.add(ElementKey(e.ElementInfo))
		}

		if e.EventType == models.EventTypeScroll && e.ScrollPercentage != nil && *e.ScrollPercentage > 0 &&
			len(digest.ScrollDepth) < models.MaxDigestEntries {
			digest.ScrollDepth = append(digest.ScrollDepth, models.ScrollDepth{
				Path:       e.Path,
				Percentage: clampPercentage(*e.ScrollPercentage),
			})
		}

		if e.VisibleSections != nil {
			for _, section := range utils.SplitSections(*e.VisibleSections) {
				sections.add(section)
			}
		}
	}

	for _, entry := range clicks.top(models.MaxDigestEntries) {
		digest.ElementClicks = append(digest.ElementClicks, models.ElementClick{Element: entry.key, Count: entry.count})
	}
	for _, entry := range sections.top(models.MaxDigestEntries) {
		digest.SectionVisibility = append(digest.SectionVisibility, models.SectionVisibility{Section: entry.key, Count: entry.count})
	}

	return digest
}

// ElementKey identificador mais útil do elemento clicado:
// identifier, id, texto, primeira classe, tag ou "unknown-element"
func ElementKey(raw []byte) string {
	var info models.ElementInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return unknownElement
	}

	candidates := []string{info.Identifier, info.ID, info.Text, firstClass(info.Class), info.Tag}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return unknownElement
}

func firstClass(class string) string {
	if fields := strings.Fields(class); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func isDashboard(path string) bool {
	return strings.Contains(path, dashboardPath)
}

func clampPercentage(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

type counterEntry struct {
	key   string
	count int
}

// counter contagem que preserva a ordem de primeira aparição
type counter struct {
	index   map[string]int
	entries []counterEntry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, counterEntry{key: key, count: 1})
}

// top até n entradas de maior contagem
func (c *counter) top(n int) []counterEntry {
	sorted := append([]counterEntry(nil), c.entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].count > sorted[j].count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
