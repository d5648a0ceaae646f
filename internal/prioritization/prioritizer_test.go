package prioritization

import (
	"reflect"
	"sort"
	"testing"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

func items(fixed map[string]bool, ids ...string) []models.Item {
	out := make([]models.Item, len(ids))
	for i, id := range ids {
		out[i] = models.Item{ID: id, Fixed: fixed[id], Order: i}
	}
	return out
}

func TestPrioritize(t *testing.T) {
	heroFixed := map[string]bool{"hero": true}

	tests := []struct {
		name      string
		items     []models.Item
		counts    map[string]int
		threshold float64
		expected  []string
	}{
		{
			name:      "hero fixo e b dominante",
			items:     items(heroFixed, "hero", "a", "b", "c"),
			counts:    map[string]int{"a": 1, "b": 8, "c": 1},
			threshold: 0.1,
			expected:  []string{"hero", "b", "a", "c"},
		},
		{
			name:      "contagens zeradas mantêm a ordem",
			items:     items(nil, "a", "b", "c"),
			counts:    map[string]int{},
			threshold: 0.1,
			expected:  []string{"a", "b", "c"},
		},
		{
			name:      "diferença dentro da faixa não reordena",
			items:     items(nil, "a", "b"),
			counts:    map[string]int{"a": 48, "b": 52},
			threshold: 0.1,
			expected:  []string{"a", "b"},
		},
		{
			name:      "threshold zero ordena estritamente",
			items:     items(nil, "a", "b", "c"),
			counts:    map[string]int{"a": 1, "b": 2, "c": 3},
			threshold: 0,
			expected:  []string{"c", "b", "a"},
		},
		{
			name:      "threshold zero mantém empates na ordem original",
			items:     items(nil, "a", "b", "c"),
			counts:    map[string]int{"a": 1, "b": 2, "c": 2},
			threshold: 0,
			expected:  []string{"b", "c", "a"},
		},
		{
			name:      "threshold um nunca reordena",
			items:     items(nil, "a", "b", "c"),
			counts:    map[string]int{"c": 100},
			threshold: 1,
			expected:  []string{"a", "b", "c"},
		},
		{
			name:      "ids desconhecidos são ignorados",
			items:     items(nil, "a", "b"),
			counts:    map[string]int{"zzz": 1000, "b": 1},
			threshold: 0.1,
			expected:  []string{"b", "a"},
		},
		{
			name:      "fixos no meio permanecem no índice",
			items:     items(map[string]bool{"ad": true}, "a", "ad", "b", "c"),
			counts:    map[string]int{"c": 9, "a": 1},
			threshold: 0.1,
			expected:  []string{"c", "ad", "a", "b"},
		},
		{
			name:      "lista vazia",
			items:     nil,
			counts:    map[string]int{"a": 1},
			threshold: 0.1,
			expected:  []string{},
		},
	}

	for _, test := range tests {
		got := models.IDs(Prioritize(test.items, test.counts, test.threshold))
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("%s: Prioritize() = %v; expected %v", test.name, got, test.expected)
		}
	}
}

func TestPrioritizeDoesNotMutateInput(t *testing.T) {
	in := items(nil, "a", "b", "c")
	_ = Prioritize(in, map[string]int{"c": 10}, 0)

	if got := models.IDs(in); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("entrada foi alterada: %v", got)
	}
}

func TestPrioritizeProperties(t *testing.T) {
	in := items(map[string]bool{"hero": true, "footer": true}, "hero", "a", "b", "c", "d", "footer")
	counts := map[string]int{"a": 3, "b": 0, "c": 7, "d": 2, "hero": 5}

	first := Prioritize(in, counts, 0.1)
	second := Prioritize(in, counts, 0.1)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Prioritize não é determinístico: %v vs %v", first, second)
	}

	// permutação da entrada
	gotIDs := models.IDs(first)
	wantIDs := models.IDs(in)
	sort.Strings(gotIDs)
	sort.Strings(wantIDs)
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("saída não é permutação da entrada: %v", models.IDs(first))
	}

	// fixos no mesmo índice
	for i, item := range in {
		if item.Fixed && first[i].ID != item.ID {
			t.Errorf("item fixo %q saiu do índice %d", item.ID, i)
		}
	}
}

func TestPrioritizeMonotonic(t *testing.T) {
	in := items(nil, "a", "b", "c", "d")
	base := map[string]int{"a": 4, "b": 3, "c": 2, "d": 1}

	position := func(ids []string, id string) int {
		for i, v := range ids {
			if v == id {
				return i
			}
		}
		return -1
	}

	before := position(models.IDs(Prioritize(in, base, 0.1)), "d")
	for extra := 1; extra <= 20; extra++ {
		counts := map[string]int{"a": 4, "b": 3, "c": 2, "d": 1 + extra}
		after := position(models.IDs(Prioritize(in, counts, 0.1)), "d")
		if after > before {
			t.Fatalf("aumentar a contagem de d o moveu para trás: %d -> %d (extra=%d)", before, after, extra)
		}
		before = after
	}
}

func TestRatios(t *testing.T) {
	r := Ratios(items(nil, "a", "b"), map[string]int{"a": 1, "b": 3, "x": 100})
	if r["a"] != 0.25 || r["b"] != 0.75 {
		t.Errorf("Ratios() = %v", r)
	}

	zero := Ratios(items(nil, "a"), nil)
	if zero["a"] != 0 {
		t.Errorf("Ratios() sem contagens = %v", zero)
	}
}
