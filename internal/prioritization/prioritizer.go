// Package prioritization reordena listas de conteúdo pela razão de engajamento
// de cada item, com uma faixa de histerese que evita trocas por diferenças pequenas.
package prioritization

import (
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

// DefaultThreshold diferença mínima de razão para que um item ultrapasse outro
const DefaultThreshold = 0.1

// ratioEpsilon absorve erro de ponto flutuante na comparação com o threshold
const ratioEpsilon = 1e-9

// Prioritize retorna uma nova lista com os itens móveis ordenados por razão de
// interações (decrescente). Um item só passa à frente de outro quando sua razão
// supera a do outro em pelo menos threshold; pares dentro da faixa mantêm a ordem
// relativa de entrada. Itens fixos permanecem nos mesmos índices.
//
// Contagens de ids ausentes da lista são ignoradas. Com total zero, ou threshold >= 1,
// a lista é devolvida sem alterações.
func Prioritize(items []models.Item, counts map[string]int, threshold float64) []models.Item {
	out := make([]models.Item, len(items))
	copy(out, items)

	threshold = clampThreshold(threshold)
	if threshold >= 1 || len(out) < 2 {
		return out
	}

	total := 0
	for _, item := range out {
		if c := counts[item.ID]; c > 0 {
			total += c
		}
	}
	if total == 0 {
		return out
	}

	ratio := func(item models.Item) float64 {
		c := counts[item.ID]
		if c <= 0 {
			return 0
		}
		return float64(c) / float64(total)
	}

	slots := make([]int, 0, len(out))
	movable := make([]models.Item, 0, len(out))
	for i, item := range out {
		if item.Fixed {
			continue
		}
		slots = append(slots, i)
		movable = append(movable, item)
	}

	// Insertion sort estável: o item só avança enquanto supera o anterior pela margem.
	for i := 1; i < len(movable); i++ {
		cur := movable[i]
		rc := ratio(cur)
		j := i
		for j > 0 {
			rp := ratio(movable[j-1])
			if rc <= rp || rc-rp+ratioEpsilon < threshold {
				break
			}
			movable[j] = movable[j-1]
			j--
		}
		movable[j] = cur
	}

	for k, slot := range slots {
		out[slot] = movable[k]
	}
	return out
}

// Ratios calcula a razão de engajamento de cada item da lista
func Ratios(items []models.Item, counts map[string]int) map[string]float64 {
	total := 0
	for _, item := range items {
		if c := counts[item.ID]; c > 0 {
			total += c
		}
	}

	ratios := make(map[string]float64, len(items))
	for _, item := range items {
		if total == 0 || counts[item.ID] <= 0 {
			ratios[item.ID] = 0
			continue
		}
		ratios[item.ID] = float64(counts[item.ID]) / float64(total)
	}
	return ratios
}

func clampThreshold(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
