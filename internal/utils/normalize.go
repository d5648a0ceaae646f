package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveAccents remove acentos e diacríticos
// Exemplo: "Preços" -> "Precos"
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, _ := transform.String(t, s)
	return normalized
}

// NormalizeSectionName converte o nome de uma seção visível no identificador usado
// nas contagens: sem acentos, minúsculo, espaços viram "-".
// Exemplo: " Perguntas Frequentes " -> "perguntas-frequentes", "hero_banner" -> "hero_banner"
func NormalizeSectionName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	normalized := strings.ToLower(RemoveAccents(name))
	return strings.Join(strings.Fields(normalized), "-")
}

// SplitSections separa a lista csv de seções visíveis, normalizando cada nome
// e descartando entradas vazias
func SplitSections(csv string) []string {
	parts := strings.Split(csv, ",")
	sections := make([]string, 0, len(parts))
	for _, part := range parts {
		if section := NormalizeSectionName(part); section != "" {
			sections = append(sections, section)
		}
	}
	return sections
}
