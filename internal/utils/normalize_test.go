package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeSectionName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pricing", "pricing"},
		{" Pricing ", "pricing"},
		{"Preços", "precos"},
		{"Perguntas  Frequentes", "perguntas-frequentes"},
		{"hero_banner", "hero_banner"},
		{"feature-Educação", "feature-educacao"},
		{"   ", ""},
		{"", ""},
	}

	for _, test := range tests {
		result := NormalizeSectionName(test.input)
		if result != test.expected {
			t.Errorf("NormalizeSectionName(%q) = %q; expected %q", test.input, result, test.expected)
		}
	}
}

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Saúde", "Saude"},
		{"Educação", "Educacao"},
		{"Família", "Familia"},
		{"Cidade", "Cidade"},
	}

	for _, test := range tests {
		if result := RemoveAccents(test.input); result != test.expected {
			t.Errorf("RemoveAccents(%q) = %q; expected %q", test.input, result, test.expected)
		}
	}
}

func TestSplitSections(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"hero, pricing ,faq", []string{"hero", "pricing", "faq"}},
		{"hero,,  ,Preços", []string{"hero", "precos"}},
		{"", []string{}},
	}

	for _, test := range tests {
		result := SplitSections(test.input)
		if !reflect.DeepEqual(result, test.expected) {
			t.Errorf("SplitSections(%q) = %v; expected %v", test.input, result, test.expected)
		}
	}
}
