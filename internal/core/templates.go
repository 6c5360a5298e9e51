package core

import (
	"sort"

	"github.com/JonMunkholm/csvmap/internal/automap"
	"github.com/JonMunkholm/csvmap/internal/mapping"
)

// TemplateMatchThreshold is the minimum share of a template's headers that
// must appear in the input for the template to be suggested.
const TemplateMatchThreshold = 0.7

// ImportTemplate is a saved mapping for inputs with a known header layout.
type ImportTemplate struct {
	Name    string              `json:"name" yaml:"name"`
	Schema  string              `json:"schema,omitempty" yaml:"schema,omitempty"`
	Headers []string            `json:"headers" yaml:"headers"`
	Mapping map[string][]string `json:"mapping" yaml:"mapping"`
}

// TemplateMatch is a template scored against a set of input headers.
type TemplateMatch struct {
	Template ImportTemplate `json:"template"`
	Score    float64        `json:"score"`
}

// MatchTemplates returns the templates whose headers match headers at or
// above TemplateMatchThreshold, best first.
func MatchTemplates(headers []string, templates []ImportTemplate) []TemplateMatch {
	var matches []TemplateMatch
	for _, t := range templates {
		score := matchTemplateHeaders(headers, t.Headers)
		if score >= TemplateMatchThreshold {
			matches = append(matches, TemplateMatch{Template: t, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// matchTemplateHeaders calculates how many template headers the input has.
func matchTemplateHeaders(headers, templateHeaders []string) float64 {
	if len(templateHeaders) == 0 {
		return 0
	}

	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[automap.Normalize(h)] = true
	}

	matched := 0
	for _, h := range templateHeaders {
		if set[automap.Normalize(h)] {
			matched++
		}
	}

	return float64(matched) / float64(len(templateHeaders))
}

// ToMapping applies the template to headers. Template sources are matched
// after normalization and take the input's spelling; sources the input does
// not have are skipped.
func (t ImportTemplate) ToMapping(headers []string) *mapping.Mapping {
	byNorm := make(map[string]string, len(headers))
	for _, h := range headers {
		n := automap.Normalize(h)
		if _, seen := byNorm[n]; !seen {
			byNorm[n] = h
		}
	}

	sources := make([]string, 0, len(t.Mapping))
	for src := range t.Mapping {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	m := mapping.New()
	for _, src := range sources {
		if h, ok := byNorm[automap.Normalize(src)]; ok {
			for _, target := range t.Mapping[src] {
				m.Add(h, target)
			}
		}
	}
	return m
}

// TemplateFromMapping captures the current mapping for reuse with inputs
// that share headers.
func TemplateFromMapping(name, schema string, headers []string, m *mapping.Mapping) ImportTemplate {
	return ImportTemplate{
		Name:    name,
		Schema:  schema,
		Headers: append([]string(nil), headers...),
		Mapping: m.Map(),
	}
}
