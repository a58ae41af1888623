// https://rapidapi.com/dpventures/api/wordsapi
package rapidapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Response struct {
	Word          string        `json:"word"`
	Frequency     float64       `json:"frequency"`
	Pronunciation Pronunciation `json:"pronunciation"`
	Results       []Result      `json:"results"`
}

type Pronunciation struct {
	All string `json:"all"`
}

func (p *Pronunciation) UnmarshalJSON(data []byte) error {
	// pronunciation can be either a struct or a simple string
	if len(data) > 0 && data[0] == '{' {
		var all struct {
			All string `json:"all"`
		}
		if err := json.Unmarshal(data, &all); err != nil {
			return fmt.Errorf("json.Unmarshal > %w", err)
		}
		p.All = all.All
		return nil
	}
	if err := json.Unmarshal(data, &p.All); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	return nil
}

type Result struct {
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"partOfSpeech"`
	Synonyms     []string `json:"synonyms"`
	Examples     []string `json:"examples"`
}

// Definition joins the first results into one line, like "(noun) a trial; (verb) to try".
// It returns an empty string when there is no result.
func (r Response) Definition(limit int) string {
	results := r.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	parts := make([]string, 0, len(results))
	for _, result := range results {
		if result.Definition == "" {
			continue
		}
		if result.PartOfSpeech == "" {
			parts = append(parts, result.Definition)
			continue
		}
		parts = append(parts, fmt.Sprintf("(%s) %s", result.PartOfSpeech, result.Definition))
	}
	return strings.Join(parts, "; ")
}
