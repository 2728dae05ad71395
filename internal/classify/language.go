package classify

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"pasteboard/internal/models"
)

// detectLanguage guesses the source language of code input. An explicit
// fenced-block annotation wins; otherwise the candidate lexers score the
// input and the top score is taken. No signal yields "unknown".
func (d *Detector) detectLanguage(input string, md markdownSignals) string {
	if md.fencedInfo != "" {
		return d.normalizeLanguage(md.fencedInfo)
	}
	if lang := d.analyseLanguage(input); lang != "" {
		return lang
	}
	return models.LanguageUnknown
}

// normalizeLanguage maps a user-supplied language annotation to a
// canonical name: ruleset aliases first, then the chroma lexer registry.
func (d *Detector) normalizeLanguage(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return models.LanguageUnknown
	}
	if alias, ok := d.rules.LanguageAliases[name]; ok {
		name = alias
	}
	if lexer := lexers.Get(name); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return name
}

// analyseLanguage scores the input against the ruleset's fixed candidate
// set and returns the best-scoring lexer name, or "" when nothing scores.
func (d *Detector) analyseLanguage(input string) string {
	var (
		best      string
		bestScore float32
	)
	for _, candidate := range d.rules.CandidateLanguages {
		lexer := lexers.Get(candidate)
		if lexer == nil {
			continue
		}
		analyser, ok := lexer.(chroma.Analyser)
		if !ok {
			continue
		}
		score := analyser.AnalyseText(input)
		if score > bestScore {
			bestScore = score
			best = strings.ToLower(lexer.Config().Name)
		}
	}
	return best
}
