package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ruleset holds the tunable classification heuristics. The defaults are
// deliberately loose: misclassification is a tolerated false positive, not
// a defect, and operators can override the ruleset from a YAML file.
type Ruleset struct {
	// MinSingleLineLength is the minimum length a single-line input must
	// have before code signals are considered at all.
	MinSingleLineLength int `yaml:"min_single_line_length"`

	// Keywords are language keywords whose presence (as whole words)
	// counts as a code signal.
	Keywords []string `yaml:"keywords"`

	// LanguageAliases normalizes fenced-block info strings before the
	// lexer registry is consulted.
	LanguageAliases map[string]string `yaml:"language_aliases"`

	// CandidateLanguages is the fixed set of lexers scored by the
	// statistical fallback when no fenced block names a language.
	CandidateLanguages []string `yaml:"candidate_languages"`
}

// DefaultRuleset returns the built-in heuristics.
func DefaultRuleset() Ruleset {
	return Ruleset{
		MinSingleLineLength: 20,
		Keywords: []string{
			"function", "class", "if", "def", "import", "return",
			"const", "var", "let", "func", "package", "public",
			"private", "void", "struct", "interface", "lambda",
			"elif", "fn",
		},
		LanguageAliases: map[string]string{
			"js":     "javascript",
			"ts":     "typescript",
			"py":     "python",
			"rb":     "ruby",
			"sh":     "bash",
			"shell":  "bash",
			"yml":    "yaml",
			"golang": "go",
			"c++":    "cpp",
		},
		CandidateLanguages: []string{
			"go", "python", "javascript", "typescript", "rust", "java",
			"c", "cpp", "ruby", "bash", "sql", "html", "css", "json",
			"yaml",
		},
	}
}

// LoadRuleset reads a ruleset override from a YAML file. Fields left unset
// in the file keep their default values.
func LoadRuleset(path string) (Ruleset, error) {
	rules := DefaultRuleset()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, err
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	return rules.normalized(), nil
}

func (r Ruleset) normalized() Ruleset {
	if r.MinSingleLineLength <= 0 {
		r.MinSingleLineLength = DefaultRuleset().MinSingleLineLength
	}
	if len(r.Keywords) == 0 {
		r.Keywords = DefaultRuleset().Keywords
	}
	if len(r.LanguageAliases) == 0 {
		r.LanguageAliases = DefaultRuleset().LanguageAliases
	}
	if len(r.CandidateLanguages) == 0 {
		r.CandidateLanguages = DefaultRuleset().CandidateLanguages
	}
	return r
}
