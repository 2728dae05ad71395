package classify

import (
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"pasteboard/internal/models"
)

// urlPattern matches a URL shape: optional http/https scheme, a dotted
// host, and an optional path/query tail.
var urlPattern = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .\-?=&%]*)/?$`)

// arithmeticPattern matches simple arithmetic expressions like "2 + 2".
var arithmeticPattern = regexp.MustCompile(`\d+\s*[+\-*/%]\s*\d+`)

// Result is the outcome of classifying one raw text submission.
type Result struct {
	Kind models.Kind
	// Language is set only for KindCode. "unknown" when no signal.
	Language string
}

// Detector classifies raw submitted text into an entry kind. Detection is
// pure and deterministic; it never fails, it only falls back to Text.
type Detector struct {
	rules    Ruleset
	keywords []*regexp.Regexp
}

// markdownParser is shared: the parser configuration never changes and
// parsing creates per-call state via Parse(reader).
var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New()
	})
	return markdownParser
}

// NewDetector builds a detector from a ruleset.
func NewDetector(rules Ruleset) *Detector {
	rules = rules.normalized()
	keywords := make([]*regexp.Regexp, 0, len(rules.Keywords))
	for _, kw := range rules.Keywords {
		keywords = append(keywords, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return &Detector{rules: rules, keywords: keywords}
}

// Detect classifies raw text. The heuristic order is fixed so behavior is
// reproducible:
//
//  1. trimmed empty input is Text
//  2. URL shape wins over everything else
//  3. code signals, checked in order: fenced code block, inline code
//     span, language keyword, structural punctuation, arithmetic
//     expression; multi-line input needs one signal, single-line input
//     additionally needs to exceed the ruleset length threshold
//  4. everything else is Text
func (d *Detector) Detect(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{Kind: models.KindText}
	}

	if urlPattern.MatchString(trimmed) {
		return Result{Kind: models.KindLink}
	}

	md := parseMarkdown(trimmed)
	if d.looksLikeCode(trimmed, md) {
		return Result{Kind: models.KindCode, Language: d.detectLanguage(trimmed, md)}
	}

	return Result{Kind: models.KindText}
}

func (d *Detector) looksLikeCode(trimmed string, md markdownSignals) bool {
	multiline := strings.ContainsRune(trimmed, '\n')
	if !multiline && len(trimmed) <= d.rules.MinSingleLineLength {
		return false
	}

	if md.hasFencedBlock || md.hasCodeSpan {
		return true
	}
	for _, kw := range d.keywords {
		if kw.MatchString(trimmed) {
			return true
		}
	}
	if hasStructuralPunctuation(trimmed) {
		return true
	}
	return arithmeticPattern.MatchString(trimmed)
}

// hasStructuralPunctuation reports code-shaped punctuation: a brace pair,
// a paren pair, or a statement-terminating semicolon.
func hasStructuralPunctuation(s string) bool {
	if strings.Contains(s, "{") && strings.Contains(s, "}") {
		return true
	}
	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		return true
	}
	return strings.Contains(s, ";")
}

// markdownSignals summarizes what one goldmark parse saw.
type markdownSignals struct {
	hasFencedBlock bool
	hasCodeSpan    bool
	// fencedInfo is the info string of the first annotated fenced block.
	fencedInfo string
}

func parseMarkdown(input string) markdownSignals {
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	var signals markdownSignals
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := node.(type) {
		case *ast.FencedCodeBlock:
			signals.hasFencedBlock = true
			if signals.fencedInfo == "" {
				signals.fencedInfo = string(typed.Language(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			signals.hasCodeSpan = true
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return signals
}
