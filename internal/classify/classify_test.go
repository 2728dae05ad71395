package classify

import (
	"os"
	"path/filepath"
	"testing"

	"pasteboard/internal/models"
)

func testDetector() *Detector {
	return NewDetector(DefaultRuleset())
}

func TestDetectLink(t *testing.T) {
	d := testDetector()
	inputs := []string{
		"https://example.com/page",
		"http://example.com",
		"example.com",
		"  sub.example.org/some/path  ",
		"example.com/search?q=clipboard",
	}
	for _, input := range inputs {
		if got := d.Detect(input); got.Kind != models.KindLink {
			t.Fatalf("Detect(%q): expected link, got %q", input, got.Kind)
		}
	}
}

func TestDetectText(t *testing.T) {
	d := testDetector()
	inputs := []string{
		"hello world",
		"",
		"   ",
		"a short note",
		"meeting moved to thursday afternoon",
	}
	for _, input := range inputs {
		if got := d.Detect(input); got.Kind != models.KindText {
			t.Fatalf("Detect(%q): expected text, got %q", input, got.Kind)
		}
	}
}

func TestDetectCodeMultiline(t *testing.T) {
	d := testDetector()
	got := d.Detect("function add(a, b) {\n  return a + b;\n}")
	if got.Kind != models.KindCode {
		t.Fatalf("expected code, got %q", got.Kind)
	}
	if got.Language == "" {
		t.Fatal("expected a language guess for code")
	}
}

func TestDetectCodeSingleLineThreshold(t *testing.T) {
	d := testDetector()

	// Short single-line input stays text even with code signals.
	if got := d.Detect("x = 1;"); got.Kind != models.KindText {
		t.Fatalf("expected text below threshold, got %q", got.Kind)
	}

	// Long single-line input with a keyword is code.
	if got := d.Detect("const total = items.reduce(sum, 0);"); got.Kind != models.KindCode {
		t.Fatalf("expected code above threshold, got %q", got.Kind)
	}
}

func TestDetectFencedBlockLanguage(t *testing.T) {
	d := testDetector()
	got := d.Detect("```ts\nconst x: number = 1;\n```")
	if got.Kind != models.KindCode {
		t.Fatalf("expected code, got %q", got.Kind)
	}
	if got.Language != "typescript" {
		t.Fatalf("expected typescript, got %q", got.Language)
	}
}

func TestDetectFencedBlockNoAnnotation(t *testing.T) {
	d := testDetector()
	got := d.Detect("```\nsome opaque blob of stuff\n```")
	if got.Kind != models.KindCode {
		t.Fatalf("expected code, got %q", got.Kind)
	}
	if got.Language == "" {
		t.Fatal("expected language to fall back, not be empty")
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := testDetector()
	input := "def greet(name):\n    return f\"hi {name}\""
	first := d.Detect(input)
	for i := 0; i < 5; i++ {
		if got := d.Detect(input); got != first {
			t.Fatalf("detection not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestDetectLinkRoundTrip(t *testing.T) {
	d := testDetector()
	body := "https://example.com/page"
	if got := d.Detect(body); got.Kind != models.KindLink {
		t.Fatalf("expected link, got %q", got.Kind)
	}
	// Classifying a stored link body again yields link.
	if got := d.Detect(body); got.Kind != models.KindLink {
		t.Fatalf("round trip: expected link, got %q", got.Kind)
	}
}

func TestNormalizeLanguageAliases(t *testing.T) {
	d := testDetector()
	cases := map[string]string{
		"ts":     "typescript",
		"js":     "javascript",
		"py":     "python",
		"golang": "go",
	}
	for raw, want := range cases {
		if got := d.normalizeLanguage(raw); got != want {
			t.Fatalf("normalize %q: expected %q, got %q", raw, want, got)
		}
	}
	if got := d.normalizeLanguage(""); got != models.LanguageUnknown {
		t.Fatalf("expected unknown for empty annotation, got %q", got)
	}
}

func TestLoadRuleset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "min_single_line_length: 5\nkeywords: [\"frobnicate\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write ruleset: %v", err)
	}

	rules, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}
	if rules.MinSingleLineLength != 5 {
		t.Fatalf("expected threshold 5, got %d", rules.MinSingleLineLength)
	}
	if len(rules.Keywords) != 1 || rules.Keywords[0] != "frobnicate" {
		t.Fatalf("expected overridden keywords, got %#v", rules.Keywords)
	}
	// Unset fields keep defaults.
	if len(rules.CandidateLanguages) == 0 {
		t.Fatal("expected default candidate languages")
	}

	d := NewDetector(rules)
	if got := d.Detect("frobnicate this"); got.Kind != models.KindCode {
		t.Fatalf("expected overridden ruleset to classify code, got %q", got.Kind)
	}
}

func TestLoadRulesetMissingFile(t *testing.T) {
	if _, err := LoadRuleset(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing ruleset file")
	}
}

func TestDetectCodeIfKeyword(t *testing.T) {
	d := testDetector()
	got := d.Detect("if total > budget\n  flag the report")
	if got.Kind != models.KindCode {
		t.Fatalf("expected code from if keyword, got %q", got.Kind)
	}
}
