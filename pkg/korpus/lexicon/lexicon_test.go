package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLexiconNew(t *testing.T) {
	lex := New()
	if lex == nil {
		t.Fatal("New() returned nil")
	}

	stats := lex.Stats()
	if stats.Lemmas != 0 {
		t.Errorf("New lexicon should have 0 lemma groups, got %d", stats.Lemmas)
	}
}

func TestLexiconAddGroup(t *testing.T) {
	lex := New()
	lex.AddGroup("go", []string{"goes", "went", "gone"})

	tests := []struct {
		form string
		want string
	}{
		{"went", "go"},
		{"gone", "go"},
		{"go", "go"},
		{"WENT", "go"},
	}
	for _, tt := range tests {
		got, ok := lex.Lemma(tt.form)
		if !ok || got != tt.want {
			t.Errorf("Lemma(%q) = %q, %v; want %q", tt.form, got, ok, tt.want)
		}
	}

	if _, ok := lex.Lemma("walked"); ok {
		t.Error("Lemma('walked') should not be found")
	}

	forms := lex.Forms("went")
	if len(forms) != 4 {
		t.Fatalf("Forms('went') returned %d forms, want 4", len(forms))
	}
	if forms[0] != "go" {
		t.Errorf("lemma should be first form, got %q", forms[0])
	}
}

func TestLexiconReplaceGroup(t *testing.T) {
	lex := New()
	lex.AddGroup("mouse", []string{"mice", "mouses"})
	lex.AddGroup("mouse", []string{"mice"})

	if _, ok := lex.Lemma("mouses"); ok {
		t.Error("stale form should be removed when a group is replaced")
	}
	if got, _ := lex.Lemma("mice"); got != "mouse" {
		t.Errorf("Lemma('mice') = %q, want 'mouse'", got)
	}
}

func TestLexiconFormsUnknown(t *testing.T) {
	lex := New()
	forms := lex.Forms("Unknown")
	if len(forms) != 1 || forms[0] != "unknown" {
		t.Errorf("Forms('Unknown') = %v, want [unknown]", forms)
	}
}

func TestDefaultIrregulars(t *testing.T) {
	lex := Default()

	for form, want := range map[string]string{
		"was":      "be",
		"children": "child",
		"better":   "good",
		"n't":      "not",
	} {
		if got, ok := lex.Lemma(form); !ok || got != want {
			t.Errorf("Lemma(%q) = %q, want %q", form, got, want)
		}
	}

	if lex.Stats().Lemmas == 0 {
		t.Error("default lexicon should not be empty")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmas.yaml")
	content := `lemmas:
  - lemma: Korpus
    forms: [Korpora, korpuses]
  - lemma: ""
    forms: [ignored]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	if got, _ := lex.Lemma("korpora"); got != "korpus" {
		t.Errorf("Lemma('korpora') = %q, want 'korpus'", got)
	}
	if _, ok := lex.Lemma("ignored"); ok {
		t.Error("entries without a lemma should be skipped")
	}
	// Built-in irregulars are still present.
	if got, _ := lex.Lemma("went"); got != "go" {
		t.Errorf("Lemma('went') = %q, want 'go'", got)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLemmasSorted(t *testing.T) {
	lex := New()
	lex.AddGroup("zebra", nil)
	lex.AddGroup("apple", nil)

	got := lex.Lemmas()
	if len(got) != 2 || got[0] != "apple" || got[1] != "zebra" {
		t.Errorf("Lemmas() = %v, want [apple zebra]", got)
	}
}
