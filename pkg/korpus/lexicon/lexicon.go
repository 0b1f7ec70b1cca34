package lexicon

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps inflected word forms to their lemma:
// - Irregular verbs: went, gone, goes → go
// - Irregular plurals: mice → mouse, children → child
// - Suppletive comparatives: better, best → good
//
// Lookups are case-insensitive. Forms not in the lexicon are left to the
// rule-based lemmatizer in the ingest package.
type Lexicon struct {
	// lemma -> all forms (including the lemma itself)
	// Example: "go" -> ["go", "went", "gone", "goes", "going"]
	forms map[string][]string

	// form -> lemma
	// Example: "went" -> "go"
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:        make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads lemma groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: go
//	    forms: [went, gone, goes]
//	  - lemma: mouse
//	    forms: [mice]
//
// Entries extend the built-in Default() table; a lemma present in both is
// replaced by the file's group.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := Default()
	for _, entry := range config.Lemmas {
		if strings.TrimSpace(entry.Lemma) == "" {
			continue
		}
		lex.AddGroup(entry.Lemma, entry.Forms)
	}

	return lex, nil
}

// AddGroup registers a lemma with its inflected forms.
// The lemma is always stored as the first entry of its form list.
// If the lemma already exists, old reverse index entries are cleaned up first.
func (l *Lexicon) AddGroup(lemma string, forms []string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))

	if oldForms, exists := l.forms[lemma]; exists {
		for _, f := range oldForms {
			if l.reverseIndex[f] == lemma {
				delete(l.reverseIndex, f)
			}
		}
	}

	normalized := make([]string, 0, len(forms)+1)
	seen := make(map[string]bool)

	normalized = append(normalized, lemma)
	seen[lemma] = true

	for _, f := range forms {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		normalized = append(normalized, f)
		seen[f] = true
	}

	l.forms[lemma] = normalized

	for _, f := range normalized {
		l.reverseIndex[f] = lemma
	}
}

// Lemma returns the lemma registered for a form.
//
// Examples:
//   - Lemma("went") -> "go", true
//   - Lemma("walked") -> "", false
func (l *Lexicon) Lemma(form string) (string, bool) {
	lemma, ok := l.reverseIndex[strings.ToLower(form)]
	return lemma, ok
}

// Forms returns every known form of the lemma a word belongs to.
// Unknown words yield a slice containing only the word itself.
func (l *Lexicon) Forms(word string) []string {
	word = strings.ToLower(word)

	if forms, ok := l.forms[word]; ok {
		return forms
	}
	if lemma, ok := l.reverseIndex[word]; ok {
		if forms, ok := l.forms[lemma]; ok {
			return forms
		}
	}
	return []string{word}
}

// Lemmas returns all registered lemmas in sorted order.
func (l *Lexicon) Lemmas() []string {
	out := make([]string, 0, len(l.forms))
	for lemma := range l.forms {
		out = append(out, lemma)
	}
	sort.Strings(out)
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	total := 0
	for _, forms := range l.forms {
		total += len(forms)
	}
	return Stats{
		Lemmas:     len(l.forms),
		TotalForms: total,
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Lemmas     int // Number of lemma groups
	TotalForms int // Total number of forms across all groups
}
