// Package dictionary builds a lexical frequency dictionary from a single
// text and lets callers attach free-form morphology notes to each word.
package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cognicore/korpus/pkg/korpus/ingest"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// Entry is the data stored for one word form.
type Entry struct {
	Frequency  int    `json:"frequency"`
	Morphology string `json:"morphology"`
}

// WordEntry pairs a word with its entry for listings.
type WordEntry struct {
	Word string
	Entry
}

// Dictionary maps lowercased word forms to entries.
type Dictionary struct {
	entries map[string]Entry
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[string]Entry)}
}

// Build counts the lowercased alphabetic words of text. Morphology starts
// empty. It fails with ErrNoWordsFound when text has no words.
func Build(p *ingest.Pipeline, text string) (*Dictionary, error) {
	if p == nil {
		p = ingest.NewPipeline(nil, nil)
	}
	words := p.QueryTerms(text)
	if len(words) == 0 {
		return nil, internalerr.ErrNoWordsFound
	}

	d := New()
	for _, w := range words {
		e := d.entries[w]
		e.Frequency++
		d.entries[w] = e
	}
	return d, nil
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.entries) }

// Get returns the entry for word.
func (d *Dictionary) Get(word string) (Entry, bool) {
	e, ok := d.entries[strings.ToLower(strings.TrimSpace(word))]
	return e, ok
}

// Words lists entries sorted by word. A non-empty filter keeps only words
// containing it, ignoring case.
func (d *Dictionary) Words(filter string) []WordEntry {
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]WordEntry, 0, len(d.entries))
	for w, e := range d.entries {
		if filter != "" && !strings.Contains(w, filter) {
			continue
		}
		out = append(out, WordEntry{Word: w, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// SetMorphology stores the trimmed morphology note for word and reports
// whether it changed.
func (d *Dictionary) SetMorphology(word, text string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	e, ok := d.entries[key]
	if !ok {
		return false, fmt.Errorf("%w: word %q", internalerr.ErrNotFound, word)
	}
	text = strings.TrimSpace(text)
	if e.Morphology == text {
		return false, nil
	}
	e.Morphology = text
	d.entries[key] = e
	return true, nil
}

// Save writes the dictionary as a JSON object with sorted keys.
func (d *Dictionary) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	// encoding/json emits map keys in sorted order.
	if err := enc.Encode(d.entries); err != nil {
		return fmt.Errorf("encode dictionary: %w", err)
	}
	return nil
}

// Load replaces the dictionary with the content read from r. Every entry
// is validated before anything changes; invalid input yields a
// *internalerr.FormatError and leaves the dictionary untouched.
func (d *Dictionary) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read dictionary: %w", err)
	}
	entries, err := parse(data)
	if err != nil {
		return err
	}
	d.entries = entries
	return nil
}

// SaveFile writes the dictionary to path.
func (d *Dictionary) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadFile reads a dictionary saved with SaveFile.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := New()
	if err := d.Load(f); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

func parse(data []byte) (map[string]Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, &internalerr.FormatError{Index: -1, Reason: "top level is not an object"}
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &internalerr.FormatError{Index: -1, Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	words := make([]string, 0, len(raw))
	for w := range raw {
		words = append(words, w)
	}
	sort.Strings(words)

	out := make(map[string]Entry, len(raw))
	for _, w := range words {
		e, err := parseEntry(w, raw[w])
		if err != nil {
			return nil, err
		}
		out[w] = e
	}
	return out, nil
}

func parseEntry(word string, msg json.RawMessage) (Entry, error) {
	bad := func(field, reason string) error {
		return &internalerr.FormatError{Index: -1, Field: field, Reason: fmt.Sprintf("entry %q: %s", word, reason)}
	}

	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '{' {
		return Entry{}, bad("", "is not an object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return Entry{}, bad("", err.Error())
	}

	var e Entry
	freq, ok := fields["frequency"]
	if !ok {
		return Entry{}, bad("frequency", "frequency is missing")
	}
	if err := json.Unmarshal(freq, &e.Frequency); err != nil || isNull(freq) || e.Frequency < 0 {
		return Entry{}, bad("frequency", "frequency must be a non-negative integer")
	}

	morph, ok := fields["morphology"]
	if !ok {
		return Entry{}, bad("morphology", "morphology is missing")
	}
	if err := json.Unmarshal(morph, &e.Morphology); err != nil || isNull(morph) {
		return Entry{}, bad("morphology", "morphology must be a string")
	}
	return e, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
