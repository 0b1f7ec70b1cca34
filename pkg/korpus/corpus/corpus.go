package corpus

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/korpus/pkg/korpus/ingest"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// Corpus is an append-only sequence of token records. The records of one
// document always form a contiguous run in reading order.
//
// A Corpus is safe for concurrent use: ingest and restore are exclusive,
// queries share a read lock.
type Corpus struct {
	mu       sync.RWMutex
	records  []TokenRecord
	docs     map[string]struct{}
	pipeline *ingest.Pipeline
}

// New creates an empty corpus that annotates text with p.
// A nil pipeline selects ingest.NewPipeline(nil, nil).
func New(p *ingest.Pipeline) *Corpus {
	if p == nil {
		p = ingest.NewPipeline(nil, nil)
	}
	return &Corpus{
		docs:     make(map[string]struct{}),
		pipeline: p,
	}
}

// Pipeline returns the pipeline used for ingestion and queries.
func (c *Corpus) Pipeline() *ingest.Pipeline {
	return c.pipeline
}

// Ingest annotates text and appends its tokens under documentID.
// It returns the number of records appended. A document id that is
// already stored is rejected with ErrDuplicateDocument and nothing is
// appended.
func (c *Corpus) Ingest(documentID, text string) (int, error) {
	doc := ingest.Doc{ID: documentID, Text: text}
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	if c.Has(documentID) {
		return 0, fmt.Errorf("%w: %q", internalerr.ErrDuplicateDocument, documentID)
	}

	// Annotation can be slow, so it runs without holding the lock.
	run, err := c.annotate(documentID, text)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[documentID]; ok {
		return 0, fmt.Errorf("%w: %q", internalerr.ErrDuplicateDocument, documentID)
	}
	if len(run) == 0 {
		return 0, nil
	}
	c.records = append(c.records, run...)
	c.docs[documentID] = struct{}{}
	return len(run), nil
}

func (c *Corpus) annotate(documentID, text string) ([]TokenRecord, error) {
	var run []TokenRecord
	// Process drops sentences without tokens, so numbering stays dense.
	for si, sent := range c.pipeline.Process(text) {
		for ti, tok := range sent.Tokens {
			rec, err := NewTokenRecord(documentID, si+1, ti+1, tok.Text, tok.Tag, tok.Lemma)
			if err != nil {
				return nil, fmt.Errorf("annotate %q: %w", documentID, err)
			}
			run = append(run, rec)
		}
	}
	return run, nil
}

// Has reports whether documentID is stored.
func (c *Corpus) Has(documentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.docs[documentID]
	return ok
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a copy of the record sequence.
func (c *Corpus) Records() []TokenRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TokenRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Occurrences returns every record whose normalized form equals word,
// ignoring case. No alphabetic filter is applied.
func (c *Corpus) Occurrences(word string) ([]TokenRecord, error) {
	needle := normalizeQuery(word)
	if needle == "" {
		return nil, internalerr.ErrEmptyQuery
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []TokenRecord
	for _, r := range c.records {
		if r.NormalizedForm == needle {
			out = append(out, r)
		}
	}
	return out, nil
}

// DocumentInfo summarizes one stored document.
type DocumentInfo struct {
	ID        string `json:"id"`
	Sentences int    `json:"sentences"`
	Tokens    int    `json:"tokens"`
	Words     int    `json:"words"`
}

// Documents lists stored documents in ingestion order.
func (c *Corpus) Documents() []DocumentInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []DocumentInfo
	for i, r := range c.records {
		if i == 0 || r.DocumentID != c.records[i-1].DocumentID {
			out = append(out, DocumentInfo{ID: r.DocumentID})
		}
		info := &out[len(out)-1]
		info.Tokens++
		if r.IsWord() {
			info.Words++
		}
		if r.SentenceIndex > info.Sentences {
			info.Sentences = r.SentenceIndex
		}
	}
	return out
}

// Contents is the overview of what the corpus holds.
type Contents struct {
	Documents []string `json:"documents"` // sorted ids
	Tokens    int      `json:"tokens"`
	Words     int      `json:"words"`
}

// Contents returns the sorted document ids with token and word totals.
func (c *Corpus) Contents() Contents {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := Contents{
		Documents: make([]string, 0, len(c.docs)),
		Tokens:    len(c.records),
	}
	for id := range c.docs {
		out.Documents = append(out.Documents, id)
	}
	sort.Strings(out.Documents)
	for _, r := range c.records {
		if r.IsWord() {
			out.Words++
		}
	}
	return out
}

// NextTextID returns the first id of the form "<prefix> N" (N from 1)
// that no stored document uses.
func (c *Corpus) NextTextID(prefix string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nextTextID(prefix)
}

// nextTextID requires c.mu to be held.
func (c *Corpus) nextTextID(prefix string) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s %d", prefix, n)
		if _, ok := c.docs[id]; !ok {
			return id
		}
	}
}

// IngestNew ingests text under the next free "<prefix> N" id and returns
// that id. The id is chosen under the write lock, so concurrent calls
// never collide.
func (c *Corpus) IngestNew(prefix, text string) (string, int, error) {
	doc := ingest.Doc{ID: prefix, Text: text}
	if err := doc.Validate(); err != nil {
		return "", 0, err
	}

	run, err := c.annotate(prefix, text)
	if err != nil {
		return "", 0, err
	}
	if len(run) == 0 {
		return c.NextTextID(prefix), 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextTextID(prefix)
	for i := range run {
		run[i].DocumentID = id
	}
	c.records = append(c.records, run...)
	c.docs[id] = struct{}{}
	return id, len(run), nil
}

// Restore replaces the whole record sequence with records. The input is
// validated first: every record must be well formed, each document must
// form one contiguous run and positions must increase within it. On error
// the corpus is left unchanged and the error is a *internalerr.FormatError.
func (c *Corpus) Restore(records []TokenRecord) error {
	docs, err := validateSequence(records)
	if err != nil {
		return err
	}

	next := make([]TokenRecord, len(records))
	copy(next, records)

	c.mu.Lock()
	c.records = next
	c.docs = docs
	c.mu.Unlock()
	return nil
}

func validateSequence(records []TokenRecord) (map[string]struct{}, error) {
	docs := make(map[string]struct{})
	for i, r := range records {
		if field, reason := r.check(); reason != "" {
			return nil, &internalerr.FormatError{Index: i, Field: field, Reason: reason}
		}
		if i > 0 && records[i-1].DocumentID == r.DocumentID {
			if !records[i-1].before(r) {
				return nil, &internalerr.FormatError{
					Index:  i,
					Field:  "token_index",
					Reason: fmt.Sprintf("position %d.%d does not follow %d.%d", r.SentenceIndex, r.TokenIndex, records[i-1].SentenceIndex, records[i-1].TokenIndex),
				}
			}
			continue
		}
		if _, seen := docs[r.DocumentID]; seen {
			return nil, &internalerr.FormatError{
				Index:  i,
				Field:  "document_id",
				Reason: fmt.Sprintf("records of document %q are not contiguous", r.DocumentID),
			}
		}
		docs[r.DocumentID] = struct{}{}
	}
	return docs, nil
}
