package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// DefaultWindow is the number of context tokens shown on each side of a
// concordance match.
const DefaultWindow = 7

// Match is one concordance hit. Left and Right hold at most window
// surface forms from the same sentence as the phrase.
type Match struct {
	DocumentID    string   `json:"document_id"`
	SentenceIndex int      `json:"sentence_index"`
	Left          []string `json:"left"`
	Phrase        []string `json:"phrase"`
	Right         []string `json:"right"`
}

// String renders the match as "[doc, sentence N]: ...left **phrase** right...".
func (m Match) String() string {
	return fmt.Sprintf("[%s, sentence %d]: ...%s **%s** %s...",
		m.DocumentID, m.SentenceIndex,
		strings.Join(m.Left, " "), strings.Join(m.Phrase, " "), strings.Join(m.Right, " "))
}

// Concordance finds every occurrence of query as a contiguous,
// case-insensitive phrase inside a single sentence. Only the alphabetic
// words of query are matched. Results are deduplicated and sorted by
// their rendered form; no match is an empty result, not an error.
func (c *Corpus) Concordance(query string, window int) ([]Match, error) {
	if window < 0 {
		return nil, fmt.Errorf("%w: negative window %d", internalerr.ErrInvalidInput, window)
	}
	terms := c.pipeline.QueryTerms(query)
	if len(terms) == 0 {
		return nil, internalerr.ErrEmptyQuery
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(terms)
	seen := make(map[string]struct{})
	var matches []Match
	var keys []string

	for i := 0; i+n <= len(c.records); i++ {
		if !c.matchesAt(i, terms) {
			continue
		}

		start, end := c.sentenceBounds(i, i+n)
		m := Match{
			DocumentID:    c.records[i].DocumentID,
			SentenceIndex: c.records[i].SentenceIndex,
			Left:          surfaces(c.records[max(start, i-window):i]),
			Phrase:        surfaces(c.records[i : i+n]),
			Right:         surfaces(c.records[i+n : min(end, i+n+window)]),
		}
		key := m.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		matches = append(matches, m)
		keys = append(keys, key)
	}

	sort.Sort(byRendered{matches: matches, keys: keys})
	return matches, nil
}

// matchesAt reports whether the records starting at i spell terms inside
// one sentence.
func (c *Corpus) matchesAt(i int, terms []string) bool {
	first := c.records[i]
	for j, term := range terms {
		r := c.records[i+j]
		if !r.sameSentence(first) || r.NormalizedForm != term {
			return false
		}
	}
	return true
}

// sentenceBounds widens [from, to) to the full sentence around it.
func (c *Corpus) sentenceBounds(from, to int) (start, end int) {
	ref := c.records[from]
	start, end = from, to
	for start > 0 && c.records[start-1].sameSentence(ref) {
		start--
	}
	for end < len(c.records) && c.records[end].sameSentence(ref) {
		end++
	}
	return start, end
}

func surfaces(records []TokenRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SurfaceForm
	}
	return out
}

func normalizeQuery(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

type byRendered struct {
	matches []Match
	keys    []string
}

func (b byRendered) Len() int           { return len(b.matches) }
func (b byRendered) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byRendered) Swap(i, j int) {
	b.matches[i], b.matches[j] = b.matches[j], b.matches[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
