package corpus

import (
	"github.com/cognicore/korpus/pkg/korpus/analytics"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// Report holds the frequency statistics of a corpus. All three
// distributions are computed over word records only.
type Report struct {
	Documents int                    `json:"documents"`
	Words     int                    `json:"words"`
	Tokens    analytics.Distribution `json:"tokens"`
	Lemmas    analytics.Distribution `json:"lemmas"`
	Tags      analytics.Distribution `json:"tags"`
}

// Stats computes normalized-form, lemma and tag frequencies over the
// alphabetic records. It fails with ErrEmptyCorpus when nothing is stored
// and with ErrNoWordsFound when no record is a word.
func (c *Corpus) Stats() (Report, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.records) == 0 {
		return Report{}, internalerr.ErrEmptyCorpus
	}

	tokens := analytics.NewCounter()
	lemmas := analytics.NewCounter()
	tags := analytics.NewCounter()
	for _, r := range c.records {
		if !r.IsWord() {
			continue
		}
		tokens.Add(r.NormalizedForm)
		lemmas.Add(r.Lemma)
		tags.Add(r.Tag)
	}
	if tokens.Total() == 0 {
		return Report{}, internalerr.ErrNoWordsFound
	}

	return Report{
		Documents: len(c.docs),
		Words:     tokens.Total(),
		Tokens:    tokens.Distribution(),
		Lemmas:    lemmas.Distribution(),
		Tags:      tags.Distribution(),
	}, nil
}
