// Package prosenlp tags tokens with the averaged perceptron model shipped
// in github.com/jdkato/prose.
package prosenlp

import (
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"

	"github.com/cognicore/korpus/pkg/korpus/ingest"
)

// Annotator implements ingest.Annotator on top of the prose tagger.
// Sentences the prose tokenizer splits differently from the segmenter are
// annotated by the fallback instead, so the result always aligns with the
// input tokens.
type Annotator struct {
	lemmatizer *ingest.Lemmatizer
	fallback   ingest.Annotator

	mu sync.Mutex // prose documents share the package level model
}

// New creates a prose annotator. A nil lemmatizer selects
// ingest.NewLemmatizer(nil).
func New(lem *ingest.Lemmatizer) *Annotator {
	if lem == nil {
		lem = ingest.NewLemmatizer(nil)
	}
	return &Annotator{
		lemmatizer: lem,
		fallback:   ingest.NewRuleTagger(lem),
	}
}

// Annotate implements ingest.Annotator.
func (a *Annotator) Annotate(words []string) []ingest.Annotation {
	if len(words) == 0 {
		return nil
	}

	tags, ok := a.tag(words)
	if !ok {
		return a.fallback.Annotate(words)
	}

	out := make([]ingest.Annotation, len(words))
	for i, w := range words {
		out[i] = ingest.Annotation{Tag: tags[i], Lemma: a.lemmatizer.Lemmatize(w, tags[i])}
	}
	return out
}

func (a *Annotator) tag(words []string) ([]string, bool) {
	a.mu.Lock()
	doc, err := prose.NewDocument(strings.Join(words, " "),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	a.mu.Unlock()
	if err != nil {
		return nil, false
	}

	toks := doc.Tokens()
	if len(toks) != len(words) {
		return nil, false
	}
	tags := make([]string, len(toks))
	for i, tok := range toks {
		if tok.Text != words[i] || tok.Tag == "" {
			return nil, false
		}
		tags[i] = tok.Tag
	}
	return tags, true
}
