package ingest

import "strings"

// Pipeline orchestrates the annotation flow:
// text → sentences → tokens → tags and lemmas
type Pipeline struct {
	segmenter Segmenter
	annotator Annotator
}

// NewPipeline creates a pipeline. Nil components select the rule-based
// Tokenizer and RuleTagger.
func NewPipeline(segmenter Segmenter, annotator Annotator) *Pipeline {
	if segmenter == nil {
		segmenter = NewTokenizer()
	}
	if annotator == nil {
		annotator = NewRuleTagger(nil)
	}
	return &Pipeline{
		segmenter: segmenter,
		annotator: annotator,
	}
}

// Token is one annotated token of a processed sentence.
type Token struct {
	Text  string
	Tag   string
	Lemma string
}

// Sentence is the ordered token list of one non-empty sentence together
// with the sentence text it was split from.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Process splits text into annotated sentences. Sentences without tokens
// are dropped, so the result only holds non-empty sentences.
func (p *Pipeline) Process(text string) []Sentence {
	var out []Sentence
	for _, raw := range p.segmenter.Sentences(text) {
		words := p.segmenter.Words(raw)
		if len(words) == 0 {
			continue
		}

		anns := p.annotator.Annotate(words)
		tokens := make([]Token, len(words))
		for i, w := range words {
			var ann Annotation
			if i < len(anns) {
				ann = anns[i]
			}
			if ann.Lemma == "" {
				ann.Lemma = strings.ToLower(w)
			}
			tokens[i] = Token{Text: w, Tag: ann.Tag, Lemma: ann.Lemma}
		}
		out = append(out, Sentence{Text: strings.TrimSpace(raw), Tokens: tokens})
	}
	return out
}

// Words tokenizes text across all of its sentences without annotating.
func (p *Pipeline) Words(text string) []string {
	var out []string
	for _, raw := range p.segmenter.Sentences(text) {
		out = append(out, p.segmenter.Words(raw)...)
	}
	return out
}

// QueryTerms returns the lowercased alphabetic words of text, in order.
func (p *Pipeline) QueryTerms(text string) []string {
	var out []string
	for _, w := range p.Words(text) {
		if IsWord(w) {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}
