// Package analysis produces a per-sentence report of a text without adding
// it to a corpus: every token with its tag, WordNet class and lemma, and a
// lexicon based sentiment score for the sentence.
package analysis

import (
	"fmt"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/cognicore/korpus/pkg/korpus/ingest"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// Compound scores at or beyond this magnitude count as polar.
const polarThreshold = 0.05

// Polarity labels.
const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"
)

// Token is one analysed token.
type Token struct {
	Text  string `json:"text"`
	Tag   string `json:"tag"`
	Class string `json:"class"`
	Lemma string `json:"lemma"`
}

// Sentiment holds the VADER scores of one sentence. Positive, Neutral and
// Negative are proportions summing to about 1; Compound is normalised to
// [-1, 1].
type Sentiment struct {
	Positive float64 `json:"pos"`
	Neutral  float64 `json:"neu"`
	Negative float64 `json:"neg"`
	Compound float64 `json:"compound"`
	Label    string  `json:"label"`
}

// Sentence is the analysis of one sentence. Index starts at 1.
type Sentence struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Tokens    []Token   `json:"tokens"`
	Sentiment Sentiment `json:"sentiment"`
}

// Report is the analysis of a whole text.
type Report struct {
	Sentences []Sentence `json:"sentences"`
}

// Analyzer runs the annotation pipeline and a sentiment lexicon over text.
// It is safe for concurrent use.
type Analyzer struct {
	pipeline  *ingest.Pipeline
	sentiment *govader.SentimentIntensityAnalyzer
}

// New creates an analyzer. A nil pipeline selects the rule-based default.
func New(pipeline *ingest.Pipeline) *Analyzer {
	if pipeline == nil {
		pipeline = ingest.NewPipeline(nil, nil)
	}
	return &Analyzer{
		pipeline:  pipeline,
		sentiment: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Analyze builds the report for text. Blank text is rejected with
// ErrInvalidInput and text without any token with ErrNoWordsFound.
func (a *Analyzer) Analyze(text string) (Report, error) {
	if strings.TrimSpace(text) == "" {
		return Report{}, fmt.Errorf("%w: text is empty", internalerr.ErrInvalidInput)
	}

	sentences := a.pipeline.Process(text)
	if len(sentences) == 0 {
		return Report{}, internalerr.ErrNoWordsFound
	}

	report := Report{Sentences: make([]Sentence, 0, len(sentences))}
	for i, s := range sentences {
		tokens := make([]Token, len(s.Tokens))
		for j, tok := range s.Tokens {
			tokens[j] = Token{
				Text:  tok.Text,
				Tag:   tok.Tag,
				Class: ingest.WordClass(tok.Tag),
				Lemma: tok.Lemma,
			}
		}
		report.Sentences = append(report.Sentences, Sentence{
			Index:     i + 1,
			Text:      s.Text,
			Tokens:    tokens,
			Sentiment: a.score(s.Text),
		})
	}
	return report, nil
}

func (a *Analyzer) score(sentence string) Sentiment {
	scores := a.sentiment.PolarityScores(sentence)
	return Sentiment{
		Positive: scores.Positive,
		Neutral:  scores.Neutral,
		Negative: scores.Negative,
		Compound: scores.Compound,
		Label:    Label(scores.Compound),
	}
}

// Label classifies a compound score.
func Label(compound float64) string {
	switch {
	case compound >= polarThreshold:
		return Positive
	case compound <= -polarThreshold:
		return Negative
	default:
		return Neutral
	}
}
