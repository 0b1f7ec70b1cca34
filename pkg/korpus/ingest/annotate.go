package ingest

import (
	"strings"
	"unicode"

	"github.com/cognicore/korpus/pkg/korpus/lexicon"
)

// Annotation is the tag and lemma an annotator assigns to one token.
type Annotation struct {
	Tag   string
	Lemma string
}

// Annotator assigns part-of-speech tags and lemmas to the tokens of one
// sentence. Implementations must be deterministic for a given input and
// return one annotation per token.
type Annotator interface {
	Annotate(words []string) []Annotation
}

// Segmenter splits text into sentences and sentences into tokens.
type Segmenter interface {
	Sentences(text string) []string
	Words(sentence string) []string
}

// Lemmatizer maps a token and its tag to a lemma using an irregular-form
// lexicon and part-of-speech directed suffix rules.
type Lemmatizer struct {
	lex *lexicon.Lexicon
}

// NewLemmatizer creates a lemmatizer. A nil lexicon selects lexicon.Default().
func NewLemmatizer(lex *lexicon.Lexicon) *Lemmatizer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Lemmatizer{lex: lex}
}

// Lemmatize returns the lemma of word under the given Penn Treebank tag.
func (l *Lemmatizer) Lemmatize(word, tag string) string {
	lower := strings.ToLower(word)
	if !hasLetter(lower) {
		return lower
	}
	if lemma, ok := l.lex.Lemma(lower); ok {
		return lemma
	}

	switch wordClass(tag) {
	case classVerb:
		return verbLemma(lower, tag)
	case classAdjective:
		return adjectiveLemma(lower, tag)
	case classAdverb:
		return lower
	default:
		return nounLemma(lower, tag)
	}
}

type class int

const (
	classNoun class = iota
	classVerb
	classAdjective
	classAdverb
)

// wordClass collapses a treebank tag into the four lemmatizer classes;
// anything unrecognised is handled as a noun.
func wordClass(tag string) class {
	switch {
	case strings.HasPrefix(tag, "J"):
		return classAdjective
	case strings.HasPrefix(tag, "V"):
		return classVerb
	case strings.HasPrefix(tag, "R"):
		return classAdverb
	default:
		return classNoun
	}
}

// String returns the WordNet part-of-speech letter of the class.
func (c class) String() string {
	switch c {
	case classVerb:
		return "v"
	case classAdjective:
		return "a"
	case classAdverb:
		return "r"
	default:
		return "n"
	}
}

// WordClass returns the WordNet class ("n", "v", "a" or "r") that the
// lemmatizer uses for a treebank tag.
func WordClass(tag string) string {
	return wordClass(tag).String()
}

func nounLemma(w, tag string) string {
	if tag != "" && tag != "NNS" && tag != "NNPS" {
		return w
	}
	n := len(w)
	switch {
	case n > 4 && strings.HasSuffix(w, "ies"):
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "sses"):
		return w[:n-2]
	case n > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes")):
		return w[:n-2]
	case n > 3 && (strings.HasSuffix(w, "xes") || strings.HasSuffix(w, "zes")):
		return w[:n-2]
	case n > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:n-1]
	}
	return w
}

func verbLemma(w, tag string) string {
	n := len(w)
	switch tag {
	case "VBZ":
		switch {
		case n > 4 && strings.HasSuffix(w, "ies"):
			return w[:n-3] + "y"
		case n > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") ||
			strings.HasSuffix(w, "sses") || strings.HasSuffix(w, "xes") || strings.HasSuffix(w, "zes")):
			return w[:n-2]
		case n > 2 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
			return w[:n-1]
		}
	case "VBG":
		if n > 4 && strings.HasSuffix(w, "ing") {
			return restoreStem(w[:n-3])
		}
	case "VBD", "VBN":
		switch {
		case n > 4 && strings.HasSuffix(w, "ied"):
			return w[:n-3] + "y"
		case n > 3 && strings.HasSuffix(w, "eed"):
			return w
		case n > 3 && strings.HasSuffix(w, "ed"):
			return restoreStem(w[:n-2])
		}
	}
	return w
}

func adjectiveLemma(w, tag string) string {
	n := len(w)
	var stem string
	switch {
	case tag == "JJR" && n > 4 && strings.HasSuffix(w, "er"):
		stem = w[:n-2]
	case tag == "JJS" && n > 5 && strings.HasSuffix(w, "est"):
		stem = w[:n-3]
	default:
		return w
	}
	if strings.HasSuffix(stem, "i") {
		return stem[:len(stem)-1] + "y"
	}
	return undouble(stem)
}

// restoreStem repairs a stem after an -ing/-ed suffix was removed:
// "runn" → "run", "mak" → "make".
func restoreStem(stem string) string {
	if u := undouble(stem); u != stem {
		return u
	}
	r := []rune(stem)
	if len(r) == 3 && !isVowel(r[0]) && isVowel(r[1]) && !isVowel(r[2]) && !strings.ContainsRune("wxy", r[2]) {
		return stem + "e"
	}
	return stem
}

func undouble(stem string) string {
	r := []rune(stem)
	n := len(r)
	if n >= 3 && r[n-1] == r[n-2] && !isVowel(r[n-1]) && !strings.ContainsRune("lsz", r[n-1]) {
		return string(r[:n-1])
	}
	return stem
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
