package ingest

import (
	"strings"
	"unicode"
)

// RuleTagger is a deterministic Penn Treebank tagger built from a
// closed-class word list, suffix heuristics and one pass of contextual
// corrections. It is the default annotator and needs no model files.
type RuleTagger struct {
	lemmatizer *Lemmatizer
}

// NewRuleTagger creates a tagger that lemmatizes with lem.
// A nil lemmatizer selects NewLemmatizer(nil).
func NewRuleTagger(lem *Lemmatizer) *RuleTagger {
	if lem == nil {
		lem = NewLemmatizer(nil)
	}
	return &RuleTagger{lemmatizer: lem}
}

// Annotate implements Annotator.
func (t *RuleTagger) Annotate(words []string) []Annotation {
	tags := t.Tag(words)
	out := make([]Annotation, len(words))
	for i, w := range words {
		out[i] = Annotation{Tag: tags[i], Lemma: t.lemmatizer.Lemmatize(w, tags[i])}
	}
	return out
}

// Tag returns one tag per word.
func (t *RuleTagger) Tag(words []string) []string {
	tags := make([]string, len(words))

	// Pass 1: lexicon and suffix baseline
	for i, w := range words {
		tags[i] = baselineTag(w, i == 0)
	}

	// Pass 2: context corrections
	for i := 1; i < len(tags); i++ {
		prev := tags[i-1]
		prevWord := strings.ToLower(words[i-1])
		cur := tags[i]

		switch {
		// "the [run]", "a quick [attack]"
		case (prev == "DT" || prev == "PRP$" || prev == "JJ") && (cur == "VB" || cur == "VBP"):
			tags[i] = "NN"
		// "can [run]", "to [walk]"
		case (prev == "MD" || prev == "TO") && (cur == "NN" || cur == "VBP" || cur == "JJ"):
			tags[i] = "VB"
		// "he [jumps]"
		case prev == "PRP" && cur == "NNS" && isThirdPerson(prevWord):
			tags[i] = "VBZ"
		// "he [left]", "it [cost]", "I [met]"
		case prev == "PRP" && cur == "NN" && t.pastAfterSubject(prevWord, strings.ToLower(words[i])):
			tags[i] = "VBD"
		// "they [jump]"
		case prev == "PRP" && cur == "NN" && !isThirdPerson(prevWord) && isSubjectPronoun(prevWord):
			tags[i] = "VBP"
		// "has [walked]", "was [seen]"
		case cur == "VBD" && isAuxiliary(prevWord):
			tags[i] = "VBN"
		}
	}

	return tags
}

// pastAfterSubject reports whether word, following the subject pronoun,
// reads as a simple past verb. Irregular forms come from the lexicon. A
// bare base form after he/she/it cannot be present tense, so a lexicon
// base such as "cost" or "put" is taken as past too.
func (t *RuleTagger) pastAfterSubject(pronoun, word string) bool {
	third := isThirdPerson(pronoun)
	if !third && !isSubjectPronoun(pronoun) {
		return false
	}
	lemma, ok := t.lemmatizer.lex.Lemma(word)
	if !ok {
		return false
	}
	return lemma != word || third
}

func baselineTag(word string, sentenceStart bool) string {
	if word == "" {
		return "SYM"
	}
	if tag, ok := punctuationTag(word); ok {
		return tag
	}
	if isNumber(word) {
		return "CD"
	}

	lower := strings.ToLower(word)
	if tag, ok := closedClass[lower]; ok {
		return tag
	}

	first := []rune(word)[0]
	if unicode.IsUpper(first) && !sentenceStart {
		if strings.HasSuffix(lower, "s") && len(lower) > 3 && isAllUpperInitials(word) {
			return "NNPS"
		}
		return "NNP"
	}

	return suffixTag(lower)
}

func suffixTag(w string) string {
	n := len(w)
	switch {
	case n > 3 && strings.HasSuffix(w, "ly"):
		return "RB"
	case n > 4 && strings.HasSuffix(w, "ing"):
		return "VBG"
	case n > 3 && strings.HasSuffix(w, "ed"):
		return "VBD"
	case n > 4 && strings.HasSuffix(w, "est"):
		return "JJS"
	}
	for _, suf := range adjectiveSuffixes {
		if n > len(suf)+1 && strings.HasSuffix(w, suf) {
			return "JJ"
		}
	}
	for _, suf := range nounSuffixes {
		if n > len(suf)+1 && strings.HasSuffix(w, suf) {
			return "NN"
		}
	}
	if n > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") &&
		!strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is") {
		return "NNS"
	}
	return "NN"
}

var adjectiveSuffixes = []string{"ous", "ful", "able", "ible", "ive", "less", "ish", "ic", "al", "ary"}

var nounSuffixes = []string{"tion", "sion", "ment", "ness", "ity", "ism", "ist", "ance", "ence", "ship", "hood"}

func punctuationTag(w string) (string, bool) {
	if w == "" || hasLetterOrDigit(w) {
		return "", false
	}
	switch w {
	case ".", "!", "?", "…", "?!", "!!", "??":
		return ".", true
	case ",":
		return ",", true
	case ":", ";", "...", "-", "--", "—", "–":
		return ":", true
	case "(", "[", "{":
		return "(", true
	case ")", "]", "}":
		return ")", true
	case "\"", "''", "”", "’", "'":
		return "''", true
	case "``", "“", "‘":
		return "``", true
	case "$", "€", "£":
		return "$", true
	case "#":
		return "#", true
	}
	return "SYM", true
}

func isNumber(w string) bool {
	digits := 0
	for _, r := range w {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',':
		default:
			return false
		}
	}
	return digits > 0
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isAllUpperInitials(w string) bool {
	r := []rune(w)
	return len(r) > 1 && unicode.IsUpper(r[0]) && unicode.IsUpper(r[1])
}

func isThirdPerson(w string) bool {
	return w == "he" || w == "she" || w == "it"
}

func isSubjectPronoun(w string) bool {
	switch w {
	case "i", "you", "we", "they":
		return true
	}
	return false
}

func isAuxiliary(w string) bool {
	switch w {
	case "has", "have", "had", "'ve", "is", "are", "was", "were", "be", "been", "being", "'s", "'re", "am", "'m":
		return true
	}
	return false
}

var closedClass = map[string]string{
	// determiners
	"the": "DT", "a": "DT", "an": "DT", "this": "DT", "that": "DT", "these": "DT", "those": "DT",
	"every": "DT", "each": "DT", "some": "DT", "any": "DT", "no": "DT", "all": "DT", "both": "DT",
	"another": "DT", "either": "DT", "neither": "DT",
	// prepositions and subordinators
	"in": "IN", "on": "IN", "at": "IN", "of": "IN", "for": "IN", "with": "IN", "by": "IN", "from": "IN",
	"about": "IN", "into": "IN", "over": "IN", "under": "IN", "between": "IN", "through": "IN",
	"during": "IN", "before": "IN", "after": "IN", "above": "IN", "below": "IN", "since": "IN",
	"until": "IN", "without": "IN", "within": "IN", "among": "IN", "against": "IN", "because": "IN",
	"if": "IN", "while": "IN", "although": "IN", "though": "IN", "as": "IN", "than": "IN",
	"whether": "IN", "upon": "IN", "near": "IN", "per": "IN", "across": "IN", "toward": "IN", "towards": "IN",
	// conjunctions
	"and": "CC", "or": "CC", "but": "CC", "nor": "CC", "yet": "CC", "so": "CC", "plus": "CC",
	// pronouns
	"i": "PRP", "you": "PRP", "he": "PRP", "she": "PRP", "it": "PRP", "we": "PRP", "they": "PRP",
	"me": "PRP", "him": "PRP", "us": "PRP", "them": "PRP", "myself": "PRP", "yourself": "PRP",
	"himself": "PRP", "herself": "PRP", "itself": "PRP", "ourselves": "PRP", "themselves": "PRP",
	"my": "PRP$", "your": "PRP$", "his": "PRP$", "her": "PRP$", "its": "PRP$", "our": "PRP$", "their": "PRP$",
	// modals
	"can": "MD", "could": "MD", "will": "MD", "would": "MD", "shall": "MD", "should": "MD",
	"may": "MD", "might": "MD", "must": "MD", "wo": "MD", "ca": "MD", "'ll": "MD", "'d": "MD",
	"to": "TO",
	// wh-words
	"which": "WDT", "whatever": "WDT", "who": "WP", "whom": "WP", "what": "WP", "whose": "WP$",
	"when": "WRB", "where": "WRB", "why": "WRB", "how": "WRB",
	"there": "EX",
	// adverbs
	"not": "RB", "n't": "RB", "very": "RB", "also": "RB", "too": "RB", "just": "RB", "never": "RB",
	"always": "RB", "often": "RB", "here": "RB", "now": "RB", "then": "RB", "still": "RB",
	"already": "RB", "again": "RB", "soon": "RB", "quite": "RB", "rather": "RB", "only": "RB", "even": "RB",
	"more": "RBR", "less": "RBR", "most": "RBS", "least": "RBS",
	// auxiliaries
	"be": "VB", "am": "VBP", "are": "VBP", "is": "VBZ", "was": "VBD", "were": "VBD", "been": "VBN", "being": "VBG",
	"have": "VBP", "has": "VBZ", "had": "VBD", "having": "VBG",
	"do": "VBP", "does": "VBZ", "did": "VBD", "done": "VBN", "doing": "VBG",
	"'s": "POS", "'re": "VBP", "'m": "VBP", "'ve": "VBP",
	// interjections
	"oh": "UH", "wow": "UH", "hey": "UH", "ouch": "UH", "hello": "UH", "yes": "UH", "alas": "UH", "hmm": "UH",
	// number words
	"one": "CD", "two": "CD", "three": "CD", "four": "CD", "five": "CD", "six": "CD", "seven": "CD",
	"eight": "CD", "nine": "CD", "ten": "CD", "hundred": "CD", "thousand": "CD", "million": "CD",
	// common adjectives that the suffix rules miss
	"good": "JJ", "new": "JJ", "old": "JJ", "great": "JJ", "big": "JJ", "small": "JJ", "long": "JJ",
	"little": "JJ", "other": "JJ", "same": "JJ", "different": "JJ", "high": "JJ", "low": "JJ",
	"better": "JJR", "worse": "JJR", "best": "JJS", "worst": "JJS",
}
