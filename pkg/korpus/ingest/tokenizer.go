package ingest

import (
	"strings"
	"unicode"
)

// Tokenizer splits raw text into sentences and sentences into word and
// punctuation tokens. Tokens keep their original case.
type Tokenizer struct {
	abbreviations map[string]struct{}
}

var defaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs", "etc",
	"e.g", "i.e", "cf", "inc", "ltd", "co", "corp", "no", "fig", "vol",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

// NewTokenizer creates a tokenizer with the default abbreviation list.
func NewTokenizer() *Tokenizer {
	t := &Tokenizer{abbreviations: make(map[string]struct{}, len(defaultAbbreviations))}
	for _, a := range defaultAbbreviations {
		t.abbreviations[a] = struct{}{}
	}
	return t
}

// AddAbbreviation registers a word (without its trailing period) whose
// period never ends a sentence.
func (t *Tokenizer) AddAbbreviation(abbr string) {
	abbr = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(abbr)), ".")
	if abbr != "" {
		t.abbreviations[abbr] = struct{}{}
	}
}

// Sentences splits text at terminal punctuation followed by whitespace and
// a token that can start a sentence, and at blank lines.
func (t *Tokenizer) Sentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0

	emit := func(end int) {
		s := strings.TrimSpace(string(rs[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '\n' && isParagraphBreak(rs, i) {
			emit(i)
			continue
		}
		if !isTerminal(r) {
			continue
		}

		// Absorb runs like "?!" or '."' into the boundary.
		j := i + 1
		for j < len(rs) && (isTerminal(rs[j]) || isCloser(rs[j])) {
			j++
		}
		if j < len(rs) && !unicode.IsSpace(rs[j]) {
			i = j - 1
			continue
		}

		k := j
		for k < len(rs) && unicode.IsSpace(rs[k]) {
			k++
		}
		if k < len(rs) && unicode.IsLower(rs[k]) {
			i = j - 1
			continue
		}
		if r == '.' && j == i+1 && t.endsWithAbbreviation(rs[start:i]) {
			i = j - 1
			continue
		}

		emit(j)
		i = j - 1
	}
	emit(len(rs))

	return out
}

// endsWithAbbreviation reports whether the text before a period ends with
// a known abbreviation or a single-letter initial.
func (t *Tokenizer) endsWithAbbreviation(before []rune) bool {
	b := len(before)
	for b > 0 && (isWordRune(before[b-1]) || before[b-1] == '.') {
		b--
	}
	word := before[b:]
	if len(word) == 0 {
		return false
	}
	if len(word) == 1 && unicode.IsUpper(word[0]) {
		return true
	}
	_, ok := t.abbreviations[strings.ToLower(string(word))]
	return ok
}

// Words splits a sentence into tokens. Letter/digit runs form words
// (internal hyphens and apostrophes kept, clitics such as "n't" and "'s"
// split off), repeated punctuation like "..." stays one token and every
// other symbol is a token of its own.
func (t *Tokenizer) Words(sentence string) []string {
	rs := []rune(sentence)
	var out []string

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			j := i + 1
			for j < len(rs) {
				c := rs[j]
				if isWordRune(c) {
					j++
					continue
				}
				if (c == '-' || isApostrophe(c)) && j+1 < len(rs) && isWordRune(rs[j+1]) {
					j++
					continue
				}
				if (c == '.' || c == ',') && unicode.IsDigit(rs[j-1]) && j+1 < len(rs) && unicode.IsDigit(rs[j+1]) {
					j++
					continue
				}
				break
			}
			out = append(out, splitClitics(rs[i:j])...)
			i = j
		default:
			j := i + 1
			for j < len(rs) && rs[j] == r {
				j++
			}
			out = append(out, string(rs[i:j]))
			i = j
		}
	}

	return out
}

var clitics = [][]rune{
	[]rune("n't"),
	[]rune("'s"),
	[]rune("'re"),
	[]rune("'ve"),
	[]rune("'ll"),
	[]rune("'d"),
	[]rune("'m"),
}

func splitClitics(word []rune) []string {
	for _, c := range clitics {
		if len(word) > len(c) && hasSuffixFold(word, c) {
			cut := len(word) - len(c)
			return []string{string(word[:cut]), string(word[cut:])}
		}
	}
	return []string{string(word)}
}

func hasSuffixFold(word, suffix []rune) bool {
	off := len(word) - len(suffix)
	for i, s := range suffix {
		w := unicode.ToLower(word[off+i])
		if isApostrophe(s) {
			if !isApostrophe(w) {
				return false
			}
			continue
		}
		if w != s {
			return false
		}
	}
	return true
}

// IsWord reports whether s consists of letters only.
func IsWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '»', '”', '’':
		return true
	}
	return false
}

func isParagraphBreak(rs []rune, i int) bool {
	for j := i + 1; j < len(rs); j++ {
		switch rs[j] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return false
}
