package corpus

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// TokenRecord is one annotated token together with its position in the
// document it was read from. Records are values and never change after
// they are appended to a corpus.
type TokenRecord struct {
	SurfaceForm    string `json:"surface_form"`
	NormalizedForm string `json:"normalized_form"`
	Tag            string `json:"pos_tag"`
	Lemma          string `json:"lemma"`
	DocumentID     string `json:"document_id"`
	SentenceIndex  int    `json:"sentence_index"` // 1-based within the document
	TokenIndex     int    `json:"token_index"`    // 1-based within the sentence
}

// NewTokenRecord builds a record for surface at the given position.
// The normalized form is derived from surface.
func NewTokenRecord(documentID string, sentence, token int, surface, tag, lemma string) (TokenRecord, error) {
	r := TokenRecord{
		SurfaceForm:    surface,
		NormalizedForm: strings.ToLower(surface),
		Tag:            tag,
		Lemma:          lemma,
		DocumentID:     documentID,
		SentenceIndex:  sentence,
		TokenIndex:     token,
	}
	if field, reason := r.check(); reason != "" {
		return TokenRecord{}, fmt.Errorf("%w: %s %s", internalerr.ErrInvalidInput, field, reason)
	}
	return r, nil
}

// IsWord reports whether the surface form consists of letters only.
// Only word records take part in frequency statistics.
func (r TokenRecord) IsWord() bool {
	if r.SurfaceForm == "" {
		return false
	}
	for _, c := range r.SurfaceForm {
		if !unicode.IsLetter(c) {
			return false
		}
	}
	return true
}

// sameSentence reports whether both records belong to one sentence.
func (r TokenRecord) sameSentence(o TokenRecord) bool {
	return r.DocumentID == o.DocumentID && r.SentenceIndex == o.SentenceIndex
}

// before reports whether r precedes o in reading order.
func (r TokenRecord) before(o TokenRecord) bool {
	if r.SentenceIndex != o.SentenceIndex {
		return r.SentenceIndex < o.SentenceIndex
	}
	return r.TokenIndex < o.TokenIndex
}

func (r TokenRecord) check() (field, reason string) {
	switch {
	case r.SurfaceForm == "":
		return "surface_form", "is empty"
	case strings.TrimSpace(r.DocumentID) == "":
		return "document_id", "is empty"
	case r.SentenceIndex < 1:
		return "sentence_index", "must be at least 1"
	case r.TokenIndex < 1:
		return "token_index", "must be at least 1"
	case r.NormalizedForm != strings.ToLower(r.SurfaceForm):
		return "normalized_form", fmt.Sprintf("%q is not the lowercase of %q", r.NormalizedForm, r.SurfaceForm)
	}
	return "", ""
}
