package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

func foxCorpus(t *testing.T) *Corpus {
	t.Helper()
	c := New(nil)
	mustIngest(t, c, "d1", "The quick brown fox jumps")
	return c
}

// Property: phrase match with left and right context.
func TestConcordanceMatch(t *testing.T) {
	c := foxCorpus(t)

	matches, err := c.Concordance("brown fox", DefaultWindow)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "d1", m.DocumentID)
	assert.Equal(t, 1, m.SentenceIndex)
	assert.Equal(t, []string{"The", "quick"}, m.Left)
	assert.Equal(t, []string{"brown", "fox"}, m.Phrase)
	assert.Equal(t, []string{"jumps"}, m.Right)
	assert.Equal(t, "[d1, sentence 1]: ...The quick **brown fox** jumps...", m.String())
}

// Property: matching ignores case and keeps surface forms.
func TestConcordanceCaseInsensitive(t *testing.T) {
	c := foxCorpus(t)

	lower, err := c.Concordance("brown fox", DefaultWindow)
	require.NoError(t, err)
	upper, err := c.Concordance("BROWN Fox", DefaultWindow)
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
}

// Property: a phrase never spans two sentences.
func TestConcordanceSentenceBoundary(t *testing.T) {
	c := newStubCorpus()
	mustIngest(t, c, "d1", "the quick brown|fox jumps")

	recs := c.Records()
	require.Equal(t, "brown", recs[2].SurfaceForm)
	require.Equal(t, "fox", recs[3].SurfaceForm, "tokens must be adjacent in the flat sequence")

	matches, err := c.Concordance("brown fox", DefaultWindow)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// Context stops at the boundary as well.
	matches, err = c.Concordance("fox", DefaultWindow)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Left)
	assert.Equal(t, []string{"jumps"}, matches[0].Right)
}

func TestConcordanceDocumentBoundary(t *testing.T) {
	c := New(nil)
	mustIngest(t, c, "d1", "It was brown")
	mustIngest(t, c, "d2", "fox jumps")

	matches, err := c.Concordance("brown fox", DefaultWindow)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestConcordanceWindow(t *testing.T) {
	c := New(nil)
	mustIngest(t, c, "d1", "a b c d e f g h i j target k l m n o p q r s")

	matches, err := c.Concordance("target", DefaultWindow)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"d", "e", "f", "g", "h", "i", "j"}, matches[0].Left)
	assert.Equal(t, []string{"k", "l", "m", "n", "o", "p", "q"}, matches[0].Right)

	matches, err = c.Concordance("target", 2)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"i", "j"}, matches[0].Left)
	assert.Equal(t, []string{"k", "l"}, matches[0].Right)

	_, err = c.Concordance("target", -1)
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestConcordanceContextIncludesPunctuation(t *testing.T) {
	c := New(nil)
	mustIngest(t, c, "d1", "Well, the fox, surprisingly, ran.")

	matches, err := c.Concordance("fox", 2)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{",", "the"}, matches[0].Left)
	assert.Equal(t, []string{",", "surprisingly"}, matches[0].Right)
}

func TestConcordanceDeduplicatesAndSorts(t *testing.T) {
	c := New(nil)
	mustIngest(t, c, "b", "The fox saw a fox.")
	mustIngest(t, c, "a", "A fox sat.")

	// With no context both hits in "b" render identically.
	matches, err := c.Concordance("fox", 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "[a, sentence 1]: ... **fox** ...", matches[0].String())
	assert.Equal(t, "[b, sentence 1]: ... **fox** ...", matches[1].String())

	matches, err = c.Concordance("fox", DefaultWindow)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].String(), matches[i].String())
	}
}

func TestConcordanceQueryFiltering(t *testing.T) {
	c := foxCorpus(t)

	// Non-alphabetic query tokens are dropped before matching.
	matches, err := c.Concordance("brown, fox!", DefaultWindow)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	for _, q := range []string{"", "   ", "42 !!", "..."} {
		_, err := c.Concordance(q, DefaultWindow)
		assert.ErrorIs(t, err, internalerr.ErrEmptyQuery, "query %q", q)
	}
}

func TestConcordanceNoMatch(t *testing.T) {
	c := foxCorpus(t)

	matches, err := c.Concordance("lazy dog", DefaultWindow)
	require.NoError(t, err)
	assert.Empty(t, matches)

	empty := New(nil)
	matches, err = empty.Concordance("fox", DefaultWindow)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
