package dictionary

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

func buildSample(t *testing.T) *Dictionary {
	t.Helper()
	d, err := Build(nil, "The cat saw the Cat. 2 dogs!")
	require.NoError(t, err)
	return d
}

func TestBuild(t *testing.T) {
	d := buildSample(t)

	assert.Equal(t, 4, d.Len())
	e, ok := d.Get("CAT")
	require.True(t, ok)
	assert.Equal(t, Entry{Frequency: 2}, e)

	_, ok = d.Get("2")
	assert.False(t, ok)
}

func TestBuildNoWords(t *testing.T) {
	_, err := Build(nil, "123 !! ...")
	assert.ErrorIs(t, err, internalerr.ErrNoWordsFound)
}

func TestWords(t *testing.T) {
	d := buildSample(t)

	var all []string
	for _, w := range d.Words("") {
		all = append(all, w.Word)
	}
	assert.Equal(t, []string{"cat", "dogs", "saw", "the"}, all)

	filtered := d.Words(" A ")
	require.Len(t, filtered, 2)
	assert.Equal(t, "cat", filtered[0].Word)
	assert.Equal(t, 2, filtered[0].Frequency)
	assert.Equal(t, "saw", filtered[1].Word)

	assert.Empty(t, d.Words("xyz"))
}

func TestSetMorphology(t *testing.T) {
	d := buildSample(t)

	changed, err := d.SetMorphology("Cat", "  noun, singular  ")
	require.NoError(t, err)
	assert.True(t, changed)

	e, _ := d.Get("cat")
	assert.Equal(t, "noun, singular", e.Morphology)
	assert.Equal(t, 2, e.Frequency)

	changed, err = d.SetMorphology("cat", "noun, singular")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = d.SetMorphology("wolf", "noun")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestSaveSortsKeys(t *testing.T) {
	d := buildSample(t)
	_, err := d.SetMorphology("dogs", "noun, plural")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))
	out := buf.String()

	positions := []int{
		strings.Index(out, `"cat"`),
		strings.Index(out, `"dogs"`),
		strings.Index(out, `"saw"`),
		strings.Index(out, `"the"`),
	}
	for i := 1; i < len(positions); i++ {
		assert.Less(t, positions[i-1], positions[i])
	}
	assert.Contains(t, out, `"morphology": "noun, plural"`)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := buildSample(t)
	_, err := d.SetMorphology("saw", "verb, past")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))

	loaded := New()
	require.NoError(t, loaded.Load(&buf))
	assert.Equal(t, d.Words(""), loaded.Words(""))
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"array", `[]`, ""},
		{"malformed", `{"cat": {`, ""},
		{"entry not object", `{"cat": 3}`, ""},
		{"missing frequency", `{"cat": {"morphology": ""}}`, "frequency"},
		{"missing morphology", `{"cat": {"frequency": 1}}`, "morphology"},
		{"string frequency", `{"cat": {"frequency": "1", "morphology": ""}}`, "frequency"},
		{"fractional frequency", `{"cat": {"frequency": 1.5, "morphology": ""}}`, "frequency"},
		{"negative frequency", `{"cat": {"frequency": -1, "morphology": ""}}`, "frequency"},
		{"null morphology", `{"cat": {"frequency": 1, "morphology": null}}`, "morphology"},
		{"numeric morphology", `{"cat": {"frequency": 1, "morphology": 5}}`, "morphology"},
		{"one bad entry", `{"ant": {"frequency": 1, "morphology": ""}, "cat": {"frequency": 1}}`, "morphology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := buildSample(t)
			before := d.Words("")

			err := d.Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, internalerr.ErrFormat)

			var fe *internalerr.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)

			assert.Equal(t, before, d.Words(""), "dictionary must be unchanged")
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	d := buildSample(t)

	require.NoError(t, d.SaveFile(path))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, d.Words(""), loaded.Words(""))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
