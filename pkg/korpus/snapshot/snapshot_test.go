package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

func sampleCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c := corpus.New(nil)
	_, err := c.Ingest("d1", "The quick brown fox jumps. It lands <safely> & well!")
	require.NoError(t, err)
	_, err = c.Ingest("Текст 1", "Ещё один документ.")
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	src := sampleCorpus(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src.Records()))
	assert.Contains(t, buf.String(), `"surface_form": "<"`)
	assert.Contains(t, buf.String(), `"sentence_index": 2`)

	records, err := Decode(&buf)
	require.NoError(t, err)

	dst := corpus.New(nil)
	require.NoError(t, dst.Restore(records))
	assert.Equal(t, src.Records(), dst.Records())
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

	records, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeRejects(t *testing.T) {
	valid := `"surface_form":"a","normalized_form":"a","pos_tag":"DT","lemma":"a","document_id":"d1"`

	tests := []struct {
		name  string
		input string
		index int
		field string
	}{
		{"object at top level", `{"surface_form":"a"}`, -1, ""},
		{"string at top level", `"corpus"`, -1, ""},
		{"empty input", ``, -1, ""},
		{"truncated array", `[{"surface_form":"a"`, -1, ""},
		{"number element", `[1]`, 0, ""},
		{"null element", `[null]`, 0, ""},
		{"missing field", `[{` + valid + `,"sentence_index":1}]`, 0, "token_index"},
		{"missing string field", `[{"surface_form":"a","sentence_index":1,"token_index":1}]`, 0, "normalized_form"},
		{"string index", `[{` + valid + `,"sentence_index":"1","token_index":1}]`, 0, "sentence_index"},
		{"fractional index", `[{` + valid + `,"sentence_index":1,"token_index":1.5}]`, 0, "token_index"},
		{"null index", `[{` + valid + `,"sentence_index":null,"token_index":1}]`, 0, "sentence_index"},
		{"numeric surface", `[{"surface_form":7,"normalized_form":"a","pos_tag":"DT","lemma":"a","document_id":"d1","sentence_index":1,"token_index":1}]`, 0, "surface_form"},
		{"second element bad", `[{` + valid + `,"sentence_index":1,"token_index":1},{` + valid + `,"sentence_index":1}]`, 1, "token_index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, internalerr.ErrFormat)

			var fe *internalerr.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.index, fe.Index)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	input := `[{"surface_form":"Cat","normalized_form":"cat","pos_tag":"NN","lemma":"cat",
		"document_id":"d1","sentence_index":1,"token_index":1,"extra":true}]`

	records, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, corpus.TokenRecord{
		SurfaceForm:    "Cat",
		NormalizedForm: "cat",
		Tag:            "NN",
		Lemma:          "cat",
		DocumentID:     "d1",
		SentenceIndex:  1,
		TokenIndex:     1,
	}, records[0])
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")
	src := sampleCorpus(t)

	require.NoError(t, WriteFile(path, src.Records()))

	// Overwrite keeps a single file and no temp leftovers.
	require.NoError(t, WriteFile(path, src.Records()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "corpus.json", entries[0].Name())

	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Records(), records)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
