// Package snapshot reads and writes whole-corpus snapshots as a JSON array
// of token records.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

var stringFields = []string{"surface_form", "normalized_form", "pos_tag", "lemma", "document_id"}

var intFields = []string{"sentence_index", "token_index"}

// Encode writes records to w as an indented JSON array.
func Encode(w io.Writer, records []corpus.TokenRecord) error {
	if records == nil {
		records = []corpus.TokenRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode. The input must be an array of
// objects carrying all record fields with the right JSON types; anything
// else yields a *internalerr.FormatError. Positional consistency is checked
// later by corpus.Corpus.Restore.
func Decode(r io.Reader) ([]corpus.TokenRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse is Decode over a byte slice.
func Parse(data []byte) ([]corpus.TokenRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, &internalerr.FormatError{Index: -1, Reason: "top level is not an array"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &internalerr.FormatError{Index: -1, Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	out := make([]corpus.TokenRecord, len(elems))
	for i, elem := range elems {
		rec, err := decodeRecord(i, elem)
		if err != nil {
			return nil, err
		}
		out[i] = rec
	}
	return out, nil
}

func decodeRecord(i int, elem json.RawMessage) (corpus.TokenRecord, error) {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 || elem[0] != '{' {
		return corpus.TokenRecord{}, &internalerr.FormatError{Index: i, Reason: "element is not an object"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return corpus.TokenRecord{}, &internalerr.FormatError{Index: i, Reason: err.Error()}
	}

	for _, name := range stringFields {
		if err := checkField(i, name, fields, '"', "must be a string"); err != nil {
			return corpus.TokenRecord{}, err
		}
	}
	for _, name := range intFields {
		if err := checkField(i, name, fields, 0, "must be an integer"); err != nil {
			return corpus.TokenRecord{}, err
		}
		var n int
		if err := json.Unmarshal(fields[name], &n); err != nil {
			return corpus.TokenRecord{}, &internalerr.FormatError{Index: i, Field: name, Reason: "must be an integer"}
		}
	}

	var rec corpus.TokenRecord
	if err := json.Unmarshal(elem, &rec); err != nil {
		return corpus.TokenRecord{}, &internalerr.FormatError{Index: i, Reason: err.Error()}
	}
	return rec, nil
}

// checkField verifies that name is present and non-null. A non-zero lead
// byte additionally pins the JSON type.
func checkField(i int, name string, fields map[string]json.RawMessage, lead byte, reason string) error {
	raw, ok := fields[name]
	if !ok {
		return &internalerr.FormatError{Index: i, Field: name, Reason: "missing"}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" || (lead != 0 && raw[0] != lead) {
		return &internalerr.FormatError{Index: i, Field: name, Reason: reason}
	}
	return nil
}

// WriteFile atomically replaces path with a snapshot of records.
func WriteFile(path string, records []corpus.TokenRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) ([]corpus.TokenRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
