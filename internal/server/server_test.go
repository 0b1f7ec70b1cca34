package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/pkg/korpus"
	"github.com/cognicore/korpus/pkg/korpus/analysis"
	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
	"github.com/cognicore/korpus/pkg/korpus/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	k := korpus.New(korpus.DefaultOptions())
	ts := httptest.NewServer(New(k, nil))
	t.Cleanup(func() {
		ts.Close()
		k.Close()
	})
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))
}

func TestAddAndListDocuments(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d1","text":"The cat sat."}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"id":"d1","tokens":4}`, string(body))

	resp, body = do(t, http.MethodPost, ts.URL+"/documents", `{"text":"Untitled text."}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"Text 1","tokens":3}`, string(body))

	resp, body = do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d1","text":"Again."}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "duplicate")

	resp, _ = do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d2","text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/documents", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/documents", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var docs documentsResponse
	require.NoError(t, json.Unmarshal(body, &docs))
	assert.Equal(t, []string{"Text 1", "d1"}, docs.Contents.Documents)
	require.Len(t, docs.Documents, 2)
	assert.Equal(t, "d1", docs.Documents[0].ID)
}

func TestAddDocumentsConcurrentlyWithoutID(t *testing.T) {
	ts := newTestServer(t)

	const n = 8
	type result struct {
		status int
		id     string
		err    error
	}
	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/documents", "application/json", strings.NewReader(`{"text":"Some text."}`))
			if err != nil {
				results <- result{err: err}
				return
			}
			defer resp.Body.Close()
			var out struct {
				ID string `json:"id"`
			}
			err = json.NewDecoder(resp.Body).Decode(&out)
			results <- result{status: resp.StatusCode, id: out.ID, err: err}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for r := range results {
		require.NoError(t, r.err)
		assert.Equal(t, http.StatusCreated, r.status)
		seen[r.id] = true
	}
	assert.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("Text %d", i)], "Text %d", i)
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := do(t, http.MethodGet, ts.URL+"/stats", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d","text":"A cat. A dog. A cat."}`)

	resp, body := do(t, http.MethodGet, ts.URL+"/stats?top=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report corpus.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 6, report.Words)
	assert.Equal(t, 3, report.Tokens.Unique)
	require.Len(t, report.Tokens.Entries, 1)
	assert.Equal(t, "a", report.Tokens.Entries[0].Value)

	resp, _ = do(t, http.MethodGet, ts.URL+"/stats?top=x", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConcordance(t *testing.T) {
	ts := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d","text":"one two three four five."}`)

	resp, body := do(t, http.MethodGet, ts.URL+"/concordance?q=three&window=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var matches []matchResponse
	require.NoError(t, json.Unmarshal(body, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "[d, sentence 1]: ...two **three** four...", matches[0].Text)
	assert.Equal(t, []string{"three"}, matches[0].Phrase)

	resp, body = do(t, http.MethodGet, ts.URL+"/concordance?q=absent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = do(t, http.MethodGet, ts.URL+"/concordance?q=%2C", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/concordance?q=three&window=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWord(t *testing.T) {
	ts := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d","text":"Cat and cat."}`)

	resp, body := do(t, http.MethodGet, ts.URL+"/words/Cat", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recs []corpus.TokenRecord
	require.NoError(t, json.Unmarshal(body, &recs))
	assert.Len(t, recs, 2)

	resp, body = do(t, http.MethodGet, ts.URL+"/words/dog", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/analyze?text="+url.QueryEscape("He met Alice. I love it!"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var report analysis.Report
	require.NoError(t, json.Unmarshal(body, &report))
	require.Len(t, report.Sentences, 2)
	assert.Equal(t, analysis.Token{Text: "met", Tag: "VBD", Class: "v", Lemma: "meet"}, report.Sentences[0].Tokens[1])
	assert.Equal(t, analysis.Positive, report.Sentences[1].Sentiment.Label)

	resp, body = do(t, http.MethodPost, ts.URL+"/analyze", `{"text":"This is terrible."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &report))
	require.Len(t, report.Sentences, 1)
	assert.Equal(t, analysis.Negative, report.Sentences[0].Sentiment.Label)

	resp, _ = do(t, http.MethodGet, ts.URL+"/analyze", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/documents", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var docs documentsResponse
	require.NoError(t, json.Unmarshal(body, &docs))
	assert.Zero(t, docs.Contents.Tokens)
}

func TestSnapshots(t *testing.T) {
	ts := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d1","text":"Saved text."}`)

	resp, body := do(t, http.MethodPost, ts.URL+"/snapshots", `{"name":"first"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var info store.SnapshotInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "first", info.Name)
	assert.Equal(t, 3, info.Records)

	resp, _ = do(t, http.MethodPost, ts.URL+"/snapshots", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/snapshots", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []store.SnapshotInfo
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, info.ID, list[1].ID)

	do(t, http.MethodPost, ts.URL+"/documents", `{"id":"d2","text":"Lost text."}`)

	resp, body = do(t, http.MethodPost, ts.URL+"/snapshots/"+info.ID+"/restore", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"records":3}`, string(body))

	resp, body = do(t, http.MethodGet, ts.URL+"/documents", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"documents":["d1"]`)

	resp, _ = do(t, http.MethodPost, ts.URL+"/snapshots/latest/restore", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/snapshots/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/snapshots/"+info.ID+"/restore", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, http.MethodPut, ts.URL+"/documents", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", internalerr.ErrDuplicateDocument), http.StatusConflict},
		{internalerr.ErrNotFound, http.StatusNotFound},
		{internalerr.ErrEmptyCorpus, http.StatusUnprocessableEntity},
		{internalerr.ErrNoWordsFound, http.StatusUnprocessableEntity},
		{internalerr.ErrEmptyQuery, http.StatusBadRequest},
		{internalerr.ErrInvalidInput, http.StatusBadRequest},
		{&internalerr.FormatError{Index: 1, Field: "lemma", Reason: "missing"}, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}

func TestRunShutsDown(t *testing.T) {
	k := korpus.New(korpus.DefaultOptions())
	defer k.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(k, nil).Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
