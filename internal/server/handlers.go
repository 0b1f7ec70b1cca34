package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	WriteError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: body: %v", internalerr.ErrInvalidInput, err)
	}
	return nil
}

// health handles GET /healthz
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type documentsResponse struct {
	Contents  corpus.Contents       `json:"contents"`
	Documents []corpus.DocumentInfo `json:"documents"`
}

// listDocuments handles GET /documents
func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, documentsResponse{
		Contents:  s.korpus.Contents(),
		Documents: s.korpus.Documents(),
	})
}

type addDocumentRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// addDocument handles POST /documents. A missing id is replaced by the
// next free text id.
func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	var (
		n   int
		err error
	)
	if strings.TrimSpace(req.ID) == "" {
		req.ID, n, err = s.korpus.IngestNewText(req.Text)
	} else {
		n, err = s.korpus.IngestText(req.ID, req.Text)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"id": req.ID, "tokens": n})
}

// stats handles GET /stats?top=N
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	top, err := intParam(r, "top", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report, err := s.korpus.Stats()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report.Tokens.Entries = report.Tokens.Top(top)
	report.Lemmas.Entries = report.Lemmas.Top(top)
	report.Tags.Entries = report.Tags.Top(top)
	WriteJSON(w, http.StatusOK, report)
}

type matchResponse struct {
	corpus.Match
	Text string `json:"text"`
}

// concordance handles GET /concordance?q=phrase&window=N
func (s *Server) concordance(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", s.korpus.Window())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	matches, err := s.korpus.ConcordanceWindow(r.URL.Query().Get("q"), window)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchResponse{Match: m, Text: m.String()}
	}
	WriteJSON(w, http.StatusOK, out)
}

// word handles GET /words/{word}
func (s *Server) word(w http.ResponseWriter, r *http.Request) {
	recs, err := s.korpus.Occurrences(mux.Vars(r)["word"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []corpus.TokenRecord{}
	}
	WriteJSON(w, http.StatusOK, recs)
}

// analyze handles GET /analyze?text=... and POST /analyze with a
// {"text": ...} body. Nothing is added to the corpus.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if r.Method == http.MethodPost {
		var req struct {
			Text string `json:"text"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		text = req.Text
	}

	report, err := s.korpus.Analyze(text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// listSnapshots handles GET /snapshots
func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	list, err := s.korpus.Snapshots(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// saveSnapshot handles POST /snapshots with an optional {"name": ...} body.
func (s *Server) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	info, err := s.korpus.SaveSnapshot(r.Context(), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, info)
}

// restoreSnapshot handles POST /snapshots/{id}/restore. The id "latest"
// selects the newest snapshot.
func (s *Server) restoreSnapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "latest" {
		id = ""
	}

	n, err := s.korpus.LoadSnapshot(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"records": n})
}

// deleteSnapshot handles DELETE /snapshots/{id}
func (s *Server) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.korpus.DeleteSnapshot(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", internalerr.ErrInvalidInput, name)
	}
	return n, nil
}
