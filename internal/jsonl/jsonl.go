// Package jsonl reads batches of documents stored one JSON object per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"

	"github.com/cognicore/korpus/pkg/korpus/ingest"
)

// Item is one line of a batch file. URL stands in for a missing ID so
// crawler dumps can be ingested unchanged.
type Item struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

const maxLine = 16 << 20

// LoadFromJSONL loads documents from a JSONL file
func LoadFromJSONL(path string, logger *log.Logger) ([]ingest.Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path, logger)
}

// Read parses documents from r. Malformed lines and lines without an id
// or text are skipped with a warning; source names r in the log. It fails
// when no valid document remains.
func Read(r io.Reader, source string, logger *log.Logger) ([]ingest.Doc, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var docs []ingest.Doc
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			warn(logger, source, line, err.Error())
			continue
		}

		doc := item.Doc(source)
		if err := doc.Validate(); err != nil {
			warn(logger, source, line, err.Error())
			continue
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found in %s", source)
	}

	return docs, nil
}

// Doc converts the item into an ingest request.
func (it Item) Doc(source string) ingest.Doc {
	id := strings.TrimSpace(it.ID)
	if id == "" {
		id = strings.TrimSpace(it.URL)
	}
	text := it.Text
	if title := strings.TrimSpace(it.Title); title != "" && strings.TrimSpace(text) != "" {
		text = title + ".\n\n" + text
	}
	return ingest.Doc{ID: id, Source: source, Text: text}
}

func warn(logger *log.Logger, source string, line int, reason string) {
	if logger == nil {
		return
	}
	logger.Warn().Str("file", source).Int("line", line).Str("reason", reason).Msg("skipping malformed line")
}
