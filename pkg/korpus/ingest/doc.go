package ingest

import (
	"fmt"
	"strings"

	"github.com/cognicore/korpus/pkg/korpus/internalerr"
)

// Doc is a text submitted for ingestion.
type Doc struct {
	ID     string // document identifier, unique within a corpus
	Source string // file path or other origin, informational
	Text   string
}

// Validate checks if the document has required fields
func (d *Doc) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: doc id is required", internalerr.ErrInvalidInput)
	}

	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("%w: doc %q has no text", internalerr.ErrInvalidInput, d.ID)
	}

	return nil
}
