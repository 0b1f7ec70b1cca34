// Package korpus is the entry point for building and querying an annotated
// corpus. It ties the corpus, the extractors and a snapshot store together.
package korpus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/cognicore/korpus/internal/logging"
	"github.com/cognicore/korpus/pkg/korpus/analysis"
	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/dictionary"
	"github.com/cognicore/korpus/pkg/korpus/extract"
	"github.com/cognicore/korpus/pkg/korpus/ingest"
	"github.com/cognicore/korpus/pkg/korpus/snapshot"
	"github.com/cognicore/korpus/pkg/korpus/store"
	"github.com/cognicore/korpus/pkg/korpus/store/memstore"
)

// Korpus is the main corpus manager facade
type Korpus struct {
	corpus     *corpus.Corpus
	analyzer   *analysis.Analyzer
	extractors *extract.Registry
	store      store.Store
	window     int
	textPrefix string
	logger     *log.Logger
}

// Options configures a Korpus instance. Zero values select defaults,
// except Window where zero means no context.
type Options struct {
	Pipeline   *ingest.Pipeline
	Store      store.Store
	Extractors *extract.Registry
	Window     int
	TextPrefix string
	Logger     *log.Logger
}

// DefaultOptions returns options with the standard concordance window.
func DefaultOptions() Options {
	return Options{Window: corpus.DefaultWindow, TextPrefix: "Text"}
}

// New creates a Korpus instance with the given dependencies
func New(opts Options) *Korpus {
	k := &Korpus{
		corpus:     corpus.New(opts.Pipeline),
		extractors: opts.Extractors,
		store:      opts.Store,
		window:     max(opts.Window, 0),
		textPrefix: opts.TextPrefix,
		logger:     opts.Logger,
	}
	k.analyzer = analysis.New(k.corpus.Pipeline())
	if k.extractors == nil {
		k.extractors = extract.NewRegistry()
	}
	if k.store == nil {
		k.store = memstore.New()
	}
	if k.textPrefix == "" {
		k.textPrefix = "Text"
	}
	if k.logger == nil {
		k.logger = logging.Discard()
	}
	return k
}

// Close releases the snapshot store.
func (k *Korpus) Close() error {
	return k.store.Close()
}

// Window returns the default concordance window.
func (k *Korpus) Window() int { return k.window }

// Extensions lists the file extensions IngestFile accepts.
func (k *Korpus) Extensions() []string { return k.extractors.Extensions() }

// IngestText annotates text and appends it under id.
func (k *Korpus) IngestText(id, text string) (int, error) {
	start := time.Now()
	n, err := k.corpus.Ingest(id, text)
	if err != nil {
		k.logger.Warn().Str("doc", id).Err(err).Msg("ingest rejected")
		return 0, err
	}
	k.logger.Info().Str("doc", id).Int("tokens", n).Dur("took", time.Since(start)).Msg("document ingested")
	return n, nil
}

// IngestFile extracts the text of path and ingests it under the file's
// base name.
func (k *Korpus) IngestFile(ctx context.Context, path string) (string, int, error) {
	id := filepath.Base(path)
	text, err := k.extractors.Extract(ctx, path)
	if err != nil {
		k.logger.Warn().Str("file", path).Err(err).Msg("extract failed")
		return id, 0, err
	}
	n, err := k.IngestText(id, text)
	return id, n, err
}

// BatchResult summarises IngestBatch.
type BatchResult struct {
	Documents int
	Tokens    int
}

// IngestBatch ingests docs in order. Failing documents are skipped; their
// errors are joined into the returned error.
func (k *Korpus) IngestBatch(ctx context.Context, docs []ingest.Doc) (BatchResult, error) {
	var res BatchResult
	var errs []error
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		n, err := k.IngestText(d.ID, d.Text)
		if err != nil {
			errs = append(errs, fmt.Errorf("doc %q: %w", d.ID, err))
			continue
		}
		if n > 0 {
			res.Documents++
			res.Tokens += n
		}
	}
	k.logger.Info().Int("docs", res.Documents).Int("tokens", res.Tokens).Int("failed", len(errs)).Msg("batch ingested")
	return res, errors.Join(errs...)
}

// IngestNewText ingests a typed-in text under the next free text id and
// returns that id.
func (k *Korpus) IngestNewText(text string) (string, int, error) {
	start := time.Now()
	id, n, err := k.corpus.IngestNew(k.textPrefix, text)
	if err != nil {
		k.logger.Warn().Err(err).Msg("ingest rejected")
		return "", 0, err
	}
	k.logger.Info().Str("doc", id).Int("tokens", n).Dur("took", time.Since(start)).Msg("document ingested")
	return id, n, nil
}

// Analyze reports tags, WordNet classes, lemmas and sentence sentiment for
// text without adding it to the corpus.
func (k *Korpus) Analyze(text string) (analysis.Report, error) {
	report, err := k.analyzer.Analyze(text)
	if err != nil {
		return analysis.Report{}, err
	}
	k.logger.Debug().Int("sentences", len(report.Sentences)).Msg("text analyzed")
	return report, nil
}

// NextTextID returns a free identifier for a typed-in text.
func (k *Korpus) NextTextID() string {
	return k.corpus.NextTextID(k.textPrefix)
}

// Stats returns the frequency report of the corpus.
func (k *Korpus) Stats() (corpus.Report, error) {
	return k.corpus.Stats()
}

// Concordance searches query with the default window.
func (k *Korpus) Concordance(query string) ([]corpus.Match, error) {
	return k.ConcordanceWindow(query, k.window)
}

// ConcordanceWindow searches query with an explicit window.
func (k *Korpus) ConcordanceWindow(query string, window int) ([]corpus.Match, error) {
	matches, err := k.corpus.Concordance(query, window)
	if err != nil {
		return nil, err
	}
	k.logger.Debug().Str("query", query).Int("window", window).Int("matches", len(matches)).Msg("concordance")
	return matches, nil
}

// Occurrences returns every record of word.
func (k *Korpus) Occurrences(word string) ([]corpus.TokenRecord, error) {
	return k.corpus.Occurrences(word)
}

// Contents summarises the stored documents.
func (k *Korpus) Contents() corpus.Contents {
	return k.corpus.Contents()
}

// Documents lists per-document counts in ingestion order.
func (k *Korpus) Documents() []corpus.DocumentInfo {
	return k.corpus.Documents()
}

// Records returns a copy of all records.
func (k *Korpus) Records() []corpus.TokenRecord {
	return k.corpus.Records()
}

// SaveSnapshot stores the current corpus under name.
func (k *Korpus) SaveSnapshot(ctx context.Context, name string) (store.SnapshotInfo, error) {
	info, err := k.store.SaveSnapshot(ctx, strings.TrimSpace(name), k.corpus.Records())
	if err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("save snapshot: %w", err)
	}
	k.logger.Info().Str("snapshot", info.ID).Str("name", info.Name).Int("records", info.Records).Msg("snapshot saved")
	return info, nil
}

// LoadSnapshot replaces the corpus with snapshot id, or the latest one
// when id is empty. On error the corpus is unchanged.
func (k *Korpus) LoadSnapshot(ctx context.Context, id string) (int, error) {
	records, err := k.store.LoadSnapshot(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	if err := k.corpus.Restore(records); err != nil {
		return 0, fmt.Errorf("restore snapshot: %w", err)
	}
	k.logger.Info().Str("snapshot", id).Int("records", len(records)).Msg("snapshot restored")
	return len(records), nil
}

// Snapshots lists stored snapshots, newest first.
func (k *Korpus) Snapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	return k.store.ListSnapshots(ctx)
}

// DeleteSnapshot removes snapshot id.
func (k *Korpus) DeleteSnapshot(ctx context.Context, id string) error {
	if err := k.store.DeleteSnapshot(ctx, id); err != nil {
		return err
	}
	k.logger.Info().Str("snapshot", id).Msg("snapshot deleted")
	return nil
}

// Export writes the corpus as a JSON snapshot file.
func (k *Korpus) Export(path string) error {
	records := k.corpus.Records()
	if err := snapshot.WriteFile(path, records); err != nil {
		return err
	}
	k.logger.Info().Str("file", path).Int("records", len(records)).Msg("corpus exported")
	return nil
}

// Import replaces the corpus with the snapshot file at path. On error the
// corpus is unchanged.
func (k *Korpus) Import(path string) (int, error) {
	records, err := snapshot.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := k.corpus.Restore(records); err != nil {
		return 0, err
	}
	k.logger.Info().Str("file", path).Int("records", len(records)).Msg("corpus imported")
	return len(records), nil
}

// BuildDictionary extracts path and counts its words.
func (k *Korpus) BuildDictionary(ctx context.Context, path string) (*dictionary.Dictionary, error) {
	text, err := k.extractors.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	d, err := dictionary.Build(k.corpus.Pipeline(), text)
	if err != nil {
		return nil, err
	}
	k.logger.Info().Str("file", path).Int("words", d.Len()).Msg("dictionary built")
	return d, nil
}
