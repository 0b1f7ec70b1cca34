package config

import (
	"context"
	"fmt"

	"github.com/cognicore/korpus/pkg/korpus/ingest"
	"github.com/cognicore/korpus/pkg/korpus/ingest/prosenlp"
	"github.com/cognicore/korpus/pkg/korpus/lexicon"
	"github.com/cognicore/korpus/pkg/korpus/store"
	"github.com/cognicore/korpus/pkg/korpus/store/badger"
	"github.com/cognicore/korpus/pkg/korpus/store/memstore"
	"github.com/cognicore/korpus/pkg/korpus/store/sqlite"
)

// Loader constructs components from a configuration
type Loader struct {
	Config *Config
}

// Components holds the constructed components
type Components struct {
	Lexicon  *lexicon.Lexicon
	Pipeline *ingest.Pipeline
	Store    store.Store
}

// Load builds the pipeline and opens the snapshot store. The caller owns
// the returned store and must close it.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{}

	// Load lexicon
	if cfg.Ingest.Lexicon != "" {
		lex, err := lexicon.LoadFromYAML(cfg.Ingest.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}

	// Build pipeline
	lem := ingest.NewLemmatizer(comp.Lexicon)
	var ann ingest.Annotator
	switch cfg.Ingest.Annotator {
	case "prose":
		ann = prosenlp.New(lem)
	default:
		ann = ingest.NewRuleTagger(lem)
	}
	comp.Pipeline = ingest.NewPipeline(ingest.NewTokenizer(), ann)

	// Open store
	st, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	comp.Store = st

	return comp, nil
}

// OpenStore opens the snapshot store described by s.
func OpenStore(ctx context.Context, s Store) (store.Store, error) {
	switch s.Type {
	case "", "memory":
		return memstore.New(), nil
	case "sqlite":
		return sqlite.OpenSQLite(ctx, s.Path)
	case "badger":
		st, err := badger.Open(s.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown store type %q", s.Type)
}
