package korpus

import (
	"context"

	"github.com/phuslu/log"

	"github.com/cognicore/korpus/pkg/korpus/config"
)

// Open builds a Korpus from cfg. A nil cfg selects config.Default().
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Korpus, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	comp, err := (&config.Loader{Config: cfg}).Load(ctx)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info().
			Str("annotator", cfg.Ingest.Annotator).
			Str("store", cfg.Store.Type).
			Int("window", cfg.Concordance.Window).
			Msg("korpus opened")
	}

	return New(Options{
		Pipeline:   comp.Pipeline,
		Store:      comp.Store,
		Window:     cfg.Concordance.Window,
		TextPrefix: cfg.Ingest.TextPrefix,
		Logger:     logger,
	}), nil
}
