// -- cmd/components.go --
package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/assistant"
	"github.com/shadowglass/inquest/internal/cache"
	"github.com/shadowglass/inquest/internal/config"
	"github.com/shadowglass/inquest/internal/forensics"
	"github.com/shadowglass/inquest/internal/imagemeta"
	"github.com/shadowglass/inquest/internal/investigate"
	"github.com/shadowglass/inquest/internal/lang"
	"github.com/shadowglass/inquest/internal/oracle"
	"github.com/shadowglass/inquest/internal/search"
)

// appComponents holds the initialized services shared by the subcommands.
type appComponents struct {
	Oracle       schemas.Oracle
	Assistant    *assistant.Core
	Investigator *investigate.Investigator
	Inspector    *imagemeta.Inspector
}

// Shutdown releases held resources.
func (c *appComponents) Shutdown() {
	if c.Oracle != nil {
		_ = c.Oracle.Close()
	}
}

// initializeComponents handles dependency injection. Every oracle consumer
// shares one gated client, so completions are serialized process-wide.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*appComponents, error) {
	client, err := oracle.NewClient(cfg.Oracle, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize oracle client: %w", err)
	}
	gated := oracle.NewGate(client)

	provider := search.NewProvider(cfg.Search, logger)
	aggregator := search.NewAggregator(provider, cfg.Search, logger)
	extractor := forensics.NewExtractor(forensics.MustBuiltin(), cfg.Forensics, logger)

	investigator, err := investigate.NewInvestigator(aggregator, extractor, gated, cfg.Investigation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize investigator: %w", err)
	}

	responseCache := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	core, err := assistant.NewCore(gated, responseCache, lang.NewDetector(), cfg.Chat, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant: %w", err)
	}

	return &appComponents{
		Oracle:       gated,
		Assistant:    core,
		Investigator: investigator,
		Inspector:    imagemeta.NewInspector(cfg.ImageMeta, logger),
	}, nil
}
