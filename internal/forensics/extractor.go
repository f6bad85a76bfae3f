package forensics

import (
	"time"

	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

// Extractor applies every registered pattern to a text blob and collects the
// deduplicated matches per kind. It is a pure function of its input plus the
// static registry; the only side effect is logging.
type Extractor struct {
	registry *Registry
	cfg      config.ForensicsConfig
	logger   *zap.Logger
}

// NewExtractor builds an extractor over the given registry.
func NewExtractor(registry *Registry, cfg config.ForensicsConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		registry: registry,
		cfg:      cfg,
		logger:   logger.Named("forensics"),
	}
}

// span is a half-open [start, end) byte range claimed by a match.
type span struct{ start, end int }

func overlaps(claimed []span, start, end int) bool {
	for _, s := range claimed {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Extract scans text with every pattern in tier order and returns the
// mapping of kind to unique matches. Kinds with zero matches are omitted.
//
// The input is truncated to the configured byte cap before matching, and a
// pattern whose scan exceeds the per-pattern time budget is skipped for this
// call with a logged warning; neither condition aborts the rest of the
// extraction.
func (e *Extractor) Extract(text string) schemas.FindingSet {
	if e.cfg.MaxInputBytes > 0 && len(text) > e.cfg.MaxInputBytes {
		e.logger.Warn("Evidence blob exceeds input cap, truncating",
			zap.Int("size", len(text)),
			zap.Int("cap", e.cfg.MaxInputBytes))
		text = text[:e.cfg.MaxInputBytes]
	}

	findings := make(schemas.FindingSet)
	var claimed []span
	var tierClaims []span
	currentTier := -1

	for _, p := range e.registry.All() {
		if p.Tier != currentTier {
			// Spans claimed within a tier only mask higher tiers, so the
			// original within-tier overlap behavior is preserved.
			claimed = append(claimed, tierClaims...)
			tierClaims = tierClaims[:0]
			currentTier = p.Tier
		}

		start := time.Now()
		locs := p.Matcher.FindAllStringIndex(text, -1)
		elapsed := time.Since(start)
		if e.cfg.PatternBudget > 0 && elapsed > e.cfg.PatternBudget {
			e.logger.Warn("Indicator pattern exceeded time budget, skipping for this call",
				zap.String("kind", p.Kind),
				zap.Duration("elapsed", elapsed),
				zap.Duration("budget", e.cfg.PatternBudget))
			continue
		}

		seen := make(map[string]struct{})
		for _, loc := range locs {
			if overlaps(claimed, loc[0], loc[1]) {
				continue
			}
			tierClaims = append(tierClaims, span{loc[0], loc[1]})

			value := text[loc[0]:loc[1]]
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			findings[p.Kind] = append(findings[p.Kind], value)
		}
	}

	return findings
}
