package pipeline

import (
	"context"
	"log/slog"

	"github.com/ppiankov/phishlens/internal/indicators"
	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/score"
	"github.com/ppiankov/phishlens/internal/threatintel"
)

// Analyzer runs the full classification of one URL:
// indicator extraction, threat-intel lookup, scoring.
type Analyzer struct {
	extractor *indicators.Extractor
	checker   threatintel.Checker
	scorer    *score.Scorer
}

// NewAnalyzer creates an analyzer. A nil checker disables the remote lookup.
func NewAnalyzer(extractor *indicators.Extractor, checker threatintel.Checker, scorer *score.Scorer) *Analyzer {
	if checker == nil {
		checker = threatintel.Disabled{}
	}
	if scorer == nil {
		scorer = score.NewScorer()
	}
	return &Analyzer{
		extractor: extractor,
		checker:   checker,
		scorer:    scorer,
	}
}

// AnalyzeURL classifies rawURL. It always returns a verdict.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) model.Verdict {
	ind := a.extractor.Extract(rawURL)

	// Malformed URLs short-circuit in the scorer, so the lookup is skipped
	ti := model.DisabledThreatIntel()
	if ind.ValidURL {
		ti = a.checker.Check(ctx, ind.URL)
	}

	verdict := a.scorer.Score(ind, ti)
	slog.Debug("analyzed url", "url", verdict.URL, "score", verdict.Score, "label", verdict.Label)
	return verdict
}

// AnalyzeMany classifies urls one after another and returns one verdict per
// input, in input order.
func (a *Analyzer) AnalyzeMany(ctx context.Context, urls []string) []model.Verdict {
	verdicts := make([]model.Verdict, 0, len(urls))
	for _, u := range urls {
		verdicts = append(verdicts, a.AnalyzeURL(ctx, u))
	}
	return verdicts
}
