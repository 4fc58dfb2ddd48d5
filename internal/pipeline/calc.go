package pipeline

import (
	"context"
	"log/slog"

	"github.com/thermaldesk/heatload-service/internal/domain"
)

// LoadCalculator implements Transformer by running the full calculation
// chain: parse the project document, resolve its climate, compile the
// building, and serialize the load report.
type LoadCalculator struct {
	resolver domain.SiteResolver
	logger   *slog.Logger
}

// NewCalculator creates a LoadCalculator. Pass a nil resolver to require
// embedded climate data in every document.
func NewCalculator(resolver domain.SiteResolver, logger *slog.Logger) *LoadCalculator {
	return &LoadCalculator{
		resolver: resolver,
		logger:   logger,
	}
}

func (c *LoadCalculator) Transform(ctx context.Context, raw domain.RawDocument) (domain.OutputReport, error) {
	rep, err := c.Calculate(ctx, raw)
	if err != nil {
		return domain.OutputReport{}, err
	}
	return domain.SerializeLoadReport(rep)
}

// Calculate runs the chain for one document and returns the report before
// serialization. The HTTP handler uses it directly.
func (c *LoadCalculator) Calculate(ctx context.Context, raw domain.RawDocument) (domain.LoadReport, error) {
	doc, err := domain.ParseProjectDocument(raw)
	if err != nil {
		return domain.LoadReport{}, err
	}

	climate, err := domain.ResolveClimate(ctx, doc, c.resolver, c.logger)
	if err != nil {
		return domain.LoadReport{}, err
	}

	building, err := domain.CompileBuilding(doc, climate)
	if err != nil {
		return domain.LoadReport{}, err
	}

	return domain.BuildLoadReport(doc.Name, building), nil
}
