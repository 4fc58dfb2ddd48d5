package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thermaldesk/heatload-service/internal/units"
)

// ClimateRecord holds the reference climate a project is calculated against.
// Elevation and Gradient describe the reference site itself and feed the
// altitude correction; they are zero for embedded climate data.
type ClimateRecord struct {
	Site           string  `json:"site,omitempty"`
	DesignTemp     float64 `json:"design_temp"`                // T_e_d, degC
	AnnualMean     float64 `json:"annual_mean_temp"`           // T_e_an, degC
	MinMonthlyMean float64 `json:"min_monthly_mean,omitempty"` // T_e_min, degC
	Elevation      float64 `json:"elevation,omitempty"`        // reference site altitude in m
	Gradient       float64 `json:"temp_gradient,omitempty"`    // design temperature change per m of altitude, K/m
}

// SiteResolver looks up reference climate data for a named site.
type SiteResolver interface {
	ResolveSite(ctx context.Context, site string) (ClimateRecord, error)
}

// ErrClimateUnresolved marks a failure to obtain climate data for a document
// that names a reference site. Callers distinguish it from document errors:
// the document may be perfectly valid while the climate source is down.
var ErrClimateUnresolved = errors.New("climate unresolved")

// ResolveClimate determines the climate record for a project document.
// Embedded climate data wins; otherwise the named site is resolved. A nil
// resolver with a site-only document is an ErrClimateUnresolved.
func ResolveClimate(ctx context.Context, doc ProjectDocument, resolver SiteResolver, logger *slog.Logger) (ClimateRecord, error) {
	if doc.Climate != nil {
		return embeddedClimate(*doc.Climate)
	}

	if doc.Site == "" {
		return ClimateRecord{}, fmt.Errorf("project %q: no embedded climate data and no site reference", doc.Name)
	}
	if resolver == nil {
		return ClimateRecord{}, fmt.Errorf("%w: site %q referenced but no climate resolver configured", ErrClimateUnresolved, doc.Site)
	}

	rec, err := resolver.ResolveSite(ctx, doc.Site)
	if err != nil {
		logger.Warn("site resolution failed",
			"project", doc.Name,
			"site", doc.Site,
			"error", err,
		)
		return ClimateRecord{}, fmt.Errorf("%w: site %q: %v", ErrClimateUnresolved, doc.Site, err)
	}
	return rec, nil
}

func embeddedClimate(doc ClimateDocument) (ClimateRecord, error) {
	var rec ClimateRecord
	var err error

	if !doc.DesignTemp.IsSet() {
		return ClimateRecord{}, fmt.Errorf("climate: T_e_d is required")
	}
	if rec.DesignTemp, err = doc.DesignTemp.In(units.Temperature); err != nil {
		return ClimateRecord{}, fmt.Errorf("climate: T_e_d: %w", err)
	}
	if !doc.AnnualMean.IsSet() {
		return ClimateRecord{}, fmt.Errorf("climate: T_e_an is required")
	}
	if rec.AnnualMean, err = doc.AnnualMean.In(units.Temperature); err != nil {
		return ClimateRecord{}, fmt.Errorf("climate: T_e_an: %w", err)
	}
	if rec.MinMonthlyMean, err = doc.MinMonthlyMean.In(units.Temperature); err != nil {
		return ClimateRecord{}, fmt.Errorf("climate: T_e_min: %w", err)
	}
	return rec, nil
}
