package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thermaldesk/heatload-service/internal/domain"
	"github.com/thermaldesk/heatload-service/internal/observability"
)

// Client implements domain.SiteResolver against a climate reference API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a climate API client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// ResolveSite fetches the reference climate record for a named site.
// An unknown site is an error: the document naming it cannot be calculated.
func (c *Client) ResolveSite(ctx context.Context, site string) (domain.ClimateRecord, error) {
	u := fmt.Sprintf("%s/v1/sites/%s", c.baseURL, url.PathEscape(site))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.ClimateRecord{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ClimateAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ClimateLookups.WithLabelValues("error").Inc()
		return domain.ClimateRecord{}, fmt.Errorf("climate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.ClimateLookups.WithLabelValues("empty").Inc()
		return domain.ClimateRecord{}, fmt.Errorf("unknown site %q", site)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.ClimateLookups.WithLabelValues("error").Inc()
		return domain.ClimateRecord{}, fmt.Errorf("climate API error: status %d: %s", resp.StatusCode, body)
	}

	var siteResp response
	if err := json.NewDecoder(resp.Body).Decode(&siteResp); err != nil {
		c.metrics.ClimateLookups.WithLabelValues("error").Inc()
		return domain.ClimateRecord{}, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.ClimateLookups.WithLabelValues("success").Inc()
	return domain.ClimateRecord{
		Site:           siteResp.Site,
		DesignTemp:     siteResp.DesignTemp,
		AnnualMean:     siteResp.AnnualMean,
		MinMonthlyMean: siteResp.MinMonthlyMean,
		Elevation:      siteResp.Elevation,
		Gradient:       siteResp.Gradient,
	}, nil
}

// Climate API response type. Field names match the record's sink-topic form.

type response struct {
	Site           string  `json:"site"`
	DesignTemp     float64 `json:"design_temp"`
	AnnualMean     float64 `json:"annual_mean_temp"`
	MinMonthlyMean float64 `json:"min_monthly_mean"`
	Elevation      float64 `json:"elevation"`
	Gradient       float64 `json:"temp_gradient"`
}
