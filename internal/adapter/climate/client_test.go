package climate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thermaldesk/heatload-service/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_ResolveSite_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sites/uccle", r.URL.Path)

		resp := response{
			Site:           "uccle",
			DesignTemp:     -7,
			AnnualMean:     10.4,
			MinMonthlyMean: 3.1,
			Elevation:      100,
			Gradient:       -0.005,
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	rec, err := c.ResolveSite(context.Background(), "uccle")
	require.NoError(t, err)

	assert.Equal(t, "uccle", rec.Site)
	assert.Equal(t, -7.0, rec.DesignTemp)
	assert.Equal(t, 10.4, rec.AnnualMean)
	assert.Equal(t, 3.1, rec.MinMonthlyMean)
	assert.Equal(t, 100.0, rec.Elevation)
	assert.Equal(t, -0.005, rec.Gradient)
}

func TestClient_ResolveSite_EscapesSiteName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sites/den haag", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Site: "den haag"}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	rec, err := c.ResolveSite(context.Background(), "den haag")
	require.NoError(t, err)
	assert.Equal(t, "den haag", rec.Site)
}

func TestClient_ResolveSite_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ResolveSite(context.Background(), "atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown site "atlantis"`)
}

func TestClient_ResolveSite_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"broken"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ResolveSite(context.Background(), "uccle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_ResolveSite_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		baseURL:    srv.URL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := c.ResolveSite(context.Background(), "uccle")
	require.Error(t, err)
}
