package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	httpadapter "github.com/thermaldesk/heatload-service/internal/adapter/http"
	"github.com/thermaldesk/heatload-service/internal/domain"
)

// --- mocks ---

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockCalculator struct {
	rep domain.LoadReport
	err error
}

func (m *mockCalculator) Calculate(_ context.Context, _ domain.RawDocument) (domain.LoadReport, error) {
	if m.err != nil {
		return domain.LoadReport{}, m.err
	}
	return m.rep, nil
}

func newTestServer(readyErr error, calc httpadapter.Calculator) *httpadapter.Server {
	if calc == nil {
		calc = &mockCalculator{}
	}
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, calc, slog.Default())
}

// --- tests ---

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("not ready yet"), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLoadsEndpoint_ComputesReport(t *testing.T) {
	calc := &mockCalculator{
		rep: domain.LoadReport{
			Project:      "demo-house",
			Climate:      domain.ClimateRecord{DesignTemp: -10, AnnualMean: 10},
			Building:     domain.BuildingResult{Name: "House", Load: 1043.5},
			CalculatedAt: time.Date(2026, time.January, 12, 9, 30, 0, 0, time.UTC),
		},
	}
	srv := newTestServer(nil, calc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/loads", strings.NewReader(`{"name":"demo-house"}`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rep domain.LoadReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "demo-house", rep.Project)
	assert.Equal(t, 1043.5, rep.Building.Load)
}

func TestLoadsEndpoint_ValidationErrorReturns400(t *testing.T) {
	calc := &mockCalculator{
		err: &domain.ValidationError{Problems: []string{
			`building: entity "main": no ventilation zones`,
			`space "living": T_i_d is required`,
		}},
	}
	srv := newTestServer(nil, calc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/loads", strings.NewReader(`{}`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error    string   `json:"error"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "document invalid", body.Error)
	require.Len(t, body.Problems, 2)
	assert.Contains(t, body.Problems[1], "T_i_d is required")
}

func TestLoadsEndpoint_UnresolvedClimateReturns422(t *testing.T) {
	calc := &mockCalculator{
		err: fmt.Errorf("%w: site %q: service down", domain.ErrClimateUnresolved, "uccle"),
	}
	srv := newTestServer(nil, calc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/loads", strings.NewReader(`{"site":"uccle"}`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "uccle")
}

func TestLoadsEndpoint_ParseErrorReturns400(t *testing.T) {
	calc := &mockCalculator{err: fmt.Errorf("parse project document: unexpected end of JSON input")}
	srv := newTestServer(nil, calc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/loads", strings.NewReader(`{`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
