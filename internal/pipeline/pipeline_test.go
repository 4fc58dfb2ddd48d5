package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thermaldesk/heatload-service/internal/domain"
	"github.com/thermaldesk/heatload-service/internal/observability"
	"github.com/thermaldesk/heatload-service/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawDocument
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for documents
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	failKey string
	calls   atomic.Int64
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawDocument) (domain.OutputReport, error) {
	m.calls.Add(1)
	if m.failKey != "" && string(raw.Key) == m.failKey {
		return domain.OutputReport{}, errors.New("document invalid")
	}
	return domain.OutputReport{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	loaded []domain.OutputReport
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, reports []domain.OutputReport) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, reports...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawDoc(key string) domain.RawDocument {
	return domain.RawDocument{
		Key:   []byte(key),
		Value: []byte(`{"name":"` + key + `"}`),
		Topic: "heatload-projects",
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := rawDoc("house-1")

	ext := &mockExtractor{batches: [][]domain.RawDocument{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, raw.Value, ldr.loaded[0].Value)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, will block
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SkipsFailedDocuments(t *testing.T) {
	var commits atomic.Int64
	batch := []domain.RawDocument{rawDoc("house-1"), rawDoc("house-2"), rawDoc("house-3")}
	for i := range batch {
		batch[i].Commit = func(context.Context) error {
			commits.Add(1)
			return nil
		}
	}

	ext := &mockExtractor{batches: [][]domain.RawDocument{batch}}
	tfm := &mockTransformer{failKey: "house-2"}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, []byte("house-1"), ldr.loaded[0].Key)
	assert.Equal(t, []byte("house-3"), ldr.loaded[1].Key)

	// Failed documents are committed too so they are not redelivered.
	assert.Equal(t, int64(3), commits.Load())
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false

	raw := rawDoc("house-5")
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawDocument{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, commitCalled)
}

func TestPipeline_Run_NoCommitOnLoadFailure(t *testing.T) {
	var commits atomic.Int64

	raw := rawDoc("house-6")
	raw.Commit = func(context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawDocument{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{err: errors.New("broker unavailable")}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	assert.Empty(t, ldr.loaded)
	assert.Zero(t, commits.Load(), "offsets must not be committed when the load fails")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("broker unavailable")}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Run(ctx)
	require.NoError(t, err)

	// One extract attempt, a 200ms backoff, then at most one more round.
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	assert.Empty(t, ldr.loaded)
}
