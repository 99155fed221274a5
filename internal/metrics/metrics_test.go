package metrics_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/metrics"
)

func TestObserveLookup(t *testing.T) {
	rec := metrics.New()

	rec.ObserveLookup("domain", nil, 20*time.Millisecond)
	rec.ObserveLookup("ip", nil, 30*time.Millisecond)
	rec.ObserveLookup("domain", fmt.Errorf("%w: HTTP 500", apperr.ErrUpstreamStatus), time.Second)
	rec.ObserveLookup("domain", errors.New("boom"), time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(rec.LookupsTotal.WithLabelValues("domain", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.LookupsTotal.WithLabelValues("ip", "success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(rec.LookupsTotal.WithLabelValues("domain", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.FailuresTotal.WithLabelValues("upstream_status")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.FailuresTotal.WithLabelValues("unknown")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(rec.LookupDuration))
}

func TestObserveBatch(t *testing.T) {
	rec := metrics.New()
	rec.ObserveBatch(100)
	rec.ObserveBatch(7)

	assert.InDelta(t, 2, testutil.ToFloat64(rec.BatchesTotal), 0)
	assert.InDelta(t, 107, testutil.ToFloat64(rec.ItemsTotal), 0)
}

func TestNilRecorder(t *testing.T) {
	var rec *metrics.Recorder
	assert.NotPanics(t, func() {
		rec.ObserveLookup("domain", nil, time.Millisecond)
		rec.ObserveBatch(1)
		assert.NoError(t, rec.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
		assert.Nil(t, rec.Registry())
	})
}

func TestRecordersAreIndependent(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.ObserveBatch(1)

	assert.InDelta(t, 1, testutil.ToFloat64(a.BatchesTotal), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.BatchesTotal), 0)
}

func TestWriteTextfile(t *testing.T) {
	rec := metrics.New()
	rec.ObserveLookup("ip", nil, 10*time.Millisecond)
	rec.ObserveBatch(1)

	path := filepath.Join(t.TempDir(), "krwhois.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `krwhois_lookups_total{kind="ip",status="success"} 1`)
	assert.Contains(t, string(data), "krwhois_batches_total 1")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.NoError(t, metrics.New().WriteTextfile(""))
}
