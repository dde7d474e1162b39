package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"sales-history/core/reconcile"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePass(t *testing.T) {
	r := NewRegistry()

	r.ObservePass(&reconcile.Result{
		Appended: 2,
		Total:    7,
		Stats:    reconcile.MergeStats{Scanned: 5, Emitted: 2, Duplicate: 2, Orphan: 1},
	}, nil, 150*time.Millisecond)
	r.ObservePass(nil, &reconcile.Error{Kind: reconcile.KindSourceMissing}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Passes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Passes.WithLabelValues("SourceMissing")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Appended))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Skipped.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Skipped.WithLabelValues("orphan")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.HistoryRecords))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.HistoryRecords.Set(3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "sales_history_records 3")
}
