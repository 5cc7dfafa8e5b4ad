package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLoad(t *testing.T) {
	m := New()
	m.RecordLoad("posts", 3, 1)
	m.RecordLoad("posts", 2, 0)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.ContentLoadedTotal.WithLabelValues("posts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentSkippedTotal.WithLabelValues("posts")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordLoad("posts", 1, 1) })
}
