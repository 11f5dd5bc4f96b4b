package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMetrics_Recording(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCallback("ipn", "completed")
	m.RecordCallback("ipn", "completed")
	m.RecordCallback("return", "replay")
	m.RecordCascadeApplied()
	m.RecordReconciliation("lost_race")
	m.RecordDBQuery("update", "payment_transactions", "success", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallbacksTotal.WithLabelValues("ipn", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbacksTotal.WithLabelValues("return", "replay")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CascadesApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("lost_race")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.DBQueriesTotal.WithLabelValues("update", "payment_transactions", "success")))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestQueryStatus(t *testing.T) {
	assert.Equal(t, "success", queryStatus(nil))
	assert.Equal(t, "not_found", queryStatus(gorm.ErrRecordNotFound))
	assert.Equal(t, "error", queryStatus(errors.New("boom")))
}
