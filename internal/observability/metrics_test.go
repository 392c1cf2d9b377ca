package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.TokensLaunched.Inc()
	m.RefreshRunsTotal.WithLabelValues("success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokensLaunched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshRunsTotal.WithLabelValues("success")))

	count, err := testutil.GatherAndCount(reg, "test_catalog_tokens_launched_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.UpstreamErrors.WithLabelValues("dexscreener"))
	RecordUpstreamCall("dexscreener", 0.2, errors.New("boom"))
	RecordUpstreamCall("dexscreener", 0.1, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.UpstreamErrors.WithLabelValues("dexscreener")))

	RecordLeaderboardBuild(24, 7, 5.5)
	assert.Equal(t, 7.0, testutil.ToFloat64(DefaultMetrics.LeaderboardSize))
	assert.Equal(t, 5.5, testutil.ToFloat64(DefaultMetrics.RewardPool))

	SetDBPoolConns("postgres", 3, 7)
	assert.Equal(t, 3.0, testutil.ToFloat64(DefaultMetrics.DBPoolConns.WithLabelValues("postgres", "acquired")))
	assert.Equal(t, 7.0, testutil.ToFloat64(DefaultMetrics.DBPoolConns.WithLabelValues("postgres", "idle")))

	RecordRefreshRun("success", 1.5, 1700000000)
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(DefaultMetrics.LastSuccessfulRefresh))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "2xx", statusLabel(200))
	assert.Equal(t, "3xx", statusLabel(304))
	assert.Equal(t, "4xx", statusLabel(404))
	assert.Equal(t, "5xx", statusLabel(503))
}
