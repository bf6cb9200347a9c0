package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/lawsuit-monitor/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "lawsuit_monitor"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
}

func TestRegister_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("x_total", "x", "l")
	b := c.RegisterCounter("x_total", "x", "l")
	a.WithLabelValues("v").Inc()
	b.WithLabelValues("v").Inc()

	n, err := testutil.GatherAndCount(c.Gatherer(), "lawsuit_monitor_x_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup", "d")
	g := c.RegisterGauge("dup", "d")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(3) })
}

func TestRunMetrics_Record(t *testing.T) {
	c := newTestCollector(t)
	m := NewRunMetrics(c)

	m.RecordFetch("search", "found")
	m.RecordFetch("search", "found")
	m.RecordFetch("docket", "failed")
	m.StartStage("render").ObserveDuration()
	m.RecordPublish("slack", nil)
	m.RecordReport(2, 5, 3, 1, 40)
	m.RecordRunEnd(true)

	expected := `
# HELP lawsuit_monitor_report_records Records in the rendered report
# TYPE lawsuit_monitor_report_records gauge
lawsuit_monitor_report_records{kind="documents"} 3
lawsuit_monitor_report_records{kind="dockets"} 5
lawsuit_monitor_report_records{kind="high_risk_dockets"} 1
lawsuit_monitor_report_records{kind="news_lawsuits"} 2
# HELP lawsuit_monitor_snapshot_skipped_lines Report lines already present in the base snapshot
# TYPE lawsuit_monitor_snapshot_skipped_lines gauge
lawsuit_monitor_snapshot_skipped_lines 40
# HELP lawsuit_monitor_last_run_success 1 when the last run published, else 0
# TYPE lawsuit_monitor_last_run_success gauge
lawsuit_monitor_last_run_success 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected),
		"lawsuit_monitor_report_records", "lawsuit_monitor_snapshot_skipped_lines", "lawsuit_monitor_last_run_success"))

	fetches := `
# HELP lawsuit_monitor_fetch_results_total Fetch boundary outcomes
# TYPE lawsuit_monitor_fetch_results_total counter
lawsuit_monitor_fetch_results_total{source="docket",status="failed"} 1
lawsuit_monitor_fetch_results_total{source="search",status="found"} 2
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(fetches), "lawsuit_monitor_fetch_results_total"))

	n, err := testutil.GatherAndCount(c.Gatherer(), "lawsuit_monitor_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunMetrics_Push(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewRunMetrics(newTestCollector(t))
	m.RecordRunEnd(false)
	require.NoError(t, m.Push(context.Background(), srv.URL, "lawsuit_monitor"))
	assert.Equal(t, "/metrics/job/lawsuit_monitor", path)
	assert.NotEmpty(t, body)
}

func TestRunMetrics_PushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewRunMetrics(newTestCollector(t))
	err := m.Push(context.Background(), srv.URL, "job")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeExternalService))
}

func TestRunMetrics_RecordPublishStatus(t *testing.T) {
	c := newTestCollector(t)
	m := NewRunMetrics(c)

	m.RecordPublish("archive", assert.AnError)
	m.RecordPublish("events", nil)

	expected := `
# HELP lawsuit_monitor_publish_total Publish sink outcomes
# TYPE lawsuit_monitor_publish_total counter
lawsuit_monitor_publish_total{sink="archive",status="failure"} 1
lawsuit_monitor_publish_total{sink="events",status="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "lawsuit_monitor_publish_total"))
}

func TestRunMetrics_StartStage(t *testing.T) {
	c := newTestCollector(t)
	m := NewRunMetrics(c)

	timer := m.StartStage("search")
	time.Sleep(5 * time.Millisecond)
	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	m.StartStage("render").ObserveDuration()

	families, err := c.Gatherer().Gather()
	require.NoError(t, err)
	counts := map[string]uint64{}
	for _, mf := range families {
		if mf.GetName() != "lawsuit_monitor_stage_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "stage" {
					counts[l.GetValue()] = metric.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	assert.Equal(t, map[string]uint64{"search": 1, "render": 1}, counts)
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("t_seconds", "t", nil, "stage")
	d := NewTimer(h.WithLabelValues("x")).ObserveDuration()
	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
