package prometheus

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// RunMetrics are the series of one monitor run.
type RunMetrics struct {
	FetchResultsTotal CounterVec
	ReportRecords     GaugeVec
	StageDuration     HistogramVec
	PublishTotal      CounterVec
	SkippedLines      GaugeVec
	LastRunTimestamp  GaugeVec
	RunSuccess        GaugeVec

	collector MetricsCollector
}

// Record kinds for ReportRecords.
const (
	KindNewsLawsuits    = "news_lawsuits"
	KindDockets         = "dockets"
	KindDocuments       = "documents"
	KindHighRiskDockets = "high_risk_dockets"
)

var DefaultStageBuckets = []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// NewRunMetrics registers the run series on collector.
func NewRunMetrics(collector MetricsCollector) *RunMetrics {
	return &RunMetrics{
		FetchResultsTotal: collector.RegisterCounter("fetch_results_total", "Fetch boundary outcomes", "source", "status"),
		ReportRecords:     collector.RegisterGauge("report_records", "Records in the rendered report", "kind"),
		StageDuration:     collector.RegisterHistogram("stage_duration_seconds", "Pipeline stage duration", DefaultStageBuckets, "stage"),
		PublishTotal:      collector.RegisterCounter("publish_total", "Publish sink outcomes", "sink", "status"),
		SkippedLines:      collector.RegisterGauge("snapshot_skipped_lines", "Report lines already present in the base snapshot"),
		LastRunTimestamp:  collector.RegisterGauge("last_run_timestamp_seconds", "Unix time of the last run"),
		RunSuccess:        collector.RegisterGauge("last_run_success", "1 when the last run published, else 0"),
		collector:         collector,
	}
}

func (m *RunMetrics) RecordFetch(source, status string) {
	m.FetchResultsTotal.WithLabelValues(source, status).Inc()
}

// StartStage starts timing one pipeline stage.
func (m *RunMetrics) StartStage(stage string) DurationTimer {
	return NewTimer(m.StageDuration.WithLabelValues(stage))
}

func (m *RunMetrics) RecordPublish(sink string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.PublishTotal.WithLabelValues(sink, status).Inc()
}

func (m *RunMetrics) RecordReport(newsLawsuits, dockets, documents, highRisk, skipped int) {
	m.ReportRecords.WithLabelValues(KindNewsLawsuits).Set(float64(newsLawsuits))
	m.ReportRecords.WithLabelValues(KindDockets).Set(float64(dockets))
	m.ReportRecords.WithLabelValues(KindDocuments).Set(float64(documents))
	m.ReportRecords.WithLabelValues(KindHighRiskDockets).Set(float64(highRisk))
	m.SkippedLines.WithLabelValues().Set(float64(skipped))
}

func (m *RunMetrics) RecordRunEnd(success bool) {
	m.LastRunTimestamp.WithLabelValues().SetToCurrentTime()
	v := 0.0
	if success {
		v = 1
	}
	m.RunSuccess.WithLabelValues().Set(v)
}

// Push replaces the job's series on the Pushgateway at url.
func (m *RunMetrics) Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).Gatherer(m.collector.Gatherer()).PushContext(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "pushgateway push failed").WithDetail(url)
	}
	return nil
}

//Personal.AI order the ending
