package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/application/monitoring"
	"github.com/turtacn/lawsuit-monitor/internal/application/reporting"
	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/courtlistener"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/database/redis"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/github"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/news"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/pdftext"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/slack"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

const (
	metricsNamespace = "lawsuit_monitor"
	runLockName      = "publish"
	pushTimeout      = 10 * time.Second
)

// closers releases the connections opened for optional sinks.
type closers []func() error

func (c closers) closeAll(logger logging.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			logger.Warn("close failed", logging.Err(err))
		}
	}
}

// newRunMetrics builds the run series on a private registry.
func newRunMetrics(logger logging.Logger) (*prometheus.RunMetrics, error) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: metricsNamespace,
	}, logger)
	if err != nil {
		return nil, err
	}
	return prometheus.NewRunMetrics(collector), nil
}

// newPipeline wires the collection sources and the renderer.
func newPipeline(cfg *config.Config, logger logging.Logger, metrics monitoring.MetricsRecorder) (*monitoring.Pipeline, error) {
	records, err := courtlistener.NewClient(cfg.CourtListener, logger)
	if err != nil {
		return nil, err
	}
	known, err := news.LoadKnownCases(cfg.News.KnownCasesFile)
	if err != nil {
		return nil, err
	}
	extractor := pdftext.New(
		pdftext.WithUserAgent(cfg.CourtListener.UserAgent),
		pdftext.WithToken(cfg.CourtListener.Token),
		pdftext.WithHTTPClient(&http.Client{Timeout: cfg.CourtListener.Timeout}),
		pdftext.WithLogger(logger.Named("pdftext")),
	)

	return monitoring.NewPipeline(monitoring.PipelineConfig{
		Records:         records,
		News:            news.NewFetcher(cfg.News, cfg.CourtListener.UserAgent, logger),
		Lawsuits:        news.NewMatcher(known),
		Extractor:       extractor,
		Renderer:        reporting.NewRenderer(cfg.Report),
		Metrics:         metrics,
		Logger:          logger,
		Queries:         cfg.CourtListener.Queries,
		MaxSearchHits:   cfg.CourtListener.MaxSearchHits,
		LookbackDays:    cfg.Report.LookbackDays,
		ExtractMaxChars: cfg.CourtListener.ExtractMaxChars,
		Location:        cfg.Location(),
	})
}

// newPublisher wires the issue tracker, the webhook and every configured
// optional sink.  A configured lock that cannot be reached is an error; an
// unreachable archive or broker is logged and left out.
func newPublisher(cfg *config.Config, logger logging.Logger, metrics monitoring.MetricsRecorder) (*monitoring.Publisher, closers, error) {
	var cl closers

	// Step 1: required sinks.
	issues, err := github.NewClient(cfg.GitHub, logger)
	if err != nil {
		return nil, nil, err
	}
	notifier, err := slack.NewWebhook(cfg.Slack, logger)
	if err != nil {
		return nil, nil, err
	}

	pc := monitoring.PublisherConfig{
		Issues:    issues,
		Notifier:  notifier,
		Metrics:   metrics,
		Logger:    logger,
		TitleBase: cfg.GitHub.IssueTitleBase,
		Label:     cfg.GitHub.IssueLabel,
		Location:  cfg.Location(),
	}

	// Step 2: run lock.
	if cfg.LockEnabled() {
		rc, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		cl = append(cl, rc.Close)
		pc.Lock = redis.NewRunLock(rc, runLockName, logger,
			redis.WithLockTTL(cfg.Redis.LockTTL),
			redis.WithWatchdog(true),
		)
	}

	// Step 3: report events.
	if cfg.EventsEnabled() {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			logger.Warn("report events disabled", logging.Err(err))
		} else {
			cl = append(cl, producer.Close)
			pc.Events = producer
		}
	}

	// Step 4: report archive.
	if cfg.ArchiveEnabled() {
		mc, err := minio.NewMinIOClient(cfg.MinIO, logger)
		if err != nil {
			logger.Warn("report archive disabled", logging.Err(err))
		} else {
			cl = append(cl, mc.Close)
			pc.Archive = minio.NewReportArchive(mc, logger)
		}
	}

	p, err := monitoring.NewPublisher(pc)
	if err != nil {
		cl.closeAll(logger)
		return nil, nil, err
	}
	return p, cl, nil
}

// pushMetrics sends the run series to the pushgateway when one is
// configured.  Failures are logged only.
func pushMetrics(ctx context.Context, cfg *config.Config, m *prometheus.RunMetrics, logger logging.Logger) {
	if !cfg.MetricsEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	if err := m.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn("metrics push failed", logging.Err(err), logging.String("url", cfg.Metrics.PushgatewayURL))
		return
	}
	logger.Debug("metrics pushed", logging.String("job", cfg.Metrics.Job))
}

// wrapRunError keeps AppError codes and classifies anything else as internal.
func wrapRunError(err error, message string) error {
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(err, code, message)
}

//Personal.AI order the ending
