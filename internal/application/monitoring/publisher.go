package monitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/application/reporting"
	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/github"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/slack"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// IssueTracker stores the daily report issue.  *github.Client implements it.
type IssueTracker interface {
	FindOrCreateIssue(ctx context.Context, title, label string) (github.Issue, error)
	GetIssueBody(ctx context.Context, number int) (string, error)
	UpdateIssueBody(ctx context.Context, number int, body string) error
	CreateComment(ctx context.Context, number int, body string) (github.Comment, error)
	CloseOtherDailyIssues(ctx context.Context, base, label string, current github.Issue) ([]int, error)
	IssueURL(number int) string
}

// Notifier posts the chat summary.  *slack.Webhook implements it.
type Notifier interface {
	Post(ctx context.Context, text string) error
	PostWithColor(ctx context.Context, text, color string) error
}

// RunLocker serialises publishing across overlapping runs.
type RunLocker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// EventPublisher emits a report event.  *kafka.Producer implements it.
type EventPublisher interface {
	PublishReport(ctx context.Context, payload kafka.ReportPublishedPayload) error
}

// Sink labels used in logs and metrics.
const (
	SinkIssue   = "issue"
	SinkSlack   = "slack"
	SinkArchive = "archive"
	SinkEvents  = "events"
)

// SlackTopDocuments is how many recent documents the chat summary lists.
const SlackTopDocuments = 3

// PublisherConfig holds the dependencies and parameters of a Publisher.
// Lock, Events and Archive are optional.
type PublisherConfig struct {
	Issues   IssueTracker
	Notifier Notifier
	Lock     RunLocker
	Events   EventPublisher
	Archive  minio.ReportArchive
	Metrics  MetricsRecorder
	Logger   logging.Logger

	TitleBase string
	Label     string
	Location  *time.Location
}

// Publisher posts a Report to the daily issue and the chat channel.
type Publisher struct {
	issues   IssueTracker
	notifier Notifier
	lock     RunLocker
	events   EventPublisher
	archive  minio.ReportArchive
	metrics  MetricsRecorder
	logger   logging.Logger

	titleBase string
	label     string
	loc       *time.Location
}

// Outcome describes a finished publish.
type Outcome struct {
	Issue        github.Issue
	IssueURL     string
	CommentURL   string
	BaseSnapshot bool
	Skipped      int
	Closed       []int
	ArchiveKey   string
}

// NewPublisher validates cfg and builds a Publisher.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Issues == nil {
		return nil, errors.InvalidParam("publisher requires an issue tracker")
	}
	if cfg.Notifier == nil {
		return nil, errors.InvalidParam("publisher requires a notifier")
	}
	if strings.TrimSpace(cfg.TitleBase) == "" {
		return nil, errors.InvalidParam("publisher requires an issue title base")
	}
	p := &Publisher{
		issues:    cfg.Issues,
		notifier:  cfg.Notifier,
		lock:      cfg.Lock,
		events:    cfg.Events,
		archive:   cfg.Archive,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		titleBase: cfg.TitleBase,
		label:     cfg.Label,
		loc:       cfg.Location,
	}
	if p.metrics == nil {
		p.metrics = nopRecorder{}
	}
	if p.logger == nil {
		p.logger = logging.NewNopLogger()
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	return p, nil
}

// DailyTitle is the issue title of the day t falls on.
func DailyTitle(base string, t time.Time) string {
	return fmt.Sprintf("%s (%s)", base, t.Format("2006-01-02"))
}

// Publish stores r in the day's issue, closes earlier daily issues, and
// posts the chat summary.  The first report of the day becomes the issue
// body; later ones are posted as a diff against it.
func (p *Publisher) Publish(ctx context.Context, r *Report) (*Outcome, error) {
	if r == nil {
		return nil, errors.InvalidParam("report must not be nil")
	}

	if p.lock != nil {
		ok, err := p.lock.TryLock(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeRunLocked, "another run is publishing")
		}
		defer func() {
			if err := p.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				p.logger.Warn("run lock release failed", logging.Err(err))
			}
		}()
	}

	out, err := p.publishIssue(ctx, r)
	p.metrics.RecordPublish(SinkIssue, err)
	if err != nil {
		return nil, err
	}

	err = p.notify(ctx, r, out)
	p.metrics.RecordPublish(SinkSlack, err)
	if err != nil {
		return out, err
	}

	p.publishOptional(ctx, r, out)
	p.metrics.RecordReport(r.Counts.NewsLawsuits, r.Counts.Dockets, r.Counts.Documents, r.Counts.HighRiskDockets, out.Skipped)
	return out, nil
}

func (p *Publisher) publishIssue(ctx context.Context, r *Report) (*Outcome, error) {
	title := DailyTitle(p.titleBase, r.RunAt.In(p.loc))

	// Step 1: the day's issue.
	issue, err := p.issues.FindOrCreateIssue(ctx, title, p.label)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Issue: issue, IssueURL: p.issues.IssueURL(issue.Number)}

	// Step 2: compare against the base snapshot.
	body, err := p.issues.GetIssueBody(ctx, issue.Number)
	if err != nil {
		return nil, err
	}
	diff := reporting.Compare(body, r.Markdown, r.Counts)
	out.BaseSnapshot = diff.Base
	out.Skipped = diff.Skipped

	if diff.Base && r.RenderErr == nil {
		if err := p.issues.UpdateIssueBody(ctx, issue.Number, r.Markdown); err != nil {
			return nil, err
		}
		p.logger.Info("base snapshot stored", logging.Int("issue", issue.Number))
	} else if !diff.Base {
		p.logger.Info("report compared with base snapshot",
			logging.Int("issue", issue.Number),
			logging.Int("skipped_lines", diff.Skipped),
			logging.Int("kept_lines", len(reporting.KeptLines(diff))))
	}

	// Step 3: close earlier daily issues.
	closed, err := p.issues.CloseOtherDailyIssues(ctx, p.titleBase, p.label, issue)
	if err != nil {
		return nil, err
	}
	out.Closed = closed
	if len(closed) > 0 {
		p.logger.Info("previous daily issues closed", logging.Any("issues", closed))
	}

	// Step 4: the report comment.
	comment, err := p.issues.CreateComment(ctx, issue.Number, "\n\n"+diff.Body)
	if err != nil {
		return nil, err
	}
	out.CommentURL = comment.HTMLURL
	p.logger.Info("report comment posted",
		logging.Int("issue", issue.Number),
		logging.String("comment_url", comment.HTMLURL))
	return out, nil
}

// SlackSummary is the chat message for a published report.
func SlackSummary(r *Report, out *Outcome) string {
	lines := []string{
		"*AI 소송 모니터링 업데이트*",
		fmt.Sprintf("- 📰 신규 기사: %d건", r.Counts.NewsLawsuits),
		fmt.Sprintf("- ⚖️ 신규 RECAP 사건: %d건", r.Counts.Dockets),
		fmt.Sprintf("- 🔁 기존 내용 생략: %d건", out.Skipped),
		fmt.Sprintf("- 👉 GitHub Issue: <%s|#%d>", out.IssueURL, out.Issue.Number),
	}
	if len(r.Documents) > 0 {
		docs := append([]litigation.Document(nil), r.Documents...)
		litigation.SortDocuments(docs)
		if len(docs) > SlackTopDocuments {
			docs = docs[:SlackTopDocuments]
		}
		lines = append(lines, "- 최신 RECAP 문서:")
		for _, d := range docs {
			lines = append(lines, fmt.Sprintf("  • %s | %s", d.DateFiled, d.CaseName))
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Publisher) notify(ctx context.Context, r *Report, out *Outcome) error {
	text := SlackSummary(r, out)
	if r.RenderErr != nil {
		return p.notifier.PostWithColor(ctx, text+"\n- ⚠️ 리포트 생성 실패", slack.ColorWarning)
	}
	return p.notifier.Post(ctx, text)
}

// publishOptional feeds the archive and event sinks.  Their failures are
// logged and counted but do not fail the run.
func (p *Publisher) publishOptional(ctx context.Context, r *Report, out *Outcome) {
	if p.archive != nil {
		p.archiveReport(ctx, r, out)
	}

	if p.events != nil {
		err := p.events.PublishReport(ctx, kafka.ReportPublishedPayload{
			IssueNumber:     out.Issue.Number,
			IssueURL:        out.IssueURL,
			IssueTitle:      out.Issue.Title,
			BaseSnapshot:    out.BaseSnapshot,
			NewsLawsuits:    r.Counts.NewsLawsuits,
			Dockets:         r.Counts.Dockets,
			Documents:       r.Counts.Documents,
			HighRiskDockets: r.Counts.HighRiskDockets,
			SkippedLines:    out.Skipped,
			ArchiveKey:      out.ArchiveKey,
			PublishedAt:     r.RunAt,
		})
		p.metrics.RecordPublish(SinkEvents, err)
		if err != nil {
			p.logger.Warn("report event publish failed", logging.Err(err))
		}
	}
}

// archiveReport uploads the report unless its key is already stored.  A
// failed existence check falls through to the upload.
func (p *Publisher) archiveReport(ctx context.Context, r *Report, out *Outcome) {
	key := minio.ObjectKey(r.RunAt, out.Issue.Number)
	exists, err := p.archive.Exists(ctx, key)
	if err != nil {
		p.logger.Debug("archive lookup failed", logging.String("key", key), logging.Err(err))
	}
	if exists {
		p.logger.Info("report already archived", logging.String("key", key))
		out.ArchiveKey = key
		return
	}

	res, err := p.archive.Archive(ctx, &minio.ArchiveRequest{
		Markdown:    r.Markdown,
		IssueTitle:  out.Issue.Title,
		IssueNumber: out.Issue.Number,
		RunAt:       r.RunAt,
	})
	p.metrics.RecordPublish(SinkArchive, err)
	if err != nil {
		p.logger.Warn("report archive failed", logging.Err(err))
		return
	}
	out.ArchiveKey = res.ObjectKey
}

//Personal.AI order the ending
