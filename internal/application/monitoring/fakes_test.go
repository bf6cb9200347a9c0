package monitoring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/github"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/news"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/lawsuit-monitor/pkg/client"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Record source
// ─────────────────────────────────────────────────────────────────────────────

type fakeRecords struct {
	searches  map[string]client.FetchResult[[]litigation.Record]
	dockets   map[int64]client.FetchResult[litigation.Record]
	byNumber  map[string][]litigation.Record
	byTitle   map[string][]litigation.Record
	parties   map[int64][]litigation.Record
	documents map[int64][]litigation.Record
	entries   map[int64][]litigation.Record

	calls []string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		searches:  map[string]client.FetchResult[[]litigation.Record]{},
		dockets:   map[int64]client.FetchResult[litigation.Record]{},
		byNumber:  map[string][]litigation.Record{},
		byTitle:   map[string][]litigation.Record{},
		parties:   map[int64][]litigation.Record{},
		documents: map[int64][]litigation.Record{},
		entries:   map[int64][]litigation.Record{},
	}
}

func (f *fakeRecords) BaseURL() string { return "https://cl.test" }

func (f *fakeRecords) Search(_ context.Context, q string, _ time.Time, _ int) client.FetchResult[[]litigation.Record] {
	f.calls = append(f.calls, "search:"+q)
	if r, ok := f.searches[q]; ok {
		return r
	}
	return client.Found[[]litigation.Record](nil)
}

func (f *fakeRecords) Docket(_ context.Context, id int64) client.FetchResult[litigation.Record] {
	f.calls = append(f.calls, fmt.Sprintf("docket:%d", id))
	if r, ok := f.dockets[id]; ok {
		return r
	}
	return client.NotFound[litigation.Record](errors.NotFound("docket"))
}

func (f *fakeRecords) DocketsByNumber(_ context.Context, n string) client.FetchResult[[]litigation.Record] {
	f.calls = append(f.calls, "number:"+n)
	return client.Found(f.byNumber[n])
}

func (f *fakeRecords) DocketsByTitle(_ context.Context, t string) client.FetchResult[[]litigation.Record] {
	f.calls = append(f.calls, "title:"+t)
	return client.Found(f.byTitle[t])
}

func (f *fakeRecords) Parties(_ context.Context, id int64) client.FetchResult[[]litigation.Record] {
	return client.Found(f.parties[id])
}

func (f *fakeRecords) RecapDocuments(_ context.Context, id int64) client.FetchResult[[]litigation.Record] {
	return client.Found(f.documents[id])
}

func (f *fakeRecords) DocketEntries(_ context.Context, id int64) client.FetchResult[[]litigation.Record] {
	return client.Found(f.entries[id])
}

func (f *fakeRecords) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// News, extraction, metrics
// ─────────────────────────────────────────────────────────────────────────────

type fakeNews struct {
	articles []news.Article
	since    time.Time
}

func (f *fakeNews) Fetch(_ context.Context, since time.Time) []news.Article {
	f.since = since
	return f.articles
}

type fakeLawsuits struct {
	lawsuits []litigation.Lawsuit
	got      []news.Article
}

func (f *fakeLawsuits) BuildLawsuits(articles []news.Article, _ time.Time, _ int, _ *time.Location) []litigation.Lawsuit {
	f.got = articles
	return f.lawsuits
}

type fakeExtractor struct {
	texts map[string]string
	calls map[string]int
}

func (f *fakeExtractor) Extract(_ context.Context, u string, _ int) string {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[u]++
	return f.texts[u]
}

type fakeMetrics struct {
	mu       sync.Mutex
	fetches  map[string]int
	publish  map[string]int
	stages   []string
	report   []int
	runEnded []bool
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{fetches: map[string]int{}, publish: map[string]int{}}
}

func (m *fakeMetrics) RecordFetch(source, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[source+"/"+status]++
}

func (m *fakeMetrics) StartStage(stage string) prometheus.DurationTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, stage)
	return prometheus.NewTimer(nil)
}

func (m *fakeMetrics) RecordPublish(sink string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.publish[sink+"/"+status]++
}

func (m *fakeMetrics) RecordReport(news, dockets, documents, highRisk, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.report = []int{news, dockets, documents, highRisk, skipped}
}

func (m *fakeMetrics) RecordRunEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runEnded = append(m.runEnded, success)
}

// ─────────────────────────────────────────────────────────────────────────────
// Publish collaborators
// ─────────────────────────────────────────────────────────────────────────────

type fakeTracker struct {
	issue    github.Issue
	body     string
	comments []string
	updates  []string
	closed   []int

	findErr    error
	commentErr error
	calls      int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{body: "자동 수집 리포트가 댓글로 누적됩니다."}
}

func (f *fakeTracker) FindOrCreateIssue(_ context.Context, title, _ string) (github.Issue, error) {
	f.calls++
	if f.findErr != nil {
		return github.Issue{}, f.findErr
	}
	if f.issue.Number == 0 {
		f.issue = github.Issue{Number: 7, Title: title, State: "open"}
	}
	return f.issue, nil
}

func (f *fakeTracker) GetIssueBody(context.Context, int) (string, error) {
	f.calls++
	return f.body, nil
}

func (f *fakeTracker) UpdateIssueBody(_ context.Context, _ int, body string) error {
	f.calls++
	f.updates = append(f.updates, body)
	f.body = body
	return nil
}

func (f *fakeTracker) CreateComment(_ context.Context, n int, body string) (github.Comment, error) {
	f.calls++
	if f.commentErr != nil {
		return github.Comment{}, f.commentErr
	}
	f.comments = append(f.comments, body)
	return github.Comment{ID: int64(len(f.comments)), HTMLURL: fmt.Sprintf("https://github.com/o/r/issues/%d#issuecomment-%d", n, len(f.comments))}, nil
}

func (f *fakeTracker) CloseOtherDailyIssues(context.Context, string, string, github.Issue) ([]int, error) {
	f.calls++
	return f.closed, nil
}

func (f *fakeTracker) IssueURL(n int) string {
	return fmt.Sprintf("https://github.com/o/r/issues/%d", n)
}

type fakeNotifier struct {
	texts  []string
	colors []string
	err    error
}

func (f *fakeNotifier) Post(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	f.colors = append(f.colors, "")
	return f.err
}

func (f *fakeNotifier) PostWithColor(_ context.Context, text, color string) error {
	f.texts = append(f.texts, text)
	f.colors = append(f.colors, color)
	return f.err
}

type fakeEvents struct {
	payloads []kafka.ReportPublishedPayload
	err      error
}

func (f *fakeEvents) PublishReport(_ context.Context, p kafka.ReportPublishedPayload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

type fakeArchive struct {
	requests  []*minio.ArchiveRequest
	stored    map[string]bool
	lookups   []string
	err       error
	lookupErr error
}

func (f *fakeArchive) Archive(_ context.Context, req *minio.ArchiveRequest) (*minio.UploadResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &minio.UploadResult{Bucket: "b", ObjectKey: minio.ObjectKey(req.RunAt, req.IssueNumber)}, nil
}

func (f *fakeArchive) Exists(_ context.Context, key string) (bool, error) {
	f.lookups = append(f.lookups, key)
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	return f.stored[key], nil
}

//Personal.AI order the ending
