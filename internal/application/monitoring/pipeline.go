// Package monitoring runs one monitor pass: collect dockets, documents and
// news lawsuits, render the report and publish it.
package monitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/application/reporting"
	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/news"
	"github.com/turtacn/lawsuit-monitor/pkg/client"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// RecordSource is the litigation-records API.
type RecordSource interface {
	BaseURL() string
	Search(ctx context.Context, query string, since time.Time, max int) client.FetchResult[[]litigation.Record]
	Docket(ctx context.Context, id int64) client.FetchResult[litigation.Record]
	DocketsByNumber(ctx context.Context, number string) client.FetchResult[[]litigation.Record]
	DocketsByTitle(ctx context.Context, title string) client.FetchResult[[]litigation.Record]
	Parties(ctx context.Context, docketID int64) client.FetchResult[[]litigation.Record]
	RecapDocuments(ctx context.Context, docketID int64) client.FetchResult[[]litigation.Record]
	DocketEntries(ctx context.Context, docketID int64) client.FetchResult[[]litigation.Record]
}

// NewsSource returns the articles published since a point in time.
type NewsSource interface {
	Fetch(ctx context.Context, since time.Time) []news.Article
}

// LawsuitBuilder groups articles into news lawsuits.
type LawsuitBuilder interface {
	BuildLawsuits(articles []news.Article, now time.Time, lookbackDays int, loc *time.Location) []litigation.Lawsuit
}

// MetricsRecorder receives run metrics.  *prometheus.RunMetrics implements it.
type MetricsRecorder interface {
	RecordFetch(source, status string)
	StartStage(stage string) prometheus.DurationTimer
	RecordPublish(sink string, err error)
	RecordReport(newsLawsuits, dockets, documents, highRisk, skipped int)
	RecordRunEnd(success bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordFetch(string, string)           {}
func (nopRecorder) RecordPublish(string, error)          {}
func (nopRecorder) RecordReport(int, int, int, int, int) {}
func (nopRecorder) RecordRunEnd(bool)                    {}

func (nopRecorder) StartStage(string) prometheus.DurationTimer {
	return prometheus.NewTimer(nil)
}

// Fetch path labels used in logs and metrics.
const (
	PathSearch    = "search"
	PathDocket    = "docket"
	PathNumber    = "docket_number"
	PathTitle     = "case_title"
	PathParties   = "parties"
	PathDocuments = "recap_documents"
	PathEntries   = "docket_entries"
)

// Report is the product of one pipeline run.
type Report struct {
	RunAt     time.Time
	Lawsuits  []litigation.Lawsuit
	Cases     []litigation.CaseSummary
	Documents []litigation.Document
	Counts    reporting.Counts
	// Markdown carries the run header.  On a render failure it is the
	// diagnostic and RenderErr is set.
	Markdown  string
	RenderErr error
}

// PipelineConfig holds the dependencies and parameters of a Pipeline.
type PipelineConfig struct {
	Records   RecordSource
	News      NewsSource
	Lawsuits  LawsuitBuilder
	Extractor litigation.TextExtractor
	Renderer  *reporting.Renderer
	Metrics   MetricsRecorder
	Logger    logging.Logger

	Queries         []string
	MaxSearchHits   int
	LookbackDays    int
	ExtractMaxChars int
	Location        *time.Location
	Now             func() time.Time
}

// Pipeline collects and renders one report.  It runs every call sequentially.
type Pipeline struct {
	records    RecordSource
	news       NewsSource
	lawsuits   LawsuitBuilder
	extractor  litigation.TextExtractor
	renderer   *reporting.Renderer
	metrics    MetricsRecorder
	logger     logging.Logger
	normalizer *litigation.Normalizer

	queries         []string
	maxSearchHits   int
	lookbackDays    int
	extractMaxChars int
	loc             *time.Location
	now             func() time.Time
}

// NewPipeline validates cfg and builds a Pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Records == nil {
		return nil, errors.InvalidParam("pipeline requires a record source")
	}
	if cfg.Renderer == nil {
		return nil, errors.InvalidParam("pipeline requires a renderer")
	}
	if cfg.LookbackDays < 1 {
		return nil, errors.InvalidParam("lookback days must be at least 1")
	}
	p := &Pipeline{
		records:         cfg.Records,
		news:            cfg.News,
		lawsuits:        cfg.Lawsuits,
		extractor:       cfg.Extractor,
		renderer:        cfg.Renderer,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		normalizer:      litigation.NewNormalizer(cfg.Records.BaseURL()),
		queries:         cfg.Queries,
		maxSearchHits:   cfg.MaxSearchHits,
		lookbackDays:    cfg.LookbackDays,
		extractMaxChars: cfg.ExtractMaxChars,
		loc:             cfg.Location,
		now:             cfg.Now,
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
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// RunHeader is the first line of every report.
func RunHeader(t time.Time) string {
	return fmt.Sprintf("### 실행 시각(KST): %s\n\n", t.Format("2006-01-02 15:04"))
}

// Run collects every source and renders the report.  Source failures are
// logged and skipped; Run only fails when ctx is done.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	now := p.now().In(p.loc)
	since := now.AddDate(0, 0, -p.lookbackDays)
	p.logger.Info("monitor run started",
		logging.Time("run_at", now),
		logging.Int("lookback_days", p.lookbackDays),
		logging.Int("queries", len(p.queries)))

	// Step 1: full-text search, deduplicated by URL and case name.
	timer := p.metrics.StartStage("search")
	hits := litigation.DedupHits(p.search(ctx, since))
	timer.ObserveDuration()

	// Step 2: news lawsuits and the lookups they seed.
	timer = p.metrics.StartStage("news")
	lawsuits := p.collectNews(ctx, now, since)
	numbers := unique(litigation.DocketNumbers(lawsuits))
	titles := unique(litigation.CaseTitles(lawsuits))
	timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "monitor run cancelled")
	}

	// Step 3: case summaries per fetch path, merged search, number, title.
	timer = p.metrics.StartStage("dockets")
	hitCases := p.casesFromHits(ctx, hits, PathSearch)
	numberCases := p.casesFromNumbers(ctx, numbers)
	titleCases := p.casesFromTitles(ctx, titles)
	cases := litigation.MergeCases(hitCases, numberCases, titleCases)
	timer.ObserveDuration()

	// Step 4: enrich each docket and collect its documents.
	timer = p.metrics.StartStage("documents")
	extractions := map[string]string{}
	hitDocs := p.documentsFromHits(ctx, hits, extractions)
	var docketDocs []litigation.Document
	for i := range cases {
		docs := p.enrich(ctx, &cases[i], hitDocs, extractions)
		docketDocs = append(docketDocs, docs...)
	}
	documents := litigation.MergeDocuments(hitDocs, docketDocs)
	timer.ObserveDuration()

	p.logger.Info("sources collected",
		logging.Int("search_hits", len(hits)),
		logging.Int("news_lawsuits", len(lawsuits)),
		logging.Int("docket_numbers", len(numbers)),
		logging.Int("case_titles", len(titles)),
		logging.Int("dockets", len(cases)),
		logging.Int("documents", len(documents)))

	// Step 5: render.
	timer = p.metrics.StartStage("render")
	in := reporting.Input{
		LookbackDays: p.lookbackDays,
		Lawsuits:     lawsuits,
		Cases:        cases,
		Documents:    documents,
	}
	res := p.renderer.Render(in)
	timer.ObserveDuration()
	if !res.OK() {
		p.logger.Error("report render failed", logging.Err(res.Err))
	}

	return &Report{
		RunAt:     now,
		Lawsuits:  lawsuits,
		Cases:     cases,
		Documents: documents,
		Counts:    reporting.CountsOf(in),
		Markdown:  RunHeader(now) + res.Markdown,
		RenderErr: res.Err,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fetch paths
// ─────────────────────────────────────────────────────────────────────────────

func (p *Pipeline) observe(path string, status client.FetchStatus, err error, detail string) {
	p.metrics.RecordFetch(path, status.String())
	if status == client.StatusFailed {
		p.logger.Warn("fetch failed",
			logging.String("path", path),
			logging.String("detail", detail),
			logging.Err(err))
	}
}

func (p *Pipeline) search(ctx context.Context, since time.Time) []litigation.Record {
	var hits []litigation.Record
	for _, q := range p.queries {
		res := p.records.Search(ctx, q, since, p.maxSearchHits)
		p.observe(PathSearch, res.Status, res.Err, q)
		hits = append(hits, res.ValueOr(nil)...)
	}
	return hits
}

func (p *Pipeline) collectNews(ctx context.Context, now, since time.Time) []litigation.Lawsuit {
	if p.news == nil || p.lawsuits == nil {
		return nil
	}
	articles := p.news.Fetch(ctx, since)
	return p.lawsuits.BuildLawsuits(articles, now, p.lookbackDays, p.loc)
}

// casesFromHits reads the docket behind each search hit.  A docket read that
// does not succeed falls back to the hit's own fields.
func (p *Pipeline) casesFromHits(ctx context.Context, hits []litigation.Record, path string) []litigation.CaseSummary {
	var out []litigation.CaseSummary
	for _, hit := range hits {
		id, ok := hit.DocketID()
		if !ok {
			p.logger.Debug("hit without docket id skipped", logging.String("path", path))
			continue
		}
		record := hit
		res := p.records.Docket(ctx, id)
		p.observe(PathDocket, res.Status, res.Err, fmt.Sprint(id))
		if res.OK() {
			record = res.Value
		}
		if c, ok := p.normalizer.CaseSummary(record); ok {
			out = append(out, c)
		} else if c, ok := p.normalizer.CaseSummary(hit); ok {
			out = append(out, c)
		}
	}
	return out
}

func (p *Pipeline) casesFromNumbers(ctx context.Context, numbers []string) []litigation.CaseSummary {
	var out []litigation.CaseSummary
	for _, n := range numbers {
		res := p.records.DocketsByNumber(ctx, n)
		p.observe(PathNumber, res.Status, res.Err, n)
		for _, r := range res.ValueOr(nil) {
			if c, ok := p.normalizer.CaseSummary(r); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// casesFromTitles searches each title and reads the dockets it finds the same
// way as search hits.
func (p *Pipeline) casesFromTitles(ctx context.Context, titles []string) []litigation.CaseSummary {
	var hits []litigation.Record
	for _, t := range titles {
		res := p.records.DocketsByTitle(ctx, t)
		p.observe(PathTitle, res.Status, res.Err, t)
		hits = append(hits, res.ValueOr(nil)...)
	}
	return p.casesFromHits(ctx, litigation.DedupHits(hits), PathTitle)
}

// ─────────────────────────────────────────────────────────────────────────────
// Documents and enrichment
// ─────────────────────────────────────────────────────────────────────────────

// documentsFromHits builds the documents nested in search hits, keeping the
// complaints of each hit or its newest filings.
func (p *Pipeline) documentsFromHits(ctx context.Context, hits []litigation.Record, extractions map[string]string) []litigation.Document {
	var out []litigation.Document
	for _, hit := range hits {
		parent, ok := p.normalizer.CaseSummary(hit)
		if !ok {
			continue
		}
		var docs []litigation.Document
		for _, r := range hit.NestedRecords("recap_documents") {
			docs = append(docs, p.normalizer.Document(r, parent))
		}
		for _, d := range litigation.SelectDocuments(docs) {
			out = append(out, p.extract(ctx, d, extractions))
		}
	}
	return out
}

// enrich fills the derived fields of c and returns the docket's selected
// documents.  hitDocs stand in when the docket's documents cannot be read.
func (p *Pipeline) enrich(ctx context.Context, c *litigation.CaseSummary, hitDocs []litigation.Document, extractions map[string]string) []litigation.Document {
	id := c.DocketID
	detail := fmt.Sprint(id)

	parties := p.records.Parties(ctx, id)
	p.observe(PathParties, parties.Status, parties.Err, detail)
	c.Parties = litigation.FormatParties(parties.ValueOr(nil))

	entries := p.records.DocketEntries(ctx, id)
	p.observe(PathEntries, entries.Status, entries.Err, detail)
	c.RecentUpdates = litigation.RecentUpdates(entries.ValueOr(nil))

	recap := p.records.RecapDocuments(ctx, id)
	p.observe(PathDocuments, recap.Status, recap.Err, detail)
	var docs []litigation.Document
	for _, r := range recap.ValueOr(nil) {
		docs = append(docs, p.normalizer.Document(r, *c))
	}
	selected := litigation.SelectDocuments(docs)
	for i := range selected {
		selected[i] = p.extract(ctx, selected[i], extractions)
	}

	candidates := selected
	if len(candidates) == 0 {
		for _, d := range hitDocs {
			if d.DocketID == id {
				candidates = append(candidates, d)
			}
		}
	}
	for _, d := range candidates {
		if litigation.IsComplaint(d.Description) {
			litigation.ApplyComplaint(c, d)
			break
		}
	}

	c.RiskScore = litigation.ScoreCase(*c)
	return selected
}

// extract fills a document's extracted fields from its text and scores it.
// Texts are cached per URL for the run.
func (p *Pipeline) extract(ctx context.Context, d litigation.Document, cache map[string]string) litigation.Document {
	if p.extractor != nil {
		if u := documentURL(d); u != "" {
			text, ok := cache[u]
			if !ok {
				text = p.extractor.Extract(ctx, u, p.extractMaxChars)
				cache[u] = text
			}
			litigation.ApplyText(&d, text)
		}
	}
	d.RiskScore = litigation.ScoreDocument(d)
	return d
}

// documentURL picks the URL most likely to serve the document itself.
func documentURL(d litigation.Document) string {
	for _, u := range []string{d.PDFURL, d.DocumentURL} {
		if litigation.LooksLikeDocument(u) {
			return u
		}
	}
	return ""
}

func unique(in []string) []string {
	return litigation.MergeBy(func(s string) string { return strings.ToLower(s) }, in)
}

//Personal.AI order the ending
