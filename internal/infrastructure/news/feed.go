// Package news collects lawsuit coverage from RSS/Atom feeds and turns it into
// news-derived lawsuits.
package news

import (
	"context"
	"html"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
)

// Article is one feed item.
type Article struct {
	Title     string
	Link      string
	Summary   string
	Source    string
	Published time.Time
}

// FeedParser is the subset of *gofeed.Parser used by Fetcher.
type FeedParser interface {
	ParseURLWithContext(feedURL string, ctx context.Context) (*gofeed.Feed, error)
}

// Fetcher reads a fixed list of feeds.
type Fetcher struct {
	parser  FeedParser
	feeds   []string
	timeout time.Duration
	logger  logging.Logger
}

// NewFetcher creates a Fetcher backed by gofeed.
func NewFetcher(cfg config.NewsConfig, userAgent string, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	p := gofeed.NewParser()
	p.UserAgent = userAgent
	p.Client = &http.Client{Timeout: cfg.Timeout}
	return &Fetcher{
		parser:  p,
		feeds:   append([]string(nil), cfg.Feeds...),
		timeout: cfg.Timeout,
		logger:  logger.Named("news"),
	}
}

// NewFetcherWithParser is NewFetcher with an injected parser.
func NewFetcherWithParser(parser FeedParser, feeds []string, timeout time.Duration, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Fetcher{parser: parser, feeds: feeds, timeout: timeout, logger: logger.Named("news")}
}

// Fetch returns the articles published at or after since, newest first and
// de-duplicated by link.  A feed that cannot be read is logged and skipped.
func (f *Fetcher) Fetch(ctx context.Context, since time.Time) []Article {
	seen := make(map[string]bool)
	var out []Article
	for _, u := range f.feeds {
		items := f.fetchOne(ctx, u)
		for _, a := range items {
			if !since.IsZero() && a.Published.Before(since) {
				continue
			}
			key := a.Link
			if key == "" {
				key = a.Title
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Published.After(out[j].Published) })
	f.logger.Info("news collected", logging.Int("feeds", len(f.feeds)), logging.Int("articles", len(out)))
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, feedURL string) []Article {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		f.logger.Warn("feed fetch failed", logging.String("feed", feedURL), logging.Err(err))
		return nil
	}

	out := make([]Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		a := Article{
			Title:   strings.TrimSpace(it.Title),
			Link:    strings.TrimSpace(it.Link),
			Summary: stripTags(it.Description),
			Source:  feed.Title,
		}
		switch {
		case it.PublishedParsed != nil:
			a.Published = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			a.Published = *it.UpdatedParsed
		}
		if a.Title == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// stripTags reduces a feed description to its visible text.  Every element
// ends with a space so adjacent blocks do not run together.
func stripTags(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find("body *").AppendHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}

//Personal.AI order the ending
