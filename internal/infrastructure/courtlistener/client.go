// Package courtlistener reads dockets, parties, filed documents and docket
// entries from the CourtListener REST API (v4).  Every read returns a
// client.FetchResult: 401, 403 and 404 are "not found", anything else that is
// not 2xx is "failed".
package courtlistener

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/pkg/client"
)

const (
	searchPath        = "/api/rest/v4/search/"
	docketPath        = "/api/rest/v4/dockets/%d/"
	docketsPath       = "/api/rest/v4/dockets/"
	recapDocumentPath = "/api/rest/v4/recap-documents/"
	partiesPath       = "/api/rest/v4/parties/"
	docketEntriesPath = "/api/rest/v4/docket-entries/"

	partiesPageSize   = 200
	documentsPageSize = 50
	entriesPageSize   = 20
	titlePageSize     = 5
)

// page is the envelope of every list endpoint.
type page struct {
	Count   interface{}         `json:"count"`
	Next    string              `json:"next"`
	Results []litigation.Record `json:"results"`
}

// Client is a thin CourtListener adapter.
type Client struct {
	http   *client.Client
	logger logging.Logger
}

// NewClient builds a Client from cfg.  A blank token sends anonymous requests.
func NewClient(cfg config.CourtListenerConfig, logger logging.Logger, opts ...client.Option) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	base := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithUserAgent(cfg.UserAgent),
		client.WithAuthorization("Token", strings.TrimSpace(cfg.Token)),
		client.WithLogger(logger),
	}
	hc, err := client.New(cfg.BaseURL, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, logger: logger.Named("courtlistener")}, nil
}

// BaseURL is the site root used to absolutise relative links.
func (c *Client) BaseURL() string { return c.http.BaseURL() }

func (c *Client) list(ctx context.Context, op, path string, q url.Values) client.FetchResult[[]litigation.Record] {
	var p page
	res := client.Classify(&p, c.http.Get(ctx, path, q, &p))
	c.logResult(op, res.Status, res.Err)
	if !res.OK() {
		return client.FetchResult[[]litigation.Record]{Status: res.Status, Err: res.Err}
	}
	return client.Found(p.Results)
}

func (c *Client) logResult(op string, status client.FetchStatus, err error) {
	switch status {
	case client.StatusNotFound:
		c.logger.Debug("no result", logging.String("op", op), logging.Err(err))
	case client.StatusFailed:
		c.logger.Warn("fetch failed", logging.String("op", op), logging.Err(err))
	}
}

// Search runs a RECAP full-text search for dockets filed on or after since
// and returns at most max hits, newest first.
func (c *Client) Search(ctx context.Context, query string, since time.Time, max int) client.FetchResult[[]litigation.Record] {
	q := url.Values{
		"q":        {query},
		"type":     {"r"},
		"order_by": {"dateFiled desc"},
	}
	if !since.IsZero() {
		q.Set("filed_after", since.Format("2006-01-02"))
	}
	res := c.list(ctx, "search", searchPath, q)
	if res.OK() && max > 0 && len(res.Value) > max {
		res.Value = res.Value[:max]
	}
	return res
}

// Docket reads one docket.
func (c *Client) Docket(ctx context.Context, id int64) client.FetchResult[litigation.Record] {
	var rec litigation.Record
	res := client.Classify(rec, c.http.Get(ctx, fmt.Sprintf(docketPath, id), nil, &rec))
	c.logResult("docket", res.Status, res.Err)
	if res.OK() {
		res.Value = rec
	}
	return res
}

// DocketsByNumber lists dockets whose docket number equals number.
func (c *Client) DocketsByNumber(ctx context.Context, number string) client.FetchResult[[]litigation.Record] {
	return c.list(ctx, "dockets_by_number", docketsPath, url.Values{"docket_number": {strings.TrimSpace(number)}})
}

// DocketsByTitle searches RECAP by case name and returns the best hits.
func (c *Client) DocketsByTitle(ctx context.Context, title string) client.FetchResult[[]litigation.Record] {
	q := url.Values{
		"q":    {fmt.Sprintf("caseName:(%s)", quoteTitle(title))},
		"type": {"r"},
	}
	res := c.list(ctx, "dockets_by_title", searchPath, q)
	if res.OK() && len(res.Value) > titlePageSize {
		res.Value = res.Value[:titlePageSize]
	}
	return res
}

// quoteTitle turns "Andersen v. Stability AI" into a phrase query on the
// two party names, which survives abbreviations such as "Ltd." or "Inc.".
func quoteTitle(title string) string {
	title = strings.NewReplacer(`"`, " ", "(", " ", ")", " ").Replace(title)
	parts := splitVersus(title)
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			quoted = append(quoted, strconv.Quote(p))
		}
	}
	return strings.Join(quoted, " AND ")
}

func splitVersus(title string) []string {
	lower := strings.ToLower(title)
	for _, sep := range []string{" v. ", " vs. ", " v ", " vs "} {
		if i := strings.Index(lower, sep); i >= 0 {
			return []string{title[:i], title[i+len(sep):]}
		}
	}
	return []string{title}
}

// Parties lists the parties of a docket.
func (c *Client) Parties(ctx context.Context, docketID int64) client.FetchResult[[]litigation.Record] {
	return c.list(ctx, "parties", partiesPath, url.Values{
		"docket":    {strconv.FormatInt(docketID, 10)},
		"page_size": {strconv.Itoa(partiesPageSize)},
	})
}

// RecapDocuments lists the filed documents of a docket.
func (c *Client) RecapDocuments(ctx context.Context, docketID int64) client.FetchResult[[]litigation.Record] {
	return c.list(ctx, "recap_documents", recapDocumentPath, url.Values{
		"docket":    {strconv.FormatInt(docketID, 10)},
		"page_size": {strconv.Itoa(documentsPageSize)},
	})
}

// DocketEntries lists the newest docket entries of a docket.
func (c *Client) DocketEntries(ctx context.Context, docketID int64) client.FetchResult[[]litigation.Record] {
	return c.list(ctx, "docket_entries", docketEntriesPath, url.Values{
		"docket":    {strconv.FormatInt(docketID, 10)},
		"page_size": {strconv.Itoa(entriesPageSize)},
		"order_by":  {"-date_filed"},
	})
}

//Personal.AI order the ending
