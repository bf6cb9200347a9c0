// Package github is the issue-tracker side of publishing: it keeps one issue
// per day, stores the base snapshot in the issue body and appends each run's
// report as a comment.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/pkg/client"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

const (
	apiVersion     = "2022-11-28"
	listPageSize   = 50
	newIssueBody   = "자동 수집 리포트가 댓글로 누적됩니다."
	closingComment = "다음 리포트: #%d (%s)\n\n이 이슈는 다음 리포트 생성으로 자동 종료되었습니다."
)

// Issue is the subset of the GitHub issue resource the monitor reads.
type Issue struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	State       string          `json:"state"`
	HTMLURL     string          `json:"html_url"`
	PullRequest *struct{}       `json:"pull_request,omitempty"`
	Labels      []issueLabelRef `json:"labels,omitempty"`
}

type issueLabelRef struct {
	Name string `json:"name"`
}

// Comment is a created issue comment.
type Comment struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// Client talks to the issues API of one repository.
type Client struct {
	http    *client.Client
	owner   string
	repo    string
	webBase string
	logger  logging.Logger
}

// NewClient creates a Client for cfg.Owner/cfg.Repo.
func NewClient(cfg config.GitHubConfig, logger logging.Logger, opts ...client.Option) (*Client, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New(errors.ErrCodeMissingConfig, "github: owner and repo are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	base := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithAuthorization("Bearer", cfg.Token),
		client.WithHeader("Accept", "application/vnd.github+json"),
		client.WithHeader("X-GitHub-Api-Version", apiVersion),
		client.WithLogger(logger),
	}
	hc, err := client.New(cfg.APIBaseURL, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	web := strings.TrimRight(cfg.WebBaseURL, "/")
	if web == "" {
		web = config.DefaultGitHubWebURL
	}
	return &Client{
		http:    hc,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		webBase: web,
		logger:  logger.Named("github"),
	}, nil
}

func (c *Client) issuesPath() string {
	return fmt.Sprintf("/repos/%s/%s/issues", url.PathEscape(c.owner), url.PathEscape(c.repo))
}

func (c *Client) issuePath(number int) string {
	return fmt.Sprintf("%s/%d", c.issuesPath(), number)
}

func wrap(err error, msg string, number int) error {
	if err == nil {
		return nil
	}
	e := errors.Wrap(err, errors.ErrCodeIssueTrackerFailed, msg)
	if number > 0 {
		e = e.WithDetail(fmt.Sprintf("issue=#%d", number))
	}
	return e
}

// IssueURL is the browser URL of an issue.
func (c *Client) IssueURL(number int) string {
	return fmt.Sprintf("%s/%s/%s/issues/%d", c.webBase, c.owner, c.repo, number)
}

// GetIssueBody returns the issue body; a null body reads as "".
func (c *Client) GetIssueBody(ctx context.Context, number int) (string, error) {
	var issue Issue
	if err := c.http.Get(ctx, c.issuePath(number), nil, &issue); err != nil {
		return "", wrap(err, "get issue failed", number)
	}
	return issue.Body, nil
}

// UpdateIssueBody replaces the issue body.
func (c *Client) UpdateIssueBody(ctx context.Context, number int, body string) error {
	err := c.http.Patch(ctx, c.issuePath(number), map[string]string{"body": body}, nil)
	return wrap(err, "update issue body failed", number)
}

// ListOpenIssuesByLabel returns the first page of open issues carrying label.
// Pull requests are skipped.
func (c *Client) ListOpenIssuesByLabel(ctx context.Context, label string) ([]Issue, error) {
	q := url.Values{
		"state":    {"open"},
		"labels":   {label},
		"per_page": {fmt.Sprint(listPageSize)},
	}
	var raw []Issue
	if err := c.http.Get(ctx, c.issuesPath(), q, &raw); err != nil {
		return nil, wrap(err, "list issues failed", 0)
	}
	out := raw[:0]
	for _, is := range raw {
		if is.PullRequest == nil {
			out = append(out, is)
		}
	}
	return out, nil
}

// FindOrCreateIssue returns the open issue titled title with label, creating
// it when none exists.
func (c *Client) FindOrCreateIssue(ctx context.Context, title, label string) (Issue, error) {
	open, err := c.ListOpenIssuesByLabel(ctx, label)
	if err != nil {
		return Issue{}, err
	}
	for _, is := range open {
		if is.Title == title {
			c.logger.Debug("reusing issue", logging.Int("number", is.Number))
			return is, nil
		}
	}

	req := map[string]interface{}{
		"title":  title,
		"body":   newIssueBody,
		"labels": []string{label},
	}
	var created Issue
	if err := c.http.Post(ctx, c.issuesPath(), req, &created); err != nil {
		return Issue{}, wrap(err, "create issue failed", 0)
	}
	c.logger.Info("issue created", logging.Int("number", created.Number), logging.String("title", title))
	return created, nil
}

// CreateComment appends a comment to an issue.
func (c *Client) CreateComment(ctx context.Context, number int, body string) (Comment, error) {
	var out Comment
	err := c.http.Post(ctx, c.issuePath(number)+"/comments", map[string]string{"body": body}, &out)
	return out, wrap(err, "create comment failed", number)
}

// CloseIssue sets an issue's state to closed.
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	err := c.http.Patch(ctx, c.issuePath(number), map[string]string{"state": "closed"}, nil)
	return wrap(err, "close issue failed", number)
}

// CommentAndClose posts comment and then closes the issue.
func (c *Client) CommentAndClose(ctx context.Context, number int, comment string) error {
	if _, err := c.CreateComment(ctx, number, comment); err != nil {
		return err
	}
	return c.CloseIssue(ctx, number)
}

// IsDailyTitle reports whether title has the form "<base> (<anything>)".
func IsDailyTitle(title, base string) bool {
	return strings.HasPrefix(title, base+" (") && strings.HasSuffix(title, ")")
}

// CloseOtherDailyIssues closes every open labelled daily issue except current,
// leaving a pointer comment to current.  It returns the closed numbers.
func (c *Client) CloseOtherDailyIssues(ctx context.Context, base, label string, current Issue) ([]int, error) {
	open, err := c.ListOpenIssuesByLabel(ctx, label)
	if err != nil {
		return nil, err
	}
	link := current.HTMLURL
	if link == "" {
		link = c.IssueURL(current.Number)
	}

	var closed []int
	for _, is := range open {
		if is.Number == current.Number || is.Title == current.Title || !IsDailyTitle(is.Title, base) {
			continue
		}
		if err := c.CommentAndClose(ctx, is.Number, fmt.Sprintf(closingComment, current.Number, link)); err != nil {
			return closed, err
		}
		c.logger.Info("previous issue closed", logging.Int("number", is.Number), logging.Int("next", current.Number))
		closed = append(closed, is.Number)
	}
	return closed, nil
}

//Personal.AI order the ending
