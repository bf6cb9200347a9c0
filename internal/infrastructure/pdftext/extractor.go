// Package pdftext fetches filed documents and extracts their plain text.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pbberlin/pdf"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
)

const (
	defaultMaxBytes = 20 << 20
	defaultMaxPages = 8
	defaultTimeout  = 25 * time.Second

	wordGapRatio = 0.15
)

var pdfMagic = []byte("%PDF")

// Extractor downloads a document and returns its leading text.  Every
// failure yields "" and a debug log line.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	token      string
	maxBytes   int64
	maxPages   int
	logger     logging.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

func WithHTTPClient(c *http.Client) Option { return func(e *Extractor) { e.httpClient = c } }
func WithUserAgent(ua string) Option       { return func(e *Extractor) { e.userAgent = ua } }
func WithLogger(l logging.Logger) Option   { return func(e *Extractor) { e.logger = l } }
func WithMaxPages(n int) Option            { return func(e *Extractor) { e.maxPages = n } }

// WithToken authorises downloads from the records site.
func WithToken(token string) Option { return func(e *Extractor) { e.token = token } }

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "lawsuit-monitor",
		maxBytes:   defaultMaxBytes,
		maxPages:   defaultMaxPages,
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns up to maxChars characters of the document at documentURL.
func (e *Extractor) Extract(ctx context.Context, documentURL string, maxChars int) string {
	text, err := e.extract(ctx, documentURL)
	if err != nil {
		e.logger.Debug("text extraction failed", logging.String("url", documentURL), logging.Err(err))
		return ""
	}
	return Truncate(text, maxChars)
}

func (e *Extractor) extract(ctx context.Context, documentURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.userAgent)
	if e.token != "" && strings.Contains(req.URL.Host, "courtlistener.com") {
		req.Header.Set("Authorization", "Token "+e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pdftext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return "", err
	}

	if bytes.HasPrefix(bytes.TrimLeft(body, " \r\n\t"), pdfMagic) {
		return ParsePDF(body, e.maxPages)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/plain" && utf8.Valid(body) {
		return string(body), nil
	}
	return "", fmt.Errorf("pdftext: unsupported content type %q", mediaType)
}

// ParsePDF returns the text of the first maxPages pages.  The parser panics on
// some malformed files; those panics become errors.
func ParsePDF(data []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdftext: malformed pdf: %v", r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdftext: open: %w", err)
	}

	var sb strings.Builder
	for j := 1; j <= rdr.NumPage() && j <= maxPages; j++ {
		page := rdr.Page(j)
		content, err := pageContent(&page)
		if err != nil {
			continue
		}
		sb.WriteString(joinFragments(content.Text))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// joinFragments lays out positioned text runs.  A change of baseline starts a
// new line and a horizontal gap wider than a fraction of the font size
// becomes a space.
func joinFragments(texts []pdf.Text) string {
	var sb strings.Builder
	for i, t := range texts {
		if i > 0 && t.S != "" {
			prev := texts[i-1]
			size := math.Max(math.Max(t.FontSize, prev.FontSize), 1)
			switch {
			case math.Abs(t.Y-prev.Y) > size/2:
				sb.WriteString("\n")
			case t.X-(prev.X+prev.W) > size*wordGapRatio && !endsWithSpace(sb.String()) && !strings.HasPrefix(t.S, " "):
				sb.WriteString(" ")
			}
		}
		sb.WriteString(t.S)
	}
	return sb.String()
}

func endsWithSpace(s string) bool {
	return s == "" || strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n")
}

func pageContent(p *pdf.Page) (cnt pdf.Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdftext: page content: %v", r)
		}
	}()
	return p.Content(), nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

//Personal.AI order the ending
