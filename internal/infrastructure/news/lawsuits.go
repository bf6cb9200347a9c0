package news

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
)

// MaxHistory bounds the per-lawsuit article history.
const MaxHistory = 3

var (
	versusRe = regexp.MustCompile(`((?:[A-Z][\w&.'-]*\s?){1,5})\s+vs?\.\s+((?:[A-Z][\w&.'-]*[\s,]?){1,6})`)
	docketRe = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}-[a-z]{2,4}-\d{3,5}\b`)
)

// VersusTitle finds an "X v. Y" case caption in s.
func VersusTitle(s string) (title, plaintiff, defendant string, ok bool) {
	m := versusRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", "", false
	}
	plaintiff = strings.Trim(strings.TrimSpace(m[1]), ",")
	defendant = strings.Trim(strings.TrimSpace(m[2]), ",")
	if plaintiff == "" || defendant == "" {
		return "", "", "", false
	}
	return plaintiff + " v. " + defendant, plaintiff, defendant, true
}

// DocketNumber finds a federal docket number such as "3:23-cv-03416" in s.
func DocketNumber(s string) (string, bool) {
	m := docketRe.FindString(s)
	return strings.ToLower(m), m != ""
}

// Matcher maps articles onto lawsuits.
type Matcher struct {
	known []KnownCase
	terms [][]string
}

// NewMatcher indexes known for matching.
func NewMatcher(known []KnownCase) *Matcher {
	m := &Matcher{known: known, terms: make([][]string, len(known))}
	for i, k := range known {
		m.terms[i] = k.Terms()
	}
	return m
}

// Known returns the first known case mentioned by text.
func (m *Matcher) Known(text string) (KnownCase, bool) {
	padded := " " + Normalize(text) + " "
	for i, terms := range m.terms {
		for _, t := range terms {
			if strings.Contains(padded, " "+t+" ") {
				return m.known[i], true
			}
		}
	}
	return KnownCase{}, false
}

type group struct {
	lawsuit  litigation.Lawsuit
	articles []Article
}

// BuildLawsuits groups the articles published within the lookback window into
// lawsuits: known cases first, then "X v. Y" headlines, then bare docket
// numbers.  Articles matching none are dropped.  Output is newest first.
func (m *Matcher) BuildLawsuits(articles []Article, now time.Time, lookbackDays int, loc *time.Location) []litigation.Lawsuit {
	if loc == nil {
		loc = time.UTC
	}
	since := now.AddDate(0, 0, -lookbackDays)

	sorted := append([]Article(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Published.After(sorted[j].Published) })

	index := make(map[string]*group)
	var order []string
	for _, a := range sorted {
		if !a.Published.IsZero() && a.Published.Before(since) {
			continue
		}
		key, base, ok := m.identify(a)
		if !ok {
			continue
		}
		g, exists := index[key]
		if !exists {
			g = &group{lawsuit: base}
			index[key] = g
			order = append(order, key)
		}
		g.articles = append(g.articles, a)
	}

	out := make([]litigation.Lawsuit, 0, len(order))
	for _, key := range order {
		out = append(out, finish(index[key], loc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].UpdatedOrFiled, out[j].UpdatedOrFiled
		if litigation.IsKnown(a) != litigation.IsKnown(b) {
			return litigation.IsKnown(a)
		}
		return a > b
	})
	return out
}

func (m *Matcher) identify(a Article) (string, litigation.Lawsuit, bool) {
	text := a.Title + " " + a.Summary
	number, hasNumber := DocketNumber(text)

	if k, ok := m.Known(text); ok {
		l := litigation.Lawsuit{
			CaseTitle:  k.CaseTitle,
			CaseNumber: orUnknown(k.CaseNumber),
			Reason:     orUnknown(k.Reason),
			Plaintiff:  orUnknown(k.Plaintiff),
			Defendant:  orUnknown(k.Defendant),
			Country:    orUnknown(k.Country),
			Court:      orUnknown(k.Court),
		}
		return "known:" + Normalize(k.CaseTitle), l, true
	}

	base := litigation.Lawsuit{
		CaseTitle:  litigation.Unknown,
		CaseNumber: litigation.Unknown,
		Reason:     reason(text),
		Plaintiff:  litigation.Unknown,
		Defendant:  litigation.Unknown,
		Country:    litigation.Unknown,
		Court:      litigation.Unknown,
	}
	if hasNumber {
		base.CaseNumber = number
	}
	if title, p, d, ok := VersusTitle(a.Title); ok {
		base.CaseTitle, base.Plaintiff, base.Defendant = title, p, d
		return "title:" + Normalize(title), base, true
	}
	if hasNumber {
		return "docket:" + number, base, true
	}
	return "", litigation.Lawsuit{}, false
}

func reason(text string) string {
	if causes := litigation.DetectCauses(text); len(causes) > 0 {
		return strings.Join(causes, ", ")
	}
	return litigation.Unknown
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return litigation.Unknown
	}
	return strings.TrimSpace(s)
}

// finish fills the article-derived fields.  g.articles is newest first.
func finish(g *group, loc *time.Location) litigation.Lawsuit {
	l := g.lawsuit
	l.UpdatedOrFiled = litigation.Unknown
	l.History = litigation.Unknown
	l.ArticleTitle = litigation.Unknown
	l.ArticleURLs = nil

	var history []string
	seen := make(map[string]bool)
	for _, a := range g.articles {
		date := litigation.Unknown
		if !a.Published.IsZero() {
			date = a.Published.In(loc).Format("2006-01-02")
		}
		if !litigation.IsKnown(l.UpdatedOrFiled) && litigation.IsKnown(date) {
			l.UpdatedOrFiled = date
		}
		if !litigation.IsKnown(l.ArticleTitle) {
			l.ArticleTitle = a.Title
		}
		if len(history) < MaxHistory {
			history = append(history, date+" "+a.Title)
		}
		if a.Link != "" && !seen[a.Link] {
			seen[a.Link] = true
			l.ArticleURLs = append(l.ArticleURLs, a.Link)
		}
	}
	if len(history) > 0 {
		l.History = strings.Join(history, " / ")
	}
	return l
}

//Personal.AI order the ending
