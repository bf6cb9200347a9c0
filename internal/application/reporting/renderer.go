// Package reporting turns the merged case, document and news lists into the
// markdown report and compares it against the day's base snapshot.
package reporting

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// SnapshotMarker opens the KPI section and identifies a base snapshot.
const SnapshotMarker = "## 📊 최근"

// HeadlineSuitCode selects the nature-of-suit code of headline cases.
const HeadlineSuitCode = "820"

// Input is everything one report is rendered from.
type Input struct {
	LookbackDays int
	Lawsuits     []litigation.Lawsuit
	Cases        []litigation.CaseSummary
	Documents    []litigation.Document
}

// Result is either rendered markdown or, when Err is set, a short diagnostic
// that can still be published.
type Result struct {
	Markdown string
	Err      error
}

// OK reports whether rendering succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Counts are the KPI figures of a report.
type Counts struct {
	NewsLawsuits    int
	Dockets         int
	Documents       int
	HighRiskDockets int
}

// CountsOf computes the KPI figures.  Documents counts dockets whose complaint
// link was resolved.
func CountsOf(in Input) Counts {
	c := Counts{
		NewsLawsuits: len(in.Lawsuits),
		Dockets:      len(in.Cases),
		Documents:    litigation.CountComplaints(in.Cases),
	}
	for _, cs := range in.Cases {
		if litigation.IsHighRisk(cs.RiskScore) {
			c.HighRiskDockets++
		}
	}
	return c
}

// Renderer renders reports with fixed row caps.
type Renderer struct {
	maxCases     int
	maxDocuments int
}

// NewRenderer creates a Renderer from the report configuration.  Zero caps
// fall back to the defaults.
func NewRenderer(cfg config.ReportConfig) *Renderer {
	r := &Renderer{maxCases: cfg.MaxCases, maxDocuments: cfg.MaxDocuments}
	if r.maxCases <= 0 {
		r.maxCases = config.DefaultMaxCases
	}
	if r.maxDocuments <= 0 {
		r.maxDocuments = config.DefaultMaxDocuments
	}
	return r
}

// Render produces the report.  It never panics; failures come back as a
// diagnostic Result.
func (r *Renderer) Render(in Input) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			err := errors.Newf(errors.ErrCodeReportRenderFailed, "render panic: %v", p)
			res = Result{Markdown: Diagnostic(err), Err: err}
		}
	}()

	if in.LookbackDays <= 0 {
		in.LookbackDays = config.DefaultLookbackDays
	}

	var sb strings.Builder
	r.writeSummary(&sb, in)
	r.writeSuitBreakdown(&sb, in.Cases)
	r.writeCases(&sb, in.Cases)
	r.writeDocuments(&sb, in.Documents)
	r.writeLawsuits(&sb, in.Lawsuits)
	return Result{Markdown: strings.TrimRight(sb.String(), "\n") + "\n"}
}

// Diagnostic is the report body published in place of a failed render.
func Diagnostic(err error) string {
	return fmt.Sprintf("⚠️ 리포트 생성 실패: %s\n", EscapeCell(errors.GetCode(err).String()+" "+messageOf(err)))
}

func messageOf(err error) string {
	var ae *errors.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// ─────────────────────────────────────────────────────────────────────────────
// Sections
// ─────────────────────────────────────────────────────────────────────────────

func (r *Renderer) writeSummary(sb *strings.Builder, in Input) {
	c := CountsOf(in)
	fmt.Fprintf(sb, "%s %d일 요약\n\n", SnapshotMarker, in.LookbackDays)

	t := newTable("항목", "건수")
	t.AppendRow(table.Row{"📰 뉴스 기반 소송", c.NewsLawsuits})
	t.AppendRow(table.Row{"⚖️ RECAP 도켓", c.Dockets})
	t.AppendRow(table.Row{"📄 RECAP 문서", c.Documents})
	t.AppendRow(table.Row{fmt.Sprintf("🔥 고위험 도켓(%d점 이상)", litigation.HighRiskThreshold), c.HighRiskDockets})
	writeTable(sb, t)
}

type suitRow struct {
	code     string
	count    int
	maxScore int
}

func (r *Renderer) writeSuitBreakdown(sb *strings.Builder, cases []litigation.CaseSummary) {
	sb.WriteString("### 🗂️ Nature of Suit 분포\n\n")
	if len(cases) == 0 {
		sb.WriteString("- 해당 없음\n\n")
		return
	}

	index := map[string]*suitRow{}
	var rows []*suitRow
	for _, c := range cases {
		code := litigation.SuitCode(c.NatureOfSuit)
		if code == "" {
			code = litigation.Unknown
		}
		row, ok := index[code]
		if !ok {
			row = &suitRow{code: code}
			index[code] = row
			rows = append(rows, row)
		}
		row.count++
		if c.RiskScore > row.maxScore {
			row.maxScore = c.RiskScore
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].code < rows[j].code
	})

	t := newTable("Nature of Suit", "건수", "최고 위험도")
	for _, row := range rows {
		t.AppendRow(table.Row{EscapeCell(row.code), row.count, litigation.FormatScore(row.maxScore)})
	}
	writeTable(sb, t)
}

var headlineKeywords = regexp.MustCompile(`\bai\b|artificial intelligence|\bllms?\b|large language model|generative|machine learning|train|dataset|openai|midjourney|stability ai|anthropic`)

// IsHeadline reports whether a case is a copyright case whose text mentions
// AI training.
func IsHeadline(c litigation.CaseSummary) bool {
	if litigation.SuitCode(c.NatureOfSuit) != HeadlineSuitCode {
		return false
	}
	var parts []string
	for _, s := range []string{c.CaseName, c.Cause, c.ExtractedCauses, c.ExtractedAISnippet} {
		if litigation.IsKnown(s) {
			parts = append(parts, strings.ToLower(s))
		}
	}
	return headlineKeywords.MatchString(strings.Join(parts, " "))
}

func (r *Renderer) writeCases(sb *strings.Builder, cases []litigation.CaseSummary) {
	sorted := append([]litigation.CaseSummary(nil), cases...)
	litigation.SortCases(sorted)

	var headline, rest []litigation.CaseSummary
	for _, c := range sorted {
		if IsHeadline(c) {
			headline = append(headline, c)
		} else {
			rest = append(rest, c)
		}
	}

	fmt.Fprintf(sb, "### ⚖️ 주요 사건 (%s Copyright + AI 학습)\n\n", HeadlineSuitCode)
	if len(headline) == 0 {
		sb.WriteString("- 해당 없음\n\n")
	} else {
		writeTable(sb, r.caseTable(headline))
	}

	fmt.Fprintf(sb, "<details>\n<summary>기타 RECAP 사건 (%d건)</summary>\n\n", len(rest))
	if len(rest) == 0 {
		sb.WriteString("- 해당 없음\n\n")
	} else {
		writeTable(sb, r.caseTable(rest))
	}
	sb.WriteString("</details>\n\n")
}

func (r *Renderer) caseTable(cases []litigation.CaseSummary) table.Writer {
	t := newTable("위험도", "접수일", "상태", "케이스명", "도켓번호", "법원", "담당판사", "치안판사",
		"Nature of Suit", "Cause", "Parties", "Complaint 문서#", "Complaint 링크",
		"최근 도켓 업데이트(3)", "청구원인(추출)", "AI학습 핵심문장(추출)")
	for i, c := range cases {
		if i == r.maxCases {
			break
		}
		t.AppendRow(table.Row{
			litigation.FormatScore(c.RiskScore),
			EscapeCell(c.DateFiled),
			EscapeCell(c.Status),
			EscapeCell(c.CaseName),
			EscapeCell(c.DocketNumber),
			courtCell(c),
			EscapeCell(c.Judge),
			EscapeCell(c.Magistrate),
			EscapeCell(c.NatureOfSuit),
			EscapeCell(c.Cause),
			EscapeCell(c.Parties),
			EscapeCell(c.ComplaintDocNumber),
			linkCell(c.ComplaintLink),
			EscapeCell(c.RecentUpdates),
			EscapeCell(c.ExtractedCauses),
			EscapeCell(c.ExtractedAISnippet),
		})
	}
	return t
}

func courtCell(c litigation.CaseSummary) string {
	if c.CourtURL == "" {
		return EscapeCell(c.Court)
	}
	return fmt.Sprintf("[%s](%s)", EscapeCell(c.CourtShortName), EscapeCell(c.CourtURL))
}

func linkCell(u string) string {
	if strings.TrimSpace(u) == "" {
		return litigation.Unknown
	}
	return fmt.Sprintf("[링크](%s)", EscapeCell(u))
}

func (r *Renderer) writeDocuments(sb *strings.Builder, docs []litigation.Document) {
	sb.WriteString("### 📄 RECAP 문서 (Complaint/Petition 우선)\n\n")
	if len(docs) == 0 {
		sb.WriteString("- 해당 없음\n\n")
		return
	}
	sorted := append([]litigation.Document(nil), docs...)
	litigation.SortDocuments(sorted)

	t := newTable("위험도", "문서 제출일", "케이스명", "도켓번호", "법원", "문서유형", "문서#",
		"원고(추출)", "피고(추출)", "청구원인(추출)", "AI학습 핵심문장(추출)", "문서 링크")
	for i, d := range sorted {
		if i == r.maxDocuments {
			break
		}
		t.AppendRow(table.Row{
			litigation.FormatScore(d.RiskScore),
			EscapeCell(d.DateFiled),
			EscapeCell(d.CaseName),
			EscapeCell(d.DocketNumber),
			EscapeCell(d.Court),
			EscapeCell(d.DocType),
			EscapeCell(d.DocNumber),
			EscapeCell(d.ExtractedPlaintiff),
			EscapeCell(d.ExtractedDefendant),
			EscapeCell(d.ExtractedCauses),
			EscapeCell(d.ExtractedAISnippet),
			linkCell(d.Link()),
		})
	}
	writeTable(sb, t)
}

func (r *Renderer) writeLawsuits(sb *strings.Builder, lawsuits []litigation.Lawsuit) {
	sb.WriteString("### 📰 뉴스 기반 소송\n\n")
	sorted := append([]litigation.Lawsuit(nil), lawsuits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].UpdatedOrFiled, sorted[j].UpdatedOrFiled
		ka, kb := litigation.IsKnown(a), litigation.IsKnown(b)
		if ka != kb {
			return ka
		}
		return a > b
	})

	if len(sorted) == 0 {
		sb.WriteString("- 해당 없음\n\n")
	} else {
		t := newTable("소송/업데이트 일자", "소송제목", "소송번호", "소송이유", "원고", "피고", "국가", "법원명", "히스토리")
		for i, l := range sorted {
			if i == r.maxCases {
				break
			}
			t.AppendRow(table.Row{
				EscapeCell(l.UpdatedOrFiled),
				EscapeCell(l.CaseTitle),
				EscapeCell(l.CaseNumber),
				EscapeCell(l.Reason),
				EscapeCell(l.Plaintiff),
				EscapeCell(l.Defendant),
				EscapeCell(l.Country),
				EscapeCell(l.Court),
				EscapeCell(l.History),
			})
		}
		writeTable(sb, t)
	}

	fmt.Fprintf(sb, "<details>\n<summary>기사 주소 (%d건)</summary>\n\n", len(sorted))
	if len(sorted) == 0 {
		sb.WriteString("- 해당 없음\n\n")
	}
	for _, l := range sorted {
		fmt.Fprintf(sb, "#### %s (%s)\n", EscapeText(l.CaseTitle), EscapeText(l.CaseNumber))
		for _, u := range l.ArticleURLs {
			fmt.Fprintf(sb, "- %s\n", EscapeText(u))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("</details>\n")
}

// ─────────────────────────────────────────────────────────────────────────────
// Tables and escaping
// ─────────────────────────────────────────────────────────────────────────────

func newTable(header ...string) table.Writer {
	t := table.NewWriter()
	row := make(table.Row, len(header))
	for i, h := range header {
		row[i] = h
	}
	t.AppendHeader(row)
	return t
}

func writeTable(sb *strings.Builder, t table.Writer) {
	sb.WriteString(t.RenderMarkdown())
	sb.WriteString("\n\n")
}

var cellReplacer = strings.NewReplacer(
	"```", "\\`\\`\\`",
	"|", "&#124;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// EscapeCell makes s safe inside a markdown table cell: no raw pipes, no line
// breaks, no fenced-code delimiters and no HTML tags such as </details>.
func EscapeCell(s string) string {
	return strings.TrimSpace(cellReplacer.Replace(s))
}

var textReplacer = strings.NewReplacer(
	"```", "\\`\\`\\`",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// EscapeText makes s safe as a single line outside a table.
func EscapeText(s string) string {
	return strings.TrimSpace(textReplacer.Replace(s))
}

//Personal.AI order the ending
