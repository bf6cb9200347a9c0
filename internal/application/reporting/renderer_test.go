package reporting

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/domain/litigation"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

func newTestRenderer() *Renderer {
	return NewRenderer(config.ReportConfig{})
}

func unknownCase(id int64, name string) litigation.CaseSummary {
	u := litigation.Unknown
	return litigation.CaseSummary{
		DocketID: id, CaseName: name, DocketNumber: u, Court: u, CourtShortName: u,
		DateFiled: u, Status: litigation.StatusOpen, Judge: u, Magistrate: u,
		NatureOfSuit: u, Cause: u, Parties: u, ComplaintDocNumber: u,
		RecentUpdates: u, ExtractedCauses: u, ExtractedAISnippet: u,
	}
}

func kpiRow(label string, n int) *regexp.Regexp {
	return regexp.MustCompile(`\|\s*` + regexp.QuoteMeta(label) + `\s*\|\s*` + fmt.Sprint(n) + `\s*\|`)
}

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Andersen v. Stability", "Andersen v. Stability"},
		{"pipe", "a|b", "a&#124;b"},
		{"newlines", "a\nb\r\nc", "a<br>b<br>c"},
		{"fence", "x```y", "x\\`\\`\\`y"},
		{"details", "</details>", "&lt;/details&gt;"},
		{"trim", "  x  ", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeCell(tt.in))
		})
	}
}

func TestEscapeCell_NoRawStructure(t *testing.T) {
	inputs := []string{
		"|||", "a|\n|b", "```|```", "\n\n|\r\n", "x | y ``` z\n</details><details>",
	}
	for _, in := range inputs {
		out := EscapeCell(in)
		assert.NotContains(t, out, "|", in)
		assert.NotContains(t, out, "\n", in)
		assert.NotContains(t, out, "\r", in)
		assert.NotContains(t, out, "</details>", in)
		assert.NotRegexp(t, "(^|[^\\\\])```", out, in)
	}
}

func TestRender_EmptyInputKeepsKPITable(t *testing.T) {
	res := newTestRenderer().Render(Input{LookbackDays: 3})
	require.True(t, res.OK())

	md := res.Markdown
	assert.True(t, strings.HasPrefix(md, "## 📊 최근 3일 요약"))
	assert.True(t, HasBaseSnapshot(md))
	assert.Regexp(t, kpiRow("📰 뉴스 기반 소송", 0), md)
	assert.Regexp(t, kpiRow("⚖️ RECAP 도켓", 0), md)
	assert.Regexp(t, kpiRow("📄 RECAP 문서", 0), md)
	assert.Regexp(t, kpiRow("🔥 고위험 도켓(60점 이상)", 0), md)
}

func TestRender_SectionOrder(t *testing.T) {
	md := newTestRenderer().Render(Input{}).Markdown
	markers := []string{
		SnapshotMarker,
		"### 🗂️ Nature of Suit 분포",
		"### ⚖️ 주요 사건",
		"<summary>기타 RECAP 사건",
		"### 📄 RECAP 문서",
		"### 📰 뉴스 기반 소송",
		"<summary>기사 주소",
	}
	last := -1
	for _, m := range markers {
		i := strings.Index(md, m)
		require.GreaterOrEqual(t, i, 0, m)
		assert.Greater(t, i, last, m)
		last = i
	}
	assert.Equal(t, 2, strings.Count(md, "<details>"))
	assert.Equal(t, 2, strings.Count(md, "</details>"))
}

func TestRender_HeadlineCopyrightCase(t *testing.T) {
	c := unknownCase(42, "Doe v. Model Corp")
	c.NatureOfSuit = "820 Copyright"
	c.ExtractedAISnippet = "used for training an LLM via web crawl, commercial use, class action"
	c.ComplaintLink = "https://www.courtlistener.com/recap/gov.uscourts.cand.1/1.pdf"
	c.RiskScore = litigation.ScoreCase(c)
	require.Equal(t, 100, c.RiskScore)
	assert.True(t, IsHeadline(c))

	other := unknownCase(7, "Acme v. Widget")
	other.NatureOfSuit = "190 Contract"
	assert.False(t, IsHeadline(other))

	md := newTestRenderer().Render(Input{Cases: []litigation.CaseSummary{c, other}}).Markdown

	details := strings.Index(md, "<summary>기타 RECAP 사건 (1건)</summary>")
	require.Greater(t, details, 0)
	assert.Less(t, strings.Index(md, "Doe v. Model Corp"), details)
	assert.Greater(t, strings.Index(md, "Acme v. Widget"), details)
	assert.Contains(t, md, "🔴 100")
	assert.Regexp(t, kpiRow("⚖️ RECAP 도켓", 2), md)
	assert.Regexp(t, kpiRow("📄 RECAP 문서", 1), md)
	assert.Regexp(t, kpiRow("🔥 고위험 도켓(60점 이상)", 1), md)
}

func TestRender_InjectedCellKeepsTableShape(t *testing.T) {
	c := unknownCase(1, "Evil | Name\n```\n</details>")
	md := newTestRenderer().Render(Input{Cases: []litigation.CaseSummary{c}}).Markdown

	var row string
	for _, line := range strings.Split(md, "\n") {
		if strings.Contains(line, "Evil") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	// 16 columns
	assert.Equal(t, 17, strings.Count(row, "|"))
	assert.Equal(t, 2, strings.Count(md, "</details>"))
}

func TestRender_CapsAndOrdersCases(t *testing.T) {
	var cases []litigation.CaseSummary
	for i := 30; i >= 1; i-- {
		cases = append(cases, unknownCase(int64(i), fmt.Sprintf("Case %02d", i)))
	}
	md := newTestRenderer().Render(Input{Cases: cases}).Markdown

	assert.Contains(t, md, "Case 01")
	assert.Contains(t, md, "Case 25")
	assert.NotContains(t, md, "Case 26")
	assert.Less(t, strings.Index(md, "Case 01"), strings.Index(md, "Case 02"))
}

func TestRender_DocumentsNewestFirst(t *testing.T) {
	docs := []litigation.Document{
		{DocketID: 1, CaseName: "Older", DateFiled: "2024-04-01", DocumentURL: "https://x/1"},
		{DocketID: 2, CaseName: "Undated", DateFiled: litigation.Unknown},
		{DocketID: 3, CaseName: "Newer", DateFiled: "2024-05-01", PDFURL: "https://x/3.pdf"},
	}
	md := newTestRenderer().Render(Input{Documents: docs}).Markdown

	newer, older, undated := strings.Index(md, "Newer"), strings.Index(md, "Older"), strings.Index(md, "Undated")
	assert.Less(t, newer, older)
	assert.Less(t, older, undated)
	assert.Contains(t, md, "[링크](https://x/3.pdf)")
}

func TestRender_Lawsuits(t *testing.T) {
	lawsuits := []litigation.Lawsuit{
		{UpdatedOrFiled: "2024-05-01", CaseTitle: "Kadrey v. Meta", CaseNumber: "3:23-cv-03417", ArticleURLs: []string{"https://news/a", "https://news/b"}},
		{UpdatedOrFiled: "2024-05-03", CaseTitle: "Doe v. GitHub", CaseNumber: litigation.Unknown, ArticleURLs: []string{"https://news/c"}},
	}
	md := newTestRenderer().Render(Input{Lawsuits: lawsuits}).Markdown

	assert.Regexp(t, kpiRow("📰 뉴스 기반 소송", 2), md)
	assert.Less(t, strings.Index(md, "Doe v. GitHub"), strings.Index(md, "Kadrey v. Meta"))
	assert.Contains(t, md, "#### Kadrey v. Meta (3:23-cv-03417)")
	assert.Contains(t, md, "- https://news/b")
	assert.Contains(t, md, "<summary>기사 주소 (2건)</summary>")
}

func TestRender_Idempotent(t *testing.T) {
	in := Input{
		LookbackDays: 2,
		Cases:        []litigation.CaseSummary{unknownCase(3, "A v. B"), unknownCase(1, "C v. D")},
	}
	r := newTestRenderer()
	assert.Equal(t, r.Render(in).Markdown, r.Render(in).Markdown)
	assert.Contains(t, r.Render(in).Markdown, "## 📊 최근 2일 요약")
}

func TestDiagnostic(t *testing.T) {
	err := errors.New(errors.ErrCodeReportRenderFailed, "render panic: boom|\n")
	d := Diagnostic(err)
	assert.True(t, strings.HasPrefix(d, "⚠️ 리포트 생성 실패: RPT_001"))
	assert.NotContains(t, strings.TrimSuffix(d, "\n"), "\n")
	assert.False(t, HasBaseSnapshot(d))
}

//Personal.AI order the ending
