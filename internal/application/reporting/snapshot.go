package reporting

import (
	"fmt"
	"strings"
)

// SkipPlaceholder replaces a report line already present in the base snapshot.
const SkipPlaceholder = "skip"

// HasBaseSnapshot reports whether an issue body already holds the day's base
// report.
func HasBaseSnapshot(body string) bool {
	return strings.Contains(body, SnapshotMarker)
}

// Diff is the outcome of comparing a fresh report against the issue body.
type Diff struct {
	// Body is the text to publish.  For a base run it is the report itself.
	Body string
	// Base is true when the issue body carried no snapshot and Body should
	// become it.
	Base bool
	// Skipped counts report lines replaced by SkipPlaceholder.
	Skipped int
}

// Compare diffs report against previous by whole-line set membership.  Lines
// found anywhere in previous become SkipPlaceholder; the rest are kept.  The
// result is idempotent for identical inputs.
func Compare(previous, report string, counts Counts) Diff {
	if !HasBaseSnapshot(previous) {
		return Diff{Body: report, Base: true}
	}

	seen := make(map[string]struct{})
	for _, line := range splitLines(previous) {
		seen[line] = struct{}{}
	}

	lines := splitLines(report)
	out := make([]string, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			skipped++
			out = append(out, SkipPlaceholder)
			continue
		}
		out = append(out, line)
	}

	return Diff{
		Body:    SummaryHeader(counts, skipped) + strings.Join(out, "\n"),
		Skipped: skipped,
	}
}

// SummaryHeader is the change summary prepended to a rerun report.
func SummaryHeader(c Counts, skipped int) string {
	var sb strings.Builder
	sb.WriteString("## 🔄 당일 재실행 변경 요약\n\n")
	fmt.Fprintf(&sb, "- 📰 외부 기사 신규: %d건\n", c.NewsLawsuits)
	fmt.Fprintf(&sb, "- ⚖️ RECAP 신규 사건: %d건\n", c.Dockets)
	fmt.Fprintf(&sb, "- 📄 RECAP 신규 문서: %d건\n", c.Documents)
	fmt.Fprintf(&sb, "- 🔁 기존 내용 생략: %d건\n\n", skipped)
	sb.WriteString("---\n")
	return sb.String()
}

// splitLines splits on \n, \r\n and \r without yielding a trailing empty
// element for a final newline.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// KeptLines returns the non-placeholder lines of a compared body after its
// summary header.
func KeptLines(d Diff) []string {
	body := d.Body
	if !d.Base {
		if i := strings.Index(body, "---\n"); i >= 0 {
			body = body[i+len("---\n"):]
		}
	}
	var out []string
	for _, line := range splitLines(body) {
		if line != SkipPlaceholder {
			out = append(out, line)
		}
	}
	return out
}

//Personal.AI order the ending
