package litigation

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// TextExtractor fetches a document and returns up to maxChars characters of
// its plain text.  Implementations return "" on any failure.
type TextExtractor interface {
	Extract(ctx context.Context, documentURL string, maxChars int) string
}

// ─────────────────────────────────────────────────────────────────────────────
// Complaint selection
// ─────────────────────────────────────────────────────────────────────────────

// ComplaintKeywords identify the pleading that opened a case.  Longer phrases
// come last so DocumentType prefers the most specific match.
var ComplaintKeywords = []string{
	"complaint",
	"amended complaint",
	"petition",
	"class action complaint",
}

// FallbackDocuments is how many recent filings stand in for a missing
// complaint.
const FallbackDocuments = 3

// IsComplaint reports whether a document description names a complaint.
func IsComplaint(description string) bool {
	d := strings.ToLower(description)
	for _, k := range ComplaintKeywords {
		if strings.Contains(d, k) {
			return true
		}
	}
	return false
}

// DocumentType labels a document from its description.
func DocumentType(description string) string {
	d := strings.ToLower(description)
	label := ""
	for _, k := range ComplaintKeywords {
		if strings.Contains(d, k) && len(k) > len(label) {
			label = k
		}
	}
	if label == "" {
		return "Filing"
	}
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SelectDocuments returns the complaint documents of a docket, newest first,
// or the FallbackDocuments newest filings when no complaint exists.
func SelectDocuments(docs []Document) []Document {
	var complaints []Document
	for _, d := range docs {
		if IsComplaint(d.Description) {
			complaints = append(complaints, d)
		}
	}
	if len(complaints) > 0 {
		SortDocuments(complaints)
		return complaints
	}
	all := append([]Document(nil), docs...)
	SortDocuments(all)
	if len(all) > FallbackDocuments {
		all = all[:FallbackDocuments]
	}
	return all
}

// SortDocuments orders documents by filing date descending.  Unknown dates sort
// last; ties keep docket id ascending then input order.
func SortDocuments(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return dateBefore(docs[i].DateFiled, docs[j].DateFiled, docs[i].DocketID, docs[j].DocketID)
	})
}

// SortCases orders cases like SortDocuments.
func SortCases(cases []CaseSummary) {
	sort.SliceStable(cases, func(i, j int) bool {
		return dateBefore(cases[i].DateFiled, cases[j].DateFiled, cases[i].DocketID, cases[j].DocketID)
	})
}

// dateBefore is the "sorts earlier" relation for (date desc, id asc).  ISO
// dates compare correctly as strings.
func dateBefore(a, b string, idA, idB int64) bool {
	ka, kb := IsKnown(a), IsKnown(b)
	if ka != kb {
		return ka
	}
	if a != b {
		return a > b
	}
	return idA < idB
}

// ─────────────────────────────────────────────────────────────────────────────
// Document URL heuristic
// ─────────────────────────────────────────────────────────────────────────────

var documentExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".rtf": true,
}

var documentSegments = []string{"/recap/", "/storage/", "/pdf/"}

// LooksLikeDocument reports whether u plausibly points at a retrievable
// document rather than an HTML page.
func LooksLikeDocument(u string) bool {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || parsed.Path == "" {
		return false
	}
	p := strings.ToLower(parsed.Path)
	if documentExtensions[path.Ext(p)] {
		return true
	}
	for _, seg := range documentSegments {
		if strings.Contains(p, seg) {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Cause detection
// ─────────────────────────────────────────────────────────────────────────────

type causeRule struct {
	label    string
	keywords []string
}

// causeRules is evaluated in order; output preserves it.
var causeRules = []causeRule{
	{"Copyright Infringement", []string{"copyright infringement", "infringement of copyright", "17 u.s.c. § 501", "infringe"}},
	{"DMCA §1202", []string{"1202", "dmca", "digital millennium copyright act", "copyright management information"}},
	{"Unfair Competition", []string{"unfair competition", "17200", "unfair business practice"}},
	{"Unjust Enrichment", []string{"unjust enrichment", "unjustly enriched"}},
	{"Breach of Contract", []string{"breach of contract", "terms of service", "terms of use"}},
	{"Privacy", []string{"privacy", "biometric", "bipa", "personal information"}},
	{"CFAA", []string{"computer fraud and abuse act", "cfaa", "unauthorized access"}},
	{"Trademark", []string{"trademark", "lanham act"}},
	{"Negligence", []string{"negligence", "negligent"}},
}

// DetectCauses returns the cause-of-action labels whose keywords occur in text.
func DetectCauses(text string) []string {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return nil
	}
	var out []string
	for _, rule := range causeRules {
		for _, k := range rule.keywords {
			if strings.Contains(t, k) {
				out = append(out, rule.label)
				break
			}
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// AI-training snippet
// ─────────────────────────────────────────────────────────────────────────────

// MaxSnippetRunes bounds ExtractAITrainingSnippet's result.
const MaxSnippetRunes = 300

var aiKeywords = []string{
	"training data", "train", "dataset", "large language model", "llm",
	"artificial intelligence", "machine learning", "generative", "model",
	"scrap", "crawl", "ingest",
}

var sentenceSplit = regexp.MustCompile(`[.!?]\s+|\n\s*\n`)

var spaceRun = regexp.MustCompile(`\s+`)

// collapse joins whitespace runs into single spaces.
func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// ExtractAITrainingSnippet returns the sentence of text with the most AI
// training keyword hits, or "" when no sentence has any.
func ExtractAITrainingSnippet(text string) string {
	best, bestHits := "", 0
	for _, raw := range sentenceSplit.Split(text, -1) {
		s := collapse(raw)
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		hits := 0
		for _, k := range aiKeywords {
			hits += strings.Count(lower, k)
		}
		if hits > bestHits {
			best, bestHits = s, hits
		}
	}
	return truncateRunes(best, MaxSnippetRunes)
}

// truncateRunes cuts s to at most n runes, marking the cut with "…".
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// ─────────────────────────────────────────────────────────────────────────────
// Caption parties
// ─────────────────────────────────────────────────────────────────────────────

// MaxPartyRunes bounds each extracted party name.
const MaxPartyRunes = 120

var (
	captionRe = regexp.MustCompile(`(?is)(.{2,600}?)[\s,;]*\bplaintiffs?\b[\s,.;:]*(?:v\.?|vs\.?|versus)\s+(.{2,600}?)[\s,;]*\bdefendants?\b`)
	headerRe  = regexp.MustCompile(`(?s)^.*(?:COURT|DIVISION|DISTRICT OF [A-Z]+(?: [A-Z]+)?)\s*`)
	caseNoRe  = regexp.MustCompile(`(?i)case\s+no\.?.*$`)
)

// ExtractParties parses a caption of the form
// "<plaintiff>, Plaintiff(s), v. <defendant>, Defendant(s)".  Either side is
// Unknown when it cannot be found.
func ExtractParties(text string) (plaintiff, defendant string) {
	m := captionRe.FindStringSubmatch(text)
	if m == nil {
		return Unknown, Unknown
	}
	p := collapse(headerRe.ReplaceAllString(m[1], ""))
	d := collapse(caseNoRe.ReplaceAllString(collapse(m[2]), ""))
	return cleanParty(p), cleanParty(d)
}

func cleanParty(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "et al."), "et al"))
	s = strings.Trim(s, " ,;:")
	if s == "" {
		return Unknown
	}
	return truncateRunes(s, MaxPartyRunes)
}

// ─────────────────────────────────────────────────────────────────────────────
// Applying extraction results
// ─────────────────────────────────────────────────────────────────────────────

// ApplyText fills a document's extracted fields from its text.  Empty text
// leaves every extracted field at Unknown.
func ApplyText(d *Document, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d.TextSnippet = truncateRunes(collapse(text), MaxSnippetRunes)
	d.ExtractedPlaintiff, d.ExtractedDefendant = ExtractParties(text)
	if causes := DetectCauses(text); len(causes) > 0 {
		d.ExtractedCauses = strings.Join(causes, ", ")
	}
	if s := ExtractAITrainingSnippet(text); s != "" {
		d.ExtractedAISnippet = s
	}
}

// ApplyComplaint copies a complaint document and its extraction onto the case.
func ApplyComplaint(c *CaseSummary, d Document) {
	c.ComplaintDocNumber = d.DocNumber
	c.ComplaintLink = d.Link()
	c.ExtractedCauses = d.ExtractedCauses
	c.ExtractedAISnippet = d.ExtractedAISnippet
}

//Personal.AI order the ending
