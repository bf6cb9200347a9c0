package litigation

import (
	"fmt"
	"regexp"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Band
// ─────────────────────────────────────────────────────────────────────────────

// Band classifies a risk score.
type Band int

const (
	BandLow      Band = iota // [0,40)
	BandElevated             // [40,60)
	BandHigh                 // [60,80)
	BandCritical             // [80,100]
)

var bandNames = map[Band]string{
	BandLow:      "low",
	BandElevated: "elevated",
	BandHigh:     "high",
	BandCritical: "critical",
}

var bandMarkers = map[Band]string{
	BandLow:      "🟢",
	BandElevated: "🟡",
	BandHigh:     "🟠",
	BandCritical: "🔴",
}

func (b Band) String() string {
	if s, ok := bandNames[b]; ok {
		return s
	}
	return "unknown"
}

// Marker returns the coloured marker shown next to a score.
func (b Band) Marker() string { return bandMarkers[b] }

// BandFor maps a score onto its band.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandCritical
	case score >= 60:
		return BandHigh
	case score >= 40:
		return BandElevated
	default:
		return BandLow
	}
}

// FormatScore renders a score as "🔴 100".
func FormatScore(score int) string {
	return fmt.Sprintf("%s %d", BandFor(score).Marker(), score)
}

// HighRiskThreshold is the score from which a docket counts as high risk.
const HighRiskThreshold = 60

// IsHighRisk reports whether score is in the high or critical band.
func IsHighRisk(score int) bool { return score >= HighRiskThreshold }

// ─────────────────────────────────────────────────────────────────────────────
// Scoring
// ─────────────────────────────────────────────────────────────────────────────

// MaxScore caps every risk score.
const MaxScore = 100

type riskCategory struct {
	name   string
	weight int
	re     *regexp.Regexp
}

// riskCategories each contribute their weight at most once.
var riskCategories = []riskCategory{
	{"scraping", 30, regexp.MustCompile(`scrap(e|ed|er|ers|es|ing)\b|crawl`)},
	{"training", 30, regexp.MustCompile(`\btrain(s|ed|ing)?\b|\bllms?\b|large language model|training data`)},
	{"commercial", 15, regexp.MustCompile(`commercial|for[- ]profit|monetiz`)},
	{"class_action", 10, regexp.MustCompile(`class action`)},
}

// natureOfSuitWeight applies when the nature-of-suit code is listed here
// (820 copyright, 890 other statutory actions).
const natureOfSuitWeight = 15

var riskSuitCodes = map[string]bool{"820": true, "890": true}

var leadingDigits = regexp.MustCompile(`^\s*(\d+)`)

// SuitCode returns the leading numeric code of a nature-of-suit value such as
// "820 Copyright", or "" when there is none.
func SuitCode(natureOfSuit string) string {
	m := leadingDigits.FindStringSubmatch(natureOfSuit)
	if m == nil {
		return ""
	}
	return m[1]
}

// RiskInput is the text a score is computed from.
type RiskInput struct {
	Causes       string
	AISnippet    string
	CaseName     string
	Cause        string
	NatureOfSuit string
}

// Score is a pure, order-independent function of in, bounded to [0, MaxScore].
func Score(in RiskInput) int {
	var parts []string
	for _, s := range []string{in.Causes, in.AISnippet, in.CaseName, in.Cause} {
		if IsKnown(s) {
			parts = append(parts, strings.ToLower(s))
		}
	}
	text := strings.Join(parts, " \n ")

	score := 0
	for _, c := range riskCategories {
		if c.re.MatchString(text) {
			score = addCapped(score, c.weight)
		}
	}
	if riskSuitCodes[SuitCode(in.NatureOfSuit)] {
		score = addCapped(score, natureOfSuitWeight)
	}
	return score
}

func addCapped(a, b int) int {
	if a+b > MaxScore {
		return MaxScore
	}
	return a + b
}

// ScoreCase scores a case summary from its extraction and docket text.
func ScoreCase(c CaseSummary) int {
	return Score(RiskInput{
		Causes:       c.ExtractedCauses,
		AISnippet:    c.ExtractedAISnippet,
		CaseName:     c.CaseName,
		Cause:        c.Cause,
		NatureOfSuit: c.NatureOfSuit,
	})
}

// ScoreDocument scores a document from its extraction.
func ScoreDocument(d Document) int {
	return Score(RiskInput{
		Causes:       d.ExtractedCauses,
		AISnippet:    d.ExtractedAISnippet,
		NatureOfSuit: d.NatureOfSuit,
	})
}

//Personal.AI order the ending
