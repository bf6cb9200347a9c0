// Package litigation holds the case and document model of the monitor
// together with the pure functions that build, merge and score it.  Nothing
// in this package performs I/O.
package litigation

import (
	"strings"
)

// Unknown marks a field whose value could not be resolved.  It is distinct
// from the empty string, which means "known to be empty".
const Unknown = "미확인"

// StatusOpen is the status of a docket without a termination date.
const StatusOpen = "진행중/미확인"

// IsKnown reports whether s carries a resolved, non-empty value.
func IsKnown(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != Unknown
}

// orUnknown returns s trimmed, or Unknown when it is empty.
func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// CaseSummary
// ─────────────────────────────────────────────────────────────────────────────

// CaseSummary is one litigation docket.  DocketID is the identity; two
// summaries with the same DocketID are the same case.
type CaseSummary struct {
	DocketID int64 `json:"docket_id"`

	CaseName       string `json:"case_name"`
	DocketNumber   string `json:"docket_number"`
	Court          string `json:"court"`
	CourtShortName string `json:"court_short_name"`
	CourtURL       string `json:"court_url"`
	DateFiled      string `json:"date_filed"`
	Status         string `json:"status"`
	Judge          string `json:"judge"`
	Magistrate     string `json:"magistrate"`
	NatureOfSuit   string `json:"nature_of_suit"`
	Cause          string `json:"cause"`

	Parties            string `json:"parties"`
	ComplaintDocNumber string `json:"complaint_doc_number"`
	// ComplaintLink is empty, not Unknown, when no complaint was found.
	ComplaintLink      string `json:"complaint_link"`
	RecentUpdates      string `json:"recent_updates"`
	ExtractedCauses    string `json:"extracted_causes"`
	ExtractedAISnippet string `json:"extracted_ai_snippet"`

	RiskScore int `json:"risk_score"`
}

// Key returns the dedup identity of the case.
func (c CaseSummary) Key() int64 { return c.DocketID }

// HasComplaint reports whether a complaint document link was resolved.
func (c CaseSummary) HasComplaint() bool { return strings.TrimSpace(c.ComplaintLink) != "" }

// ─────────────────────────────────────────────────────────────────────────────
// Document
// ─────────────────────────────────────────────────────────────────────────────

// DocumentKey is the dedup identity of a filed document.
type DocumentKey struct {
	DocketID    int64
	DocNumber   string
	DateFiled   string
	DocumentURL string
}

// Document is one filed paper attached to a docket.
type Document struct {
	DocketID     int64  `json:"docket_id"`
	DocketNumber string `json:"docket_number"`
	CaseName     string `json:"case_name"`
	Court        string `json:"court"`
	NatureOfSuit string `json:"nature_of_suit"`
	DateFiled    string `json:"date_filed"`

	DocType     string `json:"doc_type"`
	DocNumber   string `json:"doc_number"`
	Description string `json:"description"`
	DocumentURL string `json:"document_url"`
	PDFURL      string `json:"pdf_url"`

	TextSnippet        string `json:"text_snippet"`
	ExtractedPlaintiff string `json:"extracted_plaintiff"`
	ExtractedDefendant string `json:"extracted_defendant"`
	ExtractedCauses    string `json:"extracted_causes"`
	ExtractedAISnippet string `json:"extracted_ai_snippet"`

	RiskScore int `json:"risk_score"`
}

// Key returns the dedup identity of the document.
func (d Document) Key() DocumentKey {
	return DocumentKey{
		DocketID:    d.DocketID,
		DocNumber:   d.DocNumber,
		DateFiled:   d.DateFiled,
		DocumentURL: d.DocumentURL,
	}
}

// Link returns the document page URL, falling back to the PDF URL.
func (d Document) Link() string {
	if d.DocumentURL != "" {
		return d.DocumentURL
	}
	return d.PDFURL
}

// ─────────────────────────────────────────────────────────────────────────────
// Lawsuit
// ─────────────────────────────────────────────────────────────────────────────

// Lawsuit is a case reported in the news.  It seeds docket and title lookups
// and has its own report section; it is never merged with CaseSummary.
type Lawsuit struct {
	UpdatedOrFiled string   `json:"updated_or_filed" yaml:"updated_or_filed"`
	CaseTitle      string   `json:"case_title" yaml:"case_title"`
	CaseNumber     string   `json:"case_number" yaml:"case_number"`
	Reason         string   `json:"reason" yaml:"reason"`
	Plaintiff      string   `json:"plaintiff" yaml:"plaintiff"`
	Defendant      string   `json:"defendant" yaml:"defendant"`
	Country        string   `json:"country" yaml:"country"`
	Court          string   `json:"court" yaml:"court"`
	History        string   `json:"history" yaml:"history"`
	ArticleTitle   string   `json:"article_title" yaml:"article_title"`
	ArticleURLs    []string `json:"article_urls" yaml:"article_urls"`
}

// DocketNumbers returns the known case numbers of lawsuits, in order.
func DocketNumbers(lawsuits []Lawsuit) []string {
	var out []string
	for _, l := range lawsuits {
		if IsKnown(l.CaseNumber) {
			out = append(out, strings.TrimSpace(l.CaseNumber))
		}
	}
	return out
}

// CaseTitles returns the known case titles of lawsuits, in order.
func CaseTitles(lawsuits []Lawsuit) []string {
	var out []string
	for _, l := range lawsuits {
		if IsKnown(l.CaseTitle) {
			out = append(out, strings.TrimSpace(l.CaseTitle))
		}
	}
	return out
}

//Personal.AI order the ending
