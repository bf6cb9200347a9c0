package litigation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Record is one raw JSON object returned by the litigation-records API.
type Record map[string]any

// ─────────────────────────────────────────────────────────────────────────────
// Alias table
// ─────────────────────────────────────────────────────────────────────────────

// Field names a logical attribute that different endpoints spell differently.
type Field int

const (
	FieldDocketID Field = iota
	FieldCaseName
	FieldDocketNumber
	FieldCourt
	FieldDateFiled
	FieldDateTerminated
	FieldJudge
	FieldMagistrate
	FieldNatureOfSuit
	FieldCause
	FieldDescription
	FieldDocNumber
	FieldDocumentURL
	FieldPDFURL
	FieldDocketURL
	FieldPartyName
	FieldPartyRole
)

// aliases lists the candidate keys per field in priority order.  Search hits
// use camelCase, docket and document reads use snake_case.
var aliases = map[Field][]string{
	FieldDocketID:       {"docket_id", "docketId", "id"},
	FieldCaseName:       {"case_name", "caseName", "case_name_full", "caseNameFull", "case_name_short"},
	FieldDocketNumber:   {"docket_number", "docketNumber"},
	FieldCourt:          {"court_id", "court", "court_exact"},
	FieldDateFiled:      {"date_filed", "dateFiled", "entry_date_filed"},
	FieldDateTerminated: {"date_terminated", "dateTerminated"},
	FieldJudge:          {"assigned_to_str", "assignedTo", "judge"},
	FieldMagistrate:     {"referred_to_str", "referredTo"},
	FieldNatureOfSuit:   {"nature_of_suit", "suitNature", "natureOfSuit"},
	FieldCause:          {"cause"},
	FieldDescription:    {"description", "short_description", "snippet"},
	FieldDocNumber:      {"document_number", "documentNumber", "entry_number"},
	FieldDocumentURL:    {"absolute_url", "absoluteUrl"},
	FieldPDFURL:         {"filepath_local", "filepath_ia", "download_url"},
	FieldDocketURL:      {"docket_absolute_url", "absolute_url"},
	FieldPartyName:      {"name", "name_full"},
	FieldPartyRole:      {"role", "party_type", "type"},
}

// Lookup returns the first present-and-truthy value among f's aliases,
// rendered as a trimmed string.
func (r Record) Lookup(f Field) (string, bool) {
	for _, key := range aliases[f] {
		v, ok := r[key]
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok {
			return s, true
		}
	}
	return "", false
}

// String returns Lookup(f) or Unknown.
func (r Record) String(f Field) string {
	if s, ok := r.Lookup(f); ok {
		return s
	}
	return Unknown
}

// scalarString converts a truthy scalar JSON value to a string.  Objects,
// arrays, false, zero and blank strings are not truthy.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), t.String() != "0"
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), t != 0
	case int64:
		return strconv.FormatInt(t, 10), t != 0
	case bool:
		return "true", t
	default:
		return "", false
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Coercion helpers
// ─────────────────────────────────────────────────────────────────────────────

// ParseDocketID coerces an integer, integral float, json.Number or numeric
// string into a docket id.  Any other value reports false.
func ParseDocketID(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		if t <= 0 {
			return 0, false
		}
		return int64(t), true
	case int64:
		if t <= 0 {
			return 0, false
		}
		return t, true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if t <= 0 || t != math.Trunc(t) || t >= math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		return ParseDocketID(t.String())
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// DocketID resolves the docket id of r through the alias table.
func (r Record) DocketID() (int64, bool) {
	for _, key := range aliases[FieldDocketID] {
		if v, ok := r[key]; ok {
			if id, ok := ParseDocketID(v); ok {
				return id, true
			}
		}
	}
	return 0, false
}

// Date returns the first ten characters of a date field, or Unknown.
func (r Record) Date(f Field) string {
	s, ok := r.Lookup(f)
	if !ok {
		return Unknown
	}
	return datePart(s)
}

// datePart keeps the first ten runes of a timestamp.
func datePart(s string) string {
	if utf8.RuneCountInString(s) <= 10 {
		return s
	}
	return string([]rune(s)[:10])
}

// CourtID reduces a court API URL such as
// "https://www.courtlistener.com/api/rest/v4/courts/cand/" to "cand".
func CourtID(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[len(parts)-1]
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalizer
// ─────────────────────────────────────────────────────────────────────────────

// Normalizer maps raw records onto CaseSummary and Document.  BaseURL is
// used to absolutise site-relative links.
type Normalizer struct {
	BaseURL string
}

// NewNormalizer creates a Normalizer for the given site root.
func NewNormalizer(baseURL string) *Normalizer {
	return &Normalizer{BaseURL: strings.TrimRight(baseURL, "/")}
}

// AbsURL prefixes site-relative paths with the base URL.
func (n *Normalizer) AbsURL(u string) string {
	u = strings.TrimSpace(u)
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "http"):
		return u
	case strings.HasPrefix(u, "/"):
		return n.BaseURL + u
	default:
		return u
	}
}

// CaseSummary builds the case-level fields from a docket read or a search hit.
// Derived fields (parties, complaint, updates) are left Unknown for the caller
// to fill.  It reports false when no docket id can be resolved.
func (n *Normalizer) CaseSummary(r Record) (CaseSummary, bool) {
	id, ok := r.DocketID()
	if !ok {
		return CaseSummary{}, false
	}

	court := CourtID(r.String(FieldCourt))
	c := CaseSummary{
		DocketID:     id,
		CaseName:     r.String(FieldCaseName),
		DocketNumber: r.String(FieldDocketNumber),
		Court:        court,
		DateFiled:    r.Date(FieldDateFiled),
		Status:       Status(r),
		Judge:        r.String(FieldJudge),
		Magistrate:   r.String(FieldMagistrate),
		NatureOfSuit: r.String(FieldNatureOfSuit),
		Cause:        r.String(FieldCause),

		Parties:            Unknown,
		ComplaintDocNumber: Unknown,
		RecentUpdates:      Unknown,
		ExtractedCauses:    Unknown,
		ExtractedAISnippet: Unknown,
	}
	c.CourtShortName, c.CourtURL = n.courtMeta(court)
	return c, true
}

func (n *Normalizer) courtMeta(court string) (string, string) {
	if !IsKnown(court) {
		return Unknown, ""
	}
	return court, fmt.Sprintf("%s/court/%s/", n.BaseURL, court)
}

// Document builds a Document from a RECAP document record.  Case-level fields
// come from parent.  Every extracted field starts as Unknown.
func (n *Normalizer) Document(r Record, parent CaseSummary) Document {
	// "id" on a document record is the document's own id, so only the
	// explicit docket keys are consulted.
	id := parent.DocketID
	if id == 0 {
		id, _ = ParseDocketID(r["docket_id"])
	}
	desc := r.String(FieldDescription)
	dateFiled := r.Date(FieldDateFiled)
	if dateFiled == Unknown {
		dateFiled = parent.DateFiled
	}
	docURL, _ := r.Lookup(FieldDocumentURL)
	pdfURL, _ := r.Lookup(FieldPDFURL)

	return Document{
		DocketID:     id,
		DocketNumber: parent.DocketNumber,
		CaseName:     parent.CaseName,
		Court:        parent.Court,
		NatureOfSuit: parent.NatureOfSuit,
		DateFiled:    dateFiled,

		DocType:     DocumentType(desc),
		DocNumber:   r.String(FieldDocNumber),
		Description: desc,
		DocumentURL: n.AbsURL(docURL),
		PDFURL:      n.AbsURL(pdfURL),

		TextSnippet:        Unknown,
		ExtractedPlaintiff: Unknown,
		ExtractedDefendant: Unknown,
		ExtractedCauses:    Unknown,
		ExtractedAISnippet: Unknown,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived case fields
// ─────────────────────────────────────────────────────────────────────────────

// MaxParties bounds the formatted party list.
const MaxParties = 12

// Status renders the docket status from its termination date.
func Status(r Record) string {
	if term := r.Date(FieldDateTerminated); term != Unknown {
		return "종결(" + term + ")"
	}
	return StatusOpen
}

// FormatParties renders up to MaxParties parties as "name(role)" joined by
// "; ", appending "…" when more parties exist.
func FormatParties(parties []Record) string {
	var names []string
	for i, p := range parties {
		if i == MaxParties {
			break
		}
		name, ok := p.Lookup(FieldPartyName)
		if !ok {
			continue
		}
		if role, ok := p.Lookup(FieldPartyRole); ok {
			name = name + "(" + role + ")"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return Unknown
	}
	out := strings.Join(names, "; ")
	if len(parties) > MaxParties {
		out += "; …"
	}
	return out
}

// MaxRecentUpdates bounds the docket-entry digest.
const MaxRecentUpdates = 3

// RecentUpdates digests the first three docket entries as "date description"
// joined by " / ".  Entries are expected newest first.
func RecentUpdates(entries []Record) string {
	var updates []string
	for i, e := range entries {
		if i == MaxRecentUpdates {
			break
		}
		date, _ := e.Lookup(FieldDateFiled)
		date = datePart(date)
		desc, _ := e.Lookup(FieldDescription)
		if line := strings.TrimSpace(date + " " + desc); line != "" {
			updates = append(updates, line)
		}
	}
	if len(updates) == 0 {
		return Unknown
	}
	return strings.Join(updates, " / ")
}

// HitKey is the pre-dedup identity of a search hit: its URL and case name.
func HitKey(r Record) string {
	u, _ := r.Lookup(FieldDocketURL)
	if u == "" {
		u, _ = r["url"].(string)
	}
	name, _ := r.Lookup(FieldCaseName)
	if name == "" {
		name, _ = r["title"].(string)
	}
	return u + "|" + name
}

// NestedRecords returns the objects stored as an array under key, such as the
// "recap_documents" of a search hit.  Non-object elements are skipped.
func (r Record) NestedRecords(key string) []Record {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

//Personal.AI order the ending
