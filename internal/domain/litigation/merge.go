package litigation

// MergeBy concatenates lists and keeps one element per key.  On collision the
// element seen last wins whole; output order is the order in which each key
// was first seen.
func MergeBy[T any, K comparable](key func(T) K, lists ...[]T) []T {
	index := make(map[K]int)
	var out []T
	for _, list := range lists {
		for _, item := range list {
			k := key(item)
			if i, ok := index[k]; ok {
				out[i] = item
				continue
			}
			index[k] = len(out)
			out = append(out, item)
		}
	}
	return out
}

// MergeCases merges case summaries by docket id.  Callers pass the fetch
// paths in the order search, docket number, title; the title path therefore
// wins collisions.
func MergeCases(lists ...[]CaseSummary) []CaseSummary {
	return MergeBy(CaseSummary.Key, lists...)
}

// MergeDocuments merges documents by (docket id, number, date, URL).
func MergeDocuments(lists ...[]Document) []Document {
	return MergeBy(Document.Key, lists...)
}

// DedupHits collapses search hits sharing HitKey, last wins.
func DedupHits(hits []Record) []Record {
	return MergeBy(HitKey, hits)
}

// DocketIDs returns the ids of cases in order.
func DocketIDs(cases []CaseSummary) []int64 {
	ids := make([]int64, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.DocketID)
	}
	return ids
}

// CountComplaints counts cases carrying a complaint link.  This is the
// "RECAP documents" figure of the report.
func CountComplaints(cases []CaseSummary) int {
	n := 0
	for _, c := range cases {
		if c.HasComplaint() {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
