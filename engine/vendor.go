package engine

import (
	"strings"
	"unicode"
)

// ============================================================================
// VENDOR DISAMBIGUATOR — query text → known vendor
// ============================================================================
// Matching is by token set, never by substring: a candidate phrase matches a
// vendor only when every candidate token is one of the vendor's tokens.
// "IT" therefore never matches "ITALIAN BISTRO".
// ============================================================================

// maxPhraseTokens bounds the phrase read after a preposition.
const maxPhraseTokens = 4

// shortQueryTokens is the query length up to which every token is a candidate.
const shortQueryTokens = 3

var prepositions = map[string]bool{"on": true, "at": true, "from": true, "in": true}

// InferVendor guesses which known vendor a free-text query refers to.
// A nil stopWords uses DefaultStopWords.
func InferVendor(query string, known []string, stopWords []string) (string, bool) {
	if stopWords == nil {
		stopWords = DefaultStopWords
	}
	return inferVendor(query, known, toLowerSet(stopWords))
}

func inferVendor(query string, known []string, stop map[string]bool) (string, bool) {
	candidates := vendorCandidates(Tokenize(query), stop)
	if len(candidates) == 0 || len(known) == 0 {
		return "", false
	}

	vendorTokens := make([]map[string]bool, len(known))
	for i, v := range known {
		vendorTokens[i] = tokenSet(Tokenize(v))
	}

	best, bestCand, bestSize := -1, 0, 0
	for _, cand := range candidates {
		for i, vt := range vendorTokens {
			if !isSubset(cand, vt) {
				continue
			}
			// Longer candidates win first, then the most specific vendor.
			if len(cand) > bestCand || (len(cand) == bestCand && len(vt) > bestSize) {
				best, bestCand, bestSize = i, len(cand), len(vt)
			}
		}
	}
	if best < 0 {
		return "", false
	}
	return known[best], true
}

// vendorCandidates extracts candidate token sets from a tokenized query.
//
// After each preposition, every prefix of the following phrase (up to the
// next preposition, stop words removed) is a candidate. Queries of three
// tokens or fewer also contribute their non-stop tokens, together and one
// by one.
func vendorCandidates(tokens []string, stop map[string]bool) []map[string]bool {
	var out []map[string]bool
	for i, t := range tokens {
		if !prepositions[t] {
			continue
		}
		var phrase []string
		for _, next := range tokens[i+1:] {
			if prepositions[next] || len(phrase) == maxPhraseTokens {
				break
			}
			if !stop[next] {
				phrase = append(phrase, next)
			}
		}
		for n := len(phrase); n > 0; n-- {
			out = append(out, tokenSet(phrase[:n]))
		}
	}

	if len(tokens) <= shortQueryTokens {
		var kept []string
		for _, t := range tokens {
			if !stop[t] {
				kept = append(kept, t)
			}
		}
		if len(kept) > 1 {
			out = append(out, tokenSet(kept))
		}
		for _, t := range kept {
			out = append(out, tokenSet([]string{t}))
		}
	}
	return out
}

// Tokenize lowercases s and splits it on every non-alphanumeric rune.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

func isSubset(sub, super map[string]bool) bool {
	if len(sub) == 0 {
		return false
	}
	for t := range sub {
		if !super[t] {
			return false
		}
	}
	return true
}

// vendorOriented reports whether a plan asks about vendors, which is when
// inferring a vendor from the query text is useful.
func vendorOriented(p Plan) bool {
	topN := p.Intent == IntentTopN || p.TopN.Enabled
	switch {
	case topN && p.TopN.Dimension == DimensionVendor:
		return true
	case p.GroupBy == GroupVendor:
		return true
	case p.Intent == IntentSummary || p.Intent == IntentSearch:
		return !(topN && p.TopN.Dimension == DimensionCategory) && p.GroupBy != GroupCategory
	}
	return false
}

// knownVendors lists distinct vendor names in snapshot order.
func knownVendors(view RecordView) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < view.Len(); i++ {
		v := strings.TrimSpace(view.At(i).Vendor)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// KnownVendors lists the distinct vendor names of a snapshot in first-seen
// order, compared case-insensitively.
func KnownVendors(records []Record) []string {
	return knownVendors(NewSliceView(records))
}
