package extract

import (
	"regexp"

	"github.com/sells-group/extractify/internal/model"
)

var (
	zipLabeledPattern = regexp.MustCompile(`(?i)zip\s*(?:code)?\s*(?:is|:)?\s*(\d{5}(?:-\d{4})?)`)
	zipPlusFourPattern = regexp.MustCompile(`\b\d{5}-\d{4}\b`)
	zipAddressPattern  = regexp.MustCompile(`(?i:\b(?:street|avenue|ave|road|rd|drive|dr|boulevard|blvd|way|lane|ln|court|ct|circle|st)\b)[^\n]{0,40}?\b([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\b`)
	zipBarePattern     = regexp.MustCompile(`\b\d{5}\b`)

	parenGroupPattern = regexp.MustCompile(`\(\d{3}\)`)
	longDigitRun      = regexp.MustCompile(`\d{6,}`)
	zipOrderBefore    = regexp.MustCompile(`order\s*(?:id|number|#)`)
)

var zipKeywords = []string{"zip", "address", "location", "city", "state", "postal"}

// ZipCode returns the first US zip code in text (5 digit or ZIP+4), or NA.
//
// Strategies run in order: an explicit "zip" label, a ZIP+4 anywhere, a
// street-address shape, and finally a scan of bare five-digit runs with
// exclusion rules to reject phone fragments and order-id neighborhoods.
func ZipCode(text string) string {
	if m := zipLabeledPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := zipPlusFourPattern.FindString(text); m != "" {
		return m
	}
	if m := zipAddressPattern.FindStringSubmatch(text); m != nil {
		if _, ok := stateCodes[m[1]]; ok {
			return m[2]
		}
	}
	for _, loc := range zipBarePattern.FindAllStringIndex(text, -1) {
		if v, ok := classifyBareZip(text, loc[0], loc[1]); ok {
			return v
		}
	}
	return model.NA
}

// classifyBareZip decides whether a bare five-digit run is a zip code.
// Exclusions run before accept heuristics so a phone fragment or order id
// neighbor can never be promoted by a nearby keyword.
func classifyBareZip(text string, start, end int) (string, bool) {
	near := surrounding(text, start, end, 10)
	if parenGroupPattern.MatchString(near) {
		return "", false
	}
	if longDigitRun.MatchString(near) {
		return "", false
	}
	if zipOrderBefore.MatchString(contextBefore(text, start, 50)) {
		return "", false
	}

	candidate := text[start:end]
	wide := surrounding(text, start, end, 50)
	if containsAny(wide, zipKeywords...) {
		return candidate, true
	}
	if precededByStateCode(text, start) {
		return candidate, true
	}
	// Default permissive: a clean standalone five-digit run with no
	// disqualifying neighborhood is treated as a zip.
	return candidate, true
}

// stateCodes holds USPS two-letter state and district abbreviations.
var stateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "DC": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {},
	"IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {},
	"NV": {}, "NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {},
	"OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {},
	"TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {},
	"WI": {}, "WY": {},
}

// precededByStateCode reports whether the text immediately before start is
// a standalone two-letter state abbreviation ("Highland, IN 46322").
func precededByStateCode(text string, start int) bool {
	i := start
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	if i > 0 && text[i-1] == ',' {
		i--
		for i > 0 && text[i-1] == ' ' {
			i--
		}
	}
	if i < 2 {
		return false
	}
	code := text[i-2 : i]
	if code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return false
	}
	if i >= 3 {
		prev := text[i-3]
		if (prev >= 'a' && prev <= 'z') || (prev >= 'A' && prev <= 'Z') {
			return false
		}
	}
	_, ok := stateCodes[code]
	return ok
}
