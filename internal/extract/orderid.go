package extract

import (
	"regexp"

	"github.com/sells-group/extractify/internal/model"
)

// Labeled forms in priority order: tighter phrasing wins over looser.
var orderLabeledPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order\s+id\.?\s*(?:it\s+is|is|:)\s*(\d{6,})`),
	regexp.MustCompile(`(?i)order\s+id\.?\s*(\d{6,})`),
	regexp.MustCompile(`(?i)order\s+number\.?\s*(?:it\s+is|is|:)?\s*(\d{6,})`),
	regexp.MustCompile(`(?i)order\s+#\s*(\d{6,})`),
	regexp.MustCompile(`(?i)order\s+(\d{6,})`),
}

var (
	orderLabelPattern       = regexp.MustCompile(`(?i)order\s*(?:id|number|#)`)
	longNumberPattern       = regexp.MustCompile(`\b\d{6,}\b`)
	standaloneNumberPattern = regexp.MustCompile(`\b\d{9,}\b`)
	phoneShapePattern       = regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`)
)

// OrderID returns the first order identifier in text (six or more digits),
// or NA.
//
// Three strategies in order: a digit run directly attached to an order
// label, a digit run within 100 characters after an order label, then
// standalone nine-plus digit runs classified by their neighborhood.
// Shorter runs need a label; ten-digit standalone runs are assumed to be
// phone numbers unless order context says otherwise.
func OrderID(text string) string {
	for _, p := range orderLabeledPatterns {
		for _, m := range p.FindAllStringSubmatchIndex(text, -1) {
			if !letterAdjacent(text, m[2], m[3]) {
				return text[m[2]:m[3]]
			}
		}
	}

	for _, label := range orderLabelPattern.FindAllStringIndex(text, -1) {
		to := label[1] + 100
		if to > len(text) {
			to = len(text)
		}
		if m := longNumberPattern.FindStringIndex(text[label[1]:to]); m != nil {
			start, end := label[1]+m[0], label[1]+m[1]
			if !letterAdjacent(text, start, end) {
				return text[start:end]
			}
		}
	}

	for _, loc := range standaloneNumberPattern.FindAllStringIndex(text, -1) {
		if v, ok := classifyStandaloneNumber(text, loc[0], loc[1]); ok {
			return v
		}
	}
	return model.NA
}

func classifyStandaloneNumber(text string, start, end int) (string, bool) {
	if letterAdjacent(text, start, end) {
		return "", false
	}
	near := surrounding(text, start, end, 10)
	if parenGroupPattern.MatchString(near) || phoneShapePattern.MatchString(near) {
		return "", false
	}

	wide := surrounding(text, start, end, 50)
	hasOrder := containsAny(wide, "order")
	if containsAny(wide, "phone", "call", "contact", "telephone") && !hasOrder {
		return "", false
	}
	if hasOrder {
		return text[start:end], true
	}

	if end-start == 10 {
		// Ten digits with no order context reads as a phone number.
		return "", false
	}
	return text[start:end], true
}

// letterAdjacent reports whether the digit run at [start, end) touches a
// letter on either side, which marks it as part of an alphanumeric
// account or reference code rather than an order id.
func letterAdjacent(text string, start, end int) bool {
	if start > 0 {
		c := text[start-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	if end < len(text) {
		c := text[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
