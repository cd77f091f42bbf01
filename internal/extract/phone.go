package extract

import (
	"regexp"

	"github.com/sells-group/extractify/internal/model"
)

// phoneFormats are tried one format at a time, in fixed priority order.
// Parenthesized area codes are unambiguous phone notation and are
// accepted on shape alone; separated forms need the context check.
var phoneFormats = []struct {
	re    *regexp.Regexp
	paren bool
}{
	{regexp.MustCompile(`\((\d{3})\)\s*(\d{3})[-.\s]?(\d{4})`), true},
	{regexp.MustCompile(`\b(\d{3})-(\d{3})-(\d{4})\b`), false},
	{regexp.MustCompile(`\b(\d{3})\.(\d{3})\.(\d{4})\b`), false},
	{regexp.MustCompile(`\b(\d{3})\s(\d{3})\s(\d{4})\b`), false},
}

var orderRefPattern = regexp.MustCompile(`order\s*(?:id|number|#)`)

var phoneKeywords = []string{"phone", "call", "contact", "reach", "mobile", "cell"}

// Phone returns the first phone number in text in XXX-XXX-XXXX form, or NA.
//
// All matches of one format are considered before falling to the next,
// so a dash-separated number anywhere in the text outranks a
// dot-separated one earlier in it. An unparenthesized candidate is
// accepted when a phone keyword appears within 50 characters on either
// side, or when nothing order-related immediately precedes it. The same
// ten-digit shape serves order ids in this corpus, so the keyword window
// is the only distinguishing signal.
func Phone(text string) string {
	for _, f := range phoneFormats {
		for _, m := range f.re.FindAllStringSubmatchIndex(text, -1) {
			number := text[m[2]:m[3]] + "-" + text[m[4]:m[5]] + "-" + text[m[6]:m[7]]
			if f.paren {
				return number
			}
			window := surrounding(text, m[0], m[1], 50)
			before := contextBefore(text, m[0], 50)
			if containsAny(window, phoneKeywords...) || !orderRefPattern.MatchString(before) {
				return number
			}
		}
	}
	return model.NA
}
