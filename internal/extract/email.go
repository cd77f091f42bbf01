package extract

import (
	"regexp"

	"github.com/sells-group/extractify/internal/model"
)

// emailPattern requires a dotted domain so that bare hostnames
// ("agent@support") are not mistaken for addresses.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)+`)

// Email returns the first email address in text with its casing
// preserved, or NA.
func Email(text string) string {
	m := emailPattern.FindString(text)
	if m == "" {
		return model.NA
	}
	return m
}
