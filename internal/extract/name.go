package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/extractify/internal/model"
)

// The introduction phrase is matched case-insensitively but the captured
// name must be capitalized, which keeps ordinary prose ("i'm calling
// about") from being read as a name.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:my name is|name's|name is|i'm|i am|this is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`(?i:call me|it's|its)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`(?m)^(?i:hi|hello|hey)[,!]?\s+(?i:this is\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`(?i:customer|user|caller):\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
}

var nameCaser = cases.Title(language.AmericanEnglish)

// CustomerName returns the customer's name from an introduction phrase,
// title-cased, or NA.
func CustomerName(text string) string {
	for _, p := range namePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if name, ok := validName(m[1]); ok {
				return name
			}
		}
	}
	return model.NA
}

func validName(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > 30 || strings.ContainsAny(raw, "0123456789") {
		return "", false
	}
	return nameCaser.String(strings.ToLower(raw)), true
}
