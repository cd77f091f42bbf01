package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/extractify/internal/model"
)

func TestZipCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled zip code", "Zip code 78202.", "78202"},
		{"labeled zip is", "my zip is 46322", "46322"},
		{"labeled with colon", "ZIP: 90210", "90210"},
		{"plus four anywhere", "we ship to 46322-1234 usually", "46322-1234"},
		{"address shaped", "I live at 123 Main Street, Highland, IN 46322", "46322"},
		{"state code preceding", "Highland, IN 46322", "46322"},
		{"state code no comma", "send it to TX 78202 please", "78202"},
		{"address keyword nearby", "Address is 90210.", "90210"},
		{"permissive standalone", "the code was 46322 apparently", "46322"},
		{"phone fragment rejected", "(555) 123-4567 and also (312) 11223 maybe", model.NA},
		{"order context rejected", "order number 46322 was cancelled", model.NA},
		{"embedded long run rejected", "confirmation 123456789 received", model.NA},
		{"nothing", "no codes in this message", model.NA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ZipCode(tt.text))
		})
	}
}

func TestZipCode_StateCodePropertyHolds(t *testing.T) {
	// The two-letter state code alone is sufficient, no zip keyword needed.
	assert.Equal(t, "60601", ZipCode("Chicago IL 60601"))
}

func TestPrecededByStateCode(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		want  bool
	}{
		{"plain", "IN 46322", 3, true},
		{"comma", "Highland, IN, 46322", 14, true},
		{"lowercase", "in 46322", 3, false},
		{"not a state", "XX 46322", 3, false},
		{"part of word", "CABIN 46322", 6, false},
		{"start of text", "46322", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, precededByStateCode(tt.text, tt.start))
		})
	}
}
