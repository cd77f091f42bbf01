package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/extractify/internal/model"
)

func TestSniff_JSONArray(t *testing.T) {
	format, recs := Sniff([]byte(`[{"text": "hello"}]`), "upload.json")

	assert.Equal(t, model.FormatJSON, format)
	require.Len(t, recs, 1)
	assert.Equal(t, "hello", recs[0].Text)
	assert.Equal(t, "upload.json_conversation_1", recs[0].Label)
}

func TestSniff_ArrayAndJSONLRoundTrip(t *testing.T) {
	// The same record serialized as a one-element array and as a single
	// JSONL line must produce the same text.
	_, fromArray := Sniff([]byte(`[{"text": "hello"}]`), "a")
	_, fromLines := Sniff([]byte("{\"text\": \"hello\"}\n{\"text\": \"world\"}"), "a")

	require.Len(t, fromArray, 1)
	require.Len(t, fromLines, 2)
	assert.Equal(t, "hello", fromArray[0].Text)
	assert.Equal(t, "hello", fromLines[0].Text)
	assert.Equal(t, "world", fromLines[1].Text)
}

func TestSniff_JSONL_AllOrNothing(t *testing.T) {
	blob := "{\"text\": \"ok\"}\nthis line is not json\n{\"text\": \"fine\"}"
	format, recs := Sniff([]byte(blob), "mixed.jsonl")

	// One bad line abandons the branch entirely; the blob degrades to text.
	assert.Equal(t, model.FormatText, format)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Text, "not json")
}

func TestSniff_SingleLineJSONNeverReachesJSONL(t *testing.T) {
	format, recs := Sniff([]byte(`[{"text": "only"}]`), "one")

	assert.Equal(t, model.FormatJSON, format)
	require.Len(t, recs, 1)
}

func TestSniff_PlainText(t *testing.T) {
	format, recs := Sniff([]byte("Customer called about order 1012809669."), "note.txt")

	assert.Equal(t, model.FormatText, format)
	require.Len(t, recs, 1)
	assert.Equal(t, "note.txt", recs[0].Label)
	assert.Equal(t, "Customer called about order 1012809669.", recs[0].Text)
}

func TestSniff_TextKeyPriority(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want string
	}{
		{"text wins over content", `[{"content": "second", "text": "first"}]`, "first"},
		{"content", `[{"content": "body"}]`, "body"},
		{"dialog list joined", `[{"dialog": ["hi", "hello back"]}]`, "hi hello back"},
		{"messages objects joined", `[{"messages": [{"text": "a"}, {"text": "b"}]}]`, "a b"},
		{"fallback sorted concat", `[{"zeta": "two", "alpha": "one", "count": 3}]`, "one two"},
		{"scalar element", `["just a string"]`, "just a string"},
		{"number element", `[12345]`, "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, recs := Sniff([]byte(tt.blob), "f")
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Text)
		})
	}
}

func TestSniff_Dataset(t *testing.T) {
	blob := `{
	  "train": [
	    {
	      "convo_id": 1042,
	      "scenario": {
	        "personal": {"phone": "(555) 123-4567", "email": "crystal@example.com"},
	        "order": {"zip_code": 46322, "order_id": "1012809669"},
	        "flow": "storewide_query",
	        "subflow": "timing"
	      },
	      "original": [["agent", "hello how can I help"], ["customer", "where is my order"]]
	    },
	    {
	      "convo_id": "1043",
	      "flow": "product_defect",
	      "subflow": "refund",
	      "delexed": [{"text": "my order number is 1160487515"}]
	    }
	  ]
	}`

	format, recs := Sniff([]byte(blob), "abcd.json")

	assert.Equal(t, model.FormatDataset, format)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "abcd.json_convo_1042", first.Label)
	assert.Equal(t, "hello how can I help where is my order", first.Text)
	assert.Equal(t, "storewide_query", first.Flow)
	assert.Equal(t, "timing", first.Subflow)
	assert.Equal(t, "(555) 123-4567", first.Aux[model.FieldPhone])
	assert.Equal(t, "crystal@example.com", first.Aux[model.FieldEmail])
	assert.Equal(t, "46322", first.Aux[model.FieldZipCode])
	assert.Equal(t, "1012809669", first.Aux[model.FieldOrderID])

	second := recs[1]
	assert.Equal(t, "abcd.json_convo_1043", second.Label)
	assert.Equal(t, "my order number is 1160487515", second.Text)
	assert.Equal(t, "product_defect", second.Flow)
	assert.Equal(t, model.NA, second.Aux[model.FieldPhone])
}

func TestSniff_DatasetScenarioFallbackText(t *testing.T) {
	blob := `{"train": [{"convo_id": 7, "scenario": {"order": {"zip_code": "90210"}}}]}`
	format, recs := Sniff([]byte(blob), "d")

	assert.Equal(t, model.FormatDataset, format)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Text, "90210")
	assert.Equal(t, "90210", recs[0].Aux[model.FieldZipCode])
}

func TestSniff_ObjectWithoutTrainFallsThrough(t *testing.T) {
	format, recs := Sniff([]byte(`{"text": "hello"}`), "o")

	// A lone object without "train" is neither dataset nor array; with no
	// newlines it lands in the plain-text branch verbatim.
	assert.Equal(t, model.FormatText, format)
	require.Len(t, recs, 1)
	assert.Equal(t, `{"text": "hello"}`, recs[0].Text)
}

func TestSniff_EmptyInput(t *testing.T) {
	format, recs := Sniff([]byte("   \n  "), "empty")

	assert.Equal(t, model.FormatText, format)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Text)
}
