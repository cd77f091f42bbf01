package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/extractify/internal/extract"
	"github.com/sells-group/extractify/internal/model"
)

func patternOnly(concurrency int) *Pipeline {
	return New(extract.NewResolver(nil, 0), concurrency)
}

func TestExtractOne(t *testing.T) {
	p := patternOnly(1)
	res, err := p.ExtractOne(context.Background(), "Email is john@example.com.", "note.txt")
	require.NoError(t, err)

	assert.Equal(t, "john@example.com", res.Email)
	assert.Equal(t, "note.txt", res.Metadata.FileName)
	assert.Equal(t, extract.MethodRegex, res.Metadata.ExtractionMethod)
}

func TestExtractOne_EmptyText(t *testing.T) {
	p := patternOnly(1)
	_, err := p.ExtractOne(context.Background(), "   ", "note.txt")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestBulk_OrderPreserved(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, fmt.Sprintf(`{"text": "order id: %d"}`, 100000+i))
	}
	blob := strings.Join(lines, "\n")

	p := patternOnly(8)
	batch, err := p.Bulk(context.Background(), []byte(blob), "orders.jsonl")
	require.NoError(t, err)

	assert.Equal(t, model.FormatJSONL, batch.Format)
	require.Equal(t, 20, batch.Total)
	for i, res := range batch.Conversations {
		assert.Equal(t, fmt.Sprintf("%d", 100000+i), res.OrderID, "index %d", i)
		assert.Equal(t, fmt.Sprintf("orders.jsonl_conversation_%d", i+1), res.Metadata.FileName)
	}
}

func TestBulk_EmptyRecordsSkipped(t *testing.T) {
	blob := `[{"text": "Email is a@b.co"}, {"text": ""}, {"text": "Email is c@d.co"}]`

	p := patternOnly(2)
	batch, err := p.Bulk(context.Background(), []byte(blob), "u.json")
	require.NoError(t, err)

	require.Equal(t, 2, batch.Total)
	assert.Equal(t, "a@b.co", batch.Conversations[0].Email)
	assert.Equal(t, "c@d.co", batch.Conversations[1].Email)
}

func TestBulk_NoExtractableText(t *testing.T) {
	p := patternOnly(2)

	_, err := p.Bulk(context.Background(), []byte(`[{"text": ""}, {"text": "  "}]`), "u.json")
	assert.ErrorIs(t, err, ErrNoText)

	_, err = p.Bulk(context.Background(), []byte("   "), "empty.txt")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestBulk_DatasetSummaryAndAux(t *testing.T) {
	blob := `{
	  "train": [
	    {
	      "convo_id": 1,
	      "flow": "storewide_query",
	      "subflow": "timing",
	      "original": [["customer", "when does the sale end"]],
	      "scenario": {"personal": {"phone": "(555) 123-4567"}, "order": {"zip_code": "46322"}}
	    },
	    {
	      "convo_id": 2,
	      "flow": "storewide_query",
	      "subflow": "policy",
	      "original": [["customer", "my zip is 90210 by the way"]]
	    },
	    {
	      "convo_id": 3,
	      "flow": "product_defect",
	      "subflow": "refund",
	      "original": [["customer", "order id: 123456 arrived broken"]]
	    }
	  ]
	}`

	p := patternOnly(3)
	batch, err := p.Bulk(context.Background(), []byte(blob), "abcd.json")
	require.NoError(t, err)

	assert.Equal(t, model.FormatDataset, batch.Format)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, map[string]int{"storewide_query": 2, "product_defect": 1}, batch.Categories)
	assert.Equal(t, "1 product defect, 2 storewide query", batch.Summary)

	first := batch.Conversations[0]
	// Extraction found nothing in the text; aux values seed the gaps.
	assert.Equal(t, "555-123-4567", first.Phone)
	assert.Equal(t, "46322", first.ZipCode)
	assert.Equal(t, "Storewide Query - Timing", first.Metadata.Category)
	assert.Equal(t, "1", first.Metadata.ConversationID)

	second := batch.Conversations[1]
	// The pattern result wins over any aux value.
	assert.Equal(t, "90210", second.ZipCode)

	third := batch.Conversations[2]
	assert.Equal(t, "123456", third.OrderID)
	assert.Equal(t, "Product Defect - Refund", third.Metadata.Category)
}

func TestBulk_NonDatasetHasNoSummary(t *testing.T) {
	p := patternOnly(2)
	batch, err := p.Bulk(context.Background(), []byte(`[{"text": "hello there"}]`), "u.json")
	require.NoError(t, err)

	assert.Nil(t, batch.Categories)
	assert.Empty(t, batch.Summary)
}
