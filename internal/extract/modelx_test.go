package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/extractify/internal/model"
	"github.com/sells-group/extractify/pkg/anthropic"
)

// fakeAnthropicClient records the request and returns a canned reply.
type fakeAnthropicClient struct {
	reply   string
	err     error
	lastReq anthropic.MessageRequest
}

func (f *fakeAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.reply}},
	}, nil
}

func TestClaudeExtractor_ParsesReply(t *testing.T) {
	client := &fakeAnthropicClient{
		reply: "```json\n{\"email\": \"a@b.co\", \"phone\": \"555-123-4567\", \"zipCode\": \"NA\", \"orderId\": \"123456\"}\n```",
	}
	e := NewClaudeExtractor(client, "claude-haiku-4-5-20251001", 4000)

	fields, err := e.Extract(context.Background(), "some conversation")
	require.NoError(t, err)

	assert.Equal(t, "a@b.co", fields[model.FieldEmail])
	assert.Equal(t, "555-123-4567", fields[model.FieldPhone])
	assert.Equal(t, model.NA, fields[model.FieldZipCode])
	assert.Equal(t, "123456", fields[model.FieldOrderID])
	assert.Equal(t, model.NA, fields[model.FieldCustomerName])
}

func TestClaudeExtractor_NameNeverRequestedOrTaken(t *testing.T) {
	// A model that volunteers a customerName anyway is ignored.
	client := &fakeAnthropicClient{
		reply: `{"email": "NA", "phone": "NA", "zipCode": "NA", "orderId": "NA", "customerName": "Crystal"}`,
	}
	e := NewClaudeExtractor(client, "claude-haiku-4-5-20251001", 4000)

	fields, err := e.Extract(context.Background(), "some conversation")
	require.NoError(t, err)

	assert.Equal(t, model.NA, fields[model.FieldCustomerName])
	require.Len(t, client.lastReq.Messages, 1)
	assert.NotContains(t, client.lastReq.Messages[0].Content, "customerName")
}

func TestClaudeExtractor_TruncatesInput(t *testing.T) {
	client := &fakeAnthropicClient{reply: "{}"}
	e := NewClaudeExtractor(client, "claude-haiku-4-5-20251001", 50)

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	_, err := e.Extract(context.Background(), string(long))
	require.NoError(t, err)

	require.Len(t, client.lastReq.Messages, 1)
	assert.Less(t, len(client.lastReq.Messages[0].Content), 500)
}

func TestClaudeExtractor_MissingKeysBecomeNA(t *testing.T) {
	client := &fakeAnthropicClient{reply: `{"email": "a@b.co"}`}
	e := NewClaudeExtractor(client, "claude-haiku-4-5-20251001", 4000)

	fields, err := e.Extract(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, "a@b.co", fields[model.FieldEmail])
	for _, f := range []model.Field{model.FieldPhone, model.FieldZipCode, model.FieldOrderID, model.FieldCustomerName} {
		assert.Equal(t, model.NA, fields[f])
	}
}

func TestClaudeExtractor_MalformedReplyErrors(t *testing.T) {
	client := &fakeAnthropicClient{reply: "I could not find anything useful."}
	e := NewClaudeExtractor(client, "claude-haiku-4-5-20251001", 4000)

	_, err := e.Extract(context.Background(), "text")
	assert.Error(t, err)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"no object at all", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
