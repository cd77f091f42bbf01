package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/extractify/internal/model"
	"github.com/sells-group/extractify/pkg/anthropic"
)

// ModelExtractor extracts conversation fields using a language model.
// Implementations must return a complete FieldMap (NA for misses). The
// customer name is never model-supplied; it stays with the pattern
// extractors.
type ModelExtractor interface {
	Extract(ctx context.Context, text string) (model.FieldMap, error)
}

// modelFields are the only fields the model is asked for and the only
// ones the resolver will take from it.
var modelFields = []model.Field{
	model.FieldEmail,
	model.FieldPhone,
	model.FieldZipCode,
	model.FieldOrderID,
}

const extractSystemPrompt = `You extract contact details from customer service conversations. Respond with a single JSON object and nothing else.`

const extractPromptTemplate = `Extract the following information from this customer service conversation. Return ONLY a JSON object with these exact keys: "email", "phone", "zipCode", "orderId". Use "NA" for any field that is not present in the conversation.

Rules:
- phone: format as XXX-XXX-XXXX
- zipCode: 5 digits, or 5+4 with a dash
- orderId: digits only, 6 or more

Conversation:
%s`

// ClaudeExtractor implements ModelExtractor against the Anthropic API.
type ClaudeExtractor struct {
	client    anthropic.Client
	modelID   string
	maxChars  int
	maxTokens int64
}

// NewClaudeExtractor builds a model extractor. maxChars bounds how much
// conversation text is sent per call.
func NewClaudeExtractor(client anthropic.Client, modelID string, maxChars int) *ClaudeExtractor {
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &ClaudeExtractor{
		client:    client,
		modelID:   modelID,
		maxChars:  maxChars,
		maxTokens: 256,
	}
}

func (e *ClaudeExtractor) Extract(ctx context.Context, text string) (model.FieldMap, error) {
	if len(text) > e.maxChars {
		text = text[:e.maxChars]
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.modelID,
		MaxTokens: e.maxTokens,
		System:    extractSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(extractPromptTemplate, text)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: model call")
	}

	return parseModelFields(resp.Text())
}

// parseModelFields decodes the model's JSON reply into a FieldMap.
// Missing keys come back as NA; unknown keys, including a customerName
// the model was not asked for, are ignored.
func parseModelFields(raw string) (model.FieldMap, error) {
	var decoded map[string]string
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &decoded); err != nil {
		return nil, eris.Wrap(err, "extract: parse model reply")
	}

	m := model.NewFieldMap()
	for _, f := range modelFields {
		if v, ok := decoded[string(f)]; ok {
			m[f] = strings.TrimSpace(v)
		}
	}
	return m, nil
}

// cleanJSON strips markdown code fences and surrounding prose, leaving
// the outermost JSON object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
