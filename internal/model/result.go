// Package model defines the core types shared across extraction, ingestion,
// and storage: field maps, extraction results, conversations, and batch output.
package model

import "time"

// NA is the sentinel for a field that was not found. It is a first-class
// value, not an absence: every ExtractionResult carries all five fields, and
// consumers test against NA rather than checking for missing keys.
const NA = "NA"

// Field identifies one of the extractable conversation fields.
type Field string

const (
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldZipCode      Field = "zipCode"
	FieldOrderID      Field = "orderId"
	FieldCustomerName Field = "customerName"
)

// Fields lists all extractable fields in canonical order.
var Fields = []Field{FieldEmail, FieldPhone, FieldZipCode, FieldOrderID, FieldCustomerName}

// FieldMap holds one value per extractable field. Missing keys are treated
// as NA; NewFieldMap returns a map with every field pre-filled.
type FieldMap map[Field]string

// NewFieldMap returns a FieldMap with every field set to NA.
func NewFieldMap() FieldMap {
	m := make(FieldMap, len(Fields))
	for _, f := range Fields {
		m[f] = NA
	}
	return m
}

// Get returns the value for f, or NA when the key is absent or empty.
func (m FieldMap) Get(f Field) string {
	if v, ok := m[f]; ok && v != "" {
		return v
	}
	return NA
}

// Found reports whether f holds a real value (anything but NA).
func (m FieldMap) Found(f Field) bool {
	return m.Get(f) != NA
}

// Clone returns a copy of the map with all fields present.
func (m FieldMap) Clone() FieldMap {
	out := NewFieldMap()
	for _, f := range Fields {
		out[f] = m.Get(f)
	}
	return out
}

// Metadata describes how a single extraction was produced.
type Metadata struct {
	FileName         string   `json:"fileName"`
	ProcessedAt      string   `json:"processedAt"`
	TextLength       int      `json:"textLength"`
	ExtractionMethod string   `json:"extractionMethod"`
	RegexResults     FieldMap `json:"regexResults,omitempty"`
	LLMResults       FieldMap `json:"llmResults,omitempty"`
	LLMError         string   `json:"llmError,omitempty"`
	ConversationID   string   `json:"conversationId,omitempty"`
	Flow             string   `json:"flow,omitempty"`
	Subflow          string   `json:"subflow,omitempty"`
	Category         string   `json:"category,omitempty"`
}

// ExtractionResult is the per-conversation output of the resolver.
type ExtractionResult struct {
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	ZipCode      string   `json:"zipCode"`
	OrderID      string   `json:"orderId"`
	CustomerName string   `json:"customerName"`
	Metadata     Metadata `json:"metadata"`
}

// NewExtractionResult builds a result with every field set to NA.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		Email:        NA,
		Phone:        NA,
		ZipCode:      NA,
		OrderID:      NA,
		CustomerName: NA,
	}
}

// SetFields copies a FieldMap into the result's five field slots.
func (r *ExtractionResult) SetFields(m FieldMap) {
	r.Email = m.Get(FieldEmail)
	r.Phone = m.Get(FieldPhone)
	r.ZipCode = m.Get(FieldZipCode)
	r.OrderID = m.Get(FieldOrderID)
	r.CustomerName = m.Get(FieldCustomerName)
}

// FieldValues returns the result's five field slots as a FieldMap.
func (r *ExtractionResult) FieldValues() FieldMap {
	return FieldMap{
		FieldEmail:        r.Email,
		FieldPhone:        r.Phone,
		FieldZipCode:      r.ZipCode,
		FieldOrderID:      r.OrderID,
		FieldCustomerName: r.CustomerName,
	}
}

// Format identifies the detected shape of an uploaded file.
type Format string

const (
	FormatDataset Format = "dataset"
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatText    Format = "text"
)

// Conversation is one ingested conversation ready for extraction.
type Conversation struct {
	// Label identifies the record within its source file,
	// e.g. "upload.json_conversation_3" or "data_convo_1042".
	Label string
	Text  string

	// Aux carries structured values copied from dataset scenario blocks.
	// They seed fields the extractors leave at NA; they never override.
	Aux FieldMap

	ConvoID string
	Flow    string
	Subflow string
}

// BatchResult aggregates extraction output for one uploaded file.
type BatchResult struct {
	Conversations []*ExtractionResult `json:"conversations"`
	Total         int                 `json:"total"`
	Format        Format              `json:"format"`
	Summary       string              `json:"summary,omitempty"`
	Categories    map[string]int      `json:"categories,omitempty"`
}

// StoredConversation is a persisted conversation row with its extracted fields.
type StoredConversation struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content,omitempty"`
	Preview   string            `json:"preview,omitempty"`
	FileName  string            `json:"fileName,omitempty"`
	Fields    *ExtractionResult `json:"extractedFields,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
