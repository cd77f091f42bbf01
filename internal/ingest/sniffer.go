// Package ingest classifies uploaded conversation blobs into one of four
// container formats and flattens them into per-conversation records.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/extractify/internal/model"
)

// textKeys is the priority list of member names tried when pulling
// conversation text out of a JSON object.
var textKeys = []string{"text", "content", "message", "conversation", "dialog", "messages"}

// Sniff classifies data and returns one record per conversation found.
// baseLabel (normally the upload's file name) prefixes each record label.
//
// The cascade commits to the first format that accepts the blob: a single
// JSON object carrying a "train" list is the dataset shape, any other
// JSON array is one record per element, a multi-line blob where every
// non-blank line parses as JSON is line-delimited, and anything else is
// one plain-text conversation. Parse failures fall through silently;
// deciding that nothing was extractable is the pipeline's job.
func Sniff(data []byte, baseLabel string) (model.Format, []model.Conversation) {
	trimmed := bytes.TrimSpace(data)

	if json.Valid(trimmed) {
		var df datasetFile
		if err := json.Unmarshal(trimmed, &df); err == nil && len(df.Train) > 0 {
			return model.FormatDataset, datasetRecords(df, baseLabel)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err == nil {
			return model.FormatJSON, elementRecords(arr, baseLabel)
		}
	}

	if bytes.ContainsRune(trimmed, '\n') {
		if recs, ok := jsonlRecords(trimmed, baseLabel); ok {
			return model.FormatJSONL, recs
		}
	}

	return model.FormatText, []model.Conversation{{
		Label: baseLabel,
		Text:  string(trimmed),
	}}
}

// elementRecords flattens a JSON array, one record per element.
func elementRecords(arr []json.RawMessage, baseLabel string) []model.Conversation {
	recs := make([]model.Conversation, 0, len(arr))
	for i, raw := range arr {
		recs = append(recs, model.Conversation{
			Label: fmt.Sprintf("%s_conversation_%d", baseLabel, i+1),
			Text:  itemText(raw),
		})
	}
	return recs
}

// jsonlRecords parses every non-blank line as JSON. Acceptance is
// all-or-nothing: one bad line abandons the whole branch.
func jsonlRecords(data []byte, baseLabel string) ([]model.Conversation, bool) {
	var recs []model.Conversation
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, false
		}
		recs = append(recs, model.Conversation{
			Label: fmt.Sprintf("%s_conversation_%d", baseLabel, len(recs)+1),
			Text:  itemText(line),
		})
	}
	return recs, len(recs) > 0
}

// itemText extracts conversation text from one JSON value. Objects are
// searched by the textKeys priority list; an object with none of those
// members falls back to its string-valued members concatenated in sorted
// key order, which keeps output deterministic across runs. Scalars
// stringify directly.
func itemText(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err == nil && obj != nil {
		for _, key := range textKeys {
			v, ok := obj[key]
			if !ok {
				continue
			}
			if s := stringifyValue(v); s != "" {
				return s
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			if s, ok := obj[k].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}

	var scalar any
	dec = json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&scalar); err == nil {
		return stringifyValue(scalar)
	}
	return ""
}

// stringifyValue renders a decoded JSON value as conversation text.
// Lists join their elements with spaces; nested objects contribute
// nothing.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprintf("%v", t)
	case []any:
		var parts []string
		for _, e := range t {
			if s := stringifyValue(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			if s, ok := t[k].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
