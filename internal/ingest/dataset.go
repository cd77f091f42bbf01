package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/extractify/internal/model"
)

// datasetFile is the nested dataset shape: a single object whose "train"
// member lists conversation entries.
type datasetFile struct {
	Train []datasetEntry `json:"train"`
}

type datasetEntry struct {
	ConvoID  looseString     `json:"convo_id"`
	Flow     string          `json:"flow"`
	Subflow  string          `json:"subflow"`
	Original []turn          `json:"original"`
	Delexed  []turn          `json:"delexed"`
	Scenario json.RawMessage `json:"scenario"`
}

// scenario is the auxiliary structured block carried by dataset entries.
// Member names are fixed literals of the format, not configurable.
type scenario struct {
	Personal struct {
		Phone looseString `json:"phone"`
		Email looseString `json:"email"`
	} `json:"personal"`
	Order struct {
		ZipCode looseString `json:"zip_code"`
		OrderID looseString `json:"order_id"`
	} `json:"order"`
	Flow    string `json:"flow"`
	Subflow string `json:"subflow"`
}

// turn is one utterance, serialized either as a [speaker, text] pair or
// as an object with a "text" member.
type turn struct {
	Text string
}

func (t *turn) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err == nil {
		switch {
		case len(pair) >= 2:
			t.Text = pair[1]
		case len(pair) == 1:
			t.Text = pair[0]
		}
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		t.Text = obj.Text
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		t.Text = s
	}
	// Unrecognized turn shapes contribute no text.
	return nil
}

// looseString tolerates numeric JSON where the format nominally holds
// strings (convo ids and zip codes appear both ways in the wild).
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = looseString(n.String())
		return nil
	}
	*s = ""
	return nil
}

// datasetRecords flattens dataset entries into conversation records.
// Text preference per entry: the original turn list, then the delexed
// turn list, then the raw scenario JSON. Scenario personal/order values
// are copied into Aux to pre-seed fields the extractors miss.
func datasetRecords(df datasetFile, baseLabel string) []model.Conversation {
	recs := make([]model.Conversation, 0, len(df.Train))
	for i, entry := range df.Train {
		var sc scenario
		if len(entry.Scenario) > 0 {
			// Malformed scenarios just lose their auxiliary values.
			_ = json.Unmarshal(entry.Scenario, &sc)
		}

		text := joinTurns(entry.Original)
		if text == "" {
			text = joinTurns(entry.Delexed)
		}
		if text == "" && len(entry.Scenario) > 0 {
			text = string(entry.Scenario)
		}

		id := string(entry.ConvoID)
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}

		flow := entry.Flow
		if flow == "" {
			flow = sc.Flow
		}
		subflow := entry.Subflow
		if subflow == "" {
			subflow = sc.Subflow
		}

		aux := model.NewFieldMap()
		aux[model.FieldPhone] = orNA(string(sc.Personal.Phone))
		aux[model.FieldEmail] = orNA(string(sc.Personal.Email))
		aux[model.FieldZipCode] = orNA(string(sc.Order.ZipCode))
		aux[model.FieldOrderID] = orNA(string(sc.Order.OrderID))

		recs = append(recs, model.Conversation{
			Label:   fmt.Sprintf("%s_convo_%s", baseLabel, id),
			Text:    text,
			Aux:     aux,
			ConvoID: id,
			Flow:    flow,
			Subflow: subflow,
		})
	}
	return recs
}

func joinTurns(turns []turn) string {
	var parts []string
	for _, t := range turns {
		if t.Text != "" {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return model.NA
	}
	return s
}
