package extract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/extractify/internal/model"
)

// MethodRegex and MethodHybrid name the two extraction modes reported in
// result metadata.
const (
	MethodRegex  = "regex"
	MethodHybrid = "hybrid"
)

// Resolver merges pattern extraction with an optional model extractor.
// The pattern pass always runs and always wins per field; the model only
// fills email, phone, zipCode, and orderId when the patterns left them
// at NA. The customer name is pattern-only. Model failure degrades to
// pattern-only output and is never surfaced as an error.
type Resolver struct {
	model   ModelExtractor
	timeout time.Duration
}

// NewResolver builds a resolver. m may be nil for pattern-only operation.
// timeout bounds the model call; zero means 30 seconds.
func NewResolver(m ModelExtractor, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{model: m, timeout: timeout}
}

// ModelAvailable reports whether a model extractor is configured.
func (r *Resolver) ModelAvailable() bool {
	return r.model != nil
}

type modelOutcome struct {
	fields model.FieldMap
	err    error
}

// Resolve extracts all five fields from text and returns a fully
// populated ExtractionResult. The model call, when configured, runs
// concurrently with the pattern pass.
func (r *Resolver) Resolve(ctx context.Context, text string) *model.ExtractionResult {
	var ch chan modelOutcome
	if r.model != nil {
		ch = make(chan modelOutcome, 1)
		go func() {
			mctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			fields, err := r.model.Extract(mctx, text)
			ch <- modelOutcome{fields: fields, err: err}
		}()
	}

	patterns := Patterns(text)

	res := model.NewExtractionResult()
	res.Metadata = model.Metadata{
		ProcessedAt:      time.Now().UTC().Format(time.RFC3339),
		TextLength:       len(text),
		ExtractionMethod: MethodRegex,
		RegexResults:     patterns,
	}

	merged := patterns.Clone()
	if ch != nil {
		res.Metadata.ExtractionMethod = MethodHybrid
		out := <-ch
		if out.err != nil {
			zap.L().Warn("model extraction failed, using pattern results only",
				zap.Error(out.err),
			)
			res.Metadata.LLMError = out.err.Error()
		} else {
			llm := normalizeAll(out.fields)
			res.Metadata.LLMResults = llm
			for _, f := range modelFields {
				if !merged.Found(f) && llm.Found(f) {
					merged[f] = llm[f]
				}
			}
		}
	}

	// Nothing invalid leaves the resolver, whichever source it came from.
	for _, f := range model.Fields {
		if merged.Found(f) && !model.Valid(f, merged[f]) {
			merged[f] = model.NA
		}
	}

	res.SetFields(merged)
	return res
}

// normalizeAll coerces every model-supplied value into canonical form,
// dropping anything that fails its field validator.
func normalizeAll(m model.FieldMap) model.FieldMap {
	out := model.NewFieldMap()
	if m == nil {
		return out
	}
	for _, f := range modelFields {
		out[f] = model.Normalize(f, m.Get(f))
	}
	return out
}
