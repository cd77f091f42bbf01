// Package pipeline drives ingestion and extraction: format sniffing,
// per-record hybrid resolution under a bounded worker pool, and batch
// aggregation.
package pipeline

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/extractify/internal/extract"
	"github.com/sells-group/extractify/internal/ingest"
	"github.com/sells-group/extractify/internal/model"
)

// ErrNoText is the only caller-visible ingestion failure: no candidate
// format yielded any extractable conversation text.
var ErrNoText = eris.New("no extractable text found in input")

// Pipeline runs conversations through the resolver.
type Pipeline struct {
	resolver    *extract.Resolver
	concurrency int
}

// New builds a pipeline. concurrency bounds records in flight during
// bulk processing; zero or negative means 4.
func New(resolver *extract.Resolver, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Pipeline{resolver: resolver, concurrency: concurrency}
}

// Resolver exposes the underlying resolver, mainly for health reporting.
func (p *Pipeline) Resolver() *extract.Resolver {
	return p.resolver
}

// ExtractOne processes a single conversation string.
func (p *Pipeline) ExtractOne(ctx context.Context, text, fileName string) (*model.ExtractionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	res := p.resolver.Resolve(ctx, text)
	res.Metadata.FileName = fileName
	return res, nil
}

// Bulk sniffs data, extracts every conversation it contains, and
// aggregates the results. Result order matches record arrival order even
// though records are processed concurrently.
func (p *Pipeline) Bulk(ctx context.Context, data []byte, fileName string) (*model.BatchResult, error) {
	format, records := ingest.Sniff(data, fileName)

	// Records with no text never produce a result.
	kept := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(rec.Text) != "" {
			kept = append(kept, rec)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoText
	}

	zap.L().Info("bulk extraction started",
		zap.String("file", fileName),
		zap.String("format", string(format)),
		zap.Int("records", len(kept)),
	)

	results := make([]*model.ExtractionResult, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, rec := range kept {
		g.Go(func() error {
			res := p.resolver.Resolve(gctx, rec.Text)
			finishRecord(res, rec)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: bulk extract")
	}

	batch := &model.BatchResult{
		Conversations: results,
		Total:         len(results),
		Format:        format,
	}
	if format == model.FormatDataset {
		batch.Categories, batch.Summary = summarize(kept)
	}
	return batch, nil
}

// finishRecord stamps provenance metadata and applies auxiliary
// pre-seeding: a structured value from the source container fills a
// field only when extraction left it at NA.
func finishRecord(res *model.ExtractionResult, rec model.Conversation) {
	res.Metadata.FileName = rec.Label
	res.Metadata.ConversationID = rec.ConvoID
	res.Metadata.Flow = rec.Flow
	res.Metadata.Subflow = rec.Subflow
	res.Metadata.Category = categoryName(rec.Flow, rec.Subflow)

	if rec.Aux == nil {
		return
	}
	merged := res.FieldValues()
	changed := false
	for _, f := range model.Fields {
		if merged.Found(f) {
			continue
		}
		if v := model.Normalize(f, rec.Aux.Get(f)); v != model.NA {
			merged[f] = v
			changed = true
		}
	}
	if changed {
		res.SetFields(merged)
	}
}

// summarize counts results per flow and renders the human-readable
// tally, e.g. "3 product defect, 5 storewide query".
func summarize(records []model.Conversation) (map[string]int, string) {
	counts := make(map[string]int)
	for _, rec := range records {
		flow := rec.Flow
		if flow == "" {
			flow = "unknown"
		}
		counts[flow]++
	}

	flows := make([]string, 0, len(counts))
	for flow := range counts {
		flows = append(flows, flow)
	}
	sort.Strings(flows)

	var b strings.Builder
	for i, flow := range flows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(counts[flow]))
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(flow, "_", " "))
	}
	return counts, b.String()
}

// categoryName renders a display category from flow/subflow identifiers.
func categoryName(flow, subflow string) string {
	if flow == "" {
		return ""
	}
	name := titleWords(flow)
	if subflow != "" {
		name += " - " + titleWords(subflow)
	}
	return name
}

func titleWords(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
