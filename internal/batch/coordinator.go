package batch

import (
	"context"

	"github.com/google/uuid"

	"resume-parser/internal/parser"
	"resume-parser/internal/shared/telemetry"
)

// Item is one resume queued for extraction.
type Item struct {
	Name string
	Text string
}

// ItemOutcome records one item's result or failure reason.
type ItemOutcome struct {
	FileName string               `json:"filename"`
	Success  bool                 `json:"success"`
	Data     *parser.ParsedResult `json:"data,omitempty"`
	Error    string               `json:"error,omitempty"`
	Code     string               `json:"code,omitempty"`
}

// Outcome is the ordered collection of per-item results for one run.
type Outcome struct {
	RunID     string        `json:"runId"`
	Items     []ItemOutcome `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// Progress is reported to the caller after each item.
type Progress struct {
	Index    int
	Total    int
	FileName string
	Err      error
}

// Coordinator runs extractions for a collection of resumes. Items are
// processed strictly sequentially: every call shares one rate limiter and one
// external quota budget, so parallelism would only add waiting.
type Coordinator struct {
	Parser     *parser.Service
	OnProgress func(Progress)
}

// Run invokes the extraction client per item. One item's failure is recorded
// and does not abort the batch; only context cancellation stops the run,
// returning the partial outcome alongside the context error.
func (c *Coordinator) Run(ctx context.Context, items []Item) (Outcome, error) {
	outcome := Outcome{
		RunID: uuid.NewString(),
		Items: make([]ItemOutcome, 0, len(items)),
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		result, err := c.Parser.Parse(ctx, item.Text)
		if err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			outcome.Items = append(outcome.Items, ItemOutcome{
				FileName: item.Name,
				Success:  false,
				Error:    err.Error(),
				Code:     parser.ErrorCode(err),
			})
			outcome.Failed++
		} else {
			resultCopy := result
			outcome.Items = append(outcome.Items, ItemOutcome{
				FileName: item.Name,
				Success:  true,
				Data:     &resultCopy,
			})
			outcome.Succeeded++
		}

		telemetry.Info("batch.item", map[string]any{
			"run_id":   outcome.RunID,
			"index":    i + 1,
			"total":    len(items),
			"filename": item.Name,
			"success":  err == nil,
		})
		if c.OnProgress != nil {
			c.OnProgress(Progress{
				Index:    i + 1,
				Total:    len(items),
				FileName: item.Name,
				Err:      err,
			})
		}
	}

	telemetry.Info("batch.completed", map[string]any{
		"run_id":    outcome.RunID,
		"total":     len(items),
		"succeeded": outcome.Succeeded,
		"failed":    outcome.Failed,
	})
	return outcome, nil
}

// MergeOutcomes interleaves failures detected before the run, one slot per
// original item with nil marking items that did run, back into the run's
// results so the report preserves the caller's ordering. Slots beyond what the
// run produced are left out, which happens when a run was cut short.
func MergeOutcomes(run Outcome, preFailed []*ItemOutcome) Outcome {
	merged := Outcome{
		RunID: run.RunID,
		Items: make([]ItemOutcome, 0, len(preFailed)),
	}
	next := 0
	for _, failure := range preFailed {
		if failure != nil {
			merged.Items = append(merged.Items, *failure)
			merged.Failed++
			continue
		}
		if next >= len(run.Items) {
			continue
		}
		item := run.Items[next]
		next++
		merged.Items = append(merged.Items, item)
		if item.Success {
			merged.Succeeded++
		} else {
			merged.Failed++
		}
	}
	return merged
}
