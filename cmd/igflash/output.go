package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"igflash/internal/batch"
	errs "igflash/pkg/errors"
	"igflash/pkg/ui"
)

// lookupOutput is one entry of a multi-target result list
type lookupOutput struct {
	Kind   batch.Kind   `json:"kind"`
	Target string       `json:"target"`
	Data   interface{}  `json:"data"`
	Error  *errorOutput `json:"error,omitempty"`
}

type errorOutput struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Cached  bool   `json:"cached,omitempty"`
}

func newErrorOutput(err error) *errorOutput {
	var e *errs.Error
	if errors.As(err, &e) {
		return &errorOutput{Type: string(e.Type), Message: e.Message, Cached: e.FromCache}
	}
	return &errorOutput{Type: string(errs.ErrorTypeUnknown), Message: err.Error()}
}

// writeResults prints a single successful result as-is and several results as
// a list. Failures are reported on the printer; the returned error counts them.
func writeResults(w io.Writer, printer *ui.Printer, results []batch.Result, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			out := newErrorOutput(r.Err)
			printer.Error(fmt.Sprintf("%s %s", r.Job.Kind, r.Job.Target), out.Message)
		}
	}

	if len(results) == 1 {
		if failed > 0 {
			return fmt.Errorf("lookup failed")
		}
		if err := enc.Encode(results[0].Value); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}

	outputs := make([]lookupOutput, len(results))
	for i, r := range results {
		outputs[i] = lookupOutput{Kind: r.Job.Kind, Target: r.Job.Target}
		if r.Err != nil {
			outputs[i].Error = newErrorOutput(r.Err)
		} else {
			outputs[i].Data = r.Value
		}
	}
	if err := enc.Encode(outputs); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	printer.Success(fmt.Sprintf("%d lookups completed", len(results)))
	return nil
}
