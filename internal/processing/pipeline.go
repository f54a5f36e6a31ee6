package processing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"hopper/internal/config"
)

// Result is the combined success document the worker writes into the locked
// metadata sidecar before finalizing into the complete state.
type Result struct {
	Status      string           `json:"status"`
	ProcessedAt time.Time        `json:"processed_at"`
	Structure   StructureResult  `json:"structure"`
	OCR         *TriageResult    `json:"ocr,omitempty"`
	Redaction   *RedactionResult `json:"redaction,omitempty"`
}

// Marshal encodes the result document written to the metadata sidecar.
func (r *Result) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Failure is the structured error document written on processing failure,
// per the processor contract.
type Failure struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// FailureDoc marshals a Failure. Marshalling two strings cannot fail, so the
// result is always usable.
func FailureDoc(code, detail string) []byte {
	doc, _ := json.Marshal(Failure{Error: code, Detail: detail})
	return doc
}

// Pipeline runs the configured processors against one claimed document.
type Pipeline struct {
	ocrTriage     bool
	redactionScan bool
	patterns      []redactionPattern
}

// NewPipeline compiles the processor configuration once so per-job runs only
// scan.
func NewPipeline(cfg config.Processing) (*Pipeline, error) {
	patterns, err := compilePatterns(cfg.RedactionPatterns)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		ocrTriage:     cfg.OCRTriage,
		redactionScan: cfg.RedactionScan,
		patterns:      patterns,
	}, nil
}

// Run processes the locked primary artifact at primaryPath. The context is
// checked between passes so a shutting-down worker stops promptly.
func (p *Pipeline) Run(ctx context.Context, primaryPath string) (*Result, error) {
	data, err := os.ReadFile(primaryPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("locked primary artifact missing: %w", err)
		}
		return nil, fmt.Errorf("read primary artifact: %w", err)
	}

	result := &Result{
		Status:      "complete",
		ProcessedAt: time.Now().UTC(),
		Structure:   ScanStructure(data),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.ocrTriage {
		triage := TriageOCR(data, result.Structure)
		result.OCR = &triage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.redactionScan {
		redaction := scanRedactions(data, p.patterns)
		result.Redaction = &redaction
	}
	return result, nil
}
