package processing

import "regexp"

// TriageResult is the OCR decision for a claimed document.
type TriageResult struct {
	// HasTextLayer reports font resources or text-showing operators.
	HasTextLayer bool `json:"has_text_layer"`
	// ImageHeavy reports image XObjects without an accompanying text layer.
	ImageHeavy bool `json:"image_heavy"`
	// NeedsOCR is the triage verdict: pages exist but carry no text layer.
	NeedsOCR bool `json:"needs_ocr"`
}

var (
	fontPattern     = regexp.MustCompile(`/Font\b|/BaseFont\b`)
	textOpPattern   = regexp.MustCompile(`\)\s*Tj\b|\]\s*TJ\b`)
	imageSubPattern = regexp.MustCompile(`/Subtype\s*/Image\b`)
)

// TriageOCR decides whether a document needs OCR before accessibility work
// can proceed. The structure scan supplies the page count so the verdict is
// not fooled by empty files.
func TriageOCR(data []byte, structure StructureResult) TriageResult {
	hasText := fontPattern.Match(data) || textOpPattern.Match(data)
	hasImages := imageSubPattern.Match(data)
	return TriageResult{
		HasTextLayer: hasText,
		ImageHeavy:   hasImages && !hasText,
		NeedsOCR:     structure.Pages > 0 && !hasText,
	}
}
