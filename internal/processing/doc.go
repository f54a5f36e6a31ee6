// Package processing implements the document processors that run between
// claim and finalize: an accessibility structure scan, an OCR triage
// decision, and a pattern-based redaction scan, plus the HTML report
// renderer.
//
// Processors are deliberately shallow: they inspect the raw bytes of the
// locked primary artifact for PDF surface markers rather than parsing the
// full object graph. They never rename queue files; the worker owns the
// claim lifecycle and writes their combined result into the locked metadata
// sidecar before finalizing.
package processing
