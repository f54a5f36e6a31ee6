package processing

import (
	"fmt"
	"regexp"
)

// Built-in sensitive-content patterns. Config can extend but not remove
// them.
var builtinPatterns = []redactionPattern{
	{name: "ssn", re: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{name: "email", re: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
	{name: "phone", re: regexp.MustCompile(`\b(?:\+?1[-. ])?\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}\b`)},
}

// literalStringPattern extracts PDF literal strings; pattern matching runs
// only inside them so binary streams cannot produce false positives.
var literalStringPattern = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// maxOffsetsPerFinding bounds the located occurrences recorded per pattern.
const maxOffsetsPerFinding = 32

type redactionPattern struct {
	name string
	re   *regexp.Regexp
}

// RedactionFinding reports one pattern's matches. Only counts and byte
// offsets are recorded, never the matched text.
type RedactionFinding struct {
	Pattern string  `json:"pattern"`
	Count   int     `json:"count"`
	Offsets []int64 `json:"offsets,omitempty"`
}

// RedactionResult aggregates all pattern findings for a document.
type RedactionResult struct {
	Findings     []RedactionFinding `json:"findings"`
	TotalMatches int                `json:"total_matches"`
}

// compilePatterns merges built-ins with config-supplied expressions. Extra
// patterns are named by their source text.
func compilePatterns(extra []string) ([]redactionPattern, error) {
	patterns := make([]redactionPattern, 0, len(builtinPatterns)+len(extra))
	patterns = append(patterns, builtinPatterns...)
	for _, source := range extra {
		re, err := regexp.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("redaction pattern %q: %w", source, err)
		}
		patterns = append(patterns, redactionPattern{name: source, re: re})
	}
	return patterns, nil
}

// scanRedactions runs every pattern over the literal text strings embedded
// in the document.
func scanRedactions(data []byte, patterns []redactionPattern) RedactionResult {
	var result RedactionResult
	literals := literalStringPattern.FindAllSubmatchIndex(data, -1)

	for _, pattern := range patterns {
		finding := RedactionFinding{Pattern: pattern.name}
		for _, loc := range literals {
			text := data[loc[2]:loc[3]]
			for _, match := range pattern.re.FindAllIndex(text, -1) {
				finding.Count++
				if len(finding.Offsets) < maxOffsetsPerFinding {
					finding.Offsets = append(finding.Offsets, int64(loc[2]+match[0]))
				}
			}
		}
		if finding.Count > 0 {
			result.Findings = append(result.Findings, finding)
			result.TotalMatches += finding.Count
		}
	}
	return result
}
