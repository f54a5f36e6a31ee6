package processing

import (
	"regexp"

	"golang.org/x/text/language"
)

// StructureResult summarizes the accessibility structure markers found in a
// document.
type StructureResult struct {
	// Tagged reports a structure tree root, the backbone of a tagged PDF.
	Tagged bool `json:"tagged"`
	// Marked reports an explicit /MarkInfo /Marked true declaration.
	Marked bool `json:"marked"`
	// Pages counts page objects.
	Pages int `json:"pages"`
	// Language is the canonicalized document language tag, empty when the
	// document declares none.
	Language string `json:"language,omitempty"`
}

var (
	structTreeRootPattern = regexp.MustCompile(`/StructTreeRoot\b`)
	markedPattern         = regexp.MustCompile(`/MarkInfo\b[^>]*?/Marked\s+true`)
	pagePattern           = regexp.MustCompile(`/Type\s*/Page[\s/>\]]`)
	langPattern           = regexp.MustCompile(`/Lang\s*\(([^)]*)\)`)
)

// ScanStructure inspects raw document bytes for tagged-PDF indicators.
func ScanStructure(data []byte) StructureResult {
	result := StructureResult{
		Tagged: structTreeRootPattern.Match(data),
		Marked: markedPattern.Match(data),
		Pages:  len(pagePattern.FindAllIndex(data, -1)),
	}
	if m := langPattern.FindSubmatch(data); m != nil {
		result.Language = canonicalLanguage(string(m[1]))
	}
	return result
}

// canonicalLanguage normalizes a declared document language to a BCP 47 tag.
// Unparseable declarations are kept verbatim so the report still shows what
// the document claims.
func canonicalLanguage(raw string) string {
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}
