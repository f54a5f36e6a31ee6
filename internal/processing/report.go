package processing

import (
	"bytes"
	"html/template"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Accessibility report: {{.ID}}</title>
</head>
<body>
<h1>Accessibility report</h1>
<p>Job <code>{{.ID}}</code>, processed {{.Result.ProcessedAt.Format "2006-01-02 15:04:05 MST"}}</p>

<h2>Structure</h2>
<ul>
<li>Tagged PDF: {{if .Result.Structure.Tagged}}yes{{else}}no{{end}}</li>
<li>Marked content declared: {{if .Result.Structure.Marked}}yes{{else}}no{{end}}</li>
<li>Pages: {{.Result.Structure.Pages}}</li>
{{if .Result.Structure.Language}}<li>Declared language: {{.Result.Structure.Language}}</li>{{end}}
</ul>

{{if .Result.OCR}}
<h2>OCR triage</h2>
<ul>
<li>Text layer present: {{if .Result.OCR.HasTextLayer}}yes{{else}}no{{end}}</li>
<li>Image heavy: {{if .Result.OCR.ImageHeavy}}yes{{else}}no{{end}}</li>
<li><strong>Needs OCR: {{if .Result.OCR.NeedsOCR}}yes{{else}}no{{end}}</strong></li>
</ul>
{{end}}

{{if .Result.Redaction}}
<h2>Redaction scan</h2>
{{if .Result.Redaction.Findings}}
<p>{{.Result.Redaction.TotalMatches}} sensitive match(es) found.</p>
<table border="1">
<tr><th>Pattern</th><th>Count</th></tr>
{{range .Result.Redaction.Findings}}<tr><td>{{.Pattern}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
{{else}}
<p>No sensitive content detected.</p>
{{end}}
{{end}}
</body>
</html>
`))

// RenderReport produces the HTML report artifact for a processed job.
func RenderReport(id string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		ID     string
		Result *Result
	}{ID: id, Result: result}
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
