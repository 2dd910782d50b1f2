package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed report.css
var reportCSS string

const fragmentTemplate = `<div id="reportHtml" class="report-root">
<h2 class="report-title">{{.Title}}</h2>
{{- range .Meta}}
<p class="report-meta"><strong>{{.Label}}</strong> {{.Value}}</p>
{{- end}}
{{- range .Sections}}
<section class="report-section">
<h3>{{.Title}}</h3>
{{- range .Tables}}
{{- if .Caption}}
<h4 class="report-subheading">{{.Caption}}</h4>
{{- end}}
<table class="report-table">
{{- if .Columns}}
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
{{- end}}
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}
</section>
{{- end}}
<div class="report-footer">
{{- range .Footer}}
<p><strong>{{.Label}}</strong> {{.Value}}</p>
{{- end}}
</div>
</div>`

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
{{.Body}}
</body>
</html>`

// HTMLRenderer turns a Document into the report fragment and the printable page.
type HTMLRenderer struct {
	fragment *template.Template
	page     *template.Template
}

// NewHTMLRenderer parses the report templates.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		fragment: template.Must(template.New("fragment").Parse(fragmentTemplate)),
		page:     template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// RenderFragment renders doc into the reportHtml fragment. User supplied
// text is escaped by html/template.
func (r *HTMLRenderer) RenderFragment(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	var buf bytes.Buffer
	if err := r.fragment.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render report fragment: %w", err)
	}
	return buf.String(), nil
}

// RenderPage wraps an already rendered fragment in a standalone HTML page with
// the report stylesheet inlined.
func (r *HTMLRenderer) RenderPage(title, fragment string) (string, error) {
	var buf bytes.Buffer
	err := r.page.Execute(&buf, struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{
		Title: title,
		CSS:   template.CSS(reportCSS),
		Body:  template.HTML(fragment), //nolint:gosec // produced by RenderFragment
	})
	if err != nil {
		return "", fmt.Errorf("render report page: %w", err)
	}
	return buf.String(), nil
}
