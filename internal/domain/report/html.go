package report

import (
	"html/template"
	"io"
)

// reportTmpl is the printable rendering; everything user-supplied passes
// through the template engine's escaping.
var reportTmpl = template.Must(template.New("informe").Funcs(template.FuncMap{
	"fecha": func(t interface{ Format(string) string }) string { return t.Format("02/01/2006") },
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Informe de caso - {{.WorkerName}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.3rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #999; padding: .4rem .6rem; text-align: left; }
.meta td { border: none; padding: .1rem .6rem .1rem 0; }
</style>
</head>
<body>
<h1>Informe de caso</h1>
<table class="meta">
<tr><td>Trabajador:</td><td>{{.WorkerName}} ({{.Cedula}})</td></tr>
<tr><td>Sede:</td><td>{{.Site}}</td></tr>
{{if .Company}}<tr><td>Empresa:</td><td>{{.Company}}</td></tr>{{end}}
<tr><td>Motivo:</td><td>{{.Reason}}</td></tr>
<tr><td>Estado:</td><td>{{.Status}}</td></tr>
<tr><td>Apertura:</td><td>{{fecha .OpenedAt}}</td></tr>
{{if .ClosedAt}}<tr><td>Cierre:</td><td>{{fecha .ClosedAt}}</td></tr>{{end}}
<tr><td>Total sesiones:</td><td>{{.TotalSessions}}</td></tr>
</table>
<table>
<tr><th>Fecha</th><th>Modalidad</th><th>Estado</th><th>Notas</th></tr>
{{range .Sessions}}
<tr><td>{{fecha .Date}}</td><td>{{.Modality}}</td><td>{{.Status}}</td><td>{{if .Notes}}{{.Notes}}{{end}}</td></tr>
{{end}}
</table>
<p>Generado: {{fecha .GeneratedAt}}</p>
</body>
</html>
`))

// RenderHTML writes the printable version of the report.
func RenderHTML(w io.Writer, r *CaseReport) error {
	return reportTmpl.Execute(w, r)
}
