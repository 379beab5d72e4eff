package templates

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// maxReasonsShown caps the blocking reasons listed under the meter; the full
// list is still returned by the API.
const maxReasonsShown = 6

var funcs = template.FuncMap{
	"label": keyLabel,
	"first": firstN,
}

// component adapts an html/template to templ.Component so handlers render
// every fragment the same way.
func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

// keyLabel turns a requirement key into a display label:
// "date_insurer_received_notice" → "Date insurer received notice".
func keyLabel(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	switch key {
	case "ssn":
		return "SSN"
	case "dob":
		return "Date of birth"
	case "employer_fein":
		return "Employer FEIN"
	case "ca_claim_number":
		return "CA claim number"
	}
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstN(n int, items []string) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
