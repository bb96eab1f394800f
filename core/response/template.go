package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

// errNilTemplate is returned when a template response is built without a template.
var errNilTemplate = errors.New("response: template is nil")

// renderTemplate buffers the template output and writes it only after a
// clean execute, so a render failure surfaces as a handler error instead of
// a partially written page. An empty name executes the root template.
func renderTemplate(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if tmpl == nil {
			return errNilTemplate
		}

		var buf bytes.Buffer
		var err error
		if name != "" {
			err = tmpl.ExecuteTemplate(&buf, name, data)
		} else {
			err = tmpl.Execute(&buf, data)
		}
		if err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, writeErr := w.Write(buf.Bytes())
		return writeErr
	}
}

// Template renders an html/template with 200 OK status.
//
// html/template is the delivery surface for the anti-forgery hidden field:
// pass the pre-rendered field (template.HTML) as part of the data so the
// token travels inside a named, submittable input rather than as loose text.
//
//	tmpl := template.Must(template.New("form").Parse(
//		`<form method="POST" action="/transfer">{{.CSRFField}}<button>Send</button></form>`))
//	return response.Template(tmpl, map[string]any{"CSRFField": middleware.CSRFHiddenField(ctx)})
func Template(tmpl *template.Template, data any) handler.Response {
	return renderTemplate(tmpl, "", data, http.StatusOK)
}

// TemplateWithStatus renders an html/template with a custom status code.
func TemplateWithStatus(tmpl *template.Template, data any, status int) handler.Response {
	return renderTemplate(tmpl, "", data, status)
}

// TemplateName renders a named template from a collection (ParseFiles/ParseGlob).
func TemplateName(tmpl *template.Template, name string, data any) handler.Response {
	return renderTemplate(tmpl, name, data, http.StatusOK)
}

// TemplateNameWithStatus renders a named template with a custom status code.
func TemplateNameWithStatus(tmpl *template.Template, name string, data any, status int) handler.Response {
	return renderTemplate(tmpl, name, data, status)
}
