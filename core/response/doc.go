// Package response provides composable HTTP response builders and the
// canonical error envelope used across the toolkit.
//
// Every handler returns a handler.Response; this package supplies the
// constructors for the common cases (JSON, plain text, HTML, templates,
// redirects, empty statuses) plus decorators that layer headers or cookies
// on top of an existing response.
//
// # Error Envelope
//
// Errors are rendered as exactly one JSON shape, everywhere:
//
//	{"code": "csrf_token_missing", "message": "...", "details": {...}}
//
// HTTPError carries the HTTP status out of band (never serialized) together
// with a machine-readable code, so clients can distinguish a missing
// anti-forgery token from a business-logic rejection without parsing
// human-readable text. Successful responses return the resource body
// directly; there is no {"success": ...} wrapper in this scheme.
//
//	return response.Error(response.ErrBadRequest.
//		WithMessage("CSRF token is missing").
//		WithDetails(map[string]any{"expected_field": "csrf_token"}))
//
// # Rendering
//
//	response.JSON(map[string]string{"token": tok})   // 200, resource body
//	response.NoContent()                             // 204 ack
//	response.Template(tmpl, data)                    // buffered html/template render
//	response.RedirectSeeOther("/login")              // 303 after a handled POST
//
// Template rendering is buffered: nothing is written until the template
// executes cleanly, so a render failure becomes a normal handler error
// instead of a half-written page.
package response
