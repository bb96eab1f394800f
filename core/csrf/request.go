package csrf

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

// IsSafeMethod reports whether the request method is exempt from token
// verification. Safe methods (RFC 7231, section 4.2.1) must not change
// server state, so a forged cross-site GET has nothing to exploit.
func IsSafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// TokenFromRequest extracts the submitted token from the request.
//
// Both delivery surfaces carry the same token value: the hidden form
// field serves plain HTML forms, the header serves fetch/XHR callers.
// The form field wins when both are present. A token that arrives only
// through a surface the guard does not accept is reported as
// ErrUnsupportedSurface rather than ErrTokenMissing, so the caller can
// tell a misconfigured client from one that sent nothing at all.
func (g *Guard) TokenFromRequest(r *http.Request) (string, error) {
	if g.acceptForm {
		if token := r.PostFormValue(g.formField); token != "" {
			return token, nil
		}
	}
	if g.acceptHeader {
		if token := r.Header.Get(g.headerName); token != "" {
			return token, nil
		}
	}

	if !g.acceptForm && r.PostFormValue(g.formField) != "" {
		return "", ErrUnsupportedSurface
	}
	if !g.acceptHeader && r.Header.Get(g.headerName) != "" {
		return "", ErrUnsupportedSurface
	}

	return "", ErrTokenMissing
}

// HiddenField renders the token as a hidden input for embedding inside
// an HTML form, using the guard's configured field name. The result is
// safe to interpolate into templates as-is.
func (g *Guard) HiddenField(token string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<input type="hidden" name="%s" value="%s">`,
		template.HTMLEscapeString(g.formField),
		template.HTMLEscapeString(token),
	))
}
