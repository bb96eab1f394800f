package response

import (
	"net/http"

	"github.com/hardenlab/csrfkit/core/handler"
)

func redirect(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}

// Redirect responds with a 302 Found temporary redirect.
func Redirect(url string) handler.Response {
	return redirect(url, http.StatusFound)
}

// RedirectPermanent responds with a 301 Moved Permanently redirect.
func RedirectPermanent(url string) handler.Response {
	return redirect(url, http.StatusMovedPermanently)
}

// RedirectSeeOther responds with a 303 See Other redirect. Use it after
// a handled form POST so a browser refresh re-issues a safe GET instead
// of resubmitting the mutation.
func RedirectSeeOther(url string) handler.Response {
	return redirect(url, http.StatusSeeOther)
}
