package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hardenlab/csrfkit/core/handler"
)

type methodTyp uint

const (
	mSTUB methodTyp = 1 << iota
	mCONNECT
	mDELETE
	mGET
	mHEAD
	mOPTIONS
	mPATCH
	mPOST
	mPUT
	mTRACE
)

var mALL = mCONNECT | mDELETE | mGET | mHEAD |
	mOPTIONS | mPATCH | mPOST | mPUT | mTRACE

var methodMap = map[string]methodTyp{
	http.MethodConnect: mCONNECT,
	http.MethodDelete:  mDELETE,
	http.MethodGet:     mGET,
	http.MethodHead:    mHEAD,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodTrace:   mTRACE,
}

var reverseMethodMap = map[methodTyp]string{
	mCONNECT: http.MethodConnect,
	mDELETE:  http.MethodDelete,
	mGET:     http.MethodGet,
	mHEAD:    http.MethodHead,
	mOPTIONS: http.MethodOptions,
	mPATCH:   http.MethodPatch,
	mPOST:    http.MethodPost,
	mPUT:     http.MethodPut,
	mTRACE:   http.MethodTrace,
}

// methodOrder fixes the order in which methods appear in Allow headers
// and Routes() listings.
var methodOrder = []methodTyp{
	mGET, mHEAD, mPOST, mPUT, mPATCH, mDELETE, mCONNECT, mOPTIONS, mTRACE,
}

// segment is a single path element of a registered pattern.
// A segment is either a static literal or a {name} placeholder.
type segment struct {
	value   string // literal text, or the placeholder name
	isParam bool
}

// route is one entry in the route table.
type route[C handler.Context] struct {
	methods  methodTyp
	pattern  string
	segments []segment
	wildcard bool // pattern ends with a trailing /*
	handler  handler.HandlerFunc[C]
	sub      http.Handler // mounted subrouter, nil for ordinary routes
}

// table is an explicit, append-only route table. Every registration adds
// one entry; matching scans all entries and picks the most specific one.
// The whole table can be inspected via routes(), which makes the routing
// surface of an application auditable at runtime.
type table[C handler.Context] struct {
	entries []*route[C]
}

// insert parses the pattern and appends a new entry to the table.
// It panics on malformed patterns and on registrations that would be
// ambiguous with an existing entry for an overlapping method set.
func (t *table[C]) insert(methods methodTyp, pattern string, h handler.HandlerFunc[C]) *route[C] {
	segments, wildcard := parsePattern(pattern)

	for _, existing := range t.entries {
		if existing.methods&methods&^mSTUB == 0 {
			continue
		}
		if sameShape(existing.segments, existing.wildcard, segments, wildcard) {
			panic(fmt.Errorf("%w: '%s' conflicts with '%s'", ErrDuplicateRoute, pattern, existing.pattern))
		}
	}

	rt := &route[C]{
		methods:  methods,
		pattern:  pattern,
		segments: segments,
		wildcard: wildcard,
		handler:  h,
	}
	t.entries = append(t.entries, rt)
	return rt
}

// match returns the most specific entry that accepts the method and path,
// and whether any entry matched the path at all (used to distinguish
// 404 from 405).
func (t *table[C]) match(method methodTyp, segs []string) (best *route[C], pathMatched bool) {
	for _, rt := range t.entries {
		if !rt.matchPath(segs) {
			continue
		}
		pathMatched = true
		if rt.methods&method == 0 {
			continue
		}
		if best == nil || moreSpecific(rt, best) {
			best = rt
		}
	}
	return best, pathMatched
}

// allowedMethods lists the methods that have a handler for the path,
// in canonical order, for the Allow header of a 405 response.
func (t *table[C]) allowedMethods(segs []string) []string {
	var mask methodTyp
	for _, rt := range t.entries {
		if rt.matchPath(segs) {
			mask |= rt.methods
		}
	}
	mask &^= mSTUB

	var allowed []string
	for _, mt := range methodOrder {
		if mask&mt != 0 {
			allowed = append(allowed, reverseMethodMap[mt])
		}
	}
	return allowed
}

// routes lists all directly registered routes. Mount stubs are internal
// and skipped; mounted subrouters report their own routes.
func (t *table[C]) routes() []Route {
	var out []Route
	for _, rt := range t.entries {
		if rt.methods&mSTUB != 0 {
			continue
		}
		for _, mt := range methodOrder {
			if rt.methods&mt != 0 {
				out = append(out, Route{Method: reverseMethodMap[mt], Pattern: rt.pattern})
			}
		}
	}
	return out
}

// matchPath reports whether the split request path fits this entry's shape.
// Placeholder segments require a non-empty value, so "/users/{id}" does not
// shadow "/users/". A trailing wildcard requires at least one more path
// segment than the fixed prefix, which keeps "/admin/*" from claiming "/admin".
func (rt *route[C]) matchPath(segs []string) bool {
	if rt.wildcard {
		if len(segs) <= len(rt.segments) {
			return false
		}
	} else if len(segs) != len(rt.segments) {
		return false
	}
	for i, s := range rt.segments {
		if s.isParam {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if segs[i] != s.value {
			return false
		}
	}
	return true
}

// capture extracts placeholder values from a path that already matched.
// For wildcard entries the remaining tail is stored under "*".
func (rt *route[C]) capture(segs []string) map[string]string {
	var params map[string]string
	for i, s := range rt.segments {
		if !s.isParam {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[s.value] = segs[i]
	}
	if rt.wildcard {
		if params == nil {
			params = make(map[string]string, 1)
		}
		params["*"] = strings.Join(segs[len(rt.segments):], "/")
	}
	return params
}

// moreSpecific reports whether a should win over b for a path both matched.
// Entries are compared segment by segment: at the first position where the
// kinds differ, a static literal beats a placeholder. If the shared prefix
// is equally specific, an exact-length entry beats a wildcard one, and of
// two wildcards the longer fixed prefix wins. Identical shapes keep the
// earlier registration.
func moreSpecific[C handler.Context](a, b *route[C]) bool {
	n := min(len(a.segments), len(b.segments))
	for i := range n {
		ap, bp := a.segments[i].isParam, b.segments[i].isParam
		if ap != bp {
			return !ap
		}
	}
	if a.wildcard != b.wildcard {
		return !a.wildcard
	}
	if a.wildcard && len(a.segments) != len(b.segments) {
		return len(a.segments) > len(b.segments)
	}
	return false
}

// parsePattern splits a registration pattern into segments. Patterns must
// start with "/". A "*" is only valid as the final segment. Placeholders
// use the {name} form and names must be unique within one pattern.
func parsePattern(pattern string) ([]segment, bool) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	raw := strings.Split(pattern[1:], "/")

	wildcard := false
	if raw[len(raw)-1] == "*" {
		wildcard = true
		raw = raw[:len(raw)-1]
	}

	segments := make([]segment, 0, len(raw))
	seen := make(map[string]struct{})
	for _, s := range raw {
		if strings.Contains(s, "*") {
			panic(fmt.Errorf("%w: '%s'", ErrWildcardPosition, pattern))
		}
		if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
			name := s[1 : len(s)-1]
			if name == "" || strings.ContainsAny(name, "{}") {
				panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
			}
			if _, dup := seen[name]; dup {
				panic(fmt.Errorf("%w: '%s' in '%s'", ErrDuplicateParam, name, pattern))
			}
			seen[name] = struct{}{}
			segments = append(segments, segment{value: name, isParam: true})
			continue
		}
		if strings.ContainsAny(s, "{}") {
			panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
		}
		segments = append(segments, segment{value: s})
	}
	return segments, wildcard
}

// sameShape reports whether two parsed patterns would match exactly the
// same set of paths. Placeholder names are ignored, only their positions
// matter.
func sameShape(a []segment, aWild bool, b []segment, bWild bool) bool {
	if aWild != bWild || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].isParam != b[i].isParam {
			return false
		}
		if !a[i].isParam && a[i].value != b[i].value {
			return false
		}
	}
	return true
}

// splitPath splits a normalized request path on "/" after dropping the
// leading slash. The root path yields a single empty segment, so patterns
// and paths always produce at least one segment.
func splitPath(path string) []string {
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return strings.Split(path, "/")
}
