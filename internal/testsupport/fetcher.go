// Package testsupport provides shared helpers for stenograf tests: canned
// archive documents served through a real fetch client, and temp-backed
// configurations.
package testsupport

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"stenograf/internal/fetch"
)

// rewriteDoer redirects every request to the fixture server so tests can use
// the archive's absolute URLs unchanged.
type rewriteDoer struct {
	srv *httptest.Server
}

func (d *rewriteDoer) Do(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(d.srv.URL)
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	return d.srv.Client().Do(req)
}

// PageFetcher builds a cache-backed fetch client serving the given pages.
// Keys are URL paths, with the query string appended when one is expected
// (e.g. "/sqw/detail.sqw?id=1"). Unknown paths return 404.
func PageFetcher(t testing.TB, pages map[string]string) *fetch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		page, ok := pages[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return fetch.New(t.TempDir(), "stenograf-test", &rewriteDoer{srv: srv}, nil)
}
