package speaker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"stenograf/internal/fetch"
)

const detailPage = `<html><head><title>Detail</title></head><body>
<h1>Ing. Jan Novák</h1>
<div class="figcaption">Narozen: 3.&nbsp;2.&nbsp;1960 Zvolen na kandidátce: Strana zelených</div>
</body></html>`

const detailPageNoParty = `<html><body>
<h1>MUDr. Eva Svobodová</h1>
<div class="figcaption">Narozen: 3. 2. 1960</div>
</body></html>`

const governmentPage = `<html><body><h1>Mgr. Petr Dvořák</h1></body></html>`

// testClient rewrites every request to the fixture server so the resolver's
// absolute psp.cz and vlada.cz URLs resolve locally.
type testClient struct {
	srv *httptest.Server
}

func (c *testClient) Do(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(c.srv.URL)
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	return c.srv.Client().Do(req)
}

func newResolver(t *testing.T, pages map[string]string) *Resolver {
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
	fetcher := fetch.New(t.TempDir(), "", &testClient{srv: srv}, nil)
	return NewResolver(fetcher, nil)
}

func TestEnrichDetailPage(t *testing.T) {
	r := newResolver(t, map[string]string{
		"/sqw/detail.sqw?id=1": detailPage,
	})
	stub := Speaker{StenoName: "Poslanec Jan Novák", Link: "/sqw/detail.sqw?id=1"}
	got, err := r.Enrich(context.Background(), stub)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got.Name != "Jan Novák" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Titles != "Ing." {
		t.Errorf("Titles = %q", got.Titles)
	}
	if got.Function != "Poslanec" {
		t.Errorf("Function = %q", got.Function)
	}
	if got.Sex != "Man" {
		t.Errorf("Sex = %q", got.Sex)
	}
	if got.BirthDate != "19600203" {
		t.Errorf("BirthDate = %q", got.BirthDate)
	}
	if got.Party != "Strana zelených" {
		t.Errorf("Party = %q", got.Party)
	}
}

func TestEnrichDetailPageWithoutParty(t *testing.T) {
	r := newResolver(t, map[string]string{
		"/sqw/detail.sqw?id=2": detailPageNoParty,
	})
	stub := Speaker{StenoName: "Poslankyně Eva Svobodová", Link: "/sqw/detail.sqw?id=2"}
	got, err := r.Enrich(context.Background(), stub)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got.BirthDate != "19600203" {
		t.Errorf("BirthDate = %q", got.BirthDate)
	}
	if got.Party != "" {
		t.Errorf("Party = %q, want empty", got.Party)
	}
	if got.Sex != "Woman" {
		t.Errorf("Sex = %q", got.Sex)
	}
}

func TestEnrichGovernmentPage(t *testing.T) {
	r := newResolver(t, map[string]string{
		"/cz/clenove-vlady/petr-dvorak": governmentPage,
	})
	stub := Speaker{
		StenoName: "Ministr kultury ČR Petr Dvořák",
		Link:      "https://www.vlada.cz/cz/clenove-vlady/petr-dvorak",
	}
	got, err := r.Enrich(context.Background(), stub)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got.Name != "Petr Dvořák" {
		t.Errorf("Name = %q", got.Name)
	}
	if !strings.Contains(got.Function, "Ministr") {
		t.Errorf("Function = %q", got.Function)
	}
	if got.BirthDate != "" {
		t.Errorf("BirthDate = %q, want empty for government pages", got.BirthDate)
	}
}

func TestEnrichIdempotent(t *testing.T) {
	r := newResolver(t, nil)
	enriched := Speaker{StenoName: "Poslanec Jan Novák", Name: "Jan Novák", Link: "/sqw/detail.sqw?id=404"}
	got, err := r.Enrich(context.Background(), enriched)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got != enriched {
		t.Errorf("Enrich changed an already-enriched speaker: %+v", got)
	}
}

func TestEnrichFetchFailureIsFatal(t *testing.T) {
	r := newResolver(t, nil)
	dir := NewDirectory()
	dir.Register("Poslanec_Jan_Novák", Speaker{StenoName: "Poslanec Jan Novák", Link: "/sqw/detail.sqw?id=9"})
	err := r.EnrichAll(context.Background(), dir)
	if !errors.Is(err, ErrEnrichment) {
		t.Fatalf("EnrichAll error = %v, want ErrEnrichment", err)
	}
}

func TestEnrichUnlinkedSpeaker(t *testing.T) {
	r := newResolver(t, nil)
	stub := Speaker{StenoName: "Poslanec Jan Novák", Link: ""}
	got, err := r.Enrich(context.Background(), stub)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got.Name != "" {
		t.Errorf("Name = %q, want empty without a biography page", got.Name)
	}
	if got.Function != "Poslanec Jan Novák" {
		t.Errorf("Function = %q", got.Function)
	}
	if got.Sex != "Man" {
		t.Errorf("Sex = %q", got.Sex)
	}
}
