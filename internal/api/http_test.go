package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/notification"
	"github.com/bher20/quotemanager/internal/pricing"
	"github.com/bher20/quotemanager/internal/session"
	"github.com/bher20/quotemanager/internal/storage"
)

func testCatalog() *catalog.Catalog {
	d := decimal.NewFromInt
	return &catalog.Catalog{
		Key:      "idf",
		Name:     "Test IDF",
		Currency: "EUR",
		Geographic: []catalog.GeographicUnit{
			{ID: "75", Code: "75", Name: "Paris", BasePrice: d(950), BundleID: "pc"},
			{ID: "92", Code: "92", Name: "Hauts-de-Seine", BasePrice: d(950), BundleID: "pc"},
			{ID: "93", Code: "93", Name: "Seine-Saint-Denis", BasePrice: d(950), BundleID: "pc"},
			{ID: "94", Code: "94", Name: "Val-de-Marne", BasePrice: d(950), BundleID: "pc"},
			{ID: "77", Code: "77", Name: "Seine-et-Marne", BasePrice: d(750)},
		},
		Activities: []catalog.ActivityUnit{
			{ID: "go", Name: "Gros oeuvre", BasePrice: d(450)},
			{ID: "so", Name: "Second oeuvre", BasePrice: d(350)},
		},
		Bundles: []catalog.Bundle{
			{ID: "pc", Name: "Petite couronne", Codes: []string{"75", "92", "93", "94"}},
		},
	}
}

type testServer struct {
	*httptest.Server
	store *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := storage.NewMemory()
	cats := catalog.NewService(catalog.NewRegistry(), st, nil, testCatalog())
	mux := NewMux(Deps{
		Catalogs:      cats,
		Sessions:      session.NewManager(cats, session.WithSink(st)),
		Store:         st,
		Notifications: notification.NewService(st, nil, nil),
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: st}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
	}
}

func TestCatalogs(t *testing.T) {
	srv := newTestServer(t)

	var list []CatalogDTO
	if code := srv.do(t, http.MethodGet, "/api/v1/catalogs", nil, &list); code != http.StatusOK {
		t.Fatalf("list = %d", code)
	}
	if len(list) != 1 || list[0].Key != "idf" || list[0].Geographic != 5 || list[0].Bundles != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	var cat catalog.Catalog
	if code := srv.do(t, http.MethodGet, "/api/v1/catalogs/idf", nil, &cat); code != http.StatusOK {
		t.Fatalf("get = %d", code)
	}
	if len(cat.Activities) != 2 {
		t.Errorf("activities = %d", len(cat.Activities))
	}

	var e ErrorResponse
	if code := srv.do(t, http.MethodGet, "/api/v1/catalogs/nope", nil, &e); code != http.StatusNotFound {
		t.Errorf("missing catalog = %d", code)
	}
}

func TestEstimate(t *testing.T) {
	srv := newTestServer(t)

	var b pricing.Breakdown
	code := srv.do(t, http.MethodPost, "/api/v1/estimate", EstimateRequest{
		Catalog:    "idf",
		Geographic: []string{"75", "92", "93", "94"},
		Activities: []string{"go"},
	}, &b)
	if code != http.StatusOK {
		t.Fatalf("estimate = %d", code)
	}
	if !b.Total.Equal(decimal.NewFromInt(8070)) {
		t.Errorf("total = %s, want 8070", b.Total)
	}
	if len(b.CompletedBundles) != 1 || b.CompletedBundles[0] != "pc" {
		t.Errorf("completed bundles = %v", b.CompletedBundles)
	}

	code = srv.do(t, http.MethodPost, "/api/v1/estimate", EstimateRequest{
		Catalog:    "idf",
		Geographic: []string{"75", "92", "93", "94"},
		Activities: []string{"go"},
		Term:       "annual",
	}, &b)
	if code != http.StatusOK {
		t.Fatalf("annual estimate = %d", code)
	}
	if !b.Total.Equal(decimal.RequireFromString("6859.5")) {
		t.Errorf("annual total = %s, want 6859.5", b.Total)
	}
}

func TestEstimate_BadInput(t *testing.T) {
	srv := newTestServer(t)

	var e ErrorResponse
	if code := srv.do(t, http.MethodPost, "/api/v1/estimate", EstimateRequest{Catalog: "idf", Term: "weekly"}, &e); code != http.StatusUnprocessableEntity {
		t.Errorf("invalid term = %d", code)
	}
	if code := srv.do(t, http.MethodPost, "/api/v1/estimate", map[string]string{"bogus": "x"}, &e); code != http.StatusBadRequest {
		t.Errorf("unknown field = %d", code)
	}
	if code := srv.do(t, http.MethodPost, "/api/v1/estimate", EstimateRequest{Catalog: "nope"}, &e); code != http.StatusNotFound {
		t.Errorf("unknown catalog = %d", code)
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)

	var v session.View
	if code := srv.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Catalog: "idf"}, &v); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}
	if v.State != session.Editing || v.ID == "" {
		t.Fatalf("unexpected view: %+v", v)
	}
	base := "/api/v1/sessions/" + v.ID

	if code := srv.do(t, http.MethodPost, base+"/bundles/pc", nil, &v); code != http.StatusOK {
		t.Fatalf("toggle bundle = %d", code)
	}
	if len(v.Geographic) != 4 {
		t.Fatalf("geographic = %v", v.Geographic)
	}

	var e ErrorResponse
	if code := srv.do(t, http.MethodPost, base+"/review", nil, &e); code != http.StatusUnprocessableEntity {
		t.Fatalf("review without activity = %d", code)
	}
	if !e.MissingActivity || e.MissingGeographic {
		t.Errorf("unexpected validation flags: %+v", e)
	}

	if code := srv.do(t, http.MethodPost, base+"/activities/go", nil, &v); code != http.StatusOK {
		t.Fatalf("toggle activity = %d", code)
	}
	if !v.Breakdown.Total.Equal(decimal.NewFromInt(8070)) {
		t.Errorf("live total = %s", v.Breakdown.Total)
	}

	if code := srv.do(t, http.MethodPost, base+"/review", nil, &v); code != http.StatusOK {
		t.Fatalf("review = %d", code)
	}
	if v.State != session.Reviewing || v.Summary == nil {
		t.Fatalf("expected reviewing with summary, got %+v", v)
	}

	if code := srv.do(t, http.MethodPost, base+"/geographic/77", nil, &e); code != http.StatusConflict {
		t.Errorf("toggle while reviewing = %d", code)
	}
	if code := srv.do(t, http.MethodPut, base+"/term", TermRequest{Term: "annual"}, &e); code != http.StatusConflict {
		t.Errorf("term while reviewing = %d", code)
	}
	if code := srv.do(t, http.MethodPost, base+"/bundles/nope", nil, &e); code != http.StatusConflict {
		t.Errorf("unknown bundle while reviewing = %d", code)
	}

	var sub SubmissionDTO
	code := srv.do(t, http.MethodPost, base+"/submit", session.Contact{Name: "Jeanne", Email: "jeanne@example.com"}, &sub)
	if code != http.StatusCreated {
		t.Fatalf("submit = %d", code)
	}
	if sub.Total != "8070" || sub.ContactEmail != "jeanne@example.com" {
		t.Errorf("unexpected submission: %+v", sub)
	}

	if code := srv.do(t, http.MethodPost, base+"/modify", nil, &e); code != http.StatusConflict {
		t.Errorf("modify after submit = %d", code)
	}

	var got SubmissionDTO
	if code := srv.do(t, http.MethodGet, "/api/v1/submissions/"+sub.ID, nil, &got); code != http.StatusOK {
		t.Fatalf("get submission = %d", code)
	}
	var summary session.Summary
	if err := json.Unmarshal(got.Summary, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.SessionID != v.ID || !summary.Breakdown.Total.Equal(decimal.NewFromInt(8070)) {
		t.Errorf("unexpected summary: %+v", summary)
	}

	var list []SubmissionDTO
	if code := srv.do(t, http.MethodGet, "/api/v1/submissions?limit=10", nil, &list); code != http.StatusOK || len(list) != 1 {
		t.Errorf("list submissions = %d, %d rows", code, len(list))
	}
}

func TestSessionModifyReturnsToEditing(t *testing.T) {
	srv := newTestServer(t)

	var v session.View
	srv.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Catalog: "idf"}, &v)
	base := "/api/v1/sessions/" + v.ID
	srv.do(t, http.MethodPost, base+"/geographic/77", nil, &v)
	srv.do(t, http.MethodPost, base+"/activities/so", nil, &v)

	if code := srv.do(t, http.MethodPost, base+"/review", nil, &v); code != http.StatusOK {
		t.Fatalf("review = %d", code)
	}
	if code := srv.do(t, http.MethodPost, base+"/modify", nil, &v); code != http.StatusOK {
		t.Fatalf("modify = %d", code)
	}
	if v.State != session.Editing || v.Summary != nil {
		t.Fatalf("expected editing without summary, got %+v", v)
	}
	if code := srv.do(t, http.MethodPut, base+"/term", TermRequest{Term: "annual"}, &v); code != http.StatusOK {
		t.Fatalf("set term = %d", code)
	}
	if v.Term != "annual" {
		t.Errorf("term = %s", v.Term)
	}
}

func TestSessionErrors(t *testing.T) {
	srv := newTestServer(t)

	var e ErrorResponse
	if code := srv.do(t, http.MethodGet, "/api/v1/sessions/missing", nil, &e); code != http.StatusNotFound {
		t.Errorf("unknown session = %d", code)
	}
	if code := srv.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Catalog: "nope"}, &e); code != http.StatusNotFound {
		t.Errorf("unknown catalog = %d", code)
	}

	var v session.View
	srv.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Catalog: "idf"}, &v)
	if code := srv.do(t, http.MethodPost, "/api/v1/sessions/"+v.ID+"/bundles/nope", nil, &e); code != http.StatusNotFound {
		t.Errorf("unknown bundle = %d", code)
	}
	if code := srv.do(t, http.MethodPost, "/api/v1/sessions/"+v.ID+"/submit", nil, &e); code != http.StatusConflict {
		t.Errorf("submit while editing = %d", code)
	}
	if code := srv.do(t, http.MethodDelete, "/api/v1/sessions/"+v.ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete = %d", code)
	}
	if code := srv.do(t, http.MethodGet, "/api/v1/sessions/"+v.ID, nil, &e); code != http.StatusNotFound {
		t.Errorf("get after delete = %d", code)
	}
}

func TestRefreshIntervalSetting(t *testing.T) {
	srv := newTestServer(t)

	var e ErrorResponse
	if code := srv.do(t, http.MethodPut, "/api/v1/settings/refresh-interval", RefreshIntervalRequest{Interval: "whenever"}, &e); code != http.StatusUnprocessableEntity {
		t.Errorf("invalid interval = %d", code)
	}

	var got RefreshIntervalRequest
	if code := srv.do(t, http.MethodPut, "/api/v1/settings/refresh-interval", RefreshIntervalRequest{Interval: "0 */6 * * *"}, &got); code != http.StatusOK {
		t.Fatalf("put interval = %d", code)
	}
	if code := srv.do(t, http.MethodGet, "/api/v1/settings/refresh-interval", nil, &got); code != http.StatusOK {
		t.Fatalf("get interval = %d", code)
	}
	if got.Interval != "0 */6 * * *" {
		t.Errorf("interval = %q", got.Interval)
	}
}

func TestEmailSettings(t *testing.T) {
	srv := newTestServer(t)

	var e ErrorResponse
	if code := srv.do(t, http.MethodPut, "/api/v1/settings/email", EmailConfigRequest{Provider: "pigeon"}, &e); code != http.StatusUnprocessableEntity {
		t.Errorf("invalid provider = %d", code)
	}

	var cfg storage.EmailConfig
	code := srv.do(t, http.MethodPut, "/api/v1/settings/email", EmailConfigRequest{
		Provider:    "smtp",
		Host:        "smtp.example.com",
		Port:        587,
		Password:    "secret",
		FromAddress: "devis@example.com",
		Enabled:     true,
	}, &cfg)
	if code != http.StatusOK {
		t.Fatalf("put email = %d", code)
	}

	// An empty password keeps the stored one.
	srv.do(t, http.MethodPut, "/api/v1/settings/email", EmailConfigRequest{
		Provider:    "smtp",
		Host:        "mail.example.com",
		Port:        587,
		FromAddress: "devis@example.com",
		Enabled:     true,
	}, &cfg)
	stored, err := srv.store.GetEmailConfig(t.Context())
	if err != nil || stored == nil {
		t.Fatalf("stored config: %v", err)
	}
	if stored.Host != "mail.example.com" || stored.Password != "secret" {
		t.Errorf("unexpected stored config: %+v", stored)
	}
}

func TestRootRedirectsToUI(t *testing.T) {
	srv := newTestServer(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/ui/" {
		t.Errorf("GET / = %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}
