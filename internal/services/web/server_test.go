package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studentreg/web/internal/services/web/session"
	"github.com/studentreg/web/internal/services/web/storage"
	"github.com/studentreg/web/internal/services/web/storage/memory"
)

var testNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

type apiCall struct {
	method string
	path   string
	auth   string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	token string
	role  string
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, apiCall{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")})
}

func (f *fakeAPI) callsTo(path string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, call := range f.calls {
		if call.path == path {
			out = append(out, call)
		}
	}
	return out
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	w.Header().Set("Content-Type", "application/json")
	user := `{"id":7,"firstName":"Jane","lastName":"Doe","email":"jane@example.com","role":"` + f.role + `","registrationNumber":"REG-0007"}`
	switch r.URL.Path {
	case "/api/login":
		_, _ = io.WriteString(w, `{"token":"`+f.token+`","data":`+user+`}`)
	case "/api/profile":
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"invalid token"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":`+user+`}`)
	case "/api/admin/users":
		_, _ = io.WriteString(w, `{"data":[`+user+`],"currentPage":1,"totalPages":1}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testServer struct {
	handler http.Handler
	api     *fakeAPI
	store   *memory.Store
}

func newTestServer(t *testing.T, role string) testServer {
	t.Helper()
	claims := session.Claims{Role: role}
	claims.Subject = "7"
	claims.ExpiresAt = jwt.NewNumericDate(testNow.Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	api := &fakeAPI{token: token, role: role}
	backendServer := httptest.NewServer(api)
	t.Cleanup(backendServer.Close)

	store := memory.NewWithClock(func() time.Time { return testNow })
	handler, err := NewHandler(Config{
		APIBaseURL: backendServer.URL + "/api",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return testNow },
	}, store)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return testServer{handler: handler, api: api, store: store}
}

func (s testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {"jane@example.com"}, "password": {"secret-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := s.serve(req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d; body = %s", rr.Code, http.StatusSeeOther, rr.Body.String())
	}
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "web_session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("login did not set a session cookie")
	return nil
}

func TestHandlerServesHealthAndStaticAssets(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "student")

	rr := srv.serve(httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "ok" {
		t.Fatalf("GET /up = %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	for _, name := range []string{"app.css", "app.js"} {
		rr := srv.serve(httptest.NewRequest(http.MethodGet, "/static/"+name, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET /static/%s status = %d, want %d", name, rr.Code, http.StatusOK)
		}
		if rr.Body.Len() == 0 {
			t.Fatalf("GET /static/%s returned empty body", name)
		}
	}
	if rr := srv.serve(httptest.NewRequest(http.MethodPost, "/static/app.js", nil)); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /static/app.js status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if calls := len(srv.api.callsTo("/api/profile")); calls != 0 {
		t.Fatalf("profile calls = %d, want 0 for anonymous requests", calls)
	}
}

func TestHandlerRedirectsAnonymousVisitorsFromGuardedPages(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "student")
	for _, path := range []string{"/profile", "/admin/dashboard"} {
		rr := srv.serve(httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusFound {
			t.Fatalf("GET %s status = %d, want %d", path, rr.Code, http.StatusFound)
		}
		if got := rr.Header().Get("Location"); got != "/login" {
			t.Fatalf("GET %s Location = %q, want /login", path, got)
		}
	}
}

func TestHandlerAdminSignInReachesDashboardWithBearerToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "admin")
	cookie := srv.login(t)
	if srv.store.Len() != 1 {
		t.Fatalf("stored sessions = %d, want 1", srv.store.Len())
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	rr := srv.serve(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body := rr.Body.String(); !strings.Contains(body, "Admin Dashboard") || !strings.Contains(body, "REG-0007") {
		t.Fatalf("dashboard body missing listing: %s", body)
	}
	listCalls := srv.api.callsTo("/api/admin/users")
	if len(listCalls) != 1 {
		t.Fatalf("list calls = %d, want 1", len(listCalls))
	}
	if listCalls[0].auth != "Bearer "+srv.api.token {
		t.Fatalf("list Authorization = %q", listCalls[0].auth)
	}
}

func TestHandlerStudentIsSentHomeFromDashboard(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "student")
	cookie := srv.login(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	rr := srv.serve(req)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("dashboard = %d %q, want redirect home", rr.Code, rr.Header().Get("Location"))
	}
	if calls := len(srv.api.callsTo("/api/admin/users")); calls != 0 {
		t.Fatalf("list calls = %d, want 0", calls)
	}

	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	rr = srv.serve(req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "REG-0007") {
		t.Fatalf("profile = %d", rr.Code)
	}
}

func TestHandlerLogoutRequiresSameOriginProof(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "student")
	cookie := srv.login(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	if rr := srv.serve(req); rr.Code != http.StatusForbidden {
		t.Fatalf("cross-site logout status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if srv.store.Len() != 1 {
		t.Fatalf("stored sessions = %d, want 1 after rejected logout", srv.store.Len())
	}

	req = httptest.NewRequest(http.MethodPost, "http://example.com/logout", nil)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(cookie)
	rr := srv.serve(req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Fatalf("logout = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if srv.store.Len() != 0 {
		t.Fatalf("stored sessions = %d, want 0", srv.store.Len())
	}
}

func TestOpenSessionStoreSelectsBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem, err := OpenSessionStore(ctx, Config{SessionStore: "memory"})
	if err != nil {
		t.Fatalf("OpenSessionStore(memory) error = %v", err)
	}
	if _, ok := mem.(*memory.Store); !ok {
		t.Fatalf("store = %T, want *memory.Store", mem)
	}

	db, err := OpenSessionStore(ctx, Config{SessionStore: "sqlite", SessionDBPath: t.TempDir() + "/sessions.db"})
	if err != nil {
		t.Fatalf("OpenSessionStore(sqlite) error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.SaveSession(ctx, storage.Session{ID: "s1", Token: "tok", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if _, err := OpenSessionStore(ctx, Config{SessionStore: "etcd"}); err == nil {
		t.Fatalf("expected unknown store error")
	}
}

func TestNewHandlerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{}, nil); err == nil {
		t.Fatalf("expected missing store error")
	}
}

func TestHandlerLanguageToggleKeepsSessionAndListing(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "admin")
	sessionCookie := srv.login(t)

	profileBefore := len(srv.api.callsTo("/api/profile"))
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(sessionCookie)
	if rr := srv.serve(req); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "REG-0007") {
		t.Fatalf("english dashboard = %d", rr.Code)
	}
	profilePerRequest := len(srv.api.callsTo("/api/profile")) - profileBefore
	listBefore := len(srv.api.callsTo("/api/admin/users"))

	form := url.Values{"return": {"/admin/dashboard"}}
	req = httptest.NewRequest(http.MethodPost, "http://example.com/language/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(sessionCookie)
	profileBefore = len(srv.api.callsTo("/api/profile"))
	rr := srv.serve(req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("toggle = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := len(srv.api.callsTo("/api/profile")) - profileBefore; got > profilePerRequest {
		t.Fatalf("toggle profile calls = %d, want at most %d", got, profilePerRequest)
	}
	if got := len(srv.api.callsTo("/api/admin/users")); got != listBefore {
		t.Fatalf("toggle list calls = %d, want %d", got-listBefore, 0)
	}
	var language *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "language" {
			language = cookie
		}
		if cookie.Name == "web_session" {
			t.Fatalf("toggle rewrote the session cookie: %+v", cookie)
		}
	}
	if language == nil || language.Value != "fr" {
		t.Fatalf("language cookie = %+v, want fr", language)
	}
	if srv.store.Len() != 1 {
		t.Fatalf("stored sessions = %d, want 1", srv.store.Len())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(sessionCookie)
	req.AddCookie(language)
	rr = srv.serve(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("french dashboard status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Tableau de bord administrateur") || !strings.Contains(body, "REG-0007") {
		t.Fatalf("french dashboard missing labels or rows: %s", body)
	}
	if got := len(srv.api.callsTo("/api/admin/users")); got != listBefore+1 {
		t.Fatalf("list calls after re-render = %d, want %d", got, listBefore+1)
	}
}
