package pagerender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/module"
	flashnotice "github.com/studentreg/web/internal/services/web/platform/flash"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
)

type stubResolver struct {
	auth module.AuthState
	lang string
}

func (s stubResolver) ResolveRequestAuth(*http.Request) module.AuthState { return s.auth }
func (s stubResolver) ResolveRequestLanguage(*http.Request) string     { return s.lang }
func (s stubResolver) RequestSchemePolicy() requestmeta.SchemePolicy   { return requestmeta.SchemePolicy{} }

func TestWriteModulePageRendersHTMXFragmentWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()

	err := WriteModulePage(rr, req, nil, ModulePage{
		Title:      "Profile",
		StatusCode: http.StatusCreated,
		Fragment:   textComponent(`<section id="fragment-root">ok</section>`),
	})
	if err != nil {
		t.Fatalf("WriteModulePage() error = %v", err)
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="fragment-root"`) {
		t.Fatalf("body missing fragment marker: %q", body)
	}
	if strings.Contains(strings.ToLower(body), "<html") {
		t.Fatalf("expected htmx fragment without full document wrapper")
	}
}

func TestWriteModulePageRendersFullPageWithLayout(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rr := httptest.NewRecorder()
	resolver := stubResolver{
		lang: "fr",
		auth: module.AuthState{User: &backend.User{FirstName: "Jane", LastName: "Doe", Role: backend.RoleAdmin}},
	}

	err := WriteModulePage(rr, req, resolver, ModulePage{
		Title:      "Profil",
		StatusCode: http.StatusAccepted,
		Fragment:   textComponent(`<section id="fragment-root">ok</section>`),
	})
	if err != nil {
		t.Fatalf("WriteModulePage() error = %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q, want %q", got, "text/html; charset=utf-8")
	}
	body := rr.Body.String()
	for _, marker := range []string{`id="main"`, `id="fragment-root"`, `lang="fr"`, "Jane Doe", "Tableau de Bord Admin"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing marker %q: %q", marker, body)
		}
	}
}

func TestWriteModulePageRendersToastFromFlashNotice(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	setFlashCookie(t, req, flashnotice.Success("admin.success.user_deleted", "Jane Doe"))
	rr := httptest.NewRecorder()

	err := WriteModulePage(rr, req, stubResolver{lang: "en"}, ModulePage{
		Fragment: textComponent(`<section id="fragment-root">ok</section>`),
	})
	if err != nil {
		t.Fatalf("WriteModulePage() error = %v", err)
	}
	body := rr.Body.String()
	for _, marker := range []string{`class="toast toast-success"`, "User Jane Doe deleted successfully.", `data-dismiss-after="3000"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing marker %q: %q", marker, body)
		}
	}
	if !responseHasCookieName(rr, flashnotice.CookieName) {
		t.Fatalf("response missing %q clear cookie", flashnotice.CookieName)
	}
}

func TestWriteModulePageHTMXDoesNotConsumeFlashNotice(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	setFlashCookie(t, req, flashnotice.Success("admin.success.user_updated", "Jane Doe"))
	rr := httptest.NewRecorder()

	if err := WriteModulePage(rr, req, nil, ModulePage{Fragment: textComponent("ok")}); err != nil {
		t.Fatalf("WriteModulePage() error = %v", err)
	}
	if responseHasCookieName(rr, flashnotice.CookieName) {
		t.Fatalf("htmx response unexpectedly set %q cookie", flashnotice.CookieName)
	}
}

func TestViewerFromAuthIgnoresLoadingState(t *testing.T) {
	t.Parallel()

	state := module.AuthState{Loading: true, User: &backend.User{FirstName: "Jane"}}
	if viewer := ViewerFromAuth(state); viewer.SignedIn {
		t.Fatalf("viewer = %+v, want anonymous while loading", viewer)
	}
}

func setFlashCookie(t *testing.T, req *http.Request, notice flashnotice.Notice) {
	t.Helper()
	seed := httptest.NewRecorder()
	flashnotice.Write(seed, req, notice, requestmeta.SchemePolicy{})
	setCookieHeader := strings.TrimSpace(seed.Header().Get("Set-Cookie"))
	if setCookieHeader == "" {
		t.Fatalf("expected flash cookie header")
	}
	cookie, err := http.ParseSetCookie(setCookieHeader)
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	req.AddCookie(cookie)
}

func responseHasCookieName(rr *httptest.ResponseRecorder, name string) bool {
	for _, cookie := range rr.Result().Cookies() {
		if cookie != nil && cookie.Name == name {
			return true
		}
	}
	return false
}

type textComponent string

func (c textComponent) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(c))
	return err
}
