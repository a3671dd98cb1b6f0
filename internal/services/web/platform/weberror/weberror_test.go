package weberror

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studentreg/web/internal/services/web/backend"
	apperrors "github.com/studentreg/web/internal/services/web/platform/errors"
	webi18n "github.com/studentreg/web/internal/services/web/platform/i18n"
)

func TestWriteModuleErrorRendersNotFoundPage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindNotFound, "missing"), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	body := rr.Body.String()
	for _, marker := range []string{`class="error-state not-found"`, "Page Not Found", `href="/"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q: %q", marker, body)
		}
	}
}

func TestWriteModuleErrorRendersServerErrorPageForBackendOutage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, &backend.Error{Op: "profile", Err: errors.New("connection refused")}, nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Something went wrong") {
		t.Fatalf("body = %q", body)
	}
	if strings.Contains(body, "connection refused") {
		t.Fatalf("body leaked internal error text: %q", body)
	}
}

func TestWriteModuleErrorWritesPlainTextForBadRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindInvalidInput, "bad form"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := rr.Body.String()
	if !strings.Contains(body, http.StatusText(http.StatusBadRequest)) {
		t.Fatalf("body = %q, want generic bad-request message", body)
	}
	if strings.Contains(body, "bad form") {
		t.Fatalf("body leaked internal error text: %q", body)
	}
}

func TestPublicMessagePrefersLocalizationKey(t *testing.T) {
	t.Parallel()

	err := apperrors.EK(apperrors.KindUnavailable, "admin.errors.fetch_failed", "list users: timeout")
	if got := PublicMessage(webi18n.Printer("en"), err); got != "Failed to fetch users." {
		t.Fatalf("PublicMessage() = %q", got)
	}
}
