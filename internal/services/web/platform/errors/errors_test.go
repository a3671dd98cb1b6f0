package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/studentreg/web/internal/services/web/backend"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindInvalidInput, want: http.StatusBadRequest},
		{kind: KindUnauthorized, want: http.StatusUnauthorized},
		{kind: KindForbidden, want: http.StatusForbidden},
		{kind: KindConflict, want: http.StatusConflict},
		{kind: KindUnavailable, want: http.StatusServiceUnavailable},
		{kind: KindNotFound, want: http.StatusNotFound},
		{kind: KindUnknown, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusNilAndPlainErrors(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestHTTPStatusMapsBackendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "transport", err: &backend.Error{Op: "profile"}, want: http.StatusServiceUnavailable},
		{name: "not found", err: &backend.Error{Op: "update", StatusCode: http.StatusNotFound}, want: http.StatusNotFound},
		{name: "unauthorized", err: &backend.Error{Op: "profile", StatusCode: http.StatusUnauthorized}, want: http.StatusUnauthorized},
		{name: "upstream 500", err: &backend.Error{Op: "list", StatusCode: http.StatusInternalServerError}, want: http.StatusBadGateway},
		{name: "wrapped", err: fmt.Errorf("load: %w", &backend.Error{Op: "list", StatusCode: http.StatusForbidden}), want: http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindForbidden}
	if got := err.Error(); got != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", got, string(KindForbidden))
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("LocalizationKey(nil) = %q", got)
	}
	err := fmt.Errorf("wrap: %w", EK(KindNotFound, " core.not_found.title ", "missing"))
	if got := LocalizationKey(err); got != "core.not_found.title" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q", got)
	}
}
