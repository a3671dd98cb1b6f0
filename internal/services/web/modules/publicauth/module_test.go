package publicauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/platform/forms"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/routepath"
	"github.com/studentreg/web/internal/services/web/session"
)

type fakeAuth struct {
	loginErr    error
	loginUser   backend.User
	registerErr error
	logins      []backend.Credentials
	registers   []backend.RegisterRequest
	logouts     int
}

func (f *fakeAuth) Login(_ context.Context, _ http.ResponseWriter, _ *http.Request, creds backend.Credentials) (session.Outcome, error) {
	f.logins = append(f.logins, creds)
	if f.loginErr != nil {
		return session.Outcome{}, f.loginErr
	}
	redirect := routepath.Profile
	if f.loginUser.IsAdmin() {
		redirect = routepath.AdminDashboard
	}
	return session.Outcome{User: f.loginUser, RedirectTo: redirect}, nil
}

func (f *fakeAuth) Register(_ context.Context, _ http.ResponseWriter, _ *http.Request, req backend.RegisterRequest) (session.Outcome, error) {
	f.registers = append(f.registers, req)
	if f.registerErr != nil {
		return session.Outcome{}, f.registerErr
	}
	return session.Outcome{RedirectTo: routepath.Profile}, nil
}

func (f *fakeAuth) Logout(http.ResponseWriter, *http.Request) { f.logouts++ }

type fakeRegistrar struct {
	err   error
	calls []backend.RegisterRequest
}

func (f *fakeRegistrar) Register(_ context.Context, req backend.RegisterRequest) (backend.AuthResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return backend.AuthResponse{}, f.err
	}
	return backend.AuthResponse{Token: "tok"}, nil
}

func clock() time.Time { return time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC) }

type harness struct {
	auth      *fakeAuth
	registrar *fakeRegistrar
	handler   http.Handler
}

func newHarness(t *testing.T, signsIn bool) *harness {
	t.Helper()
	h := &harness{auth: &fakeAuth{}, registrar: &fakeRegistrar{}}
	mount, err := New(modulehandler.NewTestBase(), Config{
		Auth:            h.auth,
		Registrar:       h.registrar,
		RegisterSignsIn: signsIn,
		Validator:       forms.New(clock),
	}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	h.handler = mount.Handler
	return h
}

func (h *harness) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func assertContains(t *testing.T, body string, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q", marker)
		}
	}
}

func assertNotContains(t *testing.T, body string, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if strings.Contains(body, marker) {
			t.Fatalf("body unexpectedly contains %q", marker)
		}
	}
}

func step1(values url.Values) url.Values {
	out := url.Values{"firstName": {"Jane"}, "lastName": {"Doe"}, "dateOfBirth": {"2011-06-01"}, "step": {"personal-info"}}
	for k, v := range values {
		out[k] = v
	}
	return out
}

func step2(values url.Values) url.Values {
	out := step1(url.Values{
		"step":            {"account-setup"},
		"email":           {"jane@example.com"},
		"password":        {"hunter2hunter2"},
		"confirmPassword": {"hunter2hunter2"},
		"action":          {"submit"},
	})
	for k, v := range values {
		out[k] = v
	}
	return out
}

func TestMountPrefixes(t *testing.T) {
	t.Parallel()

	mount, err := New(modulehandler.NewTestBase(), Config{}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	want := []string{routepath.Login, routepath.Register, routepath.Logout}
	if strings.Join(mount.Prefixes, ",") != strings.Join(want, ",") {
		t.Fatalf("Prefixes = %v, want %v", mount.Prefixes, want)
	}
}

func TestLoginPageRendersForm(t *testing.T) {
	t.Parallel()

	rr := newHarness(t, false).get(routepath.Login)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	assertContains(t, rr.Body.String(), `action="/login"`, `name="email"`, `name="password"`)
}

func TestLoginValidationBlocksBackend(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	rr := h.post(routepath.Login, url.Values{"email": {"not-an-email"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	assertContains(t, rr.Body.String(), "Invalid email address", "Password is required", `value="not-an-email"`)
	if len(h.auth.logins) != 0 {
		t.Fatalf("logins = %d, want 0", len(h.auth.logins))
	}
}

func TestLoginRejectedShowsBackendMessageOrFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "backend message",
			err:  &session.AuthError{Message: "Account locked", Err: &backend.Error{StatusCode: http.StatusUnauthorized, Message: "Account locked"}},
			want: "Account locked",
		},
		{
			name: "fallback",
			err:  &session.AuthError{Message: session.LoginFailedMessage, Err: errors.New("dial tcp: refused")},
			want: "Invalid email or password",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, false)
			h.auth.loginErr = tc.err
			rr := h.post(routepath.Login, url.Values{"email": {"jane@example.com"}, "password": {"wrong-pass"}})
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			body := rr.Body.String()
			assertContains(t, body, tc.want, `data-dismiss-after="5000"`)
			assertNotContains(t, body, "wrong-pass")
		})
	}
}

func TestLoginSuccessRedirectsByRole(t *testing.T) {
	t.Parallel()

	for role, want := range map[string]string{backend.RoleAdmin: routepath.AdminDashboard, backend.RoleStudent: routepath.Profile} {
		h := newHarness(t, false)
		h.auth.loginUser = backend.User{ID: "1", Role: role}
		rr := h.post(routepath.Login, url.Values{"email": {"a@example.com"}, "password": {"pw"}})
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s status = %d, want %d", role, rr.Code, http.StatusSeeOther)
		}
		if got := rr.Header().Get("Location"); got != want {
			t.Fatalf("%s Location = %q, want %q", role, got, want)
		}
		if got := h.auth.logins[0]; got.Email != "a@example.com" || got.Password != "pw" {
			t.Fatalf("credentials = %+v", got)
		}
	}
}

func TestRegisterNextEnforcesAgeWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dob  string
		want string
	}{
		{dob: "2016-03-15", want: "You must be at least 10 years old"},
		{dob: "2006-03-15", want: "You must be at most 20 years old"},
		{dob: "", want: "Date of birth is required"},
	}
	for _, tc := range tests {
		rr := newHarness(t, false).post(routepath.Register, step1(url.Values{"dateOfBirth": {tc.dob}, "action": {"next"}}))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("dob %q status = %d, want %d", tc.dob, rr.Code, http.StatusBadRequest)
		}
		assertContains(t, rr.Body.String(), tc.want, `value="next"`)
	}
}

func TestRegisterNextOnlyChecksStepOneFields(t *testing.T) {
	t.Parallel()

	rr := newHarness(t, false).post(routepath.Register, step1(url.Values{"firstName": {" "}, "action": {"next"}}))
	body := rr.Body.String()
	assertContains(t, body, "First name is required")
	assertNotContains(t, body, "Email is required", "Password is required")
}

func TestRegisterNextAdvancesAndBackKeepsValues(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	rr := h.post(routepath.Register, step1(url.Values{"action": {"next"}}))
	if rr.Code != http.StatusOK {
		t.Fatalf("next status = %d, want %d", rr.Code, http.StatusOK)
	}
	assertContains(t, rr.Body.String(), `name="password"`, `name="confirmPassword"`, `value="account-setup"`, `value="Jane"`)

	rr = h.post(routepath.Register, step2(url.Values{"action": {"back"}}))
	if rr.Code != http.StatusOK {
		t.Fatalf("back status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	assertContains(t, body, `value="personal-info"`, `value="Jane"`, `value="2011-06-01"`)
	assertNotContains(t, body, "hunter2hunter2")
	if len(h.registrar.calls) != 0 {
		t.Fatal("navigation must not register")
	}
}

func TestRegisterSubmitValidatesAccountFields(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	rr := h.post(routepath.Register, step2(url.Values{"password": {"short"}, "confirmPassword": {"other"}, "email": {"jane@"}}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	assertContains(t, rr.Body.String(), "Password must be at least 8 characters", "Passwords must match", "Invalid email address")
	if len(h.registrar.calls) != 0 {
		t.Fatal("invalid submit must not reach the backend")
	}
}

func TestRegisterSubmitWithBadStepOneFieldsReturnsToStepOne(t *testing.T) {
	t.Parallel()

	rr := newHarness(t, false).post(routepath.Register, step2(url.Values{"lastName": {""}}))
	assertContains(t, rr.Body.String(), "Last name is required", `value="personal-info"`)
}

func TestRegisterSubmitSuccessStripsConfirmationAndRedirectsToLogin(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	rr := h.post(routepath.Register, step2(nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	assertContains(t, body, "Registration successful! You can now login.", `content="2;url=/login"`)
	assertNotContains(t, body, `action="/register"`)
	if len(h.registrar.calls) != 1 {
		t.Fatalf("register calls = %d, want 1", len(h.registrar.calls))
	}
	want := backend.RegisterRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "hunter2hunter2", DateOfBirth: "2011-06-01"}
	if got := h.registrar.calls[0]; got != want {
		t.Fatalf("request = %+v, want %+v", got, want)
	}
	if len(h.auth.registers) != 0 {
		t.Fatal("default flow must not sign in")
	}
}

func TestRegisterSubmitFailureKeepsStepTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "backend message", err: &backend.Error{StatusCode: http.StatusConflict, Message: "Email already registered"}, want: "Email already registered"},
		{name: "fallback", err: &backend.Error{StatusCode: http.StatusBadGateway}, want: "Registration failed. Please try again."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, false)
			h.registrar.err = tc.err
			rr := h.post(routepath.Register, step2(nil))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			body := rr.Body.String()
			assertContains(t, body, tc.want, `value="account-setup"`, `value="jane@example.com"`)
			assertNotContains(t, body, "hunter2hunter2")
		})
	}
}

func TestRegisterSignsInVariant(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true)
	rr := h.post(routepath.Register, step2(nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != routepath.Profile {
		t.Fatalf("response = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if len(h.auth.registers) != 1 || len(h.registrar.calls) != 0 {
		t.Fatalf("auth registers = %d, registrar calls = %d", len(h.auth.registers), len(h.registrar.calls))
	}
}

func TestLogoutRedirectsToLogin(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	rr := h.post(routepath.Logout, nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != routepath.Login {
		t.Fatalf("response = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if h.auth.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", h.auth.logouts)
	}
}
