package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/otpauth/internal/auth/http"
	"github.com/aussiebroadwan/otpauth/internal/auth/mailer"
	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/otpauth/pkg/cryptox"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type outbox struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, m)
	return nil
}

var reOTP = regexp.MustCompile(`<strong>(\d+)</strong>`)

func (o *outbox) lastOTP(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs)
	m := reOTP.FindStringSubmatch(o.msgs[len(o.msgs)-1].HTML)
	require.Len(t, m, 2)
	return m[1]
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	srv    *httptest.Server
	outbox *outbox
}

func newHarness(t *testing.T, exposeErrors bool) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	secret := []byte(strings.Repeat("h", jwtx.MinSecretLength))
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(secret, "otpauth-test")
	require.NoError(t, err)

	ob := &outbox{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(signer, verifier, "test", st, logger)
	router.AccountService = &service.AccountService{
		Store:    st,
		Mailer:   ob,
		Signer:   signer,
		Issuer:   "otpauth-test",
		TokenTTL: time.Hour,
		MailFrom: "noreply@otpauth.test",
	}
	router.ExposeErrors = exposeErrors
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &harness{srv: srv, outbox: ob}
}

func (h *harness) postJSON(t *testing.T, path string, body any) (int, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(h.srv.URL+path, "application/json", strings.NewReader(string(raw)))
	require.NoError(t, err)
	return decode(t, resp)
}

func (h *harness) postForm(t *testing.T, path string, form url.Values) (int, envelope) {
	t.Helper()
	resp, err := http.PostForm(h.srv.URL+path, form)
	require.NoError(t, err)
	return decode(t, resp)
}

func (h *harness) get(t *testing.T, path, token string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) (int, envelope) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registerBody(email string) map[string]string {
	return map[string]string{"firstName": "A", "lastName": "B", "email": email, "password": "secret1"}
}

func TestEndToEndScenario(t *testing.T) {
	h := newHarness(t, false)

	code, env := h.postJSON(t, "/register", registerBody("a@x.com"))
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
	require.Equal(t, "Registration Success.", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "A", data["firstName"])
	require.Equal(t, "B", data["lastName"])
	require.Equal(t, "a@x.com", data["email"])
	require.NotEmpty(t, data["id"])
	require.NotContains(t, data, "token")
	require.NotContains(t, data, "password")
	require.NotContains(t, data, "passwordHash")
	otp := h.outbox.lastOTP(t)

	code, env = h.postJSON(t, "/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.False(t, env.Success)
	require.Equal(t, "Account is not confirmed. Please confirm your account.", env.Message)

	code, env = h.postJSON(t, "/verify-otp", map[string]string{"email": "a@x.com", "otp": otp})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Account confirmed success.", env.Message)
	require.Empty(t, env.Data)

	code, env = h.postJSON(t, "/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Login Success.", env.Message)

	var login struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	require.Equal(t, "a@x.com", login.Email)

	code, env = h.get(t, "/profile", login.Token)
	require.Equal(t, http.StatusOK, code)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Equal(t, login.ID, profile["id"])
}

func TestRegister_ValidationEnvelope(t *testing.T) {
	h := newHarness(t, false)

	code, env := h.postJSON(t, "/register", map[string]string{"firstName": "A", "lastName": "B", "email": "a@x.com", "password": "12345"})
	require.Equal(t, http.StatusBadRequest, code)
	require.False(t, env.Success)
	require.Equal(t, "Validation Error.", env.Message)

	var fields []service.FieldError
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	require.Equal(t, []service.FieldError{{Field: "password", Message: "Password must be 6 characters or greater."}}, fields)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newHarness(t, false)

	code, _ := h.postJSON(t, "/register", registerBody("a@x.com"))
	require.Equal(t, http.StatusCreated, code)

	code, env := h.postJSON(t, "/register", registerBody("a@x.com"))
	require.Equal(t, http.StatusBadRequest, code)
	var fields []service.FieldError
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	require.Contains(t, fields, service.FieldError{Field: "email", Message: "E-mail already in use"})
}

func TestFormBodies(t *testing.T) {
	h := newHarness(t, false)

	code, env := h.postForm(t, "/register", url.Values{
		"firstName": {"A"}, "lastName": {"B"}, "email": {"form@x.com"}, "password": {"secret1"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = h.postForm(t, "/resend-verify-otp", url.Values{"email": {"form@x.com"}})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Confirm otp sent.", env.Message)

	code, env = h.postForm(t, "/verify-otp", url.Values{"email": {"form@x.com"}, "otp": {h.outbox.lastOTP(t)}})
	require.Equal(t, http.StatusOK, code)

	code, env = h.postForm(t, "/resend-verify-otp", url.Values{"email": {"form@x.com"}})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Account already confirmed.", env.Message)
}

func TestMalformedJSON(t *testing.T) {
	h := newHarness(t, false)

	resp, err := http.Post(h.srv.URL+"/login", "application/json", strings.NewReader(`{"email":`))
	require.NoError(t, err)
	code, env := decode(t, resp)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Validation Error.", env.Message)
}

func TestUnauthorizedMessages(t *testing.T) {
	h := newHarness(t, false)

	code, env := h.postJSON(t, "/login", map[string]string{"email": "nobody@x.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Email or Password wrong.", env.Message)

	code, env = h.postJSON(t, "/verify-otp", map[string]string{"email": "nobody@x.com", "otp": "1234"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Specified email not found.", env.Message)

	h.postJSON(t, "/register", registerBody("a@x.com"))
	code, env = h.postJSON(t, "/verify-otp", map[string]string{"email": "a@x.com", "otp": "not-it"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Otp does not match.", env.Message)
}

func TestDependencyErrorText(t *testing.T) {
	t.Run("hidden outside dev", func(t *testing.T) {
		h := newHarness(t, false)
		h.outbox.err = errors.New("smtp: 421 service not available")

		code, env := h.postJSON(t, "/register", registerBody("a@x.com"))
		require.Equal(t, http.StatusInternalServerError, code)
		require.False(t, env.Success)
		require.Equal(t, "An internal error occurred", env.Message)
	})

	t.Run("passed through in dev", func(t *testing.T) {
		h := newHarness(t, true)
		h.outbox.err = errors.New("smtp: 421 service not available")

		code, env := h.postJSON(t, "/register", registerBody("a@x.com"))
		require.Equal(t, http.StatusInternalServerError, code)
		require.Equal(t, "smtp: 421 service not available", env.Message)
	})
}

func TestProfileRequiresToken(t *testing.T) {
	h := newHarness(t, false)

	code, env := h.get(t, "/profile", "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.False(t, env.Success)

	code, _ = h.get(t, "/profile", "not.a.jwt")
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, false)

	code, env := h.get(t, "/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Page not found", env.Message)

	// Known path, wrong method.
	code, _ = h.get(t, "/register", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t, false)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(h.srv.URL + path)
		require.NoError(t, err)
		var body httpapi.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, "ok", body.Status)
		require.Equal(t, "test", body.Version)
	}
}

func TestSwaggerDoc(t *testing.T) {
	h := newHarness(t, false)

	resp, err := http.Get(h.srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, paths, "/register")
	require.Contains(t, paths, "/verify-otp")
}
