package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitad/internal/tokenfile"
	"admitad/pkg/apierror"
	"admitad/pkg/credential"
	"admitad/pkg/oauth"
)

// fakeAdmitad serves the token endpoint and a few resources. Only
// validToken is accepted on resource paths.
type fakeAdmitad struct {
	*httptest.Server

	mu         sync.Mutex
	validToken string
	grants     []url.Values
	lastQuery  url.Values
}

func newFakeAdmitad(t *testing.T) *fakeAdmitad {
	t.Helper()
	f := &fakeAdmitad{validToken: "fresh"}

	mux := http.NewServeMux()
	mux.HandleFunc("/token/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.grants = append(f.grants, r.PostForm)
		f.mu.Unlock()

		switch r.PostForm.Get("grant_type") {
		case oauth.GrantTypeClientCredentials:
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "cc-token", "expires_in": 3600, "scope": r.PostForm.Get("scope")})
		case oauth.GrantTypeRefreshToken:
			if r.PostForm.Get("refresh_token") != "r1" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant", "error_description": "Bad refresh token"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "fresh", "refresh_token": "r2", "expires_in": 3600})
		case oauth.GrantTypeAuthorizationCode:
			if r.PostForm.Get("code") != "good-code" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant", "error_description": "Unknown code"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "code-token", "refresh_token": "code-refresh", "username": "webmaster"})
		}
	})
	resource := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			valid := f.validToken
			f.lastQuery = r.URL.Query()
			f.mu.Unlock()
			if r.Header.Get("Authorization") != "Bearer "+valid {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "0", "error_description": "Token expired"})
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	mux.HandleFunc("/me/", resource(`{"id":7,"username":"webmaster","language":"en"}`))
	mux.HandleFunc("/me/balance/", resource(`[{"currency":"USD","balance":10.5}]`))
	mux.HandleFunc("/advcampaigns/", resource(`{"results":[{"id":1,"name":"Shop"}],"_meta":{"count":1,"limit":5,"offset":0}}`))
	mux.HandleFunc("/categories/", resource(`{"results":[{"id":1,"name":"Shops"},{"id":2,"name":"Books","parent":{"id":1}}],"_meta":{"count":2,"limit":500,"offset":0}}`))
	mux.HandleFunc("/missing/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAdmitad) grantTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, g := range f.grants {
		out = append(out, g.Get("grant_type"))
	}
	return out
}

func (f *fakeAdmitad) query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cliEnv isolates a CLI run from the user's configuration.
type cliEnv struct {
	configDir string
	tokenPath string
}

func newCLIEnv(t *testing.T, api *fakeAdmitad) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{configDir: dir, tokenPath: filepath.Join(dir, "token.json")}

	t.Setenv("ADMITAD_CLIENT_ID", "client")
	t.Setenv("ADMITAD_CLIENT_SECRET", "secret")
	t.Setenv("ADMITAD_BASE_URL", api.URL)
	t.Setenv("ADMITAD_IDENTITY_URL", "")
	t.Setenv("ADMITAD_TOKEN_FILE", env.tokenPath)
	t.Setenv("ADMITAD_LANGUAGE", "en")
	t.Setenv("ADMITAD_ACCESS_TOKEN", "")
	t.Setenv("ADMITAD_REFRESH_TOKEN", "")
	t.Setenv("ADMITAD_LOG_LEVEL", "error")
	return env
}

func (e cliEnv) run(args ...string) (string, string, error) {
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{
		"--config-path", e.configDir,
		"--env-file", filepath.Join(e.configDir, "absent.env"),
		"--no-color",
	}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e cliEnv) storeToken(t *testing.T, c credential.Credential) {
	t.Helper()
	require.NoError(t, tokenfile.New(e.tokenPath, "client").Save(c))
}

func (e cliEnv) loadToken(t *testing.T) credential.Credential {
	t.Helper()
	stored, err := tokenfile.New(e.tokenPath, "client").Load()
	require.NoError(t, err)
	return stored.Credential()
}

func TestTokenCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	out, _, err := env.run("token", "--scope", "advcampaigns", "--scope", "banners", "-o", "json")
	require.NoError(t, err)

	var view tokenView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "advcampaigns banners", view.Scope)
	assert.True(t, strings.HasPrefix(view.AccessToken, "[REDACTED]:"), "token values are not printed by default")
	assert.Equal(t, env.tokenPath, view.TokenFile)
	assert.Equal(t, "cc-token", env.loadToken(t).AccessToken)

	out, _, err = env.run("token", "--scope", "all", "--show-tokens", "--save=false", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "cc-token", view.AccessToken)
	assert.Equal(t, oauth.AllScopesString(), view.Scope)
	assert.Empty(t, view.TokenFile)
}

func TestTokenCommand_MissingClient(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	t.Setenv("ADMITAD_CLIENT_SECRET", "")

	_, _, err := env.run("token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clientSecret")
	assert.Equal(t, ExitCodeError, getExitCode(err))
	assert.Empty(t, api.grantTypes())
}

func TestMeCommand_RefreshesAndPersists(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	env.storeToken(t, credential.Credential{AccessToken: "stale", RefreshToken: "r1"})

	out, _, err := env.run("me")
	require.NoError(t, err)
	assert.Contains(t, out, "webmaster")
	assert.Contains(t, out, "USD")
	assert.Equal(t, "en", api.query().Get("language"))

	assert.Equal(t, []string{oauth.GrantTypeRefreshToken}, api.grantTypes())
	assert.Equal(t, credential.Credential{AccessToken: "fresh", RefreshToken: "r2", ExpiresIn: 3600}, env.loadToken(t))
}

func TestMeCommand_RefreshFailure(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	env.storeToken(t, credential.Credential{AccessToken: "stale", RefreshToken: "revoked"})

	_, _, err := env.run("me")
	var authErr *apierror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ExitCodeAuthFailed, getExitCode(err))
	assert.Equal(t, "revoked", env.loadToken(t).RefreshToken, "failed refresh leaves the stored token alone")
}

func TestMeCommand_NoCredential(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	_, _, err := env.run("me")
	require.Error(t, err)
	assert.Equal(t, ExitCodeAuthFailed, getExitCode(err))
	assert.Contains(t, err.Error(), "admitad token")
}

func TestMeCommand_EnvironmentToken(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	t.Setenv("ADMITAD_ACCESS_TOKEN", "fresh")

	out, _, err := env.run("me", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "username: webmaster")
	assert.Empty(t, api.grantTypes())
}

func TestRefreshCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	env.storeToken(t, credential.Credential{AccessToken: "old", RefreshToken: "r1"})

	out, _, err := env.run("refresh", "--show-tokens", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"access_token": "fresh"`)
	assert.Equal(t, "r2", env.loadToken(t).RefreshToken)
}

func TestRefreshCommand_NoRefreshToken(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	env.storeToken(t, credential.Credential{AccessToken: "old"})

	_, _, err := env.run("refresh")
	var authErr *apierror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Empty(t, api.grantTypes())
}

func TestAuthorizeURLCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	out, stderr, err := env.run("authorize-url", "--redirect-uri", "https://app.example/cb", "--state", "xyz", "--scope", "private_data")
	require.NoError(t, err)

	u, err := url.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "/authorize/", u.Path)
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "https://app.example/cb", u.Query().Get("redirect_uri"))
	assert.Equal(t, "private_data", u.Query().Get("scope"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
	assert.Contains(t, stderr, "state: xyz")

	out, _, err = env.run("authorize-url", "--redirect-uri", "https://app.example/cb")
	require.NoError(t, err)
	u, err = url.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, u.Query().Get("state"), 36, "random state is a UUID")

	_, _, err = env.run("authorize-url")
	assert.ErrorContains(t, err, "redirect URI is required")
}

func TestExchangeCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	out, _, err := env.run("exchange", "good-code", "--redirect-uri", "https://app.example/cb", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "webmaster"`)
	assert.Equal(t, credential.Credential{AccessToken: "code-token", RefreshToken: "code-refresh"}, env.loadToken(t))

	_, _, err = env.run("exchange", "bad-code")
	var authErr *apierror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Unknown code", authErr.Description)
}

func TestVerifySignedRequestCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	signed, err := oauth.SignRequest(map[string]any{
		"access_token":  "embedded",
		"refresh_token": "embedded-refresh",
		"expires_in":    600,
		"algorithm":     "HMAC-SHA256",
		"id":            42,
		"username":      "webmaster",
	}, "secret")
	require.NoError(t, err)

	out, _, err := env.run("verify-signed-request", signed, "--save", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "webmaster"`)
	assert.Contains(t, out, `"id": 42`)
	assert.NotContains(t, out, "embedded")
	assert.Equal(t, credential.Credential{AccessToken: "embedded", RefreshToken: "embedded-refresh", ExpiresIn: 600}, env.loadToken(t))

	first := "A"
	if signed[0] == 'A' {
		first = "B"
	}
	tampered := first + signed[1:]
	_, _, err = env.run("verify-signed-request", tampered)
	var authErr *apierror.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestVerifySignedRequestCommand_Stdin(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	signed, err := oauth.SignRequest(map[string]any{"access_token": "a", "algorithm": "HMAC-SHA256"}, "secret")
	require.NoError(t, err)

	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(signed + "\n"))
	root.SetArgs([]string{"--config-path", env.configDir, "--env-file", "", "verify-signed-request", "-o", "json"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), `"algorithm": "HMAC-SHA256"`)
}

func TestProgramsAndCategoriesCommands(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	t.Setenv("ADMITAD_ACCESS_TOKEN", "fresh")

	out, _, err := env.run("programs", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Shop")
	assert.Contains(t, out, "Total: 1")
	assert.Equal(t, "5", api.query().Get("limit"))

	_, _, err = env.run("programs", "--limit", "501")
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "limit", vErr.Field)

	out, _, err = env.run("categories", "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Shops (1)")
	assert.Contains(t, out, "Books (2)")
}

func TestGetCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	t.Setenv("ADMITAD_ACCESS_TOKEN", "fresh")

	out, _, err := env.run("get", "advcampaigns/", "--param", "limit=5", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Shop"`)
	assert.Equal(t, "5", api.query().Get("limit"))

	_, _, err = env.run("get", "missing/")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ExitCodeAPIError, getExitCode(err))
	assert.Equal(t, "Not found", apiErr.Message)
}

func TestLogoutCommand(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)
	env.storeToken(t, credential.Credential{AccessToken: "a"})

	out, _, err := env.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	_, err = tokenfile.New(env.tokenPath, "").Load()
	assert.ErrorIs(t, err, tokenfile.ErrNotFound)
}

func TestInvalidOutputFormat(t *testing.T) {
	api := newFakeAdmitad(t)
	env := newCLIEnv(t, api)

	_, _, err := env.run("token", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}
