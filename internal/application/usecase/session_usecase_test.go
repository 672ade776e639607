package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diillson/finops-latam-cli/internal/adapter/driven/api"
	"github.com/diillson/finops-latam-cli/internal/adapter/driven/storage"
	"github.com/diillson/finops-latam-cli/internal/application/session"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	uc      *SessionUseCase
	console *recordingConsole
	storage *storage.MemoryStorage
	store   *session.Store
}

func newSessionFixture(t *testing.T, baseURL string, policy ValidationPolicy) *sessionFixture {
	t.Helper()

	console := &recordingConsole{}
	apiRepo, err := api.NewAPIRepository(baseURL, 5*time.Second, nil)
	require.NoError(t, err)

	mem := storage.NewMemoryStorage()
	store := session.NewStore(mem)

	return &sessionFixture{
		uc:      NewSessionUseCase(apiRepo, store, console, policy),
		console: console,
		storage: mem,
		store:   store,
	}
}

func (f *sessionFixture) seed(t *testing.T, token, userData string) {
	t.Helper()
	require.NoError(t, f.storage.SetItem(repository.KeyAuthToken, token))
	require.NoError(t, f.storage.SetItem(repository.KeyUserData, userData))
}

func (f *sessionFixture) assertStorageEmpty(t *testing.T) {
	t.Helper()
	_, ok, err := f.storage.GetItem(repository.KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = f.storage.GetItem(repository.KeyUserData)
	require.NoError(t, err)
	assert.False(t, ok)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func closedServerURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathLogin, r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@example.com", req["email"])
		assert.Equal(t, "secret", req["password"])

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":      "Login successful",
			"access_token": "T",
			"client":       map[string]interface{}{"id": 7, "email": "ana@example.com", "company_name": "Acme"},
		})
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	require.NoError(t, f.uc.Login(context.Background(), "ana@example.com", "secret"))

	current := f.uc.Session()
	assert.Equal(t, "T", current.Token)
	require.NotNil(t, current.User)
	assert.Equal(t, "ana@example.com", current.User.Email)

	token, ok, err := f.storage.GetItem(repository.KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", token)

	userData, ok, err := f.storage.GetItem(repository.KeyUserData)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id": 7, "email": "ana@example.com", "company_name": "Acme"}`, userData)

	auth := f.console.lastAuth()
	assert.True(t, auth.UserVisible)
	assert.False(t, auth.GuestVisible)
	assert.Equal(t, "ana@example.com", auth.Email)
	assert.Equal(t, notification{Level: types.NotifySuccess, Message: "Login successful"}, f.console.lastNotification())
}

func TestLogin_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	err := f.uc.Login(context.Background(), "ana@example.com", "wrong")

	var apiErr *types.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, []string{"Invalid credentials"}, f.console.errors)
	assert.False(t, f.uc.Session().Active())
	f.assertStorageEmpty(t)
}

func TestLogin_BackendErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	require.Error(t, f.uc.Login(context.Background(), "ana@example.com", "secret"))

	assert.Equal(t, []string{"Login failed"}, f.console.errors)
}

func TestLogin_ConnectionError(t *testing.T) {
	f := newSessionFixture(t, closedServerURL(), PolicyLenient)
	err := f.uc.Login(context.Background(), "ana@example.com", "secret")

	require.Error(t, err)
	assert.True(t, types.IsConnectionError(err))
	require.Len(t, f.console.errors, 1)
	assert.Contains(t, f.console.errors[0], "Connection error: ")
	assert.False(t, f.uc.Session().Active())
}

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathRegister, r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme", req["company_name"])
		assert.Equal(t, "Ana", req["contact_name"])

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"access_token": "R",
			"client":       map[string]interface{}{"email": req["email"]},
		})
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	err := f.uc.Register(context.Background(), types.Credentials{
		CompanyName: "Acme",
		Email:       "ana@example.com",
		ContactName: "Ana",
		Password:    "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "R", f.uc.Session().Token)
	assert.Equal(t, "ana@example.com", f.console.lastAuth().Email)
	assert.Equal(t, notification{Level: types.NotifySuccess, Message: "Account created successfully"}, f.console.lastNotification())
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	require.Error(t, f.uc.Register(context.Background(), types.Credentials{Email: "ana@example.com"}))

	assert.Equal(t, []string{"Email already registered"}, f.console.errors)
	assert.Empty(t, f.console.notifications)
}

func TestLogout_ClearsMemoryAndStorage(t *testing.T) {
	f := newSessionFixture(t, closedServerURL(), PolicyLenient)
	f.seed(t, "T", `{"email":"ana@example.com"}`)
	_, err := f.store.Rehydrate()
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout())

	assert.False(t, f.uc.Session().Active())
	f.assertStorageEmpty(t)
	assert.True(t, f.console.lastAuth().GuestVisible)
	assert.Equal(t, notification{Level: types.NotifyInfo, Message: "Session closed"}, f.console.lastNotification())
}

func TestCheckAuthStatus_NoStoredToken(t *testing.T) {
	var profileCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&profileCalls, 1)
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	require.NoError(t, f.uc.CheckAuthStatus(context.Background()))

	assert.Zero(t, atomic.LoadInt32(&profileCalls))
	assert.False(t, f.uc.Session().Active())
	assert.True(t, f.console.lastAuth().GuestVisible)
	assert.False(t, f.console.lastAuth().UserVisible)
}

func TestCheckAuthStatus_InvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	f.seed(t, "stale", `{"email":"ana@example.com"}`)

	require.NoError(t, f.uc.CheckAuthStatus(context.Background()))

	assert.False(t, f.uc.Session().Active())
	f.assertStorageEmpty(t)
	assert.True(t, f.console.lastAuth().GuestVisible)
}

func TestCheckAuthStatus_ValidTokenRefreshesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathProfile, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"client": map[string]interface{}{"email": "new@example.com", "phone": "+55 11"},
		})
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	f.seed(t, "T", `{"email":"old@example.com"}`)

	require.NoError(t, f.uc.CheckAuthStatus(context.Background()))

	assert.Equal(t, "T", f.uc.Session().Token)
	assert.Equal(t, "new@example.com", f.console.lastAuth().Email)
	assert.Len(t, f.console.auth, 1)

	userData, _, err := f.storage.GetItem(repository.KeyUserData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"new@example.com","phone":"+55 11"}`, userData)
}

func TestCheckAuthStatus_TransportFailureLenient(t *testing.T) {
	f := newSessionFixture(t, closedServerURL(), PolicyLenient)
	f.seed(t, "T", `{"email":"ana@example.com"}`)

	require.NoError(t, f.uc.CheckAuthStatus(context.Background()))

	current := f.uc.Session()
	assert.Equal(t, "T", current.Token)
	assert.True(t, current.Unverified)

	auth := f.console.lastAuth()
	assert.True(t, auth.UserVisible)
	assert.True(t, auth.Unverified)
	assert.Equal(t, types.NotifyWarning, f.console.lastNotification().Level)

	token, ok, err := f.storage.GetItem(repository.KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", token)
}

func TestCheckAuthStatus_TransportFailureStrict(t *testing.T) {
	f := newSessionFixture(t, closedServerURL(), PolicyStrict)
	f.seed(t, "T", `{"email":"ana@example.com"}`)

	require.NoError(t, f.uc.CheckAuthStatus(context.Background()))

	assert.False(t, f.uc.Session().Active())
	f.assertStorageEmpty(t)
	assert.True(t, f.console.lastAuth().GuestVisible)
}

func TestCheckAuthStatus_CorruptUserData(t *testing.T) {
	f := newSessionFixture(t, closedServerURL(), PolicyLenient)
	f.seed(t, "T", `{not json`)

	require.NoError(t, f.uc.CheckAuthStatus(context.Background()))

	assert.False(t, f.uc.Session().Active())
	f.assertStorageEmpty(t)
	assert.NotEmpty(t, f.console.warnings)
}

func TestAuthenticatedFetch_WithoutToken(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	resp, err := f.uc.AuthenticatedFetch(context.Background(), FetchRequest{Path: "/api/free-tier-status"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Equal(t, notification{Level: types.NotifyWarning, Message: "You must sign in to access this feature"}, f.console.lastNotification())
}

func TestAuthenticatedFetch_HeaderPrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reports", r.URL.Path)
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		assert.Equal(t, "text/csv", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Trace"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	f.seed(t, "T", `{"email":"ana@example.com"}`)
	_, err := f.store.Rehydrate()
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Content-Type", "text/csv")
	header.Set("Authorization", "Bearer forged")
	header.Set("X-Trace", "yes")

	resp, err := f.uc.AuthenticatedFetch(context.Background(), FetchRequest{
		Method: http.MethodPost,
		Path:   "/api/reports",
		Header: header,
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestAuthenticatedFetch_ConnectionError(t *testing.T) {
	f := newSessionFixture(t, closedServerURL(), PolicyLenient)
	f.seed(t, "T", `{"email":"ana@example.com"}`)
	_, err := f.store.Rehydrate()
	require.NoError(t, err)

	resp, err := f.uc.AuthenticatedFetch(context.Background(), FetchRequest{Path: "/api/free-tier-status"})

	assert.Nil(t, resp)
	require.Error(t, err)
	last := f.console.lastNotification()
	assert.Equal(t, types.NotifyDanger, last.Level)
	assert.Contains(t, last.Message, "Connection error: ")
}

func TestMergeHeaders(t *testing.T) {
	merged := MergeHeaders("T", nil)
	assert.Equal(t, "application/json", merged.Get("Content-Type"))
	assert.Equal(t, "Bearer T", merged.Get("Authorization"))

	caller := http.Header{"x-custom": {"a", "b"}}
	merged = MergeHeaders("T", caller)
	assert.Equal(t, []string{"a", "b"}, merged.Values("X-Custom"))
	assert.Equal(t, "application/json", merged.Get("Content-Type"))
}

func TestParseValidationPolicy(t *testing.T) {
	p, err := ParseValidationPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)

	p, err = ParseValidationPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParseValidationPolicy("paranoid")
	assert.ErrorIs(t, err, types.ErrUnknownPolicy)
}

func TestRestoreSession_SkipsProfileRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	f := newSessionFixture(t, srv.URL, PolicyLenient)
	f.seed(t, "T", `{"email":"ana@example.com"}`)

	ok, err := f.uc.RestoreSession()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", f.uc.Session().Token)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Empty(t, f.console.auth)
}

func TestCheckAuthStatus_CorruptSessionFileIsReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	console := &recordingConsole{}
	apiRepo, err := api.NewAPIRepository(closedServerURL(), 5*time.Second, nil)
	require.NoError(t, err)
	file := storage.NewFileStorage(path)
	uc := NewSessionUseCase(apiRepo, session.NewStore(file), console, PolicyLenient)

	require.NoError(t, uc.CheckAuthStatus(context.Background()))

	assert.False(t, uc.Session().Active())
	assert.True(t, console.lastAuth().GuestVisible)
	assert.NotEmpty(t, console.warnings)

	_, ok, err := file.GetItem(repository.KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, uc.Logout())
}
