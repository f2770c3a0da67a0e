package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyapp-web/tinyapp/internal/logger"
	"github.com/tinyapp-web/tinyapp/internal/memorystorage"
)

const testCookieName = "tinyapp_session_test"

var testSigningSecretKey = []byte("test signing secret key")

func newTestManager(t *testing.T) (*Manager, *memorystorage.MemoryStorage) {
	t.Helper()

	require.NoError(t, logger.Init("debug"))

	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	return New(theStorage, testCookieName, testSigningSecretKey), theStorage
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	result := recorder.Result()
	defer result.Body.Close()

	for _, cookie := range result.Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	t.Fatalf("no %q cookie in the response", testCookieName)

	return nil
}

func TestStartAndCurrentUserIDRoundtrip(t *testing.T) {
	manager, _ := newTestManager(t)

	recorder := httptest.NewRecorder()
	require.NoError(t, manager.Start(recorder, "user-1"))

	cookie := sessionCookie(t, recorder)
	assert.True(t, cookie.HttpOnly)

	request := httptest.NewRequest(http.MethodGet, "/urls", nil)
	request.AddCookie(cookie)

	assert.Equal(t, "user-1", manager.CurrentUserID(request))
}

func TestCurrentUserIDWithoutCookie(t *testing.T) {
	manager, _ := newTestManager(t)

	request := httptest.NewRequest(http.MethodGet, "/urls", nil)

	assert.Equal(t, "", manager.CurrentUserID(request))
}

func TestTamperedTokenYieldsAnonymous(t *testing.T) {
	manager, _ := newTestManager(t)

	recorder := httptest.NewRecorder()
	require.NoError(t, manager.Start(recorder, "user-1"))

	cookie := sessionCookie(t, recorder)
	cookie.Value += "tampered"

	request := httptest.NewRequest(http.MethodGet, "/urls", nil)
	request.AddCookie(cookie)

	assert.Equal(t, "", manager.CurrentUserID(request))
}

func TestTokenSignedWithDifferentKeyYieldsAnonymous(t *testing.T) {
	manager, theStorage := newTestManager(t)
	foreignManager := New(theStorage, testCookieName, []byte("a different key"))

	recorder := httptest.NewRecorder()
	require.NoError(t, foreignManager.Start(recorder, "user-1"))

	request := httptest.NewRequest(http.MethodGet, "/urls", nil)
	request.AddCookie(sessionCookie(t, recorder))

	assert.Equal(t, "", manager.CurrentUserID(request))
}

func TestEndClearsCookie(t *testing.T) {
	manager, _ := newTestManager(t)

	recorder := httptest.NewRecorder()
	manager.End(recorder)

	cookie := sessionCookie(t, recorder)
	assert.Equal(t, "", cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestResolveUserStoresUserInContext(t *testing.T) {
	manager, theStorage := newTestManager(t)

	userID, err := theStorage.CreateUser(context.Background(), "a@x.com", "some hash")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	require.NoError(t, manager.Start(recorder, userID))

	request := httptest.NewRequest(http.MethodGet, "/urls", nil)
	request.AddCookie(sessionCookie(t, recorder))

	handler := manager.ResolveUser(http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		usr := UserFromContext(request.Context())
		require.NotNil(t, usr)
		assert.Equal(t, userID, usr.ID)
		assert.Equal(t, "a@x.com", usr.Email)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), request)
}

func TestResolveUserTreatsUnknownUserIDAsAnonymous(t *testing.T) {
	manager, _ := newTestManager(t)

	// A validly signed token whose user id matches no record.
	recorder := httptest.NewRecorder()
	require.NoError(t, manager.Start(recorder, "deleted-user"))

	request := httptest.NewRequest(http.MethodGet, "/urls", nil)
	request.AddCookie(sessionCookie(t, recorder))

	handler := manager.ResolveUser(http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		assert.Nil(t, UserFromContext(request.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), request)
}
