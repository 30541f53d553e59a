package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"trainhub/internal/common"
	"trainhub/internal/logging"
	"trainhub/internal/models"
)

type staticCreds struct {
	token string
	ok    bool
}

func (c staticCreds) Token() (string, bool) { return c.token, c.ok }

func TestUnauthenticated_FailsWithoutNetworkCall(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{}, logging.NewDefault())

	_, err := c.ListUsers(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = c.CreateSession(context.Background(), models.SessionCreate{Title: "x"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	require.Zero(t, hits.Load(), "no request may reach the network without a credential")
}

func TestLogin_DoesNotRequireCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "root", req.Username)

		json.NewEncoder(w).Encode(models.TokenResponse{
			AccessToken: "tok",
			TokenType:   "bearer",
			User:        models.User{ID: 1, Username: "root", Role: models.RoleAdmin},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{}, logging.NewDefault())

	resp, err := c.Login(context.Background(), "root", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok", resp.AccessToken)
	require.Equal(t, int64(1), resp.User.ID)
}

func TestAuthorizedRequest_CarriesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]models.User{{ID: 1}, {ID: 2}})
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok-123", ok: true}, logging.NewDefault())

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestRemoteRejection_ExtractsDetailReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Username already registered"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", ok: true}, logging.NewDefault())

	_, err := c.CreateUser(context.Background(), models.UserCreate{Username: "dup"})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusBadRequest, remote.StatusCode)
	require.Equal(t, "Username already registered", remote.Reason)
}

func TestRemoteRejection_GenericReasonWhenBodyUnusable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", ok: true}, logging.NewDefault())

	err := c.DeleteUser(context.Background(), 9)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusInternalServerError, remote.StatusCode)
	require.Equal(t, genericReason, remote.Reason)
}

func TestTransportFailure_ConvertedToTypedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening any more

	c := New(srv.URL, staticCreds{token: "tok", ok: true}, logging.NewDefault())

	_, err := c.ListSessions(context.Background())
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Zero(t, remote.StatusCode)
	require.Equal(t, genericReason, remote.Reason)
}

func TestMalformedSuccessBody_ConvertedToTypedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", ok: true}, logging.NewDefault())

	_, err := c.GetSession(context.Background(), 1)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Zero(t, remote.StatusCode)
}

func TestDelete_NoContentIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/sessions/7", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "Session deleted successfully"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", ok: true}, logging.NewDefault())
	require.NoError(t, c.DeleteSession(context.Background(), 7))
}

func TestAnalytics_DecodeCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analytics/users":
			json.NewEncoder(w).Encode(map[string]int64{"admin": 1, "trainee": 4})
		case "/analytics/sessions":
			json.NewEncoder(w).Encode(map[string]int64{"scheduled": 3})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", ok: true}, logging.NewDefault())

	users, err := c.UserAnalytics(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), users["trainee"])

	sessions, err := c.SessionAnalytics(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), sessions["scheduled"])
}
