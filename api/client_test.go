package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/withkit/withings/auth"
	"github.com/withkit/withings/auth/state"
)

type recordedRequest struct {
	authorization string
	form          url.Values
}

// fakeAPI implements just enough of the Withings data endpoints for the
// dispatcher tests.
type fakeAPI struct {
	srv *httptest.Server

	requests []recordedRequest

	status       int64
	errorMessage string
	body         string
}

func newFakeAPI() *fakeAPI {
	router := httprouter.New()
	f := &fakeAPI{body: `{"activities": []}`}
	f.srv = httptest.NewServer(router)

	handle := func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := r.ParseForm(); err != nil {
			panic(err)
		}
		f.requests = append(f.requests, recordedRequest{
			authorization: r.Header.Get("Authorization"),
			form:          r.PostForm,
		})

		rw.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			fmt.Fprintf(rw, `{"status": %d, "error": %q}`, f.status, f.errorMessage)
			return
		}
		fmt.Fprintf(rw, `{"status": 0, "body": %s}`, f.body)
	}

	router.POST("/measure", handle)
	router.POST("/v2/measure", handle)
	router.POST("/v2/heart", handle)
	router.POST("/v2/sleep", handle)

	return f
}

func (f *fakeAPI) URL() string {
	return f.srv.URL + "/"
}

type fakeRefresher struct {
	refresh func(string) (*state.Credentials, error)
}

func (r *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*state.Credentials, error) {
	return r.refresh(refreshToken)
}

func staticClient(t *testing.T, fake *fakeAPI, creds *state.Credentials, dataDir string) *Client {
	t.Helper()
	apiClient, err := NewClient(ClientConfig{
		Credentials: auth.NewStaticCredentialsProvider(creds),
		APIURL:      fake.URL(),
		DataDir:     dataDir,
	})
	require.NoError(t, err)
	return apiClient
}

func TestClientDispatch(t *testing.T) {
	ctx := context.Background()

	creds := &state.Credentials{
		UserID:       "42",
		AccessToken:  "my-access-token",
		RefreshToken: "my-refresh-token",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(1 * time.Hour),
	}

	t.Run("AuthorizationHeader", func(t *testing.T) {
		fake := newFakeAPI()
		t.Cleanup(fake.srv.Close)

		apiClient := staticClient(t, fake, creds, "")

		body, err := apiClient.GetActivity(ctx, ActivityParams{LastUpdate: 1700000000})
		require.NoError(t, err)
		require.JSONEq(t, `{"activities": []}`, string(body))

		require.Len(t, fake.requests, 1)
		request := fake.requests[0]
		require.Equal(t, "Bearer my-access-token", request.authorization)
		require.Equal(t, "getactivity", request.form.Get("action"))
		require.Equal(t, "1700000000", request.form.Get("lastupdate"))
	})

	t.Run("NonZeroStatus", func(t *testing.T) {
		fake := newFakeAPI()
		t.Cleanup(fake.srv.Close)
		fake.status = 401
		fake.errorMessage = "invalid token"

		apiClient := staticClient(t, fake, creds, "")

		body, err := apiClient.ListHeart(ctx, HeartListParams{})
		require.Error(t, err)
		require.Nil(t, body)
		require.True(t, IsStatusError(err))

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, int64(401), statusErr.Status)
		require.Equal(t, "invalid token", statusErr.Message)
	})

	t.Run("SaveResponse", func(t *testing.T) {
		fake := newFakeAPI()
		t.Cleanup(fake.srv.Close)
		fake.body = `{"series": [{"signalid": 1}]}`

		dataDir := t.TempDir()
		apiClient := staticClient(t, fake, creds, dataDir)

		_, err := apiClient.GetSleepSummary(ctx, SleepSummaryParams{LastUpdate: 1700000000}, SaveResponse())
		require.NoError(t, err)

		payload, err := os.ReadFile(filepath.Join(dataDir, "user_42", "sleep_getsummary.json"))
		require.NoError(t, err)
		require.JSONEq(t, fake.body, string(payload))
	})

	t.Run("SaveResponseRequiresDataDir", func(t *testing.T) {
		fake := newFakeAPI()
		t.Cleanup(fake.srv.Close)

		apiClient := staticClient(t, fake, creds, "")

		_, err := apiClient.GetMeas(ctx, MeasParams{}, SaveResponse())
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})
}

func TestClientRefreshesExpiredToken(t *testing.T) {
	ctx := context.Background()

	fake := newFakeAPI()
	t.Cleanup(fake.srv.Close)

	clock := clockwork.NewFakeClock()
	dataDir := t.TempDir()

	userState := state.NewUserFileState(dataDir, "42")
	require.NoError(t, userState.PutCredentials(ctx, &state.Credentials{
		UserID:       "42",
		AccessToken:  "expired-token",
		RefreshToken: "my-refresh-token",
		TokenType:    "Bearer",
		ExpiresAt:    clock.Now().Add(-1 * time.Minute),
	}))

	var refreshCalled int
	refresher := &fakeRefresher{
		refresh: func(refreshToken string) (*state.Credentials, error) {
			refreshCalled++
			require.Equal(t, "my-refresh-token", refreshToken)
			return &state.Credentials{
				AccessToken:  "fresh-token",
				RefreshToken: "fresh-refresh-token",
				ExpiresAt:    clock.Now().Add(3 * time.Hour),
			}, nil
		},
	}

	provider, err := auth.NewRefreshingCredentialsProvider(ctx, auth.RefreshingCredentialsProviderConfig{
		State:     userState,
		Refresher: refresher,
		Clock:     clock,
	})
	require.NoError(t, err)

	apiClient, err := NewClient(ClientConfig{
		Credentials: provider,
		APIURL:      fake.URL(),
		DataDir:     dataDir,
	})
	require.NoError(t, err)

	// exactly one refresh happens before the original request goes out
	_, err = apiClient.GetActivity(ctx, ActivityParams{LastUpdate: 1700000000})
	require.NoError(t, err)
	require.Equal(t, 1, refreshCalled)
	require.Len(t, fake.requests, 1)
	require.Equal(t, "Bearer fresh-token", fake.requests[0].authorization)

	// the rotated credentials were persisted
	stored, err := userState.GetCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, "fresh-token", stored.AccessToken)
	require.Equal(t, "fresh-refresh-token", stored.RefreshToken)

	// subsequent requests reuse the fresh token without further refreshes
	_, err = apiClient.GetActivity(ctx, ActivityParams{LastUpdate: 1700000000})
	require.NoError(t, err)
	require.Equal(t, 1, refreshCalled)
}

func TestClientRefreshFailurePropagates(t *testing.T) {
	ctx := context.Background()

	fake := newFakeAPI()
	t.Cleanup(fake.srv.Close)

	clock := clockwork.NewFakeClock()
	dataDir := t.TempDir()

	userState := state.NewUserFileState(dataDir, "42")
	require.NoError(t, userState.PutCredentials(ctx, &state.Credentials{
		UserID:       "42",
		AccessToken:  "expired-token",
		RefreshToken: "my-refresh-token",
		ExpiresAt:    clock.Now().Add(-1 * time.Minute),
	}))

	refresher := &fakeRefresher{
		refresh: func(string) (*state.Credentials, error) {
			return nil, trace.Errorf("token endpoint returned 503 Service Unavailable")
		},
	}

	provider, err := auth.NewRefreshingCredentialsProvider(ctx, auth.RefreshingCredentialsProviderConfig{
		State:     userState,
		Refresher: refresher,
		Clock:     clock,
	})
	require.NoError(t, err)

	apiClient, err := NewClient(ClientConfig{
		Credentials: provider,
		APIURL:      fake.URL(),
	})
	require.NoError(t, err)

	_, err = apiClient.GetActivity(ctx, ActivityParams{LastUpdate: 1700000000})
	require.Error(t, err)

	// the request never went out
	require.Empty(t, fake.requests)
}
