package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velovis/velovis/auth"
	"github.com/velovis/velovis/auth/session"
	"github.com/velovis/velovis/auth/store"
)

// backend accepts a single valid access token and rotates pairs on refresh
type backend struct {
	mux            sync.Mutex
	validAccess    string
	validRefresh   string
	nextAccess     string
	nextRefresh    string
	rejectRefresh  bool
	alwaysReject   bool
	resourceCalls  int32
	refreshCalls   int32
	refreshTokens  []string
	authorizations []string
	bodies         []string
	requestIDs     []string
	hold           chan struct{}
	holdCount      int32
	holdUntil      int32
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/refresh":
		atomic.AddInt32(&b.refreshCalls, 1)
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mux.Lock()
		defer b.mux.Unlock()
		b.refreshTokens = append(b.refreshTokens, req.RefreshToken)
		if b.rejectRefresh || req.RefreshToken != b.validRefresh {
			http.Error(w, `{"message":"invalid refresh token"}`, http.StatusUnauthorized)
			return
		}
		b.validAccess, b.validRefresh = b.nextAccess, b.nextRefresh
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": b.nextAccess, "refreshToken": b.nextRefresh})
	case "/resource":
		atomic.AddInt32(&b.resourceCalls, 1)
		body, _ := io.ReadAll(r.Body)
		authorization := r.Header.Get("Authorization")
		b.mux.Lock()
		b.authorizations = append(b.authorizations, authorization)
		b.bodies = append(b.bodies, string(body))
		b.requestIDs = append(b.requestIDs, r.Header.Get(HeaderRequestID))
		valid := !b.alwaysReject && authorization == "Bearer "+b.validAccess
		hold := b.hold
		b.mux.Unlock()
		if !valid && hold != nil {
			if atomic.AddInt32(&b.holdCount, 1) == b.holdUntil {
				close(hold)
			}
			<-hold
		}
		if !valid {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	case "/missing":
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	case "/broken":
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	default:
		http.NotFound(w, r)
	}
}

type fixture struct {
	backend  *backend
	server   *httptest.Server
	session  *session.Session
	store    store.Store
	client   *http.Client
	signOuts []string
	causes   []error
}

func newFixture(t *testing.T, credentials *auth.Credentials, options ...Option) *fixture {
	ctx := context.Background()
	ret := &fixture{
		backend: &backend{validAccess: "A2", validRefresh: "R1", nextAccess: "A2", nextRefresh: "R2"},
		store:   store.NewMemoryStore(),
	}
	ret.server = httptest.NewServer(ret.backend)
	t.Cleanup(ret.server.Close)
	var err error
	ret.session, err = session.New(ctx, session.WithStore(ret.store))
	require.NoError(t, err)
	if credentials != nil {
		require.NoError(t, ret.session.Login(ctx, *credentials, auth.Profile{ID: "u1", Username: "jane"}))
	}
	options = append([]Option{
		WithRefreshURL(ret.server.URL + "/auth/refresh"),
		WithSignOut(func(ctx context.Context, signInPath string, cause error) {
			ret.signOuts = append(ret.signOuts, signInPath)
			ret.causes = append(ret.causes, cause)
		}),
	}, options...)
	rt, err := New(ret.session, options...)
	require.NoError(t, err)
	ret.client = &http.Client{Transport: rt}
	return ret
}

func readBody(t *testing.T, resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestRoundTripper_AttachesBearer(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A2", RefreshToken: "R1"})
	resp, err := f.client.Get(f.server.URL + "/resource")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"success"}`, readBody(t, resp))
	assert.Equal(t, []string{"Bearer A2"}, f.backend.authorizations)
	assert.NotEmpty(t, f.backend.requestIDs[0])
	assert.EqualValues(t, 0, f.backend.refreshCalls)
}

func TestRoundTripper_RefreshAndRetry(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/resource", strings.NewReader(`{"productId":"p1","quantity":2}`))
	require.NoError(t, err)
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"success"}`, readBody(t, resp))

	assert.EqualValues(t, 1, f.backend.refreshCalls)
	assert.Equal(t, []string{"R1"}, f.backend.refreshTokens)
	assert.EqualValues(t, 2, f.backend.resourceCalls)
	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, f.backend.authorizations)
	assert.Equal(t, []string{`{"productId":"p1","quantity":2}`, `{"productId":"p1","quantity":2}`}, f.backend.bodies)
	assert.Equal(t, f.backend.requestIDs[0], f.backend.requestIDs[1])

	snapshot := f.session.Snapshot()
	assert.Equal(t, &auth.Credentials{AccessToken: "A2", RefreshToken: "R2"}, snapshot.Credentials)
	assert.True(t, snapshot.Authenticated)
	persisted, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A2", persisted.AccessToken())
	assert.Empty(t, f.signOuts)
}

func TestRoundTripper_RetriedRequestIsFinal(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	req, err := http.NewRequestWithContext(WithRetry(context.Background()), http.MethodGet, f.server.URL+"/resource", nil)
	require.NoError(t, err)
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = readBody(t, resp)
	assert.EqualValues(t, 0, f.backend.refreshCalls)
	assert.Equal(t, "A1", f.session.Snapshot().AccessToken())
}

func TestRoundTripper_RetryUnauthorizedIsFinal(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	f.backend.alwaysReject = true
	resp, err := f.client.Get(f.server.URL + "/resource")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = readBody(t, resp)
	assert.EqualValues(t, 1, f.backend.refreshCalls)
	assert.EqualValues(t, 2, f.backend.resourceCalls)
	assert.Equal(t, "A2", f.session.Snapshot().AccessToken())
}

func TestRoundTripper_RefreshFailureLogsOut(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	f.backend.rejectRefresh = true
	resp, err := f.client.Get(f.server.URL + "/resource")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "unauthorized")

	snapshot := f.session.Snapshot()
	assert.False(t, snapshot.Authenticated)
	assert.Nil(t, snapshot.Credentials)
	assert.Nil(t, snapshot.Profile)
	persisted, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)

	assert.Equal(t, []string{DefaultSignInPath}, f.signOuts)
	require.Len(t, f.causes, 1)
	assert.ErrorIs(t, f.causes[0], ErrRefreshRejected)
	var refreshErr *RefreshError
	assert.True(t, errors.As(f.causes[0], &refreshErr))
	assert.Equal(t, http.StatusUnauthorized, refreshErr.StatusCode)
	assert.EqualValues(t, 1, f.backend.resourceCalls)
}

func TestRoundTripper_Anonymous(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := f.client.Get(f.server.URL + "/resource")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = readBody(t, resp)
	assert.Equal(t, []string{""}, f.backend.authorizations)
	assert.EqualValues(t, 0, f.backend.refreshCalls)
	assert.Empty(t, f.signOuts)
}

func TestRoundTripper_PassesThroughOtherErrors(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	var testCases = []struct {
		path   string
		status int
	}{
		{path: "/missing", status: http.StatusNotFound},
		{path: "/broken", status: http.StatusInternalServerError},
	}
	for _, testCase := range testCases {
		resp, err := f.client.Get(f.server.URL + testCase.path)
		require.NoError(t, err, testCase.path)
		assert.Equal(t, testCase.status, resp.StatusCode, testCase.path)
		_ = readBody(t, resp)
	}
	assert.EqualValues(t, 0, f.backend.refreshCalls)
	assert.Equal(t, "A1", f.session.Snapshot().AccessToken())
}

func TestRoundTripper_TransportError(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	f.server.Close()
	_, err := f.client.Get(f.server.URL + "/resource")
	assert.Error(t, err)
	assert.Equal(t, "A1", f.session.Snapshot().AccessToken())
}

func runConcurrent(t *testing.T, f *fixture, count int) []int {
	f.backend.hold = make(chan struct{})
	f.backend.holdUntil = int32(count)
	statuses := make([]int, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.client.Get(f.server.URL + "/resource")
			if !assert.NoError(t, err) {
				return
			}
			statuses[i] = resp.StatusCode
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}(i)
	}
	wg.Wait()
	return statuses
}

func TestRoundTripper_CoalescesConcurrentRefresh(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	statuses := runConcurrent(t, f, 6)
	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
	assert.EqualValues(t, 1, f.backend.refreshCalls)
	assert.Equal(t, "A2", f.session.Snapshot().AccessToken())
	assert.True(t, f.session.Snapshot().Authenticated)
}

func TestRoundTripper_IndependentRefreshWithoutCoalescing(t *testing.T) {
	var calls int32
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"},
		WithCoalescing(false),
		WithRefresher(RefresherFunc(func(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
			atomic.AddInt32(&calls, 1)
			return &auth.Credentials{AccessToken: "A2", RefreshToken: "R2"}, nil
		})))
	statuses := runConcurrent(t, f, 4)
	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
	assert.Equal(t, "A2", f.session.Snapshot().AccessToken())
}

func TestNew(t *testing.T) {
	sess, err := session.New(context.Background())
	require.NoError(t, err)
	_, err = New(sess)
	assert.Error(t, err)
	_, err = New(nil, WithRefreshURL("http://localhost/auth/refresh"))
	assert.Error(t, err)
	rt, err := New(sess, WithRefreshURL("http://localhost/auth/refresh"))
	require.NoError(t, err)
	assert.IsType(t, &HTTPRefresher{}, rt.refresher)
}

func TestRoundTripper_InvalidRefreshResultLogsOut(t *testing.T) {
	var testCases = []struct {
		description string
		credentials *auth.Credentials
	}{
		{description: "incomplete pair", credentials: &auth.Credentials{AccessToken: "A2"}},
		{description: "no pair", credentials: nil},
	}
	for _, testCase := range testCases {
		credentials := testCase.credentials
		f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"},
			WithRefresher(RefresherFunc(func(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
				return credentials, nil
			})))
		resp, err := f.client.Get(f.server.URL + "/resource")
		require.NoError(t, err, testCase.description)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testCase.description)
		_ = readBody(t, resp)

		snapshot := f.session.Snapshot()
		assert.False(t, snapshot.Authenticated, testCase.description)
		assert.Nil(t, snapshot.Credentials, testCase.description)
		assert.Equal(t, []string{DefaultSignInPath}, f.signOuts, testCase.description)
		require.Len(t, f.causes, 1, testCase.description)
		assert.ErrorIs(t, f.causes[0], ErrRefreshRejected, testCase.description)
		assert.EqualValues(t, 1, f.backend.resourceCalls, testCase.description)
	}
}

type onceReader struct {
	io.Reader
}

func (o *onceReader) Close() error { return nil }

func TestRoundTripper_LeavesRequestUntouched(t *testing.T) {
	f := newFixture(t, &auth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	rt := f.client.Transport.(*RoundTripper)
	body := &onceReader{Reader: strings.NewReader(`{"quantity":3}`)}
	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/resource", body)
	require.NoError(t, err)
	require.Nil(t, req.GetBody)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = readBody(t, resp)

	assert.Same(t, body, req.Body)
	assert.Nil(t, req.GetBody)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, []string{`{"quantity":3}`, `{"quantity":3}`}, f.backend.bodies)
	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, f.backend.authorizations)
}

func TestRoundTripper_AnonymousRequestIgnoresLaterLogin(t *testing.T) {
	f := newFixture(t, nil)
	rt := f.client.Transport.(*RoundTripper)
	var loggedIn bool
	rt.transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := http.DefaultTransport.RoundTrip(req)
		if !loggedIn {
			loggedIn = true
			require.NoError(t, f.session.Login(req.Context(), auth.Credentials{AccessToken: "A2", RefreshToken: "R1"}, auth.Profile{ID: "u1", Username: "jane"}))
		}
		return resp, err
	})
	resp, err := f.client.Get(f.server.URL + "/resource")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = readBody(t, resp)
	assert.Equal(t, []string{""}, f.backend.authorizations)
	assert.EqualValues(t, 0, f.backend.refreshCalls)
	assert.True(t, f.session.Snapshot().Authenticated)
	assert.Empty(t, f.signOuts)
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
