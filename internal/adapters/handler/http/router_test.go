package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
	"github.com/vncsmyrnk/collective-pool/internal/core/services"
)

var testNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedAmount struct{ amount decimal.Decimal }

func (a fixedAmount) Draw() decimal.Decimal { return a.amount }

type seqIDs struct{ n int }

func (g *seqIDs) NewID(prefix string) string {
	g.n++
	return fmt.Sprintf("%s_%d", prefix, g.n)
}

func (g *seqIDs) Suffix() string {
	g.n++
	return fmt.Sprintf("%04x", g.n)
}

type MockTokenVerifier struct {
	payload *ports.TokenPayload
	err     error
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("dial: %w", domain.ErrStorageUnavailable)
}

func (failingStore) Put(context.Context, string, []byte) error {
	return fmt.Errorf("dial: %w", domain.ErrStorageUnavailable)
}

type testServer struct {
	handler http.Handler
	auth    *services.AuthService
}

func newTestServer(t *testing.T, store ports.LedgerStore) *testServer {
	t.Helper()

	clock := fixedClock{now: testNow}
	ids := &seqIDs{}
	ledger := services.NewLedger(store, "")
	engine := services.NewDistributionService(ledger, fixedAmount{amount: decimal.RequireFromString("100.0")}, clock, ids)
	pools := services.NewPoolService(ledger, engine, clock, ids)
	forecasts := services.NewForecastService(ledger)

	verifier := &MockTokenVerifier{payload: &ports.TokenPayload{Subject: "42", Name: "Sarah Jones", Email: "sarah@example.com"}}
	auth := services.NewAuthService(verifier, "test-secret", "client-id", clock, time.Hour)

	handler := NewHandler(RouterConfig{
		Pools:         NewPoolHandler(pools, engine, forecasts),
		Distributions: NewDistributionHandler(engine),
		Auth:          NewAuthHandler(auth, "/app", "", http.SameSiteLaxMode, time.Hour),
		Users:         NewUserHandler(pools),
		Tokens:        auth,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),
		AllowedOrigins: []string{"http://client.test"},
	})

	return &testServer{handler: handler, auth: auth}
}

func (s *testServer) token(t *testing.T, userID, name string) string {
	t.Helper()
	token, err := s.auth.IssueAccessToken(domain.Identity{UserID: userID, DisplayName: name})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())

	rr := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "# metrics", rr.Body.String())
}

func TestRouter_PoolLookups(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())

	rr := s.do(t, http.MethodGet, "/api/pools/bristol-gardens/preview", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	preview := decode[ports.PoolPreview](t, rr)
	assert.Equal(t, "Bristol Gardens", preview.Pool.Name)
	assert.Equal(t, 4, preview.MemberCount)
	require.NotNil(t, preview.Founder)
	assert.Equal(t, "seed_sarah", preview.Founder.UserID)

	rr = s.do(t, http.MethodGet, "/api/pools/bristol-gardens", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[ports.PoolDetail](t, rr)
	assert.Len(t, detail.Members, 4)
	assert.Len(t, detail.Distributions, 3)

	for _, path := range []string{"/api/pools/nope/preview", "/api/pools/nope", "/api/pools/nope/forecast", "/api/pools/nope/split?amount=10"} {
		rr = s.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.JSONEq(t, `{"error":"pool not found"}`, rr.Body.String(), path)
	}
}

func TestRouter_PreviewSplit(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())

	rr := s.do(t, http.MethodGet, "/api/pools/bristol-gardens/split?amount=100", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	split := decode[domain.SplitResult](t, rr)
	assert.True(t, decimal.RequireFromString("5.0").Equal(split.FounderBonus))
	assert.True(t, decimal.RequireFromString("23.8").Equal(split.PerMember))
	assert.Len(t, split.Payouts, 4)

	rr = s.do(t, http.MethodGet, "/api/pools/bristol-gardens/split?amount=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/pools/bristol-gardens/split?amount=-3", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_CreateJoinDistribute(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())
	sarah := s.token(t, "u1", "Sarah")
	ben := s.token(t, "u2", "Ben")

	rr := s.do(t, http.MethodPost, "/api/pools", `{"name":"Bristol Gardens"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/pools", `{"name":`, sarah)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/pools", `{"name":"Bristol Gardens"}`, sarah)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	pool := decode[domain.Pool](t, rr)
	assert.True(t, strings.HasPrefix(pool.ID, "bristol-gardens-"), pool.ID)
	assert.Equal(t, "u1", pool.FounderUserID)

	rr = s.do(t, http.MethodPost, "/api/pools/"+pool.ID+"/members", "", ben)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"added":true}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/pools/"+pool.ID+"/members", "", ben)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"added":false}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/pools/missing/members", "", ben)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/pools/"+pool.ID+"/distributions", `{"asOf":"2026-03-09T09:30:00Z"}`, ben)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	dist := decode[domain.Distribution](t, rr)
	assert.Equal(t, 5, dist.MemberCount)
	assert.Equal(t, testNow.Add(7*24*time.Hour), dist.CreatedAt)

	rr = s.do(t, http.MethodPost, "/api/pools/"+pool.ID+"/distributions", "", ben)
	require.Equal(t, http.StatusCreated, rr.Code)
	dist = decode[domain.Distribution](t, rr)
	assert.Equal(t, testNow, dist.CreatedAt)

	rr = s.do(t, http.MethodGet, "/api/pools/"+pool.ID, "", "")
	detail := decode[ports.PoolDetail](t, rr)
	assert.Len(t, detail.Members, 5)
	assert.Len(t, detail.Distributions, 5)

	rr = s.do(t, http.MethodGet, "/api/me", "", ben)
	require.Equal(t, http.StatusOK, rr.Code)
	var me struct {
		UserID      string             `json:"userId"`
		DisplayName string             `json:"displayName"`
		Memberships []ports.Membership `json:"memberships"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "u2", me.UserID)
	assert.Equal(t, "Ben", me.DisplayName)
	require.Len(t, me.Memberships, 1)
	assert.Equal(t, pool.ID, me.Memberships[0].Pool.ID)
}

func TestRouter_Forecast(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())

	rr := s.do(t, http.MethodGet, "/api/pools/bristol-gardens/forecast", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[domain.Forecast](t, rr).IsFounder)

	rr = s.do(t, http.MethodGet, "/api/pools/bristol-gardens/forecast", "", s.token(t, "seed_sarah", "Sarah"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[domain.Forecast](t, rr).IsFounder)
}

func TestRouter_RejectsBadTokens(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())

	rr := s.do(t, http.MethodGet, "/api/me", "", "forged")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenName, Value: s.token(t, "u9", "Nina")})
	rr = httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_StorageUnavailable(t *testing.T) {
	s := newTestServer(t, failingStore{})

	rr := s.do(t, http.MethodGet, "/api/pools/bristol-gardens", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"ledger storage unavailable"}`, rr.Body.String())
}

func TestRouter_OAuthCallback(t *testing.T) {
	s := newTestServer(t, memory.NewLedgerStore())

	form := url.Values{"credential": {"google-jwt"}}
	req := httptest.NewRequest(http.MethodPost, "/oauth/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/app", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AccessTokenName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	identity, err := s.auth.ParseAccessToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "google_42", identity.UserID)
	assert.Equal(t, "Sarah Jones", identity.DisplayName)

	t.Run("missing credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/oauth/callback", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		s.handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/oauth/logout", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestRouter_OAuthCallbackRejected(t *testing.T) {
	clock := fixedClock{now: testNow}
	auth := services.NewAuthService(&MockTokenVerifier{err: errors.New("bad audience")}, "test-secret", "client-id", clock, time.Hour)
	h := NewAuthHandler(auth, "/app", "", http.SameSiteLaxMode, time.Hour)

	form := url.Values{"credential": {"google-jwt"}}
	req := httptest.NewRequest(http.MethodPost, "/oauth/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.GoogleCallback(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("join: %w", domain.ErrPoolNotFound), http.StatusNotFound},
		{domain.ErrEmptyPool, http.StatusConflict},
		{domain.ErrInvalidIdentity, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("save: %w", domain.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeServiceError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}
