package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tjrates-service/internal/application"
	"tjrates-service/internal/cities"
	"tjrates-service/internal/domain"
	"tjrates-service/internal/infrastructure/auth"
	"tjrates-service/internal/scrape"
)

type env struct {
	handler http.Handler
	tokens  *auth.Tokens
	users   *fakeUserRepo
	rates   *fakeMarketRepo
	acts    *fakeActivityRepo
}

func setup(t *testing.T) *env {
	t.Helper()

	users := &fakeUserRepo{}
	rates := &fakeMarketRepo{}
	acts := &fakeActivityRepo{}
	cityList := cities.Defaults()
	tokens := auth.NewTokens("test-secret", time.Hour)

	_, err := users.Create(context.Background(), domain.User{
		Username: "admin", PasswordHash: "hash:adminpass", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	_, err = users.Create(context.Background(), domain.User{
		Username: "worker", PasswordHash: "hash:workerpass", Role: domain.RoleCityWorker,
		CityName: "Худжанд", WorkerActive: true,
	})
	require.NoError(t, err)

	market := application.NewMarketService(rates, acts, application.NoopUoW{}, cityList)
	userSvc := application.NewUserService(users, acts, plainHasher{}, tokens, cityList)
	agg := application.NewAggregator([]scrape.Source{
		&fakeSource{bank: "NBT", rates: []scrape.RawRate{{Label: "USD", Buy: "10.6", Sell: "10.6"}}},
	}, &fakeSink{}, zap.NewNop())

	srv := NewServer(market, userSvc, users, &fakeRateRepo{
		latest: []domain.RateObservation{{BankName: "NBT", Code: "USD", Buy: dec("10.6"), Sell: dec("10.6"), CreatedAt: time.Now()}},
	}, agg, cityList, tokens)
	return &env{handler: NewRouter(srv), tokens: tokens, users: users, rates: rates, acts: acts}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *env) tokenFor(t *testing.T, id int64) string {
	t.Helper()
	raw, err := e.tokens.Issue(e.users.users[id])
	require.NoError(t, err)
	return raw
}

func TestHealthz(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestLogin(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "adminpass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "admin", resp.User.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCitiesIsPublic(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/api/cities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Душанбе")
}

func TestBankRatesIsPublic(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/api/rates/banks", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "NBT")
}

func TestSubmitMarketRateRequiresToken(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/api/market-rates", "", map[string]string{
		"code": "USD", "buy": "10.5", "sell": "10.7",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitMarketRateWorkerCityForced(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/api/market-rates", e.tokenFor(t, 2), map[string]string{
		"code": "USD", "city_name": "Душанбе", "buy": "10.5", "sell": "10.7",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp marketRateView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Худжанд", resp.CityName)
	require.Len(t, e.acts.rows, 1)
}

func TestSubmitInvertedSpreadRejected(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodPost, "/api/market-rates", e.tokenFor(t, 2), map[string]string{
		"code": "USD", "buy": "10.7", "sell": "10.5",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeactivateMarketRate(t *testing.T) {
	e := setup(t)
	token := e.tokenFor(t, 2)
	rec := e.do(t, http.MethodPost, "/api/market-rates", token, map[string]string{
		"code": "USD", "buy": "10.5", "sell": "10.7",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/market-rates/1", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/rates/market", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Худжанд")
}

func TestWorkerEndpointsAdminOnly(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/api/workers", e.tokenFor(t, 2), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/workers", e.tokenFor(t, 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAndToggleWorker(t *testing.T) {
	e := setup(t)
	admin := e.tokenFor(t, 1)

	rec := e.do(t, http.MethodPost, "/api/workers", admin, map[string]string{
		"username": "worker-2", "password": "longenoughpw", "city_name": "Истаравшан",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created userView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.Active)

	rec = e.do(t, http.MethodPost, "/api/workers/3/toggle", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "false")
}

func TestRevokedWorkerLosesAccess(t *testing.T) {
	e := setup(t)
	token := e.tokenFor(t, 2)
	require.NoError(t, e.users.SetWorkerActive(context.Background(), 2, false))

	rec := e.do(t, http.MethodPost, "/api/market-rates", token, map[string]string{
		"code": "USD", "buy": "10.5", "sell": "10.7",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTriggerScrape(t *testing.T) {
	e := setup(t)

	rec := e.do(t, http.MethodPost, "/api/scrape/run", e.tokenFor(t, 2), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/scrape/run", e.tokenFor(t, 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Succeeded int                `json:"succeeded"`
		Results   []scrapeResultView `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Succeeded)
	require.Len(t, resp.Results, 1)
	require.Equal(t, 1, resp.Results[0].Saved)
}

func TestMetricsEndpoint(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
