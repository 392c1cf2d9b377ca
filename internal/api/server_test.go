package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/seed"
	"pokelaunch/internal/service"
	"pokelaunch/internal/storage"
	"pokelaunch/internal/storage/memory"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (http.Handler, *memory.TokenStore) {
	t.Helper()
	tokens := memory.NewTokenStore()
	templates := memory.NewTemplateStore()
	records, err := seed.Tokens(42, 10, fixedNow)
	require.NoError(t, err)
	_, err = seed.Load(context.Background(), tokens, templates, records)
	require.NoError(t, err)

	catalog := service.New(service.Options{
		Tokens:    tokens,
		Templates: templates,
		Snapshots: memory.NewMarketSnapshotStore(),
		Now:       func() time.Time { return fixedNow },
		Logger:    zaptest.NewLogger(t),
	})
	srv := NewServer(Options{Catalog: catalog, Logger: zaptest.NewLogger(t)})
	return srv.Handler(), tokens
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListTokens(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/tokens?filter=trending", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenListResponse
	decode(t, rec, &resp)
	assert.True(t, resp.Known)
	assert.Equal(t, 10, resp.Count)
	for i := 1; i < len(resp.Tokens); i++ {
		assert.GreaterOrEqual(t, resp.Tokens[i-1].MarketCap, resp.Tokens[i].MarketCap)
	}

	rec = do(t, h, "GET", "/api/tokens?filter=plasma", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.False(t, resp.Known)
	assert.Equal(t, 10, resp.Count)
}

func TestListTokens_UnknownFilterLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	catalog := service.New(service.Options{
		Tokens:    memory.NewTokenStore(),
		Templates: memory.NewTemplateStore(),
		Now:       func() time.Time { return fixedNow },
		Logger:    log,
	})
	h := NewServer(Options{Catalog: catalog, Logger: log}).Handler()

	rec := do(t, h, "GET", "/api/tokens?filter=plasma", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterField(zap.String("filter", "plasma")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestGetToken_DerivedFields(t *testing.T) {
	h, tokens := newTestServer(t)
	holders := int64(1234)
	mint := "So11111111111111111111111111111111111111112"
	require.NoError(t, tokens.Append(context.Background(), &domain.TokenRecord{
		ID:          "mega-1",
		Name:        "Megamon",
		Category:    domain.CategoryWater,
		Rarity:      domain.RarityEpic,
		MarketCap:   300_000,
		PriceUSD:    0.0003,
		HolderCount: &holders,
		MintAddress: &mint,
		CreatedAt:   fixedNow.UnixMilli(),
	}))

	rec := do(t, h, "GET", "/api/tokens/mega-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var v TokenView
	decode(t, rec, &v)
	assert.Equal(t, 3, v.EvolutionStage)
	assert.Equal(t, "Mega", v.StageName)
	assert.Equal(t, "$300.0K", v.MarketCapDisplay)
	assert.Equal(t, "$0.000300", v.PriceDisplay)
	assert.Equal(t, 4, v.RarityStars)
	assert.Equal(t, "1,234", v.HoldersDisplay)
	assert.Equal(t, 1_000_000.0, v.NextThreshold)
	assert.Equal(t, mint, v.MintAddress)
	// round(log10(300001)*10 + 75 + 617) = 747
	assert.Equal(t, int64(747), v.Popularity)
	assert.NotNil(t, v.Moves)
}

func TestGetToken_NotFound(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, "GET", "/api/tokens/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLaunch(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, "POST", "/api/tokens", service.LaunchRequest{
		TemplateID: "template-6",
		Name:       "Pepe Prime",
		Ticker:     "PEPEP",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var v TokenView
	decode(t, rec, &v)
	assert.Equal(t, "Meme", v.Category)
	assert.Equal(t, 169, v.HP)
	assert.Equal(t, "/api/tokens/"+v.ID, rec.Header().Get("Location"))
	assert.Equal(t, 1, v.EvolutionStage)

	rec = do(t, h, "GET", "/api/tokens/"+v.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLaunch_BadRequests(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, "POST", "/api/tokens", service.LaunchRequest{Ticker: "NONAME"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "POST", "/api/tokens", map[string]string{"name": "x", "bogus": "field"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("POST", "/api/tokens", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatorLeaderboard(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/leaderboard/creators?members=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []CreatorView
	decode(t, rec, &rows)
	require.NotEmpty(t, rows)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Champion", rows[0].Badge)
	total := 0
	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
		assert.Len(t, row.Members, row.Tokens)
		total += row.Tokens
	}
	assert.Equal(t, 10, total)

	rec = do(t, h, "GET", "/api/leaderboard/creators?sort=marketCap&dir=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &rows)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].TotalMarketCap, rows[i].TotalMarketCap)
		assert.Empty(t, rows[i].Members)
	}
}

func TestTokenLeaderboard(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/leaderboard/tokens?sort=createdAt&dir=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []TokenView
	decode(t, rec, &rows)
	require.Len(t, rows, 10)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].CreatedAt, rows[i].CreatedAt)
	}
}

func TestTemplates(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, "GET", "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tpls []TemplateView
	decode(t, rec, &tpls)
	assert.Len(t, tpls, 12)
}

func TestHistory(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/tokens/monster-0/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, "GET", "/api/tokens/monster-0/history?start=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/api/tokens/missing/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeRefresher struct{}

func (fakeRefresher) Status() (bool, time.Time, int) { return true, fixedNow, 3 }

func TestStatus(t *testing.T) {
	srv := NewServer(Options{
		Catalog:   service.New(service.Options{Tokens: memory.NewTokenStore()}),
		Refresher: fakeRefresher{},
		Hub:       NewHub(HubConfig{}, nil),
	})
	rec := do(t, srv.Handler(), "GET", "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	decode(t, rec, &resp)
	assert.Equal(t, "running", resp.Status)
	assert.True(t, resp.RefreshRunning)
	assert.Equal(t, 3, resp.RefreshRuns)
	assert.Equal(t, 0, resp.WSClients)
}

func TestRouting(t *testing.T) {
	h, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/nope", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, "DELETE", "/api/tokens", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/metrics", nil).Code)
}

func TestWriteError(t *testing.T) {
	s := NewServer(Options{})
	tests := []struct {
		err  error
		code int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrInvalidRecord, http.StatusBadRequest},
		{storage.ErrDuplicateKey, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.writeError(rec, tt.err)
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}

	rec := httptest.NewRecorder()
	s.writeError(rec, errors.New("secret dsn"))
	assert.NotContains(t, rec.Body.String(), "secret")
}
