package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/portfolio"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/quotes"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/repository/memory"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFxRate = 86.0

type stubQuotes struct {
	price    float64
	failAll  bool
	searches []models.Match
}

func (s *stubQuotes) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if s.failAll {
		return models.Quote{}, fmt.Errorf("%w: %s", quotes.ErrQuoteUnavailable, symbol)
	}
	price := s.price
	if price == 0 {
		price = 120
	}
	return models.Quote{Symbol: symbol, Price: price, ChangePercent: 1.2, Timestamp: time.Now().UTC()}, nil
}

func (s *stubQuotes) Search(ctx context.Context, query string) ([]models.Match, error) {
	return s.searches, nil
}

func newTestRouter(t *testing.T, q quotes.Service) (*gin.Engine, *portfolio.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ctx := context.Background()
	repo := memory.New()
	require.NoError(t, repo.Save(ctx, []models.Asset{}))

	store, err := portfolio.NewService(ctx, repo, q, log)
	require.NoError(t, err)

	sim := simulation.New(simulation.Config{})
	return Router(store, q, sim, testFxRate, log), store
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{})
	w := doRequest(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddAsset(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{price: 218.27})

	w := doRequest(r, http.MethodPost, "/portfolio/assets", gin.H{
		"symbol":        "AAPL",
		"quantity":      "2",
		"purchasePrice": "18777.41",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "2", body["quantity"])
	assert.Equal(t, "18777.41", body["purchasePrice"])
	assert.InDelta(t, 218.27, body["currentPrice"].(float64), 1e-9)
}

func TestAddAsset_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing fields", body: gin.H{"symbol": "AAPL"}},
		{name: "non-decimal quantity", body: gin.H{"symbol": "AAPL", "quantity": "two", "purchasePrice": "100"}},
		{name: "non-decimal price", body: gin.H{"symbol": "AAPL", "quantity": "2", "purchasePrice": "lots"}},
		{name: "zero quantity", body: gin.H{"symbol": "AAPL", "quantity": "0", "purchasePrice": "100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, &stubQuotes{})
			w := doRequest(r, http.MethodPost, "/portfolio/assets", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAddAsset_Duplicate(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{})
	body := gin.H{"symbol": "AAPL", "quantity": "2", "purchasePrice": "100"}

	require.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/portfolio/assets", body).Code)
	assert.Equal(t, http.StatusConflict, doRequest(r, http.MethodPost, "/portfolio/assets", body).Code)
}

func TestAddAsset_QuoteProviderDown(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{failAll: true})

	w := doRequest(r, http.MethodPost, "/portfolio/assets", gin.H{
		"symbol": "AAPL", "quantity": "2", "purchasePrice": "100",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetPortfolio(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{price: 100})
	ctx := context.Background()
	_, err := store.AddAsset(ctx, "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assets := body["assets"].([]any)
	require.Len(t, assets, 1)

	a := assets[0].(map[string]any)
	assert.Equal(t, "AAPL", a["symbol"])
	// 2 * 100 * 86
	assert.InDelta(t, 17200, a["marketValue"].(float64), 1e-9)
	assert.InDelta(t, 1.0, a["weight"].(float64), 1e-9)
	// (100*86 - 5000) / 5000 * 100
	assert.InDelta(t, 72, a["returnPct"].(float64), 1e-9)
}

func TestEditAsset(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{})
	_, err := store.AddAsset(context.Background(), "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)

	w := doRequest(r, http.MethodPatch, "/portfolio/assets/AAPL", gin.H{
		"quantity":     "7",
		"purchaseDate": "2024-06-15",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "7", body["quantity"])
	assert.Equal(t, "2024-06-15", body["purchaseDate"])
}

func TestEditAsset_Errors(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{})

	w := doRequest(r, http.MethodPatch, "/portfolio/assets/NOPE", gin.H{"quantity": "7"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPatch, "/portfolio/assets/NOPE", gin.H{"purchaseDate": "15/06/2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuantity(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{})
	_, err := store.AddAsset(context.Background(), "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)

	w := doRequest(r, http.MethodPut, "/portfolio/assets/AAPL/quantity", gin.H{"quantity": "9"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9", decodeBody(t, w)["quantity"])

	w = doRequest(r, http.MethodPut, "/portfolio/assets/AAPL/quantity", gin.H{"quantity": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveAssetAndClear(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{})
	ctx := context.Background()
	_, err := store.AddAsset(ctx, "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)
	_, err = store.AddAsset(ctx, "TSLA", decimal.NewFromInt(1), decimal.NewFromInt(5000))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodDelete, "/portfolio/assets/AAPL", nil).Code)
	require.Len(t, store.Snapshot(), 1)

	// Removing an unknown symbol is still a 204.
	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodDelete, "/portfolio/assets/AAPL", nil).Code)

	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodDelete, "/portfolio", nil).Code)
	assert.Empty(t, store.Snapshot())
}

func TestSummary(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{price: 100})
	// Invested 5000, now worth 2*100*86 = 17200.
	_, err := store.AddAsset(context.Background(), "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(2500))
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/portfolio/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 17200, body["totalValue"].(float64), 1e-9)
	assert.InDelta(t, 5000, body["totalInvested"].(float64), 1e-9)
	assert.InDelta(t, 12200, body["totalGain"].(float64), 1e-9)
	assert.InDelta(t, 244, body["totalGainPercent"].(float64), 1e-9)
	// A single holding has zero cross-sectional dispersion.
	assert.InDelta(t, 0, body["stdDev"].(float64), 1e-9)
	assert.InDelta(t, 0, body["sharpeRatio"].(float64), 1e-9)
}

func TestSummary_EmptyPortfolio(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{})

	w := doRequest(r, http.MethodGet, "/portfolio/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Zero(t, body["totalValue"].(float64))
	assert.Zero(t, body["weightedReturn"].(float64))
}

func TestAllocation(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{price: 100})
	_, err := store.AddAsset(context.Background(), "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/portfolio/allocation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	allocations := body["allocations"].([]any)
	require.Len(t, allocations, 1)
	entry := allocations[0].(map[string]any)
	assert.Equal(t, "Equity", entry["type"])
	assert.InDelta(t, 1.0, entry["weight"].(float64), 1e-9)
}

func TestRisk(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{price: 100})
	_, err := store.AddAsset(context.Background(), "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/portfolio/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	// The stub quote carries changePercent 1.2, so score = 1.2 * 10.
	assert.InDelta(t, 12, body["score"].(float64), 1e-9)
	assert.Equal(t, "low", body["level"])

	metrics := body["metrics"].(map[string]any)
	assert.Contains(t, metrics, "valueAtRisk")
	assert.Contains(t, metrics, "maxDrawdown")
	assert.InDelta(t, 1.0, metrics["beta"].(float64), 1e-9)
}

func TestSearchEndpoint(t *testing.T) {
	stub := &stubQuotes{searches: []models.Match{{Symbol: "AAPL", Name: "Apple Inc.", Type: "Equity", Exchange: "NASDAQ"}}}
	r, _ := newTestRouter(t, stub)

	w := doRequest(r, http.MethodGet, "/search?q=apple", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "AAPL", results[0].(map[string]any)["symbol"])
}

func TestSimulate(t *testing.T) {
	r, store := newTestRouter(t, &stubQuotes{price: 100})
	_, err := store.AddAsset(context.Background(), "AAPL", decimal.NewFromInt(2), decimal.NewFromInt(5000))
	require.NoError(t, err)

	w := doRequest(r, http.MethodPost, "/simulations", gin.H{"improvementFactor": 1.5})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 1.5, body["improvementFactor"].(float64), 1e-9)
	assert.NotEmpty(t, body["runId"])
	assert.Len(t, body["points"].([]any), 61)
}

func TestSimulate_DefaultFactor(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{})

	w := doRequest(r, http.MethodPost, "/simulations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 1.1, decodeBody(t, w)["improvementFactor"].(float64), 1e-9)
}

func TestSimulate_RejectsNonPositiveFactor(t *testing.T) {
	r, _ := newTestRouter(t, &stubQuotes{})

	w := doRequest(r, http.MethodPost, "/simulations", gin.H{"improvementFactor": -2.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
