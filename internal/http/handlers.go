package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/portfolio"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/quotes"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/simulation"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/valuation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Router wires all handlers. fxRate converts provider-currency quotes into
// the home currency for every derived figure the UI reads.
func Router(store *portfolio.Service, quoteSvc quotes.Service, sim *simulation.Engine, fxRate float64, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/portfolio", func(c *gin.Context) {
		handleGetPortfolio(c, store, fxRate)
	})
	r.POST("/portfolio/assets", func(c *gin.Context) {
		handleAddAsset(c, store)
	})
	r.PATCH("/portfolio/assets/:symbol", func(c *gin.Context) {
		handleEditAsset(c, store)
	})
	r.PUT("/portfolio/assets/:symbol/quantity", func(c *gin.Context) {
		handleUpdateQuantity(c, store)
	})
	r.DELETE("/portfolio/assets/:symbol", func(c *gin.Context) {
		store.RemoveAsset(c.Request.Context(), c.Param("symbol"))
		c.Status(http.StatusNoContent)
	})
	r.DELETE("/portfolio", func(c *gin.Context) {
		store.Clear(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	r.POST("/portfolio/refresh", func(c *gin.Context) {
		store.RefreshPrices(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
	})
	r.GET("/portfolio/summary", func(c *gin.Context) {
		handleSummary(c, store, fxRate)
	})
	r.GET("/portfolio/allocation", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"allocations": valuation.ComputeAllocation(store.Snapshot(), fxRate)})
	})
	r.GET("/portfolio/risk", func(c *gin.Context) {
		handleRisk(c, store, sim, fxRate)
	})
	r.GET("/search", func(c *gin.Context) {
		handleSearch(c, quoteSvc)
	})
	r.POST("/simulations", func(c *gin.Context) {
		handleSimulate(c, store, sim, fxRate)
	})

	return r
}

type addAssetRequest struct {
	Symbol        string `json:"symbol" binding:"required"`
	Quantity      string `json:"quantity" binding:"required"`
	PurchasePrice string `json:"purchasePrice" binding:"required"`
}

func handleAddAsset(c *gin.Context, store *portfolio.Service) {
	var req addAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a decimal string"})
		return
	}
	price, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchasePrice must be a decimal string"})
		return
	}

	asset, err := store.AddAsset(c.Request.Context(), req.Symbol, qty, price)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assetJSON(asset, nil))
}

type editAssetRequest struct {
	Quantity      *string `json:"quantity"`
	PurchasePrice *string `json:"purchasePrice"`
	Type          *string `json:"type"`
	PurchaseDate  *string `json:"purchaseDate"`
}

func handleEditAsset(c *gin.Context, store *portfolio.Service) {
	var req editAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := portfolio.EditAssetInput{Type: req.Type}
	if req.Quantity != nil {
		qty, err := decimal.NewFromString(*req.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a decimal string"})
			return
		}
		in.Quantity = &qty
	}
	if req.PurchasePrice != nil {
		price, err := decimal.NewFromString(*req.PurchasePrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchasePrice must be a decimal string"})
			return
		}
		in.PurchasePrice = &price
	}
	if req.PurchaseDate != nil {
		day, err := time.Parse(dateLayout, *req.PurchaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchaseDate must be YYYY-MM-DD"})
			return
		}
		in.PurchaseDate = &day
	}

	asset, err := store.EditAsset(c.Request.Context(), c.Param("symbol"), in)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assetJSON(asset, nil))
}

type updateQuantityRequest struct {
	Quantity string `json:"quantity" binding:"required"`
}

func handleUpdateQuantity(c *gin.Context, store *portfolio.Service) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a decimal string"})
		return
	}
	asset, err := store.UpdateQuantity(c.Request.Context(), c.Param("symbol"), qty)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assetJSON(asset, nil))
}

func handleGetPortfolio(c *gin.Context, store *portfolio.Service, fxRate float64) {
	assets := store.Snapshot()
	metrics := valuation.ComputeAssetMetrics(assets, fxRate)

	resp := []gin.H{}
	for i, a := range assets {
		resp = append(resp, assetJSON(a, &metrics[i]))
	}
	c.JSON(http.StatusOK, gin.H{"assets": resp})
}

func handleSummary(c *gin.Context, store *portfolio.Service, fxRate float64) {
	assets := store.Snapshot()
	summary := valuation.ComputePortfolioSummary(valuation.ComputeAssetMetrics(assets, fxRate))
	invested := valuation.ComputeInvestmentSummary(assets, fxRate)
	c.JSON(http.StatusOK, gin.H{
		"totalValue":       summary.TotalValue,
		"weightedReturn":   summary.WeightedReturn,
		"stdDev":           summary.StdDev,
		"sharpeRatio":      summary.SharpeRatio,
		"totalInvested":    invested.TotalInvested,
		"totalGain":        invested.TotalGain,
		"totalGainPercent": invested.TotalGainPercent,
	})
}

// handleRisk serves the risk dashboard: the holdings-based score/tier plus
// series statistics (VaR, max drawdown, volatility) derived from a
// projection of the portfolio at its current weighted return.
func handleRisk(c *gin.Context, store *portfolio.Service, sim *simulation.Engine, fxRate float64) {
	assets := store.Snapshot()
	risk := valuation.ComputeRiskLevel(assets, fxRate)

	summary := valuation.ComputePortfolioSummary(valuation.ComputeAssetMetrics(assets, fxRate))
	projection := sim.Project(summary.WeightedReturn, 1.0)
	series := valuation.ComputeSeriesMetrics(simulation.Returns(projection.Points, false))

	c.JSON(http.StatusOK, gin.H{
		"score":   risk.Score,
		"level":   risk.Level,
		"metrics": series,
	})
}

func handleSearch(c *gin.Context, quoteSvc quotes.Service) {
	matches, err := quoteSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": matches})
}

type simulateRequest struct {
	ImprovementFactor float64 `json:"improvementFactor"`
}

func handleSimulate(c *gin.Context, store *portfolio.Service, sim *simulation.Engine, fxRate float64) {
	req := simulateRequest{ImprovementFactor: 1.1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.ImprovementFactor <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "improvementFactor must be positive"})
		return
	}

	summary := valuation.ComputePortfolioSummary(valuation.ComputeAssetMetrics(store.Snapshot(), fxRate))
	c.JSON(http.StatusOK, sim.Project(summary.WeightedReturn, req.ImprovementFactor))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrDuplicateAsset):
		return http.StatusConflict
	case errors.Is(err, portfolio.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, quotes.ErrQuoteUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func assetJSON(a models.Asset, m *valuation.AssetMetrics) gin.H {
	out := gin.H{
		"symbol":        a.Symbol,
		"longName":      a.Name,
		"type":          a.Type,
		"quantity":      a.Quantity.String(),
		"purchasePrice": a.PurchasePrice.StringFixed(2),
		"currentPrice":  a.CurrentPrice,
		"changePercent": a.ChangePercent,
		"purchaseDate":  a.PurchaseDate.Format(dateLayout),
		"lastUpdated":   a.LastUpdated,
	}
	if m != nil {
		out["marketValue"] = m.MarketValue
		out["weight"] = m.Weight
		out["returnPct"] = m.ReturnPct
	}
	return out
}

func logMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"status":   c.Writer.Status(),
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		}).Info("request completed")
	}
}
