// Package valuation derives all portfolio metrics from a holdings snapshot
// and the configured fx rate. Everything here is pure and stateless: the
// engine never mutates holdings and tolerates empty or zero-value input by
// returning zero values instead of NaN or Inf.
package valuation

import (
	"math"
	"sort"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"gonum.org/v1/gonum/stat"
)

const (
	// riskScoreMultiplier scales the weighted mean absolute daily change
	// onto the 0-100 score range: a 4% weighted move maps to the low/medium
	// boundary, 7% to medium/high.
	riskScoreMultiplier = 10.0

	riskLowMax  = 40.0
	riskHighMin = 70.0

	// seriesRiskFreeRate is the fixed 2% rate used by the historical-series
	// Sharpe and alpha figures.
	seriesRiskFreeRate = 0.02
)

// Risk tier labels shown by the UI.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// AssetMetrics is the per-asset slice of derived numbers.
type AssetMetrics struct {
	Symbol      string  `json:"symbol"`
	MarketValue float64 `json:"marketValue"`
	Weight      float64 `json:"weight"`
	ReturnPct   float64 `json:"returnPct"`
}

// Summary aggregates the per-asset metrics.
type Summary struct {
	TotalValue     float64 `json:"totalValue"`
	WeightedReturn float64 `json:"weightedReturn"`
	StdDev         float64 `json:"stdDev"`
	SharpeRatio    float64 `json:"sharpeRatio"`
}

// InvestmentSummary is the cost-basis view of the portfolio.
type InvestmentSummary struct {
	TotalInvested    float64 `json:"totalInvested"`
	TotalGain        float64 `json:"totalGain"`
	TotalGainPercent float64 `json:"totalGainPercent"`
}

// RiskAssessment is the score/tier pair driving the risk indicator.
type RiskAssessment struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// TypeAllocation is one slice of the allocation-by-type breakdown.
type TypeAllocation struct {
	Type        string  `json:"type"`
	Weight      float64 `json:"weight"`
	MarketValue float64 `json:"marketValue"`
}

// SeriesMetrics are descriptive statistics over a returns series.
type SeriesMetrics struct {
	MeanReturn  float64 `json:"meanReturn"`
	Volatility  float64 `json:"volatility"`
	SharpeRatio float64 `json:"sharpeRatio"`
	Alpha       float64 `json:"alpha"`
	Beta        float64 `json:"beta"`
	ValueAtRisk float64 `json:"valueAtRisk"`
	MaxDrawdown float64 `json:"maxDrawdown"`
}

// ComputeAssetMetrics values each holding in the home currency.
//
//	marketValue = quantity * currentPrice * fxRate
//	weight      = marketValue / totalValue   (0 when totalValue is 0)
//	returnPct   = (currentPrice*fxRate - purchasePrice) / purchasePrice * 100
func ComputeAssetMetrics(assets []models.Asset, fxRate float64) []AssetMetrics {
	metrics := make([]AssetMetrics, len(assets))

	total := 0.0
	for i, a := range assets {
		mv := a.Quantity.InexactFloat64() * a.CurrentPrice * fxRate
		metrics[i] = AssetMetrics{Symbol: a.Symbol, MarketValue: mv}
		total += mv
	}

	for i, a := range assets {
		if total > 0 {
			metrics[i].Weight = metrics[i].MarketValue / total
		}
		if pp := a.PurchasePrice.InexactFloat64(); pp > 0 {
			currentHome := a.CurrentPrice * fxRate
			metrics[i].ReturnPct = (currentHome - pp) / pp * 100
		}
	}
	return metrics
}

// ComputePortfolioSummary rolls per-asset metrics up into portfolio totals.
// WeightedReturn is the value-weighted mean of per-asset returns; StdDev is
// the value-weighted population standard deviation around that mean.
func ComputePortfolioSummary(metrics []AssetMetrics) Summary {
	s := Summary{}
	for _, m := range metrics {
		s.TotalValue += m.MarketValue
	}
	if len(metrics) == 0 {
		return s
	}

	for _, m := range metrics {
		s.WeightedReturn += m.ReturnPct * m.Weight
	}

	variance := 0.0
	for _, m := range metrics {
		diff := m.ReturnPct - s.WeightedReturn
		variance += m.Weight * diff * diff
	}
	s.StdDev = math.Sqrt(variance)

	if s.StdDev > 0 {
		s.SharpeRatio = s.WeightedReturn / s.StdDev
	}
	return s
}

// ComputeInvestmentSummary reports cost basis and absolute gain in the home
// currency.
func ComputeInvestmentSummary(assets []models.Asset, fxRate float64) InvestmentSummary {
	out := InvestmentSummary{}
	for _, a := range assets {
		out.TotalInvested += a.PurchasePrice.Mul(a.Quantity).InexactFloat64()
	}
	totalValue := 0.0
	for _, m := range ComputeAssetMetrics(assets, fxRate) {
		totalValue += m.MarketValue
	}
	out.TotalGain = totalValue - out.TotalInvested
	if out.TotalInvested > 0 {
		out.TotalGainPercent = out.TotalGain / out.TotalInvested * 100
	}
	return out
}

// ComputeRiskLevel scores the portfolio by the value-weighted mean of
// absolute intraday change, scaled and clamped to [0,100]. Scores of
// exactly 40 or 70 resolve to medium.
func ComputeRiskLevel(assets []models.Asset, fxRate float64) RiskAssessment {
	metrics := ComputeAssetMetrics(assets, fxRate)

	score := 0.0
	for i, a := range assets {
		score += metrics[i].Weight * math.Abs(a.ChangePercent)
	}
	score *= riskScoreMultiplier
	score = math.Min(math.Max(score, 0), 100)

	level := RiskMedium
	switch {
	case score < riskLowMax:
		level = RiskLow
	case score > riskHighMin:
		level = RiskHigh
	}
	return RiskAssessment{Score: score, Level: level}
}

// ComputeAllocation groups weights and market value by asset type. Slices
// come back sorted by descending weight for display stability.
func ComputeAllocation(assets []models.Asset, fxRate float64) []TypeAllocation {
	metrics := ComputeAssetMetrics(assets, fxRate)

	byType := map[string]*TypeAllocation{}
	order := []string{}
	for i, a := range assets {
		t := a.Type
		if t == "" {
			t = "Other"
		}
		alloc, ok := byType[t]
		if !ok {
			alloc = &TypeAllocation{Type: t}
			byType[t] = alloc
			order = append(order, t)
		}
		alloc.Weight += metrics[i].Weight
		alloc.MarketValue += metrics[i].MarketValue
	}

	out := make([]TypeAllocation, 0, len(order))
	for _, t := range order {
		out = append(out, *byType[t])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// ComputeValueAtRisk estimates the empirical VaR of a returns series at the
// given confidence level: the sample at the floor(n*(1-confidence)) index of
// the ascending-sorted series, negated. Never negative.
func ComputeValueAtRisk(returns []float64, confidence float64) float64 {
	n := len(returns)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(math.Floor(float64(n) * (1 - confidence)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	loss := -sorted[idx]
	if loss < 0 {
		return 0
	}
	return loss
}

// ComputeMaxDrawdown tracks a running peak over the returns series itself
// and reports the largest relative decline from peak to current sample.
// Note the peak is over returns, not a cumulative value path; this mirrors
// the behaviour the dashboard has always shown.
func ComputeMaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	maxDrawdown := 0.0
	peak := returns[0]
	for _, r := range returns {
		if r > peak {
			peak = r
		}
		if peak == 0 {
			continue
		}
		if dd := (peak - r) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

// ComputeSeriesMetrics summarizes a returns series: mean, population
// volatility, Sharpe and alpha against the fixed risk-free rate, empirical
// VaR at 95% and max drawdown. Beta stays pinned at 1.0 until the dashboard
// grows a market-returns feed to regress against.
func ComputeSeriesMetrics(returns []float64) SeriesMetrics {
	if len(returns) == 0 {
		return SeriesMetrics{Beta: 1.0}
	}

	mean := stat.Mean(returns, nil)
	vol := stat.PopStdDev(returns, nil)

	m := SeriesMetrics{
		MeanReturn:  mean,
		Volatility:  vol,
		Alpha:       mean - seriesRiskFreeRate,
		Beta:        1.0,
		ValueAtRisk: ComputeValueAtRisk(returns, 0.95),
		MaxDrawdown: ComputeMaxDrawdown(returns),
	}
	if vol > 0 {
		m.SharpeRatio = (mean - seriesRiskFreeRate) / vol
	}
	return m
}
