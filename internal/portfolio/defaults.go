package portfolio

import (
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/shopspring/decimal"
)

// defaultAssets is the starter portfolio shown before the user has saved
// anything of their own.
func defaultAssets(now time.Time) []models.Asset {
	opened := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []models.Asset{
		{
			Symbol:        "AAPL",
			Name:          "Apple Inc.",
			Type:          "Equity",
			Quantity:      decimal.NewFromInt(2),
			PurchasePrice: decimal.NewFromInt(18777),
			CurrentPrice:  218.27,
			ChangePercent: -0.03,
			PurchaseDate:  opened,
			LastUpdated:   now,
		},
		{
			Symbol:        "AMZN",
			Name:          "Amazon.com Inc.",
			Type:          "Equity",
			Quantity:      decimal.NewFromInt(2),
			PurchasePrice: decimal.NewFromInt(16786),
			CurrentPrice:  196.21,
			ChangePercent: 0.52,
			PurchaseDate:  opened,
			LastUpdated:   now,
		},
		{
			Symbol:        "TSLA",
			Name:          "Tesla Inc.",
			Type:          "Equity",
			Quantity:      decimal.NewFromInt(5),
			PurchasePrice: decimal.NewFromInt(21293),
			CurrentPrice:  248.71,
			ChangePercent: 0.45,
			PurchaseDate:  opened,
			LastUpdated:   now,
		},
		{
			Symbol:        "MSFT",
			Name:          "Microsoft Corporation",
			Type:          "Equity",
			Quantity:      decimal.NewFromInt(2),
			PurchasePrice: decimal.NewFromInt(33646),
			CurrentPrice:  391.26,
			ChangePercent: 0.01,
			PurchaseDate:  opened,
			LastUpdated:   now,
		},
	}
}
