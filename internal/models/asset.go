package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is one owned position. PurchasePrice is the cost basis per unit in
// the home currency; CurrentPrice is the latest quote in the provider's
// currency and is only meaningful together with the configured fx rate.
type Asset struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"longName"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	CurrentPrice  float64         `json:"currentPrice"`
	ChangePercent float64         `json:"changePercent"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
	LastUpdated   time.Time       `json:"lastUpdated"`
}

// Quote is the latest price snapshot for a symbol as reported by the
// quote provider, in the provider's currency.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Timestamp     time.Time `json:"lastUpdated"`
}

// Match is one candidate from a symbol search.
type Match struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Exchange string `json:"exchange,omitempty"`
}
