package quotes

import (
	"strings"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
)

// catalog is the static candidate list used for instant suggestions and as
// the fallback when the provider's search endpoint is unreachable.
var catalog = []models.Match{
	{Symbol: "AAPL", Name: "Apple Inc.", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "NFLX", Name: "Netflix Inc.", Type: "Equity", Exchange: "NASDAQ"},
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "INFY.NS", Name: "Infosys Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "SBIN.NS", Name: "State Bank of India", Type: "Equity", Exchange: "NSE"},
	{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "ITC.NS", Name: "ITC Ltd.", Type: "Equity", Exchange: "NSE"},
	{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank Ltd.", Type: "Equity", Exchange: "NSE"},
}

// searchCatalog returns catalog entries whose symbol or name contains the
// (lowercased) query as a substring.
func searchCatalog(query string) []models.Match {
	out := []models.Match{}
	for _, m := range catalog {
		if strings.Contains(strings.ToLower(m.Symbol), query) ||
			strings.Contains(strings.ToLower(m.Name), query) {
			out = append(out, m)
		}
	}
	return out
}
