package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/ratelimit"
	"github.com/sirupsen/logrus"
)

const maxSearchResults = 10

// FinnhubClient fetches quotes and symbol matches from the Finnhub REST API.
// All outbound calls are funneled through the shared rate limiter so bulk
// refreshes stay inside the provider's per-minute budget.
type FinnhubClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *logrus.Entry
	nowFunc    func() time.Time
}

// NewFinnhubClient builds a client. limiter may be nil, in which case calls
// go out unthrottled (used by tests).
func NewFinnhubClient(baseURL, apiKey string, limiter *ratelimit.Limiter, logger *logrus.Logger) *FinnhubClient {
	return &FinnhubClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
		logger:     logger.WithField("component", "finnhub-client"),
		nowFunc:    func() time.Time { return time.Now().UTC() },
	}
}

type finnhubQuoteResp struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
}

type finnhubSearchResp struct {
	Result []struct {
		Symbol          string `json:"symbol"`
		Description     string `json:"description"`
		Type            string `json:"type"`
		PrimaryExchange string `json:"primaryExchange"`
	} `json:"result"`
}

func (c *FinnhubClient) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	var resp finnhubQuoteResp
	err := c.throttled(ctx, func() error {
		endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), c.apiKey)
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, symbol, err)
	}
	return models.Quote{
		Symbol:        symbol,
		Price:         resp.Current,
		Change:        resp.Change,
		ChangePercent: resp.ChangePercent,
		Timestamp:     c.nowFunc(),
	}, nil
}

func (c *FinnhubClient) Search(ctx context.Context, query string) ([]models.Match, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return []models.Match{}, nil
	}

	local := searchCatalog(query)

	var resp finnhubSearchResp
	err := c.throttled(ctx, func() error {
		endpoint := fmt.Sprintf("%s/api/v1/search?q=%s&token=%s", c.baseURL, url.QueryEscape(query), c.apiKey)
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		c.logger.WithError(err).WithField("query", query).Warn("search request failed, using local results")
		return local, nil
	}

	combined := append([]models.Match(nil), local...)
	for _, item := range resp.Result {
		if item.Type != "Common Stock" {
			continue
		}
		name := item.Description
		if name == "" {
			name = item.Symbol
		}
		exchange := item.PrimaryExchange
		if exchange == "" {
			exchange = "Unknown"
		}
		combined = append(combined, models.Match{
			Symbol:   item.Symbol,
			Name:     name,
			Type:     "Equity",
			Exchange: exchange,
		})
	}

	return rankMatches(dedupeMatches(combined), query), nil
}

func (c *FinnhubClient) throttled(ctx context.Context, fn func() error) error {
	if c.limiter == nil {
		return fn()
	}
	return c.limiter.Do(ctx, fn)
}

func (c *FinnhubClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func dedupeMatches(matches []models.Match) []models.Match {
	seen := make(map[string]struct{}, len(matches))
	out := []models.Match{}
	for _, m := range matches {
		if _, ok := seen[m.Symbol]; ok {
			continue
		}
		seen[m.Symbol] = struct{}{}
		out = append(out, m)
	}
	return out
}

// rankMatches orders candidates: exact symbol/name matches first, then NSE
// listings, then shorter symbols, capped at maxSearchResults.
func rankMatches(matches []models.Match, query string) []models.Match {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		aExact := strings.EqualFold(a.Symbol, query) || strings.EqualFold(a.Name, query)
		bExact := strings.EqualFold(b.Symbol, query) || strings.EqualFold(b.Name, query)
		if aExact != bExact {
			return aExact
		}
		aNSE := strings.HasSuffix(a.Symbol, ".NS")
		bNSE := strings.HasSuffix(b.Symbol, ".NS")
		if aNSE != bNSE {
			return aNSE
		}
		return len(a.Symbol) < len(b.Symbol)
	})
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	return matches
}
