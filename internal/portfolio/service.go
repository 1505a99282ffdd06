// Package portfolio is the single source of truth for owned assets. All
// mutation goes through the Service, every successful mutation is written
// through to the repository, and observers are notified so dependent
// computations can re-pull a fresh snapshot.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/quotes"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidInput rejects non-positive quantities or purchase prices.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateAsset rejects adding a symbol that is already held.
	ErrDuplicateAsset = errors.New("asset already exists in portfolio")
	// ErrAssetNotFound rejects edits against unknown symbols.
	ErrAssetNotFound = errors.New("asset not found")
)

// Service owns the holdings list.
type Service struct {
	repo    repository.PortfolioRepository
	quotes  quotes.Service
	logger  *logrus.Entry
	nowFunc func() time.Time

	mu     sync.RWMutex
	assets []models.Asset

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// NewService loads the persisted holdings list, falling back to the built-in
// default portfolio when no blob has been written yet.
func NewService(ctx context.Context, repo repository.PortfolioRepository, quoteSvc quotes.Service, logger *logrus.Logger) (*Service, error) {
	s := &Service{
		repo:    repo,
		quotes:  quoteSvc,
		logger:  logger.WithField("component", "portfolio-service"),
		nowFunc: func() time.Time { return time.Now().UTC() },
		subs:    make(map[int]chan struct{}),
	}

	assets, ok, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	if !ok {
		assets = defaultAssets(s.nowFunc())
		s.logger.Info("no saved portfolio found, seeding defaults")
	}
	s.assets = assets
	return s, nil
}

// Snapshot returns a copy of the current holdings list in insertion order.
func (s *Service) Snapshot() []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Asset(nil), s.assets...)
}

// Subscribe registers an observer. The returned channel receives a signal
// after every successful mutation (signals coalesce); the cancel func must
// be called on teardown.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// AddAsset resolves symbolOrQuery to a ticker, fetches a live quote and
// appends a new holding. The whole operation is atomic: a failed quote
// fetch stores nothing.
func (s *Service) AddAsset(ctx context.Context, symbolOrQuery string, quantity, purchasePrice decimal.Decimal) (models.Asset, error) {
	symbol := ResolveSymbol(symbolOrQuery)
	if symbol == "" {
		return models.Asset{}, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	if quantity.Sign() <= 0 {
		return models.Asset{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if purchasePrice.Sign() <= 0 {
		return models.Asset{}, fmt.Errorf("%w: purchase price must be positive", ErrInvalidInput)
	}

	if s.holds(symbol) {
		return models.Asset{}, fmt.Errorf("%w: %s", ErrDuplicateAsset, symbol)
	}

	quote, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return models.Asset{}, err
	}

	now := s.nowFunc()
	asset := models.Asset{
		Symbol:        symbol,
		Name:          symbol,
		Type:          "Equity",
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		CurrentPrice:  quote.Price,
		ChangePercent: quote.ChangePercent,
		PurchaseDate:  startOfDay(now),
		LastUpdated:   now,
	}

	s.mu.Lock()
	for _, a := range s.assets {
		if a.Symbol == symbol {
			s.mu.Unlock()
			return models.Asset{}, fmt.Errorf("%w: %s", ErrDuplicateAsset, symbol)
		}
	}
	s.assets = append(s.assets, asset)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	return asset, nil
}

// RemoveAsset drops the holding with that symbol. Removing an unknown
// symbol is a no-op, not an error.
func (s *Service) RemoveAsset(ctx context.Context, symbol string) {
	s.mu.Lock()
	kept := s.assets[:0]
	removed := false
	for _, a := range s.assets {
		if a.Symbol == symbol {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.assets = kept
	if removed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if removed {
		s.notify()
	}
}

// EditAssetInput is a field-level merge; nil fields are left untouched.
// Symbol and current price are not editable through this path.
type EditAssetInput struct {
	Quantity      *decimal.Decimal
	PurchasePrice *decimal.Decimal
	Type          *string
	PurchaseDate  *time.Time
}

// EditAsset applies a partial update to the holding with that symbol.
func (s *Service) EditAsset(ctx context.Context, symbol string, in EditAssetInput) (models.Asset, error) {
	if in.Quantity != nil && in.Quantity.Sign() <= 0 {
		return models.Asset{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if in.PurchasePrice != nil && in.PurchasePrice.Sign() <= 0 {
		return models.Asset{}, fmt.Errorf("%w: purchase price must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	idx := -1
	for i, a := range s.assets {
		if a.Symbol == symbol {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Asset{}, fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}

	a := s.assets[idx]
	if in.Quantity != nil {
		a.Quantity = *in.Quantity
	}
	if in.PurchasePrice != nil {
		a.PurchasePrice = *in.PurchasePrice
	}
	if in.Type != nil {
		a.Type = *in.Type
	}
	if in.PurchaseDate != nil {
		a.PurchaseDate = *in.PurchaseDate
	}
	a.LastUpdated = s.nowFunc()
	s.assets[idx] = a
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	return a, nil
}

// UpdateQuantity is the single-field convenience form of EditAsset.
func (s *Service) UpdateQuantity(ctx context.Context, symbol string, quantity decimal.Decimal) (models.Asset, error) {
	return s.EditAsset(ctx, symbol, EditAssetInput{Quantity: &quantity})
}

// Clear empties the holdings list and removes the persisted blob.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.assets = nil
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to clear persisted portfolio, in-memory state is empty")
	}
	s.mu.Unlock()

	s.notify()
}

// RefreshPrices re-fetches a quote for every held asset. Refresh is
// best-effort: a failed fetch keeps that asset's stale data and is logged,
// never surfaced to the caller.
func (s *Service) RefreshPrices(ctx context.Context) {
	symbols := []string{}
	for _, a := range s.Snapshot() {
		symbols = append(symbols, a.Symbol)
	}
	if len(symbols) == 0 {
		return
	}

	updated := map[string]models.Quote{}
	for _, symbol := range symbols {
		quote, err := s.quotes.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("price refresh failed, keeping stale quote")
			continue
		}
		updated[symbol] = quote
	}
	if len(updated) == 0 {
		return
	}

	now := s.nowFunc()
	s.mu.Lock()
	for i, a := range s.assets {
		quote, ok := updated[a.Symbol]
		if !ok {
			continue
		}
		a.CurrentPrice = quote.Price
		a.ChangePercent = quote.ChangePercent
		a.LastUpdated = now
		s.assets[i] = a
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

func (s *Service) holds(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assets {
		if a.Symbol == symbol {
			return true
		}
	}
	return false
}

// persistLocked writes the current list through to the repository. Write
// failures are logged and swallowed; in-memory state stays authoritative.
func (s *Service) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.assets); err != nil {
		s.logger.WithError(err).Warn("failed to persist portfolio, continuing with in-memory state")
	}
}

func (s *Service) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ResolveSymbol accepts either a raw ticker or the search box's
// "Display Name (SYMBOL)" format and returns the bare ticker.
func ResolveSymbol(symbolOrQuery string) string {
	s := strings.TrimSpace(symbolOrQuery)
	if idx := strings.Index(s, "("); idx >= 0 {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s[idx+1:]), ")"))
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
