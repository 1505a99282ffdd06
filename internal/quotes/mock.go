package quotes

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
)

// MockService mimics the quote provider with deterministic pseudo-random
// quotes. Fixtures and tests only; the production quote path never falls
// back to it.
type MockService struct {
	nowFunc func() time.Time
}

func NewMockService() *MockService {
	return &MockService{nowFunc: func() time.Time { return time.Now().UTC() }}
}

func (s *MockService) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	now := s.nowFunc()
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s-%d-%d", symbol, now.YearDay(), now.Hour())))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	return models.Quote{
		Symbol:        symbol,
		Price:         100 + r.Float64()*100,
		Change:        r.Float64()*10 - 5,
		ChangePercent: r.Float64()*10 - 5,
		Timestamp:     now,
	}, nil
}

func (s *MockService) Search(ctx context.Context, query string) ([]models.Match, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return []models.Match{}, nil
	}
	return searchCatalog(query), nil
}
