package quotes

import (
	"context"
	"errors"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
)

// ErrQuoteUnavailable indicates the provider could not return a usable
// quote (transport failure or non-success response). There is no mock
// fallback in the production quote path.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// Service exposes quote provider behaviour.
//
// GetQuote fails hard with ErrQuoteUnavailable. Search fails soft: on any
// provider error it degrades to the built-in candidate catalog.
type Service interface {
	GetQuote(ctx context.Context, symbol string) (models.Quote, error)
	Search(ctx context.Context, query string) ([]models.Match, error)
}
