package repository

import (
	"context"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
)

// BlobName is the fixed key the holdings list is persisted under. The
// store owns exactly one portfolio, so a single named blob is enough.
const BlobName = "portfolio"

// PortfolioRepository abstracts persistence of the full holdings list.
// Save replaces the whole blob on every successful mutation; Load reports
// ok=false when no blob has ever been written.
type PortfolioRepository interface {
	Load(ctx context.Context) (assets []models.Asset, ok bool, err error)
	Save(ctx context.Context, assets []models.Asset) error
	Clear(ctx context.Context) error
}
