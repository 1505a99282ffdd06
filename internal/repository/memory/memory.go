package memory

import (
	"context"
	"sync"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
)

// Repo keeps the serialized holdings list in process memory. Used when no
// DATABASE_URL is configured; data resets on restart.
type Repo struct {
	mu     sync.RWMutex
	assets []models.Asset
	saved  bool
}

func New() *Repo {
	return &Repo{}
}

func (r *Repo) Load(ctx context.Context) ([]models.Asset, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.saved {
		return nil, false, nil
	}
	return append([]models.Asset(nil), r.assets...), true, nil
}

func (r *Repo) Save(ctx context.Context, assets []models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = append([]models.Asset(nil), assets...)
	r.saved = true
	return nil
}

func (r *Repo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = nil
	r.saved = false
	return nil
}
