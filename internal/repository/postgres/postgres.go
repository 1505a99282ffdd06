package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/repository"

	_ "github.com/lib/pq"
)

// Repo persists the holdings list as a single JSONB blob keyed by a fixed
// name. Write-through: every Save replaces the whole row.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// EnsureSchema creates the portfolios table when it does not exist yet.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS portfolios (
			name       TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *Repo) Load(ctx context.Context) ([]models.Asset, bool, error) {
	const query = `SELECT data FROM portfolios WHERE name = $1`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, repository.BlobName).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var assets []models.Asset
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, false, err
	}
	return assets, true, nil
}

func (r *Repo) Save(ctx context.Context, assets []models.Asset) error {
	raw, err := json.Marshal(assets)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO portfolios (name, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, query, repository.BlobName, raw, time.Now().UTC())
	return err
}

func (r *Repo) Clear(ctx context.Context) error {
	const query = `DELETE FROM portfolios WHERE name = $1`
	_, err := r.db.ExecContext(ctx, query, repository.BlobName)
	return err
}
