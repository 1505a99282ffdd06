package memory

import (
	"context"
	"testing"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NothingSavedYet(t *testing.T) {
	repo := New()

	assets, ok, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, assets)
}

func TestSaveThenLoad(t *testing.T) {
	repo := New()
	ctx := context.Background()

	in := []models.Asset{{Symbol: "AAPL", Quantity: decimal.NewFromInt(2)}}
	require.NoError(t, repo.Save(ctx, in))

	got, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, got)
}

func TestSave_EmptyListIsStillPresent(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []models.Asset{}))

	got, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "an explicitly saved empty portfolio is not the same as no portfolio")
	assert.Empty(t, got)
}

func TestLoad_ReturnsCopy(t *testing.T) {
	repo := New()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, []models.Asset{{Symbol: "AAPL"}}))

	first, _, err := repo.Load(ctx)
	require.NoError(t, err)
	first[0].Symbol = "MUTATED"

	second, _, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", second[0].Symbol)
}

func TestClear(t *testing.T) {
	repo := New()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, []models.Asset{{Symbol: "AAPL"}}))

	require.NoError(t, repo.Clear(ctx))

	_, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "clear removes the blob entirely")
}
