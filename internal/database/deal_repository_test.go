package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/models"
)

func TestCreateCardPersistsDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupTestRepo(t)

	stages := seedStages(t, repo, "acme", "Nouveau")
	due := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	deal, err := repo.CreateCard(ctx, stages[0].ID, models.DealDraft{
		Title:       "  Renouvellement licence ",
		Description: "Appeler **avant** juin",
		Amount:      4_500_00,
		DueDate:     &due,
		Tags:        []string{"b2b", " b2b", "saas"},
		AssigneeID:  "user-7",
		ContactID:   "contact-3",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renouvellement licence", deal.Title)
	assert.Equal(t, []string{"b2b", "saas"}, deal.Tags)

	got, err := repo.GetCard(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.ID, got.ID)
	assert.Equal(t, stages[0].ID, got.StageID)
	assert.Equal(t, "Appeler **avant** juin", got.Description)
	assert.Equal(t, int64(4_500_00), got.Amount)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.Equal(t, []string{"b2b", "saas"}, got.Tags)
	assert.Equal(t, "user-7", got.AssigneeID)
	assert.Equal(t, "contact-3", got.ContactID)
	assert.True(t, deal.CreatedAt.Equal(got.CreatedAt))

	tenant, err := repo.DealTenant(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant)
}

func TestCreateCardErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupTestRepo(t)

	stages := seedStages(t, repo, "acme", "Nouveau")

	_, err := repo.CreateCard(ctx, stages[0].ID, models.DealDraft{Title: " "})
	assert.ErrorIs(t, err, models.ErrEmptyTitle)

	_, err = repo.CreateCard(ctx, "missing", models.DealDraft{Title: "Alpha"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.ArchiveColumn(ctx, stages[0].ID))
	_, err = repo.CreateCard(ctx, stages[0].ID, models.DealDraft{Title: "Alpha"})
	assert.ErrorIs(t, err, models.ErrNotFound, "archived stages accept no deals")
}

func TestMoveCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupTestRepo(t)

	stages := seedStages(t, repo, "acme", "Nouveau", "Qualifié")
	deal, err := repo.CreateCard(ctx, stages[1].ID, models.DealDraft{Title: "DealX", Tags: []string{"hot"}})
	require.NoError(t, err)

	moved, err := repo.MoveCard(ctx, deal.ID, stages[0].ID)
	require.NoError(t, err)
	assert.Equal(t, stages[0].ID, moved.StageID)
	assert.Equal(t, []string{"hot"}, moved.Tags)
	assert.True(t, moved.UpdatedAt.After(deal.UpdatedAt))

	got, err := repo.ListColumnsOrdered(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, got[0].Deals, 1)
	assert.Equal(t, deal.ID, got[0].Deals[0].ID)
	assert.Empty(t, got[1].Deals)
}

func TestMoveCardNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupTestRepo(t)

	stages := seedStages(t, repo, "acme", "Nouveau", "Qualifié")
	foreign := seedStages(t, repo, "globex", "Nouveau")
	deal, err := repo.CreateCard(ctx, stages[0].ID, models.DealDraft{Title: "Alpha"})
	require.NoError(t, err)

	_, err = repo.MoveCard(ctx, "missing", stages[1].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.MoveCard(ctx, deal.ID, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.MoveCard(ctx, deal.ID, foreign[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound, "stages of another tenant are invisible")

	require.NoError(t, repo.ArchiveColumn(ctx, stages[1].ID))
	_, err = repo.MoveCard(ctx, deal.ID, stages[1].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := repo.GetCard(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, stages[0].ID, got.StageID, "failed moves leave the deal in place")
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupTestRepo(t)

	stages := seedStages(t, repo, "acme", "Nouveau")
	deal, err := repo.CreateCard(ctx, stages[0].ID, models.DealDraft{Title: "Alpha", Tags: []string{"x"}})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCard(ctx, deal.ID))
	assert.ErrorIs(t, repo.DeleteCard(ctx, deal.ID), models.ErrNotFound)

	_, err = repo.DealTenant(ctx, deal.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
