package database

import (
	"context"

	"github.com/thenoetrevino/etapa/internal/models"
)

// BoardStore is every operation the position store exposes. The HTTP surface
// is written against it so it can serve any implementation.
type BoardStore interface {
	// Stages
	ListColumnsOrdered(ctx context.Context, tenantID string) ([]*models.Stage, error)
	CreateColumn(ctx context.Context, tenantID, label, color string) (*models.Stage, error)
	RenameColumn(ctx context.Context, stageID, label, color string) (*models.Stage, error)
	ArchiveColumn(ctx context.Context, stageID string) error
	StageTenant(ctx context.Context, stageID string) (string, error)

	// Reordering
	SwapPositions(ctx context.Context, tenantID string, positionA, positionB int) error
	RenumberPositions(ctx context.Context, tenantID string, orderedStageIDs []string) error
	CompactPositions(ctx context.Context, tenantID string) error

	// Deals
	CreateCard(ctx context.Context, stageID string, draft models.DealDraft) (*models.Deal, error)
	MoveCard(ctx context.Context, dealID, targetStageID string) (*models.Deal, error)
	DeleteCard(ctx context.Context, dealID string) error
	GetCard(ctx context.Context, dealID string) (*models.Deal, error)
	DealTenant(ctx context.Context, dealID string) (string, error)
}

var _ BoardStore = (*Repository)(nil)
