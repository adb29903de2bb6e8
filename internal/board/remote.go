package board

import (
	"context"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Remote is every call the controller makes against the position store.
// Failures carry one of the models failure kinds (NotFound, Conflict,
// TransactionFailed, Unauthorized).
type Remote interface {
	ListColumnsOrdered(ctx context.Context, tenantID string) ([]*models.Stage, error)
	CreateColumn(ctx context.Context, tenantID, label, color string) (*models.Stage, error)
	RenameColumn(ctx context.Context, stageID, label, color string) (*models.Stage, error)
	ArchiveColumn(ctx context.Context, stageID string) error
	MoveCard(ctx context.Context, dealID, targetStageID string) (*models.Deal, error)
	CreateCard(ctx context.Context, stageID string, draft models.DealDraft) (*models.Deal, error)
	DeleteCard(ctx context.Context, dealID string) error
	SwapPositions(ctx context.Context, tenantID string, positionA, positionB int) error
	RenumberPositions(ctx context.Context, tenantID string, orderedStageIDs []string) error
}
