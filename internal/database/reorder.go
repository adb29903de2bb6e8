package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/etapa/internal/models"
)

// errSwapTargetMissing is wrapped into models.ErrNotFound by SwapPositions
var errSwapTargetMissing = errors.New("one of the two columns to swap could not be found")

// reorderFailure maps any failure of a reorder unit of work onto the store's
// failure kinds. Anything unclassified is an aborted unit of work.
func reorderFailure(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrTransactionFailed),
		errors.Is(err, models.ErrInvalidArgument):
		return err
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, models.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, models.ErrTransactionFailed, err)
	}
}

// SwapPositions exchanges the positions of the two live stages at positionA
// and positionB in one transaction of exactly three writes: A parks on the
// sentinel, B takes A, the sentinel takes B. No committed or concurrently
// readable state ever holds two stages on the same position.
func (r *StageRepo) SwapPositions(ctx context.Context, tenantID string, positionA, positionB int) error {
	if strings.TrimSpace(tenantID) == "" {
		return models.ErrEmptyTenant
	}
	if positionA == positionB {
		return models.ErrSamePositions
	}

	err := r.tx(ctx, func(tx *sql.Tx) error {
		for _, pos := range []int{positionA, positionB} {
			var n int
			if err := r.queryRow(ctx, tx,
				`SELECT COUNT(*) FROM stages WHERE tenant_id = ? AND position = ? AND archived_at IS NULL`,
				tenantID, pos).Scan(&n); err != nil {
				return err
			}
			if n != 1 {
				return fmt.Errorf("%w: %w", models.ErrNotFound, errSwapTargetMissing)
			}
		}

		steps := []struct{ from, to int }{
			{positionA, models.SentinelPosition},
			{positionB, positionA},
			{models.SentinelPosition, positionB},
		}
		for _, step := range steps {
			res, err := r.exec(ctx, tx,
				`UPDATE stages SET position = ? WHERE tenant_id = ? AND position = ? AND archived_at IS NULL`,
				step.to, tenantID, step.from)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n != 1 {
				return fmt.Errorf("swap step %d -> %d touched %d rows: %w", step.from, step.to, n, models.ErrConflict)
			}
		}
		return nil
	})
	if err != nil {
		return reorderFailure("swap positions", err)
	}

	r.logger.Debug("positions swapped", "tenant", tenantID, "a", positionA, "b", positionB)
	return nil
}

// RenumberPositions assigns positions 1..n to the tenant's live stages in the
// order given. The id set must be exactly the tenant's live stages, otherwise
// the board changed underneath the caller and the call fails with
// models.ErrConflict. Every position is negated first so that the second
// phase never lands on a position still held by another stage.
func (r *StageRepo) RenumberPositions(ctx context.Context, tenantID string, orderedStageIDs []string) error {
	if strings.TrimSpace(tenantID) == "" {
		return models.ErrEmptyTenant
	}

	err := r.tx(ctx, func(tx *sql.Tx) error {
		current, err := r.liveStages(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if !sameIDSet(current, orderedStageIDs) {
			return fmt.Errorf("requested order does not match the columns of tenant %s: %w", tenantID, models.ErrConflict)
		}
		return r.renumber(ctx, tx, tenantID, orderedStageIDs)
	})
	if err != nil {
		return reorderFailure("renumber positions", err)
	}

	r.logger.Debug("positions renumbered", "tenant", tenantID, "stages", len(orderedStageIDs))
	return nil
}

// CompactPositions closes gaps in the tenant's positions, keeping the current
// order.
func (r *StageRepo) CompactPositions(ctx context.Context, tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return models.ErrEmptyTenant
	}

	err := r.tx(ctx, func(tx *sql.Tx) error {
		current, err := r.liveStages(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		ids := make([]string, len(current))
		compact := true
		for i, s := range current {
			ids[i] = s.ID
			compact = compact && s.Position == models.FirstPosition+i
		}
		if compact {
			return nil
		}
		return r.renumber(ctx, tx, tenantID, ids)
	})
	return reorderFailure("compact positions", err)
}

func (r *StageRepo) renumber(ctx context.Context, tx *sql.Tx, tenantID string, ids []string) error {
	if _, err := r.exec(ctx, tx,
		`UPDATE stages SET position = -position WHERE tenant_id = ? AND archived_at IS NULL`, tenantID); err != nil {
		return err
	}
	for i, id := range ids {
		res, err := r.exec(ctx, tx, `UPDATE stages SET position = ? WHERE id = ?`, models.FirstPosition+i, id)
		if err != nil {
			return err
		}
		if err := expectOneRow(res, "stage "+id); err != nil {
			return err
		}
	}
	return nil
}

func sameIDSet(stages []*models.Stage, ids []string) bool {
	if len(stages) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(stages))
	for _, s := range stages {
		want[s.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}
