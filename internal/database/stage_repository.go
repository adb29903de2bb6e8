package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/etapa/internal/models"
)

// StageRepo handles all stage-related database operations.
type StageRepo struct {
	*store
}

const stageColumns = `id, tenant_id, label, color, position`

func scanStage(sc interface{ Scan(...any) error }) (*models.Stage, error) {
	s := &models.Stage{}
	if err := sc.Scan(&s.ID, &s.TenantID, &s.Label, &s.Color, &s.Position); err != nil {
		return nil, err
	}
	return s, nil
}

// ListColumnsOrdered returns the tenant's live stages in position order, each
// carrying its deals. A tenant without any stage yields models.ErrNotFound,
// which callers treat as an empty board.
func (r *StageRepo) ListColumnsOrdered(ctx context.Context, tenantID string) ([]*models.Stage, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, models.ErrEmptyTenant
	}

	var stages []*models.Stage
	err := r.tx(ctx, func(tx *sql.Tx) error {
		var err error
		stages, err = r.liveStages(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if len(stages) == 0 {
			return fmt.Errorf("board for tenant %s: %w", tenantID, models.ErrNotFound)
		}
		return r.attachDeals(ctx, tx, tenantID, stages)
	})
	if err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *StageRepo) liveStages(ctx context.Context, q querier, tenantID string) ([]*models.Stage, error) {
	rows, err := r.query(ctx, q,
		`SELECT `+stageColumns+` FROM stages
		 WHERE tenant_id = ? AND archived_at IS NULL
		 ORDER BY position`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stages []*models.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		s.Deals = []*models.Deal{}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

// attachDeals loads the deals and tags of every live stage of the tenant
func (r *StageRepo) attachDeals(ctx context.Context, q querier, tenantID string, stages []*models.Stage) error {
	rows, err := r.query(ctx, q,
		`SELECT `+dealColumnsQualified+` FROM deals d
		 JOIN stages s ON s.id = d.stage_id
		 WHERE s.tenant_id = ? AND s.archived_at IS NULL
		 ORDER BY d.created_at, d.id`, tenantID)
	if err != nil {
		return fmt.Errorf("list deals: %w", err)
	}
	byStage := make(map[string]*models.Stage, len(stages))
	for _, s := range stages {
		byStage[s.ID] = s
	}
	byID := make(map[string]*models.Deal)
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			_ = rows.Close()
			return err
		}
		byID[d.ID] = d
		if s := byStage[d.StageID]; s != nil {
			s.Deals = append(s.Deals, d)
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if len(byID) == 0 {
		return nil
	}

	tagRows, err := r.query(ctx, q,
		`SELECT t.deal_id, t.tag FROM deal_tags t
		 JOIN deals d ON d.id = t.deal_id
		 JOIN stages s ON s.id = d.stage_id
		 WHERE s.tenant_id = ? AND s.archived_at IS NULL
		 ORDER BY t.deal_id, t.ord`, tenantID)
	if err != nil {
		return fmt.Errorf("list deal tags: %w", err)
	}
	defer func() { _ = tagRows.Close() }()
	for tagRows.Next() {
		var dealID, tag string
		if err := tagRows.Scan(&dealID, &tag); err != nil {
			return err
		}
		if d := byID[dealID]; d != nil {
			d.Tags = append(d.Tags, tag)
		}
	}
	return tagRows.Err()
}

// getLiveStage loads a non-archived stage without its deals
func (r *StageRepo) getLiveStage(ctx context.Context, q querier, stageID string) (*models.Stage, error) {
	s, err := scanStage(r.queryRow(ctx, q,
		`SELECT `+stageColumns+` FROM stages WHERE id = ? AND archived_at IS NULL`, stageID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stage %s: %w", stageID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get stage %s: %w", stageID, err)
	}
	return s, nil
}

// labelTaken reports whether another live stage of the tenant uses label
func (r *StageRepo) labelTaken(ctx context.Context, q querier, tenantID, label, exceptID string) (bool, error) {
	var n int
	err := r.queryRow(ctx, q,
		`SELECT COUNT(*) FROM stages
		 WHERE tenant_id = ? AND label = ? AND id <> ? AND archived_at IS NULL`,
		tenantID, label, exceptID).Scan(&n)
	return n > 0, err
}

// CreateColumn appends a stage at max(position)+1, or 1 on an empty board
func (r *StageRepo) CreateColumn(ctx context.Context, tenantID, label, color string) (*models.Stage, error) {
	label = strings.TrimSpace(label)
	if strings.TrimSpace(tenantID) == "" {
		return nil, models.ErrEmptyTenant
	}
	if err := models.ValidateLabel(label); err != nil {
		return nil, err
	}
	if err := models.ValidateColor(color); err != nil {
		return nil, err
	}

	stage := &models.Stage{ID: r.newID(), TenantID: tenantID, Label: label, Color: color, Deals: []*models.Deal{}}
	err := r.tx(ctx, func(tx *sql.Tx) error {
		taken, err := r.labelTaken(ctx, tx, tenantID, label, "")
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("stage label %q: %w", label, models.ErrConflict)
		}

		var maxPos int
		if err := r.queryRow(ctx, tx,
			`SELECT COALESCE(MAX(position), 0) FROM stages WHERE tenant_id = ? AND archived_at IS NULL`,
			tenantID).Scan(&maxPos); err != nil {
			return err
		}
		stage.Position = maxPos + 1

		_, err = r.exec(ctx, tx,
			`INSERT INTO stages (id, tenant_id, label, color, position, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			stage.ID, tenantID, label, color, stage.Position, r.now())
		return err
	})
	if err != nil {
		return nil, classifyWrite("create stage", err)
	}

	r.logger.Debug("stage created", "tenant", tenantID, "stage", stage.ID, "position", stage.Position)
	return stage, nil
}

// RenameColumn changes a stage's label and color. The returned stage does not
// carry its deals.
func (r *StageRepo) RenameColumn(ctx context.Context, stageID, label, color string) (*models.Stage, error) {
	label = strings.TrimSpace(label)
	if err := models.ValidateLabel(label); err != nil {
		return nil, err
	}
	if err := models.ValidateColor(color); err != nil {
		return nil, err
	}

	var stage *models.Stage
	err := r.tx(ctx, func(tx *sql.Tx) error {
		var err error
		stage, err = r.getLiveStage(ctx, tx, stageID)
		if err != nil {
			return err
		}
		taken, err := r.labelTaken(ctx, tx, stage.TenantID, label, stageID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("stage label %q: %w", label, models.ErrConflict)
		}
		if _, err := r.exec(ctx, tx, `UPDATE stages SET label = ?, color = ? WHERE id = ?`, label, color, stageID); err != nil {
			return err
		}
		stage.Label = label
		stage.Color = color
		return nil
	})
	if err != nil {
		return nil, classifyWrite("rename stage", err)
	}
	return stage, nil
}

// ArchiveColumn soft-deletes a stage. Its deals are deleted or appended to the
// first remaining stage depending on the archive policy.
func (r *StageRepo) ArchiveColumn(ctx context.Context, stageID string) error {
	err := r.tx(ctx, func(tx *sql.Tx) error {
		stage, err := r.getLiveStage(ctx, tx, stageID)
		if err != nil {
			return err
		}
		now := r.now()

		heir := ""
		if r.policy == models.ArchiveReassignDeals {
			err := r.queryRow(ctx, tx,
				`SELECT id FROM stages
				 WHERE tenant_id = ? AND id <> ? AND archived_at IS NULL
				 ORDER BY position LIMIT 1`, stage.TenantID, stageID).Scan(&heir)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}

		if heir != "" {
			_, err = r.exec(ctx, tx, `UPDATE deals SET stage_id = ?, updated_at = ? WHERE stage_id = ?`, heir, now, stageID)
		} else {
			_, err = r.exec(ctx, tx, `DELETE FROM deals WHERE stage_id = ?`, stageID)
		}
		if err != nil {
			return err
		}

		_, err = r.exec(ctx, tx, `UPDATE stages SET archived_at = ? WHERE id = ?`, now, stageID)
		if err == nil {
			r.logger.Debug("stage archived", "tenant", stage.TenantID, "stage", stageID, "heir", heir)
		}
		return err
	})
	return classifyWrite("archive stage", err)
}

// StageTenant returns the tenant owning a live stage
func (r *StageRepo) StageTenant(ctx context.Context, stageID string) (string, error) {
	s, err := r.getLiveStage(ctx, r.db, stageID)
	if err != nil {
		return "", err
	}
	return s.TenantID, nil
}
