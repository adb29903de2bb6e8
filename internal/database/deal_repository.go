package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/etapa/internal/models"
)

// DealRepo handles all deal-related database operations.
type DealRepo struct {
	*store
}

const dealColumnsQualified = `d.id, d.stage_id, d.title, d.description, d.amount, d.due_date,
	d.assignee_id, d.contact_id, d.created_at, d.updated_at`

func scanDeal(sc interface{ Scan(...any) error }) (*models.Deal, error) {
	d := &models.Deal{Tags: []string{}}
	var due sql.NullTime
	if err := sc.Scan(&d.ID, &d.StageID, &d.Title, &d.Description, &d.Amount, &due,
		&d.AssigneeID, &d.ContactID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.DueDate = nullTimeToPtr(due)
	return d, nil
}

// getDeal loads one deal with its tags
func (r *DealRepo) getDeal(ctx context.Context, q querier, dealID string) (*models.Deal, error) {
	d, err := scanDeal(r.queryRow(ctx, q, `SELECT `+dealColumnsQualified+` FROM deals d WHERE d.id = ?`, dealID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deal %s: %w", dealID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deal %s: %w", dealID, err)
	}

	rows, err := r.query(ctx, q, `SELECT tag FROM deal_tags WHERE deal_id = ? ORDER BY ord`, dealID)
	if err != nil {
		return nil, fmt.Errorf("get deal tags: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		d.Tags = append(d.Tags, tag)
	}
	return d, rows.Err()
}

// liveStageTenant returns the tenant of a non-archived stage
func (r *DealRepo) liveStageTenant(ctx context.Context, q querier, stageID string) (string, error) {
	var tenant string
	err := r.queryRow(ctx, q, `SELECT tenant_id FROM stages WHERE id = ? AND archived_at IS NULL`, stageID).Scan(&tenant)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("stage %s: %w", stageID, models.ErrNotFound)
	}
	return tenant, err
}

func (r *DealRepo) dealTenant(ctx context.Context, q querier, dealID string) (string, error) {
	var tenant string
	err := r.queryRow(ctx, q,
		`SELECT s.tenant_id FROM deals d JOIN stages s ON s.id = d.stage_id WHERE d.id = ?`, dealID).Scan(&tenant)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("deal %s: %w", dealID, models.ErrNotFound)
	}
	return tenant, err
}

// CreateCard inserts a deal at the end of a live stage
func (r *DealRepo) CreateCard(ctx context.Context, stageID string, draft models.DealDraft) (*models.Deal, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if err := models.ValidateDraft(draft); err != nil {
		return nil, err
	}
	tags := models.NormalizeTags(draft.Tags)
	now := r.now()
	deal := &models.Deal{
		ID:          r.newID(),
		StageID:     stageID,
		Title:       draft.Title,
		Description: draft.Description,
		Amount:      draft.Amount,
		DueDate:     draft.DueDate,
		Tags:        tags,
		AssigneeID:  draft.AssigneeID,
		ContactID:   draft.ContactID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.tx(ctx, func(tx *sql.Tx) error {
		if _, err := r.liveStageTenant(ctx, tx, stageID); err != nil {
			return err
		}
		if _, err := r.exec(ctx, tx,
			`INSERT INTO deals (id, stage_id, title, description, amount, due_date, assignee_id, contact_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			deal.ID, stageID, deal.Title, deal.Description, deal.Amount, timeOrNil(deal.DueDate),
			deal.AssigneeID, deal.ContactID, now, now); err != nil {
			return err
		}
		for i, tag := range tags {
			if _, err := r.exec(ctx, tx, `INSERT INTO deal_tags (deal_id, tag, ord) VALUES (?, ?, ?)`, deal.ID, tag, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classifyWrite("create deal", err)
	}
	return deal, nil
}

// MoveCard reassigns a deal to another live stage of the same tenant
func (r *DealRepo) MoveCard(ctx context.Context, dealID, targetStageID string) (*models.Deal, error) {
	var deal *models.Deal
	err := r.tx(ctx, func(tx *sql.Tx) error {
		from, err := r.dealTenant(ctx, tx, dealID)
		if err != nil {
			return err
		}
		to, err := r.liveStageTenant(ctx, tx, targetStageID)
		if err != nil {
			return err
		}
		if from != to {
			return fmt.Errorf("stage %s in tenant %s: %w", targetStageID, from, models.ErrNotFound)
		}
		if _, err := r.exec(ctx, tx, `UPDATE deals SET stage_id = ?, updated_at = ? WHERE id = ?`,
			targetStageID, r.now(), dealID); err != nil {
			return err
		}
		deal, err = r.getDeal(ctx, tx, dealID)
		return err
	})
	if err != nil {
		return nil, classifyWrite("move deal", err)
	}
	return deal, nil
}

// DeleteCard removes a deal and its tags
func (r *DealRepo) DeleteCard(ctx context.Context, dealID string) error {
	res, err := r.exec(ctx, r.db, `DELETE FROM deals WHERE id = ?`, dealID)
	if err != nil {
		return classifyWrite("delete deal", err)
	}
	return expectOneRow(res, "deal "+dealID)
}

// GetCard loads a deal with its tags
func (r *DealRepo) GetCard(ctx context.Context, dealID string) (*models.Deal, error) {
	return r.getDeal(ctx, r.db, dealID)
}

// DealTenant returns the tenant whose board holds the deal
func (r *DealRepo) DealTenant(ctx context.Context, dealID string) (string, error) {
	return r.dealTenant(ctx, r.db, dealID)
}
