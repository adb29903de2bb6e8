package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/thenoetrevino/etapa/internal/models"
)

// fakeRemote records every call and fails the methods listed in errs
type fakeRemote struct {
	mu      sync.Mutex
	tenant  string
	stages  []*models.Stage
	listErr error
	errs    map[string]error
	calls   []string
	created *models.Stage
	nextID  int
}

func newFakeRemote(tenant string, stages ...*models.Stage) *fakeRemote {
	return &fakeRemote{tenant: tenant, stages: stages, errs: map[string]error{}}
}

func (f *fakeRemote) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeRemote) record(method, call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.errs[method]
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) ListColumnsOrdered(_ context.Context, tenantID string) ([]*models.Stage, error) {
	if err := f.record("ListColumnsOrdered", "ListColumnsOrdered("+tenantID+")"); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Stage, len(f.stages))
	for i, s := range f.stages {
		out[i] = s.Clone()
	}
	return out, nil
}

func (f *fakeRemote) CreateColumn(_ context.Context, tenantID, label, color string) (*models.Stage, error) {
	if err := f.record("CreateColumn", fmt.Sprintf("CreateColumn(%s,%s)", tenantID, label)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.created != nil {
		return f.created.Clone(), nil
	}
	f.nextID++
	return &models.Stage{ID: fmt.Sprintf("col-%d", f.nextID), TenantID: tenantID, Label: label, Color: color, Position: 100 + f.nextID}, nil
}

func (f *fakeRemote) RenameColumn(_ context.Context, stageID, label, color string) (*models.Stage, error) {
	if err := f.record("RenameColumn", fmt.Sprintf("RenameColumn(%s,%s)", stageID, label)); err != nil {
		return nil, err
	}
	return &models.Stage{ID: stageID, TenantID: f.tenant, Label: label, Color: color}, nil
}

func (f *fakeRemote) ArchiveColumn(_ context.Context, stageID string) error {
	return f.record("ArchiveColumn", "ArchiveColumn("+stageID+")")
}

func (f *fakeRemote) MoveCard(_ context.Context, dealID, targetStageID string) (*models.Deal, error) {
	if err := f.record("MoveCard", fmt.Sprintf("MoveCard(%s,%s)", dealID, targetStageID)); err != nil {
		return nil, err
	}
	return &models.Deal{ID: dealID, StageID: targetStageID}, nil
}

func (f *fakeRemote) CreateCard(_ context.Context, stageID string, draft models.DealDraft) (*models.Deal, error) {
	if err := f.record("CreateCard", fmt.Sprintf("CreateCard(%s,%s)", stageID, draft.Title)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return &models.Deal{
		ID:      fmt.Sprintf("deal-%d", f.nextID),
		StageID: stageID,
		Title:   draft.Title,
		Amount:  draft.Amount,
		Tags:    models.NormalizeTags(draft.Tags),
	}, nil
}

func (f *fakeRemote) DeleteCard(_ context.Context, dealID string) error {
	return f.record("DeleteCard", "DeleteCard("+dealID+")")
}

func (f *fakeRemote) SwapPositions(_ context.Context, tenantID string, a, b int) error {
	return f.record("SwapPositions", fmt.Sprintf("SwapPositions(%s,%d,%d)", tenantID, a, b))
}

func (f *fakeRemote) RenumberPositions(_ context.Context, tenantID string, ids []string) error {
	return f.record("RenumberPositions", fmt.Sprintf("RenumberPositions(%s,%v)", tenantID, ids))
}

var _ Remote = (*fakeRemote)(nil)
