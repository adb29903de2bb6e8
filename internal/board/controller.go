// Package board owns the in-memory pipeline board a user sees. It applies
// every mutation optimistically, calls the store, then commits or rolls back.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/etapa/internal/cache"
	"github.com/thenoetrevino/etapa/internal/metrics"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/notify"
)

// ErrNotLoaded is returned by mutations attempted before Load
var ErrNotLoaded = errors.New("board not loaded")

// Controller is the sole mutator of one tenant's in-memory board. It is safe
// for concurrent use; remote calls run outside the lock.
type Controller struct {
	tenantID     string
	remote       Remote
	cache        *cache.BoardCache
	sink         notify.Sink
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
	policy       models.ArchivePolicy
	adjacentOnly bool

	mu       sync.Mutex
	board    *models.Board
	version  uint64
	seq      int64
	inFlight int
	detached bool
}

// Option configures a Controller
type Option func(*Controller)

// WithCache shares a session-owned cache; by default the controller owns one
func WithCache(c *cache.BoardCache) Option {
	return func(ctl *Controller) { ctl.cache = c }
}

// WithSink sets where success and error notifications go
func WithSink(s notify.Sink) Option {
	return func(ctl *Controller) { ctl.sink = s }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(ctl *Controller) { ctl.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// WithClock replaces the wall clock used for placeholder ids
func WithClock(now func() time.Time) Option {
	return func(ctl *Controller) { ctl.now = now }
}

// WithArchivePolicy must match the store's policy so the optimistic archive
// mirrors what the store does with the deals.
func WithArchivePolicy(p models.ArchivePolicy) Option {
	return func(ctl *Controller) { ctl.policy = p }
}

// WithAdjacentOnly restricts column moves to one step, so every reorder is a
// single position swap.
func WithAdjacentOnly(on bool) Option {
	return func(ctl *Controller) { ctl.adjacentOnly = on }
}

// New creates a controller for tenantID. Call Load before any mutation.
func New(tenantID string, remote Remote, opts ...Option) (*Controller, error) {
	if tenantID == "" {
		return nil, models.ErrEmptyTenant
	}
	c := &Controller{
		tenantID: tenantID,
		remote:   remote,
		logger:   slog.Default(),
		now:      time.Now,
		policy:   models.ArchiveDeleteDeals,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.New(c.metrics)
	}
	if c.sink == nil {
		c.sink = notify.NewLogSink(c.logger)
	}
	return c, nil
}

// TenantID returns the tenant whose board this controller holds
func (c *Controller) TenantID() string {
	return c.tenantID
}

// Load fills the board from the cache, or from the store on a cache miss.
// A tenant without a board yet gets an empty one.
func (c *Controller) Load(ctx context.Context) (*models.Board, error) {
	b, ok := c.cache.Get(c.tenantID)
	if !ok {
		stages, err := c.remote.ListColumnsOrdered(ctx, c.tenantID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			stages = nil
		case err != nil:
			return nil, fmt.Errorf("load board: %w", err)
		}
		b = models.NewBoard(c.tenantID, stages)
		c.cache.Put(c.tenantID, b)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.board = b
	c.version++
	return c.board.Clone(), nil
}

// Refresh drops the cached snapshot and loads the board from the store.
// Callers should wait until InFlight is zero.
func (c *Controller) Refresh(ctx context.Context) (*models.Board, error) {
	c.cache.Discard(c.tenantID)
	return c.Load(ctx)
}

// Board returns a copy of the board as currently shown
func (c *Controller) Board() *models.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Clone()
}

// InFlight returns the number of applied but unresolved operations. The
// controller is idle when it is zero.
func (c *Controller) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Detach marks the view as gone. Operations still in flight keep resolving
// and patching the cache, but no longer notify the user.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached = true
}

// Discard detaches the controller and drops the tenant's cached snapshot,
// for when the user navigates to another tenant.
func (c *Controller) Discard() {
	c.Detach()
	c.cache.Discard(c.tenantID)
}

// ============================================================================
// BEGIN
// ============================================================================

// Begin applies a drag result optimistically and returns the handle that
// reconciles it with the store. A gesture that ends where it started yields
// a nil Pending and no error.
func (c *Controller) Begin(ev MoveEvent) (*Pending, error) {
	switch ev := ev.(type) {
	case CardMove:
		return c.beginCardMove(ev)
	case ColumnMove:
		if ev.IsNoop() {
			return nil, nil
		}
		return c.begin(&columnMoveOp{ev: ev, adjacentOnly: c.adjacentOnly})
	default:
		return nil, fmt.Errorf("%w: unsupported move event %T", models.ErrInvalidArgument, ev)
	}
}

func (c *Controller) beginCardMove(ev CardMove) (*Pending, error) {
	if ev.IsNoop() {
		return nil, nil
	}
	c.mu.Lock()
	if c.board != nil {
		if loc, ok := c.board.LocateDeal(ev.DealID); ok && loc.StageID == ev.ToStageID && loc.Index == ev.ToIndex {
			c.mu.Unlock()
			return nil, nil
		}
	}
	c.mu.Unlock()
	return c.begin(&cardMoveOp{ev: ev})
}

// BeginAddColumn appends a placeholder stage until the store confirms it
func (c *Controller) BeginAddColumn(label, color string) (*Pending, error) {
	if err := models.ValidateLabel(label); err != nil {
		return nil, err
	}
	if err := models.ValidateColor(color); err != nil {
		return nil, err
	}
	return c.beginWithPlaceholder(func(id string) operation {
		return &addColumnOp{label: label, color: color, tempID: id}
	})
}

// BeginArchiveColumn removes a stage, handling its deals per archive policy
func (c *Controller) BeginArchiveColumn(stageID string) (*Pending, error) {
	return c.begin(&archiveColumnOp{stageID: stageID, policy: c.policy})
}

// BeginRenameColumn changes a stage's label and color
func (c *Controller) BeginRenameColumn(stageID, label, color string) (*Pending, error) {
	if err := models.ValidateLabel(label); err != nil {
		return nil, err
	}
	if err := models.ValidateColor(color); err != nil {
		return nil, err
	}
	return c.begin(&renameColumnOp{stageID: stageID, label: label, color: color})
}

// BeginAddCard appends a placeholder deal to a stage until the store confirms it
func (c *Controller) BeginAddCard(stageID string, draft models.DealDraft) (*Pending, error) {
	if err := models.ValidateDraft(draft); err != nil {
		return nil, err
	}
	draft.Tags = models.NormalizeTags(draft.Tags)
	return c.beginWithPlaceholder(func(id string) operation {
		now := c.now().UTC()
		return &addCardOp{stageID: stageID, draft: draft, tempID: id, deal: &models.Deal{
			ID:          id,
			StageID:     stageID,
			Title:       draft.Title,
			Description: draft.Description,
			Amount:      draft.Amount,
			DueDate:     draft.DueDate,
			Tags:        draft.Tags,
			AssigneeID:  draft.AssigneeID,
			ContactID:   draft.ContactID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}}
	})
}

// BeginDeleteCard removes a deal
func (c *Controller) BeginDeleteCard(dealID string) (*Pending, error) {
	return c.begin(&deleteCardOp{dealID: dealID})
}

func (c *Controller) begin(op operation) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(op)
}

// beginWithPlaceholder mints the placeholder id under the same lock that
// applies the operation, so two concurrent adds never share an id.
func (c *Controller) beginWithPlaceholder(build func(id string) operation) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return nil, ErrNotLoaded
	}
	return c.applyLocked(build(c.placeholderIDLocked()))
}

func (c *Controller) applyLocked(op operation) (*Pending, error) {
	if c.board == nil {
		return nil, ErrNotLoaded
	}
	snapshot := c.board.Clone()
	if err := op.apply(c.board); err != nil {
		return nil, fmt.Errorf("%s: %w", op.name(), err)
	}
	c.version++
	c.inFlight++
	return &Pending{
		c:              c,
		op:             op,
		snapshot:       snapshot,
		appliedVersion: c.version,
		state:          OptimisticallyApplied,
	}, nil
}

// placeholderIDLocked returns temp-<unix seconds>, suffixed -2, -3... while
// the id is already taken on the board.
func (c *Controller) placeholderIDLocked() string {
	base := fmt.Sprintf("%s%d", PlaceholderPrefix, c.now().Unix())
	id := base
	for n := 2; c.idTakenLocked(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

func (c *Controller) idTakenLocked(id string) bool {
	if c.board.Stage(id) != nil {
		return true
	}
	_, ok := c.board.LocateDeal(id)
	return ok
}

// ============================================================================
// RESOLVE
// ============================================================================

func (c *Controller) resolve(ctx context.Context, p *Pending) error {
	callErr := p.op.call(ctx, c.remote, c.tenantID)

	c.mu.Lock()
	c.inFlight--
	c.seq++
	n := notify.Notification{
		TenantID:   c.tenantID,
		Op:         p.op.name(),
		Timestamp:  c.now().UTC(),
		SequenceID: c.seq,
	}
	if callErr == nil {
		p.op.commit(c.board)
		c.version++
		p.state = Committed
		c.patchCacheLocked(p.op)
		n.Kind, n.Message = notify.KindSuccess, successMessage(p.op.name())
	} else {
		if c.version == p.appliedVersion {
			// Nothing touched the board since this operation applied
			c.board = p.snapshot
		} else {
			p.op.revert(c.board)
		}
		c.version++
		p.state = RolledBack
		n.Kind, n.Message = notify.KindError, failureMessage(p.op.name(), callErr)
	}
	p.snapshot = nil
	detached := c.detached
	c.mu.Unlock()

	outcome := metrics.OutcomeCommitted
	if callErr != nil {
		outcome = metrics.OutcomeRolledBack
	}
	c.metrics.ObserveMutation(p.op.name(), outcome)
	c.emit(ctx, n, detached)

	if callErr != nil {
		return fmt.Errorf("%s: %w", p.op.name(), callErr)
	}
	return nil
}

// patchCacheLocked mirrors a committed operation into the cached snapshot. A
// snapshot that cannot take the patch has drifted and is dropped so the next
// Load refetches it.
func (c *Controller) patchCacheLocked(op operation) {
	var patchErr error
	found := c.cache.Patch(c.tenantID, func(b *models.Board) {
		patchErr = op.patch(b, c.board)
	})
	if !found {
		return
	}
	if patchErr != nil {
		c.logger.Warn("cache patch failed, discarding snapshot",
			"tenant", c.tenantID,
			"op", op.name(),
			"error", patchErr)
		c.cache.Discard(c.tenantID)
	}
}

func (c *Controller) emit(ctx context.Context, n notify.Notification, detached bool) {
	if detached {
		c.logger.Debug("notification suppressed for detached board",
			"tenant", n.TenantID,
			"op", n.Op,
			"kind", n.Kind,
			"message", n.Message)
		return
	}
	c.metrics.ObserveNotification(string(n.Kind))
	if err := notify.PublishWithRetry(ctx, c.sink, n, 3); err != nil {
		c.logger.Warn("notification lost", "tenant", n.TenantID, "op", n.Op, "error", err)
	}
}
