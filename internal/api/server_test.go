package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/database"
	"github.com/thenoetrevino/etapa/internal/metrics"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/notify"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type testEnv struct {
	repo   *database.Repository
	server *httptest.Server
	reg    *prometheus.Registry
}

func setupServer(t *testing.T, opts ...ServerOption) *testEnv {
	t.Helper()

	db, err := database.Open(context.Background(), database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := database.NewRepository(db)

	reg := prometheus.NewRegistry()
	opts = append([]ServerOption{WithMetrics(metrics.New(reg), reg)}, opts...)
	srv := httptest.NewServer(NewServer(repo, opts...).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{repo: repo, server: srv, reg: reg}
}

func (e *testEnv) client(t *testing.T, opts ...ClientOption) *Client {
	t.Helper()
	c, err := NewClient(e.server.URL, opts...)
	require.NoError(t, err)
	return c
}

func (e *testEnv) seed(t *testing.T, tenant string, labels ...string) []*models.Stage {
	t.Helper()
	out := make([]*models.Stage, len(labels))
	for i, l := range labels {
		s, err := e.repo.CreateColumn(context.Background(), tenant, l, "")
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func request(t *testing.T, method, url, token, body string) (*http.Response, ErrorBody) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var envelope ErrorBody
	if resp.StatusCode >= http.StatusBadRequest {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp, envelope
}

// ============================================================================
// ROUND TRIP TESTS
// ============================================================================

func TestHealth(t *testing.T) {
	t.Parallel()
	env := setupServer(t)

	require.NoError(t, env.client(t).Health(context.Background()))
}

func TestClientStageRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := setupServer(t)
	c := env.client(t)

	for _, label := range []string{"Nouveau", "Qualifié", "Gagné"} {
		_, err := c.CreateColumn(ctx, "acme", label, "")
		require.NoError(t, err)
	}

	stages, err := c.ListColumnsOrdered(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, "Nouveau", stages[0].Label)
	assert.Equal(t, 1, stages[0].Position)

	require.NoError(t, c.SwapPositions(ctx, "acme", 1, 2))
	require.NoError(t, c.RenumberPositions(ctx, "acme", []string{stages[2].ID, stages[0].ID, stages[1].ID}))

	stages, err = c.ListColumnsOrdered(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gagné", "Nouveau", "Qualifié"}, []string{stages[0].Label, stages[1].Label, stages[2].Label})

	renamed, err := c.RenameColumn(ctx, stages[0].ID, "Signé", "#00FF00")
	require.NoError(t, err)
	assert.Equal(t, "Signé", renamed.Label)

	require.NoError(t, c.ArchiveColumn(ctx, stages[1].ID))
	require.NoError(t, c.CompactPositions(ctx, "acme"))

	stages, err = c.ListColumnsOrdered(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, []int{1, 2}, []int{stages[0].Position, stages[1].Position})
}

func TestClientDealRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := setupServer(t)
	stages := env.seed(t, "acme", "Nouveau", "Qualifié")
	c := env.client(t)

	deal, err := c.CreateCard(ctx, stages[0].ID, models.DealDraft{Title: "Contrat Dupont", Amount: 120000, Tags: []string{"b2b"}})
	require.NoError(t, err)
	assert.Equal(t, stages[0].ID, deal.StageID)

	moved, err := c.MoveCard(ctx, deal.ID, stages[1].ID)
	require.NoError(t, err)
	assert.Equal(t, stages[1].ID, moved.StageID)

	got, err := c.GetCard(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contrat Dupont", got.Title)
	assert.Equal(t, int64(120000), got.Amount)
	assert.Equal(t, []string{"b2b"}, got.Tags)

	require.NoError(t, c.DeleteCard(ctx, deal.ID))
	_, err = c.GetCard(ctx, deal.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// ERROR MAPPING TESTS
// ============================================================================

func TestClientMapsFailureKinds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := setupServer(t)
	env.seed(t, "acme", "Nouveau", "Qualifié")
	c := env.client(t)

	_, err := c.ListColumnsOrdered(ctx, "globex")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = c.CreateColumn(ctx, "acme", "Nouveau", "")
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.True(t, models.IsRetryable(err))

	_, err = c.CreateColumn(ctx, "acme", "", "")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	err = c.SwapPositions(ctx, "acme", 1, 7)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = c.RenumberPositions(ctx, "acme", []string{"nope"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = c.MoveCard(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInvalidJSONBody(t *testing.T) {
	t.Parallel()
	env := setupServer(t)

	resp, body := request(t, http.MethodPost, env.server.URL+"/api/tenants/acme/stages", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidArgument, body.Error.Code)
}

func TestTransportFailureIsTransactionFailed(t *testing.T) {
	t.Parallel()
	env := setupServer(t)
	c := env.client(t)
	env.server.Close()

	_, err := c.ListColumnsOrdered(context.Background(), "acme")
	assert.ErrorIs(t, err, models.ErrTransactionFailed)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("not a url")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = NewClient("")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{models.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{models.ErrEmptyLabel, http.StatusBadRequest, CodeInvalidArgument},
		{models.ErrConflict, http.StatusConflict, CodeConflict},
		{models.ErrTransactionFailed, http.StatusServiceUnavailable, CodeTransactionFailed},
		{models.ErrUnauthorized, http.StatusForbidden, CodeUnauthorized},
		{io.EOF, http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := mapError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

// ============================================================================
// AUTH TESTS
// ============================================================================

func TestBearerTokensScopeTenants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := setupServer(t, WithTokens(Tokens{
		"acme-token": {"acme"},
		"admin":      {Wildcard},
	}))
	acmeStages := env.seed(t, "acme", "Nouveau")
	globexStages := env.seed(t, "globex", "Lead")

	resp, body := request(t, http.MethodGet, env.server.URL+"/api/tenants/acme/board", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, CodeUnauthorized, body.Error.Code)

	acme := env.client(t, WithToken("acme-token"))
	_, err := acme.ListColumnsOrdered(ctx, "acme")
	require.NoError(t, err)

	_, err = acme.ListColumnsOrdered(ctx, "globex")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	err = acme.ArchiveColumn(ctx, globexStages[0].ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = acme.RenameColumn(ctx, "missing", "X", "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	stranger := env.client(t, WithToken("nope"))
	_, err = stranger.RenameColumn(ctx, acmeStages[0].ID, "X", "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	admin := env.client(t, WithToken("admin"))
	_, err = admin.ListColumnsOrdered(ctx, "globex")
	require.NoError(t, err)
	require.NoError(t, admin.Health(ctx), "health needs no token")
}

func TestTokensAllows(t *testing.T) {
	t.Parallel()

	assert.True(t, Tokens(nil).Allows("", "acme"), "no tokens configured")
	tokens := Tokens{"t": {"acme"}}
	assert.True(t, tokens.Allows("t", "acme"))
	assert.False(t, tokens.Allows("t", "globex"))
	assert.False(t, tokens.Allows("other", "acme"))
}

// ============================================================================
// METRICS TESTS
// ============================================================================

func TestMetricsEndpointCountsRoutes(t *testing.T) {
	t.Parallel()
	env := setupServer(t)
	env.seed(t, "acme", "Nouveau")
	c := env.client(t)

	_, err := c.ListColumnsOrdered(context.Background(), "acme")
	require.NoError(t, err)

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(data), `etapa_http_requests_total{code="200",route="/api/tenants/{tenant}/board"} 1`)
}

// ============================================================================
// CONTROLLER OVER HTTP
// ============================================================================

func TestControllerOverHTTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := setupServer(t)
	stages := env.seed(t, "acme", "Nouveau", "Qualifié", "Gagné")
	deal, err := env.repo.CreateCard(ctx, stages[1].ID, models.DealDraft{Title: "DealX"})
	require.NoError(t, err)

	sink := notify.NewMemorySink()
	ctl, err := board.New("acme", env.client(t), board.WithSink(sink))
	require.NoError(t, err)
	_, err = ctl.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, ctl.MoveCard(ctx, deal.ID, stages[1].ID, 0, stages[0].ID, 0))
	require.NoError(t, ctl.ReorderColumns(ctx, 0, 2))

	stored, err := env.repo.GetCard(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, stages[0].ID, stored.StageID)

	live, err := env.repo.ListColumnsOrdered(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, ctl.Board().StageIDs(), []string{live[0].ID, live[1].ID, live[2].ID})

	// A duplicate label is rejected by the store and rolled back locally
	_, err = ctl.AddColumn(ctx, "Gagné", "")
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Len(t, ctl.Board().Stages, 3)
	assert.Equal(t, 3, sink.Len())
}
