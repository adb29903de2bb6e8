package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client reaches a Server over HTTP. It implements board.Remote, so the
// controller can run against a shared server instead of a local database.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ board.Remote = (*Client)(nil)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithToken sends token as a bearer token
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid api base url %q", models.ErrInvalidArgument, baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListColumnsOrdered(ctx context.Context, tenantID string) ([]*models.Stage, error) {
	var stages []*models.Stage
	err := c.do(ctx, http.MethodGet, tenantPath(tenantID, "board"), nil, &stages)
	return stages, err
}

func (c *Client) CreateColumn(ctx context.Context, tenantID, label, color string) (*models.Stage, error) {
	var stage models.Stage
	if err := c.do(ctx, http.MethodPost, tenantPath(tenantID, "stages"), columnRequest{Label: label, Color: color}, &stage); err != nil {
		return nil, err
	}
	return &stage, nil
}

func (c *Client) RenameColumn(ctx context.Context, stageID, label, color string) (*models.Stage, error) {
	var stage models.Stage
	if err := c.do(ctx, http.MethodPatch, "/api/stages/"+url.PathEscape(stageID), columnRequest{Label: label, Color: color}, &stage); err != nil {
		return nil, err
	}
	return &stage, nil
}

func (c *Client) ArchiveColumn(ctx context.Context, stageID string) error {
	return c.do(ctx, http.MethodDelete, "/api/stages/"+url.PathEscape(stageID), nil, nil)
}

func (c *Client) SwapPositions(ctx context.Context, tenantID string, positionA, positionB int) error {
	return c.do(ctx, http.MethodPost, tenantPath(tenantID, "stages/swap"), swapRequest{PositionA: positionA, PositionB: positionB}, nil)
}

func (c *Client) RenumberPositions(ctx context.Context, tenantID string, orderedStageIDs []string) error {
	return c.do(ctx, http.MethodPut, tenantPath(tenantID, "stages/order"), orderRequest{StageIDs: orderedStageIDs}, nil)
}

// CompactPositions closes gaps in a tenant's stage positions
func (c *Client) CompactPositions(ctx context.Context, tenantID string) error {
	return c.do(ctx, http.MethodPost, tenantPath(tenantID, "stages/compact"), nil, nil)
}

func (c *Client) CreateCard(ctx context.Context, stageID string, draft models.DealDraft) (*models.Deal, error) {
	var deal models.Deal
	if err := c.do(ctx, http.MethodPost, "/api/stages/"+url.PathEscape(stageID)+"/deals", draft, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

func (c *Client) MoveCard(ctx context.Context, dealID, targetStageID string) (*models.Deal, error) {
	var deal models.Deal
	if err := c.do(ctx, http.MethodPost, "/api/deals/"+url.PathEscape(dealID)+"/move", moveRequest{StageID: targetStageID}, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

func (c *Client) DeleteCard(ctx context.Context, dealID string) error {
	return c.do(ctx, http.MethodDelete, "/api/deals/"+url.PathEscape(dealID), nil, nil)
}

// GetCard fetches one deal with its tags
func (c *Client) GetCard(ctx context.Context, dealID string) (*models.Deal, error) {
	var deal models.Deal
	if err := c.do(ctx, http.MethodGet, "/api/deals/"+url.PathEscape(dealID), nil, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// Health checks that the server answers
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func tenantPath(tenantID, rest string) string {
	return "/api/tenants/" + url.PathEscape(tenantID) + "/" + rest
}

// do sends one request. A transport failure is reported as
// models.ErrTransactionFailed; an error envelope maps back to its kind.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, models.ErrTransactionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope ErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return fmt.Errorf("%s %s: %w", method, path, errorFromBody(resp.StatusCode, envelope))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
