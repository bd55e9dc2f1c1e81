package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/plateau"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/volume"
)

// HTTPClient implements DataSource by calling the liftplan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("httpclient: %s: %w: %s", path, coach.ErrInvalid, data)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return fmt.Errorf("httpclient: %s: %w", path, coach.ErrUnavailable)
	case resp.StatusCode >= 300:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func exercisePath(exercise, suffix string) string {
	return "/api/v1/exercises/" + url.PathEscape(exercise) + "/" + suffix
}

func (c *HTTPClient) Target(ctx context.Context, _ int, exercise string, repRange *overload.RepRange) (overload.Target, error) {
	params := url.Values{}
	if repRange != nil {
		params.Set("min", strconv.Itoa(repRange.Min))
		params.Set("max", strconv.Itoa(repRange.Max))
	}
	var t overload.Target
	err := c.do(ctx, http.MethodGet, exercisePath(exercise, "target"), params, nil, &t)
	return t, err
}

func (c *HTTPClient) Plateau(ctx context.Context, _ int, exercise string) (plateau.Result, error) {
	var r plateau.Result
	err := c.do(ctx, http.MethodGet, exercisePath(exercise, "plateau"), nil, nil, &r)
	return r, err
}

func (c *HTTPClient) Landmarks(ctx context.Context) (map[models.MuscleGroup]volume.Landmark, error) {
	var table map[models.MuscleGroup]volume.Landmark
	if err := c.do(ctx, http.MethodGet, "/api/v1/landmarks", nil, nil, &table); err != nil {
		return nil, err
	}
	return table, nil
}

func (c *HTTPClient) VolumeReport(ctx context.Context, _ int) (*coach.VolumeReport, error) {
	var report coach.VolumeReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/volume", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) PreviewPlan(ctx context.Context, _ int, opts coach.PlanOptions) (models.SplitPlan, error) {
	var plan models.SplitPlan
	err := c.do(ctx, http.MethodPost, "/api/v1/splits/preview", nil, opts, &plan)
	return plan, err
}

func (c *HTTPClient) ActivePlan(ctx context.Context, _ int) (*models.SplitPlan, error) {
	var plan models.SplitPlan
	if err := c.do(ctx, http.MethodGet, "/api/v1/splits/active", nil, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *HTTPClient) Expand(ctx context.Context, _ int, req coach.ExpandRequest) (*coach.Expansion, error) {
	var exp coach.Expansion
	if err := c.do(ctx, http.MethodPost, "/api/v1/techniques/expand", nil, req, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}

func (c *HTTPClient) Deload(ctx context.Context, _ int) (*coach.DeloadReport, error) {
	var report coach.DeloadReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/deload", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
