package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/trainload/internal/mesocycle"
	"github.com/claude/trainload/internal/models"
)

// HTTPClient implements DataSource by calling the TrainLoad REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The server
// derives the user from the connection identity, so the userID argument
// is ignored.
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

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) RecentWorkoutLogs(ctx context.Context, _ int, weeks int, _ time.Time) ([]models.WorkoutLog, error) {
	params := url.Values{}
	params.Set("weeks", strconv.Itoa(weeks))

	body, err := c.get(ctx, "/api/v1/logs", params)
	if err != nil {
		return nil, err
	}

	var logs []models.WorkoutLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode logs: %w", err)
	}
	return logs, nil
}

func (c *HTTPClient) CurrentProgram(ctx context.Context, _ int) (*models.Program, error) {
	body, err := c.get(ctx, "/api/v1/programs/current", nil)
	if err != nil {
		return nil, err
	}

	var p models.Program
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return &p, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, _ int) (models.UserProfile, error) {
	body, err := c.get(ctx, "/api/v1/profile", nil)
	if err != nil {
		return models.UserProfile{}, err
	}

	var p models.UserProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return models.UserProfile{}, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return p, nil
}

func (c *HTTPClient) GetMesocycle(ctx context.Context, _ int, _ time.Time) (mesocycle.State, error) {
	body, err := c.get(ctx, "/api/v1/mesocycle", nil)
	if err != nil {
		return mesocycle.State{}, err
	}

	var s mesocycle.State
	if err := json.Unmarshal(body, &s); err != nil {
		return mesocycle.State{}, fmt.Errorf("httpclient: decode mesocycle: %w", err)
	}
	return s, nil
}
