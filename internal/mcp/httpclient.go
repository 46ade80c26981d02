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

	"github.com/claude/volumetric/internal/models"
)

// HTTPClient implements DataSource by calling the Volumetric REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server.
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

func (c *HTTPClient) ListProgression(ctx context.Context, userID, exerciseID, limit int) ([]models.LoadProgressionRecord, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))
	if exerciseID > 0 {
		params.Set("exercise_id", strconv.Itoa(exerciseID))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/progression", params)
	if err != nil {
		return nil, err
	}

	var records []models.LoadProgressionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode progression: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) ListWeeklyVolume(ctx context.Context, userID int, since time.Time) ([]models.WeeklyVolumeRecord, error) {
	weeks := int(time.Since(since).Hours()/(24*7)) + 1
	if weeks < 1 {
		weeks = 1
	}

	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))
	params.Set("weeks", strconv.Itoa(weeks))

	body, err := c.get(ctx, "/api/v1/volume/weekly", params)
	if err != nil {
		return nil, err
	}

	var records []models.WeeklyVolumeRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode weekly volume: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) LandmarksByUser(ctx context.Context, userID int) ([]models.VolumeLandmark, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))

	body, err := c.get(ctx, "/api/v1/landmarks", params)
	if err != nil {
		return nil, err
	}

	var landmarks []models.VolumeLandmark
	if err := json.Unmarshal(body, &landmarks); err != nil {
		return nil, fmt.Errorf("httpclient: decode landmarks: %w", err)
	}
	return landmarks, nil
}

func (c *HTTPClient) ListMuscleGroups(ctx context.Context) ([]models.MuscleGroup, error) {
	body, err := c.get(ctx, "/api/v1/muscle-groups", nil)
	if err != nil {
		return nil, err
	}

	var groups []models.MuscleGroup
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("httpclient: decode muscle groups: %w", err)
	}
	return groups, nil
}
