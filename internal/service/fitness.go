package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StepDay is one day of activity data from the fitness provider.
type StepDay struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Steps          int     `json:"steps"`
	CaloriesBurned float64 `json:"calories_burned"`
	DistanceKM     float64 `json:"distance_km"`
}

// FitnessClient pulls step data from an external fitness provider. Missing
// credentials or provider outages degrade to an empty result at the caller;
// step sync is never load-bearing.
type FitnessClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewFitnessClient(apiKey, baseURL string) *FitnessClient {
	return &FitnessClient{APIKey: apiKey, BaseURL: baseURL}
}

// Steps fetches daily step counts for the inclusive date range.
func (c *FitnessClient) Steps(ctx context.Context, externalUserID, from, to string) ([]StepDay, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing fitness provider API key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing fitness provider base URL")
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	q := url.Values{}
	q.Set("user", externalUserID)
	q.Set("from", from)
	q.Set("to", to)
	endpoint := fmt.Sprintf("%s/v1/activity/steps?%s", baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create fitness request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute fitness request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fitness response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fitness request failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		Days []StepDay `json:"days"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode fitness response: %w", err)
	}
	return parsed.Days, nil
}
