package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeGrindAPI/internal/analytics"
	"codeGrindAPI/internal/goal"
	"codeGrindAPI/internal/progress"
	"codeGrindAPI/internal/stats"
)

// TokenProvider returns the bearer token for a request, typically a fresh
// Clerk session JWT.
type TokenProvider func(ctx context.Context) (string, error)

// APIClient is a typed client for the dashboard API.
type APIClient struct {
	baseURL string
	http    *http.Client
	token   TokenProvider
}

func NewAPIClient(baseURL string, token TokenProvider) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
}

// NewCachedClient wires an APIClient into a Cache with the default TTL.
func NewCachedClient(baseURL string, token TokenProvider) (*APIClient, *Cache) {
	api := NewAPIClient(baseURL, token)
	cache := NewCache(Fetchers{
		Stats:     api.GetStats,
		Goals:     api.GetGoals,
		Progress:  api.GetProgress,
		Analytics: api.GetAnalytics,
	}, DefaultTTL, time.Now)
	return api, cache
}

func (c *APIClient) GetStats(ctx context.Context) (*stats.UserStats, error) {
	out := &stats.UserStats{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/stats", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) GetGoals(ctx context.Context) ([]goal.Goal, error) {
	var out []goal.Goal
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/goals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) GetProgress(ctx context.Context) (map[string]bool, error) {
	out := map[string]bool{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/progress", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) GetAnalytics(ctx context.Context) (*analytics.Analytics, error) {
	out := &analytics.Analytics{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/analytics", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) ToggleProgress(ctx context.Context, problemID string, solved bool) (*progress.Record, error) {
	req := progress.ToggleRequest{ProblemID: problemID, Solved: solved}
	out := &progress.Record{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/user/progress", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendToggle adapts ToggleProgress to the send signature Cache.ToggleProblem
// expects.
func (c *APIClient) SendToggle(ctx context.Context, problemID string, solved bool) error {
	_, err := c.ToggleProgress(ctx, problemID, solved)
	return err
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get auth token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
