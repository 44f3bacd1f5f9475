package api

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

	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/store"
)

const clientTimeout = 10 * time.Second

// Client talks to a wordwise server. It satisfies the same repository
// interfaces as the SQLite store.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListQuestions fetches questions.
func (c *Client) ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error) {
	q := url.Values{}
	if filter.Difficulty != "" {
		q.Set("difficulty", string(filter.Difficulty))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var out []model.Question
	if err := c.do(ctx, http.MethodGet, withQuery("/api/questions", q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountQuestions returns the number of stored questions.
func (c *Client) CountQuestions(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/questions/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// GetQuestion fetches one question.
func (c *Client) GetQuestion(ctx context.Context, id int64) (model.Question, error) {
	var out model.Question
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/questions/%d", id), nil, &out)
	return out, err
}

// CreateQuestion stores a question remotely.
func (c *Client) CreateQuestion(ctx context.Context, q model.Question) (int64, error) {
	var out model.Question
	if err := c.do(ctx, http.MethodPost, "/api/questions", q, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateQuestion replaces a question remotely.
func (c *Client) UpdateQuestion(ctx context.Context, q model.Question) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/questions/%d", q.ID), q, nil)
}

// DeleteQuestion removes a question remotely.
func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/questions/%d", id), nil, nil)
}

// InsertResult stores a snapshot remotely.
func (c *Client) InsertResult(ctx context.Context, snap model.Snapshot) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/results", snap, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// GetResult fetches one snapshot.
func (c *Client) GetResult(ctx context.Context, id int64) (model.Snapshot, error) {
	var out model.Snapshot
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/results/%d", id), nil, &out)
	return out, err
}

// ListResults fetches snapshots newest first.
func (c *Client) ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.Snapshot, error) {
	var out []model.Snapshot
	if err := c.do(ctx, http.MethodGet, withQuery("/api/results", historyValues(cfg)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateResult overwrites a snapshot remotely.
func (c *Client) UpdateResult(ctx context.Context, snap model.Snapshot) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/results/%d", snap.ID), snap, nil)
}

// DeleteResult removes a snapshot remotely.
func (c *Client) DeleteResult(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/results/%d", id), nil, nil)
}

// Stats fetches aggregated stats for a user.
func (c *Client) Stats(ctx context.Context, userID string) (model.UserStats, error) {
	var out model.UserStats
	err := c.do(ctx, http.MethodGet, withQuery("/api/stats", historyValues(model.HistoryConfig{UserID: userID})), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.baseURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&apiErr); derr != nil || apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s %s", store.ErrNotFound, method, path)
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func historyValues(cfg model.HistoryConfig) url.Values {
	q := url.Values{}
	if cfg.UserID != "" {
		q.Set("user_id", cfg.UserID)
	}
	if cfg.Difficulty != "" {
		q.Set("difficulty", string(cfg.Difficulty))
	}
	if cfg.Last > 0 {
		q.Set("last", strconv.Itoa(cfg.Last))
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
