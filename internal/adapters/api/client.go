// Package api is the HTTP adapter for the remote session-record store. It
// maps transport responses onto the closed outcome variants the sync engine
// branches on, so no status-code inspection leaks upward.
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

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const (
	sessionsPath       = "/v1/sessions"
	maxResponseBytes   = 4 << 20
	defaultCallTimeout = 30 * time.Second
)

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.SessionAPI = (*Client)(nil)

type recordPayload struct {
	ClientID        string    `json:"clientId"`
	LessonID        string    `json:"lessonId"`
	LessonTitle     string    `json:"lessonTitle"`
	RunID           string    `json:"runId,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	PlannedSeconds  int       `json:"plannedSeconds"`
	DurationSeconds int       `json:"durationSeconds"`
	Speed           float64   `json:"speed"`
	Finished        bool      `json:"finished"`
	Segments        int       `json:"segments"`
}

type recordResponse struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"clientId"`
	LessonID        string    `json:"lessonId"`
	LessonTitle     string    `json:"lessonTitle"`
	RunID           string    `json:"runId"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	PlannedSeconds  int       `json:"plannedSeconds"`
	DurationSeconds int       `json:"durationSeconds"`
	Speed           float64   `json:"speed"`
	Finished        bool      `json:"finished"`
	Segments        int       `json:"segments"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type listResponse struct {
	Sessions []recordResponse `json:"sessions"`
}

func (c *Client) List(ctx context.Context, token string, limit int) ports.FetchOutcome {
	endpoint, err := c.endpoint(sessionsPath)
	if err != nil {
		return ports.FetchOutcome{Status: ports.FetchError, Err: err}
	}
	if limit > 0 {
		endpoint += "?" + url.Values{"limit": {strconv.Itoa(limit)}, "order": {"newest"}}.Encode()
	}

	resp, err := c.do(ctx, token, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.FetchOutcome{Status: ports.FetchError, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ports.FetchOutcome{Status: ports.FetchUnauthorized, StatusCode: resp.StatusCode}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return ports.FetchOutcome{
			Status:     ports.FetchError,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("list sessions: unexpected status %d", resp.StatusCode),
		}
	}

	var payload listResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return ports.FetchOutcome{Status: ports.FetchError, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode session list: %w", err)}
	}

	records := make([]domain.SessionRecord, 0, len(payload.Sessions))
	for _, entry := range payload.Sessions {
		records = append(records, fromResponse(entry))
	}

	return ports.FetchOutcome{Status: ports.FetchOK, StatusCode: resp.StatusCode, Records: records}
}

func (c *Client) Create(ctx context.Context, token string, record domain.SessionRecord) ports.PushOutcome {
	endpoint, err := c.endpoint(sessionsPath)
	if err != nil {
		return ports.PushOutcome{Status: ports.PushError, Err: err}
	}

	return c.push(ctx, token, http.MethodPost, endpoint, record)
}

func (c *Client) Update(ctx context.Context, token string, record domain.SessionRecord) ports.PushOutcome {
	endpoint, err := c.endpoint(sessionsPath + "/" + url.PathEscape(string(record.ServerID)))
	if err != nil {
		return ports.PushOutcome{Status: ports.PushError, Err: err}
	}

	return c.push(ctx, token, http.MethodPut, endpoint, record)
}

func (c *Client) push(ctx context.Context, token, method, endpoint string, record domain.SessionRecord) ports.PushOutcome {
	body, err := json.Marshal(toPayload(record))
	if err != nil {
		return ports.PushOutcome{Status: ports.PushError, Err: fmt.Errorf("encode session payload: %w", err)}
	}

	resp, err := c.do(ctx, token, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.PushOutcome{Status: ports.PushError, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ports.PushOutcome{Status: ports.PushUnauthorized, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return ports.PushOutcome{Status: ports.PushNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return ports.PushOutcome{
			Status:     ports.PushError,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("push session: unexpected status %d", resp.StatusCode),
		}
	}

	var payload recordResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return ports.PushOutcome{Status: ports.PushError, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode push response: %w", err)}
	}
	if payload.ID == "" {
		return ports.PushOutcome{Status: ports.PushError, StatusCode: resp.StatusCode, Err: fmt.Errorf("push response missing server id")}
	}

	return ports.PushOutcome{
		Status:     ports.PushOK,
		StatusCode: resp.StatusCode,
		ServerID:   domain.ServerID(payload.ID),
		UpdatedAt:  payload.UpdatedAt,
	}
}

func (c *Client) Delete(ctx context.Context, token string, serverID domain.ServerID) ports.DeleteOutcome {
	endpoint, err := c.endpoint(sessionsPath + "/" + url.PathEscape(string(serverID)))
	if err != nil {
		return ports.DeleteOutcome{Status: ports.DeleteError, Err: err}
	}

	return c.delete(ctx, token, endpoint, false)
}

func (c *Client) DeleteAll(ctx context.Context, token string) ports.DeleteOutcome {
	endpoint, err := c.endpoint(sessionsPath)
	if err != nil {
		return ports.DeleteOutcome{Status: ports.DeleteError, Err: err}
	}

	return c.delete(ctx, token, endpoint, true)
}

func (c *Client) delete(ctx context.Context, token, endpoint string, bulk bool) ports.DeleteOutcome {
	resp, err := c.do(ctx, token, http.MethodDelete, endpoint, nil)
	if err != nil {
		return ports.DeleteOutcome{Status: ports.DeleteError, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ports.DeleteOutcome{Status: ports.DeleteUnauthorized, StatusCode: resp.StatusCode}
	case bulk && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed):
		// The bulk endpoint is optional server-side.
		return ports.DeleteOutcome{Status: ports.DeleteUnsupported, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return ports.DeleteOutcome{Status: ports.DeleteNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return ports.DeleteOutcome{
			Status:     ports.DeleteError,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("delete session: unexpected status %d", resp.StatusCode),
		}
	}

	return ports.DeleteOutcome{Status: ports.DeleteOK, StatusCode: resp.StatusCode}
}

func (c *Client) do(ctx context.Context, token, method, endpoint string, body io.Reader) (*http.Response, error) {
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	requestCtx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) endpoint(path string) (string, error) {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		return "", fmt.Errorf("api base url is empty")
	}
	return base + path, nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func toPayload(rec domain.SessionRecord) recordPayload {
	return recordPayload{
		ClientID:        string(rec.ID),
		LessonID:        rec.LessonID,
		LessonTitle:     rec.LessonTitle,
		RunID:           rec.RunID,
		StartedAt:       rec.StartedAt,
		EndedAt:         rec.EndedAt,
		PlannedSeconds:  rec.PlannedSeconds,
		DurationSeconds: rec.DurationSeconds,
		Speed:           rec.Speed,
		Finished:        rec.Finished,
		Segments:        rec.Segments,
	}
}

func fromResponse(entry recordResponse) domain.SessionRecord {
	id := entry.ClientID
	if id == "" {
		// Records created outside this client have no client id; the server
		// id doubles as the merge key so they still reconcile stably.
		id = entry.ID
	}

	return domain.SessionRecord{
		ID:              domain.RecordID(id),
		ServerID:        domain.ServerID(entry.ID),
		LessonID:        entry.LessonID,
		LessonTitle:     entry.LessonTitle,
		RunID:           entry.RunID,
		StartedAt:       entry.StartedAt,
		EndedAt:         entry.EndedAt,
		PlannedSeconds:  entry.PlannedSeconds,
		DurationSeconds: entry.DurationSeconds,
		Speed:           entry.Speed,
		Finished:        entry.Finished,
		Segments:        entry.Segments,
		RemoteUpdatedAt: entry.UpdatedAt,
	}
}
