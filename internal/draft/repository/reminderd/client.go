package reminderd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is the HTTP wrapper for the reminder store REST API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a new reminder store HTTP client.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{},
	}
}

// CreateReminder creates a new reminder via POST /api/v1/reminders.
func (c *Client) CreateReminder(ctx context.Context, req CreateReminderRequest) (*Reminder, error) {
	url := fmt.Sprintf("%s/api/v1/reminders", c.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create reminder request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create reminder request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call reminder store create API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reminder store create error %d: %s", resp.StatusCode, string(raw))
	}

	var reminder Reminder
	if err := json.NewDecoder(resp.Body).Decode(&reminder); err != nil {
		return nil, fmt.Errorf("failed to decode create reminder response: %w", err)
	}
	return &reminder, nil
}

// GetReminder fetches a single reminder by its ID.
func (c *Client) GetReminder(ctx context.Context, id string) (*Reminder, error) {
	url := fmt.Sprintf("%s/api/v1/reminders/%s", c.baseURL, id)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build get reminder request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call reminder store get API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reminder store get error %d: %s", resp.StatusCode, string(raw))
	}

	var reminder Reminder
	if err := json.NewDecoder(resp.Body).Decode(&reminder); err != nil {
		return nil, fmt.Errorf("failed to decode get reminder response: %w", err)
	}
	return &reminder, nil
}

// ListReminders lists reminders with optional owner and topic filters.
func (c *Client) ListReminders(ctx context.Context, owner, topic string, limit, offset int) ([]Reminder, error) {
	url := fmt.Sprintf("%s/api/v1/reminders?pageSize=%d&offset=%d", c.baseURL, limit, offset)
	if owner != "" {
		url += fmt.Sprintf("&owner=%s", owner)
	}
	if topic != "" {
		url += fmt.Sprintf("&filter=topic='%s'", topic)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list reminders request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call reminder store list API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reminder store list error %d: %s", resp.StatusCode, string(raw))
	}

	var listResp struct {
		Reminders []Reminder `json:"reminders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode list reminders response: %w", err)
	}
	return listResp.Reminders, nil
}

// ---- Request/Response types scoped to this package ----

// CreateReminderRequest is the body for POST /api/v1/reminders.
type CreateReminderRequest struct {
	Title      string   `json:"title"`
	Notes      string   `json:"notes,omitempty"`
	Link       string   `json:"link,omitempty"`
	Priority   string   `json:"priority"`
	DueAt      string   `json:"dueAt,omitempty"` // RFC3339; empty for undated
	AllDay     bool     `json:"allDay,omitempty"`
	Recurrence string   `json:"recurrence,omitempty"`
	Topics     []string `json:"topics,omitempty"`
	Timezone   string   `json:"timezone,omitempty"`
	ChatID     int64    `json:"chatId,omitempty"`
	Owner      string   `json:"owner,omitempty"`
	SourceRefs []string `json:"sourceRefs,omitempty"`
}

// Reminder is the reminder store API wire object.
type Reminder struct {
	Name       string   `json:"name"` // "reminders/{uid}"
	UID        string   `json:"uid"`
	Title      string   `json:"title"`
	Notes      string   `json:"notes"`
	Link       string   `json:"link"`
	Priority   string   `json:"priority"`
	DueAt      string   `json:"dueAt"`
	AllDay     bool     `json:"allDay"`
	Recurrence string   `json:"recurrence"`
	Topics     []string `json:"topics"`
	Timezone   string   `json:"timezone"`
	ChatID     int64    `json:"chatId"`
	Owner      string   `json:"owner"`
	CreateTime string   `json:"createTime"`
}
