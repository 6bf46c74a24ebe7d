// Package api is a typed HTTP client for the journal server. It carries the
// session token as the same cookie a browser would send and maps error
// statuses back to the sentinel errors of package common.
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

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Summary struct {
	Days        int            `json:"days"`
	Total       int            `json:"total"`
	PerDay      map[string]int `json:"perDay"`
	PerCategory map[string]int `json:"perCategory"`
}

type Export struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Error is a non-2xx answer from the server. It unwraps to the matching
// common sentinel so callers can use errors.Is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		if strings.Contains(e.Message, "already exists") {
			return common.ErrorAlreadyExists
		}
		return common.ErrorValidation
	case http.StatusUnauthorized:
		if e.Message == "Invalid credentials" {
			return common.ErrorUnauthorized
		}
		return common.ErrInvalidToken
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusServiceUnavailable:
		return common.ErrorExportDisabled
	default:
		return common.ErrorInternal
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) { c.token = token }
func (c *Client) Token() string         { return c.token }

func (c *Client) do(ctx context.Context, method, path string, in, out any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return resp, &Error{Status: resp.StatusCode, Message: m.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	in := map[string]string{"email": email, "password": password, "name": name}
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates and keeps the session token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	in := map[string]string{"email": email, "password": password}
	c.token = ""
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out)
	if err != nil {
		return nil, err
	}

	for _, ck := range resp.Cookies() {
		if ck.Name == common.SessionCookieName {
			c.token = ck.Value
		}
	}
	if c.token == "" {
		return nil, fmt.Errorf("server did not set a session cookie")
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

func (c *Client) ListEntries(ctx context.Context, category string) ([]Entry, error) {
	path := "/api/auth/journal"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []Entry
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var out Entry
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/journal/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEntry(ctx context.Context, title, content, category string) (*Entry, error) {
	in := map[string]string{"title": title, "content": content, "category": category}
	var out Entry
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/journal", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id, title, content, category string) (*Entry, error) {
	in := map[string]string{"id": id, "title": title, "content": content, "category": category}
	var out Entry
	if _, err := c.do(ctx, http.MethodPut, "/api/auth/journal", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/auth/journal", map[string]string{"id": id}, nil)
	return err
}

func (c *Client) Summary(ctx context.Context, days int) (*Summary, error) {
	path := "/api/auth/journal/summary"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var out Summary
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Export(ctx context.Context) (*Export, error) {
	var out Export
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/journal/export", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
