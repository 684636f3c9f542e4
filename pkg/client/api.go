// Package client is a Go SDK for the document tracker API. Besides the raw
// HTTP calls it ships small observable stores that mirror what a front end
// keeps in memory: the signed-in user, their documents and the feedback list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"doctrack/store"
)

const sessionHeader = "X-Session-Token"

// APIError is a non-success envelope returned by the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// DocumentInput is the body of document create and update calls.
type DocumentInput struct {
	UserID       string `json:"userId"`
	PersonelName string `json:"personelName"`
	Name         string `json:"name"`
	StartDate    int64  `json:"startDate"`
	EndDate      int64  `json:"endDate"`
}

type FeedbackInput struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Comment  string `json:"comment"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the session token handed out by the last login or register,
// if the server issues them.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, username, password string) (store.User, error) {
	return c.authenticate(ctx, "/api/auth/register", username, password)
}

func (c *Client) Login(ctx context.Context, username, password string) (store.User, error) {
	return c.authenticate(ctx, "/api/auth/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (store.User, error) {
	var user store.User
	body := map[string]string{"username": username, "password": password}
	header, err := c.do(ctx, http.MethodPost, path, nil, body, &user)
	if err != nil {
		return store.User{}, err
	}
	if token := header.Get(sessionHeader); token != "" {
		c.SetToken(token)
	}
	return user, nil
}

func (c *Client) Documents(ctx context.Context, userID string) ([]store.Document, error) {
	var docs []store.Document
	_, err := c.do(ctx, http.MethodGet, "/api/documents", url.Values{"userId": {userID}}, nil, &docs)
	return docs, err
}

func (c *Client) CreateDocument(ctx context.Context, in DocumentInput) (store.Document, error) {
	var doc store.Document
	_, err := c.do(ctx, http.MethodPost, "/api/documents", nil, in, &doc)
	return doc, err
}

func (c *Client) UpdateDocument(ctx context.Context, id string, in DocumentInput) (store.Document, error) {
	var doc store.Document
	_, err := c.do(ctx, http.MethodPut, "/api/documents/"+url.PathEscape(id), nil, in, &doc)
	return doc, err
}

func (c *Client) DeleteDocument(ctx context.Context, id, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/documents/"+url.PathEscape(id), nil, map[string]string{"userId": userID}, nil)
	return err
}

func (c *Client) SubmitFeedback(ctx context.Context, in FeedbackInput) (store.Feedback, error) {
	var fb store.Feedback
	_, err := c.do(ctx, http.MethodPost, "/api/feedback", nil, in, &fb)
	return fb, err
}

func (c *Client) Feedback(ctx context.Context, userID string) ([]store.Feedback, error) {
	var items []store.Feedback
	_, err := c.do(ctx, http.MethodGet, "/api/feedback", url.Values{"userId": {userID}}, nil, &items)
	return items, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("unexpected response: %v", err)}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return resp.Header, nil
}
