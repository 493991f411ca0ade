// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Configuration constants for the catalog API.
const (
	// DefaultTimeout bounds catalog requests. Listings are cheap compared
	// to assistant turns.
	DefaultTimeout = 15 * time.Second

	// DefaultPageSize is used when a listing does not specify one.
	DefaultPageSize = 20

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 8 * 1024 * 1024 // 8MB
)

var (
	// ErrNotFound indicates the requested university does not exist.
	ErrNotFound = errors.New("university not found")

	// ErrUnavailable indicates the catalog backend could not be reached.
	ErrUnavailable = errors.New("catalog backend unreachable")
)

// Client talks to the catalog endpoints of the UniHub backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: logrus.WithField("component", "catalog"),
	}
}

// ListUniversities fetches one page of universities matching the filters.
func (c *Client) ListUniversities(ctx context.Context, f Filters) (*ListResponse, error) {
	var list ListResponse
	if err := c.get(ctx, "/universities", f.query(), &list); err != nil {
		return nil, err
	}
	if list.PageSize == 0 {
		list.PageSize = DefaultPageSize
	}
	return &list, nil
}

// GetUniversity fetches the full detail record for one university.
func (c *Client) GetUniversity(ctx context.Context, id string) (*University, error) {
	var u University
	if err := c.get(ctx, "/universities/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Meta fetches the filterable dimensions: countries, programs and exams.
func (c *Client) Meta(ctx context.Context) (*MetaResponse, error) {
	var meta MetaResponse
	if err := c.get(ctx, "/meta", nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Health reports whether the backend answers its health probe.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	return c.get(ctx, "/health", nil, &status)
}

// query converts filters into URL parameters, skipping zero values.
func (f Filters) query() url.Values {
	q := url.Values{}
	if f.CountryID != "" {
		q.Set("country_id", f.CountryID)
	}
	if f.ProgramID != "" {
		q.Set("program_id", f.ProgramID)
	}
	if f.ExamID != "" {
		q.Set("exam_id", f.ExamID)
	}
	if f.MinScore > 0 {
		q.Set("min_score", strconv.Itoa(f.MinScore))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	q.Set("page_size", strconv.Itoa(size))
	return q
}

// get performs one GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("catalog request failed")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		detail := http.StatusText(resp.StatusCode)
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
			detail = apiErr.Detail
		}
		return fmt.Errorf("catalog error (HTTP %d): %s", resp.StatusCode, detail)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
