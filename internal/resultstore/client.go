// Package resultstore pushes finished parse results to the downstream
// plant-registry HTTP API. The store is optional: a server without a
// configured URL runs the full pipeline and simply keeps results in memory.
package resultstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solardesk/pvtopo/internal/report"
)

// RetryableError marks a store failure worth retrying: transient upstream
// trouble rather than a bad request.
type RetryableError struct {
	Status int
	Err    error
}

func (e *RetryableError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("resultstore: status %d", e.Status)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Client communicates with the resultstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PutReport stores a parse result under the given report id.
func (c *Client) PutReport(ctx context.Context, reportID string, res *report.Result) error {
	body, err := res.JSON()
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/reports/"+reportID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("put report: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err = fmt.Errorf("put report %s: status %d: %s", reportID, resp.StatusCode, string(respBody))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &RetryableError{Status: resp.StatusCode, Err: err}
	}
	return err
}

// GetReport retrieves a previously stored result, nil when absent.
func (c *Client) GetReport(ctx context.Context, reportID string) (*report.Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports/"+reportID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get report %s: status %d: %s", reportID, resp.StatusCode, string(respBody))
	}

	var res report.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &res, nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
