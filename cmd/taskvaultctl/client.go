package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the taskvault HTTP API.
type Client struct {
	BaseURL    string
	Resource   string
	HTTPClient *http.Client
}

// StatusResponse mirrors the server's uniform outcome body.
type StatusResponse struct {
	Status string `json:"status"`
}

func NewClient(baseURL, resource string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Resource: strings.Trim(resource, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) resourceURL() string {
	return fmt.Sprintf("%s/%s", c.BaseURL, c.Resource)
}

// ListRecords fetches the full record collection as raw JSON.
func (c *Client) ListRecords() ([]map[string]interface{}, error) {
	resp, err := c.HTTPClient.Get(c.resourceURL())
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return records, nil
}

// AddRecord appends a record expressed as a JSON object.
func (c *Client) AddRecord(recordJSON string) error {
	return c.send(http.MethodPost, c.resourceURL(), recordJSON)
}

// UpdateRecord merges the given fields into the record named by its "id".
func (c *Client) UpdateRecord(patchJSON string) error {
	return c.send(http.MethodPatch, c.resourceURL(), patchJSON)
}

// DeleteRecord removes the record with the given id.
func (c *Client) DeleteRecord(id string) error {
	url := fmt.Sprintf("%s/%s", c.resourceURL(), id)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req)
}

// Health checks the server's health endpoint.
func (c *Client) Health() (string, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return status.Status, fmt.Errorf("server unhealthy (status %d)", resp.StatusCode)
	}

	return status.Status, nil
}

func (c *Client) send(method, url, payload string) error {
	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("payload is not valid JSON")
	}

	req, err := http.NewRequest(method, url, bytes.NewBufferString(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}

	return nil
}

func statusError(code int, body []byte) error {
	var status StatusResponse
	if err := json.Unmarshal(body, &status); err == nil && status.Status != "" {
		return fmt.Errorf("server error (%d): %s", code, status.Status)
	}
	return fmt.Errorf("unexpected status code: %d", code)
}
