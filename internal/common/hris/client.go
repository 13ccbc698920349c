// Package hris provides a read-only client for the company HR information
// system, used to import employee records into the local database.
package hris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// EmployeeRecord is the shape the HRIS returns for one employee.
type EmployeeRecord struct {
	ExternalID      string `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Position        string `json:"position"`
	Department      string `json:"department,omitempty"`
	ExperienceLevel string `json:"experience_level"`
	Email           string `json:"email,omitempty"`
	Active          bool   `json:"active"`
}

func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListEmployees fetches one page of active employees.
func (c *Client) ListEmployees(ctx context.Context, page, perPage int) ([]EmployeeRecord, error) {
	url := fmt.Sprintf("%s/api/employees?page=%d&per_page=%d&active=true", c.baseURL, page, perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list employees (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []EmployeeRecord `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}

// GetEmployee fetches a single employee by its HRIS identifier.
func (c *Client) GetEmployee(ctx context.Context, externalID string) (*EmployeeRecord, error) {
	url := fmt.Sprintf("%s/api/employees/%s", c.baseURL, externalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("employee %s not found", externalID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get employee (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data EmployeeRecord `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.Data, nil
}
