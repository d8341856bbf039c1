// Copyright (C) 2025 Dotmart, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package dotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dotmart/emailsync/internal/tenant"
)

// Client is the per-tenant binding to the marketing platform's REST API.
type Client interface {
	PostContactsImport(ctx context.Context, data []byte) (ImportResponse, error)
	PostTransactionalDataImport(ctx context.Context, collection string, data []byte) (ImportResponse, error)
	GetContactsImportByImportID(ctx context.Context, importID uuid.UUID) (ImportResponse, error)
	GetTransactionalDataImportByImportID(ctx context.Context, importID uuid.UUID) (ImportResponse, error)
	GetContactImportReportFaults(ctx context.Context, importID uuid.UUID) ([]byte, error)
	GetContactByEmail(ctx context.Context, email string) (Contact, error)
	PostContactResubscribe(ctx context.Context, email string) error
	UpdateContactEmail(ctx context.Context, email, newEmail string) error
	UnsubscribeContact(ctx context.Context, email string) error
	DeleteContact(ctx context.Context, email string) error
	DeleteTransactionalData(ctx context.Context, collection, key string) error
	GetProgramByID(ctx context.Context, programID int64) (Program, error)
	PostProgramEnrolments(ctx context.Context, enrolment Enrolment) (EnrolmentResult, error)
	UpdateContactDataFieldsByEmail(ctx context.Context, email string, fields []DataField) error
}

const defaultEndpoint = "https://r1-api.dotmart.com"

type httpClient struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// NewClient builds an HTTP client authenticated with the account's API
// credentials.
func NewClient(account tenant.Account) Client {
	endpoint := account.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &httpClient{
		baseURL:  endpoint,
		user:     account.APIUser,
		password: account.APIPassword,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *httpClient) PostContactsImport(ctx context.Context, data []byte) (ImportResponse, error) {
	var resp ImportResponse
	err := c.do(ctx, http.MethodPost, "/v2/contacts/imports", json.RawMessage(data), &resp)
	return resp, err
}

func (c *httpClient) PostTransactionalDataImport(ctx context.Context, collection string, data []byte) (ImportResponse, error) {
	var resp ImportResponse
	path := "/v2/contacts/transactional-data/import/" + url.PathEscape(collection)
	err := c.do(ctx, http.MethodPost, path, json.RawMessage(data), &resp)
	return resp, err
}

func (c *httpClient) GetContactsImportByImportID(ctx context.Context, importID uuid.UUID) (ImportResponse, error) {
	var resp ImportResponse
	err := c.do(ctx, http.MethodGet, "/v2/contacts/imports/"+importID.String(), nil, &resp)
	return resp, err
}

func (c *httpClient) GetTransactionalDataImportByImportID(ctx context.Context, importID uuid.UUID) (ImportResponse, error) {
	var resp ImportResponse
	err := c.do(ctx, http.MethodGet, "/v2/contacts/transactional-data/import/"+importID.String(), nil, &resp)
	return resp, err
}

func (c *httpClient) GetContactImportReportFaults(ctx context.Context, importID uuid.UUID) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v2/contacts/imports/"+importID.String()+"/report-faults", nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report faults request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if httpResp.StatusCode >= 400 {
		return nil, fmt.Errorf("report faults request returned status %d", httpResp.StatusCode)
	}
	return io.ReadAll(httpResp.Body)
}

func (c *httpClient) GetContactByEmail(ctx context.Context, email string) (Contact, error) {
	var contact Contact
	err := c.do(ctx, http.MethodGet, "/v2/contacts/"+url.PathEscape(email), nil, &contact)
	return contact, err
}

func (c *httpClient) PostContactResubscribe(ctx context.Context, email string) error {
	body := map[string]any{"unsubscribedContact": map[string]string{"email": email}}
	return c.do(ctx, http.MethodPost, "/v2/contacts/resubscribe", body, nil)
}

func (c *httpClient) UpdateContactEmail(ctx context.Context, email, newEmail string) error {
	body := map[string]string{"email": newEmail}
	return c.do(ctx, http.MethodPut, "/v2/contacts/"+url.PathEscape(email), body, nil)
}

func (c *httpClient) UnsubscribeContact(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/v2/contacts/unsubscribe", body, nil)
}

func (c *httpClient) DeleteContact(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/v2/contacts/"+url.PathEscape(email), nil, nil)
}

func (c *httpClient) DeleteTransactionalData(ctx context.Context, collection, key string) error {
	path := "/v2/contacts/transactional-data/" + url.PathEscape(collection) + "/" + url.PathEscape(key)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *httpClient) GetProgramByID(ctx context.Context, programID int64) (Program, error) {
	var program Program
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v2/programs/%d", programID), nil, &program)
	return program, err
}

func (c *httpClient) PostProgramEnrolments(ctx context.Context, enrolment Enrolment) (EnrolmentResult, error) {
	var result EnrolmentResult
	err := c.do(ctx, http.MethodPost, "/v2/programs/enrolments", enrolment, &result)
	return result, err
}

func (c *httpClient) UpdateContactDataFieldsByEmail(ctx context.Context, email string, fields []DataField) error {
	path := "/v2/contacts/" + url.PathEscape(email) + "/datafields"
	return c.do(ctx, http.MethodPut, path, fields, nil)
}

func (c *httpClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do runs one request and decodes the JSON response into out. Platform-level
// rejections arrive as a JSON body with a "message" field and are surfaced
// through the decoded response, not as an error; only transport and protocol
// failures become errors.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%s %s returned status %d with undecodable body: %w", method, path, httpResp.StatusCode, err)
		}
		return nil
	}

	if httpResp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s rejected: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s returned status %d", method, path, httpResp.StatusCode)
	}
	return nil
}
