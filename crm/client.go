package crm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/internal/metrics"
	"github.com/rs/zerolog/log"
)

const maxResponseBytes = 1 << 20

// TokenSource yields a bearer token that is valid at the time of the call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the CRM REST API. It asks the TokenSource for a token before
// every request and never caches one itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// FindContactByEmail searches contacts by email, including custom fields.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*SearchResult, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("optional_properties", "custom_fields")

	status, body, err := c.do(ctx, "search", http.MethodGet, "/contacts", query, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &errors.CrmRequestError{Op: "search", Status: status, Body: string(body)}
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to decode contact search")
	}
	return &result, nil
}

// UpsertContact creates or updates a contact, matching on email.
func (c *Client) UpsertContact(ctx context.Context, contact Contact) (*UpsertResult, error) {
	status, body, err := c.do(ctx, "upsert", http.MethodPut, "/contacts", nil, contact)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &errors.CrmRequestError{Op: "upsert", Status: status, Body: string(body)}
	}

	result := &UpsertResult{}
	if err := json.Unmarshal(body, &result.Raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode upsert response")
	}
	var idOnly struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &idOnly); err != nil || idOnly.ID == 0 {
		return nil, &errors.CrmRequestError{Op: "upsert", Status: status, Body: "response has no contact id: " + string(body)}
	}
	result.ID = idOnly.ID
	log.Debug().Int64("contact_id", result.ID).Int("status", status).Msg("CRM contact upserted")
	return result, nil
}

func (c *Client) AssignTags(ctx context.Context, contactID int64, tagIDs []int) error {
	path := fmt.Sprintf("/contacts/%d/tags", contactID)
	status, body, err := c.do(ctx, "tags", http.MethodPost, path, nil, tagsRequest{TagIDs: tagIDs})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &errors.CrmRequestError{Op: "tags", Status: status, Body: string(body)}
	}
	return nil
}

func (c *Client) CreateNote(ctx context.Context, contactID int64, note string) error {
	status, body, err := c.do(ctx, "note", http.MethodPost, "/notes", nil, noteRequest{ContactID: contactID, Body: note})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return &errors.CrmRequestError{Op: "note", Status: status, Body: string(body)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload any) (int, []byte, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "failed to encode %s request", op)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to build %s request", op)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordCrmRequest(op, 0)
		return 0, nil, errors.NewTransportError("crm "+op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordCrmRequest(op, 0)
		return 0, nil, errors.NewTransportError("crm "+op, err)
	}
	metrics.RecordCrmRequest(op, resp.StatusCode)
	return resp.StatusCode, body, nil
}
