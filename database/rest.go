package database

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// RESTConfig configures access to a PostgREST (Supabase) data API.
type RESTConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// RESTStore talks to the hosted database through its REST data API. Filters,
// ordering and limits become query-string parameters; rows travel as JSON.
type RESTStore struct {
	restURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

func NewRESTStore(cfg RESTConfig) (*RESTStore, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("rest store: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrap(err, "rest store: invalid base URL")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("rest store: API key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &RESTStore{
		restURL: base + "/rest/v1",
		apiKey:  cfg.APIKey,
		timeout: timeout,
		client:  client,
	}, nil
}

func (s *RESTStore) Select(ctx context.Context, table string, q *Query, dest any) error {
	params := q.Values()
	params.Set("select", "*")
	body, err := s.request(ctx, http.MethodGet, table, params, nil, "")
	if err != nil {
		return err
	}
	return decode(body, dest)
}

func (s *RESTStore) Insert(ctx context.Context, table string, row any) error {
	body, err := s.request(ctx, http.MethodPost, table, nil, row, "return=representation")
	if err != nil {
		return err
	}
	return decodeFirst(body, row)
}

func (s *RESTStore) Update(ctx context.Context, table string, q *Query, patch map[string]any, dest any) error {
	body, err := s.request(ctx, http.MethodPatch, table, q.Values(), patch, "return=representation")
	if err != nil {
		return err
	}
	n, err := countRows(body)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "update %s", table)
	}
	if dest == nil {
		return nil
	}
	return decode(body, dest)
}

func (s *RESTStore) Upsert(ctx context.Context, table string, row any, onConflict ...string) error {
	params := url.Values{}
	if len(onConflict) > 0 {
		params.Set("on_conflict", strings.Join(onConflict, ","))
	}
	body, err := s.request(ctx, http.MethodPost, table, params, row, "resolution=merge-duplicates,return=representation")
	if err != nil {
		return err
	}
	return decodeFirst(body, row)
}

func (s *RESTStore) Delete(ctx context.Context, table string, q *Query) error {
	body, err := s.request(ctx, http.MethodDelete, table, q.Values(), nil, "return=representation")
	if err != nil {
		return err
	}
	n, err := countRows(body)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "delete %s", table)
	}
	return nil
}

func (s *RESTStore) Ping(ctx context.Context) error {
	_, err := s.request(ctx, http.MethodGet, "", nil, nil, "")
	return err
}

func (s *RESTStore) request(ctx context.Context, method, table string, params url.Values, payload any, prefer string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	endpoint := s.restURL + "/" + table
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInput, err.Error())
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "build request: %v", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "%s %s: %v", method, table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "read %s response: %v", table, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseRESTError(resp.StatusCode, body)
	}
	return body, nil
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// parseRESTError maps a PostgREST error body onto the store error kinds.
func parseRESTError(status int, body []byte) error {
	var e restError
	_ = json.Unmarshal(body, &e)
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	var kind error
	switch {
	case e.Code == "23505":
		kind = ErrConflict
	case e.Code == "23503":
		kind = ErrInvalidReference
	case strings.HasPrefix(e.Code, "22"), e.Code == "23502", e.Code == "23514":
		kind = ErrInvalidInput
	case status == http.StatusConflict:
		kind = ErrConflict
	case status >= http.StatusInternalServerError,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusNotFound:
		kind = ErrUnavailable
	default:
		kind = ErrInvalidInput
	}
	return errors.Wrapf(kind, "status %d code %s: %s", status, e.Code, msg)
}

func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrapf(ErrUnavailable, "decode response: %v", err)
	}
	return nil
}

func decodeFirst(body []byte, row any) error {
	var rows []json.RawMessage
	if err := decode(body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.Wrap(ErrInvalidInput, "write returned no rows")
	}
	return decode(rows[0], row)
}

func countRows(body []byte) (int, error) {
	var rows []json.RawMessage
	if err := decode(body, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
