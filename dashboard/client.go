package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"OdontoSystem/models"

	"github.com/pkg/errors"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err means the session is gone.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client calls the OdontoSystem API on behalf of a signed-in user.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		body = bytes.NewReader(raw)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if res.StatusCode >= http.StatusBadRequest {
		var problem struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &problem) != nil || problem.Error == "" {
			problem.Error = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: problem.Error}
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(raw, dest), "failed to decode response")
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, models.LoginInput{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, nil)
}

func (c *Client) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Patients(ctx context.Context, token string) ([]models.Patient, error) {
	var rows []models.Patient
	err := c.do(ctx, http.MethodGet, "/patients", token, url.Values{"active": {"true"}}, nil, &rows)
	return rows, err
}

func (c *Client) CreatePatient(ctx context.Context, token string, input models.PatientInput) error {
	return c.do(ctx, http.MethodPost, "/patients", token, nil, input, nil)
}

func (c *Client) DeactivatePatient(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/patients/"+url.PathEscape(id), token, nil, nil, nil)
}

func (c *Client) Dentists(ctx context.Context, token string) ([]models.Dentist, error) {
	var rows []models.Dentist
	err := c.do(ctx, http.MethodGet, "/dentists", token, url.Values{"active": {"true"}}, nil, &rows)
	return rows, err
}

func (c *Client) CreateDentist(ctx context.Context, token string, input models.DentistInput) error {
	return c.do(ctx, http.MethodPost, "/dentists", token, nil, input, nil)
}

func (c *Client) Procedures(ctx context.Context, token string) ([]models.Procedure, error) {
	var rows []models.Procedure
	err := c.do(ctx, http.MethodGet, "/procedures", token, nil, nil, &rows)
	return rows, err
}

func (c *Client) CreateProcedure(ctx context.Context, token string, input models.ProcedureInput) error {
	return c.do(ctx, http.MethodPost, "/procedures", token, nil, input, nil)
}

func (c *Client) DeleteProcedure(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/procedures/"+url.PathEscape(id), token, nil, nil, nil)
}

// Appointments lists appointments, optionally filtered by status and day.
func (c *Client) Appointments(ctx context.Context, token, status, day string) ([]models.Appointment, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if day != "" {
		query.Set("date", day)
	}
	var rows []models.Appointment
	err := c.do(ctx, http.MethodGet, "/appointments", token, query, nil, &rows)
	return rows, err
}

func (c *Client) CreateAppointment(ctx context.Context, token string, input models.AppointmentInput) error {
	return c.do(ctx, http.MethodPost, "/appointments", token, nil, input, nil)
}

func (c *Client) UpdateAppointment(ctx context.Context, token, id string, input models.AppointmentInput) error {
	return c.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id), token, nil, input, nil)
}

func (c *Client) CancelAppointment(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), token, nil, nil, nil)
}

func periodQuery(month, year int) url.Values {
	return url.Values{"month": {strconv.Itoa(month)}, "year": {strconv.Itoa(year)}}
}

func (c *Client) Entries(ctx context.Context, token, ledger string, month, year int) ([]models.LedgerEntry, error) {
	var rows []models.LedgerEntry
	err := c.do(ctx, http.MethodGet, "/finance/"+ledger, token, periodQuery(month, year), nil, &rows)
	return rows, err
}

func (c *Client) CreateEntry(ctx context.Context, token, ledger string, input models.LedgerEntryInput) error {
	return c.do(ctx, http.MethodPost, "/finance/"+ledger, token, nil, input, nil)
}

func (c *Client) DeleteEntry(ctx context.Context, token, ledger, id string) error {
	return c.do(ctx, http.MethodDelete, "/finance/"+ledger+"/"+url.PathEscape(id), token, nil, nil, nil)
}

func (c *Client) Categories(ctx context.Context, token, ledger string) (models.Categories, error) {
	var categories models.Categories
	err := c.do(ctx, http.MethodGet, "/finance/"+ledger+"/categories", token, nil, nil, &categories)
	return categories, err
}

// Summary fetches a month summary. The clinic ledger leaves PerCategory and
// Goals empty.
func (c *Client) Summary(ctx context.Context, token, ledger string, month, year int) (*models.PersonalSummary, error) {
	var summary models.PersonalSummary
	if err := c.do(ctx, http.MethodGet, "/finance/"+ledger+"/summary", token, periodQuery(month, year), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) UpsertGoal(ctx context.Context, token string, input models.BudgetGoalInput) error {
	return c.do(ctx, http.MethodPost, "/finance/personal/goals", token, nil, input, nil)
}

func (c *Client) Users(ctx context.Context, token string) ([]models.UserProfile, error) {
	var rows []models.UserProfile
	err := c.do(ctx, http.MethodGet, "/auth/users", token, nil, nil, &rows)
	return rows, err
}

func (c *Client) CreateUser(ctx context.Context, token string, input models.NewUserInput) error {
	return c.do(ctx, http.MethodPost, "/auth/users", token, nil, input, nil)
}

func (c *Client) DeactivateUser(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/users/"+url.PathEscape(id), token, nil, nil, nil)
}
