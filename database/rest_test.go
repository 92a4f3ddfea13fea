package database

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recorded struct {
	method string
	path   string
	query  map[string][]string
	prefer string
	apikey string
	auth   string
	body   string
}

func newRESTFixture(t *testing.T, status int, response string) (*RESTStore, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.prefer = r.Header.Get("Prefer")
		rec.apikey = r.Header.Get("apikey")
		rec.auth = r.Header.Get("Authorization")
		rec.body = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	store, err := NewRESTStore(RESTConfig{BaseURL: srv.URL + "/", APIKey: "service-key", Timeout: time.Second})
	require.NoError(t, err)
	return store, rec
}

func TestRESTSelectTranslatesQuery(t *testing.T) {
	store, rec := newRESTFixture(t, http.StatusOK, `[{"id":"1","name":"Ana"}]`)

	q := NewQuery().
		Eq("type", "expense").
		Gte("entry_date", "2025-03-01").
		Lt("entry_date", "2025-04-01").
		OrderBy("entry_date", true)

	var rows []testRow
	require.NoError(t, store.Select(context.Background(), TableClinicEntries, q, &rows))

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/rest/v1/clinic_entries", rec.path)
	assert.Equal(t, []string{"eq.expense"}, rec.query["type"])
	assert.Equal(t, []string{"gte.2025-03-01", "lt.2025-04-01"}, rec.query["entry_date"])
	assert.Equal(t, []string{"entry_date.desc"}, rec.query["order"])
	assert.Equal(t, []string{"*"}, rec.query["select"])
	assert.Equal(t, "service-key", rec.apikey)
	assert.Equal(t, "Bearer service-key", rec.auth)
	assert.Equal(t, []testRow{{ID: "1", Name: "Ana"}}, rows)
}

func TestRESTInsertReadsRepresentation(t *testing.T) {
	store, rec := newRESTFixture(t, http.StatusCreated, `[{"id":"abc","name":"Stored"}]`)

	row := &testRow{ID: "abc", Name: "Ana"}
	require.NoError(t, store.Insert(context.Background(), TablePatients, row))

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "return=representation", rec.prefer)
	assert.JSONEq(t, `{"id":"abc","name":"Ana"}`, rec.body)
	assert.Equal(t, "Stored", row.Name)
}

func TestRESTUpdateEmptyResultIsNotFound(t *testing.T) {
	store, rec := newRESTFixture(t, http.StatusOK, `[]`)

	var rows []testRow
	err := store.Update(context.Background(), TablePatients, ByID("missing"), map[string]any{"active": false}, &rows)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, []string{"eq.missing"}, rec.query["id"])

	var patch map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.body), &patch))
	assert.Equal(t, false, patch["active"])
}

func TestRESTUpsertSendsConflictTarget(t *testing.T) {
	store, rec := newRESTFixture(t, http.StatusCreated, `[{"id":"g1","name":"Food"}]`)

	row := &testRow{ID: "new", Name: "Food"}
	require.NoError(t, store.Upsert(context.Background(), TablePersonalGoals, row, "category", "month", "year"))

	assert.Equal(t, []string{"category,month,year"}, rec.query["on_conflict"])
	assert.Equal(t, "resolution=merge-duplicates,return=representation", rec.prefer)
	assert.Equal(t, "g1", row.ID)
}

func TestRESTDeleteCountsRows(t *testing.T) {
	store, rec := newRESTFixture(t, http.StatusOK, `[{"id":"p1"}]`)

	require.NoError(t, store.Delete(context.Background(), TableProcedures, ByID("p1")))
	assert.Equal(t, http.MethodDelete, rec.method)

	empty, _ := newRESTFixture(t, http.StatusOK, `[]`)
	assert.ErrorIs(t, empty.Delete(context.Background(), TableProcedures, ByID("p1")), ErrNotFound)
}

func TestRESTErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusConflict, `{"code":"23505","message":"duplicate key value violates unique constraint"}`, ErrConflict},
		{http.StatusConflict, `{"code":"23503","message":"insert or update violates foreign key constraint"}`, ErrInvalidReference},
		{http.StatusBadRequest, `{"code":"22P02","message":"invalid input syntax for type uuid"}`, ErrInvalidInput},
		{http.StatusServiceUnavailable, `upstream down`, ErrUnavailable},
		{http.StatusUnauthorized, `{"message":"Invalid API key"}`, ErrUnavailable},
	}
	for _, tc := range cases {
		store, _ := newRESTFixture(t, tc.status, tc.body)
		var rows []testRow
		err := store.Select(context.Background(), TablePatients, NewQuery(), &rows)
		assert.ErrorIs(t, err, tc.want, tc.body)
	}
}

func TestRESTTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	store, err := NewRESTStore(RESTConfig{BaseURL: srv.URL, APIKey: "k", Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	var rows []testRow
	assert.ErrorIs(t, store.Select(context.Background(), TablePatients, NewQuery(), &rows), ErrUnavailable)
}

func TestNewRESTStoreValidatesConfig(t *testing.T) {
	_, err := NewRESTStore(RESTConfig{APIKey: "k"})
	assert.Error(t, err)
	_, err = NewRESTStore(RESTConfig{BaseURL: "https://x.supabase.co"})
	assert.Error(t, err)
}
