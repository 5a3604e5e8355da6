package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/contacts-api/internal/model"
	"github.com/iliyamo/contacts-api/internal/repository"
	"github.com/iliyamo/contacts-api/internal/validator"
)

// fakeContactStore is an in-memory ContactStore honoring the same
// contract as repository.ContactRepo: absent ids map to
// ErrContactNotFound, search is a case-sensitive substring match.
type fakeContactStore struct {
	nextID    uint64
	items     map[uint64]model.Contact
	birthdays []model.BirthdaySummary
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{items: map[uint64]model.Contact{}}
}

func (s *fakeContactStore) Create(_ context.Context, c *model.Contact) error {
	s.nextID++
	c.ID = s.nextID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	s.items[c.ID] = *c
	return nil
}

func (s *fakeContactStore) List(_ context.Context, limit, offset int) ([]model.Contact, error) {
	ids := make([]uint64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []model.Contact
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *fakeContactStore) GetByID(_ context.Context, id uint64) (*model.Contact, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	return &c, nil
}

func (s *fakeContactStore) Update(_ context.Context, id uint64, c *model.Contact) (*model.Contact, error) {
	prev, ok := s.items[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	updated := *c
	updated.ID = id
	updated.CreatedAt = prev.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.items[id] = updated
	return &updated, nil
}

func (s *fakeContactStore) Delete(_ context.Context, id uint64) (*model.Contact, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	delete(s.items, id)
	return &c, nil
}

func (s *fakeContactStore) Search(_ context.Context, query string) ([]model.Contact, error) {
	var out []model.Contact
	for _, c := range s.items {
		if strings.Contains(c.FirstName, query) || strings.Contains(c.LastName, query) || strings.Contains(c.Email, query) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeContactStore) UpcomingBirthdays(_ context.Context, _ time.Time) ([]model.BirthdaySummary, error) {
	return s.birthdays, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const johnBody = `{"first_name":"John","last_name":"Doe","email":"john@doe.com","phone":"0661234567","birthday":"1988-02-01","other_info":"test"}`

func TestCreateThenGetByID(t *testing.T) {
	e := newTestEcho()
	h := NewContactHandler(newFakeContactStore())

	c, rec := doJSON(e, http.MethodPost, "/api/contacts/", johnBody)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created contactResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, uint64(1), created.ID)
	require.Equal(t, "John", created.FirstName)
	require.Equal(t, "Doe", created.LastName)
	require.Equal(t, "john@doe.com", created.Email)
	require.Equal(t, "0661234567", created.Phone)
	require.Equal(t, "1988-02-01", created.Birthday)
	require.NotNil(t, created.OtherInfo)
	require.Equal(t, "test", *created.OtherInfo)

	c, rec = doJSON(e, http.MethodGet, "/api/contacts/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetByID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got contactResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, created, got)
}

func TestGetByIDNotFound(t *testing.T) {
	e := newTestEcho()
	h := NewContactHandler(newFakeContactStore())

	c, rec := doJSON(e, http.MethodGet, "/api/contacts/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.GetByID(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not found")
}

func TestGetByIDInvalid(t *testing.T) {
	e := newTestEcho()
	h := NewContactHandler(newFakeContactStore())

	for _, bad := range []string{"abc", "0", "-3"} {
		c, rec := doJSON(e, http.MethodGet, "/api/contacts/"+bad, "")
		c.SetParamNames("id")
		c.SetParamValues(bad)
		require.NoError(t, h.GetByID(c))
		require.Equal(t, http.StatusBadRequest, rec.Code, "id=%s", bad)
	}
}

func TestUpdateNotFoundLeavesStoreUntouched(t *testing.T) {
	e := newTestEcho()
	store := newFakeContactStore()
	h := NewContactHandler(store)

	c, rec := doJSON(e, http.MethodPut, "/api/contacts/9", johnBody)
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, store.items)
}

func TestUpdateReplacesEveryField(t *testing.T) {
	e := newTestEcho()
	store := newFakeContactStore()
	h := NewContactHandler(store)

	c, _ := doJSON(e, http.MethodPost, "/api/contacts/", johnBody)
	require.NoError(t, h.Create(c))

	// other_info omitted: the full-record update clears it.
	updated := `{"first_name":"Johnny","last_name":"Doe","email":"johnny@doe.com","phone":"0669999999","birthday":"1988-02-02"}`
	c, rec := doJSON(e, http.MethodPut, "/api/contacts/1", updated)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got contactResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Johnny", got.FirstName)
	require.Equal(t, "johnny@doe.com", got.Email)
	require.Equal(t, "1988-02-02", got.Birthday)
	require.Nil(t, got.OtherInfo)
}

func TestDeleteThenGet(t *testing.T) {
	e := newTestEcho()
	h := NewContactHandler(newFakeContactStore())

	c, _ := doJSON(e, http.MethodPost, "/api/contacts/", johnBody)
	require.NoError(t, h.Create(c))

	c, rec := doJSON(e, http.MethodDelete, "/api/contacts/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/api/contacts/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetByID(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again reports absent as well.
	c, rec = doJSON(e, http.MethodDelete, "/api/contacts/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchMatchesExactlyAndCaseSensitive(t *testing.T) {
	e := newTestEcho()
	store := newFakeContactStore()
	h := NewContactHandler(store)

	seed := []string{
		`{"first_name":"John","last_name":"Doe","email":"john@doe.com","phone":"1","birthday":"1988-02-01"}`,
		`{"first_name":"Jane","last_name":"Roe","email":"jane@roe.com","phone":"2","birthday":"1990-03-03"}`,
		`{"first_name":"doretta","last_name":"Smith","email":"d.smith@example.com","phone":"3","birthday":"1991-04-04"}`,
	}
	for _, b := range seed {
		c, _ := doJSON(e, http.MethodPost, "/api/contacts/", b)
		require.NoError(t, h.Create(c))
	}

	c, rec := doJSON(e, http.MethodGet, "/api/contacts/search?query=doe", "")
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []contactResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	// "Doe" does not match the lowercase query; only the email does.
	require.Len(t, got, 1)
	require.Equal(t, "john@doe.com", got[0].Email)

	c, rec = doJSON(e, http.MethodGet, "/api/contacts/search?query=dor", "")
	require.NoError(t, h.Search(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "doretta", got[0].FirstName)
}

func TestSearchEmptyQuery(t *testing.T) {
	e := newTestEcho()
	h := NewContactHandler(newFakeContactStore())

	c, rec := doJSON(e, http.MethodGet, "/api/contacts/search", "")
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPagination(t *testing.T) {
	e := newTestEcho()
	store := newFakeContactStore()
	h := NewContactHandler(store)

	for i := 0; i < 15; i++ {
		body := fmt.Sprintf(`{"first_name":"F%d","last_name":"L%d","email":"c%d@example.com","phone":"555","birthday":"1990-01-01"}`, i, i, i)
		c, _ := doJSON(e, http.MethodPost, "/api/contacts/", body)
		require.NoError(t, h.Create(c))
	}

	// Default limit is 10 even though 15 rows exist.
	c, rec := doJSON(e, http.MethodGet, "/api/contacts/", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []contactResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 10)

	// Offset skips rows.
	c, rec = doJSON(e, http.MethodGet, "/api/contacts/?limit=10&offset=10", "")
	require.NoError(t, h.List(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 5)

	// Out-of-range parameters are rejected before the store is hit.
	for _, target := range []string{
		"/api/contacts/?limit=0",
		"/api/contacts/?limit=101",
		"/api/contacts/?limit=abc",
		"/api/contacts/?offset=-1",
	} {
		c, rec = doJSON(e, http.MethodGet, target, "")
		require.NoError(t, h.List(c))
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestBirthdaysSummaryShape(t *testing.T) {
	e := newTestEcho()
	store := newFakeContactStore()
	store.birthdays = []model.BirthdaySummary{
		{ID: 1, FirstName: "John", LastName: "Doe", Birthday: "1988-05-01"},
	}
	h := NewContactHandler(store)

	c, rec := doJSON(e, http.MethodGet, "/api/contacts/birthday/", "")
	require.NoError(t, h.Birthdays(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []birthdayResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, []birthdayResp{{ID: 1, FirstName: "John", LastName: "Doe", Birthday: "1988-05-01"}}, got)
}

func TestCreateValidationFailures(t *testing.T) {
	e := newTestEcho()
	store := newFakeContactStore()
	h := NewContactHandler(store)

	bad := []string{
		`{"last_name":"Doe","email":"john@doe.com","phone":"1","birthday":"1988-02-01"}`,      // missing first name
		`{"first_name":"John","last_name":"Doe","email":"nope","phone":"1","birthday":"1988-02-01"}`, // invalid email
		`{"first_name":"John","last_name":"Doe","email":"john@doe.com","phone":"1","birthday":"01.02.1988"}`, // wrong date format
	}
	for _, b := range bad {
		c, _ := doJSON(e, http.MethodPost, "/api/contacts/", b)
		err := h.Create(c)
		require.Error(t, err, b)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
	require.Empty(t, store.items)
}
