package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-api/internal/model"
	"github.com/iliyamo/contacts-api/internal/repository"
)

// ContactStore is the repository surface the contact handlers depend
// on. The concrete implementation is repository.ContactRepo; tests
// substitute an in-memory fake.
type ContactStore interface {
	Create(ctx context.Context, c *model.Contact) error
	List(ctx context.Context, limit, offset int) ([]model.Contact, error)
	GetByID(ctx context.Context, id uint64) (*model.Contact, error)
	Update(ctx context.Context, id uint64, c *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, id uint64) (*model.Contact, error)
	Search(ctx context.Context, query string) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, today time.Time) ([]model.BirthdaySummary, error)
}

// ContactHandler translates HTTP requests into contact store calls.
// No business logic lives here beyond parameter parsing and status
// mapping; absent records become 404, store failures become 400 with
// the store's message.
type ContactHandler struct {
	Contacts ContactStore
}

// NewContactHandler constructs a ContactHandler and panics on a nil store.
func NewContactHandler(contacts ContactStore) *ContactHandler {
	if contacts == nil {
		panic("nil store passed to NewContactHandler")
	}
	return &ContactHandler{Contacts: contacts}
}

// ----- DTOs -----

type contactReq struct {
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name" validate:"required,max=50"`
	Email     string  `json:"email" validate:"required,email,max=100"`
	Phone     string  `json:"phone" validate:"required,max=20"`
	Birthday  string  `json:"birthday" validate:"required,datetime=2006-01-02"`
	OtherInfo *string `json:"other_info" validate:"omitempty,max=500"`
}

type contactResp struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  string    `json:"birthday"`
	OtherInfo *string   `json:"other_info"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type birthdayResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthday  string `json:"birthday"`
}

func (b *contactReq) toModel() *model.Contact {
	return &model.Contact{
		FirstName: strings.TrimSpace(b.FirstName),
		LastName:  strings.TrimSpace(b.LastName),
		Email:     strings.ToLower(strings.TrimSpace(b.Email)),
		Phone:     strings.TrimSpace(b.Phone),
		Birthday:  b.Birthday,
		OtherInfo: b.OtherInfo,
	}
}

func toContactResp(c *model.Contact) contactResp {
	return contactResp{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Birthday:  c.Birthday,
		OtherInfo: c.OtherInfo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toContactList(cs []model.Contact) []contactResp {
	out := make([]contactResp, 0, len(cs))
	for i := range cs {
		out = append(out, toContactResp(&cs[i]))
	}
	return out
}

// storeErr maps repository failures onto the response contract:
// absent rows are 404, everything else surfaces the store message
// with a 400 status.
func storeErr(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrContactNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// ----- Handlers -----

// List handles GET /api/contacts/ with limit/offset pagination.
// limit must stay within [1,100] (default 10), offset must be >= 0
// (default 0); anything else is a 400 before the store is touched.
func (h *ContactHandler) List(c echo.Context) error {
	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 100"})
		}
		limit = n
	}
	offset := 0
	if s := c.QueryParam("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "offset must be >= 0"})
		}
		offset = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.Contacts.List(ctx, limit, offset)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, toContactList(contacts))
}

// Search handles GET /api/contacts/search?query= and returns contacts
// whose first name, last name or email contains the query.
func (h *ContactHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query must not be empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.Contacts.Search(ctx, query)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, toContactList(contacts))
}

// Birthdays handles GET /api/contacts/birthday/ and lists contacts
// whose birthday falls within the next seven days.
func (h *ContactHandler) Birthdays(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summaries, err := h.Contacts.UpcomingBirthdays(ctx, time.Now().UTC())
	if err != nil {
		return storeErr(c, err)
	}
	out := make([]birthdayResp, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, birthdayResp{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName, Birthday: s.Birthday})
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /api/contacts/:id.
func (h *ContactHandler) GetByID(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.GetByID(ctx, id)
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, toContactResp(contact))
}

// Create handles POST /api/contacts/ and returns the stored record
// including its generated id and timestamps.
func (h *ContactHandler) Create(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact := req.toModel()
	if err := h.Contacts.Create(ctx, contact); err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toContactResp(contact))
}

// Update handles PUT /api/contacts/:id. The update is whole-record:
// every mutable field is replaced from the body, there is no partial
// patch.
func (h *ContactHandler) Update(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Contacts.Update(ctx, id, req.toModel())
	if err != nil {
		return storeErr(c, err)
	}
	return c.JSON(http.StatusOK, toContactResp(updated))
}

// Delete handles DELETE /api/contacts/:id and responds 204 on success.
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := contactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Contacts.Delete(ctx, id); err != nil {
		return storeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// contactID parses the :id path parameter; ids start at 1.
func contactID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
