// Package repository contains the data access layer. This file holds
// persistence for contacts. Every operation either succeeds or returns
// the underlying store error unchanged; there are no retries and no
// transactions spanning multiple calls. Concurrent updates to the same
// row resolve last-writer-wins at the database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/contacts-api/internal/model"
)

// contactCols is the select list shared by every contact query.
// birthday goes through DATE_FORMAT so the DATE column arrives as a
// plain "YYYY-MM-DD" string instead of a midnight time.Time.
const contactCols = `id, first_name, last_name, email, phone,
       DATE_FORMAT(birthday, '%Y-%m-%d') AS birthday,
       other_info, created_at, updated_at`

// ContactRepo manages persistence for contacts.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo constructs a ContactRepo with the given DB handle.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// scanContact reads one contact row from a row scanner.
func scanContact(row interface{ Scan(...any) error }, c *model.Contact) error {
	var other sql.NullString
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Birthday, &other, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}
	if other.Valid {
		c.OtherInfo = &other.String
	}
	return nil
}

// Create inserts a new contact and populates the generated ID and
// DB-default timestamps on the given struct by reselecting the row.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	const q = `INSERT INTO contacts (first_name, last_name, email, phone, birthday, other_info)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, nullable(c.OtherInfo))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT ` + contactCols + ` FROM contacts WHERE id = ?`
	return scanContact(r.db.QueryRowContext(ctx, sel, c.ID), c)
}

// List returns up to limit contacts after skipping offset rows, in
// store-default order. No rows yields an empty slice and nil error.
func (r *ContactRepo) List(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	const q = `SELECT ` + contactCols + ` FROM contacts LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// GetByID retrieves a contact by its ID. It returns ErrContactNotFound
// when there is no matching row.
func (r *ContactRepo) GetByID(ctx context.Context, id uint64) (*model.Contact, error) {
	const q = `SELECT ` + contactCols + ` FROM contacts WHERE id = ?`
	var c model.Contact
	if err := scanContact(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update overwrites every mutable field of the contact with the given
// id and returns the updated record. It returns ErrContactNotFound
// when the id does not exist; nothing is mutated in that case.
func (r *ContactRepo) Update(ctx context.Context, id uint64, c *model.Contact) (*model.Contact, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	const q = `UPDATE contacts
               SET first_name = ?, last_name = ?, email = ?, phone = ?, birthday = ?, other_info = ?
               WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, nullable(c.OtherInfo), id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the contact with the given id and returns its prior
// state. It returns ErrContactNotFound when the id does not exist.
func (r *ContactRepo) Delete(ctx context.Context, id uint64) (*model.Contact, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return c, nil
}

// Search returns contacts whose first name, last name or email
// contains the query as a substring. LIKE BINARY keeps the match
// case-sensitive regardless of the column collation.
func (r *ContactRepo) Search(ctx context.Context, query string) ([]model.Contact, error) {
	const q = `SELECT ` + contactCols + ` FROM contacts
               WHERE first_name LIKE BINARY CONCAT('%', ?, '%')
                  OR last_name  LIKE BINARY CONCAT('%', ?, '%')
                  OR email      LIKE BINARY CONCAT('%', ?, '%')`
	rows, err := r.db.QueryContext(ctx, q, query, query, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// UpcomingBirthdays returns a summary of every contact whose birthday
// (month and day, birth year ignored) falls within the seven days
// starting at today, bounds inclusive. The window test runs in Go so
// month and year boundaries are handled uniformly; the query only
// narrows to the columns the summary needs.
func (r *ContactRepo) UpcomingBirthdays(ctx context.Context, today time.Time) ([]model.BirthdaySummary, error) {
	const q = `SELECT id, first_name, last_name, DATE_FORMAT(birthday, '%Y-%m-%d') AS birthday
               FROM contacts`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.BirthdaySummary
	for rows.Next() {
		var s model.BirthdaySummary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Birthday); err != nil {
			return nil, err
		}
		if birthdayInWindow(s.Birthday, today, 7) {
			out = append(out, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// collectContacts drains a result set into a slice.
func collectContacts(rows *sql.Rows) ([]model.Contact, error) {
	var result []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// nullable converts an optional string to its SQL argument form.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
