package model

import "time"

// Contact represents a row in the `contacts` table. Contacts are not
// scoped to the user that created them: any authenticated user may
// read or modify any contact, so the struct carries no owner column.
//
// Birthday is a calendar date with no time component and is kept in
// the DB string form "2006-01-02" (the column is a DATE, selected via
// DATE_FORMAT so no timezone conversion ever applies to it).
//
// Fields:
//
//	ID        – primary key identifier.
//	FirstName – given name.
//	LastName  – family name.
//	Email     – unique email address.
//	Phone     – phone number, free-form digits.
//	Birthday  – calendar date string "YYYY-MM-DD".
//	OtherInfo – optional free-text note (nullable).
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Contact struct {
	ID        uint64    // contacts.id
	FirstName string    // contacts.first_name
	LastName  string    // contacts.last_name
	Email     string    // contacts.email
	Phone     string    // contacts.phone
	Birthday  string    // contacts.birthday ("YYYY-MM-DD")
	OtherInfo *string   // contacts.other_info (nullable)
	CreatedAt time.Time // contacts.created_at
	UpdatedAt time.Time // contacts.updated_at
}

// BirthdaySummary is the trimmed contact view returned by the
// upcoming-birthdays query.
type BirthdaySummary struct {
	ID        uint64 // contacts.id
	FirstName string // contacts.first_name
	LastName  string // contacts.last_name
	Birthday  string // contacts.birthday ("YYYY-MM-DD")
}
