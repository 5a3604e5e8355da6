package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/contacts-api/internal/model"
	"github.com/iliyamo/contacts-api/internal/utils"
)

// ErrEmailExists signals a duplicate email at signup.
var ErrEmailExists = errors.New("email already exists")

const userCols = `id, username, email, password_hash, confirmed, avatar, refresh_token, created_at, updated_at`

// UserRepo manages persistence for user accounts. Password hashing is
// the auth layer's job; this repository only stores the hash it is
// handed.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	var avatar, refresh sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Confirmed,
		&avatar, &refresh, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return err
	}
	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	return nil
}

// Create inserts a new user with a gravatar default avatar and returns
// the fully populated record. Duplicate emails map to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	avatar := utils.GravatarURL(email)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, avatar) VALUES (?, ?, ?, ?)`,
		username, email, passwordHash, avatar)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var u model.User
	const sel = `SELECT ` + userCols + ` FROM users WHERE id = ?`
	if err := scanUser(r.db.QueryRowContext(ctx, sel, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail fetches a user by normalized email. It returns
// ErrUserNotFound when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	const q = `SELECT ` + userCols + ` FROM users WHERE email = ? LIMIT 1`
	if err := scanUser(r.db.QueryRowContext(ctx, q, email), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ConfirmEmail flips the confirmed flag for the given email. The
// operation is idempotent; confirming an already confirmed address is
// a no-op.
func (r *UserRepo) ConfirmEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.db.ExecContext(ctx, `UPDATE users SET confirmed = TRUE WHERE email = ?`, email)
	return err
}

// UpdateRefreshToken stores or clears (nil) the refresh token
// associated with a user.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID uint64, token *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = ? WHERE id = ?`, nullable(token), userID)
	return err
}

// UpdateAvatar sets a new avatar URL and returns the updated user.
func (r *UserRepo) UpdateAvatar(ctx context.Context, email, url string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar = ? WHERE email = ?`, url, email); err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, email)
}
