package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

// Identity is what the auth layer knows about a caller. Email and
// DisplayName are optional refinements; an existing row keeps its values
// when they arrive empty.
type Identity struct {
	FirebaseUID string
	Email       string
	DisplayName string
}

type User struct {
	ID          string `json:"id"`
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// EnsureUser upserts the row for a firebase uid and returns its database id.
// Runs on every authenticated request, so it is a single round trip.
func (r *Repo) EnsureUser(ctx context.Context, id Identity) (string, error) {
	if id.FirebaseUID == "" {
		return "", fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into users (firebase_uid, email, display_name, updated_at)
values ($1, nullif($2,''), nullif($3,''), now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  updated_at = now()
returning id::text;
`
	var dbID string
	if err := r.db.QueryRow(ctx, q, id.FirebaseUID, id.Email, id.DisplayName).Scan(&dbID); err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	return dbID, nil
}

// Get returns one user by database id.
func (r *Repo) Get(ctx context.Context, dbID string) (*User, error) {
	const q = `
select id::text, firebase_uid, coalesce(email, ''), coalesce(display_name, '')
from users
where id = $1::uuid;
`
	var u User
	err := r.db.QueryRow(ctx, q, dbID).Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
