package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createUser = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, email, password_hash, role, created_at
`

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.Email, arg.PasswordHash, arg.Role)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

const listUsers = `
SELECT u.id, u.email, u.role, u.created_at, p.name
FROM users u
JOIN profiles p ON p.user_id = u.id
ORDER BY u.created_at DESC
`

type ListUsersRow struct {
	ID        pgtype.UUID
	Email     string
	Role      string
	CreatedAt pgtype.Timestamptz
	Name      string
}

func (q *Queries) ListUsers(ctx context.Context) ([]ListUsersRow, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListUsersRow
	for rows.Next() {
		var r ListUsersRow
		if err := rows.Scan(&r.ID, &r.Email, &r.Role, &r.CreatedAt, &r.Name); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const deleteUser = `
DELETE FROM users WHERE id = $1
`

func (q *Queries) DeleteUser(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteUser, id)
	return err
}

const createProfile = `
INSERT INTO profiles (user_id, name)
VALUES ($1, $2)
RETURNING id, user_id, name, address1, address2, city, state, zip, created_at
`

type CreateProfileParams struct {
	UserID pgtype.UUID
	Name   string
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	row := q.db.QueryRow(ctx, createProfile, arg.UserID, arg.Name)
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Address1, &p.Address2, &p.City, &p.State, &p.Zip, &p.CreatedAt)
	return p, err
}

const getProfileByUserID = `
SELECT id, user_id, name, address1, address2, city, state, zip, created_at
FROM profiles
WHERE user_id = $1
`

func (q *Queries) GetProfileByUserID(ctx context.Context, userID pgtype.UUID) (Profile, error) {
	row := q.db.QueryRow(ctx, getProfileByUserID, userID)
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Address1, &p.Address2, &p.City, &p.State, &p.Zip, &p.CreatedAt)
	return p, err
}

const updateProfileAddress = `
UPDATE profiles
SET name = $2, address1 = $3, address2 = $4, city = $5, state = $6, zip = $7
WHERE id = $1
RETURNING id, user_id, name, address1, address2, city, state, zip, created_at
`

type UpdateProfileAddressParams struct {
	ID       pgtype.UUID
	Name     string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
}

func (q *Queries) UpdateProfileAddress(ctx context.Context, arg UpdateProfileAddressParams) (Profile, error) {
	row := q.db.QueryRow(ctx, updateProfileAddress,
		arg.ID, arg.Name, arg.Address1, arg.Address2, arg.City, arg.State, arg.Zip)
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Address1, &p.Address2, &p.City, &p.State, &p.Zip, &p.CreatedAt)
	return p, err
}
