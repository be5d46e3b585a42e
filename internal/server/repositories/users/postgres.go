// Package users stores accounts in PostgreSQL.
package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, password_hash, email, first_name, last_name, full_name_arabic,
	department, phone_number, role, is_active, is_superuser, token_version, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName,
		&u.FullNameArabic, &u.Department, &u.PhoneNumber, &u.Role, &u.IsActive, &u.IsSuperuser,
		&u.TokenVersion, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.FillDisplay()
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash, email, first_name, last_name, full_name_arabic,
		     department, phone_number, role, is_active, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.FirstName, user.LastName, user.FullNameArabic,
		user.Department, user.PhoneNumber, user.Role, user.IsActive, user.IsSuperuser,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err)
	}

	user.FillDisplay()
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return u, nil
}

// List returns all accounts ordered by username.
func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err)
	}

	var users []models.User
	if err := sqlx.StructScan(rows, &users); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for i := range users {
		users[i].FillDisplay()
	}
	return users, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, dberr.Wrap(err)
	}
	return n, nil
}

// UpdateProfile saves the self-editable fields of user.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET email = $2, full_name_arabic = $3, department = $4, phone_number = $5
		 WHERE id = $1`

	return dberr.Affected(r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FullNameArabic, user.Department, user.PhoneNumber))
}

func (r *PostgresRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	return dberr.Affected(r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash))
}

// BumpTokenVersion invalidates every token issued so far and returns the
// new version.
func (r *PostgresRepository) BumpTokenVersion(ctx context.Context, id int64) (int64, error) {
	query :=
		`UPDATE users SET token_version = token_version + 1
		 WHERE id = $1
		 RETURNING token_version`

	var v int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&v); err != nil {
		return 0, dberr.Wrap(err)
	}
	return v, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dberr.Affected(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}
