package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const userColumns = `id, email, password_hash, secondary_code, first_name, last_name, username, phone, created_at`

type userRepository struct {
	storage *Storage
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SecondaryCode, &u.FirstName, &u.LastName, &u.Username, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users (email, password_hash, secondary_code, first_name, last_name, username, phone)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.SecondaryCode, user.FirstName, user.LastName, user.Username, user.Phone,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE users SET reset_token=$1, reset_expires_at=$2 WHERE id=$3`, token, expiresAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	const query = `SELECT ` + userColumns + `, reset_expires_at FROM users WHERE reset_token=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, token).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.SecondaryCode, &u.FirstName, &u.LastName, &u.Username, &u.Phone, &u.CreatedAt,
		&u.ResetExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.ResetToken = token
	return &u, nil
}

// UpdatePassword also invalidates any pending reset token.
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, reset_token=NULL, reset_expires_at=NULL WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
