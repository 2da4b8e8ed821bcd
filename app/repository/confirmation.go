package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-catalog/app/entity"
)

type ConfirmationRepository struct {
	db *sql.DB
}

func NewConfirmationRepository(db *sql.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

func (r *ConfirmationRepository) Create(ctx context.Context, confirmation *entity.Confirmation) error {
	query := `
		INSERT INTO confirmations (id, user_id, expire_at, confirmed, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		confirmation.ID,
		confirmation.UserID,
		confirmation.ExpireAt,
		confirmation.Confirmed,
		confirmation.CreatedAt,
	)
	return err
}

func (r *ConfirmationRepository) FindByID(ctx context.Context, id string) (*entity.Confirmation, error) {
	query := `
		SELECT id, user_id, expire_at, confirmed, created_at
		FROM confirmations WHERE id = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindMostRecentByUserID returns the confirmation with the latest
// expiration for the user, or nil if the user has none.
func (r *ConfirmationRepository) FindMostRecentByUserID(ctx context.Context, userID uint64) (*entity.Confirmation, error) {
	query := `
		SELECT id, user_id, expire_at, confirmed, created_at
		FROM confirmations WHERE user_id = ? ORDER BY expire_at DESC LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// ListByUserID returns all of the user's confirmations ordered by
// expiration, oldest first.
func (r *ConfirmationRepository) ListByUserID(ctx context.Context, userID uint64) ([]*entity.Confirmation, error) {
	query := `
		SELECT id, user_id, expire_at, confirmed, created_at
		FROM confirmations WHERE user_id = ? ORDER BY expire_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var confirmations []*entity.Confirmation
	for rows.Next() {
		confirmation := &entity.Confirmation{}
		if err := rows.Scan(
			&confirmation.ID,
			&confirmation.UserID,
			&confirmation.ExpireAt,
			&confirmation.Confirmed,
			&confirmation.CreatedAt,
		); err != nil {
			return nil, err
		}
		confirmations = append(confirmations, confirmation)
	}
	return confirmations, rows.Err()
}

func (r *ConfirmationRepository) Update(ctx context.Context, confirmation *entity.Confirmation) error {
	query := `
		UPDATE confirmations SET
			expire_at = ?,
			confirmed = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		confirmation.ExpireAt,
		confirmation.Confirmed,
		confirmation.ID,
	)
	return err
}

func (r *ConfirmationRepository) scanOne(row *sql.Row) (*entity.Confirmation, error) {
	confirmation := &entity.Confirmation{}
	err := row.Scan(
		&confirmation.ID,
		&confirmation.UserID,
		&confirmation.ExpireAt,
		&confirmation.Confirmed,
		&confirmation.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}
