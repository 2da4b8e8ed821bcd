package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-catalog/app/entity"
)

type StoreRepository struct {
	db *sql.DB
}

func NewStoreRepository(db *sql.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Create(ctx context.Context, store *entity.Store) error {
	query := `INSERT INTO stores (name) VALUES (?)`
	result, err := r.db.ExecContext(ctx, query, store.Name)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	store.ID = uint64(id)
	return nil
}

func (r *StoreRepository) FindByName(ctx context.Context, name string) (*entity.Store, error) {
	query := `SELECT id, name FROM stores WHERE name = ?`
	store := &entity.Store{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&store.ID, &store.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]*entity.Store, error) {
	query := `SELECT id, name FROM stores ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*entity.Store
	for rows.Next() {
		store := &entity.Store{}
		if err := rows.Scan(&store.ID, &store.Name); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

// Delete removes the store row. Items are removed by the
// ON DELETE CASCADE foreign key.
func (r *StoreRepository) Delete(ctx context.Context, id uint64) error {
	query := `DELETE FROM stores WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
