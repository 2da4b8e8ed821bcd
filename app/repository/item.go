package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-catalog/app/entity"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	query := `INSERT INTO items (name, price, store_id) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, item.Name, item.Price, item.StoreID)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	return nil
}

func (r *ItemRepository) FindByName(ctx context.Context, name string) (*entity.Item, error) {
	query := `SELECT id, name, price, store_id FROM items WHERE name = ?`
	item := &entity.Item{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&item.ID, &item.Name, &item.Price, &item.StoreID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]*entity.Item, error) {
	query := `SELECT id, name, price, store_id FROM items ORDER BY name`
	return r.scanMany(r.db.QueryContext(ctx, query))
}

func (r *ItemRepository) FindByStoreID(ctx context.Context, storeID uint64) ([]*entity.Item, error) {
	query := `SELECT id, name, price, store_id FROM items WHERE store_id = ? ORDER BY name`
	return r.scanMany(r.db.QueryContext(ctx, query, storeID))
}

func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	query := `UPDATE items SET price = ?, store_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, item.Price, item.StoreID, item.ID)
	return err
}

func (r *ItemRepository) Delete(ctx context.Context, id uint64) error {
	query := `DELETE FROM items WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *ItemRepository) scanMany(rows *sql.Rows, err error) ([]*entity.Item, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		item := &entity.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.StoreID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
