package service

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-catalog/app/entity"
)

var (
	ErrStoreExists   = errors.New("a store with that name already exists")
	ErrStoreNotFound = errors.New("store not found")
	ErrItemExists    = errors.New("an item with that name already exists")
	ErrItemNotFound  = errors.New("item not found")
)

type storeRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	FindByName(ctx context.Context, name string) (*entity.Store, error)
	FindAll(ctx context.Context) ([]*entity.Store, error)
	Delete(ctx context.Context, id uint64) error
}

type itemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByName(ctx context.Context, name string) (*entity.Item, error)
	FindAll(ctx context.Context) ([]*entity.Item, error)
	FindByStoreID(ctx context.Context, storeID uint64) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uint64) error
}

// CatalogService is a thin data-access layer: stores and items map one to
// one onto their tables.
type CatalogService struct {
	storeRepo storeRepository
	itemRepo  itemRepository
}

func NewCatalogService(storeRepo storeRepository, itemRepo itemRepository) *CatalogService {
	return &CatalogService{storeRepo: storeRepo, itemRepo: itemRepo}
}

func (s *CatalogService) GetStore(ctx context.Context, name string) (*entity.Store, []*entity.Item, error) {
	store, err := s.storeRepo.FindByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, ErrStoreNotFound
	}

	items, err := s.itemRepo.FindByStoreID(ctx, store.ID)
	if err != nil {
		return nil, nil, err
	}
	return store, items, nil
}

func (s *CatalogService) ListStores(ctx context.Context) ([]*entity.Store, error) {
	return s.storeRepo.FindAll(ctx)
}

func (s *CatalogService) CreateStore(ctx context.Context, name string) (*entity.Store, error) {
	existing, err := s.storeRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStoreExists
	}

	store := &entity.Store{Name: name}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// DeleteStore removes the store and, via cascade, its items.
func (s *CatalogService) DeleteStore(ctx context.Context, name string) error {
	store, err := s.storeRepo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrStoreNotFound
	}
	return s.storeRepo.Delete(ctx, store.ID)
}

func (s *CatalogService) GetItem(ctx context.Context, name string) (*entity.Item, error) {
	item, err := s.itemRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *CatalogService) ListItems(ctx context.Context) ([]*entity.Item, error) {
	return s.itemRepo.FindAll(ctx)
}

func (s *CatalogService) CreateItem(ctx context.Context, name string, price float64, storeID uint64) (*entity.Item, error) {
	existing, err := s.itemRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrItemExists
	}

	item := &entity.Item{Name: name, Price: price, StoreID: storeID}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpsertItem updates the price of an existing item or creates the item
// when it does not exist yet.
func (s *CatalogService) UpsertItem(ctx context.Context, name string, price float64, storeID uint64) (*entity.Item, bool, error) {
	item, err := s.itemRepo.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}

	if item == nil {
		item = &entity.Item{Name: name, Price: price, StoreID: storeID}
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return nil, false, err
		}
		return item, true, nil
	}

	item.Price = price
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, false, err
	}
	return item, false, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, name string) error {
	item, err := s.itemRepo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	return s.itemRepo.Delete(ctx, item.ID)
}
