package repository

import (
	"strings"

	"go-sitesafety-ws/internal/model"

	"gorm.io/gorm"
)

type StoreRepository interface {
	FindAll() ([]model.Store, error)
	FindByID(id string) (*model.Store, error)
	Search(query string) ([]model.Store, error)
	UpdateAccessCode(id, code string) error
	SeedDefaults() error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) FindAll() ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Order("category ASC, name ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepo) FindByID(id string) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Search matches the store name case-insensitively. An empty query lists all stores.
func (r *storeRepo) Search(query string) ([]model.Store, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.FindAll()
	}
	var stores []model.Store
	if err := r.db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("category ASC, name ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepo) UpdateAccessCode(id, code string) error {
	store, err := r.FindByID(id)
	if err != nil {
		return err
	}
	if err := store.SetAccessCode(code); err != nil {
		return err
	}
	return r.db.Model(&model.Store{}).Where("id = ?", id).Update("access_code_hash", store.AccessCodeHash).Error
}

// SeedDefaults inserts the reference directory. Existing stores keep their codes.
func (r *storeRepo) SeedDefaults() error {
	for _, seed := range model.DefaultStores {
		var existing model.Store
		err := r.db.Where("id = ?", seed.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			store := seed.Store
			if err := store.SetAccessCode(seed.AccessCode); err != nil {
				return err
			}
			if err := r.db.Create(&store).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
