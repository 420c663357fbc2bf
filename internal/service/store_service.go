package service

import (
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"
)

type StoreService interface {
	Directory(query string) (*StoreDirectory, error)
}

// StoreDirectory is the store picker, split by category
type StoreDirectory struct {
	Departments []model.Store `json:"departments"`
	Outlets     []model.Store `json:"outlets"`
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func (s *storeService) Directory(query string) (*StoreDirectory, error) {
	stores, err := s.storeRepo.Search(query)
	if err != nil {
		return nil, err
	}
	dir := &StoreDirectory{
		Departments: make([]model.Store, 0),
		Outlets:     make([]model.Store, 0),
	}
	for _, st := range stores {
		switch st.Category {
		case model.CategoryDepartment:
			dir.Departments = append(dir.Departments, st)
		case model.CategoryOutlet:
			dir.Outlets = append(dir.Outlets, st)
		}
	}
	return dir, nil
}
