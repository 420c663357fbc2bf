package repository

import (
	"go-sitesafety-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(site *model.Site) error
	Update(site *model.Site) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Site, error)
	FindByStore(storeID string) ([]model.Site, error)
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db}
}

func (r *siteRepo) Create(site *model.Site) error {
	return r.db.Create(site).Error
}

func (r *siteRepo) Update(site *model.Site) error {
	return r.db.Save(site).Error
}

func (r *siteRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Site{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *siteRepo) FindByID(id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := r.db.First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) FindByStore(storeID string) ([]model.Site, error) {
	var sites []model.Site
	if err := r.db.Where("store_id = ?", storeID).
		Order("start_date ASC, created_at ASC").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}
