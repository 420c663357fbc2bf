package repository

import (
	"time"

	"go-sitesafety-ws/internal/model"

	"gorm.io/gorm"
)

// InspectionLogRepository is append-only: logs are never updated or deleted
type InspectionLogRepository interface {
	Append(log *model.InspectionLog) error
	FindByStore(storeID string) ([]model.InspectionLog, error)
	FindByStoreAndRange(storeID string, from, to time.Time) ([]model.InspectionLog, error)
}

type inspectionLogRepo struct {
	db *gorm.DB
}

func NewInspectionLogRepo(db *gorm.DB) InspectionLogRepository {
	return &inspectionLogRepo{db}
}

func (r *inspectionLogRepo) Append(log *model.InspectionLog) error {
	return r.db.Create(log).Error
}

// FindByStore returns the store's logs newest first
func (r *inspectionLogRepo) FindByStore(storeID string) ([]model.InspectionLog, error) {
	var logs []model.InspectionLog
	if err := r.db.Where("store_id = ?", storeID).
		Order("timestamp DESC, seq DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByStoreAndRange returns logs with from <= timestamp < to, newest first
func (r *inspectionLogRepo) FindByStoreAndRange(storeID string, from, to time.Time) ([]model.InspectionLog, error) {
	var logs []model.InspectionLog
	if err := r.db.Where("store_id = ?", storeID).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp DESC, seq DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
