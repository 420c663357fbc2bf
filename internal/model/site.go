package model

import "time"

// SiteStatus is the workflow label set by the monitoring role.
// It is independent of the temporal status computed from the end date.
type SiteStatus string

const (
	SiteStatusPending    SiteStatus = "PENDING"
	SiteStatusInProgress SiteStatus = "IN_PROGRESS"
	SiteStatusDone       SiteStatus = "DONE"
)

const DefaultFloorLabel = "1F"

// Site is an active construction area inside a store
type Site struct {
	BaseModel
	StoreID    string     `gorm:"type:varchar(50);not null;index" json:"store_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	FloorLabel string     `gorm:"type:varchar(20)" json:"floor_label"`
	Department string     `gorm:"type:varchar(100);not null" json:"department" validate:"required"`
	Location   string     `gorm:"type:varchar(255)" json:"location"`
	StartDate  time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate    time.Time  `gorm:"type:date;not null;index" json:"end_date"`
	Status     SiteStatus `gorm:"type:varchar(20);not null;default:PENDING" json:"status" validate:"required,site_status"`
}

func (Site) TableName() string {
	return "sites"
}
