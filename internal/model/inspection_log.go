package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Checklist holds the four compliance items, true meaning compliant.
// A nil item was never reported.
type Checklist struct {
	PPE         *bool `gorm:"column:checklist_ppe" json:"ppe" validate:"required"`
	FireSafety  *bool `gorm:"column:checklist_fire_safety" json:"fireSafety" validate:"required"`
	Environment *bool `gorm:"column:checklist_environment" json:"environment" validate:"required"`
	Electrical  *bool `gorm:"column:checklist_electrical" json:"electrical" validate:"required"`
}

// NewChecklist builds a fully reported checklist
func NewChecklist(ppe, fireSafety, environment, electrical bool) Checklist {
	return Checklist{PPE: &ppe, FireSafety: &fireSafety, Environment: &environment, Electrical: &electrical}
}

// Complete reports whether every item was reported
func (c Checklist) Complete() bool {
	return c.PPE != nil && c.FireSafety != nil && c.Environment != nil && c.Electrical != nil
}

// InspectionLog is an append-only record of one inspection submission
type InspectionLog struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Seq           uint64                      `gorm:"autoIncrement;uniqueIndex" json:"seq"` // Insertion order
	SiteID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"site_id"`
	StoreID       string                      `gorm:"type:varchar(50);not null;index" json:"store_id"`
	SiteName      string                      `gorm:"type:varchar(255)" json:"site_name"`
	WorkType      string                      `gorm:"type:varchar(255)" json:"work_type"`
	Timestamp     time.Time                   `gorm:"not null;index" json:"timestamp"`
	Photos        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"photos"`
	RiskLevel     RiskLevel                   `gorm:"type:varchar(10);not null" json:"risk_level"`
	Notes         string                      `gorm:"type:text" json:"notes"`
	InspectorName string                      `gorm:"type:varchar(100)" json:"inspector_name"`
	InspectorRole Role                        `gorm:"type:varchar(20);not null;index" json:"inspector_role"`
	Checklist     Checklist                   `gorm:"embedded" json:"checklist"`
}

func (InspectionLog) TableName() string {
	return "inspection_logs"
}

// BeforeCreate assigns the ID and timestamp when the caller left them empty
func (l *InspectionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}
