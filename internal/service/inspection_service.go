package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"go-sitesafety-ws/internal/ai"
	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/inspection"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/risk"
	"go-sitesafety-ws/pkg/validator"

	"github.com/google/uuid"
)

// LogWriter appends a log and republishes the store's logs
type LogWriter interface {
	AppendLog(ctx context.Context, entry *model.InspectionLog, storeID string) error
}

// StoreNotifier pushes a message to every client of a store
type StoreNotifier interface {
	SendToStore(storeID string, message []byte)
}

type InspectionService interface {
	CreateDraft(sess gate.Session, siteID uuid.UUID) (*inspection.View, error)
	GetDraft(sess gate.Session, id uuid.UUID) (*inspection.View, error)
	UpdateDraft(sess gate.Session, id uuid.UUID, req *UpdateDraftRequest) (*inspection.View, error)
	AddPhoto(ctx context.Context, sess gate.Session, id uuid.UUID, image string) (*inspection.View, error)
	RemovePhoto(sess gate.Session, id uuid.UUID, index int) (*inspection.View, error)
	SubmitDraft(ctx context.Context, sess gate.Session, id uuid.UUID) (*model.InspectionLog, error)
	DiscardDraft(sess gate.Session, id uuid.UUID) error
	Submit(ctx context.Context, sess gate.Session, req *SubmitInspectionRequest) (*model.InspectionLog, error)
}

type UpdateDraftRequest struct {
	WorkType  *string          `json:"work_type"`
	RiskLevel *string          `json:"risk_level" validate:"omitempty,risk_level"`
	Notes     *string          `json:"notes"`
	Checklist *model.Checklist `json:"checklist" validate:"-"`
}

// SubmitInspectionRequest is a complete inspection sent in one request
type SubmitInspectionRequest struct {
	SiteID    string          `json:"site_id" validate:"required,uuid"`
	WorkType  string          `json:"work_type"`
	Photos    []string        `json:"photos" validate:"max=5"`
	RiskLevel string          `json:"risk_level" validate:"required,risk_level"`
	Notes     string          `json:"notes"`
	Checklist model.Checklist `json:"checklist"`
}

type inspectionService struct {
	sites     SiteService
	writer    LogWriter
	drafts    *inspection.Registry
	assistant ai.Assistant
	notifier  StoreNotifier
	now       func() time.Time
}

func NewInspectionService(sites SiteService, writer LogWriter, drafts *inspection.Registry, assistant ai.Assistant, notifier StoreNotifier) InspectionService {
	return &inspectionService{
		sites:     sites,
		writer:    writer,
		drafts:    drafts,
		assistant: assistant,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *inspectionService) CreateDraft(sess gate.Session, siteID uuid.UUID) (*inspection.View, error) {
	site, err := s.sites.Get(sess.StoreID, sess.Role, siteID)
	if err != nil {
		return nil, err
	}
	d, err := inspection.NewDraft(site.Site, sess.Role, s.assistant)
	if err != nil {
		return nil, err
	}
	s.drafts.Put(d)
	v := d.View()
	return &v, nil
}

// draft finds a draft of the same store and role
func (s *inspectionService) draft(sess gate.Session, id uuid.UUID) (*inspection.Draft, error) {
	d, err := s.drafts.Get(id, sess.StoreID)
	if err != nil {
		return nil, err
	}
	if d.Role() != sess.Role {
		return nil, inspection.ErrDraftNotFound
	}
	return d, nil
}

func (s *inspectionService) GetDraft(sess gate.Session, id uuid.UUID) (*inspection.View, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	v := d.View()
	return &v, nil
}

func (s *inspectionService) UpdateDraft(sess gate.Session, id uuid.UUID, req *UpdateDraftRequest) (*inspection.View, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: validator.FirstError(errs)}
	}
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	if req.WorkType != nil {
		d.SetWorkType(*req.WorkType)
	}
	if req.RiskLevel != nil {
		level, _ := model.ParseRiskLevel(*req.RiskLevel)
		if err := d.SetRisk(level); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		d.SetNotes(*req.Notes)
	}
	if req.Checklist != nil {
		d.SetChecklist(*req.Checklist)
	}
	v := d.View()
	return &v, nil
}

func (s *inspectionService) AddPhoto(ctx context.Context, sess gate.Session, id uuid.UUID, image string) (*inspection.View, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	if err := d.AddPhoto(ctx, strings.TrimSpace(image)); err != nil {
		return nil, err
	}
	v := d.View()
	return &v, nil
}

func (s *inspectionService) RemovePhoto(sess gate.Session, id uuid.UUID, index int) (*inspection.View, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	if err := d.RemovePhoto(index); err != nil {
		return nil, err
	}
	v := d.View()
	return &v, nil
}

// SubmitDraft appends the draft as a log and discards it. The site must
// still be visible; a pending photo classification is not awaited.
func (s *inspectionService) SubmitDraft(ctx context.Context, sess gate.Session, id uuid.UUID) (*model.InspectionLog, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	entry, err := d.Build(s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.sites.Get(sess.StoreID, sess.Role, entry.SiteID); err != nil {
		return nil, err
	}
	if err := s.writer.AppendLog(ctx, &entry, sess.StoreID); err != nil {
		return nil, err
	}
	s.drafts.Delete(id)

	go s.notifyInspection(entry)
	return &entry, nil
}

func (s *inspectionService) DiscardDraft(sess gate.Session, id uuid.UUID) error {
	if _, err := s.draft(sess, id); err != nil {
		return err
	}
	s.drafts.Delete(id)
	return nil
}

func (s *inspectionService) Submit(ctx context.Context, sess gate.Session, req *SubmitInspectionRequest) (*model.InspectionLog, error) {
	if err := inspection.ValidateSubmission(sess.Role, req.WorkType); err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: validator.FirstError(errs)}
	}
	siteID, _ := uuid.Parse(req.SiteID)
	level, _ := model.ParseRiskLevel(req.RiskLevel)
	site, err := s.sites.Get(sess.StoreID, sess.Role, siteID)
	if err != nil {
		return nil, err
	}

	photos := req.Photos
	if photos == nil {
		photos = []string{}
	}
	entry := model.InspectionLog{
		SiteID:        site.ID,
		StoreID:       sess.StoreID,
		SiteName:      site.Name,
		WorkType:      strings.TrimSpace(req.WorkType),
		Timestamp:     s.now(),
		Photos:        photos,
		RiskLevel:     level,
		Notes:         req.Notes,
		InspectorName: sess.Role.Capability().InspectorName,
		InspectorRole: sess.Role,
		Checklist:     req.Checklist,
	}
	if err := s.writer.AppendLog(ctx, &entry, sess.StoreID); err != nil {
		return nil, err
	}

	go s.notifyInspection(entry)
	return &entry, nil
}

func (s *inspectionService) notifyInspection(entry model.InspectionLog) {
	if s.notifier == nil {
		return
	}
	payload := map[string]interface{}{
		"type":         "inspection_update",
		"action":       "inspection_submitted",
		"high_risk":    risk.IsHighRisk(entry),
		"failed_items": risk.FailedItems(entry.Checklist),
		"log_id":       entry.ID,
		"site_id":      entry.SiteID,
		"site_name":    entry.SiteName,
		"role":         entry.InspectorRole,
		"risk_level":   entry.RiskLevel,
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("inspection notify: %v", err)
		return
	}
	s.notifier.SendToStore(entry.StoreID, msg)
}
