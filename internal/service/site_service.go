package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"
	"go-sitesafety-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrSiteNotFound       = errors.New("site not found in this store")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrEndDateBeforeStart = errors.New("end date cannot be before start date")
	ErrValidation         = errors.New("validation failed")
)

// SiteWriter publishes site changes to the store's subscribers
type SiteWriter interface {
	CreateSite(ctx context.Context, site *model.Site) error
	UpdateSite(ctx context.Context, site *model.Site) error
	DeleteSite(ctx context.Context, storeID string, id uuid.UUID, deletedBy string) error
}

type SiteService interface {
	List(storeID string, role model.Role) ([]SiteResponse, error)
	Get(storeID string, role model.Role, id uuid.UUID) (*SiteResponse, error)
	Create(ctx context.Context, storeID string, req *CreateSiteRequest, creator string) (*model.Site, error)
	Update(ctx context.Context, storeID string, id uuid.UUID, req *UpdateSiteRequest, updater string) (*model.Site, error)
	Delete(ctx context.Context, storeID string, id uuid.UUID, deleter string) error
}

type CreateSiteRequest struct {
	Name       string `json:"name" validate:"required"`
	FloorLabel string `json:"floor_label"`
	Department string `json:"department" validate:"required"`
	Location   string `json:"location"`
	StartDate  string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate    string `json:"end_date" validate:"required"`   // YYYY-MM-DD
	Status     string `json:"status" validate:"omitempty,site_status"`
}

// UpdateSiteRequest changes only the fields present. The store is never changed.
type UpdateSiteRequest struct {
	Name       *string `json:"name"`
	FloorLabel *string `json:"floor_label"`
	Department *string `json:"department"`
	Location   *string `json:"location"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Status     *string `json:"status" validate:"omitempty,site_status"`
}

// SiteResponse is a site with its temporal status as of today
type SiteResponse struct {
	model.Site
	Temporal lifecycle.TemporalStatus `json:"temporal"`
	Badge    string                   `json:"badge"`
}

type siteService struct {
	siteRepo repository.SiteRepository
	writer   SiteWriter
	loc      *time.Location
	now      func() time.Time
}

func NewSiteService(siteRepo repository.SiteRepository, writer SiteWriter, loc *time.Location) SiteService {
	return &siteService{
		siteRepo: siteRepo,
		writer:   writer,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *siteService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *siteService) parseDate(v string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(v), s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return parsed, nil
}

func (s *siteService) respond(site model.Site, asOf time.Time) SiteResponse {
	status := lifecycle.ComputeTemporalStatus(site, asOf)
	return SiteResponse{Site: site, Temporal: status, Badge: status.Label()}
}

// List returns what the role may see: field roles get the sites still open
// today in stored order, monitoring gets all sites ordered for display.
func (s *siteService) List(storeID string, role model.Role) ([]SiteResponse, error) {
	sites, err := s.siteRepo.FindByStore(storeID)
	if err != nil {
		return nil, err
	}
	today := s.today()
	if role.IsFieldRole() {
		sites = lifecycle.FieldSites(sites, today)
	} else {
		sites = lifecycle.SortForDisplay(sites, today)
	}

	out := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		out = append(out, s.respond(site, today))
	}
	return out, nil
}

// Get resolves a site inside the scope. Sites of other stores, and expired
// sites for field roles, are reported as missing.
func (s *siteService) Get(storeID string, role model.Role, id uuid.UUID) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(id)
	if err != nil || site.StoreID != storeID {
		return nil, ErrSiteNotFound
	}
	today := s.today()
	if role.IsFieldRole() && !lifecycle.IsVisibleForFieldDate(*site, today) {
		return nil, ErrSiteNotFound
	}
	resp := s.respond(*site, today)
	return &resp, nil
}

func (s *siteService) Create(ctx context.Context, storeID string, req *CreateSiteRequest, creator string) (*model.Site, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: validator.FirstError(errs)}
	}
	startDate, err := s.parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := s.parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrEndDateBeforeStart
	}

	site := &model.Site{
		StoreID:    storeID,
		Name:       strings.TrimSpace(req.Name),
		FloorLabel: strings.TrimSpace(req.FloorLabel),
		Department: strings.TrimSpace(req.Department),
		Location:   strings.TrimSpace(req.Location),
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     model.SiteStatus(req.Status),
	}
	if site.FloorLabel == "" {
		site.FloorLabel = model.DefaultFloorLabel
	}
	if site.Status == "" {
		site.Status = model.SiteStatusPending
	}
	site.CreatedBy = creator
	site.UpdatedBy = creator

	if errs := validator.ValidateStruct(site); len(errs) > 0 {
		return nil, &ValidationError{Message: validator.FirstError(errs)}
	}
	if err := s.writer.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) Update(ctx context.Context, storeID string, id uuid.UUID, req *UpdateSiteRequest, updater string) (*model.Site, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Message: validator.FirstError(errs)}
	}
	site, err := s.siteRepo.FindByID(id)
	if err != nil || site.StoreID != storeID {
		return nil, ErrSiteNotFound
	}

	if req.Name != nil {
		site.Name = strings.TrimSpace(*req.Name)
	}
	if req.FloorLabel != nil {
		site.FloorLabel = strings.TrimSpace(*req.FloorLabel)
		if site.FloorLabel == "" {
			site.FloorLabel = model.DefaultFloorLabel
		}
	}
	if req.Department != nil {
		site.Department = strings.TrimSpace(*req.Department)
	}
	if req.Location != nil {
		site.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		if site.StartDate, err = s.parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if site.EndDate, err = s.parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		site.Status = model.SiteStatus(*req.Status)
	}
	if lifecycle.Day(site.EndDate).Before(lifecycle.Day(site.StartDate)) {
		return nil, ErrEndDateBeforeStart
	}

	// The owning store is fixed at creation
	site.StoreID = storeID
	site.UpdatedBy = updater

	if errs := validator.ValidateStruct(site); len(errs) > 0 {
		return nil, &ValidationError{Message: validator.FirstError(errs)}
	}
	if err := s.writer.UpdateSite(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) Delete(ctx context.Context, storeID string, id uuid.UUID, deleter string) error {
	site, err := s.siteRepo.FindByID(id)
	if err != nil || site.StoreID != storeID {
		return ErrSiteNotFound
	}
	return s.writer.DeleteSite(ctx, storeID, id, deleter)
}
