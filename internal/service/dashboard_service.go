package service

import (
	"context"
	"time"

	"go-sitesafety-ws/internal/aggregate"
	"go-sitesafety-ws/internal/ai"
	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"
)

type DashboardService interface {
	Overview(storeID string, selected time.Time) (*aggregate.MonitoringView, error)
	Summary(ctx context.Context, storeID string, selected time.Time) (*SummaryResponse, error)
	Alerts(storeID string) (*AlertsResponse, error)
	ParseDate(v string) (time.Time, error)
}

type SummaryResponse struct {
	Date     string `json:"date"`
	LogCount int    `json:"log_count"`
	Summary  string `json:"summary"`
}

// AlertsResponse drives the monitoring bell: today's WARNING logs
type AlertsResponse struct {
	Date       string                `json:"date"`
	HasWarning bool                  `json:"has_warning"`
	Warnings   []model.InspectionLog `json:"warnings"`
}

type dashboardService struct {
	siteRepo  repository.SiteRepository
	logRepo   repository.InspectionLogRepository
	assistant ai.Assistant
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardService(siteRepo repository.SiteRepository, logRepo repository.InspectionLogRepository, assistant ai.Assistant, loc *time.Location) DashboardService {
	return &dashboardService{
		siteRepo:  siteRepo,
		logRepo:   logRepo,
		assistant: assistant,
		loc:       loc,
		now:       time.Now,
	}
}

// ParseDate reads YYYY-MM-DD; an empty value means today
func (s *dashboardService) ParseDate(v string) (time.Time, error) {
	if v == "" {
		return lifecycle.Day(s.now().In(s.loc)), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", v, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return lifecycle.Day(parsed), nil
}

// dayLogs loads the store's logs recorded on selected and scopes them to sites
func (s *dashboardService) dayLogs(storeID string, selected time.Time, sites []model.Site) ([]model.InspectionLog, error) {
	from := time.Date(selected.Year(), selected.Month(), selected.Day(), 0, 0, 0, 0, s.loc)
	logs, err := s.logRepo.FindByStoreAndRange(storeID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return aggregate.ScopeLogs(sites, aggregate.LogsForDate(logs, selected, s.loc)), nil
}

func (s *dashboardService) Overview(storeID string, selected time.Time) (*aggregate.MonitoringView, error) {
	sites, err := s.siteRepo.FindByStore(storeID)
	if err != nil {
		return nil, err
	}
	logs, err := s.dayLogs(storeID, selected, sites)
	if err != nil {
		return nil, err
	}
	view := aggregate.BuildMonitoringView(sites, logs, selected, s.now().In(s.loc), s.loc)
	return &view, nil
}

func (s *dashboardService) Summary(ctx context.Context, storeID string, selected time.Time) (*SummaryResponse, error) {
	sites, err := s.siteRepo.FindByStore(storeID)
	if err != nil {
		return nil, err
	}
	logs, err := s.dayLogs(storeID, selected, sites)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{
		Date:     selected.Format("2006-01-02"),
		LogCount: len(logs),
		Summary:  s.assistant.Summarize(ctx, logs),
	}, nil
}

func (s *dashboardService) Alerts(storeID string) (*AlertsResponse, error) {
	today := lifecycle.Day(s.now().In(s.loc))
	sites, err := s.siteRepo.FindByStore(storeID)
	if err != nil {
		return nil, err
	}
	logs, err := s.dayLogs(storeID, today, sites)
	if err != nil {
		return nil, err
	}
	warnings := aggregate.HighRiskWorklist(logs)
	return &AlertsResponse{
		Date:       today.Format("2006-01-02"),
		HasWarning: aggregate.HasWarningOn(logs, today, s.loc),
		Warnings:   warnings,
	}, nil
}
