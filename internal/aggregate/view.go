package aggregate

import (
	"time"

	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/risk"
)

// RoleNote is a note attributed to the role that wrote it
type RoleNote struct {
	Role  model.Role `json:"role"`
	Label string     `json:"label"`
	Notes string     `json:"notes"`
}

// SiteCard is one row of the monitoring list
type SiteCard struct {
	Site     model.Site               `json:"site"`
	Temporal lifecycle.TemporalStatus `json:"temporal"`
	Badge    string                   `json:"badge"`
	Roles    RoleStatus               `json:"roles"`
	Checked  bool                     `json:"checked"`
	WorkType string                   `json:"work_type,omitempty"`
	Photos   []string                 `json:"photos"`
	Notes    []RoleNote               `json:"notes"`
}

// MonitoringView is everything the monitoring dashboard shows for one day
type MonitoringView struct {
	Date     string                `json:"date"`
	Sites    []SiteCard            `json:"sites"`
	Stats    Statistics            `json:"stats"`
	HighRisk []model.InspectionLog `json:"high_risk"`
	Failures risk.FailureTally     `json:"failures"`
}

// BuildMonitoringView scopes sites to the selected day, orders them relative to
// asOf and folds the day's logs into per-site cards and store statistics.
func BuildMonitoringView(sites []model.Site, logs []model.InspectionLog, selected, asOf time.Time, loc *time.Location) MonitoringView {
	dateLogs := LogsForDate(logs, selected, loc)
	windowSites := lifecycle.WindowSites(sites, selected, asOf)

	cards := make([]SiteCard, 0, len(windowSites))
	for _, s := range windowSites {
		siteLogs := logsOfSite(s.ID, dateLogs)
		status := PerSiteRoleStatus(s, siteLogs)
		temporal := lifecycle.ComputeTemporalStatus(s, asOf)

		card := SiteCard{
			Site:     s,
			Temporal: temporal,
			Badge:    temporal.Label(),
			Roles:    status,
			Checked:  status.Any(),
			WorkType: AggregatedWorkType(status, siteLogs),
			Photos:   make([]string, 0),
			Notes:    make([]RoleNote, 0),
		}
		for _, l := range siteLogs {
			card.Photos = append(card.Photos, l.Photos...)
			if l.Notes != "" {
				card.Notes = append(card.Notes, RoleNote{
					Role:  l.InspectorRole,
					Label: l.InspectorRole.Capability().ShortLabel,
					Notes: l.Notes,
				})
			}
		}
		cards = append(cards, card)
	}

	return MonitoringView{
		Date:     lifecycle.Day(selected).Format("2006-01-02"),
		Sites:    cards,
		Stats:    StoreStatistics(dateLogs, len(windowSites)),
		HighRisk: HighRiskWorklist(dateLogs),
		Failures: risk.DailyFailureAggregate(dateLogs),
	}
}
