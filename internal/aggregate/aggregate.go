// Package aggregate folds a store's inspection logs into the per-site and
// store-wide views of the monitoring dashboard. It never fails: missing data
// produces empty or zeroed aggregates.
package aggregate

import (
	"time"

	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/risk"

	"github.com/google/uuid"
)

// ExpectedChecksPerSite is the number of field roles expected to inspect each site daily
const ExpectedChecksPerSite = 3

// RoleStatus holds, per field role, the log chosen for a site on one day
type RoleStatus struct {
	Facility *model.InspectionLog `json:"facility"`
	Safety   *model.InspectionLog `json:"safety"`
	Sales    *model.InspectionLog `json:"sales"`
}

// For returns the log chosen for role, nil when none
func (s RoleStatus) For(role model.Role) *model.InspectionLog {
	switch role {
	case model.RoleFacility:
		return s.Facility
	case model.RoleSafety:
		return s.Safety
	case model.RoleSales:
		return s.Sales
	}
	return nil
}

// Any reports whether at least one role checked the site
func (s RoleStatus) Any() bool {
	return s.Facility != nil || s.Safety != nil || s.Sales != nil
}

// Statistics summarises one day of a store
type Statistics struct {
	WarningCount    int     `json:"warning_count"`
	FacilityChecks  int     `json:"facility_checks"`
	SafetyChecks    int     `json:"safety_checks"`
	SalesChecks     int     `json:"sales_checks"`
	TotalLogs       int     `json:"total_logs"`
	SitesInWindow   int     `json:"sites_in_window"`
	CompletionRatio float64 `json:"completion_ratio"`
}

// LogsForDate keeps the logs whose timestamp, read in loc, falls on selected.
// selected is interpreted as a calendar date.
func LogsForDate(logs []model.InspectionLog, selected time.Time, loc *time.Location) []model.InspectionLog {
	if loc == nil {
		loc = time.UTC
	}
	day := lifecycle.Day(selected)
	out := make([]model.InspectionLog, 0)
	for _, l := range logs {
		if lifecycle.Day(l.Timestamp.In(loc)).Equal(day) {
			out = append(out, l)
		}
	}
	return out
}

// PerSiteRoleStatus picks, for each field role, one log of site from dateLogs.
// When a role submitted more than once, the earliest inserted log (lowest Seq)
// wins regardless of the order of dateLogs.
func PerSiteRoleStatus(site model.Site, dateLogs []model.InspectionLog) RoleStatus {
	var status RoleStatus
	pick := func(cur **model.InspectionLog, l *model.InspectionLog) {
		if *cur == nil || l.Seq < (*cur).Seq {
			*cur = l
		}
	}
	for i := range dateLogs {
		l := &dateLogs[i]
		if l.SiteID != site.ID {
			continue
		}
		switch l.InspectorRole {
		case model.RoleFacility:
			pick(&status.Facility, l)
		case model.RoleSafety:
			pick(&status.Safety, l)
		case model.RoleSales:
			pick(&status.Sales, l)
		}
	}
	return status
}

// StoreStatistics counts the day's checks. The completion ratio compares the
// number of logs with ExpectedChecksPerSite checks per site in the window,
// clamped to [0, 1]; no sites means 0.
func StoreStatistics(dateLogs []model.InspectionLog, siteCountInWindow int) Statistics {
	stats := Statistics{TotalLogs: len(dateLogs), SitesInWindow: siteCountInWindow}
	for _, l := range dateLogs {
		if risk.IsHighRisk(l) {
			stats.WarningCount++
		}
		switch l.InspectorRole {
		case model.RoleFacility:
			stats.FacilityChecks++
		case model.RoleSafety:
			stats.SafetyChecks++
		case model.RoleSales:
			stats.SalesChecks++
		}
	}

	expected := siteCountInWindow * ExpectedChecksPerSite
	if expected <= 0 {
		return stats
	}
	ratio := float64(len(dateLogs)) / float64(expected)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	stats.CompletionRatio = ratio
	return stats
}

// HighRiskWorklist keeps WARNING logs in their input order
func HighRiskWorklist(dateLogs []model.InspectionLog) []model.InspectionLog {
	out := make([]model.InspectionLog, 0)
	for _, l := range dateLogs {
		if risk.IsHighRisk(l) {
			out = append(out, l)
		}
	}
	return out
}

// AggregatedWorkType returns the first non-empty work type, checking the
// safety log, then facility, then sales, then any other log of the site.
func AggregatedWorkType(status RoleStatus, siteLogs []model.InspectionLog) string {
	for _, role := range []model.Role{model.RoleSafety, model.RoleFacility, model.RoleSales} {
		if l := status.For(role); l != nil && l.WorkType != "" {
			return l.WorkType
		}
	}
	for _, l := range siteLogs {
		if l.WorkType != "" {
			return l.WorkType
		}
	}
	return ""
}

// HasWarningOn reports whether any WARNING log was recorded on day
func HasWarningOn(logs []model.InspectionLog, day time.Time, loc *time.Location) bool {
	return len(HighRiskWorklist(LogsForDate(logs, day, loc))) > 0
}

func logsOfSite(siteID uuid.UUID, logs []model.InspectionLog) []model.InspectionLog {
	out := make([]model.InspectionLog, 0)
	for _, l := range logs {
		if l.SiteID == siteID {
			out = append(out, l)
		}
	}
	return out
}

// ScopeLogs keeps the logs that reference one of sites. Logs of sites outside
// the current store never reach a view.
func ScopeLogs(sites []model.Site, logs []model.InspectionLog) []model.InspectionLog {
	ids := make(map[uuid.UUID]struct{}, len(sites))
	for _, s := range sites {
		ids[s.ID] = struct{}{}
	}
	out := make([]model.InspectionLog, 0, len(logs))
	for _, l := range logs {
		if _, ok := ids[l.SiteID]; ok {
			out = append(out, l)
		}
	}
	return out
}
