// Package lifecycle derives the temporal status of construction sites and
// the two site filters used by field and monitoring roles.
package lifecycle

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go-sitesafety-ws/internal/model"
)

// Kind is the computed temporal status of a site
type Kind string

const (
	KindUrgent  Kind = "URGENT"
	KindActive  Kind = "ACTIVE"
	KindExpired Kind = "EXPIRED"
)

// UrgentWindowDays is the last stretch of a site's schedule flagged as urgent
const UrgentWindowDays = 3

var displayRank = map[Kind]int{
	KindUrgent:  0,
	KindActive:  1,
	KindExpired: 2,
}

// TemporalStatus is computed from the end date only, never from Site.Status
type TemporalStatus struct {
	Kind          Kind `json:"kind"`
	DaysRemaining int  `json:"days_remaining"`
}

// Label is the badge text shown next to a site
func (s TemporalStatus) Label() string {
	switch s.Kind {
	case KindExpired:
		return "Expired"
	case KindUrgent:
		return fmt.Sprintf("Due in %d days", s.DaysRemaining)
	default:
		return "In progress"
	}
}

// Day returns the calendar date of t, read in t's own location, as UTC midnight.
// Time of day is never significant for site scheduling.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(math.Ceil(Day(to).Sub(Day(from)).Hours() / 24))
}

// ComputeTemporalStatus classifies site relative to asOf
func ComputeTemporalStatus(site model.Site, asOf time.Time) TemporalStatus {
	remaining := daysBetween(asOf, site.EndDate)
	switch {
	case Day(site.EndDate).Before(Day(asOf)):
		return TemporalStatus{Kind: KindExpired, DaysRemaining: remaining}
	case remaining >= 0 && remaining <= UrgentWindowDays:
		return TemporalStatus{Kind: KindUrgent, DaysRemaining: remaining}
	default:
		return TemporalStatus{Kind: KindActive, DaysRemaining: remaining}
	}
}

// IsVisibleForFieldDate reports whether field roles may still inspect site on asOf
func IsVisibleForFieldDate(site model.Site, asOf time.Time) bool {
	return !Day(site.EndDate).Before(Day(asOf))
}

// IsWithinWindow reports whether selected falls in [StartDate, EndDate]
func IsWithinWindow(site model.Site, selected time.Time) bool {
	day := Day(selected)
	return !day.Before(Day(site.StartDate)) && !day.After(Day(site.EndDate))
}

// SortForDisplay orders sites by temporal rank (urgent, active, expired) then
// by ascending start date. Ties keep their input order. The input is not modified.
func SortForDisplay(sites []model.Site, asOf time.Time) []model.Site {
	ranks := make([]int, len(sites))
	idx := make([]int, len(sites))
	for i := range sites {
		ranks[i] = displayRank[ComputeTemporalStatus(sites[i], asOf).Kind]
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := ranks[idx[a]], ranks[idx[b]]
		if ra != rb {
			return ra < rb
		}
		return Day(sites[idx[a]].StartDate).Before(Day(sites[idx[b]].StartDate))
	})

	sorted := make([]model.Site, len(sites))
	for i, j := range idx {
		sorted[i] = sites[j]
	}
	return sorted
}

// FieldSites hides sites whose end date has passed. Input order is kept.
func FieldSites(sites []model.Site, asOf time.Time) []model.Site {
	out := make([]model.Site, 0, len(sites))
	for _, s := range sites {
		if IsVisibleForFieldDate(s, asOf) {
			out = append(out, s)
		}
	}
	return out
}

// WindowSites keeps the sites scheduled on selected and orders them for display
// relative to asOf.
func WindowSites(sites []model.Site, selected, asOf time.Time) []model.Site {
	in := make([]model.Site, 0, len(sites))
	for _, s := range sites {
		if IsWithinWindow(s, selected) {
			in = append(in, s)
		}
	}
	return SortForDisplay(in, asOf)
}
