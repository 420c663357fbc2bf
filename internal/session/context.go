// Package session holds the unlocked scope of one operator together with the
// store data delivered for it, and decides which of that data the current
// role may see.
package session

import (
	"sync"
	"time"

	"go-sitesafety-ws/internal/aggregate"
	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"
)

// Source pushes full snapshots of a store's sites and logs.
// The returned func detaches the subscription.
type Source interface {
	SubscribeSites(storeID string, fn func([]model.Site)) func()
	SubscribeLogs(storeID string, fn func([]model.InspectionLog)) func()
}

// SiteEntry is a visible site with its deadline status as of today
type SiteEntry struct {
	model.Site
	Temporal lifecycle.TemporalStatus `json:"temporal"`
	Badge    string                   `json:"badge"`
}

// Snapshot is what the current scope may display. Monitoring is set only in
// the monitoring state and covers the selected day.
type Snapshot struct {
	Generation uint64                    `json:"generation"`
	State      gate.State                `json:"state"`
	StoreID    string                    `json:"store_id,omitempty"`
	Role       model.Role                `json:"role,omitempty"`
	Sites      []SiteEntry               `json:"sites"`
	Logs       []model.InspectionLog     `json:"logs"`
	Monitoring *aggregate.MonitoringView `json:"monitoring,omitempty"`
	HasWarning bool                      `json:"has_warning"`
}

// Context is safe for concurrent use. onChange runs with the context locked
// and must not call back into it.
type Context struct {
	mu       sync.Mutex
	src      Source
	loc      *time.Location
	now      func() time.Time
	onChange func(Snapshot)

	sess     gate.Session
	gen      uint64
	selected time.Time
	sites    []model.Site
	logs     []model.InspectionLog
	unsubs   []func()
}

// New returns a locked context. onChange may be nil.
func New(src Source, loc *time.Location, onChange func(Snapshot)) *Context {
	if loc == nil {
		loc = time.UTC
	}
	if onChange == nil {
		onChange = func(Snapshot) {}
	}
	return &Context{
		src:      src,
		loc:      loc,
		now:      time.Now,
		onChange: onChange,
		sess:     gate.Locked(),
	}
}

// SetClock replaces the clock used for "today"
func (c *Context) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// SelectDate changes the day the monitoring view covers. A zero day
// follows today.
func (c *Context) SelectDate(day time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = day
	c.emitLocked()
}

// Session returns the current scope
func (c *Context) Session() gate.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// Apply moves the context to next. Within the same store the loaded data is
// kept and only re-filtered for the new role. When the store changes the old
// subscriptions are detached and the data cleared, the empty snapshot is
// emitted, and only then is the new store subscribed.
func (c *Context) Apply(next gate.Session) {
	c.mu.Lock()
	if next.StoreID == c.sess.StoreID {
		c.sess = next
		c.emitLocked()
		c.mu.Unlock()
		return
	}

	old := c.unsubs
	c.unsubs = nil
	for _, unsub := range old {
		unsub()
	}
	c.sess = next
	c.selected = time.Time{}
	c.sites = nil
	c.logs = nil
	c.gen++
	gen := c.gen
	c.emitLocked()
	c.mu.Unlock()

	if next.StoreID == "" {
		return
	}

	// Subscriptions may deliver synchronously, so they are attached unlocked
	unsubs := []func(){
		c.src.SubscribeSites(next.StoreID, c.siteHandler(gen, next.StoreID)),
		c.src.SubscribeLogs(next.StoreID, c.logHandler(gen, next.StoreID)),
	}

	c.mu.Lock()
	if gen == c.gen {
		c.unsubs = unsubs
		unsubs = nil
	}
	c.mu.Unlock()

	// Superseded by a later Apply while subscribing
	for _, unsub := range unsubs {
		unsub()
	}
}

// Close detaches all subscriptions and locks the context
func (c *Context) Close() {
	c.Apply(gate.Lock())
}

func (c *Context) siteHandler(gen uint64, storeID string) func([]model.Site) {
	return func(sites []model.Site) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			return
		}
		kept := make([]model.Site, 0, len(sites))
		for _, s := range sites {
			if s.StoreID == storeID {
				kept = append(kept, s)
			}
		}
		c.sites = kept
		c.emitLocked()
	}
}

func (c *Context) logHandler(gen uint64, storeID string) func([]model.InspectionLog) {
	return func(logs []model.InspectionLog) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			return
		}
		kept := make([]model.InspectionLog, 0, len(logs))
		for _, l := range logs {
			if l.StoreID == storeID {
				kept = append(kept, l)
			}
		}
		c.logs = kept
		c.emitLocked()
	}
}

func (c *Context) today() time.Time {
	return c.now().In(c.loc)
}

func (c *Context) selectedLocked(today time.Time) time.Time {
	if c.selected.IsZero() {
		return today
	}
	return c.selected
}

// visibleLocked applies the role filters: field roles get non-expired sites
// in stored order and no logs, monitoring gets every site in display order
// and the logs of those sites.
func (c *Context) visibleLocked(today time.Time) ([]model.Site, []model.InspectionLog) {
	switch c.sess.State {
	case gate.StateFieldWork:
		return lifecycle.FieldSites(c.sites, today), []model.InspectionLog{}
	case gate.StateMonitoring:
		return lifecycle.SortForDisplay(c.sites, today), aggregate.ScopeLogs(c.sites, c.logs)
	}
	return []model.Site{}, []model.InspectionLog{}
}

func (c *Context) monitoringLocked(selected, today time.Time) aggregate.MonitoringView {
	if c.sess.State != gate.StateMonitoring {
		return aggregate.BuildMonitoringView(nil, nil, selected, today, c.loc)
	}
	return aggregate.BuildMonitoringView(c.sites, aggregate.ScopeLogs(c.sites, c.logs), selected, today, c.loc)
}

func (c *Context) snapshotLocked() Snapshot {
	today := c.today()
	sites, logs := c.visibleLocked(today)

	entries := make([]SiteEntry, 0, len(sites))
	for _, s := range sites {
		temporal := lifecycle.ComputeTemporalStatus(s, today)
		entries = append(entries, SiteEntry{Site: s, Temporal: temporal, Badge: temporal.Label()})
	}

	snap := Snapshot{
		Generation: c.gen,
		State:      c.sess.State,
		StoreID:    c.sess.StoreID,
		Role:       c.sess.Role,
		Sites:      entries,
		Logs:       logs,
	}
	if c.sess.State == gate.StateMonitoring {
		view := c.monitoringLocked(c.selectedLocked(today), today)
		snap.Monitoring = &view
		snap.HasWarning = aggregate.HasWarningOn(logs, today, c.loc)
	}
	return snap
}

func (c *Context) emitLocked() {
	c.onChange(c.snapshotLocked())
}

// Snapshot returns the data currently visible to the scope
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// FieldSites lists the sites a field role may inspect today
func (c *Context) FieldSites() []model.Site {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.State != gate.StateFieldWork {
		return []model.Site{}
	}
	sites, _ := c.visibleLocked(c.today())
	return sites
}

// MonitoringView builds the dashboard for selected. Outside monitoring the
// view is empty.
func (c *Context) MonitoringView(selected time.Time) aggregate.MonitoringView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitoringLocked(selected, c.today())
}

// HasWarningToday drives the monitoring alert bell
func (c *Context) HasWarningToday() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.State != gate.StateMonitoring {
		return false
	}
	today := c.today()
	_, logs := c.visibleLocked(today)
	return aggregate.HasWarningOn(logs, today, c.loc)
}
