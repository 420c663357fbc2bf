package handler

import (
	"encoding/json"
	"testing"
	"time"

	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository/repotest"
	"go-sitesafety-ws/internal/session"
	internalsync "go-sitesafety-ws/internal/sync"
)

type pushedSnapshot struct {
	Type       string `json:"type"`
	State      string `json:"state"`
	HasWarning bool   `json:"has_warning"`
	Sites      []struct {
		Name     string `json:"name"`
		Temporal struct {
			Kind string `json:"kind"`
		} `json:"temporal"`
	} `json:"sites"`
	Monitoring *struct {
		Date  string `json:"date"`
		Sites []struct {
			Site struct {
				Name string `json:"name"`
			} `json:"site"`
			Temporal struct {
				Kind string `json:"kind"`
			} `json:"temporal"`
		} `json:"sites"`
		Stats struct {
			WarningCount int `json:"warning_count"`
		} `json:"stats"`
	} `json:"monitoring"`
}

func TestPushedMonitoringSnapshot(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, kst)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	active := model.Site{StoreID: "dept-1", Name: "Lobby", StartDate: day(6, 1), EndDate: day(7, 30), Status: model.SiteStatusInProgress}
	urgent := model.Site{StoreID: "dept-1", Name: "Escalator", StartDate: day(6, 5), EndDate: day(6, 11), Status: model.SiteStatusInProgress}
	sites := repotest.NewSites(active, urgent)
	stored, _ := sites.FindByStore("dept-1")

	logs := repotest.NewLogs()
	warning := model.InspectionLog{
		SiteID:        stored[1].ID,
		StoreID:       "dept-1",
		SiteName:      "Escalator",
		Timestamp:     now,
		RiskLevel:     model.RiskWarning,
		InspectorRole: model.RoleSafety,
		Checklist:     model.NewChecklist(true, true, true, true),
	}
	if err := logs.Append(&warning); err != nil {
		t.Fatal(err)
	}

	var pushed [][]byte
	scope := session.New(internalsync.NewFeed(sites, logs), kst, func(s session.Snapshot) {
		msg, err := encodeSnapshot(s)
		if err != nil {
			t.Errorf("encode: %v", err)
			return
		}
		pushed = append(pushed, msg)
	})
	scope.SetClock(func() time.Time { return now })
	scope.Apply(gate.Session{State: gate.StateMonitoring, AppUnlocked: true, StoreID: "dept-1", Role: model.RoleSupport})
	defer scope.Close()

	if len(pushed) == 0 {
		t.Fatal("nothing pushed")
	}
	var msg pushedSnapshot
	if err := json.Unmarshal(pushed[len(pushed)-1], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "snapshot" || msg.State != string(gate.StateMonitoring) {
		t.Fatalf("message = %+v", msg)
	}
	if len(msg.Sites) != 2 || msg.Sites[0].Name != "Escalator" || msg.Sites[0].Temporal.Kind != "URGENT" || msg.Sites[1].Temporal.Kind != "ACTIVE" {
		t.Fatalf("sites = %+v", msg.Sites)
	}
	if msg.Monitoring == nil {
		t.Fatal("monitoring view missing")
	}
	view := msg.Monitoring
	if view.Date != "2024-06-10" || len(view.Sites) != 2 {
		t.Fatalf("view = %+v", view)
	}
	if view.Sites[0].Temporal.Kind != "URGENT" || view.Sites[1].Temporal.Kind != "ACTIVE" {
		t.Fatalf("view order = %+v", view.Sites)
	}
	if view.Stats.WarningCount == 0 || !msg.HasWarning {
		t.Fatalf("warning not reported: stats=%+v bell=%v", view.Stats, msg.HasWarning)
	}
}
