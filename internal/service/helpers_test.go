package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-sitesafety-ws/internal/ai"
	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/inspection"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository/repotest"
	internalsync "go-sitesafety-ws/internal/sync"
)

var kst = time.FixedZone("KST", 9*60*60)

func fixedNow() time.Time {
	return time.Date(2024, 6, 10, 9, 0, 0, 0, kst)
}

func testStores() *repotest.Stores {
	return repotest.NewStores(
		model.StoreSeed{Store: model.Store{ID: "dept-1", Name: "Seoul Yeouido", Category: model.CategoryDepartment}, AccessCode: "1123"},
		model.StoreSeed{Store: model.Store{ID: "outlet-1", Name: "Premium Outlet Gimpo", Category: model.CategoryOutlet}, AccessCode: "1124"},
	)
}

func field(storeID string, role model.Role) gate.Session {
	return gate.Session{State: gate.StateFieldWork, AppUnlocked: true, StoreID: storeID, Role: role}
}

func monitoring(storeID string) gate.Session {
	return gate.Session{State: gate.StateMonitoring, AppUnlocked: true, StoreID: storeID, Role: model.RoleSupport}
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, kst)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestSite(storeID, name, start, end string) model.Site {
	return model.Site{
		StoreID:    storeID,
		Name:       name,
		FloorLabel: "1F",
		Department: "Facilities",
		StartDate:  day(start),
		EndDate:    day(end),
		Status:     model.SiteStatusPending,
	}
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs map[string][][]byte
	sent chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{msgs: map[string][][]byte{}, sent: make(chan struct{}, 16)}
}

func (r *recordingNotifier) SendToStore(storeID string, message []byte) {
	r.mu.Lock()
	r.msgs[storeID] = append(r.msgs[storeID], message)
	r.mu.Unlock()
	r.sent <- struct{}{}
}

type stubAssistant struct {
	mu       sync.Mutex
	summary  string
	classify ai.Classification
	got      []model.InspectionLog
}

func (s *stubAssistant) Summarize(ctx context.Context, logs []model.InspectionLog) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = logs
	return s.summary
}

func (s *stubAssistant) ClassifyPhoto(ctx context.Context, image string) ai.Classification {
	return s.classify
}

// fixture wires the services over in-memory repositories and the real feed
type fixture struct {
	stores   *repotest.Stores
	sites    *repotest.Sites
	logs     *repotest.Logs
	feed     *internalsync.Feed
	notifier *recordingNotifier
	site     SiteService
	insp     InspectionService
	dash     DashboardService
	drafts   *inspection.Registry
	ai       *stubAssistant
}

func newFixture(sites ...model.Site) *fixture {
	f := &fixture{
		stores:   testStores(),
		sites:    repotest.NewSites(sites...),
		logs:     repotest.NewLogs(),
		notifier: newRecordingNotifier(),
		drafts:   inspection.NewRegistry(),
		ai:       &stubAssistant{summary: "all good"},
	}
	f.feed = internalsync.NewFeed(f.sites, f.logs)

	siteSvc := NewSiteService(f.sites, f.feed, kst).(*siteService)
	siteSvc.now = fixedNow
	f.site = siteSvc

	inspSvc := NewInspectionService(f.site, f.feed, f.drafts, f.ai, f.notifier).(*inspectionService)
	inspSvc.now = fixedNow
	f.insp = inspSvc

	dashSvc := NewDashboardService(f.sites, f.logs, f.ai, kst).(*dashboardService)
	dashSvc.now = fixedNow
	f.dash = dashSvc
	return f
}

func (r *recordingNotifier) waitFor(t *testing.T, storeID string) map[string]interface{} {
	t.Helper()
	select {
	case <-r.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.msgs[storeID]
	if len(msgs) == 0 {
		t.Fatalf("no notification for store %s", storeID)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(msgs[len(msgs)-1], &payload); err != nil {
		t.Fatal(err)
	}
	return payload
}
