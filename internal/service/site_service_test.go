package service

import (
	"context"
	"errors"
	"testing"

	"go-sitesafety-ws/internal/lifecycle"
	"go-sitesafety-ws/internal/model"

	"github.com/google/uuid"
)

func TestListFiltersByRole(t *testing.T) {
	expired := newTestSite("dept-1", "expired", "2024-05-01", "2024-06-09")
	urgent := newTestSite("dept-1", "urgent", "2024-06-01", "2024-06-12")
	active := newTestSite("dept-1", "active", "2024-05-15", "2024-07-31")
	other := newTestSite("outlet-1", "other store", "2024-06-01", "2024-06-30")
	f := newFixture(expired, active, urgent, other)

	fieldList, err := f.site.List("dept-1", model.RoleFacility)
	if err != nil {
		t.Fatal(err)
	}
	if len(fieldList) != 2 || fieldList[0].Name != "active" || fieldList[1].Name != "urgent" {
		t.Fatalf("field list keeps stored order without expired: %+v", fieldList)
	}

	monList, _ := f.site.List("dept-1", model.RoleSupport)
	names := []string{}
	for _, s := range monList {
		names = append(names, s.Name)
	}
	if len(names) != 3 || names[0] != "urgent" || names[1] != "active" || names[2] != "expired" {
		t.Fatalf("monitoring order = %v", names)
	}
	if monList[0].Temporal.Kind != lifecycle.KindUrgent || monList[0].Badge != "Due in 2 days" {
		t.Fatalf("urgent = %+v", monList[0])
	}
}

func TestGetMissingReference(t *testing.T) {
	expired := newTestSite("dept-1", "expired", "2024-05-01", "2024-06-09")
	other := newTestSite("outlet-1", "other", "2024-06-01", "2024-06-30")
	f := newFixture(expired, other)

	sites, _ := f.sites.FindByStore("dept-1")
	expiredID := sites[0].ID
	others, _ := f.sites.FindByStore("outlet-1")

	if _, err := f.site.Get("dept-1", model.RoleSafety, expiredID); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("expired for field role: %v", err)
	}
	if got, err := f.site.Get("dept-1", model.RoleSupport, expiredID); err != nil || got.Temporal.Kind != lifecycle.KindExpired {
		t.Fatalf("expired for monitoring: %+v %v", got, err)
	}
	if _, err := f.site.Get("dept-1", model.RoleSupport, others[0].ID); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("other store: %v", err)
	}
	if _, err := f.site.Get("dept-1", model.RoleSupport, uuid.New()); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestCreateSiteDefaultsAndValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var delivered [][]model.Site
	f.feed.SubscribeSites("dept-1", func(s []model.Site) { delivered = append(delivered, s) })

	site, err := f.site.Create(ctx, "dept-1", &CreateSiteRequest{
		Name:       "Escalator replacement",
		Department: "Facilities",
		StartDate:  "2024-06-01",
		EndDate:    "2024-06-20",
	}, "dept-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if site.FloorLabel != "1F" || site.Status != model.SiteStatusPending || site.StoreID != "dept-1" {
		t.Fatalf("defaults = %+v", site)
	}
	if len(delivered) != 2 || len(delivered[1]) != 1 {
		t.Fatalf("feed deliveries = %d", len(delivered))
	}

	cases := []struct {
		name string
		req  CreateSiteRequest
		err  error
	}{
		{"missing name", CreateSiteRequest{Department: "d", StartDate: "2024-06-01", EndDate: "2024-06-02"}, ErrValidation},
		{"bad status", CreateSiteRequest{Name: "n", Department: "d", StartDate: "2024-06-01", EndDate: "2024-06-02", Status: "OPEN"}, ErrValidation},
		{"bad date", CreateSiteRequest{Name: "n", Department: "d", StartDate: "06/01/2024", EndDate: "2024-06-02"}, ErrInvalidDateFormat},
		{"end before start", CreateSiteRequest{Name: "n", Department: "d", StartDate: "2024-06-05", EndDate: "2024-06-02"}, ErrEndDateBeforeStart},
	}
	for _, tt := range cases {
		req := tt.req
		if _, err := f.site.Create(ctx, "dept-1", &req, "dept-1"); !errors.Is(err, tt.err) {
			t.Fatalf("%s: err = %v, want %v", tt.name, err, tt.err)
		}
	}
}

func TestUpdateKeepsStoreAndChecksScope(t *testing.T) {
	f := newFixture(newTestSite("dept-1", "a", "2024-06-01", "2024-06-20"))
	ctx := context.Background()
	sites, _ := f.sites.FindByStore("dept-1")
	id := sites[0].ID

	status := string(model.SiteStatusInProgress)
	end := "2024-06-25"
	updated, err := f.site.Update(ctx, "dept-1", id, &UpdateSiteRequest{Status: &status, EndDate: &end}, "dept-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.SiteStatusInProgress || updated.StoreID != "dept-1" || updated.EndDate.Day() != 25 {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := f.site.Update(ctx, "outlet-1", id, &UpdateSiteRequest{Status: &status}, "outlet-1"); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("other store update: %v", err)
	}

	early := "2024-05-01"
	if _, err := f.site.Update(ctx, "dept-1", id, &UpdateSiteRequest{EndDate: &early}, "dept-1"); !errors.Is(err, ErrEndDateBeforeStart) {
		t.Fatalf("end before start: %v", err)
	}

	if err := f.site.Delete(ctx, "outlet-1", id, "outlet-1"); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("other store delete: %v", err)
	}
	if err := f.site.Delete(ctx, "dept-1", id, "dept-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.site.Get("dept-1", model.RoleSupport, id); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("deleted site still found: %v", err)
	}
}
