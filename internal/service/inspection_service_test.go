package service

import (
	"context"
	"errors"
	"testing"

	"go-sitesafety-ws/internal/ai"
	"go-sitesafety-ws/internal/inspection"
	"go-sitesafety-ws/internal/model"

	"github.com/google/uuid"
)

func firstSiteID(t *testing.T, f *fixture, storeID string) uuid.UUID {
	t.Helper()
	sites, err := f.sites.FindByStore(storeID)
	if err != nil || len(sites) == 0 {
		t.Fatalf("no sites for %s: %v", storeID, err)
	}
	return sites[0].ID
}

func submitRequest(siteID uuid.UUID, workType string) *SubmitInspectionRequest {
	return &SubmitInspectionRequest{
		SiteID:    siteID.String(),
		WorkType:  workType,
		RiskLevel: string(model.RiskNormal),
		Checklist: model.NewChecklist(true, true, true, true),
	}
}

func TestSubmitWorkTypeRequiredOnlyForSafety(t *testing.T) {
	f := newFixture(newTestSite("dept-1", "Elevator", "2024-06-01", "2024-06-30"))
	ctx := context.Background()
	id := firstSiteID(t, f, "dept-1")

	if _, err := f.insp.Submit(ctx, field("dept-1", model.RoleSafety), submitRequest(id, "  ")); !errors.Is(err, inspection.ErrWorkTypeRequired) {
		t.Fatalf("safety without work type: %v", err)
	}
	if logs, _ := f.logs.FindByStore("dept-1"); len(logs) != 0 {
		t.Fatalf("rejected submission was stored: %d", len(logs))
	}

	entry, err := f.insp.Submit(ctx, field("dept-1", model.RoleFacility), submitRequest(id, ""))
	if err != nil {
		t.Fatalf("facility without work type: %v", err)
	}
	if entry.InspectorName != "Facility Inspector" || entry.InspectorRole != model.RoleFacility || entry.SiteName != "Elevator" {
		t.Fatalf("entry = %+v", entry)
	}
	if !entry.Timestamp.Equal(fixedNow()) {
		t.Fatalf("timestamp = %v", entry.Timestamp)
	}

	payload := f.notifier.waitFor(t, "dept-1")
	if payload["type"] != "inspection_update" || payload["high_risk"] != false || payload["role"] != "FACILITY" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestSubmitRejections(t *testing.T) {
	f := newFixture(
		newTestSite("dept-1", "expired", "2024-05-01", "2024-06-09"),
		newTestSite("outlet-1", "other", "2024-06-01", "2024-06-30"),
	)
	ctx := context.Background()
	expired := firstSiteID(t, f, "dept-1")
	other := firstSiteID(t, f, "outlet-1")
	sess := field("dept-1", model.RoleSales)

	if _, err := f.insp.Submit(ctx, sess, submitRequest(expired, "")); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("expired site: %v", err)
	}
	if _, err := f.insp.Submit(ctx, sess, submitRequest(other, "")); !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("other store site: %v", err)
	}
	if _, err := f.insp.Submit(ctx, monitoring("dept-1"), submitRequest(expired, "x")); !errors.Is(err, inspection.ErrNotFieldRole) {
		t.Fatalf("monitoring submit: %v", err)
	}

	missing := submitRequest(other, "")
	missing.Checklist.Electrical = nil
	if _, err := f.insp.Submit(ctx, field("outlet-1", model.RoleSales), missing); !errors.Is(err, ErrValidation) {
		t.Fatalf("incomplete checklist: %v", err)
	}

	badRisk := submitRequest(other, "")
	badRisk.RiskLevel = "SEVERE"
	if _, err := f.insp.Submit(ctx, field("outlet-1", model.RoleSales), badRisk); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown risk: %v", err)
	}
}

func TestSubmitFailedWriteIsReported(t *testing.T) {
	f := newFixture(newTestSite("dept-1", "a", "2024-06-01", "2024-06-30"))
	f.logs.AppendErr = errors.New("disk full")

	_, err := f.insp.Submit(context.Background(), field("dept-1", model.RoleSales), submitRequest(firstSiteID(t, f, "dept-1"), ""))
	if err == nil {
		t.Fatal("expected the write error")
	}
}

func TestDraftFlow(t *testing.T) {
	f := newFixture(newTestSite("dept-1", "Roof", "2024-06-01", "2024-06-30"))
	f.ai.classify = ai.Classification{Risk: model.RiskWarning, Description: "exposed wiring"}
	ctx := context.Background()
	sess := field("dept-1", model.RoleSafety)

	view, err := f.insp.CreateDraft(sess, firstSiteID(t, f, "dept-1"))
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if view.RiskLevel != model.RiskNormal || view.SiteName != "Roof" {
		t.Fatalf("new draft = %+v", view)
	}

	if _, err := f.insp.AddPhoto(ctx, sess, view.ID, "data:image/jpeg;base64,AAAA"); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	f.drafts.Wait()

	got, err := f.insp.GetDraft(sess, view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RiskLevel != model.RiskWarning || got.Notes != "exposed wiring" || got.Analyzing {
		t.Fatalf("suggestion not applied: %+v", got)
	}

	// Other roles of the same store cannot reach the draft
	if _, err := f.insp.GetDraft(field("dept-1", model.RoleSales), view.ID); !errors.Is(err, inspection.ErrDraftNotFound) {
		t.Fatalf("other role: %v", err)
	}
	if _, err := f.insp.GetDraft(field("outlet-1", model.RoleSafety), view.ID); !errors.Is(err, inspection.ErrDraftNotFound) {
		t.Fatalf("other store: %v", err)
	}

	if _, err := f.insp.SubmitDraft(ctx, sess, view.ID); !errors.Is(err, inspection.ErrWorkTypeRequired) {
		t.Fatalf("submit without work type: %v", err)
	}

	workType := "Cable tray"
	checks := model.NewChecklist(true, true, true, false)
	if _, err := f.insp.UpdateDraft(sess, view.ID, &UpdateDraftRequest{WorkType: &workType, Checklist: &checks}); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	bad := "SEVERE"
	if _, err := f.insp.UpdateDraft(sess, view.ID, &UpdateDraftRequest{RiskLevel: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad risk: %v", err)
	}
	lower := "warning"
	if updated, err := f.insp.UpdateDraft(sess, view.ID, &UpdateDraftRequest{RiskLevel: &lower}); err != nil || updated.RiskLevel != model.RiskWarning {
		t.Fatalf("lowercase risk: %+v %v", updated, err)
	}

	entry, err := f.insp.SubmitDraft(ctx, sess, view.ID)
	if err != nil {
		t.Fatalf("submit draft: %v", err)
	}
	if entry.RiskLevel != model.RiskWarning || entry.WorkType != "Cable tray" || len(entry.Photos) != 1 {
		t.Fatalf("entry = %+v", entry)
	}
	if _, err := f.insp.GetDraft(sess, view.ID); !errors.Is(err, inspection.ErrDraftNotFound) {
		t.Fatalf("draft kept after submit: %v", err)
	}

	payload := f.notifier.waitFor(t, "dept-1")
	if payload["high_risk"] != true {
		t.Fatalf("payload = %v", payload)
	}
	items, _ := payload["failed_items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("failed items = %v", payload["failed_items"])
	}
}

func TestDiscardDraft(t *testing.T) {
	f := newFixture(newTestSite("dept-1", "a", "2024-06-01", "2024-06-30"))
	sess := field("dept-1", model.RoleFacility)
	view, err := f.insp.CreateDraft(sess, firstSiteID(t, f, "dept-1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.insp.RemovePhoto(sess, view.ID, 0); !errors.Is(err, inspection.ErrPhotoIndex) {
		t.Fatalf("remove from empty draft: %v", err)
	}
	if err := f.insp.DiscardDraft(sess, view.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.insp.DiscardDraft(sess, view.ID); !errors.Is(err, inspection.ErrDraftNotFound) {
		t.Fatalf("second discard: %v", err)
	}
	if f.drafts.Len() != 0 {
		t.Fatalf("drafts left: %d", f.drafts.Len())
	}
}
