// Package sync publishes full per-store snapshots of sites and inspection logs
// to subscribers, re-reading the repositories after every write.
package sync

import (
	"context"
	"errors"
	"log"
	stdsync "sync"

	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("go-sitesafety-ws/internal/sync")

var ErrStoreMismatch = errors.New("record belongs to another store")

// Feed implements session.Source over the gorm repositories
type Feed struct {
	sites repository.SiteRepository
	logs  repository.InspectionLogRepository

	subMu    stdsync.Mutex
	nextID   uint64
	siteSubs map[string]map[uint64]func([]model.Site)
	logSubs  map[string]map[uint64]func([]model.InspectionLog)

	// Serializes load-and-deliver so a subscriber never sees an older
	// snapshot after a newer one
	publishMu stdsync.Mutex
}

func NewFeed(sites repository.SiteRepository, logs repository.InspectionLogRepository) *Feed {
	return &Feed{
		sites:    sites,
		logs:     logs,
		siteSubs: make(map[string]map[uint64]func([]model.Site)),
		logSubs:  make(map[string]map[uint64]func([]model.InspectionLog)),
	}
}

// SubscribeSites delivers the current sites of storeID before returning,
// then a fresh snapshot after each site write to that store.
func (f *Feed) SubscribeSites(storeID string, fn func([]model.Site)) func() {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	f.subMu.Lock()
	f.nextID++
	id := f.nextID
	if f.siteSubs[storeID] == nil {
		f.siteSubs[storeID] = make(map[uint64]func([]model.Site))
	}
	f.siteSubs[storeID][id] = fn
	f.subMu.Unlock()

	if sites, err := f.sites.FindByStore(storeID); err != nil {
		log.Printf("sync: initial sites for %s: %v", storeID, err)
	} else {
		fn(sites)
	}

	return func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		delete(f.siteSubs[storeID], id)
		if len(f.siteSubs[storeID]) == 0 {
			delete(f.siteSubs, storeID)
		}
	}
}

// SubscribeLogs delivers the store's logs newest first, then again after each append
func (f *Feed) SubscribeLogs(storeID string, fn func([]model.InspectionLog)) func() {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	f.subMu.Lock()
	f.nextID++
	id := f.nextID
	if f.logSubs[storeID] == nil {
		f.logSubs[storeID] = make(map[uint64]func([]model.InspectionLog))
	}
	f.logSubs[storeID][id] = fn
	f.subMu.Unlock()

	if logs, err := f.logs.FindByStore(storeID); err != nil {
		log.Printf("sync: initial logs for %s: %v", storeID, err)
	} else {
		fn(logs)
	}

	return func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		delete(f.logSubs[storeID], id)
		if len(f.logSubs[storeID]) == 0 {
			delete(f.logSubs, storeID)
		}
	}
}

// Subscribers counts the active subscriptions of a store
func (f *Feed) Subscribers(storeID string) int {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	return len(f.siteSubs[storeID]) + len(f.logSubs[storeID])
}

func (f *Feed) CreateSite(ctx context.Context, site *model.Site) error {
	if err := f.sites.Create(site); err != nil {
		return err
	}
	f.publishSites(ctx, site.StoreID)
	return nil
}

func (f *Feed) UpdateSite(ctx context.Context, site *model.Site) error {
	if err := f.sites.Update(site); err != nil {
		return err
	}
	f.publishSites(ctx, site.StoreID)
	return nil
}

// DeleteSite removes a site of storeID; sites of other stores are left alone
func (f *Feed) DeleteSite(ctx context.Context, storeID string, id uuid.UUID, deletedBy string) error {
	site, err := f.sites.FindByID(id)
	if err != nil {
		return err
	}
	if site.StoreID != storeID {
		return ErrStoreMismatch
	}
	if err := f.sites.Delete(id, deletedBy); err != nil {
		return err
	}
	f.publishSites(ctx, storeID)
	return nil
}

// AppendLog stores log under storeID and republishes the store's logs
func (f *Feed) AppendLog(ctx context.Context, entry *model.InspectionLog, storeID string) error {
	entry.StoreID = storeID
	if err := f.logs.Append(entry); err != nil {
		return err
	}
	f.publishLogs(ctx, storeID)
	return nil
}

func (f *Feed) publishSites(ctx context.Context, storeID string) {
	_, span := tracer.Start(ctx, "sync.publishSites")
	span.SetAttributes(attribute.String("store.id", storeID))
	defer span.End()

	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	f.subMu.Lock()
	subs := make([]func([]model.Site), 0, len(f.siteSubs[storeID]))
	for _, fn := range f.siteSubs[storeID] {
		subs = append(subs, fn)
	}
	f.subMu.Unlock()
	if len(subs) == 0 {
		return
	}

	sites, err := f.sites.FindByStore(storeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("sync: reload sites for %s: %v", storeID, err)
		return
	}
	span.SetAttributes(attribute.Int("subscribers", len(subs)), attribute.Int("sites", len(sites)))
	for _, fn := range subs {
		fn(sites)
	}
}

func (f *Feed) publishLogs(ctx context.Context, storeID string) {
	_, span := tracer.Start(ctx, "sync.publishLogs")
	span.SetAttributes(attribute.String("store.id", storeID))
	defer span.End()

	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	f.subMu.Lock()
	subs := make([]func([]model.InspectionLog), 0, len(f.logSubs[storeID]))
	for _, fn := range f.logSubs[storeID] {
		subs = append(subs, fn)
	}
	f.subMu.Unlock()
	if len(subs) == 0 {
		return
	}

	logs, err := f.logs.FindByStore(storeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("sync: reload logs for %s: %v", storeID, err)
		return
	}
	span.SetAttributes(attribute.Int("subscribers", len(subs)), attribute.Int("logs", len(logs)))
	for _, fn := range subs {
		fn(logs)
	}
}
