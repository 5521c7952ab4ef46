package sync

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/cincodev/cinco-billing/internal/db"
	"github.com/cincodev/cinco-billing/internal/models"
)

// DefaultInterval is how often a sync tick fires when none is configured.
const DefaultInterval = 3 * time.Second

// Notifier publishes change events after mutations and successful syncs.
type Notifier interface {
	PublishChange(kind string) error
}

// Config wires an Engine's collaborators.
type Config struct {
	Sites          db.SiteCollection
	Tenants        db.TenantCollection
	BillingRecords db.BillingRecordCollection
	State          db.SyncStateCollection
	Remote         Remote
	Notifier       Notifier
	Interval       time.Duration
	Logger         *log.Logger
}

// Engine owns the periodic reconciliation loop and is the single write
// path for the three entity collections. It is constructed explicitly by
// the composition root and runs between Start and Stop; ticks overlap is
// prevented by a single-flight guard that skips a tick while one is
// still in flight.
type Engine struct {
	sites    db.SiteCollection
	tenants  db.TenantCollection
	records  db.BillingRecordCollection
	state    db.SyncStateCollection
	remote   Remote
	notifier Notifier
	interval time.Duration
	log      *log.Entry

	cron     *cron.Cron
	inFlight atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a stopped engine from its collaborators.
func New(cfg Config) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Engine{
		sites:    cfg.Sites,
		tenants:  cfg.Tenants,
		records:  cfg.BillingRecords,
		state:    cfg.State,
		remote:   cfg.Remote,
		notifier: cfg.Notifier,
		interval: cfg.Interval,
		log:      logger.WithField("component", "sync"),
		cron:     cron.New(),
	}
}

// Start begins the periodic sync loop. The loop lives until Stop is
// called or ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)
	spec := fmt.Sprintf("@every %s", e.interval)
	if _, err := e.cron.AddFunc(spec, e.runSync); err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	e.cron.Start()
	e.kick()
	e.log.WithField("interval", e.interval.String()).Info("sync engine started")
	return nil
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	<-e.cron.Stop().Done()
	e.log.Info("sync engine stopped")
}

// kick schedules an immediate sync attempt without blocking the caller.
func (e *Engine) kick() {
	go e.runSync()
}

// runSync executes one sync attempt under the single-flight guard.
func (e *Engine) runSync() {
	if !e.inFlight.CompareAndSwap(false, true) {
		e.log.Debug("sync already in flight, skipping tick")
		return
	}
	defer e.inFlight.Store(false)
	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	e.syncOnce(ctx)
}

// syncOnce reads the local collections, merges them with the remote
// snapshot and writes the result back on both sides. Every failure mode
// is absorbed here; nothing propagates to callers.
func (e *Engine) syncOnce(ctx context.Context) {
	local, err := e.localSnapshot(ctx)
	if err != nil {
		e.log.WithError(err).Error("failed to read local collections")
		return
	}

	remote, err := e.remote.FetchSnapshot(ctx)
	if err != nil {
		e.log.WithError(err).Warn("shared-data endpoint unreachable, falling back to cached snapshot")
		e.syncWithCache(ctx, local)
		return
	}

	merged := MergeSnapshot(local, *remote)
	if err := e.persistLocal(ctx, merged); err != nil {
		e.log.WithError(err).Error("failed to persist merged collections")
		return
	}
	if err := e.remote.PushSnapshot(ctx, merged); err != nil {
		e.log.WithError(err).Warn("failed to push merged snapshot")
	}

	now := time.Now()
	merged.LastUpdated = now
	if err := e.state.SaveCachedSnapshot(ctx, merged); err != nil {
		e.log.WithError(err).Warn("failed to cache merged snapshot")
	}
	if err := e.state.SetLastSyncTime(ctx, now); err != nil {
		e.log.WithError(err).Warn("failed to record sync time")
	}

	e.notifyChange("sync")
	e.log.WithFields(log.Fields{
		"sites":   len(merged.Sites),
		"tenants": len(merged.Tenants),
		"records": len(merged.BillingRecords),
	}).Debug("sync completed")
}

// syncWithCache is the offline path: merge against the locally cached
// shared snapshot, gated on it being newer than the last recorded sync,
// then refresh the cache from the current local state.
func (e *Engine) syncWithCache(ctx context.Context, local models.SharedSnapshot) {
	cached, err := e.state.CachedSnapshot(ctx)
	if err != nil {
		e.log.WithError(err).Error("failed to read cached snapshot")
		return
	}
	lastSync, err := e.state.LastSyncTime(ctx)
	if err != nil {
		e.log.WithError(err).Error("failed to read last sync time")
		return
	}

	if cached != nil && cached.LastUpdated.After(lastSync) {
		merged := MergeSnapshot(local, *cached)
		if err := e.persistLocal(ctx, merged); err != nil {
			e.log.WithError(err).Error("failed to persist merged collections")
			return
		}
		local = merged
	}

	now := time.Now()
	local.LastUpdated = now
	if err := e.state.SaveCachedSnapshot(ctx, local); err != nil {
		e.log.WithError(err).Warn("failed to cache local snapshot")
	}
	if err := e.state.SetLastSyncTime(ctx, now); err != nil {
		e.log.WithError(err).Warn("failed to record sync time")
	}
}

func (e *Engine) localSnapshot(ctx context.Context) (models.SharedSnapshot, error) {
	sites, err := e.sites.All(ctx)
	if err != nil {
		return models.SharedSnapshot{}, err
	}
	tenants, err := e.tenants.All(ctx)
	if err != nil {
		return models.SharedSnapshot{}, err
	}
	records, err := e.records.All(ctx)
	if err != nil {
		return models.SharedSnapshot{}, err
	}
	return models.SharedSnapshot{Sites: sites, Tenants: tenants, BillingRecords: records}, nil
}

func (e *Engine) persistLocal(ctx context.Context, snapshot models.SharedSnapshot) error {
	if err := e.sites.ReplaceAll(ctx, snapshot.Sites); err != nil {
		return err
	}
	if err := e.tenants.ReplaceAll(ctx, snapshot.Tenants); err != nil {
		return err
	}
	return e.records.ReplaceAll(ctx, snapshot.BillingRecords)
}

func (e *Engine) notifyChange(kind string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.PublishChange(kind); err != nil {
		e.log.WithError(err).Debug("failed to publish change notification")
	}
}

// Sites returns the current local site collection.
func (e *Engine) Sites(ctx context.Context) ([]models.Site, error) {
	return e.sites.All(ctx)
}

// Tenants returns the current local tenant collection.
func (e *Engine) Tenants(ctx context.Context) ([]models.Tenant, error) {
	return e.tenants.All(ctx)
}

// BillingRecords returns the current local ledger.
func (e *Engine) BillingRecords(ctx context.Context) ([]models.BillingRecord, error) {
	return e.records.All(ctx)
}

// SaveSites overwrites the local site collection and triggers a sync.
func (e *Engine) SaveSites(ctx context.Context, sites []models.Site) error {
	if err := e.sites.ReplaceAll(ctx, sites); err != nil {
		return err
	}
	e.notifyChange("sites")
	e.kick()
	return nil
}

// SaveTenants overwrites the local tenant collection and triggers a sync.
func (e *Engine) SaveTenants(ctx context.Context, tenants []models.Tenant) error {
	if err := e.tenants.ReplaceAll(ctx, tenants); err != nil {
		return err
	}
	e.notifyChange("tenants")
	e.kick()
	return nil
}

// SaveBillingRecords overwrites the local ledger and triggers a sync.
func (e *Engine) SaveBillingRecords(ctx context.Context, records []models.BillingRecord) error {
	if err := e.records.ReplaceAll(ctx, records); err != nil {
		return err
	}
	e.notifyChange("billingRecords")
	e.kick()
	return nil
}

// AddBillingRecord appends one ledger entry and saves the collection.
func (e *Engine) AddBillingRecord(ctx context.Context, record models.BillingRecord) error {
	records, err := e.records.All(ctx)
	if err != nil {
		return err
	}
	return e.SaveBillingRecords(ctx, append(records, record))
}

// ImportSnapshot merges an externally supplied snapshot (a legacy data
// dump) into the local collections using the same union-by-id strategy,
// then triggers a sync.
func (e *Engine) ImportSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error {
	local, err := e.localSnapshot(ctx)
	if err != nil {
		return err
	}
	merged := MergeSnapshot(local, snapshot)
	if err := e.persistLocal(ctx, merged); err != nil {
		return err
	}
	e.notifyChange("import")
	e.kick()
	return nil
}
