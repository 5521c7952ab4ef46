package db

import (
	"context"
	"time"

	"github.com/cincodev/cinco-billing/internal/models"
)

// SiteCollection defines the interface for site data operations. The
// merge engine reads and writes collections wholesale, so the surface is
// deliberately list-shaped.
type SiteCollection interface {
	All(ctx context.Context) ([]models.Site, error)
	ReplaceAll(ctx context.Context, sites []models.Site) error
}

// TenantCollection defines the interface for tenant data operations.
type TenantCollection interface {
	All(ctx context.Context) ([]models.Tenant, error)
	ReplaceAll(ctx context.Context, tenants []models.Tenant) error
}

// BillingRecordCollection defines the interface for billing ledger
// operations. Records are append-only; there is no per-record update or
// delete.
type BillingRecordCollection interface {
	All(ctx context.Context) ([]models.BillingRecord, error)
	ReplaceAll(ctx context.Context, records []models.BillingRecord) error
}

// SyncStateCollection persists the cached shared snapshot and the last
// recorded sync time used by the offline fallback path.
type SyncStateCollection interface {
	CachedSnapshot(ctx context.Context) (*models.SharedSnapshot, error)
	SaveCachedSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error
	LastSyncTime(ctx context.Context) (time.Time, error)
	SetLastSyncTime(ctx context.Context, at time.Time) error
}

// DraftCollection persists the single working billing-data draft.
type DraftCollection interface {
	Draft(ctx context.Context) (*models.BillingData, error)
	SaveDraft(ctx context.Context, draft models.BillingData) error
}
