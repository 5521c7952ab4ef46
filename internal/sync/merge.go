// Package sync implements the shared-state merge engine: a periodic,
// best-effort reconciliation of the local entity collections with a
// remote shared snapshot. The merge is union-by-identifier: an entity
// missing on one side (by id) is added from the other, and an entity
// present on both sides keeps the local copy wholesale. Updates or
// deletes to a shared id are therefore last-write-wins and knowingly
// lossy; only additions are conflict-free.
package sync

import "github.com/cincodev/cinco-billing/internal/models"

func mergeByID[T any](local, remote []T, id func(T) string) []T {
	merged := make([]T, 0, len(local)+len(remote))
	merged = append(merged, local...)
	seen := make(map[string]struct{}, len(local))
	for _, item := range local {
		seen[id(item)] = struct{}{}
	}
	for _, item := range remote {
		if _, ok := seen[id(item)]; !ok {
			merged = append(merged, item)
		}
	}
	return merged
}

// MergeSites unions two site collections by id, local winning on overlap.
func MergeSites(local, remote []models.Site) []models.Site {
	return mergeByID(local, remote, func(s models.Site) string { return s.ID })
}

// MergeTenants unions two tenant collections by id, local winning on
// overlap.
func MergeTenants(local, remote []models.Tenant) []models.Tenant {
	return mergeByID(local, remote, func(t models.Tenant) string { return t.ID })
}

// MergeBillingRecords unions two ledger collections by id, local winning
// on overlap.
func MergeBillingRecords(local, remote []models.BillingRecord) []models.BillingRecord {
	return mergeByID(local, remote, func(r models.BillingRecord) string { return r.ID })
}

// MergeSnapshot merges every collection of a remote snapshot into the
// local one. The result's LastUpdated is left for the caller to stamp.
func MergeSnapshot(local, remote models.SharedSnapshot) models.SharedSnapshot {
	return models.SharedSnapshot{
		Sites:          MergeSites(local.Sites, remote.Sites),
		Tenants:        MergeTenants(local.Tenants, remote.Tenants),
		BillingRecords: MergeBillingRecords(local.BillingRecords, remote.BillingRecords),
	}
}
