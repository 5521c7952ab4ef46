package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/cincodev/cinco-billing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the mongo-backed collections.
type memStore struct {
	mu       gosync.Mutex
	sites    []models.Site
	tenants  []models.Tenant
	records  []models.BillingRecord
	cached   *models.SharedSnapshot
	lastSync time.Time
	failAll  bool
}

type memSites struct{ s *memStore }

func (m memSites) All(ctx context.Context) ([]models.Site, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failAll {
		return nil, errors.New("store down")
	}
	return append([]models.Site(nil), m.s.sites...), nil
}

func (m memSites) ReplaceAll(ctx context.Context, sites []models.Site) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.sites = append([]models.Site(nil), sites...)
	return nil
}

type memTenants struct{ s *memStore }

func (m memTenants) All(ctx context.Context) ([]models.Tenant, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return append([]models.Tenant(nil), m.s.tenants...), nil
}

func (m memTenants) ReplaceAll(ctx context.Context, tenants []models.Tenant) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.tenants = append([]models.Tenant(nil), tenants...)
	return nil
}

type memRecords struct{ s *memStore }

func (m memRecords) All(ctx context.Context) ([]models.BillingRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return append([]models.BillingRecord(nil), m.s.records...), nil
}

func (m memRecords) ReplaceAll(ctx context.Context, records []models.BillingRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.records = append([]models.BillingRecord(nil), records...)
	return nil
}

type memState struct{ s *memStore }

func (m memState) CachedSnapshot(ctx context.Context) (*models.SharedSnapshot, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.cached, nil
}

func (m memState) SaveCachedSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.cached = &snapshot
	return nil
}

func (m memState) LastSyncTime(ctx context.Context) (time.Time, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.lastSync, nil
}

func (m memState) SetLastSyncTime(ctx context.Context, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.lastSync = at
	return nil
}

// fakeRemote implements Remote in memory.
type fakeRemote struct {
	mu       gosync.Mutex
	snapshot models.SharedSnapshot
	fetchErr error
	fetches  int
	pushes   []models.SharedSnapshot
}

func (r *fakeRemote) FetchSnapshot(ctx context.Context) (*models.SharedSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	snapshot := r.snapshot
	return &snapshot, nil
}

func (r *fakeRemote) PushSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, snapshot)
	return nil
}

type fakeNotifier struct {
	mu    gosync.Mutex
	kinds []string
}

func (n *fakeNotifier) PublishChange(kind string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

func newTestEngine(store *memStore, remote Remote, notifier Notifier) *Engine {
	return New(Config{
		Sites:          memSites{store},
		Tenants:        memTenants{store},
		BillingRecords: memRecords{store},
		State:          memState{store},
		Remote:         remote,
		Notifier:       notifier,
	})
}

func TestSyncOnce_MergesAndPushes(t *testing.T) {
	store := &memStore{
		sites:   []models.Site{{ID: "s1", Name: "Laguna"}},
		tenants: []models.Tenant{{ID: "t1", BaseRent: 5000}},
	}
	remote := &fakeRemote{snapshot: models.SharedSnapshot{
		Sites:          []models.Site{{ID: "s2", Name: "Pidanna"}},
		Tenants:        []models.Tenant{{ID: "t1", BaseRent: 9999}},
		BillingRecords: []models.BillingRecord{{ID: "r1"}},
	}}
	notifier := &fakeNotifier{}
	engine := newTestEngine(store, remote, notifier)

	engine.syncOnce(context.Background())

	// Local now holds the union; local tenant wins on the shared id.
	assert.Len(t, store.sites, 2)
	require.Len(t, store.tenants, 1)
	assert.Equal(t, 5000.0, store.tenants[0].BaseRent)
	assert.Len(t, store.records, 1)

	// The merged result was pushed back wholesale.
	require.Len(t, remote.pushes, 1)
	assert.Len(t, remote.pushes[0].Sites, 2)

	// Cache and sync time were refreshed.
	require.NotNil(t, store.cached)
	assert.False(t, store.cached.LastUpdated.IsZero())
	assert.False(t, store.lastSync.IsZero())

	assert.Contains(t, notifier.kinds, "sync")
}

func TestSyncOnce_RemoteDown_CachedNewerMerges(t *testing.T) {
	store := &memStore{
		sites: []models.Site{{ID: "s1"}},
		cached: &models.SharedSnapshot{
			Sites:       []models.Site{{ID: "s2"}},
			LastUpdated: time.Now(),
		},
		lastSync: time.Now().Add(-time.Minute),
	}
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}
	engine := newTestEngine(store, remote, nil)

	engine.syncOnce(context.Background())

	assert.Len(t, store.sites, 2, "cached snapshot merged in while offline")
	assert.Empty(t, remote.pushes)
	require.NotNil(t, store.cached)
	assert.Len(t, store.cached.Sites, 2, "cache refreshed from merged local state")
}

func TestSyncOnce_RemoteDown_CachedStaleSkipsMerge(t *testing.T) {
	store := &memStore{
		sites: []models.Site{{ID: "s1"}},
		cached: &models.SharedSnapshot{
			Sites:       []models.Site{{ID: "s2"}},
			LastUpdated: time.Now().Add(-time.Hour),
		},
		lastSync: time.Now(),
	}
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}
	engine := newTestEngine(store, remote, nil)

	engine.syncOnce(context.Background())

	assert.Len(t, store.sites, 1, "stale cache must not be merged")
	require.NotNil(t, store.cached)
	assert.Len(t, store.cached.Sites, 1, "cache still refreshed from local state")
}

func TestSyncOnce_StoreError_Absorbed(t *testing.T) {
	store := &memStore{failAll: true}
	remote := &fakeRemote{}
	engine := newTestEngine(store, remote, nil)

	// Must not panic and must not reach the remote.
	engine.syncOnce(context.Background())
	assert.Equal(t, 0, remote.fetches)
}

func TestRunSync_SingleFlight(t *testing.T) {
	store := &memStore{}
	remote := &fakeRemote{}
	engine := newTestEngine(store, remote, nil)

	engine.inFlight.Store(true)
	engine.runSync()
	assert.Equal(t, 0, remote.fetches, "a tick must be skipped while one is in flight")

	engine.inFlight.Store(false)
	engine.runSync()
	assert.Equal(t, 1, remote.fetches)
}

func TestSaveSites_PersistsAndNotifies(t *testing.T) {
	store := &memStore{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(store, &fakeRemote{}, notifier)

	err := engine.SaveSites(context.Background(), []models.Site{{ID: "s1"}})
	require.NoError(t, err)

	sites, err := engine.Sites(context.Background())
	require.NoError(t, err)
	assert.Len(t, sites, 1)
	assert.Contains(t, notifier.kinds, "sites")
}

func TestAddBillingRecord_Appends(t *testing.T) {
	store := &memStore{records: []models.BillingRecord{{ID: "r1"}}}
	engine := newTestEngine(store, &fakeRemote{}, nil)

	err := engine.AddBillingRecord(context.Background(), models.BillingRecord{ID: "r2"})
	require.NoError(t, err)

	records, err := engine.BillingRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestImportSnapshot_MergesIntoLocal(t *testing.T) {
	store := &memStore{sites: []models.Site{{ID: "s1", Name: "Laguna"}}}
	engine := newTestEngine(store, &fakeRemote{}, nil)

	err := engine.ImportSnapshot(context.Background(), models.SharedSnapshot{
		Sites:   []models.Site{{ID: "s1", Name: "Laguna (import)"}, {ID: "s2"}},
		Tenants: []models.Tenant{{ID: "t1"}},
	})
	require.NoError(t, err)

	assert.Len(t, store.sites, 2)
	assert.Equal(t, "Laguna", store.sites[0].Name, "local copy wins over the import")
	assert.Len(t, store.tenants, 1)
}

func TestEngine_StartStop(t *testing.T) {
	store := &memStore{}
	remote := &fakeRemote{}
	engine := New(Config{
		Sites:          memSites{store},
		Tenants:        memTenants{store},
		BillingRecords: memRecords{store},
		State:          memState{store},
		Remote:         remote,
		Interval:       time.Second,
	})

	require.NoError(t, engine.Start(context.Background()))
	// Start kicks an immediate sync.
	assert.Eventually(t, func() bool {
		remote.mu.Lock()
		defer remote.mu.Unlock()
		return remote.fetches >= 1
	}, 2*time.Second, 10*time.Millisecond)
	engine.Stop()
}
