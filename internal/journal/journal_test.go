package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaroslav/dpmigrate/pkg/apic"
	"github.com/yaroslav/dpmigrate/pkg/migrate"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(tenant, stage, status string) migrate.PushRecord {
	return migrate.PushRecord{
		RunID:   "run-1",
		Tenant:  tenant,
		App:     "shop",
		Actions: "revert,parameters",
		Stage:   stage,
		Status:  status,
		Payload: apic.NewObject(apic.ClassTenant, map[string]interface{}{apic.AttrName: tenant}),
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	rec := record("acme", migrate.StageCheckpoint, migrate.StatusPushed)
	rec.DryRun = true
	require.NoError(t, s.Record(ctx, rec))

	entries, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e, err := s.Get(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "run-1", e.RunID)
	assert.Equal(t, "acme", e.Tenant)
	assert.Equal(t, "shop", e.App)
	assert.Equal(t, migrate.StageCheckpoint, e.Stage)
	assert.True(t, e.DryRun)
	assert.True(t, fixed.Equal(e.RecordedAt))

	payload, err := e.PayloadObject()
	require.NoError(t, err)
	assert.Equal(t, apic.ClassTenant, payload.Class())
	assert.Equal(t, "acme", payload.GetAttrStr(apic.AttrName))
}

func TestStore_List(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, record("acme", migrate.StageCheckpoint, migrate.StatusPushed)))
	require.NoError(t, s.Record(ctx, record("other", migrate.StageFinal, migrate.StatusPushed)))
	fail := record("acme", migrate.StageFinal, migrate.StatusFailed)
	fail.Error = "push rejected"
	require.NoError(t, s.Record(ctx, fail))

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, migrate.StatusFailed, all[0].Status, "newest first")
	assert.Equal(t, "push rejected", all[0].Error)

	acme, err := s.List(ctx, Filter{Tenant: "acme"})
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	limited, err := s.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, record("acme", migrate.StageFinal, migrate.StatusPushed)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
