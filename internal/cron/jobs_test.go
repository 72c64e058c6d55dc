package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePurger struct {
	lastCutoff time.Time
	deleted    int64
	err        error
	calls      int
}

func (f *fakePurger) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

type fakeEvicter struct {
	lastCutoff time.Time
	evicted    int
}

func (f *fakeEvicter) EvictIdle(cutoff time.Time) int {
	f.lastCutoff = cutoff
	return f.evicted
}

func TestSnapshotRetentionJobUsesRetentionWindow(t *testing.T) {
	now := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	repo := &fakePurger{deleted: 12}
	job := newSnapshotRetentionJob(t, repo, 720*time.Hour)
	job.now = func() time.Time { return now }

	deleted, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if deleted != 12 {
		t.Fatalf("expected 12 deleted, got %d", deleted)
	}
	if want := now.Add(-720 * time.Hour); !repo.lastCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, repo.lastCutoff)
	}
}

func TestSnapshotRetentionJobPropagatesErrors(t *testing.T) {
	job := newSnapshotRetentionJob(t, &fakePurger{err: errors.New("db closed")}, time.Hour)
	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSnapshotRetentionJobValidatesParams(t *testing.T) {
	cases := []SnapshotRetentionJobParams{
		{Repository: &fakePurger{}, Retention: time.Hour},
		{Logger: testLogger(), Retention: time.Hour},
		{Logger: testLogger(), Repository: &fakePurger{}},
	}
	for i, params := range cases {
		if _, err := NewSnapshotRetentionJob(params); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestSessionEvictionJobUsesIdleTTL(t *testing.T) {
	now := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	sessions := &fakeEvicter{evicted: 4}
	jobIface, err := NewSessionEvictionJob(SessionEvictionJobParams{
		Logger:   testLogger(),
		Sessions: sessions,
		IdleTTL:  2 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewSessionEvictionJob: %v", err)
	}
	job := jobIface.(*sessionEvictionJob)
	job.now = func() time.Time { return now }

	evicted, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if evicted != 4 {
		t.Fatalf("expected 4 evicted, got %d", evicted)
	}
	if want := now.Add(-2 * time.Hour); !sessions.lastCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, sessions.lastCutoff)
	}
	if job.Name() != SessionEvictionJobName {
		t.Fatalf("unexpected name %s", job.Name())
	}
}

func newSnapshotRetentionJob(t *testing.T, repo *fakePurger, retention time.Duration) *snapshotRetentionJob {
	t.Helper()
	jobIface, err := NewSnapshotRetentionJob(SnapshotRetentionJobParams{
		Logger:     testLogger(),
		Repository: repo,
		Retention:  retention,
	})
	if err != nil {
		t.Fatalf("NewSnapshotRetentionJob: %v", err)
	}
	job, ok := jobIface.(*snapshotRetentionJob)
	if !ok {
		t.Fatalf("expected snapshotRetentionJob, got %T", jobIface)
	}
	return job
}
