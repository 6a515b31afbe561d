package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

type fakePurger struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakePurger) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func newRetentionJob(t *testing.T, repo *fakePurger, days int) *notificationRetentionJob {
	t.Helper()
	jobIface, err := NewNotificationRetentionJob(NotificationRetentionJobParams{
		Logger:        logger.Nop(),
		Repository:    repo,
		RetentionDays: days,
	})
	if err != nil {
		t.Fatalf("NewNotificationRetentionJob: %v", err)
	}
	job, ok := jobIface.(*notificationRetentionJob)
	if !ok {
		t.Fatalf("expected notificationRetentionJob, got %T", jobIface)
	}
	return job
}

func TestNotificationRetentionJobUsesCutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	repo := &fakePurger{deletedRows: 42}
	job := newRetentionJob(t, repo, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !repo.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestNotificationRetentionJobHonorsConfiguredDays(t *testing.T) {
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakePurger{}
	job := newRetentionJob(t, repo, 7)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.AddDate(0, 0, -7); !repo.lastCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, repo.lastCutoff)
	}
}

func TestNotificationRetentionJobPropagatesErrors(t *testing.T) {
	job := newRetentionJob(t, &fakePurger{err: errors.New("boom")}, 0)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewNotificationRetentionJobValidates(t *testing.T) {
	if _, err := NewNotificationRetentionJob(NotificationRetentionJobParams{Repository: &fakePurger{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewNotificationRetentionJob(NotificationRetentionJobParams{Logger: logger.Nop()}); err == nil {
		t.Fatal("expected error without repository")
	}
}
