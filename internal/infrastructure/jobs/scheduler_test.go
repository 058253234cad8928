package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

type memLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released []string
	err      error
}

func (l *memLocker) Obtain(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.held[key] {
		return nil, ErrLocked
	}
	l.held[key] = true
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released = append(l.released, key)
		return nil
	}, nil
}

func TestNextDailyRun(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)

	// 01:00 local → hoy a las 02:00
	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC) // 01:00 del 11 en loc
	next := NextDailyRun(now, 2, 0, loc)
	assert.Equal(t, time.Date(2026, 5, 11, 2, 0, 0, 0, loc), next)

	// exactamente a la hora → mañana
	now = time.Date(2026, 5, 11, 2, 0, 0, 0, loc)
	next = NextDailyRun(now, 2, 0, loc)
	assert.Equal(t, time.Date(2026, 5, 12, 2, 0, 0, 0, loc), next)

	// 23:30 → mañana
	now = time.Date(2026, 5, 11, 23, 30, 0, 0, loc)
	next = NextDailyRun(now, 2, 15, loc)
	assert.Equal(t, time.Date(2026, 5, 12, 2, 15, 0, 0, loc), next)
}

func TestRun_WithoutLocker(t *testing.T) {
	s := NewScheduler(Config{}, nil, nil, nil, logger.Nop())
	calls := 0
	ran := s.Run(context.Background(), JobAutoReplenish, time.Minute, func(context.Context) error {
		calls++
		return nil
	})
	assert.True(t, ran)
	assert.Equal(t, 1, calls)
}

func TestRun_SkipsWhenLockHeld(t *testing.T) {
	locker := &memLocker{held: map[string]bool{"jobs:" + JobAutoReplenish: true}}
	s := NewScheduler(Config{}, nil, nil, locker, logger.Nop())
	calls := 0
	ran := s.Run(context.Background(), JobAutoReplenish, time.Minute, func(context.Context) error {
		calls++
		return nil
	})
	assert.False(t, ran)
	assert.Zero(t, calls)
}

func TestRun_ReleasesLockAfterTask(t *testing.T) {
	locker := &memLocker{held: map[string]bool{}}
	s := NewScheduler(Config{}, nil, nil, locker, logger.Nop())

	ran := s.Run(context.Background(), JobTemperature, time.Minute, func(context.Context) error {
		return errors.New("boom")
	})
	assert.True(t, ran)
	assert.Equal(t, []string{"jobs:" + JobTemperature}, locker.released)
	assert.Empty(t, locker.held)
}

func TestRunDaily_OnlyOneReplicaPerDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	locker := &memLocker{held: map[string]bool{}}
	cfg := Config{DailyHour: 2, Location: loc}
	replicaA := NewScheduler(cfg, nil, nil, locker, logger.Nop())
	replicaB := NewScheduler(cfg, nil, nil, locker, logger.Nop())

	runs := 0
	task := func(context.Context) error {
		runs++
		return nil
	}
	scheduled := time.Date(2026, 5, 11, 2, 0, 0, 0, loc)

	assert.True(t, replicaA.RunDaily(context.Background(), scheduled, task))
	// la réplica B dispara segundos después, con la corrida de A ya terminada
	assert.False(t, replicaB.RunDaily(context.Background(), scheduled.Add(3*time.Second), task))
	assert.Equal(t, 1, runs)
	assert.Empty(t, locker.released)
	assert.True(t, locker.held["jobs:auto-replenish:2026-05-11"])

	// el día siguiente usa otra clave
	assert.True(t, replicaB.RunDaily(context.Background(), scheduled.AddDate(0, 0, 1), task))
	assert.Equal(t, 2, runs)
}

func TestRunDaily_KeepsLeaseOnFailure(t *testing.T) {
	locker := &memLocker{held: map[string]bool{}}
	s := NewScheduler(Config{}, nil, nil, locker, logger.Nop())
	scheduled := time.Date(2026, 5, 11, 2, 0, 0, 0, time.UTC)

	ran := s.RunDaily(context.Background(), scheduled, func(context.Context) error {
		return errors.New("boom")
	})
	assert.True(t, ran)
	assert.Empty(t, locker.released)
	assert.Equal(t, 12*time.Hour, s.cfg.DailyLockTTL)
}

func TestDailyLockKey_UsesLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 20:00 UTC del 10 = 03:00 del 11 en loc
	scheduled := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "jobs:auto-replenish:2026-05-11", DailyLockKey(scheduled, loc))
}

func TestRun_LockerError(t *testing.T) {
	locker := &memLocker{held: map[string]bool{}, err: errors.New("redis caído")}
	s := NewScheduler(Config{}, nil, nil, locker, logger.Nop())
	ran := s.Run(context.Background(), JobTemperature, time.Minute, func(context.Context) error { return nil })
	assert.False(t, ran)
}

func TestStart_TemperatureTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan struct{}, 10)
	s := NewScheduler(Config{
		TemperatureEnabled:  true,
		TemperatureInterval: 5 * time.Millisecond,
	}, nil, func(context.Context) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}, nil, logger.Nop())

	s.Start(ctx)
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("el tick de temperatura no se ejecutó")
	}
	cancel()
	s.Wait()
}
